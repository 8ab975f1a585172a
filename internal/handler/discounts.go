package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
)

type discountResponse struct {
	ID                    int64  `json:"id"`
	Code                  string `json:"code"`
	Kind                  string `json:"kind"`
	Value                 string `json:"value"`
	IsActive              bool   `json:"is_active"`
	RequiresStaffApproval bool   `json:"requires_staff_approval"`
	MinimumBillAmount     string `json:"minimum_bill_amount"`
}

func toDiscountResponse(d *discount.Definition) discountResponse {
	return discountResponse{
		ID:                    d.ID,
		Code:                  d.Code,
		Kind:                  string(d.Kind),
		Value:                 d.Value.StringFixed(2),
		IsActive:              d.IsActive,
		RequiresStaffApproval: d.RequiresStaffApproval,
		MinimumBillAmount:     d.MinimumBillAmount.StringFixed(2),
	}
}

// ListDiscounts returns all discount definitions.
func (h *Handler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	defs, err := h.discounts.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]discountResponse, len(defs))
	for i := range defs {
		out[i] = toDiscountResponse(&defs[i])
	}
	writeJSON(w, http.StatusOK, out)
}

type discountRequest struct {
	Code                  string `json:"code"`
	Kind                  string `json:"kind"`
	Value                 string `json:"value"`
	IsActive              bool   `json:"is_active"`
	RequiresStaffApproval bool   `json:"requires_staff_approval"`
	MinimumBillAmount     string `json:"minimum_bill_amount,omitempty"`
}

func (req *discountRequest) toDomain() (*discount.Definition, error) {
	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return nil, err
	}
	minimum := decimal.Zero
	if req.MinimumBillAmount != "" {
		minimum, err = decimal.NewFromString(req.MinimumBillAmount)
		if err != nil {
			return nil, err
		}
	}
	return &discount.Definition{
		Code:                  req.Code,
		Kind:                  discount.Kind(req.Kind),
		Value:                 value,
		IsActive:              req.IsActive,
		RequiresStaffApproval: req.RequiresStaffApproval,
		MinimumBillAmount:     minimum,
	}, nil
}

// CreateDiscount adds a new discount definition.
func (h *Handler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	def, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	if def.Code == "" || (def.Kind != discount.KindPercentage && def.Kind != discount.KindFixed) {
		writeError(w, http.StatusBadRequest, "code and a valid kind are required")
		return
	}

	if err := h.discounts.Create(r.Context(), def); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDiscountResponse(def))
}

// UpdateDiscount rewrites an existing discount definition.
func (h *Handler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	def, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	def.ID = id

	if err := h.discounts.Update(r.Context(), def); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toDiscountResponse(def))
}

// DeleteDiscount removes a discount definition.
func (h *Handler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.discounts.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
