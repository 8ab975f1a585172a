package handler

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/varun0122/Restaurant-Management/internal/domain/inventory"
)

type ingredientResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit,omitempty"`
	ReorderLevel string `json:"reorder_level"`
	Low          bool   `json:"low"`
}

func toIngredientResponse(ing *inventory.Ingredient) ingredientResponse {
	return ingredientResponse{
		ID:           ing.ID,
		Name:         ing.Name,
		Quantity:     ing.Quantity.String(),
		Unit:         ing.Unit,
		ReorderLevel: ing.ReorderLevel.String(),
		Low:          ing.Low(),
	}
}

// ListIngredients returns all stocked ingredients.
func (h *Handler) ListIngredients(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.inventory.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]ingredientResponse, len(ingredients))
	for i := range ingredients {
		out[i] = toIngredientResponse(&ingredients[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// ListLowStock returns ingredients at or below their reorder level.
func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	ingredients, err := h.inventory.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]ingredientResponse, 0)
	for i := range ingredients {
		if ingredients[i].Low() {
			out = append(out, toIngredientResponse(&ingredients[i]))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type ingredientRequest struct {
	Name         string `json:"name"`
	Quantity     string `json:"quantity"`
	Unit         string `json:"unit"`
	ReorderLevel string `json:"reorder_level"`
}

func (req *ingredientRequest) toDomain() (*inventory.Ingredient, error) {
	quantity, err := decimal.NewFromString(req.Quantity)
	if err != nil {
		return nil, err
	}
	reorder := decimal.Zero
	if req.ReorderLevel != "" {
		reorder, err = decimal.NewFromString(req.ReorderLevel)
		if err != nil {
			return nil, err
		}
	}
	return &inventory.Ingredient{
		Name:         req.Name,
		Quantity:     quantity,
		Unit:         req.Unit,
		ReorderLevel: reorder,
	}, nil
}

// CreateIngredient adds an ingredient to the inventory.
func (h *Handler) CreateIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ing, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quantity")
		return
	}

	if err := h.inventory.Create(r.Context(), ing); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toIngredientResponse(ing))
}

// UpdateIngredient rewrites an ingredient's stock record.
func (h *Handler) UpdateIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req ingredientRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ing, err := req.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid quantity")
		return
	}
	ing.ID = id

	if err := h.inventory.Update(r.Context(), ing); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toIngredientResponse(ing))
}

// DeleteIngredient removes an ingredient.
func (h *Handler) DeleteIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	if err := h.inventory.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
