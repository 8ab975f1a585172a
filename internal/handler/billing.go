package handler

import (
	"net/http"
	"time"

	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
)

type totalsResponse struct {
	Subtotal           string `json:"subtotal"`
	DiscountAmount     string `json:"discount_amount"`
	CoinDiscount       string `json:"coin_discount"`
	DiscountedSubtotal string `json:"discounted_subtotal"`
	TaxAmount          string `json:"tax_amount"`
	FinalAmount        string `json:"final_amount"`
}

func toTotalsResponse(t billing.Totals) totalsResponse {
	return totalsResponse{
		Subtotal:           t.Subtotal.StringFixed(2),
		DiscountAmount:     t.DiscountAmount.StringFixed(2),
		CoinDiscount:       t.CoinDiscount.StringFixed(2),
		DiscountedSubtotal: t.DiscountedSubtotal.StringFixed(2),
		TaxAmount:          t.TaxAmount.StringFixed(2),
		FinalAmount:        t.FinalAmount.StringFixed(2),
	}
}

type billResponse struct {
	ID                     string         `json:"id"`
	TableNumber            int            `json:"table_number"`
	DiscountCode           string         `json:"discount_code,omitempty"`
	DiscountRequestPending bool           `json:"discount_request_pending"`
	PendingDiscountCode    string         `json:"pending_discount_code,omitempty"`
	CoinsRedeemed          int            `json:"coins_redeemed"`
	IsPaid                 bool           `json:"is_paid"`
	CreatedAt              time.Time      `json:"created_at"`
	PaidAt                 *time.Time     `json:"paid_at,omitempty"`
	Version                int64          `json:"version"`
	Totals                 totalsResponse `json:"totals"`
}

func (h *Handler) toBillResponse(b *billing.Bill) billResponse {
	resp := billResponse{
		ID:                     b.ID,
		TableNumber:            b.TableNumber,
		DiscountRequestPending: b.DiscountRequestPending(),
		PendingDiscountCode:    b.PendingDiscountCode,
		CoinsRedeemed:          b.CoinsRedeemed,
		IsPaid:                 b.IsPaid,
		CreatedAt:              b.CreatedAt,
		PaidAt:                 b.PaidAt,
		Version:                b.Version,
		Totals:                 toTotalsResponse(h.billing.Totals(b)),
	}
	if b.AppliedDiscount != nil {
		resp.DiscountCode = b.AppliedDiscount.Code
	}
	return resp
}

func (h *Handler) toBillListResponse(bills []billing.Bill) []billResponse {
	out := make([]billResponse, len(bills))
	for i := range bills {
		out[i] = h.toBillResponse(&bills[i])
	}
	return out
}

// ListBills lists unpaid bills: all of them for staff, only the caller's own
// for customer keys.
func (h *Handler) ListBills(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())

	var (
		bills []billing.Bill
		err   error
	)
	if actor.IsStaff() {
		bills, err = h.billing.ListUnpaid(r.Context())
	} else {
		bills, err = h.billing.ListUnpaidForCustomer(r.Context(), actor.CustomerID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillListResponse(bills))
}

// GetBill returns a bill with its composed totals.
func (h *Handler) GetBill(w http.ResponseWriter, r *http.Request) {
	b, _, err := h.billing.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillResponse(b))
}

type applyDiscountRequest struct {
	Code string `json:"code"`
}

// ApplyDiscount applies a discount code to the bill. A discount that needs
// staff approval responds 202 with the request queued instead of changed
// totals.
func (h *Handler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	var req applyDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.billing.ApplyDiscount(r.Context(), r.PathValue("id"), req.Code, ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.ApprovalPending {
		status = http.StatusAccepted
	}
	writeJSON(w, status, h.toBillResponse(result.Bill))
}

// RemoveDiscount clears the applied discount and any pending request.
func (h *Handler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	b, err := h.billing.RemoveDiscount(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillResponse(b))
}

type resolveDiscountRequest struct {
	Approve bool `json:"approve"`
}

// ResolveDiscountRequest approves or rejects a pending discount request.
func (h *Handler) ResolveDiscountRequest(w http.ResponseWriter, r *http.Request) {
	var req resolveDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.billing.ResolveDiscountRequest(r.Context(), r.PathValue("id"), req.Approve, ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillResponse(b))
}

type applyCoinsRequest struct {
	Coins int `json:"coins"`
}

// ApplyCoins redeems loyalty coins against the bill.
func (h *Handler) ApplyCoins(w http.ResponseWriter, r *http.Request) {
	var req applyCoinsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	b, err := h.billing.ApplyCoins(r.Context(), r.PathValue("id"), req.Coins, ActorFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillResponse(b))
}

// RemoveCoins returns redeemed coins to the customer and clears the
// redemption.
func (h *Handler) RemoveCoins(w http.ResponseWriter, r *http.Request) {
	b, err := h.billing.RemoveCoins(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillResponse(b))
}

// PayBill settles the bill, making it immutable.
func (h *Handler) PayBill(w http.ResponseWriter, r *http.Request) {
	b, err := h.billing.MarkPaid(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.toBillResponse(b))
}

type tableResponse struct {
	Number     int    `json:"number"`
	OpenBillID string `json:"open_bill_id,omitempty"`
}

// ListTables lists dining tables with their open bills.
func (h *Handler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	out := make([]tableResponse, len(tables))
	for i, t := range tables {
		out[i] = tableResponse{Number: t.Number, OpenBillID: t.OpenBillID}
	}
	writeJSON(w, http.StatusOK, out)
}
