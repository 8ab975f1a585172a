package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
	"github.com/varun0122/Restaurant-Management/internal/domain/customer"
	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
	"github.com/varun0122/Restaurant-Management/internal/domain/inventory"
	"github.com/varun0122/Restaurant-Management/internal/domain/loyalty"
	"github.com/varun0122/Restaurant-Management/internal/domain/menu"
	"github.com/varun0122/Restaurant-Management/internal/domain/order"
	"github.com/varun0122/Restaurant-Management/internal/domain/staff"
)

// decodeJSON parses the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errors.Wrap(err, "decode request body")
	}
	return nil
}

// writeJSON responds with the given status and JSON-encoded value.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responds with the standard error payload.
func writeError(w http.ResponseWriter, status int, message string) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("code")
	e.Int(status)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// respondError maps a domain error to a status code with its specific
// message. Unknown errors become an opaque 500 after logging.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if status, ok := errorStatus(err); ok {
		writeError(w, status, err.Error())
		return
	}
	zctx.From(r.Context()).Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

// errorStatus classifies the domain error taxonomy into HTTP statuses.
func errorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, billing.ErrNotFound),
		errors.Is(err, order.ErrNotFound),
		errors.Is(err, menu.ErrDishNotFound),
		errors.Is(err, customer.ErrNotFound),
		errors.Is(err, discount.ErrNotFound),
		errors.Is(err, inventory.ErrNotFound),
		errors.Is(err, staff.ErrNotFound):
		return http.StatusNotFound, true

	case errors.Is(err, order.ErrEmptyItems),
		errors.Is(err, loyalty.ErrInvalidCoinCount),
		errors.Is(err, billing.ErrCustomerRequired):
		return http.StatusBadRequest, true

	case errors.Is(err, billing.ErrStaffOnly):
		return http.StatusForbidden, true

	case errors.Is(err, billing.ErrDiscountAlreadyApplied),
		errors.Is(err, billing.ErrCoinsAlreadyApplied),
		errors.Is(err, billing.ErrStaleBill),
		errors.Is(err, billing.ErrBillPaid),
		errors.Is(err, billing.ErrNoPendingRequest),
		errors.Is(err, discount.ErrInvalidApprovalTransition):
		return http.StatusConflict, true

	case errors.Is(err, discount.ErrInactive),
		errors.Is(err, discount.ErrMinimumSpend),
		errors.Is(err, loyalty.ErrInsufficientCoins),
		errors.Is(err, customer.ErrInsufficientBalance):
		return http.StatusUnprocessableEntity, true
	}

	var (
		quantityErr   *order.InvalidQuantityError
		dishErr       *order.DishNotFoundError
		transitionErr *order.InvalidTransitionError
	)
	switch {
	case errors.As(err, &quantityErr):
		return http.StatusBadRequest, true
	case errors.As(err, &dishErr):
		return http.StatusUnprocessableEntity, true
	case errors.As(err, &transitionErr):
		return http.StatusConflict, true
	}

	return 0, false
}
