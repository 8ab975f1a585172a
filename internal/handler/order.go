package handler

import (
	"net/http"
	"time"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

type lineItemResponse struct {
	DishID    int64  `json:"dish_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

type orderResponse struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id,omitempty"`
	TableNumber int                `json:"table_number"`
	Items       []lineItemResponse `json:"items"`
	Subtotal    string             `json:"subtotal"`
	Status      string             `json:"status"`
	BillID      string             `json:"bill_id,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]lineItemResponse, len(o.Items))
	for i, it := range o.Items {
		items[i] = lineItemResponse{
			DishID:    it.DishID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
		}
	}
	return orderResponse{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		TableNumber: o.TableNumber,
		Items:       items,
		Subtotal:    o.Subtotal().StringFixed(2),
		Status:      string(o.Status),
		BillID:      o.BillID,
		CreatedAt:   o.CreatedAt,
	}
}

func toOrderListResponse(orders []order.Order) []orderResponse {
	out := make([]orderResponse, len(orders))
	for i := range orders {
		out[i] = toOrderResponse(&orders[i])
	}
	return out
}

type placeOrderRequest struct {
	TableNumber int    `json:"table_number"`
	CustomerID  string `json:"customer_id,omitempty"`
	Items       []struct {
		DishID   int64 `json:"dish_id"`
		Quantity int   `json:"quantity"`
	} `json:"items"`
}

// PlaceOrder creates a new Pending order from the client cart. Customer keys
// always order as themselves; the customer_id field is honored only for
// staff placing an order on a guest's behalf.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	actor := ActorFromContext(r.Context())
	customerID := req.CustomerID
	if !actor.IsStaff() {
		customerID = actor.CustomerID
	}

	items := make([]order.RequestedItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = order.RequestedItem{DishID: it.DishID, Quantity: it.Quantity}
	}

	o, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		CustomerID:  customerID,
		TableNumber: req.TableNumber,
		Items:       items,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

// GetOrder returns a single order by ID.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateOrderStatus moves an order along its lifecycle.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.UpdateStatus(r.Context(), r.PathValue("id"), order.Status(req.Status))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

// KitchenOrders lists active orders, oldest first.
func (h *Handler) KitchenOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Kitchen(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}

// OrderHistory lists a customer's orders, newest first. Staff can inspect
// any customer via the customer_id query parameter.
func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	customerID := actor.CustomerID
	if actor.IsStaff() {
		customerID = r.URL.Query().Get("customer_id")
	}
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "customer identity required")
		return
	}

	orders, err := h.orders.History(r.Context(), customerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders))
}
