// Package handler exposes the restaurant API over HTTP. Handlers decode
// JSON requests, delegate to the domain services, and map domain errors to
// status codes; no business rules live here.
package handler

import (
	"net/http"

	"github.com/varun0122/Restaurant-Management/internal/domain/auth"
	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
	"github.com/varun0122/Restaurant-Management/internal/domain/customer"
	"github.com/varun0122/Restaurant-Management/internal/domain/discount"
	"github.com/varun0122/Restaurant-Management/internal/domain/inventory"
	"github.com/varun0122/Restaurant-Management/internal/domain/menu"
	"github.com/varun0122/Restaurant-Management/internal/domain/order"
	"github.com/varun0122/Restaurant-Management/internal/domain/staff"
	"github.com/varun0122/Restaurant-Management/internal/events"
)

// Handler carries the domain dependencies for all API endpoints.
type Handler struct {
	menu      menu.Repository
	orders    *order.Service
	billing   *billing.Service
	discounts discount.Repository
	customers customer.Repository
	staff     staff.Repository
	inventory inventory.Repository
	tables    billing.TableDirectory
	bus       *events.Bus
	security  *Security
}

// Deps bundles the constructor arguments for Handler.
type Deps struct {
	Menu      menu.Repository
	Orders    *order.Service
	Billing   *billing.Service
	Discounts discount.Repository
	Customers customer.Repository
	Staff     staff.Repository
	Inventory inventory.Repository
	Tables    billing.TableDirectory
	Bus       *events.Bus
	APIKeys   auth.Repository
	Pepper    []byte
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		menu:      deps.Menu,
		orders:    deps.Orders,
		billing:   deps.Billing,
		discounts: deps.Discounts,
		customers: deps.Customers,
		staff:     deps.Staff,
		inventory: deps.Inventory,
		tables:    deps.Tables,
		bus:       deps.Bus,
		security:  NewSecurity(deps.APIKeys, deps.Pepper),
	}
}

// Routes registers every API endpoint on a fresh mux. All routes require an
// API key; write access past customer self-service needs the staff or admin
// scope.
func (h *Handler) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	authed := h.security.Authenticate
	staffOnly := func(fn http.HandlerFunc) http.Handler {
		return h.security.Authenticate(h.security.RequireScope(auth.ScopeStaff, auth.ScopeAdmin)(fn))
	}
	adminOnly := func(fn http.HandlerFunc) http.Handler {
		return h.security.Authenticate(h.security.RequireScope(auth.ScopeAdmin)(fn))
	}

	// Menu.
	mux.Handle("GET /api/menu", authed(http.HandlerFunc(h.ListMenu)))
	mux.Handle("GET /api/menu/categories", authed(http.HandlerFunc(h.ListCategories)))
	mux.Handle("GET /api/menu/dishes/{id}", authed(http.HandlerFunc(h.GetDish)))
	mux.Handle("POST /api/menu/dishes", adminOnly(h.CreateDish))
	mux.Handle("PUT /api/menu/dishes/{id}", adminOnly(h.UpdateDish))
	mux.Handle("DELETE /api/menu/dishes/{id}", adminOnly(h.DeleteDish))

	// Orders.
	mux.Handle("POST /api/orders", authed(http.HandlerFunc(h.PlaceOrder)))
	mux.Handle("GET /api/orders/kitchen", staffOnly(h.KitchenOrders))
	mux.Handle("GET /api/orders/history", authed(http.HandlerFunc(h.OrderHistory)))
	mux.Handle("GET /api/orders/stream", authed(http.HandlerFunc(h.StreamOrders)))
	mux.Handle("GET /api/orders/{id}", authed(http.HandlerFunc(h.GetOrder)))
	mux.Handle("PATCH /api/orders/{id}/status", staffOnly(h.UpdateOrderStatus))

	// Billing.
	mux.Handle("GET /api/bills", authed(http.HandlerFunc(h.ListBills)))
	mux.Handle("GET /api/bills/{id}", authed(http.HandlerFunc(h.GetBill)))
	mux.Handle("POST /api/bills/{id}/discount", authed(http.HandlerFunc(h.ApplyDiscount)))
	mux.Handle("DELETE /api/bills/{id}/discount", authed(http.HandlerFunc(h.RemoveDiscount)))
	mux.Handle("POST /api/bills/{id}/discount/resolve", staffOnly(h.ResolveDiscountRequest))
	mux.Handle("POST /api/bills/{id}/coins", authed(http.HandlerFunc(h.ApplyCoins)))
	mux.Handle("DELETE /api/bills/{id}/coins", authed(http.HandlerFunc(h.RemoveCoins)))
	mux.Handle("POST /api/bills/{id}/pay", staffOnly(h.PayBill))

	// Tables.
	mux.Handle("GET /api/tables", staffOnly(h.ListTables))

	// Discount administration.
	mux.Handle("GET /api/discounts", staffOnly(h.ListDiscounts))
	mux.Handle("POST /api/discounts", adminOnly(h.CreateDiscount))
	mux.Handle("PUT /api/discounts/{id}", adminOnly(h.UpdateDiscount))
	mux.Handle("DELETE /api/discounts/{id}", adminOnly(h.DeleteDiscount))

	// Customers.
	mux.Handle("GET /api/customers/me", authed(http.HandlerFunc(h.GetCurrentCustomer)))

	// Staff administration.
	mux.Handle("GET /api/staff", adminOnly(h.ListStaff))
	mux.Handle("POST /api/staff", adminOnly(h.CreateStaff))
	mux.Handle("PUT /api/staff/{id}", adminOnly(h.UpdateStaff))
	mux.Handle("DELETE /api/staff/{id}", adminOnly(h.DeleteStaff))

	// Inventory.
	mux.Handle("GET /api/inventory", staffOnly(h.ListIngredients))
	mux.Handle("GET /api/inventory/low", staffOnly(h.ListLowStock))
	mux.Handle("POST /api/inventory", staffOnly(h.CreateIngredient))
	mux.Handle("PUT /api/inventory/{id}", staffOnly(h.UpdateIngredient))
	mux.Handle("DELETE /api/inventory/{id}", staffOnly(h.DeleteIngredient))

	return mux
}
