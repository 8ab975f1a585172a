//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func dishIDByName(t *testing.T, name string) int64 {
	t.Helper()

	resp := doGetWithAuth(t, "/api/menu", staffKey)
	defer resp.Body.Close()

	dishes := decodeJSON[[]dishResponse](t, resp)
	for _, d := range dishes {
		if d.Name == name {
			return d.ID
		}
	}
	t.Fatalf("dish %q not seeded", name)
	return 0
}

func placeOrder(t *testing.T, apiKey string, tableNumber int, items ...orderItemRequest) orderResponse {
	t.Helper()

	resp := doPostWithAuth(t, "/api/orders", orderRequest{TableNumber: tableNumber, Items: items}, apiKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("place order: expected 201, got %d", resp.StatusCode)
	}
	return decodeJSON[orderResponse](t, resp)
}

func setOrderStatus(t *testing.T, orderID, status string) orderResponse {
	t.Helper()

	resp := doRequest(t, http.MethodPatch, "/api/orders/"+orderID+"/status", staffKey, map[string]string{"status": status})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set status %s: expected 200, got %d", status, resp.StatusCode)
	}
	return decodeJSON[orderResponse](t, resp)
}

func TestPlaceOrder_NoAuth(t *testing.T) {
	req := orderRequest{TableNumber: 1, Items: []orderItemRequest{{DishID: 1, Quantity: 1}}}
	resp := doPostWithAuth(t, "/api/orders", req, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_InvalidKey(t *testing.T) {
	req := orderRequest{TableNumber: 1, Items: []orderItemRequest{{DishID: 1, Quantity: 1}}}
	resp := doPostWithAuth(t, "/api/orders", req, "wrong-key")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_EmptyItems(t *testing.T) {
	req := orderRequest{TableNumber: 1, Items: []orderItemRequest{}}
	resp := doPostWithAuth(t, "/api/orders", req, customerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder_UnknownDish(t *testing.T) {
	req := orderRequest{TableNumber: 1, Items: []orderItemRequest{{DishID: 99999, Quantity: 1}}}
	resp := doPostWithAuth(t, "/api/orders", req, customerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestPlaceOrder(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	chai := dishIDByName(t, "Masala Chai")

	placed := placeOrder(t, customerKey, 2,
		orderItemRequest{DishID: dosa, Quantity: 2},
		orderItemRequest{DishID: chai, Quantity: 1},
	)

	if !uuidPattern.MatchString(placed.ID) {
		t.Errorf("order ID %q is not a UUID", placed.ID)
	}
	if placed.Status != "Pending" {
		t.Errorf("status: got %q, want Pending", placed.Status)
	}
	if placed.CustomerID == "" {
		t.Error("customer_id not bound from API key")
	}
	// 2 x 120.00 + 1 x 30.00
	if placed.Subtotal != "270.00" {
		t.Errorf("subtotal: got %q, want 270.00", placed.Subtotal)
	}
}

func TestOrderLifecycle(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	placed := placeOrder(t, customerKey, 3, orderItemRequest{DishID: dosa, Quantity: 1})

	for _, status := range []string{"Preparing", "Ready", "Served"} {
		got := setOrderStatus(t, placed.ID, status)
		if got.Status != status {
			t.Fatalf("status: got %q, want %q", got.Status, status)
		}
	}

	// Serving attaches the table's bill.
	resp := doGetWithAuth(t, "/api/orders/"+placed.ID, staffKey)
	defer resp.Body.Close()
	served := decodeJSON[orderResponse](t, resp)
	if served.BillID == "" {
		t.Error("served order has no bill")
	}
}

func TestOrderStatus_BackwardMoveRejected(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	placed := placeOrder(t, customerKey, 4, orderItemRequest{DishID: dosa, Quantity: 1})

	setOrderStatus(t, placed.ID, "Ready")

	resp := doRequest(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", staffKey, map[string]string{"status": "Pending"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestOrderStatus_CustomerForbidden(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	placed := placeOrder(t, customerKey, 5, orderItemRequest{DishID: dosa, Quantity: 1})

	resp := doRequest(t, http.MethodPatch, "/api/orders/"+placed.ID+"/status", customerKey, map[string]string{"status": "Preparing"})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}

func TestKitchenOrders(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	placed := placeOrder(t, customerKey, 6, orderItemRequest{DishID: dosa, Quantity: 1})

	resp := doGetWithAuth(t, "/api/orders/kitchen", staffKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	active := decodeJSON[[]orderResponse](t, resp)
	found := false
	for _, o := range active {
		if o.ID == placed.ID {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("placed order %s not in kitchen view", placed.ID)
	}
}

func TestOrderHistory(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	placed := placeOrder(t, customerKey, 7, orderItemRequest{DishID: dosa, Quantity: 1})

	resp := doGetWithAuth(t, "/api/orders/history", customerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	history := decodeJSON[[]orderResponse](t, resp)
	found := false
	for _, o := range history {
		if o.ID == placed.ID {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("placed order %s not in history", placed.ID)
	}
}
