//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// serveOrderOnTable places an order and walks it to Served, returning the
// bill it was attached to. Each caller uses its own table so bills do not
// interfere (one open bill per table).
func serveOrderOnTable(t *testing.T, tableNumber int, items ...orderItemRequest) string {
	t.Helper()

	placed := placeOrder(t, customerKey, tableNumber, items...)
	served := setOrderStatus(t, placed.ID, "Served")
	if served.BillID == "" {
		t.Fatal("served order has no bill")
	}
	return served.BillID
}

func getBill(t *testing.T, billID, apiKey string) billResponse {
	t.Helper()

	resp := doGetWithAuth(t, "/api/bills/"+billID, apiKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get bill: expected 200, got %d", resp.StatusCode)
	}
	return decodeJSON[billResponse](t, resp)
}

func coinBalance(t *testing.T) int {
	t.Helper()

	resp := doGetWithAuth(t, "/api/customers/me", customerKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get customer: expected 200, got %d", resp.StatusCode)
	}
	return decodeJSON[customerResponse](t, resp).LoyaltyCoins
}

func TestBillTotals(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	billID := serveOrderOnTable(t, 8, orderItemRequest{DishID: dosa, Quantity: 1})

	bill := getBill(t, billID, staffKey)
	if bill.Totals.Subtotal != "120.00" {
		t.Errorf("subtotal: got %q, want 120.00", bill.Totals.Subtotal)
	}
	if bill.Totals.TaxAmount != "6.00" {
		t.Errorf("tax: got %q, want 6.00", bill.Totals.TaxAmount)
	}
	if bill.Totals.FinalAmount != "126.00" {
		t.Errorf("final: got %q, want 126.00", bill.Totals.FinalAmount)
	}
}

func TestApplyDiscount_Percentage(t *testing.T) {
	tikka := dishIDByName(t, "Paneer Tikka")
	dosa := dishIDByName(t, "Masala Dosa")
	billID := serveOrderOnTable(t, 9,
		orderItemRequest{DishID: tikka, Quantity: 1},
		orderItemRequest{DishID: dosa, Quantity: 1},
	)

	resp := doPostWithAuth(t, "/api/bills/"+billID+"/discount", map[string]string{"code": "WELCOME10"}, staffKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	bill := decodeJSON[billResponse](t, resp)
	if bill.DiscountCode != "WELCOME10" {
		t.Errorf("discount_code: got %q, want WELCOME10", bill.DiscountCode)
	}
	// 300 - 10% = 270, +5% tax = 283.50
	if bill.Totals.DiscountAmount != "30.00" {
		t.Errorf("discount: got %q, want 30.00", bill.Totals.DiscountAmount)
	}
	if bill.Totals.FinalAmount != "283.50" {
		t.Errorf("final: got %q, want 283.50", bill.Totals.FinalAmount)
	}
}

func TestApplyDiscount_BelowMinimumSpend(t *testing.T) {
	chai := dishIDByName(t, "Masala Chai")
	billID := serveOrderOnTable(t, 10, orderItemRequest{DishID: chai, Quantity: 1})

	resp := doPostWithAuth(t, "/api/bills/"+billID+"/discount", map[string]string{"code": "FLAT50"}, staffKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
}

func TestApplyDiscount_ApprovalFlow(t *testing.T) {
	chicken := dishIDByName(t, "Butter Chicken")
	billID := serveOrderOnTable(t, 11, orderItemRequest{DishID: chicken, Quantity: 2})

	// FESTIVE20 needs staff approval: a customer request queues instead of
	// changing totals.
	resp := doPostWithAuth(t, "/api/bills/"+billID+"/discount", map[string]string{"code": "FESTIVE20"}, customerKey)
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	pending := decodeJSON[billResponse](t, resp)
	resp.Body.Close()

	if !pending.DiscountRequestPending {
		t.Error("discount request not pending")
	}
	if pending.Totals.DiscountAmount != "0.00" {
		t.Errorf("pending request changed totals: discount %q", pending.Totals.DiscountAmount)
	}

	resp = doPostWithAuth(t, "/api/bills/"+billID+"/discount/resolve", map[string]bool{"approve": true}, staffKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d", resp.StatusCode)
	}

	approved := decodeJSON[billResponse](t, resp)
	if approved.DiscountCode != "FESTIVE20" {
		t.Errorf("discount_code: got %q, want FESTIVE20", approved.DiscountCode)
	}
	// 580 - 20% = 464, +5% tax = 487.20
	if approved.Totals.FinalAmount != "487.20" {
		t.Errorf("final: got %q, want 487.20", approved.Totals.FinalAmount)
	}
}

func TestCoinRedemption(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	billID := serveOrderOnTable(t, 12, orderItemRequest{DishID: dosa, Quantity: 1})

	before := coinBalance(t)
	if before < 100 {
		t.Skipf("demo customer has only %d coins", before)
	}

	resp := doPostWithAuth(t, "/api/bills/"+billID+"/coins", map[string]int{"coins": 100}, customerKey)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	bill := decodeJSON[billResponse](t, resp)
	resp.Body.Close()

	if bill.CoinsRedeemed != 100 {
		t.Errorf("coins_redeemed: got %d, want 100", bill.CoinsRedeemed)
	}
	// 10 coins = 1 rupee: 120 - 10 = 110, +5% tax = 115.50
	if bill.Totals.CoinDiscount != "10.00" {
		t.Errorf("coin_discount: got %q, want 10.00", bill.Totals.CoinDiscount)
	}
	if bill.Totals.FinalAmount != "115.50" {
		t.Errorf("final: got %q, want 115.50", bill.Totals.FinalAmount)
	}

	if after := coinBalance(t); after != before-100 {
		t.Errorf("balance: got %d, want %d", after, before-100)
	}

	// Removing the redemption refunds the coins.
	resp = doRequest(t, http.MethodDelete, "/api/bills/"+billID+"/coins", customerKey, nil)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove coins: expected 200, got %d", resp.StatusCode)
	}
	if after := coinBalance(t); after != before {
		t.Errorf("balance after refund: got %d, want %d", after, before)
	}
}

func TestPayBill(t *testing.T) {
	dosa := dishIDByName(t, "Masala Dosa")
	billID := serveOrderOnTable(t, 8, orderItemRequest{DishID: dosa, Quantity: 1})

	resp := doPostWithAuth(t, "/api/bills/"+billID+"/pay", nil, staffKey)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pay: expected 200, got %d", resp.StatusCode)
	}
	paid := decodeJSON[billResponse](t, resp)
	resp.Body.Close()

	if !paid.IsPaid {
		t.Error("bill not marked paid")
	}

	// Paid bills are immutable.
	resp = doPostWithAuth(t, "/api/bills/"+billID+"/discount", map[string]string{"code": "WELCOME10"}, staffKey)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	// Serving another order on the same table opens a fresh bill.
	newBillID := serveOrderOnTable(t, 8, orderItemRequest{DishID: dosa, Quantity: 1})
	if newBillID == billID {
		t.Error("paid bill was reused for a new order")
	}
}
