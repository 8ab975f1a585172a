package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/varun0122/Restaurant-Management/internal/domain/billing"
	"github.com/varun0122/Restaurant-Management/internal/domain/menu"
)

// DishNotFoundError indicates a requested dish does not exist on the menu.
type DishNotFoundError struct {
	DishID int64
}

func (e *DishNotFoundError) Error() string {
	return fmt.Sprintf("dish %d not found", e.DishID)
}

// EventPublisher broadcasts order deltas to live viewers. Implementations
// must be safe for concurrent use.
type EventPublisher interface {
	PublishOrderUpdate(ctx context.Context, o *Order)
}

// PlaceOrderRequest holds the input for placing an order.
type PlaceOrderRequest struct {
	CustomerID  string
	TableNumber int
	Items       []RequestedItem
}

// RequestedItem is a dish reference and quantity from the client cart.
type RequestedItem struct {
	DishID   int64
	Quantity int
}

// Service encapsulates order placement and lifecycle business logic.
type Service struct {
	dishes menu.Repository
	orders Repository
	bills  billing.Repository
	events EventPublisher
	now    func() time.Time
}

// NewService creates an order Service with the required dependencies.
func NewService(dishes menu.Repository, orders Repository, bills billing.Repository, events EventPublisher) *Service {
	return &Service{
		dishes: dishes,
		orders: orders,
		bills:  bills,
		events: events,
		now:    time.Now,
	}
}

// PlaceOrder validates items, fetches dishes in a single batch, snapshots
// unit prices, persists the order as Pending, and broadcasts the new order
// to live viewers.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]int64, len(req.Items))
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, &InvalidQuantityError{DishID: item.DishID}
		}
		ids[i] = item.DishID
	}

	fetched, err := s.dishes.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get dishes: %w", err)
	}

	dishMap := make(map[int64]menu.Dish, len(fetched))
	for _, d := range fetched {
		dishMap[d.ID] = d
	}

	items := make([]LineItem, len(req.Items))
	for i, item := range req.Items {
		d, ok := dishMap[item.DishID]
		if !ok {
			return nil, &DishNotFoundError{DishID: item.DishID}
		}
		items[i] = LineItem{
			DishID:    d.ID,
			Name:      d.Name,
			UnitPrice: d.Price,
			Quantity:  item.Quantity,
		}
	}

	o := &Order{
		ID:          uuid.New().String(),
		CustomerID:  req.CustomerID,
		TableNumber: req.TableNumber,
		Items:       items,
		Status:      StatusPending,
		CreatedAt:   s.now(),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.events.PublishOrderUpdate(ctx, o)
	return o, nil
}

// UpdateStatus moves an order along its lifecycle. Serving an order attaches
// it to the table's open bill, creating the bill when the table has none.
// Every successful update is broadcast to live viewers.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, &InvalidTransitionError{To: next}
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !o.Status.CanTransition(next) {
		return nil, &InvalidTransitionError{From: o.Status, To: next}
	}

	o.Status = next

	if next == StatusServed && o.BillID == "" {
		bill, err := s.bills.GetOrCreateOpenForTable(ctx, o.TableNumber)
		if err != nil {
			return nil, fmt.Errorf("attach bill for table %d: %w", o.TableNumber, err)
		}
		o.BillID = bill.ID
	}

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, fmt.Errorf("update order %q: %w", orderID, err)
	}

	s.events.PublishOrderUpdate(ctx, o)
	return o, nil
}

// Get fetches a single order.
func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	return s.orders.Get(ctx, orderID)
}

// Kitchen returns all active orders, oldest first, for kitchen and status
// displays.
func (s *Service) Kitchen(ctx context.Context) ([]Order, error) {
	return s.orders.ListActive(ctx)
}

// History returns a customer's orders, newest first.
func (s *Service) History(ctx context.Context, customerID string) ([]Order, error) {
	return s.orders.ListByCustomer(ctx, customerID)
}
