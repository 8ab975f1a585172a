// Package livefeed keeps a client-side view of active orders in sync with
// the server by merging periodic snapshots with pushed order updates.
package livefeed

import (
	"sort"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

// Reconcile merges a pushed order update into an active-order view and
// returns the new view, oldest order first. An update in an active status
// is upserted by order ID; an update in a terminal status removes the
// order. Applying the same update twice yields the same view.
func Reconcile(active []order.Order, delta order.Order) []order.Order {
	out := make([]order.Order, 0, len(active)+1)
	for _, o := range active {
		if o.ID != delta.ID {
			out = append(out, o)
		}
	}
	if delta.Status.IsActive() {
		out = append(out, delta)
	}
	sortView(out)
	return out
}

func sortView(view []order.Order) {
	sort.SliceStable(view, func(i, j int) bool {
		if view[i].CreatedAt.Equal(view[j].CreatedAt) {
			return view[i].ID < view[j].ID
		}
		return view[i].CreatedAt.Before(view[j].CreatedAt)
	})
}
