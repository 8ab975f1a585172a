package livefeed

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
)

// DefaultPollInterval fits kitchen and staff views; customer-facing views
// may poll less often.
const DefaultPollInterval = 10 * time.Second

// SnapshotFunc fetches the authoritative list of active orders.
type SnapshotFunc func(ctx context.Context) ([]order.Order, error)

// Watcher maintains a live view of active orders by combining periodic
// snapshots with pushed single-order updates. Snapshot responses are
// applied last-write-wins by issue order: a response from an earlier
// request never overwrites the result of a later one, even if it arrives
// afterwards. When the push channel closes the watcher keeps polling.
type Watcher struct {
	snapshot SnapshotFunc
	updates  <-chan order.Order
	interval time.Duration
	onChange func([]order.Order)

	mu   sync.RWMutex
	view []order.Order
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithInterval sets the poll interval.
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithUpdates attaches a push channel of single-order updates.
func WithUpdates(ch <-chan order.Order) Option {
	return func(w *Watcher) { w.updates = ch }
}

// WithOnChange registers a callback invoked with the new view after every
// applied change. Called from the watcher goroutine.
func WithOnChange(fn func([]order.Order)) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// NewWatcher builds a watcher around a snapshot source.
func NewWatcher(snapshot SnapshotFunc, opts ...Option) *Watcher {
	w := &Watcher{
		snapshot: snapshot,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Active returns a copy of the current view, oldest order first.
func (w *Watcher) Active() []order.Order {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]order.Order, len(w.view))
	copy(out, w.view)
	return out
}

type snapshotResult struct {
	seq    uint64
	orders []order.Order
	err    error
}

// Run fetches an initial snapshot and then keeps the view current until
// ctx is cancelled. Snapshot fetches run off the loop goroutine so a slow
// server never delays pushed updates.
func (w *Watcher) Run(ctx context.Context) error {
	if w.snapshot == nil {
		return errors.New("livefeed: snapshot source required")
	}

	results := make(chan snapshotResult, 1)
	var issued, applied uint64

	fetch := func() {
		issued++
		seq := issued
		go func() {
			orders, err := w.snapshot(ctx)
			select {
			case results <- snapshotResult{seq: seq, orders: orders, err: err}:
			case <-ctx.Done():
			}
		}()
	}
	fetch()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	updates := w.updates
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			fetch()
		case res := <-results:
			if res.seq <= applied {
				continue // superseded by a later request
			}
			applied = res.seq
			if res.err != nil {
				continue // keep the last good view, next tick retries
			}
			w.replace(res.orders)
		case delta, ok := <-updates:
			if !ok {
				// Push channel gone; polling carries the view from here.
				updates = nil
				continue
			}
			w.apply(delta)
		}
	}
}

func (w *Watcher) replace(orders []order.Order) {
	view := make([]order.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status.IsActive() {
			view = append(view, o)
		}
	}
	sortView(view)

	w.mu.Lock()
	w.view = view
	w.mu.Unlock()
	w.notify(view)
}

func (w *Watcher) apply(delta order.Order) {
	w.mu.Lock()
	view := Reconcile(w.view, delta)
	w.view = view
	w.mu.Unlock()
	w.notify(view)
}

func (w *Watcher) notify(view []order.Order) {
	if w.onChange == nil {
		return
	}
	out := make([]order.Order, len(view))
	copy(out, view)
	w.onChange(out)
}
