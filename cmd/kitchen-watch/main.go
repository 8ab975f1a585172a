// Command kitchen-watch renders a live terminal view of active orders. It
// polls the kitchen endpoint on an interval and merges pushed order updates
// from the server's event stream, so the view stays current even when the
// stream drops.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/varun0122/Restaurant-Management/internal/domain/order"
	"github.com/varun0122/Restaurant-Management/internal/events"
	"github.com/varun0122/Restaurant-Management/internal/livefeed"
)

func main() {
	var (
		baseURL  string
		apiKey   string
		interval time.Duration
	)

	flag.StringVar(&baseURL, "url", "http://localhost:8080", "API server base URL")
	flag.StringVar(&apiKey, "api-key", "", "staff API key (or RESTO_API_KEY env)")
	flag.DurationVar(&interval, "interval", livefeed.DefaultPollInterval, "poll interval")
	flag.Parse()

	if apiKey == "" {
		apiKey = os.Getenv("RESTO_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or RESTO_API_KEY")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, strings.TrimRight(baseURL, "/"), apiKey, interval); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("kitchen watch failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, baseURL, apiKey string, interval time.Duration) error {
	client := &apiClient{base: baseURL, key: apiKey, http: &http.Client{}}

	updates := make(chan order.Order, 16)
	watcher := livefeed.NewWatcher(client.kitchenSnapshot,
		livefeed.WithInterval(interval),
		livefeed.WithUpdates(updates),
		livefeed.WithOnChange(render),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		// The stream is best effort: on error the channel closes and the
		// watcher falls back to polling alone.
		defer close(updates)
		if err := client.streamUpdates(gctx, updates); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("event stream lost, polling only", slog.String("error", err.Error()))
		}
		return nil
	})
	return g.Wait()
}

type apiClient struct {
	base string
	key  string
	http *http.Client
}

type lineItemJSON struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

type orderJSON struct {
	ID          string          `json:"id"`
	TableNumber int             `json:"table_number"`
	Items       []lineItemJSON  `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Status      order.Status    `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (c *apiClient) kitchenSnapshot(ctx context.Context) ([]order.Order, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/orders/kitchen", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("api_key", c.key)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch kitchen orders")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch kitchen orders: status %d", resp.StatusCode)
	}

	var raw []orderJSON
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "decode kitchen orders")
	}

	orders := make([]order.Order, len(raw))
	for i, o := range raw {
		items := make([]order.LineItem, len(o.Items))
		for j, it := range o.Items {
			items[j] = order.LineItem{Name: it.Name, Quantity: it.Quantity}
		}
		orders[i] = order.Order{
			ID:          o.ID,
			TableNumber: o.TableNumber,
			Items:       items,
			Status:      o.Status,
			CreatedAt:   o.CreatedAt,
		}
	}
	return orders, nil
}

func (c *apiClient) streamUpdates(ctx context.Context, dst chan<- order.Order) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/orders/stream", nil)
	if err != nil {
		return err
	}
	req.Header.Set("api_key", c.key)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "open event stream")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("open event stream: status %d", resp.StatusCode)
	}

	var event, data string
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		case line == "":
			if event == "order_update" && data != "" {
				o, err := events.DecodeOrder([]byte(data))
				if err != nil {
					slog.Warn("skipping malformed update", slog.String("error", err.Error()))
				} else {
					select {
					case dst <- *o:
					case <-ctx.Done():
						return ctx.Err()
					}
				}
			}
			event, data = "", ""
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "read event stream")
	}
	return errors.New("event stream closed")
}

// render repaints the terminal with the current active orders.
func render(orders []order.Order) {
	fmt.Print("\033[2J\033[H")
	fmt.Printf("ACTIVE ORDERS — %s\n\n", time.Now().Format("15:04:05"))

	if len(orders) == 0 {
		fmt.Println("no active orders")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TABLE\tSTATUS\tAGE\tITEMS")
	for _, o := range orders {
		names := make([]string, len(o.Items))
		for i, it := range o.Items {
			names[i] = fmt.Sprintf("%dx %s", it.Quantity, it.Name)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			o.TableNumber, o.Status,
			time.Since(o.CreatedAt).Round(time.Second),
			strings.Join(names, ", "),
		)
	}
	w.Flush()
}
