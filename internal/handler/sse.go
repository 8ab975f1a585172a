package handler

import (
	"net/http"
	"time"

	"github.com/varun0122/Restaurant-Management/internal/events"
)

// streamHeartbeat keeps idle SSE connections from being reaped by proxies.
const streamHeartbeat = 25 * time.Second

// StreamOrders exposes live order updates as Server-Sent Events. Each
// update is an `order_update` event carrying the full order object; clients
// reconcile deltas into their polled snapshot.
func (h *Handler) StreamOrders(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	updates, cancel := h.bus.Subscribe(16)
	defer cancel()

	heartbeat := time.NewTicker(streamHeartbeat)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": ping\n\n")); err != nil {
				return
			}
			flusher.Flush()
		case o, ok := <-updates:
			if !ok {
				return
			}
			if _, err := w.Write([]byte("event: order_update\ndata: ")); err != nil {
				return
			}
			if _, err := w.Write(events.EncodeOrder(&o)); err != nil {
				return
			}
			if _, err := w.Write([]byte("\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
