package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/touchline-tv/touchline/internal/highlights"
)

// GoalEventsHandler streams goal events over SSE. It sits outside the
// OpenAPI surface; SSE does not fit the request/response schema model.
type GoalEventsHandler struct {
	watcher           *highlights.Watcher
	logger            *slog.Logger
	heartbeatInterval time.Duration
}

// NewGoalEventsHandler creates a goal event stream handler.
func NewGoalEventsHandler(watcher *highlights.Watcher, logger *slog.Logger) *GoalEventsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GoalEventsHandler{
		watcher:           watcher,
		logger:            logger,
		heartbeatInterval: 15 * time.Second,
	}
}

// ServeHTTP subscribes the client to goal events until it disconnects.
func (h *GoalEventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cancel := h.watcher.Subscribe()
	defer cancel()

	rc := http.NewResponseController(w)

	// Long-lived stream; the server's write timeout would cut it off.
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.logger.Debug("clearing write deadline failed", slog.String("error", err.Error()))
	}

	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	ctx := r.Context()

	// Establish the stream so the client's onopen fires.
	fmt.Fprintf(w, ":connected\n\n")
	if err := rc.Flush(); err != nil {
		h.logger.Debug("initial SSE flush failed", slog.String("error", err.Error()))
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-heartbeat.C:
			fmt.Fprintf(w, ":heartbeat %d\n\n", time.Now().Unix())
			if err := rc.Flush(); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.Warn("encoding goal event failed", slog.String("error", err.Error()))
				continue
			}
			fmt.Fprintf(w, "event: goal\ndata: %s\n\n", payload)
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
