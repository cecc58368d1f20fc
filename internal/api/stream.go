package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/neexbeast/travelrec/internal/metrics"
	"github.com/neexbeast/travelrec/internal/view"
)

const streamPing = 30 * time.Second

type streamEvent struct {
	name string
	data []byte
}

// streamDisplay forwards a view session's writes to the event loop of one
// connection. Sends give up once the connection is gone so the clock
// goroutine never blocks on a dead client.
type streamDisplay struct {
	ctx    context.Context
	events chan streamEvent
}

func newStreamDisplay(ctx context.Context) *streamDisplay {
	return &streamDisplay{ctx: ctx, events: make(chan streamEvent, 16)}
}

func (d *streamDisplay) ShowCard(c view.Card) {
	data, _ := json.Marshal(c)
	d.send(streamEvent{name: "card", data: data})
}

func (d *streamDisplay) ShowStatus(line string) {
	data, _ := json.Marshal(map[string]string{"status": line})
	d.send(streamEvent{name: "time", data: data})
}

func (d *streamDisplay) send(ev streamEvent) {
	select {
	case d.events <- ev:
	case <-d.ctx.Done():
	}
}

// StreamFeatured handles GET /api/v1/featured/stream?q=.
// Each connection is its own view session: the featured card is sent as a
// "card" event and the live clock as one "time" event per tick.
func (h *Handlers) StreamFeatured(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming not supported"})
		return
	}

	// The stream outlives the server's write timeout.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx, cancel := context.WithCancel(r.Context())
	display := newStreamDisplay(ctx)
	ctrl := view.NewController(display, h.log,
		view.WithDefaultHint(h.defaultCity),
		view.WithClockOptions(h.clockOpts...),
	)
	initDone := make(chan struct{})

	// Unwind order: cancel releases any blocked send, the init goroutine
	// finishes, then Close stops the one remaining clock.
	defer ctrl.Close()
	defer func() { <-initDone }()
	defer cancel()

	metrics.StreamSessions.Inc()
	defer metrics.StreamSessions.Dec()

	log := h.log.With("session", ctrl.ID())
	log.Info("featured stream opened")
	defer log.Info("featured stream closed")

	go func() {
		defer close(initDone)
		defer func() {
			if rec := recover(); rec != nil {
				log.Error("view session panicked", "recover", rec)
				cancel()
			}
		}()
		if err := ctrl.Init(ctx, h.catalog); err != nil {
			return
		}
		if q := r.URL.Query().Get("q"); q != "" {
			ctrl.Search(q)
		}
	}()

	ping := time.NewTicker(streamPing)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-display.events:
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, ev.data); err != nil {
				return
			}
			flusher.Flush()
		case <-ping.C:
			fmt.Fprintf(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
