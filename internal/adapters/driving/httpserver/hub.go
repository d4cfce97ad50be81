package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"runtime/debug"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/logger"
)

var errHubStopped = errors.New("preview hub stopped")

// clientBuffer is the number of queued messages a slow viewer may fall behind.
const clientBuffer = 16

// Message types sent to preview viewers.
const (
	msgSnapshot      = "snapshot"
	msgLayoutUpdated = "layout_updated"
)

// previewMessage is the JSON sent over the preview websocket.
type previewMessage struct {
	Type         string           `json:"type"`
	RestaurantID string           `json:"restaurantId"`
	Layout       *domain.Snapshot `json:"layout"`
}

// viewer is one websocket connection watching a restaurant's layout.
type viewer struct {
	id   string
	key  string
	send chan []byte
}

// broadcast is a message for every viewer of key.
type broadcast struct {
	key  string
	data []byte
}

// Hub fans saved layouts out to preview viewers. All viewer bookkeeping
// happens on the Run goroutine.
type Hub struct {
	register   chan *viewer
	unregister chan *viewer
	broadcast  chan broadcast
	viewers    map[string]map[*viewer]struct{}
	count      chan chan int
	done       chan struct{}
}

// NewHub creates a hub. Call Run before registering viewers.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *viewer),
		unregister: make(chan *viewer),
		broadcast:  make(chan broadcast, 64),
		viewers:    make(map[string]map[*viewer]struct{}),
		count:      make(chan chan int),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is done, then closes every viewer.
// Run must be called at most once.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	defer func() {
		if rec := recover(); rec != nil {
			logger.Warn("panic in preview hub: %v\n%s", rec, debug.Stack())
		}
		for _, set := range h.viewers {
			for v := range set {
				close(v.send)
			}
		}
		h.viewers = map[string]map[*viewer]struct{}{}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case v := <-h.register:
			set, ok := h.viewers[v.key]
			if !ok {
				set = make(map[*viewer]struct{})
				h.viewers[v.key] = set
			}
			set[v] = struct{}{}
			logger.Debug("Viewer %s watching %s (%d viewers)", v.id, v.key, len(set))

		case v := <-h.unregister:
			h.drop(v)

		case msg := <-h.broadcast:
			for v := range h.viewers[msg.key] {
				select {
				case v.send <- msg.data:
				default:
					logger.Warn("Dropping slow viewer %s", v.id)
					h.drop(v)
				}
			}

		case reply := <-h.count:
			n := 0
			for _, set := range h.viewers {
				n += len(set)
			}
			reply <- n
		}
	}
}

// drop removes v and closes its send channel once.
func (h *Hub) drop(v *viewer) {
	set, ok := h.viewers[v.key]
	if !ok {
		return
	}
	if _, ok := set[v]; !ok {
		return
	}
	delete(set, v)
	close(v.send)
	if len(set) == 0 {
		delete(h.viewers, v.key)
	}
	logger.Debug("Viewer %s left %s", v.id, v.key)
}

// Publish queues a layout_updated message for viewers of key.
func (h *Hub) Publish(ctx context.Context, key string, snapshot domain.Snapshot) error {
	data, err := json.Marshal(previewMessage{
		Type:         msgLayoutUpdated,
		RestaurantID: key,
		Layout:       &snapshot,
	})
	if err != nil {
		return err
	}
	select {
	case <-h.done:
		return errHubStopped
	default:
	}
	select {
	case h.broadcast <- broadcast{key: key, data: data}:
		return nil
	case <-h.done:
		return errHubStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Viewers returns the number of connected viewers.
func (h *Hub) Viewers(ctx context.Context) int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
	case <-h.done:
		return 0
	case <-ctx.Done():
		return 0
	}
	select {
	case n := <-reply:
		return n
	case <-ctx.Done():
		return 0
	}
}

// join registers a viewer, or returns false if the hub has stopped.
func (h *Hub) join(v *viewer) bool {
	select {
	case h.register <- v:
		return true
	case <-h.done:
		return false
	}
}

// leave unregisters a viewer. It never blocks once the hub has stopped.
func (h *Hub) leave(v *viewer) {
	select {
	case h.unregister <- v:
	case <-h.done:
	}
}
