package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
)

const (
	maxRequestBytes = 4 << 20

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type layoutResponse struct {
	Success bool             `json:"success"`
	Layout  *domain.Snapshot `json:"layout"`
}

type saveRequest struct {
	Layout       *domain.Snapshot `json:"layout"`
	RestaurantID string           `json:"restaurantId"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// restaurantKey resolves the key from the path, then fallback, then the default.
func restaurantKey(r *http.Request, fallback string) string {
	if id := mux.Vars(r)["restaurantId"]; id != "" {
		return domain.RestaurantKey(id)
	}
	return domain.RestaurantKey(fallback)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, statusResponse{Success: false, Error: err.Error()})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleGetLayout returns the saved layout, or layout:null when none exists.
func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	key := restaurantKey(r, "")
	snapshot, err := s.store.Load(r.Context(), key)
	switch {
	case errors.Is(err, domain.ErrNoLayout):
		writeJSON(w, http.StatusOK, layoutResponse{Success: true})
	case err != nil:
		logger.Warn("Loading layout %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to load layout"))
	default:
		writeJSON(w, http.StatusOK, layoutResponse{Success: true, Layout: snapshot})
	}
}

// handleSaveLayout stores {layout, restaurantId}. The path id wins over
// the body's restaurantId.
func (s *Server) handleSaveLayout(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid layout: %w", err))
		return
	}
	if req.Layout == nil {
		writeError(w, http.StatusBadRequest, errors.New("layout is required"))
		return
	}
	if _, err := req.Layout.Layout(); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid layout: %w", err))
		return
	}

	snapshot := *req.Layout
	if snapshot.LastModified.IsZero() {
		snapshot.LastModified = s.now().UTC().Truncate(time.Millisecond)
	}
	key := restaurantKey(r, req.RestaurantID)

	if err := s.store.Save(r.Context(), key, snapshot); err != nil {
		logger.Warn("Saving layout %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to save layout"))
		return
	}
	logger.Debug("Saved layout %s (%d components)", key, len(snapshot.Components))

	s.announce(r.Context(), key, snapshot)
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

// announce tells viewers about a save. The store may have kept a newer
// layout, so the stored one is what gets announced.
func (s *Server) announce(ctx context.Context, key string, saved domain.Snapshot) {
	if stored, err := s.store.Load(ctx, key); err == nil {
		saved = *stored
	}

	if s.publisher != nil {
		update := driven.LayoutUpdate{Key: key, Snapshot: saved}
		if err := s.publisher.Publish(ctx, update); err != nil {
			logger.Warn("Publishing layout %s: %v", key, err)
		}
	}
	if s.subscriber == nil {
		if err := s.hub.Publish(ctx, key, saved); err != nil {
			logger.Warn("Notifying viewers of %s: %v", key, err)
		}
	}
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	key := restaurantKey(r, "")
	if err := s.store.Delete(r.Context(), key); err != nil {
		logger.Warn("Deleting layout %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, errors.New("failed to delete layout"))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

// handlePreview renders the saved layout. ?mode=edit adds builder controls.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if s.render == nil {
		http.Error(w, "preview not available", http.StatusNotImplemented)
		return
	}
	key := restaurantKey(r, "")

	var layout domain.Layout
	snapshot, err := s.store.Load(r.Context(), key)
	switch {
	case errors.Is(err, domain.ErrNoLayout):
	case err != nil:
		logger.Warn("Loading layout %s for preview: %v", key, err)
		http.Error(w, "failed to load layout", http.StatusInternalServerError)
		return
	default:
		if layout, err = snapshot.Layout(); err != nil {
			http.Error(w, "stored layout is invalid", http.StatusInternalServerError)
			return
		}
	}

	opts := driving.RenderOptions{EditMode: r.URL.Query().Get("mode") == "edit"}
	html, err := s.render.RenderHTML(layout, opts)
	if err != nil {
		logger.Warn("Rendering %s: %v", key, err)
		http.Error(w, "failed to render layout", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(html))
}

// handleWebSocket streams the current layout and then every save.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	key := restaurantKey(r, "")

	// Read before upgrading so the first message reflects the store.
	first := previewMessage{Type: msgSnapshot, RestaurantID: key}
	snapshot, err := s.store.Load(r.Context(), key)
	switch {
	case errors.Is(err, domain.ErrNoLayout):
	case err != nil:
		logger.Warn("Loading layout %s for viewer: %v", key, err)
		http.Error(w, "failed to load layout", http.StatusInternalServerError)
		return
	default:
		first.Layout = snapshot
	}
	data, err := json.Marshal(first)
	if err != nil {
		http.Error(w, "failed to encode layout", http.StatusInternalServerError)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade: %v", err)
		return
	}

	v := &viewer{
		id:   uuid.NewString(),
		key:  key,
		send: make(chan []byte, clientBuffer),
	}
	v.send <- data

	if !s.hub.join(v) {
		_ = conn.Close()
		return
	}

	go s.writePump(conn, v)
	go s.readPump(conn, v)
}

// readPump discards inbound messages and detects disconnects.
func (s *Server) readPump(conn *websocket.Conn, v *viewer) {
	defer func() {
		s.hub.leave(v)
		_ = conn.Close()
	}()

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("Viewer %s closed: %v", v.id, err)
			}
			return
		}
	}
}

// writePump sends queued messages and keeps the connection alive.
func (s *Server) writePump(conn *websocket.Conn, v *viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()

	for {
		select {
		case message, ok := <-v.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logger.Debug("Write to viewer %s: %v", v.id, err)
				s.hub.leave(v)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.hub.leave(v)
				return
			}
		}
	}
}
