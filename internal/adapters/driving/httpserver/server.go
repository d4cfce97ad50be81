// Package httpserver serves the layout backend: the /custom-layout JSON
// API, rendered previews and a websocket feed of saved layouts.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Server is the layout backend.
type Server struct {
	router     *mux.Router
	store      driven.LayoutStore
	render     driving.RenderService
	publisher  driven.LayoutPublisher
	subscriber driven.LayoutSubscriber
	hub        *Hub
	now        func() time.Time
}

// NewServer creates a backend over store. render may be nil, in which
// case /preview is not served.
func NewServer(store driven.LayoutStore, render driving.RenderService) *Server {
	s := &Server{
		router: mux.NewRouter(),
		store:  store,
		render: render,
		hub:    NewHub(),
		now:    time.Now,
	}
	s.routes()
	return s
}

// SetPublisher announces every save through publisher, so other
// processes can refresh their previews.
func (s *Server) SetPublisher(publisher driven.LayoutPublisher) {
	s.publisher = publisher
}

// SetSubscriber feeds the preview hub from subscriber instead of from
// local saves. Use it when saves are already published, e.g. over Redis,
// so that viewers of every server instance see them once.
func (s *Server) SetSubscriber(subscriber driven.LayoutSubscriber) {
	s.subscriber = subscriber
}

// SetClock replaces the clock used to stamp undated layouts.
func (s *Server) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Server) routes() {
	r := s.router
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	r.HandleFunc("/custom-layout", s.handleGetLayout).Methods(http.MethodGet)
	r.HandleFunc("/custom-layout/", s.handleGetLayout).Methods(http.MethodGet)
	r.HandleFunc("/custom-layout/{restaurantId}", s.handleGetLayout).Methods(http.MethodGet)

	r.HandleFunc("/custom-layout", s.handleSaveLayout).Methods(http.MethodPost)
	r.HandleFunc("/custom-layout/", s.handleSaveLayout).Methods(http.MethodPost)
	r.HandleFunc("/custom-layout/{restaurantId}", s.handleSaveLayout).Methods(http.MethodPost)

	r.HandleFunc("/custom-layout/{restaurantId}", s.handleDeleteLayout).Methods(http.MethodDelete)

	r.HandleFunc("/preview/{restaurantId}", s.handlePreview).Methods(http.MethodGet)
	r.HandleFunc("/ws/{restaurantId}", s.handleWebSocket)

	r.Use(loggingMiddleware)
}

// Handler returns the HTTP handler with CORS applied outside routing.
func (s *Server) Handler() http.Handler {
	return corsMiddleware(s.router)
}

// Hub returns the preview hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start runs the preview hub and, when a subscriber is set, forwards its
// updates to the hub. Both stop when ctx is done.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	if s.subscriber == nil {
		return nil
	}
	updates, err := s.subscriber.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribing to layout updates: %w", err)
	}
	go func() {
		for update := range updates {
			if err := s.hub.Publish(ctx, update.Key, update.Snapshot); err != nil && ctx.Err() == nil {
				logger.Warn("Forwarding update for %s: %v", update.Key, err)
			}
		}
	}()
	return nil
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Start(ctx); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Layout backend listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
