package mcp

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for tablesite. It serves one edit session for
// one restaurant; tool calls are serialised because the builder is not
// safe for concurrent use.
type Server struct {
	ports  *Ports
	server *mcp.Server
	key    string

	mu      sync.Mutex
	builder driving.BuilderService
	loaded  *domain.LoadResult
}

// NewServer creates an MCP server editing the layout of restaurantKey.
func NewServer(ports *Ports, restaurantKey string) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "tablesite",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
		key:    domain.RestaurantKey(restaurantKey),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// session returns the builder, opening it on first use. The caller must
// hold s.mu.
func (s *Server) session(ctx context.Context) (driving.BuilderService, error) {
	if s.builder != nil {
		return s.builder, nil
	}
	b, loaded, err := s.ports.Builders.Open(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("opening layout %s: %w", s.key, err)
	}
	if loaded.Warning != nil {
		logger.Warn("Layout %s loaded from %s: %v", s.key, loaded.Source, loaded.Warning)
	}
	s.builder = b
	s.loaded = loaded
	return b, nil
}

// withBuilder runs fn with the session builder under the lock.
func (s *Server) withBuilder(ctx context.Context, fn func(driving.BuilderService) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.session(ctx)
	if err != nil {
		return err
	}
	return fn(b)
}
