package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/adapters/driven/ids"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
	"github.com/custodia-labs/tablesite/internal/core/services"
)

type pageFunc func() (domain.Layout, error)

func (f pageFunc) DefaultPage() (domain.Layout, error) { return f() }

func welcomePage(t *testing.T) pageFunc {
	t.Helper()
	l, err := domain.NewLayout(
		domain.NewComponent("welcome", &domain.HeroConfig{Title: "Welcome to our kitchen"}),
	)
	require.NoError(t, err)
	return func() (domain.Layout, error) { return l, nil }
}

// mockBuilderFactory counts opens and can fail them.
type mockBuilderFactory struct {
	inner driving.BuilderFactory
	opens int
	err   error
}

func (m *mockBuilderFactory) Open(ctx context.Context, key string) (driving.BuilderService, *domain.LoadResult, error) {
	m.opens++
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.inner.Open(ctx, key)
}

type mockRender struct {
	markdown string
	err      error
}

func (m *mockRender) RenderHTML(domain.Layout, driving.RenderOptions) (string, error) {
	return "", errors.New("not used")
}

func (m *mockRender) RenderMarkdown(l domain.Layout) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.markdown, nil
}

type testEnv struct {
	server  *Server
	store   *memory.LayoutStore
	factory *mockBuilderFactory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewLayoutStore()
	gen := ids.NewSequence()
	registry := services.NewComponentRegistry(gen)
	layouts := services.NewLayoutService(store, memory.NewLayoutStore(), welcomePage(t))
	factory := &mockBuilderFactory{inner: services.NewBuilderFactory(layouts, registry, gen)}

	server, err := NewServer(&Ports{
		Builders: factory,
		Registry: registry,
		Render:   &mockRender{markdown: "# Welcome to our kitchen"},
	}, "spice-route")
	require.NoError(t, err)

	return &testEnv{server: server, store: store, factory: factory}
}
