package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/tablesite/internal/core/domain"
)

// setupTestStore connects to the database named by TABLESITE_TEST_POSTGRES_DSN.
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("TABLESITE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TABLESITE_TEST_POSTGRES_DSN not set")
	}

	store, err := NewStore(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot(t *testing.T, title string, at time.Time) domain.Snapshot {
	t.Helper()
	l, err := domain.NewLayout(domain.NewComponent("hero-1", &domain.HeroConfig{Title: title}))
	require.NoError(t, err)
	return domain.NewSnapshot(l, at)
}

func TestStore_RoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	key := "test-" + t.Name()
	t.Cleanup(func() { _ = store.Delete(ctx, key) })
	at := time.Date(2024, 3, 5, 3, 7, 9, 123_000_000, time.UTC)

	_, err := store.Load(ctx, key)
	require.ErrorIs(t, err, domain.ErrNoLayout)

	require.NoError(t, store.Save(ctx, key, testSnapshot(t, "Welcome", at)))
	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.True(t, at.Equal(got.LastModified))
	assert.Equal(t, "Welcome", got.Components[0].Config.(*domain.HeroConfig).Title)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNoLayout)
}

func TestStore_Save_LastWriteWins(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	key := "test-" + t.Name()
	t.Cleanup(func() { _ = store.Delete(ctx, key) })
	now := time.Now()

	require.NoError(t, store.Save(ctx, key, testSnapshot(t, "newer", now)))
	require.NoError(t, store.Save(ctx, key, testSnapshot(t, "older", now.Add(-time.Hour))))
	require.NoError(t, store.Save(ctx, key, testSnapshot(t, "undated", time.Time{})))

	got, err := store.Load(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "newer", got.Components[0].Config.(*domain.HeroConfig).Title)
}

func TestStore_Save_EmptyKey(t *testing.T) {
	store := &Store{}

	err := store.Save(context.Background(), "", domain.Snapshot{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
