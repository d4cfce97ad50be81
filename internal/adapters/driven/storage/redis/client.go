// Package redis stores layouts in Redis and fans out save notifications
// over Redis Pub/Sub, so every preview server sees every save.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// Ensure Client implements the interfaces.
var (
	_ driven.LayoutStore      = (*Client)(nil)
	_ driven.LayoutPublisher  = (*Client)(nil)
	_ driven.LayoutSubscriber = (*Client)(nil)
)

// maxTxRetries bounds optimistic-lock retries when saves race.
const maxTxRetries = 5

// eventBuffer is the capacity of subscription channels.
const eventBuffer = 16

// Client stores layouts under namespaced keys and publishes an update
// after each save. All keys and the channel share the namespace.
type Client struct {
	rdb       *goredis.Client
	namespace string
}

// NewClient creates a client for namespace. The connection is lazy; use
// Ping to verify it.
func NewClient(opts *goredis.Options, namespace string) (*Client, error) {
	if namespace == "" {
		return nil, fmt.Errorf("%w: redis namespace cannot be empty", domain.ErrInvalidInput)
	}
	return &Client{
		rdb:       goredis.NewClient(opts),
		namespace: namespace,
	}, nil
}

// Close closes the connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping verifies the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Client) layoutKey(key string) string {
	return c.namespace + ":layout:" + key
}

func (c *Client) eventsChannel() string {
	return c.namespace + ":layout_events"
}

// Load returns the saved snapshot for key.
func (c *Client) Load(ctx context.Context, key string) (*domain.Snapshot, error) {
	raw, err := c.rdb.Get(ctx, c.layoutKey(key)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoLayout, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading layout from redis: %w", err)
	}
	return decodeSnapshot(raw)
}

// Save writes snapshot unless the stored one is newer. The read and the
// write run under WATCH so concurrent saves cannot interleave.
func (c *Client) Save(ctx context.Context, key string, snapshot domain.Snapshot) error {
	if key == "" {
		return domain.ErrInvalidInput
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshalling snapshot: %w", err)
	}
	redisKey := c.layoutKey(key)

	txn := func(tx *goredis.Tx) error {
		existing, err := tx.Get(ctx, redisKey).Bytes()
		switch {
		case errors.Is(err, goredis.Nil):
		case err != nil:
			return err
		default:
			stored, err := decodeSnapshot(existing)
			if err == nil && snapshot.LastModified.Before(stored.LastModified) {
				logger.Debug("Skipping stale save for %s", key)
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			pipe.Set(ctx, redisKey, raw, 0)
			return nil
		})
		return err
	}

	for range maxTxRetries {
		err = c.rdb.Watch(ctx, txn, redisKey)
		if !errors.Is(err, goredis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("writing layout to redis: %w", err)
	}
	return nil
}

// Delete removes the saved layout for key.
func (c *Client) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, c.layoutKey(key)).Err(); err != nil {
		return fmt.Errorf("deleting layout from redis: %w", err)
	}
	return nil
}

// Publish announces a saved layout on the events channel.
func (c *Client) Publish(ctx context.Context, update driven.LayoutUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshalling layout update: %w", err)
	}
	if err := c.rdb.Publish(ctx, c.eventsChannel(), payload).Err(); err != nil {
		return fmt.Errorf("publishing layout update: %w", err)
	}
	return nil
}

// Subscribe delivers layout updates until ctx is cancelled, then closes
// the channel. Malformed messages are logged and skipped. Delivery is
// at-most-once: a slow reader can miss updates.
func (c *Client) Subscribe(ctx context.Context) (<-chan driven.LayoutUpdate, error) {
	pubsub := c.rdb.Subscribe(ctx, c.eventsChannel())
	// Wait for the subscription to be confirmed so no update published
	// after Subscribe returns is lost.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribing to layout updates: %w", err)
	}

	out := make(chan driven.LayoutUpdate, eventBuffer)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update driven.LayoutUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					logger.Warn("Ignoring malformed layout update: %v", err)
					continue
				}
				select {
				case out <- update:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func decodeSnapshot(raw []byte) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshalling snapshot: %w", err)
	}
	return &snapshot, nil
}
