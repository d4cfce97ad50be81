package main

import (
	"context"
	"fmt"
	"path/filepath"

	goredis "github.com/redis/go-redis/v9"

	"github.com/custodia-labs/tablesite/internal/adapters/driven/config/file"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/gateway/httpapi"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/ids"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/markdown"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/sanitize"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/filecache"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/postgres"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/tablesite/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/cli"
	"github.com/custodia-labs/tablesite/internal/adapters/driving/httpserver"
	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/services"
	"github.com/custodia-labs/tablesite/internal/logger"
)

// redisNamespace prefixes every key and channel the server uses in Redis.
const redisNamespace = "tablesite"

// wire builds the services the commands run against. The returned
// cleanup closes whatever was opened.
func wire() (*cli.Services, func(), error) {
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("Closing resource: %v", err)
			}
		}
		closers = nil
	}

	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	pages, err := file.NewPageStore("")
	if err != nil {
		return nil, nil, fmt.Errorf("opening default page: %w", err)
	}

	gateway, err := httpapi.NewClient(httpapi.Config{
		BaseURL:   settings.Backend.URL,
		Timeout:   settings.Backend.Timeout,
		RateLimit: settings.Backend.RateLimit,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("configuring backend client: %w", err)
	}

	cache, closeCache, err := openCache(settings.Cache)
	if err != nil {
		return nil, nil, err
	}
	if closeCache != nil {
		closers = append(closers, closeCache)
	}

	layouts := services.NewLayoutService(gateway, cache, pages)
	layouts.SetSanitizer(sanitize.New())

	idGen := ids.NewUUID()
	registry := services.NewComponentRegistry(idGen)
	render := services.NewRenderService(pages, markdown.New(""))

	return &cli.Services{
		Layouts:  layouts,
		Builders: services.NewBuilderFactory(layouts, registry, idGen),
		Registry: registry,
		Render:   render,
		Settings: settingsService,
		Backend:  backendOpener(settings.Storage, render),
	}, cleanup, nil
}

// openCache opens the builder's local fallback cache.
func openCache(cfg domain.CacheSettings) (driven.LayoutCache, func() error, error) {
	switch cfg.Driver {
	case domain.CacheSQLite:
		path := ""
		if cfg.Dir != "" {
			path = filepath.Join(cfg.Dir, sqlite.DefaultFileName)
		}
		store, err := sqlite.NewStore(path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite cache: %w", err)
		}
		return store.LayoutCache(), store.Close, nil
	default:
		cache, err := filecache.New(cfg.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening file cache: %w", err)
		}
		return cache, nil, nil
	}
}

// backendOpener returns the opener `serve` uses to build the HTTP backend
// over the configured store.
func backendOpener(cfg domain.StorageSettings, render *services.RenderService) cli.BackendOpener {
	return func(ctx context.Context) (*httpserver.Server, func(), error) {
		switch cfg.Driver {
		case domain.StorageMemory:
			logger.Warn("Using the in-memory store; layouts are lost on exit")
			return httpserver.NewServer(memory.NewLayoutStore(), render), func() {}, nil

		case domain.StoragePostgres:
			store, err := postgres.NewStore(ctx, cfg.DSN)
			if err != nil {
				return nil, nil, err
			}
			return httpserver.NewServer(store, render), closeWithLog(store.Close), nil

		case domain.StorageRedis:
			client, err := redis.NewClient(&goredis.Options{Addr: cfg.RedisAddr}, redisNamespace)
			if err != nil {
				return nil, nil, err
			}
			if err := client.Ping(ctx); err != nil {
				client.Close()
				return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.RedisAddr, err)
			}
			// Saves publish themselves; every instance feeds its viewers
			// from the channel.
			server := httpserver.NewServer(client, render)
			server.SetSubscriber(client)
			return server, closeWithLog(client.Close), nil

		default:
			store, err := sqlite.NewStore(cfg.Path)
			if err != nil {
				return nil, nil, err
			}
			return httpserver.NewServer(store.LayoutStore(), render), closeWithLog(store.Close), nil
		}
	}
}

func closeWithLog(closeFn func() error) func() {
	return func() {
		if err := closeFn(); err != nil {
			logger.Warn("Closing layout store: %v", err)
		}
	}
}
