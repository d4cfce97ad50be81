package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/tablesite/internal/core/domain"
	"github.com/custodia-labs/tablesite/internal/core/ports/driven"
	"github.com/custodia-labs/tablesite/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyRestaurantID   = "restaurant.id"
	keyBackendURL     = "backend.url"
	keyBackendTimeout = "backend.timeout"
	keyBackendRate    = "backend.rate_limit"
	keyStorageDriver  = "storage.driver"
	keyStoragePath    = "storage.path"
	keyStorageDSN     = "storage.dsn"
	keyRedisAddr      = "storage.redis_addr"
	keyCacheDriver    = "cache.driver"
	keyCacheDir       = "cache.dir"
	keyServerAddr     = "server.addr"
)

// envOverrides maps environment variables onto config keys. Environment
// values win over the config file.
var envOverrides = []struct {
	env string
	key string
}{
	{"TABLESITE_RESTAURANT_ID", keyRestaurantID},
	{"TABLESITE_BACKEND_URL", keyBackendURL},
	{"TABLESITE_STORAGE_DRIVER", keyStorageDriver},
	{"TABLESITE_STORAGE_PATH", keyStoragePath},
	{"TABLESITE_STORAGE_DSN", keyStorageDSN},
	{"TABLESITE_REDIS_ADDR", keyRedisAddr},
	{"TABLESITE_CACHE_DIR", keyCacheDir},
	{"TABLESITE_SERVER_ADDR", keyServerAddr},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetEnvLookup replaces the environment lookup used for overrides.
func (s *SettingsService) SetEnvLookup(lookup func(string) (string, bool)) {
	s.lookupEnv = lookup
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	if s.configStore == nil {
		return nil, domain.ErrNotImplemented
	}
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Restaurant: domain.RestaurantSettings{
			ID: s.getString(keyRestaurantID, defaults.Restaurant.ID),
		},
		Backend: domain.BackendSettings{
			URL:       strings.TrimRight(s.getString(keyBackendURL, defaults.Backend.URL), "/"),
			Timeout:   s.getDuration(keyBackendTimeout, defaults.Backend.Timeout),
			RateLimit: s.getFloat(keyBackendRate, defaults.Backend.RateLimit),
		},
		Storage: domain.StorageSettings{
			Driver:    s.getStorageDriver(defaults.Storage.Driver),
			Path:      s.getString(keyStoragePath, defaults.Storage.Path),
			DSN:       s.getString(keyStorageDSN, defaults.Storage.DSN),
			RedisAddr: s.getString(keyRedisAddr, defaults.Storage.RedisAddr),
		},
		Cache: domain.CacheSettings{
			Driver: s.getCacheDriver(defaults.Cache.Driver),
			Dir:    s.getString(keyCacheDir, defaults.Cache.Dir),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if settings == nil {
		return domain.ErrInvalidInput
	}
	if err := settings.Validate(); err != nil {
		return err
	}

	values := map[string]any{
		keyRestaurantID:   settings.Restaurant.ID,
		keyBackendURL:     settings.Backend.URL,
		keyBackendTimeout: settings.Backend.Timeout.String(),
		keyBackendRate:    settings.Backend.RateLimit,
		keyStorageDriver:  settings.Storage.Driver.String(),
		keyStoragePath:    settings.Storage.Path,
		keyStorageDSN:     settings.Storage.DSN,
		keyRedisAddr:      settings.Storage.RedisAddr,
		keyCacheDriver:    settings.Cache.Driver.String(),
		keyCacheDir:       settings.Cache.Dir,
		keyServerAddr:     settings.Server.Addr,
	}
	if err := s.configStore.Update(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Keys returns the settable keys in display order.
func (s *SettingsService) Keys() []string {
	return []string{
		keyRestaurantID,
		keyBackendURL,
		keyBackendTimeout,
		keyBackendRate,
		keyStorageDriver,
		keyStoragePath,
		keyStorageDSN,
		keyRedisAddr,
		keyCacheDriver,
		keyCacheDir,
		keyServerAddr,
	}
}

// Set updates a single setting from its string form. Only that key is
// written, so environment overrides are never persisted.
func (s *SettingsService) Set(key, value string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	value = strings.TrimSpace(value)
	var stored any = value

	switch key {
	case keyRestaurantID:
		settings.Restaurant.ID = value
	case keyBackendURL:
		value = strings.TrimRight(value, "/")
		settings.Backend.URL = value
		stored = value
	case keyBackendTimeout:
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be a duration like 10s: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Backend.Timeout = d
		stored = d.String()
	case keyBackendRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%w: %s must be a number: %w", domain.ErrInvalidInput, key, err)
		}
		settings.Backend.RateLimit = f
		stored = f
	case keyStorageDriver:
		settings.Storage.Driver = domain.StorageDriver(value)
	case keyStoragePath:
		settings.Storage.Path = value
	case keyStorageDSN:
		settings.Storage.DSN = value
	case keyRedisAddr:
		settings.Storage.RedisAddr = value
	case keyCacheDriver:
		settings.Cache.Driver = domain.CacheDriver(value)
	case keyCacheDir:
		settings.Cache.Dir = value
	case keyServerAddr:
		settings.Server.Addr = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset removes key from the config file so its default applies again.
// The result must still validate.
func (s *SettingsService) Reset(key string) error {
	if s.configStore == nil {
		return domain.ErrNotImplemented
	}
	if !slices.Contains(s.Keys(), key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	prev, had := s.configStore.Get(key)
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	if err := s.Validate(); err != nil {
		if had {
			_ = s.configStore.Set(key, prev)
		}
		return err
	}
	return nil
}

// Validate checks if current settings can be used.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) env(key string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	for _, o := range envOverrides {
		if o.key != key {
			continue
		}
		if v, ok := s.lookupEnv(o.env); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v, ok := s.env(key); ok {
		return v
	}
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getStorageDriver(defaultVal domain.StorageDriver) domain.StorageDriver {
	driver := domain.StorageDriver(s.getString(keyStorageDriver, ""))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}

func (s *SettingsService) getCacheDriver(defaultVal domain.CacheDriver) domain.CacheDriver {
	driver := domain.CacheDriver(s.getString(keyCacheDriver, ""))
	if !driver.IsValid() {
		return defaultVal
	}
	return driver
}
