package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// DefaultRestaurantKey is the storage key used when no restaurant id is set.
const DefaultRestaurantKey = "default"

// RestaurantKey normalises a restaurant id into its storage key.
func RestaurantKey(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return DefaultRestaurantKey
	}
	return id
}

// StorageDriver selects the engine behind the layout backend.
type StorageDriver string

// Available storage drivers.
const (
	// StorageMemory keeps layouts in process memory. Nothing survives a restart.
	StorageMemory StorageDriver = "memory"

	// StorageSQLite stores layouts in a local SQLite database file.
	StorageSQLite StorageDriver = "sqlite"

	// StoragePostgres stores layouts in a PostgreSQL table.
	StoragePostgres StorageDriver = "postgres"

	// StorageRedis stores layouts in Redis and broadcasts saves over pub/sub.
	StorageRedis StorageDriver = "redis"
)

// IsValid returns true if the driver is recognised.
func (d StorageDriver) IsValid() bool {
	switch d {
	case StorageMemory, StorageSQLite, StoragePostgres, StorageRedis:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d StorageDriver) String() string {
	return string(d)
}

// Description returns a human-readable description of the driver.
func (d StorageDriver) Description() string {
	switch d {
	case StorageMemory:
		return "Memory (volatile)"
	case StorageSQLite:
		return "SQLite (local file)"
	case StoragePostgres:
		return "PostgreSQL"
	case StorageRedis:
		return "Redis (with live updates)"
	default:
		return unknownDescription
	}
}

// AllStorageDrivers returns every storage driver.
func AllStorageDrivers() []StorageDriver {
	return []StorageDriver{StorageMemory, StorageSQLite, StoragePostgres, StorageRedis}
}

// CacheDriver selects how the builder keeps its local copy of layouts.
type CacheDriver string

// Available cache drivers.
const (
	// CacheFile writes one JSON file per restaurant key.
	CacheFile CacheDriver = "file"

	// CacheSQLite keeps cached layouts in a local SQLite database.
	CacheSQLite CacheDriver = "sqlite"
)

// IsValid returns true if the cache driver is recognised.
func (d CacheDriver) IsValid() bool {
	return d == CacheFile || d == CacheSQLite
}

// String returns the string representation.
func (d CacheDriver) String() string {
	return string(d)
}

// RestaurantSettings identifies which restaurant's layout is edited.
type RestaurantSettings struct {
	// ID is the restaurant identifier. Empty means the default key.
	ID string
}

// Key returns the storage key for the restaurant.
func (r RestaurantSettings) Key() string {
	return RestaurantKey(r.ID)
}

// BackendSettings configures the HTTP client used to reach the layout backend.
type BackendSettings struct {
	// URL is the backend base URL, without the /custom-layout suffix.
	URL string

	// Timeout bounds each request.
	Timeout time.Duration

	// RateLimit caps requests per second. Zero disables limiting.
	RateLimit float64
}

// StorageSettings configures the store used by `tablesite serve`.
type StorageSettings struct {
	// Driver is the storage engine.
	Driver StorageDriver

	// Path is the SQLite database file. Empty means ~/.tablesite/layouts.db.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string
}

// CacheSettings configures the builder's local cache.
type CacheSettings struct {
	// Driver is the cache engine.
	Driver CacheDriver

	// Dir holds cache files. Empty means ~/.tablesite/cache.
	Dir string
}

// ServerSettings configures `tablesite serve`.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Restaurant RestaurantSettings
	Backend    BackendSettings
	Storage    StorageSettings
	Cache      CacheSettings
	Server     ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The backend URL matches the storefront's development server.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Restaurant: RestaurantSettings{},
		Backend: BackendSettings{
			URL:       "http://localhost:4000",
			Timeout:   10 * time.Second,
			RateLimit: 5,
		},
		Storage: StorageSettings{
			Driver:    StorageSQLite,
			RedisAddr: "localhost:6379",
		},
		Cache: CacheSettings{
			Driver: CacheFile,
		},
		Server: ServerSettings{
			Addr: ":4000",
		},
	}
}

// Validate checks that the settings can be used to wire the application.
func (s AppSettings) Validate() error {
	if strings.TrimSpace(s.Backend.URL) == "" {
		return fmt.Errorf("%w: backend url is required", ErrInvalidInput)
	}
	if s.Backend.Timeout <= 0 {
		return fmt.Errorf("%w: backend timeout must be positive", ErrInvalidInput)
	}
	if s.Backend.RateLimit < 0 {
		return fmt.Errorf("%w: backend rate limit must not be negative", ErrInvalidInput)
	}
	if !s.Storage.Driver.IsValid() {
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidInput, s.Storage.Driver)
	}
	if s.Storage.Driver == StoragePostgres && s.Storage.DSN == "" {
		return fmt.Errorf("%w: postgres storage requires a dsn", ErrInvalidInput)
	}
	if s.Storage.Driver == StorageRedis && s.Storage.RedisAddr == "" {
		return fmt.Errorf("%w: redis storage requires an address", ErrInvalidInput)
	}
	if !s.Cache.Driver.IsValid() {
		return fmt.Errorf("%w: unknown cache driver %q", ErrInvalidInput, s.Cache.Driver)
	}
	return nil
}
