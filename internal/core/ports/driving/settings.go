package driving

import "github.com/custodia-labs/tablesite/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// Set updates a single setting by its dotted key, e.g. "backend.url".
	Set(key, value string) error

	// Reset removes a stored setting so its default applies.
	Reset(key string) error

	// Keys returns the settable keys in display order.
	Keys() []string

	// Validate checks if current settings can be used.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
