package driven

// ConfigStore holds the user's settings as flat dotted keys such as
// "backend.url". Writes are persisted before they return.
type ConfigStore interface {
	// Get returns the raw value for key and whether it is set.
	Get(key string) (any, bool)

	// GetString returns the value for key, or "" when it is unset or not
	// a string.
	GetString(key string) string

	// GetFloat returns the value for key as a float, or 0 when it is
	// unset or not a number.
	GetFloat(key string) float64

	// Set stores one value.
	Set(key string, value any) error

	// Update stores several values with a single write. Nothing is stored
	// when any key is rejected.
	Update(values map[string]any) error

	// Unset removes key so readers fall back to its default.
	Unset(key string) error

	// Path describes where the settings live.
	Path() string
}
