package driven

// ConfigStore reads and writes application configuration. Keys use dot
// notation ("llm.provider"); implementations decide how values are
// persisted and handle type conversion on the way out.
type ConfigStore interface {
	// Get returns the raw value under key and whether it exists.
	Get(key string) (any, bool)

	// GetString returns the string under key, or "" when absent or
	// not a string.
	GetString(key string) string

	// GetInt returns the integer under key, or 0 when absent or not
	// numeric.
	GetInt(key string) int

	// GetFloat returns the float under key, widening integers, or 0
	// when absent or not numeric.
	GetFloat(key string) float64

	// GetBool returns the bool under key, or false when absent or
	// not a bool.
	GetBool(key string) bool

	// GetStringSlice returns the string slice under key, or nil when
	// absent or not a slice.
	GetStringSlice(key string) []string

	// Set stores a value under key. The change is persisted before
	// Set returns.
	Set(key string, value any) error

	// Save writes the current configuration to the backing store.
	Save() error

	// Load replaces the in-memory configuration from the backing
	// store.
	Load() error

	// Path identifies the backing store location.
	Path() string
}
