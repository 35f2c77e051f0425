package storage

// Provider is the external key-value store the journal persists into.
// Values are opaque strings; encoding is the caller's business.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns the value stored under key. ok is false when the key is
	// absent; err is reserved for the store itself failing.
	Get(key string) (value string, ok bool, err error)
	// Apply writes every key in set and removes every key in del as a
	// single unit: either all of it is visible afterwards or none of it is.
	Apply(set map[string]string, del []string) error
	// Keys lists the stored keys in ascending order.
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by stores with a versioned SQL schema.
type Migrator interface {
	// Migrate applies pending migrations and returns how many ran.
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
