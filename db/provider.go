// Package db provides the key-value storage abstraction spentbook
// backends persist through, with LevelDB and Bolt implementations.
package db

// DatabaseProvider abstracts the low-level key-value operations so a
// store can work with different backends without knowing the engine.
// Get returns (nil, nil) when the key is absent.
type DatabaseProvider interface {
	// Get retrieves a value by key
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair
	Put(key, value []byte) error

	// Has checks if a key exists
	Has(key []byte) (bool, error)

	// Delete removes a key-value pair
	Delete(key []byte) error

	// IteratePrefix walks all pairs under prefix in key order. The
	// callback returns false to stop early. Key and value slices are
	// only valid for the duration of the callback.
	IteratePrefix(prefix []byte, callback func(key, value []byte) bool) error

	// Close closes the database connection
	Close() error
}
