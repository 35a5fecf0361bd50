// Package storage is the small key-value capability the SDK persists
// client-side state through: the auth token and the local cart.
//
// Implement Store to plug in any backend; the SDK ships a process-local
// memory store and a JSON file store that survives restarts.
package storage

// Store is a minimal key-value capability.
type Store interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
