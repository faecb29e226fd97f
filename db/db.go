// Package db defines the key-value database interface used by the storage
// layer, together with the available backend types.
package db

import "errors"

const (
	// TypePebble is the pebble-backed persistent database.
	TypePebble = "pebble"
	// TypeInMem is the ephemeral in-memory database.
	TypeInMem = "inmem"
)

var (
	// ErrKeyNotFound is returned when the key is not found in the database.
	ErrKeyNotFound = errors.New("key not found")
	// ErrConflict is returned by WriteTx.Commit when a concurrent
	// transaction modified a key read or written by this transaction.
	ErrConflict = errors.New("conflict in tx")
	// ErrTxComplete is returned when operating on an already committed or
	// discarded transaction.
	ErrTxComplete = errors.New("transaction already committed or discarded")
)

// Options defines generic parameters for creating a database.
type Options struct {
	Path string
}

// Reader defines the read operations of the database.
type Reader interface {
	// Get retrieves the value for the given key. Returns ErrKeyNotFound
	// if the key does not exist.
	Get(key []byte) ([]byte, error)
	// Iterate calls callback with all key-value pairs whose key starts
	// with prefix. Iteration stops when callback returns false. The
	// key and value byte slices are only valid during the callback.
	Iterate(prefix []byte, callback func(key, value []byte) bool) error
}

// Database is the interface implemented by all the key-value backends.
type Database interface {
	Reader
	// WriteTx starts a new write transaction.
	WriteTx() WriteTx
	// Close closes the database and releases its resources.
	Close() error
	// Compact triggers a compaction of the underlying storage, if the
	// backend supports it.
	Compact() error
}

// WriteTx is a transaction over the database. Pending writes are not visible
// outside the transaction until Commit is called. A WriteTx must end with a
// call to Commit or Discard; Discard after Commit is a no-op.
type WriteTx interface {
	Reader
	// Set adds a key-value pair, overwriting any previous value.
	Set(key, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key []byte) error
	// Apply copies the pending writes of the given transaction into this one.
	Apply(other WriteTx) error
	// Commit atomically applies the pending writes to the database.
	Commit() error
	// Discard drops the pending writes.
	Discard()
}
