// Package prefixeddb provides views over a db.Database where all keys are
// transparently namespaced under a fixed prefix.
package prefixeddb

import "github.com/agoravote/agora-node/db"

// PrefixedDatabase wraps a db.Database prepending a prefix to all keys.
type PrefixedDatabase struct {
	db     db.Database
	prefix []byte
}

// Ensure that PrefixedDatabase implements the db.Database interface.
var _ db.Database = (*PrefixedDatabase)(nil)

// NewPrefixedDatabase creates a new PrefixedDatabase over the given database.
func NewPrefixedDatabase(database db.Database, prefix []byte) *PrefixedDatabase {
	return &PrefixedDatabase{db: database, prefix: prefix}
}

// NewPrefixedReader returns a read-only view of the database under prefix.
func NewPrefixedReader(database db.Database, prefix []byte) db.Reader {
	return NewPrefixedDatabase(database, prefix)
}

func (d *PrefixedDatabase) Get(key []byte) ([]byte, error) {
	return d.db.Get(prefixKey(d.prefix, key))
}

func (d *PrefixedDatabase) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return d.db.Iterate(prefixKey(d.prefix, prefix), callback)
}

func (d *PrefixedDatabase) WriteTx() db.WriteTx {
	return NewPrefixedWriteTx(d.db.WriteTx(), d.prefix)
}

func (d *PrefixedDatabase) Close() error {
	return d.db.Close()
}

func (d *PrefixedDatabase) Compact() error {
	return d.db.Compact()
}

// PrefixedWriteTx wraps a db.WriteTx prepending a prefix to all keys.
type PrefixedWriteTx struct {
	tx     db.WriteTx
	prefix []byte
}

// Ensure that PrefixedWriteTx implements the db.WriteTx interface.
var _ db.WriteTx = (*PrefixedWriteTx)(nil)

// NewPrefixedWriteTx creates a new PrefixedWriteTx over the given transaction.
func NewPrefixedWriteTx(tx db.WriteTx, prefix []byte) *PrefixedWriteTx {
	return &PrefixedWriteTx{tx: tx, prefix: prefix}
}

func (tx *PrefixedWriteTx) Get(key []byte) ([]byte, error) {
	return tx.tx.Get(prefixKey(tx.prefix, key))
}

func (tx *PrefixedWriteTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	return tx.tx.Iterate(prefixKey(tx.prefix, prefix), callback)
}

func (tx *PrefixedWriteTx) Set(key, value []byte) error {
	return tx.tx.Set(prefixKey(tx.prefix, key), value)
}

func (tx *PrefixedWriteTx) Delete(key []byte) error {
	return tx.tx.Delete(prefixKey(tx.prefix, key))
}

func (tx *PrefixedWriteTx) Apply(other db.WriteTx) error {
	return other.Iterate(nil, func(k, v []byte) bool {
		return tx.Set(k, v) == nil
	})
}

func (tx *PrefixedWriteTx) Commit() error {
	return tx.tx.Commit()
}

func (tx *PrefixedWriteTx) Discard() {
	tx.tx.Discard()
}

func prefixKey(prefix, key []byte) []byte {
	out := make([]byte, 0, len(prefix)+len(key))
	out = append(out, prefix...)
	return append(out, key...)
}
