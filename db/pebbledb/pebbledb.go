// Package pebbledb implements the db.Database interface on top of the
// cockroachdb/pebble key-value store.
package pebbledb

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/agoravote/agora-node/db"
)

// PebbleDB implements db.Database with a pebble store.
type PebbleDB struct {
	db *pebble.DB
}

// Ensure that PebbleDB implements the db.Database interface.
var _ db.Database = (*PebbleDB)(nil)

// New opens (or creates) a pebble database at opts.Path.
func New(opts db.Options) (*PebbleDB, error) {
	pdb, err := pebble.Open(opts.Path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open %q: %w", opts.Path, err)
	}
	return &PebbleDB{db: pdb}, nil
}

func (d *PebbleDB) Close() error {
	return d.db.Close()
}

func (d *PebbleDB) Compact() error {
	iter, err := d.db.NewIter(nil)
	if err != nil {
		return err
	}
	var first, last []byte
	if iter.First() {
		first = bytes.Clone(iter.Key())
	}
	if iter.Last() {
		last = bytes.Clone(iter.Key())
	}
	if err := iter.Close(); err != nil {
		return err
	}
	if first == nil || last == nil {
		return nil
	}
	return d.db.Compact(first, last, true)
}

func (d *PebbleDB) Get(key []byte) ([]byte, error) {
	value, closer, err := d.db.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, err
	}
	v := bytes.Clone(value)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return v, nil
}

func (d *PebbleDB) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	iter, err := d.db.NewIter(iterOptions(prefix))
	if err != nil {
		return err
	}
	defer func() { _ = iter.Close() }()
	for iter.First(); iter.Valid(); iter.Next() {
		if !callback(iter.Key()[len(prefix):], iter.Value()) {
			break
		}
	}
	return iter.Error()
}

// WriteTx returns a transaction backed by an indexed pebble batch. Note that
// pebble batches do not detect conflicts between concurrent transactions; the
// storage layer serializes writers with its own locks.
func (d *PebbleDB) WriteTx() db.WriteTx {
	return &WriteTx{batch: d.db.NewIndexedBatch()}
}

// WriteTx implements db.WriteTx over a pebble indexed batch.
type WriteTx struct {
	batch *pebble.Batch
	done  bool
}

// Ensure that WriteTx implements the db.WriteTx interface.
var _ db.WriteTx = (*WriteTx)(nil)

func (tx *WriteTx) Get(key []byte) ([]byte, error) {
	value, closer, err := tx.batch.Get(key)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, db.ErrKeyNotFound
		}
		return nil, err
	}
	v := bytes.Clone(value)
	if err := closer.Close(); err != nil {
		return nil, err
	}
	return v, nil
}

func (tx *WriteTx) Iterate(prefix []byte, callback func(key, value []byte) bool) error {
	iter, err := tx.batch.NewIter(iterOptions(prefix))
	if err != nil {
		return err
	}
	defer func() { _ = iter.Close() }()
	for iter.First(); iter.Valid(); iter.Next() {
		if !callback(iter.Key()[len(prefix):], iter.Value()) {
			break
		}
	}
	return iter.Error()
}

func (tx *WriteTx) Set(key, value []byte) error {
	if tx.done {
		return db.ErrTxComplete
	}
	return tx.batch.Set(key, value, nil)
}

func (tx *WriteTx) Delete(key []byte) error {
	if tx.done {
		return db.ErrTxComplete
	}
	return tx.batch.Delete(key, nil)
}

func (tx *WriteTx) Apply(other db.WriteTx) error {
	return other.Iterate(nil, func(k, v []byte) bool {
		return tx.Set(k, v) == nil
	})
}

func (tx *WriteTx) Commit() error {
	if tx.done {
		return db.ErrTxComplete
	}
	tx.done = true
	return tx.batch.Commit(pebble.Sync)
}

func (tx *WriteTx) Discard() {
	if tx.done {
		return
	}
	tx.done = true
	_ = tx.batch.Close()
}

// iterOptions returns the iterator bounds covering all keys with the given
// prefix.
func iterOptions(prefix []byte) *pebble.IterOptions {
	if len(prefix) == 0 {
		return nil
	}
	upper := bytes.Clone(prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return &pebble.IterOptions{LowerBound: prefix, UpperBound: upper[:i+1]}
		}
	}
	// prefix is all 0xff, no upper bound
	return &pebble.IterOptions{LowerBound: prefix}
}
