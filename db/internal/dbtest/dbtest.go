// Package dbtest holds conformance tests shared by all db.Database backends.
package dbtest

import (
	"errors"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/agoravote/agora-node/db"
)

// TestWriteTx checks the basic transaction contract of a backend.
func TestWriteTx(t *testing.T, database db.Database) {
	c := qt.New(t)

	wTx := database.WriteTx()
	defer wTx.Discard()

	if _, err := wTx.Get([]byte("a")); !errors.Is(err, db.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}

	c.Assert(wTx.Set([]byte("a"), []byte("b")), qt.IsNil)

	v, err := wTx.Get([]byte("a"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("b"))

	// pending writes are invisible outside the tx until commit
	_, err = database.Get([]byte("a"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)

	c.Assert(wTx.Commit(), qt.IsNil)

	v, err = database.Get([]byte("a"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("b"))

	// delete and check
	wTx = database.WriteTx()
	defer wTx.Discard()
	c.Assert(wTx.Delete([]byte("a")), qt.IsNil)
	c.Assert(wTx.Commit(), qt.IsNil)

	_, err = database.Get([]byte("a"))
	c.Assert(errors.Is(err, db.ErrKeyNotFound), qt.IsTrue)
}

// TestIterate checks prefixed iteration, including that callback keys have
// the prefix stripped and that returning false stops the iteration.
func TestIterate(t *testing.T, database db.Database) {
	c := qt.New(t)

	wTx := database.WriteTx()
	defer wTx.Discard()
	for i := 0; i < 5; i++ {
		c.Assert(wTx.Set([]byte(fmt.Sprintf("p/%d", i)), []byte{byte(i)}), qt.IsNil)
		c.Assert(wTx.Set([]byte(fmt.Sprintf("q/%d", i)), []byte{byte(i)}), qt.IsNil)
	}
	c.Assert(wTx.Commit(), qt.IsNil)

	var keys []string
	err := database.Iterate([]byte("p/"), func(k, v []byte) bool {
		keys = append(keys, string(k))
		return true
	})
	c.Assert(err, qt.IsNil)
	c.Assert(keys, qt.DeepEquals, []string{"0", "1", "2", "3", "4"})

	// early stop
	count := 0
	err = database.Iterate([]byte("q/"), func(k, v []byte) bool {
		count++
		return count < 2
	})
	c.Assert(err, qt.IsNil)
	c.Assert(count, qt.Equals, 2)
}

// TestWriteTxApply checks that a transaction can absorb the pending writes
// of another one.
func TestWriteTxApply(t *testing.T, database db.Database) {
	c := qt.New(t)

	other := database.WriteTx()
	defer other.Discard()
	c.Assert(other.Set([]byte("x"), []byte("1")), qt.IsNil)

	wTx := database.WriteTx()
	defer wTx.Discard()
	c.Assert(wTx.Apply(other), qt.IsNil)
	c.Assert(wTx.Commit(), qt.IsNil)

	v, err := database.Get([]byte("x"))
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte("1"))
}
