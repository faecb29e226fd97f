// Package metadb instantiates a db.Database from a backend type name.
package metadb

import (
	"cmp"
	"fmt"
	"os"
	"testing"

	"github.com/agoravote/agora-node/db"
	"github.com/agoravote/agora-node/db/inmemory"
	"github.com/agoravote/agora-node/db/pebbledb"
)

// New returns a database of the given type rooted at dir.
func New(typ, dir string) (db.Database, error) {
	switch typ {
	case db.TypePebble:
		return pebbledb.New(db.Options{Path: dir})
	case db.TypeInMem:
		return inmemory.New(db.Options{Path: dir})
	default:
		return nil, fmt.Errorf("invalid dbType: %q. Available types: %q %q",
			typ, db.TypePebble, db.TypeInMem)
	}
}

// ForTest returns the database type to use in tests, overridable with the
// DB_TYPE environment variable.
func ForTest() (typ string) {
	return cmp.Or(os.Getenv("DB_TYPE"), db.TypePebble)
}

// NewTest returns a temporary database for the given test, closed and removed
// on test cleanup.
func NewTest(tb testing.TB) db.Database {
	database, err := New(ForTest(), tb.TempDir())
	if err != nil {
		tb.Fatal(err)
	}
	tb.Cleanup(func() { _ = database.Close() })
	return database
}
