package storage

import (
	"testing"

	"github.com/agoravote/agora-node/db/metadb"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	return New(metadb.NewTest(t))
}
