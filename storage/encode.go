package storage

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

// EncodeArtifact encodes an artifact into deterministic CBOR. Timestamps are
// stored as RFC3339Nano text so the ledger keeps sub-second precision; the
// default unix-seconds encoding would truncate them.
func EncodeArtifact(a any) ([]byte, error) {
	encOpts := cbor.CoreDetEncOptions()
	encOpts.Time = cbor.TimeRFC3339Nano
	em, err := encOpts.EncMode()
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return em.Marshal(a)
}

// DecodeArtifact decodes a CBOR-encoded artifact into the provided output
// variable.
func DecodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// tokenFromContent derives an opaque identifier from the given content
// pieces: the first 16 bytes of the SHA256 hash rendered as a UUID. Equal
// content yields equal tokens, so callers mix in a counter or timestamp when
// uniqueness matters.
func tokenFromContent(parts ...[]byte) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	sum := h.Sum(nil)
	u, err := uuid.FromBytes(sum[:16])
	if err != nil {
		// sum is always 32 bytes, FromBytes on 16 cannot fail
		panic(err)
	}
	return u.String()
}
