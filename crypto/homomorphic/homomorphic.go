// Package homomorphic defines the trustee-share verification and ciphertext
// aggregation capabilities used by the homomorphic tally service.
package homomorphic

import (
	"bytes"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ShareVerifier checks a trustee's decryption-share proof.
type ShareVerifier interface {
	VerifyShare(trusteeID string, share, proof []byte) bool
}

// ShareVerifierFunc adapts a plain function to the ShareVerifier interface.
type ShareVerifierFunc func(trusteeID string, share, proof []byte) bool

func (f ShareVerifierFunc) VerifyShare(trusteeID string, share, proof []byte) bool {
	return f(trusteeID, share, proof)
}

// Aggregator combines trustee decryption shares into a single aggregated
// ciphertext and produces the decryption proof published with the tally.
type Aggregator interface {
	// Aggregate combines the shares into one ciphertext.
	Aggregate(shares [][]byte) ([]byte, error)
	// Prove returns an opaque decryption proof binding the aggregated
	// ciphertext to the share set.
	Prove(aggregated []byte, shares [][]byte) ([]byte, error)
	// Scheme names the trustee threshold scheme, published in the tally
	// transparency record.
	Scheme() string
}

// SignatureShareVerifier verifies a trustee share proof as an ECDSA signature
// over keccak256(share) made by the trustee's registered key.
type SignatureShareVerifier struct {
	trustees map[string][]byte // trusteeID -> uncompressed public key
}

var _ ShareVerifier = (*SignatureShareVerifier)(nil)

// NewSignatureShareVerifier creates a verifier with the given registry of
// trustee public keys (uncompressed 65-byte secp256k1 points).
func NewSignatureShareVerifier(trustees map[string][]byte) *SignatureShareVerifier {
	return &SignatureShareVerifier{trustees: trustees}
}

func (v *SignatureShareVerifier) VerifyShare(trusteeID string, share, proof []byte) bool {
	expected, ok := v.trustees[trusteeID]
	if !ok || len(proof) != 65 {
		return false
	}
	digest := ethcrypto.Keccak256(share)
	pub, err := ethcrypto.SigToPub(digest, proof)
	if err != nil {
		return false
	}
	return bytes.Equal(ethcrypto.FromECDSAPub(pub), expected)
}
