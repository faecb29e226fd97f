package homomorphic

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"github.com/roasbeef/go-go-gadget-paillier"
)

// PaillierAggregator combines trustee shares under the additive homomorphism
// of the Paillier cryptosystem. Shares are expected to be Paillier
// ciphertexts under the aggregator's public key.
type PaillierAggregator struct {
	keySize    int
	privateKey *paillier.PrivateKey
	publicKey  *paillier.PublicKey
}

var _ Aggregator = (*PaillierAggregator)(nil)

// NewPaillierAggregator generates a fresh Paillier key pair of the given size
// in bits.
func NewPaillierAggregator(keySize int) (*PaillierAggregator, error) {
	priv, err := paillier.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return nil, fmt.Errorf("generate paillier key: %w", err)
	}
	return &PaillierAggregator{
		keySize:    keySize,
		privateKey: priv,
		publicKey:  &priv.PublicKey,
	}, nil
}

// PublicKey returns the aggregation public key trustees encrypt against.
func (a *PaillierAggregator) PublicKey() *paillier.PublicKey {
	return a.publicKey
}

// Encrypt encrypts a plaintext under the aggregation key. Used by tests and
// trustee tooling.
func (a *PaillierAggregator) Encrypt(plaintext []byte) ([]byte, error) {
	return paillier.Encrypt(a.publicKey, plaintext)
}

// Decrypt opens an aggregated ciphertext. Only useful when the aggregator
// holds the full private key, i.e. outside a real threshold deployment.
func (a *PaillierAggregator) Decrypt(ciphertext []byte) ([]byte, error) {
	return paillier.Decrypt(a.privateKey, ciphertext)
}

func (a *PaillierAggregator) Aggregate(shares [][]byte) ([]byte, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no shares to aggregate")
	}
	agg := shares[0]
	for _, share := range shares[1:] {
		agg = paillier.AddCipher(a.publicKey, agg, share)
	}
	return agg, nil
}

// Prove binds the aggregated ciphertext to the share set with a hash chain.
// This is an integrity commitment, not a zero-knowledge proof of correct
// decryption; a threshold deployment substitutes its own Aggregator.
func (a *PaillierAggregator) Prove(aggregated []byte, shares [][]byte) ([]byte, error) {
	h := sha256.New()
	h.Write(aggregated)
	for _, share := range shares {
		sh := sha256.Sum256(share)
		h.Write(sh[:])
	}
	return h.Sum(nil), nil
}

func (a *PaillierAggregator) Scheme() string {
	return fmt.Sprintf("paillier-%d", a.keySize)
}
