// Package ballotproof defines the proof-verification capability the
// encrypted-ballot vault delegates to. The vault trusts whatever
// implementation it is wired with; the zero-knowledge machinery itself lives
// behind this interface and is never reimplemented by the core.
package ballotproof

import (
	"bytes"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Verifier checks an encrypted ballot submission. All byte slices are opaque
// to the caller.
type Verifier interface {
	Verify(ciphertext, zkProof, voterPubKey, nullifier, signature []byte) bool
}

// VerifierFunc adapts a plain function to the Verifier interface.
type VerifierFunc func(ciphertext, zkProof, voterPubKey, nullifier, signature []byte) bool

func (f VerifierFunc) Verify(ciphertext, zkProof, voterPubKey, nullifier, signature []byte) bool {
	return f(ciphertext, zkProof, voterPubKey, nullifier, signature)
}

// EthereumVerifier verifies that the submission's signature is a valid ECDSA
// signature over keccak256(nullifier || ciphertext) made by the declared
// voter public key. The zkProof blob is only required to be present; checking
// it cryptographically is the job of a zk-capable Verifier supplied by the
// deployment.
type EthereumVerifier struct{}

var _ Verifier = (*EthereumVerifier)(nil)

func (v *EthereumVerifier) Verify(ciphertext, zkProof, voterPubKey, nullifier, signature []byte) bool {
	if len(zkProof) == 0 || len(signature) != 65 {
		return false
	}
	digest := ethcrypto.Keccak256(nullifier, ciphertext)
	pub, err := ethcrypto.SigToPub(digest, signature)
	if err != nil {
		return false
	}
	recovered := ethcrypto.FromECDSAPub(pub)
	if bytes.Equal(recovered, voterPubKey) {
		return true
	}
	// Accept the compressed form of the same key as well.
	return bytes.Equal(ethcrypto.CompressPubkey(pub), voterPubKey)
}

// Sign produces the signature expected by EthereumVerifier. It is used by
// tests and client tooling.
func Sign(ciphertext, nullifier []byte, privKeyHex string) ([]byte, []byte, error) {
	key, err := ethcrypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, nil, err
	}
	digest := ethcrypto.Keccak256(nullifier, ciphertext)
	sig, err := ethcrypto.Sign(digest, key)
	if err != nil {
		return nil, nil, err
	}
	return sig, ethcrypto.FromECDSAPub(&key.PublicKey), nil
}
