package ballotproof

import (
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	qt "github.com/frankban/quicktest"
)

const testPrivKey = "fad9c8855b740a0b7ed4c221dbad0f33a83a49cad6b3fe8d5817ac83d38b6a19"

func TestEthereumVerifier(t *testing.T) {
	c := qt.New(t)

	ciphertext := []byte("ciphertext")
	nullifier := []byte("nullifier")
	zkProof := []byte{0x01}

	sig, pubKey, err := Sign(ciphertext, nullifier, testPrivKey)
	c.Assert(err, qt.IsNil)

	v := &EthereumVerifier{}
	c.Assert(v.Verify(ciphertext, zkProof, pubKey, nullifier, sig), qt.IsTrue)

	// compressed key form is accepted too
	key, err := ethcrypto.HexToECDSA(testPrivKey)
	c.Assert(err, qt.IsNil)
	compressed := ethcrypto.CompressPubkey(&key.PublicKey)
	c.Assert(v.Verify(ciphertext, zkProof, compressed, nullifier, sig), qt.IsTrue)

	// missing zk proof
	c.Assert(v.Verify(ciphertext, nil, pubKey, nullifier, sig), qt.IsFalse)
	// tampered ciphertext
	c.Assert(v.Verify([]byte("tampered"), zkProof, pubKey, nullifier, sig), qt.IsFalse)
	// tampered nullifier
	c.Assert(v.Verify(ciphertext, zkProof, pubKey, []byte("other"), sig), qt.IsFalse)
	// wrong key
	otherKey, err := ethcrypto.GenerateKey()
	c.Assert(err, qt.IsNil)
	c.Assert(v.Verify(ciphertext, zkProof, ethcrypto.FromECDSAPub(&otherKey.PublicKey), nullifier, sig), qt.IsFalse)
	// malformed signature
	c.Assert(v.Verify(ciphertext, zkProof, pubKey, nullifier, sig[:10]), qt.IsFalse)
}
