package homomorphic

import (
	"math/big"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	qt "github.com/frankban/quicktest"
)

func TestPaillierAggregate(t *testing.T) {
	c := qt.New(t)

	agg, err := NewPaillierAggregator(1024)
	c.Assert(err, qt.IsNil)

	// 12 + 30 under the additive homomorphism
	c1, err := agg.Encrypt(big.NewInt(12).Bytes())
	c.Assert(err, qt.IsNil)
	c2, err := agg.Encrypt(big.NewInt(30).Bytes())
	c.Assert(err, qt.IsNil)

	combined, err := agg.Aggregate([][]byte{c1, c2})
	c.Assert(err, qt.IsNil)

	plain, err := agg.Decrypt(combined)
	c.Assert(err, qt.IsNil)
	c.Assert(new(big.Int).SetBytes(plain).Int64(), qt.Equals, int64(42))

	c.Assert(agg.Scheme(), qt.Equals, "paillier-1024")

	proof, err := agg.Prove(combined, [][]byte{c1, c2})
	c.Assert(err, qt.IsNil)
	c.Assert(len(proof), qt.Equals, 32)

	_, err = agg.Aggregate(nil)
	c.Assert(err, qt.IsNotNil)
}

func TestSignatureShareVerifier(t *testing.T) {
	c := qt.New(t)

	key, err := ethcrypto.GenerateKey()
	c.Assert(err, qt.IsNil)
	pub := ethcrypto.FromECDSAPub(&key.PublicKey)
	verifier := NewSignatureShareVerifier(map[string][]byte{"t1": pub})

	share := []byte("decryption-share")
	proof, err := ethcrypto.Sign(ethcrypto.Keccak256(share), key)
	c.Assert(err, qt.IsNil)

	c.Assert(verifier.VerifyShare("t1", share, proof), qt.IsTrue)

	// unknown trustee
	c.Assert(verifier.VerifyShare("t2", share, proof), qt.IsFalse)
	// tampered share
	c.Assert(verifier.VerifyShare("t1", []byte("other"), proof), qt.IsFalse)
	// truncated proof
	c.Assert(verifier.VerifyShare("t1", share, proof[:64]), qt.IsFalse)
}
