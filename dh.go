package noise

import (
	"crypto/sha256"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// dhLen is the length in bytes of a secp256k1 scalar and of the shared
	// secret secp256k1_ecdh produces.
	dhLen = 32
	// pubKeyLen is the length in bytes of a compressed secp256k1 point.
	pubKeyLen = 33
)

// DHKey is a Diffie-Hellman keypair. Public is the compressed secp256k1
// point; Private is the 32-byte scalar. A zero-value DHKey (both fields nil)
// means "absent."
type DHKey struct {
	Private []byte
	Public  []byte
}

// DH is the Diffie-Hellman function family used by a CipherSuite.
type DH interface {
	// GenerateKeypair draws a fresh private scalar from rng and derives the
	// matching public key.
	GenerateKeypair(rng io.Reader) DHKey
	// DH computes the shared secret between a local private key and a
	// remote public key.
	DH(privkey, pubkey []byte) ([]byte, error)
	DHLen() int
	DHName() string
}

type secp256k1DH struct{}

// Secp256k1 is the secp256k1 Diffie-Hellman function family BOLT #8
// specifies: DH(priv, pub) is SHA-256 of the compressed form of the shared
// point, exactly what libsecp256k1's secp256k1_ecdh computes with its
// default hash function. Implementations that instead hash the raw
// x-coordinate are not interoperable with this one.
var Secp256k1 DH = secp256k1DH{}

func (secp256k1DH) GenerateKeypair(rng io.Reader) DHKey {
	priv := make([]byte, dhLen)
	if _, err := io.ReadFull(rng, priv); err != nil {
		panic("noise: random source exhausted: " + err.Error())
	}
	return keypairFromPrivate(priv)
}

// keypairFromPrivate builds a DHKey from a caller- or test-supplied 32-byte
// scalar, used both for static identities and for deterministic test
// ephemerals. BOLT #8's own test vectors hand in raw private key bytes
// directly (e.g. 0x1111...11), so no rejection sampling is applied here -
// btcec accepts any 32-byte scalar.
func keypairFromPrivate(priv []byte) DHKey {
	privKey, _ := btcec.PrivKeyFromBytes(priv)
	pub := privKey.PubKey().SerializeCompressed()
	return DHKey{
		Private: append([]byte(nil), priv...),
		Public:  pub,
	}
}

// NewStaticKey builds a static DHKey from a 32-byte private scalar supplied
// by the caller (loaded from disk, a config file, etc).
func NewStaticKey(priv []byte) (DHKey, error) {
	if len(priv) != dhLen {
		return DHKey{}, ErrInvalidKeyLength
	}
	return keypairFromPrivate(priv), nil
}

func (secp256k1DH) DH(privkey, pubkey []byte) ([]byte, error) {
	if len(pubkey) != pubKeyLen {
		return nil, ErrInvalidPubKey
	}
	priv, _ := btcec.PrivKeyFromBytes(privkey)
	pub, err := btcec.ParsePubKey(pubkey)
	if err != nil {
		return nil, ErrInvalidPubKey
	}

	var pubPoint, sharedPoint secp256k1.JacobianPoint
	pub.AsJacobian(&pubPoint)
	secp256k1.ScalarMultNonConst(&priv.Key, &pubPoint, &sharedPoint)
	sharedPoint.ToAffine()
	sharedPubKey := secp256k1.NewPublicKey(&sharedPoint.X, &sharedPoint.Y)

	secret := sha256.Sum256(sharedPubKey.SerializeCompressed())
	return secret[:], nil
}

func (secp256k1DH) DHLen() int { return dhLen }

func (secp256k1DH) DHName() string { return "secp256k1" }
