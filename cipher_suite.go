package noise

// CipherSuite is the closed tuple of primitive families a handshake runs
// over: one DH function, one AEAD cipher, one hash. The set of primitives is
// fixed to this one tuple per protocol version, so this package models it as
// a small composed struct rather than an open-ended plugin registry.
type CipherSuite interface {
	DH
	AEAD
	Hash
	// Name returns "<dh>_<cipher>_<hash>", the middle segment of the
	// "Noise_<pattern>_<dh>_<cipher>_<hash>" protocol name.
	Name() []byte
}

type cipherSuite struct {
	DH
	AEAD
	Hash
}

func (c cipherSuite) Name() []byte {
	return []byte(c.DHName() + "_" + c.CipherName() + "_" + c.HashName())
}

// NewCipherSuite composes a DH, AEAD and Hash family into a CipherSuite.
func NewCipherSuite(dh DH, aead AEAD, h Hash) CipherSuite {
	return cipherSuite{DH: dh, AEAD: aead, Hash: h}
}

// Secp256k1ChaChaPolySHA256 is the only cipher suite BOLT #8 defines:
// Noise_XK_secp256k1_ChaChaPoly_SHA256 (and, for the NN test fixture,
// Noise_NN_secp256k1_ChaChaPoly_SHA256).
var Secp256k1ChaChaPolySHA256 = NewCipherSuite(Secp256k1, ChaChaPoly, SHA256)
