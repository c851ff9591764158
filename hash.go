package noise

import (
	"crypto/hmac"
	"crypto/sha256"
	"hash"
)

// hashLen is the output size in bytes of the hash family; blockLen is its
// HMAC block size. The symmetric state's mixKey truncation branch for
// 64-byte hash outputs (the Noise spec describes a primitive with hashLen =
// 64, and for that family alone takes only the first 32 bytes of the second
// HKDF output) has no configured primitive in this module: SHA256 is the
// only supported hash family, so that branch is simply inapplicable here.
const (
	hashLen  = 32
	blockLen = 64
)

// Hash is the hash function family used by a CipherSuite.
type Hash interface {
	Hash() hash.Hash
	HashName() string
}

type sha256Func struct{}

// SHA256 is the hash family BOLT #8 uses.
var SHA256 Hash = sha256Func{}

func (sha256Func) Hash() hash.Hash { return sha256.New() }

func (sha256Func) HashName() string { return "SHA256" }

// hkdf is the two-output HKDF construction Noise defines: HMAC-Extract
// followed by two HMAC-Expand steps chained through the first output. out1
// and out2 are reused as destination buffers the same way the caller reuses
// ck/k buffers elsewhere in this package.
func hkdf(hashFunc func() hash.Hash, out1, out2, chainingKey, inputKeyMaterial []byte) ([]byte, []byte) {
	extract := hmac.New(hashFunc, chainingKey)
	extract.Write(inputKeyMaterial)
	tempKey := extract.Sum(nil)

	expand1 := hmac.New(hashFunc, tempKey)
	expand1.Write([]byte{0x01})
	out1 = expand1.Sum(out1[:0])

	expand2 := hmac.New(hashFunc, tempKey)
	expand2.Write(out1)
	expand2.Write([]byte{0x02})
	out2 = expand2.Sum(out2[:0])

	return out1, out2
}

// RotateKey implements BOLT #8's per-direction key rotation step:
// (ck', k') = HKDF(ck, k). This package does not call it itself - key
// rotation is explicitly an external collaborator's responsibility - but
// exports it so a transport layer built on CipherState.Rekey can reuse the
// same HKDF construction the handshake uses rather than reimplementing it.
func RotateKey(ck, k []byte) (newCK, newK [symKeyLen]byte) {
	ckOut, kOut := hkdf(SHA256.Hash, nil, nil, ck, k)
	copy(newCK[:], ckOut)
	copy(newK[:], kOut)
	return newCK, newK
}
