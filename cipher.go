package noise

import (
	"crypto/cipher"
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// symKeyLen is the ChaCha20-Poly1305 key size.
	symKeyLen = 32
	// tagLen is the Poly1305 authentication tag size.
	tagLen = chacha20poly1305.Overhead
	// TagOverhead is tagLen, exported for transport-layer code that needs
	// to size read buffers for an AEAD-sealed length prefix or body.
	TagOverhead = tagLen
)

// AEAD is the authenticated-encryption function family used by a
// CipherSuite.
type AEAD interface {
	Cipher(k [symKeyLen]byte) Cipher
	CipherName() string
}

// Cipher performs AEAD encryption/decryption under a single fixed key,
// with the caller supplying the nonce counter on every call.
type Cipher interface {
	Encrypt(out []byte, n uint64, ad, plaintext []byte) []byte
	Decrypt(out []byte, n uint64, ad, ciphertext []byte) ([]byte, error)
}

type chachaPolyFunc struct{}

// ChaChaPoly is ChaCha20-Poly1305 with the BOLT #8 nonce layout: a 12-byte
// nonce built from 4 zero bytes followed by the little-endian message
// counter. This deviates from plain Noise, which also zero-pads to 12 bytes
// but some implementations place the counter with the opposite byte order;
// BOLT #8 mandates little-endian in the trailing 8 bytes.
var ChaChaPoly AEAD = chachaPolyFunc{}

func (chachaPolyFunc) Cipher(k [symKeyLen]byte) Cipher {
	aead, err := chacha20poly1305.New(k[:])
	if err != nil {
		panic("noise: chacha20poly1305.New: " + err.Error())
	}
	return chachaPolyCipher{aead: aead}
}

func (chachaPolyFunc) CipherName() string { return "ChaChaPoly" }

type chachaPolyCipher struct {
	aead cipher.AEAD
}

func bolt8Nonce(n uint64) [12]byte {
	var nonce [12]byte
	binary.LittleEndian.PutUint64(nonce[4:], n)
	return nonce
}

func (c chachaPolyCipher) Encrypt(out []byte, n uint64, ad, plaintext []byte) []byte {
	nonce := bolt8Nonce(n)
	return c.aead.Seal(out, nonce[:], plaintext, ad)
}

func (c chachaPolyCipher) Decrypt(out []byte, n uint64, ad, ciphertext []byte) ([]byte, error) {
	nonce := bolt8Nonce(n)
	plaintext, err := c.aead.Open(out, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}
