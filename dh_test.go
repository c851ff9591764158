package noise

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecp256k1DHAgreement(t *testing.T) {
	rng1 := bytes.NewReader(bytes.Repeat([]byte{0x01}, 32))
	rng2 := bytes.NewReader(bytes.Repeat([]byte{0x02}, 32))

	a := Secp256k1.GenerateKeypair(rng1)
	b := Secp256k1.GenerateKeypair(rng2)

	s1, err := Secp256k1.DH(a.Private, b.Public)
	require.NoError(t, err)
	s2, err := Secp256k1.DH(b.Private, a.Public)
	require.NoError(t, err)
	require.Equal(t, s1, s2)
	require.Len(t, s1, Secp256k1.DHLen())
}

func TestSecp256k1DHRejectsMalformedPubkey(t *testing.T) {
	a := Secp256k1.GenerateKeypair(bytes.NewReader(bytes.Repeat([]byte{0x03}, 32)))
	_, err := Secp256k1.DH(a.Private, []byte{0x01, 0x02, 0x03})
	require.ErrorIs(t, err, ErrInvalidPubKey)
}

func TestNewStaticKeyRejectsWrongLength(t *testing.T) {
	_, err := NewStaticKey([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrInvalidKeyLength)
}
