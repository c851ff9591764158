package noise

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBolt8NonceLayout(t *testing.T) {
	nonce := bolt8Nonce(1)
	require.Equal(t, [4]byte{0, 0, 0, 0}, [4]byte{nonce[0], nonce[1], nonce[2], nonce[3]})
	require.Equal(t, uint64(1), binary.LittleEndian.Uint64(nonce[4:]))
}

func TestChaChaPolyRoundTrip(t *testing.T) {
	var key [32]byte
	copy(key[:], []byte("thirty-two-byte-test-key-value!!"))
	c := ChaChaPoly.Cipher(key)

	pt := []byte("hello lightning")
	ad := []byte("associated data")
	ct := c.Encrypt(nil, 7, ad, pt)

	out, err := c.Decrypt(nil, 7, ad, ct)
	require.NoError(t, err)
	require.Equal(t, pt, out)

	_, err = c.Decrypt(nil, 8, ad, ct)
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}
