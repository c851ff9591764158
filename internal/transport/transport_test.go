package transport

import (
	"bytes"
	"testing"

	"github.com/bolt8/noise"
	"github.com/stretchr/testify/require"
)

// handshakeXK runs a loopback XK handshake with fixed, deterministic keys
// and returns both sides' (cs1, cs2, ck) triples.
func handshakeXK(t *testing.T) (iCS1, iCS2 *noise.CipherState, iCK []byte, rCS1, rCS2 *noise.CipherState, rCK []byte) {
	t.Helper()

	responderStatic := noise.Secp256k1.GenerateKeypair(bytes.NewReader(bytes.Repeat([]byte{0x09}, 32)))
	initiatorStatic := noise.Secp256k1.GenerateKeypair(bytes.NewReader(bytes.Repeat([]byte{0x07}, 32)))

	initiator, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   noise.Secp256k1ChaChaPolySHA256,
		Pattern:       noise.HandshakeXK,
		Initiator:     true,
		Prologue:      []byte("lightning"),
		StaticKeypair: initiatorStatic,
		PeerStatic:    responderStatic.Public,
		Random:        bytes.NewReader(bytes.Repeat([]byte{0x01}, 64)),
	})
	require.NoError(t, err)

	responder, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   noise.Secp256k1ChaChaPolySHA256,
		Pattern:       noise.HandshakeXK,
		Initiator:     false,
		Prologue:      []byte("lightning"),
		StaticKeypair: responderStatic,
		Random:        bytes.NewReader(bytes.Repeat([]byte{0x02}, 64)),
	})
	require.NoError(t, err)

	act1, _, _, _, err := initiator.WriteMessage(nil, nil)
	require.NoError(t, err)
	_, _, _, _, err = responder.ReadMessage(nil, act1)
	require.NoError(t, err)

	act2, _, _, _, err := responder.WriteMessage(nil, nil)
	require.NoError(t, err)
	_, _, _, _, err = initiator.ReadMessage(nil, act2)
	require.NoError(t, err)

	act3, iCS1, iCS2, iCK, err := initiator.WriteMessage(nil, nil)
	require.NoError(t, err)
	_, rCS1, rCS2, rCK, err = responder.ReadMessage(nil, act3)
	require.NoError(t, err)

	return iCS1, iCS2, iCK, rCS1, rCS2, rCK
}

func TestConnRoundTrip(t *testing.T) {
	iCS1, iCS2, iCK, rCS1, rCS2, rCK := handshakeXK(t)

	wire := new(bytes.Buffer)
	initiatorConn := NewFromHandshake(wire, true, iCS1, iCS2, iCK)
	responderConn := NewFromHandshake(wire, false, rCS1, rCS2, rCK)

	require.NoError(t, initiatorConn.Send([]byte("ping")))
	got, err := responderConn.Receive()
	require.NoError(t, err)
	require.Equal(t, []byte("ping"), got)

	require.NoError(t, responderConn.Send([]byte("pong")))
	got, err = initiatorConn.Receive()
	require.NoError(t, err)
	require.Equal(t, []byte("pong"), got)
}

func TestConnRotatesKeyEvery1000Nonces(t *testing.T) {
	iCS1, iCS2, iCK, rCS1, rCS2, rCK := handshakeXK(t)

	wire := new(bytes.Buffer)
	initiatorConn := NewFromHandshake(wire, true, iCS1, iCS2, iCK)
	responderConn := NewFromHandshake(wire, false, rCS1, rCS2, rCK)

	for i := 0; i < rotationInterval+1; i++ {
		require.NoError(t, initiatorConn.Send([]byte("tick")))
		got, err := responderConn.Receive()
		require.NoError(t, err)
		require.Equal(t, []byte("tick"), got)
	}

	require.Less(t, initiatorConn.send.cs.Nonce(), uint64(rotationInterval))
	require.Less(t, responderConn.recv.cs.Nonce(), uint64(rotationInterval))
}

func TestSendRejectsOversizedMessage(t *testing.T) {
	iCS1, iCS2, iCK, _, _, _ := handshakeXK(t)
	wire := new(bytes.Buffer)
	conn := NewFromHandshake(wire, true, iCS1, iCS2, iCK)

	err := conn.Send(make([]byte, maxMessageSize+1))
	require.ErrorIs(t, err, ErrMessageTooLarge)
}
