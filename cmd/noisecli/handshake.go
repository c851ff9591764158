package main

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bolt8/noise"
	"github.com/bolt8/noise/internal/transport"
)

var handshakeCommand = &cobra.Command{
	Use:   "handshake",
	Short: "Run a loopback XK handshake and print the derived keys",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoopbackHandshake(cmd)
	},
}

func runLoopbackHandshake(cmd *cobra.Command) error {
	initiatorStatic := noise.Secp256k1.GenerateKeypair(rand.Reader)
	responderStatic := noise.Secp256k1.GenerateKeypair(rand.Reader)

	initiator, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   noise.Secp256k1ChaChaPolySHA256,
		Pattern:       noise.HandshakeXK,
		Initiator:     true,
		Prologue:      []byte("lightning"),
		StaticKeypair: initiatorStatic,
		PeerStatic:    responderStatic.Public,
	})
	if err != nil {
		return fmt.Errorf("building initiator handshake: %w", err)
	}

	responder, err := noise.NewHandshakeState(noise.Config{
		CipherSuite:   noise.Secp256k1ChaChaPolySHA256,
		Pattern:       noise.HandshakeXK,
		Initiator:     false,
		Prologue:      []byte("lightning"),
		StaticKeypair: responderStatic,
	})
	if err != nil {
		return fmt.Errorf("building responder handshake: %w", err)
	}

	act1, _, _, _, err := initiator.WriteMessage(nil, nil)
	if err != nil {
		return fmt.Errorf("act one: %w", err)
	}
	if _, _, _, _, err := responder.ReadMessage(nil, act1); err != nil {
		return fmt.Errorf("act one (responder): %w", err)
	}

	act2, _, _, _, err := responder.WriteMessage(nil, nil)
	if err != nil {
		return fmt.Errorf("act two: %w", err)
	}
	if _, _, _, _, err := initiator.ReadMessage(nil, act2); err != nil {
		return fmt.Errorf("act two (initiator): %w", err)
	}

	act3, iSend, iRecv, iCK, err := initiator.WriteMessage(nil, nil)
	if err != nil {
		return fmt.Errorf("act three: %w", err)
	}
	_, rRecv, rSend, _, err := responder.ReadMessage(nil, act3)
	if err != nil {
		return fmt.Errorf("act three (responder): %w", err)
	}

	out := cmd.OutOrStdout()
	iSendKey := iSend.Key()
	iRecvKey := iRecv.Key()
	rSendKey := rSend.Key()
	rRecvKey := rRecv.Key()
	fmt.Fprintf(out, "initiator send key: %s\n", hex.EncodeToString(iSendKey[:]))
	fmt.Fprintf(out, "initiator recv key: %s\n", hex.EncodeToString(iRecvKey[:]))
	fmt.Fprintf(out, "responder send key: %s\n", hex.EncodeToString(rSendKey[:]))
	fmt.Fprintf(out, "responder recv key: %s\n", hex.EncodeToString(rRecvKey[:]))
	fmt.Fprintf(out, "chaining key:        %s\n", hex.EncodeToString(iCK))

	wire := new(bytes.Buffer)
	initiatorConn := transport.NewFromHandshake(wire, true, iSend, iRecv, iCK)
	responderConn := transport.NewFromHandshake(wire, false, rRecv, rSend, iCK)

	if err := initiatorConn.Send([]byte("hello, lightning")); err != nil {
		return fmt.Errorf("sending over transport: %w", err)
	}
	payload, err := responderConn.Receive()
	if err != nil {
		return fmt.Errorf("receiving over transport: %w", err)
	}
	fmt.Fprintf(out, "transport round trip: %q\n", payload)
	return nil
}
