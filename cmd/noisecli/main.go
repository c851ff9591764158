// Command noisecli is a demonstration harness for the noise handshake core:
// it runs a loopback Noise_XK_secp256k1_ChaChaPoly_SHA256 handshake between
// two in-process peers and prints the resulting transport keys. It is not a
// production Lightning peer - actual peer lifecycle, message routing, and
// persistence stay out of scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCommand = &cobra.Command{
	Use:   "noisecli",
	Short: "Run and inspect a Noise_XK_secp256k1_ChaChaPoly_SHA256 handshake",
	Long: `
noisecli demonstrates the BOLT #8 handshake core. It generates a fresh
initiator/responder keypair, runs the three-act XK handshake in memory,
prints the derived transport cipher keys and chaining key, and sends one
message through the transport layer over an in-memory buffer.`,
}

func init() {
	rootCommand.AddCommand(handshakeCommand)
}
