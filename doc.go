// Package noise implements the Noise Protocol Framework instantiated as
// Noise_XK_secp256k1_ChaChaPoly_SHA256, the handshake BOLT #8 uses to
// authenticate and encrypt a Lightning peer connection.
//
// The package is deliberately narrow: it supports exactly the NN (test
// fixture) and XK (production) patterns over one primitive tuple rather than
// acting as a general Noise toolkit. Callers drive the handshake by
// alternating WriteMessage and ReadMessage until both return a non-nil
// pair of CipherStates, then use those for transport encryption.
package noise
