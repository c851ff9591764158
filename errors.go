package noise

import "errors"

// Authentication failures. Always terminal: the connection must be dropped,
// never retried, because retrying would either reuse a nonce or admit
// unauthenticated data.
var (
	ErrAuthenticationFailure = errors.New("noise: AEAD authentication failed")
)

// Protocol violations: the peer sent something malformed.
var (
	ErrShortMessage  = errors.New("noise: message is shorter than the pattern requires")
	ErrInvalidPubKey = errors.New("noise: invalid public key")
)

// Configuration errors: the caller misused the API. These surface at
// construction time rather than mid-handshake.
var (
	ErrInvalidKeyLength  = errors.New("noise: key must be 32 bytes")
	ErrInvalidPreMessage = errors.New("noise: pre-message pattern must be one of nil, {E}, {S}, {E,S}")
	ErrMissingStaticKey  = errors.New("noise: pattern requires a static key that was not provided")
)
