package noise

import (
	"crypto/rand"
	"io"
)

// CipherState provides symmetric AEAD encryption/decryption once a key has
// been mixed in. Before any key exists it passes plaintext through
// unchanged, which is what lets the handshake encrypt early, unauthenticated
// messages with the same call sites used once a key is set.
//
// Every Encrypt/Decrypt call mutates the nonce counter in place: logically
// each call returns a new state with n+1, but this package uses move-based
// mutation rather than copy-and-return for efficiency. A CipherState must
// not be used from two goroutines concurrently, and must not be reused after
// being handed to a second CipherState by value (no correct caller does
// this, so the package does not detect it).
type CipherState struct {
	cs CipherSuite
	c  Cipher
	k  [symKeyLen]byte
	n  uint64
}

// Encrypt appends the AEAD-sealed ciphertext (or, before a key has been
// mixed in, the plaintext itself) to out and advances the nonce.
func (s *CipherState) Encrypt(out, ad, plaintext []byte) []byte {
	if s.c == nil {
		return append(out, plaintext...)
	}
	out = s.c.Encrypt(out, s.n, ad, plaintext)
	s.n++
	return out
}

// Decrypt appends the verified plaintext to out and advances the nonce. It
// returns ErrAuthenticationFailure if the AEAD tag does not verify; no
// distinction is made between a wrong key and tampered ciphertext.
func (s *CipherState) Decrypt(out, ad, ciphertext []byte) ([]byte, error) {
	if s.c == nil {
		return append(out, ciphertext...), nil
	}
	out, err := s.c.Decrypt(out, s.n, ad, ciphertext)
	s.n++
	return out, err
}

// Key returns the current 32-byte symmetric key. Used by a transport layer
// that implements BOLT #8's every-1000-messages key rotation, which this
// package does not perform itself.
func (s *CipherState) Key() [symKeyLen]byte { return s.k }

// Nonce returns the next nonce this state will use.
func (s *CipherState) Nonce() uint64 { return s.n }

// Rekey installs a new key and resets the nonce to 0, for callers
// implementing key rotation on top of this cipher state.
func (s *CipherState) Rekey(newKey [symKeyLen]byte) {
	s.k = newKey
	s.n = 0
	s.c = s.cs.Cipher(s.k)
}

// Destroy zeroes the key material. Callers should call it as soon as a
// CipherState is no longer needed.
func (s *CipherState) Destroy() {
	for i := range s.k {
		s.k[i] = 0
	}
	s.c = nil
	s.n = 0
}

// symmetricState wraps a CipherState with the handshake's chaining key and
// running transcript hash. It is not exported: callers only ever see it
// indirectly, through HandshakeState, and through the CipherState pair and
// chaining key that Split produces.
type symmetricState struct {
	CipherState
	hasK bool
	ck   []byte
	h    []byte
}

func (s *symmetricState) initializeSymmetric(cs CipherSuite, protocolName []byte) {
	s.cs = cs
	hf := cs.Hash()
	if len(protocolName) <= hf.Size() {
		s.h = make([]byte, hf.Size())
		copy(s.h, protocolName)
	} else {
		hf.Write(protocolName)
		s.h = hf.Sum(nil)
	}
	s.ck = make([]byte, len(s.h))
	copy(s.ck, s.h)
}

func (s *symmetricState) mixKey(dhOutput []byte) {
	s.n = 0
	s.hasK = true
	var k []byte
	s.ck, k = hkdf(s.cs.Hash, s.ck[:0], s.k[:0], s.ck, dhOutput)
	copy(s.k[:], k)
	s.c = s.cs.Cipher(s.k)
}

func (s *symmetricState) mixHash(data []byte) {
	hf := s.cs.Hash()
	hf.Write(s.h)
	hf.Write(data)
	s.h = hf.Sum(s.h[:0])
}

// encryptAndHash encrypts (or, pre-key, passes through) plaintext and mixes
// the resulting ciphertext - never the plaintext - into the transcript hash,
// so both sides converge on the same hash regardless of which one has keyed
// the cipher yet.
func (s *symmetricState) encryptAndHash(out, plaintext []byte) []byte {
	ciphertext := s.Encrypt(out, s.h, plaintext)
	s.mixHash(ciphertext[len(out):])
	return ciphertext
}

func (s *symmetricState) decryptAndHash(out, data []byte) ([]byte, error) {
	plaintext, err := s.Decrypt(out, s.h, data)
	if err != nil {
		return nil, err
	}
	s.mixHash(data)
	return plaintext, nil
}

// split derives the two transport cipher states and returns the final
// chaining key alongside them.
func (s *symmetricState) split() (*CipherState, *CipherState, []byte) {
	cs1 := &CipherState{cs: s.cs}
	cs2 := &CipherState{cs: s.cs}
	k1, k2 := hkdf(s.cs.Hash, cs1.k[:0], cs2.k[:0], s.ck, nil)
	copy(cs1.k[:], k1)
	copy(cs2.k[:], k2)
	cs1.c = s.cs.Cipher(cs1.k)
	cs2.c = s.cs.Cipher(cs2.k)
	ck := append([]byte(nil), s.ck...)
	return cs1, cs2, ck
}

// Config describes one side of a handshake: the cipher suite and pattern to
// run, whether this side speaks first, any pre-shared prologue, this side's
// own keys, and whatever of the remote side's keys are already known.
type Config struct {
	CipherSuite CipherSuite
	Pattern     HandshakePattern
	Initiator   bool
	Prologue    []byte

	// StaticKeypair is this side's long-term identity, required whenever
	// the pattern has this side send or pre-mix an S token.
	StaticKeypair DHKey

	// EphemeralKeypair lets tests supply a deterministic ephemeral instead
	// of drawing one from Random. Production callers leave this zero.
	EphemeralKeypair DHKey

	// PeerStatic is the remote side's static public key, required for the
	// XK pattern's "K" half (the initiator must know the responder's
	// static key before the handshake starts).
	PeerStatic []byte

	// PeerEphemeral lets tests pre-seed the remote ephemeral public key
	// when it is supplied as a pre-message. Unused by NN and XK.
	PeerEphemeral []byte

	// Random is the byte source for ephemeral key generation. Defaults to
	// crypto/rand.Reader; tests substitute a deterministic sequence to
	// reproduce fixed handshake transcripts.
	Random io.Reader
}

// HandshakeState runs one side of a handshake pattern to completion. It is
// short-lived: construct it at connection start, drive it with alternating
// WriteMessage/ReadMessage calls, and discard it once both return a
// non-nil CipherState pair.
type HandshakeState struct {
	ss        symmetricState
	s         DHKey  // local static keypair
	e         DHKey  // local ephemeral keypair
	rs        []byte // remote static public key
	re        []byte // remote ephemeral public key
	messages  [][]MessagePattern
	initiator bool // fixed for the life of the handshake
	write     bool // flips after every message
	msgIndex  int
	rng       io.Reader
}

// NewHandshakeState builds a handshake for the given role and pattern. It
// fails if the pattern's pre-messages are malformed or if a pre-message
// requires a static key that was not supplied - both configuration errors
// that must surface before any bytes go on the wire.
func NewHandshakeState(c Config) (*HandshakeState, error) {
	if err := validatePreMessage(c.Pattern.InitiatorPreMessages); err != nil {
		return nil, err
	}
	if err := validatePreMessage(c.Pattern.ResponderPreMessages); err != nil {
		return nil, err
	}

	rng := c.Random
	if rng == nil {
		rng = rand.Reader
	}

	hs := &HandshakeState{
		s:         c.StaticKeypair,
		rs:        append([]byte(nil), c.PeerStatic...),
		messages:  c.Pattern.Messages,
		initiator: c.Initiator,
		write:     c.Initiator,
		rng:       rng,
	}
	if len(c.EphemeralKeypair.Private) > 0 {
		hs.e = c.EphemeralKeypair
	}
	if len(c.PeerEphemeral) > 0 {
		hs.re = append([]byte(nil), c.PeerEphemeral...)
	}

	hs.ss.initializeSymmetric(c.CipherSuite, []byte("Noise_"+c.Pattern.Name+"_"+string(c.CipherSuite.Name())))
	hs.ss.mixHash(c.Prologue)

	for _, tok := range c.Pattern.InitiatorPreMessages {
		switch {
		case c.Initiator && tok == MessagePatternE:
			hs.ss.mixHash(hs.e.Public)
		case c.Initiator && tok == MessagePatternS:
			if len(hs.s.Public) == 0 {
				return nil, ErrMissingStaticKey
			}
			hs.ss.mixHash(hs.s.Public)
		case !c.Initiator && tok == MessagePatternE:
			hs.ss.mixHash(hs.re)
		case !c.Initiator && tok == MessagePatternS:
			hs.ss.mixHash(hs.rs)
		}
	}
	for _, tok := range c.Pattern.ResponderPreMessages {
		switch {
		case !c.Initiator && tok == MessagePatternE:
			hs.ss.mixHash(hs.e.Public)
		case !c.Initiator && tok == MessagePatternS:
			if len(hs.s.Public) == 0 {
				return nil, ErrMissingStaticKey
			}
			hs.ss.mixHash(hs.s.Public)
		case c.Initiator && tok == MessagePatternE:
			hs.ss.mixHash(hs.re)
		case c.Initiator && tok == MessagePatternS:
			if len(hs.rs) == 0 {
				return nil, ErrMissingStaticKey
			}
			hs.ss.mixHash(hs.rs)
		}
	}

	return hs, nil
}

// dhES resolves the ES token: by convention it always means DH(initiator's
// ephemeral, responder's static), computed from whichever side of that pair
// is local. The initiator has e locally and rs from the pre-message or a
// prior read; the responder has s locally and re from the message just
// read. Both computations yield the same 32 bytes.
func (s *HandshakeState) dhES() ([]byte, error) {
	if s.initiator {
		return s.ss.cs.DH(s.e.Private, s.rs)
	}
	return s.ss.cs.DH(s.s.Private, s.re)
}

// dhSE resolves the SE token: DH(initiator's static, responder's ephemeral).
func (s *HandshakeState) dhSE() ([]byte, error) {
	if s.initiator {
		return s.ss.cs.DH(s.s.Private, s.re)
	}
	return s.ss.cs.DH(s.e.Private, s.rs)
}

// WriteMessage produces the next handshake message into out, appending the
// (possibly encrypted) payload. When this was the pattern's final message it
// also returns the two transport cipher states and the final chaining key;
// otherwise those three return values are nil.
//
// Calling WriteMessage when it is the peer's turn, or after the handshake
// has already completed, is a programming error and panics rather than
// returning an error, matching the role-flip contract: a correct caller
// never does either.
func (s *HandshakeState) WriteMessage(out, payload []byte) ([]byte, *CipherState, *CipherState, []byte, error) {
	if !s.write {
		panic("noise: WriteMessage called when it is the peer's turn")
	}
	if s.msgIndex >= len(s.messages) {
		panic("noise: handshake has no messages left")
	}

	for _, tok := range s.messages[s.msgIndex] {
		switch tok {
		case MessagePatternE:
			if len(s.e.Private) == 0 {
				s.e = s.ss.cs.GenerateKeypair(s.rng)
			}
			out = append(out, s.e.Public...)
			s.ss.mixHash(s.e.Public)
		case MessagePatternS:
			if len(s.s.Public) == 0 {
				panic("noise: pattern requires a local static key that was not provided")
			}
			out = s.ss.encryptAndHash(out, s.s.Public)
		case MessagePatternDHEE:
			dh, err := s.ss.cs.DH(s.e.Private, s.re)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		case MessagePatternDHSS:
			dh, err := s.ss.cs.DH(s.s.Private, s.rs)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		case MessagePatternDHES:
			dh, err := s.dhES()
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		case MessagePatternDHSE:
			dh, err := s.dhSE()
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		}
	}

	s.write = false
	s.msgIndex++
	out = s.ss.encryptAndHash(out, payload)

	if s.msgIndex >= len(s.messages) {
		cs1, cs2, ck := s.ss.split()
		return out, cs1, cs2, ck, nil
	}
	return out, nil, nil, nil, nil
}

// ReadMessage consumes a handshake message produced by WriteMessage,
// appending the recovered payload to out. Like WriteMessage it returns the
// transport cipher state pair and chaining key once this was the pattern's
// final message.
func (s *HandshakeState) ReadMessage(out, message []byte) ([]byte, *CipherState, *CipherState, []byte, error) {
	if s.write {
		panic("noise: ReadMessage called when it is this side's turn to write")
	}
	if s.msgIndex >= len(s.messages) {
		panic("noise: handshake has no messages left")
	}

	for _, tok := range s.messages[s.msgIndex] {
		switch tok {
		case MessagePatternE:
			if len(message) < pubKeyLen {
				return nil, nil, nil, nil, ErrShortMessage
			}
			s.re = append(s.re[:0], message[:pubKeyLen]...)
			s.ss.mixHash(s.re)
			message = message[pubKeyLen:]
		case MessagePatternS:
			expected := pubKeyLen
			if s.ss.hasK {
				expected += tagLen
			}
			if len(message) < expected {
				return nil, nil, nil, nil, ErrShortMessage
			}
			rs, err := s.ss.decryptAndHash(nil, message[:expected])
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.rs = rs
			message = message[expected:]
		case MessagePatternDHEE:
			dh, err := s.ss.cs.DH(s.e.Private, s.re)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		case MessagePatternDHSS:
			dh, err := s.ss.cs.DH(s.s.Private, s.rs)
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		case MessagePatternDHES:
			dh, err := s.dhES()
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		case MessagePatternDHSE:
			dh, err := s.dhSE()
			if err != nil {
				return nil, nil, nil, nil, err
			}
			s.ss.mixKey(dh)
		}
	}

	s.write = true
	s.msgIndex++
	payload, err := s.ss.decryptAndHash(out, message)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	if s.msgIndex >= len(s.messages) {
		cs1, cs2, ck := s.ss.split()
		return payload, cs1, cs2, ck, nil
	}
	return payload, nil, nil, nil, nil
}

// RemoteStatic returns the remote side's static public key, available once
// the message pattern carrying it has been processed.
func (s *HandshakeState) RemoteStatic() []byte {
	return s.rs
}

// Destroy zeroes all key material held by the handshake. Cancelling a
// handshake mid-flight must not leave recoverable key material behind.
func (s *HandshakeState) Destroy() {
	s.ss.Destroy()
	zero(s.s.Private)
	zero(s.e.Private)
	zero(s.re)
	zero(s.rs)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
