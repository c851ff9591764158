// Package transport implements the BOLT #8 record layer that sits on top of
// a completed Noise handshake: a 2-byte encrypted length prefix ahead of
// each encrypted message body, and key rotation after every 1000 AEAD
// operations per direction (every 500 messages, since the length prefix and
// the body each use one nonce). Both are explicitly out of scope for the
// handshake core itself
// and left to a caller such as this package.
package transport

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bolt8/noise"
)

const (
	lengthPrefixSize = 2
	// maxMessageSize is the largest payload a 2-byte big-endian length
	// prefix can describe.
	maxMessageSize = 65535
	// rotationInterval is BOLT #8's fixed key rotation period: after a
	// direction's cipher state has performed this many encryptions or
	// decryptions, its key is replaced before the next one.
	rotationInterval = 1000
)

// ErrMessageTooLarge is returned by Send when a payload does not fit in the
// 2-byte length prefix.
var ErrMessageTooLarge = errors.New("transport: message exceeds maximum size")

// Direction is one half of a duplex connection's keying material: a cipher
// state plus the chaining key needed to rotate it. The handshake's Split
// step hands back a bare CipherState and ck; Direction is what keeps them
// paired for the life of the connection.
type Direction struct {
	cs *noise.CipherState
	ck []byte
}

// NewDirection builds a Direction from a cipher state and the chaining key
// returned alongside it by HandshakeState.WriteMessage/ReadMessage's final
// call.
func NewDirection(cs *noise.CipherState, ck []byte) *Direction {
	return &Direction{cs: cs, ck: append([]byte(nil), ck...)}
}

// rotateIfDue applies BOLT #8's rotation rule: once 1000 nonces have been
// used under the current key, derive a new (ck, k) pair from
// the old ck and the current k, and reset the nonce to 0.
func (d *Direction) rotateIfDue() {
	if d.cs.Nonce() < rotationInterval {
		return
	}
	k := d.cs.Key()
	newCK, newK := noise.RotateKey(d.ck, k[:])
	d.ck = newCK[:]
	d.cs.Rekey(newK)
}

// Destroy zeroes this direction's key material.
func (d *Direction) Destroy() {
	d.cs.Destroy()
	for i := range d.ck {
		d.ck[i] = 0
	}
}

// Conn wraps an io.ReadWriter (a net.Conn in production, a net.Pipe or
// bytes.Buffer in tests) with BOLT #8 framing over a pair of Directions.
type Conn struct {
	rw   io.ReadWriter
	send *Direction
	recv *Direction
}

// New builds a Conn from an already-oriented send/recv pair.
func New(rw io.ReadWriter, send, recv *Direction) *Conn {
	return &Conn{rw: rw, send: send, recv: recv}
}

// NewFromHandshake orients the two cipher states Split produces according to
// role: the initiator's send direction is the responder's recv direction,
// and vice versa, both sharing the same starting chaining key.
func NewFromHandshake(rw io.ReadWriter, initiator bool, cs1, cs2 *noise.CipherState, ck []byte) *Conn {
	if initiator {
		return New(rw, NewDirection(cs1, ck), NewDirection(cs2, ck))
	}
	return New(rw, NewDirection(cs2, ck), NewDirection(cs1, ck))
}

// Send encrypts and frames one message: an AEAD-sealed 2-byte length prefix
// followed by the AEAD-sealed body, each under the next nonce in sequence.
func (c *Conn) Send(payload []byte) error {
	if len(payload) > maxMessageSize {
		return ErrMessageTooLarge
	}

	var lengthBytes [lengthPrefixSize]byte
	binary.BigEndian.PutUint16(lengthBytes[:], uint16(len(payload)))

	encryptedLength := c.send.cs.Encrypt(nil, nil, lengthBytes[:])
	c.send.rotateIfDue()
	encryptedBody := c.send.cs.Encrypt(nil, nil, payload)
	c.send.rotateIfDue()

	if _, err := c.rw.Write(encryptedLength); err != nil {
		return fmt.Errorf("transport: writing length prefix: %w", err)
	}
	if _, err := c.rw.Write(encryptedBody); err != nil {
		return fmt.Errorf("transport: writing message body: %w", err)
	}
	return nil
}

// Receive reads and decrypts one framed message.
func (c *Conn) Receive() ([]byte, error) {
	lengthCiphertext := make([]byte, lengthPrefixSize+noise.TagOverhead)
	if _, err := io.ReadFull(c.rw, lengthCiphertext); err != nil {
		return nil, fmt.Errorf("transport: reading length prefix: %w", err)
	}
	lengthBytes, err := c.recv.cs.Decrypt(nil, nil, lengthCiphertext)
	if err != nil {
		return nil, err
	}
	c.recv.rotateIfDue()

	length := binary.BigEndian.Uint16(lengthBytes)
	bodyCiphertext := make([]byte, int(length)+noise.TagOverhead)
	if _, err := io.ReadFull(c.rw, bodyCiphertext); err != nil {
		return nil, fmt.Errorf("transport: reading message body: %w", err)
	}
	payload, err := c.recv.cs.Decrypt(nil, nil, bodyCiphertext)
	if err != nil {
		return nil, err
	}
	c.recv.rotateIfDue()
	return payload, nil
}

// Close releases the underlying connection, if it implements io.Closer, and
// zeroes both directions' key material.
func (c *Conn) Close() error {
	c.send.Destroy()
	c.recv.Destroy()
	if closer, ok := c.rw.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
