package noise

// MessagePattern is a single token in a handshake message.
type MessagePattern int

const (
	MessagePatternE MessagePattern = iota
	MessagePatternS
	MessagePatternDHEE
	MessagePatternDHES
	MessagePatternDHSE
	MessagePatternDHSS
)

// HandshakePattern is a named sequence of handshake messages, plus any
// pre-messages the initiator/responder are assumed to already know before
// the first real message is sent.
type HandshakePattern struct {
	Name                 string
	InitiatorPreMessages []MessagePattern
	ResponderPreMessages []MessagePattern
	Messages             [][]MessagePattern
}

// HandshakeNN is the no-static-key pattern used as a deterministic test
// fixture; it provides no authentication.
var HandshakeNN = HandshakePattern{
	Name: "NN",
	Messages: [][]MessagePattern{
		{MessagePatternE},
		{MessagePatternE, MessagePatternDHEE},
	},
}

// HandshakeXK is the production BOLT #8 pattern: the initiator transmits its
// static key (X), and the responder's static key is known to the initiator
// in advance (K).
var HandshakeXK = HandshakePattern{
	Name:                 "XK",
	ResponderPreMessages: []MessagePattern{MessagePatternS},
	Messages: [][]MessagePattern{
		{MessagePatternE, MessagePatternDHES},
		{MessagePatternE, MessagePatternDHEE},
		{MessagePatternS, MessagePatternDHSE},
	},
}

// validatePreMessage rejects anything other than the four pre-message
// shapes Noise allows: none, {E}, {S}, or {E, S} in that order.
func validatePreMessage(tokens []MessagePattern) error {
	switch len(tokens) {
	case 0:
		return nil
	case 1:
		if tokens[0] == MessagePatternE || tokens[0] == MessagePatternS {
			return nil
		}
	case 2:
		if tokens[0] == MessagePatternE && tokens[1] == MessagePatternS {
			return nil
		}
	}
	return ErrInvalidPreMessage
}
