// Package pingmsg implements the smallest possible wiremsg.Record: a
// single 8-byte nonce, proving the codec generalizes past alertmsg's
// much larger field schedule. Grounded on the teacher's
// msg/PingMessage.go.
package pingmsg

import (
	"io"

	"github.com/pkg/errors"

	"github.com/btcscriptvm/scriptvm/wiremsg"
)

// Command is the wire command name for a ping message.
const Command = "ping"

// Message carries a single nonce a peer echoes back in a pong.
type Message struct {
	Nonce uint64
}

// New returns a Message with nonce set.
func New(nonce uint64) *Message {
	return &Message{Nonce: nonce}
}

func (m *Message) Command() string { return Command }

func (m *Message) Serialize(w io.Writer) error {
	return wiremsg.WriteUint64(w, m.Nonce)
}

func (m *Message) Deserialize(r io.Reader) error {
	nonce, err := wiremsg.ReadUint64(r)
	if err != nil {
		return errors.Wrap(err, "pingmsg: nonce")
	}
	m.Nonce = nonce
	return nil
}

func (m *Message) HintSerializedLen() int {
	return 8
}
