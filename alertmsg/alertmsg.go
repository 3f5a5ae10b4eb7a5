// Package alertmsg implements the historical Bitcoin alert message: a
// bounded binary record with length-prefixed vectors and a checksum
// that deliberately does not follow the standard network-envelope
// double-SHA-256. Grounded on the field-schedule idiom of the teacher's
// msg/VersionMessage.go (sequential Read/WriteElements plus VarString
// vectors); the teacher's own msg/AlertMessage.go is an empty stub, so
// the field schedule itself follows the historical alert format the
// stub was always meant to fill in.
package alertmsg

import (
	"bytes"
	"crypto/sha256"
	"io"

	"github.com/pkg/errors"

	"github.com/btcscriptvm/scriptvm/wiremsg"
)

// Command is the wire command name for an alert message.
const Command = "alert"

// Message is one alert record. The field order below is the wire
// schedule: Serialize/Deserialize/Checksum must all walk it in this
// exact order.
type Message struct {
	Version     int32
	RelayUntil  int64
	Expiration  int64
	ID          int32
	Cancel      int32
	SetCancel   []int32
	MinVer      int32
	MaxVer      int32
	SetSubVer   []string
	Priority    int32
	Comment     string
	StatusBar   string
	Reserved    string
}

// Command returns the alert message's wire command name.
func (m *Message) Command() string { return Command }

// Serialize emits every field in schedule order: signed integers
// little-endian, vectors and strings VarInt-length-prefixed.
func (m *Message) Serialize(w io.Writer) error {
	if err := wiremsg.WriteInt32(w, m.Version); err != nil {
		return err
	}
	if err := wiremsg.WriteInt64(w, m.RelayUntil); err != nil {
		return err
	}
	if err := wiremsg.WriteInt64(w, m.Expiration); err != nil {
		return err
	}
	if err := wiremsg.WriteInt32(w, m.ID); err != nil {
		return err
	}
	if err := wiremsg.WriteInt32(w, m.Cancel); err != nil {
		return err
	}
	if err := wiremsg.WriteInt32Vector(w, m.SetCancel); err != nil {
		return err
	}
	if err := wiremsg.WriteInt32(w, m.MinVer); err != nil {
		return err
	}
	if err := wiremsg.WriteInt32(w, m.MaxVer); err != nil {
		return err
	}
	if err := wiremsg.WriteStringVector(w, m.SetSubVer); err != nil {
		return err
	}
	if err := wiremsg.WriteInt32(w, m.Priority); err != nil {
		return err
	}
	if err := wiremsg.WriteVarString(w, m.Comment); err != nil {
		return err
	}
	if err := wiremsg.WriteVarString(w, m.StatusBar); err != nil {
		return err
	}
	return wiremsg.WriteVarString(w, m.Reserved)
}

// Deserialize reads the same schedule Serialize writes.
func (m *Message) Deserialize(r io.Reader) error {
	var err error
	if m.Version, err = wiremsg.ReadInt32(r); err != nil {
		return errors.Wrap(err, "alertmsg: version")
	}
	if m.RelayUntil, err = wiremsg.ReadInt64(r); err != nil {
		return errors.Wrap(err, "alertmsg: relay_until")
	}
	if m.Expiration, err = wiremsg.ReadInt64(r); err != nil {
		return errors.Wrap(err, "alertmsg: expiration")
	}
	if m.ID, err = wiremsg.ReadInt32(r); err != nil {
		return errors.Wrap(err, "alertmsg: id")
	}
	if m.Cancel, err = wiremsg.ReadInt32(r); err != nil {
		return errors.Wrap(err, "alertmsg: cancel")
	}
	if m.SetCancel, err = wiremsg.ReadInt32Vector(r); err != nil {
		return errors.Wrap(err, "alertmsg: set_cancel")
	}
	if m.MinVer, err = wiremsg.ReadInt32(r); err != nil {
		return errors.Wrap(err, "alertmsg: min_ver")
	}
	if m.MaxVer, err = wiremsg.ReadInt32(r); err != nil {
		return errors.Wrap(err, "alertmsg: max_ver")
	}
	if m.SetSubVer, err = wiremsg.ReadStringVector(r); err != nil {
		return errors.Wrap(err, "alertmsg: set_sub_ver")
	}
	if m.Priority, err = wiremsg.ReadInt32(r); err != nil {
		return errors.Wrap(err, "alertmsg: priority")
	}
	if m.Comment, err = wiremsg.ReadVarString(r); err != nil {
		return errors.Wrap(err, "alertmsg: comment")
	}
	if m.StatusBar, err = wiremsg.ReadVarString(r); err != nil {
		return errors.Wrap(err, "alertmsg: status_bar")
	}
	if m.Reserved, err = wiremsg.ReadVarString(r); err != nil {
		return errors.Wrap(err, "alertmsg: reserved")
	}
	return nil
}

// HintSerializedLen returns the exact byte count Serialize will emit.
func (m *Message) HintSerializedLen() int {
	n := 4 + 8 + 8 + 4 + 4 // version, relay_until, expiration, id, cancel
	n += wiremsg.VarIntSerializeSize(uint64(len(m.SetCancel))) + 4*len(m.SetCancel)
	n += 4 + 4 // min_ver, max_ver
	n += wiremsg.VarIntSerializeSize(uint64(len(m.SetSubVer)))
	for _, s := range m.SetSubVer {
		n += wiremsg.VarIntSerializeSize(uint64(len(s))) + len(s)
	}
	n += 4 // priority
	for _, s := range []string{m.Comment, m.StatusBar, m.Reserved} {
		n += wiremsg.VarIntSerializeSize(uint64(len(s))) + len(s)
	}
	return n
}

// Checksum hashes the semantic field bytes in schedule order, omitting
// every length prefix, and returns the first 4 bytes of the SHA-256
// digest. This deliberately does not match the standard network
// envelope's double-SHA-256 checksum (spec.md REDESIGN FLAGS): the
// historical alert format's own checksum is preserved as-is rather than
// unified with wiremsg.WriteEnvelope's framing checksum.
func (m *Message) Checksum() [4]byte {
	var buf bytes.Buffer
	wiremsg.WriteInt32(&buf, m.Version)
	wiremsg.WriteInt64(&buf, m.RelayUntil)
	wiremsg.WriteInt64(&buf, m.Expiration)
	wiremsg.WriteInt32(&buf, m.ID)
	wiremsg.WriteInt32(&buf, m.Cancel)
	for _, v := range m.SetCancel {
		wiremsg.WriteInt32(&buf, v)
	}
	wiremsg.WriteInt32(&buf, m.MinVer)
	wiremsg.WriteInt32(&buf, m.MaxVer)
	for _, s := range m.SetSubVer {
		buf.WriteString(s)
	}
	wiremsg.WriteInt32(&buf, m.Priority)
	buf.WriteString(m.Comment)
	buf.WriteString(m.StatusBar)
	buf.WriteString(m.Reserved)

	digest := sha256.Sum256(buf.Bytes())
	var out [4]byte
	copy(out[:], digest[:4])
	return out
}
