// Package wiremsg implements the peer-to-peer wire-message codec: a
// generic length-prefixed envelope plus the little-endian primitive,
// VarInt, and VarString helpers every concrete message type builds on.
// Grounded on the teacher's msg/MessageHeader.go (WriteMessage/
// ReadMessage envelope shape, double-SHA-256 checksum) and
// utils/VarInt.go / utils/VarString.go (CompactSize encoding).
package wiremsg

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/btcscriptvm/scriptvm/hashprovider"
)

// CommandSize is the fixed, zero-padded width of a message's command
// name inside the envelope header.
const CommandSize = 12

// HeaderSize is magic(4) + command(12) + length(4) + checksum(4).
const HeaderSize = 4 + CommandSize + 4 + 4

// MaxPayloadSize bounds how large a single envelope's payload may be,
// matching the teacher's protocol.MaxMessagePayload guard against
// unbounded allocation from a hostile length field.
const MaxPayloadSize = 32 * 1024 * 1024

// Record is any concrete message type the envelope can carry.
type Record interface {
	// Command returns the message's wire command name (<= CommandSize
	// ASCII bytes; the envelope zero-pads the rest).
	Command() string
	Serialize(w io.Writer) error
	Deserialize(r io.Reader) error
	// HintSerializedLen returns the exact byte length Serialize will
	// emit for the record's current field values.
	HintSerializedLen() int
}

// WriteEnvelope serializes rec and writes magic + zero-padded command +
// length + checksum + payload to w. The checksum is the standard
// double-SHA-256-truncated-to-4-bytes network checksum; a record's own
// Checksum method (e.g. alertmsg's) is a distinct, message-specific
// value, not the envelope checksum.
func WriteEnvelope(w io.Writer, magic uint32, rec Record) (int, error) {
	var payload bytes.Buffer
	if err := rec.Serialize(&payload); err != nil {
		return 0, errors.Wrap(err, "wiremsg: serializing payload")
	}
	if payload.Len() > MaxPayloadSize {
		return 0, errors.Errorf("wiremsg: payload of %d bytes exceeds %d-byte limit", payload.Len(), MaxPayloadSize)
	}

	var header bytes.Buffer
	if err := WriteUint32(&header, magic); err != nil {
		return 0, err
	}
	if err := writeCommand(&header, rec.Command()); err != nil {
		return 0, err
	}
	if err := WriteUint32(&header, uint32(payload.Len())); err != nil {
		return 0, err
	}
	sum := hashprovider.Hash256(payload.Bytes())
	if _, err := header.Write(sum[:4]); err != nil {
		return 0, errors.Wrap(err, "wiremsg: writing checksum")
	}

	n, err := w.Write(header.Bytes())
	if err != nil {
		return n, errors.Wrap(err, "wiremsg: writing header")
	}
	m, err := w.Write(payload.Bytes())
	return n + m, errors.Wrap(err, "wiremsg: writing payload")
}

// ReadEnvelope reads one envelope from r, validating magic and checksum,
// and returns the command name and raw payload bytes for the caller to
// hand to the matching Record's Deserialize.
func ReadEnvelope(r io.Reader, wantMagic uint32) (command string, payload []byte, err error) {
	magic, err := ReadUint32(r)
	if err != nil {
		return "", nil, errors.Wrap(err, "wiremsg: reading magic")
	}
	if magic != wantMagic {
		return "", nil, errors.Errorf("wiremsg: magic %#x does not match expected %#x", magic, wantMagic)
	}

	var cmdBuf [CommandSize]byte
	if _, err := io.ReadFull(r, cmdBuf[:]); err != nil {
		return "", nil, errors.Wrap(err, "wiremsg: reading command")
	}
	command = string(bytes.TrimRight(cmdBuf[:], "\x00"))

	length, err := ReadUint32(r)
	if err != nil {
		return "", nil, errors.Wrap(err, "wiremsg: reading length")
	}
	if length > MaxPayloadSize {
		return "", nil, errors.Errorf("wiremsg: declared length %d exceeds %d-byte limit", length, MaxPayloadSize)
	}

	var checksum [4]byte
	if _, err := io.ReadFull(r, checksum[:]); err != nil {
		return "", nil, errors.Wrap(err, "wiremsg: reading checksum")
	}

	payload = make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return "", nil, errors.Wrap(err, "wiremsg: reading payload")
	}

	sum := hashprovider.Hash256(payload)
	if !bytes.Equal(sum[:4], checksum[:]) {
		return "", nil, errors.New("wiremsg: checksum mismatch")
	}
	return command, payload, nil
}

func writeCommand(w io.Writer, cmd string) error {
	if len(cmd) > CommandSize {
		return errors.Errorf("wiremsg: command %q exceeds %d bytes", cmd, CommandSize)
	}
	var buf [CommandSize]byte
	copy(buf[:], cmd)
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "wiremsg: writing command")
}

// WriteUint32 writes v little-endian.
func WriteUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "wiremsg: writing uint32")
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "wiremsg: reading uint32")
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// WriteInt32 writes v little-endian two's complement.
func WriteInt32(w io.Writer, v int32) error {
	return WriteUint32(w, uint32(v))
}

// ReadInt32 reads a little-endian two's complement int32.
func ReadInt32(r io.Reader) (int32, error) {
	v, err := ReadUint32(r)
	return int32(v), err
}

// WriteUint64 writes v little-endian.
func WriteUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return errors.Wrap(err, "wiremsg: writing uint64")
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrap(err, "wiremsg: reading uint64")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// WriteInt64 writes v little-endian two's complement.
func WriteInt64(w io.Writer, v int64) error {
	return WriteUint64(w, uint64(v))
}

// ReadInt64 reads a little-endian two's complement int64.
func ReadInt64(r io.Reader) (int64, error) {
	v, err := ReadUint64(r)
	return int64(v), err
}

// WriteVarInt writes val as a bitcoin CompactSize integer: a single byte
// for values below 0xfd, else a one-byte discriminant (0xfd/0xfe/0xff)
// followed by a 2/4/8-byte little-endian value.
func WriteVarInt(w io.Writer, val uint64) error {
	switch {
	case val < 0xfd:
		_, err := w.Write([]byte{byte(val)})
		return errors.Wrap(err, "wiremsg: writing varint")
	case val <= 0xffff:
		if _, err := w.Write([]byte{0xfd}); err != nil {
			return errors.Wrap(err, "wiremsg: writing varint discriminant")
		}
		var buf [2]byte
		binary.LittleEndian.PutUint16(buf[:], uint16(val))
		_, err := w.Write(buf[:])
		return errors.Wrap(err, "wiremsg: writing varint")
	case val <= 0xffffffff:
		if _, err := w.Write([]byte{0xfe}); err != nil {
			return errors.Wrap(err, "wiremsg: writing varint discriminant")
		}
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], uint32(val))
		_, err := w.Write(buf[:])
		return errors.Wrap(err, "wiremsg: writing varint")
	default:
		if _, err := w.Write([]byte{0xff}); err != nil {
			return errors.Wrap(err, "wiremsg: writing varint discriminant")
		}
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], val)
		_, err := w.Write(buf[:])
		return errors.Wrap(err, "wiremsg: writing varint")
	}
}

// ReadVarInt reads a bitcoin CompactSize integer.
func ReadVarInt(r io.Reader) (uint64, error) {
	var disc [1]byte
	if _, err := io.ReadFull(r, disc[:]); err != nil {
		return 0, errors.Wrap(err, "wiremsg: reading varint discriminant")
	}
	switch disc[0] {
	case 0xfd:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(err, "wiremsg: reading varint")
		}
		return uint64(binary.LittleEndian.Uint16(buf[:])), nil
	case 0xfe:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(err, "wiremsg: reading varint")
		}
		return uint64(binary.LittleEndian.Uint32(buf[:])), nil
	case 0xff:
		var buf [8]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return 0, errors.Wrap(err, "wiremsg: reading varint")
		}
		return binary.LittleEndian.Uint64(buf[:]), nil
	default:
		return uint64(disc[0]), nil
	}
}

// VarIntSerializeSize returns the number of bytes WriteVarInt emits for
// val, used by HintSerializedLen implementations.
func VarIntSerializeSize(val uint64) int {
	switch {
	case val < 0xfd:
		return 1
	case val <= 0xffff:
		return 3
	case val <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// MaxVarStringLen bounds a single VarString's length, guarding against a
// hostile length prefix driving an oversized allocation.
const MaxVarStringLen = 1 << 20

// WriteVarString writes str as a VarInt length followed by its bytes.
func WriteVarString(w io.Writer, str string) error {
	if err := WriteVarInt(w, uint64(len(str))); err != nil {
		return err
	}
	_, err := io.WriteString(w, str)
	return errors.Wrap(err, "wiremsg: writing varstring bytes")
}

// ReadVarString reads a VarInt-length-prefixed string.
func ReadVarString(r io.Reader) (string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}
	if n > MaxVarStringLen {
		return "", errors.Errorf("wiremsg: varstring length %d exceeds %d-byte limit", n, MaxVarStringLen)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", errors.Wrap(err, "wiremsg: reading varstring bytes")
	}
	return string(buf), nil
}

// WriteInt32Vector writes a VarInt count followed by each element as a
// little-endian int32, backing fields like alertmsg's set_cancel.
func WriteInt32Vector(w io.Writer, vals []int32) error {
	if err := WriteVarInt(w, uint64(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := WriteInt32(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadInt32Vector reads a VarInt-count-prefixed vector of int32s.
func ReadInt32Vector(r io.Reader) ([]int32, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > MaxVarStringLen {
		return nil, errors.Errorf("wiremsg: vector length %d exceeds %d-element limit", n, MaxVarStringLen)
	}
	vals := make([]int32, n)
	for i := range vals {
		vals[i], err = ReadInt32(r)
		if err != nil {
			return nil, err
		}
	}
	return vals, nil
}

// WriteStringVector writes a VarInt count followed by each element as a
// VarString, backing fields like alertmsg's set_sub_ver.
func WriteStringVector(w io.Writer, vals []string) error {
	if err := WriteVarInt(w, uint64(len(vals))); err != nil {
		return err
	}
	for _, v := range vals {
		if err := WriteVarString(w, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadStringVector reads a VarInt-count-prefixed vector of VarStrings.
func ReadStringVector(r io.Reader) ([]string, error) {
	n, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	if n > MaxVarStringLen {
		return nil, errors.Errorf("wiremsg: vector length %d exceeds %d-element limit", n, MaxVarStringLen)
	}
	vals := make([]string, n)
	for i := range vals {
		vals[i], err = ReadVarString(r)
		if err != nil {
			return nil, err
		}
	}
	return vals, nil
}
