// Package script holds the immutable script byte buffer and the
// pushdata sub-language parser that turns it into a sequence of parsed
// operations for the interpreter's dispatch loop. Grounded on the
// teacher's model/script/script.go (convertOPS) and
// model/opcodes/parsedopcode.go (ParsedOpCode), with the pushdata
// length-field mapping bug (spec.md REDESIGN FLAGS) fixed.
package script

import (
	"encoding/binary"

	"github.com/btcscriptvm/scriptvm/opcode"
	"github.com/btcscriptvm/scriptvm/scripterr"
)

const (
	// MaxSize is the largest script this package will parse.
	MaxSize = 10000
	// MaxElementSize matches stack.MaxElementSize; duplicated here as a
	// plain constant to avoid an import cycle with the stack package.
	MaxElementSize = 520
	// MaxOpsPerScript bounds the number of non-pushdata opcodes a script
	// may execute.
	MaxOpsPerScript = 201
)

// Op is one decoded instruction: an opcode byte plus, for the
// constants/pushdata family, the inline data it carries. Offset is the
// byte index, in the owning Script, at which this instruction begins --
// the interpreter needs it to slice out the sub-script following the
// most recent OP_CODESEPARATOR.
type Op struct {
	Code   opcode.Op
	Data   []byte
	Offset int
}

// Script is an immutable byte buffer.
type Script struct {
	raw []byte
}

// New wraps raw as a Script. raw is not copied; the caller must not
// mutate it afterward.
func New(raw []byte) *Script {
	return &Script{raw: raw}
}

// Len returns the number of bytes in the script.
func (s *Script) Len() int {
	return len(s.raw)
}

// Bytes returns the script's raw byte buffer.
func (s *Script) Bytes() []byte {
	return s.raw
}

// ByteAt returns the byte at index i, failing with scripterr.Truncated
// if i is out of bounds.
func (s *Script) ByteAt(i int) (byte, error) {
	if i < 0 || i >= len(s.raw) {
		return 0, scripterr.New(scripterr.Truncated)
	}
	return s.raw[i], nil
}

// IsPayToScriptHash reports whether the script has the exact
// OP_HASH160 <20 bytes> OP_EQUAL template.
func (s *Script) IsPayToScriptHash() bool {
	return len(s.raw) == 23 &&
		s.raw[0] == opcode.OP_HASH160 &&
		s.raw[1] == 0x14 &&
		s.raw[22] == opcode.OP_EQUAL
}

// IsPushOnly reports whether every opcode in the script is a data push
// (0x00..OP_16), the shape required of a valid scriptSig.
func (s *Script) IsPushOnly() bool {
	ops, err := s.Parse()
	if err != nil {
		return false
	}
	for _, op := range ops {
		if op.Code > opcode.OP_16 {
			return false
		}
	}
	return true
}

// Parse decodes the script into a sequence of Op values, resolving the
// pushdata sub-language (inline literals and OP_PUSHDATA1/2/4) as it
// goes. It enforces the 520-byte element bound and out-of-bounds
// pushdata length checks; it does not enforce MaxSize (the caller/
// interpreter does, since that check applies to the whole script before
// any parsing begins).
func (s *Script) Parse() ([]Op, error) {
	var ops []Op
	data := s.raw
	i := 0
	n := len(data)
	for i < n {
		start := i
		op := data[i]
		i++
		switch {
		case op < opcode.OP_PUSHDATA1:
			size := int(op)
			if i+size > n {
				return nil, scripterr.New(scripterr.Truncated)
			}
			ops = append(ops, Op{Code: op, Data: data[i : i+size], Offset: start})
			i += size

		case op == opcode.OP_PUSHDATA1, op == opcode.OP_PUSHDATA2, op == opcode.OP_PUSHDATA4:
			lenWidth := lengthFieldWidth(op)
			if i+lenWidth > n {
				return nil, scripterr.New(scripterr.Truncated)
			}
			size := decodeLength(data[i:i+lenWidth], lenWidth)
			i += lenWidth
			if size > MaxElementSize {
				return nil, scripterr.New(scripterr.ElementTooLarge)
			}
			if i+size > n {
				return nil, scripterr.New(scripterr.Truncated)
			}
			ops = append(ops, Op{Code: op, Data: data[i : i+size], Offset: start})
			i += size

		default:
			ops = append(ops, Op{Code: op, Offset: start})
		}
	}
	return ops, nil
}

// lengthFieldWidth maps a pushdata opcode to the width, in bytes, of its
// length field: OP_PUSHDATA1 -> 1, OP_PUSHDATA2 -> 2, OP_PUSHDATA4 -> 4.
// The teacher's source mistakenly used the opcode's numeric value as the
// length-field width; this is the corrected mapping (spec.md §9).
func lengthFieldWidth(op opcode.Op) int {
	switch op {
	case opcode.OP_PUSHDATA1:
		return 1
	case opcode.OP_PUSHDATA2:
		return 2
	case opcode.OP_PUSHDATA4:
		return 4
	default:
		return 0
	}
}

func decodeLength(b []byte, width int) int {
	switch width {
	case 1:
		return int(b[0])
	case 2:
		return int(binary.LittleEndian.Uint16(b))
	case 4:
		return int(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}

// IsMinimalPush reports whether encoding data as opcode op is the
// shortest possible push encoding, per the teacher's
// CheckMinimalDataPush/CheckCompactDataPush pair.
func IsMinimalPush(op opcode.Op, data []byte) bool {
	switch {
	case len(data) == 0:
		return op == opcode.OP_0
	case len(data) == 1 && data[0] >= 1 && data[0] <= 16:
		return op == opcode.OP_1+opcode.Op(data[0])-1
	case len(data) == 1 && data[0] == 0x81:
		return op == opcode.OP_1NEGATE
	case len(data) <= 75:
		return int(op) == len(data)
	case len(data) <= 255:
		return op == opcode.OP_PUSHDATA1
	case len(data) <= 65535:
		return op == opcode.OP_PUSHDATA2
	default:
		return op == opcode.OP_PUSHDATA4
	}
}
