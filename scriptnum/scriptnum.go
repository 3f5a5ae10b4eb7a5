// Package scriptnum implements the numeric view of a stack cell: the
// byte-array <-> signed-integer duality the interpreter's arithmetic and
// flow-control opcodes rely on. The encoding is little-endian
// sign-magnitude, matching the teacher's CScriptNum
// (model/script/scriptnum.go) exactly.
package scriptnum

import "github.com/btcscriptvm/scriptvm/scripterr"

const (
	// DefaultMaxNumSize bounds arithmetic-opcode operands to 4 bytes.
	DefaultMaxNumSize = 4
	// LockTimeMaxNumSize is the wider bound OP_CHECKLOCKTIMEVERIFY and
	// OP_CHECKSEQUENCEVERIFY use, so lock times remain meaningful well
	// past the 32-bit rollover.
	LockTimeMaxNumSize = 5

	maxInt32 = 1<<31 - 1
	minInt32 = -1 << 31
)

// Decode reads the numeric view of vch: little-endian magnitude with the
// sign carried in the high bit of the most significant byte. An empty
// array decodes to 0. maxNumSize bounds the accepted length;
// requireMinimal additionally rejects any non-minimal encoding.
func Decode(vch []byte, requireMinimal bool, maxNumSize int) (int64, error) {
	if len(vch) > maxNumSize {
		return 0, scripterr.New(scripterr.InvalidNumber)
	}
	if requireMinimal && len(vch) > 0 {
		// If the most-significant-byte - excluding the sign bit - is
		// zero, the encoding isn't minimal, unless there's a second byte
		// whose top bit is set (needed to avoid colliding with the sign
		// bit): +-255 encodes as 0xff00 / 0xff80.
		last := len(vch) - 1
		if vch[last]&0x7f == 0 {
			if last == 0 || vch[last-1]&0x80 == 0 {
				return 0, scripterr.New(scripterr.MinimalEncoding)
			}
		}
	}
	if len(vch) == 0 {
		return 0, nil
	}
	var v int64
	for i, b := range vch {
		v |= int64(b) << uint(8*i)
	}
	if vch[len(vch)-1]&0x80 != 0 {
		v &^= int64(0x80) << uint(8*(len(vch)-1))
		return -v, nil
	}
	return v, nil
}

// Encode returns the minimal little-endian sign-magnitude byte array
// representing n. Zero encodes to an empty array.
func Encode(n int64) []byte {
	if n == 0 {
		return nil
	}
	negative := n < 0
	abs := n
	if negative {
		abs = -n
	}
	out := make([]byte, 0, 9)
	for abs > 0 {
		out = append(out, byte(abs&0xff))
		abs >>= 8
	}
	// If the high bit of the last byte is already set, we need an extra
	// byte to hold the sign; otherwise fold the sign into the last byte.
	if out[len(out)-1]&0x80 != 0 {
		extra := byte(0x00)
		if negative {
			extra = 0x80
		}
		out = append(out, extra)
	} else if negative {
		out[len(out)-1] |= 0x80
	}
	return out
}

// Int32 saturates n to the [minInt32, maxInt32] range, matching
// CScriptNum's int32 accessor used by OP_PICK/OP_ROLL indices.
func Int32(n int64) int32 {
	if n > maxInt32 {
		return maxInt32
	}
	if n < minInt32 {
		return minInt32
	}
	return int32(n)
}
