// Package scripterr defines the flat, disjoint error taxonomy the
// interpreter surfaces. It mirrors the (Code, description) pairing the
// teacher's model/script/scripterror.go uses, generalized so a caller can
// type-switch on the Code instead of matching an error string.
package scripterr

import (
	"errors"
	"fmt"
)

// Code identifies a kind of script execution failure.
type Code int

const (
	OK Code = iota
	Truncated
	StackUnderflow
	ElementTooLarge
	InvalidNumber
	VerifyFailed
	EarlyReturn
	UnknownOpcode
	ReservedOpcode
	MinimalEncoding
	OutOfMemory
	DisabledOpcode
	ScriptSize
	PushSize
	OpCount
	UnbalancedConditional
	CleanStack
	SigPushOnly
	MinimalIf
	NullFail
	DiscourageUpgradableNOPs
	NegativeLockTime
	UnsatisfiedLockTime
	BadSignatureEncoding
	BadPubKeyEncoding
	EvalFalse
)

var descriptions = map[Code]string{
	OK:                       "no error",
	Truncated:                "script or reader ran past end of input",
	StackUnderflow:           "attempted to pop or peek an empty stack",
	ElementTooLarge:          "push value size limit exceeded",
	InvalidNumber:            "numeric decode exceeded 4 bytes or was non-minimal",
	VerifyFailed:             "script failed an OP_VERIFY family operation",
	EarlyReturn:              "OP_RETURN was encountered",
	UnknownOpcode:            "opcode missing or not understood",
	ReservedOpcode:           "attempted to execute a reserved opcode",
	MinimalEncoding:          "data push larger than necessary",
	OutOfMemory:              "allocator failure",
	DisabledOpcode:           "attempted to use a disabled opcode",
	ScriptSize:               "script is too big",
	PushSize:                 "push value size limit exceeded",
	OpCount:                  "operation limit exceeded",
	UnbalancedConditional:    "invalid OP_IF construction",
	CleanStack:               "stack is not clean after execution",
	SigPushOnly:              "only push operators allowed in scriptSig",
	MinimalIf:                "OP_IF/OP_NOTIF argument must be minimal",
	NullFail:                 "signature must be zero for a failed check(multi)sig",
	DiscourageUpgradableNOPs: "NOPx reserved for soft-fork upgrades",
	NegativeLockTime:         "negative locktime",
	UnsatisfiedLockTime:      "locktime requirement not satisfied",
	BadSignatureEncoding:     "non-canonical signature encoding",
	BadPubKeyEncoding:        "public key is neither compressed nor uncompressed",
	EvalFalse:                "script evaluated without error but left a false top stack element",
}

// String returns the human-readable description of c.
func (c Code) String() string {
	if s, ok := descriptions[c]; ok {
		return s
	}
	return "unknown script error"
}

// Error is the concrete error type carrying a Code plus an optional
// diagnostic string (e.g. the opcode name or index involved).
type Error struct {
	code Code
	msg  string
}

// New builds an Error for code with no extra diagnostic text.
func New(code Code) *Error {
	return &Error{code: code}
}

// Newf builds an Error for code with a formatted diagnostic message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{code: code, msg: fmt.Sprintf(format, args...)}
}

// Code returns the typed failure kind carried by e.
func (e *Error) Code() Code {
	return e.code
}

func (e *Error) Error() string {
	if e.msg == "" {
		return fmt.Sprintf("script error: %s", e.code)
	}
	return fmt.Sprintf("script error: %s: %s", e.code, e.msg)
}

// Is reports whether err carries code, allowing errors.Is(err,
// scripterr.New(scripterr.StackUnderflow)) style comparisons.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return other.code == e.code
}

// CodeOf extracts the Code from err if err is (or wraps) a *Error, and
// reports ok=false otherwise.
func CodeOf(err error) (Code, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.code, true
	}
	type coder interface{ Code() Code }
	if c, ok := err.(coder); ok {
		return c.Code(), true
	}
	return OK, false
}
