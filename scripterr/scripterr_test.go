package scripterr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCarriesCode(t *testing.T) {
	err := New(StackUnderflow)
	code, ok := CodeOf(err)
	assert.True(t, ok)
	assert.Equal(t, StackUnderflow, code)
}

func TestNewfIncludesDiagnostic(t *testing.T) {
	err := Newf(UnknownOpcode, "byte 0x%02x", 0xc4)
	assert.Contains(t, err.Error(), "0xc4")
	assert.Contains(t, err.Error(), UnknownOpcode.String())
}

func TestIsComparesByCode(t *testing.T) {
	a := New(ElementTooLarge)
	b := Newf(ElementTooLarge, "521 bytes")
	assert.True(t, a.Is(b))
	assert.False(t, a.Is(New(OutOfMemory)))
}

func TestCodeOfNonScriptError(t *testing.T) {
	_, ok := CodeOf(assertPlainError())
	assert.False(t, ok)
}

func assertPlainError() error {
	return &plainErr{}
}

type plainErr struct{}

func (*plainErr) Error() string { return "plain" }
