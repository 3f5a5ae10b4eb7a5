package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcscriptvm/scriptvm/scripterr"
)

func TestPushPopRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.Push([]byte{1, 2, 3}))
	got, err := s.Pop()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)
	assert.True(t, s.Empty())
}

func TestSwapLaw(t *testing.T) {
	s := New()
	require.NoError(t, s.Push([]byte{1}))
	require.NoError(t, s.Push([]byte{2}))
	require.NoError(t, s.Swap(0, 1))
	top, _ := s.Pop()
	assert.Equal(t, []byte{1}, top)
	bottom, _ := s.Pop()
	assert.Equal(t, []byte{2}, bottom)
}

func TestDupLaw(t *testing.T) {
	s := New()
	require.NoError(t, s.Push([]byte{9}))
	before := s.Depth()
	top, err := s.Peek(0)
	require.NoError(t, err)
	require.NoError(t, s.PushCopy(top))
	assert.Equal(t, before+1, s.Depth())
	a, _ := s.Pop()
	b, _ := s.Pop()
	assert.Equal(t, a, b)
}

func TestPushOverElementBoundFails(t *testing.T) {
	s := New()
	err := s.Push(make([]byte, MaxElementSize+1))
	require.Error(t, err)
	code, ok := scripterr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, scripterr.ElementTooLarge, code)
}

func TestPopEmptyFails(t *testing.T) {
	_, err := New().Pop()
	code, ok := scripterr.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, scripterr.StackUnderflow, code)
}

func TestPeekUnderflow(t *testing.T) {
	s := New()
	require.NoError(t, s.Push([]byte{1}))
	_, err := s.Peek(1)
	code, _ := scripterr.CodeOf(err)
	assert.Equal(t, scripterr.StackUnderflow, code)
}

func TestPopNShiftsRemainingDown(t *testing.T) {
	s := New()
	for _, b := range [][]byte{{1}, {2}, {3}} {
		require.NoError(t, s.Push(b))
	}
	// stack top-to-bottom: 3 2 1 ; pop_n(1) removes "2"
	got, err := s.PopN(1)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, got)
	assert.Equal(t, 2, s.Depth())
	top, _ := s.Peek(0)
	assert.Equal(t, []byte{3}, top)
	bottom, _ := s.Peek(1)
	assert.Equal(t, []byte{1}, bottom)
}

func TestPickPreservesDepthPlusOneRollPreservesDepth(t *testing.T) {
	s := New()
	for _, b := range [][]byte{{1}, {2}, {3}} {
		require.NoError(t, s.Push(b))
	}
	depth := s.Depth()
	cell, err := s.Peek(1) // "2"
	require.NoError(t, err)
	require.NoError(t, s.PushCopy(cell))
	assert.Equal(t, depth+1, s.Depth())
	top, _ := s.Pop()
	assert.Equal(t, []byte{2}, top)

	// depth back to 3: {1 2 3}; roll(2) removes bottom "1" and pushes it
	rolled, err := s.PopN(2)
	require.NoError(t, err)
	require.NoError(t, s.Push(rolled))
	assert.Equal(t, depth, s.Depth())
	top, _ = s.Pop()
	assert.Equal(t, []byte{1}, top)
}

func TestPushIntPopIntRoundTrip(t *testing.T) {
	s := New()
	require.NoError(t, s.PushInt(-42))
	v, err := s.PopInt(true, 4)
	require.NoError(t, err)
	assert.EqualValues(t, -42, v)
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	require.NoError(t, s.Push([]byte{1, 2, 3}))
	clone := s.Clone()
	require.NoError(t, s.Push([]byte{4}))
	assert.Equal(t, 2, s.Depth())
	assert.Equal(t, 1, clone.Depth())
}

func TestIsZero(t *testing.T) {
	assert.True(t, IsZero(nil))
	assert.True(t, IsZero([]byte{0x00}))
	assert.True(t, IsZero([]byte{0x00, 0x00, 0x80}))
	assert.False(t, IsZero([]byte{0x01}))
	assert.False(t, IsZero([]byte{0x00, 0x01}))
}

func TestPushCopyDoesNotAliasSourceSlice(t *testing.T) {
	s := New()
	src := []byte{1, 2, 3}
	require.NoError(t, s.Push(src))
	cell, err := s.Peek(0)
	require.NoError(t, err)
	require.NoError(t, s.PushCopy(cell))
	top, _ := s.Pop()
	top[0] = 0xff
	remaining, _ := s.Peek(0)
	assert.Equal(t, byte(1), remaining[0], "mutating the popped copy must not affect the original cell")
}
