// Package stack implements the ordered byte-cell stack the interpreter
// uses for both its main and alternate stack. It generalizes the
// teacher's algorithm.Stack (a generic []interface{} LIFO) to the
// byte-cell-only case the script engine actually needs, and specializes
// it with the 520-byte element-size bound and the numeric view spec.md
// requires.
package stack

import (
	"github.com/pkg/errors"

	"github.com/btcscriptvm/scriptvm/scriptnum"
	"github.com/btcscriptvm/scriptvm/scripterr"
)

// MaxElementSize is the maximum length, in bytes, of any single cell.
const MaxElementSize = 520

// Stack is a LIFO sequence of owned byte-array cells.
type Stack struct {
	cells [][]byte
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{}
}

// Depth returns the number of cells currently on the stack.
func (s *Stack) Depth() int {
	return len(s.cells)
}

// Empty reports whether the stack holds no cells.
func (s *Stack) Empty() bool {
	return len(s.cells) == 0
}

// Push copies data onto the stack as a new top cell. It fails with
// scripterr.ElementTooLarge if data exceeds MaxElementSize.
func (s *Stack) Push(data []byte) error {
	if len(data) > MaxElementSize {
		return scripterr.Newf(scripterr.ElementTooLarge, "%d bytes exceeds %d-byte limit", len(data), MaxElementSize)
	}
	cell := make([]byte, len(data))
	copy(cell, data)
	s.cells = append(s.cells, cell)
	return nil
}

// PushInt encodes n in minimal little-endian sign-magnitude form and
// pushes it.
func (s *Stack) PushInt(n int64) error {
	return s.Push(scriptnum.Encode(n))
}

// Pop removes and returns the top cell, transferring ownership to the
// caller. It fails with scripterr.StackUnderflow when empty.
func (s *Stack) Pop() ([]byte, error) {
	if s.Empty() {
		return nil, scripterr.New(scripterr.StackUnderflow)
	}
	top := len(s.cells) - 1
	cell := s.cells[top]
	s.cells = s.cells[:top]
	return cell, nil
}

// PopInt pops the top cell and decodes its numeric view, bounded to
// maxNumSize bytes and, when requireMinimal is set, rejecting a
// non-minimal encoding.
func (s *Stack) PopInt(requireMinimal bool, maxNumSize int) (int64, error) {
	cell, err := s.Pop()
	if err != nil {
		return 0, err
	}
	return scriptnum.Decode(cell, requireMinimal, maxNumSize)
}

// Peek returns a borrowed reference to the cell k positions from the top
// (0 = top). The returned slice must not be mutated, and must not be
// retained past the next stack mutation; callers that need to keep the
// bytes must copy them (e.g. before pushing them back).
func (s *Stack) Peek(k int) ([]byte, error) {
	idx, err := s.indexFromTop(k)
	if err != nil {
		return nil, err
	}
	return s.cells[idx], nil
}

// PeekInt returns the numeric view of the cell k positions from the top
// without removing it.
func (s *Stack) PeekInt(k int, requireMinimal bool, maxNumSize int) (int64, error) {
	cell, err := s.Peek(k)
	if err != nil {
		return 0, err
	}
	return scriptnum.Decode(cell, requireMinimal, maxNumSize)
}

// PopN removes and returns the cell k positions from the top, shifting
// shallower cells down by one.
func (s *Stack) PopN(k int) ([]byte, error) {
	idx, err := s.indexFromTop(k)
	if err != nil {
		return nil, err
	}
	cell := s.cells[idx]
	s.cells = append(s.cells[:idx], s.cells[idx+1:]...)
	return cell, nil
}

// Clone returns a deep copy of s: mutating the returned Stack never
// affects s, and vice versa.
func (s *Stack) Clone() *Stack {
	cells := make([][]byte, len(s.cells))
	for i, cell := range s.cells {
		cp := make([]byte, len(cell))
		copy(cp, cell)
		cells[i] = cp
	}
	return &Stack{cells: cells}
}

// PushCopy pushes a fresh copy of a previously peeked cell. Handlers
// must use this (never re-push the borrowed slice itself) to avoid
// aliasing two stack positions to the same backing array.
func (s *Stack) PushCopy(cell []byte) error {
	return s.Push(cell)
}

// Swap exchanges the cells at depth i and j, both measured as absolute
// indices from the bottom (0 = oldest).
func (s *Stack) Swap(i, j int) error {
	if i < 0 || j < 0 || i >= len(s.cells) || j >= len(s.cells) {
		return errors.Errorf("stack: index out of range (i=%d j=%d len=%d)", i, j, len(s.cells))
	}
	s.cells[i], s.cells[j] = s.cells[j], s.cells[i]
	return nil
}

// Insert places cell at absolute index i, shifting everything at or
// after i up by one.
func (s *Stack) Insert(i int, cell []byte) error {
	if i < 0 || i > len(s.cells) {
		return errors.Errorf("stack: insert index %d out of range (len=%d)", i, len(s.cells))
	}
	cp := make([]byte, len(cell))
	copy(cp, cell)
	s.cells = append(s.cells, nil)
	copy(s.cells[i+1:], s.cells[i:])
	s.cells[i] = cp
	return nil
}

// RemoveRange deletes the absolute-index half-open range [begin, end).
func (s *Stack) RemoveRange(begin, end int) error {
	if begin < 0 || end > len(s.cells) || begin > end {
		return errors.Errorf("stack: invalid range [%d,%d) len=%d", begin, end, len(s.cells))
	}
	s.cells = append(s.cells[:begin], s.cells[end:]...)
	return nil
}

// indexFromTop converts a 0-from-top index into an absolute slice index.
func (s *Stack) indexFromTop(k int) (int, error) {
	if k < 0 || k >= len(s.cells) {
		return 0, scripterr.New(scripterr.StackUnderflow)
	}
	return len(s.cells) - 1 - k, nil
}

// IsZero reports whether cell is the numeric-view zero: empty, or all
// zero bytes with an optional trailing sign byte of 0x80 (negative
// zero).
func IsZero(cell []byte) bool {
	for i, b := range cell {
		if b != 0 {
			// A trailing lone 0x80 is negative zero, still zero.
			if i == len(cell)-1 && b == 0x80 {
				return true
			}
			return false
		}
	}
	return true
}
