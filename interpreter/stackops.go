package interpreter

import (
	"bytes"

	"github.com/btcscriptvm/scriptvm/opcode"
	"github.com/btcscriptvm/scriptvm/scriptnum"
	"github.com/btcscriptvm/scriptvm/scripterr"
	"github.com/btcscriptvm/scriptvm/stack"
)

type stackOpFunc func(e *Engine, st *stack.Stack, state *execState) error

var stackOps = map[opcode.Op]stackOpFunc{
	opcode.OP_TOALTSTACK:   opToAltStack,
	opcode.OP_FROMALTSTACK: opFromAltStack,
	opcode.OP_2DROP:        op2Drop,
	opcode.OP_2DUP:         op2Dup,
	opcode.OP_3DUP:         op3Dup,
	opcode.OP_2OVER:        op2Over,
	opcode.OP_2ROT:         op2Rot,
	opcode.OP_2SWAP:        op2Swap,
	opcode.OP_IFDUP:        opIfDup,
	opcode.OP_DEPTH:        opDepth,
	opcode.OP_DROP:         opDrop,
	opcode.OP_DUP:          opDup,
	opcode.OP_NIP:          opNip,
	opcode.OP_OVER:         opOver,
	opcode.OP_PICK:         opPick,
	opcode.OP_ROLL:         opRoll,
	opcode.OP_ROT:          opRot,
	opcode.OP_SWAP:         opSwap,
	opcode.OP_TUCK:         opTuck,
	opcode.OP_SIZE:         opSize,
	opcode.OP_EQUAL:        opEqual,
	opcode.OP_EQUALVERIFY:  opEqualVerify,
}

func opToAltStack(e *Engine, st *stack.Stack, state *execState) error {
	v, err := st.Pop()
	if err != nil {
		return err
	}
	if state.altStack == nil {
		state.altStack = stack.New()
	}
	return state.altStack.Push(v)
}

func opFromAltStack(e *Engine, st *stack.Stack, state *execState) error {
	if state.altStack == nil || state.altStack.Empty() {
		return scripterr.New(scripterr.StackUnderflow)
	}
	v, err := state.altStack.Pop()
	if err != nil {
		return err
	}
	return st.Push(v)
}

func op2Drop(e *Engine, st *stack.Stack, state *execState) error {
	if _, err := st.Pop(); err != nil {
		return err
	}
	_, err := st.Pop()
	return err
}

func op2Dup(e *Engine, st *stack.Stack, state *execState) error {
	x1, err := st.Peek(1)
	if err != nil {
		return err
	}
	x2, err := st.Peek(0)
	if err != nil {
		return err
	}
	if err := st.PushCopy(x1); err != nil {
		return err
	}
	return st.PushCopy(x2)
}

func op3Dup(e *Engine, st *stack.Stack, state *execState) error {
	x1, err := st.Peek(2)
	if err != nil {
		return err
	}
	x2, err := st.Peek(1)
	if err != nil {
		return err
	}
	x3, err := st.Peek(0)
	if err != nil {
		return err
	}
	if err := st.PushCopy(x1); err != nil {
		return err
	}
	if err := st.PushCopy(x2); err != nil {
		return err
	}
	return st.PushCopy(x3)
}

func op2Over(e *Engine, st *stack.Stack, state *execState) error {
	x1, err := st.Peek(3)
	if err != nil {
		return err
	}
	x2, err := st.Peek(2)
	if err != nil {
		return err
	}
	if err := st.PushCopy(x1); err != nil {
		return err
	}
	return st.PushCopy(x2)
}

// op2Rot performs the full rotation (x1..x6 -> x3 x4 x5 x6 x1 x2). The
// teacher's own implementation only rotates the two deepest of the six
// elements to the top without removing the shallower duplicates it
// leaves behind; this is the corrected, complete version (spec.md §9).
func op2Rot(e *Engine, st *stack.Stack, state *execState) error {
	x1, err := st.Peek(5)
	if err != nil {
		return err
	}
	x2, err := st.Peek(4)
	if err != nil {
		return err
	}
	x1c := append([]byte(nil), x1...)
	x2c := append([]byte(nil), x2...)
	if err := st.RemoveRange(st.Depth()-6, st.Depth()-4); err != nil {
		return err
	}
	if err := st.PushCopy(x1c); err != nil {
		return err
	}
	return st.PushCopy(x2c)
}

func op2Swap(e *Engine, st *stack.Stack, state *execState) error {
	n := st.Depth()
	if n < 4 {
		return scripterr.New(scripterr.StackUnderflow)
	}
	if err := st.Swap(n-4, n-2); err != nil {
		return err
	}
	return st.Swap(n-3, n-1)
}

func opIfDup(e *Engine, st *stack.Stack, state *execState) error {
	top, err := st.Peek(0)
	if err != nil {
		return err
	}
	if !stack.IsZero(top) {
		return st.PushCopy(top)
	}
	return nil
}

func opDepth(e *Engine, st *stack.Stack, state *execState) error {
	return st.PushInt(int64(st.Depth()))
}

func opDrop(e *Engine, st *stack.Stack, state *execState) error {
	_, err := st.Pop()
	return err
}

func opDup(e *Engine, st *stack.Stack, state *execState) error {
	top, err := st.Peek(0)
	if err != nil {
		return err
	}
	return st.PushCopy(top)
}

// opNip removes the second-from-top element (x1 x2 x3 -> x1 x3). The
// teacher's version re-pushes x2 without ever removing the original,
// leaving a duplicate; this is the corrected semantics (spec.md §9).
func opNip(e *Engine, st *stack.Stack, state *execState) error {
	if st.Depth() < 2 {
		return scripterr.New(scripterr.StackUnderflow)
	}
	_, err := st.PopN(1)
	return err
}

func opOver(e *Engine, st *stack.Stack, state *execState) error {
	v, err := st.Peek(1)
	if err != nil {
		return err
	}
	return st.PushCopy(v)
}

func opPick(e *Engine, st *stack.Stack, state *execState) error {
	return pickOrRoll(e, st, false)
}

func opRoll(e *Engine, st *stack.Stack, state *execState) error {
	return pickOrRoll(e, st, true)
}

func pickOrRoll(e *Engine, st *stack.Stack, remove bool) error {
	n, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return err
	}
	if n < 0 || n >= int64(st.Depth()) {
		return scripterr.New(scripterr.StackUnderflow)
	}
	v, err := st.Peek(int(n))
	if err != nil {
		return err
	}
	cp := append([]byte(nil), v...)
	if remove {
		if _, err := st.PopN(int(n)); err != nil {
			return err
		}
	}
	return st.PushCopy(cp)
}

func opRot(e *Engine, st *stack.Stack, state *execState) error {
	n := st.Depth()
	if n < 3 {
		return scripterr.New(scripterr.StackUnderflow)
	}
	if err := st.Swap(n-3, n-2); err != nil {
		return err
	}
	return st.Swap(n-2, n-1)
}

func opSwap(e *Engine, st *stack.Stack, state *execState) error {
	n := st.Depth()
	if n < 2 {
		return scripterr.New(scripterr.StackUnderflow)
	}
	return st.Swap(n-2, n-1)
}

func opTuck(e *Engine, st *stack.Stack, state *execState) error {
	top, err := st.Peek(0)
	if err != nil {
		return err
	}
	second, err := st.Peek(1)
	if err != nil {
		return err
	}
	topCp := append([]byte(nil), top...)
	secondCp := append([]byte(nil), second...)
	n := st.Depth()
	if err := st.RemoveRange(n-2, n); err != nil {
		return err
	}
	if err := st.PushCopy(topCp); err != nil {
		return err
	}
	if err := st.PushCopy(secondCp); err != nil {
		return err
	}
	return st.PushCopy(topCp)
}

func opSize(e *Engine, st *stack.Stack, state *execState) error {
	top, err := st.Peek(0)
	if err != nil {
		return err
	}
	return st.PushInt(int64(len(top)))
}

func opEqual(e *Engine, st *stack.Stack, state *execState) error {
	_, err := equalCompare(st)
	return err
}

func opEqualVerify(e *Engine, st *stack.Stack, state *execState) error {
	equal, err := equalCompare(st)
	if err != nil {
		return err
	}
	if !equal {
		return scripterr.New(scripterr.VerifyFailed)
	}
	_, err = st.Pop()
	return err
}

func equalCompare(st *stack.Stack) (bool, error) {
	x1, err := st.Pop()
	if err != nil {
		return false, err
	}
	x2, err := st.Pop()
	if err != nil {
		return false, err
	}
	equal := bytes.Equal(x1, x2)
	if equal {
		return true, st.Push(trueCell)
	}
	return false, st.Push(falseCell)
}
