package interpreter

import (
	"github.com/btcscriptvm/scriptvm/opcode"
	"github.com/btcscriptvm/scriptvm/scriptnum"
	"github.com/btcscriptvm/scriptvm/scripterr"
	"github.com/btcscriptvm/scriptvm/stack"
)

type arithOpFunc func(e *Engine, st *stack.Stack) error

var arithOps = map[opcode.Op]arithOpFunc{
	opcode.OP_1ADD:      opUnary(func(n int64) int64 { return n + 1 }),
	opcode.OP_1SUB:      opUnary(func(n int64) int64 { return n - 1 }),
	opcode.OP_NEGATE:    opUnary(func(n int64) int64 { return -n }),
	opcode.OP_ABS:       opUnary(absInt64),
	opcode.OP_NOT:       opUnary(func(n int64) int64 { return boolToInt(n == 0) }),
	opcode.OP_0NOTEQUAL: opUnary(func(n int64) int64 { return boolToInt(n != 0) }),

	opcode.OP_ADD:                opBinary(func(a, b int64) int64 { return a + b }),
	opcode.OP_SUB:                opBinary(func(a, b int64) int64 { return a - b }),
	opcode.OP_BOOLAND:            opBinary(func(a, b int64) int64 { return boolToInt(a != 0 && b != 0) }),
	opcode.OP_BOOLOR:             opBinary(func(a, b int64) int64 { return boolToInt(a != 0 || b != 0) }),
	opcode.OP_NUMEQUAL:           opBinary(func(a, b int64) int64 { return boolToInt(a == b) }),
	opcode.OP_NUMNOTEQUAL:        opBinary(func(a, b int64) int64 { return boolToInt(a != b) }),
	opcode.OP_LESSTHAN:           opBinary(func(a, b int64) int64 { return boolToInt(a < b) }),
	opcode.OP_GREATERTHAN:        opBinary(func(a, b int64) int64 { return boolToInt(a > b) }),
	opcode.OP_LESSTHANOREQUAL:    opBinary(func(a, b int64) int64 { return boolToInt(a <= b) }),
	opcode.OP_GREATERTHANOREQUAL: opBinary(func(a, b int64) int64 { return boolToInt(a >= b) }),
	opcode.OP_MIN:                opBinary(minInt64),
	opcode.OP_MAX:                opBinary(maxInt64),

	opcode.OP_NUMEQUALVERIFY: opNumEqualVerify,
	opcode.OP_WITHIN:         opWithin,
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func opUnary(f func(int64) int64) arithOpFunc {
	return func(e *Engine, st *stack.Stack) error {
		n, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
		if err != nil {
			return err
		}
		return st.PushInt(f(n))
	}
}

func opBinary(f func(a, b int64) int64) arithOpFunc {
	return func(e *Engine, st *stack.Stack) error {
		a, b, err := popTwoInts(e, st)
		if err != nil {
			return err
		}
		return st.PushInt(f(a, b))
	}
}

func popTwoInts(e *Engine, st *stack.Stack) (int64, int64, error) {
	b, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return 0, 0, err
	}
	a, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

func opNumEqualVerify(e *Engine, st *stack.Stack) error {
	a, b, err := popTwoInts(e, st)
	if err != nil {
		return err
	}
	if a != b {
		return scripterr.New(scripterr.VerifyFailed)
	}
	return nil
}

func opWithin(e *Engine, st *stack.Stack) error {
	max, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return err
	}
	min, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return err
	}
	x, err := st.PopInt(e.Flags.VerifyMinimalPush, scriptnum.DefaultMaxNumSize)
	if err != nil {
		return err
	}
	return st.PushInt(boolToInt(x >= min && x < max))
}
