// Package interpreter implements the stack-based bytecode engine: the
// fetch-decode-execute loop, the full opcode dispatch table, and the
// P2SH verification wrapper above it. Grounded on the teacher's
// scripts/Interpreter.go (dispatch skeleton, stack-op bodies) and
// model/Interpreter.go (fuller opcode coverage: NOP family, CLTV/CSV,
// numeric comparisons, crypto opcodes, CHECKSIG/CHECKMULTISIG). The
// documented dispatch bugs (OP_NIP, OP_2ROT, reserved-opcode handling,
// aliased peek-then-push) are fixed to their intended semantics rather
// than reproduced.
package interpreter

import (
	"github.com/pkg/errors"

	"github.com/btcscriptvm/scriptvm/engineconf"
	"github.com/btcscriptvm/scriptvm/opcode"
	"github.com/btcscriptvm/scriptvm/script"
	"github.com/btcscriptvm/scriptvm/scripterr"
	"github.com/btcscriptvm/scriptvm/stack"
)

// MaxStackSize bounds main+alt stack depth combined, matching the
// teacher's post-CHECKMULTISIG stack-size guard.
const MaxStackSize = 1000

var (
	falseCell = []byte{}
	trueCell  = []byte{1}
)

// Engine holds the configuration two Script executions share: the flag
// set, and the two external collaborators (SigChecker, LockTimeContext)
// that keep the engine itself free of any real transaction type.
type Engine struct {
	Flags    engineconf.Flags
	Checker  SigChecker
	LockTime LockTimeContext
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithSigChecker overrides the default NullChecker.
func WithSigChecker(c SigChecker) Option {
	return func(e *Engine) { e.Checker = c }
}

// WithLockTimeContext overrides the default permissive LockTimeContext.
func WithLockTimeContext(c LockTimeContext) Option {
	return func(e *Engine) { e.LockTime = c }
}

// New builds an Engine with flags and any options applied.
func New(flags engineconf.Flags, opts ...Option) *Engine {
	e := &Engine{
		Flags:    flags,
		Checker:  NullChecker{},
		LockTime: permissiveLockTime,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// execState carries the per-invocation working set of a single Exec
// call: the condition stack and the alt stack are always fresh for each
// script executed, while the main stack is threaded through by the
// caller (Verify shares one main stack across scriptSig and
// scriptPubKey, exactly as the teacher does).
type execState struct {
	condStack   []bool
	altStack    *stack.Stack
	beginCodeAt int
}

func (st *execState) executing() bool {
	for _, v := range st.condStack {
		if !v {
			return false
		}
	}
	return true
}

// Exec runs s to completion against st, the main stack, mutating st in
// place. It returns nil once every instruction has executed without a
// script-level failure; the caller decides what a "successful" result
// means (spec.md leaves that to Verify / to whoever inspects the final
// stack).
func (e *Engine) Exec(s *script.Script, st *stack.Stack) error {
	if s.Len() > script.MaxSize {
		return scripterr.New(scripterr.ScriptSize)
	}
	ops, err := s.Parse()
	if err != nil {
		return err
	}

	state := &execState{}
	opCount := 0

	for _, op := range ops {
		if opcode.IsAlwaysIllegal(op.Code) {
			return scripterr.Newf(scripterr.ReservedOpcode, "%s", opcode.Name(op.Code))
		}

		executing := state.executing()

		// Small-int pushes (OP_1NEGATE..OP_16) and OP_RESERVED do not
		// count toward the operation limit, matching the teacher's
		// "opValue > OP_16" gate.
		if op.Code > opcode.OP_16 {
			opCount++
			if opCount > script.MaxOpsPerScript {
				return scripterr.New(scripterr.OpCount)
			}
		}

		if opcode.IsDisabled(op.Code) {
			return scripterr.Newf(scripterr.DisabledOpcode, "%s", opcode.Name(op.Code))
		}

		switch {
		case executing && opcode.IsPushdata(op.Code):
			if err := e.execPush(st, op); err != nil {
				return err
			}

		case executing || opcode.IsConditional(op.Code):
			if err := e.dispatch(st, state, op, s); err != nil {
				return err
			}
		}

		if st.Depth()+state.altStackDepth() > MaxStackSize {
			return scripterr.New(scripterr.OutOfMemory)
		}
	}

	if len(state.condStack) != 0 {
		return scripterr.New(scripterr.UnbalancedConditional)
	}
	return nil
}

func (st *execState) altStackDepth() int {
	if st.altStack == nil {
		return 0
	}
	return st.altStack.Depth()
}

func (e *Engine) execPush(st *stack.Stack, op script.Op) error {
	if op.Code == opcode.OP_0 {
		return st.Push(nil)
	}
	if e.Flags.VerifyMinimalPush && !script.IsMinimalPush(op.Code, op.Data) {
		return scripterr.New(scripterr.MinimalEncoding)
	}
	return st.Push(op.Data)
}

// dispatch executes a single non-pushdata opcode. s is the whole owning
// script, needed only by OP_CODESEPARATOR/CHECKSIG to slice the
// sub-script starting at the most recent separator.
func (e *Engine) dispatch(st *stack.Stack, state *execState, op script.Op, s *script.Script) error {
	if op.Code >= opcode.OP_1NEGATE && op.Code <= opcode.OP_16 && op.Code != opcode.OP_RESERVED {
		return e.execPushSmallInt(st, op.Code)
	}

	switch {
	case opcode.IsConditional(op.Code):
		return e.execConditional(st, state, op.Code)
	}

	switch op.Code {
	case opcode.OP_NOP:
		return nil

	case opcode.OP_VERIFY:
		return e.execVerify(st)

	case opcode.OP_RETURN:
		return scripterr.New(scripterr.EarlyReturn)

	case opcode.OP_RESERVED, opcode.OP_RESERVED1, opcode.OP_RESERVED2, opcode.OP_VER:
		// The reserved-opcode check always dispatches on the opcode byte
		// itself, never on any receiver identity, so every reserved
		// opcode is rejected uniformly regardless of where it appears.
		return scripterr.Newf(scripterr.ReservedOpcode, "%s", opcode.Name(op.Code))

	case opcode.OP_CODESEPARATOR:
		state.beginCodeAt = op.Offset + 1
		return nil

	case opcode.OP_CHECKLOCKTIMEVERIFY:
		return e.execCheckLockTimeVerify(st)
	case opcode.OP_CHECKSEQUENCEVERIFY:
		return e.execCheckSequenceVerify(st)

	case opcode.OP_NOP1, opcode.OP_NOP4, opcode.OP_NOP5, opcode.OP_NOP6,
		opcode.OP_NOP7, opcode.OP_NOP8, opcode.OP_NOP9, opcode.OP_NOP10:
		if e.Flags.DiscourageUpgradableNOPs {
			return scripterr.New(scripterr.DiscourageUpgradableNOPs)
		}
		return nil
	}

	if handler, ok := stackOps[op.Code]; ok {
		return handler(e, st, state)
	}
	if handler, ok := arithOps[op.Code]; ok {
		return handler(e, st)
	}
	if handler, ok := cryptoOps[op.Code]; ok {
		return handler(e, st, state, s)
	}

	return scripterr.Newf(scripterr.UnknownOpcode, "%#x", op.Code)
}

func (e *Engine) execPushSmallInt(st *stack.Stack, op opcode.Op) error {
	if op == opcode.OP_1NEGATE {
		return st.PushInt(-1)
	}
	return st.PushInt(int64(op) - int64(opcode.OP_1) + 1)
}

func (e *Engine) execVerify(st *stack.Stack) error {
	v, err := st.Pop()
	if err != nil {
		return err
	}
	if stack.IsZero(v) {
		return scripterr.New(scripterr.VerifyFailed)
	}
	return nil
}

func (e *Engine) execConditional(st *stack.Stack, state *execState, op opcode.Op) error {
	switch op {
	case opcode.OP_IF, opcode.OP_NOTIF:
		value := false
		if state.executing() {
			v, err := st.Pop()
			if err != nil {
				return scripterr.New(scripterr.UnbalancedConditional)
			}
			if e.Flags.MinimalIf {
				if len(v) > 1 || (len(v) == 1 && v[0] != 1) {
					return scripterr.New(scripterr.MinimalIf)
				}
			}
			value = !stack.IsZero(v)
			if op == opcode.OP_NOTIF {
				value = !value
			}
		}
		state.condStack = append(state.condStack, value)

	case opcode.OP_ELSE:
		if len(state.condStack) == 0 {
			return scripterr.New(scripterr.UnbalancedConditional)
		}
		top := len(state.condStack) - 1
		state.condStack[top] = !state.condStack[top]

	case opcode.OP_ENDIF:
		if len(state.condStack) == 0 {
			return scripterr.New(scripterr.UnbalancedConditional)
		}
		state.condStack = state.condStack[:len(state.condStack)-1]
	}
	return nil
}

func (e *Engine) execCheckLockTimeVerify(st *stack.Stack) error {
	n, err := st.PeekInt(0, e.Flags.VerifyMinimalPush, 5)
	if err != nil {
		return err
	}
	if n < 0 {
		return scripterr.New(scripterr.NegativeLockTime)
	}
	if !checkLockTime(n, e.LockTime.TxLockTime(), e.LockTime.InputSequence()) {
		return scripterr.New(scripterr.UnsatisfiedLockTime)
	}
	return nil
}

func (e *Engine) execCheckSequenceVerify(st *stack.Stack) error {
	n, err := st.PeekInt(0, e.Flags.VerifyMinimalPush, 5)
	if err != nil {
		return err
	}
	if n < 0 {
		return scripterr.New(scripterr.NegativeLockTime)
	}
	if n&SequenceLockTimeDisableFlag != 0 {
		return nil
	}
	if !checkSequence(n, int64(e.LockTime.InputSequence()), e.LockTime.TxVersion()) {
		return scripterr.New(scripterr.UnsatisfiedLockTime)
	}
	return nil
}

// Verify runs scriptSig then scriptPubKey against a shared stack and,
// when scriptPubKey is a pay-to-script-hash template, re-executes the
// serialized redeem script -- the layer above raw Exec that
// scripts/Interpreter.go's own Verify implements.
func (e *Engine) Verify(scriptSig, scriptPubKey *script.Script) (bool, error) {
	if e.Flags.SigPushOnly && !scriptSig.IsPushOnly() {
		return false, scripterr.New(scripterr.SigPushOnly)
	}

	st := stack.New()
	if err := e.Exec(scriptSig, st); err != nil {
		return false, err
	}

	var stackCopy *stack.Stack
	if e.Flags.VerifyP2SH {
		stackCopy = st.Clone()
	}

	if err := e.Exec(scriptPubKey, st); err != nil {
		return false, err
	}
	if ok, err := finalStackTruthy(st); err != nil || !ok {
		return false, err
	}

	if e.Flags.VerifyP2SH && scriptPubKey.IsPayToScriptHash() {
		if !scriptSig.IsPushOnly() {
			return false, scripterr.New(scripterr.SigPushOnly)
		}
		redeemBytes, err := stackCopy.Pop()
		if err != nil {
			return false, err
		}
		redeem := script.New(redeemBytes)
		if err := e.Exec(redeem, stackCopy); err != nil {
			return false, err
		}
		ok, err := finalStackTruthy(stackCopy)
		if err != nil || !ok {
			return false, err
		}
		st = stackCopy
	}

	if e.Flags.RequireCleanStack {
		if st.Depth() != 1 {
			return false, scripterr.New(scripterr.CleanStack)
		}
	}
	return true, nil
}

func finalStackTruthy(st *stack.Stack) (bool, error) {
	if st.Empty() {
		return false, scripterr.New(scripterr.EvalFalse)
	}
	top, err := st.Peek(0)
	if err != nil {
		return false, errors.Wrap(err, "interpreter: reading final stack top")
	}
	if stack.IsZero(top) {
		return false, scripterr.New(scripterr.EvalFalse)
	}
	return true, nil
}
