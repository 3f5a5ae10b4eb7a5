package interpreter

// SequenceLockTimeDisableFlag mirrors the teacher's
// SEQUENCE_LOCKTIME_DISABLE_FLAG: when set on an input's sequence
// number, OP_CHECKSEQUENCEVERIFY treats the input as opting out of
// relative-locktime enforcement entirely.
const SequenceLockTimeDisableFlag = 1 << 31

// SequenceLockTimeTypeFlag mirrors SEQUENCE_LOCKTIME_TYPE_FLAG: when
// set, the sequence's masked value is interpreted in units of 512
// seconds rather than blocks.
const SequenceLockTimeTypeFlag = 1 << 22

// SequenceLockTimeMask mirrors SEQUENCE_LOCKTIME_MASK.
const SequenceLockTimeMask = 0x0000ffff

// LockTimeContext is the external collaborator OP_CHECKLOCKTIMEVERIFY
// and OP_CHECKSEQUENCEVERIFY compare the script's operand against. It
// carries just the three transaction fields those opcodes need,
// keeping the engine itself free of any concrete transaction type
// (spec.md's Non-goal on transaction validation).
type LockTimeContext interface {
	// TxLockTime is the transaction's nLockTime field.
	TxLockTime() int64
	// InputSequence is the nSequence field of the input being verified.
	InputSequence() uint32
	// TxVersion is the transaction's version, which gates whether
	// OP_CHECKSEQUENCEVERIFY's relative-locktime rule applies at all.
	TxVersion() int32
}

// StaticLockTimeContext is a fixed LockTimeContext, useful for tests and
// for callers that already know the three values out of band.
type StaticLockTimeContext struct {
	LockTime int64
	Sequence uint32
	Version  int32
}

func (c StaticLockTimeContext) TxLockTime() int64     { return c.LockTime }
func (c StaticLockTimeContext) InputSequence() uint32 { return c.Sequence }
func (c StaticLockTimeContext) TxVersion() int32      { return c.Version }

// permissiveLockTime is used when the engine is constructed without an
// explicit LockTimeContext. Its locktime of 1<<62 is time-based, so it
// satisfies every time-based CLTV operand (500000000 and above); a
// height-based operand fails checkLockTime's type check. Its sequence
// carries SequenceLockTimeDisableFlag, so CSV succeeds only for operands
// that themselves carry the disable flag and fails for all others.
var permissiveLockTime = StaticLockTimeContext{
	LockTime: 1 << 62,
	Sequence: SequenceLockTimeDisableFlag,
	Version:  2,
}

// checkLockTime implements CHECKLOCKTIMEVERIFY's comparison, grounded on
// the teacher's CheckLockTime: the stack operand and the transaction's
// nLockTime must be the same "type" (both a block height or both a unix
// time, split at the 500000000 threshold), and the input must not be
// final (sequence != 0xffffffff), since a final input's locktime is
// unenforceable.
func checkLockTime(lockTime, txLockTime int64, sequence uint32) bool {
	const lockTimeThreshold = 500000000
	if !((txLockTime < lockTimeThreshold && lockTime < lockTimeThreshold) ||
		(txLockTime >= lockTimeThreshold && lockTime >= lockTimeThreshold)) {
		return false
	}
	if lockTime > txLockTime {
		return false
	}
	if sequence == 0xffffffff {
		return false
	}
	return true
}

// checkSequence implements CHECKSEQUENCEVERIFY's comparison, grounded on
// the teacher's CheckSequence: relative locktime only applies to
// version-2-or-later transactions, and the block/time-based sequence
// fields cannot be compared against each other.
func checkSequence(sequence, txSequence int64, txVersion int32) bool {
	txSequenceMasked := txSequence & (SequenceLockTimeTypeFlag | SequenceLockTimeMask)
	sequenceMasked := sequence & (SequenceLockTimeTypeFlag | SequenceLockTimeMask)

	if txVersion < 2 {
		return false
	}
	if txSequence&SequenceLockTimeDisableFlag != 0 {
		return false
	}
	if !((txSequenceMasked < SequenceLockTimeTypeFlag && sequenceMasked < SequenceLockTimeTypeFlag) ||
		(txSequenceMasked >= SequenceLockTimeTypeFlag && sequenceMasked >= SequenceLockTimeTypeFlag)) {
		return false
	}
	return sequenceMasked <= txSequenceMasked
}
