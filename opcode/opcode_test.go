package opcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameCoversDefinedOpcodes(t *testing.T) {
	cases := map[Op]string{
		OP_0: "0", OP_PUSHDATA1: "OP_PUSHDATA1", OP_1NEGATE: "-1",
		OP_1: "1", OP_16: "16", OP_NOP: "OP_NOP", OP_RETURN: "OP_RETURN",
		OP_DUP: "OP_DUP", OP_EQUAL: "OP_EQUAL", OP_CHECKSIG: "OP_CHECKSIG",
		OP_HASH160: "OP_HASH160",
	}
	for op, want := range cases {
		assert.Equal(t, want, Name(op))
	}
}

func TestNameUnknownDefaultsToUnknown(t *testing.T) {
	assert.Equal(t, "OP_UNKNOWN", Name(0xc0))
	assert.Equal(t, "OP_UNKNOWN", Name(0xfc))
}

func TestNameTotalCoverage(t *testing.T) {
	// Every byte either resolves to a defined mnemonic or explicitly
	// OP_UNKNOWN -- never panics, matching the dispatcher-coverage
	// property required of the interpreter built on top of this table.
	for op := 0; op <= 0xff; op++ {
		assert.NotPanics(t, func() { Name(Op(op)) })
	}
}

func TestIsDisabledMatchesHistoricalList(t *testing.T) {
	assert.True(t, IsDisabled(OP_CAT))
	assert.True(t, IsDisabled(OP_MUL))
	assert.True(t, IsDisabled(OP_LSHIFT))
	assert.False(t, IsDisabled(OP_ADD))
	assert.False(t, IsDisabled(OP_EQUAL))
}

func TestIsPushdata(t *testing.T) {
	assert.True(t, IsPushdata(OP_0))
	assert.True(t, IsPushdata(0x4b))
	assert.True(t, IsPushdata(OP_PUSHDATA4))
	assert.False(t, IsPushdata(OP_1NEGATE))
}

func TestIsSmallInt(t *testing.T) {
	assert.True(t, IsSmallInt(OP_1))
	assert.True(t, IsSmallInt(OP_16))
	assert.False(t, IsSmallInt(OP_0))
	assert.False(t, IsSmallInt(OP_1NEGATE))
}

func TestIsConditional(t *testing.T) {
	for _, op := range []Op{OP_IF, OP_NOTIF, OP_ELSE, OP_ENDIF} {
		assert.True(t, IsConditional(op))
	}
	assert.False(t, IsConditional(OP_VERIF))
}

func TestIsAlwaysIllegal(t *testing.T) {
	assert.True(t, IsAlwaysIllegal(OP_VERIF))
	assert.True(t, IsAlwaysIllegal(OP_VERNOTIF))
	assert.False(t, IsAlwaysIllegal(OP_IF))
}
