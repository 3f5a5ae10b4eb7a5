package script

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/btcscriptvm/scriptvm/opcode"
)

func TestParseInlinePush(t *testing.T) {
	ops, err := New([]byte{0x03, 0x04, 0x05, 0x06}).Parse()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, []byte{0x04, 0x05, 0x06}, ops[0].Data)
}

func TestParseOpFalse(t *testing.T) {
	ops, err := New([]byte{0x00}).Parse()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, opcode.OP_0, ops[0].Code)
	assert.Empty(t, ops[0].Data)
}

func TestParsePushdata1LengthFieldIsOneByte(t *testing.T) {
	data := []byte{0xAA, 0xBB}
	raw := append([]byte{opcode.OP_PUSHDATA1, byte(len(data))}, data...)
	ops, err := New(raw).Parse()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Equal(t, data, ops[0].Data)
}

func TestParsePushdata2LengthFieldIsTwoBytesLittleEndian(t *testing.T) {
	data := make([]byte, 300)
	raw := append([]byte{opcode.OP_PUSHDATA2, 0x2C, 0x01}, data...) // 300 = 0x012C
	ops, err := New(raw).Parse()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Len(t, ops[0].Data, 300)
}

func TestParsePushdata4LengthFieldIsFourBytes(t *testing.T) {
	data := make([]byte, 10)
	raw := append([]byte{opcode.OP_PUSHDATA4, 10, 0, 0, 0}, data...)
	ops, err := New(raw).Parse()
	require.NoError(t, err)
	require.Len(t, ops, 1)
	assert.Len(t, ops[0].Data, 10)
}

func TestParseTruncatedPushFails(t *testing.T) {
	_, err := New([]byte{0x05, 0x01, 0x02}).Parse()
	require.Error(t, err)
}

func TestParseOversizePushFails(t *testing.T) {
	raw := append([]byte{opcode.OP_PUSHDATA2, 0x09, 0x02}, make([]byte, 521)...) // 521 = 0x0209 declared
	_, err := New(raw).Parse()
	require.Error(t, err)
}

func TestIsPushOnly(t *testing.T) {
	assert.True(t, New([]byte{opcode.OP_1, opcode.OP_2}).IsPushOnly())
	assert.False(t, New([]byte{opcode.OP_1, opcode.OP_ADD}).IsPushOnly())
}

func TestIsPayToScriptHash(t *testing.T) {
	raw := append([]byte{opcode.OP_HASH160, 0x14}, make([]byte, 20)...)
	raw = append(raw, opcode.OP_EQUAL)
	assert.True(t, New(raw).IsPayToScriptHash())
	assert.False(t, New([]byte{opcode.OP_1, opcode.OP_2}).IsPayToScriptHash())
}

func TestIsMinimalPush(t *testing.T) {
	assert.True(t, IsMinimalPush(opcode.OP_0, nil))
	assert.True(t, IsMinimalPush(opcode.OP_1, []byte{1}))
	assert.False(t, IsMinimalPush(3, []byte{1, 2}))
	assert.True(t, IsMinimalPush(2, []byte{1, 2}))
}
