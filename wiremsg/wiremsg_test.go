package wiremsg

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedRecord struct {
	value uint32
}

func (f *fixedRecord) Command() string { return "fixed" }
func (f *fixedRecord) Serialize(w io.Writer) error {
	return WriteUint32(w, f.value)
}
func (f *fixedRecord) Deserialize(r io.Reader) error {
	v, err := ReadUint32(r)
	f.value = v
	return err
}
func (f *fixedRecord) HintSerializedLen() int { return 4 }

func TestVarIntRoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 0xfc, 0xfd, 0xffff, 0x10000, 0xffffffff, 0x100000000}
	for _, v := range cases {
		var buf bytes.Buffer
		require.NoError(t, WriteVarInt(&buf, v))
		assert.Equal(t, VarIntSerializeSize(v), buf.Len())
		got, err := ReadVarInt(&buf)
		require.NoError(t, err)
		assert.Equal(t, v, got)
	}
}

func TestVarStringRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteVarString(&buf, "hello wire"))
	got, err := ReadVarString(&buf)
	require.NoError(t, err)
	assert.Equal(t, "hello wire", got)
}

func TestInt32VectorRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	vals := []int32{1, -2, 3}
	require.NoError(t, WriteInt32Vector(&buf, vals))
	got, err := ReadInt32Vector(&buf)
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestStringVectorRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	vals := []string{"a", "bb", "ccc"}
	require.NoError(t, WriteStringVector(&buf, vals))
	got, err := ReadStringVector(&buf)
	require.NoError(t, err)
	assert.Equal(t, vals, got)
}

func TestEnvelopeRoundTrip(t *testing.T) {
	rec := &fixedRecord{value: 0xdeadbeef}
	var buf bytes.Buffer
	_, err := WriteEnvelope(&buf, 0xd9b4bef9, rec)
	require.NoError(t, err)

	cmd, payload, err := ReadEnvelope(&buf, 0xd9b4bef9)
	require.NoError(t, err)
	assert.Equal(t, "fixed", cmd)

	got := &fixedRecord{}
	require.NoError(t, got.Deserialize(bytes.NewReader(payload)))
	assert.Equal(t, rec.value, got.value)
}

func TestEnvelopeRejectsWrongMagic(t *testing.T) {
	rec := &fixedRecord{value: 1}
	var buf bytes.Buffer
	_, err := WriteEnvelope(&buf, 0x11111111, rec)
	require.NoError(t, err)

	_, _, err = ReadEnvelope(&buf, 0x22222222)
	assert.Error(t, err)
}

func TestEnvelopeRejectsCorruptedChecksum(t *testing.T) {
	rec := &fixedRecord{value: 1}
	var buf bytes.Buffer
	_, err := WriteEnvelope(&buf, 0x11111111, rec)
	require.NoError(t, err)

	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xff // flip a payload byte
	_, _, err = ReadEnvelope(bytes.NewReader(corrupted), 0x11111111)
	assert.Error(t, err)
}
