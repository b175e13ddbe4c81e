package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadVarlen(t *testing.T) {
	cases := []struct {
		data  []byte
		value int
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 127},
		{[]byte{0x81, 0x48}, 200},
		{[]byte{0xFF, 0xFF, 0x7F}, 2097151},
		{[]byte{0x81, 0x80, 0x80, 0x00}, 2097152},
		{[]byte{0xC0, 0x80, 0x80, 0x00}, 134217728},
		{[]byte{0xFF, 0xFF, 0xFF, 0x7F}, 268435455},
	}
	for _, c := range cases {
		value, err := NewReader(c.data).ReadVarlen()
		assert.NoError(t, err)
		assert.Equal(t, c.value, value)
	}
}

func TestEncodeVarlenIsInverse(t *testing.T) {
	values := []int{0, 1, 127, 128, 200, 16383, 16384, 2097151, 2097152, 134217728, 1<<28 - 1}
	for v := 0; v < 1<<28; v += 1<<16 + 7 {
		values = append(values, v)
	}
	for _, v := range values {
		encoded := EncodeVarlen(v)
		assert.LessOrEqual(t, len(encoded), 4)
		decoded, err := NewReader(encoded).ReadVarlen()
		assert.NoError(t, err)
		assert.Equal(t, v, decoded)
	}
}

func TestReaderIntegers(t *testing.T) {
	assert := assert.New(t)
	r := NewReader([]byte{'M', 'T', 'h', 'd', 0, 0, 0, 6, 0x01, 0xE0, 0x42})

	id, err := r.ReadAscii(4)
	assert.NoError(err)
	assert.Equal("MThd", id)

	n, err := r.ReadInt()
	assert.NoError(err)
	assert.Equal(6, n)

	s, err := r.ReadShort()
	assert.NoError(err)
	assert.Equal(480, s)

	p, err := r.Peek()
	assert.NoError(err)
	assert.Equal(byte(0x42), p)
	assert.Equal(10, r.Offset())

	b, err := r.ReadByte()
	assert.NoError(err)
	assert.Equal(byte(0x42), b)
	assert.Equal(11, r.Offset())
}

func TestReaderTruncated(t *testing.T) {
	assert := assert.New(t)
	r := NewReader([]byte{0x81})
	_, err := r.ReadVarlen()
	assert.Error(err)
	assert.True(IsTruncated(err))
	assert.Equal(1, err.(*FormatError).Offset)

	r = NewReader([]byte{1, 2})
	_, err = r.ReadInt()
	assert.True(IsTruncated(err))
	assert.Equal(0, err.(*FormatError).Offset)

	_, err = NewReader(nil).Peek()
	assert.True(IsTruncated(err))
}
