package headlong

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBazUint32Bool(t *testing.T) {
	fn, err := NewFunction(Ordinary, "baz", NewTuple(mustType(t, "uint32"), mustType(t, "bool")), nil, "")
	require.NoError(t, err)
	sel := fn.Selector()
	assert.Equal(t, "cdcd77c0", hex.EncodeToString(sel[:]))

	v1, err := IntValue(mustType(t, "uint32"), big.NewInt(69))
	require.NoError(t, err)
	v2 := BoolValue(true)
	data, err := fn.EncodeCall([]Value{v1, v2})
	require.NoError(t, err)
	require.Len(t, data, 4+64)
	assert.Equal(t, "cdcd77c0", hex.EncodeToString(data[:4]))
	assert.Equal(t, uint64(69), new(big.Int).SetBytes(data[4:36]).Uint64())
	assert.Equal(t, uint64(1), new(big.Int).SetBytes(data[36:68]).Uint64())
}

func TestEncodeBarBytes3Array(t *testing.T) {
	fn, err := NewFunction(Ordinary, "bar", NewTuple(mustType(t, "bytes3[2]")), nil, "")
	require.NoError(t, err)
	sel := fn.Selector()
	assert.Equal(t, "fce353f6", hex.EncodeToString(sel[:]))

	abc, err := FixedBytesValue(mustType(t, "bytes3"), []byte("abc"))
	require.NoError(t, err)
	def, err := FixedBytesValue(mustType(t, "bytes3"), []byte("def"))
	require.NoError(t, err)
	arr, err := ArrayValue(mustType(t, "bytes3[2]"), []Value{abc, def})
	require.NoError(t, err)

	data, err := fn.EncodeCall([]Value{arr})
	require.NoError(t, err)
	require.Len(t, data, 4+64)
	assert.Equal(t, "616263"+hex.EncodeToString(make([]byte, 29)), hex.EncodeToString(data[4:36]))
	assert.Equal(t, "646566"+hex.EncodeToString(make([]byte, 29)), hex.EncodeToString(data[36:68]))
}

func TestEncodeSamDynamicTuple(t *testing.T) {
	fn, err := NewFunction(Ordinary, "sam", NewTuple(
		mustType(t, "bytes"), mustType(t, "bool"), mustType(t, "uint256[]"),
	), nil, "")
	require.NoError(t, err)
	sel := fn.Selector()
	assert.Equal(t, "a5643bf2", hex.EncodeToString(sel[:]))

	bs := BytesValue([]byte("dave"))
	b := BoolValue(true)
	nums := make([]Value, 3)
	for i := range nums {
		v, err := IntValue(mustType(t, "uint256"), big.NewInt(int64(i+1)))
		require.NoError(t, err)
		nums[i] = v
	}
	arr, err := ArrayValue(mustType(t, "uint256[]"), nums)
	require.NoError(t, err)

	data, err := fn.EncodeCall([]Value{bs, b, arr})
	require.NoError(t, err)

	word := func(n int) []byte { return data[4+n*32 : 4+(n+1)*32] }
	assert.Equal(t, uint64(0x60), new(big.Int).SetBytes(word(0)).Uint64())
	assert.Equal(t, uint64(1), new(big.Int).SetBytes(word(1)).Uint64())
	assert.Equal(t, uint64(0xa0), new(big.Int).SetBytes(word(2)).Uint64())
	assert.Equal(t, uint64(4), new(big.Int).SetBytes(word(3)).Uint64())
	assert.Equal(t, "dave", string(word(4)[:4]))
	assert.Equal(t, uint64(3), new(big.Int).SetBytes(word(5)).Uint64())
	assert.Equal(t, uint64(1), new(big.Int).SetBytes(word(6)).Uint64())
	assert.Equal(t, uint64(2), new(big.Int).SetBytes(word(7)).Uint64())
	assert.Equal(t, uint64(3), new(big.Int).SetBytes(word(8)).Uint64())
}

func TestFooSelector(t *testing.T) {
	fn, err := NewFunction(Ordinary, "foo", NewTuple(), nil, "")
	require.NoError(t, err)
	sel := fn.Selector()
	assert.Equal(t, "c2985578", hex.EncodeToString(sel[:]))
}

func TestEncodeNegativeIntSignExtends(t *testing.T) {
	i8 := mustType(t, "int8")
	v, err := IntValue(i8, big.NewInt(-1))
	require.NoError(t, err)
	data, err := Encode(i8, v)
	require.NoError(t, err)
	require.Len(t, data, 32)
	for _, b := range data {
		assert.Equal(t, byte(0xFF), b)
	}
}

func TestEncodeNegativeIntSignExtendsWiderThanDeclaredWidth(t *testing.T) {
	i16 := mustType(t, "int16")
	v, err := IntValue(i16, big.NewInt(-2))
	require.NoError(t, err)
	data, err := Encode(i16, v)
	require.NoError(t, err)
	// the top 30 bytes must all be 0xFF (sign-extended past the declared
	// 16-bit width), not zero-padded around a 2-byte reinterpretation.
	for _, b := range data[:30] {
		assert.Equal(t, byte(0xFF), b)
	}
	assert.Equal(t, byte(0xFF), data[30])
	assert.Equal(t, byte(0xFE), data[31])
}
