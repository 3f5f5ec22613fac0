package headlong

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripStandardScalarTypes(t *testing.T) {
	cases := []struct {
		name string
		ty   string
		v    func(*testing.T) Value
	}{
		{"bool-true", "bool", func(t *testing.T) Value { return BoolValue(true) }},
		{"bool-false", "bool", func(t *testing.T) Value { return BoolValue(false) }},
		{"uint8-max", "uint8", func(t *testing.T) Value {
			v, err := IntValue(mustType(t, "uint8"), big.NewInt(255))
			require.NoError(t, err)
			return v
		}},
		{"int8-min", "int8", func(t *testing.T) Value {
			v, err := IntValue(mustType(t, "int8"), big.NewInt(-128))
			require.NoError(t, err)
			return v
		}},
		{"int256-neg", "int256", func(t *testing.T) Value {
			v, err := IntValue(mustType(t, "int256"), big.NewInt(-12345))
			require.NoError(t, err)
			return v
		}},
		{"address", "address", func(t *testing.T) Value {
			v, err := AddressValue(big.NewInt(0xdeadbeef))
			require.NoError(t, err)
			return v
		}},
		{"bytes4", "bytes4", func(t *testing.T) Value {
			v, err := FixedBytesValue(mustType(t, "bytes4"), []byte{1, 2, 3, 4})
			require.NoError(t, err)
			return v
		}},
		{"string", "string", func(t *testing.T) Value { return StringValue("hello, world") }},
		{"bytes", "bytes", func(t *testing.T) Value { return BytesValue([]byte{0xde, 0xad}) }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ty := mustType(t, c.ty)
			v := c.v(t)
			data, err := Encode(ty, v)
			require.NoError(t, err)
			got, err := Decode(ty, data)
			require.NoError(t, err)
			assertValuesEqual(t, ty, v, got)
		})
	}
}

func assertValuesEqual(t *testing.T, ty *Type, want, got Value) {
	t.Helper()
	switch ty.Kind {
	case KindBool:
		assert.Equal(t, want.Bool(), got.Bool())
	case KindInt, KindAddress:
		assert.Equal(t, 0, want.Int().Cmp(got.Int()))
	case KindBigDecimal:
		assert.Equal(t, 0, want.Unscaled().Cmp(got.Unscaled()))
	case KindFixedBytes, KindBytes, KindString:
		assert.Equal(t, want.Bytes(), got.Bytes())
	case KindArray, KindTuple:
		require.Len(t, got.Elems(), len(want.Elems()))
		childType := ty.Elem
		for i := range want.Elems() {
			ct := childType
			if ty.Kind == KindTuple {
				ct = ty.Elems[i]
			}
			assertValuesEqual(t, ct, want.Elems()[i], got.Elems()[i])
		}
	}
}

func TestRoundTripNestedArrayAndTuple(t *testing.T) {
	ty := mustType(t, "(uint256[],string,bool[2])")
	nums := make([]Value, 3)
	for i := range nums {
		v, err := IntValue(mustType(t, "uint256"), big.NewInt(int64(i*7)))
		require.NoError(t, err)
		nums[i] = v
	}
	numsArr, err := ArrayValue(mustType(t, "uint256[]"), nums)
	require.NoError(t, err)
	boolArr, err := ArrayValue(mustType(t, "bool[2]"), []Value{BoolValue(true), BoolValue(false)})
	require.NoError(t, err)
	tup, err := TupleValue(ty, []Value{numsArr, StringValue("nested"), boolArr})
	require.NoError(t, err)

	data, err := Encode(ty, tup)
	require.NoError(t, err)
	got, err := Decode(ty, data)
	require.NoError(t, err)
	assertValuesEqual(t, ty, tup, got)
}

// TestRoundTripDynamicArrayOfDynamicElements covers the trickiest shape of
// the standard head/tail algorithm: a dynamic-length array whose elements
// are themselves dynamic, so each element needs its own offset word inside
// the array body in addition to the array's own length word.
func TestRoundTripDynamicArrayOfDynamicElements(t *testing.T) {
	ty := mustType(t, "string[]")
	strs := []string{"", "a", "a longer string that spans more than one word"}
	elems := make([]Value, len(strs))
	for i, s := range strs {
		elems[i] = StringValue(s)
	}
	arr, err := ArrayValue(ty, elems)
	require.NoError(t, err)

	data, err := Encode(ty, arr)
	require.NoError(t, err)
	got, err := Decode(ty, data)
	require.NoError(t, err)
	assertValuesEqual(t, ty, arr, got)
	require.Len(t, got.Elems(), len(strs))
	for i, s := range strs {
		assert.Equal(t, s, got.Elems()[i].String())
	}
}

// TestRoundTripTupleOfDynamicArraysOfDynamicElements nests the same shape
// one level deeper, inside a tuple alongside another dynamic array, the way
// a real "batch orders" style call would.
func TestRoundTripTupleOfDynamicArraysOfDynamicElements(t *testing.T) {
	ty := mustType(t, "(bytes[],string)")
	byteElems := [][]byte{{0x01}, {}, {0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05}}
	elems := make([]Value, len(byteElems))
	for i, b := range byteElems {
		elems[i] = BytesValue(b)
	}
	arr, err := ArrayValue(mustType(t, "bytes[]"), elems)
	require.NoError(t, err)
	tup, err := TupleValue(ty, []Value{arr, StringValue("trailer")})
	require.NoError(t, err)

	data, err := Encode(ty, tup)
	require.NoError(t, err)
	got, err := Decode(ty, data)
	require.NoError(t, err)
	assertValuesEqual(t, ty, tup, got)
}

func TestDecodeTrailingBytesRejected(t *testing.T) {
	ty := mustType(t, "uint256")
	v, err := IntValue(ty, big.NewInt(1))
	require.NoError(t, err)
	data, err := Encode(ty, v)
	require.NoError(t, err)
	_, err = Decode(ty, append(data, 0x00))
	assert.ErrorIs(t, err, InvalidEncoding)
}

func TestDecodeLenientForwardOffset(t *testing.T) {
	// a tuple (string, uint256) whose string offset points past the
	// minimum (past some extra zero padding) must still decode.
	ty := mustType(t, "(string,uint256)")
	head := make([]byte, 0, 128)
	head = append(head, word256(big.NewInt(96))...) // offset, one extra unit than minimum 64
	numVal, err := IntValue(mustType(t, "uint256"), big.NewInt(42))
	require.NoError(t, err)
	numWord, err := Encode(mustType(t, "uint256"), numVal)
	require.NoError(t, err)
	head = append(head, numWord...)
	head = append(head, make([]byte, 32)...) // padding the forward jump skips over
	strTail, err := Encode(mustType(t, "string"), StringValue("hi"))
	require.NoError(t, err)
	head = append(head, strTail...)

	got, err := DecodeTuple(ty, head)
	require.NoError(t, err)
	assert.Equal(t, "hi", got[0].String())
	assert.Equal(t, 0, got[1].Int().Cmp(big.NewInt(42)))
}

func TestDecodeBackwardOffsetRejected(t *testing.T) {
	ty := mustType(t, "(string,string)")
	var head []byte
	head = append(head, word256(big.NewInt(64))...)
	head = append(head, word256(big.NewInt(32))...) // points backward of cursor
	tail1, err := Encode(mustType(t, "string"), StringValue("a"))
	require.NoError(t, err)
	head = append(head, tail1...)
	_, err = DecodeTuple(ty, head)
	assert.ErrorIs(t, err, InvalidEncoding)
}

func TestDecodeSelectedLeavesAbsent(t *testing.T) {
	ty := mustType(t, "(uint256,string,bool)")
	iv, err := IntValue(mustType(t, "uint256"), big.NewInt(7))
	require.NoError(t, err)
	tup, err := TupleValue(ty, []Value{iv, StringValue("skip me"), BoolValue(true)})
	require.NoError(t, err)
	data, err := Encode(ty, tup)
	require.NoError(t, err)

	got, err := DecodeSelected(ty, data, []int{0, 2})
	require.NoError(t, err)
	assert.False(t, got[0].IsAbsent())
	assert.Equal(t, 0, got[0].Int().Cmp(big.NewInt(7)))
	assert.True(t, got[1].IsAbsent())
	assert.False(t, got[2].IsAbsent())
	assert.True(t, got[2].Bool())
}

func TestDecodeSelectedRejectsNonIncreasing(t *testing.T) {
	ty := mustType(t, "(uint256,uint256)")
	_, err := DecodeSelected(ty, make([]byte, 64), []int{1, 0})
	assert.ErrorIs(t, err, InvalidValue)
	_, err = DecodeSelected(ty, make([]byte, 64), []int{0, 0})
	assert.ErrorIs(t, err, InvalidValue)
}

func TestDecodeMalformedBool(t *testing.T) {
	ty := mustType(t, "bool")
	bad := make([]byte, 32)
	bad[31] = 2
	_, err := Decode(ty, bad)
	assert.ErrorIs(t, err, InvalidEncoding)

	bad2 := make([]byte, 32)
	bad2[0] = 1
	_, err = Decode(ty, bad2)
	assert.ErrorIs(t, err, InvalidEncoding)
}

func TestDecodeNegativeIntSignExtendsBack(t *testing.T) {
	i8 := mustType(t, "int8")
	word := make([]byte, 32)
	for i := range word {
		word[i] = 0xFF
	}
	v, err := Decode(i8, word)
	require.NoError(t, err)
	assert.Equal(t, 0, v.Int().Cmp(big.NewInt(-1)))
}
