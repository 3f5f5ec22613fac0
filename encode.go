package headlong

import (
	"fmt"
	"math/big"
)

// Encode renders v against t in the standard 32-byte-word ABI format
// (spec.md §4.4), pre-sizing its output buffer from Validate the same way
// the teacher's Type.pack relies on typeCheck having already run.
func Encode(t *Type, v Value) ([]byte, error) {
	size, err := Validate(t, v)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 0, size)
	return appendEncode(t, v, buf)
}

func appendEncode(t *Type, v Value, buf []byte) ([]byte, error) {
	switch t.Kind {
	case KindBool:
		var w [unit]byte
		if v.b {
			w[unit-1] = 1
		}
		return append(buf, w[:]...), nil
	case KindInt:
		u, err := unsignedWord(t, v.i)
		if err != nil {
			return nil, err
		}
		return append(buf, u...), nil
	case KindBigDecimal:
		intType := &Type{Kind: KindInt, Canonical: t.Canonical, Bits: t.Bits, Signed: t.Signed}
		u, err := unsignedWord(intType, v.i)
		if err != nil {
			return nil, err
		}
		return append(buf, u...), nil
	case KindAddress:
		var w [unit]byte
		b := v.i.Bytes()
		copy(w[unit-len(b):], b)
		return append(buf, w[:]...), nil
	case KindFixedBytes:
		var w [unit]byte
		copy(w[:], v.bs)
		return append(buf, w[:]...), nil
	case KindString, KindBytes:
		return appendDynamicBytes(buf, v.bs), nil
	case KindArray:
		return appendArray(t, v, buf)
	case KindTuple:
		return appendTuple(t, v, buf)
	default:
		return nil, newErr(InvalidValue, "cannot encode type kind %v", t.Kind)
	}
}

// unsignedWord renders v as the 32-byte word the wire stores: for an
// unsigned type this is just v, zero-padded; for a signed type it is the
// full 256-bit two's-complement form of v (spec.md §4.4, "sign-extended to
// 32 bytes") — not a t.Bits-width reinterpretation zero-padded out to 32
// bytes, since a negative value's sign bits must fill every byte above its
// declared width, not just the ones within it.
func unsignedWord(t *Type, v *big.Int) ([]byte, error) {
	if err := checkIntRange(t, v); err != nil {
		return nil, err
	}
	if !t.Signed {
		return word256(v), nil
	}
	wire, err := NewUint(256).ToUnsigned(v)
	if err != nil {
		return nil, err // unreachable: v already fits t.Bits <= 256 signed range
	}
	return word256(wire), nil
}

func appendDynamicBytes(buf []byte, payload []byte) []byte {
	buf = append(buf, word256(big.NewInt(int64(len(payload))))...)
	padded := ceilUnit(len(payload))
	start := len(buf)
	buf = append(buf, make([]byte, padded)...)
	copy(buf[start:], payload)
	return buf
}

func appendArray(t *Type, v Value, buf []byte) ([]byte, error) {
	if t.Length == DynamicLength {
		buf = append(buf, word256(big.NewInt(int64(len(v.elems))))...)
	}
	if !t.Elem.dynamic {
		for i, e := range v.elems {
			var err error
			buf, err = appendEncode(t.Elem, e, buf)
			if err != nil {
				return nil, withPath(fmt.Sprintf("array index %d", i), err)
			}
		}
		return buf, nil
	}
	types := make([]*Type, len(v.elems))
	for i := range types {
		types[i] = t.Elem
	}
	headTail, err := encodeHeadTail(types, v.elems, "array index")
	if err != nil {
		return nil, err
	}
	return append(buf, headTail...), nil
}

func appendTuple(t *Type, v Value, buf []byte) ([]byte, error) {
	headTail, err := encodeHeadTail(t.Elems, v.elems, "tuple index")
	if err != nil {
		return nil, err
	}
	return append(buf, headTail...), nil
}

// encodeHeadTail implements the two-pass head/tail algorithm of spec.md
// §4.4 shared by dynamic arrays and tuples: static children are encoded
// in place in the head; dynamic children leave a 32-byte offset pointer in
// the head and their content in the tail, concatenated after it.
func encodeHeadTail(types []*Type, values []Value, pathPrefix string) ([]byte, error) {
	headLen := 0
	for _, ty := range types {
		headLen += ty.StaticSize()
	}
	var head, tail []byte
	offset := headLen
	for i, ty := range types {
		encoded, err := appendEncode(ty, values[i], nil)
		if err != nil {
			return nil, withPath(fmt.Sprintf("%s %d", pathPrefix, i), err)
		}
		if ty.dynamic {
			head = append(head, word256(big.NewInt(int64(offset)))...)
			tail = append(tail, encoded...)
			offset += len(encoded)
		} else {
			head = append(head, encoded...)
		}
	}
	return append(head, tail...), nil
}
