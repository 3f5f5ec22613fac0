package headlong

import (
	"fmt"
	"math/big"
)

// EncodePacked renders v against t using the dense, ambiguous encoding of
// spec.md §4.5 used for signing digests. Validate still runs first for its
// structural and range checks, even though its byte-length result (sized
// for the standard encoding) isn't used here.
func EncodePacked(t *Type, v Value) ([]byte, error) {
	if _, err := Validate(t, v); err != nil {
		return nil, err
	}
	return appendPacked(t, v, nil)
}

// appendPacked packs t/v at the top level or as a tuple child. A direct
// array element goes through appendPackedElem first, because integer array
// elements are padded to a full unit while bare integers are not (spec.md
// §4.5); appendPackedElem hands every non-integer element back to
// appendPacked.
func appendPacked(t *Type, v Value, buf []byte) ([]byte, error) {
	switch t.Kind {
	case KindBool:
		if v.b {
			return append(buf, 1), nil
		}
		return append(buf, 0), nil
	case KindInt:
		return appendPackedInt(t, v.i, int(t.Bits/8), buf)
	case KindBigDecimal:
		intType := &Type{Kind: KindInt, Canonical: t.Canonical, Bits: t.Bits, Signed: t.Signed}
		return appendPackedInt(intType, v.i, int(t.Bits/8), buf)
	case KindAddress:
		var w [20]byte
		b := v.i.Bytes()
		copy(w[20-len(b):], b)
		return append(buf, w[:]...), nil
	case KindFixedBytes, KindString, KindBytes:
		return append(buf, v.bs...), nil
	case KindArray:
		for i, e := range v.elems {
			var err error
			buf, err = appendPackedElem(t.Elem, e, buf)
			if err != nil {
				return nil, withPath(fmt.Sprintf("array index %d", i), err)
			}
		}
		return buf, nil
	case KindTuple:
		for i, e := range v.elems {
			var err error
			buf, err = appendPacked(t.Elems[i], e, buf)
			if err != nil {
				return nil, withPath(fmt.Sprintf("tuple index %d", i), err)
			}
		}
		return buf, nil
	default:
		return nil, newErr(InvalidValue, "cannot pack type kind for %s", t.Canonical)
	}
}

// appendPackedElem packs a value as a direct array element: integer types
// are padded out to a full 32-byte unit, everything else packs exactly as
// it would as a tuple child (spec.md §4.5: "for arrays of bytes<L>, no
// padding").
func appendPackedElem(t *Type, v Value, buf []byte) ([]byte, error) {
	switch t.Kind {
	case KindInt:
		return appendPackedInt(t, v.i, unit, buf)
	case KindBigDecimal:
		intType := &Type{Kind: KindInt, Canonical: t.Canonical, Bits: t.Bits, Signed: t.Signed}
		return appendPackedInt(intType, v.i, unit, buf)
	default:
		return appendPacked(t, v, buf)
	}
}

// appendPackedInt renders v as width bytes of big-endian two's complement.
// width is t.Bits/8 for a bare integer or unit when the integer is a
// direct array element; either way the reinterpretation is exact at that
// many bits, with no sign-extension beyond it (contrast the standard
// encoder's unsignedWord, whose word is always 256 bits wide).
func appendPackedInt(t *Type, v *big.Int, width int, buf []byte) ([]byte, error) {
	if err := checkIntRange(t, v); err != nil {
		return nil, err
	}
	unsigned := v
	if t.Signed {
		u, err := NewUint(uint(width*8)).ToUnsigned(v)
		if err != nil {
			return nil, err // unreachable: checkIntRange already bounds v to t.Bits <= width*8
		}
		unsigned = u
	}
	out := make([]byte, width)
	b := unsigned.Bytes()
	copy(out[width-len(b):], b)
	return append(buf, out...), nil
}

// packedSize returns the fixed packed byte length of a non-dynamic type
// used as a tuple child (its direct array elements, if any, still pack at
// their array-element width).
func packedSize(t *Type) int {
	switch t.Kind {
	case KindBool:
		return 1
	case KindInt, KindBigDecimal:
		return int(t.Bits / 8)
	case KindAddress:
		return 20
	case KindFixedBytes:
		return t.Size
	case KindArray:
		return t.Length * packedElemSize(t.Elem)
	case KindTuple:
		total := 0
		for _, e := range t.Elems {
			total += packedSize(e)
		}
		return total
	default:
		return 0
	}
}

// packedElemSize returns the fixed packed byte length of a non-dynamic
// type used as a direct array element, applying the integer-padding rule.
func packedElemSize(t *Type) int {
	if t.Kind == KindInt || t.Kind == KindBigDecimal {
		return unit
	}
	return packedSize(t)
}

// DecodePacked recovers a value of type t from its packed encoding,
// per spec.md §4.5's right-then-left scan: at most one direct child of any
// tuple/array frame may be a dynamic type, or the decomposition is
// ambiguous and PACKED_AMBIGUOUS is raised.
func DecodePacked(t *Type, buf []byte) (Value, error) {
	return packedDecodeValue(t, buf)
}

func packedDecodeValue(t *Type, buf []byte) (Value, error) {
	switch t.Kind {
	case KindBool:
		if len(buf) != 1 || buf[0] > 1 {
			return Value{}, newErr(InvalidEncoding, "malformed packed bool")
		}
		return Value{typ: t, b: buf[0] == 1}, nil
	case KindInt:
		return packedDecodeInt(t, buf)
	case KindBigDecimal:
		intType := &Type{Kind: KindInt, Canonical: t.Canonical, Bits: t.Bits, Signed: t.Signed}
		iv, err := packedDecodeInt(intType, buf)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, i: iv.i}, nil
	case KindAddress:
		if len(buf) != 20 {
			return Value{}, newErr(InvalidEncoding, "address must pack to 20 bytes, got %d", len(buf))
		}
		return Value{typ: t, i: new(big.Int).SetBytes(buf)}, nil
	case KindFixedBytes:
		if len(buf) != t.Size {
			return Value{}, newErr(InvalidEncoding, "%s must pack to %d bytes, got %d", t.Canonical, t.Size, len(buf))
		}
		bs := make([]byte, len(buf))
		copy(bs, buf)
		return Value{typ: t, bs: bs}, nil
	case KindString, KindBytes:
		bs := make([]byte, len(buf))
		copy(bs, buf)
		return Value{typ: t, bs: bs}, nil
	case KindArray:
		return packedDecodeArray(t, buf)
	case KindTuple:
		elems, err := packedFrame(t.Elems, buf, packedSize)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, elems: elems}, nil
	default:
		return Value{}, newErr(InvalidValue, "cannot unpack type kind for %s", t.Canonical)
	}
}

// packedDecodeInt reinterprets buf's full width as the two's-complement
// representation at that width, the inverse of appendPackedInt.
func packedDecodeInt(t *Type, buf []byte) (Value, error) {
	raw := new(big.Int).SetBytes(buf)
	v := raw
	if t.Signed {
		signed, err := NewUint(uint(len(buf)*8)).ToSigned(raw)
		if err != nil {
			return Value{}, err // unreachable: raw is always < 2^(8*len(buf))
		}
		v = signed
	}
	if err := checkIntRange(t, v); err != nil {
		return Value{}, err
	}
	return Value{typ: t, i: v}, nil
}

func packedDecodeArray(t *Type, buf []byte) (Value, error) {
	n := t.Length
	if t.Length == DynamicLength {
		if t.Elem.dynamic {
			return Value{}, newErr(PackedAmbiguous, "dynamic-length array of dynamic elements cannot be unpacked")
		}
		elemSize := packedElemSize(t.Elem)
		if elemSize == 0 || len(buf)%elemSize != 0 {
			return Value{}, newErr(InvalidEncoding, "buffer length %d not a multiple of element size %d", len(buf), elemSize)
		}
		n = len(buf) / elemSize
	}
	types := make([]*Type, n)
	for i := range types {
		types[i] = t.Elem
	}
	elems, err := packedFrame(types, buf, packedElemSize)
	if err != nil {
		return Value{}, withPath("array", err)
	}
	return Value{typ: t, elems: elems}, nil
}

// packedFrame decodes a flat concatenation of children, allowing at most
// one of them to be a dynamic type: that child's width is recovered as
// whatever remains once every fixed-size sibling's width (via sizeOf) is
// subtracted from len(buf).
func packedFrame(types []*Type, buf []byte, sizeOf func(*Type) int) ([]Value, error) {
	dynIdx := -1
	for i, ty := range types {
		if ty.dynamic {
			if dynIdx != -1 {
				return nil, newErr(PackedAmbiguous, "more than one dynamic element in a packed frame")
			}
			dynIdx = i
		}
	}
	fixedTotal := 0
	for i, ty := range types {
		if i != dynIdx {
			fixedTotal += sizeOf(ty)
		}
	}
	if fixedTotal > len(buf) {
		return nil, newErr(InvalidEncoding, "buffer underflow: need at least %d bytes, have %d", fixedTotal, len(buf))
	}
	dynSize := len(buf) - fixedTotal
	if dynIdx == -1 && dynSize != 0 {
		return nil, newErr(InvalidEncoding, "trailing bytes: %d unconsumed", dynSize)
	}

	values := make([]Value, len(types))
	pos := 0
	for i, ty := range types {
		size := sizeOf(ty)
		if i == dynIdx {
			size = dynSize
		}
		v, err := packedDecodeValue(ty, buf[pos:pos+size])
		if err != nil {
			return nil, withPath(fmt.Sprintf("index %d", i), err)
		}
		values[i] = v
		pos += size
	}
	return values, nil
}
