package headlong

import (
	"fmt"
	"math/big"
)

// Decode reads a value of type t from the standard encoding in buf
// (spec.md §4.4), and fails with INVALID_ENCODING if buf carries bytes
// past the decoded region — the trailing-bytes check applies only at
// this top-level entry point, not to nested frames, which are handed
// their own bounded slice.
func Decode(t *Type, buf []byte) (Value, error) {
	v, consumed, err := decodeTop(t, buf)
	if err != nil {
		return Value{}, err
	}
	if consumed != len(buf) {
		return Value{}, newErr(InvalidEncoding, "trailing bytes: consumed %d of %d", consumed, len(buf))
	}
	return v, nil
}

// decodeTop reads t from the start of buf, returning the number of bytes
// occupied by its own head (and, if t is dynamic, by every tail reached
// from it) — the high-water mark a caller uses for the trailing-bytes
// check or to advance its own cursor.
func decodeTop(t *Type, buf []byte) (Value, int, error) {
	if t.dynamic {
		return decodeDynamic(t, buf)
	}
	size := t.StaticSize()
	if size > len(buf) {
		return Value{}, 0, newErr(InvalidEncoding, "buffer underflow: need %d bytes, have %d", size, len(buf))
	}
	v, err := decodeStatic(t, buf[:size])
	if err != nil {
		return Value{}, 0, err
	}
	return v, size, nil
}

// fieldWanted reports, for a tuple/array frame, whether index i was
// requested by the caller. A nil fieldWanted means "decode everything".
type fieldWanted func(i int) bool

func selectAll(int) bool { return true }

// DecodeTuple decodes every field of a tuple type, equivalent to
// Decode(t, buf) for a t with Kind == KindTuple but returning the field
// slice directly rather than a wrapping Value.
func DecodeTuple(t *Type, buf []byte) ([]Value, error) {
	if t.Kind != KindTuple {
		return nil, newErr(InvalidValue, "DecodeTuple: type %s is not a tuple", t.Canonical)
	}
	values, consumed, err := decodeFrame(t.Elems, buf, selectAll)
	if err != nil {
		return nil, err
	}
	if consumed != len(buf) {
		return nil, newErr(InvalidEncoding, "trailing bytes: consumed %d of %d", consumed, len(buf))
	}
	return values, nil
}

// DecodeSelected performs the partial decode of spec.md §4.4: only the
// fields named in indices are eagerly decoded; every other position comes
// back as the ABSENT sentinel. indices must be sorted and strictly
// increasing; indices that are not, or that fall outside the tuple, are
// rejected with InvalidValue rather than sorted or repaired.
func DecodeSelected(t *Type, buf []byte, indices []int) ([]Value, error) {
	if t.Kind != KindTuple {
		return nil, newErr(InvalidValue, "DecodeSelected: type %s is not a tuple", t.Canonical)
	}
	for i := 1; i < len(indices); i++ {
		if indices[i] <= indices[i-1] {
			return nil, newErr(InvalidValue, "indices must be strictly increasing, got %d after %d", indices[i], indices[i-1])
		}
	}
	want := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= t.Arity() {
			return nil, newErr(InvalidValue, "index %d out of range for arity %d", i, t.Arity())
		}
		want[i] = true
	}
	values, _, err := decodeFrame(t.Elems, buf, func(i int) bool { return want[i] })
	return values, err
}

// decodeFrame implements the cursor state machine of spec.md §4.8 over
// one tuple-shaped region: a fixed-size run of heads (one unit per
// dynamic child, the static encoding otherwise) followed by the tails
// those heads point into. Offsets are interpreted relative to buf's own
// start, exactly as encodeHeadTail produced them.
func decodeFrame(types []*Type, buf []byte, want fieldWanted) ([]Value, int, error) {
	headLen := 0
	for _, ty := range types {
		headLen += ty.StaticSize()
	}
	if headLen > len(buf) {
		return nil, 0, newErr(InvalidEncoding, "buffer underflow: need %d head bytes, have %d", headLen, len(buf))
	}
	values := make([]Value, len(types))
	pos := 0
	cursor := headLen
	highWater := headLen
	for i, ty := range types {
		requested := want == nil || want(i)
		if ty.dynamic {
			offset, err := readOffset(buf[pos : pos+unit])
			if err != nil {
				return nil, 0, withPath(fmt.Sprintf("tuple index %d", i), err)
			}
			pos += unit
			if !requested {
				values[i] = absentValue(ty)
				continue
			}
			if offset < unit {
				return nil, 0, newErr(InvalidEncoding, "offset %d below one unit", offset)
			}
			if offset < cursor {
				return nil, 0, newErr(InvalidEncoding, "offset %d points backward of cursor %d", offset, cursor)
			}
			if offset > len(buf) {
				return nil, 0, newErr(InvalidEncoding, "offset %d exceeds buffer length %d", offset, len(buf))
			}
			v, consumed, err := decodeDynamic(ty, buf[offset:])
			if err != nil {
				return nil, 0, withPath(fmt.Sprintf("tuple index %d", i), err)
			}
			values[i] = v
			end := offset + consumed
			if end > highWater {
				highWater = end
			}
			cursor = end
			continue
		}
		size := ty.StaticSize()
		if requested {
			v, err := decodeStatic(ty, buf[pos:pos+size])
			if err != nil {
				return nil, 0, withPath(fmt.Sprintf("tuple index %d", i), err)
			}
			values[i] = v
		} else {
			values[i] = absentValue(ty)
		}
		pos += size
	}
	return values, highWater, nil
}

// readOffset decodes a 32-byte head slot as the non-negative offset it
// must be: spec.md §4.4 bounds offsets to the 31-bit positive range an
// int fits without risk of overflow on 32-bit platforms.
func readOffset(word []byte) (int, error) {
	v := new(big.Int).SetBytes(word)
	if !v.IsInt64() || v.Int64() > 0x7fffffff {
		return 0, newErr(InvalidEncoding, "offset %s overflows 31-bit range", v)
	}
	return int(v.Int64()), nil
}

// readLength is readOffset's counterpart for a dynamic bytes/string/array
// length prefix, which carries the same 31-bit bound.
func readLength(word []byte) (int, error) {
	return readOffset(word)
}

// decodeStatic reads a non-dynamic type from an exactly-sized slice: a
// scalar occupies one unit; a static array or tuple recurses over its own
// (offset-free, contiguous) sub-frame.
func decodeStatic(t *Type, word []byte) (Value, error) {
	switch t.Kind {
	case KindBool:
		b, err := decodeBool(word)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, b: b}, nil
	case KindInt:
		return decodeInt(t, word)
	case KindBigDecimal:
		intType := &Type{Kind: KindInt, Canonical: t.Canonical, Bits: t.Bits, Signed: t.Signed}
		iv, err := decodeInt(intType, word)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, i: iv.i}, nil
	case KindAddress:
		return Value{typ: t, i: new(big.Int).SetBytes(word[unit-20:])}, nil
	case KindFixedBytes:
		b := make([]byte, t.Size)
		copy(b, word[:t.Size])
		return Value{typ: t, bs: b}, nil
	case KindArray:
		types := make([]*Type, t.Length)
		for i := range types {
			types[i] = t.Elem
		}
		elems, _, err := decodeFrame(types, word, selectAll)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, elems: elems}, nil
	case KindTuple:
		elems, _, err := decodeFrame(t.Elems, word, selectAll)
		if err != nil {
			return Value{}, err
		}
		return Value{typ: t, elems: elems}, nil
	default:
		return Value{}, newErr(InvalidValue, "cannot decode static type kind for %s", t.Canonical)
	}
}

// decodeBool mirrors the teacher's readBool: every byte but the last must
// be zero, and the last must be exactly 0x00 or 0x01.
func decodeBool(word []byte) (bool, error) {
	for _, b := range word[:unit-1] {
		if b != 0 {
			return false, newErr(InvalidEncoding, "malformed bool word")
		}
	}
	switch word[unit-1] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newErr(InvalidEncoding, "malformed bool word")
	}
}

// decodeInt undoes unsignedWord: the wire word is always the full 256-bit
// two's-complement rendering, so a signed type must first be reinterpreted
// at 256 bits before its value is range-checked against its own declared
// width (spec.md §4.4/§4.1).
func decodeInt(t *Type, word []byte) (Value, error) {
	raw := new(big.Int).SetBytes(word)
	v := raw
	if t.Signed {
		signed, err := NewUint(256).ToSigned(raw)
		if err != nil {
			return Value{}, err // unreachable: raw is always < 2^256
		}
		v = signed
	}
	if err := checkIntRange(t, v); err != nil {
		return Value{}, err
	}
	return Value{typ: t, i: v}, nil
}

// decodeDynamic reads a dynamic type's tail, starting at buf[0], and
// returns the number of bytes of buf it occupies (so the caller can
// advance its cursor and track the overall high-water mark).
func decodeDynamic(t *Type, buf []byte) (Value, int, error) {
	switch t.Kind {
	case KindString, KindBytes:
		payload, consumed, err := decodeBytesLike(buf)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{typ: t, bs: payload}, consumed, nil
	case KindArray:
		return decodeDynamicArray(t, buf)
	case KindTuple:
		elems, consumed, err := decodeFrame(t.Elems, buf, selectAll)
		if err != nil {
			return Value{}, 0, err
		}
		return Value{typ: t, elems: elems}, consumed, nil
	default:
		return Value{}, 0, newErr(InvalidValue, "cannot decode dynamic type kind for %s", t.Canonical)
	}
}

// decodeBytesLike reads a dynamic bytes/string payload: a 32-byte length
// word followed by the payload, zero-padded to the next unit boundary.
func decodeBytesLike(buf []byte) ([]byte, int, error) {
	if len(buf) < unit {
		return nil, 0, newErr(InvalidEncoding, "buffer underflow reading length word")
	}
	length, err := readLength(buf[:unit])
	if err != nil {
		return nil, 0, err
	}
	total := unit + ceilUnit(length)
	if total > len(buf) {
		return nil, 0, newErr(InvalidEncoding, "buffer underflow: need %d bytes, have %d", total, len(buf))
	}
	payload := make([]byte, length)
	copy(payload, buf[unit:unit+length])
	return payload, total, nil
}

// decodeDynamicArray reads an array whose dynamic-ness comes either from
// an unknown length (a leading length word, per T[]) or from dynamic
// elements at a fixed length (no length word, just the element head/tail
// run) — mirroring the asymmetric choice appendArray makes on the encode
// side.
func decodeDynamicArray(t *Type, buf []byte) (Value, int, error) {
	headerLen := 0
	n := t.Length
	if t.Length == DynamicLength {
		if len(buf) < unit {
			return Value{}, 0, newErr(InvalidEncoding, "buffer underflow reading array length word")
		}
		length, err := readLength(buf[:unit])
		if err != nil {
			return Value{}, 0, err
		}
		n = length
		headerLen = unit
	}
	types := make([]*Type, n)
	for i := range types {
		types[i] = t.Elem
	}
	elems, consumed, err := decodeFrame(types, buf[headerLen:], selectAll)
	if err != nil {
		return Value{}, 0, withPath("array", err)
	}
	return Value{typ: t, elems: elems}, headerLen + consumed, nil
}
