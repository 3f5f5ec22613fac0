package headlong

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Uint implements the signed⇄unsigned two's-complement conversions for a
// declared bit-width, the way the teacher's packNum/ReadInteger pair
// converts between Go's native sized integers and the wire's 32-byte
// two's-complement word, generalized to arbitrary widths 1..256 per
// spec.md §4.1. Unlike the teacher (which dispatches on reflect.Kind over
// Go's fixed int8/16/32/64 and falls back to math/big past 64 bits), a
// Uint is parameterized purely by bit-width and has no notion of a Go
// native integer type backing it — every conversion here works over
// *big.Int; uint256.Int is used only by word256 to render the wire word.
type Uint struct {
	bits uint
}

// NewUint returns the bounds object for a declared bit-width. bits must be
// in [1, 256]; callers (the type parser) are expected to have already
// validated that invariant.
func NewUint(bits uint) Uint {
	return Uint{bits: bits}
}

// Bits returns the declared bit-width.
func (u Uint) Bits() uint { return u.bits }

func (u Uint) signedMax() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), u.bits-1), big.NewInt(1))
}

func (u Uint) signedMin() *big.Int {
	return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), u.bits-1))
}

func (u Uint) unsignedMax() *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), u.bits), big.NewInt(1))
}

// ToUnsigned reinterprets a signed value in two's complement as its
// unsigned equivalent: signed if non-negative, else signed + 2^bits.
// Returns InvalidRange if signed does not fit in u.bits signed bits.
func (u Uint) ToUnsigned(signed *big.Int) (*big.Int, error) {
	if signed.Cmp(u.signedMin()) < 0 || signed.Cmp(u.signedMax()) > 0 {
		return nil, newErr(InvalidRange, "value %s does not fit in signed %d-bit range", signed, u.bits)
	}
	if signed.Sign() >= 0 {
		return new(big.Int).Set(signed), nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), u.bits)
	return new(big.Int).Add(signed, mod), nil
}

// ToSigned reinterprets an unsigned value as signed two's complement:
// unsigned if it is below 2^(bits-1), else unsigned - 2^bits. Returns
// InvalidRange if unsigned is negative or does not fit in u.bits.
func (u Uint) ToSigned(unsigned *big.Int) (*big.Int, error) {
	if unsigned.Sign() < 0 || unsigned.Cmp(u.unsignedMax()) > 0 {
		return nil, newErr(InvalidRange, "value %s does not fit in unsigned %d-bit range", unsigned, u.bits)
	}
	half := new(big.Int).Lsh(big.NewInt(1), u.bits-1)
	if unsigned.Cmp(half) < 0 {
		return new(big.Int).Set(unsigned), nil
	}
	mod := new(big.Int).Lsh(big.NewInt(1), u.bits)
	return new(big.Int).Sub(unsigned, mod), nil
}

// ToUnsignedLong is the int64 overload of ToUnsigned, for widths that are
// known to fit in a machine word at the call site.
func (u Uint) ToUnsignedLong(signed int64) (*big.Int, error) {
	return u.ToUnsigned(big.NewInt(signed))
}

// ToSignedLong is the int64 overload of ToSigned. It fails with
// InvalidRange if the resulting signed value does not itself fit in an
// int64 (possible for bits > 64).
func (u Uint) ToSignedLong(unsigned uint64) (int64, error) {
	v, err := u.ToSigned(new(big.Int).SetUint64(unsigned))
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, newErr(InvalidRange, "signed value %s does not fit in an int64", v)
	}
	return v.Int64(), nil
}

// word256 renders v (already range-checked and reinterpreted unsigned) as
// the 32-byte big-endian wire word. Values up to 256 bits are routed
// through uint256.Int, which stores its 4 uint64 limbs inline and avoids
// the allocation math/big's Bytes() would otherwise incur for every single
// packed integer — the same performance motivation that pushed go-ethereum
// itself to adopt holiman/uint256 at its hot paths.
func word256(v *big.Int) []byte {
	u, overflow := uint256.FromBig(v)
	if overflow {
		// Unreachable for values produced by ToUnsigned/ToSigned of a
		// type with bits <= 256, kept as a defensive total conversion.
		var out [32]byte
		b := v.Bytes()
		copy(out[32-len(b):], b)
		return out[:]
	}
	out := u.Bytes32()
	return out[:]
}
