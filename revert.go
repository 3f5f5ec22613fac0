package headlong

import (
	"fmt"
	"math/big"

	"github.com/devictr/headlong/internal/keccak"
)

// revertSelector and panicSelector are the fixed selectors Solidity uses
// to encode a plain revert reason string or a builtin panic code,
// mirroring the teacher's abi.go package-level vars of the same name.
var (
	revertSelector = func() [4]byte {
		d := keccak.Sum256([]byte("Error(string)"))
		var s [4]byte
		copy(s[:], d[:4])
		return s
	}()
	panicSelector = func() [4]byte {
		d := keccak.Sum256([]byte("Panic(uint256)"))
		var s [4]byte
		copy(s[:], d[:4])
		return s
	}()
)

// panicReasons maps Solidity's builtin panic codes to a human-readable
// description. Copied from the set documented at
// https://docs.soliditylang.org/en/latest/control-structures.html#panic-via-assert-and-error-via-require
var panicReasons = map[uint64]string{
	0x00: "generic panic",
	0x01: "assert(false)",
	0x11: "arithmetic underflow or overflow",
	0x12: "division or modulo by zero",
	0x21: "enum overflow",
	0x22: "invalid encoded storage byte array accessed",
	0x31: "out-of-bounds array access; popping on an empty array",
	0x32: "out-of-bounds access of an array or bytesN",
	0x41: "out of memory",
	0x51: "uninitialized function",
}

// DecodeRevert resolves an ABI-encoded revert reason: Solidity encodes a
// plain `revert("reason")` as a call to Error(string), and a builtin
// panic as a call to Panic(uint256).
func DecodeRevert(data []byte) (string, error) {
	if len(data) < 4 {
		return "", newErr(InvalidEncoding, "revert data shorter than a selector")
	}
	var selector [4]byte
	copy(selector[:], data[:4])
	switch selector {
	case revertSelector:
		stringType, _ := ParseType("string")
		values, err := DecodeTuple(NewTuple(stringType), data[4:])
		if err != nil {
			return "", err
		}
		return values[0].String(), nil
	case panicSelector:
		intType, _ := ParseType("uint256")
		values, err := DecodeTuple(NewTuple(intType), data[4:])
		if err != nil {
			return "", err
		}
		code := values[0].Int()
		if code.IsUint64() {
			if reason, ok := panicReasons[code.Uint64()]; ok {
				return reason, nil
			}
		}
		return fmt.Sprintf("unknown panic code: %s", codeHex(code)), nil
	default:
		return "", newErr(InvalidValue, "data does not match Error(string) or Panic(uint256)")
	}
}

func codeHex(v *big.Int) string {
	return "0x" + v.Text(16)
}
