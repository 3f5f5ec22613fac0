package headlong

import (
	"github.com/devictr/headlong/internal/keccak"
)

// Variant tags which of Solidity's four callable shapes a Function
// describes (spec.md §4.7): an ordinary named function, the constructor,
// the fallback, or the v0.6.0 receive function. The teacher instead
// distinguishes these by zero-valuing three separate ABI.Constructor /
// ABI.Fallback / ABI.Receive fields alongside the Methods map; a single
// tagged field is the more direct fit for the sum-type style the rest of
// this package already uses for Type and Value.
type Variant byte

const (
	Ordinary Variant = iota
	Constructor
	Fallback
	Receive
)

func (v Variant) String() string {
	switch v {
	case Ordinary:
		return "ordinary"
	case Constructor:
		return "constructor"
	case Fallback:
		return "fallback"
	case Receive:
		return "receive"
	default:
		return "unknown"
	}
}

// Function bundles a callable's schema and its derived 4-byte selector,
// the role the teacher's Method plays, minus the reflective Go-type
// binding machinery Method also carries.
type Function struct {
	Variant         Variant
	Name            string
	Inputs          *Type // tuple
	Outputs         *Type // tuple
	StateMutability string
	selector        [4]byte
}

// NewFunction validates and builds a Function, deriving its selector from
// the canonical signature (spec.md §4.7). inputs and outputs must be
// tuple types, e.g. the result of NewTuple or ParseType("(...)").
func NewFunction(variant Variant, name string, inputs, outputs *Type, stateMutability string) (*Function, error) {
	if inputs == nil || inputs.Kind != KindTuple {
		return nil, newErr(InvalidValue, "Function inputs must be a tuple type")
	}
	if outputs == nil {
		outputs = NewTuple()
	}
	if outputs.Kind != KindTuple {
		return nil, newErr(InvalidValue, "Function outputs must be a tuple type")
	}
	switch variant {
	case Constructor, Fallback, Receive:
		if outputs.Arity() != 0 {
			return nil, newErr(InvalidValue, "%s must declare no outputs", variant)
		}
		if name != "" {
			return nil, newErr(InvalidValue, "%s must not carry a name", variant)
		}
	case Ordinary:
		if name == "" {
			return nil, newErr(InvalidValue, "ordinary function must carry a name")
		}
	default:
		return nil, newErr(InvalidValue, "unknown function variant %d", variant)
	}
	if variant == Receive {
		if inputs.Arity() != 0 {
			return nil, newErr(InvalidValue, "receive must declare no inputs")
		}
		if stateMutability != "payable" {
			return nil, newErr(InvalidValue, "receive must be payable")
		}
	}
	if name != "" {
		if err := validateName(name); err != nil {
			return nil, err
		}
	}
	f := &Function{
		Variant:         variant,
		Name:            name,
		Inputs:          inputs,
		Outputs:         outputs,
		StateMutability: stateMutability,
	}
	sig := f.Signature()
	digest := keccak.Sum256([]byte(sig))
	copy(f.selector[:], digest[:4])
	return f, nil
}

// validateName enforces spec.md §4.7's name charset: ASCII printable in
// [0x20, 0x7E], excluding '(' (which would otherwise collide with the
// start of the canonical signature's argument list).
func validateName(name string) error {
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c < 0x20 || c > 0x7e || c == '(' {
			return newErr(InvalidValue, "name %q contains an illegal character at offset %d", name, i)
		}
	}
	return nil
}

// Signature returns the canonical signature string the selector is
// derived from: name + inputs.canonicalType.
func (f *Function) Signature() string {
	return f.Name + f.Inputs.Canonical
}

// Selector returns the function's 4-byte selector.
func (f *Function) Selector() [4]byte { return f.selector }

// EncodeCall renders a full call: the selector followed by the standard
// tuple encoding of values against Inputs.
func (f *Function) EncodeCall(values []Value) ([]byte, error) {
	v, err := TupleValue(f.Inputs, values)
	if err != nil {
		return nil, err
	}
	encoded, err := Encode(f.Inputs, v)
	if err != nil {
		return nil, err
	}
	return append(f.selector[:], encoded...), nil
}

// DecodeCall strips and checks data's 4-byte selector against f, then
// decodes the remainder against Inputs.
func (f *Function) DecodeCall(data []byte) ([]Value, error) {
	if len(data) < 4 {
		return nil, newErr(InvalidEncoding, "call data shorter than a selector")
	}
	if [4]byte(data[:4]) != f.selector {
		return nil, newErr(InvalidValue, "call data selector does not match function %s", f.Signature())
	}
	return DecodeTuple(f.Inputs, data[4:])
}
