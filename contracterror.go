package headlong

import (
	"github.com/devictr/headlong/internal/keccak"
)

// ContractError bundles a custom Solidity error's schema and selector,
// derived identically to a Function (spec.md §4.7).
type ContractError struct {
	Name     string
	Inputs   *Type // tuple
	selector [4]byte
}

// NewContractError validates and builds a ContractError.
func NewContractError(name string, inputs *Type) (*ContractError, error) {
	if inputs == nil || inputs.Kind != KindTuple {
		return nil, newErr(InvalidValue, "ContractError inputs must be a tuple type")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	e := &ContractError{Name: name, Inputs: inputs}
	sig := e.Signature()
	digest := keccak.Sum256([]byte(sig))
	copy(e.selector[:], digest[:4])
	return e, nil
}

// Signature returns the canonical signature the selector is derived from.
func (e *ContractError) Signature() string { return e.Name + e.Inputs.Canonical }

// Selector returns the error's 4-byte selector.
func (e *ContractError) Selector() [4]byte { return e.selector }

// EncodeError renders the full revert payload: selector followed by the
// standard tuple encoding of values against Inputs.
func (e *ContractError) EncodeError(values []Value) ([]byte, error) {
	v, err := TupleValue(e.Inputs, values)
	if err != nil {
		return nil, err
	}
	encoded, err := Encode(e.Inputs, v)
	if err != nil {
		return nil, err
	}
	return append(e.selector[:], encoded...), nil
}

// DecodeError strips and checks data's 4-byte selector against e, then
// decodes the remainder against Inputs.
func (e *ContractError) DecodeError(data []byte) ([]Value, error) {
	if len(data) < 4 {
		return nil, newErr(InvalidEncoding, "error data shorter than a selector")
	}
	if [4]byte(data[:4]) != e.selector {
		return nil, newErr(InvalidValue, "error data selector does not match %s", e.Signature())
	}
	return DecodeTuple(e.Inputs, data[4:])
}
