package headlong

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Fragment is the already-parsed form of one top-level entry in a
// Solidity ABI JSON array (spec.md §6): the JSON front-end itself —
// recognizing which array element means what — is explicitly a boundary
// concern this package owns (spec.md lists "round-tripping JSON ABI
// fragments" as a capability even though general JSON ABI parsing is
// not), grounded on the teacher's abi.go#UnmarshalJSON type switch and
// argument.go#UnmarshalJSON's per-argument Components handling.
type Fragment struct {
	Function *Function
	Event    *Event
	Error    *ContractError
}

// jsonArgument mirrors one entry of a "inputs"/"outputs"/"components"
// array in the Solidity ABI JSON dialect, the shape the teacher calls
// ArgumentMarshaling.
type jsonArgument struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	Components []jsonArgument `json:"components,omitempty"`
	Indexed    bool           `json:"indexed,omitempty"`
}

type jsonFragment struct {
	Type            string         `json:"type"`
	Name            string         `json:"name"`
	Inputs          []jsonArgument `json:"inputs,omitempty"`
	Outputs         []jsonArgument `json:"outputs,omitempty"`
	StateMutability string         `json:"stateMutability,omitempty"`
	Anonymous       bool           `json:"anonymous,omitempty"`
}

// UnmarshalJSON builds the appropriate schema object for a single
// top-level ABI JSON fragment, per the type switch in spec.md §6.
func (f *Fragment) UnmarshalJSON(data []byte) error {
	var raw jsonFragment
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	inputs, err := tupleFromJSON(raw.Inputs)
	if err != nil {
		return err
	}
	switch raw.Type {
	case "constructor":
		fn, err := NewFunction(Constructor, "", inputs, nil, raw.StateMutability)
		if err != nil {
			return err
		}
		f.Function = fn
	case "fallback":
		fn, err := NewFunction(Fallback, "", inputs, nil, raw.StateMutability)
		if err != nil {
			return err
		}
		f.Function = fn
	case "receive":
		fn, err := NewFunction(Receive, "", inputs, nil, raw.StateMutability)
		if err != nil {
			return err
		}
		f.Function = fn
	case "function":
		outputs, err := tupleFromJSON(raw.Outputs)
		if err != nil {
			return err
		}
		fn, err := NewFunction(Ordinary, raw.Name, inputs, outputs, raw.StateMutability)
		if err != nil {
			return err
		}
		f.Function = fn
	case "event":
		indexed := make([]bool, len(raw.Inputs))
		for i, in := range raw.Inputs {
			indexed[i] = in.Indexed
		}
		ev, err := NewEvent(raw.Name, inputs, indexed, raw.Anonymous)
		if err != nil {
			return err
		}
		f.Event = ev
	case "error":
		ce, err := NewContractError(raw.Name, inputs)
		if err != nil {
			return err
		}
		f.Error = ce
	default:
		return newErr(InvalidValue, "unrecognized ABI fragment type %q", raw.Type)
	}
	return nil
}

// MarshalJSON renders f back to the same ABI JSON shape it was parsed
// from.
func (f *Fragment) MarshalJSON() ([]byte, error) {
	switch {
	case f.Function != nil:
		fn := f.Function
		raw := jsonFragment{
			Name:            fn.Name,
			Inputs:          tupleToJSON(fn.Inputs, nil),
			StateMutability: fn.StateMutability,
		}
		switch fn.Variant {
		case Constructor:
			raw.Type = "constructor"
		case Fallback:
			raw.Type = "fallback"
		case Receive:
			raw.Type = "receive"
		default:
			raw.Type = "function"
			raw.Outputs = tupleToJSON(fn.Outputs, nil)
		}
		return json.Marshal(raw)
	case f.Event != nil:
		ev := f.Event
		raw := jsonFragment{
			Type:      "event",
			Name:      ev.Name,
			Inputs:    tupleToJSON(ev.Inputs, ev.Indexed),
			Anonymous: ev.Anonymous,
		}
		return json.Marshal(raw)
	case f.Error != nil:
		ce := f.Error
		raw := jsonFragment{
			Type:   "error",
			Name:   ce.Name,
			Inputs: tupleToJSON(ce.Inputs, nil),
		}
		return json.Marshal(raw)
	default:
		return nil, newErr(InvalidValue, "empty fragment has nothing to marshal")
	}
}

func tupleFromJSON(args []jsonArgument) (*Type, error) {
	fields := make([]*Type, len(args))
	for i, arg := range args {
		t, err := typeFromJSON(arg)
		if err != nil {
			return nil, withPath(fmt.Sprintf("input %d", i), err)
		}
		fields[i] = t.WithName(arg.Name)
		args[i] = arg
	}
	return NewTuple(fields...), nil
}

// typeFromJSON recovers a *Type from one JSON argument entry. A
// "tuple"-prefixed type (optionally array-suffixed, e.g. "tuple[2][]")
// is built bottom-up from Components; anything else is a canonical
// descriptor ParseType already understands.
func typeFromJSON(arg jsonArgument) (*Type, error) {
	if !strings.HasPrefix(arg.Type, "tuple") {
		return ParseType(arg.Type)
	}
	suffix := arg.Type[len("tuple"):]
	fields := make([]*Type, len(arg.Components))
	for i, c := range arg.Components {
		t, err := typeFromJSON(c)
		if err != nil {
			return nil, withPath(fmt.Sprintf("component %d", i), err)
		}
		fields[i] = t.WithName(c.Name)
	}
	tupleType := NewTuple(fields...)
	if suffix == "" {
		return tupleType, nil
	}
	return wrapArraySuffix(tupleType, suffix)
}

// wrapArraySuffix wraps elem in the array layers suffix describes (e.g.
// "[2][]"), reusing parseArraySuffix's own bracket parsing rather than
// reparsing elem.Canonical+suffix through ParseType — reparsing would
// rebuild the tuple's field types from scratch and lose the field names
// WithName attached to them, since a canonical string like
// "(address,uint256)[]" carries no name information for ParseType to
// recover.
func wrapArraySuffix(elem *Type, suffix string) (*Type, error) {
	p := &typeParser{src: suffix}
	t := elem
	for p.pos < len(p.src) && p.src[p.pos] == '[' {
		var err error
		t, err = p.parseArraySuffix(t)
		if err != nil {
			return nil, err
		}
	}
	if p.pos != len(p.src) {
		return nil, newErr(ParseError, "unexpected trailing input %q in array suffix", p.src[p.pos:])
	}
	return t, nil
}

// tupleToJSON is typeFromJSON's inverse over a tuple type's direct
// fields. indexed, if non-nil, supplies each field's "indexed" flag
// (events only).
func tupleToJSON(tupleType *Type, indexed []bool) []jsonArgument {
	out := make([]jsonArgument, len(tupleType.Elems))
	for i, e := range tupleType.Elems {
		out[i] = typeToJSON(e)
		if indexed != nil {
			out[i].Indexed = indexed[i]
		}
	}
	return out
}

func typeToJSON(t *Type) jsonArgument {
	base := t
	suffix := ""
	for base.Kind == KindArray {
		if base.Length == DynamicLength {
			suffix = "[]" + suffix
		} else {
			suffix = fmt.Sprintf("[%d]", base.Length) + suffix
		}
		base = base.Elem
	}
	if base.Kind == KindTuple {
		comps := make([]jsonArgument, len(base.Elems))
		for i, e := range base.Elems {
			comps[i] = typeToJSON(e)
		}
		return jsonArgument{Name: t.Name(), Type: "tuple" + suffix, Components: comps}
	}
	return jsonArgument{Name: t.Name(), Type: t.Canonical}
}
