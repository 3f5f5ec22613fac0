package headlong

import (
	"github.com/devictr/headlong/internal/keccak"
)

// Event bundles an event's schema and derived topic hash (spec.md §4.7).
// Indexed parallels Inputs.Elems one-to-one, marking which fields are
// emitted as indexed topics rather than folded into the log data —
// the boolean-manifest equivalent of the teacher's per-Argument.Indexed
// field, lifted to the tuple level to match this package's sum-type Type.
type Event struct {
	Name      string
	Inputs    *Type // tuple
	Indexed   []bool
	Anonymous bool
	topic     [32]byte
}

// NewEvent validates and builds an Event, deriving its topic hash from
// the canonical signature of its full (indexed and non-indexed) inputs —
// indexed-ness is not part of the signature (spec.md §4.7).
func NewEvent(name string, inputs *Type, indexed []bool, anonymous bool) (*Event, error) {
	if inputs == nil || inputs.Kind != KindTuple {
		return nil, newErr(InvalidValue, "Event inputs must be a tuple type")
	}
	if len(indexed) != inputs.Arity() {
		return nil, newErr(InvalidValue, "indexed manifest length %d does not match arity %d", len(indexed), inputs.Arity())
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	e := &Event{
		Name:      name,
		Inputs:    inputs,
		Indexed:   append([]bool(nil), indexed...),
		Anonymous: anonymous,
	}
	if !anonymous {
		sig := name + inputs.Canonical
		e.topic = keccak.Sum256([]byte(sig))
	}
	return e, nil
}

// Topic returns the event's first LOG topic. It is the zero hash for an
// anonymous event, which never contributes a signature topic.
func (e *Event) Topic() [32]byte { return e.topic }

// GetIndexedParams projects Inputs down to its indexed fields, in
// declaration order.
func (e *Event) GetIndexedParams() []*Type {
	var out []*Type
	for i, ty := range e.Inputs.Elems {
		if e.Indexed[i] {
			out = append(out, ty)
		}
	}
	return out
}

// GetNonIndexedParams projects Inputs down to its non-indexed fields, in
// declaration order — these are the ones carried in the log data rather
// than as topics.
func (e *Event) GetNonIndexedParams() []*Type {
	var out []*Type
	for i, ty := range e.Inputs.Elems {
		if !e.Indexed[i] {
			out = append(out, ty)
		}
	}
	return out
}
