// Package headlong implements the Ethereum Contract ABI type system: type
// descriptors, a validated value model, the standard head/tail encoder and
// decoder, the packed (non-standard, ambiguous) encoder and decoder, the
// EIP-55 checksummed address codec, and function/event/error schemas with
// their derived selectors.
//
// Types are parsed from their canonical descriptor string (ParseType).
// Primitive types are interned, so two calls for the same primitive
// descriptor return the same *Type; array and tuple types are built fresh on
// every call and are compared with Type.Equal. Values are constructed through
// the Value family of constructors. The scalar constructors check their value
// against the Type up front; ArrayValue and TupleValue check only the length
// or arity, not the element values, which Validate (run first by Encode and
// EncodePacked) checks for the whole tree.
//
// Encode and Decode implement the standard ABI encoding described in the
// Solidity documentation: fixed-size head words followed by variable-size
// tail data, addressed by 32-byte offsets. EncodePacked and DecodePacked
// implement Solidity's abi.encodePacked, which is dense but ambiguous when
// more than one dynamic value appears without a length prefix; decoding
// such an encoding returns an error rather than a guess.
package headlong
