// Package rlpvalue parses a terse literal notation into headlong.Value
// trees, for building test fixtures without hand-assembling Type and Value
// constructors for every nested field. It is not a codec: nothing here reads
// or writes the wire encoding, and the name marks that deliberately, the way
// the teacher's own rlp package is kept separate from accounts/abi.
//
// Grammar:
//
//	expr    := scalar | tuple
//	scalar  := type ":" literal
//	tuple   := "(" [ expr ("," expr)* ] ")"
//	literal := bool-lit | int-lit | hex-lit | string-lit | array-lit | "(" literal ("," literal)* ")"
//
// A scalar's type is any string headlong.ParseType accepts ("uint256",
// "bytes32", "address", "bool", "string", "bytes", "ufixed128x18",
// "uint256[3]", "uint256[]", "(uint256,bool)", ...). literal's shape depends
// on the scalar's Kind: "true"/"false" for bool, a decimal or 0x-hex integer
// for Int/BigDecimal/Address, a double-quoted 0x-hex string for FixedBytes
// and Bytes, a double-quoted string for String, and "[e1,e2,...]" for Array,
// where each ei is itself a literal for the array's element type.
//
// Examples: `uint256:5`, `bytes:"0xab"`, `address:0x52908400098527886E0F7030069857D2E4169EE7`,
// `(uint256:5,bool:true)`, `uint256[]:[1,2,3]`.
package rlpvalue

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/devictr/headlong"
)

// Parse parses a single top-level expression into a Value.
func Parse(s string) (headlong.Value, error) {
	p := &parser{src: s}
	v, err := p.parseExpr()
	if err != nil {
		return headlong.Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return headlong.Value{}, fmt.Errorf("rlpvalue: unexpected trailing input %q at offset %d", p.src[p.pos:], p.pos)
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n') {
		p.pos++
	}
}

func (p *parser) parseExpr() (headlong.Value, error) {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == '(' {
		// A leading '(' is ambiguous: it starts either a bare tuple
		// expression ("(uint256:5,bool:true)", type inferred from its
		// children) or a parenthesized tuple *type* heading a scalar
		// expression ("(uint256,bool)[]:[...]"). Disambiguate by looking
		// past the balanced group (and any array suffixes immediately
		// following it) for a top-level ':'.
		if p.looksLikeTypedScalar() {
			return p.parseScalarExpr()
		}
		return p.parseTupleExpr()
	}
	return p.parseScalarExpr()
}

// looksLikeTypedScalar reports whether the balanced "(...)" group starting
// at p.pos, plus any array-suffix brackets immediately following it, is
// itself followed by ':' — i.e. whether it is a type descriptor rather than
// a bare tuple expression.
func (p *parser) looksLikeTypedScalar() bool {
	i := p.pos
	depth := 0
	for {
		if i >= len(p.src) {
			return false
		}
		c := p.src[i]
		if c == '(' || c == '[' {
			depth++
		} else if c == ')' || c == ']' {
			depth--
			if depth < 0 {
				return false
			}
		}
		i++
		if depth == 0 {
			break
		}
	}
	for i < len(p.src) && p.src[i] == '[' {
		d := 0
		for i < len(p.src) {
			c := p.src[i]
			if c == '[' {
				d++
			} else if c == ']' {
				d--
			}
			i++
			if d == 0 {
				break
			}
		}
	}
	return i < len(p.src) && p.src[i] == ':'
}

// parseTupleExpr parses "(" expr ("," expr)* ")" into a tuple Value whose
// type is synthesized from its children's own types, one NewTuple field per
// child, field names left blank.
func (p *parser) parseTupleExpr() (headlong.Value, error) {
	p.pos++ // consume '('
	var fields []*headlong.Type
	var values []headlong.Value
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ')' {
		p.pos++
		t := headlong.NewTuple()
		return headlong.TupleValue(t, nil)
	}
	for {
		v, err := p.parseExpr()
		if err != nil {
			return headlong.Value{}, err
		}
		fields = append(fields, v.Type())
		values = append(values, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return headlong.Value{}, fmt.Errorf("rlpvalue: unterminated tuple at offset %d", p.pos)
		}
		if p.src[p.pos] == ',' {
			p.pos++
			continue
		}
		if p.src[p.pos] == ')' {
			p.pos++
			break
		}
		return headlong.Value{}, fmt.Errorf("rlpvalue: expected ',' or ')' at offset %d", p.pos)
	}
	t := headlong.NewTuple(fields...)
	return headlong.TupleValue(t, values)
}

// parseScalarExpr parses "type:literal", where type runs up to the first
// unbalanced ':' (types may themselves contain parentheses and brackets, so
// we track nesting depth rather than splitting on the first colon blindly).
func (p *parser) parseScalarExpr() (headlong.Value, error) {
	start := p.pos
	depth := 0
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ':':
			if depth == 0 {
				goto found
			}
		case ',':
			if depth == 0 {
				return headlong.Value{}, fmt.Errorf("rlpvalue: expected ':' before offset %d", p.pos)
			}
		}
		p.pos++
	}
found:
	if p.pos >= len(p.src) {
		return headlong.Value{}, fmt.Errorf("rlpvalue: expected ':' at offset %d", p.pos)
	}
	typeStr := strings.TrimSpace(p.src[start:p.pos])
	p.pos++ // consume ':'
	t, err := headlong.ParseType(typeStr)
	if err != nil {
		return headlong.Value{}, fmt.Errorf("rlpvalue: %w", err)
	}
	return p.parseLiteral(t)
}

// parseLiteral parses the literal representation of a value of known type t,
// used both for top-level scalars (after "type:") and for array elements
// (which share their declared element type and so never repeat it).
func (p *parser) parseLiteral(t *headlong.Type) (headlong.Value, error) {
	p.skipSpace()
	switch t.Kind {
	case headlong.KindBool:
		return p.parseBoolLiteral()
	case headlong.KindInt:
		n, err := p.parseIntLiteral()
		if err != nil {
			return headlong.Value{}, err
		}
		return headlong.IntValue(t, n)
	case headlong.KindBigDecimal:
		n, err := p.parseIntLiteral()
		if err != nil {
			return headlong.Value{}, err
		}
		return headlong.BigDecimalValue(t, n, t.Scale)
	case headlong.KindAddress:
		n, err := p.parseIntLiteral()
		if err != nil {
			return headlong.Value{}, err
		}
		return headlong.AddressValue(n)
	case headlong.KindFixedBytes:
		b, err := p.parseHexStringLiteral()
		if err != nil {
			return headlong.Value{}, err
		}
		return headlong.FixedBytesValue(t, b)
	case headlong.KindBytes:
		b, err := p.parseHexStringLiteral()
		if err != nil {
			return headlong.Value{}, err
		}
		return headlong.BytesValue(b), nil
	case headlong.KindString:
		s, err := p.parseStringLiteral()
		if err != nil {
			return headlong.Value{}, err
		}
		return headlong.StringValue(s), nil
	case headlong.KindArray:
		return p.parseArrayLiteral(t)
	case headlong.KindTuple:
		return p.parseTupleLiteral(t)
	default:
		return headlong.Value{}, fmt.Errorf("rlpvalue: unsupported literal kind for %s", t.Canonical)
	}
}

func (p *parser) parseBoolLiteral() (headlong.Value, error) {
	if strings.HasPrefix(p.src[p.pos:], "true") {
		p.pos += 4
		return headlong.BoolValue(true), nil
	}
	if strings.HasPrefix(p.src[p.pos:], "false") {
		p.pos += 5
		return headlong.BoolValue(false), nil
	}
	return headlong.Value{}, fmt.Errorf("rlpvalue: expected bool literal at offset %d", p.pos)
}

func (p *parser) parseIntLiteral() (*big.Int, error) {
	start := p.pos
	if p.pos < len(p.src) && (p.src[p.pos] == '-' || p.src[p.pos] == '+') {
		p.pos++
	}
	hex := false
	if strings.HasPrefix(p.src[p.pos:], "0x") || strings.HasPrefix(p.src[p.pos:], "0X") {
		hex = true
		p.pos += 2
	}
	digitsStart := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		isHexDigit := hex && ((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F'))
		isDecDigit := !hex && c >= '0' && c <= '9'
		if !isHexDigit && !isDecDigit {
			break
		}
		p.pos++
	}
	if p.pos == digitsStart {
		return nil, fmt.Errorf("rlpvalue: expected integer literal at offset %d", start)
	}
	base := 10
	if hex {
		base = 0 // picks up the 0x prefix
	}
	n, ok := new(big.Int).SetString(p.src[start:p.pos], base)
	if !ok {
		return nil, fmt.Errorf("rlpvalue: malformed integer literal %q at offset %d", p.src[start:p.pos], start)
	}
	return n, nil
}

// parseHexStringLiteral parses a double-quoted "0x..." literal into its raw
// bytes, used for FixedBytes and Bytes values.
func (p *parser) parseHexStringLiteral() ([]byte, error) {
	s, err := p.parseStringLiteral()
	if err != nil {
		return nil, err
	}
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("rlpvalue: hex literal has odd length")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		b, err := strconv.ParseUint(s[2*i:2*i+2], 16, 8)
		if err != nil {
			return nil, fmt.Errorf("rlpvalue: invalid hex digit in %q: %w", s, err)
		}
		out[i] = byte(b)
	}
	return out, nil
}

// parseStringLiteral parses a double-quoted string, with backslash-escaped
// quotes and backslashes only (no unicode escapes — test fixtures don't
// need them).
func (p *parser) parseStringLiteral() (string, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '"' {
		return "", fmt.Errorf("rlpvalue: expected '\"' at offset %d", p.pos)
	}
	p.pos++
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '"' {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			c = p.src[p.pos]
		}
		b.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("rlpvalue: unterminated string literal")
}

// parseArrayLiteral parses "[e1,e2,...]" against a known array type t,
// checking a static t.Length against the element count it finds.
func (p *parser) parseArrayLiteral(t *headlong.Type) (headlong.Value, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '[' {
		return headlong.Value{}, fmt.Errorf("rlpvalue: expected '[' at offset %d", p.pos)
	}
	p.pos++
	var elems []headlong.Value
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == ']' {
		p.pos++
		return headlong.ArrayValue(t, nil)
	}
	for {
		v, err := p.parseLiteral(t.Elem)
		if err != nil {
			return headlong.Value{}, err
		}
		elems = append(elems, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return headlong.Value{}, fmt.Errorf("rlpvalue: unterminated array literal")
		}
		if p.src[p.pos] == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		if p.src[p.pos] == ']' {
			p.pos++
			break
		}
		return headlong.Value{}, fmt.Errorf("rlpvalue: expected ',' or ']' at offset %d", p.pos)
	}
	return headlong.ArrayValue(t, elems)
}

// parseTupleLiteral parses "(l1,l2,...)" against a known tuple type t, one
// literal per field in t.Elems, used for array-of-tuple elements where the
// field types are already fixed by t and needn't be restated.
func (p *parser) parseTupleLiteral(t *headlong.Type) (headlong.Value, error) {
	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return headlong.Value{}, fmt.Errorf("rlpvalue: expected '(' at offset %d", p.pos)
	}
	p.pos++
	values := make([]headlong.Value, 0, t.Arity())
	p.skipSpace()
	for i := 0; ; i++ {
		if p.pos < len(p.src) && p.src[p.pos] == ')' && i == 0 && t.Arity() == 0 {
			p.pos++
			break
		}
		if i >= t.Arity() {
			return headlong.Value{}, fmt.Errorf("rlpvalue: tuple literal has more fields than %s", t.Canonical)
		}
		v, err := p.parseLiteral(t.Elems[i])
		if err != nil {
			return headlong.Value{}, err
		}
		values = append(values, v)
		p.skipSpace()
		if p.pos >= len(p.src) {
			return headlong.Value{}, fmt.Errorf("rlpvalue: unterminated tuple literal")
		}
		if p.src[p.pos] == ',' {
			p.pos++
			p.skipSpace()
			continue
		}
		if p.src[p.pos] == ')' {
			p.pos++
			break
		}
		return headlong.Value{}, fmt.Errorf("rlpvalue: expected ',' or ')' at offset %d", p.pos)
	}
	return headlong.TupleValue(t, values)
}
