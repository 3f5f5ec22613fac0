package headlong

// ParseSignature parses a bare canonical signature such as
// "transfer(address,uint256)" into its name and input tuple type,
// reusing the same recursive-descent grammar ParseType already
// implements for the tuple portion — unlike the teacher's
// selector_parser.go, which hand-rolls its own mini type grammar
// (parseElementaryType/parseCompositeType) separately from type.go's
// NewType, this package has one grammar for both entry points.
func ParseSignature(s string) (name string, inputs *Type, err error) {
	p := &typeParser{src: s}
	nameEnd := p.pos
	for nameEnd < len(s) && (isAlpha(s[nameEnd]) || isDigit(s[nameEnd]) || s[nameEnd] == '_' || s[nameEnd] == '$') {
		nameEnd++
	}
	if nameEnd == p.pos {
		return "", nil, newErr(ParseError, "expected a name at offset %d", p.pos)
	}
	name = s[p.pos:nameEnd]
	if isDigit(name[0]) {
		return "", nil, newErr(ParseError, "name must not start with a digit at offset %d", p.pos)
	}
	p.pos = nameEnd

	if p.pos >= len(p.src) || p.src[p.pos] != '(' {
		return "", nil, newErr(ParseError, "expected '(' at offset %d", p.pos)
	}
	tupleType, err := p.parseTuple(0)
	if err != nil {
		return "", nil, err
	}
	if p.pos != len(p.src) {
		return "", nil, newErr(ParseError, "unexpected trailing input %q at offset %d", p.src[p.pos:], p.pos)
	}
	return name, tupleType, nil
}
