package syntax

import (
	"unicode"
)

// class shorthands; the upper case form is the negation
var classEscapes = map[rune]ClassMask{
	'd': ClassDigit,
	'w': ClassWord,
	's': ClassSpace,
	'h': ClassHorizontal,
	'v': ClassVertical,
}

// classEscape returns the class for a shorthand such as \d or \W.
func classEscape(ch rune) (m ClassMask, negated, ok bool) {
	if m, ok := classEscapes[ch]; ok {
		return m, false, true
	}
	if m, ok := classEscapes[unicode.ToLower(ch)]; ok && unicode.IsUpper(ch) {
		return m, true, true
	}
	return 0, false, false
}

// scanClassEscape reads \d, \W and friends outside a bracket expression
// as a set; the backslash has been consumed.
func (p *parser) scanClassEscape() (*CharSet, bool) {
	m, negated, ok := classEscape(p.rightChar(0))
	if !ok {
		return nil, false
	}
	p.moveRight(1)
	set := NewCharSet()
	set.AddClass(m)
	if negated {
		set.Negate()
	}
	return set, true
}

// scanCharSet reads a bracket expression; the '[' has been consumed.
func (p *parser) scanCharSet() (*CharSet, error) {
	set := NewCharSet()
	if p.charsRight() > 0 && p.rightChar(0) == '^' {
		p.moveRight(1)
		set.Negate()
	}

	first := true
	for {
		if p.charsRight() == 0 {
			return nil, p.getErr(ErrMissingBracket)
		}
		if p.rightChar(0) == ']' && !first {
			p.moveRight(1)
			return set, nil
		}
		first = false

		lo, isChar, err := p.scanSetElement(set)
		if err != nil {
			return nil, err
		}
		if !isChar {
			continue
		}

		if p.charsRight() >= 2 && p.rightChar(0) == '-' && p.rightChar(1) != ']' {
			p.moveRight(1)
			hi, hiIsChar, err := p.scanSetElement(set)
			if err != nil {
				return nil, err
			}
			if !hiIsChar {
				// [a-\d] is a, '-' and the class
				set.AddSingle(lo)
				set.AddSingle(Single('-'))
				continue
			}
			set.AddRange(lo, hi)
			continue
		}
		set.AddSingle(lo)
	}
}

// scanSetElement reads one member of a bracket expression. Classes and
// equivalences are added to set directly and isChar is false; a
// character or collating element is returned for the caller to add.
func (p *parser) scanSetElement(set *CharSet) (d Digraph, isChar bool, err error) {
	ch := p.rightCharMoveRight()

	switch {
	case ch == '[' && p.charsRight() > 0 && (p.rightChar(0) == ':' || p.rightChar(0) == '=' || p.rightChar(0) == '.'):
		kind := p.rightCharMoveRight()
		start := p.pos
		for p.charsRight() >= 2 && !(p.rightChar(0) == kind && p.rightChar(1) == ']') {
			p.moveRight(1)
		}
		if p.charsRight() < 2 {
			return d, false, p.getErr(ErrMissingBracket)
		}
		body := p.pattern[start:p.pos]
		p.moveRight(2)

		switch kind {
		case ':':
			negated := len(body) > 0 && body[0] == '^'
			if negated {
				body = body[1:]
			}
			m := p.c.Traits().LookupClassname(string(body))
			if m == 0 {
				return d, false, p.getErr(ErrUnknownClass, string(body))
			}
			if negated {
				set.AddNegatedClass(m)
			} else {
				set.AddClass(m)
			}
			return d, false, nil
		case '=':
			e, ok := digraphOf(body)
			if !ok {
				return d, false, p.getErr(ErrUnknownClass, "[="+string(body)+"=]")
			}
			set.AddEquivalent(e)
			return d, false, nil
		default:
			e, ok := digraphOf(body)
			if !ok {
				return d, false, p.getErr(ErrUnknownClass, "[."+string(body)+".]")
			}
			return e, true, nil
		}

	case ch == '\\':
		if p.charsRight() == 0 {
			return d, false, p.getErr(ErrIllegalEndEscape)
		}
		if m, negated, ok := classEscape(p.rightChar(0)); ok {
			p.moveRight(1)
			if negated {
				set.AddNegatedClass(m)
			} else {
				set.AddClass(m)
			}
			return d, false, nil
		}
		if p.rightChar(0) == 'b' {
			p.moveRight(1)
			return Single('\b'), true, nil
		}
		r, err := p.scanCharEscape()
		if err != nil {
			return d, false, err
		}
		return Single(r), true, nil
	}

	return Single(ch), true, nil
}

// digraphOf converts the text of a [.x.] or [=x=] element.
func digraphOf(body []rune) (Digraph, bool) {
	switch len(body) {
	case 1:
		return Single(body[0]), true
	case 2:
		return Digraph{First: body[0], Second: body[1]}, true
	}
	return Digraph{}, false
}
