package syntax

import (
	"strconv"
)

// Compile parses pattern and builds its program with the given traits.
// A nil traits uses Default.
func Compile(pattern string, traits Traits, opt RegexOptions) (*Program, error) {
	c := NewCreator(traits, opt)
	c.SetExpression(pattern)

	p := parser{
		c:          c,
		pattern:    []rune(pattern),
		singleline: opt&Singleline != 0,
		atomPred:   NoOffset,
	}
	// failures are recorded on the creator and reported by Finalize
	_ = p.scanRegex()

	return c.Finalize(pattern)
}

type parser struct {
	c       *Creator
	pattern []rune
	pos     int

	singleline    bool
	hasCaseChange bool

	// node an alternation inserts its Alt after
	altPred Offset
	// Jump nodes ending alternatives not yet closed, innermost last
	altJumps []Offset

	// node preceding the last repeatable item
	atomPred Offset
	haveAtom bool
}

const maxRepeat = 1 << 20

func (p *parser) getErr(code ErrorCode, args ...interface{}) error {
	return p.c.Fail(code, string(p.pattern), args...)
}

func (p *parser) charsRight() int {
	return len(p.pattern) - p.pos
}

func (p *parser) rightChar(i int) rune {
	return p.pattern[p.pos+i]
}

func (p *parser) moveRight(i int) {
	p.pos += i
}

func (p *parser) rightCharMoveRight() rune {
	ch := p.pattern[p.pos]
	p.pos++
	return ch
}

// scanRegex emits the whole pattern between a group 0 startmark and
// endmark, which also give (?R) a target.
func (p *parser) scanRegex() error {
	c := p.c
	sm := c.AppendState(SyntaxStartmark)
	sm.Index = 0
	sm.ICase = c.ICase()
	p.altPred = c.LastOffset()

	if err := p.scanSequence(0); err != nil {
		return err
	}
	if p.charsRight() > 0 {
		return p.getErr(ErrUnexpectedParen)
	}
	p.unwindAlts(0)

	em := c.AppendState(SyntaxEndmark)
	em.Index = 0
	em.ICase = c.ICase()
	return nil
}

// scanSequence emits items until the end of the pattern or an
// unmatched ')'.
func (p *parser) scanSequence(depth int) error {
	c := p.c
	for p.charsRight() > 0 {
		ch := p.rightChar(0)
		switch ch {
		case ')':
			if depth == 0 {
				return p.getErr(ErrUnexpectedParen)
			}
			return nil

		case '|':
			p.moveRight(1)
			p.scanAlternation()

		case '(':
			p.moveRight(1)
			if err := p.scanGroupOpen(depth); err != nil {
				return err
			}

		case '[':
			p.moveRight(1)
			p.startAtom()
			set, err := p.scanCharSet()
			if err != nil {
				return err
			}
			if _, err := c.AppendSet(set); err != nil {
				return err
			}
			p.haveAtom = true

		case '.':
			p.moveRight(1)
			p.startAtom()
			n := c.AppendState(SyntaxWild)
			if p.singleline {
				n.DotMask = DotMatchesNewline
			}
			p.haveAtom = true

		case '^':
			p.moveRight(1)
			p.appendAnchor(SyntaxStartLine)

		case '$':
			p.moveRight(1)
			p.appendAnchor(SyntaxEndLine)

		case '*':
			p.moveRight(1)
			if err := p.scanRepeat(0, RepeatInfinite); err != nil {
				return err
			}

		case '+':
			p.moveRight(1)
			if err := p.scanRepeat(1, RepeatInfinite); err != nil {
				return err
			}

		case '?':
			p.moveRight(1)
			if err := p.scanRepeat(0, 1); err != nil {
				return err
			}

		case '{':
			min, max, ok, err := p.scanBraces()
			if err != nil {
				return err
			}
			if ok {
				if err := p.scanRepeat(min, max); err != nil {
					return err
				}
			} else {
				p.moveRight(1)
				p.appendLiteral('{')
			}

		case '\\':
			p.moveRight(1)
			if err := p.scanBackslash(); err != nil {
				return err
			}

		default:
			p.moveRight(1)
			p.appendLiteral(ch)
		}

		if c.Status() != "" {
			return c.err
		}
	}
	return nil
}

// startAtom records where the next repeatable item begins.
func (p *parser) startAtom() {
	p.atomPred = p.c.LastOffset()
}

func (p *parser) appendLiteral(ch rune) {
	if last := p.c.Address(p.c.LastOffset()); last == nil || last.Type != SyntaxLiteral {
		p.startAtom()
	}
	p.c.AppendLiteral(ch)
	p.haveAtom = true
}

func (p *parser) appendAnchor(t SyntaxType) {
	p.c.AppendState(t)
	p.haveAtom = false
}

func (p *parser) appendToggleCase(icase bool) {
	t := p.c.AppendState(SyntaxToggleCase)
	t.ICase = icase
	p.c.SetICase(icase)
}

// scanAlternation closes the current alternative with a jump and puts
// an Alt in front of it whose second path starts after that jump.
func (p *parser) scanAlternation() {
	c := p.c
	j := c.AppendState(SyntaxJump)
	jOff := c.OffsetOf(j)

	alt := c.InsertState(p.altPred, SyntaxAlt)
	c.SetAltFollows(alt, jOff)

	p.altPred = jOff
	if p.hasCaseChange {
		// the second path skips any toggles in the first
		p.appendToggleCase(c.ICase())
	}
	p.altJumps = append(p.altJumps, jOff)
	p.haveAtom = false
}

// unwindAlts points the pending alternative jumps above base past the
// last node emitted.
func (p *parser) unwindAlts(base int) {
	c := p.c
	for len(p.altJumps) > base {
		jOff := p.altJumps[len(p.altJumps)-1]
		p.altJumps = p.altJumps[:len(p.altJumps)-1]
		c.SetAltFollows(c.Address(jOff), c.LastOffset())
	}
}

// scanBraces parses {n}, {n,} or {n,m} at the current position. ok is
// false, with nothing consumed, when the brace does not start a
// quantifier.
func (p *parser) scanBraces() (min, max int, ok bool, err error) {
	i := 1
	tooBig := false
	digits := func() (int, bool) {
		start := i
		v := 0
		for p.pos+i < len(p.pattern) && p.pattern[p.pos+i] >= '0' && p.pattern[p.pos+i] <= '9' {
			if !tooBig {
				v = v*10 + int(p.pattern[p.pos+i]-'0')
				tooBig = v > maxRepeat
			}
			i++
		}
		return v, i > start
	}

	min, found := digits()
	if !found {
		return 0, 0, false, nil
	}
	max = min
	if p.pos+i < len(p.pattern) && p.pattern[p.pos+i] == ',' {
		i++
		v, found := digits()
		if found {
			max = v
		} else {
			max = RepeatInfinite
		}
	}
	if p.pos+i >= len(p.pattern) || p.pattern[p.pos+i] != '}' {
		return 0, 0, false, nil
	}
	text := string(p.pattern[p.pos+1 : p.pos+i])
	p.moveRight(i + 1)
	if tooBig || max < min {
		return 0, 0, false, p.getErr(ErrBadRepeat, text)
	}
	return min, max, true, nil
}

// scanRepeat wraps the last item in a repeat:
//
//	Rep -> item -> Jump(back to Rep)
//
// with the Rep's second path leaving after the jump. A possessive repeat
// is further wrapped as an independent sub-expression.
func (p *parser) scanRepeat(min, max int) error {
	c := p.c

	greedy, possessive := true, false
	if p.charsRight() > 0 {
		switch p.rightChar(0) {
		case '?':
			greedy = false
			p.moveRight(1)
		case '+':
			possessive = true
			p.moveRight(1)
		}
	}

	if !p.haveAtom {
		return p.getErr(ErrNothingToRepeat)
	}

	pred := p.atomPred
	if last := c.Address(c.LastOffset()); last.Type == SyntaxLiteral && len(last.Chars) > 1 {
		// only the final character of a literal run is repeated
		ch := last.Chars[len(last.Chars)-1]
		last.Chars = last.Chars[:len(last.Chars)-1]
		pred = c.LastOffset()
		lit := c.AppendState(SyntaxLiteral)
		lit.Chars = []rune{ch}
	}

	rep := c.InsertState(pred, SyntaxRep)
	rep.Min = min
	rep.Max = max
	rep.Greedy = greedy
	repOff := c.OffsetOf(rep)

	jmp := c.AppendState(SyntaxJump)
	c.SetAlt(jmp, repOff)
	c.SetAltFollows(c.Address(repOff), c.OffsetOf(jmp))

	if possessive {
		sm := c.InsertState(pred, SyntaxStartmark)
		sm.Index = IndexIndependent
		sm.ICase = c.ICase()
		j := c.InsertState(c.OffsetOf(sm), SyntaxJump)
		jOff := c.OffsetOf(j)
		em := c.AppendState(SyntaxEndmark)
		em.Index = IndexIndependent
		em.ICase = c.ICase()
		c.SetAlt(c.Address(jOff), c.OffsetOf(em))
	}

	p.haveAtom = false
	return nil
}

// scanGroupOpen handles everything that can follow '('.
func (p *parser) scanGroupOpen(depth int) error {
	c := p.c

	if p.charsRight() > 0 && p.rightChar(0) == '*' {
		return p.scanVerb()
	}
	if p.charsRight() == 0 || p.rightChar(0) != '?' {
		return p.scanGroup(depth, c.NewMark(""), false)
	}
	p.moveRight(1)
	if p.charsRight() == 0 {
		return p.getErr(ErrMissingParen)
	}

	ch := p.rightCharMoveRight()
	switch ch {
	case ':':
		return p.scanGroup(depth, 0, false)
	case '=':
		return p.scanGroup(depth, IndexAssertPositive, false)
	case '!':
		return p.scanGroup(depth, IndexAssertNegative, false)
	case '>':
		return p.scanGroup(depth, IndexIndependent, false)
	case '#':
		for p.charsRight() > 0 && p.rightChar(0) != ')' {
			p.moveRight(1)
		}
		if p.charsRight() == 0 {
			return p.getErr(ErrMissingParen)
		}
		p.moveRight(1)
		return nil
	case '<':
		if p.charsRight() > 0 {
			switch p.rightChar(0) {
			case '=':
				p.moveRight(1)
				return p.scanGroup(depth, IndexAssertPositive, true)
			case '!':
				p.moveRight(1)
				return p.scanGroup(depth, IndexAssertNegative, true)
			}
		}
		name, err := p.scanCapname('>')
		if err != nil {
			return err
		}
		return p.scanGroup(depth, c.NewMark(name), false)
	case '\'':
		name, err := p.scanCapname('\'')
		if err != nil {
			return err
		}
		return p.scanGroup(depth, c.NewMark(name), false)
	case 'P':
		if p.charsRight() == 0 {
			return p.getErr(ErrUnknownGroup, "P")
		}
		switch p.rightCharMoveRight() {
		case '<':
			name, err := p.scanCapname('>')
			if err != nil {
				return err
			}
			return p.scanGroup(depth, c.NewMark(name), false)
		case '=':
			name, err := p.scanCapname(')')
			if err != nil {
				return err
			}
			p.appendBackref(0, name)
			return nil
		case '>':
			name, err := p.scanCapname(')')
			if err != nil {
				return err
			}
			p.appendRecurse(0, name)
			return nil
		}
		return p.getErr(ErrUnknownGroup, "P")
	case '&':
		name, err := p.scanCapname(')')
		if err != nil {
			return err
		}
		p.appendRecurse(0, name)
		return nil
	case 'R':
		if p.charsRight() == 0 || p.rightCharMoveRight() != ')' {
			return p.getErr(ErrMissingParen)
		}
		p.appendRecurse(0, "")
		return nil
	case '+', '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		if ch == '-' && (p.charsRight() == 0 || !isDigit(p.rightChar(0))) {
			// (?-i)
			p.moveRight(-1)
			return p.scanOptions(depth)
		}
		return p.scanRecursion(ch)
	}

	p.moveRight(-1)
	return p.scanOptions(depth)
}

// scanRecursion parses (?n), (?+n) and (?-n); first has been consumed.
func (p *parser) scanRecursion(first rune) error {
	sign := 0
	v := 0
	switch first {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		v = int(first - '0')
	}
	for p.charsRight() > 0 && isDigit(p.rightChar(0)) {
		v = v*10 + int(p.rightCharMoveRight()-'0')
		if v > maxRepeat {
			return p.getErr(ErrMissingGroup)
		}
	}
	if p.charsRight() == 0 || p.rightCharMoveRight() != ')' {
		return p.getErr(ErrMissingParen)
	}
	switch sign {
	case 1:
		v = p.c.MarkCount() + v
	case -1:
		v = p.c.MarkCount() + 1 - v
		if v <= 0 {
			return p.getErr(ErrMissingGroup)
		}
	}
	p.appendRecurse(v, "")
	return nil
}

// scanOptions parses (?imsx-imsx) and (?i:...).
func (p *parser) scanOptions(depth int) error {
	icase, singleline := p.c.ICase(), p.singleline
	on := true
	start := p.pos
	for p.charsRight() > 0 {
		ch := p.rightCharMoveRight()
		switch ch {
		case 'i':
			icase = on
		case 's':
			singleline = on
		case '-':
			if !on {
				return p.getErr(ErrUnknownGroup, string(p.pattern[start:p.pos]))
			}
			on = false
		case ')':
			p.singleline = singleline
			if icase != p.c.ICase() {
				p.hasCaseChange = true
				p.appendToggleCase(icase)
			}
			p.haveAtom = false
			return nil
		case ':':
			return p.scanGroupWith(depth, 0, false, icase, singleline)
		default:
			return p.getErr(ErrUnknownGroup, string(p.pattern[start:p.pos]))
		}
	}
	return p.getErr(ErrMissingParen)
}

func (p *parser) scanGroup(depth, index int, lookbehind bool) error {
	return p.scanGroupWith(depth, index, lookbehind, p.c.ICase(), p.singleline)
}

// scanGroupWith emits a group. Assertions and independent groups get a
// jump straight after their startmark that skips to the endmark:
//
//	Startmark(-1) -> Jump(to Endmark) [-> Backstep] -> body -> Endmark(-1)
func (p *parser) scanGroupWith(depth, index int, lookbehind, icase, singleline bool) error {
	c := p.c

	pred := c.LastOffset()
	sm := c.AppendState(SyntaxStartmark)
	sm.Index = index
	sm.ICase = c.ICase()

	jOff := NoOffset
	if index < 0 {
		jOff = c.OffsetOf(c.AppendState(SyntaxJump))
		if lookbehind {
			c.AppendState(SyntaxBackstep)
		}
	}
	bodyPred := c.LastOffset()

	oldICase, oldSingleline := c.ICase(), p.singleline
	oldCaseChange, oldAltPred := p.hasCaseChange, p.altPred
	base := len(p.altJumps)

	p.hasCaseChange = false
	p.singleline = singleline
	if icase != c.ICase() {
		p.hasCaseChange = true
		p.appendToggleCase(icase)
	}
	p.altPred = c.LastOffset()
	p.haveAtom = false

	if err := p.scanSequence(depth + 1); err != nil {
		return err
	}
	if p.charsRight() == 0 {
		return p.getErr(ErrMissingParen)
	}
	p.moveRight(1)

	if jOff != NoOffset && index != IndexAssertNegative && c.LastOffset() == bodyPred {
		return p.getErr(ErrEmptyAssertion)
	}

	p.unwindAlts(base)
	if p.hasCaseChange {
		p.appendToggleCase(oldICase)
	}
	p.hasCaseChange = oldCaseChange
	p.singleline = oldSingleline
	p.altPred = oldAltPred

	em := c.AppendState(SyntaxEndmark)
	em.Index = index
	em.ICase = c.ICase()
	if jOff != NoOffset {
		c.SetAlt(c.Address(jOff), c.OffsetOf(em))
	}

	p.atomPred = pred
	p.haveAtom = true
	return nil
}

// scanVerb parses (*COMMIT), (*FAIL), (*F) and (*ACCEPT); the '*' is next.
func (p *parser) scanVerb() error {
	p.moveRight(1)
	start := p.pos
	for p.charsRight() > 0 && p.rightChar(0) != ')' {
		p.moveRight(1)
	}
	if p.charsRight() == 0 {
		return p.getErr(ErrMissingParen)
	}
	verb := string(p.pattern[start:p.pos])
	p.moveRight(1)

	var t SyntaxType
	switch verb {
	case "COMMIT":
		t = SyntaxCommit
	case "FAIL", "F":
		t = SyntaxFail
	case "ACCEPT":
		t = SyntaxAccept
	default:
		return p.getErr(ErrUnknownVerb, verb)
	}
	p.c.AppendState(t)
	p.haveAtom = false
	return nil
}

// scanCapname reads a group name up to and including term.
func (p *parser) scanCapname(term rune) (string, error) {
	start := p.pos
	for p.charsRight() > 0 && isWordRune(p.rightChar(0)) {
		p.moveRight(1)
	}
	name := string(p.pattern[start:p.pos])
	if p.charsRight() == 0 || p.rightChar(0) != term {
		if p.charsRight() == 0 {
			return "", p.getErr(ErrMissingParen)
		}
		return "", p.getErr(ErrUnknownGroup, string(p.pattern[start-1:p.pos+1]))
	}
	p.moveRight(1)
	if name == "" {
		return "", p.getErr(ErrUnknownGroup, string(term))
	}
	return name, nil
}

func (p *parser) appendBackref(index int, name string) {
	p.startAtom()
	n := p.c.AppendState(SyntaxBackref)
	n.Index = index
	n.Name = name
	n.ICase = p.c.ICase()
	p.haveAtom = true
}

// appendRecurse emits a recursion followed by a toggle restoring the
// case state in force here, since the target group may change it.
func (p *parser) appendRecurse(index int, name string) {
	c := p.c
	p.startAtom()
	n := c.AppendState(SyntaxRecurse)
	n.Index = index
	n.Name = name
	t := c.AppendState(SyntaxToggleCase)
	t.ICase = c.ICase()
	p.haveAtom = true
}

// scanBackslash handles an escape outside a bracket expression; the
// backslash has been consumed.
func (p *parser) scanBackslash() error {
	c := p.c
	if p.charsRight() == 0 {
		return p.getErr(ErrIllegalEndEscape)
	}

	ch := p.rightChar(0)
	switch ch {
	case 'b':
		p.moveRight(1)
		p.appendAnchor(SyntaxWordBoundary)
		return nil
	case 'B':
		p.moveRight(1)
		p.appendAnchor(SyntaxWithinWord)
		return nil
	case '<':
		p.moveRight(1)
		p.appendAnchor(SyntaxWordStart)
		return nil
	case '>':
		p.moveRight(1)
		p.appendAnchor(SyntaxWordEnd)
		return nil
	case 'A', '`':
		p.moveRight(1)
		p.appendAnchor(SyntaxBufferStart)
		return nil
	case 'z', '\'':
		p.moveRight(1)
		p.appendAnchor(SyntaxBufferEnd)
		return nil
	case 'Z':
		p.moveRight(1)
		p.appendAnchor(SyntaxSoftBufferEnd)
		return nil
	case 'G':
		p.moveRight(1)
		p.appendAnchor(SyntaxRestartContinue)
		return nil
	case 'g':
		p.moveRight(1)
		return p.scanGroupRef()
	case 'k':
		p.moveRight(1)
		if p.charsRight() == 0 {
			return p.getErr(ErrIllegalEndEscape)
		}
		var term rune
		switch p.rightCharMoveRight() {
		case '<':
			term = '>'
		case '\'':
			term = '\''
		case '{':
			term = '}'
		default:
			return p.getErr(ErrBadEscape)
		}
		name, err := p.scanCapname(term)
		if err != nil {
			return err
		}
		p.appendBackref(0, name)
		return nil
	}

	if ch >= '1' && ch <= '9' {
		v := 0
		for p.charsRight() > 0 && isDigit(p.rightChar(0)) && v <= maxRepeat {
			v = v*10 + int(p.rightCharMoveRight()-'0')
		}
		p.appendBackref(v, "")
		return nil
	}

	if set, ok := p.scanClassEscape(); ok {
		p.startAtom()
		if _, err := c.AppendSet(set); err != nil {
			return err
		}
		p.haveAtom = true
		return nil
	}

	r, err := p.scanCharEscape()
	if err != nil {
		return err
	}
	p.appendLiteral(r)
	return nil
}

// scanGroupRef parses the rest of \g{n}, \g{-n}, \g{name} and \gn.
func (p *parser) scanGroupRef() error {
	if p.charsRight() == 0 {
		return p.getErr(ErrIllegalEndEscape)
	}
	braced := p.rightChar(0) == '{'
	if braced {
		p.moveRight(1)
	}
	start := p.pos
	if p.charsRight() > 0 && p.rightChar(0) == '-' {
		p.moveRight(1)
	}
	for p.charsRight() > 0 && isWordRune(p.rightChar(0)) && (braced || isDigit(p.rightChar(0))) {
		p.moveRight(1)
	}
	text := string(p.pattern[start:p.pos])
	if braced {
		if p.charsRight() == 0 || p.rightChar(0) != '}' {
			return p.getErr(ErrBadEscape)
		}
		p.moveRight(1)
	}

	v, err := strconv.Atoi(text)
	switch {
	case err == nil && v < 0:
		v = p.c.MarkCount() + 1 + v
		if v <= 0 {
			return p.getErr(ErrMissingGroup)
		}
		p.appendBackref(v, "")
	case err == nil && v > 0:
		p.appendBackref(v, "")
	case err != nil && braced && text != "" && text[0] != '-':
		p.appendBackref(0, text)
	default:
		return p.getErr(ErrBadEscape)
	}
	return nil
}

// scanCharEscape reads a character escape such as \n, \x41 or \x{263a};
// the backslash has been consumed.
func (p *parser) scanCharEscape() (rune, error) {
	if p.charsRight() == 0 {
		return 0, p.getErr(ErrIllegalEndEscape)
	}
	ch := p.rightCharMoveRight()
	switch ch {
	case 'n':
		return '\n', nil
	case 't':
		return '\t', nil
	case 'r':
		return '\r', nil
	case 'f':
		return '\f', nil
	case 'v':
		return '\v', nil
	case 'a':
		return '\a', nil
	case 'e':
		return 0x1b, nil
	case '0':
		return p.scanNumber(8, 2), nil
	case 'x':
		if p.charsRight() > 0 && p.rightChar(0) == '{' {
			p.moveRight(1)
			start := p.pos
			v := p.scanNumber(16, 8)
			if p.pos == start || p.charsRight() == 0 || p.rightChar(0) != '}' || v > 0x10ffff {
				return 0, p.getErr(ErrBadEscape)
			}
			p.moveRight(1)
			return v, nil
		}
		return p.scanNumber(16, 2), nil
	case 'c':
		if p.charsRight() == 0 {
			return 0, p.getErr(ErrIllegalEndEscape)
		}
		return p.rightCharMoveRight() & 0x1f, nil
	}
	if isWordRune(ch) {
		return 0, p.getErr(ErrBadEscape)
	}
	return ch, nil
}

// scanNumber reads up to n digits in radix.
func (p *parser) scanNumber(radix, n int) rune {
	var v rune
	for i := 0; i < n && p.charsRight() > 0; i++ {
		d := p.c.Traits().ToInt(p.rightChar(0), radix)
		if d < 0 {
			break
		}
		v = v*rune(radix) + rune(d)
		p.moveRight(1)
	}
	return v
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isWordRune(ch rune) bool {
	return ch >= '0' && ch <= '9' || ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch == '_'
}
