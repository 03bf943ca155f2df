package syntax

import (
	"slices"
)

type RegexOptions int32

const (
	IgnoreCase RegexOptions = 0x0001 // "i"
	Singleline RegexOptions = 0x0010 // "s"
	Debug      RegexOptions = 0x0080 // "d"
	Collate    RegexOptions = 0x0100 // ranges compare by sort key
	NoExcept   RegexOptions = 0x0200 // report failures through Program.Status
)

// Creator builds a program one node at a time. The parser drives it
// through the Append and Insert calls, then calls Finalize once.
//
// A Creator compiles exactly one expression. After the first failure it
// keeps accepting calls but the result is discarded: Finalize reports
// that first failure.
type Creator struct {
	traits Traits
	flags  RegexOptions
	buf    *Buffer

	icase         bool
	hasBackrefs   bool
	hasRecursions bool
	repeaterID    int
	markCount     int
	names         map[string]int

	status ErrorCode
	err    *Error
	expr   string

	// set by finalize
	startMap    [256]uint8
	canBeNull   uint8
	restartType RestartType
}

// NewCreator returns a Creator for one compilation. A nil traits uses Default.
func NewCreator(traits Traits, flags RegexOptions) *Creator {
	if traits == nil {
		traits = Default()
	}
	return &Creator{
		traits: traits,
		flags:  flags,
		buf:    NewBuffer(32),
		icase:  flags&IgnoreCase != 0,
		names:  make(map[string]int),
	}
}

func (c *Creator) Traits() Traits      { return c.traits }
func (c *Creator) Flags() RegexOptions { return c.flags }
func (c *Creator) Buffer() *Buffer     { return c.buf }

// ICase reports whether characters are currently folded as they are added.
func (c *Creator) ICase() bool { return c.icase }

func (c *Creator) SetICase(icase bool) {
	c.icase = icase
}

// Status is the first failure recorded, or "".
func (c *Creator) Status() ErrorCode {
	return c.status
}

// NewMark allocates the next capture index, registering name if it is
// not empty.
func (c *Creator) NewMark(name string) int {
	c.markCount++
	if name != "" {
		if _, ok := c.names[name]; !ok {
			c.names[name] = c.markCount
		}
	}
	return c.markCount
}

// MarkCount is the number of capture groups allocated so far.
func (c *Creator) MarkCount() int {
	return c.markCount
}

// MarkIndex returns the capture index for a group name.
func (c *Creator) MarkIndex(name string) (int, bool) {
	i, ok := c.names[name]
	return i, ok
}

// Fail records code as the compile status unless a failure was already
// recorded, and returns the recorded error.
func (c *Creator) Fail(code ErrorCode, expr string, args ...interface{}) *Error {
	if c.err == nil {
		c.status = code
		c.err = &Error{Code: code, Expr: expr, Args: args}
	}
	c.expr = ""
	return c.err
}

// AppendState adds a node of type t after the last node. The returned
// pointer is invalidated by the next call that adds a node.
func (c *Creator) AppendState(t SyntaxType) *Node {
	if t == SyntaxBackref {
		c.hasBackrefs = true
	}
	return c.buf.Append(t)
}

// InsertState adds a node of type t directly after the node at after,
// or ahead of everything when after is NoOffset. Alt links that follow
// after now reach the new node.
func (c *Creator) InsertState(after Offset, t SyntaxType) *Node {
	if t == SyntaxBackref {
		c.hasBackrefs = true
	}
	return c.buf.InsertAfter(after, t)
}

// LastOffset is the offset of the most recently appended node, or NoOffset.
func (c *Creator) LastOffset() Offset {
	return c.buf.Last()
}

// Address converts off to a pointer valid until the buffer next grows.
func (c *Creator) Address(off Offset) *Node {
	return c.buf.At(off)
}

// OffsetOf converts a node pointer back to an offset.
func (c *Creator) OffsetOf(n *Node) Offset {
	return n.self
}

// SetAlt points the alt link of n at the node at target.
func (c *Creator) SetAlt(n *Node, target Offset) {
	n.alt = target
	n.altFollow = false
}

// SetAltFollows points the alt link of n at whatever comes after the
// node at pred once the program is complete.
func (c *Creator) SetAltFollows(n *Node, pred Offset) {
	n.alt = pred
	n.altFollow = true
}

// AppendLiteral adds c, extending the last node when it is already a
// literal.
func (c *Creator) AppendLiteral(ch rune) *Node {
	ch = c.traits.Translate(ch, c.icase)
	if last := c.buf.At(c.buf.Last()); last != nil && last.Type == SyntaxLiteral {
		last.Chars = append(last.Chars, ch)
		return last
	}
	n := c.AppendState(SyntaxLiteral)
	n.Chars = []rune{ch}
	return n
}

// AppendSet encodes set as a node. Sets that can only match characters
// below 256 become a SyntaxSet with a byte map; everything else becomes a
// SyntaxLongSet.
func (c *Creator) AppendSet(set *CharSet) (*Node, error) {
	if m, ok := c.shortSetMap(set); ok {
		n := c.AppendState(SyntaxSet)
		n.SetMap = m
		return n, nil
	}
	return c.appendLongSet(set)
}

func (c *Creator) shortSetMap(set *CharSet) (*[256]bool, bool) {
	if set.IsNegated() || set.HasDigraphs() || set.Classes() != 0 || set.NegatedClasses() != 0 ||
		len(set.Equivalents()) != 0 || c.flags&Collate != 0 {
		return nil, false
	}

	singles := make([]rune, 0, len(set.Singles()))
	for _, d := range set.Singles() {
		t := c.traits.Translate(d.First, c.icase)
		if t >= 256 {
			return nil, false
		}
		singles = append(singles, t)
	}
	ranges := set.Ranges()
	bounds := make([]rune, len(ranges))
	for i, d := range ranges {
		t := c.traits.Translate(d.First, c.icase)
		if t >= 256 {
			return nil, false
		}
		bounds[i] = t
	}
	for i := 0; i < len(bounds); i += 2 {
		if bounds[i] > bounds[i+1] {
			// let the long form report it
			return nil, false
		}
	}

	m := &[256]bool{}
	for i := range m {
		t := c.traits.Translate(rune(i), c.icase)
		if slices.Contains(singles, t) {
			m[i] = true
			continue
		}
		for j := 0; j < len(bounds); j += 2 {
			if t >= bounds[j] && t <= bounds[j+1] {
				m[i] = true
				break
			}
		}
	}
	return m, true
}

func (c *Creator) translateString(s []rune) []rune {
	out := make([]rune, len(s))
	for i, r := range s {
		out[i] = c.traits.Translate(r, c.icase)
	}
	return out
}

func (c *Creator) appendLongSet(set *CharSet) (*Node, error) {
	ls := &LongSet{
		Singles:     len(set.Singles()),
		Ranges:      len(set.Ranges()) / 2,
		Equivalents: len(set.Equivalents()),
		IsNot:       set.IsNegated(),
		Singleton:   !set.HasDigraphs(),
	}

	ls.Classes = set.Classes()
	ls.NegatedClasses = set.NegatedClasses()
	if c.icase {
		// a case-insensitive [[:lower:]] matches upper case too
		if ls.Classes&ClassLower == ClassLower || ls.Classes&ClassUpper == ClassUpper {
			ls.Classes |= ClassAlpha
		}
		if ls.NegatedClasses&ClassLower == ClassLower || ls.NegatedClasses&ClassUpper == ClassUpper {
			ls.NegatedClasses |= ClassAlpha
		}
	}

	var payload []rune
	for _, d := range set.Singles() {
		payload = append(payload, c.translateString(d.Runes())...)
		payload = append(payload, 0)
	}

	ranges := set.Ranges()
	for i := 0; i < len(ranges); i += 2 {
		s1 := c.translateString(ranges[i].Runes())
		s2 := c.translateString(ranges[i+1].Runes())
		if c.flags&Collate != 0 {
			s1 = c.traits.Transform(s1)
			s2 = c.traits.Transform(s2)
		}
		if slices.Compare(s1, s2) > 0 {
			return nil, c.Fail(ErrInvalidRange, c.expr)
		}
		payload = append(payload, s1...)
		payload = append(payload, 0)
		payload = append(payload, s2...)
		payload = append(payload, 0)
	}

	for _, d := range set.Equivalents() {
		s := c.traits.TransformPrimary(d.Runes())
		if len(s) == 0 {
			return nil, c.Fail(ErrBadEquivalence, c.expr)
		}
		payload = append(payload, s...)
		payload = append(payload, 0)
	}

	ls.Payload = payload
	n := c.AppendState(SyntaxLongSet)
	n.Set = ls
	return n, nil
}

// SetExpression records the source text errors are reported against.
func (c *Creator) SetExpression(expr string) {
	c.expr = expr
}
