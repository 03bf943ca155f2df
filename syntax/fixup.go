package syntax

import (
	"log/slog"
	"os"
)

// Program is a finalized, immutable regex program together with the
// precomputed data a matcher needs to run it.
type Program struct {
	// First is the entry node.
	First *Node
	// StartMap marks the characters a match can start with: entry c has
	// MaskTake set if c can begin a match.
	StartMap  [256]uint8
	CanBeNull uint8

	RestartType   RestartType
	HasRecursions bool
	HasBackrefs   bool
	WordMask      ClassMask
	Expression    string
	MarkCount     int
	Names         map[string]int
	Flags         RegexOptions

	// Status is set instead of an error being returned when the program
	// was compiled with NoExcept.
	Status ErrorCode
	Err    *Error

	buf *Buffer
}

// Nodes returns the program's nodes in sequence order.
func (p *Program) Nodes() []*Node {
	if p.buf == nil {
		return nil
	}
	return p.buf.Nodes()
}

// Finalize closes the program with a match node, resolves its links
// and runs the start-map, restart and leading-repeat analyses.
//
// On failure the error is returned, unless the creator was built with
// NoExcept, in which case a Program with Status set and no nodes is
// returned instead.
func (c *Creator) Finalize(expr string) (*Program, error) {
	if c.status == "" {
		c.finalize(expr)
	}

	if c.status != "" {
		if c.flags&NoExcept != 0 {
			return &Program{Status: c.status, Err: c.err, Flags: c.flags}, nil
		}
		return nil, c.err
	}

	p := &Program{
		First:         c.buf.At(c.buf.Head()),
		HasRecursions: c.hasRecursions,
		HasBackrefs:   c.hasBackrefs,
		WordMask:      ClassWord,
		Expression:    c.expr,
		MarkCount:     c.markCount,
		Names:         c.names,
		Flags:         c.flags,
		buf:           c.buf,
	}
	p.StartMap = c.startMap
	p.CanBeNull = c.canBeNull
	p.RestartType = c.restartType

	slog.Debug("regex compiled", "expr", expr, "nodes", c.buf.Len(), "marks", c.markCount, "restart", c.restartType)
	if c.flags&Debug != 0 {
		p.Dump(os.Stdout)
	}

	return p, nil
}

func (c *Creator) finalize(expr string) {
	c.AppendState(SyntaxMatch)
	c.expr = expr

	c.fixupPointers()
	if c.status != "" {
		return
	}
	if !c.fixupReferences() {
		return
	}

	a := newAnalyzer(c)
	if err := a.createStartmaps(c.buf.At(c.buf.Head())); err != nil {
		c.Fail(err.Code, expr, err.Args...)
		return
	}

	// start map for the whole expression
	a.resetChecks()
	a.badRepeats = 0
	var m [256]uint8
	if err := a.createStartmap(c.buf.At(c.buf.Head()), &m, &c.canBeNull, MaskAll); err != nil {
		c.Fail(err.Code, expr, err.Args...)
		return
	}
	c.startMap = m

	c.restartType = getRestartType(c.buf.At(c.buf.Head()))
	probeLeadingRepeat(c.buf.At(c.buf.Head()), c.hasBackrefs)
}

// fixupPointers resolves every link to a pointer in one pass over the
// buffer, and numbers the repeats.
func (c *Creator) fixupPointers() {
	for off := c.buf.Head(); off != NoOffset; {
		n := c.buf.At(off)
		n.Next = c.buf.At(n.next)

		switch n.Type {
		case SyntaxRecurse:
			c.hasRecursions = true
		case SyntaxRep, SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep, SyntaxLongSetRep:
			n.StateID = c.repeaterID
			c.repeaterID++
			fallthrough
		case SyntaxAlt:
			n.StartMap = &[256]uint8{}
			n.CanBeNull = 0
			fallthrough
		case SyntaxJump:
			alt := n.alt
			if n.altFollow {
				alt = c.buf.following(n.alt)
			}
			n.Alt = c.buf.At(alt)
		}

		off = n.next
	}
}

// fixupReferences checks that every backreference and recursion names an
// existing group, and points recursions at the startmark of that group.
func (c *Creator) fixupReferences() bool {
	for off := c.buf.Head(); off != NoOffset; {
		n := c.buf.At(off)
		off = n.next

		switch n.Type {
		case SyntaxBackref:
			if !c.resolveName(n) {
				return false
			}
			if n.Index > c.markCount {
				c.Fail(ErrMissingGroup, c.expr)
				return false
			}
		case SyntaxRecurse:
			if !c.resolveName(n) {
				return false
			}
			if !c.fixupRecursion(n) {
				c.Fail(ErrMissingGroup, c.expr)
				return false
			}
		}
	}
	return true
}

func (c *Creator) resolveName(n *Node) bool {
	if n.Name == "" {
		return true
	}
	i, ok := c.names[n.Name]
	if !ok {
		c.Fail(ErrUnknownName, c.expr, n.Name)
		return false
	}
	n.Index = i
	return true
}

// fixupRecursion points the alt link of a recurse node at the startmark
// of its target group. StateID becomes the id of the first repeat
// inside that group, or -1 when it has none.
func (c *Creator) fixupRecursion(rec *Node) bool {
	idx := rec.Index
	for p := c.buf.At(c.buf.Head()); p != nil; p = p.Next {
		if p.Type != SyntaxStartmark || p.Index != idx {
			continue
		}
		rec.Alt = p
		rec.StateID = -1
		for q := p.Next; q != nil; q = q.Next {
			if q.Type.IsRepeat() {
				rec.StateID = q.StateID
				break
			}
			if q.Type == SyntaxEndmark && q.Index == idx {
				break
			}
		}
		return true
	}
	return false
}
