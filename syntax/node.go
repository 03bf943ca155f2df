package syntax

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// SyntaxType identifies the kind of a node in a compiled program.
type SyntaxType int32

const (
	// Zero-width structure
	SyntaxStartmark SyntaxType = 0 // (  index; -1/-2 assertion, -3 independent
	SyntaxEndmark   SyntaxType = 1 // )  index

	// Leaves
	SyntaxLiteral         SyntaxType = 2  // abc
	SyntaxStartLine       SyntaxType = 3  // ^
	SyntaxEndLine         SyntaxType = 4  // $
	SyntaxWild            SyntaxType = 5  // .
	SyntaxMatch           SyntaxType = 6  // end of program
	SyntaxWordBoundary    SyntaxType = 7  // \b
	SyntaxWithinWord      SyntaxType = 8  // \B
	SyntaxWordStart       SyntaxType = 9  // \<
	SyntaxWordEnd         SyntaxType = 10 // \>
	SyntaxBufferStart     SyntaxType = 11 // \A
	SyntaxBufferEnd       SyntaxType = 12 // \z
	SyntaxBackref         SyntaxType = 13 // \1
	SyntaxLongSet         SyntaxType = 14 // [a-z\w]
	SyntaxSet             SyntaxType = 15 // [abc], byte map
	SyntaxJump            SyntaxType = 16
	SyntaxAlt             SyntaxType = 17 // a|b
	SyntaxRep             SyntaxType = 18 // (...){m,n}
	SyntaxSoftBufferEnd   SyntaxType = 19 // \Z
	SyntaxRestartContinue SyntaxType = 20 // \G

	// Specialised repeats of a single node, set during finalize
	SyntaxDotRep      SyntaxType = 21 // .*
	SyntaxCharRep     SyntaxType = 22 // a*
	SyntaxShortSetRep SyntaxType = 23 // [abc]*
	SyntaxLongSetRep  SyntaxType = 24 // [\w]*

	SyntaxBackstep   SyntaxType = 25 // (?<=
	SyntaxToggleCase SyntaxType = 26 // (?i)
	SyntaxRecurse    SyntaxType = 27 // (?1)
	SyntaxFail       SyntaxType = 28 // (*FAIL)
	SyntaxAccept     SyntaxType = 29 // (*ACCEPT)
	SyntaxCommit     SyntaxType = 30 // (*COMMIT)
)

var syntaxTypeNames = []string{
	"Startmark", "Endmark", "Literal", "StartLine", "EndLine", "Wild", "Match",
	"WordBoundary", "WithinWord", "WordStart", "WordEnd", "BufferStart", "BufferEnd",
	"Backref", "LongSet", "Set", "Jump", "Alt", "Rep", "SoftBufferEnd", "RestartContinue",
	"DotRep", "CharRep", "ShortSetRep", "LongSetRep", "Backstep", "ToggleCase", "Recurse",
	"Fail", "Accept", "Commit",
}

func (t SyntaxType) String() string {
	if t >= 0 && int(t) < len(syntaxTypeNames) {
		return syntaxTypeNames[t]
	}
	return "SyntaxType(" + strconv.Itoa(int(t)) + ")"
}

// IsRepeat reports whether t is the generic repeat or one of its specialisations.
func (t SyntaxType) IsRepeat() bool {
	switch t {
	case SyntaxRep, SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep, SyntaxLongSetRep:
		return true
	}
	return false
}

// isChoice reports whether a node of type t carries its own start map.
func (t SyntaxType) isChoice() bool {
	return t == SyntaxAlt || t.IsRepeat()
}

// RepeatInfinite is the Max of an unbounded repeat.
const RepeatInfinite = math.MaxInt32

// Brace indices below zero mark groups that capture nothing.
const (
	IndexAssertPositive = -1 // (?= (?<=
	IndexAssertNegative = -2 // (?! (?<!
	IndexIndependent    = -3 // (?>
)

// Wild masks.
const (
	DotMatchesNewline uint8 = 1 << iota
)

// Offset addresses a node slot in a Buffer. Unlike a *Node it stays
// valid across buffer growth.
type Offset int

// NoOffset is the null link.
const NoOffset Offset = -1

// Node is one element of a compiled program.
//
// Implementation notes:
//
// A program is a sequence of nodes threaded through next. Until the
// program is finalized, links are offsets into the owning Buffer; the
// pointer fixup resolves them to Next and Alt once the buffer will no
// longer move. Like the tree nodes of the parser it's a fat struct: each
// node type uses the handful of fields that apply to it.
//
// An alt link comes in two flavours. An exact link names a node. A
// "follows" link names the node after which the target sits, and is
// resolved at fixup to whatever then comes next; nodes inserted at that
// point are picked up by it, which is what forward jumps want.
type Node struct {
	Type SyntaxType

	self      Offset
	next      Offset
	prev      Offset
	alt       Offset
	altFollow bool

	// resolved by Finalize
	Next *Node
	Alt  *Node

	// Startmark, Endmark, Backref, Recurse: group index. Backstep: width
	// in characters once finalized.
	Index int
	// Backref, Recurse: named target, resolved by Finalize
	Name string
	// Startmark, Endmark, ToggleCase, Backref: case-insensitive state
	ICase bool

	// Literal
	Chars []rune
	// Wild
	DotMask uint8
	// Set: indexed by the translated character
	SetMap *[256]bool
	// LongSet
	Set *LongSet

	// Alt, Rep family: first characters of each path, and which paths
	// can match the empty string
	StartMap  *[256]uint8
	CanBeNull uint8

	// Rep family
	Min, Max int
	Greedy   bool
	Leading  bool
	// Rep family: analysis id. Recurse: id of the first repeat nested in
	// the target group, or -1.
	StateID int
}

// LongSet is the payload of a SyntaxLongSet node.
//
// Payload holds, in order: Singles runs of one or two characters each
// followed by 0, Ranges pairs of 0-terminated strings (sort keys when the
// program was compiled with Collate), then Equivalents 0-terminated
// primary sort keys.
type LongSet struct {
	Singles        int
	Ranges         int
	Equivalents    int
	Classes        ClassMask
	NegatedClasses ClassMask
	IsNot          bool
	Singleton      bool
	Payload        []rune
}

// Offset returns the node's position in its buffer.
func (n *Node) Offset() Offset {
	return n.self
}

// Description returns a one line rendering of the node.
func (n *Node) Description() string {
	buf := &bytes.Buffer{}
	buf.WriteString(n.Type.String())

	switch n.Type {
	case SyntaxStartmark, SyntaxEndmark:
		fmt.Fprintf(buf, " %d", n.Index)
	case SyntaxLiteral:
		fmt.Fprintf(buf, " %q", string(n.Chars))
	case SyntaxBackref, SyntaxRecurse:
		if n.Name != "" {
			fmt.Fprintf(buf, " <%s>", n.Name)
		} else {
			fmt.Fprintf(buf, " %d", n.Index)
		}
	case SyntaxBackstep:
		fmt.Fprintf(buf, " %d", n.Index)
	case SyntaxToggleCase:
		if n.ICase {
			buf.WriteString(" (?i)")
		} else {
			buf.WriteString(" (?-i)")
		}
	case SyntaxSet:
		buf.WriteString(" " + describeSetMap(n.SetMap))
	case SyntaxLongSet:
		s := n.Set
		fmt.Fprintf(buf, " singles=%d ranges=%d equivs=%d classes=%#x nclasses=%#x", s.Singles, s.Ranges, s.Equivalents, uint32(s.Classes), uint32(s.NegatedClasses))
		if s.IsNot {
			buf.WriteString(" not")
		}
		if s.Singleton {
			buf.WriteString(" singleton")
		}
	}

	if n.Type.IsRepeat() {
		if n.Max == RepeatInfinite {
			fmt.Fprintf(buf, " {%d,}", n.Min)
		} else {
			fmt.Fprintf(buf, " {%d,%d}", n.Min, n.Max)
		}
		if !n.Greedy {
			buf.WriteString(" lazy")
		}
		if n.Leading {
			buf.WriteString(" leading")
		}
	}

	return buf.String()
}

func describeSetMap(m *[256]bool) string {
	if m == nil {
		return "[]"
	}
	buf := &bytes.Buffer{}
	buf.WriteRune('[')
	for i := 0; i < len(m); i++ {
		if !m[i] {
			continue
		}
		j := i
		for j+1 < len(m) && m[j+1] {
			j++
		}
		buf.WriteString(CharDescription(rune(i)))
		if j > i {
			if j > i+1 {
				buf.WriteRune('-')
			}
			buf.WriteString(CharDescription(rune(j)))
		}
		i = j
	}
	buf.WriteRune(']')
	return buf.String()
}

// CharDescription produces a human-readable description for a single character.
func CharDescription(ch rune) string {
	if ch == '\\' {
		return "\\\\"
	}

	if ch >= ' ' && ch <= '~' {
		return string(ch)
	}

	return fmt.Sprintf("%U", ch)
}
