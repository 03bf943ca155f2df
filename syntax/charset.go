package syntax

import (
	"cmp"
	"slices"
)

// Digraph is a set member of one or two characters. Second is zero
// for ordinary characters; two-character collating elements such as
// [.ch.] carry both.
type Digraph struct {
	First, Second rune
}

// Single returns the one-character digraph for c.
func Single(c rune) Digraph {
	return Digraph{First: c}
}

// IsDigraph reports whether d holds two characters.
func (d Digraph) IsDigraph() bool {
	return d.Second != 0
}

// Runes returns the characters of d.
func (d Digraph) Runes() []rune {
	if d.Second != 0 {
		return []rune{d.First, d.Second}
	}
	return []rune{d.First}
}

func (d Digraph) String() string {
	if d.Second != 0 {
		return CharDescription(d.First) + CharDescription(d.Second)
	}
	return CharDescription(d.First)
}

func compareDigraph(a, b Digraph) int {
	if c := cmp.Compare(a.First, b.First); c != 0 {
		return c
	}
	return cmp.Compare(a.Second, b.Second)
}

// CharSet accumulates the members of a bracket expression before it is
// handed to Creator.AppendSet. It is write-only: nothing is checked or
// reported until the set is encoded.
type CharSet struct {
	singles        []Digraph
	ranges         []Digraph
	equivalents    []Digraph
	classes        ClassMask
	negatedClasses ClassMask
	negate         bool
	hasDigraphs    bool
	empty          bool
}

// NewCharSet returns an empty set.
func NewCharSet() *CharSet {
	return &CharSet{empty: true}
}

// insertSorted keeps set ordered and free of duplicates.
func insertSorted(set []Digraph, d Digraph) []Digraph {
	i, found := slices.BinarySearchFunc(set, d, compareDigraph)
	if found {
		return set
	}
	return slices.Insert(set, i, d)
}

func (c *CharSet) AddSingle(d Digraph) {
	c.singles = insertSorted(c.singles, d)
	if d.IsDigraph() {
		c.hasDigraphs = true
	}
	c.empty = false
}

// AddRange appends lo-hi. Endpoints that are digraphs are also added as
// singles so they match on their own.
func (c *CharSet) AddRange(lo, hi Digraph) {
	c.ranges = append(c.ranges, lo, hi)
	if lo.IsDigraph() {
		c.hasDigraphs = true
		c.AddSingle(lo)
	}
	if hi.IsDigraph() {
		c.hasDigraphs = true
		c.AddSingle(hi)
	}
	c.empty = false
}

func (c *CharSet) AddClass(m ClassMask) {
	c.classes |= m
	c.empty = false
}

func (c *CharSet) AddNegatedClass(m ClassMask) {
	c.negatedClasses |= m
	c.empty = false
}

// AddEquivalent adds an equivalence class [=d=].
func (c *CharSet) AddEquivalent(d Digraph) {
	c.equivalents = insertSorted(c.equivalents, d)
	if d.IsDigraph() {
		c.hasDigraphs = true
		c.AddSingle(d)
	}
	c.empty = false
}

func (c *CharSet) Negate() {
	c.negate = true
	c.empty = false
}

func (c *CharSet) IsNegated() bool { return c.negate }
func (c *CharSet) HasDigraphs() bool { return c.hasDigraphs }
func (c *CharSet) Empty() bool { return c.empty }
func (c *CharSet) Classes() ClassMask { return c.classes }
func (c *CharSet) NegatedClasses() ClassMask { return c.negatedClasses }
func (c *CharSet) Singles() []Digraph { return c.singles }
func (c *CharSet) Equivalents() []Digraph { return c.equivalents }

// Ranges returns the range endpoints as consecutive lo, hi pairs in the
// order they were added.
func (c *CharSet) Ranges() []Digraph { return c.ranges }
