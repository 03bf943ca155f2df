package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCharSetSinglesSortedUnique(t *testing.T) {
	set := NewCharSet()
	require.True(t, set.Empty())

	for _, c := range "zaqaz" {
		set.AddSingle(Single(c))
	}
	require.False(t, set.Empty())
	require.Equal(t, []Digraph{Single('a'), Single('q'), Single('z')}, set.Singles())
	require.False(t, set.HasDigraphs())
}

func TestCharSetDigraphEndpoints(t *testing.T) {
	set := NewCharSet()
	ch := Digraph{First: 'c', Second: 'h'}
	set.AddRange(Single('a'), ch)

	require.True(t, set.HasDigraphs())
	require.Equal(t, []Digraph{Single('a'), ch}, set.Ranges())
	require.Equal(t, []Digraph{ch}, set.Singles(), "digraph endpoint also matches alone")

	set.AddEquivalent(Digraph{First: 'l', Second: 'l'})
	require.Len(t, set.Singles(), 2)
	require.Len(t, set.Equivalents(), 1)
}

func TestCharSetFlags(t *testing.T) {
	set := NewCharSet()
	set.Negate()
	require.True(t, set.IsNegated())
	require.False(t, set.Empty())

	set.AddClass(ClassDigit)
	set.AddClass(ClassSpace)
	set.AddNegatedClass(ClassWord)
	require.Equal(t, ClassDigit|ClassSpace, set.Classes())
	require.Equal(t, ClassWord, set.NegatedClasses())
}

func TestDigraph(t *testing.T) {
	require.Equal(t, []rune{'x'}, Single('x').Runes())
	require.Equal(t, []rune{'c', 'h'}, Digraph{First: 'c', Second: 'h'}.Runes())
	require.Equal(t, "ch", Digraph{First: 'c', Second: 'h'}.String())
	require.Equal(t, "U+000A", Single('\n').String())
	require.Negative(t, compareDigraph(Single('c'), Digraph{First: 'c', Second: 'h'}))
}
