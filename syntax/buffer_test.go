package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBufferOffsetsSurviveGrowth(t *testing.T) {
	b := NewBuffer(1)
	first := b.Append(SyntaxLiteral)
	first.Chars = []rune("x")
	off := first.Offset()
	require.Same(t, first, b.At(off))

	for i := 0; i < 100; i++ {
		b.Append(SyntaxWild)
	}

	// the backing array moved: the old pointer is stale but the offset
	// still finds the node
	now := b.At(off)
	require.NotSame(t, first, now)
	require.Equal(t, off, now.Offset())
	require.Equal(t, SyntaxLiteral, now.Type)
	require.Equal(t, []rune("x"), now.Chars)

	for _, n := range b.Nodes() {
		require.Same(t, n, b.At(n.Offset()))
	}
}

func TestBufferInsertAfter(t *testing.T) {
	b := NewBuffer(4)
	a := b.Append(SyntaxStartmark).Offset()
	c := b.Append(SyntaxEndmark).Offset()

	mid := b.InsertAfter(a, SyntaxLiteral).Offset()
	head := b.InsertAfter(NoOffset, SyntaxAlt).Offset()
	tail := b.InsertAfter(c, SyntaxMatch).Offset()

	var got []Offset
	for _, n := range b.Nodes() {
		got = append(got, n.Offset())
	}
	require.Equal(t, []Offset{head, a, mid, c, tail}, got)
	require.Equal(t, head, b.Head())
	require.Equal(t, tail, b.Last())
	require.Equal(t, mid, b.following(a))
	require.Equal(t, head, b.following(NoOffset))
	require.Equal(t, NoOffset, b.following(tail))
}

func TestBufferInsertIntoEmpty(t *testing.T) {
	b := NewBuffer(0)
	n := b.InsertAfter(NoOffset, SyntaxWild)
	require.Equal(t, n.Offset(), b.Head())
	require.Equal(t, n.Offset(), b.Last())
	require.Nil(t, b.At(NoOffset))
}
