package syntax

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDump(t *testing.T) {
	p := mustCompile(t, `(?<w>a|b)c*`, 0)
	buf := &bytes.Buffer{}
	p.Dump(buf)
	out := buf.String()

	for _, want := range []string{
		"Expression:   \"(?<w>a|b)c*\"\n",
		"Marks:        1\n",
		"Restart:      any\n",
		"Can be null:  false\n",
		"First chars:  [ab]\n",
		"   1\tw\n",
		"Alt",
		"Literal \"a\"",
		"CharRep {0,}",
		"take [a] skip [b] state=0",
	} {
		require.Contains(t, out, want)
	}
	require.Equal(t, out, p.String())
}

func TestDumpFailure(t *testing.T) {
	p, err := Compile(`(a`, nil, NoExcept)
	require.NoError(t, err)
	out := p.String()
	require.Contains(t, out, "Status:       "+string(ErrMissingParen))
	require.NotContains(t, out, "Index")
}

func TestDescription(t *testing.T) {
	scenarios := []struct {
		pattern string
		typ     SyntaxType
		want    string
	}{
		{`xa{2,5}?`, SyntaxCharRep, "CharRep {2,5} lazy"},
		{`.*x`, SyntaxDotRep, "DotRep {0,} leading"},
		{`(a)\1`, SyntaxBackref, "Backref 1"},
		{`(?<n>a)\k<n>`, SyntaxBackref, "Backref <n>"},
		{`(?i)a`, SyntaxToggleCase, "ToggleCase (?i)"},
		{`[a-c\\]`, SyntaxSet, "Set [\\\\a-c]"},
		{`[^\w]`, SyntaxLongSet, "LongSet singles=0 ranges=0 equivs=0 classes=0x400 nclasses=0x0 not singleton"},
		{`(?<=ab)`, SyntaxBackstep, "Backstep 2"},
	}

	for _, tt := range scenarios {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern, 0)
			n := firstOf(p, tt.typ)
			require.NotNil(t, n)
			require.Equal(t, tt.want, n.Description())
		})
	}

	require.True(t, strings.HasPrefix(SyntaxType(99).String(), "SyntaxType("))
}
