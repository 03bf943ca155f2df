package syntax

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStartMap(t *testing.T) {
	scenarios := []struct {
		pattern  string
		opt      RegexOptions
		want     string // "" when every character can start a match
		nullable bool
	}{
		{`abc`, 0, "[a]", false},
		{`(?i)abc`, 0, "[Aa]", false},
		{`abc`, IgnoreCase, "[Aa]", false},
		{`[aA]`, 0, "[Aa]", false},
		{`[a]`, IgnoreCase, "[Aa]", false},
		{`[a-z]`, 0, "[a-z]", false},
		{`[a-z\x{100}]`, 0, "[a-z]", false},
		{`a|b`, 0, "[ab]", false},
		{`a+`, 0, "[a]", false},
		{`a+b`, 0, "[a]", false},
		{`a*b`, 0, "[ab]", false},
		{`(?:ab)+`, 0, "[a]", false},
		{`(a|bc)d`, 0, "[ab]", false},
		{`(a)\1`, 0, "[a]", false},
		{`x?y?`, 0, "", true},
		{`(?=a)b`, 0, "", true},
		{`\1?(a)`, 0, "", true},
		{`.`, 0, "", false},
	}

	for _, tt := range scenarios {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern, tt.opt)
			if tt.want != "" {
				require.Equal(t, tt.want, DescribeStartMap(&p.StartMap, MaskAll), p.String())
			} else {
				for i := range p.StartMap {
					require.NotZero(t, p.StartMap[i]&MaskAll, "entry %d", i)
				}
			}
			require.Equal(t, tt.nullable, p.CanBeNull != 0)
		})
	}
}

func TestStartMapRepeats(t *testing.T) {
	p := mustCompile(t, `a*`, 0)
	require.NotZero(t, p.CanBeNull)
	for i := range p.StartMap {
		require.NotZero(t, p.StartMap[i]&MaskAll)
	}
	rep := firstOf(p, SyntaxCharRep)
	require.Equal(t, "[a]", DescribeStartMap(rep.StartMap, MaskTake))
	require.Equal(t, MaskSkip, rep.CanBeNull)

	p = mustCompile(t, `a+`, 0)
	require.Zero(t, p.CanBeNull)
	require.True(t, p.StartMap['a']&MaskAll != 0)
	require.Zero(t, p.StartMap['b']&MaskAll)
}

func TestStartMapAlternation(t *testing.T) {
	p := mustCompile(t, `a|b|c`, 0)
	alt := firstOf(p, SyntaxAlt)
	require.Equal(t, "[a]", DescribeStartMap(alt.StartMap, MaskTake))
	require.Equal(t, "[bc]", DescribeStartMap(alt.StartMap, MaskSkip))
	require.NotZero(t, alt.StartMap[0]&MaskInit)
	require.Zero(t, alt.CanBeNull)

	p = mustCompile(t, `a|`, 0)
	alt = firstOf(p, SyntaxAlt)
	require.Equal(t, MaskSkip, alt.CanBeNull)
	require.NotZero(t, p.CanBeNull)
}

func TestStartMapEquivalence(t *testing.T) {
	p := mustCompile(t, `[[=a=]]`, 0)
	require.NotZero(t, p.StartMap['a']&MaskAll)
	require.NotZero(t, p.StartMap['A']&MaskAll)
	require.NotZero(t, p.StartMap[0xe1]&MaskAll, "a with acute")
	require.Zero(t, p.StartMap['b']&MaskAll)
}

func TestStartMapAnchors(t *testing.T) {
	p := mustCompile(t, `$`, 0)
	require.NotZero(t, p.CanBeNull)
	for i := range p.StartMap {
		want := i == '\n' || i == '\r' || i == '\f' || i == 0x85
		require.Equal(t, want, p.StartMap[i]&MaskAll != 0, "entry %d", i)
	}

	p = mustCompile(t, `\<.`, 0)
	require.NotZero(t, p.StartMap['a']&MaskAll)
	require.NotZero(t, p.StartMap['_']&MaskAll)
	require.Zero(t, p.StartMap[' ']&MaskAll)
	require.Zero(t, p.StartMap['-']&MaskAll)

	// a word anchor after an enclosing repeat filters only what follows it,
	// not the characters the loop back into the repeat can start with
	scenarios := []struct {
		pattern    string
		take, skip string
	}{
		{`(?:ba*)*\>-`, "[a]", "[-b]"},
		{`(?:-a*)*\<b`, "[a]", "[-b]"},
		{`(?:ba*)*\>b`, "[a]", "[b]"},
		{`(?:-a*)*\<-`, "[a]", "[-]"},
	}
	for _, tt := range scenarios {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern, 0)
			rep := firstOf(p, SyntaxCharRep)
			require.NotNil(t, rep, p.String())
			require.Equal(t, tt.take, DescribeStartMap(rep.StartMap, MaskTake))
			require.Equal(t, tt.skip, DescribeStartMap(rep.StartMap, MaskSkip))
		})
	}

	p = mustCompile(t, `(?:ba*)*\>-`, 0)
	require.Equal(t, "[-b]", DescribeStartMap(&p.StartMap, MaskAll))

	p = mustCompile(t, `\z`, 0)
	require.NotZero(t, p.CanBeNull)
	require.Equal(t, "[]", DescribeStartMap(&p.StartMap, MaskAll))

	p = mustCompile(t, `\Z`, 0)
	require.Equal(t, "[U+000AU+000D]", DescribeStartMap(&p.StartMap, MaskAll))
}

func TestStartMapLongSets(t *testing.T) {
	p := mustCompile(t, `\w`, 0)
	require.NotZero(t, p.StartMap['a']&MaskAll)
	require.NotZero(t, p.StartMap['Z']&MaskAll)
	require.NotZero(t, p.StartMap['0']&MaskAll)
	require.NotZero(t, p.StartMap['_']&MaskAll)
	require.Zero(t, p.StartMap[' ']&MaskAll)

	// digraph members make the set unanalyzable
	p = mustCompile(t, `[[.ch.]]`, 0)
	for i := range p.StartMap {
		require.NotZero(t, p.StartMap[i]&MaskAll)
	}
	require.Zero(t, p.CanBeNull)
}

func TestStartMapRecursion(t *testing.T) {
	p := mustCompile(t, `(a|(?1)b)`, 0)
	require.Equal(t, "[a]", DescribeStartMap(&p.StartMap, MaskAll))

	p = mustCompile(t, `(?+1)(b)`, 0)
	require.Equal(t, "[b]", DescribeStartMap(&p.StartMap, MaskAll))
}

func TestRestartType(t *testing.T) {
	scenarios := []struct {
		pattern string
		want    RestartType
	}{
		{`a`, RestartAny},
		{`^a`, RestartLine},
		{`(^a)`, RestartLine},
		{`\<a`, RestartWord},
		{`\Aa`, RestartBuf},
		{`\Ga`, RestartContinue},
		{`a^`, RestartAny},
		{`\ba`, RestartAny},
	}

	for _, tt := range scenarios {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern, 0)
			require.Equal(t, tt.want, p.RestartType)
		})
	}

	require.Equal(t, "line", RestartLine.String())
	require.Equal(t, "unknown", RestartType(99).String())
}

func TestLeadingRepeat(t *testing.T) {
	scenarios := []struct {
		pattern string
		typ     SyntaxType
		leading bool
	}{
		{`.*foo`, SyntaxDotRep, true},
		{`a*b`, SyntaxCharRep, true},
		{`^[ab]+`, SyntaxShortSetRep, true},
		{`(\d*)x`, SyntaxLongSetRep, true},
		{`(?=x)a*`, SyntaxCharRep, true},
		{`b.*`, SyntaxDotRep, false},
		{`.*(a)\1`, SyntaxDotRep, false},
		{`(?:ab)*`, SyntaxRep, false},
	}

	for _, tt := range scenarios {
		t.Run(tt.pattern, func(t *testing.T) {
			p := mustCompile(t, tt.pattern, 0)
			rep := firstOf(p, tt.typ)
			require.NotNil(t, rep)
			require.Equal(t, tt.leading, rep.Leading)
		})
	}
}

func TestRepeatAnalysisCap(t *testing.T) {
	inner := func(p *Program) *Node {
		for _, n := range p.Nodes() {
			if n.Type == SyntaxCharRep && string(n.Next.Chars) == "y" {
				return n
			}
		}
		return nil
	}

	// leaving y* falls back into the enclosing repeat before its map
	// is known
	p := mustCompile(t, `(?:y*)*w`, 0)
	rep := inner(p)
	require.Equal(t, "[wy]", DescribeStartMap(rep.StartMap, MaskSkip))
	require.Zero(t, rep.CanBeNull&MaskSkip)

	// past the cap the enclosing repeat is assumed to match anything
	p = mustCompile(t, strings.Repeat("x*", maxRepeatAnalysis)+`(?:y*)*w`, 0)
	rep = inner(p)
	require.Equal(t, maxRepeatAnalysis+1, rep.StateID)
	for i := range rep.StartMap {
		require.NotZero(t, rep.StartMap[i]&MaskSkip, "entry %d", i)
	}
	require.NotZero(t, rep.CanBeNull&MaskSkip)
}
