package syntax

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestTranslate(t *testing.T) {
	tr := Default()
	require.Equal(t, 'A', tr.Translate('A', false))
	require.Equal(t, 'a', tr.Translate('A', true))
	require.Equal(t, 'é', tr.Translate('É', true))
	require.Equal(t, '1', tr.Translate('1', true))
}

func TestIsCType(t *testing.T) {
	tr := Default()
	tests := []struct {
		c    rune
		m    ClassMask
		want bool
	}{
		{'a', ClassLower, true},
		{'A', ClassLower, false},
		{'A', ClassUpper | ClassLower, true},
		{'7', ClassDigit, true},
		{'f', ClassXDigit, true},
		{'g', ClassXDigit, false},
		{'_', ClassWord, true},
		{'-', ClassWord, false},
		{'-', ClassPunct, true},
		{'\t', ClassBlank, true},
		{'\n', ClassBlank, false},
		{'\n', ClassVertical, true},
		{'\n', ClassHorizontal, false},
		{' ', ClassHorizontal, true},
		{0x100, ClassUnicode, true},
		{'z', ClassUnicode, false},
		{0x7, ClassCntrl, true},
		{'x', ClassGraph, true},
		{' ', ClassGraph, false},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tr.IsCType(tt.c, tt.m), "%q %#x", tt.c, tt.m)
	}
}

func TestLookupClassname(t *testing.T) {
	tr := Default()
	require.Equal(t, ClassAlnum, tr.LookupClassname("alnum"))
	require.Equal(t, ClassDigit, tr.LookupClassname("d"))
	require.Zero(t, tr.LookupClassname("nope"))
}

func TestToInt(t *testing.T) {
	tr := Default()
	require.Equal(t, 7, tr.ToInt('7', 8))
	require.Equal(t, -1, tr.ToInt('8', 8))
	require.Equal(t, 15, tr.ToInt('F', 16))
	require.Equal(t, -1, tr.ToInt('g', 16))
	require.Equal(t, -1, tr.ToInt('-', 10))
}

func TestSortKeys(t *testing.T) {
	tr := Default()
	require.Equal(t, language.English, tr.Language())

	a, A, b := tr.Transform([]rune("a")), tr.Transform([]rune("A")), tr.Transform([]rune("b"))
	require.NotEqual(t, a, A)
	require.Negative(t, compareRunes(a, b))
	require.Negative(t, compareRunes(A, b))

	pa := tr.TransformPrimary([]rune("a"))
	require.NotEmpty(t, pa)
	require.Equal(t, pa, tr.TransformPrimary([]rune("A")))
	require.Equal(t, pa, tr.TransformPrimary([]rune("á")))
	require.NotEqual(t, pa, tr.TransformPrimary([]rune("b")))

	for _, k := range [][]rune{a, A, b, pa} {
		require.NotContains(t, k, rune(0))
	}
}

func TestSortKeysConcurrent(t *testing.T) {
	tr := NewTraits(language.German)
	want := tr.Transform([]rune("straße"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := tr.Transform([]rune("straße")); !equalRunes(got, want) {
					t.Errorf("key changed under concurrency: %v != %v", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func compareRunes(a, b []rune) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return int(a[i]) - int(b[i])
		}
	}
	return len(a) - len(b)
}

func equalRunes(a, b []rune) bool {
	return compareRunes(a, b) == 0
}
