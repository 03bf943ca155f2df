package syntax

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackstep(t *testing.T) {
	scenarios := []struct {
		pattern string
		want    int
	}{
		{`(?<=ab)c`, 2},
		{`(?<!ab)c`, 2},
		{`(?<=a|b)c`, 1},
		{`(?<=ab|cd)`, 2},
		{`(?<=a{3})`, 3},
		{`(?<=\d{2}x)`, 3},
		{`(?<=[ab].)`, 2},
		{`(?<=(?:a|b){2})`, -1},
		{`(?<=a(?=b)c)`, 2},
		{`(?<=^a\b)`, 1},
		{`(?<=(a)b)`, 2},
		{`(?<=(?i)ab)`, 2},
	}

	for _, tt := range scenarios {
		t.Run(tt.pattern, func(t *testing.T) {
			p, err := Compile(tt.pattern, nil, 0)
			if tt.want < 0 {
				var rerr *Error
				require.ErrorAs(t, err, &rerr)
				require.Equal(t, ErrBadLookbehind, rerr.Code)
				return
			}
			require.NoError(t, err)
			bs := firstOf(p, SyntaxBackstep)
			require.NotNil(t, bs)
			require.Equal(t, tt.want, bs.Index)
		})
	}
}

func TestBackstepRejectsVariableWidth(t *testing.T) {
	patterns := []string{
		`(?<=(?:ab)*)`,
		`(?<=ab|abc)`,
		`(?<=a*)`,
		`(?<=a{1,2})`,
		`(a)(?<=\1)`,
		`(a)(?<=(?1))`,
		`(?<=[[.ch.]])`,
		`(?<=(?:ab){2})`,
	}

	for _, pattern := range patterns {
		t.Run(pattern, func(t *testing.T) {
			_, err := Compile(pattern, nil, 0)
			var rerr *Error
			require.ErrorAs(t, err, &rerr)
			require.Equal(t, ErrBadLookbehind, rerr.Code)

			p, err := Compile(pattern, nil, NoExcept)
			require.NoError(t, err)
			require.Equal(t, ErrBadLookbehind, p.Status)
		})
	}
}
