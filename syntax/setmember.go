package syntax

import (
	"slices"
)

// payloadReader walks the 0-terminated runs of a LongSet payload.
type payloadReader struct {
	p   []rune
	pos int
}

func (r *payloadReader) run() []rune {
	start := r.pos
	for r.pos < len(r.p) && r.p[r.pos] != 0 {
		r.pos++
	}
	s := r.p[start:r.pos]
	r.pos++ // terminator
	return s
}

// LongSetMatch reports how many characters at the start of in are
// matched by s: 0 for no match, 1 for most matches, 2 when a digraph
// member matched.
func LongSetMatch(t Traits, s *LongSet, in []rune, icase, collate bool) int {
	if len(in) == 0 {
		return 0
	}

	hit := func(n int) int {
		if s.IsNot {
			return 0
		}
		return n
	}

	r := &payloadReader{p: s.Payload}
	for i := 0; i < s.Singles; i++ {
		single := r.run()
		if len(single) == 0 {
			// the NUL character
			if t.Translate(in[0], icase) == 0 {
				return hit(1)
			}
			continue
		}
		if len(single) > len(in) {
			continue
		}
		matched := true
		for j, c := range single {
			if t.Translate(in[j], icase) != c {
				matched = false
				break
			}
		}
		if matched {
			return hit(len(single))
		}
	}

	col := t.Translate(in[0], icase)

	if s.Ranges > 0 {
		key := []rune{col}
		if collate {
			key = t.Transform(key)
		}
		for i := 0; i < s.Ranges; i++ {
			lo, hi := r.run(), r.run()
			if slices.Compare(key, lo) >= 0 && slices.Compare(key, hi) <= 0 {
				return hit(1)
			}
		}
	}

	if s.Equivalents > 0 {
		key := t.TransformPrimary([]rune{col})
		for i := 0; i < s.Equivalents; i++ {
			if slices.Equal(key, r.run()) {
				return hit(1)
			}
		}
	}

	if s.Classes != 0 && t.IsCType(col, s.Classes) {
		return hit(1)
	}
	if s.NegatedClasses != 0 && !t.IsCType(col, s.NegatedClasses) {
		return hit(1)
	}

	if s.IsNot {
		return 1
	}
	return 0
}
