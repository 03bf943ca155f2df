package syntax

import (
	"math"
)

// calculateBackstep returns the fixed number of characters matched from
// state up to the end of the enclosing lookbehind, or -1 when that
// width is variable or cannot be worked out.
func calculateBackstep(state *Node) int {
	result := 0
	for state != nil {
		switch state.Type {
		case SyntaxStartmark:
			switch state.Index {
			case IndexAssertPositive, IndexAssertNegative:
				// nested assertions are zero width
				state = state.Next.Alt.Next
				continue
			case IndexIndependent:
				state = state.Next.Next
				continue
			}

		case SyntaxEndmark:
			if state.Index == IndexAssertPositive || state.Index == IndexAssertNegative {
				return result
			}

		case SyntaxLiteral:
			result += len(state.Chars)

		case SyntaxWild, SyntaxSet:
			result++

		case SyntaxLongSet:
			if !state.Set.Singleton {
				return -1
			}
			result++

		case SyntaxRep, SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep, SyntaxLongSetRep:
			state.Type = getRepeatType(state)
			switch state.Type {
			case SyntaxLongSetRep:
				if !state.Next.Set.Singleton {
					return -1
				}
			case SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep:
			default:
				return -1
			}
			if state.Max != state.Min {
				return -1
			}
			if math.MaxInt32-result < state.Min {
				return -1
			}
			result += state.Min
			state = state.Alt
			continue

		case SyntaxJump:
			state = state.Alt
			continue

		case SyntaxAlt:
			r1 := calculateBackstep(state.Next)
			r2 := calculateBackstep(state.Alt)
			if r1 < 0 || r1 != r2 {
				return -1
			}
			return result + r1

		case SyntaxStartLine, SyntaxEndLine, SyntaxWordBoundary, SyntaxWithinWord,
			SyntaxWordStart, SyntaxWordEnd, SyntaxBufferStart, SyntaxBufferEnd,
			SyntaxSoftBufferEnd, SyntaxRestartContinue, SyntaxToggleCase,
			SyntaxBackstep, SyntaxCommit, SyntaxFail:
			// zero width

		default:
			// backreferences, recursion and anything else of unknown width
			return -1
		}
		state = state.Next
	}
	return -1
}
