package syntax

// RestartType tells a matcher how to look for the next place a failed
// search can resume.
type RestartType int

const (
	RestartAny      RestartType = iota // try every position
	RestartWord                        // only at the start of a word
	RestartLine                        // only at the start of a line
	RestartBuf                         // only at the start of the input
	RestartContinue                    // only where the last match ended
)

func (r RestartType) String() string {
	switch r {
	case RestartAny:
		return "any"
	case RestartWord:
		return "word"
	case RestartLine:
		return "line"
	case RestartBuf:
		return "buffer"
	case RestartContinue:
		return "continue"
	}
	return "unknown"
}

// getRestartType classifies the program by the first anchor it must
// match, looking through group boundaries.
func getRestartType(state *Node) RestartType {
	for state != nil {
		switch state.Type {
		case SyntaxStartmark, SyntaxEndmark:
			state = state.Next
		case SyntaxStartLine:
			return RestartLine
		case SyntaxWordStart:
			return RestartWord
		case SyntaxBufferStart:
			return RestartBuf
		case SyntaxRestartContinue:
			return RestartContinue
		default:
			return RestartAny
		}
	}
	return RestartAny
}

// probeLeadingRepeat marks a single-character repeat that every match
// must start with as Leading, so a failed search can resume after the
// characters it consumed. Backreferences could observe those characters,
// so nothing is marked when the program has any.
func probeLeadingRepeat(state *Node, hasBackrefs bool) {
	for state != nil {
		switch state.Type {
		case SyntaxStartmark:
			switch {
			case state.Index >= 0:
				state = state.Next
			case state.Index == IndexAssertPositive || state.Index == IndexAssertNegative:
				state = state.Next.Alt.Next
			case state.Index == IndexIndependent:
				state = state.Next.Next
			default:
				return
			}

		case SyntaxEndmark, SyntaxStartLine, SyntaxEndLine, SyntaxWordBoundary, SyntaxWithinWord,
			SyntaxWordStart, SyntaxWordEnd, SyntaxBufferStart, SyntaxBufferEnd, SyntaxRestartContinue:
			state = state.Next

		case SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep, SyntaxLongSetRep:
			if !hasBackrefs {
				state.Leading = true
			}
			return

		default:
			return
		}
	}
}
