package syntax

import (
	"slices"
)

// Start map bits. A choice point (alt or repeat) keeps one byte per
// character: MaskTake if the character can start its first path,
// MaskSkip if it can start its second. MaskInit in entry 0 records that
// the map has been computed.
const (
	MaskTake uint8 = 1
	MaskSkip uint8 = 2
	MaskInit uint8 = 4
	MaskAny        = MaskTake | MaskSkip
	MaskAll        = MaskAny
)

// maxRepeatAnalysis bounds how many repeats the analyzer tracks; repeats
// numbered above it are assumed unanalyzable.
const maxRepeatAnalysis = 64

// analyzer holds the state of the start map analysis for one program.
type analyzer struct {
	traits        Traits
	icase         bool
	collate       bool
	first         *Node
	hasRecursions bool
	markCount     int

	// repeats already entered on the current walk, by StateID
	badRepeats uint64
	// per group: 1 = being recursed into, 2 = continuation after the
	// group end already analyzed
	recursionChecks []uint8
}

func newAnalyzer(c *Creator) *analyzer {
	return &analyzer{
		traits:        c.traits,
		icase:         c.flags&IgnoreCase != 0,
		collate:       c.flags&Collate != 0,
		first:         c.buf.At(c.buf.Head()),
		hasRecursions: c.hasRecursions,
		markCount:     c.markCount,
	}
}

func (a *analyzer) resetChecks() {
	if !a.hasRecursions {
		return
	}
	a.recursionChecks = make([]uint8, 1+a.markCount)
}

type pendingChoice struct {
	icase bool
	node  *Node
}

// createStartmaps computes the start map of every choice point reachable
// from state and works out each lookbehind width. Later choice points are
// done first so earlier ones can reuse their maps.
func (a *analyzer) createStartmaps(state *Node) *Error {
	icase := a.icase
	defer func() { a.icase = icase }()

	var pending []pendingChoice
	for state != nil {
		switch state.Type {
		case SyntaxToggleCase:
			a.icase = state.ICase
		case SyntaxAlt, SyntaxRep, SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep, SyntaxLongSetRep:
			pending = append(pending, pendingChoice{icase: a.icase, node: state})
		case SyntaxBackstep:
			state.Index = calculateBackstep(state.Next)
			if state.Index < 0 {
				return &Error{Code: ErrBadLookbehind}
			}
		}
		state = state.Next
	}

	for len(pending) > 0 {
		p := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		a.icase = p.icase
		n := p.node

		a.resetChecks()
		a.badRepeats = 0
		if err := a.createStartmap(n.Next, n.StartMap, &n.CanBeNull, MaskTake); err != nil {
			return err
		}
		a.badRepeats = 0

		a.resetChecks()
		if err := a.createStartmap(n.Alt, n.StartMap, &n.CanBeNull, MaskSkip); err != nil {
			return err
		}
		n.Type = getRepeatType(n)
	}
	return nil
}

// setAllMasks marks every character as a possible start.
func setAllMasks(m *[256]uint8, mask uint8) {
	if m == nil {
		return
	}
	if m[0] == 0 {
		for i := range m {
			m[i] = mask
		}
	} else {
		for i := range m {
			m[i] |= mask
		}
	}
	m[0] |= MaskInit
}

// createStartmap ORs mask into the entries of m for every character that
// can start a match beginning at state, and into *pnull if the empty
// string can match there. Either of m and pnull may be nil.
func (a *analyzer) createStartmap(state *Node, m *[256]uint8, pnull *uint8, mask uint8) *Error {
	saved := slices.Clone(a.recursionChecks)
	defer func() { a.recursionChecks = saved }()

	notLastJump := 1
	var recursionStart, recursionRestart *Node
	recursionSub := 0
	icase := a.icase

	setNull := func() {
		if pnull != nil {
			*pnull |= mask
		}
	}

	for state != nil {
		switch state.Type {
		case SyntaxToggleCase:
			icase = state.ICase
			state = state.Next

		case SyntaxLiteral:
			if m != nil {
				m[0] |= MaskInit
				first := state.Chars[0]
				for i := range m {
					if a.traits.Translate(rune(i), icase) == first {
						m[i] |= mask
					}
				}
			}
			return nil

		case SyntaxEndLine:
			if m != nil {
				m[0] |= MaskInit
				m['\n'] |= mask
				m['\r'] |= mask
				m['\f'] |= mask
				m[0x85] |= mask
			}
			// the line end itself may be the end of input
			if pnull != nil {
				return a.createStartmap(state.Next, nil, pnull, mask)
			}
			return nil

		case SyntaxRecurse:
			recursionSub = state.Alt.Index
			if a.recursionChecks[recursionSub]&1 != 0 {
				return &Error{Code: ErrInfiniteRecursion}
			}
			a.recursionChecks[recursionSub] |= 1
			if recursionStart == nil {
				recursionStart = state
				recursionRestart = state.Next
				state = state.Alt
				break
			}
			// nested recursion: give up on this path
			setNull()
			setAllMasks(m, mask)
			return nil

		case SyntaxBackref:
			setNull()
			setAllMasks(m, mask)
			return nil

		case SyntaxWild:
			setAllMasks(m, mask)
			return nil

		case SyntaxAccept, SyntaxMatch:
			setAllMasks(m, mask)
			setNull()
			return nil

		case SyntaxWordStart, SyntaxWordEnd:
			// walk into a scratch map so the filter below only touches what
			// follows the anchor
			var scratch *[256]uint8
			if m != nil {
				scratch = new([256]uint8)
			}
			if err := a.createStartmap(state.Next, scratch, pnull, mask); err != nil {
				return err
			}
			if m != nil {
				m[0] |= MaskInit
				wantWord := state.Type == SyntaxWordStart
				for i := range m {
					if a.traits.IsCType(rune(i), ClassWord) == wantWord {
						m[i] |= scratch[i] & mask
					}
				}
			}
			return nil

		case SyntaxBufferEnd:
			setNull()
			return nil

		case SyntaxLongSet:
			if m != nil {
				if state.Set.Singleton {
					m[0] |= MaskInit
					for i := range m {
						if LongSetMatch(a.traits, state.Set, []rune{rune(i)}, icase, a.collate) != 0 {
							m[i] |= mask
						}
					}
				} else {
					setAllMasks(m, mask)
				}
			}
			return nil

		case SyntaxSet:
			if m != nil {
				m[0] |= MaskInit
				for i := range m {
					t := a.traits.Translate(rune(i), icase)
					if t < 256 && state.SetMap[t] {
						m[i] |= mask
					}
				}
			}
			return nil

		case SyntaxJump:
			state = state.Alt
			notLastJump = -1

		case SyntaxAlt, SyntaxRep, SyntaxDotRep, SyntaxCharRep, SyntaxShortSetRep, SyntaxLongSetRep:
			if state.StartMap[0]&MaskInit != 0 {
				// already computed; a repeat that must run its body at least
				// once can only start the way its body does
				use := MaskAny
				if state.Type != SyntaxAlt && state.Min > 0 && notLastJump != 0 {
					use = MaskTake
				}
				if m != nil {
					m[0] |= MaskInit
					for i := range m {
						if state.StartMap[i]&use != 0 {
							m[i] |= mask
						}
					}
				}
				if state.CanBeNull&use != 0 {
					setNull()
				}
				return nil
			}
			if a.isBadRepeat(state) {
				setAllMasks(m, mask)
				setNull()
				return nil
			}
			a.setBadRepeat(state)
			if err := a.createStartmap(state.Next, m, pnull, mask); err != nil {
				return err
			}
			if state.Type == SyntaxAlt || state.Min == 0 || notLastJump == 0 {
				return a.createStartmap(state.Alt, m, pnull, mask)
			}
			return nil

		case SyntaxSoftBufferEnd:
			if m != nil {
				m[0] |= MaskInit
				m['\n'] |= mask
				m['\r'] |= mask
			}
			setNull()
			return nil

		case SyntaxEndmark:
			if state.Index < 0 {
				setAllMasks(m, mask)
				setNull()
				return nil
			}
			if recursionStart != nil && recursionSub != 0 && recursionSub == state.Index {
				// back out of the recursion
				recursionStart = nil
				state = recursionRestart
				break
			}
			// The group may be the target of a recursion, in which case what
			// follows that recursion can also come next.
			if a.hasRecursions && state.Index != 0 {
				if p := a.findRecursion(state.Index); p != nil && a.recursionChecks[state.Index]&2 == 0 {
					a.recursionChecks[state.Index] |= 2
					if err := a.createStartmap(p.Next, m, pnull, mask); err != nil {
						return err
					}
				}
			}
			state = state.Next

		case SyntaxCommit:
			setAllMasks(m, mask)
			// keep going to find out whether we can be null
			state = state.Next

		case SyntaxStartmark:
			if state.Index == IndexIndependent {
				state = state.Next.Next
				break
			}
			state = state.Next

		default:
			state = state.Next
		}
		notLastJump++
	}
	return nil
}

// findRecursion returns the first recurse node targeting group index.
func (a *analyzer) findRecursion(index int) *Node {
	for p := a.first; p != nil; p = p.Next {
		if p.Type == SyntaxRecurse && p.Alt != nil && p.Alt.Type == SyntaxStartmark && p.Alt.Index == index {
			return p
		}
	}
	return nil
}

func (a *analyzer) isBadRepeat(n *Node) bool {
	if !n.Type.IsRepeat() {
		return false
	}
	if n.StateID >= maxRepeatAnalysis {
		return true
	}
	return a.badRepeats&(uint64(1)<<uint(n.StateID)) != 0
}

func (a *analyzer) setBadRepeat(n *Node) {
	if !n.Type.IsRepeat() || n.StateID >= maxRepeatAnalysis {
		return
	}
	a.badRepeats |= uint64(1) << uint(n.StateID)
}

// getRepeatType narrows a generic repeat whose body is a single
// character matcher to the matching specialised type.
func getRepeatType(n *Node) SyntaxType {
	if n.Type != SyntaxRep {
		return n.Type
	}
	body := n.Next
	if body == nil || body.Next == nil || body.Next.Next != n.Alt {
		return n.Type
	}
	switch body.Type {
	case SyntaxWild:
		return SyntaxDotRep
	case SyntaxLiteral:
		if len(body.Chars) == 1 {
			return SyntaxCharRep
		}
	case SyntaxSet:
		return SyntaxShortSetRep
	case SyntaxLongSet:
		if body.Set.Singleton {
			return SyntaxLongSetRep
		}
	}
	return n.Type
}
