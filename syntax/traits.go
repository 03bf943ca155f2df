package syntax

import (
	"sync"
	"unicode"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ClassMask is a set of character classes such as [:alpha:] or \w.
type ClassMask uint32

const (
	ClassSpace ClassMask = 1 << iota
	ClassPrint
	ClassCntrl
	ClassUpper
	ClassLower
	ClassAlpha
	ClassDigit
	ClassPunct
	ClassXDigit
	ClassBlank
	ClassWord
	ClassUnicode
	ClassHorizontal
	ClassVertical

	ClassAlnum = ClassAlpha | ClassDigit
	ClassGraph = ClassAlnum | ClassPunct
)

var classNames = map[string]ClassMask{
	"alnum":      ClassAlnum,
	"alpha":      ClassAlpha,
	"blank":      ClassBlank,
	"cntrl":      ClassCntrl,
	"d":          ClassDigit,
	"digit":      ClassDigit,
	"graph":      ClassGraph,
	"h":          ClassHorizontal,
	"horizontal": ClassHorizontal,
	"l":          ClassLower,
	"lower":      ClassLower,
	"print":      ClassPrint,
	"punct":      ClassPunct,
	"s":          ClassSpace,
	"space":      ClassSpace,
	"u":          ClassUpper,
	"unicode":    ClassUnicode,
	"upper":      ClassUpper,
	"v":          ClassVertical,
	"vertical":   ClassVertical,
	"w":          ClassWord,
	"word":       ClassWord,
	"xdigit":     ClassXDigit,
}

// Traits supplies the locale-dependent services the compiler needs.
//
// Transform and TransformPrimary return sort keys: two strings compare
// in collation order exactly when their keys compare rune by rune. Keys
// never contain a zero rune, so they can be stored 0-terminated.
type Traits interface {
	// Translate maps c to its canonical form, folding case when icase is set.
	Translate(c rune, icase bool) rune
	IsCType(c rune, m ClassMask) bool
	// LookupClassname returns zero if name is not a known class.
	LookupClassname(name string) ClassMask
	Transform(s []rune) []rune
	TransformPrimary(s []rune) []rune
	// ToInt returns the value of digit c in radix, or -1.
	ToInt(c rune, radix int) int
}

// DefaultTraits implements Traits with the unicode tables and
// golang.org/x/text collation for the configured language.
// It is safe for concurrent use.
type DefaultTraits struct {
	tag     language.Tag
	full    sync.Pool
	primary sync.Pool
}

// pooledCollator pairs a Collator with its key buffer; neither can be
// shared between goroutines.
type pooledCollator struct {
	col *collate.Collator
	buf *collate.Buffer
}

// NewTraits returns traits collating according to tag.
func NewTraits(tag language.Tag) *DefaultTraits {
	t := &DefaultTraits{tag: tag}
	t.full.New = func() interface{} {
		return &pooledCollator{col: collate.New(tag), buf: new(collate.Buffer)}
	}
	// Loose drops everything below the primary level: case, accents
	// and width all compare equal.
	t.primary.New = func() interface{} {
		return &pooledCollator{col: collate.New(tag, collate.Loose), buf: new(collate.Buffer)}
	}
	return t
}

var defaultTraits = NewTraits(language.English)

// Default returns the shared English traits.
func Default() *DefaultTraits {
	return defaultTraits
}

// Language returns the collation language.
func (t *DefaultTraits) Language() language.Tag {
	return t.tag
}

func (t *DefaultTraits) Translate(c rune, icase bool) rune {
	if icase {
		return unicode.ToLower(c)
	}
	return c
}

func (t *DefaultTraits) IsCType(c rune, m ClassMask) bool {
	if m&ClassSpace != 0 && unicode.IsSpace(c) {
		return true
	}
	if m&ClassPrint != 0 && unicode.IsPrint(c) {
		return true
	}
	if m&ClassCntrl != 0 && unicode.IsControl(c) {
		return true
	}
	if m&ClassUpper != 0 && unicode.IsUpper(c) {
		return true
	}
	if m&ClassLower != 0 && unicode.IsLower(c) {
		return true
	}
	if m&ClassAlpha != 0 && unicode.IsLetter(c) {
		return true
	}
	if m&ClassDigit != 0 && unicode.IsDigit(c) {
		return true
	}
	if m&ClassPunct != 0 && (unicode.IsPunct(c) || unicode.IsSymbol(c)) {
		return true
	}
	if m&ClassXDigit != 0 && t.ToInt(c, 16) >= 0 {
		return true
	}
	if m&ClassBlank != 0 && (c == ' ' || c == '\t') {
		return true
	}
	if m&ClassWord != 0 && IsWordChar(c) {
		return true
	}
	if m&ClassUnicode != 0 && c > 0xff {
		return true
	}
	if m&ClassHorizontal != 0 && unicode.IsSpace(c) && !isVerticalSpace(c) {
		return true
	}
	if m&ClassVertical != 0 && isVerticalSpace(c) {
		return true
	}
	return false
}

func isVerticalSpace(c rune) bool {
	switch c {
	case '\n', '\v', '\f', '\r', 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// IsWordChar reports whether r is a letter, digit, underscore or joiner.
func IsWordChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Pc, r)
}

func (t *DefaultTraits) LookupClassname(name string) ClassMask {
	return classNames[name]
}

func (t *DefaultTraits) Transform(s []rune) []rune {
	return sortKey(&t.full, s)
}

func (t *DefaultTraits) TransformPrimary(s []rune) []rune {
	return sortKey(&t.primary, s)
}

// sortKey widens each key byte b to the rune b+1, which keeps the order
// and leaves zero free as a terminator.
func sortKey(pool *sync.Pool, s []rune) []rune {
	pc := pool.Get().(*pooledCollator)
	defer pool.Put(pc)

	key := pc.col.KeyFromString(pc.buf, string(s))
	out := make([]rune, len(key))
	for i, b := range key {
		out[i] = rune(b) + 1
	}
	pc.buf.Reset()
	return out
}

func (t *DefaultTraits) ToInt(c rune, radix int) int {
	var v int
	switch {
	case c >= '0' && c <= '9':
		v = int(c - '0')
	case c >= 'a' && c <= 'z':
		v = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		v = int(c-'A') + 10
	default:
		return -1
	}
	if v >= radix {
		return -1
	}
	return v
}
