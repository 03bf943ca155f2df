/*
Package reprog compiles Perl-style regular expressions into relocatable
node programs for a backtracking matcher.

A compiled program is a graph of syntax nodes together with the data a
matcher uses to avoid work: a first-character map for the whole pattern
and for every alternation and repeat, the width of each lookbehind, how
a failed search may restart, and which repeats can be skipped past on
restart. Matching itself is left to the consumer of the program.
*/
package reprog

import (
	"strconv"

	"golang.org/x/text/language"

	"github.com/dlclark/reprog/syntax"
)

// Regexp is a compiled regular expression program.
// A Regexp is immutable and safe for concurrent use.
type Regexp struct {
	// read-only after Compile
	pattern string       // as passed to Compile
	options RegexOptions // options

	prog *syntax.Program
}

// Compile parses a regular expression and returns, if successful, its
// program. With NoExcept a failed compile returns a Regexp whose Status
// reports the failure, and a nil error.
func Compile(expr string, opt RegexOptions) (*Regexp, error) {
	return CompileWithTraits(expr, opt, nil)
}

// CompileLocale is like Compile, collating according to tag.
func CompileLocale(expr string, opt RegexOptions, tag language.Tag) (*Regexp, error) {
	return CompileWithTraits(expr, opt, syntax.NewTraits(tag))
}

// CompileWithTraits is like Compile using traits for character
// classification and collation. A nil traits uses syntax.Default.
func CompileWithTraits(expr string, opt RegexOptions, traits syntax.Traits) (*Regexp, error) {
	prog, err := syntax.Compile(expr, traits, syntax.RegexOptions(opt))
	if err != nil {
		return nil, err
	}

	return &Regexp{
		pattern: expr,
		options: opt,
		prog:    prog,
	}, nil
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
// It simplifies safe initialization of global variables holding compiled regular
// expressions.
func MustCompile(str string, opt RegexOptions) *Regexp {
	regexp, error := Compile(str, opt)
	if error != nil {
		panic(`reprog: Compile(` + quote(str) + `): ` + error.Error())
	}
	return regexp
}

// String returns the source text used to compile the regular expression.
func (re *Regexp) String() string {
	return re.pattern
}

// Program returns the compiled program.
func (re *Regexp) Program() *syntax.Program {
	return re.prog
}

// Status is the failure recorded for a NoExcept compile, or "".
func (re *Regexp) Status() syntax.ErrorCode {
	return re.prog.Status
}

// NumSubexp returns the number of capture groups.
func (re *Regexp) NumSubexp() int {
	return re.prog.MarkCount
}

// SubexpIndex returns the index of the named group, or -1.
func (re *Regexp) SubexpIndex(name string) int {
	if i, ok := re.prog.Names[name]; ok {
		return i
	}
	return -1
}

// FirstChars reports whether a match can start with the character c,
// and whether the pattern can match the empty string.
func (re *Regexp) FirstChars(c byte) (possible, nullable bool) {
	return re.prog.StartMap[c]&syntax.MaskAll != 0, re.prog.CanBeNull != 0
}

func quote(s string) string {
	if strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}

type RegexOptions int32

const (
	IgnoreCase RegexOptions = RegexOptions(syntax.IgnoreCase) // "i"
	Singleline RegexOptions = RegexOptions(syntax.Singleline) // "s"
	Debug      RegexOptions = RegexOptions(syntax.Debug)      // "d"
	Collate    RegexOptions = RegexOptions(syntax.Collate)
	NoExcept   RegexOptions = RegexOptions(syntax.NoExcept)
)

func (re *Regexp) Debug() bool {
	return re.options&Debug != 0
}
