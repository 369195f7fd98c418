// Package translate converts a single line of a gitignore-style pattern
// file into an anchored regular expression, following the textual
// translation rules git itself implements for .gitignore matching:
// comments and blank lines produce no rule, a leading "!" negates, a
// trailing "/" restricts the rule to directories, and "*", "?", "[...]"
// and the various forms of "**" are expanded into their regex
// equivalents.
//
// The translator never walks a filesystem and never inspects more than
// one pattern line at a time; composing many translated patterns into a
// ruleset that can decide whether a path is ignored is the job of the
// parent gitmatch package.
package translate

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dlclark/regexp2"

	"github.com/jwodder/gitmatch/internal/text"
)

// Regex is the result of translating one gitignore pattern line: a
// regular expression source plus the flags that control how a Rule
// compiled from it participates in matching.
type Regex struct {
	// Pattern is the pattern text after trailing-whitespace trimming,
	// before negation or directory-only markers are stripped. Retained
	// for diagnostics (e.g. Ruleset.Patterns).
	Pattern string
	// Source is the translated, fully anchored regular expression.
	Source string
	// Negative is true if the original line began with an unescaped "!".
	Negative bool
	// DirOnly is true if the original line (after de-negation) ended in
	// an unescaped "/".
	DirOnly bool
	// IgnoreCase is the case-folding flag this Regex was translated with.
	IgnoreCase bool
}

// Compile compiles r.Source into a ready-to-use matcher. The returned
// expression performs a full-string match against a single path segment
// chain; callers should use MatchString rather than FindStringMatch.
func (r *Regex) Compile() (*regexp2.Regexp, error) {
	opts := regexp2.None
	if r.IgnoreCase {
		opts |= regexp2.IgnoreCase
	}

	re, err := regexp2.Compile(r.Source, opts)
	if err != nil {
		return nil, fmt.Errorf("gitmatch: compiling pattern %q: %w", r.Pattern, err)
	}

	return re, nil
}

// InvalidPatternError reports a pattern line that could not be translated
// into a regular expression: an unterminated character class, an empty
// or out-of-order range, an unknown POSIX class name, a dangling
// backslash, or an embedded NUL byte.
type InvalidPatternError struct {
	// Pattern is the original, untrimmed pattern line.
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("invalid gitignore pattern: %q", e.Pattern)
}

// posixClasses maps POSIX character class names, as used inside
// "[[:name:]]", to the regex character-class body they expand to.
var posixClasses = map[string]string{
	"alpha":  `A-Za-z`,
	"alnum":  `A-Za-z0-9`,
	"blank":  " \t",
	"cntrl":  "\x00-\x1f\x7f",
	"digit":  `0-9`,
	"graph":  `!-~`,
	"lower":  `a-z`,
	"print":  ` -~`,
	"punct":  "!-/:-@[-`{-~",
	"space":  "\t\n\r ",
	"upper":  `A-Z`,
	"xdigit": `0-9A-Fa-f`,
}

// Fixed regex fragments used by the tokenizer below. "\x00" stands in for
// a NUL byte, which can never legally occur in a path and is excluded
// from every "any character" class for the same reason "/" is.
const (
	unanchoredPrefix   = `(?:[^/\x00]+/)*`
	slashGlobstar      = `(?:(?:/[^/\x00]+)+/?|/)`
	slashGlobstarSlash = `/(?:[^/\x00]+/)*`
	globstarSlash      = `(?:[^/\x00]*/)?(?:[^/\x00]+/)*`
	questionMark       = `[^/\x00]`
	star               = `[^/\x00]*`
	openRange          = `(?![/\x00])[`
)

// metaChars is the set of ASCII characters that need backslash-escaping
// to appear literally in the translated regex.
const metaChars = `\.+*?()|[]{}^$-`

// Translate converts one line of a gitignore-style pattern file into a
// Regex. It returns (nil, nil) for a line that produces no rule at all:
// empty after trailing-whitespace trimming, a comment ("#..."), a bare
// "!", or a pattern that becomes empty once its directory-only marker is
// stripped. It returns a non-nil error of type *InvalidPatternError if
// pattern is syntactically malformed.
func Translate(pattern string, ignorecase bool) (*Regex, error) {
	orig := pattern
	trimmed := text.TrimTrailingSpaces(pattern)

	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return nil, nil
	}

	rest := trimmed

	negative := false
	if strings.HasPrefix(rest, "!") {
		negative = true
		rest = rest[1:]

		if rest == "" {
			return nil, nil
		}
	}

	dirOnly := false
	if strings.HasSuffix(rest, "/") {
		dirOnly = true
		rest = rest[:len(rest)-1]
	}

	if rest == "" {
		return nil, nil
	}

	var body strings.Builder

	pos := 0

	switch {
	case leadingGlobstarLen(rest) > 0:
		body.WriteString(unanchoredPrefix)
		pos = leadingGlobstarLen(rest)
	case !strings.Contains(rest, "/"):
		body.WriteString(unanchoredPrefix)
	case strings.HasPrefix(rest, "/"):
		pos = 1
	}

	for pos < len(rest) {
		next, err := emitToken(rest, pos, &body)
		if err != nil {
			return nil, &InvalidPatternError{Pattern: orig}
		}

		pos = next
	}

	return &Regex{
		Pattern:    trimmed,
		Source:     `\A(?:` + body.String() + `)\z`,
		Negative:   negative,
		DirOnly:    dirOnly,
		IgnoreCase: ignorecase,
	}, nil
}

// leadingGlobstarLen returns the number of bytes occupied by a run of one
// or more leading "**/" segments at the start of s, or 0 if s has none.
func leadingGlobstarLen(s string) int {
	n := 0
	for strings.HasPrefix(s[n:], "**/") {
		n += 3
	}

	return n
}

// emitToken consumes one token from s starting at pos, writes its regex
// translation to body, and returns the position just past the token.
func emitToken(s string, pos int, body *strings.Builder) (int, error) {
	switch s[pos] {
	case '/':
		if rest := s[pos:]; strings.HasPrefix(rest, "/**") {
			if pos+3 == len(s) {
				body.WriteString(slashGlobstar)
				return pos + 3, nil
			}

			j := pos + 3
			for strings.HasPrefix(s[j:], "/**") {
				j += 3
			}

			if j < len(s) && s[j] == '/' {
				body.WriteString(slashGlobstarSlash)
				return j + 1, nil
			}
		}

		body.WriteByte('/')

		return pos + 1, nil
	case '*':
		if strings.HasPrefix(s[pos:], "**/") {
			j := pos + 3
			for strings.HasPrefix(s[j:], "**/") {
				j += 3
			}

			body.WriteString(globstarSlash)

			return j, nil
		}

		n := 1
		if pos+1 < len(s) && s[pos+1] == '*' {
			n = 2
		}

		body.WriteString(star)

		return pos + n, nil
	case '?':
		body.WriteString(questionMark)
		return pos + 1, nil
	case '[':
		return emitClass(s, pos+1, body)
	case '\\':
		if pos+1 >= len(s) {
			return 0, errTranslate
		}

		r, size := utf8.DecodeRuneInString(s[pos+1:])
		if r == 0 {
			return 0, errTranslate
		}

		body.WriteString(escapeRune(r))

		return pos + 1 + size, nil
	default:
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == 0 {
			return 0, errTranslate
		}

		body.WriteString(escapeRune(r))

		return pos + size, nil
	}
}

// errTranslate is a local sentinel used only to unwind emitToken/emitClass;
// Translate always replaces it with an InvalidPatternError carrying the
// original pattern text before returning to its caller.
var errTranslate = fmt.Errorf("gitmatch/translate: malformed pattern")

// emitClass consumes a character class body, starting just after the
// opening "[", writes its regex translation (including the opening
// lookahead and the closing "]") to body, and returns the position just
// past the closing "]".
func emitClass(s string, pos int, body *strings.Builder) (int, error) {
	body.WriteString(openRange)

	if pos >= len(s) {
		return 0, errTranslate
	}

	if s[pos] == '^' || s[pos] == '!' {
		body.WriteByte('^')
		pos++
	}

	if pos < len(s) && s[pos] == ']' {
		startsRange := pos+2 < len(s) && s[pos+1] == '-' && s[pos+2] != ']'
		if !startsRange {
			body.WriteString(escapeRune(']'))
			pos++
		} else {
			yEnd, yRune, ok := classToken(s, pos+2)
			if !ok {
				return 0, errTranslate
			}

			if ']' > yRune {
				return 0, errTranslate
			}

			body.WriteString(escapeRune(']'))
			body.WriteByte('-')
			body.WriteString(escapeRune(yRune))

			pos = yEnd
		}
	}

	for {
		if pos >= len(s) {
			return 0, errTranslate
		}

		if s[pos] == ']' {
			body.WriteByte(']')
			return pos + 1, nil
		}

		if s[pos] == '[' && pos+1 < len(s) && s[pos+1] == ':' {
			// A posix class name can't itself contain "]", so if a bare "]"
			// appears before the closing ":]" this isn't a posix class at
			// all; fall through and treat "[" as a literal class member.
			closeBracket := strings.IndexByte(s[pos+2:], ']')
			closeClass := strings.Index(s[pos+2:], ":]")

			if closeClass >= 0 && closeClass == closeBracket-1 {
				name := s[pos+2 : pos+2+closeClass]

				expansion, ok := posixClasses[name]
				if !ok {
					return 0, errTranslate
				}

				body.WriteString(expansion)
				pos = pos + 2 + closeClass + 2

				continue
			}
		}

		xEnd, xRune, ok := classToken(s, pos)
		if !ok {
			return 0, errTranslate
		}

		if xEnd < len(s) && s[xEnd] == '-' && xEnd+1 < len(s) && s[xEnd+1] != ']' {
			yEnd, yRune, ok2 := classToken(s, xEnd+1)
			if !ok2 {
				return 0, errTranslate
			}

			if xRune > yRune {
				return 0, errTranslate
			}

			body.WriteString(escapeRune(xRune))
			body.WriteByte('-')
			body.WriteString(escapeRune(yRune))

			pos = yEnd

			continue
		}

		body.WriteString(escapeRune(xRune))
		pos = xEnd
	}
}

// classToken reads one character-class member at pos: either a
// backslash escape or a single rune. It fails at end of input, on a
// dangling backslash, or on an embedded NUL byte.
func classToken(s string, pos int) (end int, r rune, ok bool) {
	if pos >= len(s) {
		return pos, 0, false
	}

	if s[pos] == '\\' {
		if pos+1 >= len(s) {
			return pos, 0, false
		}

		rr, size := utf8.DecodeRuneInString(s[pos+1:])
		if rr == 0 {
			return pos, 0, false
		}

		return pos + 1 + size, rr, true
	}

	rr, size := utf8.DecodeRuneInString(s[pos:])
	if rr == 0 {
		return pos, 0, false
	}

	return pos + size, rr, true
}

// escapeRune renders r as a regex-safe literal.
func escapeRune(r rune) string {
	if r < utf8.RuneSelf && strings.ContainsRune(metaChars, r) {
		return "\\" + string(r)
	}

	return string(r)
}
