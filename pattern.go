// Package gitmatch implements gitignore-style pattern matching: compiling
// a list of pattern lines into a Ruleset and deciding whether a given
// relative path is ignored by it, following the same precedence rules
// git itself applies to .gitignore files (last matching rule wins,
// negation, directory-only rules, and the way an ignored directory
// shadows negations for paths underneath it).
//
// The package does no file or directory I/O of its own; callers supply
// pattern lines and paths as plain strings.
package gitmatch

import (
	"github.com/dlclark/regexp2"

	"github.com/jwodder/gitmatch/internal/text"
	"github.com/jwodder/gitmatch/translate"
)

// Options controls how a Ruleset is compiled.
type Options struct {
	// IgnoreCase, if true, makes every pattern in the ruleset match
	// without regard to letter case.
	IgnoreCase bool
}

// Rule is a single compiled pattern line.
type Rule struct {
	// Pattern is the pattern text that produced this rule, after
	// trailing-whitespace trimming but before negation or
	// directory-only markers were stripped.
	Pattern string
	// Negative is true if this rule negates a previous match rather
	// than establishing one.
	Negative bool
	// DirOnly is true if this rule only applies to directories.
	DirOnly bool
	// IgnoreCase is true if this rule was compiled case-insensitively.
	IgnoreCase bool

	re *regexp2.Regexp
}

// matches reports whether segment, a single path or path-ancestor
// string, satisfies this rule given whether segment denotes a
// directory.
func (r *Rule) matches(segment string, isDir bool) bool {
	if r.DirOnly && !isDir {
		return false
	}

	ok, _ := r.re.MatchString(segment)

	return ok
}

// Match records which rule decided the outcome for a path, and at which
// ancestor of that path the decision was made.
type Match struct {
	// Rule is the deciding rule.
	Rule *Rule
	// Path is the ancestor path (possibly the queried path itself) at
	// which Rule matched.
	Path string
}

// Ignored reports whether this Match represents an affirmative ignore
// decision, i.e. the deciding rule was not a negation. A nil *Match
// represents "no decision"; calling Ignored on it reports false. See
// Ruleset.Ignored for the common case of wanting a plain bool.
func (m *Match) Ignored() bool {
	return m != nil && !m.Rule.Negative
}

// Ruleset is an ordered collection of compiled rules, evaluated as a
// whole against a path the way a single .gitignore file's rules are.
type Ruleset struct {
	rules []Rule
	opts  Options
}

// New compiles patterns into a Ruleset using default options.
func New(patterns ...string) *Ruleset {
	return NewOptions(Options{}, patterns...)
}

// NewOptions compiles patterns into a Ruleset using opts.
func NewOptions(opts Options, patterns ...string) *Ruleset {
	rs := &Ruleset{opts: opts}
	rs.Append(patterns...)

	return rs
}

// Append compiles patterns and adds them to the end of the ruleset's
// rule list. A pattern line that produces no rule (blank, comment, or a
// dangling "!" or "/") is silently skipped, exactly as it would be if it
// had never been compiled into the set to begin with.
func (rs *Ruleset) Append(patterns ...string) {
	for _, p := range patterns {
		line := text.Chomp(p)

		reg, err := translate.Translate(line, rs.opts.IgnoreCase)
		if err != nil || reg == nil {
			continue
		}

		re, err := reg.Compile()
		if err != nil {
			continue
		}

		rs.rules = append(rs.rules, Rule{
			Pattern:    reg.Pattern,
			Negative:   reg.Negative,
			DirOnly:    reg.DirOnly,
			IgnoreCase: reg.IgnoreCase,
			re:         re,
		})
	}
}

// Patterns returns the trimmed pattern text of every rule currently in
// the ruleset, in compile order.
func (rs *Ruleset) Patterns() []string {
	out := make([]string, len(rs.rules))
	for i := range rs.rules {
		out[i] = rs.rules[i].Pattern
	}

	return out
}

// Match decides whether path, assumed relative and using the host's
// native path separator, is ignored by the ruleset. isDir tells Match
// that path denotes a directory even if path has no trailing separator.
// It returns a nil *Match (no error) if no rule makes a decision for
// path, and a non-nil error if path cannot be evaluated (see
// InvalidPathError).
func (rs *Ruleset) Match(path string, isDir bool) (*Match, error) {
	return rs.MatchPath(path, NativePath, isDir)
}

// MatchPath is the full matching entry point: it behaves like Match but
// lets the caller specify how path's separators should be interpreted.
func (rs *Ruleset) MatchPath(p string, style PathStyle, isDir bool) (*Match, error) {
	norm, forcedDir, err := normalizePath(p, style)
	if err != nil {
		return nil, err
	}

	if norm == "." {
		return nil, nil //nolint:nilnil // "no decision" is a valid, distinct outcome from "decided not ignored"
	}

	isDir = isDir || forcedDir

	for _, ancestor := range text.Pathway(norm) {
		ancestorIsDir := isDir
		if ancestor != norm {
			ancestorIsDir = true
		}

		for i := len(rs.rules) - 1; i >= 0; i-- {
			rule := &rs.rules[i]
			if !rule.matches(ancestor, ancestorIsDir) {
				continue
			}

			if !rule.Negative || ancestor == norm {
				return &Match{Rule: rule, Path: ancestor}, nil
			}

			break // a negation of a strict ancestor only re-includes that ancestor; move on
		}
	}

	return nil, nil //nolint:nilnil // "no decision" is a valid, distinct outcome from "decided not ignored"
}

// Ignored is a convenience wrapper around Match that collapses "no
// decision" and "a negating rule matched" down to false, matching the
// shape most callers actually want: a plain yes/no answer plus an error
// for a genuinely invalid path.
func (rs *Ruleset) Ignored(path string, isDir bool) (bool, error) {
	m, err := rs.Match(path, isDir)
	if err != nil {
		return false, err
	}

	return m.Ignored(), nil
}
