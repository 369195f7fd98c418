// Package text implements the small line- and path-oriented string
// utilities shared by gitmatch and its translate sub-package: trailing
// whitespace trimming with backslash-escape awareness, newline chomping,
// and decomposing a path into its ancestor chain.
package text

import "strings"

// TrimTrailingSpaces removes trailing spaces and tabs from s, except those
// that are escaped by an odd number of immediately preceding backslashes.
// A run of whitespace is stripped one character at a time, from the end,
// stopping as soon as the backslash parity in front of the candidate
// character is odd.
func TrimTrailingSpaces(s string) string {
	i := len(s)

	for i > 0 && (s[i-1] == ' ' || s[i-1] == '\t') {
		j := i - 1

		backslashes := 0
		for j > 0 && s[j-1] == '\\' {
			backslashes++
			j--
		}

		if backslashes%2 == 1 {
			break
		}

		i--
	}

	return s[:i]
}

// Chomp strips at most one trailing "\n" and then, from what remains, at
// most one trailing "\r" from s.
func Chomp(s string) string {
	if strings.HasSuffix(s, "\n") {
		s = s[:len(s)-1]
	}

	if strings.HasSuffix(s, "\r") {
		s = s[:len(s)-1]
	}

	return s
}

// Pathway returns the chain of ancestors of a normalized, slash-separated,
// relative path, ordered from the shallowest ancestor to path itself.
// Pathway("a/b/c") returns []string{"a", "a/b", "a/b/c"}. It returns nil
// for an empty path.
func Pathway(path string) []string {
	if path == "" {
		return nil
	}

	parts := strings.Split(path, "/")
	out := make([]string, len(parts))

	for i := range parts {
		out[i] = strings.Join(parts[:i+1], "/")
	}

	return out
}
