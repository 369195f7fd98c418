package gitmatch

import "github.com/jwodder/gitmatch/internal/text"

// TrimTrailingSpaces removes trailing spaces and tabs from s, except
// those escaped by an odd number of immediately preceding backslashes
// (so "foo\ " keeps its trailing space, but "foo\\ " does not).
func TrimTrailingSpaces(s string) string {
	return text.TrimTrailingSpaces(s)
}

// Chomp strips at most one trailing "\n" and then, from what remains, at
// most one trailing "\r" from s.
func Chomp(s string) string {
	return text.Chomp(s)
}

// Pathway returns the chain of ancestors of a normalized, slash-
// separated, relative path, from the shallowest ancestor to path
// itself: Pathway("a/b/c") is []string{"a", "a/b", "a/b/c"}.
func Pathway(path string) []string {
	return text.Pathway(path)
}
