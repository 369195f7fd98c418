package gitmatch

import (
	"fmt"
	"os"
	"path"
	"runtime"
	"strings"
)

// PathStyle tells Ruleset.MatchPath how to interpret path separators in
// the value passed to it, since Go has no single ubiquitous type (the
// way Python's pathlib.PurePosixPath / PureWindowsPath are) to carry
// that information on the value itself.
type PathStyle int

const (
	// NativePath translates the host OS's path separator to "/" before
	// matching. On non-Windows hosts this is a no-op.
	NativePath PathStyle = iota
	// PosixPath performs no separator translation; the value is assumed
	// to already use "/" as its separator.
	PosixPath
	// WindowsPath translates '\' to '/' before matching, regardless of
	// host OS.
	WindowsPath
)

// InvalidPathError reports a path value that Ruleset.Match or
// Ruleset.MatchPath cannot evaluate: empty, containing a NUL byte,
// absolute, not in normal form, or escaping its root with a leading
// "..".
type InvalidPathError struct {
	// Msg is a short, human-readable diagnostic.
	Msg string
	// Path is the original, untranslated path value that was rejected.
	Path string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s: %q", e.Msg, e.Path)
}

// normalizePath validates and normalizes path according to style,
// returning the slash-separated, relative, normal-form path plus
// whether the original value's trailing separator marks it as a
// directory.
func normalizePath(p string, style PathStyle) (norm string, forcedDir bool, err error) {
	orig := p

	switch style {
	case PosixPath:
		// No translation.
	case WindowsPath:
		p = strings.ReplaceAll(p, `\`, "/")
	default:
		if os.PathSeparator != '/' {
			p = strings.ReplaceAll(p, string(os.PathSeparator), "/")
		}
	}

	if p == "" {
		return "", false, &InvalidPathError{Msg: "Empty path", Path: orig}
	}

	if strings.ContainsRune(p, 0) {
		return "", false, &InvalidPathError{Msg: "Path contains NUL byte", Path: orig}
	}

	if isAbsolutePath(p, style) {
		return "", false, &InvalidPathError{Msg: "Path is not relative", Path: orig}
	}

	if strings.HasSuffix(p, "/") {
		forcedDir = true
		p = p[:len(p)-1]
	}

	if p != "" && path.Clean(p) != p {
		return "", false, &InvalidPathError{Msg: "Path is not normalized", Path: orig}
	}

	if p == ".." || strings.HasPrefix(p, "../") {
		return "", false, &InvalidPathError{Msg: "Path cannot begin with '..'", Path: orig}
	}

	return p, forcedDir, nil
}

// isAbsolutePath reports whether p (already separator-translated to "/")
// denotes an absolute path under style.
func isAbsolutePath(p string, style PathStyle) bool {
	if strings.HasPrefix(p, "/") {
		return true
	}

	windows := style == WindowsPath || (style == NativePath && runtime.GOOS == "windows")
	if windows && len(p) >= 2 && p[1] == ':' {
		return true
	}

	return false
}
