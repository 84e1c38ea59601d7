package search

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsBlank reports whether q is empty or only whitespace. A blank query means
// no filter is active.
func IsBlank(q string) bool {
	return strings.TrimSpace(q) == ""
}

// ContainsFold reports whether substr occurs in s under case folding.
func ContainsFold(s, substr string) bool {
	_, _, ok := indexFold(s, substr, 0)
	return ok
}

// indexFold finds the first case-insensitive occurrence of substr in s at or
// after byte offset from. start and end are byte offsets into s, so the
// matched text keeps the original casing and width.
func indexFold(s, substr string, from int) (start, end int, ok bool) {
	if substr == "" {
		return from, from, from <= len(s)
	}
	for i := from; i < len(s); {
		if n, match := foldPrefix(s[i:], substr); match {
			return i, i + n, true
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return 0, 0, false
}

// foldPrefix reports whether s starts with prefix under simple case folding
// and returns how many bytes of s the prefix covered.
func foldPrefix(s, prefix string) (int, bool) {
	si, pi := 0, 0
	for pi < len(prefix) {
		if si >= len(s) {
			return 0, false
		}
		pr, psize := utf8.DecodeRuneInString(prefix[pi:])
		sr, ssize := utf8.DecodeRuneInString(s[si:])

		// Invalid bytes only match themselves.
		if (pr == utf8.RuneError && psize == 1) || (sr == utf8.RuneError && ssize == 1) {
			if psize != ssize || s[si] != prefix[pi] {
				return 0, false
			}
		} else if !equalFoldRune(sr, pr) {
			return 0, false
		}
		si += ssize
		pi += psize
	}
	return si, true
}

func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}
	if a < utf8.RuneSelf && b < utf8.RuneSelf {
		return lowerASCII(a) == lowerASCII(b)
	}
	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}
	return false
}

func lowerASCII(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
