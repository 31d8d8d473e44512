package shape

import "github.com/mattn/go-runewidth"

// DisplayWidth returns the number of terminal columns s occupies,
// counting wide (e.g. CJK) runes as two columns instead of one the way
// len() or utf8.RuneCountInString would. Every width-budget comparison
// in the List Formatter and rewriters goes through this so a line full
// of wide identifiers or string content doesn't silently exceed the
// configured max_width while still measuring "79" by rune count.
func DisplayWidth(s string) uint32 {
	return uint32(runewidth.StringWidth(s))
}

// FirstLineWidth returns the display width of s up to (not including)
// its first newline, or the whole string's width if s has none.
func FirstLineWidth(s string) uint32 {
	for i, r := range s {
		if r == '\n' {
			return DisplayWidth(s[:i])
		}
	}
	return DisplayWidth(s)
}

// LastLineWidth returns the display width of s from its last newline
// (exclusive) to the end, or the whole string's width if s has none.
func LastLineWidth(s string) uint32 {
	last := -1
	for i, r := range s {
		if r == '\n' {
			last = i
		}
	}
	if last == -1 {
		return DisplayWidth(s)
	}
	return DisplayWidth(s[last+1:])
}

// HasMultipleLines reports whether s contains an embedded newline, the
// condition the List Formatter uses to force a Vertical tactic: any
// item whose rendered text is itself a multi-line sub-layout forces the
// whole enclosing list vertical.
func HasMultipleLines(s string) bool {
	for _, r := range s {
		if r == '\n' {
			return true
		}
	}
	return false
}
