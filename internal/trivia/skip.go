package trivia

import "github.com/tidyfmt/tidyfmt/internal/syntax"

// The two recognized skip-directive spellings (spec §4.1): a modern
// tool-attribute path, and a legacy cfg_attr-guarded attribute whose
// argument list names both a guard identifier and "skip".
const (
	modernSkipAttr = "tidyfmt::skip"
	legacySkipAttr = "cfg_attr"
)

// ApplySkipDirectives walks item and marks every node (recursively,
// including nested items) whose Attrs carry a recognized skip spelling.
// A skipped node's original bytes are passed through unchanged by the
// Document Assembler instead of being handed to a rewriter.
func ApplySkipDirectives(item *syntax.Node) {
	if item == nil {
		return
	}
	if hasSkipAttr(item.Attrs) {
		item.Skip = true
	}
	for _, child := range item.Children {
		ApplySkipDirectives(child)
	}
}

func hasSkipAttr(attrs []*syntax.Node) bool {
	for _, a := range attrs {
		if a.Name == modernSkipAttr {
			return true
		}
		if a.Name == legacySkipAttr && containsSkipArg(a.Text) {
			return true
		}
	}
	return false
}

// containsSkipArg reports whether a cfg_attr(...) argument list names
// "skip" among its comma-separated identifiers, e.g. "tidyfmt, skip".
func containsSkipArg(args string) bool {
	depth := 0
	start := 0
	for i := 0; i <= len(args); i++ {
		atEnd := i == len(args)
		var c byte
		if !atEnd {
			c = args[i]
		}
		switch {
		case !atEnd && (c == '(' || c == '['):
			depth++
		case !atEnd && (c == ')' || c == ']'):
			depth--
		case atEnd || (c == ',' && depth == 0):
			if trimmedEquals(args[start:i], "skip") {
				return true
			}
			start = i + 1
		}
	}
	return false
}

func trimmedEquals(s, target string) bool {
	lo, hi := 0, len(s)
	for lo < hi && (s[lo] == ' ' || s[lo] == '\t') {
		lo++
	}
	for hi > lo && (s[hi-1] == ' ' || s[hi-1] == '\t') {
		hi--
	}
	return s[lo:hi] == target
}
