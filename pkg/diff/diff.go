// Package diff provides unified diff generation for -diff/-check output.
package diff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// Unified generates a unified diff between oldText and newText.
// Returns an empty string if the inputs are identical.
func Unified(filename, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldText),
		B:        difflib.SplitLines(newText),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  contextLines,
	})
	if err != nil {
		// SequenceMatcher only errors on malformed input we never
		// produce (mismatched line slices); treat as no diff rather
		// than panic a formatting run over a diff-rendering failure.
		return ""
	}
	return out
}
