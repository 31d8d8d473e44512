// Package trivia recovers comments, blank lines, and skip directives
// from the raw source bytes the parser's tokens skip over. It is the
// Trivia Extractor component of spec §4.1: for every byte of the input,
// the byte lands in exactly one of token text (handled by
// internal/syntax), trivia (handled here), or intra-node whitespace
// regenerated by a rewriter.
package trivia

import (
	"strings"

	"github.com/tidwall/btree"

	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// CommentKind classifies a recovered comment.
type CommentKind int

const (
	Line      CommentKind = iota // "// ..."
	Block                        // "/* ... */"
	Doc                          // "/// ..." or "/** ... */"
	InnerDoc                     // "//! ..." or "/*! ... */"
)

// Comment is one recovered comment, verbatim.
type Comment struct {
	Kind           CommentKind
	Text           string
	OriginalIndent int
}

// Trivia is everything attached to one span boundary: the blank lines
// and comments immediately preceding the following node (Leading), and
// any same-line comment immediately following the previous node
// (Trailing, attached to the node whose Map key precedes this gap).
type Trivia struct {
	LeadingBlankLines int
	LeadingComments   []Comment
	TrailingComments  []Comment
}

func (t Trivia) IsZero() bool {
	return t.LeadingBlankLines == 0 && len(t.LeadingComments) == 0 && len(t.TrailingComments) == 0
}

// Finding is a report_todo/report_fixme hit inside a comment body.
type Finding struct {
	Marker string
	Text   string
	Span   syntax.Span
}

// Map holds the extracted trivia for a sequence of sibling spans, keyed
// by each span's start offset (the "following node" convention from
// spec §4.1), plus a Tail entry for trivia after the last span. The
// backing store is a github.com/tidwall/btree ordered map rather than a
// plain Go map: spec §9 calls for "sorted arrays of spans indexed into
// once" rather than back-pointers for random access by span, and a
// btree gives that ordering for free plus cheap range queries if a
// caller ever needs "all trivia between offsets X and Y".
type Map struct {
	byStart *btree.Map[int, Trivia]
	Tail    Trivia
}

// Get returns the trivia leading up to the node whose span starts at
// start, or the zero value if none was recorded.
func (m *Map) Get(start int) Trivia {
	if m.byStart == nil {
		return Trivia{}
	}
	t, _ := m.byStart.Get(start)
	return t
}

// Extract walks src between consecutive spans (which must be sorted,
// non-overlapping sibling spans at one scope level) and returns the
// trivia attached to each gap plus any todo/fixme findings. fileEnd is
// the source length, used to compute the Tail region after the last
// span.
func Extract(src string, spans []syntax.Span, fileEnd int, markers []string) (*Map, []Finding) {
	m := &Map{byStart: &btree.Map[int, Trivia]{}}
	var findings []Finding

	prevHi := 0
	for _, sp := range spans {
		gap := src[prevHi:sp.Lo]
		t, gf := classifyGap(gap, prevHi, markers)
		m.byStart.Set(sp.Lo, t)
		findings = append(findings, gf...)
		prevHi = sp.Hi
	}

	if prevHi < fileEnd {
		tailGap := src[prevHi:fileEnd]
		t, gf := classifyGap(tailGap, prevHi, markers)
		m.Tail = t
		findings = append(findings, gf...)
	}

	return m, findings
}

// classifyGap splits one inter-span region into a (possible) trailing
// comment belonging to the previous node and leading trivia belonging
// to the next node. gapStart is the byte offset where gap begins, used
// to produce accurate Finding spans.
func classifyGap(gap string, gapStart int, markers []string) (Trivia, []Finding) {
	var t Trivia
	var findings []Finding

	rest := gap
	restStart := gapStart

	// A comment on the same line as the end of the previous node (no
	// newline before it) is a trailing comment of that previous node,
	// not leading trivia of the next. The gap before the first node
	// (gapStart 0) has no previous node, so all of it is leading trivia.
	if idx := strings.IndexByte(rest, '\n'); idx >= 0 && gapStart > 0 {
		head := rest[:idx]
		if trimmed := strings.TrimSpace(head); trimmed != "" && isCommentStart(trimmed) {
			c, findingsHere := scanComment(trimmed, restStart+strings.Index(head, trimmed), markers)
			t.TrailingComments = append(t.TrailingComments, c)
			findings = append(findings, findingsHere...)
		}
		rest = rest[idx+1:]
		restStart += idx + 1
	} else if gapStart > 0 {
		trimmed := strings.TrimSpace(rest)
		if trimmed != "" && isCommentStart(trimmed) {
			c, findingsHere := scanComment(trimmed, restStart+strings.Index(rest, trimmed), markers)
			t.TrailingComments = append(t.TrailingComments, c)
			findings = append(findings, findingsHere...)
			return t, findings
		}
	}

	for len(rest) > 0 {
		nlIdx := strings.IndexByte(rest, '\n')
		var line string
		if nlIdx >= 0 {
			line = rest[:nlIdx]
		} else {
			line = rest
		}
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			t.LeadingBlankLines++
			advance(&rest, &restStart, nlIdx, line)

		case isCommentStart(trimmed):
			consumedLen, commentText := scanBlockAware(rest, nlIdx, line)
			indent := len(line) - len(strings.TrimLeft(line, " \t"))
			c, findingsHere := scanComment(strings.TrimSpace(commentText), restStart, markers)
			c.OriginalIndent = indent
			t.LeadingComments = append(t.LeadingComments, c)
			findings = append(findings, findingsHere...)
			rest = rest[consumedLen:]
			restStart += consumedLen

		default:
			// Non-comment, non-blank content in a trivia gap should not
			// occur (the parser consumes all real tokens); treat
			// defensively as a blank line so extraction never panics.
			advance(&rest, &restStart, nlIdx, line)
		}
	}

	return t, findings
}

// advance consumes one line (through its trailing newline, if any)
// from rest/restStart.
func advance(rest *string, restStart *int, nlIdx int, line string) {
	if nlIdx >= 0 {
		*rest = (*rest)[nlIdx+1:]
		*restStart += nlIdx + 1
	} else {
		*restStart += len(line)
		*rest = ""
	}
}

// scanBlockAware returns how many bytes of rest to consume and the
// comment text, handling block comments that span multiple lines by
// scanning for a balanced closing "*/" instead of stopping at the first
// newline the way a single-line comment would.
func scanBlockAware(rest string, nlIdx int, firstLine string) (int, string) {
	trimmed := strings.TrimSpace(firstLine)
	if !strings.HasPrefix(trimmed, "/*") {
		// Line comment: consumed through (not including) the newline.
		if nlIdx >= 0 {
			return nlIdx + 1, rest[:nlIdx]
		}
		return len(rest), rest
	}

	// Block comment: scan from its start for a balanced closer.
	startOffset := strings.Index(rest, "/*")
	i := startOffset + 2
	depth := 1
	for i < len(rest) && depth > 0 {
		switch {
		case strings.HasPrefix(rest[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(rest[i:], "*/"):
			depth--
			i += 2
		default:
			i++
		}
	}
	end := i
	// Consume through the end of the line the comment closes on.
	if nl := strings.IndexByte(rest[end:], '\n'); nl >= 0 {
		return end + nl + 1, rest[:end]
	}
	return len(rest), rest[:end]
}

func isCommentStart(s string) bool {
	return strings.HasPrefix(s, "//") || strings.HasPrefix(s, "/*")
}

func scanComment(text string, span int, markers []string) (Comment, []Finding) {
	kind := Line
	switch {
	case strings.HasPrefix(text, "///"):
		kind = Doc
	case strings.HasPrefix(text, "//!"):
		kind = InnerDoc
	case strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/"):
		kind = Doc
	case strings.HasPrefix(text, "/*!"):
		kind = InnerDoc
	case strings.HasPrefix(text, "/*"):
		kind = Block
	}

	c := Comment{Kind: kind, Text: text}

	var findings []Finding
	upper := strings.ToUpper(text)
	for _, marker := range markers {
		if marker == "" {
			continue
		}
		if strings.Contains(upper, strings.ToUpper(marker)) {
			findings = append(findings, Finding{Marker: marker, Text: text, Span: syntax.Span{Lo: span, Hi: span + len(text)}})
		}
	}

	return c, findings
}
