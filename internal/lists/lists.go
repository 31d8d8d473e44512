// Package lists implements the combinator the shaping engine's wrapping
// delimited sequences go through: call arguments, array elements,
// struct fields, where-predicates, import braces, generic parameters,
// macro arguments. Each such node rewriter constructs an Options value
// and calls Format. Match arms, patterns, closure parameters and the
// overflow-last-argument path are laid out by their rewriters directly,
// without Format.
package lists

import (
	"errors"
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/shape"
)

// Tactic selects the packing algorithm Format uses.
type Tactic int

const (
	// Horizontal places every item on one line. Chosen only if every
	// item fits and the whole joined line fits the budget; otherwise
	// Format returns ErrWidthExceeded under MustFit and falls back to
	// Vertical without it.
	Horizontal Tactic = iota
	// HorizontalVertical tries Horizontal; if that would overflow or is
	// disqualified by a comment/multi-line item, it falls back to
	// Vertical.
	HorizontalVertical
	// Mixed greedily packs as many items as fit per line, breaking
	// before the first item that would overflow.
	Mixed
	// Vertical places one item per line at the block indent.
	Vertical
)

// SeparatorPlace controls where a continuation-line separator is
// emitted relative to the line break.
type SeparatorPlace int

const (
	// Back emits the separator at the end of the preceding line
	// ("a,\nb,\nc").
	Back SeparatorPlace = iota
	// Front emits the separator at the start of the continuation line
	// ("a\n, b\n, c") — used for binop_separator = Front.
	Front
)

// TrailingSeparatorPolicy controls whether a separator follows the last
// item.
type TrailingSeparatorPolicy int

const (
	// Always emits a trailing separator regardless of tactic.
	Always TrailingSeparatorPolicy = iota
	// Never omits the trailing separator.
	Never
	// VerticalOnly emits a trailing separator only when the list was
	// ultimately laid out vertically (one item per line); horizontal
	// layouts omit it.
	VerticalOnly
)

// Item is one element of the sequence, pre-rendered by the caller (the
// List Formatter never recurses into a node itself — it only arranges
// already-rendered text).
type Item struct {
	// Text is the item's rendered inline form. It may itself contain
	// newlines if the item's own sub-layout is multi-line; any such
	// item forces the whole enclosing list into Vertical layout.
	Text string
	// LeadingComment and TrailingComment are comments the Trivia
	// Extractor attached immediately before/after this item. Either
	// forces the item onto its own line under Mixed and disqualifies
	// Horizontal entirely.
	LeadingComment  string
	TrailingComment string
}

func (it Item) hasComment() bool {
	return it.LeadingComment != "" || it.TrailingComment != ""
}

func (it Item) multiline() bool {
	return shape.HasMultipleLines(it.Text)
}

// Options configures one Format call.
type Options struct {
	Tactic             Tactic
	Separator          string
	SeparatorPlace     SeparatorPlace
	TrailingSeparator  TrailingSeparatorPolicy
	Padding            uint32
	Opener             string
	Closer             string
	OpenerOwnLine      bool
	CloserOwnLine      bool
	HardTabs           bool
	TabSpaces          uint32
	// MustFit, when true, causes Format to return ErrWidthExceeded
	// instead of silently emitting an overflowing line when no
	// candidate layout fits the budget.
	MustFit bool
}

// ErrWidthExceeded is returned when MustFit is set and no tactic in the
// requested family fits the given Shape.
var ErrWidthExceeded = errors.New("lists: no layout fits the width budget")

// Format lays out items inside opener/closer under shape, choosing a
// horizontal, mixed, or vertical packing per opts.Tactic, and returns
// the fully delimited text (opener + items + closer).
func Format(s shape.Shape, items []Item, opts Options) (string, error) {
	if len(items) == 0 {
		return opts.Opener + opts.Closer, nil
	}

	// A single item may always be emitted inline if it fits, regardless
	// of the requested tactic, as long as it carries no comment that
	// would force it onto its own line.
	if len(items) == 1 && !items[0].hasComment() && !items[0].multiline() {
		if inline, ok := tryHorizontal(s, items, opts); ok {
			return inline, nil
		}
	}

	// Any multi-line item forces the whole list vertical, overriding
	// the caller's requested tactic.
	forceVertical := false
	for _, it := range items {
		if it.multiline() {
			forceVertical = true
			break
		}
	}

	tactic := opts.Tactic
	if forceVertical && tactic != Vertical {
		tactic = Vertical
	}

	switch tactic {
	case Horizontal:
		if out, ok := tryHorizontal(s, items, opts); ok {
			return out, nil
		}
		if opts.MustFit {
			return "", ErrWidthExceeded
		}
		return formatVertical(s, items, opts), nil

	case HorizontalVertical:
		if out, ok := tryHorizontal(s, items, opts); ok {
			return out, nil
		}
		return formatVertical(s, items, opts), nil

	case Mixed:
		if out, ok := tryHorizontal(s, items, opts); ok {
			return out, nil
		}
		out, ok := formatMixed(s, items, opts)
		if !ok && opts.MustFit {
			return "", ErrWidthExceeded
		}
		return out, nil

	case Vertical:
		return formatVertical(s, items, opts), nil
	}

	return formatVertical(s, items, opts), nil
}

// tryHorizontal attempts to lay every item on a single line. It fails
// (returns ok=false) if any item carries a comment or spans several
// lines, or if the joined line would overflow the shape's width budget.
// A trailing separator is written only under the Always policy;
// VerticalOnly and Never leave the horizontal line without one.
func tryHorizontal(s shape.Shape, items []Item, opts Options) (string, bool) {
	for _, it := range items {
		if it.hasComment() || it.multiline() {
			return "", false
		}
	}

	sep := opts.Separator
	var b strings.Builder
	b.WriteString(opts.Opener)
	if opts.Padding > 0 {
		b.WriteString(strings.Repeat(" ", int(opts.Padding)))
	}

	for i, it := range items {
		if i > 0 {
			b.WriteString(sep)
			b.WriteByte(' ')
		}
		b.WriteString(it.Text)
	}

	trailing := opts.TrailingSeparator == Always
	if trailing {
		b.WriteString(sep)
	}

	if opts.Padding > 0 {
		b.WriteString(strings.Repeat(" ", int(opts.Padding)))
	}
	b.WriteString(opts.Closer)

	out := b.String()
	width := shape.DisplayWidth(out) + s.Offset
	if int(width) > s.Width+int(s.Offset) {
		return "", false
	}
	return out, true
}

// formatVertical places one item per line at the block indent, with the
// separator placed per opts.SeparatorPlace and a trailing separator
// when the policy calls for one under vertical layout.
func formatVertical(s shape.Shape, items []Item, opts Options) string {
	indent := s.IndentString(opts.HardTabs, opts.TabSpaces)
	var b strings.Builder

	b.WriteString(opts.Opener)
	if opts.OpenerOwnLine {
		b.WriteByte('\n')
	}

	trailing := opts.TrailingSeparator == Always || opts.TrailingSeparator == VerticalOnly

	for i, it := range items {
		last := i == len(items)-1
		if it.LeadingComment != "" {
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString(it.LeadingComment)
		}

		b.WriteByte('\n')
		b.WriteString(indent)

		if opts.SeparatorPlace == Front && i > 0 {
			b.WriteString(opts.Separator)
			b.WriteByte(' ')
		}

		b.WriteString(it.Text)

		if opts.SeparatorPlace == Back {
			if !last || trailing {
				b.WriteString(opts.Separator)
			}
		}

		if it.TrailingComment != "" {
			b.WriteByte(' ')
			b.WriteString(it.TrailingComment)
		}
	}

	if opts.CloserOwnLine {
		b.WriteByte('\n')
		b.WriteString(s.IndentString(opts.HardTabs, opts.TabSpaces))
	}
	b.WriteString(opts.Closer)

	return b.String()
}

// formatMixed greedily packs items left-to-right, breaking before the
// first item on a line that would exceed the width budget, and starting
// a fresh line indented to the opening column for each overflow. Any
// item carrying a comment starts a new line, and so does the item
// after one with a trailing comment. The first item always follows
// the opener directly (plus opts.Padding, as tryHorizontal also applies
// it) unless it carries a comment itself. ok is false when some line
// still exceeds the width budget (an item too wide for a line of its
// own).
func formatMixed(s shape.Shape, items []Item, opts Options) (string, bool) {
	indent := s.IndentString(opts.HardTabs, opts.TabSpaces)
	pad := strings.Repeat(" ", int(opts.Padding))

	var b strings.Builder
	b.WriteString(opts.Opener)
	b.WriteString(pad)

	lineWidth := shape.DisplayWidth(opts.Opener) + opts.Padding + s.Offset
	prevTrailingComment := false
	fits := true

	for i, it := range items {
		last := i == len(items)-1
		sepLen := uint32(0)
		if !last || opts.TrailingSeparator == Always {
			sepLen = shape.DisplayWidth(opts.Separator)
		}
		itemLen := shape.DisplayWidth(it.Text) + sepLen

		// A comment on the previous item already ends that line; a
		// comment on this one must not be packed after another item
		// either, or its text would land inside that item's comment.
		forceOwnLine := it.hasComment() || prevTrailingComment

		switch {
		case i == 0:
			if forceOwnLine {
				b.WriteByte('\n')
				b.WriteString(indent)
				lineWidth = shape.DisplayWidth(indent)
			}
		case !forceOwnLine && lineWidth+1+itemLen <= uint32(s.Width)+s.Offset:
			b.WriteByte(' ')
			lineWidth += 1 + itemLen
		default:
			b.WriteByte('\n')
			b.WriteString(indent)
			lineWidth = shape.DisplayWidth(indent)
		}

		if it.LeadingComment != "" {
			b.WriteString(it.LeadingComment)
			b.WriteByte('\n')
			b.WriteString(indent)
		}

		b.WriteString(it.Text)
		if !last || opts.TrailingSeparator == Always {
			b.WriteString(opts.Separator)
		}
		if it.TrailingComment != "" {
			b.WriteByte(' ')
			b.WriteString(it.TrailingComment)
		}
		lineWidth += itemLen
		if lineWidth > uint32(s.Width)+s.Offset {
			fits = false
		}
		prevTrailingComment = it.TrailingComment != ""
	}

	if opts.CloserOwnLine {
		b.WriteByte('\n')
		b.WriteString(s.IndentString(opts.HardTabs, opts.TabSpaces))
	} else {
		b.WriteString(pad)
	}
	b.WriteString(opts.Closer)

	return b.String(), fits
}
