// Package shape implements the width/indentation algebra that every
// rewriter threads through the tree. A Shape is a pure, immutable value:
// operations derive a new Shape rather than mutating the receiver, so a
// parent can hand a child a narrowed-down view of the page without the
// child's choices leaking back up.
package shape

import "strings"

// Indent separates the two independent indentation concerns a layout can
// carry: a fixed number of block-indent columns (physical leading
// whitespace, a multiple of the configured tab width), and an additional
// number of alignment columns used only when a Visual tactic lines
// successive items up under an opening delimiter.
type Indent struct {
	BlockIndent uint32
	Alignment   uint32
}

// Add returns the sum of two indents, used when a construct nests inside
// another that has already consumed some columns.
func (i Indent) Add(other Indent) Indent {
	return Indent{
		BlockIndent: i.BlockIndent + other.BlockIndent,
		Alignment:   i.Alignment + other.Alignment,
	}
}

// Width returns the total number of columns this indent occupies.
func (i Indent) Width() uint32 {
	return i.BlockIndent + i.Alignment
}

// Block returns a copy of i with BlockIndent increased by extra and
// Alignment reset to zero, mirroring a rewriter opening a nested
// construct with Block layout.
func (i Indent) Block(extra uint32) Indent {
	return Indent{BlockIndent: i.BlockIndent + extra, Alignment: 0}
}

// Visual returns a copy of i with Alignment set to extra, mirroring a
// rewriter opening a nested construct with Visual layout so successive
// items line up under a fixed column.
func (i Indent) Visual(extra uint32) Indent {
	return Indent{BlockIndent: i.BlockIndent, Alignment: extra}
}

// ToString renders the physical indentation prefix for this indent,
// choosing hard tabs for the block component when hardTabs is set
// (alignment is always spaces — it exists to line things up visually,
// which tabs cannot do portably).
func (i Indent) ToString(hardTabs bool, tabSpaces uint32) string {
	var b strings.Builder
	if hardTabs && tabSpaces > 0 {
		tabs := i.BlockIndent / tabSpaces
		rem := i.BlockIndent % tabSpaces
		b.WriteString(strings.Repeat("\t", int(tabs)))
		b.WriteString(strings.Repeat(" ", int(rem)))
	} else {
		b.WriteString(strings.Repeat(" ", int(i.BlockIndent)))
	}
	b.WriteString(strings.Repeat(" ", int(i.Alignment)))
	return b.String()
}

// Shape is the width-budget / indentation context threaded through every
// rewriter. It is immutable; all derived operations return a new value.
type Shape struct {
	// Width is the number of columns remaining on the current logical
	// line. It is a plain int rather than a uint so intermediate
	// arithmetic can go negative — Overflowed reports that case instead
	// of silently wrapping, which a uint32 subtraction would do.
	Width  int
	Indent Indent
	Offset uint32
}

// Root returns the starting Shape for a compilation unit: full width
// budget, zero indent, zero offset.
func Root(maxWidth uint32) Shape {
	return Shape{Width: int(maxWidth), Indent: Indent{}, Offset: 0}
}

// Overflowed reports whether this Shape's width budget has gone negative.
func (s Shape) Overflowed() bool {
	return s.Width < 0
}

// BlockIndent returns a derived Shape for a nested Block-style construct:
// block indent increases by extra, alignment resets, and the width
// budget shrinks by the same amount (the new indent eats into what's
// left on the line).
func (s Shape) BlockIndent(extra uint32) Shape {
	return Shape{
		Width:  s.Width - int(extra),
		Indent: s.Indent.Block(extra),
		Offset: 0,
	}
}

// VisualIndent returns a derived Shape for a nested Visual-style
// construct: alignment is set to extra columns past the current block
// indent, and the width budget shrinks accordingly.
func (s Shape) VisualIndent(extra uint32) Shape {
	return Shape{
		Width:  s.Width - int(extra),
		Indent: s.Indent.Visual(extra),
		Offset: s.Offset,
	}
}

// SubWidth returns a derived Shape with n fewer columns of budget, used
// when a rewriter reserves columns for fixed text (an opening delimiter,
// a keyword) before laying out a child.
func (s Shape) SubWidth(n uint32) Shape {
	return Shape{Width: s.Width - int(n), Indent: s.Indent, Offset: s.Offset}
}

// AddOffset returns a derived Shape with n additional columns already
// consumed on the current line, used when a construct begins mid-line
// (e.g. the right-hand side of an assignment on the same line as the
// variable name and operator).
func (s Shape) AddOffset(n uint32) Shape {
	return Shape{Width: s.Width - int(n), Indent: s.Indent, Offset: s.Offset + n}
}

// WithWidth returns a copy of s with Width replaced, used by callers
// that have computed an absolute remaining budget rather than a delta
// (e.g. the List Formatter narrowing a Shape to the space left after
// an opening delimiter on the same line).
func (s Shape) WithWidth(w int) Shape {
	return Shape{Width: w, Indent: s.Indent, Offset: s.Offset}
}

// IndentString renders s.Indent's physical prefix using the given
// style (hard tabs for block indent, or pure spaces).
func (s Shape) IndentString(hardTabs bool, tabSpaces uint32) string {
	return s.Indent.ToString(hardTabs, tabSpaces)
}
