package lists

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyfmt/tidyfmt/internal/shape"
)

func items(texts ...string) []Item {
	out := make([]Item, len(texts))
	for i, t := range texts {
		out[i] = Item{Text: t}
	}
	return out
}

func baseOpts() Options {
	return Options{
		Tactic:            Horizontal,
		Separator:         ",",
		TrailingSeparator: Never,
		Opener:            "(",
		Closer:            ")",
		TabSpaces:         4,
	}
}

func TestEmptySequence(t *testing.T) {
	out, err := Format(shape.Root(80), nil, baseOpts())
	require.NoError(t, err)
	assert.Equal(t, "()", out)
}

func TestHorizontalFits(t *testing.T) {
	out, err := Format(shape.Root(80), items("a", "b", "c"), baseOpts())
	require.NoError(t, err)
	assert.Equal(t, "(a, b, c)", out)
}

func TestHorizontalVerticalFallsBack(t *testing.T) {
	opts := baseOpts()
	opts.Tactic = HorizontalVertical
	opts.OpenerOwnLine = false
	opts.CloserOwnLine = true
	opts.SeparatorPlace = Back
	opts.TrailingSeparator = VerticalOnly

	s := shape.Root(10)
	out, err := Format(s, items("aaaaaaaaaa", "bbbbbbbbbb"), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "\naaaaaaaaaa,\n")
	assert.Contains(t, out, "bbbbbbbbbb,\n")
}

func TestSingleItemInlineRegardlessOfTactic(t *testing.T) {
	opts := baseOpts()
	opts.Tactic = Vertical
	out, err := Format(shape.Root(80), items("solo"), opts)
	require.NoError(t, err)
	assert.Equal(t, "(solo)", out)
}

func TestMultilineItemForcesVertical(t *testing.T) {
	opts := baseOpts()
	opts.Tactic = Horizontal
	opts.SeparatorPlace = Back
	opts.TrailingSeparator = Never
	opts.CloserOwnLine = true

	out, err := Format(shape.Root(80), items("a", "b\nc"), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "\na,\nb\nc\n")
}

func TestMustFitFailsWhenNothingFits(t *testing.T) {
	opts := baseOpts()
	opts.MustFit = true
	opts.Tactic = Horizontal
	_, err := Format(shape.Root(2), items("aaaaaaaaaaaaaaaa", "b"), opts)
	assert.ErrorIs(t, err, ErrWidthExceeded)
}

func TestLeadingCommentForcesOwnLineInMixed(t *testing.T) {
	opts := baseOpts()
	opts.Tactic = Mixed
	opts.SeparatorPlace = Back

	its := items("a", "c")
	its[1].LeadingComment = "// note"
	out, err := Format(shape.Root(80), its, opts)
	require.NoError(t, err)
	assert.Contains(t, out, "// note")
}

func TestTrailingSeparatorVerticalOnly(t *testing.T) {
	opts := baseOpts()
	opts.Tactic = Vertical
	opts.TrailingSeparator = VerticalOnly
	opts.SeparatorPlace = Back
	opts.CloserOwnLine = true

	out, err := Format(shape.Root(80), items("a", "b"), opts)
	require.NoError(t, err)
	assert.Contains(t, out, "b,\n")
}
