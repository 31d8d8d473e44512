package shape

import "testing"

import "github.com/stretchr/testify/assert"

func TestBlockIndentResetsAlignment(t *testing.T) {
	s := Root(100).VisualIndent(10)
	assert.EqualValues(t, 10, s.Indent.Alignment)

	s2 := s.BlockIndent(4)
	assert.EqualValues(t, 0, s2.Indent.Alignment)
	assert.EqualValues(t, 4, s2.Indent.BlockIndent)
	assert.EqualValues(t, 86, s2.Width)
}

func TestVisualIndentSetsAlignment(t *testing.T) {
	s := Root(100).BlockIndent(4).VisualIndent(6)
	assert.EqualValues(t, 4, s.Indent.BlockIndent)
	assert.EqualValues(t, 6, s.Indent.Alignment)
	assert.EqualValues(t, 90, s.Width)
}

func TestOverflowed(t *testing.T) {
	s := Root(10).SubWidth(20)
	assert.True(t, s.Overflowed())
	assert.False(t, Root(10).Overflowed())
}

func TestIndentToStringHardTabs(t *testing.T) {
	ind := Indent{BlockIndent: 8, Alignment: 3}
	assert.Equal(t, "\t\t   ", ind.ToString(true, 4))
	assert.Equal(t, "        ", ind.ToString(false, 4)[:8])
}

func TestDisplayWidthWideRunes(t *testing.T) {
	assert.EqualValues(t, 2, DisplayWidth("ab"))
	assert.EqualValues(t, 4, DisplayWidth("中文")) // two wide CJK runes.
}

func TestHasMultipleLines(t *testing.T) {
	assert.True(t, HasMultipleLines("a\nb"))
	assert.False(t, HasMultipleLines("ab"))
}
