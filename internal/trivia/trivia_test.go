package trivia

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

func TestExtractLeadingDocComment(t *testing.T) {
	src := "/// does a thing\nfn a() {}\n"
	spans := []syntax.Span{{Lo: 17, Hi: 26}}
	m, findings := Extract(src, spans, len(src), nil)
	require.Empty(t, findings)

	tr := m.Get(17)
	require.Len(t, tr.LeadingComments, 1)
	assert.Equal(t, Doc, tr.LeadingComments[0].Kind)
	assert.Equal(t, "/// does a thing", tr.LeadingComments[0].Text)
	assert.Zero(t, tr.LeadingBlankLines)
}

func TestExtractBlankLineCount(t *testing.T) {
	src := "fn a() {}\n\n\n\nfn b() {}\n"
	spans := []syntax.Span{{Lo: 0, Hi: 9}, {Lo: 13, Hi: 22}}
	m, _ := Extract(src, spans, len(src), nil)

	tr := m.Get(13)
	assert.Equal(t, 3, tr.LeadingBlankLines)
}

func TestExtractTrailingSameLineComment(t *testing.T) {
	src := "let x = 1; // init\nlet y = 2;\n"
	spans := []syntax.Span{{Lo: 0, Hi: 10}, {Lo: 19, Hi: 29}}
	m, _ := Extract(src, spans, len(src), nil)

	tr := m.Get(19)
	require.Len(t, tr.TrailingComments, 1)
	assert.Equal(t, "// init", tr.TrailingComments[0].Text)
	assert.Empty(t, tr.LeadingComments)
}

func TestExtractMultilineBlockComment(t *testing.T) {
	src := "/* line one\n   line two */\nfn a() {}\n"
	spans := []syntax.Span{{Lo: 27, Hi: 36}}
	m, _ := Extract(src, spans, len(src), nil)

	tr := m.Get(27)
	require.Len(t, tr.LeadingComments, 1)
	assert.Equal(t, Block, tr.LeadingComments[0].Kind)
	assert.Contains(t, tr.LeadingComments[0].Text, "line two")
}

func TestExtractTodoMarkerFinding(t *testing.T) {
	src := "// TODO: fix this later\nfn a() {}\n"
	spans := []syntax.Span{{Lo: 24, Hi: 33}}
	_, findings := Extract(src, spans, len(src), []string{"TODO", "FIXME"})

	require.Len(t, findings, 1)
	assert.Equal(t, "TODO", findings[0].Marker)
}

func TestApplySkipDirectivesModernSpelling(t *testing.T) {
	n := &syntax.Node{
		Kind:  syntax.KindFn,
		Attrs: []*syntax.Node{{Kind: syntax.KindAttribute, Name: "tidyfmt::skip"}},
	}
	ApplySkipDirectives(n)
	assert.True(t, n.Skip)
}

func TestApplySkipDirectivesLegacySpelling(t *testing.T) {
	n := &syntax.Node{
		Kind:  syntax.KindFn,
		Attrs: []*syntax.Node{{Kind: syntax.KindAttribute, Name: "cfg_attr", Text: "tidyfmt, skip"}},
	}
	ApplySkipDirectives(n)
	assert.True(t, n.Skip)
}

func TestApplySkipDirectivesUnrelatedAttrNotSkipped(t *testing.T) {
	n := &syntax.Node{
		Kind:  syntax.KindFn,
		Attrs: []*syntax.Node{{Kind: syntax.KindAttribute, Name: "derive", Text: "Debug"}},
	}
	ApplySkipDirectives(n)
	assert.False(t, n.Skip)
}

func TestApplySkipDirectivesRecursesIntoChildren(t *testing.T) {
	inner := &syntax.Node{
		Kind:  syntax.KindFn,
		Attrs: []*syntax.Node{{Kind: syntax.KindAttribute, Name: "tidyfmt::skip"}},
	}
	outer := &syntax.Node{Kind: syntax.KindMod, Children: []*syntax.Node{inner}}
	ApplySkipDirectives(outer)
	assert.False(t, outer.Skip)
	assert.True(t, inner.Skip)
}
