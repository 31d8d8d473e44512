package format

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tidyfmt/tidyfmt/internal/config"
)

// TestIdempotence checks property 1: formatting already-formatted
// output a second time never changes it further.
func TestIdempotence(t *testing.T) {
	cfg := config.DefaultConfig()
	inputs := []string{
		"const X:i32=1+1;\n",
		"static Y:bool=true;\n",
		"use a::c;\nuse a::b;\nuse a::a;\n",
		"const A:i32=1;\n\n\n\nconst B:i32=2;\n",
		"// a leading comment\nconst X: i32 = 1;\n",
	}

	for _, in := range inputs {
		first := FormatSource([]byte(in), "t.rs", cfg).Rendered
		second := FormatSource([]byte(first), "t.rs", cfg).Rendered
		assert.Equal(t, first, second, "not idempotent for input %q", in)
	}
}

// TestCommentPreservation checks property 3: every comment byte range
// present in the input survives somewhere in the rendered output.
func TestCommentPreservation(t *testing.T) {
	cfg := config.DefaultConfig()
	tests := []struct {
		name     string
		input    string
		comments []string
	}{
		{
			name:     "leading comment",
			input:    "// leading\nconst X: i32 = 1;\n",
			comments: []string{"// leading"},
		},
		{
			name:     "same-line trailing comment",
			input:    "const X: i32 = 1; // trailing\nconst Y: i32 = 2;\n",
			comments: []string{"// trailing"},
		},
		{
			name:     "trailing comment at end of file",
			input:    "const X: i32 = 1; // last\n",
			comments: []string{"// last"},
		},
		{
			name:     "comment between two items",
			input:    "const X: i32 = 1;\n// between\nconst Y: i32 = 2;\n",
			comments: []string{"// between"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FormatSource([]byte(tt.input), "t.rs", cfg)
			for _, c := range tt.comments {
				assert.Contains(t, res.Rendered, c)
			}
		})
	}
}

// TestMergeImportsReorder exercises the S3 scenario: reorder_imports
// and merge_imports together collapse a contiguous use-group sharing a
// prefix into one braced statement.
func TestMergeImportsReorder(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MergeImports = true
	cfg.ReorderImports = true

	res := FormatSource([]byte("use a::c;\nuse a::b;\nuse a::a;\n"), "t.rs", cfg)
	assert.Equal(t, "use a::{a, b, c};\n", res.Rendered)
}

// TestWrapComments exercises wrap_comments/comment_width: a long
// standalone line comment is rewrapped to the configured width, each
// wrapped line re-prefixed with "// ".
func TestWrapComments(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WrapComments = true
	cfg.CommentWidth = 20

	src := "// this comment is much longer than twenty characters wide\nconst X: i32 = 1;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)

	for _, line := range splitLinesForTest(res.Rendered) {
		if strings.HasPrefix(line, "//") {
			assert.LessOrEqual(t, len(line), 20)
		}
	}
	assert.Contains(t, res.Rendered, "// this comment is")
}

func splitLinesForTest(s string) []string {
	return strings.Split(s, "\n")
}

// TestSkipPreservesByteRange exercises the S6 scenario: an item marked
// with the skip attribute is emitted verbatim even when its internal
// whitespace would otherwise be rewritten, while neighboring items are
// formatted normally.
func TestSkipPreservesByteRange(t *testing.T) {
	cfg := config.DefaultConfig()
	src := "#[tidyfmt::skip]\nconst   X   :   i32   =   1  ;\nconst Y:i32=2;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)
	assert.Contains(t, res.Rendered, "const   X   :   i32   =   1  ;")
	assert.Contains(t, res.Rendered, "const Y: i32 = 2;")
}
