package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyfmt/tidyfmt/internal/config"
)

func TestFormatSourceBasic(t *testing.T) {
	cfg := config.DefaultConfig()
	res := FormatSource([]byte("const X:i32=1+1;\n"), "t.rs", cfg)
	assert.Equal(t, "const X: i32 = 1 + 1;\n", res.Rendered)
	assert.False(t, res.HadErrors)
}

func TestFormatSourceIdempotent(t *testing.T) {
	cfg := config.DefaultConfig()
	first := FormatSource([]byte("const X:i32=1+1;\n"), "t.rs", cfg)
	second := FormatSource([]byte(first.Rendered), "t.rs", cfg)
	assert.Equal(t, first.Rendered, second.Rendered)
}

func TestCheckSource(t *testing.T) {
	cfg := config.DefaultConfig()
	assert.False(t, CheckSource([]byte("const X:i32=1+1;\n"), "t.rs", cfg))
	assert.True(t, CheckSource([]byte("const X: i32 = 1 + 1;\n"), "t.rs", cfg))
}

func TestFormatSourceDisableAllFormatting(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DisableAllFormatting = true
	src := "const   X   :   i32=1+1 ;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)
	assert.Equal(t, src, res.Rendered)
	assert.Empty(t, res.Diagnostics)
}

func TestFormatSourceUnparseable(t *testing.T) {
	cfg := config.DefaultConfig()
	src := "const X: i32 = (((;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)
	assert.Equal(t, src, res.Rendered)
	require.True(t, res.HadErrors)
	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, Unparseable, res.Diagnostics[0].Kind)
}

func TestFormatSourceBlankLineClamping(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BlankLinesUpperBound = 1
	src := "const X: i32 = 1;\n\n\n\nconst Y: i32 = 2;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)
	assert.Equal(t, "const X: i32 = 1;\n\nconst Y: i32 = 2;\n", res.Rendered)
}

func TestFormatSourcePreservesTrailingComment(t *testing.T) {
	cfg := config.DefaultConfig()
	src := "const X: i32 = 1; // keep me\nconst Y: i32 = 2;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)
	assert.Contains(t, res.Rendered, "// keep me")
}

func TestFormatSourceMarkerDiagnostic(t *testing.T) {
	cfg := config.DefaultConfig()
	src := "// TODO: fix this\nconst X: i32 = 1;\n"
	res := FormatSource([]byte(src), "t.rs", cfg)
	found := false
	for _, d := range res.Diagnostics {
		if d.Kind == Marker {
			found = true
		}
	}
	assert.True(t, found, "expected a Marker diagnostic for the TODO comment")
}

func TestDiagKindString(t *testing.T) {
	assert.Equal(t, "WidthExceeded", WidthExceeded.String())
	assert.Equal(t, "Marker", Marker.String())
}
