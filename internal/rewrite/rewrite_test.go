package rewrite

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tidyfmt/tidyfmt/internal/config"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

func rewriteFirstItem(t *testing.T, src string, cfg *config.Config) Result {
	t.Helper()
	file, err := syntax.Parse("t.rs", []byte(src))
	require.NoError(t, err)
	require.NotEmpty(t, file.Items)
	ctx := &Context{Cfg: cfg, File: file}
	return ctx.Rewrite(file.Items[0], shape.Root(cfg.MaxWidth))
}

func TestRewriteConstOrStatic(t *testing.T) {
	cfg := config.DefaultConfig()
	res := rewriteFirstItem(t, "const X:i32=1+1;", cfg)
	require.True(t, res.IsOk())
	assert.Equal(t, "const X: i32 = 1 + 1;", res.Text())
}

func TestRewriteStaticBoolInitializer(t *testing.T) {
	cfg := config.DefaultConfig()
	res := rewriteFirstItem(t, "static Y:bool=true;", cfg)
	require.True(t, res.IsOk())
	assert.Equal(t, "static Y: bool = true;", res.Text())
}

func TestRewriteTypeAlias(t *testing.T) {
	cfg := config.DefaultConfig()
	res := rewriteFirstItem(t, "type Foo=i32;", cfg)
	require.True(t, res.IsOk())
	assert.Equal(t, "type Foo = i32;", res.Text())
}

func TestRewriteUseTree(t *testing.T) {
	res := Ok(RenderUseTree("a::b::c"))
	assert.True(t, res.IsOk())
	assert.Equal(t, "use a::b::c;", res.Text())
}

func TestSpaceBeforeColonConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SpaceBeforeColon = true
	cfg.SpaceAfterColon = false
	res := rewriteFirstItem(t, "const X:i32=1;", cfg)
	require.True(t, res.IsOk())
	assert.Equal(t, "const X :i32 = 1;", res.Text())
}

func TestRewriteUseGroupsMergeAndReorder(t *testing.T) {
	file, err := syntax.Parse("t.rs", []byte("use a::c;\nuse a::b;\nuse a::a;\n"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.MergeImports = true
	cfg.ReorderImports = true
	ctx := &Context{Cfg: cfg, File: file}

	blocks := ctx.RewriteUseGroups(file.Items)
	require.Contains(t, blocks, 0)
	assert.Equal(t, "use a::{a, b, c};", blocks[0])
}

func TestRewriteUseGroupsNoMerge(t *testing.T) {
	file, err := syntax.Parse("t.rs", []byte("use a::c;\nuse a::b;\n"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.MergeImports = false
	cfg.ReorderImports = true
	ctx := &Context{Cfg: cfg, File: file}

	blocks := ctx.RewriteUseGroups(file.Items)
	require.Contains(t, blocks, 0)
	assert.Equal(t, "use a::b;\nuse a::c;", blocks[0])
}

func TestResultOkAndFail(t *testing.T) {
	ok := Ok("hi")
	assert.True(t, ok.IsOk())
	assert.Equal(t, "hi", ok.Text())

	fail := Fail(WidthExceeded)
	assert.False(t, fail.IsOk())
	assert.Equal(t, WidthExceeded, fail.Reason())
}
