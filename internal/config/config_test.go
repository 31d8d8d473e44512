package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, uint32(100), cfg.MaxWidth)
	assert.Equal(t, uint32(4), cfg.TabSpaces)
	assert.Equal(t, "Block", cfg.IndentStyle)
	assert.Equal(t, []string{"TODO", "FIXME"}, cfg.TodoMarkers)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsZeroWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWidth = 0
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *InvalidError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, "max_width", invalid.Field)
}

func TestValidateRejectsUnknownEnum(t *testing.T) {
	cfg := DefaultConfig()
	cfg.IndentStyle = "Diagonal"
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *InvalidError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, "indent_style", invalid.Field)
}

func TestValidateRejectsInvertedBlankLineBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlankLinesUpperBound = 0
	cfg.BlankLinesLowerBound = 1
	err := cfg.Validate()
	require.Error(t, err)
	var invalid *InvalidError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, "blank_lines_lower_bound", invalid.Field)
}

func TestLoadNoConfigReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	yaml := "max_width: 80\ntab_spaces: 2\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.EqualValues(t, 80, cfg.MaxWidth)
	assert.EqualValues(t, 2, cfg.TabSpaces)
	// Unspecified fields retain defaults.
	assert.Equal(t, "Block", cfg.IndentStyle)
}

func TestLoadDiscoversTidyfmtYml(t *testing.T) {
	dir := t.TempDir()
	content := []byte("max_width: 120\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tidyfmt.yml"), content, 0o644))

	cfg, err := Load("", dir)
	require.NoError(t, err)
	assert.EqualValues(t, 120, cfg.MaxWidth)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("max_width: 0\n"), 0o644))

	_, err := Load(path, dir)
	require.Error(t, err)
}

func TestDiscoverPriority(t *testing.T) {
	dir := t.TempDir()
	content := []byte("max_width: 90\n")

	for _, name := range []string{"tidyfmt.yml", ".tidyfmt.yml", "Tidyfmt.toml"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), content, 0o644))
	}

	got := Discover(dir)
	assert.Equal(t, filepath.Join(dir, "tidyfmt.yml"), got)

	require.NoError(t, os.Remove(filepath.Join(dir, "tidyfmt.yml")))
	got = Discover(dir)
	assert.Equal(t, filepath.Join(dir, ".tidyfmt.yml"), got)
}

func TestDiscoverNoFiles(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", Discover(dir))
}
