package format

import (
	"path/filepath"
	"testing"

	"github.com/tidyfmt/tidyfmt/internal/config"
	"github.com/tidyfmt/tidyfmt/internal/testutil"
)

// TestGolden runs every fixture under testdata/golden through
// FormatSource and compares against its recorded expected.rs, in the
// teacher's own golden-file testing style (internal/testutil).
func TestGolden(t *testing.T) {
	cfg := config.DefaultConfig()
	formatFn := func(input string) string {
		return FormatSource([]byte(input), "golden.rs", cfg).Rendered
	}
	testutil.RunGoldenDir(t, filepath.Join("testdata", "golden"), formatFn)
}
