// Package testutil provides shared test helpers for golden file testing
// of whole-source formatting runs.
package testutil

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/pmezard/go-difflib/difflib"
)

// Update is a flag that, when set, regenerates golden files from current
// output. Usage: go test ./... -update
var Update = flag.Bool("update", false, "update golden files")

// FormatFunc is the signature for a function that formats one Rust
// compilation unit's source.
type FormatFunc func(input string) string

// RunGolden runs a single golden file test in the given directory. It
// reads input.rs, applies formatFn, and compares against expected.rs.
// It also re-applies formatFn to its own output and requires the
// second pass to be a no-op, per the idempotence property every
// formatting run must satisfy for any already-formatted input.
func RunGolden(t *testing.T, dir string, formatFn FormatFunc) {
	t.Helper()

	inputPath := filepath.Join(dir, "input.rs")
	expectedPath := filepath.Join(dir, "expected.rs")

	inputBytes, err := os.ReadFile(inputPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", inputPath, err)
	}

	actual := formatFn(string(inputBytes))

	if *Update {
		if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
			t.Fatalf("failed to update golden file %s: %v", expectedPath, err)
		}
		t.Logf("updated golden file: %s", expectedPath)
		return
	}

	expectedBytes, err := os.ReadFile(expectedPath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", expectedPath, err)
	}

	expected := string(expectedBytes)
	if actual != expected {
		t.Errorf("output mismatch for %s:\n%s", dir, unifiedDiff(expectedPath, expected, actual))
	}

	reformatted := formatFn(actual)
	if reformatted != actual {
		t.Errorf("not idempotent for %s: formatting the output changed it again:\n%s",
			dir, unifiedDiff(expectedPath, actual, reformatted))
	}
}

// RunGoldenDir walks all subdirectories under testdataDir and runs
// RunGolden for each as a subtest.
func RunGoldenDir(t *testing.T, testdataDir string, formatFn FormatFunc) {
	t.Helper()

	entries, err := os.ReadDir(testdataDir)
	if err != nil {
		t.Fatalf("failed to read testdata dir %s: %v", testdataDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		t.Run(entry.Name(), func(t *testing.T) {
			dir := filepath.Join(testdataDir, entry.Name())
			RunGolden(t, dir, formatFn)
		})
	}
}

// unifiedDiff renders a patch-style diff between want and got so a
// golden mismatch points straight at the differing lines instead of
// making the reader scan two full file dumps by eye.
func unifiedDiff(name, want, got string) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: name + " (want)",
		ToFile:   name + " (got)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "--- want\n" + want + "\n--- got\n" + got
	}
	return text
}
