package runner

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRunFormatToStdout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rs")
	if err := os.WriteFile(path, []byte("const X:i32=1+1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{path},
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitFormatDiff {
		t.Errorf("exit code: got %d, want %d", code, ExitFormatDiff)
	}
	if stdout.String() != "const X: i32 = 1 + 1;\n" {
		t.Errorf("stdout: got %q", stdout.String())
	}
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()

	unformatted := filepath.Join(dir, "bad.rs")
	if err := os.WriteFile(unformatted, []byte("const X:i32=1+1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{unformatted},
		Check:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitFormatDiff {
		t.Errorf("check unformatted: got %d, want %d", code, ExitFormatDiff)
	}

	formatted := filepath.Join(dir, "good.rs")
	if err := os.WriteFile(formatted, []byte("const X: i32 = 1 + 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout.Reset()
	stderr.Reset()
	code = Run(&Options{
		Files:  []string{formatted},
		Check:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitOK {
		t.Errorf("check formatted: got %d, want %d", code, ExitOK)
	}
}

func TestRunDiff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rs")
	if err := os.WriteFile(path, []byte("const X:i32=1+1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{path},
		Diff:   true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitFormatDiff {
		t.Errorf("exit code: got %d, want %d", code, ExitFormatDiff)
	}

	output := stdout.String()
	if output == "" {
		t.Error("expected non-empty diff")
	}
	if !bytes.Contains(stdout.Bytes(), []byte("-const X:i32=1+1;")) {
		t.Error("diff missing old line")
	}
	if !bytes.Contains(stdout.Bytes(), []byte("+const X: i32 = 1 + 1;")) {
		t.Error("diff missing new line")
	}
}

func TestRunWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rs")
	if err := os.WriteFile(path, []byte("const X:i32=1+1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{path},
		Write:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitFormatDiff {
		t.Errorf("exit code: got %d, want %d", code, ExitFormatDiff)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "const X: i32 = 1 + 1;\n" {
		t.Errorf("file content: got %q", string(data))
	}
}

func TestRunMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{"/nonexistent/path/test.rs"},
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitError {
		t.Errorf("exit code: got %d, want %d", code, ExitError)
	}
}

func TestRunAlreadyFormatted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rs")
	content := "const X: i32 = 1 + 1;\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{path},
		Diff:   true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitOK {
		t.Errorf("exit code: got %d, want %d", code, ExitOK)
	}
	if stdout.Len() != 0 {
		t.Errorf("expected no diff output, got: %s", stdout.String())
	}
}

func TestRunMultipleFiles(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.rs")
	bad := filepath.Join(dir, "bad.rs")

	if err := os.WriteFile(good, []byte("const X: i32 = 1 + 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bad, []byte("const X:i32=1+1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Files:  []string{good, bad},
		Check:  true,
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitFormatDiff {
		t.Errorf("exit code: got %d, want %d", code, ExitFormatDiff)
	}
}

func TestRunVerbose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rs")
	if err := os.WriteFile(path, []byte("const X: i32 = 1 + 1;\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	_ = Run(&Options{
		Files:   []string{path},
		Write:   true,
		Verbose: true,
		Stdout:  &stdout,
		Stderr:  &stderr,
	})

	_ = stderr // already-formatted file emits no reformat line; this checks Run doesn't panic under -v.
}

func TestRunStdin(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Run(&Options{
		Stdin:  bytes.NewBufferString("const X:i32=1+1;\n"),
		Stdout: &stdout,
		Stderr: &stderr,
	})

	if code != ExitFormatDiff {
		t.Errorf("exit code: got %d, want %d", code, ExitFormatDiff)
	}
	if stdout.String() != "const X: i32 = 1 + 1;\n" {
		t.Errorf("stdout: got %q", stdout.String())
	}
}
