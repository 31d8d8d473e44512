// Package runner wires the Document Assembler to file/stdin I/O: apart
// from config-file loading in internal/config, it is the only place in
// the module that touches the filesystem, diffing, or concurrency — the
// core packages (internal/shape, internal/lists, internal/trivia,
// internal/rewrite, internal/format) never do.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/tidyfmt/tidyfmt/internal/config"
	"github.com/tidyfmt/tidyfmt/internal/format"
	"github.com/tidyfmt/tidyfmt/pkg/diff"
)

// Options configures a single invocation of Run, mirroring the
// teacher's own runner.Options, one field per CLI flag.
type Options struct {
	Files      []string
	Check      bool
	Diff       bool
	Write      bool
	List       bool // -l: print paths whose formatting would change.
	JSON       bool // -json: emit diagnostics as a JSON array instead of text.
	ConfigPath string
	Quiet      bool
	Verbose    bool
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// fileDiagnostics pairs one file's path with its collected diagnostics,
// the unit -json serializes.
type fileDiagnostics struct {
	File        string              `json:"file"`
	Diagnostics []format.Diagnostic `json:"diagnostics"`
}

// Exit codes, matching the teacher's convention exactly.
const (
	ExitOK         = 0
	ExitFormatDiff = 1
	ExitError      = 2
)

// Run executes opts and returns the process exit code.
func Run(opts *Options) int {
	cfg, err := config.Load(opts.ConfigPath, ".")
	if err != nil {
		writeErr(opts, "tidyfmt: %v\n", err)
		return ExitError
	}

	if len(opts.Files) == 0 {
		return runStdin(opts, cfg)
	}

	paths, err := expandFiles(opts.Files, cfg)
	if err != nil {
		writeErr(opts, "tidyfmt: %v\n", err)
		return ExitError
	}

	results := make([]fileResult, len(paths))
	eg, _ := errgroup.WithContext(context.Background())
	eg.SetLimit(max(1, runtime.GOMAXPROCS(0)))
	for i, path := range paths {
		i, path := i, path
		eg.Go(func() error {
			results[i] = formatFile(path, cfg)
			return nil
		})
	}
	_ = eg.Wait() // formatFile never returns an error; per-file problems live in fileResult.

	return reportResults(opts, results)
}

// fileResult is one worker's outcome, collected back on the main
// goroutine so reporting (which touches opts.Stdout/Stderr) stays
// single-threaded.
type fileResult struct {
	path      string
	err       error
	changed   bool
	rendered  string
	original  string
	diags     []format.Diagnostic
	hadErrors bool
}

func formatFile(path string, cfg *config.Config) fileResult {
	src, err := os.ReadFile(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	res := format.FormatSource(src, path, cfg)
	return fileResult{
		path:      path,
		changed:   res.Rendered != string(src),
		rendered:  res.Rendered,
		original:  string(src),
		diags:     res.Diagnostics,
		hadErrors: res.HadErrors,
	}
}

// reportResults applies list/check/diff/write-mode branching over
// every formatted file and folds each one's outcome into the run's
// overall exit code, the same precedence the teacher's runFile used
// per file.
func reportResults(opts *Options, results []fileResult) int {
	code := ExitOK
	var allDiags []fileDiagnostics
	for _, r := range results {
		if r.err != nil {
			writeErr(opts, "tidyfmt: %s: %v\n", r.path, r.err)
			code = ExitError
			continue
		}
		if r.hadErrors {
			code = max(code, ExitFormatDiff)
		}

		switch {
		case opts.List:
			if r.changed {
				writeOut(opts, "%s\n", r.path)
				code = max(code, ExitFormatDiff)
			}
		case opts.Check:
			if r.changed {
				code = max(code, ExitFormatDiff)
				if opts.Verbose {
					writeErr(opts, "%s: would reformat\n", r.path)
				}
			}
		case opts.Diff:
			if d := diff.Unified(r.path, r.original, r.rendered); d != "" {
				writeOut(opts, "%s", d)
				code = max(code, ExitFormatDiff)
			}
		case opts.Write:
			if !r.changed {
				continue
			}
			if err := os.WriteFile(r.path, []byte(r.rendered), 0o644); err != nil {
				writeErr(opts, "tidyfmt: %s: %v\n", r.path, err)
				code = ExitError
				continue
			}
			code = max(code, ExitFormatDiff)
			if !opts.Quiet {
				writeErr(opts, "%s: reformatted\n", r.path)
			}
		default:
			// No mode flag: behave like gofmt without -w, printing
			// each file's formatted content to stdout — unless -json
			// is also set, in which case stdout is reserved for the
			// diagnostics payload written after this loop.
			if !opts.JSON {
				writeOut(opts, "%s", r.rendered)
			}
			if r.changed {
				code = max(code, ExitFormatDiff)
			}
		}

		if opts.JSON {
			if len(r.diags) > 0 {
				allDiags = append(allDiags, fileDiagnostics{File: r.path, Diagnostics: r.diags})
			}
		} else if opts.Verbose {
			for _, d := range r.diags {
				writeErr(opts, "%s: %s\n", r.path, d)
			}
		}
	}

	if opts.JSON && opts.Stdout != nil {
		enc := json.NewEncoder(opts.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(allDiags); err != nil {
			writeErr(opts, "tidyfmt: encoding diagnostics: %v\n", err)
			code = max(code, ExitError)
		}
	}
	return code
}

// runStdin formats os.Stdin (or opts.Stdin, for tests) and writes the
// result to opts.Stdout, mirroring the same check/diff/default
// branching as reportResults but without touching the filesystem.
func runStdin(opts *Options, cfg *config.Config) int {
	in := opts.Stdin
	if in == nil {
		in = os.Stdin
	}
	src, err := io.ReadAll(in)
	if err != nil {
		writeErr(opts, "tidyfmt: reading stdin: %v\n", err)
		return ExitError
	}

	res := format.FormatSource(src, "<stdin>", cfg)
	changed := res.Rendered != string(src)

	switch {
	case opts.Check:
		if changed {
			return ExitFormatDiff
		}
		return ExitOK
	case opts.Diff:
		if d := diff.Unified("<stdin>", string(src), res.Rendered); d != "" {
			writeOut(opts, "%s", d)
			return ExitFormatDiff
		}
		return ExitOK
	default:
		writeOut(opts, "%s", res.Rendered)
		if changed {
			return ExitFormatDiff
		}
		return ExitOK
	}
}

// expandFiles walks any directory arguments, collects regular files,
// and drops any path matched by cfg.Ignore (doublestar glob patterns,
// matched against the slash-normalized path).
func expandFiles(args []string, cfg *config.Config) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !isIgnored(arg, cfg.Ignore) {
				out = append(out, arg)
			}
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || isIgnored(path, cfg.Ignore) {
				return nil
			}
			out = append(out, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func isIgnored(path string, patterns []string) bool {
	rel := filepath.ToSlash(path)
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, rel); ok {
			return true
		}
	}
	return false
}

func writeOut(opts *Options, layout string, a ...any) {
	if opts.Stdout != nil {
		fmt.Fprintf(opts.Stdout, layout, a...)
	}
}

func writeErr(opts *Options, layout string, a ...any) {
	if opts.Stderr != nil {
		fmt.Fprintf(opts.Stderr, layout, a...)
	}
}
