// Package main is the entry point for tidyfmt.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tidyfmt/tidyfmt/internal/runner"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	check       bool
	diffFlag    bool
	write       bool
	list        bool
	configPath  string
	quiet       bool
	verbose     bool
	jsonOut     bool
	showVersion bool
)

var rootCmd = &cobra.Command{
	Use:   "tidyfmt [flags] [files...]",
	Short: "Format source files",
	Long: `Format source files, similar to gofmt or rustfmt.

Normalizes whitespace, wraps lines to the configured width, reorders and
merges imports, and preserves comments and skip directives. With no
files, reads from stdin and writes to stdout.

Modes:
  (default)   Print formatted code to stdout
  -w          Write result back to source file
  -check      Exit nonzero if any file is not formatted
  -diff       Display a diff of changes
  -l          List files that would be changed

Examples:
  tidyfmt file.rs                 Print formatted output
  tidyfmt -w file.rs              Format in place
  tidyfmt -w ./...                Format a whole tree in place
  tidyfmt -diff file.rs           Show what would change
  tidyfmt -l ./...                List files needing formatting
  cat file.rs | tidyfmt           Format from stdin`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("tidyfmt %s (%s) %s\n", version, commit, date)
			return nil
		}

		opts := &runner.Options{
			Files:      args,
			Check:      check,
			Diff:       diffFlag,
			Write:      write,
			List:       list,
			ConfigPath: configPath,
			Quiet:      quiet,
			Verbose:    verbose,
			JSON:       jsonOut,
			Stdin:      os.Stdin,
			Stdout:     os.Stdout,
			Stderr:     os.Stderr,
		}

		os.Exit(runner.Run(opts))
		return nil
	},
}

func init() {
	rootCmd.Flags().BoolVar(&check, "check", false, "exit 1 if any file is not formatted")
	rootCmd.Flags().BoolVar(&diffFlag, "diff", false, "print unified diff of changes")
	rootCmd.Flags().BoolVarP(&write, "write", "w", false, "write result to file")
	rootCmd.Flags().BoolVarP(&list, "list", "l", false, "list files whose formatting differs")
	rootCmd.Flags().StringVar(&configPath, "config", "", "path to config file")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostics as files are processed")
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "emit diagnostics as JSON")
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "print version and exit")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(runner.ExitError)
	}
}
