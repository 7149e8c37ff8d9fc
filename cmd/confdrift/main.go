// Package main provides the entry point for the confdrift CLI tool.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/confdrift/cmd/confdrift/commands"
	"github.com/Sumatoshi-tech/confdrift/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "confdrift",
		Short: "Confdrift - configuration drift detection for property files in git",
		Long: `Confdrift detects drift in deployment configuration stored as flat
key=value property files inside a git repository.

Commands:
  revisions     Diff all environments between two revisions
  environments  Diff two environments at one revision`,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogging()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress diagnostic output")

	// Add commands.
	rootCmd.AddCommand(commands.NewRevisionsCommand())
	rootCmd.AddCommand(commands.NewEnvironmentsCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging routes diagnostics to stderr only; stdout carries nothing
// but the result payload.
func setupLogging() {
	level := slog.LevelInfo

	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "confdrift %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
