package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/confdrift/internal/render"
)

// RevisionsCommand holds the configuration for the revisions command.
type RevisionsCommand struct {
	commonOptions
}

// NewRevisionsCommand creates the temporal comparison command: it diffs
// every environment's property files between two revisions of the
// configuration repository.
func NewRevisionsCommand() *cobra.Command {
	rc := &RevisionsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "revisions <old-rev> <new-rev>",
		Short: "Diff all environments between two revisions",
		Long: `Diff every environment's property files between two revisions of the
configuration repository. Revisions are tag names or commit ids. Every
changed value is reported; environment-label normalization is never applied
to same-environment comparisons.

The report is printed to stdout as JSON (or YAML with --format yaml);
environments and files without changes are omitted.`,
		Args: cobra.ExactArgs(2),
		RunE: rc.run,
	}

	rc.register(cobraCmd)

	return cobraCmd
}

func (rc *RevisionsCommand) run(cmd *cobra.Command, args []string) error {
	// Flags and args parsed; errors from here on are runtime failures, not
	// usage mistakes.
	cmd.SilenceUsage = true

	oldRev, newRev := args[0], args[1]

	cfg, cfgErr := rc.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}

	scanner, repo, openErr := openScanner(cfg)
	if openErr != nil {
		return openErr
	}
	defer repo.Close()

	slog.Info("comparing revisions", "old", oldRev, "new", newRev)

	result, scanErr := scanner.Temporal(cmd.Context(), oldRev, newRev)
	if scanErr != nil {
		return scanErr
	}

	if rc.summary {
		render.TemporalSummary(cmd.ErrOrStderr(), result)
	}

	for env, report := range result.Environments {
		for file, diff := range report {
			logValueDrift(env+"/"+file, diff.Records)
		}
	}

	return emitResult(cmd.OutOrStdout(), result, rc.format)
}
