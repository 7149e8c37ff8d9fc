package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/confdrift/internal/render"
)

// EnvironmentsCommand holds the configuration for the environments command.
type EnvironmentsCommand struct {
	commonOptions
}

// NewEnvironmentsCommand creates the cross-environment comparison command:
// it diffs the two configured environments against each other at a single
// revision.
func NewEnvironmentsCommand() *cobra.Command {
	ec := &EnvironmentsCommand{}

	cobraCmd := &cobra.Command{
		Use:   "environments <rev> [suppress]",
		Short: "Diff the two environments at one revision",
		Long: `Diff the property files of the two configured environments at a single
revision. Value pairs that only differ by their environment labels are
suppressed unless the optional second argument is anything other than
"true".

The report is printed to stdout as JSON (or YAML with --format yaml);
files without differences are omitted.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: ec.run,
	}

	ec.register(cobraCmd)

	return cobraCmd
}

func (ec *EnvironmentsCommand) run(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	rev := args[0]

	// Only the literal "true" keeps suppression on; any other value asks
	// for the raw, unsuppressed comparison.
	suppress := true
	if len(args) == 2 {
		suppress = args[1] == "true"
	}

	cfg, cfgErr := ec.loadConfig()
	if cfgErr != nil {
		return cfgErr
	}

	scanner, repo, openErr := openScanner(cfg)
	if openErr != nil {
		return openErr
	}
	defer repo.Close()

	slog.Info("comparing environments",
		"revision", rev,
		"left", cfg.Environments.Left.Name,
		"right", cfg.Environments.Right.Name,
		"suppress", suppress)

	result, scanErr := scanner.CrossEnv(cmd.Context(), rev, suppress)
	if scanErr != nil {
		return scanErr
	}

	if ec.summary {
		render.CrossEnvSummary(cmd.ErrOrStderr(), result)
	}

	for file, fd := range result.Files {
		logValueDrift(file, fd.Records)
	}

	return emitResult(cmd.OutOrStdout(), result, ec.format)
}
