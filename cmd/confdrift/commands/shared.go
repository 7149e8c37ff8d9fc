// Package commands implements the confdrift subcommands.
package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/confdrift/internal/config"
	"github.com/Sumatoshi-tech/confdrift/internal/render"
	"github.com/Sumatoshi-tech/confdrift/pkg/drift"
	"github.com/Sumatoshi-tech/confdrift/pkg/gitstore"
)

// commonOptions are the flags shared by both comparison commands.
type commonOptions struct {
	configPath string
	repoPath   string
	format     string
	summary    bool
}

// register adds the shared flags to a command.
func (o *commonOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configPath, "config", "", "path to config file (default: .confdrift.yaml in CWD or $HOME)")
	cmd.Flags().StringVar(&o.repoPath, "repo", "", "path to the configuration repository (overrides config and CLOUD_CONFIG_PATH)")
	cmd.Flags().StringVarP(&o.format, "format", "f", render.FormatJSON, "output format (json, yaml)")
	cmd.Flags().BoolVar(&o.summary, "summary", false, "print a change summary table to stderr")
}

// loadConfig resolves effective configuration, applying flag overrides.
func (o *commonOptions) loadConfig() (*config.Config, error) {
	cfg, loadErr := config.LoadConfig(o.configPath)
	if loadErr != nil {
		return nil, loadErr
	}

	if o.repoPath != "" {
		cfg.Repository = o.repoPath
	}

	return cfg, nil
}

// openScanner opens the repository backend and builds a scanner over it.
// The caller must Close the returned repository.
func openScanner(cfg *config.Config) (*drift.Scanner, *gitstore.Repository, error) {
	repo, openErr := gitstore.Open(cfg.Repository)
	if openErr != nil {
		return nil, nil, openErr
	}

	slog.Debug("repository opened", "path", repo.Path())

	norm := drift.NewNormalizerWithRules(cfg.Environments.Left.Strip, cfg.Environments.Right.Strip)

	scanner := drift.NewScanner(repo, norm, drift.ScannerOptions{
		ConfigRoot: cfg.ConfigRoot,
		LeftEnv:    cfg.Environments.Left.Name,
		RightEnv:   cfg.Environments.Right.Name,
		Workers:    cfg.Workers,
	})

	return scanner, repo, nil
}

// emitResult writes the payload to stdout in one piece. Diagnostics never
// share the stream with the payload.
func emitResult(w io.Writer, result any, format string) error {
	emitErr := render.Emit(w, result, format)
	if emitErr != nil {
		return fmt.Errorf("emit result: %w", emitErr)
	}

	return nil
}

// logValueDrift traces changed values at debug level with an inline diff.
func logValueDrift(file string, records []drift.ChangeRecord) {
	for _, record := range records {
		if record.Kind != drift.Changed {
			continue
		}

		slog.Debug("value drift",
			"file", file,
			"key", record.Key,
			"diff", render.ValueDiff(*record.Old, *record.New))
	}
}
