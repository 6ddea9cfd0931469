package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/moodiary/internal/config"
	"github.com/mikey/moodiary/internal/core"
	"github.com/mikey/moodiary/internal/di"
)

// rootOptions holds the persistent flags shared by every command
type rootOptions struct {
	configFile string
	verbose    bool
	strategy   string
	provider   string
	model      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "moodiary",
		Short: "Emotion analysis for journal entries",
		Long: `moodiary records journal entries and analyzes their mood with an LLM provider,
falling back to a local rule-based scorer when no provider is configured or a call fails.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Path to config file (default: search /etc/moodiary, ~/.moodiary, ./configs, .)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	flags.StringVar(&opts.strategy, "strategy", "", "Analysis strategy override (auto, rule, llm, local)")
	flags.StringVar(&opts.provider, "provider", "", "LLM provider override")
	flags.StringVar(&opts.model, "model", "", "LLM model override")

	cmd.AddCommand(
		newAnalyzeCmd(opts),
		newBatchCmd(opts),
		newAddCmd(opts),
		newListCmd(opts),
		newDeleteCmd(opts),
		newReanalyzeCmd(opts),
		newSearchCmd(opts),
		newStatsCmd(opts),
		newTagsCmd(opts),
		newModelsCmd(opts),
		newTestConnectionCmd(opts),
	)

	return cmd
}

// run builds the container, applies flag overrides and invokes fn with its dependencies
func (o *rootOptions) run(fn any) error {
	container, err := di.BuildContainer(di.Options{
		ConfigFile: o.configFile,
		Verbose:    o.verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to build dependency container: %w", err)
	}

	if err := container.Invoke(o.applyOverrides); err != nil {
		return err
	}
	defer closeRepository(container)

	return container.Invoke(fn)
}

func (o *rootOptions) applyOverrides(cfg *config.Config) {
	if o.strategy != "" {
		cfg.Set("analysis.strategy", o.strategy)
	}
	if o.provider != "" {
		cfg.Set("llm.provider", o.provider)
	}
	if o.model != "" {
		cfg.Set("llm.model", o.model)
	}
}

func closeRepository(container *dig.Container) {
	_ = container.Invoke(func(repo core.EntryRepository, logger *zap.Logger) {
		defer logger.Sync()
		if closer, ok := repo.(io.Closer); ok {
			if err := closer.Close(); err != nil {
				logger.Error("Failed to close entry store", zap.Error(err))
			}
		}
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
