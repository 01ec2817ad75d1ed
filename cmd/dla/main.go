package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"dla/internal/catalog"
	"dla/internal/config"
	"dla/internal/logging"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	notifySignals(sigs)
	go func() {
		<-sigs
		cancel()
	}()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dla",
		Short: "Diffusion-limited aggregation on a square lattice",
		Long: `dla grows clusters by releasing random walkers from the lattice boundary
until they stick to the cluster, then measures how dense the result is.

Runs are saved as <prefix><k>_<size>_<particles>.npy (plus an optional PNG)
and can be recorded in a SQLite catalog for later comparison.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "YAML config file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: warn, info, debug, trace")
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(),
		newSweepCmd(),
		newAnalyzeCmd(),
		newRunsCmd(),
	)
	return rootCmd
}

// loadConfig resolves defaults, the --config file, DLA_* variables and the
// flags set on cmd, then builds the logger the config asks for.
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.ApplyFlags(cmd.Flags()); err != nil {
		return nil, nil, fmt.Errorf("reading flags: %w", err)
	}
	if !logging.ValidLevel(cfg.Logging.Level) {
		return nil, nil, fmt.Errorf("unknown log level %q", cfg.Logging.Level)
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, cmd.ErrOrStderr()), nil
}

// openCatalog opens the configured catalog, or returns nil when none is set.
func openCatalog(cfg *config.Config) (*catalog.Store, error) {
	if cfg.Catalog.Path == "" {
		return nil, nil
	}
	store, err := catalog.Open(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	return store, nil
}
