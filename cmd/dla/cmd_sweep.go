package main

import (
	"encoding/json"
	"fmt"
	"time"

	"dla/internal/config"
	"dla/internal/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run independent clusters over several stickiness values",
		Long: `sweep runs one engine per stickiness value and replicate on a bounded
worker pool. Each run is saved like 'dla run' would save it. Replicates are
summarised as mean and standard deviation per stickiness value.`,
		Example: `  dla sweep --values 0.25,0.85,0.0075 --particles 15000
  dla sweep --values 0.1,0.5,1 --replicates 4 --chart density.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			store, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			runner := &sweep.Runner{Config: cfg, Catalog: store, Logger: log}
			report, err := runner.Sweep(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(report)
			}
			fmt.Fprintf(out, "%d runs in %s\n", len(report.Results), report.Elapsed.Round(time.Millisecond))
			fmt.Fprintf(out, "%-10s %4s %18s %18s %18s\n", "k", "n", "crop density", "circle density", "neighbor strength")
			for _, p := range report.Points {
				fmt.Fprintf(out, "%-10g %4d %9.4f ± %-6.4f %9.4f ± %-6.4f %9.4f ± %-6.4f\n",
					p.Stickiness, p.Replicates,
					p.CropDensity.Mean, p.CropDensity.StdDev,
					p.CircleDensity.Mean, p.CircleDensity.StdDev,
					p.NeighborStrength.Mean, p.NeighborStrength.StdDev)
			}
			if report.Chart != "" {
				fmt.Fprintf(out, "chart: %s\n", report.Chart)
			}
			return nil
		},
	}
	config.BindRunFlags(cmd.Flags())
	config.BindAnalysisFlags(cmd.Flags())
	config.BindSweepFlags(cmd.Flags())
	return cmd
}
