package main

import (
	"encoding/json"
	"fmt"
	"time"

	"dla/internal/config"
	"dla/internal/sweep"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Grow one cluster, analyse it and save the grid",
		Example: `  dla run --size 251 --k 0.25 --particles 15000
  dla run --k 1 --particles 2000 --out ./out/ --colorize --catalog runs.db`,
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
			res, err := runner.Run(cmd.Context(), sweep.Job{Stickiness: cfg.Run.Stickiness, Seed: cfg.Run.Seed})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(res)
			}
			fmt.Fprintf(out, "k=%g size=%d added=%d occupied=%d elapsed=%s\n",
				res.Job.Stickiness, res.Summary.Size, res.Added, res.Summary.Occupied, res.Elapsed.Round(time.Millisecond))
			fmt.Fprintf(out, "  crop density:      %.4f\n", res.Summary.CropDensity)
			fmt.Fprintf(out, "  circle density:    %.4f\n", res.Summary.CircleDensity)
			fmt.Fprintf(out, "  neighbor strength: %.4f\n", res.Summary.NeighborStrength)
			fmt.Fprintf(out, "  max radius:        %.2f\n", res.Summary.MaxRadius)
			fmt.Fprintf(out, "  grid:  %s\n", res.Artifacts.NPY)
			if res.Artifacts.PNG != "" {
				fmt.Fprintf(out, "  image: %s\n", res.Artifacts.PNG)
			}
			if res.CatalogID > 0 {
				fmt.Fprintf(out, "  catalog id: %d\n", res.CatalogID)
			}
			return nil
		},
	}
	config.BindRunFlags(cmd.Flags())
	config.BindAnalysisFlags(cmd.Flags())
	return cmd
}
