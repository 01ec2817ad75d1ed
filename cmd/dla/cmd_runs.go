package main

import (
	"encoding/json"
	"fmt"
	"time"

	"dla/internal/catalog"

	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List runs recorded in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cfg.Catalog.Path == "" {
				return fmt.Errorf("no catalog configured, set --catalog or DLA_CATALOG")
			}
			store, err := openCatalog(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			var filter catalog.Filter
			if cmd.Flags().Changed("k") {
				k, _ := cmd.Flags().GetFloat64("k")
				filter.Stickiness = &k
			}
			filter.Size, _ = cmd.Flags().GetInt("size")
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			runs, err := store.List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(map[string]interface{}{
					"runs":  runs,
					"count": len(runs),
				})
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			fmt.Fprintf(out, "%-5s %-20s %-8s %5s %9s %8s %8s %8s %s\n",
				"ID", "CREATED", "K", "SIZE", "PARTICLES", "CROP", "CIRCLE", "NEIGH", "GRID")
			for _, r := range runs {
				fmt.Fprintf(out, "%-5d %-20s %-8g %5d %9d %8.4f %8.4f %8.4f %s\n",
					r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Stickiness, r.Size, r.Particles,
					r.CropDensity, r.CircleDensity, r.NeighborStrength, r.NPYPath)
			}
			return nil
		},
	}
	cmd.Flags().String("catalog", "", "sqlite run catalog")
	cmd.Flags().Float64("k", 0, "only runs with this stickiness")
	cmd.Flags().Int("size", 0, "only runs with this lattice size")
	cmd.Flags().Int("limit", 20, "maximum rows (0 = all)")
	return cmd
}
