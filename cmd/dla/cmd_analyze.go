package main

import (
	"encoding/json"
	"fmt"

	"dla/internal/analysis"
	"dla/internal/config"
	"dla/internal/core"
	"dla/internal/output"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <grid.npy>...",
		Short: "Compute density statistics of saved grids",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			type fileSummary struct {
				Path string `json:"path"`
				analysis.Summary
			}
			var summaries []fileSummary
			for _, path := range args {
				g, err := output.Load(path)
				if err != nil {
					return err
				}
				if g.W != g.H {
					return &core.ConfigError{Field: "grid", Value: fmt.Sprintf("%dx%d", g.H, g.W), Expected: "a square grid"}
				}
				s, err := analysis.Summarize(g, cfg.Analysis)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				summaries = append(summaries, fileSummary{Path: path, Summary: s})
			}

			out := cmd.OutOrStdout()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(out).Encode(summaries)
			}
			for _, s := range summaries {
				fmt.Fprintf(out, "%s\n", s.Path)
				fmt.Fprintf(out, "  size=%d occupied=%d\n", s.Size, s.Occupied)
				fmt.Fprintf(out, "  crop density:      %.4f\n", s.CropDensity)
				fmt.Fprintf(out, "  circle density:    %.4f\n", s.CircleDensity)
				fmt.Fprintf(out, "  neighbor strength: %.4f\n", s.NeighborStrength)
				fmt.Fprintf(out, "  max radius:        %.2f\n", s.MaxRadius)
			}
			return nil
		},
	}
	config.BindAnalysisFlags(cmd.Flags())
	return cmd
}
