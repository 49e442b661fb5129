package main

import (
	"fmt"
	"math"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/trajsim/internal/montecarlo"
)

func newBuffonCmd(v *viper.Viper) *cobra.Command {
	var (
		needle montecarlo.Needle
		sizes  []int
		seed   int64
	)
	cmd := &cobra.Command{
		Use:   "buffon",
		Short: "estimate pi by dropping needles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ests, err := needle.Sweep(cmd.Context(), sizes, seed, v.GetInt("workers"))
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(ests))
			errs := make([]float64, 0, len(ests))
			for _, e := range ests {
				rows = append(rows, []string{
					fmt.Sprintf("%d", e.Drops),
					fmt.Sprintf("%d", e.Hits),
					fmt.Sprintf("%.6f", e.Pi),
					fmt.Sprintf("%.2e", e.Error),
					fmt.Sprintf("%d", e.Seed),
				})
				errs = append(errs, math.Log10(math.Max(e.Error, 1e-12)))
			}
			w := cmd.OutOrStdout()
			renderTable(w, []string{"DROPS", "HITS", "PI", "ERROR", "SEED"}, rows)
			if len(errs) > 1 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, asciigraph.Plot(errs, asciigraph.Height(8), asciigraph.Caption("log10 |error| by sample size")))
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&needle.Length, "length", 1, "needle length")
	cmd.Flags().Float64Var(&needle.Spacing, "spacing", 1, "line spacing")
	cmd.Flags().IntSliceVar(&sizes, "drops", []int{1_000, 10_000, 100_000, 1_000_000}, "sample sizes")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed of the first sample; later sizes use seed+i")
	return cmd
}
