package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/trajsim/internal/storage"
)

func newListCmd(v *viper.Viper) *cobra.Command {
	var filter storage.Filter
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := storage.OpenCatalog(catalogPath(v))
			if err != nil {
				return err
			}
			defer cat.Close()

			runs, err := cat.Find(filter)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs found")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, r := range runs {
				rows = append(rows, []string{
					r.ID,
					r.Model,
					r.CreatedAt.Format("2006-01-02 15:04:05"),
					r.Status,
					r.Reason,
					fmt.Sprintf("%d", r.Steps),
					fmt.Sprintf("%.4g", r.FinalTime),
				})
			}
			renderTable(cmd.OutOrStdout(), []string{"ID", "MODEL", "CREATED", "STATUS", "REASON", "STEPS", "T_END"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Model, "model", "", "only runs of this model")
	cmd.Flags().StringVar(&filter.Status, "status", "", "only runs with this status")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "at most this many runs")
	return cmd
}
