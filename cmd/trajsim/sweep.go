package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/trajsim/internal/experiment"
	"github.com/san-kum/trajsim/internal/sim"
)

func newSweepCmd(v *viper.Viper) *cobra.Command {
	var (
		sf      scenarioFlags
		param   string
		values  []float64
		metrics []string
	)
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "run a scenario once per value of a parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := ""
			if len(args) == 1 {
				model = args[0]
			}
			s, err := sf.scenario(cmd, model)
			if err != nil {
				return err
			}
			if param == "" || len(values) == 0 {
				return fmt.Errorf("sweep needs --over and --values")
			}

			outs, err := experiment.Sweep(cmd.Context(), experiment.NewRegistry(), s, param, values, v.GetInt("workers"), sim.WithLogger(logger))
			if err != nil {
				logger.Warn("sweep incomplete", "error", err)
			}

			header := append([]string{param, "STATUS", "REASON", "T_END"}, metrics...)
			rows := make([][]string, 0, len(outs))
			for i, out := range outs {
				row := []string{fmt.Sprintf("%g", values[i])}
				if out == nil {
					row = append(row, errStyle.Render("error"), "-", "-")
					for range metrics {
						row = append(row, "-")
					}
					rows = append(rows, row)
					continue
				}
				res := out.Result
				row = append(row,
					statusStyle(res.Status).Render(res.Status.String()),
					res.Reason,
					fmt.Sprintf("%.6g", res.Final().T),
				)
				for _, m := range metrics {
					if val, ok := out.Diagnostics[m]; ok {
						row = append(row, fmt.Sprintf("%.6g", val))
					} else {
						row = append(row, "-")
					}
				}
				rows = append(rows, row)
			}
			renderTable(cmd.OutOrStdout(), header, rows)
			return err
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&param, "over", "", "parameter to vary")
	cmd.Flags().Float64SliceVar(&values, "values", nil, "parameter values, comma separated")
	cmd.Flags().StringSliceVar(&metrics, "metric", nil, "diagnostics to tabulate, e.g. pendulum.energy_final")
	return cmd
}
