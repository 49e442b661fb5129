package main

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/trajsim/internal/storage"
)

var stateLabels = map[string][]string{
	"pendulum":   {"theta", "omega"},
	"projectile": {"x", "y", "vx", "vy"},
	"two_body":   {"x", "y", "vx", "vy"},
	"lorentz":    {"x", "y", "vx", "vy"},
}

func newPlotCmd(v *viper.Viper) *cobra.Command {
	var (
		components []int
		height     int
		width      int
	)
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot state components of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(runsDir(v))
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			traj, err := st.LoadTrajectory(args[0])
			if err != nil {
				return err
			}
			if traj.Len() < 2 {
				return fmt.Errorf("run %s has %d points, nothing to plot", meta.ID, traj.Len())
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, kv("run", meta.ID))
			fmt.Fprintln(w, kv("model", meta.Model))
			fmt.Fprintln(w, kv("samples", traj.Len()))
			fmt.Fprintln(w)

			if len(components) == 0 {
				for i := 0; i < min(traj.Dim(), 6); i++ {
					components = append(components, i)
				}
			}
			for _, i := range components {
				if i < 0 || i >= traj.Dim() {
					return fmt.Errorf("component %d out of range for dimension %d", i, traj.Dim())
				}
				fmt.Fprintln(w, asciigraph.Plot(traj.Component(i),
					asciigraph.Height(height),
					asciigraph.Width(width),
					asciigraph.Caption(caption(meta.Model, i, traj.Dim())),
				))
				fmt.Fprintln(w)
			}
			return nil
		},
	}
	cmd.Flags().IntSliceVar(&components, "component", nil, "state indices to plot (default: first six)")
	cmd.Flags().IntVar(&height, "height", 10, "plot height")
	cmd.Flags().IntVar(&width, "width", 80, "plot width")
	return cmd
}

func caption(model string, i, dim int) string {
	labels := stateLabels[model]
	if len(labels) == dim && i < len(labels) {
		return labels[i] + " vs time"
	}
	return fmt.Sprintf("x%d vs time", i)
}
