package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/trajsim/internal/logging"
)

var logger = logging.Discard()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("trajsim")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("data", ".trajsim")
	v.SetDefault("log-level", "info")
	v.SetDefault("log-format", "color")
	v.SetDefault("workers", 0)

	root := &cobra.Command{
		Use:           "trajsim",
		Short:         "trajectory integration and event detection",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			logger = logging.New(os.Stderr, logging.Options{
				Level:  v.GetString("log-level"),
				Format: v.GetString("log-format"),
			})
			slog.SetDefault(logger)
			return nil
		},
	}

	root.PersistentFlags().String("data", ".trajsim", "data directory (env TRAJSIM_DATA)")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")
	root.PersistentFlags().String("log-format", "color", "color, text or json")
	root.PersistentFlags().Int("workers", 0, "concurrent runs for sweeps (0 uses all cores)")

	root.AddCommand(
		newRunCmd(v),
		newPresetsCmd(),
		newListCmd(v),
		newPlotCmd(v),
		newSweepCmd(v),
		newBuffonCmd(v),
	)
	return root
}

func runsDir(v *viper.Viper) string     { return filepath.Join(v.GetString("data"), "runs") }
func catalogPath(v *viper.Viper) string { return filepath.Join(v.GetString("data"), "catalog.db") }
