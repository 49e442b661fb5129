package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/experiment"
)

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list models, integrators and presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			models := config.PresetModels()
			if len(args) == 1 {
				models = []string{args[0]}
			}

			var rows [][]string
			for _, m := range models {
				names := config.ListPresets(m)
				if names == nil {
					return fmt.Errorf("no presets for model %q", m)
				}
				for _, name := range names {
					p := config.GetPreset(m, name)
					rows = append(rows, []string{
						m, name,
						fmt.Sprintf("%g", p.Dt),
						fmt.Sprintf("%.4g", p.Duration),
						fmt.Sprintf("%v", p.InitState),
						eventNames(p),
					})
				}
			}
			renderTable(w, []string{"MODEL", "PRESET", "DT", "DURATION", "INIT", "EVENTS"}, rows)

			if len(args) == 0 {
				reg := experiment.NewRegistry()
				fmt.Fprintln(w)
				fmt.Fprintln(w, kv("models", strings.Join(reg.ListModels(), ", ")))
				fmt.Fprintln(w, kv("integrators", strings.Join(reg.ListIntegrators(), ", ")))
			}
			return nil
		},
	}
}

func eventNames(s *config.Scenario) string {
	if len(s.Events) == 0 {
		return "-"
	}
	names := make([]string, len(s.Events))
	for i, e := range s.Events {
		names[i] = e.Name
	}
	return strings.Join(names, ",")
}
