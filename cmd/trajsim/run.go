package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/trajsim/internal/config"
	"github.com/san-kum/trajsim/internal/diagnostics"
	"github.com/san-kum/trajsim/internal/dynamo"
	"github.com/san-kum/trajsim/internal/experiment"
	"github.com/san-kum/trajsim/internal/sim"
	"github.com/san-kum/trajsim/internal/storage"
)

type scenarioFlags struct {
	preset     string
	file       string
	integrator string
	dt         float64
	duration   float64
	maxSteps   int
	params     []string
	init       []float64
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "start from a preset (see `trajsim presets`)")
	cmd.Flags().StringVar(&f.file, "config", "", "scenario file (yaml)")
	cmd.Flags().StringVar(&f.integrator, "integrator", config.DefaultIntegrator, "rk4, rk45 or euler")
	cmd.Flags().Float64Var(&f.dt, "dt", config.DefaultDt, "time step")
	cmd.Flags().Float64Var(&f.duration, "duration", config.DefaultDuration, "simulated time span")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "step limit (0 means none)")
	cmd.Flags().StringSliceVar(&f.params, "param", nil, "model parameter as name=value, repeatable")
	cmd.Flags().Float64SliceVar(&f.init, "init", nil, "initial state, comma separated")
}

// scenario layers, lowest first: defaults, preset, scenario file, then any
// flag given explicitly on the command line.
func (f *scenarioFlags) scenario(cmd *cobra.Command, model string) (*config.Scenario, error) {
	s := config.Default()
	if model != "" {
		s.Model = model
	}
	if f.preset != "" {
		p := config.GetPreset(s.Model, f.preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q for %s (available: %v)", f.preset, s.Model, config.ListPresets(s.Model))
		}
		s = p
	}
	if f.file != "" {
		loaded, err := config.Load(f.file)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		s = loaded
		if model != "" {
			s.Model = model
		}
	}

	flags := cmd.Flags()
	if flags.Changed("integrator") {
		s.Integrator = f.integrator
	}
	if flags.Changed("dt") {
		s.Dt = f.dt
	}
	if flags.Changed("duration") {
		s.Duration = f.duration
	}
	if flags.Changed("max-steps") {
		s.MaxSteps = f.maxSteps
	}
	if flags.Changed("init") {
		s.InitState = f.init
	}
	if len(f.params) > 0 {
		params, err := parseParams(f.params)
		if err != nil {
			return nil, err
		}
		if s.Params == nil {
			s.Params = make(map[string]float64)
		}
		for k, v := range params {
			s.Params[k] = v
		}
	}
	return s, nil
}

func parseParams(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, dynamo.Invalid("param", "expected name=value, got %q", p)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, dynamo.Invalid("param", "%s: %v", name, err)
		}
		out[name] = v
	}
	return out, nil
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	var (
		sf      scenarioFlags
		noSave  bool
		asJSON  bool
		saveCfg string
		lyap    bool
		bound   float64
	)
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "integrate one scenario",
		Long: "Integrate one scenario and print its diagnostics. The model comes from the\n" +
			"argument, the preset or the scenario file, in that order of precedence.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model := ""
			if len(args) == 1 {
				model = args[0]
			}
			s, err := sf.scenario(cmd, model)
			if err != nil {
				return err
			}
			if saveCfg != "" {
				if err := config.Save(saveCfg, s); err != nil {
					return err
				}
			}

			exp, err := experiment.New(experiment.NewRegistry(), s)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			logger.Info("running", "scenario", exp.Name(), "integrator", s.Integrator, "dt", s.Dt, "duration", s.Duration)
			opts := []sim.Option{sim.WithLogger(logger)}
			var bounded *diagnostics.Boundedness
			if bound > 0 {
				bounded = diagnostics.NewBoundedness(bound)
				opts = append(opts, sim.WithObserver(bounded))
			}
			start := time.Now()
			out, runErr := exp.Run(ctx, opts...)
			if out == nil {
				return runErr
			}
			logger.Debug("run finished", "elapsed", time.Since(start))
			if out.Diagnostics == nil {
				out.Diagnostics = diagnostics.Set{}
			}
			if bounded != nil {
				out.Diagnostics[bounded.Name()] = bounded.Value()
			}
			if lyap && runErr == nil {
				lambda, err := exp.Lyapunov(lyapunovSeparation)
				if err != nil {
					return fmt.Errorf("lyapunov: %w", err)
				}
				out.Diagnostics["lyapunov"] = lambda
			}

			runID := ""
			if !noSave {
				runID, err = save(v, s, out)
				if err != nil {
					return err
				}
			}

			if asJSON {
				meta := describe(s, out)
				meta.ID = runID
				if err := storage.ExportJSON(cmd.OutOrStdout(), meta, out.Result.Trajectory); err != nil {
					return err
				}
			} else {
				renderSummary(cmd.OutOrStdout(), exp.Name(), runID, out.Result, out.Diagnostics)
			}
			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the run and trajectory as json")
	cmd.Flags().StringVar(&saveCfg, "save-config", "", "write the resolved scenario to this yaml file")
	cmd.Flags().BoolVar(&lyap, "lyapunov", false, "also estimate the largest lyapunov exponent")
	cmd.Flags().Float64Var(&bound, "bound", 0, "report the fraction of points with every component within this magnitude")
	return cmd
}

// lyapunovSeparation is the initial offset between the reference and the
// perturbed copy.
const lyapunovSeparation = 1e-8

func describe(s *config.Scenario, out *experiment.Outcome) storage.RunMetadata {
	return storage.Describe(storage.RunMetadata{
		Name:       s.Name,
		Model:      s.Model,
		Integrator: s.Integrator,
		Seed:       s.Seed,
		T0:         s.T0,
		Dt:         s.Dt,
		Duration:   s.Duration,
		MaxSteps:   s.MaxSteps,
		Params:     s.Params,
	}, out.Result, out.Diagnostics)
}

// save writes the run directory and indexes it in the catalog.
func save(v *viper.Viper, s *config.Scenario, out *experiment.Outcome) (string, error) {
	st := storage.New(runsDir(v))
	if err := st.Init(); err != nil {
		return "", err
	}
	meta := describe(s, out)
	id, err := st.Save(meta, out.Result.Trajectory)
	if err != nil {
		return "", err
	}

	stored, err := st.Load(id)
	if err != nil {
		return "", err
	}
	cat, err := storage.OpenCatalog(catalogPath(v))
	if err != nil {
		return "", err
	}
	defer cat.Close()
	if err := cat.Record(*stored); err != nil {
		return "", err
	}
	logger.Debug("run stored", "id", id, "dir", st.Dir())
	return id, nil
}
