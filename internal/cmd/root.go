// Package cmd implements the lifegrid command line.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lifegrid/internal/config"
	"lifegrid/internal/gpu"
	"lifegrid/internal/life"
	"lifegrid/internal/logging"
	"lifegrid/internal/render"
	"lifegrid/internal/render/tui"
	"lifegrid/internal/render/window"
	"lifegrid/internal/simulation"
)

// Execute runs the root command
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the command tree. Each tree carries its own viper
// instance so flags, environment and config file never leak between runs.
func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "lifegrid",
		Short: "Run Conway's Game of Life on a pool of row-band workers",
		Long: `lifegrid advances an N×N Game of Life board for a fixed number of
generations. Each worker owns a contiguous band of rows; every generation is
computed into a staging grid and committed only after all workers finish.

Settings come from flags, LIFEGRID_* environment variables, an optional
YAML config file, and built-in defaults, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initConfig(v)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulation(cmd, v)
		},
	}

	defaults := config.Default()
	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is ./lifegrid.yaml or $HOME/.config/lifegrid/lifegrid.yaml)")
	flags.IntP("size", "n", defaults.Grid.Size, "grid dimension N (the board is N×N)")
	flags.IntP("workers", "w", defaults.Workers, "number of row-band workers")
	flags.IntP("generations", "g", defaults.Generations, "generations to run")
	flags.String("backend", defaults.Backend, "compute backend: "+strings.Join(config.ValidBackends(), ", "))
	flags.String("render", defaults.Render.Mode, "renderer: "+strings.Join(config.ValidRenderModes(), ", "))
	flags.Duration("delay", defaults.Render.Delay, "pause after each frame")
	flags.Int("scale", defaults.Render.Scale, "pixels per cell in window mode")
	flags.Bool("color", defaults.Render.Color, "style live cells when writing to a terminal")
	flags.String("log-level", defaults.Logging.Level, "log level: "+strings.Join(config.ValidLogLevels(), ", "))
	flags.String("log-format", defaults.Logging.Format, "log format: "+strings.Join(config.ValidLogFormats(), ", "))
	flags.String("log-file", "", "append logs to this file instead of stderr")
	flags.String("cpuprofile", "", "write a CPU profile to this file")

	for key, flag := range map[string]string{
		"config":         "config",
		"grid.size":      "size",
		"workers":        "workers",
		"generations":    "generations",
		"backend":        "backend",
		"render.mode":    "render",
		"render.delay":   "delay",
		"render.scale":   "scale",
		"render.color":   "color",
		"logging.level":  "log-level",
		"logging.format": "log-format",
		"logging.file":   "log-file",
		"profile.cpu":    "cpuprofile",
	} {
		_ = v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(newConfigCommand(v))
	return root
}

func initConfig(v *viper.Viper) error {
	config.SetDefaults(v)

	v.SetEnvPrefix("LIFEGRID")
	// LIFEGRID_GRID_SIZE for grid.size
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile := v.GetString("config"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file: %w", err)
		}
		return nil
	}

	v.SetConfigName("lifegrid")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/lifegrid")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config file: %w", err)
		}
	}
	return nil
}

func runSimulation(cmd *cobra.Command, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer log.Close()

	if cfg.Profile.CPU != "" {
		stop, err := startCPUProfile(cfg.Profile.CPU)
		if err != nil {
			return fmt.Errorf("starting CPU profile: %w", err)
		}
		defer stop()
		log.Info("cpu profiling enabled", "path", cfg.Profile.CPU)
	}

	seed, err := cfg.Placements()
	if err != nil {
		return err
	}

	opts := simulation.Options{
		Size:    cfg.Grid.Size,
		Workers: cfg.Workers,
		Seed:    seed,
	}
	if strings.EqualFold(cfg.Backend, config.BackendOpenCL) {
		opts.NewStepper = func(cur, _ *life.Grid) (simulation.Stepper, error) {
			s, err := gpu.NewStepper(cur)
			if err != nil {
				return nil, err
			}
			log.Info("opencl device selected", "device", s.DeviceName())
			return s, nil
		}
	}

	renderer := newRenderer(cfg, cmd.OutOrStdout())
	sim, err := simulation.New(opts, renderer, log)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if host, ok := renderer.(simulation.Host); ok {
		return host.Host(ctx, func(ctx context.Context) error {
			return sim.Run(ctx, cfg.Generations)
		})
	}
	return sim.Run(ctx, cfg.Generations)
}

func newRenderer(cfg *config.Config, out io.Writer) simulation.Renderer {
	switch strings.ToLower(cfg.Render.Mode) {
	case config.RenderTUI:
		return tui.New(cfg.Render.Delay, cfg.Render.Color)
	case config.RenderWindow:
		return window.New(cfg.Grid.Size, cfg.Render.Scale, cfg.Render.Delay)
	case config.RenderNone:
		return render.Discard{}
	default:
		tty := render.IsTerminal(out)
		return render.NewText(out,
			render.WithDelay(cfg.Render.Delay),
			render.WithClear(tty),
			render.WithHeader(true),
			render.WithColor(cfg.Render.Color && tty),
		)
	}
}
