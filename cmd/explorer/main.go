// Command explorer runs the planet exploration mission, either fully
// simulated or against the mothership's MQTT broker with the simulated
// robot driving a local copy of the planet.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/kaczynskimat/robolab/config"
	"github.com/kaczynskimat/robolab/mission"
	"github.com/kaczynskimat/robolab/mothership"
	"github.com/kaczynskimat/robolab/sim"
)

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// options are the command-line overrides.
type options struct {
	configPath string
	planetPath string
	simulate   bool
	logLevel   string
	logFormat  string
	grid       string
	seed       int64
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("explorer", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.Usage = func() {
		fmt.Fprint(output, `
explorer - explores a robolab planet and reports to the mothership.

Usage:
  explorer [options]

Options:
`)
		fs.PrintDefaults()
	}
	fs.StringVar(&o.configPath, "config", "", "Path to the YAML configuration. Empty runs the sample planet offline.")
	fs.StringVar(&o.planetPath, "planet", "", "Planet file the simulated robot drives on (overrides simulation.planet).")
	fs.BoolVar(&o.simulate, "sim", false, "Use the simulated mothership even if the configuration disables it.")
	fs.StringVar(&o.logLevel, "log-level", "", "Logging level: debug, info, warn, error.")
	fs.StringVar(&o.logFormat, "log-format", "", "Log format: text, json, auto.")
	fs.StringVar(&o.grid, "grid", "", "Drive a generated COLSxROWS grid planet instead of a planet file.")
	fs.Int64Var(&o.seed, "seed", 1, "Random seed of the generated grid planet.")

	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	return o, nil
}

func loadConfig(o options) (*config.Config, error) {
	cfg := config.Default()
	if o.configPath != "" {
		var err error
		if cfg, err = config.Load(o.configPath); err != nil {
			return nil, err
		}
	}
	if o.planetPath != "" {
		cfg.Simulation.Planet = o.planetPath
	}
	if o.simulate {
		cfg.Simulation.Enabled = true
	}
	if o.logLevel != "" {
		cfg.Logging.Level = strings.ToLower(o.logLevel)
	}
	if o.logFormat != "" {
		cfg.Logging.Format = strings.ToLower(o.logFormat)
	}

	return cfg, cfg.Validate()
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW, logW io.Writer, args []string) error {
	o, err := parseFlags(args, outW)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(o)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format, logW)
	logger.Debug("configuration loaded", "summary", cfg.Summary())

	p, err := loadPlanet(cfg, o)
	if err != nil {
		return err
	}
	robot := sim.NewRobot(p)

	var ms mission.Mothership
	if cfg.Simulation.Enabled {
		ms = sim.NewMothership(p, sim.WithLogger(logger))
	} else {
		session, closeFn, err := dial(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer closeFn()
		ms = session
	}

	m := mission.New(robot, sim.NewOdometry(robot), ms,
		mission.WithLogger(logger),
		mission.WithMaxSteps(cfg.Mission.MaxSteps),
	)
	res, err := m.Run(ctx)
	if err != nil {
		return fmt.Errorf("mission on %s failed after %d steps: %w", p.Name, res.Steps, err)
	}

	fmt.Fprintf(outW, "Planet %s: %s at %s\n", res.Planet, res.Reason, res.Position)
	fmt.Fprintf(outW, "Driven %s paths, total weight %s\n",
		humanize.Comma(int64(res.Steps)), humanize.Comma(int64(res.Cost)))
	if res.Message != "" {
		fmt.Fprintf(outW, "Mothership: %s\n", res.Message)
	}
	fmt.Fprint(outW, m.Engine().Paths().String())

	return nil
}

// loadPlanet reads the configured planet file, or generates a grid when
// -grid is set.
func loadPlanet(cfg *config.Config, o options) (*sim.Planet, error) {
	if o.grid == "" {
		return sim.LoadPlanet(cfg.Simulation.Planet)
	}
	var cols, rows int
	if _, err := fmt.Sscanf(strings.ToLower(o.grid), "%dx%d", &cols, &rows); err != nil {
		return nil, fmt.Errorf("invalid -grid %q, want COLSxROWS: %w", o.grid, err)
	}

	return sim.Grid(cols, rows, sim.WithSeed(o.seed), sim.WithWeights(1, 9), sim.WithBlockedRatio(0.1))
}

// dial connects to the broker and opens a session on the group channel.
func dial(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*mothership.Session, func(), error) {
	t := mothership.NewMQTTTransport(mothership.MQTTConfig{
		Broker:   cfg.Mothership.Broker,
		Port:     cfg.Mothership.Port,
		Group:    cfg.Group,
		Username: cfg.Mothership.Username,
		Password: cfg.Mothership.Password,
	}, mothership.WithMQTTLogger(logger))
	if err := t.Connect(ctx); err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := t.Close(); err != nil {
			logger.Warn("closing transport", "err", err)
		}
	}

	s := mothership.NewSession(t, cfg.Group,
		mothership.WithQuietPeriod(cfg.Mothership.QuietPeriod),
		mothership.WithSessionLogger(logger),
	)
	if err := s.Open(ctx); err != nil {
		closeFn()
		return nil, nil, err
	}
	if cfg.Mothership.TestPlanet != "" {
		if err := s.TestPlanet(ctx, cfg.Mothership.TestPlanet); err != nil {
			closeFn()
			return nil, nil, err
		}
	}

	return s, closeFn, nil
}
