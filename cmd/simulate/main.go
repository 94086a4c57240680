// Command simulate plays levels headlessly and prints one YAML summary per
// level.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/rigid2d/internal/core/telemetry"
	"github.com/zeusync/rigid2d/internal/injector"
)

type options struct {
	configPath  string
	levels      string
	trace       string
	traceAppend bool
	dumpConfig  string
	inspect     string
	vx, vy      float64
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML file overlaid on the built-in defaults")
	flag.StringVar(&opts.levels, "levels", "", "Comma separated levels or level files to run (empty = configured levels)")
	flag.StringVar(&opts.trace, "trace", "", "Write sampled trajectories as CSV to this file")
	flag.BoolVar(&opts.traceAppend, "trace-append", false, "Append to the -trace file instead of replacing it")
	flag.StringVar(&opts.dumpConfig, "dump-config", "", "Save the effective configuration as YAML to this file")
	flag.StringVar(&opts.inspect, "inspect", "", "Summarise an existing trace file per level and exit")
	flag.Float64Var(&opts.vx, "vx", 0, "Launch velocity x (0 with -vy 0 = configured velocity)")
	flag.Float64Var(&opts.vy, "vy", 0, "Launch velocity y")
	flag.Parse()

	var err error
	if opts.inspect != "" {
		err = inspect(opts.inspect)
	} else {
		err = run(opts)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner, cleanup, err := injector.InitializeRunner(injector.ConfigPath(opts.configPath))
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := runner.Config()
	if opts.levels != "" {
		cfg.Levels = strings.Split(opts.levels, ",")
	}
	if opts.trace != "" {
		cfg.Telemetry.Path = opts.trace
	}
	if opts.traceAppend {
		cfg.Telemetry.Append = true
	}
	if opts.vx != 0 || opts.vy != 0 {
		cfg.Launch.Velocity.X, cfg.Launch.Velocity.Y = opts.vx, opts.vy
	}
	if err = cfg.Validate(); err != nil {
		return err
	}
	if opts.dumpConfig != "" {
		if err = cfg.WriteYAML(opts.dumpConfig); err != nil {
			return err
		}
	}

	summaries, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	return printYAML(summaries)
}

func inspect(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	samples, err := telemetry.ReadCSV(f)
	if err != nil {
		return err
	}
	return printYAML(telemetry.Stats(samples))
}

func printYAML[T any](docs []T) error {
	out := yaml.NewEncoder(os.Stdout)
	defer out.Close()
	for _, d := range docs {
		if err := out.Encode(d); err != nil {
			return err
		}
	}
	return nil
}
