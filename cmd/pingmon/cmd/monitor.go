package cmd

import (
	stdcontext "context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/probelab/pingmon/internal/config"
	"github.com/probelab/pingmon/internal/monitor"
	"github.com/probelab/pingmon/internal/probe"
	"github.com/probelab/pingmon/internal/report"
	"github.com/probelab/pingmon/internal/store"
)

func monitorCommand() *cli.Command {
	return &cli.Command{
		Name:  "monitor",
		Usage: "Probe targets continuously and serve the chart report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringSliceFlag{
				Name:    "target",
				Usage:   "Target to probe (IPv4 or hostname, can be repeated)",
				Sources: cli.EnvVars("PINGMON_MONITOR_TARGETS", "IP_ADDRESSES"),
			},
			&cli.StringFlag{
				Name:    "interval",
				Usage:   "Probe sweep interval (e.g. 15s)",
				Sources: cli.EnvVars("PINGMON_MONITOR_INTERVAL"),
			},
			&cli.StringFlag{
				Name:    "listen",
				Usage:   "Report server listen address",
				Sources: cli.EnvVars("PINGMON_SERVER_LISTEN"),
			},
			&cli.BoolFlag{
				Name:    "no-server",
				Usage:   "Disable the HTTP report server",
				Sources: cli.EnvVars("PINGMON_NO_SERVER"),
			},
			verboseFlag(),
		},
		Action: runMonitor,
	}
}

// runMonitor is the action handler for the monitor command.
func runMonitor(ctx stdcontext.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}
	applyMonitorFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	logger := newLogger(cmd)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	targets, err := monitor.ResolveTargets(ctx, cfg.Monitor.Targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	names := make([]string, len(targets))
	for i, t := range targets {
		names[i] = t.Name
	}

	st := store.New(names, cfg.Retention())
	metrics := report.NewMetrics()
	pinger := probe.NewICMPPinger(cfg.Monitor.TTL, cfg.ProbeTimeout())
	prober := probe.New(pinger, probe.Config{
		MinMTU: cfg.Monitor.MTUMin,
		MaxMTU: cfg.Monitor.MTUMax,
		Step:   cfg.Monitor.MTUStep,
	})

	mon := monitor.New(monitor.Options{
		Prober:   prober,
		Store:    st,
		Metrics:  metrics,
		Targets:  targets,
		Interval: cfg.ProbeInterval(),
		Logger:   logger,
	})

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return mon.Run(groupCtx) })

	if cfg.Server.Enabled {
		srv := report.NewServer(st, metrics, cfg.Server.Listen, logger)
		group.Go(func() error { return srv.Run(groupCtx) })
	}

	if err := group.Wait(); err != nil && !errors.Is(err, stdcontext.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", 1)
	}
	return nil
}

// applyMonitorFlags layers explicitly set CLI flags over the loaded config.
func applyMonitorFlags(cmd *cli.Command, cfg *config.Config) {
	if cmd.IsSet("target") {
		cfg.Monitor.Targets = cmd.StringSlice("target")
	}
	if cmd.IsSet("interval") {
		cfg.Monitor.Interval = cmd.String("interval")
	}
	if cmd.IsSet("listen") {
		cfg.Server.Listen = cmd.String("listen")
	}
	if cmd.IsSet("no-server") {
		cfg.Server.Enabled = !cmd.Bool("no-server")
	}
}
