// Package monitor runs the probe loop: every interval it measures MTU and
// latency for each target, records the results and prunes old history.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/probelab/pingmon/internal/probe"
	"github.com/probelab/pingmon/internal/report"
	"github.com/probelab/pingmon/internal/store"
)

// Monitor owns the probe loop.
type Monitor struct {
	prober   *probe.Prober
	store    *store.Store
	metrics  *report.Metrics
	targets  []Target
	interval time.Duration
	logger   *slog.Logger
	console  *consoleView
}

// Options configures a Monitor.
type Options struct {
	Prober   *probe.Prober
	Store    *store.Store
	Metrics  *report.Metrics
	Targets  []Target
	Interval time.Duration
	Logger   *slog.Logger

	// ConsoleOut receives the live status view; defaults to stdout.
	ConsoleOut io.Writer
}

// New creates a Monitor.
func New(opts Options) *Monitor {
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.ConsoleOut == nil {
		opts.ConsoleOut = os.Stdout
	}
	return &Monitor{
		prober:   opts.Prober,
		store:    opts.Store,
		metrics:  opts.Metrics,
		targets:  opts.Targets,
		interval: opts.Interval,
		logger:   opts.Logger,
		console:  newConsoleView(opts.ConsoleOut, opts.Targets),
	}
}

// Run probes all targets immediately and then on every tick until the
// context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"targets", len(m.targets), "interval", m.interval)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopped")
			return ctx.Err()
		case <-ticker.C:
			m.sweep(ctx)
		}
	}
}

// sweep probes every target once, records results and prunes retention.
func (m *Monitor) sweep(ctx context.Context) {
	now := time.Now()
	results := make(map[string]probe.Result, len(m.targets))

	for _, target := range m.targets {
		if ctx.Err() != nil {
			return
		}
		res, ok := m.prober.Probe(ctx, target.Addr)
		if !ok {
			res = probe.Down()
			m.logger.Warn("target down", "target", target.Name)
		} else {
			m.logger.Debug("probe ok",
				"target", target.Name, "mtu", res.MTU, "latency", res.Latency)
		}

		results[target.Name] = res
		m.store.Record(target.Name, now, res)
		if m.metrics != nil {
			m.metrics.Observe(target.Name, res, ok)
		}
	}

	m.store.Prune(now)
	m.console.update(now, results)
}
