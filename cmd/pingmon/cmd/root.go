package cmd

import (
	"context"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/probelab/pingmon/internal/version"
)

// NewApp creates the CLI application
func NewApp() *cli.Command {
	return &cli.Command{
		Name:    "pingmon",
		Usage:   "A path-MTU and latency monitor with a policy-driven lint runner",
		Version: version.Version(),
		Description: `pingmon probes a set of targets with don't-fragment pings, walking the
payload size range to find the largest deliverable MTU, and records latency.
Results are kept for a rolling window and served as an HTML chart report
and Prometheus metrics.

The lint command runs an external static-analysis tool under a fixed
deny/allow rule policy and propagates its exit code.

Examples:
  pingmon monitor --target 1.1.1.1 --target 8.8.8.8
  pingmon lint
  pingmon lint --target clippy -- --workspace`,
		Commands: []*cli.Command{
			monitorCommand(),
			lintCommand(),
			versionCommand(),
		},
	}
}

// Execute runs the CLI application
func Execute() error {
	return NewApp().Run(context.Background(), os.Args)
}
