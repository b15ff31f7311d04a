package cmd

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

// newLogger builds the process logger. Structured JSON on stderr keeps
// stdout clean for tool output and the live console view.
func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func verboseFlag() cli.Flag {
	return &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "Enable debug logging",
		Sources: cli.EnvVars("PINGMON_VERBOSE"),
	}
}
