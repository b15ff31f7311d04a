package cmd

import (
	stdcontext "context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/probelab/pingmon/internal/config"
	"github.com/probelab/pingmon/internal/lintrun"
)

// Exit codes
const (
	ExitSuccess     = 0 // Clean run (or the tool's own success code)
	ExitConfigError = 2 // Config or invocation error
)

func lintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Run the static-analysis policy over the ambient codebase",
		ArgsUsage: "[-- TOOL_ARGS...]",
		Description: `Composes a single external analyzer invocation from the configured rule
selection set: denied categories are escalated to errors, allowed rules are
suppressed. The tool's own pass/fail exit code is propagated verbatim.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (default: auto-discover)",
			},
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "Named lint target to run",
				Sources: cli.EnvVars("PINGMON_LINT_TARGET"),
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "Working directory for the analysis tool",
				Sources: cli.EnvVars("PINGMON_LINT_DIR"),
			},
			&cli.BoolFlag{
				Name:  "print-command",
				Usage: "Print the composed command line instead of running it",
			},
			verboseFlag(),
		},
		Action: runLint,
	}
}

// runLint is the action handler for the lint command.
func runLint(ctx stdcontext.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	if cmd.IsSet("target") {
		cfg.Lint.Target = cmd.String("target")
	}

	pol, err := cfg.Lint.ResolvePolicy()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	extra := cmd.Args().Slice()

	if cmd.Bool("print-command") {
		for i, arg := range pol.Command(extra...) {
			if i > 0 {
				fmt.Print(" ")
			}
			fmt.Print(arg)
		}
		fmt.Println()
		return nil
	}

	runner := lintrun.NewRunner(
		lintrun.WithDir(cmd.String("dir")),
		lintrun.WithLogger(newLogger(cmd)),
	)

	res, err := runner.Run(ctx, pol, extra...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return cli.Exit("", ExitConfigError)
	}

	// The external tool's determination is the only verdict here.
	if res.ExitCode != ExitSuccess {
		return cli.Exit("", res.ExitCode)
	}
	return nil
}

// loadConfig loads configuration, honoring an explicit --config path.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	if configPath := cmd.String("config"); configPath != "" {
		return config.LoadFromFile(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return config.Load(cwd)
}
