package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/okra-platform/repokit/internal/commands"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	short := commit
	if len(commit) > 7 {
		short = commit[:7]
	}

	return fmt.Sprintf("%s (%s) %s", version, short, date)
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(&commands.Flags{}).Run(ctx, os.Args); err != nil {
		if errors.Is(err, commands.ErrFailed) {
			stop()
			os.Exit(1)
		}
		log.Fatal().Err(err).Msg("failed to run repokit")
	}
}

func newApp(flags *commands.Flags) *cli.Command {
	return &cli.Command{
		Name:    "repokit",
		Usage:   "Scaffold models, repositories and controllers, and bind them in the service container",
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("REPOKIT_LOG_LEVEL"),
				Value:       "warn",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "path to repokit.json (default: search the working directory and its parents)",
				Destination: &flags.Config,
			},
			&cli.StringFlag{
				Name:        "target",
				Usage:       "project target (go, laravel, php); overrides the config file",
				Destination: &flags.Target,
			},
			&cli.StringFlag{
				Name:        "root",
				Usage:       "project root (default: the working directory)",
				Destination: &flags.Root,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			level, err := zerolog.ParseLevel(flags.LogLevel)
			if err != nil {
				return ctx, fmt.Errorf("failed to parse log level: %w", err)
			}

			log.Logger = log.Level(level)

			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:      "make",
				Usage:     "Create the model, repository interface, repository and controller of a resource and bind the repository",
				ArgsUsage: "[name]",
				Action: func(ctx context.Context, c *cli.Command) error {
					return commands.NewController(flags).Make(ctx, c.Args().First())
				},
			},
			{
				Name:      "plan",
				Usage:     "Show which files make would create or skip",
				ArgsUsage: "[name]",
				Action: func(ctx context.Context, c *cli.Command) error {
					return commands.NewController(flags).Plan(ctx, c.Args().First())
				},
			},
			{
				Name:  "sync",
				Usage: "Scaffold every resource listed in the manifest",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "watch",
						Usage: "sync again whenever the manifest changes",
					},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					return commands.NewController(flags).Sync(ctx, c.Bool("watch"))
				},
			},
			{
				Name:  "init",
				Usage: "Write repokit.json and an empty resources manifest",
				Action: func(ctx context.Context, c *cli.Command) error {
					return commands.NewController(flags).Init(ctx)
				},
			},
		},
	}
}
