package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/mdbacklinks/internal"
	pkgconfig "github.com/starford/mdbacklinks/pkg/config"
)

func run(ctx context.Context, cmd *cli.Command) error {
	cfg := internal.NewDefaultConfig()

	if configPath := cmd.String("config"); configPath != "" {
		if err := pkgconfig.Load(configPath, cfg); err != nil {
			return fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if cmd.NArg() > 1 {
		return fmt.Errorf("expected a single document root, got %d arguments", cmd.NArg())
	}
	if root := cmd.Args().First(); root != "" {
		cfg.Docs.Path = root
	}
	if cmd.IsSet("dry-run") {
		cfg.Sync.DryRun = cmd.Bool("dry-run")
	}
	if cmd.IsSet("watch") {
		cfg.Sync.Watch = cmd.Bool("watch")
	}
	if cmd.IsSet("debounce") {
		cfg.Sync.Debounce = cmd.Duration("debounce")
	}
	if cmd.IsSet("index") {
		cfg.Export.SQLitePath = cmd.String("index")
	}
	if cmd.IsSet("log-level") {
		if err := cfg.App.LogLevel.UnmarshalText([]byte(cmd.String("log-level"))); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}

	if err := pkgconfig.Validate(cfg); err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}

	return nil
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "mdbacklinks",
		Usage:     "Add a Backlinks section to every Markdown document that other documents link to",
		ArgsUsage: "ROOT",
		Action:    run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("MDBACKLINKS_CONFIG"),
			},
			&cli.BoolFlag{
				Name:    "dry-run",
				Aliases: []string{"n"},
				Usage:   "Report the documents that would change without writing them",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and re-sync whenever a Markdown file changes",
			},
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before a watch-mode re-sync",
			},
			&cli.StringFlag{
				Name:    "index",
				Usage:   "Export the link graph to this SQLite file after every run",
				Sources: cli.EnvVars("MDBACKLINKS_INDEX"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level: debug, info, warn, or error",
				Sources: cli.EnvVars("MDBACKLINKS_LOG_LEVEL"),
			},
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
