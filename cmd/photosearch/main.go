package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/GoArmGo/PhotoSearch/internal/app"
	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/di"
	"github.com/GoArmGo/PhotoSearch/internal/logger"
)

func main() {
	// bootstrap-логгер нужен до загрузки конфигурации
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	cmd := &cli.Command{
		Name:  "photosearch",
		Usage: "Photo search service backed by the Unsplash API",
		Commands: []*cli.Command{
			runCommand(app.ModeServer, "Run the HTTP search API"),
			runCommand(app.ModeWorker, "Consume download tracking jobs from RabbitMQ"),
			searchCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		bootstrapLogger.Error("application run failed", "error", err)
		os.Exit(1)
	}
}

func runCommand(mode, usage string) *cli.Command {
	return &cli.Command{
		Name:  mode,
		Usage: usage,
		Action: func(ctx context.Context, _ *cli.Command) error {
			cfg, slogger, err := bootstrap(os.Stdout)
			if err != nil {
				return err
			}

			application, err := di.BuildApp(ctx, cfg, slogger, mode)
			if err != nil {
				return fmt.Errorf("failed to build app: %w", err)
			}
			return application.Run(ctx, mode)
		},
	}
}

// bootstrap загружает конфигурацию и создаёт основной логгер
func bootstrap(out io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	slogger := logger.NewSlog(logger.SlogConfig{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: out,
	})
	slogger.Debug("logger initialized", "level", cfg.LogLevel, "format", cfg.LogFormat)
	return cfg, slogger, nil
}
