package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/handler"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/download"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/search"
)

// Режимы запуска
const (
	ModeServer = "server"
	ModeWorker = "worker"
)

type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	sessions  *search.Registry
	downloads *download.Service
	history   ports.DownloadStorage
	archiver  *download.Archiver
	consumer  ports.DownloadJobConsumer
	closers   []func() error
}

// NewApp собирает приложение. history и consumer могут быть nil;
// closers вызываются при остановке в обратном порядке.
func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	sessions *search.Registry,
	downloads *download.Service,
	history ports.DownloadStorage,
	archiver *download.Archiver,
	consumer ports.DownloadJobConsumer,
	closers ...func() error,
) *App {
	return &App{
		cfg:       cfg,
		logger:    logger,
		sessions:  sessions,
		downloads: downloads,
		history:   history,
		archiver:  archiver,
		consumer:  consumer,
		closers:   closers,
	}
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run запускает приложение в выбранном режиме и блокируется до SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context, mode string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.logger.Info("starting", "mode", mode)

	var err error
	switch mode {
	case ModeServer:
		h := handler.NewSearchHandler(a.sessions, a.downloads, a.history, a.logger)
		err = runServer(ctx, a.cfg, a.logger, h)
	case ModeWorker:
		err = runWorker(ctx, a.logger, a.consumer, a.archiver)
	default:
		err = fmt.Errorf("неизвестный режим: %s (используйте 'server' или 'worker')", mode)
	}

	if closeErr := a.Shutdown(); closeErr != nil {
		a.logger.Error("shutdown failed", "error", closeErr)
	}
	if err != nil {
		return err
	}

	a.logger.Info("stopped gracefully", "mode", mode)
	return nil
}

// Shutdown отменяет активные поиски и закрывает ресурсы.
func (a *App) Shutdown() error {
	if a.sessions != nil {
		a.sessions.Close()
	}

	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
