package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/download"
)

// runWorker обрабатывает задачи трекинга и архивации из RabbitMQ до отмены ctx
func runWorker(
	ctx context.Context,
	logger *slog.Logger,
	consumer ports.DownloadJobConsumer,
	archiver *download.Archiver,
) error {
	if consumer == nil || archiver == nil {
		return errors.New("режим worker требует настроенного RABBITMQ_URL")
	}

	if err := consumer.StartConsumingDownloadJobs(ctx, archiver.HandleJob); err != nil {
		return fmt.Errorf("ошибка при запуске потребителя RabbitMQ: %w", err)
	}

	logger.Info("worker started, waiting for download jobs")
	<-ctx.Done()
	logger.Info("worker stopping")
	return nil
}
