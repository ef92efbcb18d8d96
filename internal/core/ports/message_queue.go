package ports

import (
	"context"

	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
)

// DownloadJobPublisher публикует задачи трекинга скачивания,
// используется сервером вместо прямого вызова API
type DownloadJobPublisher interface {
	PublishDownloadJob(ctx context.Context, payload payloads.DownloadJobPayload) error
}

// DownloadJobConsumer потребляет задачи трекинга скачивания в режиме worker
type DownloadJobConsumer interface {
	// StartConsumingDownloadJobs начинает прослушивание очереди;
	// handler вызывается для каждого полученного сообщения
	StartConsumingDownloadJobs(ctx context.Context, handler func(context.Context, payloads.DownloadJobPayload) error) error
}
