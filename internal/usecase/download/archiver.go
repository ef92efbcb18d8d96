package download

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/domain"
	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
	"github.com/GoArmGo/PhotoSearch/internal/metrics"
)

// ArchivePrefix префикс ключей архивных изображений в хранилище
const ArchivePrefix = "unsplash-photos"

// Archiver обрабатывает задачи воркера: трекинг скачивания, архивация полноразмерного
// изображения в S3/MinIO и запись в таблицу downloads. Хранилища необязательны.
type Archiver struct {
	trigger    ports.DownloadTrackingTrigger
	files      ports.FileStorage
	downloads  ports.DownloadStorage
	httpClient *http.Client
	logger     *slog.Logger
}

func NewArchiver(
	trigger ports.DownloadTrackingTrigger,
	files ports.FileStorage,
	downloads ports.DownloadStorage,
	httpClient *http.Client,
	logger *slog.Logger,
) *Archiver {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &Archiver{
		trigger:    trigger,
		files:      files,
		downloads:  downloads,
		httpClient: httpClient,
		logger:     logger,
	}
}

// HandleJob возвращает ошибку только для сбоев архивации и сохранения:
// сбои трекинга логируются клиентом API и задачу не проваливают.
// Повторно доставленная задача трекинг не повторяет.
func (a *Archiver) HandleJob(ctx context.Context, job payloads.DownloadJobPayload) error {
	start := time.Now()

	// при повторной доставке скачивание уже было засчитано
	if !job.Redelivered {
		a.trigger.TriggerDownloadTracking(ctx, job.DownloadLocation)
	}

	archiveURL, err := a.archive(ctx, job)
	if err != nil {
		metrics.DownloadJobsTotal.WithLabelValues("archive_error").Inc()
		return err
	}

	if a.downloads != nil {
		record := &domain.Download{
			ID:          uuid.New(),
			PhotoID:     job.PhotoID,
			AuthorName:  job.AuthorName,
			Description: job.Description,
			ViewURL:     job.ViewURL,
			ArchiveURL:  archiveURL,
			Tracked:     job.DownloadLocation != "",
			CreatedAt:   time.Now().UTC(),
		}
		if err := a.downloads.SaveDownload(ctx, record); err != nil {
			metrics.DownloadJobsTotal.WithLabelValues("save_error").Inc()
			return fmt.Errorf("archiver: ошибка сохранения записи о скачивании %s: %w", job.PhotoID, err)
		}
	}

	metrics.DownloadJobsTotal.WithLabelValues("ok").Inc()
	a.logger.Info("download job processed",
		"photo_id", job.PhotoID,
		"archived", archiveURL != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (a *Archiver) archive(ctx context.Context, job payloads.DownloadJobPayload) (string, error) {
	if a.files == nil || job.FullURL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, job.FullURL, nil)
	if err != nil {
		return "", fmt.Errorf("archiver: ошибка создания запроса к %s: %w", job.FullURL, err)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("archiver: ошибка при скачивании фото %s: %w", job.FullURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("archiver: неуспешный статус при скачивании фото %s: %s", job.FullURL, resp.Status)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := fmt.Sprintf("%s/%s", ArchivePrefix, job.PhotoID)
	url, err := a.files.UploadFile(ctx, key, resp.Body, contentType)
	if err != nil {
		return "", fmt.Errorf("archiver: ошибка загрузки фото %s в хранилище: %w", job.PhotoID, err)
	}
	return url, nil
}
