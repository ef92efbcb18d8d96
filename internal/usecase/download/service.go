package download

import (
	"context"
	"log/slog"
	"sync"

	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/domain"
	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
)

// Service действие "скачать": возвращает ссылку для открытия фото.
// Трекинг выполняется по возможности и никогда не блокирует открытие.
type Service struct {
	tracker ports.DownloadTracker
	logger  *slog.Logger
}

func NewService(tracker ports.DownloadTracker, logger *slog.Logger) *Service {
	return &Service{tracker: tracker, logger: logger}
}

// Download регистрирует скачивание (кроме персональных фото) и возвращает ссылку на просмотр.
func (s *Service) Download(ctx context.Context, photo domain.Photo) string {
	if photo.IsPersonal() {
		s.logger.Info("personal photo opened", "photo_id", photo.ID)
		return photo.Links.HTML
	}

	if err := s.tracker.TrackDownload(ctx, photo); err != nil {
		s.logger.Warn("download tracking failed, opening photo anyway", "photo_id", photo.ID, "error", err)
	}
	return photo.Links.HTML
}

// DirectTracker вызывает API трекинга в фоне, без очереди.
type DirectTracker struct {
	trigger ports.DownloadTrackingTrigger
	wg      sync.WaitGroup
}

func NewDirectTracker(trigger ports.DownloadTrackingTrigger) *DirectTracker {
	return &DirectTracker{trigger: trigger}
}

func (t *DirectTracker) TrackDownload(ctx context.Context, photo domain.Photo) error {
	if photo.Links.DownloadLocation == "" {
		return nil
	}
	bg := context.WithoutCancel(ctx)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.trigger.TriggerDownloadTracking(bg, photo.Links.DownloadLocation)
	}()
	return nil
}

// Wait дожидается фоновых запросов трекинга (используется при остановке).
func (t *DirectTracker) Wait() {
	t.wg.Wait()
}

// QueueTracker публикует задачу трекинга в очередь для воркера.
type QueueTracker struct {
	publisher ports.DownloadJobPublisher
}

func NewQueueTracker(publisher ports.DownloadJobPublisher) *QueueTracker {
	return &QueueTracker{publisher: publisher}
}

func (t *QueueTracker) TrackDownload(ctx context.Context, photo domain.Photo) error {
	return t.publisher.PublishDownloadJob(ctx, JobFromPhoto(photo))
}

// JobFromPhoto собирает задачу воркера из фото
func JobFromPhoto(photo domain.Photo) payloads.DownloadJobPayload {
	description := photo.Description
	if description == "" {
		description = photo.AltDescription
	}
	return payloads.DownloadJobPayload{
		PhotoID:          photo.ID,
		DownloadLocation: photo.Links.DownloadLocation,
		FullURL:          photo.URLs.Full,
		ViewURL:          photo.Links.HTML,
		AuthorName:       photo.Author.Name,
		Description:      description,
	}
}
