package ports

import (
	"context"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

// PhotoSearcher внешний источник фотографий (Unsplash API)
type PhotoSearcher interface {
	SearchPhotos(ctx context.Context, query string, page, perPage int) (*domain.SearchPage, error)
}

// DownloadTrackingTrigger отправляет запрос трекинга скачивания; ошибки не возвращает
type DownloadTrackingTrigger interface {
	TriggerDownloadTracking(ctx context.Context, downloadLocation string)
}

// DownloadTracker регистрирует скачивание фото напрямую или через очередь
type DownloadTracker interface {
	TrackDownload(ctx context.Context, photo domain.Photo) error
}
