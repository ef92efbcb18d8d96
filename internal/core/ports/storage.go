package ports

import (
	"context"
	"io"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

// PreferenceStore долговременное key-value хранилище (последний запрос, тема)
type PreferenceStore interface {
	// GetPreference возвращает значение и признак его наличия
	GetPreference(ctx context.Context, key string) (string, bool, error)
	SetPreference(ctx context.Context, key, value string) error
	RemovePreference(ctx context.Context, key string) error
}

// DownloadStorage хранит записи о скачанных фото
type DownloadStorage interface {
	SaveDownload(ctx context.Context, download *domain.Download) error
	ListRecentDownloads(ctx context.Context, page, perPage int) ([]domain.Download, error)
}

// FileStorage определяет интерфейс для работы с файловым хранилищем (AWS S3, MinIO)
type FileStorage interface {
	// UploadFile загружает файл в хранилище и возвращает его публичный URL.
	UploadFile(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}
