package storage

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
)

type DownloadStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewDownloadStorage(db *sqlx.DB, logger *slog.Logger) *DownloadStorage {
	return &DownloadStorage{db: db, logger: logger}
}

// SaveDownload сохраняет запись о скачивании
func (s *DownloadStorage) SaveDownload(ctx context.Context, download *domain.Download) error {
	start := time.Now()

	if download.ID == uuid.Nil {
		download.ID = uuid.New()
	}
	if download.CreatedAt.IsZero() {
		download.CreatedAt = time.Now().UTC()
	}

	query := `
	INSERT INTO downloads (id, photo_id, author_name, description, view_url, archive_url, tracked, created_at)
	VALUES (:id, :photo_id, :author_name, :description, :view_url, :archive_url, :tracked, :created_at)
	`

	if _, err := s.db.NamedExecContext(ctx, query, download); err != nil {
		s.logger.Error("failed to save download", "photo_id", download.PhotoID, "error", err)
		return fmt.Errorf("ошибка при сохранении скачивания: %w", err)
	}

	s.logger.Info("download saved successfully",
		"id", download.ID,
		"photo_id", download.PhotoID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// ListRecentDownloads получает последние скачивания с пагинацией
func (s *DownloadStorage) ListRecentDownloads(ctx context.Context, page, perPage int) ([]domain.Download, error) {
	start := time.Now()

	if page < 1 || perPage < 1 || page-1 > math.MaxInt/perPage {
		return nil, fmt.Errorf("некорректные параметры пагинации: page=%d, per_page=%d", page, perPage)
	}
	offset := (page - 1) * perPage
	q := `
	SELECT id, photo_id, author_name, description, view_url, archive_url, tracked, created_at
	FROM downloads
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2
	`

	downloads := []domain.Download{}
	if err := s.db.SelectContext(ctx, &downloads, q, perPage, offset); err != nil {
		s.logger.Error("failed to list downloads", "page", page, "per_page", perPage, "error", err)
		return nil, fmt.Errorf("ошибка при получении списка скачиваний: %w", err)
	}

	s.logger.Info("listed downloads successfully",
		"page", page,
		"per_page", perPage,
		"count", len(downloads),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return downloads, nil
}
