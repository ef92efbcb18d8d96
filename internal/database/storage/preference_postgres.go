package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// PreferenceStorage реализует ports.PreferenceStore поверх sqlx
type PreferenceStorage struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewPreferenceStorage(db *sqlx.DB, logger *slog.Logger) *PreferenceStorage {
	return &PreferenceStorage{db: db, logger: logger}
}

// GetPreference возвращает значение по ключу; отсутствие ключа не ошибка
func (s *PreferenceStorage) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM preferences WHERE key = $1`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.logger.Error("failed to get preference", "key", key, "error", err)
		return "", false, fmt.Errorf("ошибка при получении настройки %s: %w", key, err)
	}
	return value, true, nil
}

func (s *PreferenceStorage) SetPreference(ctx context.Context, key, value string) error {
	start := time.Now()

	_, err := s.db.ExecContext(ctx, `
	INSERT INTO preferences (key, value, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		s.logger.Error("failed to set preference", "key", key, "error", err)
		return fmt.Errorf("ошибка при сохранении настройки %s: %w", key, err)
	}

	s.logger.Debug("preference saved", "key", key, "duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (s *PreferenceStorage) RemovePreference(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE key = $1`, key); err != nil {
		s.logger.Error("failed to remove preference", "key", key, "error", err)
		return fmt.Errorf("ошибка при удалении настройки %s: %w", key, err)
	}
	return nil
}
