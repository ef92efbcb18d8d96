package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// Preference модель таблицы preferences для GORM
type Preference struct {
	Key       string `gorm:"primaryKey"`
	Value     string
	UpdatedAt time.Time
}

func (Preference) TableName() string {
	return "preferences"
}

// NewGormDB открывает GORM поверх уже установленного sqlx-подключения,
// схема при этом управляется golang-migrate
func NewGormDB(db *sqlx.DB) (*gorm.DB, error) {
	gdb, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка инициализации GORM: %w", err)
	}
	return gdb, nil
}

// GormPreferenceStorage реализует ports.PreferenceStore с использованием GORM
type GormPreferenceStorage struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormPreferenceStorage(db *gorm.DB, logger *slog.Logger) *GormPreferenceStorage {
	return &GormPreferenceStorage{db: db, logger: logger}
}

func (s *GormPreferenceStorage) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var pref Preference
	result := s.db.WithContext(ctx).First(&pref, "key = ?", key)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("ошибка при получении настройки %s с помощью GORM: %w", key, result.Error)
	}
	return pref.Value, true, nil
}

// SetPreference upsert по первичному ключу
func (s *GormPreferenceStorage) SetPreference(ctx context.Context, key, value string) error {
	pref := Preference{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref)
	if result.Error != nil {
		s.logger.Error("failed to set preference", "key", key, "error", result.Error)
		return fmt.Errorf("ошибка при сохранении настройки %s с помощью GORM: %w", key, result.Error)
	}
	return nil
}

func (s *GormPreferenceStorage) RemovePreference(ctx context.Context, key string) error {
	result := s.db.WithContext(ctx).Delete(&Preference{}, "key = ?", key)
	if result.Error != nil {
		return fmt.Errorf("ошибка при удалении настройки %s с помощью GORM: %w", key, result.Error)
	}
	return nil
}
