package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Драйверы хранилища настроек
const (
	StorageDriverPostgres = "postgres" // sqlx
	StorageDriverGorm     = "gorm"
	StorageDriverMemory   = "memory"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     string        `env:"SERVER_PORT" envDefault:"8080"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Без ключа приложение не запускается
	UnsplashAPIKey  string        `env:"UNSPLASH_API_KEY,required"`
	UnsplashBaseURL string        `env:"UNSPLASH_BASE_URL" envDefault:"https://api.unsplash.com"`
	UnsplashTimeout time.Duration `env:"UNSPLASH_TIMEOUT" envDefault:"15s"`
	SearchPageSize  int           `env:"SEARCH_PAGE_SIZE" envDefault:"24"`

	// Сессии поиска сервера: лимит и закрытие по простою
	MaxSessions        int           `env:"SESSION_LIMIT" envDefault:"10000"`
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"30m"`

	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL    string `env:"DATABASE_URL"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"file://internal/database/migrations"`

	// Настройки для MinIO; пустой endpoint отключает архивацию
	MinioEndpoint        string `env:"MINIO_ENDPOINT"`
	MinioAccessKeyID     string `env:"MINIO_ACCESS_KEY_ID"`
	MinioSecretAccessKey string `env:"MINIO_SECRET_ACCESS_KEY"`
	MinioUseSSL          bool   `env:"MINIO_USE_SSL"`
	MinioBucketName      string `env:"MINIO_BUCKET_NAME" envDefault:"photo-archive"`
	MinioRegion          string `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioPublicURL       string `env:"MINIO_PUBLIC_URL"`

	// Пустой URL: сервер трекает скачивания напрямую, без очереди
	RabbitMQ struct {
		RabbitMQURL       string `env:"RABBITMQ_URL"`
		RabbitMQQueueName string `env:"RABBITMQ_QUEUE_NAME" envDefault:"download_tracking_queue"`
	}
}

// LoadConfig загружает конфигурацию из переменных окружения.
// В режиме разработки пытается загрузить .env файл.
func LoadConfig() (*Config, error) {
	if _, err := os.Stat(".env"); !os.IsNotExist(err) {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("ошибка загрузки .env файла: %w", err)
		}
	}

	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("ошибка парсинга конфигурации из окружения: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate проверяет зависимости между параметрами
func (c *Config) Validate() error {
	if c.UnsplashAPIKey == "" {
		return errors.New("UNSPLASH_API_KEY не задан")
	}

	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverGorm:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL обязателен для STORAGE_DRIVER=%s", c.StorageDriver)
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("неизвестный STORAGE_DRIVER: %q (postgres, gorm или memory)", c.StorageDriver)
	}

	if c.SearchPageSize <= 0 {
		return errors.New("SEARCH_PAGE_SIZE должен быть положительным")
	}
	if c.MaxSessions <= 0 {
		return errors.New("SESSION_LIMIT должен быть положительным")
	}
	if c.SessionIdleTimeout <= 0 {
		return errors.New("SESSION_IDLE_TIMEOUT должен быть положительным")
	}
	if c.UnsplashTimeout <= 0 {
		return errors.New("UNSPLASH_TIMEOUT должен быть положительным")
	}

	if c.MinioEnabled() && (c.MinioAccessKeyID == "" || c.MinioSecretAccessKey == "") {
		return errors.New("MINIO_ACCESS_KEY_ID и MINIO_SECRET_ACCESS_KEY обязательны при заданном MINIO_ENDPOINT")
	}
	return nil
}

// MinioEnabled включена ли архивация изображений
func (c *Config) MinioEnabled() bool {
	return c.MinioEndpoint != ""
}

// QueueEnabled настроена ли очередь RabbitMQ
func (c *Config) QueueEnabled() bool {
	return c.RabbitMQ.RabbitMQURL != ""
}
