package di

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/GoArmGo/PhotoSearch/internal/adapter/storage/minio"
	"github.com/GoArmGo/PhotoSearch/internal/adapter/unsplash"
	"github.com/GoArmGo/PhotoSearch/internal/app"
	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/database/client"
	"github.com/GoArmGo/PhotoSearch/internal/database/memory"
	"github.com/GoArmGo/PhotoSearch/internal/database/postgres"
	"github.com/GoArmGo/PhotoSearch/internal/database/storage"
	"github.com/GoArmGo/PhotoSearch/internal/override"
	"github.com/GoArmGo/PhotoSearch/internal/rabbitmq"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/download"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/search"
)

// stores хранилища, выбранные по STORAGE_DRIVER
type stores struct {
	preferences ports.PreferenceStore
	downloads   ports.DownloadStorage // nil без БД
	closers     []func() error
}

// BuildApp инициализирует все зависимости для режима mode и возвращает готовый App.
func BuildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, mode string) (*app.App, error) {
	st, err := buildStores(cfg, logger)
	if err != nil {
		return nil, err
	}
	closers := st.closers

	fail := func(err error) (*app.App, error) {
		for i := len(closers) - 1; i >= 0; i-- {
			_ = closers[i]()
		}
		return nil, err
	}

	unsplashClient := newUnsplashClient(cfg, logger)

	// Трекинг: через очередь при заданном RABBITMQ_URL, иначе напрямую
	var (
		tracker  ports.DownloadTracker
		consumer ports.DownloadJobConsumer
	)
	if cfg.QueueEnabled() {
		rabbitMQClient, err := rabbitmq.NewClient(cfg, logger)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, rabbitMQClient.Close)
		tracker = download.NewQueueTracker(rabbitMQClient)
		consumer = rabbitMQClient
	} else {
		direct := download.NewDirectTracker(unsplashClient)
		closers = append(closers, func() error {
			direct.Wait()
			return nil
		})
		tracker = direct
	}

	var archiver *download.Archiver
	if mode == app.ModeWorker {
		var files ports.FileStorage
		if cfg.MinioEnabled() {
			minioClient, err := minio.NewMinioClient(ctx, cfg, logger)
			if err != nil {
				return fail(err)
			}
			files = minioClient
		}
		archiver = download.NewArchiver(unsplashClient, files, st.downloads, nil, logger)
	}

	registry := search.NewRegistry(
		searchOptions(cfg, logger, unsplashClient, st.preferences),
		search.RegistryConfig{MaxSessions: cfg.MaxSessions, IdleTimeout: cfg.SessionIdleTimeout},
	)
	downloadService := download.NewService(tracker, logger)

	logger.Info("dependencies initialized",
		"mode", mode,
		"storage_driver", cfg.StorageDriver,
		"queue", cfg.QueueEnabled(),
		"archive", cfg.MinioEnabled(),
	)

	return app.NewApp(
		cfg,
		logger,
		registry,
		downloadService,
		st.downloads,
		archiver,
		consumer,
		closers...,
	), nil
}

// BuildController собирает один контроллер поиска для консольного режима.
// Возвращаемая функция освобождает ресурсы хранилища.
func BuildController(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*search.Controller, func() error, error) {
	st, err := buildStores(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := searchOptions(cfg, logger, newUnsplashClient(cfg, logger), st.preferences)
	controller := search.NewController(ctx, opts)

	closeAll := func() error {
		controller.Close()
		for i := len(st.closers) - 1; i >= 0; i-- {
			if err := st.closers[i](); err != nil {
				return err
			}
		}
		return nil
	}
	return controller, closeAll, nil
}

func newUnsplashClient(cfg *config.Config, logger *slog.Logger) *unsplash.UnsplashAPIClient {
	return unsplash.NewUnsplashAPIClient(unsplash.ClientConfig{
		BaseURL:   cfg.UnsplashBaseURL,
		AccessKey: cfg.UnsplashAPIKey,
		Timeout:   cfg.UnsplashTimeout,
		Logger:    logger.With("component", "unsplash"),
	})
}

func searchOptions(cfg *config.Config, logger *slog.Logger, searcher ports.PhotoSearcher, store ports.PreferenceStore) search.Options {
	return search.Options{
		Searcher: searcher,
		Override: override.Resolve,
		Store:    store,
		QueryKey: search.LastQueryKey,
		PageSize: cfg.SearchPageSize,
		Logger:   logger.With("component", "search"),
	}
}

func buildStores(cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("using in-memory preference storage, last queries are lost on restart")
		return &stores{preferences: memory.NewPreferenceStorage()}, nil

	case config.StorageDriverPostgres, config.StorageDriverGorm:
		dbClient, err := client.NewClient(cfg, logger)
		if err != nil {
			return nil, err
		}

		st := &stores{
			downloads: storage.NewDownloadStorage(dbClient.DB, logger),
			closers:   []func() error{dbClient.Close},
		}

		if cfg.StorageDriver == config.StorageDriverGorm {
			gormDB, err := postgres.NewGormDB(dbClient.DB)
			if err != nil {
				_ = dbClient.Close()
				return nil, err
			}
			st.preferences = postgres.NewGormPreferenceStorage(gormDB, logger)
		} else {
			st.preferences = storage.NewPreferenceStorage(dbClient.DB, logger)
		}
		return st, nil

	default:
		return nil, fmt.Errorf("неизвестный STORAGE_DRIVER: %s", cfg.StorageDriver)
	}
}
