package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/PhotoSearch/internal/config"
	"github.com/GoArmGo/PhotoSearch/internal/database/memory"
	"github.com/GoArmGo/PhotoSearch/internal/domain"
	"github.com/GoArmGo/PhotoSearch/internal/handler"
	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/download"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/search"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type noopSearcher struct{}

func (noopSearcher) SearchPhotos(context.Context, string, int, int) (*domain.SearchPage, error) {
	return &domain.SearchPage{}, nil
}

type noopTrigger struct{}

func (noopTrigger) TriggerDownloadTracking(context.Context, string) {}

type fakeConsumer struct {
	jobs []payloads.DownloadJobPayload
	errs []error
}

func (f *fakeConsumer) StartConsumingDownloadJobs(ctx context.Context, h func(context.Context, payloads.DownloadJobPayload) error) error {
	for _, job := range f.jobs {
		f.errs = append(f.errs, h(ctx, job))
	}
	return nil
}

func TestNewRouter(t *testing.T) {
	logger := testLogger()
	registry := search.NewRegistry(search.Options{Searcher: noopSearcher{}, Store: memory.NewPreferenceStorage(), Logger: logger}, search.RegistryConfig{})
	defer registry.Close()

	h := handler.NewSearchHandler(registry, download.NewService(download.NewDirectTracker(noopTrigger{}), logger), nil, logger)
	router := newRouter(&config.Config{RequestTimeout: time.Second}, logger, h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/search", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRunWorker_RequiresQueue(t *testing.T) {
	err := runWorker(context.Background(), testLogger(), nil, nil)
	require.Error(t, err)
}

func TestRunWorker_ProcessesJobs(t *testing.T) {
	logger := testLogger()
	consumer := &fakeConsumer{jobs: []payloads.DownloadJobPayload{{PhotoID: "p1"}, {PhotoID: "p2"}}}
	archiver := download.NewArchiver(noopTrigger{}, nil, nil, nil, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, runWorker(ctx, logger, consumer, archiver))
	assert.Equal(t, []error{nil, nil}, consumer.errs)
}

func TestApp_Shutdown(t *testing.T) {
	var order []string
	first := func() error { order = append(order, "first"); return nil }
	second := func() error { order = append(order, "second"); return errors.New("boom") }

	a := NewApp(&config.Config{}, testLogger(), nil, nil, nil, nil, nil, first, second)
	err := a.Shutdown()
	require.Error(t, err)
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestApp_RunUnknownMode(t *testing.T) {
	a := NewApp(&config.Config{}, testLogger(), nil, nil, nil, nil, nil)
	assert.Error(t, a.Run(context.Background(), "batch"))
}
