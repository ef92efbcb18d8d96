package download

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
	"github.com/GoArmGo/PhotoSearch/internal/messaging/payloads"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeTrigger реализует ports.DownloadTrackingTrigger и запоминает вызовы
type fakeTrigger struct {
	mu        sync.Mutex
	locations []string
}

func (f *fakeTrigger) TriggerDownloadTracking(_ context.Context, location string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locations = append(f.locations, location)
}

func (f *fakeTrigger) Locations() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.locations...)
}

// fakeTracker реализует ports.DownloadTracker
type fakeTracker struct {
	Err    error
	Photos []domain.Photo
}

func (f *fakeTracker) TrackDownload(_ context.Context, photo domain.Photo) error {
	f.Photos = append(f.Photos, photo)
	return f.Err
}

// fakePublisher реализует ports.DownloadJobPublisher
type fakePublisher struct {
	Err  error
	Jobs []payloads.DownloadJobPayload
}

func (f *fakePublisher) PublishDownloadJob(_ context.Context, job payloads.DownloadJobPayload) error {
	f.Jobs = append(f.Jobs, job)
	return f.Err
}

// fakeFiles реализует ports.FileStorage
type fakeFiles struct {
	Err         error
	LastKey     string
	LastBody    []byte
	LastType    string
	UploadCalls int
}

func (f *fakeFiles) UploadFile(_ context.Context, key string, r io.Reader, contentType string) (string, error) {
	f.UploadCalls++
	if f.Err != nil {
		return "", f.Err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.LastKey, f.LastBody, f.LastType = key, body, contentType
	return "http://minio.local/photos/" + key, nil
}

// fakeDownloads реализует ports.DownloadStorage
type fakeDownloads struct {
	Err   error
	Saved []domain.Download
}

func (f *fakeDownloads) SaveDownload(_ context.Context, d *domain.Download) error {
	if f.Err != nil {
		return f.Err
	}
	f.Saved = append(f.Saved, *d)
	return nil
}

func (f *fakeDownloads) ListRecentDownloads(_ context.Context, _, _ int) ([]domain.Download, error) {
	return f.Saved, f.Err
}

var errBoom = errors.New("boom")
