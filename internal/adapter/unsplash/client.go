// internal/adapter/unsplash/client.go
package unsplash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/PhotoSearch/internal/domain"
	"github.com/GoArmGo/PhotoSearch/internal/metrics"
)

const (
	DefaultBaseURL  = "https://api.unsplash.com" // Базовый URL для Unsplash API
	DefaultTimeout  = 15 * time.Second
	DefaultPageSize = 24
)

// ClientConfig явная конфигурация клиента, без чтения окружения внутри запросов
type ClientConfig struct {
	BaseURL    string
	AccessKey  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// UnsplashAPIClient представляет клиент для взаимодействия с Unsplash API.
// Клиент не хранит состояния между вызовами.
type UnsplashAPIClient struct {
	httpClient *http.Client
	baseURL    string
	accessKey  string
	timeout    time.Duration
	logger     *slog.Logger
}

// NewUnsplashAPIClient создает новый экземпляр UnsplashAPIClient.
func NewUnsplashAPIClient(cfg ClientConfig) *UnsplashAPIClient {
	c := &UnsplashAPIClient{
		httpClient: cfg.HTTPClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		accessKey:  cfg.AccessKey,
		timeout:    cfg.Timeout,
		logger:     cfg.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// SearchPhotos ищет фото и возвращает страницу результатов как есть, без кеширования.
func (c *UnsplashAPIClient) SearchPhotos(ctx context.Context, query string, page, perPage int) (*domain.SearchPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = DefaultPageSize
	}

	// Строим URL для поиска
	params := url.Values{}
	params.Add("query", query)
	params.Add("page", strconv.Itoa(page))
	params.Add("per_page", strconv.Itoa(perPage))

	endpoint := fmt.Sprintf("%s/search/photos?%s", c.baseURL, params.Encode())

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.UnsplashRequestDuration.WithLabelValues("search").Observe(time.Since(start).Seconds())
	}()

	req, err := c.newRequest(reqCtx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP-запроса для поиска: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(ctx, reqCtx, "search", err)
	}
	defer resp.Body.Close()

	if err := statusError(resp); err != nil {
		metrics.UnsplashRequestsTotal.WithLabelValues("search", strconv.Itoa(resp.StatusCode)).Inc()
		c.logger.Warn("photo search rejected",
			"query", query,
			"page", page,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	var searchResponse UnsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResponse); err != nil {
		if ctxErr := c.contextError(ctx, reqCtx); ctxErr != nil {
			return nil, ctxErr
		}
		metrics.UnsplashRequestsTotal.WithLabelValues("search", "decode_error").Inc()
		return nil, fmt.Errorf("ошибка декодирования JSON ответа поиска Unsplash: %w", err)
	}
	metrics.UnsplashRequestsTotal.WithLabelValues("search", strconv.Itoa(resp.StatusCode)).Inc()

	domainPhotos := make([]domain.Photo, 0, len(searchResponse.Results))
	for i := range searchResponse.Results {
		domainPhotos = append(domainPhotos, mapUnsplashPhotoToDomain(&searchResponse.Results[i]))
	}

	c.logger.Info("photo search completed",
		"query", query,
		"page", page,
		"per_page", perPage,
		"found", len(domainPhotos),
		"total_pages", searchResponse.TotalPages,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return &domain.SearchPage{
		Results:    domainPhotos,
		Total:      searchResponse.Total,
		TotalPages: searchResponse.TotalPages,
	}, nil
}

// TriggerDownloadTracking сообщает Unsplash о скачивании фото.
// Ошибки только логируются: трекинг не должен мешать скачиванию.
func (c *UnsplashAPIClient) TriggerDownloadTracking(ctx context.Context, downloadLocation string) {
	if downloadLocation == "" {
		return
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	req, err := c.newRequest(reqCtx, downloadLocation)
	if err != nil {
		c.logger.Warn("failed to build download tracking request", "location", downloadLocation, "error", err)
		return
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UnsplashRequestsTotal.WithLabelValues("download", "error").Inc()
		c.logger.Warn("failed to trigger download tracking", "location", downloadLocation, "error", err)
		return
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	metrics.UnsplashRequestsTotal.WithLabelValues("download", strconv.Itoa(resp.StatusCode)).Inc()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("download tracking rejected", "location", downloadLocation, "status", resp.StatusCode)
		return
	}

	c.logger.Debug("download tracked",
		"location", downloadLocation,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func (c *UnsplashAPIClient) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept-Version", "v1")
	req.Header.Set("Authorization", "Client-ID "+c.accessKey) // Добавляем заголовок авторизации
	return req, nil
}

// transportError различает отмену вызывающей стороной, собственный таймаут и прочие сбои транспорта
func (c *UnsplashAPIClient) transportError(parent, reqCtx context.Context, endpoint string, err error) error {
	if ctxErr := c.contextError(parent, reqCtx); ctxErr != nil {
		if errors.Is(ctxErr, domain.ErrCancelled) {
			metrics.UnsplashRequestsTotal.WithLabelValues(endpoint, "cancelled").Inc()
		} else {
			metrics.UnsplashRequestsTotal.WithLabelValues(endpoint, "timeout").Inc()
		}
		return ctxErr
	}
	metrics.UnsplashRequestsTotal.WithLabelValues(endpoint, "error").Inc()
	return fmt.Errorf("ошибка выполнения HTTP-запроса к Unsplash: %w", err)
}

func (c *UnsplashAPIClient) contextError(parent, reqCtx context.Context) error {
	switch {
	case errors.Is(parent.Err(), context.Canceled):
		return domain.ErrCancelled
	case reqCtx.Err() != nil:
		return &domain.RequestFailedError{Status: 0, Reason: "timeout"}
	}
	return nil
}

// statusError переводит неуспешный HTTP-статус в ошибку домена
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	}

	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return &domain.RequestFailedError{Status: resp.StatusCode, Reason: reason}
}

// mapUnsplashPhotoToDomain преобразует UnsplashPhotoResponse в domain.Photo.
func mapUnsplashPhotoToDomain(p *UnsplashPhotoResponse) domain.Photo {
	return domain.Photo{
		ID:   p.ID,
		Kind: domain.PhotoKindStandard,
		URLs: domain.PhotoURLs{
			Small:   p.URLs.Small,
			Regular: p.URLs.Regular,
			Full:    p.URLs.Full,
		},
		Links: domain.PhotoLinks{
			DownloadLocation: p.Links.DownloadLocation,
			HTML:             p.Links.HTML,
		},
		Author: domain.Author{
			Name:       p.User.Name,
			ProfileURL: p.User.Links.HTML,
		},
		AltDescription: deref(p.AltDescription),
		Description:    deref(p.Description),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
