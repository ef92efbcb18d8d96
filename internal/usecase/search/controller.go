package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/domain"
	"github.com/GoArmGo/PhotoSearch/internal/metrics"
)

const (
	// LastQueryKey ключ последнего успешного запроса в хранилище настроек
	LastQueryKey = "lastSearchQuery"
	// ThemeKey ключ темы оформления; хранилище общее, контроллер его не трогает
	ThemeKey = "theme"

	DefaultPageSize = 24

	// DefaultStoreTimeout ограничивает одну операцию с хранилищем настроек
	DefaultStoreTimeout = 5 * time.Second
)

// OverrideFunc возвращает фиксированный набор результатов для запроса или пустой срез
type OverrideFunc func(query string) []domain.Photo

// Options зависимости контроллера
type Options struct {
	Searcher ports.PhotoSearcher
	Override OverrideFunc
	Store    ports.PreferenceStore
	QueryKey string
	PageSize int
	Logger   *slog.Logger

	StoreTimeout time.Duration
}

// Controller владеет состоянием поиска: запрос, страница, результаты, загрузка и ошибка.
//
// Методы-намерения (Submit, LoadMore, Retry) блокируют вызывающую горутину до завершения
// своего запроса. Намерение из другой горутины отменяет текущий запрос, и его результат
// отбрасывается: изменять состояние может только последний отправленный запрос.
type Controller struct {
	searcher ports.PhotoSearcher
	override OverrideFunc
	store    ports.PreferenceStore
	queryKey string
	pageSize int
	logger   *slog.Logger

	storeTimeout time.Duration

	mu         sync.Mutex
	state      Snapshot
	generation uint64
	cancel     context.CancelFunc
	writeSeq   uint64

	// storeMu упорядочивает записи в хранилище; c.mu во время записи не удерживается
	storeMu    sync.Mutex
	flushedSeq uint64
}

// prefWrite отложенная запись последнего запроса, выполняется после c.mu.Unlock
type prefWrite struct {
	seq    uint64
	query  string
	remove bool
}

// NewController создаёт контроллер в состоянии Idle и восстанавливает
// сохранённый запрос, не выполняя его.
func NewController(ctx context.Context, opts Options) *Controller {
	c := &Controller{
		searcher: opts.Searcher,
		override: opts.Override,
		store:    opts.Store,
		queryKey: opts.QueryKey,
		pageSize: opts.PageSize,
		logger:   opts.Logger,
		state:    idleState(),

		storeTimeout: opts.StoreTimeout,
	}
	if c.override == nil {
		c.override = func(string) []domain.Photo { return nil }
	}
	if c.queryKey == "" {
		c.queryKey = LastQueryKey
	}
	if c.pageSize <= 0 {
		c.pageSize = DefaultPageSize
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.storeTimeout <= 0 {
		c.storeTimeout = DefaultStoreTimeout
	}

	if c.store != nil {
		getCtx, cancel := context.WithTimeout(ctx, c.storeTimeout)
		saved, ok, err := c.store.GetPreference(getCtx, c.queryKey)
		cancel()
		switch {
		case err != nil:
			c.logger.Warn("failed to restore last query", "key", c.queryKey, "error", err)
		case ok:
			c.state.Query = saved
			c.logger.Debug("last query restored", "key", c.queryKey, "query", saved)
		}
	}

	return c
}

// Snapshot возвращает копию текущего состояния только для чтения.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Photo ищет фото среди текущих результатов.
func (c *Controller) Photo(id string) (domain.Photo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.state.Results {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Photo{}, false
}

// Submit запускает новый поиск с первой страницы. Пустой запрос игнорируется.
func (c *Controller) Submit(ctx context.Context, query string) Snapshot {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Snapshot()
	}

	c.mu.Lock()
	return c.dispatchLocked(ctx, query, 1, false)
}

// LoadMore догружает следующую страницу и дописывает её в конец результатов.
func (c *Controller) LoadMore(ctx context.Context) Snapshot {
	c.mu.Lock()
	if !c.state.HasMore || c.state.IsLoading || c.state.Query == "" {
		snap := c.state.clone()
		c.mu.Unlock()
		return snap
	}
	return c.dispatchLocked(ctx, c.state.Query, c.state.Page+1, true)
}

// Retry повторяет текущий запрос с первой страницы.
func (c *Controller) Retry(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.state.Query == "" {
		snap := c.state.clone()
		c.mu.Unlock()
		return snap
	}
	return c.dispatchLocked(ctx, c.state.Query, 1, false)
}

// Clear отменяет текущий запрос, сбрасывает состояние в Idle и удаляет сохранённый запрос.
func (c *Controller) Clear(ctx context.Context) Snapshot {
	c.mu.Lock()
	c.supersedeLocked()
	c.state = idleState()
	w := c.nextWriteLocked("", true)
	snap := c.state.clone()
	c.mu.Unlock()

	c.flush(ctx, w)

	c.logger.Info("search cleared", "key", c.queryKey)
	return snap
}

// Close отменяет текущий запрос; его результат будет отброшен.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.supersedeLocked()
	c.state.IsLoading = false
	if c.state.Status == StatusSearching {
		c.state.Status = settledStatus(c.state)
	}
}

// dispatchLocked вызывается с захваченным c.mu и отпускает его.
func (c *Controller) dispatchLocked(ctx context.Context, query string, page int, appendMode bool) Snapshot {
	c.supersedeLocked()
	gen := c.generation
	mode := modeLabel(appendMode)

	c.state.IsLoading = true
	c.state.Error = nil
	c.state.Status = StatusSearching

	if !appendMode {
		c.state.Query = query
		c.state.Page = 1
		c.state.Results = nil
		c.state.HasMore = false

		// подмена проверяется до любого сетевого запроса и никогда не смешивается с данными API
		if personal := c.override(query); len(personal) > 0 {
			c.state.Results = personal
			c.state.IsLoading = false
			c.state.Status = StatusLoaded
			w := c.nextWriteLocked(query, false)
			snap := c.state.clone()
			c.mu.Unlock()

			c.flush(ctx, w)

			metrics.SearchOutcomesTotal.WithLabelValues(mode, "override").Inc()
			c.logger.Info("search served from override", "query", query, "results", len(personal))
			return snap
		}
	}

	reqCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	start := time.Now()
	result, err := c.searcher.SearchPhotos(reqCtx, query, page, c.pageSize)
	cancel()

	c.mu.Lock()
	if gen != c.generation {
		snap := c.state.clone()
		c.mu.Unlock()

		metrics.SearchOutcomesTotal.WithLabelValues(mode, "discarded").Inc()
		c.logger.Debug("stale search result discarded", "query", query, "page", page)
		return snap
	}

	c.cancel = nil
	c.state.IsLoading = false

	if err != nil {
		searchErr := domain.Classify(err)
		if searchErr.Kind == domain.ErrorKindCancelled {
			c.state.Status = settledStatus(c.state)
			snap := c.state.clone()
			c.mu.Unlock()

			metrics.SearchOutcomesTotal.WithLabelValues(mode, "cancelled").Inc()
			c.logger.Debug("search cancelled", "query", query, "page", page)
			return snap
		}

		c.state.Error = searchErr
		c.state.Status = StatusError
		if !appendMode {
			c.state.Results = nil
			c.state.HasMore = false
		}
		snap := c.state.clone()
		c.mu.Unlock()

		metrics.SearchOutcomesTotal.WithLabelValues(mode, "error").Inc()
		c.logger.Error("search failed",
			"query", query,
			"page", page,
			"kind", searchErr.Kind,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return snap
	}

	if appendMode {
		// дубликаты id между страницами допускаются как есть
		c.state.Results = append(c.state.Results, result.Results...)
	} else {
		c.state.Results = result.Results
	}
	c.state.Page = page
	c.state.HasMore = page < result.TotalPages
	c.state.Status = StatusLoaded
	w := c.nextWriteLocked(query, false)
	snap := c.state.clone()
	c.mu.Unlock()

	c.flush(ctx, w)

	metrics.SearchOutcomesTotal.WithLabelValues(mode, "success").Inc()
	c.logger.Info("search settled",
		"query", query,
		"page", page,
		"received", len(result.Results),
		"total_results", len(snap.Results),
		"has_more", snap.HasMore,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return snap
}

// supersedeLocked отменяет текущий запрос и делает его результат устаревшим
func (c *Controller) supersedeLocked() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
}

func (c *Controller) nextWriteLocked(query string, remove bool) prefWrite {
	c.writeSeq++
	return prefWrite{seq: c.writeSeq, query: query, remove: remove}
}

// flush применяет запись без c.mu. Запись, устаревшая относительно уже
// применённой, пропускается; каждая операция ограничена storeTimeout.
func (c *Controller) flush(ctx context.Context, w prefWrite) {
	if c.store == nil {
		return
	}

	c.storeMu.Lock()
	defer c.storeMu.Unlock()

	if w.seq <= c.flushedSeq {
		return
	}
	c.flushedSeq = w.seq

	storeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.storeTimeout)
	defer cancel()

	if w.remove {
		if err := c.store.RemovePreference(storeCtx, c.queryKey); err != nil {
			c.logger.Warn("failed to remove last query", "key", c.queryKey, "error", err)
		}
		return
	}
	if err := c.store.SetPreference(storeCtx, c.queryKey, w.query); err != nil {
		c.logger.Warn("failed to persist last query", "key", c.queryKey, "error", err)
	}
}

func modeLabel(appendMode bool) string {
	if appendMode {
		return "append"
	}
	return "fresh"
}
