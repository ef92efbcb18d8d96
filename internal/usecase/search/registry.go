package search

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	DefaultMaxSessions        = 10000
	DefaultSessionIdleTimeout = 30 * time.Minute
)

// RegistryConfig ограничения реестра сессий
type RegistryConfig struct {
	// MaxSessions при превышении вытесняется давно не использованная сессия
	MaxSessions int
	// IdleTimeout сессия без обращений дольше этого срока закрывается
	IdleTimeout time.Duration
}

// Registry хранит по контроллеру на сессию клиента.
// Последний запрос каждой сессии сохраняется под своим ключом, поэтому
// вытесненная сессия восстанавливается при следующем обращении.
type Registry struct {
	base Options

	mu       sync.Mutex
	sessions *expirable.LRU[uuid.UUID, *Controller]
}

// NewRegistry создаёт реестр; base.QueryKey служит префиксом ключей сессий.
func NewRegistry(base Options, cfg RegistryConfig) *Registry {
	if base.QueryKey == "" {
		base.QueryKey = LastQueryKey
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultSessionIdleTimeout
	}

	onEvict := func(_ uuid.UUID, c *Controller) {
		c.Close()
	}
	return &Registry{
		base:     base,
		sessions: expirable.NewLRU[uuid.UUID, *Controller](cfg.MaxSessions, onEvict, cfg.IdleTimeout),
	}
}

// Create открывает новую сессию.
func (r *Registry) Create(ctx context.Context) (uuid.UUID, *Controller) {
	id := uuid.New()
	return id, r.Open(ctx, id)
}

// Open возвращает контроллер сессии, создавая его при необходимости
// (например, после перезапуска сервера сохранённый запрос восстанавливается).
// Чтение хранилища при создании выполняется без блокировки реестра.
func (r *Registry) Open(ctx context.Context, id uuid.UUID) *Controller {
	if c, ok := r.touch(id); ok {
		return c
	}

	opts := r.base
	opts.QueryKey = SessionKey(r.base.QueryKey, id)
	if opts.Logger != nil {
		opts.Logger = opts.Logger.With("session_id", id.String())
	}
	created := NewController(ctx, opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.sessions.Get(id); ok {
		// параллельный Open успел создать сессию раньше
		created.Close()
		r.sessions.Add(id, c)
		return c
	}
	// просроченная запись ещё может лежать в кеше: Remove закрывает её контроллер
	r.sessions.Remove(id)
	r.sessions.Add(id, created)
	return created
}

// touch находит сессию и продлевает срок её жизни
func (r *Registry) touch(id uuid.UUID) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.sessions.Get(id)
	if ok {
		r.sessions.Add(id, c)
	}
	return c, ok
}

// Len количество открытых сессий
func (r *Registry) Len() int {
	return r.sessions.Len()
}

// Close закрывает все сессии, отменяя их запросы.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Purge()
}

// SessionKey ключ хранилища для последнего запроса сессии
func SessionKey(prefix string, id uuid.UUID) string {
	return fmt.Sprintf("%s:%s", prefix, id)
}
