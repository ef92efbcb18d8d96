package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GoArmGo/PhotoSearch/internal/core/ports"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/download"
	"github.com/GoArmGo/PhotoSearch/internal/usecase/search"
)

// SessionHeader заголовок с идентификатором сессии поиска
const SessionHeader = "X-Session-ID"

// Ограничения пагинации истории скачиваний
const (
	defaultPerPage = 10
	maxPerPage     = 100
	maxPage        = 100000
)

var (
	errMissingSession = errors.New("не указан заголовок " + SessionHeader)
	errInvalidSession = errors.New("некорректный " + SessionHeader)
)

// SearchHandler обработчик HTTP-запросов поиска и скачивания фото.
type SearchHandler struct {
	sessions  *search.Registry
	downloads *download.Service
	history   ports.DownloadStorage
	logger    *slog.Logger
}

// NewSearchHandler создаёт обработчик; history может быть nil, если БД не настроена.
func NewSearchHandler(
	sessions *search.Registry,
	downloads *download.Service,
	history ports.DownloadStorage,
	logger *slog.Logger,
) *SearchHandler {
	return &SearchHandler{
		sessions:  sessions,
		downloads: downloads,
		history:   history,
		logger:    logger,
	}
}

// Routes регистрирует маршруты обработчика
func (h *SearchHandler) Routes(r chi.Router) {
	r.Post("/sessions", h.CreateSession)

	r.Route("/search", func(r chi.Router) {
		r.Get("/", h.GetSearch)
		r.Post("/", h.SubmitSearch)
		r.Delete("/", h.ClearSearch)
		r.Post("/more", h.LoadMore)
		r.Post("/retry", h.RetrySearch)
	})

	r.Post("/photos/{photoID}/download", h.DownloadPhoto)
	r.Get("/downloads/recent", h.GetRecentDownloads)
}

type sessionResponse struct {
	SessionID uuid.UUID       `json:"session_id"`
	Search    search.Snapshot `json:"search"`
}

type submitRequest struct {
	Query string `json:"query"`
}

type downloadResponse struct {
	URL string `json:"url"`
}

// respondWithJSON отправляет JSON-ответ клиенту.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}, logger *slog.Logger) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("failed to marshal JSON response", "error", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(response); err != nil {
		logger.Error("failed to write HTTP response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string, logger *slog.Logger) {
	respondWithJSON(w, code, map[string]string{"error": message}, logger)
}

// controller находит контроллер сессии по заголовку
func (h *SearchHandler) controller(w http.ResponseWriter, r *http.Request) (*search.Controller, bool) {
	raw := r.Header.Get(SessionHeader)
	if raw == "" {
		h.logger.Warn("missing session header", "path", r.URL.Path)
		respondWithError(w, http.StatusBadRequest, errMissingSession.Error(), h.logger)
		return nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		h.logger.Warn("invalid session header", "session_id", raw, "error", err)
		respondWithError(w, http.StatusBadRequest, errInvalidSession.Error(), h.logger)
		return nil, false
	}

	return h.sessions.Open(r.Context(), id), true
}

// CreateSession открывает новую сессию поиска.
func (h *SearchHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, c := h.sessions.Create(r.Context())
	h.logger.Info("session created", "session_id", id)
	respondWithJSON(w, http.StatusCreated, sessionResponse{SessionID: id, Search: c.Snapshot()}, h.logger)
}

func (h *SearchHandler) GetSearch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, c.Snapshot(), h.logger)
}

// SubmitSearch запускает новый поиск и возвращает состояние после его завершения.
func (h *SearchHandler) SubmitSearch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid submit request body", "error", err)
		respondWithError(w, http.StatusBadRequest, "некорректное тело запроса", h.logger)
		return
	}

	h.logger.Info("processing request", "endpoint", "SubmitSearch", "query", req.Query)
	respondWithJSON(w, http.StatusOK, c.Submit(r.Context(), req.Query), h.logger)
}

func (h *SearchHandler) LoadMore(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, c.LoadMore(r.Context()), h.logger)
}

func (h *SearchHandler) RetrySearch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, c.Retry(r.Context()), h.logger)
}

// ClearSearch сбрасывает поиск и забывает сохранённый запрос.
func (h *SearchHandler) ClearSearch(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}
	respondWithJSON(w, http.StatusOK, c.Clear(r.Context()), h.logger)
}

// DownloadPhoto выполняет действие "скачать" для фото из результатов сессии.
func (h *SearchHandler) DownloadPhoto(w http.ResponseWriter, r *http.Request) {
	c, ok := h.controller(w, r)
	if !ok {
		return
	}

	photoID := chi.URLParam(r, "photoID")
	photo, found := c.Photo(photoID)
	if !found {
		h.logger.Warn("photo not found in session results", "photo_id", photoID)
		respondWithError(w, http.StatusNotFound, "фото не найдено в результатах поиска", h.logger)
		return
	}

	url := h.downloads.Download(r.Context(), photo)
	respondWithJSON(w, http.StatusOK, downloadResponse{URL: url}, h.logger)
}

// GetRecentDownloads получает последние архивированные скачивания из БД.
func (h *SearchHandler) GetRecentDownloads(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		respondWithError(w, http.StatusServiceUnavailable, "история скачиваний недоступна без базы данных", h.logger)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	if page > maxPage {
		h.logger.Warn("page out of range", "page", page)
		respondWithError(w, http.StatusBadRequest, "слишком большой номер страницы", h.logger)
		return
	}
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	perPage = min(perPage, maxPerPage)

	h.logger.Info("fetching recent downloads",
		"endpoint", "GetRecentDownloads",
		"page", page,
		"per_page", perPage,
	)

	downloads, err := h.history.ListRecentDownloads(r.Context(), page, perPage)
	if err != nil {
		h.logger.Error("failed to fetch recent downloads", "error", err)
		respondWithError(w, http.StatusInternalServerError, "ошибка получения последних скачиваний", h.logger)
		return
	}

	respondWithJSON(w, http.StatusOK, downloads, h.logger)
}
