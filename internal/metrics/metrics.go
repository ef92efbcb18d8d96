package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// UnsplashRequestsTotal запросы к внешнему API по эндпоинту и итогу
	UnsplashRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photosearch",
			Name:      "unsplash_requests_total",
			Help:      "Total number of requests sent to the photo API",
		},
		[]string{"endpoint", "status"},
	)

	UnsplashRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "photosearch",
			Name:      "unsplash_request_duration_seconds",
			Help:      "Photo API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"endpoint"},
	)

	// SearchOutcomesTotal итоги поисков контроллера: override, success, error, discarded
	SearchOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photosearch",
			Name:      "search_outcomes_total",
			Help:      "Settled search requests by outcome",
		},
		[]string{"mode", "outcome"},
	)

	DownloadJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photosearch",
			Name:      "download_jobs_total",
			Help:      "Download tracking jobs by result",
		},
		[]string{"result"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "photosearch",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"method", "path", "status"},
	)
)

func init() {
	prometheus.MustRegister(UnsplashRequestsTotal)
	prometheus.MustRegister(UnsplashRequestDuration)
	prometheus.MustRegister(SearchOutcomesTotal)
	prometheus.MustRegister(DownloadJobsTotal)
	prometheus.MustRegister(httpRequestDuration)
}

// Middleware пишет длительность HTTP-запросов по шаблону маршрута chi.
func Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)

			path := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}

			httpRequestDuration.
				WithLabelValues(r.Method, path, strconv.Itoa(ww.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
