package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/diewo77/marina-admin/i18n"
	"github.com/diewo77/marina-admin/internal/handlers"
	"github.com/diewo77/marina-admin/internal/workflow"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is the main application handler that sets up all routes.
type App struct {
	mux         *http.ServeMux
	defaultLang string
	logger      *slog.Logger
}

// NewApp creates the admin application around a mounted workspace.
func NewApp(ws *workflow.Workspace, reg *prometheus.Registry, pageSize int, defaultLang string, logger *slog.Logger) *App {
	app := &App{
		mux:         http.NewServeMux(),
		defaultLang: defaultLang,
		logger:      logger,
	}
	handlers.NewTransactionHandler(ws, pageSize, logger).Register(app.mux)

	app.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/transactions", http.StatusSeeOther)
	})
	app.mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	app.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	withLogging(a.logger, a.withPreferences(a.mux)).ServeHTTP(w, r)
}

// withPreferences injects the language preference from cookie, query or Accept-Language.
func (a *App) withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := a.defaultLang
		if h := r.Header.Get("Accept-Language"); h != "" {
			lang = i18n.DetectLanguage(h)
		}
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
