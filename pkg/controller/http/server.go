package http

import (
	"context"
	"net/http"
	"time"

	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/unidl/pkg/domain/interfaces"
	"github.com/m-mizutani/unidl/pkg/utils/i18n"
)

// config holds internal HTTP server configuration
type config struct {
	addr         string
	bundle       *i18n.Bundle
	secureCookie bool
	sentry       bool
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithBundle sets the message catalogs used by the page
func WithBundle(bundle *i18n.Bundle) Option {
	return func(c *config) {
		c.bundle = bundle
	}
}

// WithSecureCookie marks the session cookie Secure
func WithSecureCookie(secure bool) Option {
	return func(c *config) {
		c.secureCookie = secure
	}
}

// WithSentry enables the Sentry middleware. sentry.Init must have been called.
func WithSentry(enabled bool) Option {
	return func(c *config) {
		c.sentry = enabled
	}
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	mediaUC interfaces.MediaUseCase,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr: "localhost:8080",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.bundle == nil {
		bundle, err := i18n.NewBundle("en")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to load default catalogs")
		}
		cfg.bundle = bundle
	}

	page, err := newPageRenderer(cfg.bundle)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	if cfg.sentry {
		router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)
	}
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", healthHandler(cfg.bundle))

	media := NewMediaHandler(mediaUC, cfg.bundle, page)

	// Session-bound page flow
	router.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(cfg.secureCookie))
		r.Get("/", media.HandlePage)
		r.Post("/check", media.HandleCheck)
		r.Post("/clear", media.HandleClear)
		r.Post("/download/{kind}", media.HandleDownload)
		r.Get("/file", media.HandleFile)
	})

	// Stateless JSON API
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/metadata", media.HandleMetadata)
		r.Get("/presets", handlePresets)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
