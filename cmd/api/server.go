package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"libraryapi/internal/auth"
	"libraryapi/internal/book"
	"libraryapi/internal/config"
	"libraryapi/internal/httpx"

	"github.com/julienschmidt/httprouter"
)

type application struct {
	cfg     *config.Config
	logger  *slog.Logger
	books   *book.HTTPHandler
	apiKey  *auth.APIKey
	limiter *httpx.RateLimitMiddleware
	ping    func(ctx context.Context) error
}

func newApplication(cfg *config.Config, logger *slog.Logger, st *store) *application {
	service := book.NewService(st.repo)
	return &application{
		cfg:     cfg,
		logger:  logger,
		books:   book.NewHTTPHandler(service, logger),
		apiKey:  auth.NewAPIKey(cfg.APIKey),
		limiter: httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst),
		ping:    st.ping,
	}
}

func (app *application) close() {
	app.limiter.Close()
}

// routes builds the full handler.
//
// Middleware chain (outermost first):
//
//	requestID → accessLog → recovery → securityHeaders → cors → rateLimit → sizeLimit → mux
//
// Everything except the health probes requires the API key.
func (app *application) routes() http.Handler {
	api := httprouter.New()
	api.NotFound = httpx.NotFoundHandler()
	api.MethodNotAllowed = httpx.MethodNotAllowedHandler()
	app.books.RegisterRoutes(api)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := app.ping(ctx); err != nil {
			httpx.JSONErrorWithRequest(r, w, http.StatusServiceUnavailable, "NOT_READY", "db not ready", nil)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	mux.Handle("/", app.apiKey.Middleware(api))

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(app.logger),
		httpx.RecoveryMiddleware(app.logger),
		httpx.SecurityHeadersMiddleware,
		httpx.CORSMiddleware(app.cfg.CORSAllowedOrigins),
		app.limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(app.cfg.MaxBodyBytes),
	)
}

// serve runs the HTTP server until SIGINT/SIGTERM, then gives in-flight
// requests 20 seconds to finish.
func (app *application) serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         app.cfg.Addr,
		Handler:      app.routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctx.Done()
		app.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info("starting server", slog.String("addr", srv.Addr), slog.String("driver", app.cfg.DBDriver))
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownErr; err != nil {
		return err
	}
	app.logger.Info("server stopped", slog.String("addr", srv.Addr))
	return nil
}
