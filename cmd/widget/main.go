package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pribylovaa/go-comments-widget/internal/api"
	"github.com/pribylovaa/go-comments-widget/internal/auth"
	"github.com/pribylovaa/go-comments-widget/internal/config"
	"github.com/pribylovaa/go-comments-widget/internal/http/middleware"
	"github.com/pribylovaa/go-comments-widget/internal/session"
	"github.com/pribylovaa/go-comments-widget/internal/widget"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var (
		configPath string
		demo       bool
		email      string
		password   string
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.BoolVar(&demo, "demo", false, "run against an in-process demo backend")
	flag.StringVar(&email, "email", "", "email for local login")
	flag.StringVar(&password, "password", "", "password for local login")
	flag.Parse()

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	var demoSrv *http.Server
	if demo {
		var err error
		demoSrv, err = startDemoBackend()
		if err != nil {
			slog.Error("demo_backend_failed", slog.String("err", err.Error()))
			os.Exit(1)
		}
		if email == "" {
			email, password = demoEmail, demoPassword
		}
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting comments widget",
		slog.String("env", cfg.Env),
		slog.String("api", cfg.API.BaseURL),
		slog.String("page", cfg.Page.Host+cfg.Page.Path),
	)

	store, err := newStore(rootCtx, cfg)
	if err != nil {
		log.Error("session_store_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warn("session_store_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	client, err := api.New(cfg.API.BaseURL, store, api.Options{
		Logger:    log,
		UserAgent: "comments-widget",
		Timeout:   cfg.Timeouts.Request,
		RPS:       cfg.RateLimit.RPS,
		Burst:     cfg.RateLimit.Burst,
		Metrics:   api.NewMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		log.Error("api_client_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	authOpts := auth.Options{
		Host:         cfg.Page.Host,
		PollInterval: cfg.Timeouts.OAuthPoll,
		SSOTimeout:   cfg.Timeouts.SSO,
	}
	if email != "" {
		authOpts.Prompt = staticPrompt{Email: email, Password: password}
	}

	w := widget.New(client, auth.New(client, store, authOpts), widget.Options{
		Host:     cfg.Page.Host,
		Path:     cfg.Page.Path,
		MaxLevel: cfg.Render.MaxLevel,
		AutoSSO:  cfg.Page.AutoSSO,
		Logger:   log,
		Avatars:  widget.Avatars{BaseURL: client.BaseURL()},
	})

	var ready int32 // 0 - not ready; 1 - ready

	if err := w.Init(rootCtx); err != nil {
		// Виджет уже показывает ошибку; предпросмотр всё равно поднимается.
		log.Warn("widget_init_failed", slog.String("err", err.Error()))
	} else {
		atomic.StoreInt32(&ready, 1)
	}

	go w.Watch(rootCtx, cfg.LiveUpdate.Interval)

	r := chi.NewRouter()
	r.Use(
		middleware.Recover(),
		middleware.RequestID(),
		middleware.Logging(log),
		middleware.Metrics(prometheus.DefaultRegisterer, "comments_widget"),
	)

	r.Get("/livez", func(rw http.ResponseWriter, _ *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})

	r.Get("/healthz", func(rw http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			rw.WriteHeader(http.StatusOK)
			_, _ = rw.Write([]byte("ok"))
			return
		}

		http.Error(rw, "not ready", http.StatusServiceUnavailable)
	})

	r.Handle("/metrics", promhttp.Handler())
	mountPreview(r, w, &ready)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		log.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	log.Info("widget_ready")

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	if demoSrv != nil {
		if err := demoSrv.Shutdown(shutdownCtx); err != nil {
			log.Warn("demo_backend_shutdown_incomplete", slog.String("err", err.Error()))
		}
	}

	log.Info("service_stopped")
}

func newStore(ctx context.Context, cfg *config.Config) (session.Store, error) {
	if cfg.Session.Store == "redis" {
		return session.NewRedisStore(ctx, cfg.Session.RedisURL, cfg.Session.Prefix, cfg.Page.Host)
	}

	return session.NewMemoryStore(nil), nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
