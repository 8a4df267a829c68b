package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contactform/backend/internal/config"
	"github.com/contactform/backend/internal/handler"
	"github.com/contactform/backend/internal/logging"
	"github.com/contactform/backend/internal/notify"
	"github.com/contactform/backend/internal/repository"
	"github.com/contactform/backend/internal/service"
	"github.com/contactform/backend/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO", "json")
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := repository.Open(ctx, repository.Options{
		Driver:      cfg.Store.Driver,
		DatabaseURL: cfg.Store.DatabaseURL,
		BoltPath:    cfg.Store.BoltPath,
	})
	if err != nil {
		logging.Fatal("failed to open store", "driver", cfg.Store.Driver, "error", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		logging.Fatal("failed to initialize schema", "error", err)
	}

	checks := []handler.HealthCheck{{Name: "store", DB: store}}
	var opts []service.Option
	if cfg.RedisURL != "" {
		pub, err := notify.Dial(cfg.RedisURL, cfg.RedisQueue)
		if err != nil {
			logging.Fatal("invalid redis configuration", "error", err)
		}
		defer pub.Close()
		if err := pub.Ping(ctx); err != nil {
			slog.Warn("redis not reachable, submissions will not be announced until it is", "error", err)
		}
		opts = append(opts, service.WithPublisher(pub))
		checks = append(checks, handler.HealthCheck{Name: "redis", DB: pub})
	}

	pages, err := handler.NewRenderer(web.Templates())
	if err != nil {
		logging.Fatal("failed to load templates", "error", err)
	}

	submissionService := service.NewSubmissionService(store, opts...)
	formHandler := handler.NewFormHandler(submissionService, pages)

	routerCfg := handler.RouterConfig{
		Form:          formHandler,
		Health:        handler.New(checks...),
		Static:        web.Static(),
		SecureCookies: cfg.SecureCookies,
	}
	if cfg.RateLimitPerMinute > 0 {
		rl := handler.NewRateLimiter(cfg.RateLimitPerMinute)
		defer rl.Close()
		routerCfg.RateLimiter = rl
	}
	if cfg.CSRFEnabled() {
		routerCfg.CSRFKey = cfg.CSRFKeyBytes()
	} else {
		slog.Warn("CSRF_KEY not set, form submissions are not CSRF protected")
	}

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler.NewRouter(routerCfg),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", server.Addr, "store", cfg.Store.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}
