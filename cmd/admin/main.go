package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hotel_admin/internal/adapters/hotelapi"
	server "hotel_admin/internal/adapters/http_server"
	"hotel_admin/internal/adapters/memory"
	"hotel_admin/internal/adapters/observability"
	redisad "hotel_admin/internal/adapters/redis"
	"hotel_admin/internal/app"
	"hotel_admin/internal/domain"
	"hotel_admin/internal/shared"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// backend
	gw, err := hotelapi.New(cfg.APIBase, hotelapi.Options{
		RPS:             cfg.APIRPS,
		Timeout:         cfg.APITimeout,
		BreakerFailures: uint32(cfg.BreakerFailures),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("hotel api client init failed")
	}
	log.Info().Str("base", cfg.APIBase).Int("rps", cfg.APIRPS).Msg("hotel api configured")

	// sessions
	kv := sessionStore(ctx, cfg)

	// deps
	cache := app.NewStateCache(gw)
	ctl := app.NewController(gw, cache, app.Options{RecentLimit: cfg.RecentLimit, Location: cfg.DisplayTZ})
	views, err := server.NewRenderer()
	if err != nil {
		log.Fatal().Err(err).Msg("template parse failed")
	}

	// http
	srv := server.New(cfg.APITimeout + 5*time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		C:            ctl,
		Sessions:     app.NewSessions(kv, cfg.SessionTTL),
		Views:        views,
		SecureCookie: cfg.SecureCookie,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("admin dashboard listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
}

// sessionStore picks the session backend; an unreachable redis falls back
// to process memory so the dashboard still serves.
func sessionStore(ctx context.Context, cfg shared.Config) domain.KV {
	if cfg.SessionBackend != "redis" {
		return memory.NewKV()
	}
	rs := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rs.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, using in-memory sessions")
		_ = rs.Close()
		return memory.NewKV()
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("redis session store ok")
	return rs
}
