package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scrawl/internal/config"
	"scrawl/internal/geo"
	"scrawl/internal/handlers"
	"scrawl/internal/middleware"
	"scrawl/internal/proxy"
	"scrawl/internal/ratelimit"
	"scrawl/internal/render"
	"scrawl/internal/scheduler"
	"scrawl/internal/session"
	"scrawl/internal/stats"
	"scrawl/internal/store"
	"scrawl/internal/token"
	"scrawl/internal/utils"
)

func main() {
	genSecret := flag.Bool("gen-secret", false, "print a random token secret for config.yaml and exit")
	flag.Parse()
	if *genSecret {
		secret, err := utils.GenerateSecret(32)
		if err != nil {
			log.Fatalf("Could not generate secret: %v", err)
		}
		fmt.Println(utils.EncodeSecret(secret))
		return
	}

	// Create root context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(config.Path("config.yaml"))
	if err != nil {
		log.Printf("Failed to load config: %v, using default config", err)
	}

	statsStore, redisStore := openStatsStore(ctx, cfg)
	if redisStore != nil {
		defer redisStore.Close()
	}

	locator, err := geo.Open(cfg.GeoIPPath)
	if err != nil {
		log.Printf("GeoIP database load error: %v, geo tags disabled", err)
	}
	defer locator.Close()

	secret := []byte(cfg.Token.Secret)
	if len(secret) == 0 {
		if secret, err = utils.GenerateSecret(32); err != nil {
			log.Fatalf("Could not generate token secret: %v", err)
		}
		log.Printf("No token secret configured; pass tokens will not survive a restart")
	}
	issuer := token.NewIssuer(secret, cfg.Token.TTL)

	sched := scheduler.Timer{}
	registry := store.NewRegistry(cfg.SessionTTL, func(id string) *session.Session {
		return session.New(id,
			render.NewCanvas(cfg.Canvas.Width, cfg.Canvas.Height),
			stats.New(id, nil, statsStore),
			session.Options{
				Length:       cfg.Challenge.Length,
				SuccessDelay: cfg.Challenge.SuccessDelay,
				FailureDelay: cfg.Challenge.FailureDelay,
				Scheduler:    sched,
			})
	})
	go registry.Run(ctx, time.Minute)

	limiter := ratelimit.NewStore(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	memory, _ := statsStore.(*store.Memory)
	go func() {
		t := time.NewTicker(5 * time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Prune()
				if memory != nil {
					if n := memory.Prune(); n > 0 {
						log.Printf("Stats: dropped %d expired snapshots", n)
					}
				}
			}
		}
	}()

	mw := middleware.New(cfg, registry, limiter, redisStore, locator)
	h := handlers.New(issuer, cfg.Token.SecureCookie)
	router := handlers.Router(h, mw, cfg.StaticDir)

	if cfg.Upstream != "" {
		gate, err := proxy.NewGate(cfg.Upstream, issuer, "/static/index.html")
		if err != nil {
			log.Fatalf("proxy init: %v", err)
		}
		router = withGate(router, mw.Session(gate))
	}

	// Server configuration
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting captcha service on %s (version %s)", server.Addr, handlers.AppVersion)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	stop()
	log.Println("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited gracefully")
}

func openStatsStore(ctx context.Context, cfg *config.Config) (stats.Store, *store.Redis) {
	switch cfg.Stats.Store {
	case "none":
		return store.Nop{}, nil
	case "redis":
		r := store.New(cfg.Stats.RedisAddr, cfg.Stats.TTL)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := r.Ping(pingCtx); err != nil {
			log.Printf("Redis at %s unreachable: %v; stats saves will fail until it is back", cfg.Stats.RedisAddr, err)
		}
		return r, r
	default:
		return store.NewMemory(cfg.Stats.TTL), nil
	}
}

// withGate sends every path the router does not own to gate.
func withGate(router http.Handler, gate http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/health", router)
	mux.Handle("/api/", router)
	mux.Handle("/static/", router)
	mux.Handle("/", gate)
	return mux
}
