package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/fairshare/internal/amqp"
	"github.com/mmynk/fairshare/internal/cache"
	"github.com/mmynk/fairshare/internal/config"
	"github.com/mmynk/fairshare/internal/metrics"
	"github.com/mmynk/fairshare/internal/middleware"
	"github.com/mmynk/fairshare/internal/service"
	"github.com/mmynk/fairshare/internal/storage/sqlite"
	"github.com/mmynk/fairshare/internal/worker"
	"github.com/mmynk/fairshare/pkg/api"
	"github.com/mmynk/fairshare/pkg/logging"
)

const (
	balanceCacheSize = 1000
	shutdownTimeout  = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	logging.SetupWithFormat(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize SQLite storage
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	m := metrics.New()
	opts := []service.Option{service.WithMaxGroupsPerCreator(cfg.MaxGroupsPerCreator)}
	prunerOpts := []worker.PrunerOption{worker.WithPruneHook(m.GroupsPruned)}

	if cfg.RedisURL != "" {
		client, err := cache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer client.Close()
		opts = append(opts, service.WithBalanceCache(
			cache.NewRedisCache[*api.GetGroupBalancesResponse](client, cfg.BalanceCacheTTL)))
		slog.Info("Balance cache backed by Redis", "ttl", cfg.BalanceCacheTTL)
	} else {
		lru := cache.NewLRUCache[*api.GetGroupBalancesResponse](balanceCacheSize, cfg.BalanceCacheTTL)
		opts = append(opts, service.WithBalanceCache(lru))
		prunerOpts = append(prunerOpts, worker.WithCacheCleaner(lru))
		slog.Info("Balance cache in memory", "ttl", cfg.BalanceCacheTTL, "size", balanceCacheSize)
	}

	if cfg.AMQPURL != "" {
		publisher, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			return fmt.Errorf("connect to AMQP: %w", err)
		}
		defer publisher.Close()
		opts = append(opts, service.WithPublisher(publisher))
		slog.Info("Publishing ledger events", "exchange", cfg.AMQPExchange)
	}

	mux := http.NewServeMux()

	// Register Connect services
	ledgerPath, ledgerHandler := api.NewLedgerServiceHandler(
		service.NewLedgerService(store, opts...),
		connect.WithInterceptors(middleware.LoggingInterceptor(), m.Interceptor()),
	)
	mux.Handle(ledgerPath, ledgerHandler)
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Connect server starting", "address", server.Addr, "url", fmt.Sprintf("http://localhost%s", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return worker.NewPruner(store, cfg.GroupTTL, cfg.PruneInterval, prunerOpts...).Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		slog.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
