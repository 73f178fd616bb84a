package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/cloudface-ai/webedge/internal/conf"
	"github.com/cloudface-ai/webedge/internal/gateway"
	"github.com/cloudface-ai/webedge/internal/uistate"
	"github.com/cloudface-ai/webedge/pkg/beacon"
	"github.com/cloudface-ai/webedge/pkg/billing"
	"github.com/cloudface-ai/webedge/pkg/cache"
	"github.com/cloudface-ai/webedge/pkg/flags"
	"github.com/cloudface-ai/webedge/pkg/logging"
	"github.com/cloudface-ai/webedge/pkg/prompt"
	"github.com/cloudface-ai/webedge/pkg/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(configFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the caching edge daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := conf.Load(*configFlag)
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *conf.Config) error {
	logCfg := logging.DefaultConfig()
	logCfg.Level = logging.LogLevel(cfg.Log.Level)
	logCfg.Pretty = cfg.Log.Pretty
	logger := logging.Setup(logCfg)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	originURL, err := url.Parse(cfg.Origin)
	if err != nil {
		return fmt.Errorf("parse origin: %w", err)
	}

	store, closeStore, err := newCacheStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	flagStore := newFlagStore(cfg)
	if closer, ok := flagStore.(*flags.LevelStore); ok {
		defer closer.Close()
	}

	w := installWorker(ctx, store, cfg)

	state := uistate.New()

	controller := prompt.NewController(flagStore, state, prompt.PlatformOther,
		prompt.WithGenericDelay(cfg.Prompt.GenericBannerDelay))
	controller.HandlePageLoad(ctx)
	controller.Start(ctx)

	b := beacon.New(cfg.Beacon.Endpoint, cfg.Origin+"/", "CloudFace",
		beacon.WithHeartbeat(cfg.Beacon.Heartbeat))
	go b.Run(ctx)

	poller := billing.NewPoller(cfg.Origin, state, flagStore,
		billing.WithDiscountDelay(cfg.Billing.DiscountDelay))
	go poller.Run(ctx)

	server := gateway.New(originURL, w, state)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cfg.Listen)
	}()
	logger.Info().Str("listen", cfg.Listen).Str("origin", cfg.Origin).Msg("webedge serving")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// newCacheStore connects to Redis when configured, otherwise falls back to
// the in-process store. A configured but unreachable Redis is a hard error;
// silently degrading a shared cache to a private one would be surprising.
func newCacheStore(ctx context.Context, cfg *conf.Config) (cache.Store, func(), error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return cache.NewRedisStore(client), func() { client.Close() }, nil
}

// newFlagStore opens the persistent dismissal-flag store, degrading to
// memory when the path cannot be opened. Dismissals then last only for the
// process lifetime, which beats refusing to start.
func newFlagStore(cfg *conf.Config) flags.Store {
	store, err := flags.OpenLevelStore(cfg.Flags.Path)
	if err != nil {
		logger := logging.NewLogger("flags")
		logger.Warn().Err(err).Str("path", cfg.Flags.Path).
			Msg("Failed to open flag store, dismissals will not persist")
		return flags.NewMemoryStore()
	}
	return store
}

// installWorker runs the install/activate lifecycle. Install failure is not
// fatal: the gateway keeps proxying without offline support.
func installWorker(ctx context.Context, store cache.Store, cfg *conf.Config) *worker.Worker {
	logger := logging.NewLogger("worker")
	w, err := worker.New(store, worker.Config{Origin: cfg.Origin})
	if err != nil {
		logger.Warn().Err(err).Msg("Worker setup failed, serving without offline cache")
		return nil
	}
	if err := w.Install(ctx); err != nil {
		logger.Warn().Err(err).Msg("Install failed, serving without offline cache")
		return nil
	}
	if err := w.Activate(ctx); err != nil {
		logger.Warn().Err(err).Msg("Activate failed, serving without offline cache")
		return nil
	}
	return w
}
