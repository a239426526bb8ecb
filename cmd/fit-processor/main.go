package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/adrian9211/private-coach/internal/cache"
	"github.com/adrian9211/private-coach/internal/config"
	"github.com/adrian9211/private-coach/internal/log"
	"github.com/adrian9211/private-coach/internal/server"
	"github.com/adrian9211/private-coach/internal/storage"
)

var mainDepsProvider = defaultDeps
var mainRunner = realMain

func main() {
	mainRunner(mainDepsProvider())
}

type mainDeps struct {
	loadConfig func() config.Config
	newStorage func(context.Context, storage.Config) (*storage.Client, error)
	newCache   func(addr, password string, db int, ttl time.Duration) *cache.Cache
	notify     func(chan<- os.Signal, ...os.Signal)
	run        func(context.Context, config.Config, *log.Logger, *storage.Client, *cache.Cache, <-chan os.Signal, ListenFunc) error
}

func defaultDeps() mainDeps {
	return mainDeps{
		loadConfig: config.Load,
		newStorage: storage.New,
		newCache:   cache.New,
		notify:     signal.Notify,
		run:        Run,
	}
}

func realMain(deps mainDeps) {
	cfg := deps.loadConfig()
	logger := log.NewLogger("fit-processor", cfg.LogLevel)
	defer logger.Sync()

	var store *storage.Client
	if cfg.StorageBucket != "" {
		var err error
		store, err = deps.newStorage(context.Background(), storage.Config{
			Bucket:       cfg.StorageBucket,
			Prefix:       cfg.StoragePrefix,
			Region:       cfg.StorageRegion,
			Endpoint:     cfg.StorageEndpoint,
			UsePathStyle: cfg.StoragePathStyle,
		})
		if err != nil {
			logger.Error("storage init failed", map[string]any{"error": err.Error()})
			store = nil
		}
	} else {
		logger.Warn("no storage bucket configured, process-fit lookups are disabled", nil)
	}

	activityCache := deps.newCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)

	signals := make(chan os.Signal, 1)
	deps.notify(signals, syscall.SIGINT, syscall.SIGTERM)

	if err := deps.run(context.Background(), cfg, logger, store, activityCache, signals, nil); err != nil {
		logger.Error("server exited with error", map[string]any{"error": err.Error()})
	}
}

type ListenFunc func(app *fiber.App, addr string) error

var defaultListen ListenFunc = func(app *fiber.App, addr string) error {
	return app.Listen(addr)
}

var shutdownFn = func(app *fiber.App, ctx context.Context) error {
	return app.ShutdownWithContext(ctx)
}

// Run starts the HTTP server and waits for termination signals.
func Run(ctx context.Context, cfg config.Config, logger *log.Logger, store *storage.Client, activityCache *cache.Cache, signals <-chan os.Signal, listen ListenFunc) error {
	var downloader server.Downloader
	if store != nil {
		downloader = store
	}
	svc := server.NewService(downloader, activityCache, logger, int64(cfg.BodyLimitBytes()))
	srv := server.NewServer(cfg, svc)

	if listen == nil {
		listen = defaultListen
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- listen(srv.App, ":"+cfg.Port)
	}()

	logger.Info("listening", map[string]any{
		"port":    cfg.Port,
		"storage": store != nil,
		"cache":   activityCache.Enabled(),
	})

	select {
	case <-signals:
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := shutdownFn(srv.App, shutdownCtx); err != nil {
		return err
	}
	if activityCache != nil {
		_ = activityCache.Close()
	}
	return nil
}
