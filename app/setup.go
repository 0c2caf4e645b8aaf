package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sahilchouksey/college-hub/api"
	"github.com/sahilchouksey/college-hub/config"
	"github.com/sahilchouksey/college-hub/database"
	"github.com/sahilchouksey/college-hub/router"
	"github.com/sahilchouksey/college-hub/services/ollama"
	"github.com/sahilchouksey/college-hub/utils/cache"
	"github.com/sahilchouksey/college-hub/utils/logger"
)

func SetupAndRunServer() error {

	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	getEnv, err := config.Get()
	if err != nil {
		return err
	}

	log, err := logger.New(getEnv.GO_ENV)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer log.Sync()

	// Initialize GORM database connection
	store, err := database.StartGORM(getEnv, log)
	if err != nil {
		if getEnv.DB_DRIVER == config.DriverPostgres {
			log.Error("check whether Postgres is running and DB_* variables are set")
		}
		return err
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Error("failed to initialize database tables", "error", err)
		return err
	}

	// Optional Redis cache for the model status endpoint
	var statusCache *cache.RedisCache
	if getEnv.REDIS_URL != "" {
		statusCache, err = cache.NewRedisCache(getEnv.REDIS_URL)
		if err != nil {
			log.Warn("failed to connect to Redis, model status will not be cached", "error", err)
			statusCache = nil
		} else {
			defer statusCache.Close()
		}
	}

	model := ollama.NewClient(ollama.Config{
		Host:          getEnv.OLLAMA_HOST,
		Model:         getEnv.OLLAMA_MODEL,
		Timeout:       getEnv.MODEL_TIMEOUT,
		StreamTimeout: getEnv.MODEL_STREAM_TIMEOUT,
		ProbeTimeout:  getEnv.MODEL_PROBE_TIMEOUT,
	})

	// Init API
	server := api.NewAPIServer(fmt.Sprintf(":%d", getEnv.PORT), api.Options{
		ViewsDir:       getEnv.VIEWS_DIR,
		UploadMaxBytes: getEnv.UPLOAD_MAX_BYTES,
		ReloadViews:    !getEnv.IsProduction(),
	}, log)

	// Setup Routes
	router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Store:       store,
		Model:       model,
		StatusCache: statusCache,
		Env:         getEnv,
		Log:         log,
		StaticDir:   "./static",
	})

	log.Info("College Application Hub ready",
		"url", fmt.Sprintf("http://localhost:%d", getEnv.PORT),
		"model", model.Model(),
		"db_driver", getEnv.DB_DRIVER,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		if err := server.Shutdown(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return <-errCh
	}
}
