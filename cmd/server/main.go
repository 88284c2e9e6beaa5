package main

import (
	"context"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/scholargate/scholargate/internal/ai"
	"github.com/scholargate/scholargate/internal/api"
	"github.com/scholargate/scholargate/internal/auth"
	"github.com/scholargate/scholargate/internal/config"
	"github.com/scholargate/scholargate/internal/dataset"
	"github.com/scholargate/scholargate/internal/db"
	"github.com/scholargate/scholargate/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.JWTSecretGenerated {
		zlog.Warn("JWT_SECRET is not set; using ephemeral in-memory fallback secret")
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn: cfg.SentryDSN,
	}); err != nil {
		zlog.Warn("sentry init failed", zap.Error(err))
	}
	defer sentry.Flush(2 * time.Second)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool, zlog); err != nil {
		zlog.Fatal("migration failed", zap.Error(err))
	}

	authService := auth.NewService(pool, []byte(cfg.JWTSecret), cfg.JWTExpiration)

	var assistant api.Asker
	if cfg.GoogleAPIKey != "" {
		gemini, err := ai.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			zlog.Fatal("failed to create Gemini client", zap.Error(err))
		}
		assistant = ai.NewAssistant(gemini)
	} else {
		zlog.Warn("GOOGLE_API_KEY is not set; chat assistant will respond with the fallback message")
	}

	catalog := dataset.NewCatalog()
	loader, err := buildLoader(cfg, catalog, zlog)
	if err != nil {
		zlog.Fatal("failed to configure dataset sources", zap.Error(err))
	}

	// Initial load runs in the background so startup is not held hostage
	// by a slow source; browsing reports "still loading" until it lands.
	go func() {
		loadCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := loader.Load(loadCtx); err != nil {
			zlog.Warn("initial dataset load failed; catalog is empty", zap.Error(err))
			sentry.CaptureException(err)
		}
	}()

	srv := api.NewServer(cfg, authService, assistant, catalog, loader, zlog)
	zlog.Info("server starting", zap.String("port", cfg.Port))
	if err := srv.Start(cfg.Port); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

// buildLoader wires the embedded source registry, letting DATASET_URL
// override the primary CSV source for deployments that host the file
// elsewhere.
func buildLoader(cfg *config.Config, catalog *dataset.Catalog, zlog *zap.Logger) (*dataset.Loader, error) {
	registry, err := dataset.LoadRegistry()
	if err != nil {
		return nil, err
	}

	sources := registry.ActiveSources()
	if cfg.DatasetURL != "" {
		for i := range sources {
			if sources[i].Format == dataset.FormatCSV {
				sources[i].URL = cfg.DatasetURL
				break
			}
		}
	}

	return dataset.NewLoader(catalog, dataset.NewHTTPFetcher(), sources, zlog), nil
}
