package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/carbonfield/emissions-engine/pkg/config"
	"github.com/carbonfield/emissions-engine/pkg/database"
	"github.com/carbonfield/emissions-engine/pkg/handlers"
	"github.com/carbonfield/emissions-engine/pkg/middleware"
	"github.com/carbonfield/emissions-engine/pkg/repositories"
	"github.com/carbonfield/emissions-engine/pkg/schema"
	"github.com/carbonfield/emissions-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("database", cfg.Database.Database),
		zap.String("form_schema", cfg.Schema.FormPath),
		zap.String("identification_schema", cfg.Schema.IdentificationPath))

	ctx := context.Background()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationDB := stdlib.OpenDBFromPool(db.Pool)
	if err := database.RunMigrations(migrationDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := migrationDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	schemas := schema.NewStore(cfg.Schema.FormPath, cfg.Schema.IdentificationPath, logger)

	entryRepo := repositories.NewEntryRepository(db)
	identRepo := repositories.NewIdentificationRepository(db)
	submissionRepo := repositories.NewSubmissionRepository(db)

	entryService := services.NewEntryService(entryRepo, identRepo, schemas, services.SubmitConfig{
		Delay:       time.Duration(cfg.Submission.DelayMS) * time.Millisecond,
		SuccessRate: cfg.Submission.SuccessRate,
	}, logger)
	identService := services.NewIdentificationService(identRepo, schemas, logger)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewSchemaHandler(schemas, logger).RegisterRoutes(mux)
	handlers.NewFormHandler(schemas, logger).RegisterRoutes(mux)
	handlers.NewEntriesHandler(entryService, submissionRepo, logger).RegisterRoutes(mux)
	handlers.NewIdentificationHandler(identService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting emissions-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
