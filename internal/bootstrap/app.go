package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"workforce-backend/internal/detection"
	"workforce-backend/internal/llm"
	"workforce-backend/internal/llm/openai"
	"workforce-backend/internal/shared/config"
	"workforce-backend/internal/shared/server"
	"workforce-backend/internal/shared/storage/db"
	"workforce-backend/internal/workforce"
)

var errDatabaseRequired = errors.New("bootstrap: DATABASE_URL is required outside dev")

// App holds the shared dependencies of the api and detector processes.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	WorkforceRepo    workforce.Repo
	WorkforceMemory  *workforce.MemoryRepo
	DetectionRepo    detection.Repo
	LLM              llm.Client
	DetectionService *detection.Service
	Scheduler        *detection.Scheduler
	DetectionHandler *detection.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
	}

	if sqlDB != nil {
		app.WorkforceRepo = &workforce.PGRepo{DB: sqlDB}
		app.DetectionRepo = &detection.PGRepo{DB: sqlDB}
	} else {
		memory := workforce.NewMemoryRepo()
		app.WorkforceMemory = memory
		app.WorkforceRepo = memory
		app.DetectionRepo = detection.NewMemoryRepo()
	}

	app.LLM = buildLLM(cfg)

	app.DetectionService = &detection.Service{
		Loader:     &detection.Loader{Workforce: app.WorkforceRepo},
		Evaluators: detection.DefaultEvaluators(),
		AI: &detection.PatternDetector{
			LLM:         app.LLM,
			SampleLimit: cfg.DetectionSampleLimit,
		},
		Aggregator: &detection.Aggregator{
			SuppressStatuses: cfg.DedupSuppressStatuses,
		},
		Repo:        app.DetectionRepo,
		PassTimeout: time.Duration(cfg.DetectionPassTimeout) * time.Second,
	}
	app.Scheduler = detection.NewScheduler(app.DetectionService, time.Duration(cfg.DetectionInterval)*time.Minute)
	app.DetectionHandler = detection.NewHandler(app.Scheduler, app.DetectionRepo)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		DetectionHandler: app.DetectionHandler,
		WorkforceHandler: workforce.NewHandler(app.WorkforceMemory),
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, errDatabaseRequired
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return sqlDB, nil
}

func buildLLM(cfg config.Config) llm.Client {
	apiKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if cfg.LLMProvider != "openai" || apiKey == "" || strings.TrimSpace(cfg.LLMModel) == "" {
		log.Printf("bootstrap: AI detector disabled (provider=%s model=%q key_set=%t)", cfg.LLMProvider, cfg.LLMModel, apiKey != "")
		return nil
	}
	client, err := openai.NewClient(apiKey, cfg.LLMModel)
	if err != nil {
		log.Printf("bootstrap: AI detector disabled: %v", err)
		return nil
	}
	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
