package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/config"
	"github.com/folioforge/folioforge/internal/core"
	db "github.com/folioforge/folioforge/internal/core/database"
	"github.com/folioforge/folioforge/internal/core/extraction"
	"github.com/folioforge/folioforge/internal/core/generation_engine"
	"github.com/folioforge/folioforge/internal/core/github"
	"github.com/folioforge/folioforge/internal/core/llm"
	"github.com/folioforge/folioforge/internal/core/objectclient"
	"github.com/folioforge/folioforge/internal/core/template_engine"
)

type App struct {
	DBClient     core.DbClient
	ObjectClient core.ObjectClient
	Generator    *generation_engine.Service
	Renderer     *template_engine.Engine
	Server       *Server
	log          *zap.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready")

	objClient, err := objectclient.NewS3Client(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("object client initialized and ready")

	primary, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.GenModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the primary model, %w", err)
	}
	fallback, err := llm.NewGeminiLLM(appCtx, cfg.AIAPIKey, cfg.FallbackModel)
	if err != nil {
		return nil, fmt.Errorf("couldn't initialize the fallback model, %w", err)
	}

	githubClient := github.NewClient(cfg.GitHubToken)
	normalizer := generation_engine.NewNormalizer(githubClient, primary, log, cfg.FetchTimeout)

	registry, err := template_engine.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("couldn't build the template registry, %w", err)
	}
	renderer := template_engine.NewEngine(registry, dbClient, log)

	generator := generation_engine.NewService(dbClient, primary, fallback, normalizer, registry, log, cfg.LLMTimeout)

	extractor := extraction.NewDocconvExtractor(false)

	server := NewServer(cfg, dbClient, objClient, generator, renderer, extractor, log)

	return &App{
		DBClient:     dbClient,
		ObjectClient: objClient,
		Generator:    generator,
		Renderer:     renderer,
		Server:       server,
		log:          log,
	}, nil
}

func (a *App) Close() {
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}
