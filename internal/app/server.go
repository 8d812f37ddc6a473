package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/folioforge/folioforge/internal/api/handlers"
	appMiddleware "github.com/folioforge/folioforge/internal/api/middlewares"
	"github.com/folioforge/folioforge/internal/config"
	"github.com/folioforge/folioforge/internal/core"
	"github.com/folioforge/folioforge/internal/core/generation_engine"
	"github.com/folioforge/folioforge/internal/core/template_engine"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *zap.Logger
}

// NewServer builds and wires all routes.
func NewServer(
	cfg *config.Config,
	db core.DbClient,
	obj core.ObjectClient,
	generator *generation_engine.Service,
	renderer *template_engine.Engine,
	extractor core.TextExtractor,
	log *zap.Logger,
) *Server {
	authHandler := handlers.NewAuthHandler(db)
	portfolioHandler := handlers.NewPortfolioHandler(db, renderer, log)
	generationHandler := handlers.NewGenerationHandler(db, generator)
	templateHandler := handlers.NewTemplateHandler(renderer)
	uploadHandler := handlers.NewUploadHandler(obj, extractor, cfg, log)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// Public portfolio pages by owner and slug.
	r.Get("/p/{ownerID}/{slug}", portfolioHandler.PublicView)

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)
		api.Get("/templates", templateHandler.List)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware)

			protected.Post("/portfolios/generate", generationHandler.Generate)
			protected.Post("/portfolios/preview", portfolioHandler.Preview)
			protected.Get("/portfolios", portfolioHandler.List)
			protected.Get("/portfolios/{id}", portfolioHandler.Get)
			protected.Get("/portfolios/{id}/render", portfolioHandler.Render)
			protected.Get("/portfolios/{id}/iterations", portfolioHandler.Iterations)
			protected.Post("/portfolios/{id}/enhance", generationHandler.Enhance)
			protected.Post("/portfolios/{id}/publish", portfolioHandler.Publish)
			protected.Post("/portfolios/{id}/unpublish", portfolioHandler.Unpublish)
			protected.Patch("/portfolios/{id}/template", portfolioHandler.ChangeTemplate)
			protected.Delete("/portfolios/{id}", portfolioHandler.Delete)

			protected.Post("/resumes/upload", uploadHandler.UploadResume)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
