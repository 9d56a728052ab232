package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/config"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/ai"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/db"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/handlers"
	mw "github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/middleware"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/mq"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/services"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/storage"
	"github.com/hunterxdhanush/DietTrackingandRecipeRecommendation/internal/store"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

// Options tweak server construction.
type Options struct {
	// AutoMigrate applies pending migrations before serving.
	AutoMigrate bool
}

// Services bundles the use-cases exposed over HTTP.
type Services struct {
	Auth     *services.AuthService
	Profile  *services.ProfileService
	Goals    *services.GoalsService
	FoodLogs *services.FoodLogService
	Progress *services.ProgressService
	Recipes  *services.RecipeService
	Export   *services.ExportService
}

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sqlx.DB
	broker     *mq.MQ
	logger     *zap.Logger
}

// New wires configuration, persistence, optional collaborators and routes.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger, opts Options) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("load timezone: %w", err)
	}

	if opts.AutoMigrate {
		if err := db.MigrateUp(db.DSN(cfg)); err != nil {
			return nil, err
		}
		logger.Info("migrations applied")
	}

	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var archive services.Archiver
	objectStorage, err := storage.Open(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if objectStorage != nil {
		archive = objectStorage
		logger.Info("export archive enabled", zap.String("backend", cfg.StorageBackend), zap.String("bucket", objectStorage.Bucket()))
	}

	events := services.NoopPublisher()
	broker, err := mq.Open(ctx, cfg)
	if err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("open mq: %w", err)
	}
	if broker != nil {
		events = services.NewBrokerPublisher(broker, logger)
		logger.Info("domain events enabled", zap.String("backend", cfg.MQBackend))
	}

	var generator services.RecipeGenerator
	if client := ai.NewClient(cfg.AI); client != nil {
		generator = client
		logger.Info("ai recipe generation enabled", zap.String("model", cfg.AI.Model))
	}

	clock := services.SystemClock(loc)
	userRepo := store.NewUserRepository(dbConn)
	goalsRepo := store.NewGoalsRepository(dbConn)
	foodLogRepo := store.NewFoodLogRepository(dbConn)

	progress := services.NewProgressService(goalsRepo, foodLogRepo, clock)
	svc := Services{
		Auth:     services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, clock, events),
		Profile:  services.NewProfileService(userRepo, cfg.BMIHistoryPolicy, events),
		Goals:    services.NewGoalsService(goalsRepo, events),
		FoodLogs: services.NewFoodLogService(foodLogRepo, clock, events),
		Progress: progress,
		Recipes:  services.NewRecipeService(progress, generator, logger),
		Export:   services.NewExportService(userRepo, goalsRepo, foodLogRepo, archive, clock, logger),
	}

	router := NewRouter(svc, cfg.CORSOrigins, logger)

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		broker:     broker,
		logger:     logger,
	}, nil
}

// NewRouter mounts every API route under /api.
func NewRouter(svc Services, corsOrigins []string, logger *zap.Logger) *chi.Mux {
	authMiddleware := handlers.RequireAuth(svc.Auth)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		mw.ZapRequestLogger(logger),
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
		cors.Handler(cors.Options{
			AllowedOrigins:   corsOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
	)

	router.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Route("/auth", func(r chi.Router) {
			handlers.AuthRouter(r, svc.Auth, svc.Profile, svc.Export, authMiddleware, logger)
		})
		r.Route("/nutrition", func(r chi.Router) {
			handlers.NutritionRouter(r, svc.Goals, svc.FoodLogs, svc.Progress, authMiddleware, logger)
		})
		r.Route("/recipes", func(r chi.Router) {
			handlers.RecipesRouter(r, svc.Recipes, authMiddleware, logger)
		})
	})
	return router
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("server starting", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests, then releases the broker and database.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	if s.broker != nil {
		if closeErr := s.broker.Close(); closeErr != nil {
			s.logger.Warn("close mq", zap.Error(closeErr))
		}
	}
	if s.db != nil {
		_ = s.db.Close()
	}
	return err
}
