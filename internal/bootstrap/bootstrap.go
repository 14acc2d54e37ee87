// Package bootstrap wires configuration, storage, services and controllers
// into a runnable application.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/weiting/stellact/internal/app/controllers"
	appRepos "github.com/weiting/stellact/internal/app/repositories"
	"github.com/weiting/stellact/internal/app/repositories/postgres"
	"github.com/weiting/stellact/internal/app/repositories/snapshot"
	appRoutes "github.com/weiting/stellact/internal/app/routes"
	appServices "github.com/weiting/stellact/internal/app/services"
	"github.com/weiting/stellact/internal/config"
	appMiddleware "github.com/weiting/stellact/internal/middleware"
	pkgAuth "github.com/weiting/stellact/internal/pkg/auth"
	"github.com/weiting/stellact/internal/pkg/filestorage"
	"github.com/weiting/stellact/internal/pkg/helpers"
	"github.com/weiting/stellact/internal/pkg/logger"
	"github.com/weiting/stellact/internal/pkg/recommender"
	"github.com/weiting/stellact/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          appServices.AuthService
	ActionService        appServices.ActionService
	ParticipationService appServices.ParticipationService
	InteractionService   appServices.InteractionService
	CommentService       appServices.CommentService
	RecommendService     appServices.RecommendService

	AuthController      *appControllers.AuthController
	ActionController    *appControllers.ActionController
	CommentController   *appControllers.CommentController
	UserController      *appControllers.UserController
	UploadController    *appControllers.UploadController
	RecommendController *appControllers.RecommendController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger

	// Pool is non-nil only for the postgres store driver
	Pool *pgxpool.Pool
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  strings.ToLower(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().
		Str("logLevel", cfg.Logging.Level).
		Str("storeDriver", cfg.Store.Driver).
		Msg("Configuration loaded")
	return cfg, lgr, nil
}

// SetupStore opens the configured persistence backend and seeds it when
// empty. The pool is nil for the snapshot driver.
func SetupStore(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*appRepos.Repositories, *pgxpool.Pool, error) {
	var repos *appRepos.Repositories
	var pool *pgxpool.Pool

	switch cfg.Store.Driver {
	case "postgres":
		var err error
		pool, err = postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := postgres.Migrate(ctx, pool, lgr); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		repos = postgres.NewRepositories(pool)

	default: // snapshot
		store, err := snapshot.Open(cfg.Store.SnapshotPath, nil, lgr)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		repos = store.Repositories()
	}

	if err := seed.EnsureDefaultData(ctx, repos, lgr); err != nil {
		// A half-seeded store is still usable; log and continue
		lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway")
	}

	return repos, pool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, repos *appRepos.Repositories, pool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Repos: repos, Pool: pool}

	baseURL := strings.TrimRight(cfg.Server.BaseURL, "/")
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, baseURL+"/uploads")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, pkgAuth.DefaultTokenExp),
		TokenIssuer: cfg.JWT.Issuer,
	})

	locks := appServices.NewActionLocks()

	deps.AuthService = appServices.NewAuthService(repos.Users, deps.JWTService, lgr)
	deps.ActionService = appServices.NewActionService(repos.Actions, repos.Participations, repos.Interactions, locks, lgr)
	deps.ParticipationService = appServices.NewParticipationService(repos.Actions, repos.Participations, locks, lgr)
	deps.InteractionService = appServices.NewInteractionService(repos.Actions, repos.Interactions, locks, lgr)
	deps.CommentService = appServices.NewCommentService(repos.Actions, cfg.Comments.ReplyPolicy, lgr)

	var ranker recommender.Recommender = recommender.Heuristic{}
	if cfg.Recommender.APIKey != "" {
		ranker = recommender.NewOpenAIClient(
			cfg.Recommender.BaseURL,
			cfg.Recommender.APIKey,
			cfg.Recommender.Model,
			helpers.ParseDuration(cfg.Recommender.Timeout, recommender.DefaultTimeout),
			lgr,
		)
	}
	deps.RecommendService = appServices.NewRecommendService(repos.Actions, ranker, lgr)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ActionController = appControllers.NewActionController(deps.ActionService, deps.ParticipationService, deps.InteractionService, lgr)
	deps.CommentController = appControllers.NewCommentController(deps.CommentService, deps.FileStorage, lgr)
	deps.UserController = appControllers.NewUserController(deps.InteractionService, lgr)
	deps.UploadController = appControllers.NewUploadController(deps.FileStorage, lgr)
	deps.RecommendController = appControllers.NewRecommendController(deps.RecommendService, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, repos.Users)

	return deps, nil
}

// SetupRouter builds the gin engine with middleware and all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(appMiddleware.CORS())

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.ActionController,
		deps.CommentController,
		deps.UserController,
		deps.UploadController,
		deps.RecommendController,
		deps.AuthMiddleware,
	)

	return router
}
