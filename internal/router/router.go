package router

import (
	"context"
	"fmt"
	"net/http"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/ideahub/backend/internal/cache"
	"github.com/anonto42/ideahub/backend/internal/events"
	"github.com/anonto42/ideahub/backend/internal/gamification"
	"github.com/anonto42/ideahub/backend/internal/handlers"
	"github.com/anonto42/ideahub/backend/internal/metrics"
	"github.com/anonto42/ideahub/backend/internal/middleware"
	"github.com/anonto42/ideahub/backend/internal/models"
	"github.com/anonto42/ideahub/backend/internal/repositories"
	"github.com/anonto42/ideahub/backend/internal/saga"
	"github.com/anonto42/ideahub/backend/internal/services"
	"github.com/anonto42/ideahub/backend/pkg/config"
	"github.com/anonto42/ideahub/backend/validators"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Deps are the connections and settings the routes are built from.
// FirebaseAuth and Metrics may be nil.
type Deps struct {
	Config       *config.Config
	DB           *config.DB
	FirebaseAuth *auth.Client
	Metrics      *metrics.Metrics
	Logger       *zap.SugaredLogger
}

// SetupRoutes migrates the relational schema, wires repositories, services
// and handlers, and returns the outbox relay for the caller to run.
func SetupRoutes(e *echo.Echo, deps Deps) (*saga.Relay, error) {
	cfg, pgdb, logger := deps.Config, deps.DB.Postgres, deps.Logger

	err := pgdb.AutoMigrate(
		&models.Profile{},
		&models.Category{},
		&models.Tag{},
		&models.IdeaTag{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
		&models.Notification{},
		&models.Milestone{},
		&models.SagaStep{},
	)
	if err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}
	logger.Info("PostgreSQL auto-migrations completed")

	e.HTTPErrorHandler = handlers.ErrorHandler(logger)
	e.Validator = validators.NewValidator()

	// --- Initialize Repositories ---
	mongoDB := deps.DB.Mongo.Database(cfg.MongoDatabase)
	tx := repositories.NewTxManager(pgdb)
	profileRepo := repositories.NewPostgresProfileRepository(pgdb)
	ideaRepo := repositories.NewMongoIdeaRepository(mongoDB)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	milestoneRepo := repositories.NewPostgresMilestoneRepository(pgdb)
	taxonomyRepo := repositories.NewPostgresTaxonomyRepository(pgdb)
	stepRepo := repositories.NewPostgresSagaStepRepository(pgdb)

	// --- Services ---
	unread := cache.New(deps.DB.Redis, cfg.UnreadCacheTTL, logger, deps.Metrics)
	engine := gamification.NewEngine(profileRepo, deps.Metrics, logger)
	notificationService := services.NewNotificationService(notificationRepo, profileRepo, unread, deps.Metrics, logger)
	executor := saga.NewExecutor(tx, stepRepo, engine, notificationService, deps.Metrics, cfg.OutboxMaxAttempts, logger)
	relay := saga.NewRelay(stepRepo, executor, cfg.OutboxInterval, cfg.OutboxGrace, cfg.OutboxBatchSize, logger)

	socialService := services.NewSocialService(services.SocialDeps{
		Tx:       tx,
		Ideas:    ideaRepo,
		Profiles: profileRepo,
		Likes:    likeRepo,
		Comments: commentRepo,
		Follows:  followRepo,
		Steps:    stepRepo,
		Executor: executor,
		Events:   events.NewPublisher(deps.DB.Nats, logger),
		Recorder: deps.Metrics,
		Logger:   logger,
	})
	ideaService := services.NewIdeaService(services.IdeaDeps{
		Tx:            tx,
		Ideas:         ideaRepo,
		Profiles:      profileRepo,
		Likes:         likeRepo,
		Comments:      commentRepo,
		Follows:       followRepo,
		Taxonomy:      taxonomyRepo,
		Milestones:    milestoneRepo,
		Notifications: notificationRepo,
		Logger:        logger,
	})
	milestoneService := services.NewMilestoneService(ideaRepo, milestoneRepo)
	profileService := services.NewProfileService(profileRepo, followRepo, logger)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(healthChecks(deps)).HealthCheck)

	// --- Unprotected routes for authentication ---
	var verifier middleware.TokenVerifier
	authenticators := []middleware.Authenticator{middleware.JWTAuthenticator(cfg.JWTSecret)}
	if deps.FirebaseAuth != nil {
		verifier = deps.FirebaseAuth
		authenticators = append(authenticators, middleware.FirebaseAuthenticator(verifier, profileService))
	}

	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(profileService, verifier, cfg.JWTSecret, cfg.TokenTTL).RegisterAuthRoutes(authGroup)

	// --- Protected routes ---
	limiter := middleware.NewRateLimiter(deps.DB.Redis, middleware.PerMinute(cfg.RateLimitRPM, cfg.RateLimitRPM), logger)
	api := e.Group("/api/v1", middleware.Auth(authenticators...), limiter.Middleware())

	handlers.NewProfileHandler(profileService).RegisterProfileRoutes(api)
	handlers.NewIdeaHandler(ideaService).RegisterIdeaRoutes(api)
	handlers.NewFeedHandler(ideaService).RegisterFeedRoutes(api)
	handlers.NewSocialHandler(socialService).RegisterSocialRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)
	handlers.NewMilestoneHandler(milestoneService).RegisterMilestoneRoutes(api)
	handlers.NewTaxonomyHandler(taxonomyRepo).RegisterTaxonomyRoutes(api)

	logger.Infow("All routes configured", "firebase", deps.FirebaseAuth != nil, "redis", deps.DB.Redis != nil, "nats", deps.DB.Nats != nil)
	return relay, nil
}

func healthChecks(deps Deps) map[string]handlers.Pinger {
	checks := map[string]handlers.Pinger{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := deps.DB.Postgres.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return deps.DB.Mongo.Ping(ctx, nil)
		},
	}
	if rdb := deps.DB.Redis; rdb != nil {
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	if nc := deps.DB.Nats; nc != nil {
		checks["nats"] = func(context.Context) error {
			if !nc.IsConnected() {
				return fmt.Errorf("nats status %s", nc.Status())
			}
			return nil
		}
	}
	return checks
}

// MetricsServer serves the Prometheus scrape endpoint on its own port.
func MetricsServer(port string, handler http.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)
	return &http.Server{Addr: ":" + port, Handler: mux}
}
