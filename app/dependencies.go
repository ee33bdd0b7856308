package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/upb/course-platform/backend/config"
	"github.com/upb/course-platform/backend/handlers"
	"github.com/upb/course-platform/backend/middleware"
	"github.com/upb/course-platform/backend/repositories"
	"github.com/upb/course-platform/backend/repositories/postgres"
	"github.com/upb/course-platform/backend/services/access"
	"github.com/upb/course-platform/backend/services/audit"
	"github.com/upb/course-platform/backend/services/courses"
	"github.com/upb/course-platform/backend/services/enrollment"
	"github.com/upb/course-platform/backend/services/ratelimit"
	"github.com/upb/course-platform/backend/services/users"
	"github.com/upb/course-platform/backend/tokens"
	"go.uber.org/zap"
)

// Dependencies holds all application dependencies.
// This is the central wiring point for dependency injection.
type Dependencies struct {
	// Infrastructure
	Config *config.Config
	DB     *postgres.DB
	Logger *zap.Logger

	RepoFactory *postgres.RepositoryFactory

	// Repositories
	Users       repositories.UserRepository
	Courses     repositories.CourseRepository
	Enrollments repositories.EnrollmentRepository
	AuditLogs   repositories.AuditRepository
	TxManager   repositories.TransactionManager

	// Services
	Tokens            *tokens.Issuer
	AccessService     *access.Service
	UserService       *users.Service
	CourseService     *courses.Service
	EnrollmentService *enrollment.Service
	AuditService      *audit.Service
	RateLimiter       *ratelimit.Service

	// Middleware
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware

	// Handlers
	HealthHandler     *handlers.HealthHandler
	AuthHandler       *handlers.AuthHandler
	UserHandler       *handlers.UserHandler
	CourseHandler     *handlers.CourseHandler
	EnrollmentHandler *handlers.EnrollmentHandler
	AuditHandler      *handlers.AuditHandler
}

// NewDependencies opens the database, bootstraps the schema when configured
// and wires every component on top of it.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Dependencies, error) {
	factory, err := postgres.NewRepositoryFactory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if cfg.Database.InitSchema {
		if err := factory.GetDB().InitSchema(ctx); err != nil {
			_ = factory.Close()
			return nil, fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	deps, err := NewDependenciesFromFactory(cfg, factory, logger)
	if err != nil {
		_ = factory.Close()
		return nil, err
	}

	logger.Info("all dependencies initialized successfully")
	return deps, nil
}

// NewDependenciesFromFactory wires repositories, services, middleware and
// handlers around an already opened database.
func NewDependenciesFromFactory(cfg *config.Config, factory *postgres.RepositoryFactory, logger *zap.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config:      cfg,
		Logger:      logger,
		RepoFactory: factory,
		DB:          factory.GetDB(),
	}

	deps.initRepositories()

	if err := deps.initServices(cfg); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	deps.initHTTP()

	return deps, nil
}

// initRepositories initializes all repository instances
func (d *Dependencies) initRepositories() {
	repos := d.RepoFactory.NewRepositories()

	d.Users = repos.Users
	d.Courses = repos.Courses
	d.Enrollments = repos.Enrollments
	d.AuditLogs = repos.AuditLogs
	d.TxManager = d.RepoFactory.GetTransactionManager()

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices(cfg *config.Config) error {
	issuer, err := tokens.NewIssuer(tokens.Config{
		Secret:    []byte(cfg.Auth.JWTSecret),
		Algorithm: cfg.Auth.JWTAlgorithm,
		TTL:       cfg.Auth.AccessTokenTTL,
		Issuer:    cfg.Auth.JWTIssuer,
	})
	if err != nil {
		return fmt.Errorf("failed to create token issuer: %w", err)
	}
	d.Tokens = issuer

	hasher := access.NewBcryptHasher(cfg.Auth.BcryptCost)

	d.AccessService = access.NewService(d.Users, issuer, hasher, d.Logger)
	d.UserService = users.NewService(d.Users, hasher, d.Logger)
	d.CourseService = courses.NewService(d.Courses, d.Logger)
	d.AuditService = audit.NewService(d.AuditLogs, d.Logger)
	d.EnrollmentService = enrollment.NewService(d.TxManager, d.Courses, d.Enrollments, d.AuditService, d.Logger)
	d.RateLimiter = ratelimit.NewService(d.DB.DB, d.Logger)

	d.Logger.Info("services initialized",
		zap.String("jwt_algorithm", cfg.Auth.JWTAlgorithm),
		zap.Duration("access_token_ttl", cfg.Auth.AccessTokenTTL))
	return nil
}

func (d *Dependencies) initHTTP() {
	d.AuthMiddleware = middleware.NewAuthMiddleware(d.AccessService, d.Logger)
	d.RateLimitMiddleware = middleware.NewRateLimitMiddleware(d.RateLimiter, d.Logger)

	d.HealthHandler = handlers.NewHealthHandler(d.DB, d.Logger)
	d.AuthHandler = handlers.NewAuthHandler(d.UserService, d.AccessService, d.Logger)
	d.UserHandler = handlers.NewUserHandler(d.UserService, d.Logger)
	d.CourseHandler = handlers.NewCourseHandler(d.CourseService, d.Logger)
	d.EnrollmentHandler = handlers.NewEnrollmentHandler(d.EnrollmentService, d.Logger)
	d.AuditHandler = handlers.NewAuditHandler(d.AuditService, d.Logger)
}

// StartBackgroundWorkers launches the rate limit cleanup worker. It stops when ctx is cancelled.
func (d *Dependencies) StartBackgroundWorkers(ctx context.Context) {
	rl := d.Config.RateLimit
	if !rl.Enabled {
		return
	}
	go d.RateLimiter.StartCleanupWorker(ctx, rl.CleanupInterval, rl.Retention)
}

// Close gracefully shuts down all dependencies
func (d *Dependencies) Close(ctx context.Context) error {
	d.Logger.Info("shutting down dependencies")

	var errs []error

	if d.RepoFactory != nil {
		if err := d.RepoFactory.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		} else {
			d.Logger.Info("database connection closed")
		}
	}

	_ = d.Logger.Sync()

	return errors.Join(errs...)
}
