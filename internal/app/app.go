package app

import (
	"context"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/controller"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/service"
	"exam_portal_backend/pkg/database"
	"exam_portal_backend/pkg/logger"
	"exam_portal_backend/pkg/monitoring"
	"exam_portal_backend/pkg/security"
	"exam_portal_backend/pkg/tracing"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracer          *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	course   *repository.CourseRepository
	question *repository.QuestionRepository
	exam     *repository.ExamRepository
	result   *repository.ResultRepository
	appeal   *repository.AppealRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	course   *service.CourseService
	question *service.QuestionService
	exam     *service.ExamService
	result   *service.ResultService
	appeal   *service.AppealService
	storage  *service.StorageService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	course   *controller.CourseController
	question *controller.QuestionController
	exam     *controller.ExamController
	result   *controller.ResultController
	appeal   *controller.AppealController
	health   *controller.HealthController
}

// RegisterConfigCallback subscribes to hot reloads of the config file.
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig fans a freshly loaded config out to the subscribers.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		course:   repository.NewCourseRepository(db),
		question: repository.NewQuestionRepository(db),
		exam:     repository.NewExamRepository(db),
		result:   repository.NewResultRepository(db),
		appeal:   repository.NewAppealRepository(db),
	}
}

// newExamLocker picks the redis lock when redis is up so several instances
// can share the database.
func newExamLocker(cfg *config.Config, rdb *redis.Client) service.ExamLocker {
	if rdb != nil {
		ttl := time.Duration(cfg.Redis.LockTTLSeconds) * time.Second
		logger.Log.Info("Using redis exam lock", zap.Duration("ttl", ttl))
		return service.NewRedisExamLocker(rdb, ttl)
	}
	return service.NewLocalExamLocker()
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, storage *service.StorageService, locker service.ExamLocker) *services {
	s := &services{storage: storage}

	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.course = service.NewCourseService(repos.course)
	s.question = service.NewQuestionService(repos.question, repos.exam)
	s.exam = service.NewExamService(repos.exam, repos.question, repos.course, repos.result, locker)
	s.appeal = service.NewAppealService(repos.appeal, repos.result, repos.exam)
	s.result = service.NewResultService(
		db,
		repos.exam,
		repos.result,
		repos.user,
		repos.question,
		repos.appeal,
		storage,
		locker,
		&cfg.Result,
	)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user),
		course:   controller.NewCourseController(s.course),
		question: controller.NewQuestionController(s.question),
		exam:     controller.NewExamController(s.exam, s.result, s.appeal),
		result:   controller.NewResultController(s.result),
		appeal:   controller.NewAppealController(s.appeal),
		health:   controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, "/metrics", "/api/health"))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp wires the application. With cfg.MigrateOnly it stops after the
// schema migration and returns an App without a router.
func NewApp(cfg *config.Config) (*App, error) {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	app := &App{Config: cfg, DB: db}
	if cfg.MigrateOnly {
		return app, nil
	}

	// 1. infrastructure
	if cfg.Redis.Enabled {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("initialize redis: %w", err)
		}
		app.Redis = rdb
	}

	storage, err := service.NewStorageService(context.Background(), &cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}

	// 2. layers
	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, storage, newExamLocker(cfg, app.Redis))
	controllers := app.initControllers(services)

	if err := services.user.EnsureAdmin(context.Background(), cfg.Admin.Username, cfg.Admin.Password); err != nil {
		return nil, fmt.Errorf("seed admin: %w", err)
	}

	// 3. hot reload subscribers
	app.RegisterConfigCallback(logger.ReloadLevel)
	app.RegisterConfigCallback(services.result.ReloadConfig)

	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	// 4. http
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	return app, nil
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Close(ctx)

	logger.Log.Info("Server exiting")
}

// Close releases the tracer, redis and database handles.
func (a *App) Close(ctx context.Context) {
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
