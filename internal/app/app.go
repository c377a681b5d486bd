package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aelied/structureality-server/internal/config"
	"github.com/aelied/structureality-server/internal/controller"
	"github.com/aelied/structureality-server/internal/repository"
	"github.com/aelied/structureality-server/internal/service"
	"github.com/aelied/structureality-server/internal/util"
	"github.com/aelied/structureality-server/pkg/database"
	"github.com/aelied/structureality-server/pkg/logger"
	"github.com/aelied/structureality-server/pkg/monitoring"
	"github.com/aelied/structureality-server/pkg/security"
	"github.com/aelied/structureality-server/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config    *config.Config
	Router    *gin.Engine
	DB        *gorm.DB
	Redis     *redis.Client
	scheduler *gocron.Scheduler
	services  *services
}

type repositories struct {
	user     *repository.UserRepository
	lesson   *repository.LessonRepository
	quiz     *repository.QuizRepository
	scenario *repository.ScenarioRepository
}

type services struct {
	storage   *service.StorageService
	auth      *service.AuthService
	user      *service.UserService
	progress  *service.ProgressService
	content   *service.ContentService
	analytics *service.AnalyticsService
	tokens    service.TokenStore
}

type controllers struct {
	auth      *controller.AuthController
	user      *controller.UserController
	progress  *controller.ProgressController
	content   *controller.ContentController
	scenario  *controller.ScenarioController
	analytics *controller.AnalyticsController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		lesson:   repository.NewLessonRepository(db),
		quiz:     repository.NewQuizRepository(db),
		scenario: repository.NewScenarioRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)

	if cfg.Reset.Store == "redis" && a.Redis != nil {
		s.tokens = service.NewRedisTokenStore(a.Redis)
	} else {
		s.tokens = service.NewMemoryTokenStore()
	}

	s.auth = service.NewAuthService(repos.user, repos.lesson, s.tokens, service.LogNotifier{}, cfg.Reset.TokenTTL())
	s.user = service.NewUserService(repos.user)
	s.progress = service.NewProgressService(repos.user, repos.lesson)
	s.content = service.NewContentService(repos.lesson, repos.quiz, repos.scenario, s.storage)
	s.analytics = service.NewAnalyticsService(repos.user, repos.lesson)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, a.Config),
		user:      controller.NewUserController(s.user),
		progress:  controller.NewProgressController(s.progress),
		content:   controller.NewContentController(s.content),
		scenario:  controller.NewScenarioController(s.content),
		analytics: controller.NewAnalyticsController(s.analytics),
		health:    controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 周期性清理过期的重置令牌。
// Redis 存储依赖自身的过期机制，不需要清理任务。
func (a *App) startBackgroundTasks(s *services) {
	memStore, ok := s.tokens.(*service.MemoryTokenStore)
	if !ok {
		return
	}

	a.scheduler = gocron.NewScheduler(time.UTC)
	a.scheduler.Every(a.Config.Reset.SweepInterval()).Do(func() {
		if removed := memStore.Sweep(); removed > 0 {
			logger.Log.Debug("expired reset tokens removed", zap.Int("count", removed))
		}
	})
	a.scheduler.StartAsync()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}

	if cfg.Reset.Store == "redis" {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("structureality-server", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(services)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
