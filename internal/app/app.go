package app

import (
	"agent_academy_backend/internal/config"
	"agent_academy_backend/internal/controller"
	"agent_academy_backend/internal/repository"
	"agent_academy_backend/internal/service"
	"agent_academy_backend/pkg/database"
	"agent_academy_backend/pkg/logger"
	"agent_academy_backend/pkg/monitoring"
	"agent_academy_backend/pkg/security"
	"agent_academy_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	challenge    *repository.ChallengeRepository
	session      *repository.SessionRepository
	submission   *repository.SubmissionRepository
	progress     *repository.ProgressRepository
	achievement  *repository.AchievementRepository
	conversation *repository.ConversationRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	challenge   *service.ChallengeService
	progress    *service.ProgressService
	achievement *service.AchievementService
	tutor       *service.TutorService
}

type controllers struct {
	auth        *controller.AuthController
	challenge   *controller.ChallengeController
	achievement *controller.AchievementController
	tutor       *controller.TutorController
	health      *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig propagates a hot-reloaded config to registered listeners.
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Configuration reloaded")
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		challenge:    repository.NewChallengeRepository(db),
		session:      repository.NewSessionRepository(db),
		submission:   repository.NewSubmissionRepository(db),
		progress:     repository.NewProgressRepository(db, rdb),
		achievement:  repository.NewAchievementRepository(db),
		conversation: repository.NewConversationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg.Storage)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.challenge = service.NewChallengeService(repos.challenge, repos.session)
	s.progress = service.NewProgressService(db, repos.progress, repos.achievement, s.storage)
	s.achievement = service.NewAchievementService(repos.achievement, repos.progress, repos.user)
	s.tutor = service.NewTutorService(repos.conversation, service.NewResponder(cfg.AI), cfg.AI)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		challenge:   controller.NewChallengeController(s.challenge, s.progress),
		achievement: controller.NewAchievementController(s.achievement, s.progress),
		tutor:       controller.NewTutorController(s.tutor),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 600
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// The leaderboard cache degrades to database reads without redis.
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Warn("Redis unavailable, leaderboard will read from the database", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("agent-academy", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
