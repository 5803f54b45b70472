package app

import (
	"context"
	"farsihub_backend/internal/config"
	"farsihub_backend/internal/controller"
	"farsihub_backend/internal/repository"
	"farsihub_backend/internal/service"
	"farsihub_backend/internal/util"
	"farsihub_backend/pkg/configwatcher"
	"farsihub_backend/pkg/database"
	"farsihub_backend/pkg/logger"
	"farsihub_backend/pkg/monitoring"
	"farsihub_backend/pkg/security"
	"farsihub_backend/pkg/tracing"
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
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	lecture    *repository.LectureRepository
	quiz       *repository.QuizRepository
	submission *repository.SubmissionRepository
}

type services struct {
	storage    *service.StorageService
	auth       *service.AuthService
	sessionHub *service.SessionHub
	session    *service.SessionService
	user       *service.UserService
	lecture    *service.LectureService
	quiz       *service.QuizService
}

type controllers struct {
	auth       *controller.AuthController
	session    *controller.SessionController
	user       *controller.UserController
	lecture    *controller.LectureController
	quiz       *controller.QuizController
	submission *controller.SubmissionController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		lecture:    repository.NewLectureRepository(db),
		quiz:       repository.NewQuizRepository(db),
		submission: repository.NewSubmissionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)

	s.sessionHub = service.NewSessionHub(rdb)
	s.sessionHub.Run()

	s.session = service.NewSessionService(repos.user, rdb, s.sessionHub)
	s.user = service.NewUserService(repos.user, s.storage, s.session)
	s.lecture = service.NewLectureService(repos.lecture, s.storage)
	s.quiz = service.NewQuizService(repos.quiz, repos.lecture, repos.submission, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.session),
		session:    controller.NewSessionController(s.session, s.sessionHub),
		user:       controller.NewUserController(s.user),
		lecture:    controller.NewLectureController(s.lecture, s.quiz),
		quiz:       controller.NewQuizController(s.quiz),
		submission: controller.NewSubmissionController(s.quiz),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 10000
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

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	// Denied operations land in the log and the denial counter with their
	// full context; the client only ever sees a plain 403.
	util.SetPermissionSink(func(perr *util.PermissionError) {
		logger.Log.Warn("Permission denied",
			zap.String("operation", perr.Op),
			zap.String("path", perr.Path),
			zap.Any("payload", perr.Payload))
		monitoring.PermissionDenialCounter.WithLabelValues(perr.Op).Inc()
	})

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("farsihub", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		app.Config = reloaded
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
		logger.Log.Info("Config reloaded")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:         ":" + a.Config.Server.Port,
		Handler:      a.Router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
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

	if a.services != nil && a.services.sessionHub != nil {
		a.services.sessionHub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
