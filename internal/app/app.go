package app

import (
	"context"
	"devpath_backend/internal/config"
	"devpath_backend/internal/controller"
	"devpath_backend/internal/repository"
	"devpath_backend/internal/service"
	"devpath_backend/pkg/database"
	"devpath_backend/pkg/logger"
	"devpath_backend/pkg/monitoring"
	"devpath_backend/pkg/security"
	"devpath_backend/pkg/tracing"
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
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB      // memory 驱动下为 nil
	Redis  *redis.Client // 未启用时为 nil
}

// stores 持久化能力的装配结果。引擎只见接口，
// 选择哪个后端在且仅在这里决定。
type stores struct {
	learners repository.LearnerStore
	topics   repository.TopicRepository
}

type services struct {
	learner    *service.LearnerService
	progress   *service.ProgressService
	content    *service.ContentService
	storage    *service.StorageService
	playground *service.PlaygroundService
}

type controllers struct {
	learner    *controller.LearnerController
	progress   *controller.ProgressController
	content    *controller.ContentController
	playground *controller.PlaygroundController
	health     *controller.HealthController
}

func (a *App) initStores(cfg *config.Config, db *gorm.DB) *stores {
	if cfg.Storage.Driver == "memory" {
		logger.Log.Warn("Using in-memory learner store, data will not survive restarts")
		return &stores{
			learners: repository.NewMemoryLearnerStore(),
			topics:   repository.NewMemoryTopicRepository(),
		}
	}
	return &stores{
		learners: repository.NewGormLearnerStore(db),
		topics:   repository.NewGormTopicRepository(db),
	}
}

func (a *App) initServices(st *stores, cfg *config.Config, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	return &services{
		learner:    service.NewLearnerService(st.learners),
		progress:   service.NewProgressService(st.learners),
		content:    service.NewContentService(st.topics, storage, rdb),
		storage:    storage,
		playground: service.NewPlaygroundService(&cfg.Runner),
	}, nil
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		learner:    controller.NewLearnerController(s.learner),
		progress:   controller.NewProgressController(s.progress),
		content:    controller.NewContentController(s.content),
		playground: controller.NewPlaygroundController(s.playground),
		health:     controller.NewHealthController(db),
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

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	var db *gorm.DB
	if cfg.Storage.Driver == "mysql" {
		var err error
		db, err = database.InitDB(&cfg.Database)
		if err != nil {
			logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		}
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		var err error
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	st := app.initStores(cfg, db)
	svcs, err := app.initServices(st, cfg, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("devpath-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls)

	if cfg.Assets.Type == "local" {
		router.Static("/assets", cfg.Assets.LocalPath)
	}

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

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
