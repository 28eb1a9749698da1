package app

import (
	"context"
	"eunacom_backend/internal/config"
	"eunacom_backend/internal/controller"
	"eunacom_backend/internal/repository"
	"eunacom_backend/internal/service"
	"eunacom_backend/pkg/configwatcher"
	"eunacom_backend/pkg/database"
	"eunacom_backend/pkg/logger"
	"eunacom_backend/pkg/monitoring"
	"eunacom_backend/pkg/tracing"
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
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user      *repository.UserRepository
	variation *repository.VariationRepository
	sweep     *repository.SweepRepository
	queue     *repository.ReviewQueueRepository
	purchase  *repository.PurchaseRepository
	pkg       *repository.PackageRepository
	catalog   *repository.CatalogRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	backfill    *service.BackfillService
	reviewQueue *service.ReviewQueueService
	qaControl   *service.QAControlService
	sweepDoctor *service.SweepDoctorService
	entitlement *service.EntitlementService
	catalog     *service.CatalogService
	topic       *service.TopicService
}

type controllers struct {
	auth        *controller.AuthController
	health      *controller.HealthController
	reviewQueue *controller.ReviewQueueController
	qaControl   *controller.QAControlController
	payment     *controller.PaymentController
	pkg         *controller.PackageController
	topic       *controller.TopicController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:      repository.NewUserRepository(db),
		variation: repository.NewVariationRepository(db),
		sweep:     repository.NewSweepRepository(db),
		queue:     repository.NewReviewQueueRepository(db),
		purchase:  repository.NewPurchaseRepository(db),
		pkg:       repository.NewPackageRepository(db),
		catalog:   repository.NewCatalogRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*services, error) {
	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}

	s := &services{storage: storage}
	s.auth = service.NewAuthService(repos.user, cfg)
	s.backfill = service.NewBackfillService(repos.variation, repos.sweep)
	s.reviewQueue = service.NewReviewQueueService(repos.queue, db, rdb)
	s.qaControl = service.NewQAControlService(repos.variation, repos.sweep, repos.queue, rdb, cfg)
	s.sweepDoctor = service.NewSweepDoctorService(repos.sweep, repos.variation)
	s.entitlement = service.NewEntitlementService(repos.purchase, repos.pkg, repos.user)
	s.catalog = service.NewCatalogService(repos.pkg)
	s.topic = service.NewTopicService(repos.catalog, storage)
	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, cfg *config.Config) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		health:      controller.NewHealthController(db),
		reviewQueue: controller.NewReviewQueueController(s.reviewQueue),
		qaControl:   controller.NewQAControlController(s.qaControl, s.sweepDoctor, cfg),
		payment:     controller.NewPaymentController(s.entitlement),
		pkg:         controller.NewPackageController(s.catalog),
		topic:       controller.NewTopicController(s.topic),
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to run database migration", zap.Error(err))
		}
		logger.Log.Info("Database migration completed")
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services, err := app.initServices(repos, cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to initialize services", zap.Error(err))
	}
	controllers := app.initControllers(services, db, cfg)

	if err := services.catalog.SeedDefaults(); err != nil {
		logger.Log.Fatal("Failed to seed package catalog", zap.Error(err))
	}

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("eunacom-admin", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	// Hot-reload: the rate limiter, the dashboard cache TTL and the sweep
	// doctor threshold all read cfg on each request, so swapping these
	// sections is enough. The rest of the config is startup-only.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(raw interface{}) {
		fresh, ok := raw.(*config.Config)
		if !ok {
			return
		}
		app.Config.QA = fresh.QA
		app.Config.RateLimit = fresh.RateLimit
		logger.Log.Info("Configuration reloaded")
	})

	if cfg.Storage.Type == "local" && cfg.Storage.LocalPath != "" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
		router.Static("/uploads", cfg.Storage.LocalPath)
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
