package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"creator-dashboard/internal/config"
	infraCache "creator-dashboard/internal/infrastructure/cache"
	"creator-dashboard/internal/infrastructure/database"
	"creator-dashboard/internal/infrastructure/storage"
	"creator-dashboard/internal/instagram"
	"creator-dashboard/pkg/cache"

	analyticsHandler "creator-dashboard/internal/domains/analytics/handler"
	analyticsRepo "creator-dashboard/internal/domains/analytics/repository"
	analyticsService "creator-dashboard/internal/domains/analytics/service"
	creatorHandler "creator-dashboard/internal/domains/creator/handler"
	creatorRepo "creator-dashboard/internal/domains/creator/repository"
	creatorService "creator-dashboard/internal/domains/creator/service"
	scrapeHandler "creator-dashboard/internal/domains/scrape/handler"
	scrapeRepo "creator-dashboard/internal/domains/scrape/repository"
	scrapeService "creator-dashboard/internal/domains/scrape/service"
	sessionHandler "creator-dashboard/internal/domains/session/handler"
	sessionRepo "creator-dashboard/internal/domains/session/repository"
	sessionService "creator-dashboard/internal/domains/session/service"
)

// Container holds every dependency of the application. Initialization
// order matters: config, infrastructure, repositories, services,
// handlers.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *infraCache.RedisClient
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client
	Instagram   *instagram.Client

	CreatorRepo   creatorRepo.Repository
	ScrapeRepo    scrapeRepo.Repository
	SessionRepo   sessionRepo.Repository
	AnalyticsRepo analyticsRepo.Repository

	CreatorService   creatorService.ServiceInterface
	ScrapeService    scrapeService.ServiceInterface
	SessionService   sessionService.ServiceInterface
	AnalyticsService analyticsService.ServiceInterface

	// Core components, exposed for the worker.
	Importer *creatorService.Importer
	Deduper  *creatorService.Deduper

	CreatorHandler   *creatorHandler.Handler
	ScrapeHandler    *scrapeHandler.Handler
	SessionHandler   *sessionHandler.Handler
	AnalyticsHandler *analyticsHandler.Handler
}

func NewContainer() (*Container, error) {
	log.Println("🔧 Initializing DI Container...")

	c := &Container{}

	// Step 1: configuration
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("✅ Config loaded (Environment: %s)", cfg.App.Environment)

	// Step 2: database
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db
	log.Println("✅ Database connected")

	// Step 3: redis (cache + asynq broker)
	c.RedisClient = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.RedisClient.Connect(context.Background()); err != nil {
		// The cache degrades gracefully, but asynq needs Redis.
		log.Printf("⚠️  Redis connection failed: %v", err)
	} else {
		log.Println("✅ Redis connected")
	}
	c.Cache = infraCache.NewRedisCache(c.RedisClient.Client)

	c.AsynqClient = asynq.NewClient(asynq.RedisClientOpt{
		Addr:     cfg.Redis.Host,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Step 4: object storage (optional - only needed when mirroring
	// profile pictures)
	if cfg.Instagram.MirrorPictures {
		minioStorage, err := storage.NewMinIOStorage(cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to init minio storage: %w", err)
		}
		c.Storage = minioStorage
		log.Println("✅ MinIO storage ready")
	}

	// Step 5: external clients
	c.Instagram = instagram.NewClient(
		cfg.Instagram.BaseURL,
		time.Duration(cfg.Instagram.TimeoutSeconds)*time.Second,
	)

	// Step 6: repositories
	c.CreatorRepo = creatorRepo.NewPostgresRepository(db.Pool, c.Cache)
	c.ScrapeRepo = scrapeRepo.NewPostgresRepository(db.Pool)
	c.SessionRepo = sessionRepo.NewPostgresRepository(db.Pool)
	c.AnalyticsRepo = analyticsRepo.NewPostgresRepository(db.Pool)
	log.Println("✅ Repositories initialized")

	// Step 7: services
	normalizer := creatorService.NewNormalizer()
	c.Importer = creatorService.NewImporter(c.CreatorRepo, normalizer, cfg.Import.BatchSize)
	c.Deduper = creatorService.NewDeduper(c.CreatorRepo)
	exporter := creatorService.NewExporter()

	c.CreatorService = creatorService.NewService(c.CreatorRepo, c.Importer, c.Deduper, exporter)
	c.SessionService = sessionService.NewService(c.SessionRepo)
	c.ScrapeService = scrapeService.NewService(
		c.ScrapeRepo,
		c.CreatorRepo,
		c.SessionService,
		c.Instagram,
		c.AsynqClient,
		cfg.Instagram.DefaultLimit,
		cfg.Instagram.MirrorPictures,
	)
	c.AnalyticsService = analyticsService.NewService(c.AnalyticsRepo, c.CreatorRepo, c.SessionRepo, c.ScrapeRepo)
	log.Println("✅ Services initialized")

	// Step 8: handlers
	c.CreatorHandler = creatorHandler.NewHandler(c.CreatorService)
	c.ScrapeHandler = scrapeHandler.NewHandler(c.ScrapeService)
	c.SessionHandler = sessionHandler.NewHandler(c.SessionService)
	c.AnalyticsHandler = analyticsHandler.NewHandler(c.AnalyticsService)
	log.Println("✅ Handlers initialized")

	log.Println("🎉 Container ready")
	return c, nil
}

// Cleanup releases infrastructure connections, in reverse init order.
func (c *Container) Cleanup() {
	log.Println("🧹 Cleaning up container...")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Printf("⚠️  Asynq client close failed: %v", err)
		}
	}
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}

	log.Println("✅ Cleanup complete")
}
