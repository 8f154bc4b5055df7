package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	scrapeJob "creator-dashboard/internal/domains/scrape/job"
	"creator-dashboard/internal/shared"
	"creator-dashboard/pkg/container"
	"creator-dashboard/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatalf("❌ Failed to initialize container: %v", err)
	}
	defer c.Cleanup()

	logger.Init(c.Config.App.Environment)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     c.Config.Redis.Host,
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		},
		asynq.Config{
			Concurrency: 20,
			Queues: map[string]int{
				"high":    20,
				"default": 10,
				"low":     5,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.Handle(shared.TypeScrapeSearch, scrapeJob.NewScrapeSearchHandler(c.ScrapeService))

	// Picture mirroring only runs when object storage is configured.
	if c.Storage != nil {
		mux.Handle(shared.TypeMirrorPicture, scrapeJob.NewMirrorPictureHandler(
			c.CreatorRepo,
			c.Instagram,
			c.Storage,
		))
	}

	if err := srv.Start(mux); err != nil {
		log.Fatalf("❌ Failed to start worker: %v", err)
	}
	log.Println("🚀 Worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Gracefully stopping worker...")
	srv.Shutdown()
	log.Println("✅ Worker stopped")
}
