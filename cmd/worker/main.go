package main

import (
	"log"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"bookstore-backoffice/internal/config"
	"bookstore-backoffice/internal/infrastructure/events"
	"bookstore-backoffice/internal/shared"
	"bookstore-backoffice/pkg/logger"
)

// The worker consumes order change events enqueued by the API after each
// lifecycle commit.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Host,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Queue.Concurrency,
			Queues: map[string]int{
				shared.QueueDefault: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(shared.TypeOrderChanged, events.HandleOrderChanged)

	log.Printf("Worker starting (concurrency=%d)", cfg.Queue.Concurrency)

	if err := srv.Run(mux); err != nil {
		log.Fatalf("Failed to run worker: %v", err)
	}
}
