package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"marketplace-scout/internal/config"
	"marketplace-scout/internal/database"
	"marketplace-scout/internal/evaluator"
	"marketplace-scout/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	st := store.NewListingStore(db)

	var remote evaluator.RemoteScorer
	if cfg.ScorerMode == config.ScorerExternal {
		remote = evaluator.NewExternalScorer(cfg.ScorerURL, cfg.ScorerAPIKey)
	}

	pipeline := evaluator.NewPipeline(st, remote, evaluator.Options{
		BatchSize: cfg.EvalBatchSize,
		EmptyWait: cfg.EvalEmptyWait,
		MinDelay:  cfg.EvalMinDelay,
		MaxDelay:  cfg.EvalMaxDelay,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		log.Println("🛑 Shutting down...")
		cancel()
	}()

	pipeline.Run(ctx)
}
