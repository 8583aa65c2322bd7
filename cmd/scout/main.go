package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"marketplace-scout/internal/browser"
	"marketplace-scout/internal/config"
	"marketplace-scout/internal/database"
	"marketplace-scout/internal/discovery"
	"marketplace-scout/internal/presenter"
	"marketplace-scout/internal/store"

	"github.com/joho/godotenv"
)

var (
	startURL = flag.String("url", "", "marketplace page to open (overrides MARKETPLACE_URL)")
	headless = flag.Bool("headless", false, "run the browser without a window")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()
	if *startURL != "" {
		cfg.MarketplaceURL = *startURL
	}
	if *headless {
		cfg.Headless = true
	}

	db, err := database.Initialize(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	st := store.NewListingStore(db)

	session, err := browser.NewSession(cfg)
	if err != nil {
		log.Fatal("Failed to start browser:", err)
	}
	defer session.Close()

	log.Printf("🌐 Opening %s", cfg.MarketplaceURL)
	if err := session.Navigate(cfg.MarketplaceURL); err != nil {
		log.Fatal("Failed to open marketplace:", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Both loops share the one browser session: discovery reads the feed
	// the user is scrolling, the presenter decorates the listing they open.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		discovery.NewLoop(session, st, cfg.DiscoveryInterval).Run(ctx)
	}()
	go func() {
		defer wg.Done()
		presenter.NewLoop(session, st, cfg.PresentInterval).Run(ctx)
	}()

	log.Printf("✅ Scout running (PID: %d). Browse the marketplace; Ctrl+C to stop.", os.Getpid())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("🛑 Shutting down...")
	cancel()
	wg.Wait()
}
