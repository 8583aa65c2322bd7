package discovery

import (
	"context"
	"log"
	"time"

	"marketplace-scout/internal/browser"
	"marketplace-scout/internal/models"
)

// CardSource is the slice of the browser session the loop needs.
type CardSource interface {
	ExtractCards() ([]browser.RawCard, error)
}

// Inserter is the slice of the listing store the loop needs.
type Inserter interface {
	InsertIfAbsent(raw models.RawListing, canonicalURL string) (uint, bool, error)
}

// Loop polls the browser session for visible listing cards and feeds new
// ones into the store. It never talks to the other loops; the store's
// insert-if-absent is the only hand-off.
type Loop struct {
	cards    CardSource
	store    Inserter
	interval time.Duration

	// seen avoids re-hitting the store for cards that stay rendered
	// across ticks. Process-local only; the unique index is the real
	// dedup.
	seen map[string]bool

	inserted int
}

func NewLoop(cards CardSource, store Inserter, interval time.Duration) *Loop {
	return &Loop{
		cards:    cards,
		store:    store,
		interval: interval,
		seen:     make(map[string]bool),
	}
}

// Run scans until the context is cancelled. Per-card failures are logged
// and skipped; nothing here is fatal.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("👀 Discovery loop started (interval %v)", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("👋 Discovery loop stopped (%d listings saved)", l.inserted)
			return
		case <-ticker.C:
			if err := l.scan(); err != nil {
				log.Printf("⚠️  Discovery scan error: %v", err)
				sleepCtx(ctx, 5*time.Second)
			}
		}
	}
}

func (l *Loop) scan() error {
	cards, err := l.cards.ExtractCards()
	if err != nil {
		return err
	}

	for _, card := range cards {
		raw := browser.ParseCard(card)
		if raw == nil {
			continue
		}

		canonical := browser.CanonicalURL(raw.ListingURL)
		if l.seen[canonical] {
			continue
		}
		l.seen[canonical] = true

		id, inserted, err := l.store.InsertIfAbsent(*raw, canonical)
		if err != nil {
			// Allow a retry on a later tick.
			delete(l.seen, canonical)
			log.Printf("⚠️  Insert failed for %s: %v", canonical, err)
			continue
		}
		if inserted {
			l.inserted++
			log.Printf("📦 [%d] %s - %s (id=%d)", l.inserted, raw.Title, raw.Price, id)
		}
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
