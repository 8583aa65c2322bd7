// Package presenter mirrors stored evaluation results onto the page the
// browser is currently showing. It reads scores from the store and never
// writes anything back.
package presenter

import (
	"context"
	"log"
	"time"

	"marketplace-scout/internal/browser"
	"marketplace-scout/internal/models"
)

// PageSession is the slice of the browser session the loop needs.
type PageSession interface {
	CurrentURL() (string, error)
	ExpandDescription()
	ReadTextBlocks() ([]string, error)
	Eval(js string) error
}

// ScoreSource looks up a listing by the item id fragment of its URL.
type ScoreSource interface {
	FindByURLFragment(fragment string) (*models.Listing, error)
}

// Loop polls the browser's location and keeps the overlay in sync with it.
type Loop struct {
	session  PageSession
	store    ScoreSource
	interval time.Duration

	lastItem      string
	lastEvaluated bool
}

func NewLoop(session PageSession, store ScoreSource, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = time.Second
	}
	return &Loop{session: session, store: store, interval: interval}
}

// Run polls until ctx is cancelled. Each tick is independent; a failed tick
// is logged and retried on the next one.
func (l *Loop) Run(ctx context.Context) {
	log.Printf("🎨 Presenter started (every %s)", l.interval)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := l.tick(); err != nil {
				log.Printf("⚠️ Presenter: %v", err)
			}
		}
	}
}

func (l *Loop) tick() error {
	url, err := l.session.CurrentURL()
	if err != nil {
		return err
	}

	itemID, ok := browser.ItemID(url)
	if !ok {
		// Off a listing page: tear the panel down once.
		if l.lastItem != "" {
			l.lastItem = ""
			l.lastEvaluated = false
			return l.session.Eval(RemoveScript())
		}
		return nil
	}

	// Same listing, already showing scores: nothing to do. A pending panel
	// keeps re-checking so it upgrades as soon as the evaluation lands.
	if itemID == l.lastItem && l.lastEvaluated {
		return nil
	}

	listing, err := l.store.FindByURLFragment(itemID)
	if err != nil {
		return err
	}

	if listing == nil || !listing.IsEvaluated() {
		if itemID == l.lastItem {
			return nil // pending panel already up
		}
		if err := l.session.Eval(InjectScript(BuildPendingPanel())); err != nil {
			return err
		}
		l.lastItem = itemID
		l.lastEvaluated = false
		log.Printf("⏳ Showing pending panel for item %s", itemID)
		return nil
	}

	description := l.readDescription()
	if err := l.session.Eval(InjectScript(BuildPanel(listing, description))); err != nil {
		return err
	}
	l.lastItem = itemID
	l.lastEvaluated = true
	log.Printf("🎨 Rendered scores for %q (flip=%d weird=%d scam=%d)",
		listing.Title, deref(listing.FlipScore), deref(listing.WeirdnessScore), deref(listing.ScamLikelihood))
	return nil
}

// readDescription is best-effort: any failure just means the panel goes up
// without a description section.
func (l *Loop) readDescription() string {
	l.session.ExpandDescription()
	blocks, err := l.session.ReadTextBlocks()
	if err != nil {
		return ""
	}
	return browser.SelectDescription(blocks)
}
