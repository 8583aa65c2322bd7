package evaluator

import (
	"context"
	"log"
	"math/rand"
	"time"

	"marketplace-scout/internal/models"
)

// Store is the slice of the listing store the pipeline needs.
type Store interface {
	ListDiscovered(limit int) ([]models.Listing, error)
	ApplyEvaluation(id uint, scores models.Scores, thumbnailHash *string) error
	MarkDuplicateGroups() (int64, error)
}

// RemoteScorer is the optional external scoring capability.
type RemoteScorer interface {
	Score(ctx context.Context, listing models.Listing) (models.Scores, error)
}

// Pipeline drains unevaluated listings from the store in small batches,
// scores them, and writes the result back. It is a polling design: the
// store has no change notification, so an empty queue means sleep and ask
// again.
type Pipeline struct {
	store     Store
	heuristic *HeuristicScorer
	remote    RemoteScorer // nil when running heuristic-only
	thumbs    *ThumbnailHasher

	batchSize int
	emptyWait time.Duration
	minDelay  time.Duration
	maxDelay  time.Duration

	rng       *rand.Rand
	evaluated int
}

type Options struct {
	BatchSize int
	EmptyWait time.Duration
	MinDelay  time.Duration
	MaxDelay  time.Duration
}

func NewPipeline(store Store, remote RemoteScorer, opts Options) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 5
	}
	if opts.EmptyWait <= 0 {
		opts.EmptyWait = 30 * time.Second
	}
	return &Pipeline{
		store:     store,
		heuristic: NewHeuristicScorer(),
		remote:    remote,
		thumbs:    NewThumbnailHasher(),
		batchSize: opts.BatchSize,
		emptyWait: opts.EmptyWait,
		minDelay:  opts.MinDelay,
		maxDelay:  opts.MaxDelay,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run processes batches until the context is cancelled. No single listing
// failure is fatal; errors are logged and the loop moves on after a short
// pause.
func (p *Pipeline) Run(ctx context.Context) {
	mode := "heuristic"
	if p.remote != nil {
		mode = "external (heuristic fallback)"
	}
	log.Printf("🤖 Evaluation pipeline started (batch %d, mode %s)", p.batchSize, mode)

	for {
		if ctx.Err() != nil {
			log.Printf("👋 Evaluation pipeline stopped (%d evaluated)", p.evaluated)
			return
		}

		listings, err := p.store.ListDiscovered(p.batchSize)
		if err != nil {
			log.Printf("⚠️  Store error: %v", err)
			sleepCtx(ctx, 10*time.Second)
			continue
		}
		if len(listings) == 0 {
			log.Printf("⏸️  No pending listings, waiting %v", p.emptyWait)
			sleepCtx(ctx, p.emptyWait)
			continue
		}

		for _, listing := range listings {
			if ctx.Err() != nil {
				break
			}
			if err := p.evaluateOne(ctx, listing); err != nil {
				log.Printf("⚠️  Evaluation failed for listing %d: %v", listing.ID, err)
				sleepCtx(ctx, 10*time.Second)
				continue
			}
			p.evaluated++
			// Randomized throttle: keeps external scorer traffic looking
			// human and rate-limit friendly.
			sleepCtx(ctx, p.interDelay())
		}

		if n, err := p.store.MarkDuplicateGroups(); err != nil {
			log.Printf("⚠️  Duplicate scan failed: %v", err)
		} else if n > 0 {
			log.Printf("♻️  Marked %d listings as thumbnail duplicates", n)
		}
	}
}

func (p *Pipeline) evaluateOne(ctx context.Context, listing models.Listing) error {
	log.Printf("📋 Evaluating: %s (%s, %s)", listing.Title, listing.Price, listing.Location)

	scores := p.score(ctx, listing)

	hash, err := p.thumbs.Hash(listing.ThumbnailURL)
	if err != nil {
		// The hash is optional; the evaluation still lands.
		log.Printf("   ⚠️  Thumbnail hash failed: %v", err)
		hash = nil
	}

	if err := p.store.ApplyEvaluation(listing.ID, scores, hash); err != nil {
		return err
	}

	log.Printf("   ✅ %s: flip=%d weird=%d scam=%d", scores.Source, scores.Flip, scores.Weirdness, scores.Scam)
	return nil
}

// score runs the configured scorer, falling back to the heuristic when the
// remote one fails. The heuristic cannot fail.
func (p *Pipeline) score(ctx context.Context, listing models.Listing) models.Scores {
	if p.remote != nil {
		scores, err := p.remote.Score(ctx, listing)
		if err == nil {
			return scores
		}
		log.Printf("   ⚠️  External scorer failed, using heuristic: %v", err)
	}
	return p.heuristic.Score(listing)
}

func (p *Pipeline) interDelay() time.Duration {
	if p.maxDelay <= p.minDelay {
		return p.minDelay
	}
	return p.minDelay + time.Duration(p.rng.Int63n(int64(p.maxDelay-p.minDelay)))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
