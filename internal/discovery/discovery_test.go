package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"marketplace-scout/internal/browser"
	"marketplace-scout/internal/models"
)

type fakeCards struct {
	mu    sync.Mutex
	cards []browser.RawCard
}

func (f *fakeCards) ExtractCards() ([]browser.RawCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]browser.RawCard, len(f.cards))
	copy(out, f.cards)
	return out, nil
}

type fakeInserter struct {
	mu      sync.Mutex
	calls   map[string]int
	nextID  uint
	failURL string
}

func newFakeInserter() *fakeInserter {
	return &fakeInserter{calls: make(map[string]int)}
}

func (f *fakeInserter) InsertIfAbsent(raw models.RawListing, canonicalURL string) (uint, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if canonicalURL == f.failURL {
		return 0, false, errors.New("db down")
	}
	f.calls[canonicalURL]++
	if f.calls[canonicalURL] > 1 {
		return 0, false, nil
	}
	f.nextID++
	return f.nextID, true, nil
}

func (f *fakeInserter) callCount(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func runLoop(t *testing.T, cards *fakeCards, ins *fakeInserter, d time.Duration) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	NewLoop(cards, ins, 2*time.Millisecond).Run(ctx)
}

func TestDiscoveryInsertsNewCardsOnce(t *testing.T) {
	cards := &fakeCards{cards: []browser.RawCard{
		{URL: "https://example.com/marketplace/item/1?ref=feed", Text: "$10\nLamp\nHartford, CT"},
		{URL: "https://example.com/marketplace/item/2", Text: "$20\nChair\nBristol, CT"},
	}}
	ins := newFakeInserter()

	runLoop(t, cards, ins, 50*time.Millisecond)

	// Many ticks saw the same cards; the seen-set keeps it to one store
	// call each, with tracking params stripped.
	for _, url := range []string{
		"https://example.com/marketplace/item/1",
		"https://example.com/marketplace/item/2",
	} {
		if got := ins.callCount(url); got != 1 {
			t.Errorf("InsertIfAbsent(%s) called %d times, want 1", url, got)
		}
	}
}

func TestDiscoverySkipsUnparseableCards(t *testing.T) {
	cards := &fakeCards{cards: []browser.RawCard{
		{URL: "https://example.com/groups/99", Text: "$10\nNot a listing"},
		{URL: ""},
	}}
	ins := newFakeInserter()

	runLoop(t, cards, ins, 20*time.Millisecond)

	ins.mu.Lock()
	defer ins.mu.Unlock()
	if len(ins.calls) != 0 {
		t.Errorf("store called for unparseable cards: %v", ins.calls)
	}
}

func TestDiscoveryRetriesAfterInsertError(t *testing.T) {
	const url = "https://example.com/marketplace/item/3"
	cards := &fakeCards{cards: []browser.RawCard{
		{URL: url, Text: "$30\nDesk\nNew Haven, CT"},
	}}
	ins := newFakeInserter()
	ins.failURL = url

	loop := NewLoop(cards, ins, 2*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() { loop.Run(ctx); close(done) }()

	// Let a few failing ticks pass, then heal the store.
	time.Sleep(20 * time.Millisecond)
	ins.mu.Lock()
	ins.failURL = ""
	ins.mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	cancel()
	<-done

	if got := ins.callCount(url); got != 1 {
		t.Errorf("InsertIfAbsent(%s) succeeded %d times, want 1", url, got)
	}
}
