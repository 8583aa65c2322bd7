package browser

import (
	"context"
	"fmt"
	"time"

	"marketplace-scout/internal/config"

	"github.com/chromedp/chromedp"
)

// RawCard is one listing card as pulled off the page: the link, the
// thumbnail, and the card's visible text. Field meaning is recovered later
// by ParseCard; the extraction itself assumes nothing about markup beyond
// "a card is whatever surrounds a link containing the item-path marker".
type RawCard struct {
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail"`
	Text      string `json:"text"`
}

// Session owns one Chrome tab. Both the discovery loop and the presentation
// sync read from it; all calls carry their own timeout so a hung page
// degrades to a skipped tick instead of a stuck loop.
type Session struct {
	ctx     context.Context
	cancel  context.CancelFunc
	timeout time.Duration
}

func NewSession(cfg *config.Config) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-session-crashed-bubble", true),
		chromedp.Flag("disable-infobars", true),
		chromedp.WindowSize(1920, 1080),
	)
	if cfg.UserDataDir != "" {
		// Persistent profile keeps the marketplace session logged in
		// between runs.
		opts = append(opts, chromedp.UserDataDir(cfg.UserDataDir))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	// Materialize the browser before any loop starts.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	cancel := func() {
		cancelCtx()
		cancelAlloc()
	}
	return &Session{ctx: ctx, cancel: cancel, timeout: 15 * time.Second}, nil
}

func (s *Session) Close() {
	s.cancel()
}

func (s *Session) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate opens a page and gives client-side rendering a moment to settle.
func (s *Session) Navigate(url string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 45*time.Second)
	defer cancel()
	return chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.Sleep(4*time.Second),
	)
}

// CurrentURL returns the tab's current navigation target.
func (s *Session) CurrentURL() (string, error) {
	var url string
	if err := s.run(chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read current url: %w", err)
	}
	return url, nil
}

// ExtractCards pulls the currently rendered set of listing cards. Cards are
// located purely by their item link; everything else is best-effort.
func (s *Session) ExtractCards() ([]RawCard, error) {
	var cards []RawCard
	js := fmt.Sprintf(`
		(function() {
			var cards = [];
			var seen = {};
			document.querySelectorAll('a[href*=%q]').forEach(function(link) {
				var href = link.href;
				if (!href || seen[href]) return;
				seen[href] = true;

				var card = link.closest('div[role="article"]') || link.parentElement || link;
				var img = card.querySelector('img');
				cards.push({
					url: href,
					thumbnail: img ? (img.src || '') : '',
					text: (card.innerText || '').trim()
				});
			});
			return cards;
		})()
	`, ItemPathMarker)

	if err := s.run(chromedp.Evaluate(js, &cards)); err != nil {
		return nil, fmt.Errorf("extract cards: %w", err)
	}
	return cards, nil
}

// ExpandDescription clicks the page's "See more" link when present so the
// full description is in the DOM before extraction.
func (s *Session) ExpandDescription() {
	var clicked bool
	_ = s.run(chromedp.Evaluate(`
		(function() {
			var elements = Array.from(document.querySelectorAll('div, span, a'));
			for (var i = 0; i < elements.length; i++) {
				var el = elements[i];
				var text = (el.textContent || '').trim();
				if (text === 'See more' || text === 'See More') {
					var style = window.getComputedStyle(el);
					if (style.cursor === 'pointer' || el.tagName === 'A' || el.onclick) {
						el.click();
						return true;
					}
				}
			}
			return false;
		})()
	`, &clicked))
	if clicked {
		_ = s.run(chromedp.Sleep(time.Second))
	}
}

// ReadTextBlocks returns the page's candidate text blocks for description
// extraction: every element text between 30 and 3000 characters, scored
// server-side by SelectDescription.
func (s *Session) ReadTextBlocks() ([]string, error) {
	var blocks []string
	err := s.run(chromedp.Evaluate(`
		(function() {
			var out = [];
			document.querySelectorAll('div, span').forEach(function(el) {
				var text = (el.textContent || '').trim();
				var rect = el.getBoundingClientRect();
				if (text.length >= 30 && text.length <= 3000 && rect.top > 100) {
					var childCount = el.querySelectorAll('*').length;
					if (childCount <= 5) {
						out.push(text);
					}
				}
			});
			return out;
		})()
	`, &blocks))
	if err != nil {
		return nil, fmt.Errorf("read text blocks: %w", err)
	}
	return blocks, nil
}

// Eval runs an arbitrary page script; used by the presenter for injection.
func (s *Session) Eval(js string) error {
	var discard interface{}
	if err := s.run(chromedp.Evaluate(js, &discard)); err != nil {
		return fmt.Errorf("page script: %w", err)
	}
	return nil
}
