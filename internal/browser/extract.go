package browser

import (
	"regexp"
	"strings"

	"marketplace-scout/internal/models"
)

var pricePattern = regexp.MustCompile(`^(Free|\$[\d,]+(\.\d{2})?)`)

// ParseCard recovers listing fields from a card's visible text. The text is
// line-oriented: a price line, a title line, and usually the location last,
// with the seller just before it on richer cards. Returns nil when the card
// yields nothing usable; that is an everyday outcome, not an error.
func ParseCard(card RawCard) *models.RawListing {
	if card.URL == "" || !strings.Contains(card.URL, ItemPathMarker) {
		return nil
	}

	raw := &models.RawListing{
		ListingURL:   card.URL,
		ThumbnailURL: card.Thumbnail,
	}

	var lines []string
	for _, line := range strings.Split(card.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		// A bare link with no text still identifies a listing.
		return raw
	}

	rest := lines
	if pricePattern.MatchString(rest[0]) {
		raw.Price = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		raw.Title = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		raw.Location = rest[len(rest)-1]
		if len(rest) >= 2 {
			raw.SellerName = rest[len(rest)-2]
		}
	}

	if raw.Title == "" && raw.Price == "" {
		return nil
	}
	return raw
}

// Boilerplate the marketplace injects around every listing; any block
// containing one of these is UI chrome, not a description.
var boilerplatePhrases = []string{
	"Send seller",
	"Save to",
	"Message seller",
	"Hello, is this still available?",
	"Is this available?",
	"Ask for details",
	"Make offer",
	"You can negotiate",
	"Marketplace",
	"Notifications",
}

var metaLinePattern = regexp.MustCompile(`^(\d+ (people|views|saves)|Listed \d+ (day|hour|minute|week)s? ago)`)

// SelectDescription picks the most plausible description out of the page's
// candidate text blocks: 30-2000 characters, free of known boilerplate, not
// self-repeating, longest wins. Returns "" when nothing qualifies.
func SelectDescription(blocks []string) string {
	best := ""
	for _, text := range blocks {
		text = strings.TrimSpace(text)
		if len(text) < 30 || len(text) > 2000 {
			continue
		}
		if metaLinePattern.MatchString(text) {
			continue
		}
		if containsBoilerplate(text) {
			continue
		}
		// The page sometimes doubles a block's text when nesting
		// elements; a block whose first half equals its second half is
		// one of those.
		half := len(text) / 2
		if half > 20 && text[:half] == text[half:] {
			continue
		}
		if len(text) > len(best) {
			best = text
		}
	}
	return best
}

func containsBoilerplate(text string) bool {
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
