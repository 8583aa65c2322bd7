package evaluator

import (
	"strconv"
	"strings"

	"marketplace-scout/internal/models"
)

// Base scores before any rule fires. The exact numbers are tuning, not
// contract; the clamped [1,10] range is the contract.
const (
	baseFlip  = 5
	baseWeird = 3
	baseScam  = 2
)

// KeywordRule adds fixed deltas when any of its keywords appears in the
// combined title/location text.
type KeywordRule struct {
	Keywords []string
	Flip     int
	Weird    int
	Scam     int
	Note     string
}

// PriceRule adds fixed deltas when the parsed price falls inside
// [Min, Max). Max <= 0 means unbounded.
type PriceRule struct {
	Min, Max float64
	Flip     int
	Scam     int
	Note     string
	// SkipFree suppresses the rule when the listing is explicitly free.
	SkipFree bool
	// Keywords, when set, additionally require a keyword hit.
	Keywords []string
}

// DefaultKeywordRules is the stock rule table. Deltas are additive and the
// final scores are clamped, so stacking rules saturates instead of
// overflowing.
var DefaultKeywordRules = []KeywordRule{
	{Keywords: []string{"vintage", "antique", "rare", "estate"}, Flip: 2, Weird: 1, Note: "Vintage/rare - research sold comps"},
	{Keywords: []string{"bulk", "lot of", "collection"}, Flip: 1, Note: "Bulk lot - per-item resale"},
	{Keywords: []string{"free", "obo"}, Flip: 2, Note: "Negotiable/free"},
	{Keywords: []string{"tube", "oscilloscope", "darkroom", "enlarger", "reel-to-reel"}, Weird: 4, Note: "Niche vintage tech - specialist market"},
	{Keywords: []string{"weird", "strange", "unusual", "unique"}, Weird: 3},
	{Keywords: []string{"for parts", "doesn't work", "broken"}, Weird: 2, Note: "Sold for parts - check repairability"},
	{Keywords: []string{"test equipment", "military", "industrial"}, Weird: 2, Note: "Industrial/military surplus"},
	{Keywords: []string{"dm", "whatsapp", "telegram", "cashapp"}, Scam: 4, Note: "Off-platform contact requested - red flag"},
}

var DefaultPriceRules = []PriceRule{
	{Min: 0.01, Max: 50, Flip: 1, Note: "Under $50 - low risk flip"},
	{Min: 0.01, Max: 10, Scam: 3, SkipFree: true, Note: "Suspiciously low price"},
	{Min: 0.01, Max: 200, Scam: 5, Keywords: []string{"iphone", "macbook", "airpods", "ps5", "xbox"},
		Note: "High-value electronics priced too cheap - verify serial"},
}

// HeuristicScorer is the default scorer: a pure, deterministic rule table
// over the listing's text fields. No I/O, no randomness.
type HeuristicScorer struct {
	KeywordRules []KeywordRule
	PriceRules   []PriceRule
}

func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{
		KeywordRules: DefaultKeywordRules,
		PriceRules:   DefaultPriceRules,
	}
}

// Score rates a listing. It always succeeds.
func (h *HeuristicScorer) Score(listing models.Listing) models.Scores {
	text := strings.ToLower(listing.Title + " " + listing.Location)
	price := ParsePrice(listing.Price)
	isFree := strings.Contains(text, "free") || (listing.Price != "" && price == 0)

	flip, weird, scam := baseFlip, baseWeird, baseScam
	var notes []string

	for _, rule := range h.KeywordRules {
		if !matchAny(text, rule.Keywords) {
			continue
		}
		flip += rule.Flip
		weird += rule.Weird
		scam += rule.Scam
		if rule.Note != "" {
			notes = append(notes, rule.Note)
		}
	}

	for _, rule := range h.PriceRules {
		if price < rule.Min || (rule.Max > 0 && price >= rule.Max) {
			continue
		}
		if rule.SkipFree && isFree {
			continue
		}
		if len(rule.Keywords) > 0 && !matchAny(text, rule.Keywords) {
			continue
		}
		flip += rule.Flip
		scam += rule.Scam
		if rule.Note != "" {
			notes = append(notes, rule.Note)
		}
	}

	loc := strings.ToLower(listing.Location)
	if loc == "" || strings.Contains(loc, "unknown") {
		scam++
		notes = append(notes, "No location listed")
	}

	scores := models.Scores{
		Flip:      clamp(flip),
		Weirdness: clamp(weird),
		Scam:      clamp(scam),
		Source:    models.SourceHeuristic,
	}

	if len(notes) == 0 {
		switch {
		case scores.Flip >= 7:
			notes = append(notes, "Good flip potential")
		case scores.Weirdness >= 7:
			notes = append(notes, "Interesting item")
		case scores.Scam >= 7:
			notes = append(notes, "High scam risk")
		default:
			notes = append(notes, "Standard listing")
		}
	}
	scores.Notes = strings.Join(notes, ". ")
	return scores
}

func matchAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func clamp(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// ParsePrice pulls a number out of free-text price like "$1,250" or
// "$35.00". Returns 0 when no digits are present.
func ParsePrice(price string) float64 {
	var b strings.Builder
	for _, r := range price {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return 0
	}
	return v
}
