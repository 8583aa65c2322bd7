package models

import (
	"time"
)

// Evaluation sources.
const (
	SourceHeuristic = "heuristic"
	SourceExternal  = "external"
)

// Listing represents one discovered marketplace item and everything the
// pipeline has learned about it. CanonicalURL (the listing link with its
// query string stripped) is the natural key; the numeric ID is only a
// convenience for foreign references.
type Listing struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	CanonicalURL string `json:"canonical_url" gorm:"uniqueIndex;size:500;not null"`

	// Descriptive fields, best-effort extraction from a live page.
	Title        string `json:"title"`
	Price        string `json:"price"` // free text, currency symbol retained
	ThumbnailURL string `json:"thumbnail_url"`
	SellerName   string `json:"seller_name"`
	Location     string `json:"location"`

	DiscoveredAt time.Time `json:"discovered_at" gorm:"autoCreateTime"`
	Evaluated    bool      `json:"evaluated" gorm:"index;default:false"`

	// Score fields are written exactly once, by the evaluation pipeline.
	FlipScore        *int       `json:"flip_score"`
	WeirdnessScore   *int       `json:"weirdness_score"`
	ScamLikelihood   *int       `json:"scam_likelihood"`
	EvaluationSource string     `json:"evaluation_source"`
	Notes            string     `json:"notes"`
	EvaluatedAt      *time.Time `json:"evaluated_at"`

	ThumbnailHash *string `json:"thumbnail_hash" gorm:"index;size:32"`
	IsDuplicate   bool    `json:"is_duplicate" gorm:"default:false"`
	IsScreenshot  bool    `json:"is_screenshot" gorm:"default:false"`
}

// IsEvaluated reports whether all three score fields are present. The
// Evaluated column mirrors this; the triple is the source of truth.
func (l *Listing) IsEvaluated() bool {
	return l.FlipScore != nil && l.WeirdnessScore != nil && l.ScamLikelihood != nil
}

// Scores is the output of a scorer run for a single listing.
// All three values are clamped to [1,10].
type Scores struct {
	Flip      int    `json:"flip_score"`
	Weirdness int    `json:"weirdness_score"`
	Scam      int    `json:"scam_likelihood"`
	Notes     string `json:"notes"`
	Source    string `json:"-"`
}

// RawListing holds the fields pulled out of a single listing card before
// the listing exists in the store.
type RawListing struct {
	ListingURL   string
	Title        string
	Price        string
	ThumbnailURL string
	SellerName   string
	Location     string
}

// Stats is the store-wide counter snapshot served to the dashboard.
type Stats struct {
	Total     int64 `json:"total"`
	Evaluated int64 `json:"evaluated"`
	Pending   int64 `json:"pending"`
	ScamCount int64 `json:"scam_count"`
	FlipCount int64 `json:"flip_count"`
}

// DuplicateGroup is a set of listings sharing one thumbnail hash.
type DuplicateGroup struct {
	Hash       string `json:"hash"`
	ListingIDs []uint `json:"listing_ids"`
}
