package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"marketplace-scout/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingStore is the only thing the four loops share. Every method is safe
// to call from independent processes: insert-if-absent rides on the unique
// index over canonical_url, and evaluation updates are idempotent, so no
// caller ever needs to coordinate with another.
type ListingStore struct {
	db *gorm.DB
}

func NewListingStore(db *gorm.DB) *ListingStore {
	return &ListingStore{db: db}
}

// InsertIfAbsent inserts a newly discovered listing and returns its id.
// A canonical_url collision is a normal "already known" outcome, reported
// as inserted=false with no error. Races between concurrent discoverers
// resolve to exactly one surviving row via the unique index.
func (s *ListingStore) InsertIfAbsent(raw models.RawListing, canonicalURL string) (uint, bool, error) {
	listing := models.Listing{
		CanonicalURL: canonicalURL,
		Title:        raw.Title,
		Price:        raw.Price,
		ThumbnailURL: raw.ThumbnailURL,
		SellerName:   raw.SellerName,
		Location:     raw.Location,
	}

	res := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&listing)
	if res.Error != nil {
		return 0, false, fmt.Errorf("insert listing: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Duplicate discovery; title/price drift is ignored by design.
		return 0, false, nil
	}
	return listing.ID, true, nil
}

// ListDiscovered returns up to limit unevaluated listings, newest first.
func (s *ListingStore) ListDiscovered(limit int) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.
		Where("evaluated = ?", false).
		Order("discovered_at DESC, id DESC").
		Limit(limit).
		Find(&listings).Error
	if err != nil {
		return nil, fmt.Errorf("list discovered: %w", err)
	}
	return listings, nil
}

// ApplyEvaluation attaches scores to a listing and flips it to evaluated.
// Re-applying overwrites and is safe; the evaluation pipeline is the only
// writer of these columns.
func (s *ListingStore) ApplyEvaluation(id uint, scores models.Scores, thumbnailHash *string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"evaluated":         true,
		"flip_score":        scores.Flip,
		"weirdness_score":   scores.Weirdness,
		"scam_likelihood":   scores.Scam,
		"evaluation_source": scores.Source,
		"notes":             scores.Notes,
		"evaluated_at":      &now,
	}
	if thumbnailHash != nil {
		updates["thumbnail_hash"] = thumbnailHash
	}

	err := s.db.Model(&models.Listing{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("apply evaluation for listing %d: %w", id, err)
	}
	return nil
}

// FindByURLFragment matches a listing by any substring of its stored
// canonical URL. Callers usually only know the short item id, not the full
// URL the store holds. Returns (nil, nil) when nothing matches.
func (s *ListingStore) FindByURLFragment(fragment string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Where("canonical_url LIKE ?", "%"+fragment+"%").First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by url fragment %q: %w", fragment, err)
	}
	return &listing, nil
}

// Stats returns the store-wide counters shown by the dashboard and the
// summary CLI.
func (s *ListingStore) Stats() (models.Stats, error) {
	var st models.Stats
	m := s.db.Model(&models.Listing{})

	if err := m.Count(&st.Total).Error; err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	if err := s.db.Model(&models.Listing{}).Where("evaluated = ?", true).Count(&st.Evaluated).Error; err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	st.Pending = st.Total - st.Evaluated
	if err := s.db.Model(&models.Listing{}).Where("scam_likelihood >= ?", 7).Count(&st.ScamCount).Error; err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	if err := s.db.Model(&models.Listing{}).Where("flip_score >= ?", 7).Count(&st.FlipCount).Error; err != nil {
		return st, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// FindDuplicateGroups returns every set of two or more listings sharing a
// non-null thumbnail hash. Singletons are excluded.
func (s *ListingStore) FindDuplicateGroups() ([]models.DuplicateGroup, error) {
	type row struct {
		Hash string
		IDs  string
	}
	var rows []row

	// GROUP_CONCAT exists in both MySQL and SQLite.
	err := s.db.Raw(`
		SELECT thumbnail_hash AS hash, GROUP_CONCAT(id) AS ids
		FROM listings
		WHERE thumbnail_hash IS NOT NULL AND thumbnail_hash <> ''
		GROUP BY thumbnail_hash
		HAVING COUNT(*) > 1
	`).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("find duplicate groups: %w", err)
	}

	groups := make([]models.DuplicateGroup, 0, len(rows))
	for _, r := range rows {
		g := models.DuplicateGroup{Hash: r.Hash}
		for _, part := range strings.Split(r.IDs, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				continue
			}
			g.ListingIDs = append(g.ListingIDs, uint(id))
		}
		if len(g.ListingIDs) >= 2 {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

// MarkDuplicateGroups flags every member of every duplicate-hash group.
// Run periodically by the evaluation daemon; not a hard constraint.
func (s *ListingStore) MarkDuplicateGroups() (int64, error) {
	groups, err := s.FindDuplicateGroups()
	if err != nil {
		return 0, err
	}

	var marked int64
	for _, g := range groups {
		res := s.db.Model(&models.Listing{}).
			Where("id IN ?", g.ListingIDs).
			Where("is_duplicate = ?", false).
			Update("is_duplicate", true)
		if res.Error != nil {
			return marked, fmt.Errorf("mark duplicates for hash %s: %w", g.Hash, res.Error)
		}
		marked += res.RowsAffected
	}
	return marked, nil
}

// Search filters for the summary CLI and the dashboard feed.
const (
	FilterAll       = "all"
	FilterDeals     = "deals"
	FilterScams     = "scams"
	FilterEvaluated = "evaluated"

	SortDate  = "date"
	SortPrice = "price"
	SortFlip  = "flip"
	SortScam  = "scam"
)

type SearchOptions struct {
	Term   string
	Filter string
	Sort   string
	Limit  int
}

// Search returns listings matching the term (title or notes substring) under
// the given filter and sort. A zero limit defaults to 50.
func (s *ListingStore) Search(opts SearchOptions) ([]models.Listing, error) {
	q := s.db.Model(&models.Listing{})

	if opts.Term != "" {
		like := "%" + opts.Term + "%"
		q = q.Where("title LIKE ? OR notes LIKE ?", like, like)
	}

	switch opts.Filter {
	case FilterDeals:
		q = q.Where("evaluated = ? AND flip_score >= ?", true, 7)
	case FilterScams:
		q = q.Where("evaluated = ? AND scam_likelihood >= ?", true, 7)
	case FilterEvaluated:
		q = q.Where("evaluated = ?", true)
	}

	switch opts.Sort {
	case SortPrice:
		q = q.Order("CAST(price AS SIGNED) ASC")
	case SortFlip:
		q = q.Order("flip_score DESC")
	case SortScam:
		q = q.Order("scam_likelihood DESC")
	default:
		q = q.Order("discovered_at DESC")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var listings []models.Listing
	if err := q.Limit(limit).Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("search listings: %w", err)
	}
	return listings, nil
}
