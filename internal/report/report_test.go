package report

import (
	"path/filepath"
	"testing"
	"time"

	"marketplace-scout/internal/models"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	flip, weird, scam := 8, 4, 2
	listings := []models.Listing{
		{
			ID:             1,
			Title:          "Vintage amp",
			Price:          "$40",
			Location:       "Hartford, CT",
			CanonicalURL:   "https://example.com/marketplace/item/1",
			DiscoveredAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
			FlipScore:      &flip,
			WeirdnessScore: &weird,
			ScamLikelihood: &scam,
			Notes:          "Good flip potential",
		},
		{
			ID:           2,
			Title:        "Pending couch",
			Price:        "Free",
			CanonicalURL: "https://example.com/marketplace/item/2",
			DiscoveredAt: time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	path := filepath.Join(t.TempDir(), "listings.xlsx")
	if err := WriteXLSX(listings, path); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Listings")
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][1] != "Title" || rows[0][5] != "Flip" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Vintage amp" || rows[1][5] != "8" {
		t.Errorf("evaluated row = %v", rows[1])
	}
	// Unevaluated listings leave score cells blank.
	if len(rows[2]) > 5 && rows[2][5] != "" {
		t.Errorf("pending row has score %q", rows[2][5])
	}
}
