// Package report exports listing snapshots to spreadsheet files.
package report

import (
	"fmt"

	"marketplace-scout/internal/models"

	"github.com/xuri/excelize/v2"
)

var columns = []string{"ID", "Title", "Price", "Location", "Seller", "Flip", "Weirdness", "Scam", "Notes", "URL", "Discovered At"}

// WriteXLSX writes the given listings to path as a single-sheet workbook.
func WriteXLSX(listings []models.Listing, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Listings"
	f.SetSheetName("Sheet1", sheet)

	for i, name := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for row, l := range listings {
		values := []interface{}{
			l.ID,
			l.Title,
			l.Price,
			l.Location,
			l.SellerName,
			cellScore(l.FlipScore),
			cellScore(l.WeirdnessScore),
			cellScore(l.ScamLikelihood),
			l.Notes,
			l.CanonicalURL,
			l.DiscoveredAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func cellScore(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
