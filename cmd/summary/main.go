package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"marketplace-scout/internal/config"
	"marketplace-scout/internal/database"
	"marketplace-scout/internal/models"
	"marketplace-scout/internal/report"
	"marketplace-scout/internal/store"

	"github.com/joho/godotenv"
)

var (
	showAll       = flag.Bool("all", false, "include unevaluated listings")
	dealsOnly     = flag.Bool("deals", false, "only listings with flip potential >= 7")
	scamsOnly     = flag.Bool("scams", false, "only listings with scam likelihood >= 7")
	evaluatedOnly = flag.Bool("evaluated", false, "only evaluated listings")
	limit         = flag.Int("limit", 50, "max listings to show")
	sortBy        = flag.String("sort", "date", "sort order: date, price, flip, scam")
	search        = flag.String("search", "", "filter by title substring")
	xlsxPath      = flag.String("xlsx", "", "also write results to an .xlsx file")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	db, err := database.Initialize(cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	st := store.NewListingStore(db)

	stats, err := st.Stats()
	if err != nil {
		log.Fatal("Failed to read stats:", err)
	}

	filter := store.FilterAll
	switch {
	case *dealsOnly:
		filter = store.FilterDeals
	case *scamsOnly:
		filter = store.FilterScams
	case *evaluatedOnly, !*showAll:
		filter = store.FilterEvaluated
	}

	listings, err := st.Search(store.SearchOptions{
		Term:   *search,
		Filter: filter,
		Sort:   *sortBy,
		Limit:  *limit,
	})
	if err != nil {
		log.Fatal("Failed to query listings:", err)
	}

	fmt.Println("═══════════════════════════════════════════════")
	fmt.Println("           🔍 Marketplace Scout Summary")
	fmt.Println("═══════════════════════════════════════════════")
	fmt.Printf("  Total: %d  Evaluated: %d  Pending: %d\n", stats.Total, stats.Evaluated, stats.Pending)
	fmt.Printf("  Flip candidates: %d  Scam suspects: %d\n", stats.FlipCount, stats.ScamCount)
	fmt.Println("───────────────────────────────────────────────")

	if len(listings) == 0 {
		fmt.Println("  No listings match.")
		return
	}

	for _, l := range listings {
		fmt.Printf("\n%s\n", displayTitle(l))
		fmt.Printf("  💰 %s  📍 %s\n", orDash(l.Price), orDash(l.Location))
		if l.IsEvaluated() {
			fmt.Printf("  📈 flip %d/10  🎪 weird %d/10  ⚠️ scam %d/10\n",
				*l.FlipScore, *l.WeirdnessScore, *l.ScamLikelihood)
			if l.Notes != "" {
				fmt.Printf("  📝 %s\n", l.Notes)
			}
		} else {
			fmt.Println("  ⏳ pending evaluation")
		}
		if l.IsDuplicate {
			fmt.Println("  👯 duplicate thumbnail")
		}
		fmt.Printf("  🔗 %s\n", l.CanonicalURL)
	}
	fmt.Printf("\n%d listing(s)\n", len(listings))

	if *xlsxPath != "" {
		if err := report.WriteXLSX(listings, *xlsxPath); err != nil {
			log.Fatal("Failed to write workbook:", err)
		}
		fmt.Printf("📊 Wrote %s\n", *xlsxPath)
	}
}

func displayTitle(l models.Listing) string {
	title := strings.TrimSpace(l.Title)
	if title == "" {
		title = "(untitled)"
	}
	return title
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
