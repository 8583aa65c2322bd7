package browser

import (
	"strings"
	"testing"
)

func TestParseCard(t *testing.T) {
	url := "https://example.com/marketplace/item/42?ref=feed"

	tests := []struct {
		name         string
		card         RawCard
		wantNil      bool
		wantTitle    string
		wantPrice    string
		wantLocation string
		wantSeller   string
	}{
		{
			name:         "price title location",
			card:         RawCard{URL: url, Text: "$35\nVintage Oscilloscope for parts\nHartford, CT"},
			wantTitle:    "Vintage Oscilloscope for parts",
			wantPrice:    "$35",
			wantLocation: "Hartford, CT",
		},
		{
			name:         "with seller line",
			card:         RawCard{URL: url, Text: "$1,250\nMid-century dresser\nJane D\nNew Haven, CT"},
			wantTitle:    "Mid-century dresser",
			wantPrice:    "$1,250",
			wantSeller:   "Jane D",
			wantLocation: "New Haven, CT",
		},
		{
			name:         "free listing",
			card:         RawCard{URL: url, Text: "Free\nCouch, must pick up\nBristol, CT"},
			wantTitle:    "Couch, must pick up",
			wantPrice:    "Free",
			wantLocation: "Bristol, CT",
		},
		{
			name:      "no price line",
			card:      RawCard{URL: url, Text: "Mystery box\n"},
			wantTitle: "Mystery box",
		},
		{
			name:    "not a listing link",
			card:    RawCard{URL: "https://example.com/groups/123", Text: "$5\nThing"},
			wantNil: true,
		},
		{
			name:    "empty url",
			card:    RawCard{Text: "$5\nThing"},
			wantNil: true,
		},
		{
			name: "bare link no text",
			card: RawCard{URL: url},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseCard(tt.card)
			if tt.wantNil {
				if got != nil {
					t.Fatalf("ParseCard() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatal("ParseCard() = nil, want listing")
			}
			if got.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", got.Title, tt.wantTitle)
			}
			if got.Price != tt.wantPrice {
				t.Errorf("Price = %q, want %q", got.Price, tt.wantPrice)
			}
			if got.Location != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got.Location, tt.wantLocation)
			}
			if got.SellerName != tt.wantSeller {
				t.Errorf("SellerName = %q, want %q", got.SellerName, tt.wantSeller)
			}
			if got.ListingURL != tt.card.URL {
				t.Errorf("ListingURL = %q, want %q", got.ListingURL, tt.card.URL)
			}
		})
	}
}

func TestSelectDescription(t *testing.T) {
	good := "Works great, selling because we moved and have no room for it. Pick up only, cash or Venmo."

	tests := []struct {
		name   string
		blocks []string
		want   string
	}{
		{
			name:   "picks longest plausible block",
			blocks: []string{"Short text but over thirty chars!", good},
			want:   good,
		},
		{
			name:   "skips boilerplate",
			blocks: []string{"Message seller: Hello, is this still available?", good},
			want:   good,
		},
		{
			name:   "skips meta lines",
			blocks: []string{"Listed 3 days ago in Hartford, CT near you", good},
			want:   good,
		},
		{
			name:   "skips doubled text",
			blocks: []string{good + good, good},
			want:   good,
		},
		{
			name:   "too short",
			blocks: []string{"Nice lamp."},
			want:   "",
		},
		{
			name:   "too long",
			blocks: []string{strings.Repeat("a", 2001)},
			want:   "",
		},
		{
			name:   "nothing",
			blocks: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectDescription(tt.blocks); got != tt.want {
				t.Errorf("SelectDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}
