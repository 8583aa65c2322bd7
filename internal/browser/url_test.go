package browser

import "testing"

func TestCanonicalURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "https://example.com/marketplace/item/123", "https://example.com/marketplace/item/123"},
		{"tracking params", "https://example.com/marketplace/item/123?ref=feed&tracking=abc", "https://example.com/marketplace/item/123"},
		{"fragment", "https://example.com/marketplace/item/123#photos", "https://example.com/marketplace/item/123"},
		{"both", "https://example.com/marketplace/item/123?ref=x#y", "https://example.com/marketplace/item/123"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalURL(tt.in); got != tt.want {
				t.Errorf("CanonicalURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestItemID(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"listing page", "https://example.com/marketplace/item/987654", "987654", true},
		{"trailing slash", "https://example.com/marketplace/item/987654/", "987654", true},
		{"query string", "https://example.com/marketplace/item/987654?ref=share", "987654", true},
		{"feed page", "https://example.com/marketplace/category/electronics", "", false},
		{"marker but no id", "https://example.com/marketplace/item/", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ItemID(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ItemID(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsListingPage(t *testing.T) {
	if !IsListingPage("https://example.com/marketplace/item/1") {
		t.Error("expected listing page")
	}
	if IsListingPage("https://example.com/marketplace/") {
		t.Error("expected non-listing page")
	}
}
