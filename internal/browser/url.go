package browser

import (
	"strings"
)

// ItemPathMarker is the only piece of marketplace URL structure the pipeline
// relies on: listing pages and card links both contain it.
const ItemPathMarker = "/marketplace/item/"

// CanonicalURL strips the query string (tracking parameters) from a raw
// listing link. The result is the listing's identity in the store.
func CanonicalURL(rawURL string) string {
	u := rawURL
	if i := strings.IndexByte(u, '?'); i >= 0 {
		u = u[:i]
	}
	if i := strings.IndexByte(u, '#'); i >= 0 {
		u = u[:i]
	}
	return u
}

// ItemID extracts the numeric item id from a listing URL. Returns false
// when the URL does not name a single listing.
func ItemID(pageURL string) (string, bool) {
	i := strings.Index(pageURL, ItemPathMarker)
	if i < 0 {
		return "", false
	}
	id := pageURL[i+len(ItemPathMarker):]
	if j := strings.IndexByte(id, '/'); j >= 0 {
		id = id[:j]
	}
	if j := strings.IndexByte(id, '?'); j >= 0 {
		id = id[:j]
	}
	if id == "" {
		return "", false
	}
	return id, true
}

// IsListingPage reports whether the URL names a single listing.
func IsListingPage(pageURL string) bool {
	_, ok := ItemID(pageURL)
	return ok
}
