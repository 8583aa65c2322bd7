package evaluator

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"time"

	"github.com/go-resty/resty/v2"
)

// ThumbnailHasher downloads listing thumbnails and reduces them to a 64-bit
// average hash. Equality of hashes across two listings is how reposted
// duplicates get flagged; nothing deeper than equality is ever checked.
type ThumbnailHasher struct {
	client *resty.Client
}

func NewThumbnailHasher() *ThumbnailHasher {
	client := resty.New()
	client.SetTimeout(15 * time.Second)
	return &ThumbnailHasher{client: client}
}

// Hash fetches the thumbnail and returns its hash as a hex string. A missing
// or undecodable thumbnail returns (nil, nil); the hash column is nullable.
func (t *ThumbnailHasher) Hash(thumbnailURL string) (*string, error) {
	if thumbnailURL == "" {
		return nil, nil
	}

	resp, err := t.client.R().Get(thumbnailURL)
	if err != nil {
		return nil, fmt.Errorf("fetch thumbnail: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("fetch thumbnail: HTTP %d", resp.StatusCode())
	}

	img, _, err := image.Decode(bytes.NewReader(resp.Body()))
	if err != nil {
		// Not all thumbnail URLs resolve to decodable images.
		return nil, nil
	}

	h := AverageHash(img)
	s := fmt.Sprintf("%016x", h)
	return &s, nil
}

// AverageHash computes an 8x8 average hash: downsample to an 8x8 grid of
// luma values, then emit one bit per cell for "above the mean".
func AverageHash(img image.Image) uint64 {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return 0
	}

	var cells [64]uint64
	var counts [64]uint64
	for y := 0; y < h; y++ {
		cy := y * 8 / h
		for x := 0; x < w; x++ {
			cx := x * 8 / w
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// Integer BT.601 luma.
			luma := (299*r + 587*g + 114*b) / 1000
			idx := cy*8 + cx
			cells[idx] += uint64(luma)
			counts[idx]++
		}
	}

	var total uint64
	for i := range cells {
		if counts[i] > 0 {
			cells[i] /= counts[i]
		}
		total += cells[i]
	}
	mean := total / 64

	var hash uint64
	for i, v := range cells {
		if v > mean {
			hash |= 1 << uint(63-i)
		}
	}
	return hash
}
