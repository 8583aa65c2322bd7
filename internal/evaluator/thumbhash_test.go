package evaluator

import (
	"image"
	"image/color"
	"testing"
)

func fill(img *image.RGBA, rect image.Rectangle, c color.RGBA) {
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func TestAverageHashUniformImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill(img, img.Bounds(), color.RGBA{128, 128, 128, 255})

	// No cell is above the mean in a flat image.
	if got := AverageHash(img); got != 0 {
		t.Errorf("AverageHash(uniform) = %016x, want 0", got)
	}
}

func TestAverageHashHalfAndHalf(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill(img, image.Rect(0, 0, 8, 16), color.RGBA{255, 255, 255, 255})
	fill(img, image.Rect(8, 0, 16, 16), color.RGBA{0, 0, 0, 255})

	// Left four cells of each row are white: top nibble of every byte set.
	want := uint64(0xf0f0f0f0f0f0f0f0)
	if got := AverageHash(img); got != want {
		t.Errorf("AverageHash(half) = %016x, want %016x", got, want)
	}
}

func TestAverageHashDistinguishesImages(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill(a, image.Rect(0, 0, 8, 16), color.RGBA{255, 255, 255, 255})

	b := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill(b, image.Rect(0, 0, 16, 8), color.RGBA{255, 255, 255, 255})

	if AverageHash(a) == AverageHash(b) {
		t.Error("different images hashed equal")
	}
}

func TestAverageHashScaleInvariant(t *testing.T) {
	small := image.NewRGBA(image.Rect(0, 0, 16, 16))
	fill(small, image.Rect(0, 0, 8, 16), color.RGBA{255, 255, 255, 255})
	fill(small, image.Rect(8, 0, 16, 16), color.RGBA{0, 0, 0, 255})

	big := image.NewRGBA(image.Rect(0, 0, 64, 64))
	fill(big, image.Rect(0, 0, 32, 64), color.RGBA{255, 255, 255, 255})
	fill(big, image.Rect(32, 0, 64, 64), color.RGBA{0, 0, 0, 255})

	// The same picture at two sizes must collide; that is the whole point.
	if AverageHash(small) != AverageHash(big) {
		t.Error("rescaled image hashed differently")
	}
}

func TestHashEmptyURL(t *testing.T) {
	h := NewThumbnailHasher()
	got, err := h.Hash("")
	if err != nil {
		t.Fatalf("Hash(\"\") error: %v", err)
	}
	if got != nil {
		t.Errorf("Hash(\"\") = %q, want nil", *got)
	}
}
