package ui

import (
	"image"
	"image/color"
	"testing"
)

func TestResizeScale2(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	src.SetRGBA(0, 0, color.RGBA{R: 0xff, A: 0xff})
	src.SetRGBA(1, 1, color.RGBA{B: 0xff, A: 0xff})

	dst := image.NewRGBA(image.Rect(0, 0, 4, 4))
	Resize(dst, src, 2)

	// each source pixel becomes a 2x2 block
	for _, p := range []struct{ x, y int }{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		if got := dst.RGBAAt(p.x, p.y); got.R != 0xff {
			t.Errorf("dst(%d,%d) = %v, want red", p.x, p.y, got)
		}
	}
	for _, p := range []struct{ x, y int }{{2, 2}, {3, 2}, {2, 3}, {3, 3}} {
		if got := dst.RGBAAt(p.x, p.y); got.B != 0xff {
			t.Errorf("dst(%d,%d) = %v, want blue", p.x, p.y, got)
		}
	}
}

func TestResizeScale1Copies(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	src.SetRGBA(2, 1, color.RGBA{G: 0x80, A: 0xff})
	dst := image.NewRGBA(image.Rect(0, 0, 3, 3))
	Resize(dst, src, 1)
	if dst.RGBAAt(2, 1).G != 0x80 {
		t.Error("scale 1 should copy the image unchanged")
	}
}
