package ui

import "image"

// Resize enlarges src into dst by the integer factor scale using nearest
// neighbor, which is the right look for pixel art. dst must be exactly
// scale times src in each dimension.
func Resize(dst, src *image.RGBA, scale int) {
	if scale == 1 {
		copy(dst.Pix, src.Pix)
		return
	}
	w := src.Rect.Dx()
	h := src.Rect.Dy()
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		outRow := dst.Pix[y*scale*dst.Stride:]
		for x := 0; x < w; x++ {
			px := row[x*4 : x*4+4]
			for i := 0; i < scale; i++ {
				copy(outRow[(x*scale+i)*4:], px)
			}
		}
		// duplicate the stretched row for the remaining scan lines
		stretched := outRow[:w*scale*4]
		for i := 1; i < scale; i++ {
			copy(dst.Pix[(y*scale+i)*dst.Stride:], stretched)
		}
	}
}
