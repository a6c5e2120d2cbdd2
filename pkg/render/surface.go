// Package render draws preview surfaces: the background fill or
// checkerboard, and scaled, recolored icon layers.
//
// Surfaces hold non-premultiplied pixels so that a recolored pixel stores
// exactly the requested channels, whatever its alpha.
package render

import (
	"image"

	"github.com/xob0t/GoLogo/pkg/geometry"
)

// Surface is a resizable raster target owned by exactly one draw call at a time.
type Surface struct {
	img *image.NRGBA
}

// NewSurface returns an empty 0×0 surface.
func NewSurface() *Surface {
	return &Surface{img: image.NewNRGBA(image.Rectangle{})}
}

// Resize sets the surface size and clears it, reusing the buffer when the
// size is unchanged.
func (s *Surface) Resize(res geometry.Resolution) {
	w, h := max(res.W, 0), max(res.H, 0)
	if b := s.img.Bounds(); b.Dx() == w && b.Dy() == h {
		s.Clear()
		return
	}
	s.img = image.NewNRGBA(image.Rect(0, 0, w, h))
}

// Clear makes every pixel fully transparent black.
func (s *Surface) Clear() {
	clear(s.img.Pix)
}

// Image exposes the backing buffer. Callers must not retain it across draws.
func (s *Surface) Image() *image.NRGBA { return s.img }

// Size returns the current resolution.
func (s *Surface) Size() geometry.Resolution {
	b := s.img.Bounds()
	return geometry.Resolution{W: b.Dx(), H: b.Dy()}
}

// Snapshot copies the current pixels.
func (s *Surface) Snapshot() *image.NRGBA {
	out := image.NewNRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}
