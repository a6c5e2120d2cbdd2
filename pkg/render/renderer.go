// renderer.go - Background and layer drawing for the live preview.
// Layered approach: background surface -> one surface per icon layer ->
// flattened export in paint order.
package render

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/xob0t/GoLogo/pkg/geometry"
	"github.com/xob0t/GoLogo/pkg/logo"
	"github.com/xob0t/GoLogo/pkg/preview"
)

const (
	// CheckerCell is the side of one checkerboard square in pixels.
	CheckerCell = 10
)

var (
	CheckerLight = color.NRGBA{0xff, 0xff, 0xff, 0xff}
	CheckerDark  = color.NRGBA{0xc0, 0xc0, 0xc0, 0xff}
)

// Outcome reports what a layer draw did.
type Outcome int

const (
	Drawn Outcome = iota
	SkippedNotLoaded
	SkippedNoColor
	SkippedDegenerate
)

func (o Outcome) String() string {
	switch o {
	case Drawn:
		return "drawn"
	case SkippedNotLoaded:
		return "skipped: image not loaded"
	case SkippedNoColor:
		return "skipped: no color"
	case SkippedDegenerate:
		return "skipped: degenerate geometry"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Options configures a Renderer.
type Options struct {
	// Interpolator resamples layer images. Defaults to draw.ApproxBiLinear.
	Interpolator draw.Interpolator
}

// Renderer draws backgrounds and layers. It holds no per-draw state.
type Renderer struct {
	interp draw.Interpolator
	tile   *image.NRGBA
}

// NewRenderer creates a renderer.
func NewRenderer(opts Options) *Renderer {
	interp := opts.Interpolator
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	return &Renderer{interp: interp, tile: checkerTile()}
}

// InterpolatorNames lists the names InterpolatorByName accepts.
var InterpolatorNames = []string{"nearest", "approx-bilinear", "bilinear", "catmull-rom"}

// InterpolatorByName maps config names to x/image/draw interpolators.
func InterpolatorByName(name string) (draw.Interpolator, error) {
	switch strings.ToLower(name) {
	case "nearest", "nearest-neighbor":
		return draw.NearestNeighbor, nil
	case "", "approx-bilinear":
		return draw.ApproxBiLinear, nil
	case "bilinear":
		return draw.BiLinear, nil
	case "catmull-rom", "catmullrom":
		return draw.CatmullRom, nil
	}
	return nil, fmt.Errorf("unknown interpolator %q", name)
}

// DrawBackground sizes s to the canvas resolution and fills it with the
// canvas color, or with the transparency checkerboard when there is none.
func (r *Renderer) DrawBackground(s *Surface, c preview.CanvasState) {
	s.Resize(c.Res)
	if c.Color != nil {
		fill(s.img, c.Color.NRGBA())
		return
	}

	b := s.img.Bounds()
	step := CheckerCell * 2
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			draw.Draw(s.img, image.Rect(x, y, x+step, y+step), r.tile, image.Point{}, draw.Src)
		}
	}
}

// CheckerShade returns the checkerboard color at (x, y).
func CheckerShade(x, y int) color.NRGBA {
	if (x/CheckerCell+y/CheckerCell)%2 == 0 {
		return CheckerLight
	}
	return CheckerDark
}

// checkerTile builds one 2×2-cell repeat of the checkerboard.
func checkerTile() *image.NRGBA {
	n := CheckerCell
	tile := image.NewNRGBA(image.Rect(0, 0, 2*n, 2*n))
	light, dark := &image.Uniform{CheckerLight}, &image.Uniform{CheckerDark}
	draw.Draw(tile, image.Rect(0, 0, n, n), light, image.Point{}, draw.Src)
	draw.Draw(tile, image.Rect(n, n, 2*n, 2*n), light, image.Point{}, draw.Src)
	draw.Draw(tile, image.Rect(n, 0, 2*n, n), dark, image.Point{}, draw.Src)
	draw.Draw(tile, image.Rect(0, n, n, 2*n), dark, image.Point{}, draw.Src)
	return tile
}

// fill writes c into every pixel byte-for-byte.
func fill(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	first := img.Pix[:b.Dx()*4]
	for i := 0; i < len(first); i += 4 {
		first[i], first[i+1], first[i+2], first[i+3] = c.R, c.G, c.B, c.A
	}
	for y := 1; y < b.Dy(); y++ {
		copy(img.Pix[y*img.Stride:], first)
	}
}

// DrawLayer renders one icon layer: src scaled to fit res inside
// absPadding, centered, then recolored with c. A layer without an image
// or a color, or whose padding leaves no room, is left cleared.
func (r *Renderer) DrawLayer(s *Surface, res geometry.Resolution, absPadding float64, src image.Image, c *logo.Color) Outcome {
	if c == nil {
		s.Resize(res)
		if src == nil {
			return SkippedNotLoaded
		}
		return SkippedNoColor
	}
	if out := r.Place(s, res, absPadding, src); out != Drawn {
		return out
	}
	Recolor(s.img, *c)
	return Drawn
}

// Place resizes and clears s, then draws src scaled and centered without
// recoloring it.
func (r *Renderer) Place(s *Surface, res geometry.Resolution, absPadding float64, src image.Image) Outcome {
	s.Resize(res)
	if src == nil {
		return SkippedNotLoaded
	}

	sb := src.Bounds()
	fit := geometry.ScaleToFit(float64(sb.Dx()), float64(sb.Dy()), float64(res.W), float64(res.H), absPadding)
	if fit.Degenerate() {
		return SkippedDegenerate
	}

	s2d := f64.Aff3{
		fit.Ratio, 0, fit.OffsetX - fit.Ratio*float64(sb.Min.X),
		0, fit.Ratio, fit.OffsetY - fit.Ratio*float64(sb.Min.Y),
	}
	r.interp.Transform(s.img, s2d, src, sb, draw.Over, nil)
	clearTransparent(s.img)
	return Drawn
}

// clearTransparent zeroes the color bytes of pixels whose alpha is 0.
// Filters with negative lobes (Catmull-Rom) leave such pixels behind.
func clearTransparent(img *image.NRGBA) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				row[i], row[i+1], row[i+2] = 0, 0, 0
			}
		}
	}
}

// Recolor replaces all four channels of every pixel with non-zero alpha
// by c. Fully transparent pixels are left as they are; the source alpha
// is a binary mask, not a blend weight.
func Recolor(img *image.NRGBA, c logo.Color) {
	b := img.Bounds()
	rowLen := b.Dx() * 4
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+rowLen]
		for i := 0; i < len(row); i += 4 {
			if row[i+3] == 0 {
				continue
			}
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

// Flatten composites layers over bg in order into a new image the size of
// bg. Background pixels are copied verbatim, layers are blended with Over.
func Flatten(bg *image.NRGBA, layers ...*image.NRGBA) *image.NRGBA {
	b := bg.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:(y+1)*out.Stride], bg.Pix[bg.PixOffset(b.Min.X, b.Min.Y+y):])
	}
	for _, l := range layers {
		if l == nil || l.Bounds().Empty() {
			continue
		}
		draw.Draw(out, out.Bounds(), l, out.Bounds().Min, draw.Over)
	}
	return out
}
