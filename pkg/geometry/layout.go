// Package geometry converts aspect-ratio choices and padding fractions into
// pixel-space layout values.
package geometry

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidRatio          = errors.New("aspect ratio sides must be positive")
	ErrInvalidMultiplier     = errors.New("multiplier must be positive")
	ErrOrientationNotAllowed = errors.New("orientation not allowed by aspect ratio")
)

// Resolution is the pixel size of an output surface.
type Resolution struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Valid reports whether both sides are positive.
func (r Resolution) Valid() bool { return r.W > 0 && r.H > 0 }

func (r Resolution) String() string { return fmt.Sprintf("%dx%d", r.W, r.H) }

// Orientation selects which side of an aspect ratio maps to the width.
type Orientation byte

const (
	Landscape Orientation = 'l'
	Portrait  Orientation = 'p'
)

// ParseOrientation accepts "l", "landscape", "p" or "portrait".
func ParseOrientation(s string) (Orientation, error) {
	switch s {
	case "l", "landscape":
		return Landscape, nil
	case "p", "portrait":
		return Portrait, nil
	default:
		return 0, fmt.Errorf("invalid orientation %q: expected l or p", s)
	}
}

func (o Orientation) String() string { return string(rune(o)) }

// RatioDir lists the orientations an aspect ratio may be used in.
type RatioDir struct {
	L bool `json:"l,omitempty" yaml:"l,omitempty"`
	P bool `json:"p,omitempty" yaml:"p,omitempty"`
}

// AspectRatio is a bigger/smaller side pair. Dir is nil only for squares.
type AspectRatio struct {
	B   int       `json:"b" yaml:"b" validate:"min=1"`
	S   int       `json:"s" yaml:"s" validate:"min=1"`
	Dir *RatioDir `json:"dir,omitempty" yaml:"dir,omitempty"`
}

func (r AspectRatio) String() string { return fmt.Sprintf("%dx%d", r.B, r.S) }

// Square reports whether both sides are equal.
func (r AspectRatio) Square() bool { return r.B == r.S }

// Allows reports whether o is a permitted orientation. Squares allow both.
func (r AspectRatio) Allows(o Orientation) bool {
	if r.Dir == nil {
		return r.Square()
	}
	switch o {
	case Landscape:
		return r.Dir.L
	case Portrait:
		return r.Dir.P
	}
	return false
}

// DefaultOrientation prefers portrait when the ratio permits it.
func DefaultOrientation(r AspectRatio) Orientation {
	if r.Dir != nil && r.Dir.P {
		return Portrait
	}
	return Landscape
}

// ResolutionFromRatio scales an aspect ratio by mul in the given orientation.
func ResolutionFromRatio(r AspectRatio, dir Orientation, mul int) (Resolution, error) {
	if r.B <= 0 || r.S <= 0 {
		return Resolution{}, fmt.Errorf("%w: %s", ErrInvalidRatio, r)
	}
	if mul <= 0 {
		return Resolution{}, fmt.Errorf("%w: %d", ErrInvalidMultiplier, mul)
	}
	if !r.Allows(dir) {
		return Resolution{}, fmt.Errorf("%w: %s in %q", ErrOrientationNotAllowed, r, dir)
	}

	w, h := r.S, r.S
	if dir == Landscape {
		w = r.B
	}
	if dir == Portrait {
		h = r.B
	}
	return Resolution{W: w * mul, H: h * mul}, nil
}

// ClampFraction forces f into [0,1]. NaN maps to 0.
func ClampFraction(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	return min(f, 1)
}

// PixelPadding converts a padding fraction into an absolute inset. The
// result never exceeds half the shorter side.
func PixelPadding(fraction float64, res Resolution) float64 {
	if !res.Valid() {
		return 0
	}
	return ClampFraction(fraction) * 0.5 * float64(min(res.W, res.H))
}

// Fit places content of one size centered inside a target.
type Fit struct {
	Ratio   float64
	OffsetX float64
	OffsetY float64
}

// Degenerate reports whether the fit cannot be drawn.
func (f Fit) Degenerate() bool {
	return !(f.Ratio > 0) || math.IsInf(f.Ratio, 0) ||
		math.IsNaN(f.OffsetX) || math.IsNaN(f.OffsetY)
}

// ScaleToFit scales content to fit the padded target while keeping its
// aspect ratio, and centers it.
func ScaleToFit(contentW, contentH, targetW, targetH, padding float64) Fit {
	if !(contentW > 0) || !(contentH > 0) {
		return Fit{}
	}
	ratio := min((targetW-2*padding)/contentW, (targetH-2*padding)/contentH)
	return Fit{
		Ratio:   ratio,
		OffsetX: (targetW - contentW*ratio) / 2,
		OffsetY: (targetH - contentH*ratio) / 2,
	}
}
