// Package logo describes persisted logos: palettes, aspect ratios and the
// icon layer stack, plus loading and validating them.
package logo

import (
	"path/filepath"
	"strings"

	"github.com/xob0t/GoLogo/pkg/geometry"
)

// ── Description types ──

// Logo is the top-level structure of a .logo.json file.
type Logo struct {
	Canvas Canvas `json:"canvas" yaml:"canvas"`
	Icon   Icon   `json:"icon" yaml:"icon"`
}

// Canvas lists the background choices offered to the user.
type Canvas struct {
	Colors []string               `json:"colors" yaml:"colors" validate:"dive,color"`
	Ratios []geometry.AspectRatio `json:"ratios" yaml:"ratios" validate:"dive"`
}

// Icon is the ordered layer stack. Layer 0 is painted first.
type Icon struct {
	Padding float64 `json:"padding" yaml:"padding" validate:"min=0,max=1"`
	Layers  []Layer `json:"layers" yaml:"layers" validate:"dive"`
}

// Layer is one recolorable raster element.
type Layer struct {
	Colors []string `json:"colors" yaml:"colors" validate:"dive,color"`
	Type   string   `json:"type" yaml:"type" validate:"required,oneof=png jpg jpeg svg bmp tiff webp"`
	Path   string   `json:"path" yaml:"path" validate:"required"`
}

// File returns the asset file name: the path plus the type as extension.
// A path that already ends in the extension is returned unchanged.
func (l Layer) File() string {
	ext := "." + strings.ToLower(l.Type)
	if strings.EqualFold(filepath.Ext(l.Path), ext) {
		return l.Path
	}
	return l.Path + ext
}

// ── Defaults ──

const (
	// DefaultPadding is the icon padding fraction used when none is given.
	DefaultPadding = 0.1
	// DefaultMultiplier scales the chosen aspect ratio into pixels.
	DefaultMultiplier = 500
)

// DefaultRatio is offered when a description lists no ratios.
var DefaultRatio = geometry.AspectRatio{B: 1, S: 1}

// Ratios returns the canvas ratios, or the square default when empty.
func (l *Logo) Ratios() []geometry.AspectRatio {
	if len(l.Canvas.Ratios) == 0 {
		return []geometry.AspectRatio{DefaultRatio}
	}
	return l.Canvas.Ratios
}

// Colors parses a palette. Entries are assumed validated.
func Colors(palette []string) []Color {
	out := make([]Color, 0, len(palette))
	for _, s := range palette {
		if c, err := ParseColor(s); err == nil {
			out = append(out, c)
		}
	}
	return out
}
