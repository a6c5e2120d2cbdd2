// selection.go — Turn a description's choices into concrete preview values.
package logo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xob0t/GoLogo/pkg/geometry"
)

// Selection picks one option per choice a description offers. Color
// choices are a palette index ("0"), a color literal, or "none". An empty
// canvas choice means the first palette entry; an empty layer choice means
// none, so layers stay transparent until a color is chosen.
type Selection struct {
	Ratio       int                  `json:"ratio"`
	Orientation geometry.Orientation `json:"-"`
	Dir         string               `json:"dir,omitempty"`
	Multiplier  int                  `json:"multiplier,omitempty"`
	CanvasColor string               `json:"canvasColor,omitempty"`
	LayerColors []string             `json:"layerColors,omitempty"`
}

// Resolved holds the concrete values a session starts from.
type Resolved struct {
	Res         geometry.Resolution
	CanvasColor *Color
	Padding     float64
	Layers      []ResolvedLayer
}

// ResolvedLayer is one layer's source file and chosen color.
type ResolvedLayer struct {
	File  string
	Type  string
	Color *Color
}

// Resolve applies sel to the description.
func (l *Logo) Resolve(sel Selection) (*Resolved, error) {
	ratios := l.Ratios()
	if sel.Ratio < 0 || sel.Ratio >= len(ratios) {
		return nil, fmt.Errorf("ratio index %d out of range [0,%d)", sel.Ratio, len(ratios))
	}
	ratio := ratios[sel.Ratio]

	dir := sel.Orientation
	if dir == 0 && sel.Dir != "" {
		parsed, err := geometry.ParseOrientation(sel.Dir)
		if err != nil {
			return nil, err
		}
		dir = parsed
	}
	if dir == 0 {
		dir = geometry.DefaultOrientation(ratio)
	}

	mul := sel.Multiplier
	if mul == 0 {
		mul = DefaultMultiplier
	}

	res, err := geometry.ResolutionFromRatio(ratio, dir, mul)
	if err != nil {
		return nil, err
	}

	canvasChoice := sel.CanvasColor
	if canvasChoice == "" && len(l.Canvas.Colors) > 0 {
		canvasChoice = "0"
	}
	canvasColor, err := pick(l.Canvas.Colors, canvasChoice)
	if err != nil {
		return nil, fmt.Errorf("canvas color: %w", err)
	}

	out := &Resolved{
		Res:         res,
		CanvasColor: canvasColor,
		Padding:     geometry.ClampFraction(l.Icon.Padding),
		Layers:      make([]ResolvedLayer, len(l.Icon.Layers)),
	}
	for i, layer := range l.Icon.Layers {
		var choice string
		if i < len(sel.LayerColors) {
			choice = sel.LayerColors[i]
		}
		c, err := pick(layer.Colors, choice)
		if err != nil {
			return nil, fmt.Errorf("layer %d color: %w", i, err)
		}
		out.Layers[i] = ResolvedLayer{File: layer.File(), Type: strings.ToLower(layer.Type), Color: c}
	}
	return out, nil
}

// pick resolves a single color choice against a palette.
func pick(palette []string, choice string) (*Color, error) {
	choice = strings.TrimSpace(choice)
	if idx, err := strconv.Atoi(choice); err == nil {
		if idx < 0 || idx >= len(palette) {
			return nil, fmt.Errorf("palette index %d out of range [0,%d)", idx, len(palette))
		}
		c, err := ParseColor(palette[idx])
		if err != nil {
			return nil, err
		}
		return &c, nil
	}
	return ParseOptionalColor(choice)
}
