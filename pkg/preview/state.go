// Package preview holds the live preview state and the pure reducer that
// turns user edits into new state versions.
package preview

import (
	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/geometry"
	"github.com/xob0t/GoLogo/pkg/logo"
)

// CanvasState describes the background surface.
type CanvasState struct {
	Res     geometry.Resolution
	Color   *logo.Color // nil: checkerboard placeholder
	Padding float64
}

// LayerState is one icon layer. A nil Color leaves the layer undrawn.
type LayerState struct {
	Image *asset.Handle
	Color *logo.Color
}

// IconState is the layer stack in paint order.
type IconState struct {
	Padding float64
	Layers  []LayerState
}

// State is one immutable version of the preview. Last is the action that
// produced it; it is nil for a freshly mounted or replaced state and is
// never persisted.
type State struct {
	Canvas CanvasState
	Icon   IconState
	Last   Action
}

// DefaultResolution is the session's starting size: ratio 1x1 at the
// default multiplier.
var DefaultResolution = geometry.Resolution{W: logo.DefaultMultiplier, H: logo.DefaultMultiplier}

// Initial returns the state a session starts from.
func Initial() *State {
	return &State{
		Canvas: CanvasState{Res: DefaultResolution},
		Icon:   IconState{Padding: logo.DefaultPadding},
	}
}

// FromResolved builds a state from a resolved description. Layer images
// are left empty; they arrive through l-img actions once sources load.
func FromResolved(r *logo.Resolved) *State {
	layers := make([]LayerState, len(r.Layers))
	for i, l := range r.Layers {
		layers[i] = LayerState{Color: l.Color}
	}
	return &State{
		Canvas: CanvasState{Res: r.Res, Color: r.CanvasColor},
		Icon:   IconState{Padding: r.Padding, Layers: layers},
	}
}

// LayerPadding is the effective padding fraction applied to every layer:
// canvas and icon padding combined, clamped to [0,1].
func (s *State) LayerPadding() float64 {
	return geometry.ClampFraction(s.Canvas.Padding + s.Icon.Padding)
}

// withLayers returns a shallow copy of s with its own layer slice.
func (s *State) withLayers(extra int) *State {
	next := *s
	next.Icon.Layers = make([]LayerState, len(s.Icon.Layers), len(s.Icon.Layers)+extra)
	copy(next.Icon.Layers, s.Icon.Layers)
	return &next
}
