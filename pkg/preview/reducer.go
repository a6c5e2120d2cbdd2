package preview

import (
	"fmt"
	"math"

	"github.com/xob0t/GoLogo/pkg/logo"
)

// Reduce applies a to s. It never mutates s: every change yields a new
// *State tagged with a, and an edit that changes nothing returns s itself
// so callers can skip work by pointer comparison.
func Reduce(s *State, a Action) (*State, error) {
	switch a := a.(type) {
	case SetCanvasRes:
		if s.Canvas.Res == a.Res {
			return s, nil
		}
		next := *s
		next.Canvas.Res = a.Res
		next.Last = a
		return &next, nil

	case SetCanvasColor:
		if logo.EqualColors(s.Canvas.Color, a.Color) {
			return s, nil
		}
		next := *s
		next.Canvas.Color = a.Color
		next.Last = a
		return &next, nil

	case SetCanvasPadding:
		if samePadding(s.Canvas.Padding, a.Padding) {
			return s, nil
		}
		next := *s
		next.Canvas.Padding = a.Padding
		next.Last = a
		return &next, nil

	case SetIconPadding:
		if samePadding(s.Icon.Padding, a.Padding) {
			return s, nil
		}
		next := *s
		next.Icon.Padding = a.Padding
		next.Last = a
		return &next, nil

	case SetLayerImage:
		n := len(s.Icon.Layers)
		if err := checkIndex(a.Index, n); err != nil {
			return s, err
		}
		if a.Index < n && s.Icon.Layers[a.Index].Image == a.Image {
			return s, nil
		}
		next := s.withLayers(1)
		if a.Index == n {
			next.Icon.Layers = append(next.Icon.Layers, LayerState{})
		}
		next.Icon.Layers[a.Index].Image = a.Image
		next.Last = a
		return next, nil

	case SetLayerColor:
		n := len(s.Icon.Layers)
		if err := checkIndex(a.Index, n); err != nil {
			return s, err
		}
		if a.Index < n && logo.EqualColors(s.Icon.Layers[a.Index].Color, a.Color) {
			return s, nil
		}
		next := s.withLayers(1)
		if a.Index == n {
			next.Icon.Layers = append(next.Icon.Layers, LayerState{})
		}
		next.Icon.Layers[a.Index].Color = a.Color
		next.Last = a
		return next, nil
	}

	if a == nil {
		return s, fmt.Errorf("%w: nil", ErrUnknownAction)
	}
	return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type())
}

// samePadding treats NaN as equal to NaN; both clamp to 0 when drawn.
func samePadding(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func checkIndex(i, n int) error {
	if i < 0 || i > n {
		return &InvalidLayerIndexError{Index: i, Len: n}
	}
	return nil
}
