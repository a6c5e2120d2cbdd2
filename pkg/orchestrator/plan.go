// Package orchestrator owns a preview session: it applies actions through
// the reducer, redraws only the surfaces an action touched, and applies
// asynchronous image loads in request order.
package orchestrator

import "github.com/xob0t/GoLogo/pkg/preview"

// Plan lists the surfaces to redraw after a state change. Layer is -1
// when no single layer is targeted.
type Plan struct {
	Background bool
	AllLayers  bool
	Layer      int
}

// Full redraws everything; used on mount and replace.
var Full = Plan{Background: true, AllLayers: true, Layer: -1}

// PlanFor maps the action tag of a new state version to the surfaces it
// invalidates.
func PlanFor(a preview.Action) Plan {
	if a == nil {
		return Full
	}
	switch a.Type() {
	case preview.ActionCanvasRes:
		return Full
	case preview.ActionCanvasColor:
		return Plan{Background: true, Layer: -1}
	case preview.ActionCanvasPadding, preview.ActionIconPadding:
		return Plan{AllLayers: true, Layer: -1}
	case preview.ActionLayerImage, preview.ActionLayerColor:
		if la, ok := a.(preview.LayerAction); ok {
			return Plan{Layer: la.LayerIndex()}
		}
	}
	return Full
}

// Empty reports whether the plan redraws nothing.
func (p Plan) Empty() bool {
	return !p.Background && !p.AllLayers && p.Layer < 0
}
