package preview

import (
	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/geometry"
	"github.com/xob0t/GoLogo/pkg/logo"
)

// ActionType tags an edit.
type ActionType string

const (
	ActionCanvasRes     ActionType = "c-res"
	ActionCanvasColor   ActionType = "c-color"
	ActionCanvasPadding ActionType = "c-padding"
	ActionIconPadding   ActionType = "i-padding"
	ActionLayerImage    ActionType = "l-img"
	ActionLayerColor    ActionType = "l-color"
)

// Action is a discrete user edit.
type Action interface {
	Type() ActionType
}

// LayerAction is implemented by actions that target a single layer.
type LayerAction interface {
	Action
	LayerIndex() int
}

type SetCanvasRes struct{ Res geometry.Resolution }

type SetCanvasColor struct{ Color *logo.Color }

type SetCanvasPadding struct{ Padding float64 }

type SetIconPadding struct{ Padding float64 }

// SetLayerImage sets layer Index's image; Index == len appends.
type SetLayerImage struct {
	Index int
	Image *asset.Handle
}

// SetLayerColor sets layer Index's color; Index == len appends an
// image-less layer.
type SetLayerColor struct {
	Index int
	Color *logo.Color
}

func (SetCanvasRes) Type() ActionType     { return ActionCanvasRes }
func (SetCanvasColor) Type() ActionType   { return ActionCanvasColor }
func (SetCanvasPadding) Type() ActionType { return ActionCanvasPadding }
func (SetIconPadding) Type() ActionType   { return ActionIconPadding }
func (SetLayerImage) Type() ActionType    { return ActionLayerImage }
func (SetLayerColor) Type() ActionType    { return ActionLayerColor }

func (a SetLayerImage) LayerIndex() int { return a.Index }
func (a SetLayerColor) LayerIndex() int { return a.Index }
