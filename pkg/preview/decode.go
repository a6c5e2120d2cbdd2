// decode.go — JSON wire form of actions: {"type": "c-res", "payload": {...}}.
package preview

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/geometry"
	"github.com/xob0t/GoLogo/pkg/logo"
)

type envelope struct {
	Type    ActionType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type resPayload struct {
	W int `json:"w" validate:"min=1"`
	H int `json:"h" validate:"min=1"`
}

type colorPayload struct {
	Color *string `json:"color"`
}

type paddingPayload struct {
	Padding float64 `json:"padding" validate:"min=0,max=1"`
}

type layerImagePayload struct {
	Index int    `json:"index" validate:"min=0"`
	Path  string `json:"path" validate:"required"`
	Type  string `json:"type"`
}

type layerColorPayload struct {
	Index int     `json:"index" validate:"min=0"`
	Color *string `json:"color"`
}

var (
	payloadOnce     sync.Once
	payloadValidate *validator.Validate
)

func payloadValidator() *validator.Validate {
	payloadOnce.Do(func() {
		payloadValidate = validator.New()
	})
	return payloadValidate
}

// DecodeAction parses one action. A null or missing color means "no
// color". l-img payloads become a pending handle for the named source;
// the type defaults to the path's extension.
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}

	switch env.Type {
	case ActionCanvasRes:
		var p resPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return SetCanvasRes{Res: geometry.Resolution{W: p.W, H: p.H}}, nil

	case ActionCanvasColor:
		var p colorPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		c, err := optionalColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env.Type, err)
		}
		return SetCanvasColor{Color: c}, nil

	case ActionCanvasPadding, ActionIconPadding:
		var p paddingPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		if env.Type == ActionCanvasPadding {
			return SetCanvasPadding{Padding: p.Padding}, nil
		}
		return SetIconPadding{Padding: p.Padding}, nil

	case ActionLayerImage:
		var p layerImagePayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		src := asset.SourceFor(p.Path)
		if p.Type != "" {
			src.Type = p.Type
		}
		return SetLayerImage{Index: p.Index, Image: asset.NewHandle(src)}, nil

	case ActionLayerColor:
		var p layerColorPayload
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		c, err := optionalColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", env.Type, err)
		}
		return SetLayerColor{Index: p.Index, Color: c}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAction, env.Type)
}

func decodePayload(env envelope, v any) error {
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return fmt.Errorf("%s: %w", env.Type, err)
	}
	if err := payloadValidator().Struct(v); err != nil {
		return fmt.Errorf("%s: %w", env.Type, err)
	}
	return nil
}

func optionalColor(s *string) (*logo.Color, error) {
	if s == nil {
		return nil, nil
	}
	return logo.ParseOptionalColor(*s)
}
