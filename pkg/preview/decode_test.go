package preview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/geometry"
)

func TestDecodeAction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want Action
	}{
		{name: "resolution", in: `{"type":"c-res","payload":{"w":300,"h":150}}`, want: SetCanvasRes{Res: geometry.Resolution{W: 300, H: 150}}},
		{name: "canvas color", in: `{"type":"c-color","payload":{"color":"#ff0000"}}`, want: SetCanvasColor{Color: color("#ff0000")}},
		{name: "canvas color null", in: `{"type":"c-color","payload":{"color":null}}`, want: SetCanvasColor{}},
		{name: "canvas color none", in: `{"type":"c-color","payload":{"color":"none"}}`, want: SetCanvasColor{}},
		{name: "canvas padding", in: `{"type":"c-padding","payload":{"padding":0.25}}`, want: SetCanvasPadding{Padding: 0.25}},
		{name: "icon padding", in: `{"type":"i-padding","payload":{"padding":0}}`, want: SetIconPadding{}},
		{name: "layer color", in: `{"type":"l-color","payload":{"index":2,"color":"rgb(0,255,0)"}}`, want: SetLayerColor{Index: 2, Color: color("#00ff00")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := DecodeAction([]byte(tc.in))
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeLayerImage(t *testing.T) {
	t.Parallel()

	a, err := DecodeAction([]byte(`{"type":"l-img","payload":{"index":1,"path":"assets/mark.PNG"}}`))
	require.NoError(t, err)
	img, ok := a.(SetLayerImage)
	require.True(t, ok)
	require.Equal(t, 1, img.Index)
	require.Equal(t, asset.Source{Path: "assets/mark.PNG", Type: "png"}, img.Image.Source())
	require.False(t, img.Image.Done())

	a, err = DecodeAction([]byte(`{"type":"l-img","payload":{"index":0,"path":"3fa2","type":"webp"}}`))
	require.NoError(t, err)
	require.Equal(t, "webp", a.(SetLayerImage).Image.Source().Type)
}

func TestDecodeActionRejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{name: "not json", in: `{`},
		{name: "missing payload", in: `{"type":"c-res"}`},
		{name: "zero width", in: `{"type":"c-res","payload":{"w":0,"h":10}}`},
		{name: "padding above one", in: `{"type":"c-padding","payload":{"padding":1.5}}`},
		{name: "negative padding", in: `{"type":"i-padding","payload":{"padding":-0.1}}`},
		{name: "bad color", in: `{"type":"l-color","payload":{"index":0,"color":"#12"}}`},
		{name: "negative index", in: `{"type":"l-color","payload":{"index":-1}}`},
		{name: "image without path", in: `{"type":"l-img","payload":{"index":0}}`},
		{name: "wrong payload shape", in: `{"type":"c-padding","payload":{"padding":"wide"}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeAction([]byte(tc.in))
			require.Error(t, err)
		})
	}

	_, err := DecodeAction([]byte(`{"type":"x-spin","payload":{}}`))
	require.ErrorIs(t, err, ErrUnknownAction)
}
