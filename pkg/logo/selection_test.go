package logo

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoLogo/pkg/geometry"
)

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	l, err := Decode("example", []byte(ExampleJSON()), FormatJSON)
	require.NoError(t, err)

	r, err := l.Resolve(Selection{})
	require.NoError(t, err)
	require.Equal(t, geometry.Resolution{W: 500, H: 500}, r.Res)
	require.NotNil(t, r.CanvasColor)
	require.Equal(t, "#ffffffff", r.CanvasColor.String())
	require.Len(t, r.Layers, 2)
	for _, layer := range r.Layers {
		require.Nil(t, layer.Color, "layers stay transparent until chosen")
	}
}

func TestResolveChoices(t *testing.T) {
	t.Parallel()

	l, err := Decode("example", []byte(ExampleJSON()), FormatJSON)
	require.NoError(t, err)

	r, err := l.Resolve(Selection{
		Ratio:       1,
		Dir:         "l",
		Multiplier:  10,
		CanvasColor: "none",
		LayerColors: []string{"2", "#123456"},
	})
	require.NoError(t, err)
	require.Equal(t, geometry.Resolution{W: 30, H: 20}, r.Res)
	require.Nil(t, r.CanvasColor)
	require.Equal(t, "#16213ecc", r.Layers[0].Color.String())
	require.Equal(t, "#123456ff", r.Layers[1].Color.String())

	r, err = l.Resolve(Selection{Ratio: 1, Multiplier: 10})
	require.NoError(t, err)
	require.Equal(t, geometry.Resolution{W: 20, H: 30}, r.Res, "portrait is preferred when allowed")
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	l, err := Decode("example", []byte(ExampleJSON()), FormatJSON)
	require.NoError(t, err)

	_, err = l.Resolve(Selection{Ratio: 9})
	require.Error(t, err)

	_, err = l.Resolve(Selection{Ratio: 2, Dir: "p"})
	require.ErrorIs(t, err, geometry.ErrOrientationNotAllowed)

	_, err = l.Resolve(Selection{CanvasColor: "7"})
	require.Error(t, err)

	_, err = l.Resolve(Selection{LayerColors: []string{"bogus"}})
	require.Error(t, err)
}

func TestResolveWithoutPaletteIsTransparent(t *testing.T) {
	t.Parallel()

	l := &Logo{Icon: Icon{Padding: 0.2}}
	r, err := l.Resolve(Selection{})
	require.NoError(t, err)
	require.Nil(t, r.CanvasColor)
	require.Equal(t, geometry.Resolution{W: 500, H: 500}, r.Res)
	require.InDelta(t, 0.2, r.Padding, 1e-9)
}
