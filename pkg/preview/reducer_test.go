package preview

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/geometry"
	"github.com/xob0t/GoLogo/pkg/logo"
)

func color(s string) *logo.Color {
	c := logo.MustParseColor(s)
	return &c
}

func mustReduce(t *testing.T, s *State, a Action) *State {
	t.Helper()
	next, err := Reduce(s, a)
	require.NoError(t, err)
	return next
}

func TestInitial(t *testing.T) {
	t.Parallel()

	s := Initial()
	require.Equal(t, geometry.Resolution{W: 500, H: 500}, s.Canvas.Res)
	require.Nil(t, s.Canvas.Color)
	require.InDelta(t, 0.1, s.Icon.Padding, 1e-9)
	require.Empty(t, s.Icon.Layers)
	require.Nil(t, s.Last)
}

func TestReduceCanvasActions(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		action Action
		check  func(t *testing.T, s *State)
	}{
		{
			name:   "resolution",
			action: SetCanvasRes{Res: geometry.Resolution{W: 200, H: 100}},
			check: func(t *testing.T, s *State) {
				require.Equal(t, geometry.Resolution{W: 200, H: 100}, s.Canvas.Res)
			},
		},
		{
			name:   "color",
			action: SetCanvasColor{Color: color("#ff0000ff")},
			check: func(t *testing.T, s *State) {
				require.Equal(t, "#ff0000ff", s.Canvas.Color.String())
			},
		},
		{
			name:   "canvas padding",
			action: SetCanvasPadding{Padding: 0.3},
			check: func(t *testing.T, s *State) {
				require.InDelta(t, 0.3, s.Canvas.Padding, 1e-9)
			},
		},
		{
			name:   "icon padding",
			action: SetIconPadding{Padding: 0.5},
			check: func(t *testing.T, s *State) {
				require.InDelta(t, 0.5, s.Icon.Padding, 1e-9)
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			prev := Initial()
			next := mustReduce(t, prev, tc.action)
			require.NotSame(t, prev, next)
			require.Equal(t, tc.action, next.Last)
			tc.check(t, next)

			again := mustReduce(t, next, tc.action)
			require.Same(t, next, again, "unchanged value returns the same version")
		})
	}
}

func TestReduceRepeatedNaNPaddingIsNoop(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{SetCanvasPadding{Padding: math.NaN()}, SetIconPadding{Padding: math.NaN()}} {
		first := mustReduce(t, Initial(), a)
		second, err := Reduce(first, a)
		require.NoError(t, err)
		require.Same(t, first, second, "%s", a.Type())
	}
}

func TestReduceCanvasColorNilIsDistinctFromTransparent(t *testing.T) {
	t.Parallel()

	s := Initial()
	next := mustReduce(t, s, SetCanvasColor{Color: nil})
	require.Same(t, s, next)

	next = mustReduce(t, s, SetCanvasColor{Color: color("#00000000")})
	require.NotSame(t, s, next)
	require.NotNil(t, next.Canvas.Color)

	back := mustReduce(t, next, SetCanvasColor{Color: nil})
	require.Nil(t, back.Canvas.Color)
}

func TestReduceLayerIndexLaw(t *testing.T) {
	t.Parallel()

	s := Initial()
	h0 := asset.NewHandle(asset.Source{Path: "a.png", Type: "png"})
	h1 := asset.NewHandle(asset.Source{Path: "b.png", Type: "png"})

	s1 := mustReduce(t, s, SetLayerImage{Index: 0, Image: h0})
	require.Len(t, s1.Icon.Layers, 1)
	require.Same(t, h0, s1.Icon.Layers[0].Image)
	require.Empty(t, s.Icon.Layers, "input state is not mutated")

	s2 := mustReduce(t, s1, SetLayerImage{Index: 1, Image: h1})
	require.Len(t, s2.Icon.Layers, 2)
	require.Len(t, s1.Icon.Layers, 1)

	for _, bad := range []Action{
		SetLayerImage{Index: 3, Image: h0},
		SetLayerColor{Index: 3, Color: color("#fff")},
		SetLayerImage{Index: -1, Image: h0},
	} {
		out, err := Reduce(s2, bad)
		require.ErrorIs(t, err, ErrInvalidLayerIndex)
		var idxErr *InvalidLayerIndexError
		require.ErrorAs(t, err, &idxErr)
		require.Equal(t, 2, idxErr.Len)
		require.Same(t, s2, out)
		require.Len(t, s2.Icon.Layers, 2)
	}

	same := mustReduce(t, s2, SetLayerImage{Index: 0, Image: h0})
	require.Same(t, s2, same)
}

func TestReduceLayerColor(t *testing.T) {
	t.Parallel()

	s := Initial()
	s1 := mustReduce(t, s, SetLayerColor{Index: 0, Color: color("#00000000")})
	require.Len(t, s1.Icon.Layers, 1)
	require.Nil(t, s1.Icon.Layers[0].Image, "image-less layers are allowed")
	require.Equal(t, "#00000000", s1.Icon.Layers[0].Color.String())

	s2 := mustReduce(t, s1, SetLayerColor{Index: 0, Color: color("#ff0000")})
	require.Equal(t, "#ff0000ff", s2.Icon.Layers[0].Color.String())
	require.Equal(t, "#00000000", s1.Icon.Layers[0].Color.String(), "previous version keeps its color")

	require.Same(t, s2, mustReduce(t, s2, SetLayerColor{Index: 0, Color: color("rgb(255,0,0)")}))
}

func TestScenarioActionTagFollowsLastEdit(t *testing.T) {
	t.Parallel()

	s := Initial()
	s = mustReduce(t, s, SetCanvasRes{Res: geometry.Resolution{W: 200, H: 200}})
	s = mustReduce(t, s, SetLayerColor{Index: 0, Color: color("#00000000")})

	require.Equal(t, ActionLayerColor, s.Last.Type())
	la, ok := s.Last.(LayerAction)
	require.True(t, ok)
	require.Equal(t, 0, la.LayerIndex())
	require.Equal(t, geometry.Resolution{W: 200, H: 200}, s.Canvas.Res)
}

type bogusAction struct{}

func (bogusAction) Type() ActionType { return "x-bogus" }

func TestReduceUnknownAction(t *testing.T) {
	t.Parallel()

	s := Initial()
	out, err := Reduce(s, bogusAction{})
	require.ErrorIs(t, err, ErrUnknownAction)
	require.Same(t, s, out)

	_, err = Reduce(s, nil)
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestFromResolvedAndLayerPadding(t *testing.T) {
	t.Parallel()

	r := &logo.Resolved{
		Res:     geometry.Resolution{W: 30, H: 20},
		Padding: 0.7,
		Layers:  []logo.ResolvedLayer{{File: "a.png", Color: color("#fff")}, {File: "b.png"}},
	}
	s := FromResolved(r)
	require.Len(t, s.Icon.Layers, 2)
	require.Nil(t, s.Icon.Layers[0].Image)
	require.Nil(t, s.Icon.Layers[1].Color)
	require.Nil(t, s.Last)

	s.Canvas.Padding = 0.5
	require.InDelta(t, 1.0, s.LayerPadding(), 1e-9)
}
