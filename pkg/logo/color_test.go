package logo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "#ff0000ff", want: "#ff0000ff"},
		{in: "#FF0000", want: "#ff0000ff"},
		{in: "#00ff0080", want: "#00ff0080"},
		{in: "#abc", want: "#aabbccff"},
		{in: "#abcd", want: "#aabbccdd"},
		{in: "rgb(1,2,3)", want: "#010203ff"},
		{in: "rgba(255, 0, 0, 0.5)", want: "#ff000080"},
		{in: "rgba(0,0,0,0)", want: "#00000000"},
		{in: "  #000000  ", want: "#000000ff"},
		{in: "#12345", wantErr: true},
		{in: "#gg0000", wantErr: true},
		{in: "rgb(256,0,0)", wantErr: true},
		{in: "rgb(1,2)", wantErr: true},
		{in: "rgba(1,2,3,1.5)", wantErr: true},
		{in: "red", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			got, err := Normalize(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseOptionalColor(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "none", "NULL", "transparent"} {
		c, err := ParseOptionalColor(s)
		require.NoError(t, err)
		require.Nil(t, c, s)
	}

	c, err := ParseOptionalColor("#00000000")
	require.NoError(t, err)
	require.NotNil(t, c, "zero alpha is a color, not the absence of one")
	require.Equal(t, Color{}, *c)
}

func TestColorTextRoundTrip(t *testing.T) {
	t.Parallel()

	var c Color
	require.NoError(t, c.UnmarshalText([]byte("rgb(16,32,48)")))
	text, err := c.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "#102030ff", string(text))
	require.Error(t, c.UnmarshalText([]byte("nope")))
}

func TestEqualColors(t *testing.T) {
	t.Parallel()

	a := MustParseColor("#010203ff")
	b := MustParseColor("rgb(1,2,3)")
	require.True(t, EqualColors(nil, nil))
	require.True(t, EqualColors(&a, &b))
	require.False(t, EqualColors(&a, nil))
	zero := Color{}
	require.False(t, EqualColors(nil, &zero))
}
