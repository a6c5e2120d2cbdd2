package export

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func sample() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 6))
	for y := 0; y < 6; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8(x * 30), uint8(y * 40), 200, 255})
		}
	}
	return img
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ext    string
		format string
		exact  bool
	}{
		{ext: ".png", format: "png", exact: true},
		{ext: "bmp", format: "bmp", exact: true},
		{ext: ".TIFF", format: "tiff", exact: true},
		{ext: ".jpg", format: "jpeg"},
	}

	for _, tc := range cases {
		t.Run(tc.ext, func(t *testing.T) {
			t.Parallel()

			src := sample()
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, tc.ext, src, Options{}))

			got, format, err := image.Decode(&buf)
			require.NoError(t, err)
			require.Equal(t, tc.format, format)
			require.Equal(t, src.Bounds(), got.Bounds())
			if tc.exact {
				for _, p := range []image.Point{{0, 0}, {7, 5}, {3, 2}} {
					r1, g1, b1, a1 := src.At(p.X, p.Y).RGBA()
					r2, g2, b2, a2 := got.At(p.X, p.Y).RGBA()
					require.Equal(t, []uint32{r1, g1, b1, a1}, []uint32{r2, g2, b2, a2}, "pixel %v", p)
				}
			}
		})
	}
}

func TestEncodePNGKeepsStraightAlpha(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0, 255, 0, 128})

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "png", src, Options{}))
	got, _, err := image.Decode(&buf)
	require.NoError(t, err)

	nrgba, ok := got.(*image.NRGBA)
	require.True(t, ok)
	require.Equal(t, color.NRGBA{0, 255, 0, 128}, nrgba.NRGBAAt(0, 0))
}

func TestEncodeUnsupported(t *testing.T) {
	t.Parallel()

	err := Encode(&bytes.Buffer{}, ".avi", sample(), Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Contains(t, err.Error(), ".png")
}

func TestJPEGQualityAffectsSize(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for i := range src.Pix {
		src.Pix[i] = uint8(i * 7)
	}

	var low, high bytes.Buffer
	require.NoError(t, Encode(&low, ".jpeg", src, Options{JPEGQuality: 10}))
	require.NoError(t, Encode(&high, ".jpeg", src, Options{JPEGQuality: 100}))
	require.Less(t, low.Len(), high.Len())
}

func TestWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "logo.png")
	require.NoError(t, Write(path, sample(), Options{}))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	require.NoError(t, err)
	require.Equal(t, "png", format)
	require.Equal(t, 8, cfg.Width)

	err = Write(filepath.Join(dir, "logo.gif"), sample(), Options{})
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	_, statErr := os.Stat(filepath.Join(dir, "logo.gif"))
	require.True(t, os.IsNotExist(statErr), "no file is created for unsupported formats")
}

func TestFormatsAndContentType(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{".bmp", ".jpeg", ".jpg", ".png", ".tif", ".tiff"}, Formats())
	require.Equal(t, "image/png", ContentType("PNG"))
	require.Equal(t, "image/jpeg", ContentType(".jpg"))
	require.Equal(t, "image/tiff", ContentType("tif"))
	require.Equal(t, "application/octet-stream", ContentType("avi"))
}
