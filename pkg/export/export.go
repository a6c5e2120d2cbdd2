// Package export writes flattened logos to raster files.
//
// The format is inferred from the file extension: .png, .jpg/.jpeg,
// .bmp and .tif/.tiff. PNG, BMP and TIFF keep the alpha channel; JPEG
// drops it.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultJPEGQuality is used when Options.JPEGQuality is zero.
const DefaultJPEGQuality = 95

// ErrUnsupportedFormat is returned for extensions no encoder handles.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Options tunes encoders that have settings.
type Options struct {
	JPEGQuality int // 1..100
}

// Encoder writes img in one format.
type Encoder interface {
	Encode(w io.Writer, img image.Image, opts Options) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(w io.Writer, img image.Image, opts Options) error

func (f EncoderFunc) Encode(w io.Writer, img image.Image, opts Options) error {
	return f(w, img, opts)
}

var encoders = map[string]Encoder{
	".png": EncoderFunc(func(w io.Writer, img image.Image, _ Options) error {
		return png.Encode(w, img)
	}),
	".jpg":  EncoderFunc(encodeJPEG),
	".jpeg": EncoderFunc(encodeJPEG),
	".bmp": EncoderFunc(func(w io.Writer, img image.Image, _ Options) error {
		return bmp.Encode(w, img)
	}),
	".tif":  EncoderFunc(encodeTIFF),
	".tiff": EncoderFunc(encodeTIFF),
}

func encodeJPEG(w io.Writer, img image.Image, opts Options) error {
	q := opts.JPEGQuality
	if q == 0 {
		q = DefaultJPEGQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: min(max(q, 1), 100)})
}

func encodeTIFF(w io.Writer, img image.Image, _ Options) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// Formats lists the supported extensions, sorted.
func Formats() []string {
	out := make([]string, 0, len(encoders))
	for ext := range encoders {
		out = append(out, ext)
	}
	slices.Sort(out)
	return out
}

// Normalize turns "PNG", "png" or ".png" into ".png".
func Normalize(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ContentType returns the MIME type for a supported extension.
func ContentType(ext string) string {
	switch Normalize(ext) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".bmp":
		return "image/bmp"
	case ".tif", ".tiff":
		return "image/tiff"
	}
	return "application/octet-stream"
}

// Encode writes img to w in the format named by ext.
func Encode(w io.Writer, ext string, img image.Image, opts Options) error {
	ext = Normalize(ext)
	enc, ok := encoders[ext]
	if !ok {
		return fmt.Errorf("%w %q: use one of %s", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}
	if err := enc.Encode(w, img, opts); err != nil {
		return fmt.Errorf("encode %s: %w", strings.TrimPrefix(ext, "."), err)
	}
	return nil
}

// Write encodes img to a file, choosing the format from the path.
func Write(output string, img image.Image, opts Options) error {
	ext := filepath.Ext(output)
	if _, ok := encoders[Normalize(ext)]; !ok {
		return fmt.Errorf("%w %q: use one of %s", ErrUnsupportedFormat, ext, strings.Join(Formats(), ", "))
	}

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}

	if err := Encode(f, ext, img, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", output, err)
	}
	return nil
}
