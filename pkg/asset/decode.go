// decode.go — Raster decoding for layer assets.
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	// Registered decoders.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	// ErrUnsupportedFormat is returned for vector layers, which are not rasterized.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrNotFound is returned by loaders that do not know a source.
	ErrNotFound = errors.New("asset not found")
)

// Decode reads a raster image. typ is the declared layer type; "svg" is
// rejected, anything else is sniffed from the data.
func Decode(r io.Reader, typ string) (image.Image, error) {
	if strings.EqualFold(typ, "svg") {
		return nil, fmt.Errorf("%w: svg", ErrUnsupportedFormat)
	}
	img, _, err := image.Decode(r)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	if b := img.Bounds(); b.Empty() {
		return nil, fmt.Errorf("decode: empty image %v", b)
	}
	return img, nil
}

// DecodeBytes is Decode over an in-memory buffer.
func DecodeBytes(data []byte, typ string) (image.Image, error) {
	return Decode(bytes.NewReader(data), typ)
}

var rasterTypes = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/bmp":  "bmp",
	"image/tiff": "tiff",
	"image/webp": "webp",
}

// Sniff detects the raster type of data from its content, ignoring any
// file name. It returns the layer type and the detected MIME type.
func Sniff(data []byte) (typ, mime string, err error) {
	mt := mimetype.Detect(data)
	typ, ok := rasterTypes[mt.String()]
	if !ok {
		return "", mt.String(), fmt.Errorf("%w: %s", ErrUnsupportedFormat, mt.String())
	}
	return typ, mt.String(), nil
}
