// Package asset loads layer images asynchronously and hands them out as
// opaque handles that become renderable once their load completes.
package asset

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
)

// Source identifies a layer image: a file path or store ID, plus its type.
type Source struct {
	Path string
	Type string
}

// SourceFor builds a Source from a file name, taking the type from its extension.
func SourceFor(file string) Source {
	return Source{Path: file, Type: strings.TrimPrefix(strings.ToLower(filepath.Ext(file)), ".")}
}

func (s Source) String() string { return s.Path }

// Handle is a reference to an image that may still be loading. It is
// resolved at most once by the goroutine that owns the session.
type Handle struct {
	src  Source
	img  image.Image
	err  error
	done bool
}

// NewHandle returns a pending handle for src.
func NewHandle(src Source) *Handle {
	return &Handle{src: src}
}

// Loaded returns an already-resolved handle.
func Loaded(src Source, img image.Image) *Handle {
	return &Handle{src: src, img: img, done: true}
}

func (h *Handle) Source() Source { return h.src }

// Image returns the decoded image, or nil while pending or after a failure.
func (h *Handle) Image() image.Image {
	if h == nil {
		return nil
	}
	return h.img
}

// Ready reports whether the handle holds a decoded image.
func (h *Handle) Ready() bool { return h != nil && h.img != nil }

// Done reports whether the load finished, successfully or not.
func (h *Handle) Done() bool { return h != nil && h.done }

// Err returns the load failure, if any.
func (h *Handle) Err() error {
	if h == nil {
		return nil
	}
	return h.err
}

// Resolve records the load result. Later calls are ignored.
func (h *Handle) Resolve(img image.Image, err error) {
	if h.done {
		return
	}
	h.done = true
	if err != nil {
		h.err = &LoadError{Source: h.src, Err: err}
		return
	}
	h.img = img
}

// LoadError reports an asset that could not be read or decoded. It is
// recorded on the handle and never aborts rendering.
type LoadError struct {
	Source Source
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %v", e.Source, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }
