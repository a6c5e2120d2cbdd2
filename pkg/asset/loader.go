// loader.go — Asynchronous loaders. A loader never blocks its caller; it
// reports through the done callback, possibly from another goroutine.
package asset

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"

	"github.com/xob0t/GoLogo/internal/logger"
)

// Loader starts loading src and calls done exactly once with the result.
type Loader interface {
	Load(ctx context.Context, src Source, done func(image.Image, error))
}

// LoaderFunc adapts a blocking function into a Loader that runs it on
// its own goroutine.
type LoaderFunc func(ctx context.Context, src Source) (image.Image, error)

func (f LoaderFunc) Load(ctx context.Context, src Source, done func(image.Image, error)) {
	go func() {
		if err := ctx.Err(); err != nil {
			done(nil, err)
			return
		}
		done(f(ctx, src))
	}()
}

// FileLoader decodes images from disk. Relative paths are joined to Root.
// A confined loader only reads local paths below Root.
type FileLoader struct {
	Root     string
	Confined bool
	Log      *logger.Logger
}

func (l *FileLoader) Load(ctx context.Context, src Source, done func(image.Image, error)) {
	LoaderFunc(l.load).Load(ctx, src, done)
}

func (l *FileLoader) load(_ context.Context, src Source) (image.Image, error) {
	path := src.Path
	if l.Confined && !filepath.IsLocal(path) {
		return nil, ErrNotFound
	}
	if !filepath.IsAbs(path) && l.Root != "" {
		path = filepath.Join(l.Root, path)
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := Decode(f, src.Type)
	if err != nil {
		return nil, err
	}
	l.Log.With("path", path).Debug("asset decoded")
	return img, nil
}

// Fallback tries each loader in order, moving on only when one reports
// ErrNotFound.
type Fallback []Loader

func (fb Fallback) Load(ctx context.Context, src Source, done func(image.Image, error)) {
	if len(fb) == 0 {
		done(nil, ErrNotFound)
		return
	}
	fb[0].Load(ctx, src, func(img image.Image, err error) {
		if errors.Is(err, ErrNotFound) && len(fb) > 1 {
			fb[1:].Load(ctx, src, done)
			return
		}
		done(img, err)
	})
}
