package asset

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type result struct {
	img image.Image
	err error
}

func load(t *testing.T, l Loader, src Source) result {
	t.Helper()
	ch := make(chan result, 1)
	l.Load(context.Background(), src, func(img image.Image, err error) {
		ch <- result{img, err}
	})
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("loader never called back")
		return result{}
	}
}

func TestDecodeFormats(t *testing.T) {
	t.Parallel()

	img, err := DecodeBytes(pngBytes(t, 4, 3), "png")
	require.NoError(t, err)
	require.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	img, err = DecodeBytes(buf.Bytes(), "bmp")
	require.NoError(t, err)
	require.Equal(t, 2, img.Bounds().Dx())

	_, err = DecodeBytes([]byte("<svg/>"), "svg")
	require.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = DecodeBytes([]byte("not an image"), "png")
	require.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestSniff(t *testing.T) {
	t.Parallel()

	typ, mime, err := Sniff(pngBytes(t, 2, 2))
	require.NoError(t, err)
	require.Equal(t, "png", typ)
	require.Equal(t, "image/png", mime)

	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	typ, _, err = Sniff(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "bmp", typ)

	_, mime, err = Sniff([]byte("just some text"))
	require.ErrorIs(t, err, ErrUnsupportedFormat)
	require.Contains(t, mime, "text/plain")
}

func TestHandleResolveOnce(t *testing.T) {
	t.Parallel()

	h := NewHandle(SourceFor("art/ring.PNG"))
	require.Equal(t, "png", h.Source().Type)
	require.False(t, h.Done())
	require.Nil(t, h.Image())

	h.Resolve(nil, errors.New("truncated"))
	require.True(t, h.Done())
	require.False(t, h.Ready())
	var loadErr *LoadError
	require.ErrorAs(t, h.Err(), &loadErr)
	require.Equal(t, "art/ring.PNG", loadErr.Source.Path)

	h.Resolve(image.NewNRGBA(image.Rect(0, 0, 1, 1)), nil)
	require.Nil(t, h.Image(), "a handle resolves once")

	var nilHandle *Handle
	require.Nil(t, nilHandle.Image())
	require.False(t, nilHandle.Ready())
}

func TestFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mark.png"), pngBytes(t, 5, 5), 0o644))

	l := &FileLoader{Root: dir}
	r := load(t, l, Source{Path: "mark.png", Type: "png"})
	require.NoError(t, r.err)
	require.Equal(t, 5, r.img.Bounds().Dx())

	r = load(t, l, Source{Path: "missing.png", Type: "png"})
	require.ErrorIs(t, r.err, ErrNotFound)
}

func TestLoaderFuncHonorsCancelledContext(t *testing.T) {
	t.Parallel()

	called := false
	l := LoaderFunc(func(context.Context, Source) (image.Image, error) {
		called = true
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ch := make(chan error, 1)
	l.Load(ctx, Source{}, func(_ image.Image, err error) { ch <- err })
	require.ErrorIs(t, <-ch, context.Canceled)
	require.False(t, called)
}

func TestStoreAndFallback(t *testing.T) {
	t.Parallel()

	store := NewStore()
	id := store.Add("ring.png", pngBytes(t, 2, 2), "image/png")
	store.Add("another.png", []byte("x"), "image/png")

	e, ok := store.Get(id)
	require.True(t, ok)
	require.Equal(t, "ring.png", e.Name)
	require.Len(t, store.List(), 2)
	require.Equal(t, "another.png", store.List()[0].Name)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "disk.png"), pngBytes(t, 3, 3), 0o644))

	chain := Fallback{store, &FileLoader{Root: dir}}

	r := load(t, chain, Source{Path: id, Type: "png"})
	require.NoError(t, r.err)
	require.Equal(t, 2, r.img.Bounds().Dx())

	r = load(t, chain, Source{Path: "disk.png", Type: "png"})
	require.NoError(t, r.err)
	require.Equal(t, 3, r.img.Bounds().Dx())

	r = load(t, chain, Source{Path: "nowhere.png", Type: "png"})
	require.ErrorIs(t, r.err, ErrNotFound)

	require.True(t, store.Remove(id))
	require.False(t, store.Remove(id))
	_, ok = store.Get(id)
	require.False(t, ok)
}

func TestStoreIDsAreUniqueAndPathSafe(t *testing.T) {
	t.Parallel()

	store := NewStore()
	seen := make(map[string]bool)
	for range 100 {
		id := store.Add("a.png", nil, "image/png")
		require.Len(t, id, 26)
		require.Regexp(t, `^[a-z2-7]+$`, id)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
	require.Len(t, store.List(), 100)
}

func TestStoreResolvesLayerFileNames(t *testing.T) {
	t.Parallel()

	store := NewStore()
	id := store.Add("mark.png", pngBytes(t, 4, 4), "image/png")

	r := load(t, store, Source{Path: id + ".png", Type: "png"})
	require.NoError(t, r.err)
	require.Equal(t, 4, r.img.Bounds().Dx())
}

func TestConfinedFileLoader(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.png"), pngBytes(t, 1, 1), 0o644))
	outside := filepath.Join(t.TempDir(), "secret.png")
	require.NoError(t, os.WriteFile(outside, pngBytes(t, 1, 1), 0o644))

	l := &FileLoader{Root: dir, Confined: true}
	require.NoError(t, load(t, l, Source{Path: "ok.png", Type: "png"}).err)
	require.ErrorIs(t, load(t, l, Source{Path: outside, Type: "png"}).err, ErrNotFound)
	require.ErrorIs(t, load(t, l, Source{Path: "../secret.png", Type: "png"}).err, ErrNotFound)
}
