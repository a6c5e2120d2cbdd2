//go:build js && wasm

// GoLogo WASM — live preview in the browser.
// Compiled with: GOOS=js GOARCH=wasm go build -o gologo.wasm ./clients/wasm/
//
// All exported functions run on the JS event loop, which makes it the
// single owner of the session. Image loads finish on goroutines and are
// applied by goFlush; the page calls it from requestAnimationFrame.
package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"syscall/js"

	"github.com/xob0t/GoLogo/internal/logger"
	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/export"
	"github.com/xob0t/GoLogo/pkg/logo"
	"github.com/xob0t/GoLogo/pkg/orchestrator"
	"github.com/xob0t/GoLogo/pkg/preview"
)

var (
	store   = asset.NewStore()
	log     *logger.Logger
	session *orchestrator.Session
	dirty   = map[string]bool{}
)

func main() {
	log, _ = logger.New(logger.Options{Level: "info"})
	session = orchestrator.New(nil, store,
		orchestrator.WithLogger(log),
		orchestrator.WithDrawObserver(markDirty),
	)
	log.Info("GoLogo WASM loaded")

	js.Global().Set("goRegisterAsset", js.FuncOf(registerAsset))
	js.Global().Set("goRemoveAsset", js.FuncOf(removeAsset))
	js.Global().Set("goImportLogo", js.FuncOf(importLogo))
	js.Global().Set("goDispatch", js.FuncOf(dispatch))
	js.Global().Set("goFlush", js.FuncOf(flush))
	js.Global().Set("goSurface", js.FuncOf(surface))
	js.Global().Set("goExport", js.FuncOf(exportImage))
	js.Global().Set("goReady", js.ValueOf(true))

	select {}
}

func markDirty(e orchestrator.DrawEvent) {
	if e.Target == orchestrator.TargetBackground {
		dirty["background"] = true
		return
	}
	dirty[fmt.Sprintf("layer:%d", e.Index)] = true
}

// takeDirty returns the surfaces redrawn since the last call.
func takeDirty() []any {
	out := make([]any, 0, len(dirty))
	for k := range dirty {
		out = append(out, k)
	}
	clear(dirty)
	return out
}

func errorValue(format string, args ...any) js.Value {
	return js.ValueOf("error: " + fmt.Sprintf(format, args...))
}

// goRegisterAsset(name, base64Data) — store an image, returns its ID.
func registerAsset(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return errorValue("need name, base64Data")
	}
	data, err := base64.StdEncoding.DecodeString(args[1].String())
	if err != nil {
		return errorValue("invalid base64: %v", err)
	}
	typ, mt, err := asset.Sniff(data)
	if err != nil {
		return errorValue("%v", err)
	}
	if _, err := asset.DecodeBytes(data, typ); err != nil {
		return errorValue("%v", err)
	}
	id := store.Add(args[0].String(), data, mt)
	return js.ValueOf(map[string]any{"id": id, "type": typ})
}

// goRemoveAsset(id)
func removeAsset(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("need id")
	}
	if !store.Remove(args[0].String()) {
		return errorValue("asset %s not found", args[0].String())
	}
	return js.ValueOf("ok")
}

// goImportLogo(logoJSON, selectionJSON) — replace the session state.
func importLogo(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("need logoJSON")
	}
	l, err := logo.Decode("logo.json", []byte(args[0].String()), logo.FormatJSON)
	if err != nil {
		return errorValue("%v", err)
	}
	var sel logo.Selection
	if len(args) > 1 && args[1].Type() == js.TypeString {
		if err := json.Unmarshal([]byte(args[1].String()), &sel); err != nil {
			return errorValue("parse selection: %v", err)
		}
	}
	if err := session.Import(context.Background(), l, sel); err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf(takeDirty())
}

// goDispatch(actionJSON) — apply one edit, returns the redrawn surfaces.
func dispatch(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("need actionJSON")
	}
	a, err := preview.DecodeAction([]byte(args[0].String()))
	if err != nil {
		return errorValue("%v", err)
	}
	if err := session.Dispatch(a); err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf(takeDirty())
}

// goFlush() — apply finished loads, returns the redrawn surfaces.
func flush(this js.Value, args []js.Value) any {
	session.Flush()
	return js.ValueOf(map[string]any{
		"dirty":   takeDirty(),
		"pending": session.Pending(),
	})
}

// goSurface(name) — raw NRGBA pixels of "background" or a layer index,
// for putImageData.
func surface(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorValue("need surface name")
	}
	var img *image.NRGBA
	if args[0].Type() == js.TypeNumber {
		var ok bool
		if img, ok = session.Layer(args[0].Int()); !ok {
			return errorValue("no layer %d", args[0].Int())
		}
	} else {
		img = session.Background()
	}
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return js.ValueOf(map[string]any{"width": 0, "height": 0})
	}
	buf := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(buf, img.Pix)
	return js.ValueOf(map[string]any{"width": w, "height": h, "pixels": buf})
}

// goExport(ext, quality) — flattened image as base64.
func exportImage(this js.Value, args []js.Value) any {
	ext := ".png"
	if len(args) > 0 {
		ext = args[0].String()
	}
	opts := export.Options{}
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		opts.JPEGQuality = args[1].Int()
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, ext, session.Export(), opts); err != nil {
		return errorValue("export: %v", err)
	}
	return js.ValueOf(map[string]any{
		"data": base64.StdEncoding.EncodeToString(buf.Bytes()),
		"mime": export.ContentType(ext),
	})
}
