// Package server provides the GoLogo HTTP API: rendering, export, asset
// uploads and .logopack bundles.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/xob0t/GoLogo/internal/config"
	"github.com/xob0t/GoLogo/internal/logger"
	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/export"
	"github.com/xob0t/GoLogo/pkg/logo"
	"github.com/xob0t/GoLogo/pkg/orchestrator"
	"github.com/xob0t/GoLogo/pkg/render"
)

// ── Server ──

type Server struct {
	cfg      *config.Config
	log      *logger.Logger
	store    *asset.Store
	loader   asset.Loader
	renderer *render.Renderer
}

// New builds a server from cfg. Layer paths resolve against the upload
// store first, then against cfg.Assets.Root when one is configured.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	interp, err := render.InterpolatorByName(cfg.Render.Interpolator)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		log:      log.With("component", "server"),
		store:    asset.NewStore(),
		renderer: render.NewRenderer(render.Options{Interpolator: interp}),
	}
	chain := asset.Fallback{s.store}
	if cfg.Assets.Root != "" {
		chain = append(chain, &asset.FileLoader{Root: cfg.Assets.Root, Confined: true, Log: s.log})
	}
	s.loader = chain
	return s, nil
}

// Store exposes the upload store.
func (s *Server) Store() *asset.Store { return s.store }

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/render", s.handleRender)
	mux.HandleFunc("POST /api/export/bundle", s.handleExportBundle)
	mux.HandleFunc("POST /api/export/{format}", s.handleExport)
	mux.HandleFunc("POST /api/upload/image", s.handleUploadImage)
	mux.HandleFunc("POST /api/import/bundle", s.handleImportBundle)
	mux.HandleFunc("GET /api/assets/{id}", s.handleGetAsset)
	mux.HandleFunc("DELETE /api/assets/{id}", s.handleDeleteAsset)
	mux.HandleFunc("GET /api/assets", s.handleListAssets)
	mux.HandleFunc("GET /api/formats", s.handleFormats)

	return s.logRequests(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	hs := &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()
	s.log.With("addr", s.cfg.Serve.Addr).Info("GoLogo API listening")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := hs.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.log.WithFields(map[string]any{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": time.Since(start).String(),
		}).Debug("request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// ── Render (core) ──

type renderRequest struct {
	Logo      json.RawMessage `json:"logo"`
	Selection logo.Selection  `json:"selection"`
}

// httpError carries the status a handler should answer with.
type httpError struct {
	status int
	err    error
}

func (e *httpError) Error() string { return e.err.Error() }
func (e *httpError) Unwrap() error { return e.err }

func badRequest(err error) error { return &httpError{status: http.StatusBadRequest, err: err} }

func (s *Server) renderImage(w http.ResponseWriter, r *http.Request) (image.Image, error) {
	ctx := r.Context()
	var req renderRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return nil, badRequest(fmt.Errorf("decode request: %w", err))
	}
	if len(req.Logo) == 0 {
		return nil, badRequest(errors.New("missing logo"))
	}

	l, err := logo.Decode("request", req.Logo, logo.FormatJSON)
	if err != nil {
		return nil, badRequest(err)
	}
	if req.Selection.Multiplier == 0 {
		req.Selection.Multiplier = s.cfg.Render.Multiplier
	}

	sess := orchestrator.New(nil, s.loader,
		orchestrator.WithLogger(s.log),
		orchestrator.WithRenderer(s.renderer),
	)
	if err := sess.Import(ctx, l, req.Selection); err != nil {
		return nil, badRequest(err)
	}
	if err := sess.Wait(ctx); err != nil {
		return nil, fmt.Errorf("load layers: %w", err)
	}

	for i, layer := range sess.State().Icon.Layers {
		if err := layer.Image.Err(); err != nil {
			return nil, &httpError{status: http.StatusUnprocessableEntity, err: fmt.Errorf("layer %d: %w", i, err)}
		}
	}
	return sess.Export(), nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.writeImage(w, r, ".png", false)
}

// ── Export ──

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ext := export.Normalize(r.PathValue("format"))
	if !isExportFormat(ext) {
		http.Error(w, fmt.Sprintf("unsupported format %q", r.PathValue("format")), http.StatusNotFound)
		return
	}
	s.writeImage(w, r, ext, true)
}

func (s *Server) writeImage(w http.ResponseWriter, r *http.Request, ext string, attachment bool) {
	img, err := s.renderImage(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, ext, img, export.Options{JPEGQuality: s.cfg.Render.JPEGQuality}); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType(ext))
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="logo%s"`, ext))
	}
	w.Write(buf.Bytes())
}

func (s *Server) handleFormats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"formats": export.Formats()})
}

func isExportFormat(ext string) bool {
	for _, f := range export.Formats() {
		if f == ext {
			return true
		}
	}
	return false
}

// handleExportBundle packs a description and the uploaded assets its
// layers reference into a .logopack.
func (s *Server) handleExportBundle(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Logo json.RawMessage `json:"logo"`
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())).Decode(&req); err != nil {
		s.fail(w, badRequest(fmt.Errorf("decode request: %w", err)))
		return
	}
	l, err := logo.Decode("request", req.Logo, logo.FormatJSON)
	if err != nil {
		s.fail(w, badRequest(err))
		return
	}

	files := make(map[string][]byte, len(l.Icon.Layers))
	for i := range l.Icon.Layers {
		layer := &l.Icon.Layers[i]
		id := strings.TrimSuffix(layer.Path, "."+layer.Type)
		e, ok := s.store.Get(id)
		if !ok {
			s.fail(w, badRequest(fmt.Errorf("layer %d: asset %q not uploaded", i, layer.Path)))
			return
		}
		layer.Path = path.Join("assets", id)
		files[layer.File()] = e.Data
	}

	var buf bytes.Buffer
	if err := logo.WriteBundle(&buf, l, files); err != nil {
		s.fail(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="logo`+logo.BundleExt+`"`)
	w.Write(buf.Bytes())
}

// ── Import ──

type importedAsset struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	OriginalPath string `json:"originalPath"`
	URL          string `json:"url"`
}

// handleImportBundle stores a bundle's assets and returns its description
// with layer paths rewritten to the new asset IDs.
func (s *Server) handleImportBundle(w http.ResponseWriter, r *http.Request) {
	data, _, err := s.formFile(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	l, files, err := logo.ReadBundle(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		s.fail(w, badRequest(err))
		return
	}

	imported := make([]importedAsset, 0, len(files))
	ids := make(map[string]string, len(files))
	for name, fdata := range files {
		id := s.store.Add(path.Base(name), fdata, mimetype.Detect(fdata).String())
		ids[name] = id
		imported = append(imported, importedAsset{ID: id, Name: path.Base(name), OriginalPath: name, URL: "/api/assets/" + id})
	}
	for i := range l.Icon.Layers {
		layer := &l.Icon.Layers[i]
		if id, ok := ids[path.Clean(filepath.ToSlash(layer.File()))]; ok {
			layer.Path = id
		}
	}

	s.log.With("assets", len(imported)).Info("bundle imported")
	writeJSON(w, http.StatusOK, map[string]any{"logo": l, "assets": imported})
}

// ── Upload ──

func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	data, name, err := s.formFile(w, r)
	if err != nil {
		s.fail(w, err)
		return
	}

	typ, mt, err := asset.Sniff(data)
	if err != nil {
		s.fail(w, &httpError{status: http.StatusUnsupportedMediaType, err: fmt.Errorf("%s: %w", name, err)})
		return
	}
	if _, err := asset.DecodeBytes(data, typ); err != nil {
		s.fail(w, badRequest(err))
		return
	}

	id := s.store.Add(name, data, mt)
	s.log.WithFields(map[string]any{"id": id, "name": name, "mime": mt}).Info("image uploaded")
	writeJSON(w, http.StatusOK, map[string]string{
		"id":   id,
		"name": name,
		"type": typ,
		"url":  "/api/assets/" + id,
	})
}

func (s *Server) formFile(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes()); err != nil {
		return nil, "", badRequest(fmt.Errorf("parse form: %w", err))
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, "", badRequest(errors.New("no file"))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", badRequest(err)
	}
	return data, header.Filename, nil
}

// ── Asset serving ──

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	e, ok := s.store.Get(r.PathValue("id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", e.Mime)
	w.Write(e.Data)
}

func (s *Server) handleListAssets(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !s.store.Remove(id) {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

// ── Helpers ──

func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var he *httpError
	if errors.As(err, &he) {
		status = he.status
	}
	if status >= http.StatusInternalServerError {
		s.log.Error(err, "request failed")
	} else {
		s.log.WarnErr(err, "request rejected")
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
