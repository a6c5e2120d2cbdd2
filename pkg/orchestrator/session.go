// session.go — One preview session: state, surfaces, and pending loads.
package orchestrator

import (
	"context"
	"fmt"
	"image"

	"github.com/xob0t/GoLogo/internal/logger"
	"github.com/xob0t/GoLogo/pkg/asset"
	"github.com/xob0t/GoLogo/pkg/geometry"
	"github.com/xob0t/GoLogo/pkg/logo"
	"github.com/xob0t/GoLogo/pkg/preview"
	"github.com/xob0t/GoLogo/pkg/render"
)

// Target names the surface a draw event refers to.
type Target int

const (
	TargetBackground Target = iota
	TargetLayer
)

func (t Target) String() string {
	if t == TargetBackground {
		return "background"
	}
	return "layer"
}

// DrawEvent is reported after every surface draw. Index is -1 for the
// background. Outcome is render.Drawn for backgrounds.
type DrawEvent struct {
	Target  Target
	Index   int
	Outcome render.Outcome
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithDrawObserver registers fn to be called, on the owning goroutine,
// after each surface draw.
func WithDrawObserver(fn func(DrawEvent)) Option {
	return func(s *Session) { s.observe = fn }
}

// WithRenderer replaces the default renderer.
func WithRenderer(r *render.Renderer) Option {
	return func(s *Session) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithQueueSize sets the completion buffer size.
func WithQueueSize(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.queue = n
		}
	}
}

// completion is a finished load, tagged with the generation it was
// requested under.
type completion struct {
	index  int
	gen    uint64
	handle *asset.Handle
	img    image.Image
	err    error
}

// Session drives one live preview. It is owned by a single goroutine:
// none of its methods may be called concurrently. Loaders may complete
// on any goroutine; their results are queued and applied by Flush, Wait
// or Run.
type Session struct {
	state    *preview.State
	loader   asset.Loader
	renderer *render.Renderer
	log      *logger.Logger
	observe  func(DrawEvent)
	queue    int

	bg      *render.Surface
	layers  []*render.Surface
	gens    []uint64
	pending int
	done    chan completion
}

// New mounts a session on initial (preview.Initial when nil) and draws
// every surface once.
func New(initial *preview.State, loader asset.Loader, opts ...Option) *Session {
	if initial == nil {
		initial = preview.Initial()
	}
	s := &Session{
		state:    initial,
		loader:   loader,
		renderer: render.NewRenderer(render.Options{}),
		queue:    16,
		bg:       render.NewSurface(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.done = make(chan completion, s.queue)
	s.redraw(Full)
	return s
}

// State returns the current state version.
func (s *Session) State() *preview.State { return s.state }

// Pending returns the number of loads not yet applied.
func (s *Session) Pending() int { return s.pending }

// Dispatch applies a through the reducer and redraws what it touched. A
// rejected action leaves the state and every surface unchanged. Setting
// a layer image that is still loading starts its load.
func (s *Session) Dispatch(a preview.Action) error {
	return s.dispatch(context.Background(), a)
}

// LoadLayer points layer i at src and starts loading it. The layer is
// undrawn until the load completes and is applied.
func (s *Session) LoadLayer(ctx context.Context, i int, src asset.Source) error {
	return s.dispatch(ctx, preview.SetLayerImage{Index: i, Image: asset.NewHandle(src)})
}

func (s *Session) dispatch(ctx context.Context, a preview.Action) error {
	next, err := preview.Reduce(s.state, a)
	if err != nil {
		s.log.WarnErr(err, "action rejected")
		return err
	}
	if next == s.state {
		return nil
	}
	s.state = next

	if img, ok := a.(preview.SetLayerImage); ok {
		gen := s.bump(img.Index)
		if img.Image != nil && !img.Image.Done() {
			s.start(ctx, img.Index, gen, img.Image)
		}
	}
	s.redraw(PlanFor(next.Last))
	return nil
}

// Replace swaps in a whole new state, redraws everything and starts
// loading every layer image that is still pending. Loads still in flight
// for the previous state are discarded when they complete.
func (s *Session) Replace(st *preview.State) {
	s.replace(context.Background(), st)
}

func (s *Session) replace(ctx context.Context, st *preview.State) {
	for i := range s.gens {
		s.gens[i]++
	}
	next := *st
	next.Last = nil
	s.state = &next
	s.redraw(Full)

	for i, layer := range next.Icon.Layers {
		if layer.Image != nil && !layer.Image.Done() {
			s.start(ctx, i, s.bump(i), layer.Image)
		}
	}
}

// Import validates l, resolves sel against it and replaces the session
// state with the result, loading every layer image. An invalid
// description is rejected and the current state kept.
func (s *Session) Import(ctx context.Context, l *logo.Logo, sel logo.Selection) error {
	if err := logo.Validate(l); err != nil {
		return fmt.Errorf("import: %w", err)
	}
	resolved, err := l.Resolve(sel)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	st := preview.FromResolved(resolved)
	for i, rl := range resolved.Layers {
		st.Icon.Layers[i].Image = asset.NewHandle(asset.Source{Path: rl.File, Type: rl.Type})
	}
	s.replace(ctx, st)
	s.log.WithFields(map[string]any{
		"res":    st.Canvas.Res.String(),
		"layers": len(st.Icon.Layers),
	}).Info("logo imported")
	return nil
}

// Flush applies every completed load without blocking and returns how
// many were applied.
func (s *Session) Flush() int {
	n := 0
	for {
		select {
		case c := <-s.done:
			s.apply(c)
			n++
		default:
			return n
		}
	}
}

// Wait applies completions until no load is pending or ctx is done.
func (s *Session) Wait(ctx context.Context) error {
	for s.pending > 0 {
		select {
		case c := <-s.done:
			s.apply(c)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Run is the session's event loop. It applies actions from the channel
// and load completions in arrival order until ctx is done, or until
// actions is closed and every pending load has been applied. Rejected
// actions are logged and skipped.
func (s *Session) Run(ctx context.Context, actions <-chan preview.Action) error {
	for actions != nil {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case c := <-s.done:
			s.apply(c)
		case a, ok := <-actions:
			if !ok {
				actions = nil
				continue
			}
			_ = s.dispatch(ctx, a)
		}
	}
	return s.Wait(ctx)
}

// Background returns the background surface pixels. The image is reused
// by later draws.
func (s *Session) Background() *image.NRGBA { return s.bg.Image() }

// Layer returns layer i's surface pixels.
func (s *Session) Layer(i int) (*image.NRGBA, bool) {
	if i < 0 || i >= len(s.layers) {
		return nil, false
	}
	return s.layers[i].Image(), true
}

// Export flattens the current surfaces into a new image. Without a
// canvas color the background is transparent rather than the preview
// checkerboard.
func (s *Session) Export() *image.NRGBA {
	bg := s.bg.Image()
	if s.state.Canvas.Color == nil {
		bg = image.NewNRGBA(bg.Bounds())
	}
	imgs := make([]*image.NRGBA, len(s.layers))
	for i, l := range s.layers {
		imgs[i] = l.Image()
	}
	return render.Flatten(bg, imgs...)
}

// bump advances layer i's generation and returns the new value.
func (s *Session) bump(i int) uint64 {
	for len(s.gens) <= i {
		s.gens = append(s.gens, 0)
	}
	s.gens[i]++
	return s.gens[i]
}

// start hands h to the loader. The callback only queues the result; when
// the queue is full it hands off to a goroutine that gives up once ctx is
// done.
func (s *Session) start(ctx context.Context, i int, gen uint64, h *asset.Handle) {
	if s.loader == nil {
		h.Resolve(nil, asset.ErrNotFound)
		s.log.With("layer", i).WarnErr(h.Err(), "no loader configured")
		return
	}
	s.pending++
	s.loader.Load(ctx, h.Source(), func(img image.Image, err error) {
		c := completion{index: i, gen: gen, handle: h, img: img, err: err}
		select {
		case s.done <- c:
		default:
			go func() {
				select {
				case s.done <- c:
				case <-ctx.Done():
				}
			}()
		}
	})
}

// apply resolves a completed load and redraws its layer, unless a newer
// request for the same layer superseded it.
func (s *Session) apply(c completion) {
	s.pending--
	log := s.log.WithFields(map[string]any{"layer": c.index, "source": c.handle.Source().String()})

	if c.index >= len(s.gens) || s.gens[c.index] != c.gen {
		log.Debug("stale load discarded")
		return
	}
	c.handle.Resolve(c.img, c.err)
	if err := c.handle.Err(); err != nil {
		log.WarnErr(err, "layer image failed to load")
		return
	}
	if c.index >= len(s.state.Icon.Layers) || s.state.Icon.Layers[c.index].Image != c.handle {
		return
	}
	log.Debug("layer image loaded")
	s.redraw(Plan{Layer: c.index})
}

func (s *Session) redraw(p Plan) {
	st := s.state
	for len(s.layers) < len(st.Icon.Layers) {
		s.layers = append(s.layers, render.NewSurface())
	}
	s.layers = s.layers[:len(st.Icon.Layers)]

	if p.Background {
		s.renderer.DrawBackground(s.bg, st.Canvas)
		s.emit(DrawEvent{Target: TargetBackground, Index: -1, Outcome: render.Drawn})
	}

	pad := geometry.PixelPadding(st.LayerPadding(), st.Canvas.Res)
	switch {
	case p.AllLayers:
		for i := range st.Icon.Layers {
			s.drawLayer(i, pad)
		}
	case p.Layer >= 0 && p.Layer < len(st.Icon.Layers):
		s.drawLayer(p.Layer, pad)
	}
}

func (s *Session) drawLayer(i int, pad float64) {
	st := s.state
	l := st.Icon.Layers[i]
	out := s.renderer.DrawLayer(s.layers[i], st.Canvas.Res, pad, l.Image.Image(), l.Color)
	if out == render.SkippedDegenerate {
		s.log.WithFields(map[string]any{"layer": i, "padding": pad}).Debug("layer skipped: no room inside padding")
	}
	s.emit(DrawEvent{Target: TargetLayer, Index: i, Outcome: out})
}

func (s *Session) emit(e DrawEvent) {
	if s.observe != nil {
		s.observe(e)
	}
}
