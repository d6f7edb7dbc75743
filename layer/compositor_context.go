package layer

import (
	"errors"
	"time"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/rastercache"
	"github.com/gogpu/compositor/recording"
	"github.com/gogpu/compositor/render"
)

// ErrNilRoot is returned by Frame.Raster when no root layer is given.
var ErrNilRoot = errors.New("layer: raster of nil root layer")

// CompositorContext owns the state shared across frames: the raster
// cache, the offscreen allocator, and the optional platform view
// embedder. One context serves one output surface; it is not safe for
// concurrent use.
type CompositorContext struct {
	cache      *rastercache.Cache
	allocator  render.Allocator
	embedder   Embedder
	frameCount uint64
}

// ContextOption configures a CompositorContext.
type ContextOption func(*CompositorContext)

// WithRasterCache replaces the default raster cache. Pass a cache built
// with rastercache.WithAccessThreshold(0) to disable caching.
func WithRasterCache(c *rastercache.Cache) ContextOption {
	return func(ctx *CompositorContext) { ctx.cache = c }
}

// WithAllocator replaces the default CPU-backed offscreen allocator.
func WithAllocator(a render.Allocator) ContextOption {
	return func(ctx *CompositorContext) { ctx.allocator = a }
}

// WithEmbedder installs a platform view embedder.
func WithEmbedder(e Embedder) ContextOption {
	return func(ctx *CompositorContext) { ctx.embedder = e }
}

// NewCompositorContext creates a context with a default raster cache and
// a CPU-backed allocator.
func NewCompositorContext(opts ...ContextOption) *CompositorContext {
	ctx := &CompositorContext{
		cache:     rastercache.New(),
		allocator: render.NewPixmapAllocator(),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// Cache returns the raster cache.
func (c *CompositorContext) Cache() *rastercache.Cache {
	return c.cache
}

// Allocator returns the offscreen allocator.
func (c *CompositorContext) Allocator() render.Allocator {
	return c.allocator
}

// FrameCount returns the number of frames rastered so far.
func (c *CompositorContext) FrameCount() uint64 {
	return c.frameCount
}

// AcquireFrame begins a frame targeting canvas. deviceCull is the
// device-space region the surface will present; rootTransform maps root
// layer space to device space (typically a device-pixel-ratio scale).
func (c *CompositorContext) AcquireFrame(canvas recording.Canvas, deviceCull compositor.Rect, rootTransform compositor.Affine) *Frame {
	return &Frame{
		ctx:       c,
		canvas:    canvas,
		cull:      deviceCull,
		transform: rootTransform,
	}
}

// FrameResult summarizes one rastered frame.
type FrameResult struct {
	// Damage is the device-space region that changed since the previous
	// tree, clipped to the cull rect. Without a previous tree the whole
	// cull rect is damaged.
	Damage compositor.Rect

	// SurfaceNeedsReadback reports that some layer reads back composited
	// pixels, which a non-readback surface cannot honor.
	SurfaceNeedsReadback bool

	// HasPlatformViews reports embedded platform content this frame.
	HasPlatformViews bool

	// CacheMetrics is the raster cache census after end-of-frame
	// eviction.
	CacheMetrics rastercache.Metrics

	// PrerollTime and PaintTime measure the two traversals.
	PrerollTime time.Duration
	PaintTime   time.Duration
}

// Frame rasters one layer tree. A frame is single-use.
type Frame struct {
	ctx       *CompositorContext
	canvas    recording.Canvas
	cull      compositor.Rect
	transform compositor.Affine
}

// Raster runs the frame's traversals over root: preroll, an optional diff
// against the previous frame's tree, then paint. The previous tree must
// be the tree rastered by the preceding frame, already prerolled; pass
// nil to repaint everything.
func (f *Frame) Raster(root, previous Layer) (FrameResult, error) {
	if root == nil {
		return FrameResult{}, ErrNilRoot
	}
	cache := f.ctx.cache
	cache.BeginFrame()

	localCull := compositor.EmptyRect()
	if inverse, ok := f.transform.Invert(); ok {
		localCull = inverse.MapRect(f.cull)
	}

	prerollStart := time.Now()
	pctx := &PrerollContext{
		Cache:     cache,
		Allocator: f.ctx.allocator,
		Embedder:  f.ctx.embedder,
		Mutators:  &MutatorStack{},
		Matrix:    f.transform,
		CullRect:  localCull,
	}
	root.Preroll(pctx)
	prerollTime := time.Since(prerollStart)

	damage := f.cull
	if previous != nil {
		dctx := NewDiffContext()
		dctx.SetTransform(f.transform)
		root.Diff(dctx, previous)
		damage = dctx.Damage().Intersect(f.cull)
	}

	paintStart := time.Now()
	f.paint(root)
	paintTime := time.Since(paintStart)

	cache.EndFrame()
	f.ctx.allocator.ReleaseQueue().Drain()
	f.ctx.frameCount++

	compositor.Logger().Debug("frame rastered",
		"frame", f.ctx.frameCount,
		"damage_area", damage.Area(),
		"cache_entries", cache.EntryCount(),
		"preroll", prerollTime,
		"paint", paintTime,
	)

	return FrameResult{
		Damage:               damage,
		SurfaceNeedsReadback: pctx.SurfaceNeedsReadback,
		HasPlatformViews:     pctx.HasPlatformViews,
		CacheMetrics:         cache.Metrics(),
		PrerollTime:          prerollTime,
		PaintTime:            paintTime,
	}, nil
}

func (f *Frame) paint(root Layer) {
	stack := NewStateStack()
	stack.SetInitialState(f.cull, compositor.IdentityAffine())
	stack.SetDelegate(f.canvas)
	defer stack.ClearDelegate()

	m := stack.Save()
	defer m.Close()
	m.ApplyTransform(f.transform)

	pctx := &PaintContext{
		StateStack: stack,
		Cache:      f.ctx.cache,
		Allocator:  f.ctx.allocator,
		Embedder:   f.ctx.embedder,
	}
	if root.NeedsPainting(pctx) {
		root.Paint(pctx)
	}
}
