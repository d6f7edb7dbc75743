package layer

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/rastercache"
	"github.com/gogpu/compositor/recording"
)

// DisplayListLayer is the leaf that draws a recorded display list at an
// offset. It is the primary raster cache candidate: repeatedly painted
// lists whose complexity clears the caching bar are rasterized once and
// replayed as an image.
type DisplayListLayer struct {
	BaseLayer
	offset compositor.Point
	list   *recording.DisplayList
}

// NewDisplayListLayer creates a display list leaf.
func NewDisplayListLayer(offset compositor.Point, list *recording.DisplayList) *DisplayListLayer {
	return &DisplayListLayer{BaseLayer: newBaseLayer(), offset: offset, list: list}
}

// DisplayList returns the recorded content.
func (l *DisplayListLayer) DisplayList() *recording.DisplayList {
	return l.list
}

// Offset returns the draw offset.
func (l *DisplayListLayer) Offset() compositor.Point {
	return l.offset
}

func (l *DisplayListLayer) childTransform() compositor.Affine {
	return compositor.TranslateAffine(l.offset.X, l.offset.Y)
}

// Preroll computes bounds, scores the list, and registers it as a cache
// candidate under its content key.
func (l *DisplayListLayer) Preroll(ctx *PrerollContext) {
	if l.list == nil || l.list.IsEmpty() {
		l.setPaintBounds(compositor.EmptyRect())
		ctx.RenderableStateFlags = CallerCanApplyAnything
		return
	}
	l.setPaintBounds(l.list.Bounds().Translate(l.offset.X, l.offset.Y))

	score := rastercache.EstimateComplexity(l.list)
	ctx.SubtreeComplexity += score
	// The backend modulates a whole list by opacity natively.
	ctx.RenderableStateFlags = CallerCanApplyOpacity

	if ctx.Cache == nil {
		return
	}
	key := rastercache.ContentKey(l.ID())
	matrix := ctx.Matrix.Multiply(l.childTransform())
	if ctx.Cache.MarkSeen(key, matrix, score) {
		list := l.list
		ctx.Cache.Rasterize(ctx.Allocator, key, matrix, list.Bounds(), func(canvas recording.Canvas) {
			list.Replay(canvas)
		})
	}
}

// Paint replays the cached image or the list itself, folding any
// outstanding opacity into the draw.
func (l *DisplayListLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.ApplyState(l.PaintBounds(), CallerCanApplyOpacity)
	defer m.Close()

	canvas := ctx.StateStack.Delegate()
	if canvas == nil {
		return
	}
	// The offset goes through the scope first so the canvas transform
	// matches the matrix the cache entry was keyed and drawn under.
	m.Translate(l.offset.X, l.offset.Y)
	if ctx.Cache != nil {
		if ctx.Cache.Draw(rastercache.ContentKey(l.ID()), ctx.StateStack.Transform(), canvas, ctx.StateStack.FillPaint()) {
			return
		}
	}
	opacity := ctx.StateStack.OutstandingOpacity()
	canvas.DrawDisplayList(l.list, opacity)
}

// Diff damages both regions unless the same retained list draws at the
// same offset.
func (l *DisplayListLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*DisplayListLayer)
	if !ok || o.offset != l.offset || !l.list.Equal(o.list) {
		damageBoth(ctx, l, old)
	}
}
