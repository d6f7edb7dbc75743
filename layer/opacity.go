package layer

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/rastercache"
	"github.com/gogpu/compositor/recording"
)

// OpacityLayer modulates its subtree by an opacity, optionally offset.
// Ancestor opacity folds into the layer's own multiplicatively, and
// opacity-capable children receive the combined value without any
// offscreen pass. The children are cached as an aggregate under a
// children-derived key, so a changing opacity replays a cached image
// instead of repainting the subtree.
type OpacityLayer struct {
	ContainerLayer
	alpha  float32
	offset compositor.Point

	childrenKey             rastercache.Key
	childrenBounds          compositor.Rect
	childrenCanApplyOpacity bool
}

// NewOpacityLayer creates an opacity layer. alpha is in [0, 1].
func NewOpacityLayer(alpha float32, offset compositor.Point) *OpacityLayer {
	return &OpacityLayer{ContainerLayer: *NewContainerLayer(), alpha: alpha, offset: offset}
}

// Alpha returns the layer's opacity.
func (l *OpacityLayer) Alpha() float32 {
	return l.alpha
}

// SetAlpha updates the opacity. The retained subtree stays valid; only
// the modulation changes.
func (l *OpacityLayer) SetAlpha(alpha float32) {
	l.alpha = alpha
}

// Offset returns the layer's child offset.
func (l *OpacityLayer) Offset() compositor.Point {
	return l.offset
}

func (l *OpacityLayer) childTransform() compositor.Affine {
	return compositor.TranslateAffine(l.offset.X, l.offset.Y)
}

// Preroll prerolls the children, registers the children aggregate as a
// cache candidate, and reports opacity capability upward.
func (l *OpacityLayer) Preroll(ctx *PrerollContext) {
	savedMatrix := ctx.Matrix
	savedCull := ctx.CullRect
	savedComplexity := ctx.SubtreeComplexity

	t := l.childTransform()
	ctx.Matrix = savedMatrix.Multiply(t)
	ctx.CullRect = savedCull.Translate(-l.offset.X, -l.offset.Y)
	ctx.SubtreeComplexity = 0

	ctx.Mutators.PushTransform(t)
	ctx.Mutators.PushOpacity(l.alpha)
	childBounds := l.PrerollChildren(ctx)
	ctx.Mutators.Pop()
	ctx.Mutators.Pop()
	l.childrenCanApplyOpacity = ctx.RenderableStateFlags&CallerCanApplyOpacity != 0

	childScore := ctx.SubtreeComplexity
	childMatrix := ctx.Matrix
	ctx.Matrix = savedMatrix
	ctx.CullRect = savedCull
	ctx.SubtreeComplexity = savedComplexity + childScore

	l.childrenBounds = childBounds
	l.setPaintBounds(childBounds.Translate(l.offset.X, l.offset.Y))
	ctx.RenderableStateFlags = CallerCanApplyOpacity

	if ctx.Cache == nil || childBounds.IsEmpty() {
		return
	}
	ids := make([]rastercache.ID, len(l.Children()))
	for i, child := range l.Children() {
		ids[i] = child.ID()
	}
	l.childrenKey = rastercache.ChildrenKey(ids)
	if ctx.Cache.MarkSeen(l.childrenKey, childMatrix, childScore) {
		ctx.Cache.Rasterize(ctx.Allocator, l.childrenKey, childMatrix, childBounds, func(canvas recording.Canvas) {
			stack := NewStateStack()
			stack.SetDelegate(canvas)
			l.PaintChildren(&PaintContext{
				StateStack: stack,
				Cache:      ctx.Cache,
				Allocator:  ctx.Allocator,
				Embedder:   ctx.Embedder,
			})
			stack.ClearDelegate()
		})
	}
}

// Paint draws the cached children aggregate modulated by the combined
// opacity, or falls back to painting the children with the opacity
// outstanding.
func (l *OpacityLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.ApplyState(l.PaintBounds(), CallerCanApplyOpacity)
	defer m.Close()

	// The offset goes through the scope first so the canvas transform
	// matches the matrix the children aggregate was keyed under.
	m.Translate(l.offset.X, l.offset.Y)
	if ctx.Cache != nil {
		if canvas := ctx.StateStack.Delegate(); canvas != nil {
			paint := ctx.StateStack.FillPaint()
			paint.Opacity *= l.alpha
			if ctx.Cache.Draw(l.childrenKey, ctx.StateStack.Transform(), canvas, paint) {
				return
			}
		}
	}

	m.ApplyOpacity(l.childrenBounds, l.alpha)
	if !l.childrenCanApplyOpacity {
		// Incompatible or overlapping children: one pass composites them
		// together before the opacity applies.
		m.SaveLayer(l.childrenBounds)
	}
	l.PaintChildren(ctx)
}

// Diff recurses into unchanged subtrees. An opacity-only change damages
// the layer's region without invalidating the children's cache entry.
func (l *OpacityLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*OpacityLayer)
	if !ok || o.offset != l.offset {
		damageBoth(ctx, l, old)
		return
	}
	if o.alpha != l.alpha {
		damageBoth(ctx, l, o)
	}
	saved := ctx.Transform()
	ctx.SetTransform(saved.Multiply(l.childTransform()))
	l.DiffChildren(ctx, o.Children())
	ctx.SetTransform(saved)
}
