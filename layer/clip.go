package layer

import (
	"github.com/gogpu/compositor"
)

// ClipBehavior selects how a clip layer rasterizes its edge.
type ClipBehavior int

const (
	// ClipHardEdge clips without antialiasing.
	ClipHardEdge ClipBehavior = iota
	// ClipAntiAlias clips with an antialiased edge.
	ClipAntiAlias
	// ClipAntiAliasWithSaveLayer clips with an antialiased edge and
	// composites the subtree through its own offscreen pass, avoiding
	// bleed between the clip edge and overlapping child edges.
	ClipAntiAliasWithSaveLayer
)

// String returns the clip behavior name.
func (b ClipBehavior) String() string {
	switch b {
	case ClipHardEdge:
		return "HardEdge"
	case ClipAntiAlias:
		return "AntiAlias"
	case ClipAntiAliasWithSaveLayer:
		return "AntiAliasWithSaveLayer"
	default:
		return "Unknown"
	}
}

// UsesSaveLayer reports whether the behavior forces an offscreen pass.
func (b ClipBehavior) UsesSaveLayer() bool {
	return b == ClipAntiAliasWithSaveLayer
}

// ClipRectLayer clips its subtree to an axis-aligned rectangle.
type ClipRectLayer struct {
	ContainerLayer
	clipRect compositor.Rect
	behavior ClipBehavior
}

// NewClipRectLayer creates a rectangle clip layer.
func NewClipRectLayer(r compositor.Rect, behavior ClipBehavior) *ClipRectLayer {
	return &ClipRectLayer{ContainerLayer: *NewContainerLayer(), clipRect: r, behavior: behavior}
}

// ClipRect returns the clip rectangle.
func (l *ClipRectLayer) ClipRect() compositor.Rect {
	return l.clipRect
}

// Behavior returns the clip behavior.
func (l *ClipRectLayer) Behavior() ClipBehavior {
	return l.behavior
}

// Preroll prerolls the children under the tightened cull rect. An empty
// effective clip short-circuits the subtree entirely.
func (l *ClipRectLayer) Preroll(ctx *PrerollContext) {
	prerollClipped(ctx, &l.ContainerLayer, l.clipRect, l.behavior, func() {
		ctx.Mutators.PushClipRect(l.clipRect)
	})
}

// Paint clips and paints the children.
func (l *ClipRectLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.Save()
	defer m.Close()
	m.ApplyClipRect(l.clipRect, l.behavior != ClipHardEdge)
	if l.behavior.UsesSaveLayer() {
		m.SaveLayer(l.PaintBounds())
	}
	l.PaintChildren(ctx)
}

// Diff damages the subtree when the clip changed, otherwise diffs the
// children.
func (l *ClipRectLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*ClipRectLayer)
	if !ok || o.clipRect != l.clipRect || o.behavior != l.behavior {
		damageBoth(ctx, l, old)
		return
	}
	l.DiffChildren(ctx, o.Children())
}

// ClipShapeLayer clips its subtree to an arbitrary shape.
type ClipShapeLayer struct {
	ContainerLayer
	shape    compositor.Shape
	behavior ClipBehavior
}

// NewClipShapeLayer creates a shape clip layer.
func NewClipShapeLayer(shape compositor.Shape, behavior ClipBehavior) *ClipShapeLayer {
	return &ClipShapeLayer{ContainerLayer: *NewContainerLayer(), shape: shape, behavior: behavior}
}

// Shape returns the clip shape.
func (l *ClipShapeLayer) Shape() compositor.Shape {
	return l.shape
}

// Behavior returns the clip behavior.
func (l *ClipShapeLayer) Behavior() ClipBehavior {
	return l.behavior
}

// Preroll prerolls the children under the shape's bounds.
func (l *ClipShapeLayer) Preroll(ctx *PrerollContext) {
	if l.shape == nil {
		l.setPaintBounds(compositor.EmptyRect())
		ctx.RenderableStateFlags = CallerCanApplyAnything
		return
	}
	prerollClipped(ctx, &l.ContainerLayer, l.shape.Bounds(), l.behavior, func() {
		ctx.Mutators.PushClipShape(l.shape)
	})
}

// Paint clips by the shape and paints the children.
func (l *ClipShapeLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.Save()
	defer m.Close()
	m.ApplyClipShape(l.shape, l.behavior != ClipHardEdge)
	if l.behavior.UsesSaveLayer() {
		m.SaveLayer(l.PaintBounds())
	}
	l.PaintChildren(ctx)
}

// Diff damages the subtree when the clip changed, otherwise diffs the
// children.
func (l *ClipShapeLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*ClipShapeLayer)
	if !ok || o.behavior != l.behavior ||
		!compositor.ShapesEqual(l.shape, o.shape) {
		damageBoth(ctx, l, old)
		return
	}
	l.DiffChildren(ctx, o.Children())
}

// prerollClipped runs the shared clip-layer preroll: tighten the cull rect
// to the clip bounds, preroll the children, and intersect the resulting
// bounds with the clip. A save-layer behavior isolates the subtree, so it
// reports full renderable capability and absorbs any subtree readback.
func prerollClipped(ctx *PrerollContext, c *ContainerLayer, clipBounds compositor.Rect, behavior ClipBehavior, pushMutator func()) {
	effective := clipBounds.Intersect(ctx.CullRect)
	if effective.IsEmpty() {
		c.setPaintBounds(compositor.EmptyRect())
		ctx.RenderableStateFlags = CallerCanApplyAnything
		return
	}

	savedCull := ctx.CullRect
	savedReadback := ctx.SurfaceNeedsReadback
	ctx.CullRect = effective
	pushMutator()
	childBounds := c.PrerollChildren(ctx)
	ctx.Mutators.Pop()
	ctx.CullRect = savedCull

	if behavior.UsesSaveLayer() {
		ctx.RenderableStateFlags = CallerCanApplyAnything
		ctx.SurfaceNeedsReadback = savedReadback
	}
	c.setPaintBounds(childBounds.Intersect(clipBounds))
}
