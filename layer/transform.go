package layer

import (
	"github.com/gogpu/compositor"
)

// TransformLayer applies an affine transform to its subtree.
type TransformLayer struct {
	ContainerLayer
	transform compositor.Affine
}

// NewTransformLayer creates a transform layer.
func NewTransformLayer(t compositor.Affine) *TransformLayer {
	return &TransformLayer{ContainerLayer: *NewContainerLayer(), transform: t}
}

// Transform returns the layer's transform.
func (l *TransformLayer) Transform() compositor.Affine {
	return l.transform
}

// Preroll prerolls the children in the transformed space. A degenerate
// transform collapses the child cull rect to empty, culling the subtree.
func (l *TransformLayer) Preroll(ctx *PrerollContext) {
	savedMatrix := ctx.Matrix
	savedCull := ctx.CullRect

	ctx.Matrix = savedMatrix.Multiply(l.transform)
	if inverse, ok := l.transform.Invert(); ok {
		ctx.CullRect = inverse.MapRect(savedCull)
	} else {
		ctx.CullRect = compositor.EmptyRect()
	}

	ctx.Mutators.PushTransform(l.transform)
	childBounds := l.PrerollChildren(ctx)
	ctx.Mutators.Pop()

	ctx.Matrix = savedMatrix
	ctx.CullRect = savedCull
	l.setPaintBounds(l.transform.MapRect(childBounds))
}

// Paint paints the children under the transform.
func (l *TransformLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.Save()
	defer m.Close()
	m.ApplyTransform(l.transform)
	l.PaintChildren(ctx)
}

// Diff damages the whole subtree when the transform changed, otherwise
// diffs the children in the transformed space.
func (l *TransformLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*TransformLayer)
	if !ok || o.transform != l.transform {
		damageBoth(ctx, l, old)
		return
	}
	saved := ctx.Transform()
	ctx.SetTransform(saved.Multiply(l.transform))
	l.DiffChildren(ctx, o.Children())
	ctx.SetTransform(saved)
}
