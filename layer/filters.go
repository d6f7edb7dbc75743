package layer

import (
	"github.com/gogpu/compositor"
)

// ColorFilterLayer applies a color filter to its subtree.
type ColorFilterLayer struct {
	ContainerLayer
	filter compositor.ColorFilter
}

// NewColorFilterLayer creates a color filter layer.
func NewColorFilterLayer(filter compositor.ColorFilter) *ColorFilterLayer {
	return &ColorFilterLayer{ContainerLayer: *NewContainerLayer(), filter: filter}
}

// Filter returns the color filter.
func (l *ColorFilterLayer) Filter() compositor.ColorFilter {
	return l.filter
}

// Preroll prerolls the children. The layer cannot absorb ancestor
// attributes: a second color filter does not compose with its own.
func (l *ColorFilterLayer) Preroll(ctx *PrerollContext) {
	l.setPaintBounds(l.PrerollChildren(ctx))
	ctx.RenderableStateFlags = 0
}

// Paint paints the children with the filter outstanding.
func (l *ColorFilterLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.Save()
	defer m.Close()
	m.ApplyColorFilter(l.PaintBounds(), l.filter)
	l.PaintChildren(ctx)
}

// Diff damages the subtree when the filter changed, otherwise diffs the
// children.
func (l *ColorFilterLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*ColorFilterLayer)
	if !ok || !compositor.ColorFiltersEqual(l.filter, o.filter) {
		damageBoth(ctx, l, old)
		return
	}
	l.DiffChildren(ctx, o.Children())
}

// ImageFilterLayer applies an image filter to its subtree. The layer's
// bounds are the children's bounds mapped through the filter.
type ImageFilterLayer struct {
	ContainerLayer
	filter      compositor.ImageFilter
	childBounds compositor.Rect
}

// NewImageFilterLayer creates an image filter layer.
func NewImageFilterLayer(filter compositor.ImageFilter) *ImageFilterLayer {
	return &ImageFilterLayer{ContainerLayer: *NewContainerLayer(), filter: filter}
}

// Filter returns the image filter.
func (l *ImageFilterLayer) Filter() compositor.ImageFilter {
	return l.filter
}

// Preroll prerolls the children and maps their bounds through the filter.
func (l *ImageFilterLayer) Preroll(ctx *PrerollContext) {
	l.childBounds = l.PrerollChildren(ctx)
	if l.filter != nil {
		l.setPaintBounds(l.filter.MapBounds(l.childBounds))
	} else {
		l.setPaintBounds(l.childBounds)
	}
	ctx.RenderableStateFlags = 0
}

// Paint paints the children with the filter outstanding.
func (l *ImageFilterLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.Save()
	defer m.Close()
	m.ApplyImageFilter(l.childBounds, l.filter)
	l.PaintChildren(ctx)
}

// Diff damages the subtree when the filter changed, otherwise diffs the
// children.
func (l *ImageFilterLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*ImageFilterLayer)
	if !ok || !compositor.ImageFiltersEqual(l.filter, o.filter) {
		damageBoth(ctx, l, old)
		return
	}
	l.DiffChildren(ctx, o.Children())
}

// BackdropFilterLayer filters the pixels already composited beneath it,
// then paints its children above the filtered backdrop. Its region
// depends on everything painted below, so its bounds cover the incoming
// cull rect and its Diff registers a readback region.
type BackdropFilterLayer struct {
	ContainerLayer
	filter compositor.ImageFilter
	blend  compositor.BlendMode
}

// NewBackdropFilterLayer creates a backdrop filter layer.
func NewBackdropFilterLayer(filter compositor.ImageFilter, blend compositor.BlendMode) *BackdropFilterLayer {
	return &BackdropFilterLayer{ContainerLayer: *NewContainerLayer(), filter: filter, blend: blend}
}

// Filter returns the backdrop filter.
func (l *BackdropFilterLayer) Filter() compositor.ImageFilter {
	return l.filter
}

// Blend returns the blend mode the filtered backdrop composites with.
func (l *BackdropFilterLayer) Blend() compositor.BlendMode {
	return l.blend
}

// Preroll flags the surface readback and claims the cull rect as bounds.
func (l *BackdropFilterLayer) Preroll(ctx *PrerollContext) {
	childBounds := l.PrerollChildren(ctx)
	bounds := ctx.CullRect
	if bounds.IsEmpty() {
		bounds = childBounds
	} else {
		bounds = bounds.Union(childBounds)
	}
	l.setPaintBounds(bounds)
	ctx.SurfaceNeedsReadback = true
	// The pass absorbs any ancestor state.
	ctx.RenderableStateFlags = CallerCanApplyAnything
}

// Paint emits the backdrop pass and paints the children inside it.
func (l *BackdropFilterLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.Save()
	defer m.Close()
	m.ApplyBackdropFilter(l.PaintBounds(), l.filter, l.blend)
	l.PaintChildren(ctx)
}

// Diff registers the readback region, then damages the subtree when the
// filter changed or diffs the children.
func (l *BackdropFilterLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.AddReadbackRegion(l.PaintBounds())
	o, ok := old.(*BackdropFilterLayer)
	if !ok || o.blend != l.blend ||
		!compositor.ImageFiltersEqual(l.filter, o.filter) {
		damageBoth(ctx, l, old)
		return
	}
	l.DiffChildren(ctx, o.Children())
}
