package layer

import (
	"github.com/gogpu/compositor"
)

// PlatformViewLayer reserves a region for externally composited platform
// content. The layer paints nothing itself; the embedder slots the
// platform view under the frame at the registered position, applying the
// accumulated mutators.
type PlatformViewLayer struct {
	BaseLayer
	viewID int64
	offset compositor.Point
	size   compositor.Point
}

// NewPlatformViewLayer creates a platform view leaf.
func NewPlatformViewLayer(viewID int64, offset, size compositor.Point) *PlatformViewLayer {
	return &PlatformViewLayer{BaseLayer: newBaseLayer(), viewID: viewID, offset: offset, size: size}
}

// ViewID returns the platform view identifier.
func (l *PlatformViewLayer) ViewID() int64 {
	return l.viewID
}

// Preroll registers the view with the embedder. Platform content is
// composited beneath later layer content, so the subtree flags a surface
// readback.
func (l *PlatformViewLayer) Preroll(ctx *PrerollContext) {
	l.setPaintBounds(compositor.NewRect(l.offset.X, l.offset.Y, l.size.X, l.size.Y))
	ctx.HasPlatformViews = true
	ctx.SurfaceNeedsReadback = true
	ctx.RenderableStateFlags = 0

	if ctx.Embedder != nil {
		ctx.Embedder.PrerollCompositeView(l.viewID, EmbeddedViewParams{
			Offset:   l.offset,
			Size:     l.size,
			Matrix:   ctx.Matrix,
			Mutators: ctx.Mutators.Clone(),
		})
	}
}

// Paint hands the view to the embedder and redirects subsequent painting
// to its overlay canvas when one is provided.
func (l *PlatformViewLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	if ctx.Embedder == nil {
		compositor.Logger().Warn("platform view painted without embedder", "view_id", l.viewID)
		return
	}
	if overlay := ctx.Embedder.CompositeView(l.viewID); overlay != nil {
		ctx.StateStack.SetDelegate(overlay)
	}
}

// Diff treats the platform content as changed whenever its placement
// changes, and registers a readback: the platform view composites against
// everything painted beneath it.
func (l *PlatformViewLayer) Diff(ctx *DiffContext, old Layer) {
	ctx.AddReadbackRegion(l.PaintBounds())
	o, ok := old.(*PlatformViewLayer)
	if !ok || o.viewID != l.viewID || o.offset != l.offset || o.size != l.size {
		damageBoth(ctx, l, old)
	}
}
