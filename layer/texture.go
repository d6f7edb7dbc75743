package layer

import (
	"image"

	"github.com/gogpu/compositor"
)

// FrameProvider hands out the current frame of an externally produced
// image stream, such as a video decoder or camera feed. Acquire returns
// false when no frame is available yet.
type FrameProvider interface {
	Acquire() (image.Image, bool)
}

// TextureLayer places an externally produced image stream at a
// rectangle. Its content changes out of band, so it always diffs dirty
// unless frozen.
type TextureLayer struct {
	BaseLayer
	provider FrameProvider
	bounds   compositor.Rect
	freeze   bool
}

// NewTextureLayer creates a texture leaf covering bounds.
func NewTextureLayer(provider FrameProvider, bounds compositor.Rect) *TextureLayer {
	return &TextureLayer{BaseLayer: newBaseLayer(), provider: provider, bounds: bounds}
}

// SetFreeze stops the layer from invalidating every frame, holding the
// last acquired frame on screen.
func (l *TextureLayer) SetFreeze(freeze bool) {
	l.freeze = freeze
}

// Preroll claims the layer's rectangle.
func (l *TextureLayer) Preroll(ctx *PrerollContext) {
	l.setPaintBounds(l.bounds)
	ctx.RenderableStateFlags = 0
}

// Paint draws the current frame at the layer's rectangle.
func (l *TextureLayer) Paint(ctx *PaintContext) {
	l.assertPaintable(ctx)
	m := ctx.StateStack.ApplyState(l.bounds, 0)
	defer m.Close()

	canvas := ctx.StateStack.Delegate()
	if canvas == nil || l.provider == nil {
		return
	}
	frame, ok := l.provider.Acquire()
	if !ok || frame == nil {
		return
	}
	canvas.DrawImage(frame, compositor.Point{X: l.bounds.MinX, Y: l.bounds.MinY}, compositor.NewPaint())
}

// Diff marks the region dirty unless frozen: the stream's content is
// opaque to the compositor and must be assumed changed.
func (l *TextureLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*TextureLayer)
	if ok && o.provider == l.provider && l.freeze && o.bounds == l.bounds {
		return
	}
	damageBoth(ctx, l, old)
}
