package recording

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
)

// Canvas is the downstream paint delegate of the compositor: the small
// fixed vocabulary every backend must accept. Implementations include the
// command-recording Builder in this package and the immediate-mode software
// canvas in package render.
//
// Save/Restore must be strictly balanced and operations must be replayable
// in emitted order. None of these operations fail at runtime; backends
// degrade unsupported variants to a best-effort approximation.
type Canvas interface {
	// Save pushes a state scope (transform and clip).
	Save()

	// SaveLayer pushes an offscreen composition scope. Everything drawn
	// until the matching Restore is rendered into an intermediate surface
	// sized to bounds and composited through paint.
	SaveLayer(bounds compositor.Rect, paint compositor.Paint)

	// SaveLayerWithBackdrop is SaveLayer with a backdrop filter applied to
	// the already-composited pixels beneath the layer before the layer
	// content is drawn.
	SaveLayerWithBackdrop(bounds compositor.Rect, paint compositor.Paint, backdrop compositor.ImageFilter)

	// Restore pops the innermost scope.
	Restore()

	// SaveCount returns the current scope depth. A fresh canvas reports 1.
	SaveCount() int

	// Transform concatenates a transform onto the current one.
	Transform(m compositor.Affine)

	// Translate concatenates a translation onto the current transform.
	Translate(x, y float32)

	// ClipRect intersects the clip with a rectangle.
	ClipRect(r compositor.Rect, antiAliased bool)

	// ClipShape intersects the clip with an arbitrary shape.
	ClipShape(s compositor.Shape, antiAliased bool)

	// DrawRect fills a rectangle with a color.
	DrawRect(r compositor.Rect, c color.NRGBA, paint compositor.Paint)

	// DrawPath fills a path with a color.
	DrawPath(p *compositor.Path, c color.NRGBA, paint compositor.Paint)

	// DrawImage blits an image with its top-left corner at offset.
	DrawImage(img image.Image, offset compositor.Point, paint compositor.Paint)

	// DrawText draws a pre-shaped text blob at (x, y).
	DrawText(text string, x, y float32, c color.NRGBA, paint compositor.Paint)

	// DrawDisplayList replays a recorded display list modulated by an
	// opacity in [0, 1]. The backend applies the opacity to the list's
	// content as a whole.
	DrawDisplayList(list *DisplayList, opacity float32)
}
