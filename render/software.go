// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/recording"
)

// SoftwareCanvas is an immediate-mode Canvas over an *image.RGBA.
//
// It implements the compositor's delegate vocabulary well enough to
// rasterize cache content and exercise the traversal in tests: axis-aligned
// fills are exact, arbitrary paths are filled by their bounds, image blits
// go through x/image/draw with scaling when the current transform scales,
// and text is delegated to the external shaping collaborator (a no-op
// here). Unsupported variants degrade rather than fail.
//
// SoftwareCanvas is not safe for concurrent use.
type SoftwareCanvas struct {
	dst *image.RGBA

	transform compositor.Affine
	clip      compositor.Rect
	saved     []softwareState
	layers    []*softwareLayer
}

// softwareState stores transform and clip for Save/Restore.
type softwareState struct {
	transform compositor.Affine
	clip      compositor.Rect
	layer     *softwareLayer
}

// softwareLayer is an in-flight offscreen scope.
type softwareLayer struct {
	img    *image.RGBA
	parent *image.RGBA
	paint  compositor.Paint
}

// NewSoftwareCanvas creates a canvas drawing into img.
func NewSoftwareCanvas(img *image.RGBA) *SoftwareCanvas {
	b := img.Bounds()
	return &SoftwareCanvas{
		dst:       img,
		transform: compositor.IdentityAffine(),
		clip:      compositor.NewRect(float32(b.Min.X), float32(b.Min.Y), float32(b.Dx()), float32(b.Dy())),
	}
}

// Save pushes a state scope.
func (c *SoftwareCanvas) Save() {
	c.saved = append(c.saved, softwareState{transform: c.transform, clip: c.clip})
}

// SaveLayer pushes an offscreen composition scope.
func (c *SoftwareCanvas) SaveLayer(bounds compositor.Rect, paint compositor.Paint) {
	c.SaveLayerWithBackdrop(bounds, paint, nil)
}

// SaveLayerWithBackdrop pushes an offscreen scope. A backdrop filter cannot
// be evaluated by the software canvas; it is degraded to a plain layer and
// logged once per call site at warn level.
func (c *SoftwareCanvas) SaveLayerWithBackdrop(bounds compositor.Rect, paint compositor.Paint, backdrop compositor.ImageFilter) {
	if backdrop != nil {
		compositor.Logger().Warn("software canvas: backdrop filter unsupported, degrading to plain layer",
			"filter", backdrop.String())
	}
	layer := &softwareLayer{
		img:    image.NewRGBA(c.dst.Bounds()),
		parent: c.dst,
		paint:  paint,
	}
	c.saved = append(c.saved, softwareState{transform: c.transform, clip: c.clip, layer: layer})
	c.layers = append(c.layers, layer)
	c.dst = layer.img
}

// Restore pops the innermost scope, compositing any offscreen layer.
func (c *SoftwareCanvas) Restore() {
	if len(c.saved) == 0 {
		panic("render: Restore without matching Save")
	}
	state := c.saved[len(c.saved)-1]
	c.saved = c.saved[:len(c.saved)-1]

	if state.layer != nil {
		c.layers = c.layers[:len(c.layers)-1]
		c.dst = state.layer.parent
		c.compositeLayer(state.layer)
	}
	c.transform = state.transform
	c.clip = state.clip
}

// SaveCount returns the current scope depth. A fresh canvas reports 1.
func (c *SoftwareCanvas) SaveCount() int {
	return len(c.saved) + 1
}

// Transform concatenates a transform onto the current one.
func (c *SoftwareCanvas) Transform(m compositor.Affine) {
	c.transform = c.transform.Multiply(m)
}

// Translate concatenates a translation onto the current transform.
func (c *SoftwareCanvas) Translate(x, y float32) {
	c.Transform(compositor.TranslateAffine(x, y))
}

// ClipRect intersects the clip with a rectangle in the current space.
func (c *SoftwareCanvas) ClipRect(r compositor.Rect, antiAliased bool) {
	c.clip = c.clip.Intersect(c.transform.MapRect(r))
}

// ClipShape intersects the clip with the shape's bounds. Exact shape
// coverage is the rasterizer's concern, not the compositor's.
func (c *SoftwareCanvas) ClipShape(s compositor.Shape, antiAliased bool) {
	if s == nil {
		return
	}
	c.clip = c.clip.Intersect(c.transform.MapRect(s.Bounds()))
}

// DrawRect fills the transformed rectangle.
func (c *SoftwareCanvas) DrawRect(r compositor.Rect, col color.NRGBA, paint compositor.Paint) {
	c.fillDeviceRect(c.transform.MapRect(r), col, paint)
}

// DrawPath fills the path's bounds. The software canvas does not run a
// scanline rasterizer; exact coverage belongs to the GPU backend.
func (c *SoftwareCanvas) DrawPath(p *compositor.Path, col color.NRGBA, paint compositor.Paint) {
	if p == nil || p.IsEmpty() {
		return
	}
	c.fillDeviceRect(c.transform.MapRect(p.Bounds()), col, paint)
}

// DrawImage blits an image at offset in the current space, scaling through
// x/image/draw when the transform carries scale.
func (c *SoftwareCanvas) DrawImage(img image.Image, offset compositor.Point, paint compositor.Paint) {
	if img == nil {
		return
	}
	srcBounds := img.Bounds()
	local := compositor.NewRect(offset.X, offset.Y, float32(srcBounds.Dx()), float32(srcBounds.Dy()))
	device := c.transform.MapRect(local).Intersect(c.clip)
	if device.IsEmpty() {
		return
	}
	dstRect := image.Rect(int(device.MinX), int(device.MinY), int(device.MaxX), int(device.MaxY))

	op := xdraw.Over
	if paint.Blend == compositor.BlendSrc {
		op = xdraw.Src
	}

	if paint.Opacity < 1 {
		// Uniform alpha mask carries the global opacity through the blit.
		mask := image.NewUniform(color.Alpha{A: uint8(paint.Opacity*255 + 0.5)})
		if dstRect.Dx() == srcBounds.Dx() && dstRect.Dy() == srcBounds.Dy() {
			xdraw.DrawMask(c.dst, dstRect, img, srcBounds.Min, mask, image.Point{}, op)
			return
		}
		// Scale into a staging buffer first, then masked blit.
		staged := image.NewRGBA(image.Rect(0, 0, dstRect.Dx(), dstRect.Dy()))
		xdraw.ApproxBiLinear.Scale(staged, staged.Bounds(), img, srcBounds, xdraw.Src, nil)
		xdraw.DrawMask(c.dst, dstRect, staged, image.Point{}, mask, image.Point{}, op)
		return
	}

	if dstRect.Dx() == srcBounds.Dx() && dstRect.Dy() == srcBounds.Dy() {
		xdraw.Draw(c.dst, dstRect, img, srcBounds.Min, op)
		return
	}
	xdraw.ApproxBiLinear.Scale(c.dst, dstRect, img, srcBounds, op, nil)
}

// DrawText is delegated to the external text collaborator; the software
// canvas has no shaper and degrades to a no-op.
func (c *SoftwareCanvas) DrawText(text string, x, y float32, col color.NRGBA, paint compositor.Paint) {
	compositor.Logger().Warn("software canvas: text drawing unsupported, skipping", "len", len(text))
}

// DrawDisplayList replays a recorded display list onto this canvas. A
// partial opacity composites the replayed content through an offscreen
// layer.
func (c *SoftwareCanvas) DrawDisplayList(list *recording.DisplayList, opacity float32) {
	if list == nil || opacity <= 0 {
		return
	}
	if opacity >= 1 {
		list.Replay(c)
		return
	}
	paint := compositor.NewPaint()
	paint.Opacity = opacity
	c.SaveLayer(list.Bounds(), paint)
	list.Replay(c)
	c.Restore()
}

// fillDeviceRect fills a device-space rectangle clipped to the current
// clip, blending src-over with the paint's opacity.
func (c *SoftwareCanvas) fillDeviceRect(device compositor.Rect, col color.NRGBA, paint compositor.Paint) {
	device = device.Intersect(c.clip)
	if device.IsEmpty() {
		return
	}
	alpha := float32(col.A) / 255 * paint.Opacity
	if alpha <= 0 {
		return
	}
	src := color.NRGBA{R: col.R, G: col.G, B: col.B, A: uint8(alpha*255 + 0.5)}
	rect := image.Rect(int(device.MinX), int(device.MinY), int(device.MaxX), int(device.MaxY))
	uniform := image.NewUniform(src)
	if paint.Blend == compositor.BlendSrc {
		xdraw.Draw(c.dst, rect, uniform, image.Point{}, xdraw.Src)
		return
	}
	xdraw.Draw(c.dst, rect, uniform, image.Point{}, xdraw.Over)
}

// compositeLayer blends a finished offscreen layer back into its parent.
func (c *SoftwareCanvas) compositeLayer(layer *softwareLayer) {
	paint := layer.paint
	if f, ok := paint.ColorFilter.(compositor.MatrixColorFilter); ok {
		applyColorMatrix(layer.img, f.Matrix)
		paint.ColorFilter = nil
	} else if paint.ColorFilter != nil {
		compositor.Logger().Warn("software canvas: color filter unsupported, skipping",
			"filter", paint.ColorFilter.String())
	}
	if paint.ImageFilter != nil {
		compositor.Logger().Warn("software canvas: image filter unsupported, skipping",
			"filter", paint.ImageFilter.String())
	}

	bounds := layer.img.Bounds()
	if paint.Opacity < 1 {
		mask := image.NewUniform(color.Alpha{A: uint8(paint.Opacity*255 + 0.5)})
		xdraw.DrawMask(layer.parent, bounds, layer.img, bounds.Min, mask, image.Point{}, xdraw.Over)
		return
	}
	xdraw.Draw(layer.parent, bounds, layer.img, bounds.Min, xdraw.Over)
}

// applyColorMatrix transforms every pixel through a 4x5 color matrix.
func applyColorMatrix(img *image.RGBA, m [20]float32) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			p := row[x*4 : x*4+4]
			r := float32(p[0]) / 255
			g := float32(p[1]) / 255
			bl := float32(p[2]) / 255
			a := float32(p[3]) / 255
			p[0] = clampByte(m[0]*r + m[1]*g + m[2]*bl + m[3]*a + m[4])
			p[1] = clampByte(m[5]*r + m[6]*g + m[7]*bl + m[8]*a + m[9])
			p[2] = clampByte(m[10]*r + m[11]*g + m[12]*bl + m[13]*a + m[14])
			p[3] = clampByte(m[15]*r + m[16]*g + m[17]*bl + m[18]*a + m[19])
		}
	}
}

// clampByte converts a [0, 1] channel value to a byte, clamping overflow.
func clampByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

// Ensure SoftwareCanvas implements the delegate vocabulary.
var _ recording.Canvas = (*SoftwareCanvas)(nil)
