package recording

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
)

// Builder is a command-recording Canvas. Operations are captured as typed
// commands; Build produces an immutable DisplayList replayable against any
// other Canvas.
//
// The Builder tracks the transform stack itself so the resulting display
// list carries root-space content bounds, which the raster cache and the
// complexity estimator consume without replaying the commands.
//
// The Builder is not safe for concurrent use.
type Builder struct {
	commands []Command
	bounds   compositor.Rect

	transform compositor.Affine
	saved     []savedState
}

// savedState stores the transform for Save/Restore tracking.
type savedState struct {
	transform compositor.Affine
}

// NewBuilder creates an empty recording canvas.
func NewBuilder() *Builder {
	return &Builder{
		commands:  make([]Command, 0, 64),
		bounds:    compositor.EmptyRect(),
		transform: compositor.IdentityAffine(),
	}
}

// Save pushes a state scope.
func (b *Builder) Save() {
	b.saved = append(b.saved, savedState{transform: b.transform})
	b.commands = append(b.commands, SaveCommand{})
}

// SaveLayer pushes an offscreen composition scope.
func (b *Builder) SaveLayer(bounds compositor.Rect, paint compositor.Paint) {
	b.saved = append(b.saved, savedState{transform: b.transform})
	b.commands = append(b.commands, SaveLayerCommand{Bounds: bounds, Paint: paint})
}

// SaveLayerWithBackdrop pushes an offscreen scope with a backdrop filter.
func (b *Builder) SaveLayerWithBackdrop(bounds compositor.Rect, paint compositor.Paint, backdrop compositor.ImageFilter) {
	b.saved = append(b.saved, savedState{transform: b.transform})
	b.commands = append(b.commands, SaveLayerCommand{Bounds: bounds, Paint: paint, Backdrop: backdrop})
}

// Restore pops the innermost scope. Popping with no open scope is a
// programming error and panics.
func (b *Builder) Restore() {
	if len(b.saved) == 0 {
		panic("recording: Restore without matching Save")
	}
	b.transform = b.saved[len(b.saved)-1].transform
	b.saved = b.saved[:len(b.saved)-1]
	b.commands = append(b.commands, RestoreCommand{})
}

// SaveCount returns the current scope depth. A fresh builder reports 1.
func (b *Builder) SaveCount() int {
	return len(b.saved) + 1
}

// Transform concatenates a transform onto the current one.
func (b *Builder) Transform(m compositor.Affine) {
	b.transform = b.transform.Multiply(m)
	b.commands = append(b.commands, TransformCommand{Matrix: m})
}

// Translate concatenates a translation onto the current transform.
func (b *Builder) Translate(x, y float32) {
	b.Transform(compositor.TranslateAffine(x, y))
}

// ClipRect intersects the clip with a rectangle.
func (b *Builder) ClipRect(r compositor.Rect, antiAliased bool) {
	b.commands = append(b.commands, ClipRectCommand{Rect: r, AntiAliased: antiAliased})
}

// ClipShape intersects the clip with an arbitrary shape.
func (b *Builder) ClipShape(s compositor.Shape, antiAliased bool) {
	b.commands = append(b.commands, ClipShapeCommand{Shape: s, AntiAliased: antiAliased})
}

// DrawRect fills a rectangle with a color.
func (b *Builder) DrawRect(r compositor.Rect, c color.NRGBA, paint compositor.Paint) {
	b.commands = append(b.commands, DrawRectCommand{Rect: r, Color: c, Paint: paint})
	b.accumulate(r)
}

// DrawPath fills a path with a color.
func (b *Builder) DrawPath(p *compositor.Path, c color.NRGBA, paint compositor.Paint) {
	if p == nil || p.IsEmpty() {
		return
	}
	b.commands = append(b.commands, DrawPathCommand{Path: p, Color: c, Paint: paint})
	b.accumulate(p.Bounds())
}

// DrawImage blits an image with its top-left corner at offset.
func (b *Builder) DrawImage(img image.Image, offset compositor.Point, paint compositor.Paint) {
	if img == nil {
		return
	}
	b.commands = append(b.commands, DrawImageCommand{Image: img, Offset: offset, Paint: paint})
	ib := img.Bounds()
	b.accumulate(compositor.NewRect(offset.X, offset.Y, float32(ib.Dx()), float32(ib.Dy())))
}

// DrawText draws a pre-shaped text blob at (x, y). The blob carries no
// metrics, so one text line contributes a point to the bounds; shaped
// extents are the text collaborator's concern.
func (b *Builder) DrawText(text string, x, y float32, c color.NRGBA, paint compositor.Paint) {
	if text == "" {
		return
	}
	b.commands = append(b.commands, DrawTextCommand{Text: text, X: x, Y: y, Color: c, Paint: paint})
	b.accumulate(compositor.Rect{MinX: x, MinY: y, MaxX: x, MaxY: y})
}

// DrawDisplayList replays a recorded display list modulated by opacity.
func (b *Builder) DrawDisplayList(list *DisplayList, opacity float32) {
	if list == nil || list.IsEmpty() || opacity <= 0 {
		return
	}
	b.commands = append(b.commands, DrawDisplayListCommand{List: list, Opacity: opacity})
	b.accumulate(list.Bounds())
}

// accumulate unions draw bounds into the recording bounds, mapped through
// the current transform into root space.
func (b *Builder) accumulate(r compositor.Rect) {
	b.bounds = b.bounds.Union(b.transform.MapRect(r))
}

// Build finalizes the recording and returns an immutable DisplayList.
// Open scopes are closed automatically. The Builder must not be used after
// Build.
func (b *Builder) Build() *DisplayList {
	for len(b.saved) > 0 {
		b.Restore()
	}
	dl := &DisplayList{commands: b.commands, bounds: b.bounds}
	b.commands = nil
	return dl
}

// DisplayList is an immutable sequence of recorded drawing commands with
// precomputed root-space content bounds.
type DisplayList struct {
	commands []Command
	bounds   compositor.Rect
}

// Commands returns the recorded commands in order.
func (d *DisplayList) Commands() []Command {
	return d.commands
}

// Bounds returns the root-space bounds of all drawn content.
func (d *DisplayList) Bounds() compositor.Rect {
	return d.bounds
}

// OpCount returns the number of recorded commands, recursing into nested
// display lists.
func (d *DisplayList) OpCount() int {
	n := 0
	for _, cmd := range d.commands {
		if nested, ok := cmd.(DrawDisplayListCommand); ok {
			n += nested.List.OpCount()
			continue
		}
		n++
	}
	return n
}

// IsEmpty reports whether the list contains no commands.
func (d *DisplayList) IsEmpty() bool {
	return d == nil || len(d.commands) == 0
}

// Replay issues every command against the canvas in recorded order.
func (d *DisplayList) Replay(canvas Canvas) {
	for _, cmd := range d.commands {
		switch c := cmd.(type) {
		case SaveCommand:
			canvas.Save()
		case SaveLayerCommand:
			if c.Backdrop != nil {
				canvas.SaveLayerWithBackdrop(c.Bounds, c.Paint, c.Backdrop)
			} else {
				canvas.SaveLayer(c.Bounds, c.Paint)
			}
		case RestoreCommand:
			canvas.Restore()
		case TransformCommand:
			canvas.Transform(c.Matrix)
		case ClipRectCommand:
			canvas.ClipRect(c.Rect, c.AntiAliased)
		case ClipShapeCommand:
			canvas.ClipShape(c.Shape, c.AntiAliased)
		case DrawRectCommand:
			canvas.DrawRect(c.Rect, c.Color, c.Paint)
		case DrawPathCommand:
			canvas.DrawPath(c.Path, c.Color, c.Paint)
		case DrawImageCommand:
			canvas.DrawImage(c.Image, c.Offset, c.Paint)
		case DrawTextCommand:
			canvas.DrawText(c.Text, c.X, c.Y, c.Color, c.Paint)
		case DrawDisplayListCommand:
			canvas.DrawDisplayList(c.List, c.Opacity)
		}
	}
}

// Equal reports whether two display lists record identical command
// sequences.
func (d *DisplayList) Equal(o *DisplayList) bool {
	if d == o {
		return true
	}
	if d == nil || o == nil {
		return false
	}
	if len(d.commands) != len(o.commands) {
		return false
	}
	for i, cmd := range d.commands {
		if !cmd.EqualCommand(o.commands[i]) {
			return false
		}
	}
	return true
}

// Ensure Builder implements Canvas.
var _ Canvas = (*Builder)(nil)
