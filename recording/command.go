// Package recording provides the device-independent drawing command
// vocabulary emitted by the compositor.
//
// The Canvas interface is the downstream paint delegate: an immediate-mode
// surface or the command-recording Builder both implement it. The Builder
// captures operations as typed command structures that are stored in an
// immutable DisplayList and replayed, in order, to any other Canvas.
//
// Design follows typed command structs for inspectability rather than a
// binary serialization format: every command is a small value type and two
// display lists can be compared structurally, which the layer and cache
// tests rely on.
package recording

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
)

// CommandType identifies the type of a command.
type CommandType uint8

const (
	// State commands
	CmdSave      CommandType = iota // Push a state scope
	CmdSaveLayer                    // Push an offscreen composition scope
	CmdRestore                      // Pop the innermost scope
	CmdTransform                    // Concatenate a transform
	CmdClipRect                     // Intersect the clip with a rectangle
	CmdClipShape                    // Intersect the clip with a shape

	// Drawing commands
	CmdDrawRect        // Fill a rectangle
	CmdDrawPath        // Fill a path
	CmdDrawImage       // Blit an image
	CmdDrawText        // Draw a pre-shaped text blob
	CmdDrawDisplayList // Replay a nested display list
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdSave:            "Save",
	CmdSaveLayer:       "SaveLayer",
	CmdRestore:         "Restore",
	CmdTransform:       "Transform",
	CmdClipRect:        "ClipRect",
	CmdClipShape:       "ClipShape",
	CmdDrawRect:        "DrawRect",
	CmdDrawPath:        "DrawPath",
	CmdDrawImage:       "DrawImage",
	CmdDrawText:        "DrawText",
	CmdDrawDisplayList: "DrawDisplayList",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all command types.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType

	// EqualCommand reports whether this command equals another by value.
	EqualCommand(other Command) bool
}

// SaveCommand pushes a plain state scope.
type SaveCommand struct{}

// Type returns CmdSave.
func (SaveCommand) Type() CommandType { return CmdSave }

// EqualCommand reports whether other is also a SaveCommand.
func (SaveCommand) EqualCommand(other Command) bool {
	_, ok := other.(SaveCommand)
	return ok
}

// SaveLayerCommand pushes an offscreen composition scope. The subtree drawn
// until the matching Restore is composited through Paint, optionally after
// the Backdrop filter has been applied to the pixels already beneath it.
type SaveLayerCommand struct {
	Bounds   compositor.Rect
	Paint    compositor.Paint
	Backdrop compositor.ImageFilter
}

// Type returns CmdSaveLayer.
func (SaveLayerCommand) Type() CommandType { return CmdSaveLayer }

// EqualCommand reports whether other is an identical SaveLayerCommand.
func (c SaveLayerCommand) EqualCommand(other Command) bool {
	o, ok := other.(SaveLayerCommand)
	return ok && o.Bounds == c.Bounds && paintsEqual(o.Paint, c.Paint) &&
		compositor.ImageFiltersEqual(o.Backdrop, c.Backdrop)
}

// RestoreCommand pops the innermost scope.
type RestoreCommand struct{}

// Type returns CmdRestore.
func (RestoreCommand) Type() CommandType { return CmdRestore }

// EqualCommand reports whether other is also a RestoreCommand.
func (RestoreCommand) EqualCommand(other Command) bool {
	_, ok := other.(RestoreCommand)
	return ok
}

// TransformCommand concatenates a transform onto the current one.
type TransformCommand struct {
	Matrix compositor.Affine
}

// Type returns CmdTransform.
func (TransformCommand) Type() CommandType { return CmdTransform }

// EqualCommand reports whether other is an identical TransformCommand.
func (c TransformCommand) EqualCommand(other Command) bool {
	o, ok := other.(TransformCommand)
	return ok && o == c
}

// ClipRectCommand intersects the clip with a rectangle.
type ClipRectCommand struct {
	Rect        compositor.Rect
	AntiAliased bool
}

// Type returns CmdClipRect.
func (ClipRectCommand) Type() CommandType { return CmdClipRect }

// EqualCommand reports whether other is an identical ClipRectCommand.
func (c ClipRectCommand) EqualCommand(other Command) bool {
	o, ok := other.(ClipRectCommand)
	return ok && o == c
}

// ClipShapeCommand intersects the clip with an arbitrary shape.
type ClipShapeCommand struct {
	Shape       compositor.Shape
	AntiAliased bool
}

// Type returns CmdClipShape.
func (ClipShapeCommand) Type() CommandType { return CmdClipShape }

// EqualCommand reports whether other is an identical ClipShapeCommand.
func (c ClipShapeCommand) EqualCommand(other Command) bool {
	o, ok := other.(ClipShapeCommand)
	return ok && o.AntiAliased == c.AntiAliased &&
		compositor.ShapesEqual(o.Shape, c.Shape)
}

// DrawRectCommand fills a rectangle with a color.
type DrawRectCommand struct {
	Rect  compositor.Rect
	Color color.NRGBA
	Paint compositor.Paint
}

// Type returns CmdDrawRect.
func (DrawRectCommand) Type() CommandType { return CmdDrawRect }

// EqualCommand reports whether other is an identical DrawRectCommand.
func (c DrawRectCommand) EqualCommand(other Command) bool {
	o, ok := other.(DrawRectCommand)
	return ok && o.Rect == c.Rect && o.Color == c.Color && paintsEqual(o.Paint, c.Paint)
}

// DrawPathCommand fills a path with a color.
type DrawPathCommand struct {
	Path  *compositor.Path
	Color color.NRGBA
	Paint compositor.Paint
}

// Type returns CmdDrawPath.
func (DrawPathCommand) Type() CommandType { return CmdDrawPath }

// EqualCommand reports whether other is an identical DrawPathCommand.
func (c DrawPathCommand) EqualCommand(other Command) bool {
	o, ok := other.(DrawPathCommand)
	return ok && o.Color == c.Color && paintsEqual(o.Paint, c.Paint) &&
		c.Path.Equal(o.Path)
}

// DrawImageCommand blits an image at an offset in the current space.
type DrawImageCommand struct {
	Image  image.Image
	Offset compositor.Point
	Paint  compositor.Paint
}

// Type returns CmdDrawImage.
func (DrawImageCommand) Type() CommandType { return CmdDrawImage }

// EqualCommand compares images by identity: a cached rasterization is one
// concrete pixel buffer, not a value.
func (c DrawImageCommand) EqualCommand(other Command) bool {
	o, ok := other.(DrawImageCommand)
	return ok && o.Image == c.Image && o.Offset == c.Offset && paintsEqual(o.Paint, c.Paint)
}

// DrawTextCommand draws an already-shaped text blob. Shaping is external to
// the compositor; the blob is carried as an opaque string plus origin.
type DrawTextCommand struct {
	Text  string
	X, Y  float32
	Color color.NRGBA
	Paint compositor.Paint
}

// Type returns CmdDrawText.
func (DrawTextCommand) Type() CommandType { return CmdDrawText }

// EqualCommand reports whether other is an identical DrawTextCommand.
func (c DrawTextCommand) EqualCommand(other Command) bool {
	o, ok := other.(DrawTextCommand)
	return ok && o.Text == c.Text && o.X == c.X && o.Y == c.Y &&
		o.Color == c.Color && paintsEqual(o.Paint, c.Paint)
}

// DrawDisplayListCommand replays a nested display list modulated by an
// opacity.
type DrawDisplayListCommand struct {
	List    *DisplayList
	Opacity float32
}

// Type returns CmdDrawDisplayList.
func (DrawDisplayListCommand) Type() CommandType { return CmdDrawDisplayList }

// EqualCommand reports whether other replays a structurally equal list.
func (c DrawDisplayListCommand) EqualCommand(other Command) bool {
	o, ok := other.(DrawDisplayListCommand)
	return ok && c.Opacity == o.Opacity && c.List.Equal(o.List)
}

// paintsEqual compares two paints by value including their filters.
func paintsEqual(a, b compositor.Paint) bool {
	return a.Opacity == b.Opacity && a.Blend == b.Blend &&
		compositor.ColorFiltersEqual(a.ColorFilter, b.ColorFilter) &&
		compositor.ImageFiltersEqual(a.ImageFilter, b.ImageFilter)
}
