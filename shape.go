package compositor

import "github.com/chewxy/math32"

// Shape is a clip or content outline that can be converted to a path.
// Shapes are value-comparable through EqualShape so the diff pass can
// detect clip changes across frames.
type Shape interface {
	// Path converts the shape to a Path for the canvas.
	Path() *Path

	// Bounds returns the bounding rectangle of the shape.
	Bounds() Rect

	// EqualShape reports whether the shape equals another shape by value.
	EqualShape(other Shape) bool
}

// RectShape is an axis-aligned rectangle.
type RectShape struct {
	Rect Rect
}

// Path converts the rectangle to a path.
func (s RectShape) Path() *Path {
	return NewPath().Rectangle(s.Rect.MinX, s.Rect.MinY, s.Rect.Width(), s.Rect.Height())
}

// Bounds returns the rectangle itself.
func (s RectShape) Bounds() Rect {
	return s.Rect
}

// EqualShape reports whether other is an identical RectShape.
func (s RectShape) EqualShape(other Shape) bool {
	o, ok := other.(RectShape)
	return ok && o == s
}

// RoundedRectShape is a rectangle with a uniform corner radius.
type RoundedRectShape struct {
	Rect   Rect
	Radius float32
}

// Path converts the rounded rectangle to a path, approximating each corner
// with a quadratic segment.
func (s RoundedRectShape) Path() *Path {
	r := s.Rect
	rad := s.Radius
	if rad <= 0 {
		return RectShape{Rect: r}.Path()
	}
	half := math32.Min(r.Width(), r.Height()) / 2
	if rad > half {
		rad = half
	}
	return NewPath().
		MoveTo(r.MinX+rad, r.MinY).
		LineTo(r.MaxX-rad, r.MinY).
		QuadTo(r.MaxX, r.MinY, r.MaxX, r.MinY+rad).
		LineTo(r.MaxX, r.MaxY-rad).
		QuadTo(r.MaxX, r.MaxY, r.MaxX-rad, r.MaxY).
		LineTo(r.MinX+rad, r.MaxY).
		QuadTo(r.MinX, r.MaxY, r.MinX, r.MaxY-rad).
		LineTo(r.MinX, r.MinY+rad).
		QuadTo(r.MinX, r.MinY, r.MinX+rad, r.MinY).
		Close()
}

// Bounds returns the outer rectangle.
func (s RoundedRectShape) Bounds() Rect {
	return s.Rect
}

// EqualShape reports whether other is an identical RoundedRectShape.
func (s RoundedRectShape) EqualShape(other Shape) bool {
	o, ok := other.(RoundedRectShape)
	return ok && o == s
}

// PathShape wraps an arbitrary path as a shape.
type PathShape struct {
	P *Path
}

// Path returns the wrapped path.
func (s PathShape) Path() *Path {
	return s.P
}

// Bounds returns the path bounds.
func (s PathShape) Bounds() Rect {
	if s.P == nil {
		return EmptyRect()
	}
	return s.P.Bounds()
}

// EqualShape reports whether other is a PathShape with an equal path.
func (s PathShape) EqualShape(other Shape) bool {
	o, ok := other.(PathShape)
	return ok && s.P.Equal(o.P)
}

// ShapesEqual compares two possibly-nil shapes by value.
func ShapesEqual(a, b Shape) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.EqualShape(b)
}
