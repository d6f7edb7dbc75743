package compositor

import "github.com/chewxy/math32"

// Point is a 2D point in float32 coordinates.
type Point struct {
	X, Y float32
}

// Rect is an axis-aligned rectangle described by its min and max corners.
// A rect with MaxX <= MinX or MaxY <= MinY is considered empty.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// giantCoord bounds the "unclipped" cull rect. Large enough to contain any
// practical device geometry while leaving headroom for transform math.
const giantCoord = 1e9

// EmptyRect returns the canonical empty rectangle.
func EmptyRect() Rect {
	return Rect{}
}

// GiantRect returns a rectangle large enough to act as "no clip at all".
func GiantRect() Rect {
	return Rect{MinX: -giantCoord, MinY: -giantCoord, MaxX: giantCoord, MaxY: giantCoord}
}

// NewRect creates a rectangle from an origin and a size.
func NewRect(x, y, width, height float32) Rect {
	return Rect{MinX: x, MinY: y, MaxX: x + width, MaxY: y + height}
}

// Width returns the rectangle width, or 0 if empty.
func (r Rect) Width() float32 {
	if r.MaxX <= r.MinX {
		return 0
	}
	return r.MaxX - r.MinX
}

// Height returns the rectangle height, or 0 if empty.
func (r Rect) Height() float32 {
	if r.MaxY <= r.MinY {
		return 0
	}
	return r.MaxY - r.MinY
}

// IsEmpty returns true if the rectangle encloses no area.
func (r Rect) IsEmpty() bool {
	return r.MaxX <= r.MinX || r.MaxY <= r.MinY
}

// Union returns the smallest rectangle containing both r and o.
// Empty inputs do not contribute.
func (r Rect) Union(o Rect) Rect {
	if r.IsEmpty() {
		return o
	}
	if o.IsEmpty() {
		return r
	}
	return Rect{
		MinX: math32.Min(r.MinX, o.MinX),
		MinY: math32.Min(r.MinY, o.MinY),
		MaxX: math32.Max(r.MaxX, o.MaxX),
		MaxY: math32.Max(r.MaxY, o.MaxY),
	}
}

// UnionPoint expands the rectangle to contain the point (x, y).
// A degenerate rectangle contributes its corners like any other, so an
// accumulator must be seeded with its first point rather than with the
// zero Rect.
func (r Rect) UnionPoint(x, y float32) Rect {
	return Rect{
		MinX: math32.Min(r.MinX, x),
		MinY: math32.Min(r.MinY, y),
		MaxX: math32.Max(r.MaxX, x),
		MaxY: math32.Max(r.MaxY, y),
	}
}

// Intersect returns the overlapping region of r and o, or an empty
// rectangle if they do not overlap.
func (r Rect) Intersect(o Rect) Rect {
	out := Rect{
		MinX: math32.Max(r.MinX, o.MinX),
		MinY: math32.Max(r.MinY, o.MinY),
		MaxX: math32.Min(r.MaxX, o.MaxX),
		MaxY: math32.Min(r.MaxY, o.MaxY),
	}
	if out.IsEmpty() {
		return EmptyRect()
	}
	return out
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.MinX < o.MaxX && o.MinX < r.MaxX &&
		r.MinY < o.MaxY && o.MinY < r.MaxY
}

// Contains reports whether o lies entirely within r.
func (r Rect) Contains(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.MinX <= o.MinX && r.MinY <= o.MinY &&
		r.MaxX >= o.MaxX && r.MaxY >= o.MaxY
}

// ContainsPoint reports whether the point (x, y) lies within r.
func (r Rect) ContainsPoint(x, y float32) bool {
	return x >= r.MinX && x < r.MaxX && y >= r.MinY && y < r.MaxY
}

// RoundOut returns the smallest whole-pixel rectangle containing r.
// Used to size offscreen surfaces to whole device pixels.
func (r Rect) RoundOut() Rect {
	if r.IsEmpty() {
		return EmptyRect()
	}
	return Rect{
		MinX: math32.Floor(r.MinX),
		MinY: math32.Floor(r.MinY),
		MaxX: math32.Ceil(r.MaxX),
		MaxY: math32.Ceil(r.MaxY),
	}
}

// Outset returns the rectangle grown by dx horizontally and dy vertically.
func (r Rect) Outset(dx, dy float32) Rect {
	if r.IsEmpty() {
		return EmptyRect()
	}
	return Rect{MinX: r.MinX - dx, MinY: r.MinY - dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Translate returns the rectangle shifted by (dx, dy).
func (r Rect) Translate(dx, dy float32) Rect {
	if r.IsEmpty() {
		return EmptyRect()
	}
	return Rect{MinX: r.MinX + dx, MinY: r.MinY + dy, MaxX: r.MaxX + dx, MaxY: r.MaxY + dy}
}

// Area returns the enclosed area, or 0 if empty.
func (r Rect) Area() float32 {
	return r.Width() * r.Height()
}
