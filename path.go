package compositor

// PathVerb identifies one path segment kind.
type PathVerb uint8

// Path verb constants.
const (
	// VerbMove starts a new subpath at a point.
	VerbMove PathVerb = iota

	// VerbLine adds a straight segment to a point.
	VerbLine

	// VerbQuad adds a quadratic Bezier segment (control, end).
	VerbQuad

	// VerbClose closes the current subpath.
	VerbClose
)

// Path is a sequence of move/line/quad/close segments. The compositor does
// not rasterize paths itself; it records them and hands them to the active
// canvas, so Path only needs construction, bounds, and value comparison.
type Path struct {
	verbs  []PathVerb
	points []Point
	bounds Rect
}

// NewPath creates an empty path.
func NewPath() *Path {
	return &Path{bounds: EmptyRect()}
}

// addPoint appends a point and grows the bounds. The first point seeds
// the bounds accumulator so later points extend it rather than reset it.
func (p *Path) addPoint(x, y float32) {
	p.points = append(p.points, Point{X: x, Y: y})
	if len(p.points) == 1 {
		p.bounds = Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}
		return
	}
	p.bounds = p.bounds.UnionPoint(x, y)
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float32) *Path {
	p.verbs = append(p.verbs, VerbMove)
	p.addPoint(x, y)
	return p
}

// LineTo adds a line segment to (x, y).
func (p *Path) LineTo(x, y float32) *Path {
	p.verbs = append(p.verbs, VerbLine)
	p.addPoint(x, y)
	return p
}

// QuadTo adds a quadratic Bezier with control point (cx, cy) ending at
// (x, y). The control point is included in the bounds; the true curve
// extent is never larger.
func (p *Path) QuadTo(cx, cy, x, y float32) *Path {
	p.verbs = append(p.verbs, VerbQuad)
	p.addPoint(cx, cy)
	p.addPoint(x, y)
	return p
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.verbs = append(p.verbs, VerbClose)
	return p
}

// Rectangle appends a closed rectangular subpath.
func (p *Path) Rectangle(x, y, width, height float32) *Path {
	return p.MoveTo(x, y).
		LineTo(x+width, y).
		LineTo(x+width, y+height).
		LineTo(x, y+height).
		Close()
}

// Bounds returns the bounding rectangle of all path points.
func (p *Path) Bounds() Rect {
	return p.bounds
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.verbs) == 0
}

// Verbs returns the path's segment kinds in order.
func (p *Path) Verbs() []PathVerb {
	return p.verbs
}

// Points returns the path's points in verb order: one point for move and
// line, two for quad, none for close.
func (p *Path) Points() []Point {
	return p.points
}

// Equal reports whether two paths contain identical segments.
func (p *Path) Equal(o *Path) bool {
	if p == o {
		return true
	}
	if p == nil || o == nil {
		return false
	}
	if len(p.verbs) != len(o.verbs) || len(p.points) != len(o.points) {
		return false
	}
	for i, v := range p.verbs {
		if o.verbs[i] != v {
			return false
		}
	}
	for i, pt := range p.points {
		if o.points[i] != pt {
			return false
		}
	}
	return true
}

// Transform returns a copy of the path with every point transformed.
func (p *Path) Transform(m Affine) *Path {
	out := &Path{
		verbs:  append([]PathVerb(nil), p.verbs...),
		points: make([]Point, len(p.points)),
		bounds: EmptyRect(),
	}
	for i, pt := range p.points {
		x, y := m.TransformPoint(pt.X, pt.Y)
		out.points[i] = Point{X: x, Y: y}
		if i == 0 {
			out.bounds = Rect{MinX: x, MinY: y, MaxX: x, MaxY: y}
			continue
		}
		out.bounds = out.bounds.UnionPoint(x, y)
	}
	return out
}
