package compositor

import "github.com/chewxy/math32"

// Affine represents a 2D affine transformation as a 2x3 matrix in
// row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// transforming points as:
//
//	x' = A*x + B*y + C
//	y' = D*x + E*y + F
type Affine struct {
	A, B, C float32
	D, E, F float32
}

// IdentityAffine returns the identity transform.
func IdentityAffine() Affine {
	return Affine{A: 1, E: 1}
}

// TranslateAffine returns a translation by (x, y).
func TranslateAffine(x, y float32) Affine {
	return Affine{A: 1, C: x, E: 1, F: y}
}

// ScaleAffine returns a scale by (sx, sy) about the origin.
func ScaleAffine(sx, sy float32) Affine {
	return Affine{A: sx, E: sy}
}

// RotateAffine returns a rotation by the given angle in radians.
func RotateAffine(radians float32) Affine {
	sin, cos := math32.Sincos(radians)
	return Affine{A: cos, B: -sin, D: sin, E: cos}
}

// Multiply returns m * o, the transform that applies o first, then m.
func (m Affine) Multiply(o Affine) Affine {
	return Affine{
		A: m.A*o.A + m.B*o.D,
		B: m.A*o.B + m.B*o.E,
		C: m.A*o.C + m.B*o.F + m.C,
		D: m.D*o.A + m.E*o.D,
		E: m.D*o.B + m.E*o.E,
		F: m.D*o.C + m.E*o.F + m.F,
	}
}

// TransformPoint applies the transform to the point (x, y).
func (m Affine) TransformPoint(x, y float32) (float32, float32) {
	return m.A*x + m.B*y + m.C, m.D*x + m.E*y + m.F
}

// MapRect returns the axis-aligned bounding box of the transformed corners
// of r. An empty input maps to an empty output.
func (m Affine) MapRect(r Rect) Rect {
	if r.IsEmpty() {
		return EmptyRect()
	}
	if m.IsTranslate() {
		return r.Translate(m.C, m.F)
	}
	corners := [4][2]float32{
		{r.MinX, r.MinY},
		{r.MaxX, r.MinY},
		{r.MaxX, r.MaxY},
		{r.MinX, r.MaxY},
	}
	x0, y0 := m.TransformPoint(corners[0][0], corners[0][1])
	out := Rect{MinX: x0, MinY: y0, MaxX: x0, MaxY: y0}
	for _, c := range corners[1:] {
		x, y := m.TransformPoint(c[0], c[1])
		out.MinX = math32.Min(out.MinX, x)
		out.MinY = math32.Min(out.MinY, y)
		out.MaxX = math32.Max(out.MaxX, x)
		out.MaxY = math32.Max(out.MaxY, y)
	}
	return out
}

// Determinant returns the determinant of the linear part of the transform.
// A zero determinant means the transform collapses area and cannot be
// inverted.
func (m Affine) Determinant() float32 {
	return m.A*m.E - m.B*m.D
}

// IsInvertible reports whether the transform has a finite, non-degenerate
// inverse.
func (m Affine) IsInvertible() bool {
	det := m.Determinant()
	return det != 0 && !math32.IsNaN(det) && !math32.IsInf(det, 0)
}

// Invert returns the inverse transform. The second result is false when the
// transform is degenerate (zero determinant, NaN or infinite terms).
func (m Affine) Invert() (Affine, bool) {
	det := m.Determinant()
	if det == 0 || math32.IsNaN(det) || math32.IsInf(det, 0) {
		return IdentityAffine(), false
	}
	inv := 1 / det
	return Affine{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.E*m.C) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.D*m.C - m.A*m.F) * inv,
	}, true
}

// IsIdentity reports whether the transform is exactly the identity.
func (m Affine) IsIdentity() bool {
	return m == IdentityAffine()
}

// IsTranslate reports whether the transform is a pure translation.
func (m Affine) IsTranslate() bool {
	return m.A == 1 && m.B == 0 && m.D == 0 && m.E == 1
}

// TranslateBy returns the transform with an additional translation applied
// in the local (pre-transform) coordinate space.
func (m Affine) TranslateBy(x, y float32) Affine {
	return m.Multiply(TranslateAffine(x, y))
}

// TranslationFraction returns the sub-pixel remainder of the translation
// components. The raster cache uses it to compensate for the difference in
// pixel alignment between cache time and draw time.
func (m Affine) TranslationFraction() (float32, float32) {
	return m.C - math32.Floor(m.C), m.F - math32.Floor(m.F)
}

// NearEqual reports whether every term of m is within tol of the
// corresponding term of o.
func (m Affine) NearEqual(o Affine, tol float32) bool {
	return math32.Abs(m.A-o.A) <= tol &&
		math32.Abs(m.B-o.B) <= tol &&
		math32.Abs(m.C-o.C) <= tol &&
		math32.Abs(m.D-o.D) <= tol &&
		math32.Abs(m.E-o.E) <= tol &&
		math32.Abs(m.F-o.F) <= tol
}
