package compositor

import (
	"testing"

	"github.com/chewxy/math32"
)

func TestAffineMultiplyOrder(t *testing.T) {
	// Multiply applies the right operand first: translate then scale.
	m := ScaleAffine(2, 2).Multiply(TranslateAffine(10, 0))
	x, y := m.TransformPoint(1, 1)
	if x != 22 || y != 2 {
		t.Errorf("TransformPoint(1, 1) = (%v, %v), want (22, 2)", x, y)
	}
}

func TestAffineMapRect(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
		r    Rect
		want Rect
	}{
		{"identity", IdentityAffine(), NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4)},
		{"translate", TranslateAffine(10, 20), NewRect(0, 0, 5, 5), NewRect(10, 20, 5, 5)},
		{"scale", ScaleAffine(2, 3), NewRect(1, 1, 2, 2), Rect{MinX: 2, MinY: 3, MaxX: 6, MaxY: 9}},
		{"scale from origin", ScaleAffine(2, 2), NewRect(0, 0, 50, 50), NewRect(0, 0, 100, 100)},
		{"scale then translate", TranslateAffine(10, 20).Multiply(ScaleAffine(2, 2)), NewRect(5, 5, 10, 10), NewRect(20, 30, 20, 20)},
		{"flip", ScaleAffine(-1, 1), NewRect(10, 0, 20, 20), Rect{MinX: -30, MinY: 0, MaxX: -10, MaxY: 20}},
		{"empty", ScaleAffine(2, 2), EmptyRect(), EmptyRect()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.MapRect(tt.r); got != tt.want {
				t.Errorf("MapRect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAffineMapRectRotation(t *testing.T) {
	// A quarter turn of the unit square about the origin lands in the
	// second quadrant; every corner must contribute to the box.
	got := RotateAffine(math32.Pi / 2).MapRect(NewRect(0, 0, 1, 1))
	want := Rect{MinX: -1, MinY: 0, MaxX: 0, MaxY: 1}
	const tol = 1e-6
	if math32.Abs(got.MinX-want.MinX) > tol || math32.Abs(got.MinY-want.MinY) > tol ||
		math32.Abs(got.MaxX-want.MaxX) > tol || math32.Abs(got.MaxY-want.MaxY) > tol {
		t.Errorf("MapRect(rotate 90) = %v, want %v", got, want)
	}
}

func TestAffineInvert(t *testing.T) {
	m := TranslateAffine(10, 20).Multiply(ScaleAffine(2, 4))
	inv, ok := m.Invert()
	if !ok {
		t.Fatal("invertible transform reported degenerate")
	}
	x, y := m.TransformPoint(3, 5)
	bx, by := inv.TransformPoint(x, y)
	if bx != 3 || by != 5 {
		t.Errorf("round trip = (%v, %v), want (3, 5)", bx, by)
	}
}

func TestAffineInvertDegenerate(t *testing.T) {
	tests := []struct {
		name string
		m    Affine
	}{
		{"zero scale", ScaleAffine(0, 1)},
		{"collapsed", Affine{A: 1, B: 2, D: 2, E: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := tt.m.Invert(); ok {
				t.Error("degenerate transform reported invertible")
			}
			if tt.m.IsInvertible() {
				t.Error("IsInvertible() = true for degenerate transform")
			}
		})
	}
}

func TestAffineIsTranslate(t *testing.T) {
	if !TranslateAffine(5, -3).IsTranslate() {
		t.Error("translation not recognized")
	}
	if !IdentityAffine().IsTranslate() {
		t.Error("identity is a (zero) translation")
	}
	if ScaleAffine(2, 2).IsTranslate() {
		t.Error("scale misreported as translation")
	}
}

func TestAffineTranslationFraction(t *testing.T) {
	fx, fy := TranslateAffine(10.25, -3.5).TranslationFraction()
	if fx != 0.25 || fy != 0.5 {
		t.Errorf("TranslationFraction() = (%v, %v), want (0.25, 0.5)", fx, fy)
	}
	fx, fy = TranslateAffine(7, 9).TranslationFraction()
	if fx != 0 || fy != 0 {
		t.Errorf("whole-pixel TranslationFraction() = (%v, %v), want (0, 0)", fx, fy)
	}
}
