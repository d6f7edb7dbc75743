package compositor

import "testing"

func TestPathBounds(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Path
		want  Rect
	}{
		{
			"single point",
			func() *Path { return NewPath().MoveTo(5, 5) },
			Rect{MinX: 5, MinY: 5, MaxX: 5, MaxY: 5},
		},
		{
			"horizontal line",
			func() *Path { return NewPath().MoveTo(2, 7).LineTo(9, 7) },
			Rect{MinX: 2, MinY: 7, MaxX: 9, MaxY: 7},
		},
		{
			"triangle",
			func() *Path { return NewPath().MoveTo(0, 10).LineTo(10, 10).LineTo(5, 0).Close() },
			Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10},
		},
		{
			"quad includes control",
			func() *Path { return NewPath().MoveTo(0, 0).QuadTo(5, 20, 10, 0) },
			Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 20},
		},
		{
			"rectangle",
			func() *Path { return NewPath().Rectangle(3, 4, 10, 20) },
			Rect{MinX: 3, MinY: 4, MaxX: 13, MaxY: 24},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.build().Bounds(); got != tt.want {
				t.Errorf("Bounds() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPathTransformBounds(t *testing.T) {
	p := NewPath().MoveTo(1, 1).LineTo(3, 1).Transform(ScaleAffine(2, 2))
	want := Rect{MinX: 2, MinY: 2, MaxX: 6, MaxY: 2}
	if got := p.Bounds(); got != want {
		t.Errorf("transformed Bounds() = %v, want %v", got, want)
	}
}

func TestPathEqual(t *testing.T) {
	a := NewPath().Rectangle(0, 0, 10, 10)
	b := NewPath().Rectangle(0, 0, 10, 10)
	if !a.Equal(b) {
		t.Error("identical paths reported unequal")
	}
	c := NewPath().Rectangle(0, 0, 10, 11)
	if a.Equal(c) {
		t.Error("different paths reported equal")
	}
	if a.Equal(nil) {
		t.Error("nil comparison reported equal")
	}
}
