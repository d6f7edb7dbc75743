package compositor

import "testing"

func TestRectIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		r    Rect
		want bool
	}{
		{"zero", Rect{}, true},
		{"normal", NewRect(0, 0, 10, 10), false},
		{"zero width", Rect{MinX: 5, MinY: 0, MaxX: 5, MaxY: 10}, true},
		{"inverted", Rect{MinX: 10, MinY: 10, MaxX: 0, MaxY: 0}, true},
		{"giant", GiantRect(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.IsEmpty(); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectUnion(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 20, 10, 10), Rect{MinX: 0, MinY: 0, MaxX: 30, MaxY: 30}},
		{"contained", NewRect(0, 0, 100, 100), NewRect(10, 10, 10, 10), NewRect(0, 0, 100, 100)},
		{"empty left", EmptyRect(), NewRect(1, 2, 3, 4), NewRect(1, 2, 3, 4)},
		{"empty right", NewRect(1, 2, 3, 4), EmptyRect(), NewRect(1, 2, 3, 4)},
		{"both empty", EmptyRect(), EmptyRect(), EmptyRect()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Union(tt.b); got != tt.want {
				t.Errorf("Union() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"overlap", NewRect(0, 0, 10, 10), NewRect(5, 5, 10, 10), Rect{MinX: 5, MinY: 5, MaxX: 10, MaxY: 10}},
		{"disjoint", NewRect(0, 0, 10, 10), NewRect(20, 0, 10, 10), EmptyRect()},
		{"touching edges", NewRect(0, 0, 10, 10), NewRect(10, 0, 10, 10), EmptyRect()},
		{"with empty", NewRect(0, 0, 10, 10), EmptyRect(), EmptyRect()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("Intersect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 10, 10)
	if !a.Intersects(NewRect(5, 5, 10, 10)) {
		t.Error("overlapping rects should intersect")
	}
	if a.Intersects(NewRect(10, 0, 10, 10)) {
		t.Error("edge-touching rects should not intersect")
	}
	if a.Intersects(EmptyRect()) {
		t.Error("empty rect should not intersect anything")
	}
}

func TestRectRoundOut(t *testing.T) {
	got := Rect{MinX: 0.3, MinY: 1.7, MaxX: 9.2, MaxY: 10.1}.RoundOut()
	want := Rect{MinX: 0, MinY: 1, MaxX: 10, MaxY: 11}
	if got != want {
		t.Errorf("RoundOut() = %v, want %v", got, want)
	}
	if !EmptyRect().RoundOut().IsEmpty() {
		t.Error("RoundOut of empty rect should stay empty")
	}
}

func TestRectTranslateEmptyStaysEmpty(t *testing.T) {
	if got := EmptyRect().Translate(5, 5); !got.IsEmpty() {
		t.Errorf("Translate of empty rect = %v, want empty", got)
	}
}

func TestRectContains(t *testing.T) {
	outer := NewRect(0, 0, 100, 100)
	if !outer.Contains(NewRect(10, 10, 20, 20)) {
		t.Error("outer should contain inner")
	}
	if outer.Contains(NewRect(90, 90, 20, 20)) {
		t.Error("outer should not contain a straddling rect")
	}
	if outer.Contains(EmptyRect()) {
		t.Error("nothing contains the empty rect")
	}
}
