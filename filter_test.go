package compositor

import (
	"image/color"
	"testing"
)

func TestBlendColorFilterCommutesWithOpacity(t *testing.T) {
	tests := []struct {
		name string
		mode BlendMode
		want bool
	}{
		{"src over", BlendSrcOver, true},
		{"multiply", BlendMultiply, true},
		{"src", BlendSrc, false},
		{"screen", BlendScreen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := BlendColorFilter{Color: color.NRGBA{R: 255, A: 128}, Mode: tt.mode}
			if got := f.CommutesWithOpacity(); got != tt.want {
				t.Errorf("CommutesWithOpacity() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixColorFilterCommutesWithOpacity(t *testing.T) {
	// Pure channel scaling leaves alpha proportional: commutes.
	var scaling MatrixColorFilter
	scaling.Matrix[0] = 0.5
	scaling.Matrix[6] = 0.5
	scaling.Matrix[12] = 0.5
	scaling.Matrix[18] = 1
	if !scaling.CommutesWithOpacity() {
		t.Error("channel-scaling matrix should commute with opacity")
	}

	// An alpha row mixing in red does not commute.
	mixing := scaling
	mixing.Matrix[15] = 0.3
	if mixing.CommutesWithOpacity() {
		t.Error("alpha-mixing matrix should not commute with opacity")
	}

	// An alpha offset does not commute either.
	offset := scaling
	offset.Matrix[19] = 10
	if offset.CommutesWithOpacity() {
		t.Error("alpha-offset matrix should not commute with opacity")
	}
}

func TestColorFiltersEqual(t *testing.T) {
	a := BlendColorFilter{Color: color.NRGBA{R: 1}, Mode: BlendSrcOver}
	b := BlendColorFilter{Color: color.NRGBA{R: 1}, Mode: BlendSrcOver}
	c := BlendColorFilter{Color: color.NRGBA{R: 2}, Mode: BlendSrcOver}
	if !ColorFiltersEqual(a, b) {
		t.Error("identical filters compare unequal")
	}
	if ColorFiltersEqual(a, c) {
		t.Error("different filters compare equal")
	}
	if !ColorFiltersEqual(nil, nil) {
		t.Error("two nil filters should compare equal")
	}
	if ColorFiltersEqual(a, nil) {
		t.Error("filter and nil should compare unequal")
	}
}

func TestBlurImageFilterMapBounds(t *testing.T) {
	f := BlurImageFilter{SigmaX: 2, SigmaY: 3}
	got := f.MapBounds(NewRect(10, 10, 20, 20))
	want := NewRect(10, 10, 20, 20).Outset(6, 9)
	if got != want {
		t.Errorf("MapBounds() = %v, want %v", got, want)
	}
}

func TestDilateImageFilterMapBounds(t *testing.T) {
	f := DilateImageFilter{RadiusX: 4, RadiusY: 2}
	got := f.MapBounds(NewRect(0, 0, 10, 10))
	want := NewRect(0, 0, 10, 10).Outset(4, 2)
	if got != want {
		t.Errorf("MapBounds() = %v, want %v", got, want)
	}
}
