package compositor

import (
	"fmt"
	"image/color"

	"github.com/chewxy/math32"
)

// ColorFilter transforms the colors of content after it is produced.
// Filters are compared by value through Equal so the diff and cache layers
// can detect parameter changes across frames.
type ColorFilter interface {
	// CommutesWithOpacity reports whether applying opacity before or after
	// the filter yields the same result. Filters that treat alpha linearly
	// may be folded under an outstanding opacity without an extra
	// composition pass.
	CommutesWithOpacity() bool

	// Equal reports whether the filter equals another filter by value.
	Equal(other ColorFilter) bool

	// String returns a debug description.
	String() string
}

// BlendColorFilter tints content by blending it with a constant color.
type BlendColorFilter struct {
	Color color.NRGBA
	Mode  BlendMode
}

// CommutesWithOpacity reports whether the blend mode scales alpha linearly.
// Modulating blends do; the general case does not.
func (f BlendColorFilter) CommutesWithOpacity() bool {
	switch f.Mode {
	case BlendSrcOver, BlendMultiply:
		return true
	default:
		return false
	}
}

// Equal reports whether other is a BlendColorFilter with the same
// color and mode.
func (f BlendColorFilter) Equal(other ColorFilter) bool {
	o, ok := other.(BlendColorFilter)
	return ok && o == f
}

func (f BlendColorFilter) String() string {
	return fmt.Sprintf("BlendColorFilter(%v, %v)", f.Color, f.Mode)
}

// MatrixColorFilter transforms colors through a 4x5 row-major color matrix,
// mapping (r, g, b, a, 1) input vectors to (r, g, b, a).
type MatrixColorFilter struct {
	Matrix [20]float32
}

// CommutesWithOpacity reports whether the matrix treats alpha as a pure
// scale: the alpha row must be (0, 0, 0, k, 0).
func (f MatrixColorFilter) CommutesWithOpacity() bool {
	return f.Matrix[15] == 0 && f.Matrix[16] == 0 && f.Matrix[17] == 0 && f.Matrix[19] == 0
}

// Equal reports whether other is a MatrixColorFilter with the same matrix.
func (f MatrixColorFilter) Equal(other ColorFilter) bool {
	o, ok := other.(MatrixColorFilter)
	return ok && o.Matrix == f.Matrix
}

func (f MatrixColorFilter) String() string {
	return fmt.Sprintf("MatrixColorFilter(%v)", f.Matrix)
}

// ColorFiltersEqual compares two possibly-nil color filters by value.
func ColorFiltersEqual(a, b ColorFilter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// ImageFilter transforms rasterized content, potentially sampling outside
// the content bounds (blur) or growing the output (dilate).
type ImageFilter interface {
	// MapBounds returns the output bounds produced from content covering
	// the input bounds.
	MapBounds(input Rect) Rect

	// Equal reports whether the filter equals another filter by value.
	Equal(other ImageFilter) bool

	// String returns a debug description.
	String() string
}

// BlurImageFilter applies a Gaussian blur with independent horizontal and
// vertical sigmas.
type BlurImageFilter struct {
	SigmaX, SigmaY float32
}

// MapBounds grows the bounds by three sigmas in each direction, the
// conventional support of a Gaussian kernel.
func (f BlurImageFilter) MapBounds(input Rect) Rect {
	return input.Outset(math32.Ceil(f.SigmaX*3), math32.Ceil(f.SigmaY*3))
}

// Equal reports whether other is a BlurImageFilter with the same sigmas.
func (f BlurImageFilter) Equal(other ImageFilter) bool {
	o, ok := other.(BlurImageFilter)
	return ok && o == f
}

func (f BlurImageFilter) String() string {
	return fmt.Sprintf("BlurImageFilter(%g, %g)", f.SigmaX, f.SigmaY)
}

// DilateImageFilter grows opaque regions by a radius in each direction.
type DilateImageFilter struct {
	RadiusX, RadiusY float32
}

// MapBounds grows the bounds by the dilation radii.
func (f DilateImageFilter) MapBounds(input Rect) Rect {
	return input.Outset(math32.Ceil(f.RadiusX), math32.Ceil(f.RadiusY))
}

// Equal reports whether other is a DilateImageFilter with the same radii.
func (f DilateImageFilter) Equal(other ImageFilter) bool {
	o, ok := other.(DilateImageFilter)
	return ok && o == f
}

func (f DilateImageFilter) String() string {
	return fmt.Sprintf("DilateImageFilter(%g, %g)", f.RadiusX, f.RadiusY)
}

// ImageFiltersEqual compares two possibly-nil image filters by value.
func ImageFiltersEqual(a, b ImageFilter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
