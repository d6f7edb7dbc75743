package compositor

// BlendMode specifies how source pixels composite with the destination.
// The vocabulary is the small fixed set the compositor itself needs; the
// backing renderer may support more.
type BlendMode uint8

// Blend mode constants.
const (
	// BlendSrcOver is normal alpha compositing (default).
	BlendSrcOver BlendMode = iota

	// BlendSrc replaces the destination with the source.
	BlendSrc

	// BlendMultiply multiplies source and destination channels.
	BlendMultiply

	// BlendScreen inverts, multiplies, and inverts again.
	BlendScreen

	// BlendColorBurn darkens the destination to reflect the source.
	BlendColorBurn
)

// String returns a human-readable name for the blend mode.
func (b BlendMode) String() string {
	switch b {
	case BlendSrcOver:
		return "SrcOver"
	case BlendSrc:
		return "Src"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendColorBurn:
		return "ColorBurn"
	default:
		return "Unknown"
	}
}

// Paint carries the compositing attributes applied to a drawing operation
// or an offscreen pass. The zero value is a fully opaque src-over paint
// with no filters.
type Paint struct {
	// Opacity modulates the alpha of everything drawn, in [0, 1].
	// The zero value of Paint is treated as fully opaque; use NewPaint
	// or set Opacity explicitly.
	Opacity float32

	// Blend selects the compositing operation.
	Blend BlendMode

	// ColorFilter transforms colors after the content is produced.
	ColorFilter ColorFilter

	// ImageFilter transforms the rasterized content (blur, dilate).
	ImageFilter ImageFilter
}

// NewPaint returns the default paint: opaque, src-over, no filters.
func NewPaint() Paint {
	return Paint{Opacity: 1}
}

// IsDefault reports whether the paint would leave drawn content unmodified.
func (p Paint) IsDefault() bool {
	return p.Opacity == 1 && p.Blend == BlendSrcOver &&
		p.ColorFilter == nil && p.ImageFilter == nil
}

// WithOpacity returns a copy of the paint with the given opacity.
func (p Paint) WithOpacity(opacity float32) Paint {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	p.Opacity = opacity
	return p
}
