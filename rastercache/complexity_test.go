package rastercache

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/recording"
)

func TestEstimateComplexityEmpty(t *testing.T) {
	assert.Zero(t, EstimateComplexity(nil))
	assert.Zero(t, EstimateComplexity(recording.NewBuilder().Build()))
}

func TestEstimateComplexityWeights(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	rects := recording.NewBuilder()
	rects.DrawRect(compositor.NewRect(0, 0, 1, 1), white, compositor.NewPaint())
	rects.DrawRect(compositor.NewRect(1, 1, 1, 1), white, compositor.NewPaint())
	assert.Equal(t, Score(2), EstimateComplexity(rects.Build()))

	layered := recording.NewBuilder()
	layered.SaveLayer(compositor.NewRect(0, 0, 10, 10), compositor.NewPaint())
	layered.DrawRect(compositor.NewRect(0, 0, 1, 1), white, compositor.NewPaint())
	layered.Restore()
	assert.Equal(t, Score(6), EstimateComplexity(layered.Build()))
}

func TestEstimateComplexityPathVerbs(t *testing.T) {
	var p compositor.Path
	p.MoveTo(0, 0)
	for i := 0; i < 20; i++ {
		p.LineTo(float32(i), float32(i%2))
	}
	p.Close()

	b := recording.NewBuilder()
	b.DrawPath(&p, color.NRGBA{A: 255}, compositor.NewPaint())
	// Base path cost plus one point per ten verbs (22 verbs here).
	assert.Equal(t, Score(3+2), EstimateComplexity(b.Build()))
}

func TestEstimateComplexityRecursesNestedLists(t *testing.T) {
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	inner := recording.NewBuilder()
	inner.DrawRect(compositor.NewRect(0, 0, 4, 4), white, compositor.NewPaint())
	innerList := inner.Build()

	outer := recording.NewBuilder()
	outer.DrawRect(compositor.NewRect(0, 0, 4, 4), white, compositor.NewPaint())
	outer.DrawDisplayList(innerList, 1)
	assert.Equal(t, Score(2), EstimateComplexity(outer.Build()))
}

func TestWorthCaching(t *testing.T) {
	assert.False(t, Score(0).WorthCaching())
	assert.False(t, Score(4).WorthCaching())
	assert.True(t, Score(5).WorthCaching())
	assert.True(t, Score(100).WorthCaching())
}
