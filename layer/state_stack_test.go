package layer

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/recording"
)

func contentRect() compositor.Rect { return compositor.NewRect(10, 10, 80, 80) }

func nonCommutingFilter() compositor.ColorFilter {
	return compositor.BlendColorFilter{Color: color.NRGBA{R: 255, A: 255}, Mode: compositor.BlendScreen}
}

func commutingFilter() compositor.ColorFilter {
	return compositor.BlendColorFilter{Color: color.NRGBA{R: 255, A: 255}, Mode: compositor.BlendSrcOver}
}

func TestStateStackDefaults(t *testing.T) {
	s := NewStateStack()
	assert.True(t, s.Transform().IsIdentity())
	assert.Equal(t, compositor.GiantRect(), s.DeviceCullRect())
	assert.Equal(t, compositor.GiantRect(), s.LocalCullRect())
	assert.Equal(t, float32(1), s.OutstandingOpacity())
	assert.Nil(t, s.OutstandingColorFilter())
	assert.Nil(t, s.OutstandingImageFilter())
	assert.Zero(t, s.Depth())
}

func TestStateStackSaveRestoresState(t *testing.T) {
	s := NewStateStack()
	m := s.Save()
	m.ApplyTransform(compositor.ScaleAffine(2, 2))
	m.ApplyClipRect(compositor.NewRect(0, 0, 50, 50), false)
	m.ApplyOpacity(contentRect(), 0.5)

	assert.False(t, s.Transform().IsIdentity())
	assert.Equal(t, compositor.NewRect(0, 0, 100, 100), s.DeviceCullRect())
	assert.Equal(t, float32(0.5), s.OutstandingOpacity())

	m.Close()
	assert.True(t, s.Transform().IsIdentity())
	assert.Equal(t, compositor.GiantRect(), s.DeviceCullRect())
	assert.Equal(t, float32(1), s.OutstandingOpacity())
}

func TestStateStackMutatorCloseTwicePanics(t *testing.T) {
	s := NewStateStack()
	m := s.Save()
	m.Close()
	assert.Panics(t, func() { m.Close() })
}

func TestStateStackMutatorUseAfterClosePanics(t *testing.T) {
	s := NewStateStack()
	m := s.Save()
	m.Close()
	assert.Panics(t, func() { m.ApplyOpacity(contentRect(), 0.5) })
}

func TestStateStackOpacityComposesMultiplicatively(t *testing.T) {
	s := NewStateStack()
	outer := s.Save()
	outer.ApplyOpacity(contentRect(), 0.5)
	inner := s.Save()
	inner.ApplyOpacity(contentRect(), 0.4)

	assert.InDelta(t, 0.2, float64(s.OutstandingOpacity()), 1e-6)

	inner.Close()
	assert.InDelta(t, 0.5, float64(s.OutstandingOpacity()), 1e-6)
	outer.Close()
	assert.Equal(t, float32(1), s.OutstandingOpacity())
}

func TestStateStackOpacityAndColorFilterInteraction(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)
	require.Equal(t, 1, b.SaveCount())

	m1 := s.Save()
	assert.Equal(t, 2, b.SaveCount())
	m1.ApplyOpacity(contentRect(), 0.5)
	assert.Equal(t, 2, b.SaveCount(), "opacity stays outstanding")

	m2 := s.Save()
	assert.Equal(t, 3, b.SaveCount())
	m2.ApplyColorFilter(contentRect(), nonCommutingFilter())
	assert.Equal(t, 4, b.SaveCount(), "non-commuting filter resolves the opacity into a pass")
	assert.Equal(t, float32(1), s.OutstandingOpacity(), "opacity was absorbed by the pass")
	assert.NotNil(t, s.OutstandingColorFilter())

	m2.Close()
	assert.Equal(t, 2, b.SaveCount())
	assert.Equal(t, float32(0.5), s.OutstandingOpacity(), "restore recovers the outer scope state")

	m1.Close()
	assert.Equal(t, 1, b.SaveCount())
}

func TestStateStackCommutingColorFilterFoldsUnderOpacity(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	m := s.Save()
	m.ApplyOpacity(contentRect(), 0.5)
	m.ApplyColorFilter(contentRect(), commutingFilter())
	assert.Equal(t, 2, b.SaveCount(), "commuting filter rides over outstanding opacity")
	assert.Equal(t, float32(0.5), s.OutstandingOpacity())
	assert.NotNil(t, s.OutstandingColorFilter())
	m.Close()
}

func TestStateStackOpacityAfterImageFilterResolves(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	m := s.Save()
	m.ApplyImageFilter(contentRect(), compositor.BlurImageFilter{SigmaX: 2, SigmaY: 2})
	assert.Equal(t, 2, b.SaveCount(), "image filter stays outstanding")

	m.ApplyOpacity(contentRect(), 0.5)
	assert.Equal(t, 3, b.SaveCount(), "opacity after image filter forces a pass")
	assert.Nil(t, s.OutstandingImageFilter())
	assert.Equal(t, float32(0.5), s.OutstandingOpacity())
	m.Close()
	assert.Equal(t, 1, b.SaveCount())
}

func TestStateStackSecondImageFilterResolves(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	m := s.Save()
	m.ApplyImageFilter(contentRect(), compositor.BlurImageFilter{SigmaX: 2, SigmaY: 2})
	m.ApplyImageFilter(contentRect(), compositor.DilateImageFilter{RadiusX: 1, RadiusY: 1})
	assert.Equal(t, 3, b.SaveCount())
	m.Close()
}

func TestStateStackApplyStateHandsOffToCapableCaller(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	outer := s.Save()
	outer.ApplyOpacity(contentRect(), 0.25)

	scope := s.ApplyState(contentRect(), CallerCanApplyOpacity)
	assert.Equal(t, 3, b.SaveCount(), "capable caller gets no extra pass")
	assert.Equal(t, float32(0.25), s.FillPaint().Opacity, "caller reads the opacity through Fill")
	scope.Close()

	outer.Close()
}

func TestStateStackApplyStateResolvesForIncapableCaller(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	outer := s.Save()
	outer.ApplyOpacity(contentRect(), 0.25)

	scope := s.ApplyState(contentRect(), 0)
	assert.Equal(t, 4, b.SaveCount(), "incapable caller triggers the pass")
	assert.Equal(t, float32(1), s.OutstandingOpacity())
	scope.Close()

	assert.Equal(t, float32(0.25), s.OutstandingOpacity())
	outer.Close()
}

func TestStateStackDelegateReplayOnAttach(t *testing.T) {
	s := NewStateStack()
	m := s.Save()
	m.ApplyTransform(compositor.TranslateAffine(5, 5))
	m.ApplyClipRect(compositor.NewRect(0, 0, 10, 10), true)

	b := recording.NewBuilder()
	s.SetDelegate(b)
	assert.Equal(t, 2, b.SaveCount(), "attach replays the recorded save")

	m.Close()
	s.ClearDelegate()

	cmds := b.Build().Commands()
	require.Equal(t, 4, len(cmds))
	assert.Equal(t, recording.CmdSave, cmds[0].Type())
	assert.Equal(t, recording.CmdTransform, cmds[1].Type())
	assert.Equal(t, recording.CmdClipRect, cmds[2].Type())
	assert.Equal(t, recording.CmdRestore, cmds[3].Type())
}

func TestStateStackClearDelegateRebalances(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	m := s.Save()
	inner := s.Save()
	require.Equal(t, 3, b.SaveCount())

	s.ClearDelegate()
	assert.Equal(t, 1, b.SaveCount(), "detach restores the delegate's scopes")

	// The logical scopes survive the detach.
	assert.Equal(t, 2, s.Depth())
	inner.Close()
	m.Close()
}

func TestStateStackBackdropFilterEmitsPass(t *testing.T) {
	s := NewStateStack()
	b := recording.NewBuilder()
	s.SetDelegate(b)

	m := s.Save()
	m.ApplyBackdropFilter(contentRect(), compositor.BlurImageFilter{SigmaX: 4, SigmaY: 4}, compositor.BlendSrcOver)
	assert.Equal(t, 3, b.SaveCount())
	m.Close()
	s.ClearDelegate()

	var backdrops int
	for _, cmd := range b.Build().Commands() {
		if sl, ok := cmd.(recording.SaveLayerCommand); ok && sl.Backdrop != nil {
			backdrops++
		}
	}
	assert.Equal(t, 1, backdrops)
}

func TestStateStackContentCulled(t *testing.T) {
	s := NewStateStack()
	m := s.Save()
	m.ApplyClipRect(compositor.NewRect(0, 0, 10, 10), false)

	assert.True(t, s.ContentCulled(compositor.NewRect(20, 20, 5, 5)))
	assert.False(t, s.ContentCulled(compositor.NewRect(5, 5, 10, 10)))
	assert.True(t, s.ContentCulled(compositor.EmptyRect()))
	m.Close()
}

func TestStateStackTransformAffectsCullSpace(t *testing.T) {
	s := NewStateStack()
	m := s.Save()
	m.ApplyClipRect(compositor.NewRect(0, 0, 100, 100), false)
	m.ApplyTransform(compositor.ScaleAffine(2, 2))

	// Local space is halved by the scale.
	assert.Equal(t, compositor.NewRect(0, 0, 50, 50), s.LocalCullRect())
	assert.False(t, s.ContentCulled(compositor.NewRect(40, 40, 5, 5)))
	assert.True(t, s.ContentCulled(compositor.NewRect(60, 60, 5, 5)))
	m.Close()
}
