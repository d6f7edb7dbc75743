// Package layer implements the retained layer tree and its per-frame
// traversal protocol: Diff computes damage against the previous frame's
// tree, Preroll computes bounds, culling and cache candidacy, and Paint
// emits drawing commands through a shared render-state stack.
package layer

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/recording"
)

// StateCaps is the capability bitmask a paint consumer declares to
// ApplyState: each bit means the consumer can apply that outstanding
// attribute itself, so the stack hands the attribute over instead of
// resolving it into an offscreen pass.
type StateCaps uint8

const (
	// CallerCanApplyOpacity means the consumer applies outstanding opacity.
	CallerCanApplyOpacity StateCaps = 1 << iota

	// CallerCanApplyColorFilter means the consumer applies an outstanding
	// color filter.
	CallerCanApplyColorFilter

	// CallerCanApplyImageFilter means the consumer applies an outstanding
	// image filter.
	CallerCanApplyImageFilter
)

// CallerCanApplyAnything declares every capability. Nodes that resolve
// into their own offscreen pass report this upward: the pass absorbs any
// ancestor state.
const CallerCanApplyAnything = CallerCanApplyOpacity | CallerCanApplyColorFilter | CallerCanApplyImageFilter

// outstandingState is the accumulated, not-yet-applied attribute state.
type outstandingState struct {
	opacity     float32
	colorFilter compositor.ColorFilter
	imageFilter compositor.ImageFilter
	bounds      compositor.Rect
}

func neutralOutstanding() outstandingState {
	return outstandingState{opacity: 1, bounds: compositor.EmptyRect()}
}

func (o outstandingState) isNeutral() bool {
	return o.opacity >= 1 && o.colorFilter == nil && o.imageFilter == nil
}

// fill folds the outstanding attributes into a paint.
func (o outstandingState) fill(p *compositor.Paint) {
	p.Opacity *= o.opacity
	if o.colorFilter != nil {
		p.ColorFilter = o.colorFilter
	}
	if o.imageFilter != nil {
		p.ImageFilter = o.imageFilter
	}
}

// stateEntry is one delegate-visible operation recorded by the stack.
// Entries are replayed in order when a delegate attaches mid-traversal.
type stateEntry interface {
	apply(c recording.Canvas)
}

type saveEntry struct{}

func (saveEntry) apply(c recording.Canvas) { c.Save() }

type saveLayerEntry struct {
	bounds   compositor.Rect
	paint    compositor.Paint
	backdrop compositor.ImageFilter
}

func (e saveLayerEntry) apply(c recording.Canvas) {
	if e.backdrop != nil {
		c.SaveLayerWithBackdrop(e.bounds, e.paint, e.backdrop)
		return
	}
	c.SaveLayer(e.bounds, e.paint)
}

type transformEntry struct {
	matrix compositor.Affine
}

func (e transformEntry) apply(c recording.Canvas) { c.Transform(e.matrix) }

type clipRectEntry struct {
	rect        compositor.Rect
	antiAliased bool
}

func (e clipRectEntry) apply(c recording.Canvas) { c.ClipRect(e.rect, e.antiAliased) }

type clipShapeEntry struct {
	shape       compositor.Shape
	antiAliased bool
}

func (e clipShapeEntry) apply(c recording.Canvas) { c.ClipShape(e.shape, e.antiAliased) }

// saveRecord snapshots the accumulated state at a Save so the matching
// restore recovers it exactly.
type saveRecord struct {
	entryLen    int
	opsDepth    int
	transform   compositor.Affine
	deviceCull  compositor.Rect
	localCull   compositor.Rect
	outstanding outstandingState
}

// StateStack lazily composes nested transform, clip, opacity, color-filter
// and image-filter state, deferring offscreen composition passes until an
// incoming attribute cannot be combined with what is pending.
//
// A single physical output delegate (an immediate canvas or a recording
// builder) may be attached and detached at any time; every composed
// operation recorded so far is replayed against a newly attached delegate.
//
// The stack is strictly nested: Save returns a Mutator whose Close pops
// exactly one scope. Popping out of order is a programming error and
// panics. None of the operations fail at runtime.
type StateStack struct {
	delegate     recording.Canvas
	delegateBase int

	entries  []stateEntry
	saves    []saveRecord
	opsCount int

	transform   compositor.Affine
	deviceCull  compositor.Rect
	localCull   compositor.Rect
	outstanding outstandingState
}

// NewStateStack creates a stack with identity transform, an unbounded cull
// rect, and no outstanding attributes.
func NewStateStack() *StateStack {
	return &StateStack{
		transform:   compositor.IdentityAffine(),
		deviceCull:  compositor.GiantRect(),
		localCull:   compositor.GiantRect(),
		outstanding: neutralOutstanding(),
	}
}

// SetInitialState seeds the device cull rect and root transform. It must
// be called before the first Save.
func (s *StateStack) SetInitialState(deviceCull compositor.Rect, transform compositor.Affine) {
	if len(s.saves) != 0 || len(s.entries) != 0 {
		panic("layer: SetInitialState after traversal began")
	}
	s.transform = transform
	s.deviceCull = deviceCull
	s.updateLocalCull()
}

// SetDelegate attaches the physical output. All operations composed so far
// are replayed against it. Attaching replaces any current delegate after
// rebalancing its save scopes.
func (s *StateStack) SetDelegate(c recording.Canvas) {
	if c == s.delegate {
		return
	}
	s.detachDelegate()
	s.delegate = c
	if c != nil {
		s.delegateBase = c.SaveCount()
		for _, e := range s.entries {
			e.apply(c)
		}
	}
}

// ClearDelegate detaches the current delegate, rebalancing its scopes.
func (s *StateStack) ClearDelegate() {
	s.detachDelegate()
	s.delegate = nil
}

// Delegate returns the currently attached delegate, or nil.
func (s *StateStack) Delegate() recording.Canvas {
	return s.delegate
}

func (s *StateStack) detachDelegate() {
	if s.delegate == nil {
		return
	}
	for s.delegate.SaveCount() > s.delegateBase {
		s.delegate.Restore()
	}
}

// Save pushes a new nesting scope and returns its mutator. The caller
// must Close the mutator to pop the scope; scopes close in LIFO order.
func (s *StateStack) Save() *Mutator {
	s.saves = append(s.saves, saveRecord{
		entryLen:    len(s.entries),
		opsDepth:    s.opsCount,
		transform:   s.transform,
		deviceCull:  s.deviceCull,
		localCull:   s.localCull,
		outstanding: s.outstanding,
	})
	s.pushEntry(saveEntry{})
	s.opsCount++
	return &Mutator{stack: s}
}

// ApplyState opens a scope and resolves every outstanding attribute the
// consumer cannot apply itself into a single offscreen pass. Attributes
// covered by caps stay outstanding; the consumer reads them through Fill
// and applies them directly.
func (s *StateStack) ApplyState(bounds compositor.Rect, caps StateCaps) *Mutator {
	m := s.Save()
	if s.needsResolve(caps) {
		s.resolve(bounds)
	}
	return m
}

// needsResolve reports whether any outstanding attribute falls outside the
// consumer's declared capabilities.
func (s *StateStack) needsResolve(caps StateCaps) bool {
	if s.outstanding.opacity < 1 && caps&CallerCanApplyOpacity == 0 {
		return true
	}
	if s.outstanding.colorFilter != nil && caps&CallerCanApplyColorFilter == 0 {
		return true
	}
	if s.outstanding.imageFilter != nil && caps&CallerCanApplyImageFilter == 0 {
		return true
	}
	return false
}

// resolve flushes all outstanding attributes into one offscreen pass.
func (s *StateStack) resolve(bounds compositor.Rect) {
	if s.outstanding.isNeutral() {
		return
	}
	s.forcePass(bounds)
}

// forcePass emits a save-layer pass carrying the outstanding attributes,
// even when they are neutral.
func (s *StateStack) forcePass(bounds compositor.Rect) {
	paint := compositor.NewPaint()
	s.outstanding.fill(&paint)
	layerBounds := s.outstanding.bounds
	if layerBounds.IsEmpty() {
		layerBounds = bounds
	}
	s.pushEntry(saveLayerEntry{bounds: layerBounds, paint: paint})
	s.opsCount++
	s.outstanding = neutralOutstanding()
}

// restore pops the innermost scope, rebalancing the delegate and exactly
// recovering the parent's accumulated state.
func (s *StateStack) restore() {
	if len(s.saves) == 0 {
		panic("layer: state stack restore without matching save")
	}
	rec := s.saves[len(s.saves)-1]
	s.saves = s.saves[:len(s.saves)-1]

	for s.opsCount > rec.opsDepth {
		if s.delegate != nil {
			s.delegate.Restore()
		}
		s.opsCount--
	}
	s.entries = s.entries[:rec.entryLen]
	s.transform = rec.transform
	s.deviceCull = rec.deviceCull
	s.localCull = rec.localCull
	s.outstanding = rec.outstanding
}

func (s *StateStack) pushEntry(e stateEntry) {
	s.entries = append(s.entries, e)
	if s.delegate != nil {
		e.apply(s.delegate)
	}
}

func (s *StateStack) updateLocalCull() {
	inverse, ok := s.transform.Invert()
	if !ok {
		s.localCull = compositor.EmptyRect()
		return
	}
	s.localCull = inverse.MapRect(s.deviceCull)
}

// Transform returns the accumulated transform.
func (s *StateStack) Transform() compositor.Affine {
	return s.transform
}

// DeviceCullRect returns the device-space cull rectangle.
func (s *StateStack) DeviceCullRect() compositor.Rect {
	return s.deviceCull
}

// LocalCullRect returns the cull rectangle in the current local space.
func (s *StateStack) LocalCullRect() compositor.Rect {
	return s.localCull
}

// ContentCulled reports whether content with the given local-space bounds
// is entirely outside the cull rect and can be skipped.
func (s *StateStack) ContentCulled(contentBounds compositor.Rect) bool {
	if s.localCull.IsEmpty() || contentBounds.IsEmpty() {
		return true
	}
	return !s.localCull.Intersects(contentBounds)
}

// OutstandingOpacity returns the accumulated unapplied opacity.
func (s *StateStack) OutstandingOpacity() float32 {
	return s.outstanding.opacity
}

// OutstandingColorFilter returns the unapplied color filter, or nil.
func (s *StateStack) OutstandingColorFilter() compositor.ColorFilter {
	return s.outstanding.colorFilter
}

// OutstandingImageFilter returns the unapplied image filter, or nil.
func (s *StateStack) OutstandingImageFilter() compositor.ImageFilter {
	return s.outstanding.imageFilter
}

// OutstandingBounds returns the bounds the outstanding attributes cover.
func (s *StateStack) OutstandingBounds() compositor.Rect {
	return s.outstanding.bounds
}

// Fill folds the outstanding attributes into the paint a capable consumer
// is about to draw with.
func (s *StateStack) Fill(p *compositor.Paint) {
	s.outstanding.fill(p)
}

// FillPaint returns a fresh paint carrying the outstanding attributes.
func (s *StateStack) FillPaint() compositor.Paint {
	p := compositor.NewPaint()
	s.outstanding.fill(&p)
	return p
}

// Depth returns the number of open scopes.
func (s *StateStack) Depth() int {
	return len(s.saves)
}

// Mutator is the scoped handle for one Save. Apply calls accumulate state
// into the stack; Close pops the scope and restores the parent state
// exactly. A Mutator must not be used after Close, and Close must be
// called exactly once; both violations panic.
type Mutator struct {
	stack  *StateStack
	closed bool
}

// Close pops the scope.
func (m *Mutator) Close() {
	if m.closed {
		panic("layer: mutator closed twice")
	}
	m.closed = true
	m.stack.restore()
}

func (m *Mutator) live() *StateStack {
	if m.closed {
		panic("layer: mutator used after close")
	}
	return m.stack
}

// ApplyTransform concatenates a transform onto the accumulated one.
func (m *Mutator) ApplyTransform(t compositor.Affine) {
	s := m.live()
	s.transform = s.transform.Multiply(t)
	s.updateLocalCull()
	s.pushEntry(transformEntry{matrix: t})
}

// Translate concatenates a translation.
func (m *Mutator) Translate(x, y float32) {
	if x == 0 && y == 0 {
		return
	}
	m.ApplyTransform(compositor.TranslateAffine(x, y))
}

// ApplyClipRect intersects the cull state with a local-space rectangle.
func (m *Mutator) ApplyClipRect(r compositor.Rect, antiAliased bool) {
	s := m.live()
	s.deviceCull = s.deviceCull.Intersect(s.transform.MapRect(r))
	s.updateLocalCull()
	s.pushEntry(clipRectEntry{rect: r, antiAliased: antiAliased})
}

// ApplyClipShape intersects the cull state with a shape's bounds and clips
// the delegate by the exact shape.
func (m *Mutator) ApplyClipShape(shape compositor.Shape, antiAliased bool) {
	if shape == nil {
		return
	}
	s := m.live()
	s.deviceCull = s.deviceCull.Intersect(s.transform.MapRect(shape.Bounds()))
	s.updateLocalCull()
	s.pushEntry(clipShapeEntry{shape: shape, antiAliased: antiAliased})
}

// SaveLayer forces an offscreen pass for this scope regardless of
// outstanding state. The pass absorbs every outstanding attribute.
func (m *Mutator) SaveLayer(bounds compositor.Rect) {
	m.live().forcePass(bounds)
}

// ApplyOpacity folds an opacity into the outstanding state. Opacity
// composes multiplicatively with pending opacity and rides over pending
// color filters; a pending image filter forces a pass first.
func (m *Mutator) ApplyOpacity(bounds compositor.Rect, opacity float32) {
	if opacity >= 1 {
		return
	}
	s := m.live()
	if s.outstanding.imageFilter != nil {
		s.resolve(bounds)
	}
	s.outstanding.opacity *= opacity
	s.outstanding.bounds = bounds
}

// ApplyColorFilter folds a color filter into the outstanding state. A
// second color filter, a pending image filter, or pending opacity the
// filter does not commute with each force a pass first: filters do not
// commute associatively in the general case.
func (m *Mutator) ApplyColorFilter(bounds compositor.Rect, filter compositor.ColorFilter) {
	if filter == nil {
		return
	}
	s := m.live()
	if s.outstanding.colorFilter != nil || s.outstanding.imageFilter != nil ||
		(s.outstanding.opacity < 1 && !filter.CommutesWithOpacity()) {
		s.resolve(bounds)
	}
	s.outstanding.colorFilter = filter
	s.outstanding.bounds = bounds
}

// ApplyImageFilter folds an image filter into the outstanding state. Only
// a pending image filter forces a pass: pending opacity and color filters
// apply to the filtered result and ride along.
func (m *Mutator) ApplyImageFilter(bounds compositor.Rect, filter compositor.ImageFilter) {
	if filter == nil {
		return
	}
	s := m.live()
	if s.outstanding.imageFilter != nil {
		s.resolve(bounds)
	}
	s.outstanding.imageFilter = filter
	s.outstanding.bounds = bounds
}

// ApplyBackdropFilter emits an offscreen pass whose backdrop filter reads
// the pixels already composited beneath it. The pass absorbs every
// outstanding attribute and composites with the given blend mode.
func (m *Mutator) ApplyBackdropFilter(bounds compositor.Rect, filter compositor.ImageFilter, blend compositor.BlendMode) {
	s := m.live()
	paint := compositor.NewPaint()
	s.outstanding.fill(&paint)
	paint.Blend = blend
	s.pushEntry(saveLayerEntry{bounds: bounds, paint: paint, backdrop: filter})
	s.opsCount++
	s.outstanding = neutralOutstanding()
}
