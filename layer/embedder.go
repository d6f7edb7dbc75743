package layer

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/recording"
)

// MutatorKind identifies one kind of accumulated platform-view mutation.
type MutatorKind int

const (
	// MutatorTransform is an accumulated transform.
	MutatorTransform MutatorKind = iota
	// MutatorClipRect is an axis-aligned clip.
	MutatorClipRect
	// MutatorClipShape is an arbitrary shape clip.
	MutatorClipShape
	// MutatorOpacity is an accumulated opacity.
	MutatorOpacity
)

// String returns the mutator kind name.
func (k MutatorKind) String() string {
	switch k {
	case MutatorTransform:
		return "Transform"
	case MutatorClipRect:
		return "ClipRect"
	case MutatorClipShape:
		return "ClipShape"
	case MutatorOpacity:
		return "Opacity"
	default:
		return "Unknown"
	}
}

// MutatorEntry is one mutation affecting embedded platform content. Only
// the field matching Kind is meaningful.
type MutatorEntry struct {
	Kind    MutatorKind
	Matrix  compositor.Affine
	Rect    compositor.Rect
	Shape   compositor.Shape
	Opacity float32
}

// MutatorStack accumulates the mutations between the tree root and an
// embedded platform view, in application order. The embedder replays them
// onto the platform compositor so embedded content lines up with the
// surrounding layer content.
type MutatorStack struct {
	entries []MutatorEntry
}

// PushTransform records a transform mutation.
func (m *MutatorStack) PushTransform(t compositor.Affine) {
	m.entries = append(m.entries, MutatorEntry{Kind: MutatorTransform, Matrix: t})
}

// PushClipRect records a rectangular clip mutation.
func (m *MutatorStack) PushClipRect(r compositor.Rect) {
	m.entries = append(m.entries, MutatorEntry{Kind: MutatorClipRect, Rect: r})
}

// PushClipShape records a shape clip mutation.
func (m *MutatorStack) PushClipShape(s compositor.Shape) {
	m.entries = append(m.entries, MutatorEntry{Kind: MutatorClipShape, Shape: s})
}

// PushOpacity records an opacity mutation.
func (m *MutatorStack) PushOpacity(opacity float32) {
	m.entries = append(m.entries, MutatorEntry{Kind: MutatorOpacity, Opacity: opacity})
}

// Pop removes the most recent mutation.
func (m *MutatorStack) Pop() {
	if len(m.entries) == 0 {
		panic("layer: mutator stack pop without matching push")
	}
	m.entries = m.entries[:len(m.entries)-1]
}

// Len returns the number of accumulated mutations.
func (m *MutatorStack) Len() int {
	return len(m.entries)
}

// Entries returns the mutations in application order. The slice is shared;
// callers must not modify it.
func (m *MutatorStack) Entries() []MutatorEntry {
	return m.entries
}

// Clone returns an independent copy of the stack.
func (m *MutatorStack) Clone() *MutatorStack {
	c := &MutatorStack{entries: make([]MutatorEntry, len(m.entries))}
	copy(c.entries, m.entries)
	return c
}

// TotalOpacity returns the product of all opacity mutations.
func (m *MutatorStack) TotalOpacity() float32 {
	opacity := float32(1)
	for _, e := range m.entries {
		if e.Kind == MutatorOpacity {
			opacity *= e.Opacity
		}
	}
	return opacity
}

// EmbeddedViewParams describes where and how an embedded platform view is
// composited for one frame.
type EmbeddedViewParams struct {
	Offset   compositor.Point
	Size     compositor.Point
	Matrix   compositor.Affine
	Mutators *MutatorStack
}

// Embedder composites externally rendered platform content into the frame.
// Implementations own the platform side; the compositor only tells them
// where each view lands and which mutations apply.
type Embedder interface {
	// PrerollCompositeView registers an embedded view for this frame with
	// its composition parameters.
	PrerollCompositeView(viewID int64, params EmbeddedViewParams)

	// CompositeView returns the overlay canvas content painted above the
	// view should be recorded into, or nil when the embedder composites
	// overlays itself.
	CompositeView(viewID int64) recording.Canvas
}
