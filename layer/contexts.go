package layer

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/rastercache"
	"github.com/gogpu/compositor/render"
)

// PrerollContext carries the accumulated traversal state of the bounds and
// cache-candidacy pass. Exported fields are read and written by layers as
// the traversal descends; the Renderable* and complexity fields flow back
// up from children to their container.
type PrerollContext struct {
	Cache     *rastercache.Cache
	Allocator render.Allocator
	Embedder  Embedder
	Mutators  *MutatorStack

	// Matrix is the accumulated transform from root space to the current
	// layer's local space.
	Matrix compositor.Affine

	// CullRect is the cull rectangle in the current local space. Content
	// entirely outside it will never be painted.
	CullRect compositor.Rect

	// SurfaceNeedsReadback is set by layers that read back pixels already
	// composited beneath them. A surface that cannot support readback
	// checks it after preroll.
	SurfaceNeedsReadback bool

	// HasPlatformViews is set when the subtree embeds platform content.
	HasPlatformViews bool

	// RenderableStateFlags reports, after a layer's Preroll returns, which
	// ancestor attributes that layer can apply itself.
	RenderableStateFlags StateCaps

	// SubtreeComplexity accumulates the estimated rasterization cost of
	// the display lists prerolled so far.
	SubtreeComplexity rastercache.Score
}

// PaintContext carries the shared state of the paint pass. All drawing
// goes through StateStack and its attached delegate.
type PaintContext struct {
	StateStack *StateStack
	Cache      *rastercache.Cache
	Allocator  render.Allocator
	Embedder   Embedder
}

// DiffContext accumulates the damage between the previous frame's tree
// and the current one. Damage is tracked as a single device-space
// rectangle, the union of every dirty region.
//
// Readback regions deserve special handling: content beneath a readback
// feeds into it, so damage intersecting a readback region grows to cover
// the whole region.
type DiffContext struct {
	transform compositor.Affine
	damage    compositor.Rect
	readbacks []compositor.Rect
}

// NewDiffContext returns an empty diff context rooted at identity.
func NewDiffContext() *DiffContext {
	return &DiffContext{
		transform: compositor.IdentityAffine(),
		damage:    compositor.EmptyRect(),
	}
}

// Transform returns the accumulated diff-space transform.
func (d *DiffContext) Transform() compositor.Affine {
	return d.transform
}

// SetTransform replaces the accumulated transform. Layers that concatenate
// a transform for their children save the previous value and restore it
// afterwards.
func (d *DiffContext) SetTransform(t compositor.Affine) {
	d.transform = t
}

// AddDamage marks a local-space rectangle dirty. The rectangle is mapped
// into device space; if it touches a readback region, that region is
// damaged as well, transitively.
func (d *DiffContext) AddDamage(local compositor.Rect) {
	if local.IsEmpty() {
		return
	}
	d.addDeviceDamage(d.transform.MapRect(local))
}

func (d *DiffContext) addDeviceDamage(device compositor.Rect) {
	d.damage = d.damage.Union(device)
	// A readback pulled into the damage can overlap further readbacks, so
	// expand until the damage stops growing.
	for grew := true; grew; {
		grew = false
		for _, rb := range d.readbacks {
			if d.damage.Intersects(rb) && !d.damage.Contains(rb) {
				d.damage = d.damage.Union(rb)
				grew = true
			}
		}
	}
}

// AddReadbackRegion records that a layer reads back the pixels beneath a
// local-space rectangle. If damage already touches the region, the region
// itself becomes damaged.
func (d *DiffContext) AddReadbackRegion(local compositor.Rect) {
	if local.IsEmpty() {
		return
	}
	device := d.transform.MapRect(local)
	d.readbacks = append(d.readbacks, device)
	if d.damage.Intersects(device) {
		d.addDeviceDamage(device)
	}
}

// Damage returns the accumulated device-space damage rectangle.
func (d *DiffContext) Damage() compositor.Rect {
	return d.damage
}

// HasDamage reports whether any damage accumulated.
func (d *DiffContext) HasDamage() bool {
	return !d.damage.IsEmpty()
}
