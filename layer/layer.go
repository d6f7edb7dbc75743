package layer

import (
	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/rastercache"
)

// layerIDs hands out the stable identities that tie retained layers to
// their previous-frame counterparts and to raster cache entries.
var layerIDs rastercache.IDSource

// Layer is one node of the retained scene tree. A tree is traversed three
// times per frame: Diff compares it against the previous frame's tree to
// compute damage, Preroll computes bounds and cache candidacy top-down,
// and Paint emits drawing commands through the shared state stack.
//
// Diff matches layers structurally, by concrete type and parameters, so a
// rebuilt tree with unchanged content produces no damage. The ID is not
// part of matching; it keys raster cache entries, so only a layer object
// retained across frames accumulates cache access counts.
type Layer interface {
	// ID returns the layer's stable identity.
	ID() rastercache.ID

	// Preroll computes the layer's paint bounds and registers cache
	// candidates. It must run before Paint every frame.
	Preroll(ctx *PrerollContext)

	// Paint emits the layer's content. Callers must check NeedsPainting
	// first; painting an empty or fully culled layer is a programming
	// error.
	Paint(ctx *PaintContext)

	// Diff accumulates damage against the matching layer of the previous
	// frame's tree, or against nothing when old is nil. Both trees must
	// have been prerolled.
	Diff(ctx *DiffContext, old Layer)

	// PaintBounds returns the local-space bounds computed by the most
	// recent Preroll.
	PaintBounds() compositor.Rect

	// NeedsPainting reports whether the layer has content inside the
	// current cull rect.
	NeedsPainting(ctx *PaintContext) bool
}

// BaseLayer carries the identity and bounds state shared by every layer
// implementation.
type BaseLayer struct {
	id          rastercache.ID
	paintBounds compositor.Rect
}

func newBaseLayer() BaseLayer {
	return BaseLayer{id: layerIDs.NextID(), paintBounds: compositor.EmptyRect()}
}

// ID returns the layer's stable identity.
func (b *BaseLayer) ID() rastercache.ID {
	return b.id
}

// PaintBounds returns the bounds computed by the most recent Preroll.
func (b *BaseLayer) PaintBounds() compositor.Rect {
	return b.paintBounds
}

func (b *BaseLayer) setPaintBounds(r compositor.Rect) {
	b.paintBounds = r
}

// NeedsPainting reports whether the layer has content inside the cull
// rect.
func (b *BaseLayer) NeedsPainting(ctx *PaintContext) bool {
	return !b.paintBounds.IsEmpty() && !ctx.StateStack.ContentCulled(b.paintBounds)
}

// assertPaintable panics when Paint is reached with nothing to paint.
// Callers gate on NeedsPainting; getting here with empty or fully culled
// bounds means Preroll was skipped or the gate was bypassed.
func (b *BaseLayer) assertPaintable(ctx *PaintContext) {
	if !b.NeedsPainting(ctx) {
		panic("layer: Paint called on a layer with nothing to paint")
	}
}

// damageLayer marks a whole layer's region dirty.
func damageLayer(ctx *DiffContext, l Layer) {
	if l != nil {
		ctx.AddDamage(l.PaintBounds())
	}
}

// damageBoth marks both the new and the old version of a layer dirty.
// Used whenever the two cannot be matched or their parameters differ.
func damageBoth(ctx *DiffContext, newLayer, oldLayer Layer) {
	damageLayer(ctx, newLayer)
	damageLayer(ctx, oldLayer)
}

// ContainerLayer groups child layers. Its bounds are the union of its
// children's and it paints them in order. Concrete container layers embed
// it and wrap PrerollChildren and PaintChildren with their own state.
type ContainerLayer struct {
	BaseLayer
	children []Layer
}

// NewContainerLayer creates an empty container.
func NewContainerLayer() *ContainerLayer {
	return &ContainerLayer{BaseLayer: newBaseLayer()}
}

// Add appends children in paint order.
func (c *ContainerLayer) Add(children ...Layer) {
	c.children = append(c.children, children...)
}

// Children returns the children in paint order.
func (c *ContainerLayer) Children() []Layer {
	return c.children
}

// Preroll computes the union of the children's bounds.
func (c *ContainerLayer) Preroll(ctx *PrerollContext) {
	c.setPaintBounds(c.PrerollChildren(ctx))
}

// PrerollChildren prerolls every child and returns the union of their
// bounds. It aggregates the children's renderable-state capabilities into
// ctx.RenderableStateFlags: flags combine with AND, and any overlap
// between two children's paint regions zeroes them, since a shared
// attribute applied per-child would double-composite the overlap.
func (c *ContainerLayer) PrerollChildren(ctx *PrerollContext) compositor.Rect {
	bounds := compositor.EmptyRect()
	flags := CallerCanApplyAnything
	prior := make([]compositor.Rect, 0, len(c.children))
	for _, child := range c.children {
		ctx.RenderableStateFlags = 0
		child.Preroll(ctx)
		flags &= ctx.RenderableStateFlags

		cb := child.PaintBounds()
		for _, p := range prior {
			if p.Intersects(cb) {
				flags = 0
				break
			}
		}
		prior = append(prior, cb)
		bounds = bounds.Union(cb)
	}
	ctx.RenderableStateFlags = flags
	return bounds
}

// Paint paints the children in order.
func (c *ContainerLayer) Paint(ctx *PaintContext) {
	c.assertPaintable(ctx)
	c.PaintChildren(ctx)
}

// PaintChildren paints every child that needs painting.
func (c *ContainerLayer) PaintChildren(ctx *PaintContext) {
	for _, child := range c.children {
		if child.NeedsPainting(ctx) {
			child.Paint(ctx)
		}
	}
}

// Diff diffs the container's children against a matching old container.
// Matching is structural: type and parameters, not object identity, so a
// rebuilt tree with unchanged content produces no damage.
func (c *ContainerLayer) Diff(ctx *DiffContext, old Layer) {
	o, ok := old.(*ContainerLayer)
	if !ok {
		damageBoth(ctx, c, old)
		return
	}
	c.DiffChildren(ctx, o.Children())
}

// DiffChildren diffs children positionally; each child's own Diff decides
// whether the pair matches. Unchanged siblings of a changed child
// contribute no damage.
func (c *ContainerLayer) DiffChildren(ctx *DiffContext, oldChildren []Layer) {
	n := len(c.children)
	if len(oldChildren) > n {
		n = len(oldChildren)
	}
	for i := 0; i < n; i++ {
		var newChild, oldChild Layer
		if i < len(c.children) {
			newChild = c.children[i]
		}
		if i < len(oldChildren) {
			oldChild = oldChildren[i]
		}
		switch {
		case newChild == nil:
			damageLayer(ctx, oldChild)
		case oldChild == nil:
			damageLayer(ctx, newChild)
		default:
			newChild.Diff(ctx, oldChild)
		}
	}
}
