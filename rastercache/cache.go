package rastercache

import (
	"image"
	"image/color"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/recording"
	"github.com/gogpu/compositor/render"
)

// Default cache policy constants.
const (
	// DefaultAccessThreshold is the number of frames the same content must
	// be seen under the same transform before it is rasterized.
	DefaultAccessThreshold = 3

	// DefaultCreationBudget bounds how many new rasterizations happen in a
	// single frame, so one frame never spends unbounded time priming the
	// cache.
	DefaultCreationBudget = 3

	// bytesPerPixel is the byte estimate per RGBA pixel.
	bytesPerPixel = 4
)

// Option configures a Cache during creation.
type Option func(*Cache)

// WithAccessThreshold sets the promotion threshold. A threshold of zero
// disables caching entirely: every candidate would clear the comparison
// immediately, which this design treats as "don't cache" — MarkSeen
// reports false for every candidate.
func WithAccessThreshold(n int) Option {
	return func(c *Cache) {
		c.accessThreshold = n
	}
}

// WithCreationBudget sets the per-frame limit on new rasterizations.
// Zero means unlimited.
func WithCreationBudget(n int) Option {
	return func(c *Cache) {
		c.creationBudget = n
	}
}

// WithCheckerboard enables the checkerboard overlay on cached images, a
// diagnostic that makes cached subtrees visible on screen.
func WithCheckerboard(enabled bool) Option {
	return func(c *Cache) {
		c.checkerboard = enabled
	}
}

// Metrics describes the cache contents after a frame. Only populated
// entries are visible to metrics; unpopulated candidates carry bookkeeping
// but no pixels.
type Metrics struct {
	// EntryCount is the number of populated entries.
	EntryCount int

	// BytesEstimate is the estimated memory held by populated entries.
	BytesEstimate int64
}

// Entry is one cached rasterization candidate. Entries are created on
// first sight, promoted to populated once their access count crosses the
// threshold, and destroyed when a frame passes without use.
type Entry struct {
	accessCount   int
	usedThisFrame bool
	populated     bool

	image         image.Image
	surface       render.Surface
	logicalBounds compositor.Rect
	deviceBounds  compositor.Rect
	fracX, fracY  float32 // sub-pixel translation at cache time
}

// AccessCount returns how many frames have requested this entry.
func (e *Entry) AccessCount() int { return e.accessCount }

// Populated reports whether the entry holds a rasterized image.
func (e *Entry) Populated() bool { return e.populated }

// Cache is a frame-indexed store of rasterized subtree results.
//
// All operations must happen inside a BeginFrame/EndFrame bracket on the
// traversal thread; the cache has no internal locking because concurrent
// access is out of contract. Cross-frame state (access counts, populated
// images) is the only state carried between brackets.
type Cache struct {
	accessThreshold int
	creationBudget  int
	checkerboard    bool

	entries          map[entryKey]*Entry
	createdThisFrame int
	frame            uint64
	metrics          Metrics
}

// New creates a raster cache with the default policy, adjusted by opts.
func New(opts ...Option) *Cache {
	c := &Cache{
		accessThreshold: DefaultAccessThreshold,
		creationBudget:  DefaultCreationBudget,
		entries:         make(map[entryKey]*Entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the cache admits new content at all. Callers
// must consult this policy rather than comparing counts against the
// threshold themselves.
func (c *Cache) Enabled() bool {
	return c.accessThreshold > 0
}

// AccessThreshold returns the configured promotion threshold.
func (c *Cache) AccessThreshold() int {
	return c.accessThreshold
}

// BeginFrame starts a frame bracket: the per-frame creation budget resets
// and every entry's used flag clears so EndFrame can tell which entries
// this frame touched.
func (c *Cache) BeginFrame() {
	c.frame++
	c.createdThisFrame = 0
	for _, e := range c.entries {
		e.usedThisFrame = false
	}
}

// MarkSeen records that preroll visited cache-candidate content under the
// given transform. It returns whether the content is now eligible for
// promotion: seen in at least threshold distinct frames, complexity clears
// the admission bar, the transform is invertible, and the per-frame
// creation budget is not exhausted. Content already populated reports true.
func (c *Cache) MarkSeen(key Key, matrix compositor.Affine, score Score) bool {
	if !c.Enabled() {
		return false
	}
	tk, ok := MakeTransformKey(matrix)
	if !ok {
		// Degenerate transform: caching stays off for this pair this frame.
		return false
	}

	ek := entryKey{key: key, tk: tk}
	e := c.entries[ek]
	if e == nil {
		e = &Entry{}
		c.entries[ek] = e
	}
	// The count advances once per frame: repeated sightings of the same
	// key+transform inside one frame are a single access.
	if !e.usedThisFrame {
		e.accessCount++
		e.usedThisFrame = true
	}

	if e.populated {
		return true
	}
	return e.accessCount >= c.accessThreshold &&
		score.WorthCaching() &&
		c.budgetRemaining()
}

// budgetRemaining reports whether this frame may create another entry.
func (c *Cache) budgetRemaining() bool {
	return c.creationBudget == 0 || c.createdThisFrame < c.creationBudget
}

// Rasterize populates the entry for key+matrix by executing produce into
// an offscreen surface sized to the device-space bounds rounded out to
// whole pixels. Rasterize is idempotent: a populated entry is left alone
// and reported as success. Allocation failure is a soft failure — the
// caller falls back to live rendering.
func (c *Cache) Rasterize(
	alloc render.Allocator,
	key Key,
	matrix compositor.Affine,
	logicalBounds compositor.Rect,
	produce func(recording.Canvas),
) bool {
	if !c.Enabled() {
		return false
	}
	tk, ok := MakeTransformKey(matrix)
	if !ok {
		return false
	}
	e := c.entries[entryKey{key: key, tk: tk}]
	if e == nil {
		return false
	}
	if e.populated {
		return true
	}
	if !c.budgetRemaining() {
		return false
	}

	dev := matrix.MapRect(logicalBounds).RoundOut()
	width, height := int(dev.Width()), int(dev.Height())
	surface, err := alloc.AllocateOffscreen(width, height)
	if err != nil {
		compositor.Logger().Warn("raster cache: offscreen allocation failed, drawing live",
			"width", width, "height", height, "err", err)
		return false
	}

	canvas := surface.Canvas()
	canvas.Save()
	canvas.Translate(-dev.MinX, -dev.MinY)
	canvas.Transform(matrix)
	produce(canvas)
	canvas.Restore()
	if c.checkerboard {
		DrawCheckerboard(canvas, compositor.NewRect(0, 0, dev.Width(), dev.Height()))
	}

	e.image = surface.Snapshot()
	e.surface = surface
	e.logicalBounds = logicalBounds
	e.deviceBounds = dev
	e.fracX, e.fracY = matrix.TranslationFraction()
	e.populated = true
	c.createdThisFrame++

	compositor.Logger().Debug("raster cache: populated entry",
		"frame", c.frame, "id", uint64(key.ID), "kind", key.Kind.String(),
		"width", width, "height", height)
	return true
}

// Draw blits the cached image for key under the current transform onto the
// canvas, compensating for the difference between the sub-pixel translation
// at cache time and now. It returns false when the entry is unpopulated or
// addressed by a different quantized transform, in which case the caller
// draws live.
func (c *Cache) Draw(key Key, current compositor.Affine, canvas recording.Canvas, paint compositor.Paint) bool {
	tk, ok := MakeTransformKey(current)
	if !ok {
		return false
	}
	e := c.entries[entryKey{key: key, tk: tk}]
	if e == nil || !e.populated {
		return false
	}
	inverse, ok := current.Invert()
	if !ok {
		return false
	}
	e.usedThisFrame = true

	dev := current.MapRect(e.logicalBounds).RoundOut()
	fx, fy := current.TranslationFraction()
	offset := compositor.Point{
		X: dev.MinX + (fx - e.fracX),
		Y: dev.MinY + (fy - e.fracY),
	}

	// The image is already in device space: neutralize the canvas
	// transform for the blit.
	canvas.Save()
	canvas.Transform(inverse)
	canvas.DrawImage(e.image, offset, paint)
	canvas.Restore()
	return true
}

// EvictUnused removes every entry not marked used this frame, queueing
// populated images for deferred release through the surface they came
// from.
func (c *Cache) EvictUnused() int {
	evicted := 0
	for ek, e := range c.entries {
		if e.usedThisFrame {
			continue
		}
		if e.surface != nil {
			e.surface.Release()
		}
		delete(c.entries, ek)
		evicted++
	}
	if evicted > 0 {
		compositor.Logger().Debug("raster cache: evicted unused entries",
			"frame", c.frame, "count", evicted)
	}
	return evicted
}

// EndFrame closes the frame bracket: unused entries are evicted and the
// aggregate metrics are recomputed over populated entries only.
func (c *Cache) EndFrame() {
	c.EvictUnused()

	m := Metrics{}
	for _, e := range c.entries {
		if !e.populated {
			continue
		}
		m.EntryCount++
		m.BytesEstimate += int64(e.deviceBounds.Width()) * int64(e.deviceBounds.Height()) * bytesPerPixel
	}
	c.metrics = m
}

// Metrics returns the aggregate metrics computed by the last EndFrame.
func (c *Cache) Metrics() Metrics {
	return c.metrics
}

// EntryCount returns the total number of entries including unpopulated
// candidates. Diagnostic only; metrics cover populated entries.
func (c *Cache) EntryCount() int {
	return len(c.entries)
}

// Clear removes every entry, queueing populated images for release.
func (c *Cache) Clear() {
	for ek, e := range c.entries {
		if e.surface != nil {
			e.surface.Release()
		}
		delete(c.entries, ek)
	}
	c.metrics = Metrics{}
}

// checkerboardCell is the square size of the diagnostic overlay.
const checkerboardCell = 12

// DrawCheckerboard overlays a translucent checkerboard pattern on the
// given region, marking cached content during visual debugging.
func DrawCheckerboard(canvas recording.Canvas, region compositor.Rect) {
	tint := color.NRGBA{R: 0, G: 0xC0, B: 0xC0, A: 0x40}
	paint := compositor.NewPaint()
	for row := 0; ; row++ {
		y := region.MinY + float32(row*checkerboardCell)
		if y >= region.MaxY {
			break
		}
		for col := 0; ; col++ {
			x := region.MinX + float32(col*checkerboardCell)
			if x >= region.MaxX {
				break
			}
			if (row+col)%2 == 0 {
				continue
			}
			cell := compositor.NewRect(x, y, checkerboardCell, checkerboardCell).Intersect(region)
			canvas.DrawRect(cell, tint, paint)
		}
	}
}
