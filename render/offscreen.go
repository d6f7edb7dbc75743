// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/compositor/recording"
)

// Offscreen allocation errors.
var (
	// ErrZeroSizeSurface is returned when an offscreen surface would have
	// no pixels.
	ErrZeroSizeSurface = errors.New("render: offscreen surface has zero size")

	// ErrSurfaceTooLarge is returned when a requested surface exceeds the
	// allocator's dimension limit.
	ErrSurfaceTooLarge = errors.New("render: offscreen surface exceeds maximum dimension")
)

// Surface is an offscreen rendering destination used for save-layer passes
// and cached rasterizations. Content is produced through the surface's
// canvas and consumed as a snapshot image.
type Surface interface {
	// Canvas returns the canvas drawing into this surface.
	Canvas() recording.Canvas

	// Snapshot returns the rasterized content. The returned image remains
	// owned by the surface; it is valid until Release.
	Snapshot() image.Image

	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Release queues the surface's resources for destruction. The actual
	// destruction is deferred until the allocator's release queue drains,
	// once the device is known to be done consuming the resource.
	Release()
}

// Allocator creates offscreen surfaces. Implementations may be CPU-backed
// (PixmapAllocator) or upload to device textures (TextureAllocator).
type Allocator interface {
	// AllocateOffscreen creates a surface of the given pixel size.
	// Allocation failure is a soft failure: the caller falls back to live
	// rendering (nothing cached, nothing drawn offscreen).
	AllocateOffscreen(width, height int) (Surface, error)

	// ReleaseQueue returns the queue draining deferred resource releases.
	ReleaseQueue() *ReleaseQueue
}

// ReleaseQueue defers resource destruction until the device has finished
// the work that may still reference the resource. Producers enqueue release
// callbacks at any time; the frame driver calls Drain once per frame after
// device completion.
type ReleaseQueue struct {
	mu      sync.Mutex
	pending []func()
}

// NewReleaseQueue creates an empty release queue.
func NewReleaseQueue() *ReleaseQueue {
	return &ReleaseQueue{}
}

// Defer queues a release callback.
func (q *ReleaseQueue) Defer(release func()) {
	if release == nil {
		return
	}
	q.mu.Lock()
	q.pending = append(q.pending, release)
	q.mu.Unlock()
}

// Len returns the number of queued releases.
func (q *ReleaseQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Drain runs and discards every queued release. Call only when the device
// is known to be done with the resources released this frame.
func (q *ReleaseQueue) Drain() {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, release := range pending {
		release()
	}
}

// maxPixmapDimension bounds CPU surface allocation; larger requests are
// almost always the result of unclipped bounds math gone wrong.
const maxPixmapDimension = 16384

// PixmapAllocator allocates CPU-backed offscreen surfaces.
type PixmapAllocator struct {
	queue *ReleaseQueue
}

// NewPixmapAllocator creates a CPU-backed surface allocator.
func NewPixmapAllocator() *PixmapAllocator {
	return &PixmapAllocator{queue: NewReleaseQueue()}
}

// AllocateOffscreen creates a pixmap surface of the given size.
func (a *PixmapAllocator) AllocateOffscreen(width, height int) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrZeroSizeSurface
	}
	if width > maxPixmapDimension || height > maxPixmapDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrSurfaceTooLarge, width, height)
	}
	target := NewPixmapTarget(width, height)
	return &pixmapSurface{
		target: target,
		canvas: NewSoftwareCanvas(target.Image()),
		queue:  a.queue,
	}, nil
}

// ReleaseQueue returns the allocator's deferred release queue.
func (a *PixmapAllocator) ReleaseQueue() *ReleaseQueue {
	return a.queue
}

// pixmapSurface is a CPU-backed Surface.
type pixmapSurface struct {
	target *PixmapTarget
	canvas *SoftwareCanvas
	queue  *ReleaseQueue
}

func (s *pixmapSurface) Canvas() recording.Canvas { return s.canvas }
func (s *pixmapSurface) Snapshot() image.Image    { return s.target.Image() }
func (s *pixmapSurface) Width() int               { return s.target.Width() }
func (s *pixmapSurface) Height() int              { return s.target.Height() }

// Release queues the backing pixmap for release. For CPU surfaces this only
// drops the references so the memory becomes collectable after Drain.
func (s *pixmapSurface) Release() {
	s.queue.Defer(func() {
		s.target = nil
		s.canvas = nil
	})
}

// Ensure PixmapAllocator implements Allocator.
var (
	_ Allocator = (*PixmapAllocator)(nil)
	_ Surface   = (*pixmapSurface)(nil)
)
