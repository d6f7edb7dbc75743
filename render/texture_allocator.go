// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/compositor/recording"
)

// ErrNoTextureCreator is returned when a texture allocator is constructed
// without a way to create device textures.
var ErrNoTextureCreator = errors.New("render: device provides no texture creator")

// textureDestroyer releases a device texture. Concrete gpucontext textures
// implement it; the interface stays behind a type assertion because the
// gpucontext.Texture contract is read-only.
type textureDestroyer interface {
	Destroy()
}

// TextureAllocator allocates offscreen surfaces that rasterize on the CPU
// and upload to device textures owned by the host's DeviceHandle. Content
// is produced through the surface's software canvas; Upload pushes the
// pixels through the device's TextureCreator so the host can composite the
// result on the GPU. Released textures are destroyed through the deferred
// release queue, never synchronously, since the device may still be
// sampling them for the in-flight frame.
type TextureAllocator struct {
	device  DeviceHandle
	creator gpucontext.TextureCreator
	queue   *ReleaseQueue
}

// NewTextureAllocator creates a texture-backed surface allocator. The
// creator typically comes from the host's TextureDrawer.
func NewTextureAllocator(device DeviceHandle, creator gpucontext.TextureCreator) (*TextureAllocator, error) {
	if creator == nil {
		return nil, ErrNoTextureCreator
	}
	return &TextureAllocator{
		device:  device,
		creator: creator,
		queue:   NewReleaseQueue(),
	}, nil
}

// AllocateOffscreen creates a surface of the given pixel size. The surface
// descriptor follows the device's preferred surface format, falling back to
// RGBA8 when the device is headless.
func (a *TextureAllocator) AllocateOffscreen(width, height int) (Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrZeroSizeSurface
	}
	if width > maxPixmapDimension || height > maxPixmapDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrSurfaceTooLarge, width, height)
	}
	format := gputypes.TextureFormatRGBA8Unorm
	if a.device != nil {
		if f := a.device.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
			format = f
		}
	}
	target := NewPixmapTarget(width, height)
	return &textureSurface{
		desc:    DefaultTextureDescriptor(uint32(width), uint32(height), format),
		target:  target,
		canvas:  NewSoftwareCanvas(target.Image()),
		creator: a.creator,
		queue:   a.queue,
	}, nil
}

// ReleaseQueue returns the allocator's deferred release queue.
func (a *TextureAllocator) ReleaseQueue() *ReleaseQueue {
	return a.queue
}

// textureSurface rasterizes on the CPU and uploads to a device texture on
// demand.
type textureSurface struct {
	desc    TextureDescriptor
	target  *PixmapTarget
	canvas  *SoftwareCanvas
	creator gpucontext.TextureCreator
	queue   *ReleaseQueue
	texture gpucontext.Texture
}

func (s *textureSurface) Canvas() recording.Canvas { return s.canvas }
func (s *textureSurface) Width() int               { return s.target.Width() }
func (s *textureSurface) Height() int              { return s.target.Height() }

// Snapshot returns the CPU-side pixels. The raster cache blits this image;
// GPU consumers call Upload instead.
func (s *textureSurface) Snapshot() image.Image {
	return s.target.Image()
}

// Upload creates (or returns) the device texture holding the surface
// content. The pixel upload waits for prior device work internally, so the
// returned texture is immediately drawable.
func (s *textureSurface) Upload() (gpucontext.Texture, error) {
	if s.texture != nil {
		return s.texture, nil
	}
	img := s.target.Image()
	tex, err := s.creator.NewTextureFromRGBA(int(s.desc.Width), int(s.desc.Height), img.Pix)
	if err != nil {
		return nil, fmt.Errorf("render: texture upload failed: %w", err)
	}
	s.texture = tex
	return tex, nil
}

// Descriptor returns the descriptor the surface's device texture is created
// with.
func (s *textureSurface) Descriptor() TextureDescriptor {
	return s.desc
}

// Release queues the device texture for destruction and drops the CPU-side
// pixels. Destruction runs at Drain, once the device is done with the
// frame that may still reference the texture.
func (s *textureSurface) Release() {
	tex := s.texture
	s.texture = nil
	s.queue.Defer(func() {
		if d, ok := tex.(textureDestroyer); ok {
			d.Destroy()
		}
		s.target = nil
		s.canvas = nil
	})
}

// Ensure TextureAllocator implements Allocator.
var (
	_ Allocator = (*TextureAllocator)(nil)
	_ Surface   = (*textureSurface)(nil)
)
