// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"testing"
)

func TestPixmapAllocatorRejectsBadSizes(t *testing.T) {
	a := NewPixmapAllocator()
	tests := []struct {
		name          string
		width, height int
		wantErr       error
	}{
		{"zero width", 0, 10, ErrZeroSizeSurface},
		{"negative height", 10, -1, ErrZeroSizeSurface},
		{"too wide", maxPixmapDimension + 1, 10, ErrSurfaceTooLarge},
		{"too tall", 10, maxPixmapDimension + 1, ErrSurfaceTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.AllocateOffscreen(tt.width, tt.height)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AllocateOffscreen(%d, %d) err = %v, want %v", tt.width, tt.height, err, tt.wantErr)
			}
		})
	}
}

func TestPixmapAllocatorAllocates(t *testing.T) {
	a := NewPixmapAllocator()
	s, err := a.AllocateOffscreen(32, 16)
	if err != nil {
		t.Fatalf("AllocateOffscreen: %v", err)
	}
	if s.Width() != 32 || s.Height() != 16 {
		t.Errorf("surface size = %dx%d, want 32x16", s.Width(), s.Height())
	}
	if s.Canvas() == nil {
		t.Error("surface has no canvas")
	}
	if s.Snapshot() == nil {
		t.Error("surface has no snapshot")
	}
}

func TestReleaseQueueDefersUntilDrain(t *testing.T) {
	q := NewReleaseQueue()
	released := 0
	q.Defer(func() { released++ })
	q.Defer(func() { released++ })
	q.Defer(nil)

	if released != 0 {
		t.Fatalf("released %d resources before Drain", released)
	}
	if got := q.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	q.Drain()
	if released != 2 {
		t.Errorf("Drain released %d resources, want 2", released)
	}
	if got := q.Len(); got != 0 {
		t.Errorf("Len() after Drain = %d, want 0", got)
	}
}

func TestSurfaceReleaseGoesThroughQueue(t *testing.T) {
	a := NewPixmapAllocator()
	s, err := a.AllocateOffscreen(8, 8)
	if err != nil {
		t.Fatalf("AllocateOffscreen: %v", err)
	}
	s.Release()
	if got := a.ReleaseQueue().Len(); got != 1 {
		t.Fatalf("queue Len() = %d, want 1 pending release", got)
	}
	a.ReleaseQueue().Drain()
	if got := a.ReleaseQueue().Len(); got != 0 {
		t.Errorf("queue Len() after Drain = %d, want 0", got)
	}
}
