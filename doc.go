// Package compositor implements the retained-mode layer compositor at the
// heart of a GPU-backed rendering engine.
//
// A frame is described by a tree of layers (package layer). Each frame the
// tree is walked up to three times: Diff computes the damage against the
// previous frame's tree, Preroll computes bounds, culling and cacheability
// top-down, and Paint emits a device-independent stream of drawing commands
// against a canvas or a recording builder (package recording). Expensive
// subtrees are memoized across frames by a raster cache (package
// rastercache) backed by CPU pixmaps or GPU textures (package render).
//
// This root package holds the shared value types: rectangles, affine
// transforms, paint state, filters and shapes. It has no dependencies on the
// traversal machinery so that every subpackage can use it freely.
//
// The compositor produces no log output by default. Call SetLogger to enable
// structured logging for diagnostics.
package compositor
