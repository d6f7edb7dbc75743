// Package rastercache memoizes expensive subtree rasterizations across
// frames.
//
// Entries are addressed by a stable identity plus a quantized transform:
// the same content revisited under the same transform accumulates an
// access count, and once the count crosses the configured threshold the
// content is rasterized into an offscreen surface and substituted for live
// drawing on subsequent frames. All cache mutation is confined to a single
// frame bracket (BeginFrame/EndFrame) on the traversal thread; concurrent
// access is out of contract.
package rastercache

import (
	"encoding/binary"
	"hash/fnv"
	"sync/atomic"

	"github.com/chewxy/math32"

	"github.com/gogpu/compositor"
)

// ID is a stable identity for cacheable content. IDs survive the layer
// objects that carry them: a layer destroyed and recreated with the same ID
// reuses its cache entries. Never derive an ID from a memory address.
type ID uint64

// IDSource allocates unique IDs. The zero value is ready to use and safe
// for concurrent allocation from the tree-producing thread.
type IDSource struct {
	next atomic.Uint64
}

// NextID returns a new unique non-zero identity.
func (s *IDSource) NextID() ID {
	return ID(s.next.Add(1))
}

// KeyKind distinguishes what a cache key addresses.
type KeyKind uint8

const (
	// KindContent addresses a single piece of painted content.
	KindContent KeyKind = iota

	// KindChildren addresses the aggregate of a container's children,
	// rendered as a group.
	KindChildren
)

// String returns a human-readable name for the key kind.
func (k KeyKind) String() string {
	switch k {
	case KindContent:
		return "Content"
	case KindChildren:
		return "Children"
	default:
		return "Unknown"
	}
}

// Key addresses cached content independent of transform.
// Keys are value-comparable: identity, kind, and (for aggregates, folded
// into the identity by ChildrenID) the ordered child sequence must all
// match exactly.
type Key struct {
	ID   ID
	Kind KeyKind
}

// ContentKey returns a key for a single piece of painted content.
func ContentKey(id ID) Key {
	return Key{ID: id, Kind: KindContent}
}

// ChildrenKey returns a key for an ordered group of children. The child
// sequence is order-sensitive: swapping two children produces a different
// key.
func ChildrenKey(children []ID) Key {
	return Key{ID: ChildrenID(children), Kind: KindChildren}
}

// ChildrenID hashes an ordered list of child identities together with the
// aggregate kind tag into a single identity.
func ChildrenID(children []ID) ID {
	h := fnv.New64a()
	var buf [8]byte
	buf[0] = byte(KindChildren)
	h.Write(buf[:1])
	for _, id := range children {
		binary.LittleEndian.PutUint64(buf[:], uint64(id))
		h.Write(buf[:])
	}
	return ID(h.Sum64())
}

// TransformKey is the quantized transform half of an entry's address.
// Scale and skew terms are compared exactly; the translation is quantized
// to whole device pixels, with the sub-pixel remainder stored on the entry
// for draw-time compensation.
type TransformKey struct {
	A, B, D, E float32
	TX, TY     int32
}

// MakeTransformKey quantizes a transform. The second result is false when
// the transform is degenerate (non-invertible), which disables caching for
// the pair.
func MakeTransformKey(m compositor.Affine) (TransformKey, bool) {
	if !m.IsInvertible() {
		return TransformKey{}, false
	}
	return TransformKey{
		A:  m.A,
		B:  m.B,
		D:  m.D,
		E:  m.E,
		TX: int32(math32.Floor(m.C)),
		TY: int32(math32.Floor(m.F)),
	}, true
}

// entryKey is the full map key: content identity plus quantized transform.
type entryKey struct {
	key Key
	tk  TransformKey
}
