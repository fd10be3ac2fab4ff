// Package rfc models a register file cache in a GPU pipeline.
//
// The cache does not hold register values. It only tracks which registers of
// each stream (a warp, or any other independent execution context) would be
// resident in a small per-stream cache with a fixed number of slots, admitting
// and evicting in first-in-first-out order. Hit, miss, and eviction counts are
// collected so that a performance model can report how effective such a cache
// would be.
//
// A typical caller drives the cache like this:
//
//	if !c.LookupRead(stream, reg) {
//		if victim, evict := c.CheckForEviction(stream, reg); evict {
//			writeBack(victim)
//		}
//		c.Insert(reg, inst)
//	}
package rfc

import "fmt"

// StreamID identifies an independent execution context, such as a warp.
type StreamID uint32

// Inst is an instruction that produces or consumes registers. The cache keeps
// a reference to it but never reads anything other than the stream it belongs
// to.
type Inst interface {
	StreamID() StreamID
}

// A RegEntry is a register that is resident in the cache, together with the
// instruction that brought it in.
type RegEntry struct {
	Reg  uint32
	Inst Inst
}

// AccessKind tells if a register is read or written.
type AccessKind int

// A list of all access kinds.
const (
	AccessRead AccessKind = iota
	AccessWrite
)

func (k AccessKind) String() string {
	switch k {
	case AccessRead:
		return "read"
	case AccessWrite:
		return "write"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}
