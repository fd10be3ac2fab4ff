package rfc

import "github.com/sarchlab/rfcache/sim/hooking"

// Hook positions of a Cache. Exists and CheckForEviction never invoke hooks.
var (
	// HookPosAccess fires after every LookupRead and LookupWrite. The item is
	// an AccessEvent.
	HookPosAccess = &hooking.HookPos{Name: "RFC Access"}

	// HookPosEvict fires when Insert removes the oldest entry of a stream.
	// The item is an EvictEvent.
	HookPosEvict = &hooking.HookPos{Name: "RFC Evict"}

	// HookPosInsert fires after Insert adds an entry. The item is an
	// InsertEvent.
	HookPosInsert = &hooking.HookPos{Name: "RFC Insert"}
)

// AccessEvent describes a lookup.
type AccessEvent struct {
	Stream StreamID
	Reg    uint32
	Kind   AccessKind
	Hit    bool
}

// EvictEvent describes an entry that has been evicted.
type EvictEvent struct {
	Stream StreamID
	Victim RegEntry
}

// InsertEvent describes a newly inserted entry.
type InsertEvent struct {
	Stream    StreamID
	Entry     RegEntry
	Occupancy int
}
