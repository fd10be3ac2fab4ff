package rfc

import (
	"fmt"
	"sort"

	"github.com/sarchlab/rfcache/rfc/internal/taglist"
	"github.com/sarchlab/rfcache/sim/hooking"
)

// A Cache tracks the registers resident in a register file cache.
//
// Each stream owns up to NumSlotsPerStream entries. New entries go to the head
// of the stream's list and, when the list is full, the tail entry is evicted.
// The same register may be inserted more than once; lookups scan from the head
// so the newest entry shadows the older ones until they age out.
//
// A Cache is not safe for concurrent use. Simulate each core with its own
// Cache and combine the statistics with MergeStatsInto.
type Cache struct {
	hooking.HookableBase

	name              string
	numSlotsPerStream int
	streams           map[StreamID]*taglist.List[RegEntry]
	stats             Stats
}

// Name returns the name of the cache.
func (c *Cache) Name() string {
	return c.name
}

// NumSlotsPerStream returns how many entries each stream may hold.
func (c *Cache) NumSlotsPerStream() int {
	return c.numSlotsPerStream
}

// Exists checks if the register of the stream is resident. It does not
// change the statistics.
func (c *Cache) Exists(stream StreamID, reg uint32) bool {
	list, ok := c.streams[stream]
	if !ok {
		return false
	}

	_, found := list.Find(func(e RegEntry) bool { return e.Reg == reg })

	return found
}

// LookupRead checks if a register read hits and counts the outcome.
func (c *Cache) LookupRead(stream StreamID, reg uint32) bool {
	return c.Lookup(AccessRead, stream, reg)
}

// LookupWrite checks if a register write hits and counts the outcome.
func (c *Cache) LookupWrite(stream StreamID, reg uint32) bool {
	return c.Lookup(AccessWrite, stream, reg)
}

// Lookup checks if the register is resident and counts a hit or a miss for
// the given kind of access. The result is always the same as Exists.
func (c *Cache) Lookup(kind AccessKind, stream StreamID, reg uint32) bool {
	hit := c.Exists(stream, reg)

	switch kind {
	case AccessRead:
		c.stats.countRead(hit)
	case AccessWrite:
		c.stats.countWrite(hit)
	default:
		panic(fmt.Sprintf("unknown access kind %d", kind))
	}

	if c.NumHooks() > 0 {
		c.InvokeHook(hooking.HookCtx{
			Domain: c,
			Pos:    HookPosAccess,
			Item: AccessEvent{
				Stream: stream,
				Reg:    reg,
				Kind:   kind,
				Hit:    hit,
			},
		})
	}

	return hit
}

// CheckForEviction reports the entry that Insert would evict if a register
// were inserted for the stream now. It returns false if the stream still has a
// free slot. Nothing is changed.
//
// The register must not be resident; call Exists or Lookup first.
func (c *Cache) CheckForEviction(stream StreamID, reg uint32) (RegEntry, bool) {
	list, ok := c.streams[stream]
	if !ok {
		return RegEntry{}, false
	}

	if _, found := list.Find(func(e RegEntry) bool { return e.Reg == reg }); found {
		panic(fmt.Sprintf(
			"%s: checking eviction for resident register %d of stream %d",
			c.name, reg, stream))
	}

	if !list.IsFull() {
		return RegEntry{}, false
	}

	victim, _ := list.Back()

	return victim, true
}

// Insert places a register at the head of the list of the stream that inst
// belongs to. If the list is full, the oldest entry is evicted first; it is
// the same entry CheckForEviction reports. Insert does nothing if the cache
// has no slot.
func (c *Cache) Insert(reg uint32, inst Inst) {
	if inst == nil {
		panic(c.name + ": inserting a register without an instruction")
	}

	if c.numSlotsPerStream == 0 {
		return
	}

	stream := inst.StreamID()
	list := c.listOf(stream)

	if list.IsFull() {
		victim := list.PopBack()
		c.stats.Evictions++

		c.invokeIfHooked(HookPosEvict, EvictEvent{
			Stream: stream,
			Victim: victim,
		})
	}

	entry := RegEntry{Reg: reg, Inst: inst}
	list.PushFront(entry)

	c.invokeIfHooked(HookPosInsert, InsertEvent{
		Stream:    stream,
		Entry:     entry,
		Occupancy: list.Len(),
	})
}

func (c *Cache) listOf(stream StreamID) *taglist.List[RegEntry] {
	list, ok := c.streams[stream]
	if !ok {
		list = taglist.New[RegEntry](c.numSlotsPerStream)
		c.streams[stream] = list
	}

	return list
}

func (c *Cache) invokeIfHooked(pos *hooking.HookPos, item any) {
	if c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
	})
}

// Occupancy returns the number of entries the stream currently holds,
// duplicates included.
func (c *Cache) Occupancy(stream StreamID) int {
	list, ok := c.streams[stream]
	if !ok {
		return 0
	}

	return list.Len()
}

// Entries returns a copy of the entries of the stream, newest first.
func (c *Cache) Entries(stream StreamID) []RegEntry {
	list, ok := c.streams[stream]
	if !ok {
		return nil
	}

	return list.Slice()
}

// Streams returns the streams that have ever inserted a register, in
// ascending order.
func (c *Cache) Streams() []StreamID {
	streams := make([]StreamID, 0, len(c.streams))
	for s := range c.streams {
		streams = append(streams, s)
	}

	sort.Slice(streams, func(i, j int) bool { return streams[i] < streams[j] })

	return streams
}

// Stats returns a copy of the statistics collected so far.
func (c *Cache) Stats() Stats {
	return c.stats
}

// MergeStatsInto adds the statistics of this cache into acc.
func (c *Cache) MergeStatsInto(acc *Stats) {
	c.stats.MergeInto(acc)
}
