package rfc

import (
	"github.com/sarchlab/rfcache/rfc/internal/taglist"
	"github.com/sarchlab/rfcache/sim/hooking"
)

// Builder can build register file caches.
type Builder struct {
	numSlotsPerStream int
	hooks             []hooking.Hook
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numSlotsPerStream: 6,
	}
}

// WithNumSlotsPerStream sets how many registers each stream can keep in the
// cache. Zero builds a cache that never admits any register.
func (b Builder) WithNumSlotsPerStream(n int) Builder {
	b.numSlotsPerStream = n
	return b
}

// WithHook registers a hook on every cache built.
func (b Builder) WithHook(hook hooking.Hook) Builder {
	hooks := make([]hooking.Hook, 0, len(b.hooks)+1)
	hooks = append(hooks, b.hooks...)
	b.hooks = append(hooks, hook)

	return b
}

// Build creates a register file cache.
func (b Builder) Build(name string) *Cache {
	b.parametersMustBeValid()

	c := &Cache{
		name:              name,
		numSlotsPerStream: b.numSlotsPerStream,
		streams:           make(map[StreamID]*taglist.List[RegEntry]),
	}

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.numSlotsPerStream < 0 {
		panic("number of slots per stream cannot be negative")
	}
}
