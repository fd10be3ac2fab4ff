package hooking

import (
	"sync"
)

// PosCounter counts how many times each hook position fires. Positions are
// reported in the order they are first seen.
type PosCounter struct {
	filter PosFilter
	lock   sync.Mutex

	posNames []string
	count    map[string]uint64
}

// PosFilter decides if a hook context should be counted.
type PosFilter func(ctx HookCtx) bool

// NewPosCounter creates a new PosCounter. A nil filter counts everything.
func NewPosCounter(filter PosFilter) *PosCounter {
	return &PosCounter{
		filter: filter,
		count:  make(map[string]uint64),
	}
}

// Func counts the position of the hook context.
func (c *PosCounter) Func(ctx HookCtx) {
	if c.filter != nil && !c.filter(ctx) {
		return
	}

	c.lock.Lock()
	defer c.lock.Unlock()

	name := ctx.Pos.Name
	if _, ok := c.count[name]; !ok {
		c.posNames = append(c.posNames, name)
	}

	c.count[name]++
}

// PosNames returns the names of all the positions seen.
func (c *PosCounter) PosNames() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	names := make([]string, len(c.posNames))
	copy(names, c.posNames)

	return names
}

// Count returns how many times the named position fired.
func (c *PosCounter) Count(posName string) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.count[posName]
}
