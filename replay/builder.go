package replay

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rfcache/datarecording"
	"github.com/sarchlab/rfcache/rfc"
	"github.com/sarchlab/rfcache/sim/hooking"
)

// Builder can build simulators.
type Builder struct {
	numCores        int
	slotsPerStream  int
	logger          logrus.FieldLogger
	recorder        datarecording.DataRecorder
	writeBacker     WriteBacker
	publisher       SnapshotPublisher
	publishInterval uint64
	progress        ProgressTracker
	hooks           []hooking.Hook
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		numCores:        1,
		slotsPerStream:  6,
		publishInterval: 10000,
	}
}

// WithNumCores sets the number of cores, each having its own cache.
func (b Builder) WithNumCores(n int) Builder {
	b.numCores = n
	return b
}

// WithSlotsPerStream sets the number of slots per stream of every cache.
func (b Builder) WithSlotsPerStream(n int) Builder {
	b.slotsPerStream = n
	return b
}

// WithDebugLogger logs every cache event to the logger.
func (b Builder) WithDebugLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithDataRecorder records cache events and statistics.
func (b Builder) WithDataRecorder(recorder datarecording.DataRecorder) Builder {
	b.recorder = recorder
	return b
}

// WithWriteBacker sets who is told about evictions. By default, write-backs
// are only counted.
func (b Builder) WithWriteBacker(w WriteBacker) Builder {
	b.writeBacker = w
	return b
}

// WithSnapshotPublisher publishes cache snapshots every interval accesses and
// when the simulation finishes.
func (b Builder) WithSnapshotPublisher(
	p SnapshotPublisher,
	interval uint64,
) Builder {
	b.publisher = p
	b.publishInterval = interval

	return b
}

// WithProgressTracker reports the number of replayed accesses to the tracker.
func (b Builder) WithProgressTracker(p ProgressTracker) Builder {
	b.progress = p
	return b
}

// WithHook attaches a hook to every cache.
func (b Builder) WithHook(hook hooking.Hook) Builder {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), hook)
	return b
}

// Build builds a simulator.
func (b Builder) Build() *Simulator {
	if b.numCores < 1 {
		panic("a simulator needs at least one core")
	}

	s := &Simulator{
		writeBacker:     b.writeBacker,
		publisher:       b.publisher,
		publishInterval: b.publishInterval,
		recorder:        b.recorder,
		progress:        b.progress,
		insts:           make(map[string]*Inst),
	}

	if s.writeBacker == nil {
		s.writeBacker = NewWriteBackCounter(b.numCores)
	}

	cacheBuilder := rfc.MakeBuilder().WithNumSlotsPerStream(b.slotsPerStream)

	if b.logger != nil {
		cacheBuilder = cacheBuilder.WithHook(rfc.NewLogHook(b.logger))
	}

	if b.recorder != nil {
		cacheBuilder = cacheBuilder.WithHook(rfc.NewEventRecorder(b.recorder, s))
		datarecording.CreateTableIfMissing(b.recorder, StatsTableName, statsRow{})
	}

	for _, h := range b.hooks {
		cacheBuilder = cacheBuilder.WithHook(h)
	}

	for i := 0; i < b.numCores; i++ {
		s.caches = append(s.caches, cacheBuilder.Build(fmt.Sprintf("RFC[%d]", i)))
	}

	return s
}
