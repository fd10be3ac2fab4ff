package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/sarchlab/rfcache/datarecording"
	"github.com/sarchlab/rfcache/monitoring"
	"github.com/sarchlab/rfcache/rfc"
)

// StatsTableName is the table the per-cache statistics are recorded in.
const StatsTableName = "rfc_stats"

// A WriteBacker is told about every entry that is about to be evicted, before
// the cache drops it.
type WriteBacker interface {
	WriteBack(core int, victim rfc.RegEntry)
}

// A SnapshotPublisher receives cache snapshots while the simulation runs.
type SnapshotPublisher interface {
	Publish(s monitoring.CacheSnapshot)
}

// A ProgressTracker is told how many accesses have been replayed.
type ProgressTracker interface {
	IncrementFinished(amount uint64)
}

// WriteBackCounter is a WriteBacker that counts write-backs per core.
type WriteBackCounter struct {
	counts []uint64
}

// NewWriteBackCounter creates a counter for numCores cores.
func NewWriteBackCounter(numCores int) *WriteBackCounter {
	return &WriteBackCounter{counts: make([]uint64, numCores)}
}

// WriteBack counts the write-back.
func (c *WriteBackCounter) WriteBack(core int, _ rfc.RegEntry) {
	c.counts[core]++
}

// Count returns the number of write-backs of a core.
func (c *WriteBackCounter) Count(core int) uint64 {
	return c.counts[core]
}

// Total returns the number of write-backs of all cores.
func (c *WriteBackCounter) Total() uint64 {
	var total uint64
	for _, n := range c.counts {
		total += n
	}

	return total
}

type statsRow struct {
	Cache       string
	Hits        uint64
	ReadHits    uint64
	WriteHits   uint64
	Misses      uint64
	ReadMisses  uint64
	WriteMisses uint64
	Evictions   uint64
}

// Simulator replays register accesses on one register file cache per core.
//
// For every access, the core's cache is looked up. A miss brings the register
// into the cache: the simulator first asks which entry would be evicted, lets
// the WriteBacker handle it, and only then inserts the register.
type Simulator struct {
	caches          []*rfc.Cache
	writeBacker     WriteBacker
	publisher       SnapshotPublisher
	publishInterval uint64
	recorder        datarecording.DataRecorder
	progress        ProgressTracker

	cycle       uint64
	numAccesses uint64
	insts       map[string]*Inst
}

// CurrentCycle returns the cycle of the latest access.
func (s *Simulator) CurrentCycle() uint64 {
	return s.cycle
}

// NumAccesses returns the number of accesses replayed so far.
func (s *Simulator) NumAccesses() uint64 {
	return s.numAccesses
}

// Caches returns the caches, indexed by core.
func (s *Simulator) Caches() []*rfc.Cache {
	return s.caches
}

// Step replays one access.
func (s *Simulator) Step(a Access) error {
	if a.Core < 0 || a.Core >= len(s.caches) {
		return fmt.Errorf("access to core %d, but there are only %d cores",
			a.Core, len(s.caches))
	}

	if a.Cycle < s.cycle {
		return fmt.Errorf("access at cycle %d after cycle %d",
			a.Cycle, s.cycle)
	}

	s.cycle = a.Cycle
	s.numAccesses++

	c := s.caches[a.Core]
	if c.Lookup(a.Kind, a.Stream, a.Reg) {
		return nil
	}

	if victim, mustEvict := c.CheckForEviction(a.Stream, a.Reg); mustEvict {
		s.writeBacker.WriteBack(a.Core, victim)
	}

	c.Insert(a.Reg, s.instOf(a))

	return nil
}

// instOf returns the record of the instruction that makes the access.
// Accesses of the same named instruction share one record.
func (s *Simulator) instOf(a Access) *Inst {
	if a.InstID == "" {
		return NewInst("", a.Stream)
	}

	inst, ok := s.insts[a.InstID]
	if !ok || inst.Stream != a.Stream {
		inst = NewInst(a.InstID, a.Stream)
		s.insts[a.InstID] = inst
	}

	return inst
}

// Run replays all the accesses of src. It stops early if ctx is cancelled or
// src fails. Finish is called however Run returns, so the statistics of a
// partial replay are still published and recorded.
func (s *Simulator) Run(ctx context.Context, src AccessSource) error {
	defer s.Finish()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		a, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		if err := s.Step(a); err != nil {
			return err
		}

		if s.progress != nil {
			s.progress.IncrementFinished(1)
		}

		if s.publisher != nil && s.publishInterval > 0 &&
			s.numAccesses%s.publishInterval == 0 {
			s.publish()
		}
	}

	return nil
}

// Finish publishes the final snapshots and records the statistics.
func (s *Simulator) Finish() {
	s.publish()
	s.recordStats()
}

func (s *Simulator) publish() {
	if s.publisher == nil {
		return
	}

	for _, c := range s.caches {
		s.publisher.Publish(monitoring.TakeSnapshot(c, s.cycle))
	}
}

func (s *Simulator) recordStats() {
	if s.recorder == nil {
		return
	}

	for _, c := range s.caches {
		s.recorder.InsertData(StatsTableName, toStatsRow(c.Name(), c.Stats()))
	}

	s.recorder.InsertData(StatsTableName, toStatsRow("Total", s.TotalStats()))
	s.recorder.Flush()
}

func toStatsRow(name string, st rfc.Stats) statsRow {
	return statsRow{
		Cache:       name,
		Hits:        st.Hits,
		ReadHits:    st.ReadHits,
		WriteHits:   st.WriteHits,
		Misses:      st.Misses,
		ReadMisses:  st.ReadMisses,
		WriteMisses: st.WriteMisses,
		Evictions:   st.Evictions,
	}
}

// TotalStats merges the statistics of all the caches.
func (s *Simulator) TotalStats() rfc.Stats {
	total := rfc.Stats{}
	for _, c := range s.caches {
		c.MergeStatsInto(&total)
	}

	return total
}

// Report writes the statistics of every cache followed by the total.
func (s *Simulator) Report(w io.Writer) error {
	for _, c := range s.caches {
		if _, err := fmt.Fprintf(w, "%s:\n", c.Name()); err != nil {
			return err
		}

		if err := c.Stats().WriteReport(w); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w, "Total:"); err != nil {
		return err
	}

	return s.TotalStats().WriteReport(w)
}
