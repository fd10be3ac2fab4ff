package rfc

import (
	"fmt"

	"github.com/sarchlab/rfcache/datarecording"
	"github.com/sarchlab/rfcache/sim/hooking"
)

// Table names used by EventRecorder.
const (
	AccessTableName   = "rfc_access"
	EvictionTableName = "rfc_eviction"
)

// A CycleTeller tells the current simulated cycle.
type CycleTeller interface {
	CurrentCycle() uint64
}

type accessRow struct {
	Cycle  uint64
	Cache  string
	Stream uint32
	Reg    uint32
	Kind   string
	Hit    bool
}

type evictionRow struct {
	Cycle     uint64
	Cache     string
	Stream    uint32
	VictimReg uint32
	Inst      string
}

// EventRecorder is a hook that stores lookups and evictions into a data
// recorder. One EventRecorder can be attached to many caches; rows carry the
// name of the cache they come from.
type EventRecorder struct {
	recorder datarecording.DataRecorder
	cycles   CycleTeller
}

// NewEventRecorder creates the tables of the event recorder if the recorder
// does not have them yet.
func NewEventRecorder(
	recorder datarecording.DataRecorder,
	cycles CycleTeller,
) *EventRecorder {
	r := &EventRecorder{
		recorder: recorder,
		cycles:   cycles,
	}

	datarecording.CreateTableIfMissing(recorder, AccessTableName, accessRow{})
	datarecording.CreateTableIfMissing(recorder, EvictionTableName, evictionRow{})

	return r
}

// Func records access and eviction events. Other events are ignored.
func (r *EventRecorder) Func(ctx hooking.HookCtx) {
	switch item := ctx.Item.(type) {
	case AccessEvent:
		r.recorder.InsertData(AccessTableName, accessRow{
			Cycle:  r.now(),
			Cache:  domainName(ctx),
			Stream: uint32(item.Stream),
			Reg:    item.Reg,
			Kind:   item.Kind.String(),
			Hit:    item.Hit,
		})
	case EvictEvent:
		r.recorder.InsertData(EvictionTableName, evictionRow{
			Cycle:     r.now(),
			Cache:     domainName(ctx),
			Stream:    uint32(item.Stream),
			VictimReg: item.Victim.Reg,
			Inst:      instLabel(item.Victim.Inst),
		})
	}
}

func (r *EventRecorder) now() uint64 {
	if r.cycles == nil {
		return 0
	}

	return r.cycles.CurrentCycle()
}

func domainName(ctx hooking.HookCtx) string {
	if ctx.Domain == nil {
		return ""
	}

	return ctx.Domain.Name()
}

func instLabel(inst Inst) string {
	switch i := inst.(type) {
	case nil:
		return ""
	case fmt.Stringer:
		return i.String()
	default:
		return fmt.Sprintf("%T@stream%d", inst, inst.StreamID())
	}
}
