package rfc

import (
	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rfcache/sim/hooking"
)

// LogHook writes every cache event to a logger at debug level.
type LogHook struct {
	logger logrus.FieldLogger
}

// NewLogHook creates a LogHook. A nil logger uses the logrus standard logger.
func NewLogHook(logger logrus.FieldLogger) *LogHook {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &LogHook{logger: logger}
}

// Func logs the event carried by the hook context.
func (h *LogHook) Func(ctx hooking.HookCtx) {
	fields := logrus.Fields{}
	if ctx.Domain != nil {
		fields["cache"] = ctx.Domain.Name()
	}

	switch item := ctx.Item.(type) {
	case AccessEvent:
		fields["stream"] = item.Stream
		fields["reg"] = item.Reg
		fields["kind"] = item.Kind.String()
		fields["hit"] = item.Hit
		h.logger.WithFields(fields).Debug("rfc lookup")
	case EvictEvent:
		fields["stream"] = item.Stream
		fields["reg"] = item.Victim.Reg
		fields["inst"] = instLabel(item.Victim.Inst)
		h.logger.WithFields(fields).Debug("rfc evict")
	case InsertEvent:
		fields["stream"] = item.Stream
		fields["reg"] = item.Entry.Reg
		fields["inst"] = instLabel(item.Entry.Inst)
		fields["occupancy"] = item.Occupancy
		h.logger.WithFields(fields).Debug("rfc insert")
	}
}
