package replay

import (
	"github.com/rs/xid"

	"github.com/sarchlab/rfcache/rfc"
)

// Inst is the instruction record handed to the caches. The simulator keeps
// every Inst it creates alive for as long as a cache may refer to it.
type Inst struct {
	ID     string
	Stream rfc.StreamID
}

// NewInst creates an instruction of a stream. An empty id is replaced by a
// generated one.
func NewInst(id string, stream rfc.StreamID) *Inst {
	if id == "" {
		id = xid.New().String()
	}

	return &Inst{ID: id, Stream: stream}
}

// StreamID returns the stream the instruction belongs to.
func (i *Inst) StreamID() rfc.StreamID {
	return i.Stream
}

func (i *Inst) String() string {
	return i.ID
}
