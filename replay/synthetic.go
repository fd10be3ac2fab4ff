package replay

import (
	"io"
	"math/rand"

	"github.com/sarchlab/rfcache/rfc"
)

// SyntheticSource generates a reproducible random trace. Each stream reuses a
// small working set of registers so that caching has something to find.
type SyntheticSource struct {
	NumAccesses int
	NumCores    int
	NumStreams  int
	NumRegs     int

	// WriteRatio is the probability that an access is a write.
	WriteRatio float64

	rng  *rand.Rand
	done int
}

// NewSyntheticSource creates a SyntheticSource with the given seed.
func NewSyntheticSource(seed int64, numAccesses int) *SyntheticSource {
	return &SyntheticSource{
		NumAccesses: numAccesses,
		NumCores:    1,
		NumStreams:  4,
		NumRegs:     16,
		WriteRatio:  0.3,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Next returns the next generated access.
func (s *SyntheticSource) Next() (Access, error) {
	if s.done >= s.NumAccesses {
		return Access{}, io.EOF
	}

	kind := rfc.AccessRead
	if s.rng.Float64() < s.WriteRatio {
		kind = rfc.AccessWrite
	}

	a := Access{
		Cycle:  uint64(s.done / s.NumCores),
		Core:   s.done % s.NumCores,
		Stream: rfc.StreamID(s.rng.Intn(s.NumStreams)),
		Kind:   kind,
		Reg:    s.pickReg(),
	}

	s.done++

	return a, nil
}

// pickReg favors low register numbers, as compiled kernels do.
func (s *SyntheticSource) pickReg() uint32 {
	a := s.rng.Intn(s.NumRegs)
	b := s.rng.Intn(s.NumRegs)

	if a < b {
		return uint32(a)
	}

	return uint32(b)
}
