package rfc

import (
	"fmt"
	"io"
	"strings"
)

// Stats collects the hit, miss, and eviction counts of a register file cache.
// The zero value is ready to use. Stats of several caches can be summed with
// Add or MergeInto to get the total of a whole GPU.
type Stats struct {
	Hits        uint64 `json:"hits"`
	ReadHits    uint64 `json:"read_hits"`
	WriteHits   uint64 `json:"write_hits"`
	Misses      uint64 `json:"misses"`
	ReadMisses  uint64 `json:"read_misses"`
	WriteMisses uint64 `json:"write_misses"`
	Evictions   uint64 `json:"evictions"`
}

func (s *Stats) countRead(hit bool) {
	if hit {
		s.Hits++
		s.ReadHits++

		return
	}

	s.Misses++
	s.ReadMisses++
}

func (s *Stats) countWrite(hit bool) {
	if hit {
		s.Hits++
		s.WriteHits++

		return
	}

	s.Misses++
	s.WriteMisses++
}

// Accesses returns the total number of lookups.
func (s Stats) Accesses() uint64 {
	return s.Hits + s.Misses
}

// HitRate returns the fraction of lookups that hit, or 0 if there is no
// lookup.
func (s Stats) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}

	return float64(s.Hits) / float64(s.Accesses())
}

// Add returns the element-wise sum of two Stats.
func (s Stats) Add(o Stats) Stats {
	return Stats{
		Hits:        s.Hits + o.Hits,
		ReadHits:    s.ReadHits + o.ReadHits,
		WriteHits:   s.WriteHits + o.WriteHits,
		Misses:      s.Misses + o.Misses,
		ReadMisses:  s.ReadMisses + o.ReadMisses,
		WriteMisses: s.WriteMisses + o.WriteMisses,
		Evictions:   s.Evictions + o.Evictions,
	}
}

// MergeInto adds the counters into acc.
func (s Stats) MergeInto(acc *Stats) {
	*acc = acc.Add(s)
}

// WriteReport writes the statistics as labeled lines.
func (s Stats) WriteReport(w io.Writer) error {
	lines := []struct {
		label string
		value uint64
	}{
		{"Total RFC Accesses", s.Accesses()},
		{"Total RFC Misses", s.Misses},
		{"Total RFC Read Misses", s.ReadMisses},
		{"Total RFC Write Misses", s.WriteMisses},
		{"Total RFC Evictions", s.Evictions},
	}

	for _, l := range lines {
		_, err := fmt.Fprintf(w, "\t%-22s = %d\n", l.label, l.value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Report returns the text WriteReport writes.
func (s Stats) Report() string {
	sb := new(strings.Builder)

	// Writing to a strings.Builder never fails.
	_ = s.WriteReport(sb)

	return sb.String()
}
