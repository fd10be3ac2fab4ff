// Package replay drives register file caches with a trace of register
// accesses, the way the operand stage of a GPU core would.
package replay

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/rfcache/rfc"
)

// An Access is one register read or write issued by a core.
type Access struct {
	Cycle  uint64
	Core   int
	Stream rfc.StreamID
	Kind   rfc.AccessKind
	Reg    uint32

	// InstID names the instruction that makes the access. It may be empty.
	InstID string
}

// An AccessSource provides accesses in program order. Next returns io.EOF
// when there is no more access.
type AccessSource interface {
	Next() (Access, error)
}

// ParseKind converts "R" or "W" (in any case) to an access kind.
func ParseKind(s string) (rfc.AccessKind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "R":
		return rfc.AccessRead, nil
	case "W":
		return rfc.AccessWrite, nil
	default:
		return 0, fmt.Errorf("unknown access kind %q", s)
	}
}

func kindLetter(k rfc.AccessKind) string {
	if k == rfc.AccessWrite {
		return "W"
	}

	return "R"
}

// TraceReader reads accesses from CSV text with one access per line:
//
//	cycle,core,stream,kind,reg[,inst]
//
// Lines starting with '#' are comments.
type TraceReader struct {
	r *csv.Reader
}

// NewTraceReader creates a TraceReader.
func NewTraceReader(r io.Reader) *TraceReader {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	return &TraceReader{r: cr}
}

// Next returns the next access in the trace.
func (t *TraceReader) Next() (Access, error) {
	record, err := t.r.Read()
	if errors.Is(err, io.EOF) {
		return Access{}, io.EOF
	}

	if err != nil {
		return Access{}, fmt.Errorf("reading trace: %w", err)
	}

	line, _ := t.r.FieldPos(0)

	a, err := parseRecord(record)
	if err != nil {
		return Access{}, fmt.Errorf("trace line %d: %w", line, err)
	}

	return a, nil
}

func parseRecord(record []string) (Access, error) {
	if len(record) != 5 && len(record) != 6 {
		return Access{}, fmt.Errorf("expected 5 or 6 fields, got %d",
			len(record))
	}

	cycle, err := strconv.ParseUint(strings.TrimSpace(record[0]), 10, 64)
	if err != nil {
		return Access{}, fmt.Errorf("cycle: %w", err)
	}

	core, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 31)
	if err != nil {
		return Access{}, fmt.Errorf("core: %w", err)
	}

	stream, err := strconv.ParseUint(strings.TrimSpace(record[2]), 10, 32)
	if err != nil {
		return Access{}, fmt.Errorf("stream: %w", err)
	}

	kind, err := ParseKind(record[3])
	if err != nil {
		return Access{}, err
	}

	reg, err := strconv.ParseUint(strings.TrimSpace(record[4]), 10, 32)
	if err != nil {
		return Access{}, fmt.Errorf("reg: %w", err)
	}

	a := Access{
		Cycle:  cycle,
		Core:   int(core),
		Stream: rfc.StreamID(stream),
		Kind:   kind,
		Reg:    uint32(reg),
	}

	if len(record) == 6 {
		a.InstID = strings.TrimSpace(record[5])
	}

	return a, nil
}

// WriteTrace writes all the accesses of src in the format TraceReader reads.
func WriteTrace(w io.Writer, src AccessSource) error {
	cw := csv.NewWriter(w)

	for {
		a, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		record := []string{
			strconv.FormatUint(a.Cycle, 10),
			strconv.Itoa(a.Core),
			strconv.FormatUint(uint64(a.Stream), 10),
			kindLetter(a.Kind),
			strconv.FormatUint(uint64(a.Reg), 10),
		}
		if a.InstID != "" {
			record = append(record, a.InstID)
		}

		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
