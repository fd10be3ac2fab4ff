package replay

import (
	"bytes"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rfcache/rfc"
)

func readAll(src AccessSource) ([]Access, error) {
	var accesses []Access

	for {
		a, err := src.Next()
		if errors.Is(err, io.EOF) {
			return accesses, nil
		}

		if err != nil {
			return accesses, err
		}

		accesses = append(accesses, a)
	}
}

type sliceSource struct {
	accesses []Access
}

func (s *sliceSource) Next() (Access, error) {
	if len(s.accesses) == 0 {
		return Access{}, io.EOF
	}

	a := s.accesses[0]
	s.accesses = s.accesses[1:]

	return a, nil
}

var _ = Describe("ParseKind", func() {
	It("should accept both cases", func() {
		Expect(ParseKind("r")).To(Equal(rfc.AccessRead))
		Expect(ParseKind("W")).To(Equal(rfc.AccessWrite))
	})

	It("should reject other letters", func() {
		_, err := ParseKind("X")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("TraceReader", func() {
	It("should read accesses", func() {
		trace := `# cycle,core,stream,kind,reg,inst
0,0,1,R,3
1, 1, 2, w, 7, i42
`
		accesses, err := readAll(NewTraceReader(strings.NewReader(trace)))

		Expect(err).NotTo(HaveOccurred())
		Expect(accesses).To(Equal([]Access{
			{Cycle: 0, Core: 0, Stream: 1, Kind: rfc.AccessRead, Reg: 3},
			{
				Cycle: 1, Core: 1, Stream: 2, Kind: rfc.AccessWrite, Reg: 7,
				InstID: "i42",
			},
		}))
	})

	It("should report the line of a bad record", func() {
		trace := "0,0,1,R,3\n1,0,1,R\n"
		r := NewTraceReader(strings.NewReader(trace))

		_, err := r.Next()
		Expect(err).NotTo(HaveOccurred())

		_, err = r.Next()
		Expect(err).To(MatchError(ContainSubstring("trace line 2")))
	})

	It("should reject a bad register number", func() {
		r := NewTraceReader(strings.NewReader("0,0,1,R,r3\n"))

		_, err := r.Next()

		Expect(err).To(MatchError(ContainSubstring("reg")))
	})

	It("should read what WriteTrace writes", func() {
		original := []Access{
			{Cycle: 3, Core: 0, Stream: 5, Kind: rfc.AccessRead, Reg: 1},
			{
				Cycle: 4, Core: 2, Stream: 0, Kind: rfc.AccessWrite, Reg: 9,
				InstID: "a",
			},
		}

		buf := new(bytes.Buffer)
		err := WriteTrace(buf, &sliceSource{accesses: original})
		Expect(err).NotTo(HaveOccurred())

		accesses, err := readAll(NewTraceReader(buf))
		Expect(err).NotTo(HaveOccurred())
		Expect(accesses).To(Equal(original))
	})
})

var _ = Describe("SyntheticSource", func() {
	It("should generate the requested number of accesses", func() {
		src := NewSyntheticSource(1, 100)
		src.NumCores = 4

		accesses, err := readAll(src)

		Expect(err).NotTo(HaveOccurred())
		Expect(accesses).To(HaveLen(100))
		for i, a := range accesses {
			Expect(a.Core).To(Equal(i % 4))
			Expect(a.Cycle).To(Equal(uint64(i / 4)))
			Expect(a.Stream).To(BeNumerically("<", 4))
			Expect(a.Reg).To(BeNumerically("<", 16))
		}
	})

	It("should be reproducible", func() {
		a, _ := readAll(NewSyntheticSource(7, 50))
		b, _ := readAll(NewSyntheticSource(7, 50))

		Expect(a).To(Equal(b))
	})
})
