package monitoring

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rfcache/rfc"
)

type stubInst struct {
	stream rfc.StreamID
}

func (i stubInst) StreamID() rfc.StreamID {
	return i.stream
}

var _ = Describe("Monitor", func() {
	var (
		m     *Monitor
		cache *rfc.Cache
	)

	get := func(path string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		m.Handler().ServeHTTP(rec, req)

		return rec
	}

	BeforeEach(func() {
		m = NewMonitor()
		cache = rfc.MakeBuilder().WithNumSlotsPerStream(2).Build("RFC[0]")
	})

	It("should take snapshots of a cache", func() {
		cache.LookupRead(1, 3)
		cache.Insert(3, stubInst{stream: 1})
		cache.Insert(4, stubInst{stream: 0})

		s := TakeSnapshot(cache, 42)

		Expect(s.Name).To(Equal("RFC[0]"))
		Expect(s.SlotsPerStream).To(Equal(2))
		Expect(s.Cycle).To(Equal(uint64(42)))
		Expect(s.Stats.ReadMisses).To(Equal(uint64(1)))
		Expect(s.Occupancy).To(Equal([]StreamOccupancy{
			{Stream: 0, Entries: 1},
			{Stream: 1, Entries: 1},
		}))
	})

	It("should keep the latest snapshot of each cache", func() {
		m.Publish(CacheSnapshot{Name: "a", Stats: rfc.Stats{Misses: 1, ReadMisses: 1}})
		m.Publish(CacheSnapshot{Name: "a", Stats: rfc.Stats{Misses: 2, ReadMisses: 2}})
		m.Publish(CacheSnapshot{Name: "b", Stats: rfc.Stats{Evictions: 3}})

		s, ok := m.Snapshot("a")
		Expect(ok).To(BeTrue())
		Expect(s.Stats.Misses).To(Equal(uint64(2)))

		Expect(m.TotalStats()).To(Equal(rfc.Stats{
			Misses:     2,
			ReadMisses: 2,
			Evictions:  3,
		}))
	})

	It("should list caches", func() {
		m.Publish(CacheSnapshot{Name: "RFC[1]"})
		m.Publish(CacheSnapshot{Name: "RFC[0]"})

		rec := get("/api/caches")

		Expect(rec.Code).To(Equal(http.StatusOK))
		var names []string
		Expect(json.Unmarshal(rec.Body.Bytes(), &names)).To(Succeed())
		Expect(names).To(Equal([]string{"RFC[0]", "RFC[1]"}))
	})

	It("should serve the merged statistics", func() {
		m.Publish(CacheSnapshot{Name: "a", Stats: rfc.Stats{Hits: 1, WriteHits: 1}})
		m.Publish(CacheSnapshot{Name: "b", Stats: rfc.Stats{Hits: 2, ReadHits: 2}})

		rec := get("/api/stats")

		Expect(rec.Code).To(Equal(http.StatusOK))
		var stats rfc.Stats
		Expect(json.Unmarshal(rec.Body.Bytes(), &stats)).To(Succeed())
		Expect(stats.Hits).To(Equal(uint64(3)))
		Expect(stats.ReadHits).To(Equal(uint64(2)))
		Expect(stats.WriteHits).To(Equal(uint64(1)))
	})

	It("should serve the details of a cache", func() {
		m.Publish(TakeSnapshot(cache, 7))

		rec := get("/api/cache/RFC[0]")

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.Len()).To(BeNumerically(">", 0))
	})

	It("should return 404 for unknown caches", func() {
		rec := get("/api/cache/nothing")

		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("should serve over a real listener", func() {
		m.Publish(CacheSnapshot{Name: "RFC[0]"})
		url := m.StartServer()
		defer m.StopServer()

		client := &http.Client{Timeout: 5 * time.Second}
		rsp, err := client.Get(url + "/api/caches")
		Expect(err).NotTo(HaveOccurred())
		defer rsp.Body.Close()

		body, err := io.ReadAll(rsp.Body)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(body)).To(ContainSubstring("RFC[0]"))
	})

	It("should fall back to a random port for reserved ports", func() {
		m.WithPortNumber(80)

		Expect(m.portNumber).To(Equal(0))
	})

	It("should serve progress bars until they complete", func() {
		bar := m.CreateProgressBar("replay", 100)
		bar.IncrementFinished(30)

		rec := get("/api/progress")

		var bars []map[string]any
		Expect(json.Unmarshal(rec.Body.Bytes(), &bars)).To(Succeed())
		Expect(bars).To(HaveLen(1))
		Expect(bars[0]["name"]).To(Equal("replay"))
		Expect(bars[0]["total"]).To(BeNumerically("==", 100))
		Expect(bars[0]["finished"]).To(BeNumerically("==", 30))

		m.CompleteProgressBar(bar)

		rec = get("/api/progress")
		Expect(rec.Body.String()).To(Equal("[]"))
	})
})
