// Package monitoring serves the state of register file caches over HTTP while
// a simulation runs.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/rfcache/rfc"
)

// A CacheSnapshot is a copy of the observable state of one cache.
type CacheSnapshot struct {
	Name           string            `json:"name"`
	SlotsPerStream int               `json:"slots_per_stream"`
	Stats          rfc.Stats         `json:"stats"`
	Occupancy      []StreamOccupancy `json:"occupancy"`
	Cycle          uint64            `json:"cycle"`
}

// StreamOccupancy is the number of entries a stream holds.
type StreamOccupancy struct {
	Stream  rfc.StreamID `json:"stream"`
	Entries int          `json:"entries"`
}

// TakeSnapshot copies the state of a cache at the given cycle.
func TakeSnapshot(c *rfc.Cache, cycle uint64) CacheSnapshot {
	s := CacheSnapshot{
		Name:           c.Name(),
		SlotsPerStream: c.NumSlotsPerStream(),
		Stats:          c.Stats(),
		Cycle:          cycle,
	}

	for _, stream := range c.Streams() {
		s.Occupancy = append(s.Occupancy, StreamOccupancy{
			Stream:  stream,
			Entries: c.Occupancy(stream),
		})
	}

	return s
}

// Monitor keeps the latest snapshot of each cache and serves them. The
// simulation publishes snapshots; the server never touches the caches.
type Monitor struct {
	portNumber int

	lock         sync.RWMutex
	snapshots    map[string]CacheSnapshot
	progressBars []*ProgressBar

	listener net.Listener
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		snapshots: make(map[string]CacheSnapshot),
	}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// Publish replaces the snapshot of the cache with the same name.
func (m *Monitor) Publish(s CacheSnapshot) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.snapshots[s.Name] = s
}

// Snapshot returns the latest snapshot of the named cache.
func (m *Monitor) Snapshot(name string) (CacheSnapshot, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	s, ok := m.snapshots[name]

	return s, ok
}

// TotalStats merges the statistics of all published snapshots.
func (m *Monitor) TotalStats() rfc.Stats {
	m.lock.RLock()
	defer m.lock.RUnlock()

	total := rfc.Stats{}
	for _, s := range m.snapshots {
		s.Stats.MergeInto(&total)
	}

	return total
}

func (m *Monitor) cacheNames() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	names := make([]string, 0, len(m.snapshots))
	for name := range m.snapshots {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Handler returns the HTTP handler of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/caches", m.listCaches)
	r.HandleFunc("/api/cache/{name}", m.cacheDetails)
	r.HandleFunc("/api/stats", m.totalStats)
	r.HandleFunc("/api/progress", m.listProgress)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	return r
}

// StartServer starts serving in the background and returns the URL of the
// server.
func (m *Monitor) StartServer() string {
	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.listener = listener

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring simulation with %s\n", url)

	handler := m.Handler()

	go func() {
		err := http.Serve(listener, handler)
		if err != nil && !isClosedConnErr(err) {
			log.Panic(err)
		}
	}()

	return url
}

// StopServer stops the server started by StartServer.
func (m *Monitor) StopServer() {
	if m.listener == nil {
		return
	}

	_ = m.listener.Close()
	m.listener = nil
}

func isClosedConnErr(err error) bool {
	opErr, ok := err.(*net.OpError)
	return ok && opErr.Op == "accept"
}

func (m *Monitor) listCaches(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.cacheNames())
}

func (m *Monitor) cacheDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	snapshot, ok := m.Snapshot(name)
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, "cache %s not found", name)

		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(&snapshot)
	serializer.SetMaxDepth(2)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

func (m *Monitor) totalStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, m.TotalStats())
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	process, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := process.CPUPercent()
	dieOnErr(err)

	memorySize, err := process.MemoryInfo()
	dieOnErr(err)

	writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memorySize.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, prof)
}

func writeJSON(w http.ResponseWriter, v any) {
	bytes, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
