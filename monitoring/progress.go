package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/rs/xid"
)

// A ProgressBar tracks how many accesses a replay has finished.
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`

	// Total is zero when the number of accesses is not known in advance.
	Total    uint64 `json:"total"`
	Finished uint64 `json:"finished"`
}

// IncrementFinished adds a certain amount to the finished accesses.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

func (b *ProgressBar) copy() progressRsp {
	b.Lock()
	defer b.Unlock()

	return progressRsp{
		ID:        b.ID,
		Name:      b.Name,
		StartTime: b.StartTime,
		Total:     b.Total,
		Finished:  b.Finished,
	}
}

type progressRsp struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
}

// CreateProgressBar creates a progress bar that is served by the monitor.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		ID:        xid.New().String(),
		Name:      name,
		StartTime: time.Now(),
		Total:     total,
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar stops serving the progress bar.
func (m *Monitor) CompleteProgressBar(bar *ProgressBar) {
	m.lock.Lock()
	defer m.lock.Unlock()

	for i, b := range m.progressBars {
		if b == bar {
			m.progressBars = append(m.progressBars[:i], m.progressBars[i+1:]...)
			return
		}
	}
}

func (m *Monitor) listProgress(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()
	bars := make([]progressRsp, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.copy())
	}
	m.lock.RUnlock()

	writeJSON(w, bars)
}
