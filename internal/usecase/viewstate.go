package usecase

import (
	"sync"
	"time"

	"github.com/goonline/platform/internal/adapter/metrics"
)

// Status is the lifecycle state of a view's data.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ViewState is the uniform {status, data, error} wrapper every controller
// exposes to the rendering layer.
type ViewState[T any] struct {
	Status Status `json:"status"`
	Data   T      `json:"data,omitempty"`
	Error  string `json:"error,omitempty"`
}

// loader owns one controller's fetch lifecycle. Every trigger is issued a
// monotonically increasing sequence number; a result is applied only while
// its sequence is still the latest issued. Last-triggered wins, not
// last-resolved: a stale response is discarded, never merged.
type loader[T any] struct {
	mu    sync.Mutex
	seq   uint64
	state ViewState[T]
}

func newLoader[T any]() *loader[T] {
	return &loader[T]{state: ViewState[T]{Status: StatusIdle}}
}

// begin registers a new trigger and moves the view to loading. The
// returned sequence must be handed back to complete.
func (l *loader[T]) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.state = ViewState[T]{Status: StatusLoading}
	return l.seq
}

// complete applies a result if its trigger is still the latest. Reports
// whether the result was applied.
func (l *loader[T]) complete(seq uint64, data T, err error) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if seq != l.seq {
		return false
	}
	if err != nil {
		l.state = ViewState[T]{Status: StatusError, Error: err.Error()}
	} else {
		l.state = ViewState[T]{Status: StatusSuccess, Data: data}
	}
	return true
}

// get returns the current view state.
func (l *loader[T]) get() ViewState[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// observeLoad records the outcome of one load trigger. Discarded stale
// results are counted separately from applied outcomes.
func observeLoad(m *metrics.ViewMetrics, view string, start time.Time, err error, applied bool) {
	if m == nil {
		return
	}
	m.LoadDuration.WithLabelValues(view).Observe(time.Since(start).Seconds())
	if !applied {
		m.StaleDiscarded.WithLabelValues(view).Inc()
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.LoadsTotal.WithLabelValues(view, outcome).Inc()
}

// mutate edits the loaded data in place, only when the view is in the
// success state. Used for local removal-by-id after a confirmed delete;
// everything else replaces the whole snapshot through complete.
func (l *loader[T]) mutate(fn func(T) T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state.Status != StatusSuccess {
		return
	}
	l.state.Data = fn(l.state.Data)
}
