package query

import (
	"context"
	"sync"
	"time"

	"Streamflix/internal/catalog"
)

// Result is a point-in-time view of a stream.
type Result struct {
	Query     string         `json:"query"`
	Items     []catalog.Item `json:"items"`
	Searching bool           `json:"searching"`
	Scans     int            `json:"scans"`
}

// Stream turns a sequence of query edits into debounced scans.
// Results always belong to the last query observed before the quiet period.
type Stream struct {
	mu     sync.Mutex
	search func(string) []catalog.Item
	rec    Recorder
	deb    *Debouncer

	query     string
	items     []catalog.Item
	searching bool
	scans     int
	settled   chan struct{}
}

func NewStream(search func(string) []catalog.Item, delay time.Duration, clock Clock, rec Recorder) *Stream {
	if rec == nil {
		rec = nopRecorder{}
	}
	s := &Stream{
		search:  search,
		rec:     rec,
		items:   []catalog.Item{},
		settled: closedChan(),
	}
	s.deb = NewDebouncer(delay, clock, &s.mu)
	return s
}

// NewStream binds a stream to the engine's store.
func (e *Engine) NewStream(delay time.Duration, clock Clock) *Stream {
	return NewStream(e.Search, delay, clock, e.rec)
}

// Update records a new query. Blank queries clear the results at once;
// anything else schedules a scan after the quiet period.
func (s *Stream) Update(query string) Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query

	if _, ok := Normalize(query); !ok {
		if s.deb.Cancel() {
			s.rec.ScanCancelled()
		}
		s.items = []catalog.Item{}
		s.settleLocked()
		return s.snapshotLocked()
	}

	if !s.searching {
		s.searching = true
		s.settled = make(chan struct{})
	}
	if s.deb.Schedule(func() { s.runLocked(query) }) {
		s.rec.ScanCancelled()
	}
	return s.snapshotLocked()
}

func (s *Stream) runLocked(query string) {
	s.items = s.search(query)
	s.scans++
	s.settleLocked()
}

func (s *Stream) settleLocked() {
	if !s.searching {
		return
	}
	s.searching = false
	close(s.settled)
}

func (s *Stream) Snapshot() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Stream) snapshotLocked() Result {
	items := make([]catalog.Item, len(s.items))
	copy(items, s.items)
	return Result{Query: s.query, Items: items, Searching: s.searching, Scans: s.scans}
}

// Wait blocks until no scan is pending or ctx is done.
func (s *Stream) Wait(ctx context.Context) (Result, error) {
	s.mu.Lock()
	ch := s.settled
	s.mu.Unlock()

	select {
	case <-ch:
		return s.Snapshot(), nil
	case <-ctx.Done():
		return s.Snapshot(), ctx.Err()
	}
}

// Close cancels any pending scan.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deb.Cancel()
	s.settleLocked()
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}
