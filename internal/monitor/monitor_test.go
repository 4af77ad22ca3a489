package monitor

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCounter(t *testing.T) {
	counter := NewCounter("test_counter")

	if counter.Get() != 0 {
		t.Errorf("Expected initial value 0, got %d", counter.Get())
	}

	counter.Inc()
	counter.Add(5)
	if counter.Get() != 6 {
		t.Errorf("Expected value 6, got %d", counter.Get())
	}

	if counter.Name() != "test_counter" {
		t.Errorf("Expected name 'test_counter', got %s", counter.Name())
	}
}

func TestTimer(t *testing.T) {
	timer := NewTimer("test_timer")

	if timer.MinTime() != 0 || timer.AvgTime() != 0 {
		t.Errorf("Expected zero min and avg before any record, got %v and %v", timer.MinTime(), timer.AvgTime())
	}

	timer.Record(100 * time.Millisecond)
	timer.Record(300 * time.Millisecond)
	timer.Record(200 * time.Millisecond)

	if timer.Count() != 3 {
		t.Errorf("Expected count 3, got %d", timer.Count())
	}
	if timer.TotalTime() != 600*time.Millisecond {
		t.Errorf("Expected total 600ms, got %v", timer.TotalTime())
	}
	if timer.MinTime() != 100*time.Millisecond {
		t.Errorf("Expected min 100ms, got %v", timer.MinTime())
	}
	if timer.MaxTime() != 300*time.Millisecond {
		t.Errorf("Expected max 300ms, got %v", timer.MaxTime())
	}
	if timer.AvgTime() != 200*time.Millisecond {
		t.Errorf("Expected avg 200ms, got %v", timer.AvgTime())
	}
}

// stepClock advances by step on every call
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestCollector(classify Classifier) *Collector {
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), step: 50 * time.Millisecond}
	c := New(classify)
	c.now = clock.now
	c.started = clock.t
	return c
}

func TestCollectorTrack(t *testing.T) {
	boom := errors.New("boom")
	c := newTestCollector(func(err error) string {
		if errors.Is(err, boom) {
			return "transport"
		}
		return "other"
	})

	if err := c.Track(func() error { return nil }); err != nil {
		t.Fatalf("Expected nil error, got %v", err)
	}
	if err := c.Track(func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("Expected the tracked error back, got %v", err)
	}
	c.Track(func() error { return boom })
	c.Track(func() error { return errors.New("x") })
	c.RecordCoalesced()

	s := c.Snapshot()
	if s.Attempts != 4 || s.Successes != 1 || s.Failures != 3 {
		t.Errorf("Unexpected counts: %+v", s)
	}
	if s.Coalesced != 1 {
		t.Errorf("Expected 1 coalesced write, got %d", s.Coalesced)
	}
	if s.AvgTime != 50*time.Millisecond {
		t.Errorf("Expected avg 50ms, got %v", s.AvgTime)
	}
	if s.BusyTime != 200*time.Millisecond {
		t.Errorf("Expected 200ms busy across four attempts, got %v", s.BusyTime)
	}

	if len(s.Kinds) != 2 || s.Kinds[0].Kind != "transport" || s.Kinds[0].Count != 2 {
		t.Errorf("Unexpected failure breakdown: %+v", s.Kinds)
	}
	if s.Last == nil || s.Last.Outcome != OutcomeFailure || s.Last.Kind != "other" {
		t.Errorf("Unexpected last attempt: %+v", s.Last)
	}
	if len(s.Recent) != 4 {
		t.Errorf("Expected 4 recent attempts, got %d", len(s.Recent))
	}
}

func TestCollectorKeepsRecentWindow(t *testing.T) {
	c := newTestCollector(nil)
	for i := 0; i < DefaultRecent+5; i++ {
		c.Track(func() error { return errors.New("fail") })
	}

	s := c.Snapshot()
	if len(s.Recent) != DefaultRecent {
		t.Errorf("Expected %d recent attempts, got %d", DefaultRecent, len(s.Recent))
	}
	if s.Kinds[0].Kind != "error" {
		t.Errorf("Expected default classification 'error', got %q", s.Kinds[0].Kind)
	}
}

func TestCollectorConcurrentTrack(t *testing.T) {
	c := New(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Track(func() error { return nil })
		}()
	}
	wg.Wait()

	if got := c.Snapshot().Successes; got != 50 {
		t.Errorf("Expected 50 successes, got %d", got)
	}
}

func TestFormatSnapshot(t *testing.T) {
	c := newTestCollector(nil)
	c.Track(func() error { return nil })
	c.Track(func() error { return errors.New("fail") })

	text, err := FormatSnapshot(c.Snapshot(), ReportFormatText)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, want := range []string{"Watch Summary", "Analyses:   2 (1 succeeded, 1 failed)", "error", "avg 50ms", "Busy:       100ms"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected text summary to contain %q, got:\n%s", want, text)
		}
	}

	js, err := FormatSnapshot(c.Snapshot(), ReportFormatJSON)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !strings.Contains(js, `"failures": 1`) {
		t.Errorf("Expected JSON summary to contain failures, got:\n%s", js)
	}

	if _, err := FormatSnapshot(Snapshot{}, "xml"); err == nil {
		t.Error("Expected an error for an unknown format")
	}
}
