// Package monitor keeps run statistics for long-running commands such as
// watch: how many analyses ran, how they ended and how long they took.
package monitor

import (
	"sort"
	"sync"
	"time"
)

// Outcome is how one tracked attempt ended
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeFailure   Outcome = "failure"
	OutcomeCoalesced Outcome = "coalesced"
)

// Classifier names the failure kind of err for the breakdown
type Classifier func(err error) string

// Attempt is one finished analysis
type Attempt struct {
	Started  time.Time     `json:"started"`
	Duration time.Duration `json:"duration"`
	Outcome  Outcome       `json:"outcome"`
	Kind     string        `json:"kind,omitempty"`
}

// Collector records analysis attempts. It is safe for concurrent use.
type Collector struct {
	classify Classifier
	now      func() time.Time
	started  time.Time

	successes *Counter
	failures  *Counter
	coalesced *Counter
	timer     *Timer

	mu     sync.Mutex
	kinds  map[string]int
	last   *Attempt
	recent []Attempt
	keep   int
}

// DefaultRecent is how many attempts a collector remembers
const DefaultRecent = 20

// New creates a collector. A nil classifier files every failure under
// "error".
func New(classify Classifier) *Collector {
	if classify == nil {
		classify = func(error) string { return "error" }
	}
	c := &Collector{
		classify:  classify,
		now:       time.Now,
		successes: NewCounter("analyses_succeeded"),
		failures:  NewCounter("analyses_failed"),
		coalesced: NewCounter("writes_coalesced"),
		timer:     NewTimer("analysis_duration"),
		kinds:     make(map[string]int),
		keep:      DefaultRecent,
	}
	c.started = c.now()
	return c
}

// Track runs fn, timing it and recording its outcome. fn's error is
// returned unchanged.
func (c *Collector) Track(fn func() error) error {
	start := c.now()
	err := fn()
	elapsed := c.now().Sub(start)

	attempt := Attempt{Started: start, Duration: elapsed, Outcome: OutcomeSuccess}
	c.timer.Record(elapsed)
	if err != nil {
		attempt.Outcome = OutcomeFailure
		attempt.Kind = c.classify(err)
		c.failures.Inc()
	} else {
		c.successes.Inc()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.kinds[attempt.Kind]++
	}
	c.last = &attempt
	c.recent = append(c.recent, attempt)
	if len(c.recent) > c.keep {
		c.recent = c.recent[len(c.recent)-c.keep:]
	}
	return err
}

// RecordCoalesced counts a change folded into an already pending run
func (c *Collector) RecordCoalesced() {
	c.coalesced.Inc()
}

// KindCount is one row of the failure breakdown
type KindCount struct {
	Kind  string `json:"kind"`
	Count int    `json:"count"`
}

// Snapshot is a point-in-time copy of the statistics
type Snapshot struct {
	Uptime    time.Duration `json:"uptime"`
	Attempts  int64         `json:"attempts"`
	Successes int64         `json:"successes"`
	Failures  int64         `json:"failures"`
	Coalesced int64         `json:"coalesced"`
	MinTime   time.Duration `json:"min_time"`
	MaxTime   time.Duration `json:"max_time"`
	AvgTime   time.Duration `json:"avg_time"`
	BusyTime  time.Duration `json:"busy_time"` // sum of all attempt durations
	Kinds     []KindCount   `json:"failure_kinds,omitempty"`
	Last      *Attempt      `json:"last,omitempty"`
	Recent    []Attempt     `json:"recent,omitempty"`
}

// Snapshot returns the current statistics. Failure kinds are sorted by
// descending count, then name.
func (c *Collector) Snapshot() Snapshot {
	s := Snapshot{
		Uptime:    c.now().Sub(c.started),
		Attempts:  c.timer.Count(),
		Successes: c.successes.Get(),
		Failures:  c.failures.Get(),
		Coalesced: c.coalesced.Get(),
		MinTime:   c.timer.MinTime(),
		MaxTime:   c.timer.MaxTime(),
		AvgTime:   c.timer.AvgTime(),
		BusyTime:  c.timer.TotalTime(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for kind, n := range c.kinds {
		s.Kinds = append(s.Kinds, KindCount{Kind: kind, Count: n})
	}
	sort.Slice(s.Kinds, func(i, j int) bool {
		if s.Kinds[i].Count != s.Kinds[j].Count {
			return s.Kinds[i].Count > s.Kinds[j].Count
		}
		return s.Kinds[i].Kind < s.Kinds[j].Kind
	})
	if c.last != nil {
		last := *c.last
		s.Last = &last
	}
	s.Recent = append([]Attempt(nil), c.recent...)
	return s
}
