// Package metrics measures how long each phase of the report generation takes.
package metrics

import (
	"sort"
	"time"
)

type Timers struct {
	Timers map[string]*Timer `json:"timers,omitempty" yaml:"timers,omitempty"`
	last   string
	now    func() time.Time
}

func NewTimers() *Timers {
	return &Timers{Timers: make(map[string]*Timer), now: time.Now}
}

// set a timer, stopping it if existing.
func (ts *Timers) set(k string) {
	if _, ok := ts.Timers[k]; !ok {
		ts.Timers[k] = &Timer{start: ts.now()}
	} else {
		ts.Timers[k].Total = ts.now().Sub(ts.Timers[k].start).Seconds()
	}
}

// Lap stops the last timer started with Lap and starts k.
func (ts *Timers) Lap(k string) {
	if ts.last != "" {
		ts.set(ts.last)
	}
	ts.set(k)
	ts.last = k
}

// Add starts k, or stops it when already started.
func (ts *Timers) Add(k string) {
	ts.set(k)
}

// Stop closes the running lap.
func (ts *Timers) Stop() {
	if ts.last != "" {
		ts.set(ts.last)
		ts.last = ""
	}
}

// Names returns the timer names sorted alphabetically.
func (ts *Timers) Names() []string {
	names := make([]string, 0, len(ts.Timers))
	for k := range ts.Timers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Timer struct {
	start time.Time

	// Total time in seconds
	Total float64 `json:"seconds" yaml:"seconds"`
}
