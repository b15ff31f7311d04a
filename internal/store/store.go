// Package store keeps a rolling in-memory time series of probe results per
// target, pruned to a retention window. It is written by the probe loop and
// read concurrently by the HTTP report handlers.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/probelab/pingmon/internal/probe"
)

// DefaultRetention matches the original one-week history window.
const DefaultRetention = 7 * 24 * time.Hour

// Sample is one recorded measurement for a target.
type Sample struct {
	At     time.Time    `json:"at"`
	Result probe.Result `json:"result"`
}

// Store holds per-target sample series.
type Store struct {
	mu        sync.RWMutex
	retention time.Duration
	targets   []string
	series    map[string][]Sample
}

// New creates a store for the given targets. Target order is preserved in
// snapshots. A non-positive retention falls back to DefaultRetention.
func New(targets []string, retention time.Duration) *Store {
	if retention <= 0 {
		retention = DefaultRetention
	}
	s := &Store{
		retention: retention,
		targets:   append([]string(nil), targets...),
		series:    make(map[string][]Sample, len(targets)),
	}
	for _, t := range targets {
		s.series[t] = nil
	}
	return s
}

// Targets returns the target names in snapshot order.
func (s *Store) Targets() []string {
	return append([]string(nil), s.targets...)
}

// Record appends a sample for a target. Unknown targets are ignored.
func (s *Store) Record(target string, at time.Time, r probe.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.series[target]; !ok {
		return
	}
	s.series[target] = append(s.series[target], Sample{At: at, Result: r})
}

// Prune drops samples older than the retention window relative to now.
func (s *Store) Prune(now time.Time) {
	cutoff := now.Add(-s.retention)

	s.mu.Lock()
	defer s.mu.Unlock()
	for target, samples := range s.series {
		i := 0
		for i < len(samples) && samples[i].At.Before(cutoff) {
			i++
		}
		if i > 0 {
			s.series[target] = append(samples[:0:0], samples[i:]...)
		}
	}
}

// Len returns the number of retained samples for a target.
func (s *Store) Len(target string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.series[target])
}

// Cell is one target's measurement at one snapshot row. A target with no
// sample at that timestamp reports zeros.
type Cell struct {
	MTU           float64 `json:"mtu"`
	LatencyMicros float64 `json:"latencyMicros"`
}

// Row is the merged measurement across all targets at one timestamp.
type Row struct {
	At    time.Time `json:"at"`
	Cells []Cell    `json:"cells"`
}

// Snapshot is a point-in-time copy of the merged series.
type Snapshot struct {
	Targets []string `json:"targets"`
	Rows    []Row    `json:"rows"`
}

// Snapshot merges all target series over the union of their timestamps,
// sorted ascending. Targets missing a timestamp get zero cells.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stamps := make(map[time.Time]struct{})
	for _, samples := range s.series {
		for _, sample := range samples {
			stamps[sample.At] = struct{}{}
		}
	}

	ordered := make([]time.Time, 0, len(stamps))
	for at := range stamps {
		ordered = append(ordered, at)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Before(ordered[j]) })

	snap := Snapshot{
		Targets: append([]string(nil), s.targets...),
		Rows:    make([]Row, 0, len(ordered)),
	}
	for _, at := range ordered {
		row := Row{At: at, Cells: make([]Cell, len(s.targets))}
		for i, target := range s.targets {
			if sample, ok := sampleAt(s.series[target], at); ok {
				row.Cells[i] = Cell{
					MTU:           float64(sample.Result.MTU),
					LatencyMicros: float64(sample.Result.Latency.Microseconds()),
				}
			}
		}
		snap.Rows = append(snap.Rows, row)
	}
	return snap
}

// sampleAt finds the sample with an exact timestamp match.
// Series are append-only in time order, so binary search applies.
func sampleAt(samples []Sample, at time.Time) (Sample, bool) {
	idx := sort.Search(len(samples), func(i int) bool {
		return !samples[i].At.Before(at)
	})
	if idx < len(samples) && samples[idx].At.Equal(at) {
		return samples[idx], true
	}
	return Sample{}, false
}
