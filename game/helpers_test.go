package game

import (
	"sync"

	"github.com/lguibr/retrotennis/utils"
)

// fixedRandom always returns the same value.
type fixedRandom float64

func (f fixedRandom) Float64() float64 { return float64(f) }

// sequenceRandom replays values and then repeats the last one.
type sequenceRandom struct {
	values []float64
	i      int
}

func (s *sequenceRandom) Float64() float64 {
	if len(s.values) == 0 {
		return 0.5
	}
	v := s.values[s.i]
	if s.i < len(s.values)-1 {
		s.i++
	}
	return v
}

func testConfig() utils.Config {
	cfg := utils.DefaultConfig()
	cfg.Seed = 1
	return cfg
}

// recordingNotifier collects every event and mute toggle it receives.
type recordingNotifier struct {
	mu      sync.Mutex
	events  []Event
	toggles int
}

func (r *recordingNotifier) OnEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recordingNotifier) ToggleMute() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles++
	return r.toggles%2 == 1
}

func (r *recordingNotifier) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func (r *recordingNotifier) count(kind EventKind) int {
	n := 0
	for _, ev := range r.Events() {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

// recordingRenderer keeps every snapshot it is handed.
type recordingRenderer struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (r *recordingRenderer) Render(s Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recordingRenderer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recordingRenderer) Last() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snaps) == 0 {
		return Snapshot{}
	}
	return r.snaps[len(r.snaps)-1]
}

func eventKinds(events []Event) []EventKind {
	kinds := make([]EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}
