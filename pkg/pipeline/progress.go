package pipeline

import (
	"sync"
	"time"
)

type State string

const (
	StatePending    State = "pending"
	StateResolving  State = "resolving"
	StateExtracting State = "extracting"
	StateFlushing   State = "flushing"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// Progress is a point-in-time view of a run, served by the status endpoint.
type Progress struct {
	RunID      string         `json:"runId"`
	State      State          `json:"state"`
	Variant    string         `json:"variant,omitempty"`
	Families   int            `json:"families"`
	Homologues int            `json:"homologues"`
	LastFamily string         `json:"lastFamily,omitempty"`
	Flushed    map[string]int `json:"flushed,omitempty"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt *time.Time     `json:"finishedAt,omitempty"`
	Error      string         `json:"error,omitempty"`
}

// Tracker is written by the run and read concurrently by HTTP handlers.
type Tracker struct {
	mu sync.RWMutex
	p  Progress
}

func NewTracker(runID string) *Tracker {
	return &Tracker{p: Progress{RunID: runID, State: StatePending}}
}

func (t *Tracker) Snapshot() Progress {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p := t.p
	if t.p.Flushed != nil {
		p.Flushed = make(map[string]int, len(t.p.Flushed))
		for k, v := range t.p.Flushed {
			p.Flushed[k] = v
		}
	}
	return p
}

func (t *Tracker) update(fn func(p *Progress)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.p)
}

func (t *Tracker) start() {
	t.update(func(p *Progress) {
		p.State = StateResolving
		p.StartedAt = time.Now()
	})
}

func (t *Tracker) state(s State, variant string) {
	t.update(func(p *Progress) {
		p.State = s
		p.Variant = variant
	})
}

func (t *Tracker) family(name string, homologues int) {
	t.update(func(p *Progress) {
		p.Families++
		p.Homologues += homologues
		p.LastFamily = name
	})
}

func (t *Tracker) flushed(kind string, n int) {
	t.update(func(p *Progress) {
		if p.Flushed == nil {
			p.Flushed = make(map[string]int)
		}
		p.Flushed[kind] += n
	})
}

func (t *Tracker) finish(err error) {
	t.update(func(p *Progress) {
		now := time.Now()
		p.FinishedAt = &now
		p.Variant = ""
		if err != nil {
			p.State = StateFailed
			p.Error = err.Error()
			return
		}
		p.State = StateDone
	})
}
