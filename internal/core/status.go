package core

import (
	"sync"
	"time"

	"gitlab.com/distributed_lab/logan/v3"
)

// StatusKind classifies a transient operation status.
type StatusKind int

const (
	StatusPending StatusKind = iota
	StatusSuccess
	StatusError
)

func (k StatusKind) String() string {
	switch k {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

const (
	successDismissDelay = 2 * time.Second
	failureDismissDelay = 3 * time.Second
)

// Status is the currently visible operation status.
type Status struct {
	Kind    StatusKind
	Message string
}

// Tracker is a single-slot, last-writer-wins status mailbox shared by all
// asynchronous operations. Every Report schedules its own dismissal; the
// generation counter guarantees a stale timer never clears a newer status.
type Tracker struct {
	mu         sync.Mutex
	current    Status
	visible    bool
	generation uint64
	timer      *time.Timer

	successDelay time.Duration
	failureDelay time.Duration
	log          *logan.Entry
}

func NewTracker(log *logan.Entry) *Tracker {
	return &Tracker{
		successDelay: successDismissDelay,
		failureDelay: failureDismissDelay,
		log:          log,
	}
}

// Report publishes a status, superseding any earlier one and restarting the
// dismissal timer (2s for success, 3s otherwise).
func (t *Tracker) Report(kind StatusKind, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.generation++
	generation := t.generation
	t.current = Status{Kind: kind, Message: message}
	t.visible = true

	if t.log != nil {
		t.log.Debugf("[Status] %s: %s", kind, message)
	}

	delay := t.failureDelay
	if kind == StatusSuccess {
		delay = t.successDelay
	}

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(delay, func() {
		t.dismiss(generation)
	})
}

// Current returns the visible status, if any.
func (t *Tracker) Current() (Status, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current, t.visible
}

func (t *Tracker) dismiss(generation uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	// A newer Report owns the slot now.
	if generation != t.generation {
		return
	}
	t.visible = false
}
