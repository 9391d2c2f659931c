package core

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"gitlab.com/distributed_lab/logan/v3"
	"gitlab.com/distributed_lab/logan/v3/errors"

	"github.com/privmind/therapy-svc/internal/data"
	"github.com/privmind/therapy-svc/internal/fhe"
	"github.com/privmind/therapy-svc/internal/metrics"
)

const (
	createFlightKey  = "create"
	refreshFlightKey = "refresh"
)

// Controller owns the in-memory session collection and the current selection,
// and orchestrates the repository, submitter and verifier. The collection is
// mutated only by wholesale replacement after a refresh.
type Controller struct {
	mu        sync.RWMutex
	sessions  []data.Session
	stats     data.Stats
	selected  string
	// decrypted is the locally resolved value for the selected session only.
	// It is not merged into the collection; the next Refresh supersedes it.
	decrypted *uint64

	repo      *Repository
	submitter *Submitter
	verifier  *Verifier
	status    *Tracker
	flights   *FlightRegistry
	log       *logan.Entry
}

func NewController(reader Reader, writer Writer, fheClient fhe.Client, contract common.Address, submitMirror bool, log *logan.Entry) *Controller {
	status := NewTracker(log)

	c := &Controller{
		repo:      NewRepository(reader, log),
		submitter: NewSubmitter(writer, fheClient, contract, submitMirror, status, log),
		verifier:  NewVerifier(reader, writer, fheClient, contract, status, log),
		status:    status,
		flights:   NewFlightRegistry(),
		log:       log,
	}

	c.verifier.SetRefresher(c)
	return c
}

// Status exposes the shared transaction status tracker.
func (c *Controller) Status() *Tracker {
	return c.status
}

// Refresh re-hydrates the whole collection and recomputes derived stats.
// Individual hydration failures are tolerated by the repository.
func (c *Controller) Refresh(ctx context.Context) error {
	if !c.flights.TryAcquire(refreshFlightKey) {
		return nil
	}
	defer c.flights.Release(refreshFlightKey)

	sessions, err := c.repo.Hydrate(ctx)
	if err != nil {
		c.status.Report(StatusError, "Failed to load sessions")
		return errors.Wrap(err, "failed to refresh sessions")
	}

	stats := data.ComputeStats(sessions)

	c.mu.Lock()
	c.sessions = sessions
	c.stats = stats
	c.mu.Unlock()

	metrics.ObserveStats(stats)
	return nil
}

// Refreshing reports whether a refresh is in flight.
func (c *Controller) Refreshing() bool {
	return c.flights.Active(refreshFlightKey)
}

// Create validates the input, delegates to the submitter and re-hydrates on
// success. The creating flag is cleared on every path.
func (c *Controller) Create(ctx context.Context, in CreateInput) error {
	if in.Title == "" || in.Mood == "" || in.Thought == "" {
		c.status.Report(StatusError, "All fields are required")
		return ErrEmptyFields
	}

	if !c.flights.TryAcquire(createFlightKey) {
		return nil
	}
	defer c.flights.Release(createFlightKey)

	if _, err := c.submitter.Create(ctx, in); err != nil {
		return err
	}

	if err := c.Refresh(ctx); err != nil {
		c.log.WithError(err).Error("[Controller] Failed to refresh after creation")
	}
	return nil
}

// Creating reports whether a creation is in flight.
func (c *Controller) Creating() bool {
	return c.flights.Active(createFlightKey)
}

// Decrypt resolves a session's proven value. At most one decrypt per session
// id runs at a time; concurrent decrypts on distinct sessions are independent.
// The resolved value is cached locally only for the currently selected
// session.
func (c *Controller) Decrypt(ctx context.Context, id string) *uint64 {
	if !c.flights.TryAcquire(id) {
		return nil
	}
	defer c.flights.Release(id)

	value := c.verifier.Resolve(ctx, id)

	if value != nil {
		c.mu.Lock()
		if c.selected == id {
			c.decrypted = value
		}
		c.mu.Unlock()
	}

	return value
}

// Decrypting reports whether a decrypt for the given session is in flight.
func (c *Controller) Decrypting(id string) bool {
	return c.flights.Active(id)
}

// CheckAvailability probes the registry contract. No state implications.
func (c *Controller) CheckAvailability(ctx context.Context) {
	available, err := c.repo.reader.IsAvailable(ctx)
	if err != nil || !available {
		if err != nil {
			c.log.WithError(err).Error("[Controller] Availability check failed")
		}
		c.status.Report(StatusError, "Service availability check failed")
		return
	}

	c.status.Report(StatusSuccess, "FHE service is available")
}

// Sessions returns a copy of the current collection in ledger order.
func (c *Controller) Sessions() []data.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]data.Session, len(c.sessions))
	copy(out, c.sessions)
	return out
}

// Stats returns the derived metrics for the current collection.
func (c *Controller) Stats() data.Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// Filter returns sessions matching a case-insensitive substring search over
// title and creator.
func (c *Controller) Filter(term string) []data.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]data.Session, 0, len(c.sessions))
	for i := range c.sessions {
		if c.sessions[i].Matches(term) {
			out = append(out, c.sessions[i])
		}
	}
	return out
}

// Select marks a session as the open one and drops any locally resolved
// value of the previous selection.
func (c *Controller) Select(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected != id {
		c.decrypted = nil
	}
	c.selected = id
}

// ClearSelection closes the detail view.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = ""
	c.decrypted = nil
}

// Selected returns the selected session's current record, if any.
func (c *Controller) Selected() (data.Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for i := range c.sessions {
		if c.sessions[i].ID == c.selected {
			return c.sessions[i], true
		}
	}
	return data.Session{}, false
}

// SelectedDecrypted returns the locally resolved value for the selected
// session. A non-nil value that is not yet reflected on-chain is locally
// decrypted, not verified.
func (c *Controller) SelectedDecrypted() *uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.decrypted
}
