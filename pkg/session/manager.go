package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/twoway/internal/logging"
	"github.com/aretw0/twoway/pkg/domain"
)

const (
	DefaultTTL      = 10 * time.Minute
	DefaultCapacity = 1000
)

var (
	// ErrTraceNotFound is returned for unknown or expired trace IDs.
	ErrTraceNotFound = errors.New("trace not found")
	// ErrCapacity is returned when the manager already holds the maximum number of traces.
	ErrCapacity = errors.New("too many live traces")
)

// Trace is the stepping surface the manager needs.
type Trace interface {
	ID() string
	Step(ctx context.Context) (domain.StepObservation, error)
	Snapshot() domain.TraceSnapshot
}

// entry holds a trace, its lock and the reference count of pending callers.
type entry struct {
	mu      sync.Mutex
	refs    int
	trace   Trace
	touched time.Time
}

// Manager orchestrates access to live traces.
// It uses Reference Counting so an entry being stepped is never evicted.
type Manager struct {
	mu      sync.Mutex // Global lock for the map
	entries map[string]*entry

	ttl      time.Duration
	capacity int
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithTTL sets how long an idle trace is kept.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithCapacity caps the number of live traces.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.capacity = n
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		entries:  make(map[string]*entry),
		ttl:      DefaultTTL,
		capacity: DefaultCapacity,
		now:      time.Now,
		logger:   logging.NewNop(), // Default to no-op
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start registers t and returns its initial snapshot.
// Expired traces are swept first; ErrCapacity is returned if none could be freed.
func (m *Manager) Start(t Trace) (domain.TraceSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()
	if len(m.entries) >= m.capacity {
		return domain.TraceSnapshot{}, ErrCapacity
	}

	m.entries[t.ID()] = &entry{trace: t, touched: m.now()}
	m.logger.Debug("Trace registered", "trace", t.ID(), "live", len(m.entries))
	return t.Snapshot(), nil
}

// Step applies one transition to the trace with the given ID.
// Execution errors are returned along with the snapshot that records them.
func (m *Manager) Step(ctx context.Context, id string) (domain.StepObservation, domain.TraceSnapshot, error) {
	var (
		obs  domain.StepObservation
		snap domain.TraceSnapshot
	)
	err := m.WithLock(id, func(t Trace) error {
		var err error
		obs, err = t.Step(ctx)
		snap = t.Snapshot()
		return err
	})
	return obs, snap, err
}

// Get returns the current snapshot of a trace.
func (m *Manager) Get(id string) (domain.TraceSnapshot, error) {
	var snap domain.TraceSnapshot
	err := m.WithLock(id, func(t Trace) error {
		snap = t.Snapshot()
		return nil
	})
	return snap, err
}

// Delete forgets a trace. Deleting an unknown ID returns ErrTraceNotFound.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return ErrTraceNotFound
	}
	delete(m.entries, id)
	return nil
}

// Len returns the number of live traces, expired ones included until the next sweep.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// WithLock executes fn while holding the lock for the trace.
func (m *Manager) WithLock(id string, fn func(Trace) error) error {
	e, err := m.acquire(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer func() {
		e.mu.Unlock()
		m.release(e)
	}()

	return fn(e.trace)
}

// acquire finds a live entry and increments its reference count.
func (m *Manager) acquire(id string) (*entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[id]
	if !ok || m.expiredLocked(e) {
		return nil, ErrTraceNotFound
	}
	e.refs++
	e.touched = m.now()
	return e, nil
}

func (m *Manager) release(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.refs--
}

func (m *Manager) expiredLocked(e *entry) bool {
	return e.refs == 0 && m.now().Sub(e.touched) > m.ttl
}

func (m *Manager) sweepLocked() {
	for id, e := range m.entries {
		if m.expiredLocked(e) {
			delete(m.entries, id)
			m.logger.Debug("Trace expired", "trace", id)
		}
	}
}
