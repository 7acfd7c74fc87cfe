// Package service implements the LedgerService Connect handlers on top of a
// storage backend.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mmynk/splitpool/internal/events"
	"github.com/mmynk/splitpool/internal/ledger"
	"github.com/mmynk/splitpool/internal/metrics"
	"github.com/mmynk/splitpool/internal/storage"
	"github.com/mmynk/splitpool/pkg/api"
)

// LedgerService implements the Connect LedgerService.
//
// Every call loads the group document, replays it into a ledger.Group and,
// for mutations, saves the exported document back. Calls on the same group
// are serialized by a per-group lock; different groups proceed in parallel.
type LedgerService struct {
	api.UnimplementedLedgerServiceHandler
	store     storage.Store
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	locks     groupLocks
}

// Option configures a LedgerService.
type Option func(*LedgerService)

// WithPublisher sends ledger events to p. Defaults to events.Nop.
func WithPublisher(p events.Publisher) Option {
	return func(s *LedgerService) { s.publisher = p }
}

// WithMetrics records entry and settlement counts on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *LedgerService) { s.metrics = m }
}

// WithClock replaces time.Now for every stamp the service takes.
func WithClock(now func() time.Time) Option {
	return func(s *LedgerService) { s.now = now }
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, opts ...Option) *LedgerService {
	s := &LedgerService{
		store:     store,
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var errCorruptGroup = errors.New("stored group is inconsistent")

// load replays the stored document. Replay failures mean the stored data is
// broken, not that the caller asked for something invalid.
func (s *LedgerService) load(ctx context.Context, groupID string) (*ledger.Group, error) {
	doc, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	g, err := ledger.FromDocument(doc, ledger.WithClock(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: group %s: %v", errCorruptGroup, groupID, err)
	}
	return g, nil
}

// view runs fn on the group under its read lock.
func (s *LedgerService) view(ctx context.Context, groupID string, fn func(*ledger.Group) error) error {
	if groupID == "" {
		return errMissingGroupID
	}
	unlock := s.locks.rlock(groupID)
	defer unlock()

	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	return fn(g)
}

// mutate runs fn on the group under its write lock and saves the result.
// Nothing is saved when fn fails.
func (s *LedgerService) mutate(ctx context.Context, groupID string, fn func(*ledger.Group) error) error {
	if groupID == "" {
		return errMissingGroupID
	}
	unlock := s.locks.lock(groupID)
	defer unlock()

	g, err := s.load(ctx, groupID)
	if err != nil {
		return err
	}
	if err := fn(g); err != nil {
		return err
	}
	if err := s.store.SaveGroup(ctx, g.Document()); err != nil {
		return fmt.Errorf("save group: %w", err)
	}
	return nil
}

// publish sends ev and only logs failures; the change is already saved.
func (s *LedgerService) publish(ctx context.Context, ev events.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = s.now()
	}
	if err := s.publisher.Publish(ctx, ev); err != nil {
		slog.Warn("Failed to publish ledger event",
			"type", ev.Type,
			"group_id", ev.GroupID,
			"error", err,
		)
	}
}

// groupLocks hands out one RWMutex per group ID.
type groupLocks struct {
	m sync.Map // group ID -> *sync.RWMutex
}

func (l *groupLocks) get(groupID string) *sync.RWMutex {
	mu, _ := l.m.LoadOrStore(groupID, &sync.RWMutex{})
	return mu.(*sync.RWMutex)
}

func (l *groupLocks) lock(groupID string) func() {
	mu := l.get(groupID)
	mu.Lock()
	return mu.Unlock
}

func (l *groupLocks) rlock(groupID string) func() {
	mu := l.get(groupID)
	mu.RLock()
	return mu.RUnlock
}

func (l *groupLocks) forget(groupID string) {
	l.m.Delete(groupID)
}
