package cart

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/obs"
	"github.com/noah-isme/storefront-dietetica/internal/state"
)

// StoreConfig configures a cart store.
type StoreConfig struct {
	// Persist holds cart lines across restarts. Nil disables persistence.
	Persist         state.Store
	NotificationTTL time.Duration
	Now             func() time.Time
	Logger          zerolog.Logger
}

// Store holds the cart state and applies actions through the reducer. All
// mutation is serialised; callers dispatch from event handlers one at a time.
type Store struct {
	mu      sync.Mutex
	reducer Reducer
	state   State
	persist state.Store
	logger  zerolog.Logger
}

// NewStore constructs an empty cart store.
func NewStore(cfg StoreConfig) *Store {
	return &Store{
		reducer: Reducer{NotificationTTL: cfg.NotificationTTL, Now: cfg.Now},
		persist: cfg.Persist,
		logger:  cfg.Logger,
	}
}

// Load restores persisted cart lines, if any.
func (s *Store) Load(ctx context.Context) error {
	if s.persist == nil {
		return nil
	}
	var stored State
	ok, err := state.GetJSON(ctx, s.persist, state.KeyCart, &stored)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	s.mu.Lock()
	s.state.Lines = stored.Lines
	s.mu.Unlock()
	return nil
}

// Dispatch applies an action and returns the resulting state snapshot.
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	s.mu.Lock()
	s.state = s.reducer.Reduce(s.state, action)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	obs.ObserveCartMutation(action.name())
	if s.persist != nil {
		if err := state.SetJSON(ctx, s.persist, state.KeyCart, snapshot); err != nil {
			s.logger.Warn().Err(err).Msg("persist cart state")
		}
	}
	return snapshot
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	snapshot := s.state
	snapshot.Lines = cloneLines(s.state.Lines)
	snapshot.RemovedProducts = append([]int64(nil), s.state.RemovedProducts...)
	return snapshot
}

// Lines returns the current cart lines.
func (s *Store) Lines() []Line {
	return s.Snapshot().Lines
}

// ItemCount returns the total quantity across all lines.
func (s *Store) ItemCount() int {
	return s.Snapshot().ItemCount()
}

// Total returns the cart total at effective prices.
func (s *Store) Total() float64 {
	return s.Snapshot().Total()
}

// Notification returns the pending add notification if it is still within its
// display window.
func (s *Store) Notification() (Notification, bool) {
	s.mu.Lock()
	n := s.state.Notification
	now := s.reducer.now()
	s.mu.Unlock()
	if !n.Visible || now.After(n.ExpiresAt) {
		return Notification{}, false
	}
	return n, true
}
