package user

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

// ProfileAPI is the slice of the backend client the profile store needs.
type ProfileAPI interface {
	User(ctx context.Context, id int64) (api.User, error)
	UpdateUser(ctx context.Context, id int64, user api.User) (api.User, error)
}

// Store caches the signed-in user's profile for the session. Cleared on logout.
type Store struct {
	API    ProfileAPI
	Logger zerolog.Logger

	mu      sync.Mutex
	profile *api.User
}

// Current returns the cached profile.
func (s *Store) Current() (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return api.User{}, false
	}
	return *s.profile, true
}

// Fetch loads the profile from the backend and caches it.
func (s *Store) Fetch(ctx context.Context, userID int64) (api.User, error) {
	profile, err := s.API.User(ctx, userID)
	if err != nil {
		return api.User{}, fmt.Errorf("fetch profile: %w", err)
	}
	s.mu.Lock()
	s.profile = &profile
	s.mu.Unlock()
	return profile, nil
}

// Update writes profile changes and refetches the authoritative record.
func (s *Store) Update(ctx context.Context, userID int64, user api.User) (api.User, error) {
	if _, err := s.API.UpdateUser(ctx, userID, user); err != nil {
		return api.User{}, fmt.Errorf("update profile: %w", err)
	}
	return s.Fetch(ctx, userID)
}

// Clear drops the cached profile.
func (s *Store) Clear() {
	s.mu.Lock()
	s.profile = nil
	s.mu.Unlock()
}
