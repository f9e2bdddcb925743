// Package auth manages the client session: bearer token, signed-in user, and
// the logout cascade that wipes per-user state.
package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/rs/zerolog"

	"github.com/noah-isme/storefront-dietetica/internal/api"
	"github.com/noah-isme/storefront-dietetica/internal/state"
)

type persistedAuth struct {
	Token  string `json:"token"`
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// Session holds authentication state. The token survives restarts through the
// state store; expired tokens are dropped on restore rather than presented to
// the backend.
type Session struct {
	API       *api.Client
	State     state.Store
	Logger    zerolog.Logger
	Now       func() time.Time
	ClockSkew time.Duration

	// OnLogout hooks run after the session is cleared, on every logout path
	// including forced ones. Wired to the cart and profile wipes.
	OnLogout []func(context.Context)

	mu     sync.Mutex
	token  string
	userID int64
	email  string
}

func (s *Session) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Token returns the current bearer token, empty when signed out. Intended as
// the api.Client token source.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// UserID returns the signed-in user id.
func (s *Session) UserID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID, s.userID != 0
}

// Email returns the signed-in user's email address.
func (s *Session) Email() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.email
}

// Authenticated reports whether a user is signed in.
func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

// Login exchanges credentials for a token, then resolves the user id from the
// email address. Both must succeed before the session is established.
func (s *Session) Login(ctx context.Context, email, password string) error {
	token, err := s.API.Authenticate(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	return s.establish(ctx, token.AccessToken, email)
}

// Register creates an account and signs the new user in.
func (s *Session) Register(ctx context.Context, reg api.Registration) error {
	token, err := s.API.Register(ctx, reg)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return s.establish(ctx, token.AccessToken, reg.Email)
}

func (s *Session) establish(ctx context.Context, token, email string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	user, err := s.API.UserByEmail(ctx, email)
	if err != nil {
		s.mu.Lock()
		s.token = ""
		s.mu.Unlock()
		return fmt.Errorf("resolve user: %w", err)
	}

	s.mu.Lock()
	s.userID = user.ID
	s.email = email
	s.mu.Unlock()

	if s.State != nil {
		if err := state.SetJSON(ctx, s.State, state.KeyAuth, persistedAuth{Token: token, UserID: user.ID, Email: email}); err != nil {
			s.Logger.Warn().Err(err).Msg("persist session")
		}
	}
	s.Logger.Info().Int64("user_id", user.ID).Msg("signed in")
	return nil
}

// Logout clears the session and runs the logout cascade.
func (s *Session) Logout(ctx context.Context) {
	s.clear(ctx)
	s.Logger.Info().Msg("signed out")
}

// ForceLogout clears the session in response to an expired or rejected token.
// Safe to call from the API client's unauthorized hook.
func (s *Session) ForceLogout() {
	s.clear(context.Background())
	s.Logger.Warn().Msg("session expired, signed out")
}

func (s *Session) clear(ctx context.Context) {
	s.mu.Lock()
	s.token = ""
	s.userID = 0
	s.email = ""
	s.mu.Unlock()

	if s.State != nil {
		if err := s.State.Delete(ctx, state.KeyAuth); err != nil {
			s.Logger.Warn().Err(err).Msg("clear persisted session")
		}
	}
	for _, hook := range s.OnLogout {
		hook(ctx)
	}
}

// Restore loads a persisted session. Tokens that are already expired are
// discarded instead of being presented to the backend.
func (s *Session) Restore(ctx context.Context) error {
	if s.State == nil {
		return nil
	}
	var stored persistedAuth
	ok, err := state.GetJSON(ctx, s.State, state.KeyAuth, &stored)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok || strings.TrimSpace(stored.Token) == "" {
		return nil
	}
	if s.tokenExpired(stored.Token) {
		s.Logger.Info().Msg("persisted token expired, discarding")
		return s.State.Delete(ctx, state.KeyAuth)
	}
	s.mu.Lock()
	s.token = stored.Token
	s.userID = stored.UserID
	s.email = stored.Email
	s.mu.Unlock()
	return nil
}

// tokenExpired inspects the token's exp claim without verifying the signature;
// the backend is the authority on validity, this only avoids doomed requests.
func (s *Session) tokenExpired(token string) bool {
	tok, err := jwt.ParseInsecure([]byte(token))
	if err != nil {
		// Opaque tokens pass through; the backend decides.
		return false
	}
	exp := tok.Expiration()
	if exp.IsZero() {
		return false
	}
	return exp.Add(s.ClockSkew).Before(s.now())
}
