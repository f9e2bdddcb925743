// Package ui holds presentation-free interface state: modal toggles, sidebar,
// theme, and the queued transient notices shown in the page chrome. This is
// distinct from the cart's single-slot add notification.
package ui

import (
	"sync"
	"time"
)

// Modal names known to the shell.
const (
	ModalLogin    = "login"
	ModalRegister = "register"
	ModalCart     = "cart"
)

// Theme modes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Notice is a queued transient message with its own display duration.
type Notice struct {
	ID       string
	Kind     string
	Message  string
	Duration time.Duration
	AddedAt  time.Time
}

// State is the interface state store. All mutation is serialised.
type State struct {
	mu      sync.Mutex
	modals  map[string]bool
	sidebar bool
	theme   string
	notices []Notice
	now     func() time.Time
}

// NewState constructs interface state with everything closed and light theme.
func NewState(now func() time.Time) *State {
	if now == nil {
		now = time.Now
	}
	return &State{
		modals: map[string]bool{
			ModalLogin:    false,
			ModalRegister: false,
			ModalCart:     false,
		},
		theme: ThemeLight,
		now:   now,
	}
}

// SetModal opens or closes a known modal; unknown names are ignored.
func (s *State) SetModal(name string, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, known := s.modals[name]; known {
		s.modals[name] = open
	}
}

// Modal reports whether a modal is open.
func (s *State) Modal(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modals[name]
}

// CloseAllModals closes every modal.
func (s *State) CloseAllModals() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name := range s.modals {
		s.modals[name] = false
	}
}

// ToggleSidebar flips the sidebar and reports the new state.
func (s *State) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebar = !s.sidebar
	return s.sidebar
}

// SetSidebar sets the sidebar state directly.
func (s *State) SetSidebar(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebar = open
}

// Sidebar reports whether the sidebar is open.
func (s *State) Sidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebar
}

// ToggleTheme flips between light and dark and returns the new mode.
func (s *State) ToggleTheme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.theme == ThemeLight {
		s.theme = ThemeDark
	} else {
		s.theme = ThemeLight
	}
	return s.theme
}

// Theme returns the current mode.
func (s *State) Theme() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// PushNotice queues a transient message.
func (s *State) PushNotice(id, kind, message string, duration time.Duration) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = append(s.notices, Notice{
		ID:       id,
		Kind:     kind,
		Message:  message,
		Duration: duration,
		AddedAt:  s.now(),
	})
}

// DismissNotice removes one notice by id.
func (s *State) DismissNotice(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.notices[:0]
	for _, n := range s.notices {
		if n.ID != id {
			kept = append(kept, n)
		}
	}
	s.notices = kept
}

// Notices returns messages still within their display window, pruning the rest.
func (s *State) Notices() []Notice {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	kept := s.notices[:0]
	for _, n := range s.notices {
		if now.Before(n.AddedAt.Add(n.Duration)) {
			kept = append(kept, n)
		}
	}
	s.notices = kept
	return append([]Notice(nil), s.notices...)
}

// ClearNotices drops every queued message.
func (s *State) ClearNotices() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notices = nil
}
