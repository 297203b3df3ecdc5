package wizard

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/hyperengineering/fastplan/internal/genai"
	"github.com/hyperengineering/fastplan/internal/standards"
	"github.com/hyperengineering/fastplan/internal/types"
)

// ErrSessionNotFound indicates an unknown wizard session id.
var ErrSessionNotFound = errors.New("wizard session not found")

// Manager owns wizard sessions and orchestrates the generation and
// standards calls they need. Standards lookups are debounced per
// session so keystroke-level grade/subject edits collapse into one
// resolution.
type Manager struct {
	gen      genai.Generator
	resolver *standards.Resolver
	debounce time.Duration

	mu         sync.Mutex
	sessions   map[string]*Session
	debouncers map[string]*Debouncer
}

// NewManager creates a session manager. debounce is the quiet period
// before a standards lookup fires; zero runs lookups synchronously.
func NewManager(gen genai.Generator, resolver *standards.Resolver, debounce time.Duration) *Manager {
	return &Manager{
		gen:        gen,
		resolver:   resolver,
		debounce:   debounce,
		sessions:   make(map[string]*Session),
		debouncers: make(map[string]*Debouncer),
	}
}

// Create starts a new wizard session.
func (m *Manager) Create() *Session {
	s := NewSession()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	m.debouncers[s.ID()] = NewDebouncer(m.debounce)
	return s
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Delete discards a session and cancels any pending lookup.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.debouncers[id]; ok {
		d.Stop()
	}
	delete(m.sessions, id)
	delete(m.debouncers, id)
}

// ScheduleStandardsLookup queues a debounced standards resolution for
// the session's current grade and subject. Results arriving after the
// inputs changed again are dropped by the session's sequence guard.
func (m *Manager) ScheduleStandardsLookup(s *Session) {
	if !s.StandardsNeeded() {
		return
	}

	m.mu.Lock()
	d, ok := m.debouncers[s.ID()]
	m.mu.Unlock()
	if !ok {
		return
	}

	d.Trigger(func() {
		if !s.StandardsNeeded() {
			return
		}
		seq, grade, subject := s.BeginStandardsLookup()
		categories := m.resolver.Resolve(context.Background(), grade, subject)
		if !s.ApplyStandards(seq, categories) {
			slog.Debug("dropped stale standards lookup", "session", s.ID(), "grade", grade, "subject", subject)
		}
	})
}

// FindHook fetches a single hook and applies it directly as the
// session's preview idea. Returns the applied hook, or empty when the
// provider had nothing.
func (m *Manager) FindHook(ctx context.Context, s *Session) string {
	hooks := m.gen.GeneratePreviewHooks(ctx, s.Context(), 1)
	if len(hooks) == 0 {
		return ""
	}
	s.SetPreviewIdea(hooks[0])
	return hooks[0]
}

// Brainstorm fetches several hook candidates for the user to pick
// from. Candidates are stored on the session; the preview idea is not
// touched until one is chosen.
func (m *Manager) Brainstorm(ctx context.Context, s *Session) []string {
	hooks := m.gen.GeneratePreviewHooks(ctx, s.Context(), 4)
	s.SetHookIdeas(hooks)
	return hooks
}

// WildCard replaces the session's context with a randomly generated
// one, honoring an already-entered grade as a hint. The session jumps
// to the final step, ready to generate.
func (m *Manager) WildCard(ctx context.Context, s *Session) (types.LessonContext, error) {
	random, err := m.gen.GenerateRandomContext(ctx, s.Context().Grade)
	if err != nil {
		return types.LessonContext{}, err
	}
	s.ReplaceContext(random)
	return random, nil
}
