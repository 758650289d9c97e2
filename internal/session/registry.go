// Package session keeps the server-side conversation context of every
// logged-in user, keyed by session token.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Drmohdfaizan/Medical-Ai-App/internal/domain"
)

// Context owns one Session. All reads and writes go through its lock.
type Context struct {
	mu      sync.Mutex
	session domain.Session
}

// Do runs fn with the session locked and returns a snapshot taken after fn,
// whether or not fn failed.
func (c *Context) Do(fn func(*domain.Session) error) (domain.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := fn(&c.session)
	return c.session.Snapshot(), err
}

// Snapshot returns a copy of the current session.
func (c *Context) Snapshot() domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Snapshot()
}

// Registry maps session tokens to contexts.
type Registry struct {
	mu       sync.RWMutex
	contexts map[string]*Context
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		contexts: make(map[string]*Context),
		now:      time.Now,
	}
}

// Create starts a fresh session for account in the initial state.
func (r *Registry) Create(account *domain.Account) (string, *Context) {
	token := uuid.New().String()
	now := r.now()
	ctx := &Context{session: domain.Session{
		SessionID: token,
		AccountID: account.ID,
		Username:  account.Username,
		Language:  domain.LanguageEnglish,
		Mode:      domain.ModePatient,
		State:     domain.StateInitial,
		Analysis:  domain.AnalysisData{FollowUpAnswers: []domain.FollowUpAnswer{}},
		CreatedAt: now,
		UpdatedAt: now,
	}}

	r.mu.Lock()
	r.contexts[token] = ctx
	r.mu.Unlock()
	return token, ctx
}

// Get returns the context for token or domain.ErrSessionNotFound.
func (r *Registry) Get(token string) (*Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx, ok := r.contexts[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return ctx, nil
}

// Delete drops the session. It reports whether the token existed.
func (r *Registry) Delete(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contexts[token]; !ok {
		return false
	}
	delete(r.contexts, token)
	return true
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.contexts)
}
