// Package session implements the evaluation session engine: the in-memory
// graph of students, tasks, modules, sub-skills and scores for one class, and
// every action a teacher performs on it.
//
// All mutations run one at a time behind a single lock. Each action works on a
// deep copy of the committed state and the copy replaces it only when the
// action reports a change, so readers never observe a half-applied action.
package session

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// ErrMissingArgument is returned when a caller omits an argument the action
// cannot run without.
var ErrMissingArgument = errors.New("missing required argument")

// Engine owns one evaluation session.
type Engine struct {
	mu    sync.RWMutex
	id    string
	state *State
	log   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithID overrides the generated session id.
func WithID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.id = id
		}
	}
}

// New creates an engine holding an empty session.
func New(opts ...Option) *Engine {
	e := &Engine{
		id:    uuid.NewString(),
		state: NewState(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.With("session_id", e.id)
	return e
}

// ID returns the session id.
func (e *Engine) ID() string {
	return e.id
}

// Snapshot returns a deep copy of the committed state.
func (e *Engine) Snapshot() *State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.Clone()
}

// update applies fn to a draft of the committed state. The draft is committed
// only when fn reports a change.
func (e *Engine) update(action string, fn func(draft *State) bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	draft := e.state.Clone()
	if !fn(draft) {
		return false
	}
	e.state = draft
	e.log.Debug("session action applied", "action", action, "class_id", draft.Session.ClassID)
	return true
}

// view runs fn against the committed state under a read lock. fn must not
// retain or modify anything it reads.
func (e *Engine) view(fn func(s *State)) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	fn(e.state)
}
