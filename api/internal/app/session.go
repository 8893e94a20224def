package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/history"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/i18n"
	"github.com/sshabir1980-dev/Diagnosmart-Ai/api/internal/metrics"
)

// Session is one client: its screen state and its history. State changes only under mu;
// network calls happen outside it.
type Session struct {
	Key string

	mu      sync.Mutex
	state   State
	history *history.History

	seen time.Time // guarded by the registry lock
}

func (s *Session) busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Screen == ScreenAnalyzing
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

func (s *Session) History() *history.History { return s.history }

// Apply runs a pure transition under the session lock.
func (s *Session) Apply(fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = fn(s.state)
	return s.state.clone()
}

// try runs a transition that may refuse; on error the state is left as is.
func (s *Session) try(fn func(State) (State, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.state)
	if err != nil {
		return s.state.clone(), err
	}
	s.state = next
	return s.state.clone(), nil
}

// Sessions is the in-memory registry of client sessions. Idle sessions are dropped on the next
// insert; their history stays in the store and is reloaded on return.
type Sessions struct {
	mu    sync.Mutex
	m     map[string]*Session
	store history.Store
	lang  i18n.Lang
	log   *zap.Logger

	idle time.Duration
	max  int
	now  func() time.Time
}

const (
	DefaultSessionIdle = 2 * time.Hour
	DefaultMaxSessions = 10000
)

func NewSessions(store history.Store, defaultLang i18n.Lang, log *zap.Logger) *Sessions {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sessions{
		m:     map[string]*Session{},
		store: store,
		lang:  defaultLang,
		log:   log,
		idle:  DefaultSessionIdle,
		max:   DefaultMaxSessions,
		now:   time.Now,
	}
}

// WithLimits sets the idle timeout and the registry cap. Zero keeps the default.
func (r *Sessions) WithLimits(idle time.Duration, max int) *Sessions {
	r.mu.Lock()
	defer r.mu.Unlock()
	if idle > 0 {
		r.idle = idle
	}
	if max > 0 {
		r.max = max
	}
	return r
}

// Get returns the session for key, loading its history once on first use.
func (r *Sessions) Get(ctx context.Context, key string) *Session {
	r.mu.Lock()
	if s, ok := r.m[key]; ok {
		s.seen = r.now()
		r.mu.Unlock()
		return s
	}
	r.mu.Unlock()

	// load outside the registry lock; a concurrent first request may load twice, first one wins
	h := history.Load(ctx, r.store, key, r.log)
	s := &Session{Key: key, state: Initial(r.lang), history: h}

	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	if existing, ok := r.m[key]; ok {
		existing.seen = now
		return existing
	}
	r.evict(now)
	s.seen = now
	r.m[key] = s
	metrics.SessionsActive.Set(float64(len(r.m)))
	return s
}

// evict drops idle sessions, then the least recently seen ones until there is room for one
// more. Sessions with an analysis in flight are kept. Called with mu held.
func (r *Sessions) evict(now time.Time) {
	for k, s := range r.m {
		if now.Sub(s.seen) > r.idle && !s.busy() {
			delete(r.m, k)
		}
	}
	for len(r.m) >= r.max {
		var oldest *Session
		for _, s := range r.m {
			if s.busy() {
				continue
			}
			if oldest == nil || s.seen.Before(oldest.seen) {
				oldest = s
			}
		}
		if oldest == nil {
			return
		}
		delete(r.m, oldest.Key)
	}
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.m)
}
