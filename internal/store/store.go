// Package store holds the application state and notifies subscribers when a
// dispatched action changes it.
package store

import (
	"sync"

	"blog-client/internal/action"
	"blog-client/internal/state"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reducer computes the next state. It must not mutate its input.
type Reducer func(s *state.State, a action.Action) *state.State

// Listener is called with the new state after every changing dispatch.
type Listener func(s *state.State)

type subscription struct {
	id uuid.UUID
	fn Listener
}

// Store serializes reductions in delivery order. It is safe for concurrent use.
//
// At most one goroutine notifies listeners at a time. A dispatch that lands
// while another is notifying leaves the newer state for that goroutine to
// announce, so listeners never see an older state after a newer one.
type Store struct {
	mu        sync.Mutex
	state     *state.State
	reduce    Reducer
	listeners []subscription
	logger    *zap.Logger

	// announced is the last state handed to listeners; guarded by mu.
	announced *state.State
	notifying bool
}

var _ action.Dispatcher = (*Store)(nil)

type Option func(*Store)

// WithInitialState seeds the store instead of state.Initial().
func WithInitialState(s *state.State) Option {
	return func(st *Store) { st.state = s }
}

// WithReducer replaces state.Reduce.
func WithReducer(r Reducer) Option {
	return func(st *Store) { st.reduce = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(st *Store) { st.logger = logger }
}

// New creates a store.
func New(opts ...Option) *Store {
	s := &Store{
		state:  state.Initial(),
		reduce: state.Reduce,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.announced = s.state
	return s
}

// GetState returns the current snapshot.
func (s *Store) GetState() *state.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch feeds a through the reducer. Listeners run only if the state
// changed by identity, and always with the newest state. When another
// goroutine is already notifying, Dispatch returns as soon as the state is in
// place and that goroutine announces it. A listener that dispatches therefore
// sees its own change in a later call, after the current round finishes.
func (s *Store) Dispatch(a action.Action) {
	s.mu.Lock()
	prev := s.state
	next := s.reduce(prev, a)
	s.state = next
	if next == prev {
		s.mu.Unlock()
		s.logger.Debug("Dispatch left state unchanged", zap.String("kind", string(a.Kind())))
		return
	}
	if s.notifying {
		s.mu.Unlock()
		s.logger.Debug("State changed while notifying",
			zap.String("kind", string(a.Kind())),
			zap.Int("posts", next.Posts.Len()))
		return
	}
	s.notifying = true
	s.mu.Unlock()

	s.logger.Debug("State changed",
		zap.String("kind", string(a.Kind())),
		zap.Int("posts", next.Posts.Len()))
	s.notify()
}

// notify announces the current state until no newer one is pending. The
// caller must have set s.notifying.
func (s *Store) notify() {
	for {
		s.mu.Lock()
		current := s.state
		if current == s.announced {
			s.notifying = false
			s.mu.Unlock()
			return
		}
		s.announced = current
		listeners := make([]Listener, len(s.listeners))
		for i, sub := range s.listeners {
			listeners[i] = sub.fn
		}
		s.mu.Unlock()

		for _, fn := range listeners {
			fn(current)
		}
	}
}

// Subscribe registers fn. The returned function removes it; calling that
// more than once is harmless.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	id := uuid.New()

	s.mu.Lock()
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
