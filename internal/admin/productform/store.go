package productform

import (
	"sync"
)

// DispatchFunc sends an action to the store.
type DispatchFunc func(Action)

// Middleware wraps dispatch, e.g. to count or log actions.
type Middleware func(next DispatchFunc) DispatchFunc

// Option customises a Store.
type Option func(*Store)

// WithSequence shares an id sequence between stores.
func WithSequence(seq *Sequence) Option {
	return func(s *Store) {
		if seq != nil {
			s.ids = seq
		}
	}
}

// WithMiddleware installs dispatch middleware. The first one is outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(s *Store) {
		s.middleware = append(s.middleware, mw...)
	}
}

type subscriber struct {
	id int
	fn func()
}

// Store owns the form state. Dispatch is serialised; subscribers run after the
// state is replaced, outside the lock, and read the state through GetState.
type Store struct {
	mu      sync.RWMutex
	state   State
	version uint64

	reducer    Reducer
	ids        *Sequence
	middleware []Middleware
	dispatch   DispatchFunc

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int
}

// NewStore creates a store holding initial.
func NewStore(initial State, opts ...Option) *Store {
	s := &Store{
		state:   initial,
		reducer: Reduce,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.ids == nil {
		s.ids = NewSequence(nil)
	}

	dispatch := DispatchFunc(s.apply)
	for i := len(s.middleware) - 1; i >= 0; i-- {
		if s.middleware[i] != nil {
			dispatch = s.middleware[i](dispatch)
		}
	}
	s.dispatch = dispatch
	return s
}

// Dispatch applies the action and notifies subscribers.
func (s *Store) Dispatch(action Action) {
	s.dispatch(action)
}

// GetState returns the current state. Callers must not modify it.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the current state with its version. The version grows by
// one per dispatch.
func (s *Store) Snapshot() (State, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.version
}

// Version returns the number of dispatches applied so far.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers fn to run after every dispatch and returns a function
// that removes it.
func (s *Store) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			for i, sub := range s.subscribers {
				if sub.id == id {
					s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) apply(action Action) {
	if _, ok := addTarget(action.Type); ok && action.Payload.ID == 0 {
		action.Payload.ID = s.ids.Next()
	}

	s.mu.Lock()
	s.state = s.reducer(s.state, action)
	s.version++
	s.mu.Unlock()

	s.notify()
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, sub := range subs {
		sub.fn()
	}
}
