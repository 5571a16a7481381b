package listing

import (
	"sync"
)

// ViewKey addresses one partition of one view for one session, for example
// the "received" tab of the "requests" view.
type ViewKey struct {
	Session   string
	View      string
	Partition string
}

// Store holds transient view state in memory. Nothing survives a restart.
type Store struct {
	mu     sync.RWMutex
	states map[ViewKey]State
}

func NewStore() *Store {
	return &Store{states: make(map[ViewKey]State)}
}

// Get returns the state for key, or DefaultState if the view was never touched.
func (s *Store) Get(key ViewKey) State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.states[key]
	if !ok {
		return DefaultState()
	}
	return snapshot(st)
}

// Put replaces the state for key. Criteria are normalized before storing.
func (s *Store) Put(key ViewKey, st State) State {
	if !st.Sort.Valid() {
		st.Sort = DefaultSort
	}
	st.Criteria = st.Criteria.Normalize()

	s.mu.Lock()
	s.states[key] = st
	s.mu.Unlock()

	return snapshot(st)
}

// Update applies fn to the current state under the write lock.
func (s *Store) Update(key ViewKey, fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.states[key]
	if !ok {
		cur = DefaultState()
	}
	next := fn(snapshot(cur))
	if !next.Sort.Valid() {
		next.Sort = DefaultSort
	}
	next.Criteria = next.Criteria.Normalize()
	s.states[key] = next
	return snapshot(next)
}

func (s *Store) Reset(key ViewKey) State {
	s.mu.Lock()
	delete(s.states, key)
	s.mu.Unlock()
	return DefaultState()
}

// Drop forgets every view of a session.
func (s *Store) Drop(session string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for k := range s.states {
		if k.Session == session {
			delete(s.states, k)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

func snapshot(st State) State {
	return State{Criteria: st.Criteria.Clone(), Sort: st.Sort}
}
