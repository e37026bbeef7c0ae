package conversation

import (
	"context"
	"sync"
	"time"
)

// SessionStore persists sessions between turns.
type SessionStore interface {
	// Update loads the session for key (a fresh idle session when absent),
	// passes it to fn and saves the result. Calls for the same key are
	// serialized. When fn returns an error nothing is written. An Empty
	// session is deleted instead of saved.
	Update(ctx context.Context, key string, fn func(*Session) error) error
	Get(ctx context.Context, key string) (*Session, error)
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	locks    *keyedMutex
	now      func() time.Time
}

// NewMemorySessionStore creates an empty in-process store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]*Session),
		locks:    newKeyedMutex(),
		now:      time.Now,
	}
}

func (s *MemorySessionStore) Update(ctx context.Context, key string, fn func(*Session) error) error {
	unlock, err := s.locks.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()

	s.mu.Lock()
	current, ok := s.sessions[key]
	s.mu.Unlock()

	var working *Session
	if ok {
		working = current.clone()
	} else {
		working = newSession(key)
	}
	if err := fn(working); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if working.Empty() {
		delete(s.sessions, key)
		return nil
	}
	working.Key = key
	working.UpdatedAt = s.now().UTC()
	s.sessions[key] = working
	return nil
}

// Get returns a copy of the stored session, or nil when none exists.
func (s *MemorySessionStore) Get(ctx context.Context, key string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[key]; ok {
		return sess.clone(), nil
	}
	return nil, nil
}

// Len returns the number of live sessions.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// keyedMutex hands out one lock per key and forgets keys nobody holds.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

// Lock blocks until key is free or ctx is done.
func (k *keyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{ch: make(chan struct{}, 1)}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
		return func() {
			<-l.ch
			k.release(key, l)
		}, nil
	case <-ctx.Done():
		k.release(key, l)
		return nil, ctx.Err()
	}
}

func (k *keyedMutex) release(key string, l *keyLock) {
	k.mu.Lock()
	defer k.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
}
