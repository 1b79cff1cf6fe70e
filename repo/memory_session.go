package repo

import (
	"context"
	"sync"
	"time"

	"HelpBot/model"
)

// MemorySessionStore keeps sessions in process memory. A restart loses every
// in-flight conversation.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[int64]model.Session
	locks    map[int64]*userLock
	ttl      time.Duration
	now      func() time.Time
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

type MemoryOption func(*MemorySessionStore)

// WithSessionTTL expires sessions untouched for longer than ttl. Zero keeps
// them forever.
func WithSessionTTL(ttl time.Duration) MemoryOption {
	return func(s *MemorySessionStore) { s.ttl = ttl }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemorySessionStore) { s.now = now }
}

func NewMemorySessionStore(opts ...MemoryOption) *MemorySessionStore {
	s := &MemorySessionStore{
		sessions: make(map[int64]model.Session),
		locks:    make(map[int64]*userLock),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemorySessionStore) Begin(_ context.Context, userID int64, displayName, username string) (*model.Session, error) {
	now := s.now()
	session := model.Session{
		State: model.StateHelpNeeded,
		Record: model.IntakeRecord{
			UserID:      userID,
			DisplayName: displayName,
			Username:    username,
			StartedAt:   now,
		},
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.sessions[userID] = session
	s.mu.Unlock()

	return &session, nil
}

func (s *MemorySessionStore) Get(_ context.Context, userID int64) (*model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[userID]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	if session.Expired(s.ttl, s.now()) {
		delete(s.sessions, userID)
		return nil, model.ErrSessionNotFound
	}
	return &session, nil
}

func (s *MemorySessionStore) Save(_ context.Context, session *model.Session) error {
	saved := *session
	saved.UpdatedAt = s.now()

	s.mu.Lock()
	s.sessions[saved.Record.UserID] = saved
	s.mu.Unlock()

	session.UpdatedAt = saved.UpdatedAt
	return nil
}

func (s *MemorySessionStore) Remove(_ context.Context, userID int64) error {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
	return nil
}

// Lock blocks until no other caller holds userID's lock.
func (s *MemorySessionStore) Lock(ctx context.Context, userID int64) (func(), error) {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &userLock{}
		s.locks[userID] = l
	}
	l.refs++
	s.mu.Unlock()

	acquired := make(chan struct{})
	go func() {
		l.mu.Lock()
		close(acquired)
	}()

	select {
	case <-acquired:
	case <-ctx.Done():
		// the goroutine still takes the lock; hand it straight back
		go func() {
			<-acquired
			s.unlock(userID, l)
		}()
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { s.unlock(userID, l) })
	}, nil
}

func (s *MemorySessionStore) unlock(userID int64, l *userLock) {
	l.mu.Unlock()

	s.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(s.locks, userID)
	}
	s.mu.Unlock()
}

// Sweep drops every expired session and returns how many it dropped.
// Sessions whose lock is held or awaited are left for the next sweep.
func (s *MemorySessionStore) Sweep(_ context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var n int
	for userID, session := range s.sessions {
		if _, busy := s.locks[userID]; busy {
			continue
		}
		if session.Expired(s.ttl, now) {
			delete(s.sessions, userID)
			n++
		}
	}
	return n, nil
}

// Len reports the number of stored sessions, expired ones included.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
