package comment

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps comments in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	comments []Comment
	now      Clock
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{comments: []Comment{}, now: time.Now}
}

// WithClock overrides the clock used to stamp new comments.
func (s *MemoryStore) WithClock(now Clock) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Init(_ context.Context) error {
	return nil
}

func (s *MemoryStore) Load(_ context.Context) ([]Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Comment, len(s.comments))
	copy(out, s.comments)
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, comments []Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments = make([]Comment, len(comments))
	copy(s.comments, comments)
	return nil
}

func (s *MemoryStore) Append(_ context.Context, name, text string) (Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := newComment(len(s.comments), name, text, s.now)
	s.comments = append(s.comments, c)
	return c, nil
}
