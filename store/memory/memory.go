// Package memory is a thread-safe in-memory post store.
package memory

import (
	"context"
	"sync"
	"time"

	"blog/post"

	"github.com/google/uuid"
)

type Store struct {
	mu    sync.RWMutex
	posts map[string]*post.Post
	order []string
	now   func() time.Time
}

func New() *Store {
	return &Store{
		posts: make(map[string]*post.Post),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to date new posts.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) CreatePost(ctx context.Context, payload post.Payload) (*post.Post, error) {
	p := payload.NewPost(uuid.NewString(), s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[p.ID] = &p
	s.order = append(s.order, p.ID)

	out := p
	return &out, nil
}

func (s *Store) UpdatePost(ctx context.Context, id string, payload post.Payload) (*post.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, nil
	}
	payload.ApplyTo(p)

	out := *p
	return &out, nil
}

func (s *Store) FindPost(ctx context.Context, id string, filter post.Payload) (*post.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id != "" {
		p, ok := s.posts[id]
		if !ok || !filter.Matches(*p) {
			return nil, nil
		}
		out := *p
		return &out, nil
	}

	for _, pid := range s.order {
		if p := s.posts[pid]; filter.Matches(*p) {
			out := *p
			return &out, nil
		}
	}
	return nil, nil
}

// Len returns the number of stored posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
