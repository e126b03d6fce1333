// Package memory implements store.Store with in-process maps. It backs
// service and handler tests and lets the server run without MongoDB in
// local development.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/store"
)

// Store is a mutex-guarded, map-backed store.Store implementation.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*model.User    // by ID
	sessions map[string]*model.Session // by token
	posts    map[string]*model.Post    // by ID
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		users:    make(map[string]*model.User),
		sessions: make(map[string]*model.Session),
		posts:    make(map[string]*model.Post),
	}
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// CreateUser inserts a user, enforcing email uniqueness like the Mongo
// unique index does.
func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	if _, ok := s.users[user.ID]; ok {
		return store.ErrDuplicate
	}

	c := *user
	s.users[user.ID] = &c
	return nil
}

// GetUserByEmail looks up a user by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// GetUserByID looks up a user by ID.
func (s *Store) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *u
	return &c, nil
}

// CreateSession inserts a session record.
func (s *Store) CreateSession(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; ok {
		return store.ErrDuplicate
	}
	c := *session
	s.sessions[session.ID] = &c
	return nil
}

// GetSession looks up a session by token.
func (s *Store) GetSession(ctx context.Context, id string) (*model.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *sess
	return &c, nil
}

// DeleteSession removes a session; absent sessions are not an error.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// CreatePost inserts a post, enforcing slug uniqueness.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.Slug == post.Slug {
			return store.ErrDuplicate
		}
	}
	if _, ok := s.posts[post.ID]; ok {
		return store.ErrDuplicate
	}

	c := *post
	s.posts[post.ID] = &c
	return nil
}

// GetPostByRef looks up a post by ID or slug.
func (s *Store) GetPostByRef(ctx context.Context, ref model.PostRef) (*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ref.Kind == model.RefIDOrSlug {
		if p, ok := s.posts[ref.Value]; ok {
			c := *p
			return &c, nil
		}
	}
	for _, p := range s.posts {
		if p.Slug == ref.Value {
			c := *p
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

// ListPosts returns all posts in the requested order.
func (s *Store) ListPosts(ctx context.Context, sortKey model.SortKey) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(*model.Post) bool { return true }, sortKey), nil
}

// ListPostsByAuthor returns the author's posts in the requested order.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID string, sortKey model.SortKey) ([]*model.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(func(p *model.Post) bool { return p.AuthorID == authorID }, sortKey), nil
}

// UpdatePost replaces a post by ID.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[post.ID]; !ok {
		return store.ErrNotFound
	}
	for _, p := range s.posts {
		if p.ID != post.ID && p.Slug == post.Slug {
			return store.ErrDuplicate
		}
	}

	c := *post
	s.posts[post.ID] = &c
	return nil
}

// DeletePost removes a post.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

// SlugExists reports whether a slug is taken, excluding excludeID when set.
func (s *Store) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.Slug == slug && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// CountPosts returns the total number of posts.
func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.posts)), nil
}

// collect snapshots matching posts and sorts them. Callers hold the lock.
func (s *Store) collect(match func(*model.Post) bool, sortKey model.SortKey) []*model.Post {
	posts := make([]*model.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if match(p) {
			c := *p
			posts = append(posts, &c)
		}
	}

	newestFirst := func(a, b *model.Post) bool { return a.CreatedAt.After(b.CreatedAt) }

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch sortKey {
		case model.SortByAuthor:
			if a.AuthorName != b.AuthorName {
				return a.AuthorName < b.AuthorName
			}
			return newestFirst(a, b)
		case model.SortByTopic:
			if a.Topic != b.Topic {
				return a.Topic < b.Topic
			}
			return newestFirst(a, b)
		default:
			return newestFirst(a, b)
		}
	})

	return posts
}
