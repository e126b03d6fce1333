// Package store defines the persistence interfaces and their domain errors.
// Implementations live in subpackages (mongo for production, memory for
// tests and local development).
package store

import (
	"context"
	"errors"

	"github.com/inkpress/inkpress/internal/model"
)

// Common errors returned by store implementations.
var (
	// ErrNotFound indicates no document matched the lookup.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate indicates a unique-index violation (email or slug).
	ErrDuplicate = errors.New("duplicate document")
)

// UserStore persists user records. Email lookups expect the address to be
// normalized (trimmed, lowercased) by the caller; uniqueness is enforced by
// the store.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionStore persists server-side sessions keyed by token.
// DeleteSession is idempotent: deleting an absent session is not an error.
type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// PostStore persists blog posts. Listing is ordered by the store according
// to the sort key: date is newest-first; author and topic are lexicographic
// ascending with newest-first tiebreak.
type PostStore interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPostByRef(ctx context.Context, ref model.PostRef) (*model.Post, error)
	ListPosts(ctx context.Context, sort model.SortKey) ([]*model.Post, error)
	ListPostsByAuthor(ctx context.Context, authorID string, sort model.SortKey) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id string) error
	// SlugExists reports whether a slug is taken, optionally excluding one
	// post (the row being updated) from the check.
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	CountPosts(ctx context.Context) (int64, error)
}

// Store is the full persistence surface used by the application.
type Store interface {
	UserStore
	SessionStore
	PostStore

	Ping(ctx context.Context) error
}
