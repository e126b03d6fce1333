// Package seed bootstraps initial content so a fresh deployment doesn't
// serve an empty blog. Runs once at startup and is a no-op whenever any
// posts already exist.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/store"
)

// seedAuthorEmail identifies the editorial account that owns seed posts.
const seedAuthorEmail = "editorial@inkpress.local"

const seedAuthorName = "Inkpress Editorial"

type seedPost struct {
	title    string
	slug     string
	topic    string
	excerpt  string
	readTime string
	content  string
}

var seedPosts = []seedPost{
	{
		title:    "Welcome to Inkpress",
		slug:     "welcome-to-inkpress",
		topic:    "Announcements",
		excerpt:  "A quick tour of writing, publishing, and managing your posts.",
		readTime: "3 min read",
		content: "Inkpress is a small, session-authenticated blogging platform.\n\n" +
			"Sign up, log in, and start writing. Every post gets a unique, " +
			"human-readable URL derived from its title, and only you can edit " +
			"or delete what you publish.",
	},
	{
		title:    "Writing Posts in Markdown",
		slug:     "writing-posts-in-markdown",
		topic:    "Guides",
		excerpt:  "Post bodies are plain markdown. Here's what that means for you.",
		readTime: "5 min read",
		content: "Post content is stored as markdown and rendered by the " +
			"front end. Headings, lists, links, and code blocks all work the " +
			"way you'd expect.",
	},
	{
		title:    "How Slugs Are Generated",
		slug:     "how-slugs-are-generated",
		topic:    "Guides",
		excerpt:  "Titles become URLs: lowercase, hyphenated, and always unique.",
		readTime: "4 min read",
		content: "When you publish a post, its title is lowercased, stripped " +
			"of punctuation, and hyphenated into a slug. If another post " +
			"already claimed that slug, a numeric suffix keeps yours unique.",
	},
}

// Seeder inserts initial content into an empty store.
type Seeder struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a Seeder.
func New(st store.Store, logger *slog.Logger) *Seeder {
	return &Seeder{store: st, logger: logger}
}

// Run seeds the editorial author and starter posts when the posts
// collection is empty. Idempotent across restarts.
func (s *Seeder) Run(ctx context.Context) error {
	n, err := s.store.CountPosts(ctx)
	if err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if n > 0 {
		return nil
	}

	author, err := s.ensureAuthor(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	created := 0
	for i, sp := range seedPosts {
		// Stagger timestamps so date ordering is stable.
		ts := now.Add(time.Duration(i-len(seedPosts)) * time.Minute)
		post := &model.Post{
			ID:         ulid.Make().String(),
			Slug:       sp.slug,
			Title:      sp.title,
			Topic:      sp.topic,
			Excerpt:    sp.excerpt,
			ReadTime:   sp.readTime,
			Content:    sp.content,
			AuthorID:   author.ID,
			AuthorName: author.Name,
			CreatedAt:  ts,
			UpdatedAt:  ts,
		}

		if err := s.store.CreatePost(ctx, post); err != nil {
			// Another instance may have seeded concurrently.
			if errors.Is(err, store.ErrDuplicate) {
				continue
			}
			return fmt.Errorf("seed post %q: %w", sp.slug, err)
		}
		created++
	}

	s.logger.Info("seeded initial posts", "count", created)
	return nil
}

// ensureAuthor finds or creates the editorial account. Its password is a
// random throwaway: the account exists to own seed posts, not to log in.
func (s *Seeder) ensureAuthor(ctx context.Context) (*model.User, error) {
	author, err := s.store.GetUserByEmail(ctx, seedAuthorEmail)
	if err == nil {
		return author, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("lookup seed author: %w", err)
	}

	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	author = &model.User{
		ID:           ulid.Make().String(),
		Name:         seedAuthorName,
		Email:        seedAuthorEmail,
		PasswordHash: hash,
		Roles:        []string{model.DefaultRole},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(ctx, author); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return s.store.GetUserByEmail(ctx, seedAuthorEmail)
		}
		return nil, fmt.Errorf("create seed author: %w", err)
	}

	return author, nil
}
