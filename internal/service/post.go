package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/model"
	"github.com/inkpress/inkpress/internal/store"
)

// Post service errors.
var (
	ErrMissingPostFields = errors.New("title, topic, excerpt, and content are required")
	ErrPostNotFound      = errors.New("post not found")
	ErrNotPostAuthor     = errors.New("you do not have permission to modify this post")
)

// PostService handles post CRUD, slug assignment, and ownership checks.
type PostService struct {
	posts store.PostStore
}

// NewPostService creates a new PostService.
func NewPostService(posts store.PostStore) *PostService {
	return &PostService{posts: posts}
}

// canModify is the ownership check: the acting user must be the post's
// recorded author. Re-evaluated on every mutating call, never cached.
func canModify(user *model.User, post *model.Post) bool {
	return user != nil && post.AuthorID == user.ID
}

// List returns all posts in the requested order.
func (s *PostService) List(ctx context.Context, sort model.SortKey) ([]*model.Post, error) {
	return s.posts.ListPosts(ctx, sort)
}

// ListMine returns the current user's posts in the requested order.
func (s *PostService) ListMine(ctx context.Context, sort model.SortKey) ([]*model.Post, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrNotAuthenticated
	}
	return s.posts.ListPostsByAuthor(ctx, user.ID, sort)
}

// Get retrieves a post by ID or slug.
func (s *PostService) Get(ctx context.Context, idOrSlug string) (*model.Post, error) {
	post, err := s.posts.GetPostByRef(ctx, model.ResolvePostRef(idOrSlug))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// CreatePostInput defines input for creating a post.
type CreatePostInput struct {
	Title    string
	Topic    string
	Excerpt  string
	ReadTime string
	Content  string
}

// Create publishes a new post authored by the current user. The author
// stamp is permanent; AuthorName snapshots the user's name at creation.
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (*model.Post, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	if input.Title == "" || input.Topic == "" || input.Excerpt == "" || input.Content == "" {
		return nil, ErrMissingPostFields
	}

	readTime := strings.TrimSpace(input.ReadTime)
	if readTime == "" {
		readTime = model.DefaultReadTime
	}

	now := time.Now().UTC()
	post := &model.Post{
		ID:         ulid.Make().String(),
		Title:      strings.TrimSpace(input.Title),
		Topic:      strings.TrimSpace(input.Topic),
		Excerpt:    strings.TrimSpace(input.Excerpt),
		ReadTime:   readTime,
		Content:    input.Content,
		AuthorID:   user.ID,
		AuthorName: user.Name,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// The slug probe and the insert are separate steps, so two concurrent
	// creates with the same title can both pick the base slug. The unique
	// index catches that; one retry re-probes past the winner.
	for attempt := 0; attempt < 2; attempt++ {
		slug, err := s.uniqueSlug(ctx, post.Title, "")
		if err != nil {
			return nil, err
		}
		post.Slug = slug

		err = s.posts.CreatePost(ctx, post)
		if err == nil {
			return post, nil
		}
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, fmt.Errorf("create post: %w", err)
		}
	}

	return nil, fmt.Errorf("create post: slug %q contended", post.Slug)
}

// UpdatePostInput defines a partial update; nil fields are left unchanged.
type UpdatePostInput struct {
	Title    *string
	Topic    *string
	Excerpt  *string
	ReadTime *string
	Content  *string
}

// Update applies a partial update to a post owned by the current user.
// A title change regenerates the slug, excluding the post's own row from
// the uniqueness probe.
func (s *PostService) Update(ctx context.Context, idOrSlug string, input UpdatePostInput) (*model.Post, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	post, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}

	if !canModify(user, post) {
		return nil, ErrNotPostAuthor
	}

	titleChanged := input.Title != nil && *input.Title != ""
	if titleChanged {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Topic != nil && *input.Topic != "" {
		post.Topic = strings.TrimSpace(*input.Topic)
	}
	if input.Excerpt != nil && *input.Excerpt != "" {
		post.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.ReadTime != nil && *input.ReadTime != "" {
		post.ReadTime = strings.TrimSpace(*input.ReadTime)
	}
	if input.Content != nil && *input.Content != "" {
		post.Content = *input.Content
	}
	post.UpdatedAt = time.Now().UTC()

	// A title change re-probes the slug, and like create, the probe and the
	// write can race a concurrent claim of the same slug. The unique index
	// catches it; one retry re-probes past the winner.
	for attempt := 0; attempt < 2; attempt++ {
		if titleChanged {
			slug, err := s.uniqueSlug(ctx, post.Title, post.ID)
			if err != nil {
				return nil, err
			}
			post.Slug = slug
		}

		err := s.posts.UpdatePost(ctx, post)
		if err == nil {
			return post, nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		if !errors.Is(err, store.ErrDuplicate) || !titleChanged {
			return nil, fmt.Errorf("update post: %w", err)
		}
	}

	return nil, fmt.Errorf("update post: slug %q contended", post.Slug)
}

// Delete permanently removes a post owned by the current user.
func (s *PostService) Delete(ctx context.Context, idOrSlug string) error {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return ErrNotAuthenticated
	}

	post, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return err
	}

	if !canModify(user, post) {
		return ErrNotPostAuthor
	}

	if err := s.posts.DeletePost(ctx, post.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("delete post: %w", err)
	}

	return nil
}
