package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/inkpress/inkpress/internal/model"
)

// sortSpec maps a sort key to a Mongo sort document. Author and topic
// orderings break ties newest-first.
func sortSpec(sort model.SortKey) bson.D {
	switch sort {
	case model.SortByAuthor:
		return bson.D{{Key: "author_name", Value: 1}, {Key: "created_at", Value: -1}}
	case model.SortByTopic:
		return bson.D{{Key: "topic", Value: 1}, {Key: "created_at", Value: -1}}
	default:
		return bson.D{{Key: "created_at", Value: -1}}
	}
}

// refFilter builds the lookup filter for a post reference. ULID-shaped
// identifiers probe both _id and slug; everything else probes slug only.
func refFilter(ref model.PostRef) bson.D {
	if ref.Kind == model.RefIDOrSlug {
		return bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "_id", Value: ref.Value}},
			bson.D{{Key: "slug", Value: ref.Value}},
		}}}
	}
	return bson.D{{Key: "slug", Value: ref.Value}}
}

// CreatePost inserts a post. Returns store.ErrDuplicate when the slug
// unique index is violated.
func (s *Store) CreatePost(ctx context.Context, post *model.Post) error {
	return insertOne(ctx, s.col(colPosts), post)
}

// GetPostByRef looks up a post by ID or slug.
func (s *Store) GetPostByRef(ctx context.Context, ref model.PostRef) (*model.Post, error) {
	return findOne[model.Post](ctx, s.col(colPosts), refFilter(ref))
}

// ListPosts returns all posts in the requested order.
func (s *Store) ListPosts(ctx context.Context, sort model.SortKey) ([]*model.Post, error) {
	opts := options.Find().SetSort(sortSpec(sort))
	return findMany[model.Post](ctx, s.col(colPosts), bson.D{}, opts)
}

// ListPostsByAuthor returns the author's posts in the requested order.
func (s *Store) ListPostsByAuthor(ctx context.Context, authorID string, sort model.SortKey) ([]*model.Post, error) {
	opts := options.Find().SetSort(sortSpec(sort))
	return findMany[model.Post](ctx, s.col(colPosts), bson.D{{Key: "author_id", Value: authorID}}, opts)
}

// UpdatePost replaces a post document by ID.
func (s *Store) UpdatePost(ctx context.Context, post *model.Post) error {
	return replaceByID(ctx, s.col(colPosts), post.ID, post)
}

// DeletePost removes a post permanently.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	return deleteByID(ctx, s.col(colPosts), id)
}

// SlugExists reports whether a slug is taken, excluding excludeID when set
// so a post keeps its own slug across updates.
func (s *Store) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	filter := bson.D{{Key: "slug", Value: slug}}
	if excludeID != "" {
		filter = append(filter, bson.E{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID}}})
	}

	n, err := s.col(colPosts).CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, wrapError(err)
	}
	return n > 0, nil
}

// CountPosts returns the total number of posts.
func (s *Store) CountPosts(ctx context.Context) (int64, error) {
	n, err := s.col(colPosts).CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, wrapError(err)
	}
	return n, nil
}
