package model

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// DefaultReadTime is used when a post is created without a read-time label.
const DefaultReadTime = "5 min read"

// Post represents a published blog post. AuthorID is immutable after
// creation; AuthorName is a snapshot of the author's name at creation time.
type Post struct {
	ID         string    `bson:"_id" json:"id"`
	Slug       string    `bson:"slug" json:"slug"`
	Title      string    `bson:"title" json:"title"`
	Topic      string    `bson:"topic" json:"topic"`
	Excerpt    string    `bson:"excerpt" json:"excerpt"`
	ReadTime   string    `bson:"read_time" json:"readTime"`
	Content    string    `bson:"content" json:"content"`
	AuthorID   string    `bson:"author_id" json:"authorId"`
	AuthorName string    `bson:"author_name" json:"authorName"`
	CreatedAt  time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updated_at" json:"updatedAt"`
}

// SortKey selects the ordering for post listings.
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByAuthor SortKey = "author"
	SortByTopic  SortKey = "topic"
)

// ParseSortKey maps a query value to a SortKey.
// Unrecognized values fall back to date ordering.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByAuthor:
		return SortByAuthor
	case SortByTopic:
		return SortByTopic
	default:
		return SortByDate
	}
}

// PostRefKind tags how a post identifier should be resolved.
type PostRefKind int

const (
	// RefSlug matches the slug field only.
	RefSlug PostRefKind = iota
	// RefIDOrSlug matches either the document ID or the slug.
	RefIDOrSlug
)

// PostRef is a post identifier resolved once at the boundary instead of
// sniffing types at lookup time.
type PostRef struct {
	Kind  PostRefKind
	Value string
}

// ResolvePostRef classifies an identifier from the URL path. ULID-shaped
// values could be either a document ID or a coincidentally-shaped slug, so
// they probe both fields; anything else can only be a slug.
func ResolvePostRef(idOrSlug string) PostRef {
	if _, err := ulid.ParseStrict(idOrSlug); err == nil {
		return PostRef{Kind: RefIDOrSlug, Value: idOrSlug}
	}
	return PostRef{Kind: RefSlug, Value: idOrSlug}
}
