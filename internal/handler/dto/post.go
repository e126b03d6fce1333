package dto

import "github.com/inkpress/inkpress/internal/model"

// CreatePostRequest represents the request body for POST /posts.
type CreatePostRequest struct {
	Title    string `json:"title"`
	Topic    string `json:"topic"`
	Excerpt  string `json:"excerpt"`
	ReadTime string `json:"readTime,omitempty"`
	Content  string `json:"content"`
}

// UpdatePostRequest represents the request body for PUT /posts/{idOrSlug}.
// Omitted fields are left unchanged.
type UpdatePostRequest struct {
	Title    *string `json:"title,omitempty"`
	Topic    *string `json:"topic,omitempty"`
	Excerpt  *string `json:"excerpt,omitempty"`
	ReadTime *string `json:"readTime,omitempty"`
	Content  *string `json:"content,omitempty"`
}

// PostResponse wraps a single post.
type PostResponse struct {
	Post *model.Post `json:"post"`
}

// PostListResponse wraps a post listing.
type PostListResponse struct {
	Posts []*model.Post `json:"posts"`
}
