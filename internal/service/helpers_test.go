package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/inkpress/inkpress/internal/auth"
	"github.com/inkpress/inkpress/internal/model"
)

func jsonString(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

// testUser builds a user without going through signup, for post tests that
// don't exercise the auth flow.
func testUser(name string) *model.User {
	now := time.Now().UTC()
	return &model.User{
		ID:        ulid.Make().String(),
		Name:      name,
		Email:     name + "@example.com",
		Roles:     []string{model.DefaultRole},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func userCtx(user *model.User) context.Context {
	return auth.ContextWithUser(context.Background(), user)
}

func mustCreatePost(t *testing.T, svc *PostService, title string) *model.Post {
	t.Helper()
	post, err := svc.Create(userCtx(testUser("author")), CreatePostInput{
		Title:   title,
		Topic:   "Testing",
		Excerpt: "An excerpt",
		Content: "Some content",
	})
	if err != nil {
		t.Fatalf("create post %q: %v", title, err)
	}
	return post
}
