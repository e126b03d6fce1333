package service

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/inkpress/inkpress/internal/store/memory"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple", "Hello, World!", "hello-world"},
		{"already_clean", "go-routines", "go-routines"},
		{"mixed_case", "My FIRST Post", "my-first-post"},
		{"whitespace_runs", "a   b\t c", "a-b-c"},
		{"repeated_hyphens", "a -- b", "a-b"},
		{"digits", "Top 10 Tips for 2026", "top-10-tips-for-2026"},
		{"unicode_stripped", "Café ☕ Stories", "caf-stories"},
		{"all_punctuation", "!!!???", ""},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := slugify(test.title); got != test.want {
				t.Fatalf("slugify(%q) = %q, want %q", test.title, got, test.want)
			}
		})
	}
}

var slugShape = regexp.MustCompile(`^[a-z0-9-]+$`)

func TestUniqueSlugSuffixProbing(t *testing.T) {
	svc := NewPostService(memory.New())
	ctx := context.Background()

	first, err := svc.uniqueSlug(ctx, "Hello, World!", "")
	if err != nil {
		t.Fatalf("uniqueSlug: %v", err)
	}
	if first != "hello-world" {
		t.Fatalf("first slug = %q, want hello-world", first)
	}

	mustCreatePost(t, svc, "Hello, World!")

	second, err := svc.uniqueSlug(ctx, "Hello, World!", "")
	if err != nil {
		t.Fatalf("uniqueSlug: %v", err)
	}
	if second != "hello-world-1" {
		t.Fatalf("second slug = %q, want hello-world-1", second)
	}

	mustCreatePost(t, svc, "Hello, World!")

	third, err := svc.uniqueSlug(ctx, "Hello, World!", "")
	if err != nil {
		t.Fatalf("uniqueSlug: %v", err)
	}
	if third != "hello-world-2" {
		t.Fatalf("third slug = %q, want hello-world-2", third)
	}
}

func TestUniqueSlugEmptyTitleFallsBack(t *testing.T) {
	svc := NewPostService(memory.New())

	slug, err := svc.uniqueSlug(context.Background(), "!!!", "")
	if err != nil {
		t.Fatalf("uniqueSlug: %v", err)
	}
	if !strings.HasPrefix(slug, "post-") {
		t.Fatalf("fallback slug = %q, want post-<timestamp>", slug)
	}
	if !slugShape.MatchString(slug) {
		t.Fatalf("fallback slug %q does not match [a-z0-9-]+", slug)
	}
}
