package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	slugStripPattern   = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpacePattern   = regexp.MustCompile(`\s+`)
	slugHyphensPattern = regexp.MustCompile(`-+`)
)

// slugify derives the base slug from a title: lowercase, strip everything
// outside [a-z0-9], whitespace, and hyphens, collapse whitespace runs to
// single hyphens, then collapse repeated hyphens. May return empty for
// all-punctuation titles.
func slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStripPattern.ReplaceAllString(s, "")
	s = slugSpacePattern.ReplaceAllString(s, "-")
	s = slugHyphensPattern.ReplaceAllString(s, "-")
	return s
}

// uniqueSlug produces a unique slug for a title. The base slug is probed
// first, then base-1, base-2, ... until an unused one is found. excludeID
// keeps a post's own row out of the check so unrelated updates don't force
// a new slug. Empty bases fall back to a time-based placeholder.
func (s *PostService) uniqueSlug(ctx context.Context, title, excludeID string) (string, error) {
	base := slugify(title)
	if base == "" {
		return fmt.Sprintf("post-%d", time.Now().UnixMilli()), nil
	}

	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.posts.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", slug, err)
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}
