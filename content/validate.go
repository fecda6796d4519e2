package content

import (
	"context"
	"fmt"
	"strings"
	"time"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/media"
	"github.com/aagatsharma/pandey-computer/internal/slug"
)

const (
	maxTitleLength = 200
	maxTags        = 20
	maxTagLength   = 40
)

func (b *Blog) Validate() error {
	verr := pandey.NewValidationError()

	switch {
	case strings.TrimSpace(b.Title) == "":
		verr.Add("title", "is required")
	case len(b.Title) > maxTitleLength:
		verr.Add("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}

	if !slug.Valid(b.Slug) {
		verr.Add("slug", "must be lowercase letters, digits and dashes")
	}

	if strings.TrimSpace(b.Content) == "" {
		verr.Add("content", "is required")
	}

	if b.CoverImage != "" && !media.IsImageRef(b.CoverImage) {
		verr.Add("coverImage", "must be a data URI or an http(s) URL")
	}

	if len(b.Tags) > maxTags {
		verr.Add("tags", fmt.Sprintf("at most %d tags are allowed", maxTags))
	}

	for i, tag := range b.Tags {
		if tag == "" || len(tag) > maxTagLength {
			verr.Add(fmt.Sprintf("tags[%d]", i), fmt.Sprintf("must be 1 to %d characters", maxTagLength))
		}
	}

	return verr.Err()
}

func (wp *Wallpaper) Validate() error {
	verr := pandey.NewValidationError()

	if len(wp.Title) > maxTitleLength {
		verr.Add("title", fmt.Sprintf("must be at most %d characters", maxTitleLength))
	}

	switch {
	case wp.Image == "":
		verr.Add("image", "is required")
	case !media.IsImageRef(wp.Image):
		verr.Add("image", "must be a data URI or an http(s) URL")
	}

	if wp.Link != "" && !validLink(wp.Link) {
		verr.Add("link", "must be an http(s) URL or a site path")
	}

	return verr.Err()
}

func validLink(link string) bool {
	return strings.HasPrefix(link, "https://") ||
		strings.HasPrefix(link, "http://") ||
		(strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//"))
}

// blogSaveHook validates a post, keeps slugs unique and stamps the first
// publication time.
func blogSaveHook(repo pandey.Repository[*Blog], now func() time.Time) pandey.SaveHook[*Blog] {
	return func(ctx context.Context, b *Blog, existing bool) error {
		if err := b.Validate(); err != nil {
			return err
		}

		taken, err := repo.Exists(ctx, pandey.Where("slug = ? AND id <> ?", b.Slug, b.ID))
		if err != nil {
			return err
		}

		if taken {
			return fmt.Errorf("%w: blog slug %q is already in use", pandey.ErrConflict, b.Slug)
		}

		switch {
		case b.IsPublished && b.PublishedAt == nil:
			publishedAt := now().UTC()
			b.PublishedAt = &publishedAt
		case !b.IsPublished:
			b.PublishedAt = nil
		}

		return nil
	}
}

func wallpaperSaveHook(ctx context.Context, wp *Wallpaper, existing bool) error {
	return wp.Validate()
}
