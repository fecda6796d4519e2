package content

import (
	"encoding/json"
	"net/http"
	"strings"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/slug"
)

type blogRequest struct {
	Title       *string   `json:"title"`
	Slug        *string   `json:"slug"`
	Excerpt     *string   `json:"excerpt"`
	Content     *string   `json:"content"`
	CoverImage  *string   `json:"coverImage"`
	Author      *string   `json:"author"`
	Tags        *[]string `json:"tags"`
	IsPublished *bool     `json:"isPublished"`
}

type wallpaperRequest struct {
	Title     *string `json:"title"`
	Image     *string `json:"image"`
	Link      *string `json:"link"`
	SortOrder *int    `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

func trimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// normalizeTags trims tags and drops duplicates, ignoring case.
func normalizeTags(tags []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(tags))

	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)

		if tag == "" || seen[key] {
			continue
		}

		seen[key] = true
		out = append(out, tag)
	}

	return out
}

func (req blogRequest) apply(b *Blog) {
	trimmed(&b.Title, req.Title)
	trimmed(&b.Excerpt, req.Excerpt)
	trimmed(&b.CoverImage, req.CoverImage)
	trimmed(&b.Author, req.Author)

	if req.Content != nil {
		b.Content = *req.Content
	}

	if req.Tags != nil {
		b.Tags = normalizeTags(*req.Tags)
	}

	if req.IsPublished != nil {
		b.IsPublished = *req.IsPublished
	}

	switch {
	case req.Slug != nil && strings.TrimSpace(*req.Slug) != "":
		b.Slug = slug.Make(*req.Slug)
	case b.Slug == "":
		b.Slug = slug.Make(b.Title)
	}
}

func (req wallpaperRequest) apply(wp *Wallpaper) {
	trimmed(&wp.Title, req.Title)
	trimmed(&wp.Image, req.Image)
	trimmed(&wp.Link, req.Link)

	if req.SortOrder != nil {
		wp.SortOrder = *req.SortOrder
	}

	if req.IsActive != nil {
		wp.IsActive = *req.IsActive
	}
}

func newBlog(r *http.Request) (*Blog, error) {
	var req blogRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	b := &Blog{}
	req.apply(b)

	return b, nil
}

func updateBlog(r *http.Request, existing *Blog) (*Blog, error) {
	var req blogRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	b := *existing
	b.Tags = append([]string{}, existing.Tags...)
	req.apply(&b)

	return &b, nil
}

func newWallpaper(r *http.Request) (*Wallpaper, error) {
	var req wallpaperRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	wp := &Wallpaper{IsActive: true}
	req.apply(wp)

	return wp, nil
}

func updateWallpaper(r *http.Request, existing *Wallpaper) (*Wallpaper, error) {
	var req wallpaperRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		return nil, err
	}

	wp := *existing
	req.apply(&wp)

	return &wp, nil
}

// blogListQuery filters by title and tag. The storefront sees the newest
// publications first.
func blogListQuery(r *http.Request, query pandey.ListQuery, admin bool) (pandey.ListQuery, error) {
	q := r.URL.Query()

	if term := strings.TrimSpace(q.Get("q")); term != "" {
		query.Scopes = append(query.Scopes, pandey.Where("blogs.title ILIKE ?", pandey.LikePattern(term)))
	}

	if tag := strings.TrimSpace(q.Get("tag")); tag != "" {
		query.Scopes = append(query.Scopes, pandey.Where("blogs.tags @> ?::jsonb", tagArray(tag)))
	}

	if admin {
		published, err := pandey.QueryBool(r, "published")
		if err != nil {
			return query, err
		}

		if published != nil {
			query.Scopes = append(query.Scopes, pandey.Where("blogs.is_published = ?", *published))
		}
	} else {
		query.Order = "blogs.published_at DESC, blogs.id DESC"
	}

	return query, nil
}

func tagArray(tag string) string {
	data, _ := json.Marshal([]string{tag})
	return string(data)
}
