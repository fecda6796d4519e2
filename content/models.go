package content

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"gorm.io/datatypes"
)

type Blog struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Excerpt     string
	Content     string `gorm:"type:text;not null"`
	CoverImage  string `gorm:"type:text"`
	Author      string
	Tags        datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	IsPublished bool                        `gorm:"not null;index"`
	PublishedAt *time.Time                  `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Blog) GetID() uint { return b.ID }

func (b *Blog) ToDTO() render.Renderer {
	tags := append([]string{}, b.Tags...)

	return &BlogDTO{
		ID:          b.ID,
		Title:       b.Title,
		Slug:        b.Slug,
		Excerpt:     b.Excerpt,
		Content:     b.Content,
		CoverImage:  b.CoverImage,
		Author:      b.Author,
		Tags:        tags,
		IsPublished: b.IsPublished,
		PublishedAt: b.PublishedAt,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type BlogDTO struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     string     `json:"excerpt"`
	Content     string     `json:"content"`
	CoverImage  string     `json:"coverImage"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	IsPublished bool       `json:"isPublished"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (dto *BlogDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Wallpaper is a hero banner on the storefront home page.
type Wallpaper struct {
	ID        uint `gorm:"primaryKey"`
	Title     string
	Image     string `gorm:"type:text;not null"`
	Link      string
	SortOrder int  `gorm:"not null;index"`
	IsActive  bool `gorm:"not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (wp *Wallpaper) GetID() uint { return wp.ID }

func (wp *Wallpaper) ToDTO() render.Renderer {
	return &WallpaperDTO{
		ID:        wp.ID,
		Title:     wp.Title,
		Image:     wp.Image,
		Link:      wp.Link,
		SortOrder: wp.SortOrder,
		IsActive:  wp.IsActive,
		CreatedAt: wp.CreatedAt,
		UpdatedAt: wp.UpdatedAt,
	}
}

type WallpaperDTO struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Image     string    `json:"image"`
	Link      string    `json:"link"`
	SortOrder int       `json:"sortOrder"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (dto *WallpaperDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
