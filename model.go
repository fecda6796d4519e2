package pandey

import (
	"net/http"

	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// Model is anything persisted through the DBService.
type Model interface {
	GetID() uint
}

// Resource is a Model that can be rendered to API clients.
type Resource interface {
	Model
	ToDTO() render.Renderer
}

// Scope narrows a query. It is applied with gorm's Scopes.
type Scope = func(*gorm.DB) *gorm.DB

type ListQuery struct {
	Page   int
	Limit  int
	Order  string
	Scopes []Scope
}

func (q ListQuery) Offset() int {
	if q.Page < 1 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}

type Page[M any] struct {
	Items      []M
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

func NewPage[M any](items []M, query ListQuery, total int64) Page[M] {
	totalPages := 0
	if query.Limit > 0 {
		totalPages = int((total + int64(query.Limit) - 1) / int64(query.Limit))
	}

	return Page[M]{
		Items:      items,
		Page:       query.Page,
		Limit:      query.Limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// PageResponse is the wire form of a Page.
type PageResponse struct {
	Items      []render.Renderer `json:"items"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

func (p *PageResponse) Render(w http.ResponseWriter, r *http.Request) error {
	for _, item := range p.Items {
		if err := item.Render(w, r); err != nil {
			return err
		}
	}

	return nil
}

func NewPageResponse[M Resource](page Page[M]) *PageResponse {
	items := make([]render.Renderer, 0, len(page.Items))
	for _, item := range page.Items {
		items = append(items, item.ToDTO())
	}

	return &PageResponse{
		Items:      items,
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}
}
