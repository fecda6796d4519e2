package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"

	pandey "github.com/aagatsharma/pandey-computer"
)

const (
	maxSuggestions  = 8
	minSearchLength = 2
	maxRelated      = 4
)

type OptionCount struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int64  `json:"count"`
}

type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

type FilterOptions struct {
	Brands        []OptionCount `json:"brands"`
	SubCategories []OptionCount `json:"subCategories"`
	SubBrands     []OptionCount `json:"subBrands"`
	PriceRange    PriceRange    `json:"priceRange"`
}

func (o *FilterOptions) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Suggestion struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Price int64  `json:"price"`
	Image string `json:"image"`
}

// ProductQueries answers the storefront's read-only product questions.
type ProductQueries struct {
	db    pandey.DBService
	repos Repositories
}

func NewProductQueries(db pandey.DBService, repos Repositories) *ProductQueries {
	return &ProductQueries{db: db, repos: repos}
}

// Suggest returns a handful of active products whose name or SKU matches q.
func (q *ProductQueries) Suggest(ctx context.Context, term string) ([]Suggestion, error) {
	term = strings.TrimSpace(term)
	if len([]rune(term)) < minSearchLength {
		return []Suggestion{}, nil
	}

	f := ProductFilter{Search: term, ActiveOnly: true, Sort: SortNameAsc}

	products, err := q.repos.Products.FindMany(ctx, pandey.ListQuery{
		Page:   1,
		Limit:  maxSuggestions,
		Order:  f.Order(),
		Scopes: f.Scopes(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}

	suggestions := make([]Suggestion, 0, len(products))
	for _, p := range products {
		suggestions = append(suggestions, Suggestion{
			ID:    p.ID,
			Name:  p.Name,
			Slug:  p.Slug,
			Price: p.Price,
			Image: p.Thumbnail(),
		})
	}

	return suggestions, nil
}

// Related lists other active products from the same category.
func (q *ProductQueries) Related(ctx context.Context, p *Product) ([]*Product, error) {
	products, err := q.repos.Products.FindMany(ctx, pandey.ListQuery{
		Page:  1,
		Limit: maxRelated,
		Order: sortColumns[SortNewest],
		Scopes: []pandey.Scope{
			pandey.Where("products.category_id = ? AND products.id <> ? AND products.is_active = ?", p.CategoryID, p.ID, true),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find related products: %w", err)
	}

	return products, nil
}

// FilterOptions reports what the storefront can still narrow down to given
// the selected category and brand.
func (q *ProductQueries) FilterOptions(ctx context.Context, category, brand string) (*FilterOptions, error) {
	byCategory := ProductFilter{Category: category, ActiveOnly: true}
	byBoth := ProductFilter{Category: category, Brand: brand, ActiveOnly: true}

	opts := &FilterOptions{}

	var err error

	opts.Brands, err = q.countBy(ctx, KindBrand, byCategory.Scopes())
	if err != nil {
		return nil, err
	}

	opts.SubCategories, err = q.countBy(ctx, KindSubCategory, byBoth.Scopes())
	if err != nil {
		return nil, err
	}

	opts.SubBrands, err = q.countBy(ctx, KindSubBrand, byBoth.Scopes())
	if err != nil {
		return nil, err
	}

	sesh, cancel := q.db.GetSession(ctx)
	defer cancel()

	err = sesh.Model(&Product{}).
		Scopes(byBoth.Scopes()...).
		Select("COALESCE(MIN(products.price), 0) AS min, COALESCE(MAX(products.price), 0) AS max").
		Scan(&opts.PriceRange).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load price range: %w", err)
	}

	return opts, nil
}

func (q *ProductQueries) countBy(ctx context.Context, kind Kind, scopes []pandey.Scope) ([]OptionCount, error) {
	sesh, cancel := q.db.GetSession(ctx)
	defer cancel()

	table := kind.Table()
	rows := []OptionCount{}

	err := sesh.Model(&Product{}).
		Scopes(scopes...).
		Joins(fmt.Sprintf("JOIN %s ON %s.id = products.%s", table, table, kind.ProductColumn())).
		Where(table+".is_active = ?", true).
		Select(fmt.Sprintf("%s.id AS id, %s.name AS name, %s.slug AS slug, COUNT(products.id) AS count", table, table, table)).
		Group(fmt.Sprintf("%s.id, %s.name, %s.slug", table, table, table)).
		Order(table + ".name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count products by %s: %w", kind, err)
	}

	return rows, nil
}

type productHandlers struct {
	queries *ProductQueries
	logger  pandey.LoggerService
	ctrl    pandey.Controller[*Product]
}

func (h *productHandlers) search(w http.ResponseWriter, r *http.Request) {
	suggestions, err := h.queries.Suggest(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to search products", err)
		return
	}

	render.JSON(w, r, map[string]any{"items": suggestions})
}

func (h *productHandlers) filters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	opts, err := h.queries.FilterOptions(r.Context(), strings.TrimSpace(q.Get("category")), strings.TrimSpace(q.Get("brand")))
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to load filter options", err)
		return
	}

	render.Render(w, r, opts)
}

func (h *productHandlers) related(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.ctrl.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	products, err := h.queries.Related(ctx, product)
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to load related products", err)
		return
	}

	items := make([]render.Renderer, 0, len(products))
	for _, p := range products {
		items = append(items, p.ToDTO())
	}

	render.RenderList(w, r, items)
}
