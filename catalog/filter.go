package catalog

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"

	pandey "github.com/aagatsharma/pandey-computer"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortNameAsc   SortOrder = "name_asc"
	SortNameDesc  SortOrder = "name_desc"
)

var sortColumns = map[SortOrder]string{
	SortNewest:    "products.created_at DESC, products.id DESC",
	SortPriceAsc:  "products.price ASC, products.id ASC",
	SortPriceDesc: "products.price DESC, products.id DESC",
	SortNameAsc:   "products.name ASC, products.id ASC",
	SortNameDesc:  "products.name DESC, products.id DESC",
}

// ProductFilter is the parsed form of the product listing query string.
// Catalog references accept either a numeric id or a slug.
type ProductFilter struct {
	Category    string
	SubCategory string
	Brand       string
	SubBrand    string
	MinPrice    *int64
	MaxPrice    *int64
	Search      string
	InStock     *bool
	Featured    *bool
	Sort        SortOrder
	ActiveOnly  bool
}

func ParseProductFilter(r *http.Request) (ProductFilter, error) {
	q := r.URL.Query()
	verr := pandey.NewValidationError()

	f := ProductFilter{
		Category:    strings.TrimSpace(q.Get("category")),
		SubCategory: strings.TrimSpace(q.Get("subCategory")),
		Brand:       strings.TrimSpace(q.Get("brand")),
		SubBrand:    strings.TrimSpace(q.Get("subBrand")),
		Search:      strings.TrimSpace(q.Get("q")),
		Sort:        SortOrder(strings.TrimSpace(q.Get("sort"))),
		ActiveOnly:  true,
	}

	if f.Sort == "" {
		f.Sort = SortNewest
	}

	if _, ok := sortColumns[f.Sort]; !ok {
		verr.Add("sort", "must be one of newest, price_asc, price_desc, name_asc, name_desc")
	}

	f.MinPrice = parsePrice(verr, q.Get("minPrice"), "minPrice")
	f.MaxPrice = parsePrice(verr, q.Get("maxPrice"), "maxPrice")

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MinPrice > *f.MaxPrice {
		verr.Add("minPrice", "must not exceed maxPrice")
	}

	inStock, err := pandey.QueryBool(r, "inStock")
	if err != nil {
		verr.Add("inStock", "must be true or false")
	}
	f.InStock = inStock

	featured, err := pandey.QueryBool(r, "featured")
	if err != nil {
		verr.Add("featured", "must be true or false")
	}
	f.Featured = featured

	return f, verr.Err()
}

func parsePrice(verr *pandey.ValidationError, raw, field string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		verr.Add(field, "must be a non-negative whole number")
		return nil
	}

	return &v
}

func (f ProductFilter) Order() string {
	if order, ok := sortColumns[f.Sort]; ok {
		return order
	}

	return sortColumns[SortNewest]
}

// Scopes translates the filter into query scopes over the products table.
func (f ProductFilter) Scopes() []pandey.Scope {
	var scopes []pandey.Scope

	if f.ActiveOnly {
		scopes = append(scopes, pandey.Where("products.is_active = ?", true))
	}

	if f.Category != "" {
		scopes = append(scopes, refScope(KindCategory, f.Category))
	}

	if f.SubCategory != "" {
		scopes = append(scopes, refScope(KindSubCategory, f.SubCategory))
	}

	if f.Brand != "" {
		scopes = append(scopes, refScope(KindBrand, f.Brand))
	}

	if f.SubBrand != "" {
		scopes = append(scopes, refScope(KindSubBrand, f.SubBrand))
	}

	if f.MinPrice != nil {
		scopes = append(scopes, pandey.Where("products.price >= ?", *f.MinPrice))
	}

	if f.MaxPrice != nil {
		scopes = append(scopes, pandey.Where("products.price <= ?", *f.MaxPrice))
	}

	if f.Search != "" {
		pattern := pandey.LikePattern(f.Search)
		scopes = append(scopes, pandey.Where("(products.name ILIKE ? OR products.sku ILIKE ?)", pattern, pattern))
	}

	if f.InStock != nil {
		if *f.InStock {
			scopes = append(scopes, pandey.Where("products.stock > 0"))
		} else {
			scopes = append(scopes, pandey.Where("products.stock <= 0"))
		}
	}

	if f.Featured != nil {
		scopes = append(scopes, pandey.Where("products.is_featured = ?", *f.Featured))
	}

	return scopes
}

// refScope matches a product reference column by id, or by slug through a
// subquery on the referenced table.
func refScope(kind Kind, value string) pandey.Scope {
	column := "products." + kind.ProductColumn()

	if id, err := strconv.ParseUint(value, 10, 64); err == nil {
		return pandey.Where(column+" = ?", uint(id))
	}

	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table(kind.Table()).
			Select("id").
			Where("slug = ?", value)

		return db.Where(column+" IN (?)", sub)
	}
}

func productListQuery(r *http.Request, query pandey.ListQuery, admin bool) (pandey.ListQuery, error) {
	f, err := ParseProductFilter(r)
	if err != nil {
		return query, err
	}

	if admin {
		active, err := pandey.QueryBool(r, "active")
		if err != nil {
			return query, err
		}

		f.ActiveOnly = active != nil && *active
	}

	query.Scopes = append(query.Scopes, f.Scopes()...)
	query.Order = f.Order()

	return query, nil
}

// namedListQuery filters category and brand style listings by activity and
// an optional parent reference.
func namedListQuery(parentParam, parentColumn string) pandey.ListQueryFunc {
	return func(r *http.Request, query pandey.ListQuery, admin bool) (pandey.ListQuery, error) {
		if parentParam != "" {
			parentID, err := pandey.QueryUint(r, parentParam)
			if err != nil {
				return query, err
			}

			if parentID != nil {
				query.Scopes = append(query.Scopes, pandey.Where(parentColumn+" = ?", *parentID))
			}
		}

		if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
			query.Scopes = append(query.Scopes, pandey.Where("name ILIKE ?", pandey.LikePattern(q)))
		}

		return query, nil
	}
}
