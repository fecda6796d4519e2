package catalog

import (
	"net/http"
	"strings"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/slug"
)

// Request bodies use pointer fields so PATCH only touches what was sent.

type categoryRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	IsActive    *bool   `json:"isActive"`
	SortOrder   *int    `json:"sortOrder"`
}

type subCategoryRequest struct {
	Name       *string `json:"name"`
	Slug       *string `json:"slug"`
	CategoryID *uint   `json:"categoryId"`
	Image      *string `json:"image"`
	IsActive   *bool   `json:"isActive"`
}

type brandRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Logo        *string `json:"logo"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

type subBrandRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	BrandID  *uint   `json:"brandId"`
	Logo     *string `json:"logo"`
	IsActive *bool   `json:"isActive"`
}

type productRequest struct {
	Name             *string   `json:"name"`
	Slug             *string   `json:"slug"`
	SKU              *string   `json:"sku"`
	Description      *string   `json:"description"`
	ShortDescription *string   `json:"shortDescription"`
	Warranty         *string   `json:"warranty"`
	Price            *int64    `json:"price"`
	OriginalPrice    *int64    `json:"originalPrice"`
	Stock            *int      `json:"stock"`
	Images           *[]string `json:"images"`
	Specifications   *[]Spec   `json:"specifications"`
	CategoryID       *uint     `json:"categoryId"`
	SubCategoryID    *uint     `json:"subCategoryId"`
	BrandID          *uint     `json:"brandId"`
	SubBrandID       *uint     `json:"subBrandId"`
	IsFeatured       *bool     `json:"isFeatured"`
	IsActive         *bool     `json:"isActive"`

	// ClearSubCategory and ClearSubBrand detach the optional references.
	ClearSubCategory bool `json:"clearSubCategory"`
	ClearSubBrand    bool `json:"clearSubBrand"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// slugFor keeps an explicit slug, otherwise derives one from the name when
// the item has none yet.
func slugFor(current string, explicit *string, name string) string {
	if explicit != nil && strings.TrimSpace(*explicit) != "" {
		return slug.Make(*explicit)
	}

	if current != "" {
		return current
	}

	return slug.Make(name)
}

func decode[T any](r *http.Request) (T, error) {
	var req T
	err := pandey.DecodeJSON(r, &req)

	return req, err
}

func (req categoryRequest) apply(c *Category) {
	setString(&c.Name, req.Name)
	setString(&c.Description, req.Description)
	setString(&c.Image, req.Image)
	set(&c.IsActive, req.IsActive)
	set(&c.SortOrder, req.SortOrder)
	c.Slug = slugFor(c.Slug, req.Slug, c.Name)
}

func (req subCategoryRequest) apply(s *SubCategory) {
	setString(&s.Name, req.Name)
	setString(&s.Image, req.Image)
	set(&s.CategoryID, req.CategoryID)
	set(&s.IsActive, req.IsActive)
	s.Slug = slugFor(s.Slug, req.Slug, s.Name)
	s.Category = nil
}

func (req brandRequest) apply(b *Brand) {
	setString(&b.Name, req.Name)
	setString(&b.Logo, req.Logo)
	setString(&b.Description, req.Description)
	set(&b.IsActive, req.IsActive)
	b.Slug = slugFor(b.Slug, req.Slug, b.Name)
}

func (req subBrandRequest) apply(s *SubBrand) {
	setString(&s.Name, req.Name)
	setString(&s.Logo, req.Logo)
	set(&s.BrandID, req.BrandID)
	set(&s.IsActive, req.IsActive)
	s.Slug = slugFor(s.Slug, req.Slug, s.Name)
	s.Brand = nil
}

func (req productRequest) apply(p *Product) {
	setString(&p.Name, req.Name)
	setString(&p.SKU, req.SKU)
	setString(&p.Description, req.Description)
	setString(&p.ShortDescription, req.ShortDescription)
	setString(&p.Warranty, req.Warranty)
	set(&p.Price, req.Price)
	set(&p.OriginalPrice, req.OriginalPrice)
	set(&p.Stock, req.Stock)
	set(&p.CategoryID, req.CategoryID)
	set(&p.BrandID, req.BrandID)
	set(&p.IsFeatured, req.IsFeatured)
	set(&p.IsActive, req.IsActive)

	if req.Images != nil {
		p.Images = append([]string{}, (*req.Images)...)
	}

	if req.Specifications != nil {
		p.Specifications = append([]Spec{}, (*req.Specifications)...)
	}

	if req.SubCategoryID != nil {
		id := *req.SubCategoryID
		p.SubCategoryID = &id
	}

	if req.ClearSubCategory {
		p.SubCategoryID = nil
	}

	if req.SubBrandID != nil {
		id := *req.SubBrandID
		p.SubBrandID = &id
	}

	if req.ClearSubBrand {
		p.SubBrandID = nil
	}

	p.Slug = slugFor(p.Slug, req.Slug, p.Name)
	p.Category, p.SubCategory, p.Brand, p.SubBrand = nil, nil, nil, nil
}

func newCategory(r *http.Request) (*Category, error) {
	req, err := decode[categoryRequest](r)
	if err != nil {
		return nil, err
	}

	c := &Category{IsActive: true}
	req.apply(c)

	return c, nil
}

func updateCategory(r *http.Request, existing *Category) (*Category, error) {
	req, err := decode[categoryRequest](r)
	if err != nil {
		return nil, err
	}

	c := *existing
	req.apply(&c)

	return &c, nil
}

func newSubCategory(r *http.Request) (*SubCategory, error) {
	req, err := decode[subCategoryRequest](r)
	if err != nil {
		return nil, err
	}

	s := &SubCategory{IsActive: true}
	req.apply(s)

	return s, nil
}

func updateSubCategory(r *http.Request, existing *SubCategory) (*SubCategory, error) {
	req, err := decode[subCategoryRequest](r)
	if err != nil {
		return nil, err
	}

	s := *existing
	req.apply(&s)

	return &s, nil
}

func newBrand(r *http.Request) (*Brand, error) {
	req, err := decode[brandRequest](r)
	if err != nil {
		return nil, err
	}

	b := &Brand{IsActive: true}
	req.apply(b)

	return b, nil
}

func updateBrand(r *http.Request, existing *Brand) (*Brand, error) {
	req, err := decode[brandRequest](r)
	if err != nil {
		return nil, err
	}

	b := *existing
	req.apply(&b)

	return &b, nil
}

func newSubBrand(r *http.Request) (*SubBrand, error) {
	req, err := decode[subBrandRequest](r)
	if err != nil {
		return nil, err
	}

	s := &SubBrand{IsActive: true}
	req.apply(s)

	return s, nil
}

func updateSubBrand(r *http.Request, existing *SubBrand) (*SubBrand, error) {
	req, err := decode[subBrandRequest](r)
	if err != nil {
		return nil, err
	}

	s := *existing
	req.apply(&s)

	return &s, nil
}

func newProduct(r *http.Request) (*Product, error) {
	req, err := decode[productRequest](r)
	if err != nil {
		return nil, err
	}

	p := &Product{IsActive: true}
	req.apply(p)

	return p, nil
}

func updateProduct(r *http.Request, existing *Product) (*Product, error) {
	req, err := decode[productRequest](r)
	if err != nil {
		return nil, err
	}

	p := *existing
	req.apply(&p)

	return &p, nil
}
