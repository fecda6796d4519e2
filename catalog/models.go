package catalog

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
	"gorm.io/datatypes"
)

// Kind names a catalog collection. Navbar items reference documents by kind.
type Kind string

const (
	KindCategory    Kind = "category"
	KindSubCategory Kind = "sub_category"
	KindBrand       Kind = "brand"
	KindSubBrand    Kind = "sub_brand"
)

func (k Kind) Valid() bool {
	switch k {
	case KindCategory, KindSubCategory, KindBrand, KindSubBrand:
		return true
	}
	return false
}

func (k Kind) Table() string {
	switch k {
	case KindCategory:
		return "categories"
	case KindSubCategory:
		return "sub_categories"
	case KindBrand:
		return "brands"
	case KindSubBrand:
		return "sub_brands"
	}
	return ""
}

// ProductColumn is the products column that points at documents of this kind.
func (k Kind) ProductColumn() string {
	switch k {
	case KindCategory:
		return "category_id"
	case KindSubCategory:
		return "sub_category_id"
	case KindBrand:
		return "brand_id"
	case KindSubBrand:
		return "sub_brand_id"
	}
	return ""
}

type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	Image       string
	IsActive    bool `gorm:"not null;index"`
	SortOrder   int  `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) GetID() uint { return c.ID }

func (c *Category) ToDTO() render.Renderer {
	return &CategoryDTO{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Image:       c.Image,
		IsActive:    c.IsActive,
		SortOrder:   c.SortOrder,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CategoryDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	IsActive    bool      `json:"isActive"`
	SortOrder   int       `json:"sortOrder"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (dto *CategoryDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type SubCategory struct {
	ID         uint      `gorm:"primaryKey"`
	Name       string    `gorm:"not null"`
	Slug       string    `gorm:"uniqueIndex;not null"`
	CategoryID uint      `gorm:"not null;index"`
	Category   *Category `gorm:"constraint:OnDelete:RESTRICT"`
	Image      string
	IsActive   bool `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (s *SubCategory) GetID() uint { return s.ID }

func (s *SubCategory) ToDTO() render.Renderer {
	dto := &SubCategoryDTO{
		ID:         s.ID,
		Name:       s.Name,
		Slug:       s.Slug,
		CategoryID: s.CategoryID,
		Image:      s.Image,
		IsActive:   s.IsActive,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}

	if s.Category != nil {
		dto.Category = refOf(KindCategory, s.Category.ID, s.Category.Name, s.Category.Slug)
	}

	return dto
}

type SubCategoryDTO struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	CategoryID uint      `json:"categoryId"`
	Category   *RefDTO   `json:"category,omitempty"`
	Image      string    `json:"image"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (dto *SubCategoryDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type Brand struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Logo        string
	Description string
	IsActive    bool `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (b *Brand) GetID() uint { return b.ID }

func (b *Brand) ToDTO() render.Renderer {
	return &BrandDTO{
		ID:          b.ID,
		Name:        b.Name,
		Slug:        b.Slug,
		Logo:        b.Logo,
		Description: b.Description,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

type BrandDTO struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Logo        string    `json:"logo"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (dto *BrandDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type SubBrand struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Slug      string `gorm:"uniqueIndex;not null"`
	BrandID   uint   `gorm:"not null;index"`
	Brand     *Brand `gorm:"constraint:OnDelete:RESTRICT"`
	Logo      string
	IsActive  bool `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *SubBrand) GetID() uint { return s.ID }

func (s *SubBrand) ToDTO() render.Renderer {
	dto := &SubBrandDTO{
		ID:        s.ID,
		Name:      s.Name,
		Slug:      s.Slug,
		BrandID:   s.BrandID,
		Logo:      s.Logo,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}

	if s.Brand != nil {
		dto.Brand = refOf(KindBrand, s.Brand.ID, s.Brand.Name, s.Brand.Slug)
	}

	return dto
}

type SubBrandDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	BrandID   uint      `json:"brandId"`
	Brand     *RefDTO   `json:"brand,omitempty"`
	Logo      string    `json:"logo"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (dto *SubBrandDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// Spec is one row of a product's specification table.
type Spec struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type Product struct {
	ID               uint   `gorm:"primaryKey"`
	Name             string `gorm:"not null;index"`
	Slug             string `gorm:"uniqueIndex;not null"`
	SKU              string `gorm:"index"`
	Description      string
	ShortDescription string
	Warranty         string

	// Prices are whole rupees.
	Price         int64 `gorm:"not null;index"`
	OriginalPrice int64 `gorm:"not null"`
	Stock         int   `gorm:"not null"`

	Images         datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Specifications datatypes.JSONSlice[Spec]   `gorm:"type:jsonb"`

	CategoryID    uint         `gorm:"not null;index"`
	Category      *Category    `gorm:"constraint:OnDelete:RESTRICT"`
	SubCategoryID *uint        `gorm:"index"`
	SubCategory   *SubCategory `gorm:"constraint:OnDelete:RESTRICT"`
	BrandID       uint         `gorm:"not null;index"`
	Brand         *Brand       `gorm:"constraint:OnDelete:RESTRICT"`
	SubBrandID    *uint        `gorm:"index"`
	SubBrand      *SubBrand    `gorm:"constraint:OnDelete:RESTRICT"`

	IsFeatured bool `gorm:"not null;index"`
	IsActive   bool `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time
}

func (p *Product) GetID() uint { return p.ID }

func (p *Product) InStock() bool { return p.Stock > 0 }

// DiscountPercent is the rounded saving against the original price.
func (p *Product) DiscountPercent() int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice == 0 {
		return 0
	}

	return int((p.OriginalPrice - p.Price) * 100 / p.OriginalPrice)
}

// Thumbnail is the first product image, if any.
func (p *Product) Thumbnail() string {
	if len(p.Images) == 0 {
		return ""
	}

	return p.Images[0]
}

func (p *Product) ToDTO() render.Renderer {
	dto := &ProductDTO{
		ID:               p.ID,
		Name:             p.Name,
		Slug:             p.Slug,
		SKU:              p.SKU,
		Description:      p.Description,
		ShortDescription: p.ShortDescription,
		Warranty:         p.Warranty,
		Price:            p.Price,
		OriginalPrice:    p.OriginalPrice,
		DiscountPercent:  p.DiscountPercent(),
		Stock:            p.Stock,
		InStock:          p.InStock(),
		Images:           []string(p.Images),
		Specifications:   []Spec(p.Specifications),
		CategoryID:       p.CategoryID,
		SubCategoryID:    p.SubCategoryID,
		BrandID:          p.BrandID,
		SubBrandID:       p.SubBrandID,
		IsFeatured:       p.IsFeatured,
		IsActive:         p.IsActive,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}

	if dto.Images == nil {
		dto.Images = []string{}
	}

	if dto.Specifications == nil {
		dto.Specifications = []Spec{}
	}

	if p.Category != nil {
		dto.Category = refOf(KindCategory, p.Category.ID, p.Category.Name, p.Category.Slug)
	}

	if p.SubCategory != nil {
		dto.SubCategory = refOf(KindSubCategory, p.SubCategory.ID, p.SubCategory.Name, p.SubCategory.Slug)
	}

	if p.Brand != nil {
		dto.Brand = refOf(KindBrand, p.Brand.ID, p.Brand.Name, p.Brand.Slug)
	}

	if p.SubBrand != nil {
		dto.SubBrand = refOf(KindSubBrand, p.SubBrand.ID, p.SubBrand.Name, p.SubBrand.Slug)
	}

	return dto
}

type ProductDTO struct {
	ID               uint      `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	SKU              string    `json:"sku"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Warranty         string    `json:"warranty"`
	Price            int64     `json:"price"`
	OriginalPrice    int64     `json:"originalPrice"`
	DiscountPercent  int       `json:"discountPercent"`
	Stock            int       `json:"stock"`
	InStock          bool      `json:"inStock"`
	Images           []string  `json:"images"`
	Specifications   []Spec    `json:"specifications"`
	CategoryID       uint      `json:"categoryId"`
	Category         *RefDTO   `json:"category,omitempty"`
	SubCategoryID    *uint     `json:"subCategoryId"`
	SubCategory      *RefDTO   `json:"subCategory,omitempty"`
	BrandID          uint      `json:"brandId"`
	Brand            *RefDTO   `json:"brand,omitempty"`
	SubBrandID       *uint     `json:"subBrandId"`
	SubBrand         *RefDTO   `json:"subBrand,omitempty"`
	IsFeatured       bool      `json:"isFeatured"`
	IsActive         bool      `json:"isActive"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (dto *ProductDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// RefDTO is the short form of a catalog document embedded in other payloads.
type RefDTO struct {
	Kind Kind   `json:"kind"`
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (dto *RefDTO) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func refOf(kind Kind, id uint, name, slug string) *RefDTO {
	return &RefDTO{Kind: kind, ID: id, Name: name, Slug: slug}
}
