package catalog

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
)

// Repositories holds the generic repository of every catalog collection.
type Repositories struct {
	Categories    pandey.Repository[*Category]
	SubCategories pandey.Repository[*SubCategory]
	Brands        pandey.Repository[*Brand]
	SubBrands     pandey.Repository[*SubBrand]
	Products      pandey.Repository[*Product]
}

type RepositoriesParams struct {
	fx.In

	DB     pandey.DBService
	Logger pandey.LoggerService
}

func NewRepositories(params RepositoriesParams) Repositories {
	return Repositories{
		Categories: pandey.NewRepository[*Category](params.DB, params.Logger,
			pandey.WithTableName[*Category]("categories"),
			pandey.WithDefaultOrder[*Category]("sort_order ASC, name ASC"),
		),
		SubCategories: pandey.NewRepository[*SubCategory](params.DB, params.Logger,
			pandey.WithTableName[*SubCategory]("sub_categories"),
			pandey.WithPreloadTables[*SubCategory]("Category"),
			pandey.WithDefaultOrder[*SubCategory]("name ASC"),
		),
		Brands: pandey.NewRepository[*Brand](params.DB, params.Logger,
			pandey.WithTableName[*Brand]("brands"),
			pandey.WithDefaultOrder[*Brand]("name ASC"),
		),
		SubBrands: pandey.NewRepository[*SubBrand](params.DB, params.Logger,
			pandey.WithTableName[*SubBrand]("sub_brands"),
			pandey.WithPreloadTables[*SubBrand]("Brand"),
			pandey.WithDefaultOrder[*SubBrand]("name ASC"),
		),
		Products: pandey.NewRepository[*Product](params.DB, params.Logger,
			pandey.WithTableName[*Product]("products"),
			pandey.WithPreloadTables[*Product]("Category", "SubCategory", "Brand", "SubBrand"),
			pandey.WithDefaultOrder[*Product]("products.created_at DESC, products.id DESC"),
		),
	}
}

// Ref is the resolved identity of a catalog document.
type Ref struct {
	Kind     Kind
	ID       uint
	Name     string
	Slug     string
	ParentID uint
	IsActive bool
}

// Store is what validation and delete guards need to know about the catalog.
type Store interface {
	Resolve(ctx context.Context, kind Kind, id uint) (Ref, error)
	SlugTaken(ctx context.Context, kind Kind, slug string, exceptID uint) (bool, error)
	ProductSlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error)
	CountProducts(ctx context.Context, kind Kind, id uint) (int64, error)
	CountChildren(ctx context.Context, kind Kind, id uint) (int64, error)
}

type store struct {
	repos Repositories
}

func NewStore(repos Repositories) Store {
	return &store{repos: repos}
}

func (s *store) Resolve(ctx context.Context, kind Kind, id uint) (Ref, error) {
	switch kind {
	case KindCategory:
		c, err := s.repos.Categories.FindOneByID(ctx, id)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: kind, ID: c.ID, Name: c.Name, Slug: c.Slug, IsActive: c.IsActive}, nil
	case KindSubCategory:
		c, err := s.repos.SubCategories.FindOneByID(ctx, id)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: kind, ID: c.ID, Name: c.Name, Slug: c.Slug, ParentID: c.CategoryID, IsActive: c.IsActive}, nil
	case KindBrand:
		b, err := s.repos.Brands.FindOneByID(ctx, id)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: kind, ID: b.ID, Name: b.Name, Slug: b.Slug, IsActive: b.IsActive}, nil
	case KindSubBrand:
		b, err := s.repos.SubBrands.FindOneByID(ctx, id)
		if err != nil {
			return Ref{}, err
		}
		return Ref{Kind: kind, ID: b.ID, Name: b.Name, Slug: b.Slug, ParentID: b.BrandID, IsActive: b.IsActive}, nil
	}

	return Ref{}, pandey.Invalid("type", fmt.Sprintf("unknown kind %q", kind))
}

func (s *store) SlugTaken(ctx context.Context, kind Kind, slug string, exceptID uint) (bool, error) {
	scope := pandey.Where("slug = ? AND id <> ?", slug, exceptID)

	switch kind {
	case KindCategory:
		return s.repos.Categories.Exists(ctx, scope)
	case KindSubCategory:
		return s.repos.SubCategories.Exists(ctx, scope)
	case KindBrand:
		return s.repos.Brands.Exists(ctx, scope)
	case KindSubBrand:
		return s.repos.SubBrands.Exists(ctx, scope)
	}

	return false, pandey.Invalid("type", fmt.Sprintf("unknown kind %q", kind))
}

func (s *store) ProductSlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	return s.repos.Products.Exists(ctx, pandey.Where("slug = ? AND id <> ?", slug, exceptID))
}

func (s *store) CountProducts(ctx context.Context, kind Kind, id uint) (int64, error) {
	column := kind.ProductColumn()
	if column == "" {
		return 0, pandey.Invalid("type", fmt.Sprintf("unknown kind %q", kind))
	}

	return s.repos.Products.Count(ctx, pandey.Where(column+" = ?", id))
}

// CountChildren counts sub-categories of a category or sub-brands of a brand.
func (s *store) CountChildren(ctx context.Context, kind Kind, id uint) (int64, error) {
	switch kind {
	case KindCategory:
		return s.repos.SubCategories.Count(ctx, pandey.Where("category_id = ?", id))
	case KindBrand:
		return s.repos.SubBrands.Count(ctx, pandey.Where("brand_id = ?", id))
	}

	return 0, nil
}
