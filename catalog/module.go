package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
)

const (
	categoryContextKey pandey.ResourceContextKey = iota + 1
	subCategoryContextKey
	brandContextKey
	subBrandContextKey
	productContextKey
)

var Module = fx.Options(
	pandey.ProvideModels(&Category{}, &SubCategory{}, &Brand{}, &SubBrand{}, &Product{}),
	fx.Provide(
		NewRepositories,
		NewStore,
		NewServices,
		NewProductQueries,
		NewProductImporter,
	),
	fx.Invoke(RegisterRoutes),
)

type ServicesParams struct {
	fx.In

	Repos    Repositories
	Store    Store
	Checkers []ReferenceChecker `group:"catalog_references"`
}

type ServicesResult struct {
	fx.Out

	Categories    pandey.Service[*Category]
	SubCategories pandey.Service[*SubCategory]
	Brands        pandey.Service[*Brand]
	SubBrands     pandey.Service[*SubBrand]
	Products      pandey.Service[*Product]
}

func NewServices(params ServicesParams) ServicesResult {
	store := params.Store

	return ServicesResult{
		Categories: pandey.NewService(params.Repos.Categories,
			pandey.WithBeforeSave(categorySaveHook(store)),
			pandey.WithBeforeDelete(deleteGuard[*Category](KindCategory, store, params.Checkers)),
		),
		SubCategories: pandey.NewService(params.Repos.SubCategories,
			pandey.WithBeforeSave(subCategorySaveHook(store)),
			pandey.WithBeforeDelete(deleteGuard[*SubCategory](KindSubCategory, store, params.Checkers)),
		),
		Brands: pandey.NewService(params.Repos.Brands,
			pandey.WithBeforeSave(brandSaveHook(store)),
			pandey.WithBeforeDelete(deleteGuard[*Brand](KindBrand, store, params.Checkers)),
		),
		SubBrands: pandey.NewService(params.Repos.SubBrands,
			pandey.WithBeforeSave(subBrandSaveHook(store)),
			pandey.WithBeforeDelete(deleteGuard[*SubBrand](KindSubBrand, store, params.Checkers)),
		),
		Products: pandey.NewService(params.Repos.Products,
			pandey.WithBeforeSave(productSaveHook(store)),
		),
	}
}

type RoutesParams struct {
	fx.In

	Router *chi.Mux
	Logger pandey.LoggerService
	Auth   pandey.AuthService

	Categories    pandey.Service[*Category]
	SubCategories pandey.Service[*SubCategory]
	Brands        pandey.Service[*Brand]
	SubBrands     pandey.Service[*SubBrand]
	Products      pandey.Service[*Product]
	Queries       *ProductQueries
	Importer      *ProductImporter
}

func RegisterRoutes(params RoutesParams) {
	active := pandey.Where("is_active = ?", true)

	categories := pandey.NewController(params.Categories, params.Logger, params.Auth,
		newCategory, updateCategory,
		pandey.WithContextKey[*Category](categoryContextKey),
		pandey.WithSlugRoute[*Category](),
		pandey.WithPublicScope[*Category](active),
		pandey.WithListQuery[*Category](namedListQuery("", "")),
	)

	subCategories := pandey.NewController(params.SubCategories, params.Logger, params.Auth,
		newSubCategory, updateSubCategory,
		pandey.WithContextKey[*SubCategory](subCategoryContextKey),
		pandey.WithSlugRoute[*SubCategory](),
		pandey.WithPublicScope[*SubCategory](pandey.Where("sub_categories.is_active = ?", true)),
		pandey.WithListQuery[*SubCategory](namedListQuery("categoryId", "sub_categories.category_id")),
	)

	brands := pandey.NewController(params.Brands, params.Logger, params.Auth,
		newBrand, updateBrand,
		pandey.WithContextKey[*Brand](brandContextKey),
		pandey.WithSlugRoute[*Brand](),
		pandey.WithPublicScope[*Brand](active),
		pandey.WithListQuery[*Brand](namedListQuery("", "")),
	)

	subBrands := pandey.NewController(params.SubBrands, params.Logger, params.Auth,
		newSubBrand, updateSubBrand,
		pandey.WithContextKey[*SubBrand](subBrandContextKey),
		pandey.WithSlugRoute[*SubBrand](),
		pandey.WithPublicScope[*SubBrand](pandey.Where("sub_brands.is_active = ?", true)),
		pandey.WithListQuery[*SubBrand](namedListQuery("brandId", "sub_brands.brand_id")),
	)

	h := &productHandlers{queries: params.Queries, logger: params.Logger}

	products := pandey.NewController(params.Products, params.Logger, params.Auth,
		newProduct, updateProduct,
		pandey.WithContextKey[*Product](productContextKey),
		pandey.WithSlugRoute[*Product](),
		pandey.WithPublicScope[*Product](pandey.Where("products.is_active = ?", true)),
		pandey.WithListQuery[*Product](productListQuery),
		pandey.WithCollectionRoute[*Product](http.MethodGet, "/search", h.search, false),
		pandey.WithCollectionRoute[*Product](http.MethodGet, "/filters", h.filters, false),
		pandey.WithCollectionRoute[*Product](http.MethodPost, "/import", params.Importer.importHandler, true),
		pandey.WithCollectionRoute[*Product](http.MethodGet, "/export", params.Importer.exportHandler, true),
		pandey.WithDetailRoute[*Product](http.MethodGet, "/related", h.related, false),
	)
	h.ctrl = products

	pandey.Mount(params.Router, "/categories", categories.GetRouter())
	pandey.Mount(params.Router, "/sub-categories", subCategories.GetRouter())
	pandey.Mount(params.Router, "/brands", brands.GetRouter())
	pandey.Mount(params.Router, "/sub-brands", subBrands.GetRouter())
	pandey.Mount(params.Router, "/products", products.GetRouter())
}
