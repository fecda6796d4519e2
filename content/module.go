package content

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
)

const (
	blogContextKey pandey.ResourceContextKey = iota + 1
	wallpaperContextKey
)

var Module = fx.Options(
	pandey.ProvideModels(&Blog{}, &Wallpaper{}),
	fx.Provide(NewServices),
	fx.Invoke(RegisterRoutes),
)

type ServicesParams struct {
	fx.In

	DB     pandey.DBService
	Logger pandey.LoggerService
}

type ServicesResult struct {
	fx.Out

	Blogs      pandey.Service[*Blog]
	Wallpapers pandey.Service[*Wallpaper]
}

func NewServices(params ServicesParams) ServicesResult {
	blogs := pandey.NewRepository[*Blog](params.DB, params.Logger,
		pandey.WithTableName[*Blog]("blogs"),
		pandey.WithDefaultOrder[*Blog]("blogs.created_at DESC, blogs.id DESC"),
	)

	wallpapers := pandey.NewRepository[*Wallpaper](params.DB, params.Logger,
		pandey.WithTableName[*Wallpaper]("wallpapers"),
		pandey.WithDefaultOrder[*Wallpaper]("sort_order ASC, id ASC"),
	)

	return ServicesResult{
		Blogs: pandey.NewService(blogs,
			pandey.WithBeforeSave(blogSaveHook(blogs, time.Now)),
		),
		Wallpapers: pandey.NewService(wallpapers,
			pandey.WithBeforeSave[*Wallpaper](wallpaperSaveHook),
		),
	}
}

type RoutesParams struct {
	fx.In

	Router     *chi.Mux
	Config     pandey.Config
	Logger     pandey.LoggerService
	Auth       pandey.AuthService
	Blogs      pandey.Service[*Blog]
	Wallpapers pandey.Service[*Wallpaper]
}

func RegisterRoutes(params RoutesParams) {
	blogs := pandey.NewController(params.Blogs, params.Logger, params.Auth,
		newBlog, updateBlog,
		pandey.WithContextKey[*Blog](blogContextKey),
		pandey.WithSlugRoute[*Blog](),
		pandey.WithPublicScope[*Blog](pandey.Where("blogs.is_published = ?", true)),
		pandey.WithListQuery[*Blog](blogListQuery),
	)

	wallpapers := pandey.NewController(params.Wallpapers, params.Logger, params.Auth,
		newWallpaper, updateWallpaper,
		pandey.WithContextKey[*Wallpaper](wallpaperContextKey),
		pandey.WithPublicScope[*Wallpaper](pandey.Where("is_active = ?", true)),
	)

	uploads := &uploadHandler{maxBytes: params.Config.MaxImageBytes, logger: params.Logger}

	uploadRouter := chi.NewRouter()
	uploadRouter.Use(params.Auth.AuthRequired(), params.Auth.AdminRequired())
	uploadRouter.Method(http.MethodPost, "/image", http.HandlerFunc(uploads.image))

	pandey.Mount(params.Router, "/blogs", blogs.GetRouter())
	pandey.Mount(params.Router, "/wallpapers", wallpapers.GetRouter())
	pandey.Mount(params.Router, "/uploads", uploadRouter)
}
