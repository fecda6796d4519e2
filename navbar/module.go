package navbar

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
)

const itemContextKey pandey.ResourceContextKey = 1

var Module = fx.Options(
	pandey.ProvideModels(&NavbarItem{}),
	fx.Provide(
		NewStore,
		NewService,
		fx.Annotate(NewReferenceChecker, fx.ResultTags(`group:"catalog_references"`)),
	),
	fx.Invoke(RegisterRoutes),
)

type RoutesParams struct {
	fx.In

	Router  *chi.Mux
	Logger  pandey.LoggerService
	Auth    pandey.AuthService
	Service Service
}

type handlers struct {
	svc    Service
	logger pandey.LoggerService
}

func (h *handlers) tree(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.svc.Tree(r.Context())
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to build navbar tree", err)
		return
	}

	render.Render(w, r, &TreeResponse{Items: nodes})
}

func RegisterRoutes(params RoutesParams) {
	h := &handlers{svc: params.Service, logger: params.Logger}

	items := pandey.NewController[*NavbarItem](params.Service, params.Logger, params.Auth,
		newItem, updateItem,
		pandey.WithContextKey[*NavbarItem](itemContextKey),
		pandey.WithPublicScope[*NavbarItem](pandey.Where("is_active = ?", true)),
		pandey.WithListQuery[*NavbarItem](listQuery),
		pandey.WithCollectionRoute[*NavbarItem](http.MethodGet, "/tree", h.tree, false),
	)

	pandey.Mount(params.Router, "/navbar-items", items.GetRouter())
}
