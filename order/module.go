package order

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
)

var Module = fx.Options(
	pandey.ProvideModels(&Order{}),
	fx.Provide(NewStore, NewService),
	fx.Invoke(RegisterRoutes),
)

type RoutesParams struct {
	fx.In

	Router  *chi.Mux
	Logger  pandey.LoggerService
	Auth    pandey.AuthService
	Service Service
}

// NewRouter serves checkout and tracking publicly and everything else to
// admins.
func NewRouter(svc Service, logger pandey.LoggerService, auth pandey.AuthService) (carts, orders *chi.Mux) {
	h := &handlers{svc: svc, logger: logger}

	carts = chi.NewRouter()
	carts.Post("/quote", h.quote)

	orders = chi.NewRouter()
	orders.Post("/", h.checkout)
	orders.Get("/track/{orderNumber}", h.track)

	orders.Group(func(r chi.Router) {
		r.Use(auth.AuthRequired(), auth.AdminRequired())

		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Patch("/{id}/status", h.updateStatus)
		r.Delete("/{id}", h.delete)
	})

	return carts, orders
}

func RegisterRoutes(params RoutesParams) {
	carts, orders := NewRouter(params.Service, params.Logger, params.Auth)

	pandey.Mount(params.Router, "/cart", carts)
	pandey.Mount(params.Router, "/orders", orders)
}
