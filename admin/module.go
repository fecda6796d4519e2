package admin

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	pandey "github.com/aagatsharma/pandey-computer"
)

var Module = fx.Options(
	pandey.ProvideModels(&AdminUser{}),
	fx.Provide(NewService),
	fx.Invoke(RegisterRoutes, SeedAccount),
)

type RoutesParams struct {
	fx.In

	Router  *chi.Mux
	Logger  pandey.LoggerService
	Auth    pandey.AuthService
	Service Service
}

func NewRouter(svc Service, auth pandey.AuthService, logger pandey.LoggerService) *chi.Mux {
	h := &handlers{svc: svc, auth: auth, logger: logger}

	router := chi.NewRouter()
	router.Post("/login", h.login)

	router.Group(func(r chi.Router) {
		r.Use(auth.AuthRequired(), auth.AdminRequired())

		r.Get("/me", h.me)
		r.Patch("/password", h.changePassword)
	})

	return router
}

func RegisterRoutes(params RoutesParams) {
	pandey.Mount(params.Router, "/admin", NewRouter(params.Service, params.Auth, params.Logger))
}

type SeedParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    pandey.Config
	Logger    pandey.LoggerService
	Service   Service
}

// SeedAccount creates the configured admin account on startup.
func SeedAccount(params SeedParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if params.Config.AdminEmail == "" {
				params.Logger.Warn("ADMIN_EMAIL is not set, skipping admin seed")
				return nil
			}

			created, err := params.Service.EnsureAccount(ctx, params.Config.AdminEmail, params.Config.AdminPassword)
			if err != nil {
				return fmt.Errorf("failed to seed admin account: %w", err)
			}

			if created {
				params.Logger.Info("Created admin account", "email", params.Config.AdminEmail)
			}

			return nil
		},
	})
}
