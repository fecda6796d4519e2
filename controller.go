package pandey

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type ResourceContextKey int

// CreateRequestConstructor builds a new item from the request body.
type CreateRequestConstructor[M Resource] func(*http.Request) (M, error)

// UpdateRequestConstructor applies the request body onto a copy of existing.
type UpdateRequestConstructor[M Resource] func(r *http.Request, existing M) (M, error)

// ListQueryFunc turns request filters into scopes and ordering. admin is true
// when the caller holds an admin token.
type ListQueryFunc func(r *http.Request, query ListQuery, admin bool) (ListQuery, error)

type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
	Admin   bool
}

type Controller[M Resource] interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	GetBySlug(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)

	ItemFromContext(ctx context.Context) (M, error)
	ItemContextMiddleware(next http.Handler) http.Handler

	GetRouter() *chi.Mux
}

type controller[M Resource] struct {
	additionalDetailRoutes     []Route
	additionalCollectionRoutes []Route
	contextKey                 ResourceContextKey

	auth   AuthService
	logger LoggerService
	svc    Service[M]
	Router *chi.Mux

	listQuery    ListQueryFunc
	publicScopes []Scope
	slugRoute    bool

	createRequestConstructor CreateRequestConstructor[M]
	updateRequestConstructor UpdateRequestConstructor[M]
}

type ControllerOption[M Resource] func(*controller[M])

func NewController[M Resource](
	svc Service[M],
	logger LoggerService,
	authSvc AuthService,
	createRequestConstructor CreateRequestConstructor[M],
	updateRequestConstructor UpdateRequestConstructor[M],
	opts ...ControllerOption[M],
) Controller[M] {
	ctrl := &controller[M]{
		additionalDetailRoutes:     make([]Route, 0),
		additionalCollectionRoutes: make([]Route, 0),

		auth:   authSvc,
		logger: logger,
		svc:    svc,

		createRequestConstructor: createRequestConstructor,
		updateRequestConstructor: updateRequestConstructor,
	}

	for _, opt := range opts {
		opt(ctrl)
	}

	admin := func(r chi.Router) chi.Router {
		return r.With(authSvc.AuthRequired(), authSvc.AdminRequired())
	}

	ctrl.Router = chi.NewRouter()
	ctrl.Router.Use(authSvc.OptionalAuth())

	ctrl.Router.Get("/", ctrl.List)
	admin(ctrl.Router).Post("/", ctrl.Create)

	if ctrl.slugRoute {
		ctrl.Router.Get("/slug/{slug}", ctrl.GetBySlug)
	}

	for _, route := range ctrl.additionalCollectionRoutes {
		mountRoute(ctrl.Router, route, admin)
	}

	ctrl.Router.Route("/{id}", func(r chi.Router) {
		r.Use(ctrl.ItemContextMiddleware)

		r.Get("/", ctrl.Get)
		admin(r).Patch("/", ctrl.Update)
		admin(r).Put("/", ctrl.Update)
		admin(r).Delete("/", ctrl.Delete)

		for _, route := range ctrl.additionalDetailRoutes {
			mountRoute(r, route, admin)
		}
	})

	return ctrl
}

func mountRoute(r chi.Router, route Route, admin func(chi.Router) chi.Router) {
	if route.Admin {
		admin(r).Method(route.Method, route.Path, route.Handler)
		return
	}

	r.Method(route.Method, route.Path, route.Handler)
}

func (c *controller[M]) scopesFor(ctx context.Context) []Scope {
	if c.auth.IsAdmin(ctx) {
		return nil
	}

	return c.publicScopes
}

func (c *controller[M]) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	query, err := ParsePagination(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	if c.listQuery != nil {
		query, err = c.listQuery(r, query, c.auth.IsAdmin(ctx))
		if err != nil {
			c.renderError(w, r, "failed to parse list query", err)
			return
		}
	}

	query.Scopes = append(query.Scopes, c.scopesFor(ctx)...)

	page, err := c.svc.List(ctx, query)
	if err != nil {
		c.renderError(w, r, "failed to list items", err)
		return
	}

	render.Render(w, r, NewPageResponse(page))
}

func (c *controller[M]) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	newItem, err := c.createRequestConstructor(r)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	item, err := c.svc.CreateOne(ctx, newItem)
	if err != nil {
		c.renderError(w, r, "failed to create item", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.Render(w, r, item.ToDTO())
}

func (c *controller[M]) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := c.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	render.Render(w, r, item.ToDTO())
}

func (c *controller[M]) GetBySlug(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	slug := chi.URLParam(r, "slug")
	if slug == "" {
		render.Render(w, r, ErrNotFound)
		return
	}

	item, err := c.svc.GetBySlug(ctx, slug, c.scopesFor(ctx)...)
	if err != nil {
		c.renderError(w, r, "failed to look up item by slug", err)
		return
	}

	render.Render(w, r, item.ToDTO())
}

func (c *controller[M]) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := c.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	update, err := c.updateRequestConstructor(r, item)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	updatedItem, err := c.svc.UpdateOne(ctx, item.GetID(), update)
	if err != nil {
		c.renderError(w, r, "failed to update item", err)
		return
	}

	render.Render(w, r, updatedItem.ToDTO())
}

func (c *controller[M]) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	item, err := c.ItemFromContext(ctx)
	if err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}

	err = c.svc.DeleteOne(ctx, item.GetID())
	if err != nil {
		c.renderError(w, r, "failed to delete item", err)
		return
	}

	render.NoContent(w, r)
}

func (c *controller[M]) ItemFromContext(ctx context.Context) (M, error) {
	var item M

	item, ok := ctx.Value(c.contextKey).(M)
	if !ok {
		return item, fmt.Errorf("failed to get item from context")
	}

	return item, nil
}

func (c *controller[M]) ItemContextMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		itemID, err := ParseID(chi.URLParam(r, "id"))
		if err != nil {
			render.Render(w, r, ErrInvalidRequest(err))
			return
		}

		item, err := c.svc.GetOne(ctx, itemID, c.scopesFor(ctx)...)
		if err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				render.Render(w, r, ErrNotFound)
			} else {
				c.logger.Error("failed to look up item", "error", err)
				render.Render(w, r, ErrUnknown(err))
			}

			return
		}

		ctxWithItem := context.WithValue(ctx, c.contextKey, item)

		next.ServeHTTP(w, r.WithContext(ctxWithItem))
	})
}

func (c *controller[M]) GetRouter() *chi.Mux {
	return c.Router
}

func (c *controller[M]) renderError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	if !IsClientError(err) {
		c.logger.Error(msg, "error", err)
	}

	render.Render(w, r, ErrFromService(err))
}

// RenderError writes err the way controllers do, logging only server errors.
func RenderError(w http.ResponseWriter, r *http.Request, logger LoggerService, msg string, err error) {
	if !IsClientError(err) {
		logger.Error(msg, "error", err)
	}

	render.Render(w, r, ErrFromService(err))
}

func WithDetailRoute[M Resource](method, path string, handler http.HandlerFunc, admin bool) ControllerOption[M] {
	return func(c *controller[M]) {
		c.additionalDetailRoutes = append(c.additionalDetailRoutes, Route{
			Method:  method,
			Path:    path,
			Handler: handler,
			Admin:   admin,
		})
	}
}

func WithCollectionRoute[M Resource](method, path string, handler http.HandlerFunc, admin bool) ControllerOption[M] {
	return func(c *controller[M]) {
		c.additionalCollectionRoutes = append(c.additionalCollectionRoutes, Route{
			Method:  method,
			Path:    path,
			Handler: handler,
			Admin:   admin,
		})
	}
}

func WithContextKey[M Resource](key ResourceContextKey) ControllerOption[M] {
	return func(c *controller[M]) {
		c.contextKey = key
	}
}

func WithListQuery[M Resource](fn ListQueryFunc) ControllerOption[M] {
	return func(c *controller[M]) {
		c.listQuery = fn
	}
}

// WithPublicScope restricts what callers without an admin token can read.
func WithPublicScope[M Resource](scopes ...Scope) ControllerOption[M] {
	return func(c *controller[M]) {
		c.publicScopes = append(c.publicScopes, scopes...)
	}
}

func WithSlugRoute[M Resource]() ControllerOption[M] {
	return func(c *controller[M]) {
		c.slugRoute = true
	}
}
