package pandey

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID     uint
	Name   string
	Slug   string
	Active bool
}

func (w *widget) GetID() uint { return w.ID }

func (w *widget) ToDTO() render.Renderer { return &widgetDTO{ID: w.ID, Name: w.Name} }

type widgetDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (dto *widgetDTO) Render(w http.ResponseWriter, r *http.Request) error { return nil }

// widgetService keeps widgets in memory. A non-empty scope list hides
// inactive widgets, standing in for the public is_active scope.
type widgetService struct {
	Service[*widget]

	items      map[uint]*widget
	lastScopes int
	deleted    []uint
}

func newWidgetService() *widgetService {
	return &widgetService{items: map[uint]*widget{
		1: {ID: 1, Name: "Mouse", Slug: "mouse", Active: true},
		2: {ID: 2, Name: "Hidden", Slug: "hidden", Active: false},
	}}
}

func (s *widgetService) visible(w *widget, scopes []Scope) bool {
	return w.Active || len(scopes) == 0
}

func (s *widgetService) List(ctx context.Context, query ListQuery) (Page[*widget], error) {
	s.lastScopes = len(query.Scopes)

	var items []*widget
	for id := uint(1); id <= uint(len(s.items)); id++ {
		if w, ok := s.items[id]; ok && s.visible(w, query.Scopes) {
			items = append(items, w)
		}
	}

	return NewPage(items, query, int64(len(items))), nil
}

func (s *widgetService) GetOne(ctx context.Context, id uint, scopes ...Scope) (*widget, error) {
	w, ok := s.items[id]
	if !ok || !s.visible(w, scopes) {
		return nil, ErrRecordNotFound
	}

	return w, nil
}

func (s *widgetService) GetBySlug(ctx context.Context, slug string, scopes ...Scope) (*widget, error) {
	for _, w := range s.items {
		if w.Slug == slug && s.visible(w, scopes) {
			return w, nil
		}
	}

	return nil, ErrRecordNotFound
}

func (s *widgetService) CreateOne(ctx context.Context, w *widget) (*widget, error) {
	if w.Name == "" {
		return nil, Invalid("name", "is required")
	}

	w.ID = uint(len(s.items) + 1)
	s.items[w.ID] = w

	return w, nil
}

func (s *widgetService) UpdateOne(ctx context.Context, id uint, w *widget) (*widget, error) {
	s.items[id] = w
	return w, nil
}

func (s *widgetService) DeleteOne(ctx context.Context, id uint) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type widgetBody struct {
	Name *string `json:"name"`
}

func newWidget(r *http.Request) (*widget, error) {
	var body widgetBody
	if err := DecodeJSON(r, &body); err != nil {
		return nil, err
	}

	w := &widget{Active: true}
	if body.Name != nil {
		w.Name = *body.Name
	}

	return w, nil
}

func updateWidget(r *http.Request, existing *widget) (*widget, error) {
	var body widgetBody
	if err := DecodeJSON(r, &body); err != nil {
		return nil, err
	}

	w := *existing
	if body.Name != nil {
		w.Name = *body.Name
	}

	return &w, nil
}

type controllerEnv struct {
	svc    *widgetService
	auth   *authService
	router http.Handler
}

func newControllerEnv(t *testing.T) *controllerEnv {
	svc := newWidgetService()
	auth := newTestAuth()

	ping := func(w http.ResponseWriter, r *http.Request) { render.JSON(w, r, map[string]string{"pong": "yes"}) }

	ctrl := NewController[*widget](svc, testLogger(), auth, newWidget, updateWidget,
		WithContextKey[*widget](1),
		WithSlugRoute[*widget](),
		WithPublicScope[*widget](Where("active = ?", true)),
		WithCollectionRoute[*widget](http.MethodGet, "/ping", ping, false),
		WithCollectionRoute[*widget](http.MethodPost, "/reindex", ping, true),
		WithDetailRoute[*widget](http.MethodGet, "/ping", ping, false),
	)

	return &controllerEnv{svc: svc, auth: auth, router: ctrl.GetRouter()}
}

func (env *controllerEnv) do(t *testing.T, method, target, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set(AuthHeaderName, bearer(t, env.auth, testUser{id: 1, admin: true}))
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	return rec
}

func TestControllerList(t *testing.T) {
	env := newControllerEnv(t)

	rec := env.do(t, http.MethodGet, "/", "", false)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items []widgetDTO `json:"items"`
		Total int64       `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, []widgetDTO{{ID: 1, Name: "Mouse"}}, page.Items)
	assert.Equal(t, 1, env.svc.lastScopes)

	rec = env.do(t, http.MethodGet, "/", "", true)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 0, env.svc.lastScopes)

	rec = env.do(t, http.MethodGet, "/?limit=1000", "", false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestControllerGet(t *testing.T) {
	env := newControllerEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/1", "", false).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/2", "", false).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/2", "", true).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/9", "", true).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/abc", "", false).Code)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/slug/mouse", "", false).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/slug/hidden", "", false).Code)
}

func TestControllerWrites(t *testing.T) {
	env := newControllerEnv(t)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/", `{"name":"Pad"}`, false).Code)

	rec := env.do(t, http.MethodPost, "/", `{"name":"Pad"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":3,"name":"Pad"}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/", `{}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/", `{"name":`, true).Code)

	rec = env.do(t, http.MethodPatch, "/1", `{"name":"Gaming Mouse"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gaming Mouse", env.svc.items[1].Name)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodDelete, "/1", "", false).Code)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/1", "", true).Code)
	assert.Equal(t, []uint{1}, env.svc.deleted)
}

func TestControllerExtraRoutes(t *testing.T) {
	env := newControllerEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/ping", "", false).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/reindex", "", false).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodPost, "/reindex", "", true).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/1/ping", "", false).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/2/ping", "", false).Code)
}
