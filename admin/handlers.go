package admin

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	pandey "github.com/aagatsharma/pandey-computer"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type tokenResponse struct {
	pandey.Token
}

func (t *tokenResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

type handlers struct {
	svc    Service
	auth   pandey.AuthService
	logger pandey.LoggerService
}

func (h *handlers) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	token, err := h.auth.LoginUser(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, pandey.ErrInvalidCredentials) {
			render.Render(w, r, pandey.ErrUnauthorized(pandey.ErrInvalidCredentials))
			return
		}

		pandey.RenderError(w, r, h.logger, "failed to log in", err)
		return
	}

	render.Render(w, r, &tokenResponse{Token: token})
}

func (h *handlers) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserFromCtx(r.Context())
	if err != nil {
		render.Render(w, r, pandey.ErrUnauthorized(err))
		return
	}

	account, err := h.svc.Get(r.Context(), user.ID())
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to load account", err)
		return
	}

	render.Render(w, r, account.ToDTO())
}

func (h *handlers) changePassword(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.GetUserFromCtx(r.Context())
	if err != nil {
		render.Render(w, r, pandey.ErrUnauthorized(err))
		return
	}

	var req passwordRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	if err := h.svc.ChangePassword(r.Context(), user.ID(), req.CurrentPassword, req.NewPassword); err != nil {
		pandey.RenderError(w, r, h.logger, "failed to change password", err)
		return
	}

	render.NoContent(w, r)
}
