package order

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	pandey "github.com/aagatsharma/pandey-computer"
	"github.com/aagatsharma/pandey-computer/internal/cart"
)

type quoteRequest struct {
	Items map[string]int `json:"items"`
}

type checkoutRequest struct {
	CustomerName  string         `json:"customerName"`
	Email         string         `json:"email"`
	Phone         string         `json:"phone"`
	Address       string         `json:"address"`
	City          string         `json:"city"`
	Notes         string         `json:"notes"`
	PaymentMethod string         `json:"paymentMethod"`
	Items         map[string]int `json:"items"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type handlers struct {
	svc    Service
	logger pandey.LoggerService
}

func decodeCart(items map[string]int) (cart.Cart, error) {
	c, err := cart.FromWire(items)
	if err != nil {
		return nil, pandey.Invalid("items", err.Error())
	}

	return c, nil
}

func (h *handlers) quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	c, err := decodeCart(req.Items)
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	q, err := h.svc.Quote(r.Context(), c)
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to quote cart", err)
		return
	}

	render.Render(w, r, q)
}

func (h *handlers) checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	c, err := decodeCart(req.Items)
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	o, err := h.svc.Checkout(r.Context(), CheckoutInput{
		CustomerName:  req.CustomerName,
		Email:         req.Email,
		Phone:         req.Phone,
		Address:       req.Address,
		City:          req.City,
		Notes:         req.Notes,
		PaymentMethod: PaymentMethod(strings.ToLower(strings.TrimSpace(req.PaymentMethod))),
		Cart:          c,
	})
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to place order", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.Render(w, r, o.ToDTO())
}

func (h *handlers) list(w http.ResponseWriter, r *http.Request) {
	query, err := pandey.ParsePagination(r)
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := ParseStatus(raw)
		if err != nil {
			render.Render(w, r, pandey.ErrInvalidRequest(err))
			return
		}
		query.Scopes = append(query.Scopes, pandey.Where("orders.status = ?", status))
	}

	if q := strings.TrimSpace(r.URL.Query().Get("q")); q != "" {
		pattern := pandey.LikePattern(q)
		query.Scopes = append(query.Scopes, pandey.Where(
			"(orders.order_number ILIKE ? OR orders.customer_name ILIKE ? OR orders.phone ILIKE ?)",
			pattern, pattern, pattern,
		))
	}

	page, err := h.svc.List(r.Context(), query)
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to list orders", err)
		return
	}

	render.Render(w, r, pandey.NewPageResponse(page))
}

func (h *handlers) get(w http.ResponseWriter, r *http.Request) {
	id, err := pandey.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to get order", err)
		return
	}

	render.Render(w, r, o.ToDTO())
}

func (h *handlers) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pandey.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	var req statusRequest
	if err := pandey.DecodeJSON(r, &req); err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	status, err := ParseStatus(req.Status)
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	o, err := h.svc.UpdateStatus(r.Context(), id, status)
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to update order status", err)
		return
	}

	render.Render(w, r, o.ToDTO())
}

func (h *handlers) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pandey.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		render.Render(w, r, pandey.ErrInvalidRequest(err))
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		pandey.RenderError(w, r, h.logger, "failed to delete order", err)
		return
	}

	render.NoContent(w, r)
}

func (h *handlers) track(w http.ResponseWriter, r *http.Request) {
	o, err := h.svc.Track(r.Context(), chi.URLParam(r, "orderNumber"), r.URL.Query().Get("phone"))
	if err != nil {
		pandey.RenderError(w, r, h.logger, "failed to track order", err)
		return
	}

	render.Render(w, r, o.ToTrackingDTO())
}
