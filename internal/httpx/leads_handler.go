package httpx

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-detail-market.git/internal/leads"
	"github.com/ariefcatur/go-detail-market.git/internal/mw"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

type LeadsHandler struct {
	Svc *leads.Service
	Log *zap.SugaredLogger
}

func (h *LeadsHandler) Register(r *chi.Mux, jwtSecret string) {
	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(jwtSecret), mw.RequireRole(orders.RoleDealer))
		r.Get("/leads", h.list)
		r.Post("/leads/{id}/accept", h.accept)
		r.Post("/leads/{id}/decline", h.decline)
	})
}

func (h *LeadsHandler) list(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ls, err := h.Svc.ListByDealer(ctx, actor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (h *LeadsHandler) accept(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	leadID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Svc.Accept(ctx, leadID, actor.ID)
	if err != nil {
		h.writeLeadErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeadsHandler) decline(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	leadID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	l, err := h.Svc.Decline(ctx, leadID, actor.ID)
	if err != nil {
		h.writeLeadErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (h *LeadsHandler) writeLeadErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, leads.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, leads.ErrInsufficientCredits):
		writeError(w, http.StatusPaymentRequired, err.Error())
	default:
		h.Log.Errorw("lead op", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
