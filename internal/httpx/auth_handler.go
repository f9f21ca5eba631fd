package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-detail-market.git/internal/auth"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

type AuthHandler struct {
	Svc    *auth.Service
	Secret string
}

type registerClientReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type registerDealerReq struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	BusinessName string `json:"business_name"`
	Location     string `json:"location"`
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResp struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    string `json:"id"`
}

func (h *AuthHandler) Register(r *chi.Mux) {
	r.Post("/auth/client/register", h.registerClient)
	r.Post("/auth/client/login", h.loginClient)
	r.Post("/auth/dealer/register", h.registerDealer)
	r.Post("/auth/dealer/login", h.loginDealer)
}

func (h *AuthHandler) registerClient(w http.ResponseWriter, r *http.Request) {
	var req registerClientReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	c, err := h.Svc.RegisterClient(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.issue(w, http.StatusCreated, c.ID, orders.RoleClient)
}

func (h *AuthHandler) registerDealer(w http.ResponseWriter, r *http.Request) {
	var req registerDealerReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Email == "" || req.Password == "" || req.BusinessName == "" {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	d, err := h.Svc.RegisterDealer(r.Context(), req.Email, req.Password, req.BusinessName, req.Location)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.issue(w, http.StatusCreated, d.ID, orders.RoleDealer)
}

func (h *AuthHandler) loginClient(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	c, err := h.Svc.AuthenticateClient(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	h.issue(w, http.StatusOK, c.ID, orders.RoleClient)
}

func (h *AuthHandler) loginDealer(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	d, err := h.Svc.AuthenticateDealer(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	h.issue(w, http.StatusOK, d.ID, orders.RoleDealer)
}

func (h *AuthHandler) issue(w http.ResponseWriter, code int, actorID string, role orders.Role) {
	token, err := auth.IssueToken(h.Secret, actorID, role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}
	writeJSON(w, code, tokenResp{Token: token, Role: string(role), ID: actorID})
}
