package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-detail-market.git/internal/feed"
	kafkax "github.com/ariefcatur/go-detail-market.git/internal/kafka"
	"github.com/ariefcatur/go-detail-market.git/internal/leads"
	"github.com/ariefcatur/go-detail-market.git/internal/mw"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
	"github.com/ariefcatur/go-detail-market.git/internal/redisx"
)

// OrderStore: potongan repo yang dipakai handler; *orders.Repo memenuhinya,
// test pakai fake.
type OrderStore interface {
	CreateOrder(ctx context.Context, gigID, clientID string, proposedCents int, notes, scheduledDate string) (orders.Order, error)
	Get(ctx context.Context, orderID string) (orders.Order, error)
	ListByClient(ctx context.Context, clientID string, statuses ...orders.Status) ([]orders.Order, error)
	ListByDealer(ctx context.Context, dealerID string, statuses ...orders.Status) ([]orders.Order, error)
	ListBookings(ctx context.Context, role orders.Role, actorID string) ([]orders.BookingRow, error)
	CreateGig(ctx context.Context, g orders.Gig) (orders.Gig, error)
	ListGigs(ctx context.Context) ([]orders.Gig, error)
	CreateReview(ctx context.Context, orderID, clientID string, rating int, comment string) (orders.Review, error)
	ListDealerReviews(ctx context.Context, dealerID string) ([]orders.Review, error)
	DealerRating(ctx context.Context, dealerID string) (float64, int, error)
}

type OrdersHandler struct {
	Repo     OrderStore
	Engine   *orders.Engine
	Leads    leads.Store
	Producer *kafkax.Producer // order events
	Redis    *redis.Client
	Log      *zap.SugaredLogger
	Service  string
}

type createOrderReq struct {
	GigID         string `json:"gig_id"`
	ProposedCents int    `json:"proposed_cents"`
	Notes         string `json:"notes"`
	ScheduledDate string `json:"scheduled_date"`
}

type counterReq struct {
	CounterCents int `json:"counter_cents"`
}

type createGigReq struct {
	ServiceType string `json:"service_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PriceCents  int    `json:"price_cents"`
	Location    string `json:"location"`
}

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *OrdersHandler) Register(r *chi.Mux, jwtSecret string) {
	r.Get("/gigs", h.listGigs)
	r.Get("/dealers/{id}/reviews", h.listDealerReviews)

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(jwtSecret))
		r.Get("/orders", h.listBookings)
		r.Get("/orders/feed", h.streamOrders)
		r.Get("/orders/sync", h.listOrders)
		r.Get("/orders/{id}", h.getOrder)
		r.Get("/orders/{id}/status", h.getOrderStatus)
		r.Post("/orders/{id}/accept", h.accept)
		r.Post("/orders/{id}/reject", h.reject)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(jwtSecret), mw.RequireRole(orders.RoleClient))
		r.Post("/orders", h.createOrder)
		r.Post("/orders/{id}/review", h.createReview)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.Auth(jwtSecret), mw.RequireRole(orders.RoleDealer))
		r.Post("/gigs", h.createGig)
		r.Post("/orders/{id}/counter", h.counter)
		r.Post("/orders/{id}/paid", h.markPaid)
		r.Post("/orders/{id}/start", h.start)
		r.Post("/orders/{id}/complete", h.complete)
	})
}

// createOrder: service request dari client. Insert order (pending), bikin lead
// pending untuk dealer gig-nya, publish OrderCreated. 202: feed yang bawa
// kabar selanjutnya.
func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())

	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.GigID == "" || req.ProposedCents <= 0 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.CreateOrder(ctx, req.GigID, actor.ID, req.ProposedCents, req.Notes, req.ScheduledDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.Leads.Create(ctx, o.DealerID, o.ID); err != nil {
		// order sudah ada; lead gagal cuma di-log, bukan di-rollback
		h.Log.Errorw("lead create", "order_id", o.ID, "err", err)
	}

	// cache status awal biar GET cepat
	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	_ = h.Redis.Set(ctx, statusKey, kafkax.MustMarshal(o.StatusCacheEntry()), redisx.TTLStatusCache).Err()

	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     orders.EventOrderCreated,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       r.Header.Get("X-Request-Id"),
		CorrelationID: o.ID,
		Payload:       kafkax.MustMarshal(orders.OrderCreatedPayload{Order: o}),
	}
	h.Producer.Publish(orders.PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(orders.EventOrderCreated)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)

	writeJSON(w, http.StatusAccepted, o)
}

func (h *OrdersHandler) listBookings(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rows, err := h.Repo.ListBookings(ctx, actor.Role, actor.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	vocab := orders.VocabBooking
	if r.URL.Query().Get("view") == "job" {
		vocab = orders.VocabJob
	}
	out := make([]orders.BookingDisplay, 0, len(rows))
	for _, b := range rows {
		out = append(out, orders.ProjectBooking(b, vocab))
	}
	writeJSON(w, http.StatusOK, out)
}

// listOrders: seed untuk merge lokal — raw order milik actor, optional filter
// status. Dipakai bareng /orders/feed: fetch dulu, baru merge event yang masuk.
func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())

	var statuses []orders.Status
	if q := r.URL.Query().Get("status"); q != "" {
		for _, s := range strings.Split(q, ",") {
			st := orders.Status(s)
			if !orders.ValidStatus(st) {
				writeError(w, http.StatusBadRequest, "unknown status: "+s)
				return
			}
			statuses = append(statuses, st)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var out []orders.Order
	var err error
	switch actor.Role {
	case orders.RoleDealer:
		out, err = h.Repo.ListByDealer(ctx, actor.ID, statuses...)
	default:
		out, err = h.Repo.ListByClient(ctx, actor.ID, statuses...)
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// streamOrders: SSE. Satu subscription pub/sub per koneksi; putus saat client
// disconnect. Client diharapkan fetch list dulu lalu merge event yang masuk.
func (h *OrdersHandler) streamOrders(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())

	fl, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	sub, err := feed.Subscribe(r.Context(), h.Redis, actor.Role, actor.ID, h.Log)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	defer func() { _ = sub.Unsubscribe() }()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	fl.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			b, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", b)
			fl.Flush()
		}
	}
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	o, err := h.Repo.Get(ctx, orderID)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	if !participates(actor, o) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// getOrderStatus: coba cache dulu, fallback DB lalu isi cache lagi. Cache
// bawa pemilik order, jadi dua-duanya jalur tetap cek actor ikut transaksi.
func (h *OrdersHandler) getOrderStatus(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	key := fmt.Sprintf(redisx.KeyOrderStatus, orderID)
	if s, err := h.Redis.Get(ctx, key).Result(); err == nil && s != "" {
		var sc orders.StatusCache
		if err := json.Unmarshal([]byte(s), &sc); err == nil && sc.Status != "" {
			if !participates(actor, orders.Order{ClientID: sc.ClientID, DealerID: sc.DealerID}) {
				writeError(w, http.StatusForbidden, "forbidden")
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"status": sc.Status})
			return
		}
		// entry bentuk lama / rusak: jatuh ke DB
	}

	o, err := h.Repo.Get(ctx, orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if !participates(actor, o) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	_ = h.Redis.Set(ctx, key, kafkax.MustMarshal(o.StatusCacheEntry()), redisx.TTLStatusCache).Err()
	writeJSON(w, http.StatusOK, map[string]any{"status": o.Status})
}

// accept role-dispatch: dealer accept pending -> accepted, client accept
// counter-offer countered -> accepted. Satu endpoint, dua edge tabel.
func (h *OrdersHandler) accept(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var o orders.Order
	var err error
	switch actor.Role {
	case orders.RoleDealer:
		o, err = h.Engine.DealerAccept(ctx, orderID, actor.ID)
	default:
		o, err = h.Engine.AcceptCounter(ctx, orderID, actor.ID)
	}
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) reject(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var o orders.Order
	var err error
	switch actor.Role {
	case orders.RoleDealer:
		o, err = h.Engine.DealerReject(ctx, orderID, actor.ID)
	default:
		o, err = h.Engine.Cancel(ctx, orderID, actor.ID)
	}
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) counter(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	var req counterReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CounterCents <= 0 {
		writeError(w, http.StatusBadRequest, "invalid counter price")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Engine.DealerCounter(ctx, orderID, actor.ID, req.CounterCents)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) markPaid(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, (*orders.Engine).MarkPaid)
}

func (h *OrdersHandler) start(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, (*orders.Engine).StartWork)
}

func (h *OrdersHandler) complete(w http.ResponseWriter, r *http.Request) {
	h.advance(w, r, (*orders.Engine).CompleteWork)
}

func (h *OrdersHandler) advance(w http.ResponseWriter, r *http.Request, op func(*orders.Engine, context.Context, string, string) (orders.Order, error)) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := op(h.Engine, ctx, orderID, actor.ID)
	if err != nil {
		h.writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) createGig(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())

	var req createGigReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ServiceType == "" || req.Title == "" || req.PriceCents <= 0 {
		writeError(w, http.StatusBadRequest, "missing fields")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	g, err := h.Repo.CreateGig(ctx, orders.Gig{
		DealerID:    actor.ID,
		ServiceType: req.ServiceType,
		Title:       req.Title,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Location:    req.Location,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (h *OrdersHandler) listGigs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	gs, err := h.Repo.ListGigs(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, gs)
}

func (h *OrdersHandler) createReview(w http.ResponseWriter, r *http.Request) {
	actor, _ := mw.ActorFrom(r.Context())
	orderID := chi.URLParam(r, "id")

	var req createReviewReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	rv, err := h.Repo.CreateReview(ctx, orderID, actor.ID, req.Rating, req.Comment)
	if err != nil {
		if errors.Is(err, orders.ErrNotReviewable) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rv)
}

func (h *OrdersHandler) listDealerReviews(w http.ResponseWriter, r *http.Request) {
	dealerID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	rvs, err := h.Repo.ListDealerReviews(ctx, dealerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	avg, count, err := h.Repo.DealerRating(ctx, dealerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reviews": rvs,
		"rating":  avg,
		"count":   count,
	})
}

func (h *OrdersHandler) writeOrderErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orders.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, orders.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, orders.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrStaleStatus):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, orders.ErrNoCounterPrice):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.Log.Errorw("order op", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func participates(a mw.Actor, o orders.Order) bool {
	switch a.Role {
	case orders.RoleClient:
		return o.ClientID == a.ID
	case orders.RoleDealer:
		return o.DealerID == a.ID
	}
	return false
}
