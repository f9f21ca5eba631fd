package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-detail-market.git/internal/mw"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

// fakeOrderStore: satu order di memori, cukup buat handler read path.
type fakeOrderStore struct {
	order orders.Order
}

func (f *fakeOrderStore) Get(_ context.Context, orderID string) (orders.Order, error) {
	if orderID != f.order.ID {
		return orders.Order{}, orders.ErrNotFound
	}
	return f.order, nil
}

func (f *fakeOrderStore) CreateOrder(_ context.Context, _, _ string, _ int, _, _ string) (orders.Order, error) {
	return f.order, nil
}

func (f *fakeOrderStore) ListByClient(_ context.Context, clientID string, _ ...orders.Status) ([]orders.Order, error) {
	if f.order.ClientID == clientID {
		return []orders.Order{f.order}, nil
	}
	return nil, nil
}

func (f *fakeOrderStore) ListByDealer(_ context.Context, dealerID string, _ ...orders.Status) ([]orders.Order, error) {
	if f.order.DealerID == dealerID {
		return []orders.Order{f.order}, nil
	}
	return nil, nil
}

func (f *fakeOrderStore) ListBookings(_ context.Context, _ orders.Role, _ string) ([]orders.BookingRow, error) {
	return nil, nil
}

func (f *fakeOrderStore) CreateGig(_ context.Context, g orders.Gig) (orders.Gig, error) {
	return g, nil
}

func (f *fakeOrderStore) ListGigs(_ context.Context) ([]orders.Gig, error) { return nil, nil }

func (f *fakeOrderStore) CreateReview(_ context.Context, _, _ string, _ int, _ string) (orders.Review, error) {
	return orders.Review{}, nil
}

func (f *fakeOrderStore) ListDealerReviews(_ context.Context, _ string) ([]orders.Review, error) {
	return nil, nil
}

func (f *fakeOrderStore) DealerRating(_ context.Context, _ string) (float64, int, error) {
	return 0, 0, nil
}

func newStatusHandler() *OrdersHandler {
	return &OrdersHandler{
		Repo: &fakeOrderStore{order: orders.Order{
			ID: "o1", ClientID: "c1", DealerID: "d1", Status: orders.StatusAccepted,
		}},
		// addr mati: cache selalu miss, handler jatuh ke store
		Redis: redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}),
	}
}

func getStatus(t *testing.T, h *OrdersHandler, a mw.Actor, orderID string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	r.Get("/orders/{id}/status", h.getOrderStatus)

	req := httptest.NewRequest(http.MethodGet, "/orders/"+orderID+"/status", nil)
	req = req.WithContext(mw.WithActor(req.Context(), a))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetOrderStatus_Participants(t *testing.T) {
	h := newStatusHandler()

	for _, a := range []mw.Actor{
		{ID: "c1", Role: orders.RoleClient},
		{ID: "d1", Role: orders.RoleDealer},
	} {
		w := getStatus(t, h, a, "o1")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"accepted"}`, w.Body.String())
	}
}

// Tahu UUID order bukan berarti boleh intip statusnya.
func TestGetOrderStatus_StrangerForbidden(t *testing.T) {
	h := newStatusHandler()

	for _, a := range []mw.Actor{
		{ID: "c2", Role: orders.RoleClient},
		{ID: "d2", Role: orders.RoleDealer},
	} {
		w := getStatus(t, h, a, "o1")
		assert.Equal(t, http.StatusForbidden, w.Code)
	}
}

func TestGetOrderStatus_UnknownOrder(t *testing.T) {
	h := newStatusHandler()

	w := getStatus(t, h, mw.Actor{ID: "c1", Role: orders.RoleClient}, "nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
