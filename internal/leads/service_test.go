package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadCost(t *testing.T) {
	assert.Equal(t, 10, LeadCost(TierStarter))
	assert.Equal(t, 7, LeadCost(TierPro))
	assert.Equal(t, 5, LeadCost(TierElite))
	// tier tidak dikenal jatuh ke starter
	assert.Equal(t, 10, LeadCost(Tier("platinum")))
}

type fakeLeadStore struct {
	leads     map[string]Lead
	acceptErr error
}

func (f *fakeLeadStore) Create(_ context.Context, dealerID, orderID string) (Lead, error) {
	l := Lead{ID: "l1", DealerID: dealerID, OrderID: orderID, Status: StatusPending, CostCredits: 10}
	f.leads[l.ID] = l
	return l, nil
}

func (f *fakeLeadStore) Accept(_ context.Context, leadID, dealerID string) (Lead, error) {
	if f.acceptErr != nil {
		return Lead{}, f.acceptErr
	}
	l, ok := f.leads[leadID]
	if !ok || l.DealerID != dealerID || l.Status != StatusPending {
		return Lead{}, ErrNotFound
	}
	now := time.Now().UTC()
	l.Status = StatusAccepted
	l.RespondedAt = &now
	f.leads[leadID] = l
	return l, nil
}

func (f *fakeLeadStore) Decline(_ context.Context, leadID, dealerID string) (Lead, error) {
	l, ok := f.leads[leadID]
	if !ok || l.DealerID != dealerID || l.Status != StatusPending {
		return Lead{}, ErrNotFound
	}
	l.Status = StatusDeclined
	f.leads[leadID] = l
	return l, nil
}

func (f *fakeLeadStore) ListByDealer(_ context.Context, dealerID string) ([]Lead, error) {
	var out []Lead
	for _, l := range f.leads {
		if l.DealerID == dealerID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeSink struct{ published int }

func (f *fakeSink) Publish(key, value []byte, headers ...kafkago.Header) { f.published++ }

func newSvc() (*Service, *fakeLeadStore, *fakeSink) {
	st := &fakeLeadStore{leads: map[string]Lead{
		"l1": {ID: "l1", DealerID: "d1", OrderID: "o1", Status: StatusPending, CostCredits: 10},
	}}
	sink := &fakeSink{}
	return &Service{Store: st, Events: sink, Service: "test"}, st, sink
}

func TestService_Create_PublishesEvent(t *testing.T) {
	svc, _, sink := newSvc()

	l, err := svc.Create(context.Background(), "d1", "o2")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, l.Status)
	assert.Equal(t, 1, sink.published)
}

func TestService_Accept(t *testing.T) {
	svc, _, sink := newSvc()

	l, err := svc.Accept(context.Background(), "l1", "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, l.Status)
	assert.NotNil(t, l.RespondedAt)
	assert.Equal(t, 1, sink.published)
}

func TestService_Accept_OneShot(t *testing.T) {
	svc, _, _ := newSvc()
	ctx := context.Background()

	_, err := svc.Accept(ctx, "l1", "d1")
	require.NoError(t, err)

	// bukan state machine: sekali dijawab, selesai
	_, err = svc.Accept(ctx, "l1", "d1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Decline(ctx, "l1", "d1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Accept_InsufficientCredits(t *testing.T) {
	svc, st, sink := newSvc()
	st.acceptErr = ErrInsufficientCredits

	_, err := svc.Accept(context.Background(), "l1", "d1")
	assert.ErrorIs(t, err, ErrInsufficientCredits)
	assert.Zero(t, sink.published)
}

func TestService_Decline(t *testing.T) {
	svc, _, sink := newSvc()

	l, err := svc.Decline(context.Background(), "l1", "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusDeclined, l.Status)
	assert.Equal(t, 1, sink.published)
}

func TestService_Accept_WrongDealer(t *testing.T) {
	svc, _, _ := newSvc()
	_, err := svc.Accept(context.Background(), "l1", "d2")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_StoreErrorPropagates(t *testing.T) {
	svc, st, _ := newSvc()
	boom := errors.New("db down")
	st.acceptErr = boom

	_, err := svc.Accept(context.Background(), "l1", "d1")
	assert.ErrorIs(t, err, boom)
}
