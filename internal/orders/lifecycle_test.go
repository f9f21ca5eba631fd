package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore meniru semantik repo: ownership + tabel transisi dicek di store,
// agreed_cents nil berarti carry forward.
type fakeStore struct {
	orders    map[string]Order
	updateErr error
	updates   int
}

func newFakeStore(os ...Order) *fakeStore {
	m := make(map[string]Order, len(os))
	for _, o := range os {
		m[o.ID] = o
	}
	return &fakeStore{orders: m}
}

func (f *fakeStore) Get(_ context.Context, orderID string) (Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, orderID, actorID string, role Role, to Status, agreedCents *int) (Order, error) {
	if f.updateErr != nil {
		return Order{}, f.updateErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return Order{}, ErrNotFound
	}
	if (role == RoleClient && o.ClientID != actorID) || (role == RoleDealer && o.DealerID != actorID) {
		return Order{}, ErrForbidden
	}
	if !CanTransition(role, o.Status, to) {
		return Order{}, ErrInvalidTransition
	}
	o.Status = to
	if agreedCents != nil {
		o.AgreedCents = agreedCents
	}
	o.UpdatedAt = time.Now().UTC()
	f.orders[orderID] = o
	f.updates++
	return o, nil
}

type fakeSink struct {
	published [][]byte
}

func (f *fakeSink) Publish(key, value []byte, headers ...kafkago.Header) {
	f.published = append(f.published, value)
}

func newEngine(st *fakeStore) (*Engine, *fakeSink) {
	sink := &fakeSink{}
	return &Engine{Store: st, Events: sink, Service: "test"}, sink
}

func pendingOrder() Order {
	return Order{
		ID: "o1", GigID: "g1", ClientID: "c1", DealerID: "d1",
		ProposedCents: 15000, Status: StatusPending,
	}
}

func TestEngine_HappyPath(t *testing.T) {
	st := newFakeStore(pendingOrder())
	e, sink := newEngine(st)
	ctx := context.Background()

	// dealer counter 150 -> 130
	o, err := e.DealerCounter(ctx, "o1", "d1", 13000)
	require.NoError(t, err)
	assert.Equal(t, StatusCountered, o.Status)
	require.NotNil(t, o.AgreedCents)
	assert.Equal(t, 13000, *o.AgreedCents)

	// client terima counter; harga dibawa dari row, bukan dikarang ulang
	o, err = e.AcceptCounter(ctx, "o1", "c1")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, o.Status)
	require.NotNil(t, o.AgreedCents)
	assert.Equal(t, 13000, *o.AgreedCents)

	o, err = e.MarkPaid(ctx, "o1", "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, o.Status)

	o, err = e.StartWork(ctx, "o1", "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, o.Status)

	o, err = e.CompleteWork(ctx, "o1", "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)

	assert.Equal(t, 5, st.updates)
	assert.Len(t, sink.published, 5) // satu event per transisi sukses
}

func TestEngine_IllegalSkipRejectedBeforeWrite(t *testing.T) {
	st := newFakeStore(pendingOrder())
	e, sink := newEngine(st)

	_, err := e.MarkPaid(context.Background(), "o1", "d1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, st.updates) // ditolak sebelum nyentuh store
	assert.Empty(t, sink.published)
}

func TestEngine_TerminalImmutable(t *testing.T) {
	done := pendingOrder()
	done.Status = StatusCompleted
	st := newFakeStore(done)
	e, _ := newEngine(st)
	ctx := context.Background()

	_, err := e.Cancel(ctx, "o1", "c1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.DealerAccept(ctx, "o1", "d1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = e.StartWork(ctx, "o1", "d1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, st.updates)
}

func TestEngine_AcceptCounterWithoutPrice(t *testing.T) {
	o := pendingOrder()
	o.Status = StatusCountered // row countered tapi agreed_cents hilang
	st := newFakeStore(o)
	e, _ := newEngine(st)

	_, err := e.AcceptCounter(context.Background(), "o1", "c1")
	assert.ErrorIs(t, err, ErrNoCounterPrice)
	assert.Zero(t, st.updates)
}

func TestEngine_StartWorkFromPaid(t *testing.T) {
	o := pendingOrder()
	o.Status = StatusPaid
	st := newFakeStore(o)
	e, _ := newEngine(st)

	got, err := e.StartWork(context.Background(), "o1", "d1")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, got.Status)
}

func TestEngine_StoreErrorPropagatesUnchanged(t *testing.T) {
	st := newFakeStore(pendingOrder())
	boom := errors.New("connection reset")
	st.updateErr = boom
	e, sink := newEngine(st)

	_, err := e.DealerAccept(context.Background(), "o1", "d1")
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.published) // gagal = tidak ada event
}

func TestEngine_WrongActorForbidden(t *testing.T) {
	st := newFakeStore(pendingOrder())
	e, _ := newEngine(st)

	_, err := e.DealerAccept(context.Background(), "o1", "d-other")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestEngine_CancelFromPendingAndCountered(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusCountered} {
		o := pendingOrder()
		o.Status = from
		st := newFakeStore(o)
		e, _ := newEngine(st)

		got, err := e.Cancel(context.Background(), "o1", "c1")
		require.NoError(t, err, string(from))
		assert.Equal(t, StatusRejected, got.Status)
	}
}

func TestEngine_UnknownOrder(t *testing.T) {
	e, _ := newEngine(newFakeStore())
	_, err := e.Cancel(context.Background(), "nope", "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}
