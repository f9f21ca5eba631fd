package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-detail-market.git/internal/kafka"
)

// Store: subset repo yang dibutuhkan engine. Dipisah interface biar bisa
// di-fake di test tanpa DB.
type Store interface {
	Get(ctx context.Context, orderID string) (Order, error)
	UpdateStatus(ctx context.Context, orderID, actorID string, role Role, to Status, agreedCents *int) (Order, error)
}

type EventSink interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Engine memegang aturan lifecycle order: validasi transisi per role sebelum
// write, publish event setelah write sukses. Error dari store diteruskan apa
// adanya, tanpa retry; state lokal tidak pernah berubah sebelum write confirmed.
type Engine struct {
	Store   Store
	Events  EventSink
	Log     *zap.SugaredLogger
	Service string
}

// ---- Client ops ----

// AcceptCounter: countered -> accepted. agreed_cents sudah ada di row dari
// counter dealer dan di-carry forward; operasi ini tidak mengarang harga.
func (e *Engine) AcceptCounter(ctx context.Context, orderID, clientID string) (Order, error) {
	cur, err := e.Store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	if cur.AgreedCents == nil {
		return Order{}, ErrNoCounterPrice
	}
	return e.transition(ctx, cur, clientID, RoleClient, StatusAccepted, nil)
}

// Cancel: pending|countered -> rejected.
func (e *Engine) Cancel(ctx context.Context, orderID, clientID string) (Order, error) {
	cur, err := e.Store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	return e.transition(ctx, cur, clientID, RoleClient, StatusRejected, nil)
}

// ---- Dealer ops ----

func (e *Engine) DealerAccept(ctx context.Context, orderID, dealerID string) (Order, error) {
	return e.dealerTransition(ctx, orderID, dealerID, StatusAccepted, nil)
}

func (e *Engine) DealerReject(ctx context.Context, orderID, dealerID string) (Order, error) {
	return e.dealerTransition(ctx, orderID, dealerID, StatusRejected, nil)
}

// DealerCounter: pending -> countered dengan harga baru.
func (e *Engine) DealerCounter(ctx context.Context, orderID, dealerID string, counterCents int) (Order, error) {
	return e.dealerTransition(ctx, orderID, dealerID, StatusCountered, &counterCents)
}

func (e *Engine) MarkPaid(ctx context.Context, orderID, dealerID string) (Order, error) {
	return e.dealerTransition(ctx, orderID, dealerID, StatusPaid, nil)
}

// StartWork: accepted|paid -> in_progress.
func (e *Engine) StartWork(ctx context.Context, orderID, dealerID string) (Order, error) {
	return e.dealerTransition(ctx, orderID, dealerID, StatusInProgress, nil)
}

func (e *Engine) CompleteWork(ctx context.Context, orderID, dealerID string) (Order, error) {
	return e.dealerTransition(ctx, orderID, dealerID, StatusCompleted, nil)
}

func (e *Engine) dealerTransition(ctx context.Context, orderID, dealerID string, to Status, agreed *int) (Order, error) {
	cur, err := e.Store.Get(ctx, orderID)
	if err != nil {
		return Order{}, err
	}
	return e.transition(ctx, cur, dealerID, RoleDealer, to, agreed)
}

// transition: cek tabel dulu pakai status in-memory, baru write. Store re-cek
// dengan conditional update, jadi race tetap aman (0 row -> ErrStaleStatus).
func (e *Engine) transition(ctx context.Context, cur Order, actorID string, role Role, to Status, agreed *int) (Order, error) {
	if !CanTransition(role, cur.Status, to) {
		return Order{}, ErrInvalidTransition
	}

	updated, err := e.Store.UpdateStatus(ctx, cur.ID, actorID, role, to, agreed)
	if err != nil {
		return Order{}, err
	}

	e.publishStatusChanged(updated, cur.Status, to, role)
	if e.Log != nil {
		e.Log.Infow("order transition",
			"order_id", updated.ID, "from", cur.Status, "to", to, "actor", role)
	}
	return updated, nil
}

func (e *Engine) publishStatusChanged(o Order, from, to Status, actor Role) {
	if e.Events == nil {
		return
	}
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderStatusChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      e.Service,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderStatusChangedPayload{
			Order: o, From: from, To: to, Actor: actor,
		}),
	}
	e.Events.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderStatusChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
