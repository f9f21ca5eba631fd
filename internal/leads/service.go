package leads

import (
	"context"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/ariefcatur/go-detail-market.git/internal/kafka"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

type Store interface {
	Create(ctx context.Context, dealerID, orderID string) (Lead, error)
	Accept(ctx context.Context, leadID, dealerID string) (Lead, error)
	Decline(ctx context.Context, leadID, dealerID string) (Lead, error)
	ListByDealer(ctx context.Context, dealerID string) ([]Lead, error)
}

type EventSink interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type Service struct {
	Store   Store
	Events  EventSink
	Log     *zap.SugaredLogger
	Service string
}

func (s *Service) Create(ctx context.Context, dealerID, orderID string) (Lead, error) {
	l, err := s.Store.Create(ctx, dealerID, orderID)
	if err != nil {
		return Lead{}, err
	}
	s.publish(orders.EventLeadCreated, l)
	return l, nil
}

func (s *Service) Accept(ctx context.Context, leadID, dealerID string) (Lead, error) {
	l, err := s.Store.Accept(ctx, leadID, dealerID)
	if err != nil {
		return Lead{}, err
	}
	s.publish(orders.EventLeadAccepted, l)
	if s.Log != nil {
		s.Log.Infow("lead accepted", "lead_id", l.ID, "dealer_id", dealerID, "cost", l.CostCredits)
	}
	return l, nil
}

func (s *Service) Decline(ctx context.Context, leadID, dealerID string) (Lead, error) {
	l, err := s.Store.Decline(ctx, leadID, dealerID)
	if err != nil {
		return Lead{}, err
	}
	s.publish(orders.EventLeadDeclined, l)
	return l, nil
}

func (s *Service) ListByDealer(ctx context.Context, dealerID string) ([]Lead, error) {
	return s.Store.ListByDealer(ctx, dealerID)
}

func (s *Service) publish(eventType string, l Lead) {
	if s.Events == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.Service,
		CorrelationID: l.OrderID,
		Payload: kafkax.MustMarshal(orders.LeadEventPayload{
			LeadID: l.ID, DealerID: l.DealerID, OrderID: l.OrderID, CostCredits: l.CostCredits,
		}),
	}
	s.Events.Publish(orders.PartitionKey(l.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
