package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-detail-market.git/internal/feed"
	kafkax "github.com/ariefcatur/go-detail-market.git/internal/kafka"
	"github.com/ariefcatur/go-detail-market.git/internal/orders"
	"github.com/ariefcatur/go-detail-market.git/internal/redisx"
)

// Service: fan-out setengah server dari change-notification feed. Baca event
// order dari Kafka, push ke channel pub/sub kedua peserta, refresh cache
// status. Engine tidak pernah push notifikasi sendiri — cuma lewat sini.
type Service struct {
	Redis       *redis.Client
	Log         *zap.SugaredLogger
	ServiceName string
}

// HandleOrderEvent dipasang sebagai handler consumer topic order events.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	var kind string
	var o orders.Order
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		kind, o = feed.KindInsert, p.Order
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		kind, o = feed.KindUpdate, p.Order
	default:
		return nil // ignore
	}

	// dedup via Redis (pakai event_id)
	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	msg := kafkax.MustMarshal(feed.Event{Kind: kind, Order: o})
	for _, ch := range []string{
		redisx.ClientOrdersChannel(o.ClientID),
		redisx.DealerOrdersChannel(o.DealerID),
	} {
		if err := s.Redis.Publish(ctx, ch, msg).Err(); err != nil {
			return err // belum commit offset, event akan dibaca ulang
		}
	}

	statusKey := fmt.Sprintf(redisx.KeyOrderStatus, o.ID)
	_ = s.Redis.Set(ctx, statusKey, kafkax.MustMarshal(o.StatusCacheEntry()), redisx.TTLStatusCache).Err()

	s.Log.Infow("order event fanned out",
		"event", env.EventType, "order_id", o.ID, "status", o.Status)
	return nil
}

// HandleLeadEvent meneruskan event lead ke channel lead dealer ybs.
func (s *Service) HandleLeadEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	switch env.EventType {
	case orders.EventLeadCreated, orders.EventLeadAccepted, orders.EventLeadDeclined:
	default:
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, "notifier", env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.LeadEventPayload](env.Payload)
	if err != nil {
		return err
	}
	ch := redisx.DealerLeadsChannel(p.DealerID)
	if err := s.Redis.Publish(ctx, ch, m.Value).Err(); err != nil {
		return err
	}

	s.Log.Infow("lead event fanned out", "event", env.EventType, "lead_id", p.LeadID)
	return nil
}
