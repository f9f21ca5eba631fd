// Package feed adalah sisi consumer dari change-notification feed: subscription
// per actor di atas Redis pub/sub. Notifier worker yang publish (lihat
// internal/notifier); di sini cuma terima, decode, dan teruskan ke channel Go.
package feed

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-detail-market.git/internal/orders"
	"github.com/ariefcatur/go-detail-market.git/internal/redisx"
)

const (
	KindInsert = "insert"
	KindUpdate = "update"
)

// Event: satu notifikasi insert/update untuk order milik actor.
type Event struct {
	Kind  string       `json:"kind"` // insert | update
	Order orders.Order `json:"order"`
}

type Subscription struct {
	ps       *redis.PubSub
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription(ps *redis.PubSub, buf int) *Subscription {
	return &Subscription{ps: ps, events: make(chan Event, buf), done: make(chan struct{})}
}

// Subscribe buka channel notifikasi untuk satu actor. Unsubscribe wajib
// dipanggil saat view di-teardown; kalau tidak, goroutine + koneksi pubsub
// hidup terus selama proses jalan.
func Subscribe(ctx context.Context, rdb *redis.Client, role orders.Role, actorID string, log *zap.SugaredLogger) (*Subscription, error) {
	var channel string
	switch role {
	case orders.RoleClient:
		channel = redisx.ClientOrdersChannel(actorID)
	case orders.RoleDealer:
		channel = redisx.DealerOrdersChannel(actorID)
	default:
		return nil, orders.ErrForbidden
	}

	ps := rdb.Subscribe(ctx, channel)
	// pastikan subscribe berhasil sebelum return
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}

	s := newSubscription(ps, 64)
	go s.forward(ps.Channel(), channel, log)
	return s, nil
}

// forward jalan sampai src ditutup atau Unsubscribe dipanggil. Send ke events
// harus di-select bareng done: kalau consumer sudah pergi dan buffer penuh,
// send polos bakal parkir selamanya.
func (s *Subscription) forward(src <-chan *redis.Message, channel string, log *zap.SugaredLogger) {
	defer close(s.events)
	for m := range src {
		var ev Event
		if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
			if log != nil {
				log.Warnw("feed decode", "channel", channel, "err", err)
			}
			continue
		}
		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// Events: channel ditutup setelah Unsubscribe.
func (s *Subscription) Events() <-chan Event { return s.events }

func (s *Subscription) Unsubscribe() error {
	s.doneOnce.Do(func() { close(s.done) })
	if s.ps == nil {
		return nil
	}
	return s.ps.Close()
}
