package feed

import (
	"sync"

	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

// Tracker: read model satu view — hasil initial fetch di-merge dengan event
// feed pakai aturan reconcile di orders.OrderList. Tidak peduli urutan antara
// fetch dan event pertama; duplicate delivery aman.
type Tracker struct {
	mu   sync.Mutex
	list *orders.OrderList
	done chan struct{}
}

// NewTracker mulai konsumsi events sampai channel-nya ditutup (Unsubscribe
// di Subscription yang menutupnya).
func NewTracker(initial []orders.Order, events <-chan Event) *Tracker {
	t := &Tracker{
		list: orders.NewOrderList(initial),
		done: make(chan struct{}),
	}
	go func() {
		defer close(t.done)
		for ev := range events {
			t.mu.Lock()
			switch ev.Kind {
			case KindInsert:
				t.list.ApplyInsert(ev.Order)
			case KindUpdate:
				t.list.ApplyUpdate(ev.Order)
			}
			t.mu.Unlock()
		}
	}()
	return t
}

func (t *Tracker) Orders() []orders.Order {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list.Orders()
}

func (t *Tracker) Get(orderID string) (orders.Order, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.list.Get(orderID)
}

// Wait nge-block sampai loop event selesai (channel sumber ditutup).
func (t *Tracker) Wait() { <-t.done }
