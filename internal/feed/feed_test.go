package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

func feedMsg(t *testing.T, ev Event) *redis.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return &redis.Message{Payload: string(b)}
}

func TestSubscription_ForwardDecodes(t *testing.T) {
	s := newSubscription(nil, 4)
	src := make(chan *redis.Message, 4)
	go s.forward(src, "ch", nil)

	src <- feedMsg(t, Event{Kind: KindInsert, Order: orders.Order{ID: "o1"}})
	src <- &redis.Message{Payload: "bukan json"} // di-skip, bukan fatal
	src <- feedMsg(t, Event{Kind: KindUpdate, Order: orders.Order{ID: "o1", Status: orders.StatusAccepted}})
	close(src)

	ev := <-s.Events()
	assert.Equal(t, KindInsert, ev.Kind)
	ev = <-s.Events()
	assert.Equal(t, KindUpdate, ev.Kind)

	_, ok := <-s.Events()
	assert.False(t, ok, "channel harus tertutup setelah src habis")
}

// Consumer pergi tanpa drain: buffer penuh, lalu Unsubscribe. Goroutine
// forward tidak boleh parkir di send; channel events harus tetap tertutup.
func TestSubscription_UnsubscribeUnblocksPendingSend(t *testing.T) {
	s := newSubscription(nil, 1)
	src := make(chan *redis.Message, 2)
	go s.forward(src, "ch", nil)

	src <- feedMsg(t, Event{Kind: KindInsert, Order: orders.Order{ID: "o1"}})
	src <- feedMsg(t, Event{Kind: KindUpdate, Order: orders.Order{ID: "o1"}})

	// kasih waktu send kedua nyangkut di buffer penuh
	time.Sleep(20 * time.Millisecond)
	require.NoError(t, s.Unsubscribe())

	closed := make(chan struct{})
	go func() {
		for range s.Events() {
		}
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("forward goroutine masih hidup setelah Unsubscribe")
	}

	// Unsubscribe idempotent
	require.NoError(t, s.Unsubscribe())
}
