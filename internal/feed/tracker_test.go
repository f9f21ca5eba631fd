package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-detail-market.git/internal/orders"
)

func TestTracker_MergesFeedIntoInitialFetch(t *testing.T) {
	initial := []orders.Order{
		{ID: "a", Status: orders.StatusPending},
		{ID: "b", Status: orders.StatusAccepted},
	}
	events := make(chan Event)
	tr := NewTracker(initial, events)

	// insert yang sudah kebawa fetch -> no-op
	events <- Event{Kind: KindInsert, Order: orders.Order{ID: "a", Status: orders.StatusPending}}
	// update untuk row existing -> replace in place
	events <- Event{Kind: KindUpdate, Order: orders.Order{ID: "b", Status: orders.StatusInProgress}}
	// update untuk row yang fetch-nya kelewat -> prepend
	events <- Event{Kind: KindUpdate, Order: orders.Order{ID: "c", Status: orders.StatusCountered}}
	close(events)
	tr.Wait()

	got := tr.Orders()
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)

	b, ok := tr.Get("b")
	require.True(t, ok)
	assert.Equal(t, orders.StatusInProgress, b.Status)

	a, ok := tr.Get("a")
	require.True(t, ok)
	assert.Equal(t, orders.StatusPending, a.Status)
}

func TestTracker_DuplicateDelivery(t *testing.T) {
	events := make(chan Event)
	tr := NewTracker(nil, events)

	ev := Event{Kind: KindInsert, Order: orders.Order{ID: "x", Status: orders.StatusPending}}
	events <- ev
	events <- ev // at-least-once delivery
	close(events)
	tr.Wait()

	assert.Len(t, tr.Orders(), 1)
}
