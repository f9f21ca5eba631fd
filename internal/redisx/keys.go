package redisx

import (
	"fmt"
	"time"
)

const (
	// Cache status order: order_status:{order_id} -> {"status": "...", "updated_at": "..."}
	KeyOrderStatus = "order_status:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Channel notifikasi per actor; insert/update order milik actor di-push ke sini.
	ChanClientOrders = "orders:client:%s"
	ChanDealerOrders = "orders:dealer:%s"

	// Channel lead per dealer.
	ChanDealerLeads = "leads:dealer:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)

func ClientOrdersChannel(clientID string) string {
	return fmt.Sprintf(ChanClientOrders, clientID)
}

func DealerOrdersChannel(dealerID string) string {
	return fmt.Sprintf(ChanDealerOrders, dealerID)
}

func DealerLeadsChannel(dealerID string) string {
	return fmt.Sprintf(ChanDealerLeads, dealerID)
}
