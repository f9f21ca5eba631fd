package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventLeadCreated        = "LeadCreated"
	EventLeadAccepted       = "LeadAccepted"
	EventLeadDeclined       = "LeadDeclined"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "detail-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // biasanya order_id
	Payload       json.RawMessage `json:"payload"`
}

// ---- Payload tipe per event ----

type OrderCreatedPayload struct {
	Order Order `json:"order"`
}

type OrderStatusChangedPayload struct {
	Order Order  `json:"order"`
	From  Status `json:"from"`
	To    Status `json:"to"`
	Actor Role   `json:"actor"`
}

type LeadEventPayload struct {
	LeadID      string `json:"lead_id"`
	DealerID    string `json:"dealer_id"`
	OrderID     string `json:"order_id"`
	CostCredits int    `json:"cost_credits,omitempty"`
}
