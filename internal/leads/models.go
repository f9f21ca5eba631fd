package leads

import "time"

// Lead: akses eksklusif atas satu service request yang dijual ke dealer.
// One-shot accept/decline, tidak ada tabel transisi lanjutan.
type LeadStatus string

const (
	StatusPending  LeadStatus = "pending"
	StatusAccepted LeadStatus = "accepted"
	StatusDeclined LeadStatus = "declined"
)

type Lead struct {
	ID          string     `json:"id"`
	DealerID    string     `json:"dealer_id"`
	OrderID     string     `json:"order_id"`
	Status      LeadStatus `json:"status"`
	CostCredits int        `json:"cost_credits"`
	CreatedAt   time.Time  `json:"created_at"`
	RespondedAt *time.Time `json:"responded_at,omitempty"`
}

type Tier string

const (
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
	TierElite   Tier = "elite"
)

// Harga lead flat per tier langganan dealer; tidak ada faktor lain.
var tierCost = map[Tier]int{
	TierStarter: 10,
	TierPro:     7,
	TierElite:   5,
}

func LeadCost(t Tier) int {
	if c, ok := tierCost[t]; ok {
		return c
	}
	return tierCost[TierStarter]
}
