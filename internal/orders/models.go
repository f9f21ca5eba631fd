package orders

import "time"

type Order struct {
	ID            string     `json:"id"`
	GigID         string     `json:"gig_id"`
	ClientID      string     `json:"client_id"`
	DealerID      string     `json:"dealer_id"`
	ProposedCents int        `json:"proposed_cents"`
	AgreedCents   *int       `json:"agreed_cents,omitempty"`
	Notes         string     `json:"notes,omitempty"`
	ScheduledDate string     `json:"scheduled_date,omitempty"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	OpenedAt      *time.Time `json:"opened_at,omitempty"` // viewed-tracking, belum dipakai logic
}

// EffectiveCents: harga yg berlaku sekarang (agreed kalau ada, else proposed).
func (o Order) EffectiveCents() int {
	if o.AgreedCents != nil {
		return *o.AgreedCents
	}
	return o.ProposedCents
}

// StatusCache: isi cache status order di Redis. Bawa kedua pemilik supaya
// endpoint status bisa cek akses dari cache tanpa ke DB.
type StatusCache struct {
	Status    Status    `json:"status"`
	ClientID  string    `json:"client_id"`
	DealerID  string    `json:"dealer_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o Order) StatusCacheEntry() StatusCache {
	return StatusCache{Status: o.Status, ClientID: o.ClientID, DealerID: o.DealerID, UpdatedAt: o.UpdatedAt}
}

type Gig struct {
	ID          string    `json:"id"`
	DealerID    string    `json:"dealer_id"`
	ServiceType string    `json:"service_type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	PriceCents  int       `json:"price_cents"`
	Location    string    `json:"location,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Review struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ClientID  string    `json:"client_id"`
	DealerID  string    `json:"dealer_id"`
	Rating    int       `json:"rating"` // 1..5
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Client dan Dealer sengaja dipisah jadi dua tipe (bukan satu struct dengan
// field role opsional) supaya field per role dijaga compiler.
type Client struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

type Dealer struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"-"`
	BusinessName string    `json:"business_name"`
	Location     string    `json:"location,omitempty"`
	Tier         string    `json:"tier"`
	Credits      int       `json:"credits"`
	Rating       float64   `json:"rating,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
