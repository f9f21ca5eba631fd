package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS clients (
    id UUID PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    password_hash BYTEA NOT NULL,
    name TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS dealers (
    id UUID PRIMARY KEY,
    email TEXT UNIQUE NOT NULL,
    password_hash BYTEA NOT NULL,
    business_name TEXT NOT NULL,
    location TEXT,
    tier TEXT NOT NULL DEFAULT 'starter',
    credits INT NOT NULL DEFAULT 0,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS gigs (
    id UUID PRIMARY KEY,
    dealer_id UUID NOT NULL REFERENCES dealers(id),
    service_type TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    price_cents INT NOT NULL,
    location TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS orders (
    id UUID PRIMARY KEY,
    gig_id UUID NOT NULL REFERENCES gigs(id),
    client_id UUID NOT NULL REFERENCES clients(id),
    dealer_id UUID NOT NULL REFERENCES dealers(id),
    proposed_cents INT NOT NULL,
    agreed_cents INT,
    notes TEXT,
    scheduled_date TEXT,
    status TEXT NOT NULL DEFAULT 'pending',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    opened_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS leads (
    id UUID PRIMARY KEY,
    dealer_id UUID NOT NULL REFERENCES dealers(id),
    order_id UUID NOT NULL REFERENCES orders(id),
    status TEXT NOT NULL DEFAULT 'pending',
    cost_credits INT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    responded_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS reviews (
    id UUID PRIMARY KEY,
    order_id UUID NOT NULL UNIQUE REFERENCES orders(id),
    client_id UUID NOT NULL REFERENCES clients(id),
    dealer_id UUID NOT NULL REFERENCES dealers(id),
    rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
    comment TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_orders_client_id ON orders(client_id);
CREATE INDEX IF NOT EXISTS idx_orders_dealer_id ON orders(dealer_id);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);
CREATE INDEX IF NOT EXISTS idx_leads_dealer_id ON leads(dealer_id);
CREATE INDEX IF NOT EXISTS idx_reviews_dealer_id ON reviews(dealer_id);
`

func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
