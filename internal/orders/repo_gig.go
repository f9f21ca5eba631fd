package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *Repo) CreateGig(ctx context.Context, g Gig) (Gig, error) {
	g.ID = uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO gigs(id, dealer_id, service_type, title, description, price_cents, location)
		VALUES ($1,$2,$3,$4,NULLIF($5,''),$6,NULLIF($7,''))
		RETURNING created_at`,
		g.ID, g.DealerID, g.ServiceType, g.Title, g.Description, g.PriceCents, g.Location)
	if err := row.Scan(&g.CreatedAt); err != nil {
		return Gig{}, err
	}
	return g, nil
}

func (r *Repo) GetGig(ctx context.Context, gigID string) (Gig, error) {
	row := r.DB.QueryRow(ctx, `
		SELECT id, dealer_id, service_type, title, COALESCE(description,''), price_cents, COALESCE(location,''), created_at
		FROM gigs WHERE id=$1`, gigID)
	var g Gig
	err := row.Scan(&g.ID, &g.DealerID, &g.ServiceType, &g.Title, &g.Description, &g.PriceCents, &g.Location, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Gig{}, ErrNotFound
	}
	return g, err
}

func (r *Repo) ListGigs(ctx context.Context) ([]Gig, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, dealer_id, service_type, title, COALESCE(description,''), price_cents, COALESCE(location,''), created_at
		FROM gigs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Gig
	for rows.Next() {
		var g Gig
		if err := rows.Scan(&g.ID, &g.DealerID, &g.ServiceType, &g.Title, &g.Description, &g.PriceCents, &g.Location, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}
