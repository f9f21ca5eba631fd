package leads

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound            = errors.New("lead not found or not pending")
	ErrInsufficientCredits = errors.New("not enough credits")
)

type Repo struct{ DB *pgxpool.Pool }

const leadColumns = `id, dealer_id, order_id, status, cost_credits, created_at, responded_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	var status string
	err := row.Scan(&l.ID, &l.DealerID, &l.OrderID, &status, &l.CostCredits, &l.CreatedAt, &l.RespondedAt)
	if err != nil {
		return Lead{}, err
	}
	l.Status = LeadStatus(status)
	return l, nil
}

// Create: harga lead dipatok dari tier dealer saat lead dibuat, bukan saat
// di-accept — ganti tier belakangan tidak mengubah lead yang sudah jalan.
func (r *Repo) Create(ctx context.Context, dealerID, orderID string) (Lead, error) {
	var tier string
	if err := r.DB.QueryRow(ctx, `SELECT tier FROM dealers WHERE id=$1`, dealerID).Scan(&tier); err != nil {
		return Lead{}, err
	}
	cost := LeadCost(Tier(tier))

	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO leads(id, dealer_id, order_id, status, cost_credits)
		VALUES ($1,$2,$3,'pending',$4)
		RETURNING `+leadColumns,
		id, dealerID, orderID, cost)
	return scanLead(row)
}

// Accept: lock lead + saldo credit dealer (FOR UPDATE) -> potong credit ->
// tandai accepted. Kalau credit kurang, tidak ada perubahan yang di-commit.
func (r *Repo) Accept(ctx context.Context, leadID, dealerID string) (Lead, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Lead{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	l, err := scanLead(tx.QueryRow(ctx, `
		SELECT `+leadColumns+` FROM leads
		WHERE id=$1 AND dealer_id=$2 AND status='pending' FOR UPDATE`, leadID, dealerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Lead{}, ErrNotFound
		}
		return Lead{}, err
	}

	var credits int
	if err := tx.QueryRow(ctx, `SELECT credits FROM dealers WHERE id=$1 FOR UPDATE`, dealerID).Scan(&credits); err != nil {
		return Lead{}, err
	}
	if credits < l.CostCredits {
		return Lead{}, ErrInsufficientCredits // rollback via defer
	}

	if _, err := tx.Exec(ctx, `UPDATE dealers SET credits = credits - $2 WHERE id=$1`, dealerID, l.CostCredits); err != nil {
		return Lead{}, err
	}

	now := time.Now().UTC()
	if _, err := tx.Exec(ctx, `UPDATE leads SET status='accepted', responded_at=$2 WHERE id=$1`, leadID, now); err != nil {
		return Lead{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Lead{}, err
	}
	l.Status = StatusAccepted
	l.RespondedAt = &now
	return l, nil
}

// Decline gratis dan final.
func (r *Repo) Decline(ctx context.Context, leadID, dealerID string) (Lead, error) {
	row := r.DB.QueryRow(ctx, `
		UPDATE leads SET status='declined', responded_at=now()
		WHERE id=$1 AND dealer_id=$2 AND status='pending'
		RETURNING `+leadColumns, leadID, dealerID)
	l, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return l, err
}

func (r *Repo) ListByDealer(ctx context.Context, dealerID string) ([]Lead, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+leadColumns+` FROM leads WHERE dealer_id=$1 ORDER BY created_at DESC`, dealerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
