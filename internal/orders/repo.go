package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderColumns = `id, gig_id, client_id, dealer_id, proposed_cents, agreed_cents,
	COALESCE(notes,''), COALESCE(scheduled_date,''), status, created_at, updated_at, opened_at`

// versi ber-alias untuk query join (lihat ListBookings)
const orderColumnsO = `o.id, o.gig_id, o.client_id, o.dealer_id, o.proposed_cents, o.agreed_cents,
	COALESCE(o.notes,''), COALESCE(o.scheduled_date,''), o.status, o.created_at, o.updated_at, o.opened_at`

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	var status string
	err := row.Scan(&o.ID, &o.GigID, &o.ClientID, &o.DealerID, &o.ProposedCents, &o.AgreedCents,
		&o.Notes, &o.ScheduledDate, &status, &o.CreatedAt, &o.UpdatedAt, &o.OpenedAt)
	if err != nil {
		return Order{}, err
	}
	o.Status = Status(status)
	return o, nil
}

// CreateOrder: service request dari client terhadap satu gig. dealer_id diambil
// dari gig, bukan dari input client. Status awal selalu pending.
func (r *Repo) CreateOrder(ctx context.Context, gigID, clientID string, proposedCents int, notes, scheduledDate string) (Order, error) {
	var dealerID string
	err := r.DB.QueryRow(ctx, `SELECT dealer_id FROM gigs WHERE id=$1`, gigID).Scan(&dealerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("gig not found: %s", gigID)
		}
		return Order{}, err
	}

	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO orders(id, gig_id, client_id, dealer_id, proposed_cents, notes, scheduled_date, status)
		VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),NULLIF($7,''),'pending')
		RETURNING `+orderColumns,
		id, gigID, clientID, dealerID, proposedCents, notes, scheduledDate)
	return scanOrder(row)
}

func (r *Repo) Get(ctx context.Context, orderID string) (Order, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, orderID)
	o, err := scanOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	return o, err
}

// UpdateStatus menjalankan satu edge dari tabel transisi. Tabel dicek lagi di
// sini (bukan cuma di engine) dan UPDATE-nya conditional ke status yang
// dibaca, jadi write yang stale atau ilegal kena 0 row.
// agreedCents nil -> kolom agreed_cents tidak disentuh (carry forward).
func (r *Repo) UpdateStatus(ctx context.Context, orderID, actorID string, role Role, to Status, agreedCents *int) (Order, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	cur, err := scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, orderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrNotFound
		}
		return Order{}, err
	}

	switch role {
	case RoleClient:
		if cur.ClientID != actorID {
			return Order{}, ErrForbidden
		}
	case RoleDealer:
		if cur.DealerID != actorID {
			return Order{}, ErrForbidden
		}
	default:
		return Order{}, ErrForbidden
	}

	if !CanTransition(role, cur.Status, to) {
		return Order{}, ErrInvalidTransition
	}

	row := tx.QueryRow(ctx, `
		UPDATE orders
		SET status=$3, agreed_cents=COALESCE($4, agreed_cents), updated_at=now()
		WHERE id=$1 AND status=$2
		RETURNING `+orderColumns,
		orderID, string(cur.Status), string(to), agreedCents)
	updated, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, ErrStaleStatus
		}
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return updated, nil
}

func (r *Repo) ListByClient(ctx context.Context, clientID string, statuses ...Status) ([]Order, error) {
	return r.list(ctx, "client_id", clientID, statuses)
}

func (r *Repo) ListByDealer(ctx context.Context, dealerID string, statuses ...Status) ([]Order, error) {
	return r.list(ctx, "dealer_id", dealerID, statuses)
}

func (r *Repo) list(ctx context.Context, col, actorID string, statuses []Status) ([]Order, error) {
	q := `SELECT ` + orderColumns + ` FROM orders WHERE ` + col + `=$1`
	args := []any{actorID}
	if len(statuses) > 0 {
		ss := make([]string, 0, len(statuses))
		for _, s := range statuses {
			ss = append(ss, string(s))
		}
		q += ` AND status = ANY($2)`
		args = append(args, ss)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// BookingRow: order + field joined yang dibutuhkan projection (lihat display.go).
type BookingRow struct {
	Order
	ServiceType     string
	CounterpartName string
	Location        string
}

// ListBookings mengambil order milik actor plus data lawan transaksinya dalam
// satu query: client melihat nama bisnis dealer, dealer melihat nama client.
func (r *Repo) ListBookings(ctx context.Context, role Role, actorID string) ([]BookingRow, error) {
	var q string
	switch role {
	case RoleClient:
		q = `SELECT ` + orderColumnsO + `, COALESCE(g.service_type,''), COALESCE(d.business_name,''), COALESCE(d.location,'')
			FROM orders o
			LEFT JOIN gigs g ON g.id = o.gig_id
			LEFT JOIN dealers d ON d.id = o.dealer_id
			WHERE o.client_id=$1 ORDER BY o.created_at DESC`
	case RoleDealer:
		q = `SELECT ` + orderColumnsO + `, COALESCE(g.service_type,''), COALESCE(c.name,''), ''
			FROM orders o
			LEFT JOIN gigs g ON g.id = o.gig_id
			LEFT JOIN clients c ON c.id = o.client_id
			WHERE o.dealer_id=$1 ORDER BY o.created_at DESC`
	default:
		return nil, ErrForbidden
	}

	rows, err := r.DB.Query(ctx, q, actorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BookingRow
	for rows.Next() {
		var b BookingRow
		var status string
		err := rows.Scan(&b.ID, &b.GigID, &b.ClientID, &b.DealerID, &b.ProposedCents, &b.AgreedCents,
			&b.Notes, &b.ScheduledDate, &status, &b.CreatedAt, &b.UpdatedAt, &b.OpenedAt,
			&b.ServiceType, &b.CounterpartName, &b.Location)
		if err != nil {
			return nil, err
		}
		b.Status = Status(status)
		out = append(out, b)
	}
	return out, rows.Err()
}
