package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrNotReviewable = errors.New("order is not completed or already reviewed")

// CreateReview: hanya untuk order completed milik client ybs, satu review per
// order. Dua-duanya dicek di INSERT ... SELECT supaya atomic.
func (r *Repo) CreateReview(ctx context.Context, orderID, clientID string, rating int, comment string) (Review, error) {
	if rating < 1 || rating > 5 {
		return Review{}, fmt.Errorf("rating out of range: %d", rating)
	}

	id := uuid.NewString()
	row := r.DB.QueryRow(ctx, `
		INSERT INTO reviews(id, order_id, client_id, dealer_id, rating, comment)
		SELECT $1, o.id, o.client_id, o.dealer_id, $4, NULLIF($5,'')
		FROM orders o
		WHERE o.id=$2 AND o.client_id=$3 AND o.status='completed'
		  AND NOT EXISTS (SELECT 1 FROM reviews x WHERE x.order_id=o.id)
		RETURNING id, order_id, client_id, dealer_id, rating, COALESCE(comment,''), created_at`,
		id, orderID, clientID, rating, comment)

	var rv Review
	err := row.Scan(&rv.ID, &rv.OrderID, &rv.ClientID, &rv.DealerID, &rv.Rating, &rv.Comment, &rv.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrNotReviewable
	}
	if err != nil {
		return Review{}, err
	}
	return rv, nil
}

func (r *Repo) ListDealerReviews(ctx context.Context, dealerID string) ([]Review, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, client_id, dealer_id, rating, COALESCE(comment,''), created_at
		FROM reviews WHERE dealer_id=$1 ORDER BY created_at DESC`, dealerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rv Review
		if err := rows.Scan(&rv.ID, &rv.OrderID, &rv.ClientID, &rv.DealerID, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}

func (r *Repo) DealerRating(ctx context.Context, dealerID string) (avg float64, count int, err error) {
	err = r.DB.QueryRow(ctx, `
		SELECT COALESCE(AVG(rating),0), COUNT(*) FROM reviews WHERE dealer_id=$1`, dealerID).
		Scan(&avg, &count)
	return avg, count, err
}
