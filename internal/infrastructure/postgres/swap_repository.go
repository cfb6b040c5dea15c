package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookswap/bookswap/internal/domain/swap"
)

const swapColumns = `id, swap_id, requester_id, owner_id, book_id, offered_book_id, counter_offered_book_id, status, message, counter_offer_message, requester_completed_at, owner_completed_at, completed_at, requester_rating, owner_rating, requester_feedback, owner_feedback, cancelled_by, created_at, updated_at`

// SwapRepository implements swap.Repository.
type SwapRepository struct {
	pool *pgxpool.Pool
}

func NewSwapRepository(pool *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{pool: pool}
}

func (r *SwapRepository) Create(ctx context.Context, s *swap.SwapRequest) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO swap_requests
		(swap_id, requester_id, owner_id, book_id, offered_book_id, status, message, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`, s.SwapID, s.RequesterID, s.OwnerID, s.BookID, s.OfferedBookID, s.Status, s.Message, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *SwapRepository) GetByID(ctx context.Context, swapID uuid.UUID) (*swap.SwapRequest, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+swapColumns+` FROM swap_requests WHERE swap_id=$1`, swapID)
	return scanSwap(row)
}

func (r *SwapRepository) List(ctx context.Context, filter swap.Filter, limit, offset int) ([]*swap.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests`
	args := []interface{}{}
	idx := 1
	if filter.UserID != nil {
		switch {
		case filter.Party != nil && *filter.Party == swap.PartyRequester:
			query += whereOrAnd(idx) + " requester_id=$" + itoa(idx)
		case filter.Party != nil && *filter.Party == swap.PartyOwner:
			query += whereOrAnd(idx) + " owner_id=$" + itoa(idx)
		default:
			query += whereOrAnd(idx) + " (requester_id=$" + itoa(idx) + " OR owner_id=$" + itoa(idx) + ")"
		}
		args = append(args, *filter.UserID)
		idx++
	}
	if filter.Status != nil {
		query += whereOrAnd(idx) + " status=$" + itoa(idx)
		args = append(args, *filter.Status)
		idx++
	}
	query += " ORDER BY created_at DESC LIMIT $" + itoa(idx) + " OFFSET $" + itoa(idx+1)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSwaps(rows)
}

func (r *SwapRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*swap.SwapRequest, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+swapColumns+` FROM swap_requests
		WHERE requester_id=$1 OR owner_id=$1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectSwaps(rows)
}

// ApplyStatusChange commits the transition only when the row still holds
// the expected status; it reports whether a row was affected.
func (r *SwapRepository) ApplyStatusChange(ctx context.Context, change swap.StatusChange) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE swap_requests
		SET status=$3,
			counter_offered_book_id=COALESCE($4, counter_offered_book_id),
			counter_offer_message=COALESCE($5, counter_offer_message),
			cancelled_by=COALESCE($6, cancelled_by),
			updated_at=$7
		WHERE swap_id=$1 AND status=$2
	`, change.SwapID, change.Expected, change.Next, change.CounterOfferedBookID, change.CounterOfferMessage, change.CancelledBy, change.UpdatedAt)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

// RecordCompletion sets one party's confirmation and, when the counterpart
// has already confirmed, promotes the row to COMPLETED in the same
// statement so the dual-confirmation gate cannot lose an update.
func (r *SwapRepository) RecordCompletion(ctx context.Context, c swap.Completion) (bool, error) {
	query := `
		UPDATE swap_requests
		SET requester_completed_at=$2, requester_rating=$3, requester_feedback=$4,
			completed_at=CASE WHEN owner_completed_at IS NOT NULL THEN $2 ELSE completed_at END,
			status=CASE WHEN owner_completed_at IS NOT NULL THEN 'COMPLETED' ELSE status END,
			updated_at=$2
		WHERE swap_id=$1 AND status='ACCEPTED' AND requester_completed_at IS NULL
	`
	if c.Party == swap.PartyOwner {
		query = `
		UPDATE swap_requests
		SET owner_completed_at=$2, owner_rating=$3, owner_feedback=$4,
			completed_at=CASE WHEN requester_completed_at IS NOT NULL THEN $2 ELSE completed_at END,
			status=CASE WHEN requester_completed_at IS NOT NULL THEN 'COMPLETED' ELSE status END,
			updated_at=$2
		WHERE swap_id=$1 AND status='ACCEPTED' AND owner_completed_at IS NULL
	`
	}
	ct, err := r.pool.Exec(ctx, query, c.SwapID, c.CompletedAt, c.Rating, c.Feedback)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func collectSwaps(rows pgx.Rows) ([]*swap.SwapRequest, error) {
	var swaps []*swap.SwapRequest
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, s)
	}
	return swaps, rows.Err()
}

func scanSwap(row pgx.Row) (*swap.SwapRequest, error) {
	var s swap.SwapRequest
	if err := row.Scan(
		&s.ID, &s.SwapID, &s.RequesterID, &s.OwnerID, &s.BookID, &s.OfferedBookID,
		&s.CounterOfferedBookID, &s.Status, &s.Message, &s.CounterOfferMessage,
		&s.RequesterCompletedAt, &s.OwnerCompletedAt, &s.CompletedAt,
		&s.RequesterRating, &s.OwnerRating, &s.RequesterFeedback, &s.OwnerFeedback,
		&s.CancelledBy, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
