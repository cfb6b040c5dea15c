package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookswap/bookswap/internal/domain/alert"
)

const alertColumns = `id, alert_id, user_id, name, expression, enabled, created_at, updated_at`

// AlertRepository implements alert.Repository.
type AlertRepository struct {
	pool *pgxpool.Pool
}

func NewAlertRepository(pool *pgxpool.Pool) *AlertRepository {
	return &AlertRepository{pool: pool}
}

func (r *AlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO alerts (alert_id, user_id, name, expression, enabled, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, a.AlertID, a.UserID, a.Name, a.Expression, a.Enabled, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uuid.UUID) (*alert.Alert, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+alertColumns+` FROM alerts WHERE alert_id=$1`, alertID)
	return scanAlert(row)
}

func (r *AlertRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*alert.Alert, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+alertColumns+` FROM alerts WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepository) ListEnabled(ctx context.Context) ([]*alert.Alert, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+alertColumns+` FROM alerts WHERE enabled ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectAlerts(rows)
}

func (r *AlertRepository) Delete(ctx context.Context, alertID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM alerts WHERE alert_id=$1`, alertID)
	return err
}

func collectAlerts(rows pgx.Rows) ([]*alert.Alert, error) {
	var alerts []*alert.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

func scanAlert(row pgx.Row) (*alert.Alert, error) {
	var a alert.Alert
	if err := row.Scan(&a.ID, &a.AlertID, &a.UserID, &a.Name, &a.Expression, &a.Enabled, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
