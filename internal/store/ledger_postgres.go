package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/nainix/marketplace-backend/internal/models"
)

// PostgresLedger stores billing records in the billing_transactions table
// created by database.InitPostgresTables. Rows are only ever inserted.
type PostgresLedger struct {
	db *sql.DB
}

func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Append(ctx context.Context, tx *models.BillingTransaction) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO billing_transactions
			(id, user_id, role, feature, amount_usd, currency, status, job_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)`,
		tx.ID, tx.UserID, string(tx.Role), string(tx.Feature), tx.AmountUSD,
		tx.Currency, tx.Status, tx.JobID, tx.CreatedAt,
	)
	return mapPostgresErr(err)
}

func (l *PostgresLedger) ListByUser(ctx context.Context, userID string) ([]models.BillingTransaction, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, user_id, role, feature, amount_usd, currency, status, COALESCE(job_id, ''), created_at
		FROM billing_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.BillingTransaction, 0)
	for rows.Next() {
		var (
			tx            models.BillingTransaction
			role, feature string
		)
		if err := rows.Scan(&tx.ID, &tx.UserID, &role, &feature, &tx.AmountUSD,
			&tx.Currency, &tx.Status, &tx.JobID, &tx.CreatedAt); err != nil {
			return nil, err
		}
		tx.Role = models.Role(role)
		tx.Feature = models.Feature(feature)
		out = append(out, tx)
	}
	return out, rows.Err()
}

const pgUniqueViolation = "23505"

func mapPostgresErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
		return ErrDuplicate
	}
	return err
}
