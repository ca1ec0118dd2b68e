package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"pravacash/internal/models"
)

// ErrTransactionNotFound represents missing transaction rows. An id owned by
// a different owner is reported identically.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionRepository persists ledger transactions. Every operation is
// scoped by owner; rows are never visible across owners.
type TransactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository returns repository instance.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// ListByOwner returns the owner's transactions in ascending chronological
// order (date, then creation time).
func (r *TransactionRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	const query = `
		SELECT id, owner_id, description, kind, amount, date, created_at
		FROM transactions
		WHERE owner_id = $1
		ORDER BY date ASC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// GetByID fetches a single transaction scoped to its owner.
func (r *TransactionRepository) GetByID(ctx context.Context, id, ownerID string) (*models.Transaction, error) {
	const query = `
		SELECT id, owner_id, description, kind, amount, date, created_at
		FROM transactions
		WHERE id = $1 AND owner_id = $2
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, id, ownerID)
	var tx models.Transaction
	if err := row.Scan(&tx.ID, &tx.OwnerID, &tx.Description, &tx.Kind, &tx.Amount, &tx.Date, &tx.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// Create inserts a new transaction, assigning an id when missing.
func (r *TransactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	const query = `
		INSERT INTO transactions (id, owner_id, description, kind, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING created_at
	`
	return r.db.QueryRowContext(ctx, query,
		tx.ID,
		tx.OwnerID,
		tx.Description,
		tx.Kind,
		tx.Amount,
		tx.Date,
	).Scan(&tx.CreatedAt)
}

// Update rewrites all mutable fields of an owner's transaction. It reports
// false when no row matched, which covers both missing and foreign ids.
func (r *TransactionRepository) Update(ctx context.Context, tx *models.Transaction) (bool, error) {
	const query = `
		UPDATE transactions
		SET description = $1, kind = $2, amount = $3, date = $4
		WHERE id = $5 AND owner_id = $6
	`
	res, err := r.db.ExecContext(ctx, query, tx.Description, tx.Kind, tx.Amount, tx.Date, tx.ID, tx.OwnerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Delete removes an owner's transaction, reporting false when absent.
func (r *TransactionRepository) Delete(ctx context.Context, id, ownerID string) (bool, error) {
	const query = `DELETE FROM transactions WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// Clear removes all of the owner's transactions.
func (r *TransactionRepository) Clear(ctx context.Context, ownerID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE owner_id = $1`, ownerID)
	return err
}

// ListAll returns every transaction across owners, newest first. Admin feed.
func (r *TransactionRepository) ListAll(ctx context.Context) ([]models.Transaction, error) {
	const query = `
		SELECT id, owner_id, description, kind, amount, date, created_at
		FROM transactions
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTransactions(rows)
}

// CountSince counts transactions created at or after the given instant.
func (r *TransactionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM transactions WHERE created_at >= $1`, since,
	).Scan(&count)
	return count, err
}

// CountByKind counts transactions per kind across all owners.
func (r *TransactionRepository) CountByKind(ctx context.Context) (models.KindCounts, error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE kind = 'income'),
			COUNT(*) FILTER (WHERE kind = 'expense')
		FROM transactions
	`
	var counts models.KindCounts
	err := r.db.QueryRowContext(ctx, query).Scan(&counts.Income, &counts.Expense)
	return counts, err
}

// AverageAmount returns the mean amount across all transactions, 0 when none.
func (r *TransactionRepository) AverageAmount(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(amount), 0) FROM transactions`,
	).Scan(&avg)
	return avg, err
}

// AggregateByOwner returns income/expense sums per owner. Owners without
// transactions are included with zero sums so they participate in extrema.
func (r *TransactionRepository) AggregateByOwner(ctx context.Context) ([]models.OwnerAggregate, error) {
	const query = `
		SELECT
			o.id,
			COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'income'), 0),
			COALESCE(SUM(t.amount) FILTER (WHERE t.kind = 'expense'), 0)
		FROM owners o
		LEFT JOIN transactions t ON t.owner_id = o.id
		GROUP BY o.id
		ORDER BY o.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggs []models.OwnerAggregate
	for rows.Next() {
		var agg models.OwnerAggregate
		if err := rows.Scan(&agg.OwnerID, &agg.Income, &agg.Expense); err != nil {
			return nil, err
		}
		aggs = append(aggs, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return aggs, nil
}

func scanTransactions(rows *sql.Rows) ([]models.Transaction, error) {
	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(
			&tx.ID,
			&tx.OwnerID,
			&tx.Description,
			&tx.Kind,
			&tx.Amount,
			&tx.Date,
			&tx.CreatedAt,
		); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return txs, nil
}
