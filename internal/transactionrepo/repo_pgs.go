// Package transactionrepo manages repository layer of transaction records.
package transactionrepo

import (
	"context"

	"github.com/Roboid537/banking-api/internal/domain"
	"github.com/Roboid537/banking-api/pkg/dbpkg"
	"github.com/Roboid537/banking-api/pkg/errorspkg"

	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

// RepoPGS facilitates transaction record repository layer logic.
type RepoPGS struct {
	db dbpkg.SQLInterface
}

// NewRepoPGS returns transaction RepoPGS.
func NewRepoPGS(db dbpkg.SQLInterface) *RepoPGS {
	return &RepoPGS{db: db}
}

func translate(err error) error {
	if dbpkg.IsSerializationFailure(err) {
		return domain.ErrTxConflict
	}

	if dbpkg.IsUnavailable(err) {
		return errorspkg.ErrStoreUnavailable
	}

	return errorspkg.ErrInternal
}

const createQuery = `
INSERT INTO
    transactions (account_id, amount, kind, description)
VALUES
    ($1, $2, $3, $4)
RETURNING id, account_id, amount, kind, description, created_at
`

// Create appends the transaction record and then returns it.
func (r *RepoPGS) Create(ctx context.Context, accountID int64, amount string, kind domain.TransactionKind, description string) (domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	row := r.db.QueryRowContext(ctx, createQuery, accountID, amount, kind, description)

	var tr domain.Transaction

	err := row.Scan(
		&tr.ID,
		&tr.AccountID,
		&tr.Amount,
		&tr.Kind,
		&tr.Description,
		&tr.CreatedAt,
	)

	if err != nil {
		l.Error().Err(err).Send()

		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Constraint {
			case "transactions_account_id_fkey":
				return tr, domain.ErrAccountNotFound
			case "transactions_amount_check":
				return tr, domain.ErrInvalidAmount
			}
		}

		return tr, translate(err)
	}

	return tr, nil
}

const listQuery = `
SELECT
	id, account_id, amount, kind, description, created_at
FROM transactions
WHERE account_id = $1
ORDER BY created_at DESC, id DESC
`

// ListByAccount returns all transaction records for the given account,
// newest first. Records created in the same instant order by descending id.
func (r *RepoPGS) ListByAccount(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	l := zerolog.Ctx(ctx)

	rows, err := r.db.QueryContext(ctx, listQuery, accountID)
	if err != nil {
		l.Error().Err(err).Send()
		return nil, translate(err)
	}
	defer rows.Close()

	items := []domain.Transaction{}

	for rows.Next() {
		var tr domain.Transaction
		if err := rows.Scan(
			&tr.ID,
			&tr.AccountID,
			&tr.Amount,
			&tr.Kind,
			&tr.Description,
			&tr.CreatedAt,
		); err != nil {
			l.Error().Err(err).Send()
			return nil, translate(err)
		}

		items = append(items, tr)
	}

	if err := rows.Err(); err != nil {
		l.Error().Err(err).Send()
		return nil, translate(err)
	}

	return items, nil
}
