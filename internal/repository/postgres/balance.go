package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"walletd/internal/apperrors"
	"walletd/internal/models"
)

type BalanceRepo struct {
	DB DBTX
}

const createBalance = `-- name: CreateBalance
INSERT INTO balances (id, user_id, amount, currency)
VALUES ($1, $2, $3, $4)
RETURNING id, user_id, amount, currency, updated_at
`

func (r *BalanceRepo) CreateBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Balance, error) {
	rows, _ := r.DB.Query(ctx, createBalance, uuid.New(), userID, amount, models.CurrencyUSD)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return balance, apperrors.ErrBalanceAlreadyExists
		}

		return balance, fmt.Errorf("db error: %w", err)
	}

	return balance, nil
}

const getBalance = `-- name: GetBalance
SELECT id, user_id, amount, currency, updated_at FROM balances
WHERE user_id = $1
`

// Same query with a row lock, to be used inside a transaction only
const getBalanceForUpdate = getBalance + `FOR UPDATE
`

func (r *BalanceRepo) GetBalance(ctx context.Context, userID uuid.UUID, forUpdate bool) (models.Balance, error) {
	query := getBalance
	if forUpdate {
		query = getBalanceForUpdate
	}

	rows, _ := r.DB.Query(ctx, query, userID)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrBalanceNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

const updateAmount = `-- name: UpdateAmount
UPDATE balances
SET amount = $2, updated_at = now()
WHERE user_id = $1
RETURNING id, user_id, amount, currency, updated_at
`

func (r *BalanceRepo) UpdateAmount(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Balance, error) {
	rows, _ := r.DB.Query(ctx, updateAmount, userID, amount)
	balance, err := pgx.CollectOneRow(rows, rowToBalance)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, pgx.ErrNoRows):
		return balance, apperrors.ErrBalanceNotFound
	default:
		return balance, fmt.Errorf("db error: %w", err)
	}
}

func rowToBalance(row pgx.CollectableRow) (models.Balance, error) {
	var b models.Balance
	err := row.Scan(&b.ID, &b.UserID, &b.Amount, &b.Currency, &b.UpdatedAt)
	return b, err
}
