package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletd/internal/apperrors"
	"walletd/internal/models"
	"walletd/internal/repository"
)

// WalletService owns the balance of record and the transaction log
type WalletService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *WalletService {
	return &WalletService{storage: storage}
}

// GetBalance returns the user balance
// A user without a balance row gets a fresh zero balance instead of an error.
// Mutations below treat a missing balance as an error on purpose: reads are
// forgiving, writes are not
func (s *WalletService) GetBalance(ctx context.Context, userID uuid.UUID) (models.Balance, error) {
	balance, err := s.storage.Balance().GetBalance(ctx, userID, false)

	switch {
	case err == nil:
		return balance, nil
	case errors.Is(err, apperrors.ErrBalanceNotFound):
		balance, err = s.storage.Balance().CreateBalance(ctx, userID, decimal.Zero)

		// A concurrent call may have created the row between the read and
		// the insert, the row is there either way: read it back
		if errors.Is(err, apperrors.ErrBalanceAlreadyExists) {
			return s.storage.Balance().GetBalance(ctx, userID, false)
		}
		return balance, err
	default:
		return balance, fmt.Errorf("can't get balance. Err: %w", err)
	}
}

// AddBalance recharges the user balance and appends a 'recharge' transaction
// Amount must be positive: apperrors.ErrAmountInvalid otherwise
// Missing balance: apperrors.ErrBalanceNotFound
func (s *WalletService) AddBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error) {
	return s.mutate(ctx, userID, amount, description, models.TransactionTypeRecharge)
}

// DeductBalance spends from the user balance and appends an 'expense' transaction
// Amount above the current balance: apperrors.ErrBalanceInsufficient, nothing changes
func (s *WalletService) DeductBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error) {
	return s.mutate(ctx, userID, amount, description, models.TransactionTypeExpense)
}

// ListTransactions returns the user transaction log, newest first
func (s *WalletService) ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	transactions, err := s.storage.Transaction().ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list transactions. Err: %w", err)
	}

	return transactions, nil
}

// mutate applies a balance change and logs it in one transaction
// The balance row is locked for the duration, so concurrent mutations
// for the same user are serialized and no update is lost
func (s *WalletService) mutate(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string, txType string) (models.Transaction, models.Balance, error) {
	var transaction models.Transaction
	var balance models.Balance

	if !amount.IsPositive() {
		return transaction, balance, apperrors.ErrAmountInvalid
	}

	err := s.storage.InTx(ctx, func(tx repository.Storage) error {
		current, err := tx.Balance().GetBalance(ctx, userID, true)
		if err != nil {
			return err
		}

		newAmount := current.Amount.Add(amount)
		if txType == models.TransactionTypeExpense {
			newAmount = current.Amount.Sub(amount)
			if newAmount.IsNegative() {
				return apperrors.ErrBalanceInsufficient
			}
		}

		balance, err = tx.Balance().UpdateAmount(ctx, userID, newAmount)
		if err != nil {
			return err
		}

		transaction, err = tx.Transaction().CreateTransaction(ctx, models.Transaction{
			UserID:      userID,
			Type:        txType,
			Amount:      amount,
			Description: description,
		})
		return err
	})
	if err != nil {
		return transaction, balance, err
	}

	return transaction, balance, nil
}
