package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletd/internal/apperrors"
	"walletd/internal/handlers/render"
	"walletd/internal/handlers/userctx"
	"walletd/internal/logger"
	"walletd/internal/models"
)

type balanceJSON struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type transactionJSON struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toBalanceJSON(b models.Balance) balanceJSON {
	amount, _ := b.Amount.Float64()
	return balanceJSON{Amount: amount, Currency: b.Currency}
}

func toTransactionJSON(t models.Transaction) transactionJSON {
	amount, _ := t.Amount.Float64()
	return transactionJSON{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      amount,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

func toTransactionsJSON(tr []models.Transaction) []transactionJSON {
	transactions := make([]transactionJSON, 0, len(tr))
	for _, t := range tr {
		transactions = append(transactions, toTransactionJSON(t))
	}
	return transactions
}

func handleGetBalance(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Balance balanceJSON `json:"balance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		balance, err := walletService.GetBalance(r.Context(), user.ID)

		switch err {
		case nil:
			render.JSON(w, response{Balance: toBalanceJSON(balance)})
		default:
			l.Error("Failed to get balance", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleListTransactions(walletService walletService, l logger.Logger) http.Handler {
	type response struct {
		Transactions []transactionJSON `json:"transactions"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		transactions, err := walletService.ListTransactions(r.Context(), user.ID)

		switch err {
		case nil:
			render.JSON(w, response{Transactions: toTransactionsJSON(transactions)})
		default:
			l.Error("Failed to list transactions", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

type mutateBalanceFunc func(r *http.Request, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error)

// handleMutateBalance serves both add-balance and deduct-balance:
// the two differ only in the wallet call and the transaction type
func handleMutateBalance(mutate mutateBalanceFunc, l logger.Logger) http.Handler {
	type request struct {
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	type response struct {
		Transaction transactionJSON `json:"transaction"`
		NewBalance  float64         `json:"newBalance"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		transaction, balance, err := mutate(r, user.ID, data.Amount, data.Description)

		switch {
		case err == nil:
			amount, _ := balance.Amount.Float64()
			render.JSONWithStatus(w, response{
				Transaction: toTransactionJSON(transaction),
				NewBalance:  amount,
			}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrAmountInvalid):
			render.ServiceError(w, "Amount must be greater than 0", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrBalanceInsufficient):
			render.ServiceError(w, "Insufficient balance", http.StatusBadRequest)
		case errors.Is(err, apperrors.ErrBalanceNotFound):
			render.ServiceError(w, "Balance not found", http.StatusBadRequest)
		default:
			l.Error("Failed to mutate balance", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleAddBalance(walletService walletService, l logger.Logger) http.Handler {
	return handleMutateBalance(func(r *http.Request, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error) {
		return walletService.AddBalance(r.Context(), userID, amount, description)
	}, l)
}

func handleDeductBalance(walletService walletService, l logger.Logger) http.Handler {
	return handleMutateBalance(func(r *http.Request, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error) {
		return walletService.DeductBalance(r.Context(), userID, amount, description)
	}, l)
}
