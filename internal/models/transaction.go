package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionTypeRecharge = "recharge"
	TransactionTypeExpense  = "expense"
)

// Transaction is an append-only ledger entry
// Never updated or deleted after creation
type Transaction struct {
	ID          uuid.UUID
	CreatedAt   time.Time
	UserID      uuid.UUID
	Type        string
	Amount      decimal.Decimal
	Description string
}
