package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Default currency for freshly created balances
const CurrencyUSD = "USD"

// Balance is the single balance of record per user
type Balance struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Amount    decimal.Decimal
	Currency  string
	UpdatedAt time.Time
}
