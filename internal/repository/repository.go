package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletd/internal/models"
)

// User repository interface
type UserRepo interface {
	// Create user
	// If user with the email exists already has to return apperrors.ErrUserAlreadyExists
	CreateUser(ctx context.Context, name string, email string, hashedPassword string) (models.User, error)

	// Get user by id or email
	// If user not found must return apperrors.ErrUserNotFound
	GetUserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
}

// Balance repository interface
// Exactly one balance row exists per user
type BalanceRepo interface {
	// Create balance for user with the given starting amount
	// If the user already has a balance must return apperrors.ErrBalanceAlreadyExists
	CreateBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Balance, error)

	// Get user balance
	// If balance not found must return apperrors.ErrBalanceNotFound
	// forUpdate locks the row until the surrounding transaction ends,
	// so concurrent mutations for the same user are serialized
	GetBalance(ctx context.Context, userID uuid.UUID, forUpdate bool) (models.Balance, error)

	// Replace balance amount with the given value
	// If balance not found must return apperrors.ErrBalanceNotFound
	UpdateAmount(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (models.Balance, error)
}

// Transaction repository interface
// Rows are append only: no update or delete methods on purpose
type TransactionRepo interface {
	CreateTransaction(ctx context.Context, t models.Transaction) (models.Transaction, error)

	// List user transactions, newest first
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

// Document repository interface
type DocumentRepo interface {
	// Create document in 'pending' status
	CreateDocument(ctx context.Context, userID uuid.UUID, name string) (models.Document, error)

	// Get document by id
	// If document not found must return apperrors.ErrDocumentNotFound
	GetDocument(ctx context.Context, documentID uuid.UUID) (models.Document, error)

	// List user documents, newest first
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]models.Document, error)

	// Set document status
	// If document not found must return apperrors.ErrDocumentNotFound
	UpdateStatus(ctx context.Context, documentID uuid.UUID, status string) (models.Document, error)

	// List documents still in 'pending' status created before the given moment
	// Feed for the document processor
	ListPendingCreatedBefore(ctx context.Context, createdBefore time.Time, limit int) ([]models.Document, error)
}

// Storage combines all repositories and lets callers run several
// of them inside one database transaction
type Storage interface {
	User() UserRepo
	Balance() BalanceRepo
	Transaction() TransactionRepo
	Document() DocumentRepo

	// InTx runs fn against transactional storage
	// Commits if fn returns nil, rolls back otherwise
	InTx(ctx context.Context, fn func(s Storage) error) error
}
