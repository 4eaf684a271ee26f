package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"walletd/internal/models"
	"walletd/internal/repository"
)

type walletService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (models.Balance, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type documentService interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Document, error)
}

// Data is the dashboard aggregate for one user
type Data struct {
	Balance      models.Balance
	Documents    []models.Document
	Transactions []models.Transaction
}

type DashboardService struct {
	storage   repository.Storage
	wallets   walletService
	documents documentService
}

func NewService(storage repository.Storage, wallets walletService, documents documentService) (*DashboardService, error) {
	if storage == nil || wallets == nil || documents == nil {
		return nil, errors.New("storage and services must not be nil")
	}

	return &DashboardService{
		storage:   storage,
		wallets:   wallets,
		documents: documents,
	}, nil
}

// Get fetches balance, documents and transactions for the user concurrently
// Fails as a whole if the user does not exist or any sub-fetch fails:
// no partial results on purpose
func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (Data, error) {
	var data Data

	// Unknown user fails the whole call before any fan-out
	if _, err := s.storage.User().GetUserByID(ctx, userID); err != nil {
		return data, err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		balance, err := s.wallets.GetBalance(ctx, userID)
		data.Balance = balance
		return err
	})

	g.Go(func() error {
		documents, err := s.documents.List(ctx, userID)
		data.Documents = documents
		return err
	})

	g.Go(func() error {
		transactions, err := s.wallets.ListTransactions(ctx, userID)
		data.Transactions = transactions
		return err
	})

	if err := g.Wait(); err != nil {
		return data, fmt.Errorf("can't collect dashboard data. Err: %w", err)
	}

	return data, nil
}
