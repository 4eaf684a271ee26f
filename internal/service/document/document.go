package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"walletd/internal/models"
	"walletd/internal/repository"
)

// DocumentService creates documents and tracks their generation status
type DocumentService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *DocumentService {
	return &DocumentService{storage: storage}
}

// Generate creates a document in 'pending' status and returns right away
// The actual generation is picked up later by the Processor
func (s *DocumentService) Generate(ctx context.Context, userID uuid.UUID, name string) (models.Document, error) {
	document, err := s.storage.Document().CreateDocument(ctx, userID, name)
	if err != nil {
		return document, fmt.Errorf("can't create document. Err: %w", err)
	}

	return document, nil
}

// List returns user documents, newest first
func (s *DocumentService) List(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	documents, err := s.storage.Document().ListDocuments(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("can't list documents. Err: %w", err)
	}

	return documents, nil
}

// Get returns one document by id
func (s *DocumentService) Get(ctx context.Context, documentID uuid.UUID) (models.Document, error) {
	return s.storage.Document().GetDocument(ctx, documentID)
}

// SetStatus moves the document to the given status
func (s *DocumentService) SetStatus(ctx context.Context, documentID uuid.UUID, status string) (models.Document, error) {
	return s.storage.Document().UpdateStatus(ctx, documentID, status)
}

// ListPendingCreatedBefore returns pending documents old enough to be processed
func (s *DocumentService) ListPendingCreatedBefore(ctx context.Context, createdBefore time.Time, limit int) ([]models.Document, error) {
	return s.storage.Document().ListPendingCreatedBefore(ctx, createdBefore, limit)
}
