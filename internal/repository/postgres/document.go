package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"walletd/internal/apperrors"
	"walletd/internal/models"
)

type DocumentRepo struct {
	DB DBTX
}

const createDocument = `-- name: CreateDocument
INSERT INTO documents (id, user_id, name, status)
VALUES ($1, $2, $3, $4)
RETURNING id, created_at, updated_at, user_id, name, status
`

func (r *DocumentRepo) CreateDocument(ctx context.Context, userID uuid.UUID, name string) (models.Document, error) {
	rows, _ := r.DB.Query(ctx, createDocument, uuid.New(), userID, name, models.DocumentStatusPending)
	document, err := pgx.CollectOneRow(rows, rowToDocument)
	if err != nil {
		return document, fmt.Errorf("db error: %w", err)
	}

	return document, nil
}

const getDocument = `-- name: GetDocument
SELECT id, created_at, updated_at, user_id, name, status FROM documents
WHERE id = $1
`

func (r *DocumentRepo) GetDocument(ctx context.Context, documentID uuid.UUID) (models.Document, error) {
	rows, _ := r.DB.Query(ctx, getDocument, documentID)
	document, err := pgx.CollectOneRow(rows, rowToDocument)

	switch {
	case err == nil:
		return document, nil
	case errors.Is(err, pgx.ErrNoRows):
		return document, apperrors.ErrDocumentNotFound
	default:
		return document, fmt.Errorf("db error: %w", err)
	}
}

const listDocuments = `-- name: ListDocuments
SELECT id, created_at, updated_at, user_id, name, status FROM documents
WHERE user_id = $1
ORDER BY created_at DESC
`

func (r *DocumentRepo) ListDocuments(ctx context.Context, userID uuid.UUID) ([]models.Document, error) {
	rows, _ := r.DB.Query(ctx, listDocuments, userID)
	documents, err := pgx.CollectRows(rows, rowToDocument)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return documents, nil
}

const updateStatus = `-- name: UpdateStatus
UPDATE documents
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING id, created_at, updated_at, user_id, name, status
`

func (r *DocumentRepo) UpdateStatus(ctx context.Context, documentID uuid.UUID, status string) (models.Document, error) {
	rows, _ := r.DB.Query(ctx, updateStatus, documentID, status)
	document, err := pgx.CollectOneRow(rows, rowToDocument)

	switch {
	case err == nil:
		return document, nil
	case errors.Is(err, pgx.ErrNoRows):
		return document, apperrors.ErrDocumentNotFound
	default:
		return document, fmt.Errorf("db error: %w", err)
	}
}

const listPendingCreatedBefore = `-- name: ListPendingCreatedBefore
SELECT id, created_at, updated_at, user_id, name, status FROM documents
WHERE status = $1 AND created_at < $2
ORDER BY created_at
LIMIT $3
`

func (r *DocumentRepo) ListPendingCreatedBefore(ctx context.Context, createdBefore time.Time, limit int) ([]models.Document, error) {
	rows, _ := r.DB.Query(ctx, listPendingCreatedBefore, models.DocumentStatusPending, createdBefore, limit)
	documents, err := pgx.CollectRows(rows, rowToDocument)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return documents, nil
}

func rowToDocument(row pgx.CollectableRow) (models.Document, error) {
	var d models.Document
	err := row.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt, &d.UserID, &d.Name, &d.Status)
	return d, err
}
