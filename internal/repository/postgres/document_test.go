package postgres

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletd/internal/apperrors"
	"walletd/internal/models"
	"walletd/internal/testutil"
)

func Test_DocumentRepo(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	createUser := func(t *testing.T, tx pgx.Tx, email string) models.User {
		user, err := (&UserRepo{DB: tx}).CreateUser(t.Context(), "Document Owner", email, "hash")
		require.NoError(t, err)
		return user
	}

	t.Run("create document ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}
			user := createUser(t, tx, "doc-create@example.com")

			document, err := r.CreateDocument(t.Context(), user.ID, "invoice.pdf")

			require.NoError(t, err)
			assert.NotEmpty(t, document.ID)
			assert.Equal(t, user.ID, document.UserID)
			assert.Equal(t, "invoice.pdf", document.Name)
			assert.Equal(t, models.DocumentStatusPending, document.Status, "new documents start pending")
			assert.WithinDuration(t, time.Now(), document.CreatedAt, time.Second)
		})
	})

	t.Run("get document ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}
			user := createUser(t, tx, "doc-get@example.com")
			created, err := r.CreateDocument(t.Context(), user.ID, "report.pdf")
			require.NoError(t, err)

			got, err := r.GetDocument(t.Context(), created.ID)

			require.NoError(t, err)
			assert.Equal(t, created.ID, got.ID)
			assert.Equal(t, created.Name, got.Name)
		})
	})

	t.Run("get document not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}

			_, err := r.GetDocument(t.Context(), uuid.New())

			assert.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound, "should return well known error")
		})
	})

	t.Run("list documents for user only", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}
			first := createUser(t, tx, "doc-first@example.com")
			second := createUser(t, tx, "doc-second@example.com")

			_, err := r.CreateDocument(t.Context(), first.ID, "mine.pdf")
			require.NoError(t, err)
			_, err = r.CreateDocument(t.Context(), second.ID, "theirs.pdf")
			require.NoError(t, err)

			got, err := r.ListDocuments(t.Context(), first.ID)

			require.NoError(t, err)
			require.Len(t, got, 1, "no cross-user leakage")
			assert.Equal(t, "mine.pdf", got[0].Name)
		})
	})

	t.Run("update status ok", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}
			user := createUser(t, tx, "doc-status@example.com")
			created, err := r.CreateDocument(t.Context(), user.ID, "slow.pdf")
			require.NoError(t, err)

			updated, err := r.UpdateStatus(t.Context(), created.ID, models.DocumentStatusCompleted)

			require.NoError(t, err)
			assert.Equal(t, models.DocumentStatusCompleted, updated.Status)
			assert.True(t, !updated.UpdatedAt.Before(created.UpdatedAt), "UpdatedAt should move forward")
		})
	})

	t.Run("update status not found", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}

			_, err := r.UpdateStatus(t.Context(), uuid.New(), models.DocumentStatusFailed)

			assert.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrDocumentNotFound, "should return well known error")
		})
	})

	t.Run("list pending created before", func(t *testing.T) {
		testutil.WithTx(pg.Pool, t, func(tx pgx.Tx) {
			r := DocumentRepo{DB: tx}
			user := createUser(t, tx, "doc-pending@example.com")

			created, err := r.CreateDocument(t.Context(), user.ID, "ripe.pdf")
			require.NoError(t, err)

			// Completed documents must not be picked up again
			completed, err := r.CreateDocument(t.Context(), user.ID, "done.pdf")
			require.NoError(t, err)
			_, err = r.UpdateStatus(t.Context(), completed.ID, models.DocumentStatusCompleted)
			require.NoError(t, err)

			ripe, err := r.ListPendingCreatedBefore(t.Context(), time.Now().Add(time.Minute), 10)
			require.NoError(t, err)
			require.Len(t, ripe, 1)
			assert.Equal(t, created.ID, ripe[0].ID)

			// Nothing is ripe if the cutoff is in the past
			notRipe, err := r.ListPendingCreatedBefore(t.Context(), time.Now().Add(-time.Minute), 10)
			require.NoError(t, err)
			assert.Empty(t, notRipe)
		})
	})
}
