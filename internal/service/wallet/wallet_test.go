package wallet

import (
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletd/internal/apperrors"
	"walletd/internal/models"
	"walletd/internal/repository/postgres"
	"walletd/internal/testutil"
)

func Test_WalletService(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Begin new db transaction and create WalletService over it
	// Rollback transaction when test stops
	withTx := func(dbpool *pgxpool.Pool, t *testing.T, fn func(s *WalletService, tx pgx.Tx)) {
		testutil.WithTx(dbpool, t, func(tx pgx.Tx) {
			fn(NewService(postgres.NewStorage(tx)), tx)
		})
	}

	// Every wallet operation needs an owner, most need a seeded balance too
	createUser := func(t *testing.T, tx pgx.Tx, email string, balance int64) models.User {
		storage := postgres.NewStorage(tx)

		user, err := storage.User().CreateUser(t.Context(), "Wallet Owner", email, "hash")
		require.NoError(t, err)

		_, err = storage.Balance().CreateBalance(t.Context(), user.ID, decimal.NewFromInt(balance))
		require.NoError(t, err)

		return user
	}

	t.Run("GetBalance", func(t *testing.T) {
		t.Run("existing balance ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "get@example.com", 1000)

				balance, err := s.GetBalance(t.Context(), user.ID)

				require.NoError(t, err)
				assert.True(t, balance.Amount.Equal(decimal.NewFromInt(1000)))
				assert.Equal(t, models.CurrencyUSD, balance.Currency)
			})
		})

		t.Run("missing balance auto created", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user, err := postgres.NewStorage(tx).User().CreateUser(t.Context(), "No Balance", "bare@example.com", "hash")
				require.NoError(t, err)

				balance, err := s.GetBalance(t.Context(), user.ID)

				require.NoError(t, err)
				assert.True(t, balance.Amount.IsZero(), "auto created balance should be zero")
				assert.Equal(t, user.ID, balance.UserID)

				// The row is persisted, second read returns the same balance
				again, err := s.GetBalance(t.Context(), user.ID)
				require.NoError(t, err)
				assert.Equal(t, balance.ID, again.ID)
			})
		})
	})

	t.Run("AddBalance", func(t *testing.T) {
		t.Run("recharge ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "add@example.com", 1000)

				transaction, balance, err := s.AddBalance(t.Context(), user.ID, decimal.NewFromInt(250), "salary")

				require.NoError(t, err)
				assert.True(t, balance.Amount.Equal(decimal.NewFromInt(1250)))
				assert.Equal(t, models.TransactionTypeRecharge, transaction.Type)
				assert.True(t, transaction.Amount.Equal(decimal.NewFromInt(250)))
				assert.Equal(t, "salary", transaction.Description)

				transactions, err := s.ListTransactions(t.Context(), user.ID)
				require.NoError(t, err)
				require.Len(t, transactions, 1, "exactly one transaction should be logged")
			})
		})

		t.Run("zero amount fail", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "zero@example.com", 1000)

				_, _, err := s.AddBalance(t.Context(), user.ID, decimal.Zero, "nothing")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrAmountInvalid)
			})
		})

		t.Run("negative amount fail", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "negative@example.com", 1000)

				_, _, err := s.AddBalance(t.Context(), user.ID, decimal.NewFromInt(-10), "sneaky")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrAmountInvalid)

				// Nothing changed and nothing was logged
				balance, err := s.GetBalance(t.Context(), user.ID)
				require.NoError(t, err)
				assert.True(t, balance.Amount.Equal(decimal.NewFromInt(1000)))

				transactions, err := s.ListTransactions(t.Context(), user.ID)
				require.NoError(t, err)
				assert.Empty(t, transactions)
			})
		})

		t.Run("missing balance fail", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user, err := postgres.NewStorage(tx).User().CreateUser(t.Context(), "No Balance", "nobalance@example.com", "hash")
				require.NoError(t, err)

				_, _, err = s.AddBalance(t.Context(), user.ID, decimal.NewFromInt(10), "ghost")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrBalanceNotFound)
			})
		})
	})

	t.Run("DeductBalance", func(t *testing.T) {
		t.Run("expense ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "deduct@example.com", 1000)

				transaction, balance, err := s.DeductBalance(t.Context(), user.ID, decimal.NewFromInt(300), "groceries")

				require.NoError(t, err)
				assert.True(t, balance.Amount.Equal(decimal.NewFromInt(700)))
				assert.Equal(t, models.TransactionTypeExpense, transaction.Type)
				assert.True(t, transaction.Amount.Equal(decimal.NewFromInt(300)))
			})
		})

		t.Run("spend everything ok", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "broke@example.com", 1000)

				_, balance, err := s.DeductBalance(t.Context(), user.ID, decimal.NewFromInt(1000), "all in")

				require.NoError(t, err)
				assert.True(t, balance.Amount.IsZero())
			})
		})

		t.Run("insufficient balance fail", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "insufficient@example.com", 100)

				_, _, err := s.DeductBalance(t.Context(), user.ID, decimal.NewFromInt(101), "too much")

				require.Error(t, err)
				require.ErrorIs(t, err, apperrors.ErrBalanceInsufficient)

				// Balance untouched and no expense logged
				balance, err := s.GetBalance(t.Context(), user.ID)
				require.NoError(t, err)
				assert.True(t, balance.Amount.Equal(decimal.NewFromInt(100)))

				transactions, err := s.ListTransactions(t.Context(), user.ID)
				require.NoError(t, err)
				assert.Empty(t, transactions)
			})
		})
	})

	t.Run("ListTransactions", func(t *testing.T) {
		t.Run("newest first own only", func(t *testing.T) {
			withTx(pg.Pool, t, func(s *WalletService, tx pgx.Tx) {
				user := createUser(t, tx, "list@example.com", 1000)
				other := createUser(t, tx, "other@example.com", 1000)

				_, _, err := s.AddBalance(t.Context(), user.ID, decimal.NewFromInt(10), "first")
				require.NoError(t, err)
				_, _, err = s.DeductBalance(t.Context(), user.ID, decimal.NewFromInt(5), "second")
				require.NoError(t, err)
				_, _, err = s.AddBalance(t.Context(), other.ID, decimal.NewFromInt(99), "not yours")
				require.NoError(t, err)

				transactions, err := s.ListTransactions(t.Context(), user.ID)

				require.NoError(t, err)
				require.Len(t, transactions, 2)
				assert.Equal(t, "second", transactions[0].Description)
				assert.Equal(t, "first", transactions[1].Description)
			})
		})
	})
}

func Test_WalletService_Concurrency(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Mutations run over the pool so every call begins its own db transaction
	// and the balance row lock is actually exercised.
	// Subtests isolate by user instead of rolling back
	storage := postgres.NewStorage(pg.Pool)
	s := NewService(storage)

	createUser := func(t *testing.T, email string, balance int64) models.User {
		user, err := storage.User().CreateUser(t.Context(), "Wallet Owner", email, "hash")
		require.NoError(t, err)

		_, err = storage.Balance().CreateBalance(t.Context(), user.ID, decimal.NewFromInt(balance))
		require.NoError(t, err)

		return user
	}

	t.Run("parallel mutations lose no updates", func(t *testing.T) {
		user := createUser(t, "parallel@example.com", 1000)

		const countEach = 10

		var wg sync.WaitGroup
		errs := make(chan error, 2*countEach)

		for i := 0; i < countEach; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _, err := s.AddBalance(t.Context(), user.ID, decimal.NewFromInt(5), "add")
				errs <- err
			}()
			go func() {
				defer wg.Done()
				_, _, err := s.DeductBalance(t.Context(), user.ID, decimal.NewFromInt(3), "deduct")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err, "every mutation should apply, the balance never gets close to zero")
		}

		// 1000 + 10*5 - 10*3: nothing lost in between
		balance, err := s.GetBalance(t.Context(), user.ID)
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.NewFromInt(1020)), "final balance should be exact, got %s", balance.Amount)

		transactions, err := s.ListTransactions(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Len(t, transactions, 2*countEach, "exactly one ledger row per applied mutation")
	})

	t.Run("concurrent deducts never overspend", func(t *testing.T) {
		user := createUser(t, "overspend@example.com", 10)

		// Balance 10, five concurrent deducts of 4: exactly two can fit
		var wg sync.WaitGroup
		errs := make(chan error, 5)

		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _, err := s.DeductBalance(t.Context(), user.ID, decimal.NewFromInt(4), "deduct")
				errs <- err
			}()
		}
		wg.Wait()
		close(errs)

		succeeded := 0
		for err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			require.ErrorIs(t, err, apperrors.ErrBalanceInsufficient, "the only allowed failure is insufficient balance")
		}
		assert.Equal(t, 2, succeeded, "exactly two deducts fit into the balance")

		balance, err := s.GetBalance(t.Context(), user.ID)
		require.NoError(t, err)
		assert.True(t, balance.Amount.Equal(decimal.NewFromInt(2)), "final balance should be exact, got %s", balance.Amount)

		transactions, err := s.ListTransactions(t.Context(), user.ID)
		require.NoError(t, err)
		assert.Len(t, transactions, succeeded, "failed deducts must not leave ledger rows")
	})

	t.Run("balance auto create race safe", func(t *testing.T) {
		user, err := storage.User().CreateUser(t.Context(), "No Balance", "race@example.com", "hash")
		require.NoError(t, err)

		// All concurrent readers get the same zero balance,
		// the loser of the insert race re-reads instead of failing
		var wg sync.WaitGroup
		results := make(chan models.Balance, 8)
		errs := make(chan error, 8)

		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				balance, err := s.GetBalance(t.Context(), user.ID)
				results <- balance
				errs <- err
			}()
		}
		wg.Wait()
		close(results)
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		first := <-results
		assert.True(t, first.Amount.IsZero())
		for balance := range results {
			assert.Equal(t, first.ID, balance.ID, "everyone should see the same balance row")
		}
	})
}
