package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletd/internal/apperrors"
	"walletd/internal/models"
	"walletd/internal/repository"
)

// Header that carries the signed session token on protected routes
const SessionTokenHeader = "X-User-Token"

// Every registered user starts with this balance
var defaultStartingBalance = decimal.NewFromInt(1000)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Interface to issue and parse session tokens
type TokenManager interface {
	Issue(user models.User) (models.IssuedToken, error)
	Parse(token string) (userID uuid.UUID, err error)
}

type Config struct {
	// Hasher to use during registration and login
	// If not set then bcrypt is used
	Hasher PasswordHasher

	// Balance seeded on registration
	// If not set then the service default is used
	StartingBalance *decimal.Decimal
}

type AuthService struct {
	hasher          PasswordHasher
	token           TokenManager
	storage         repository.Storage
	startingBalance decimal.Decimal
}

func NewService(cfg Config, token TokenManager, storage repository.Storage) (*AuthService, error) {
	if token == nil || storage == nil {
		return nil, errors.New("token manager and storage must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	startingBalance := defaultStartingBalance
	if cfg.StartingBalance != nil {
		startingBalance = *cfg.StartingBalance
	}

	return &AuthService{
		hasher:          hasher,
		token:           token,
		storage:         storage,
		startingBalance: startingBalance,
	}, nil
}

// Register creates user and seeds the starting balance in one transaction
// Duplicate email: apperrors.ErrUserAlreadyExists
func (s *AuthService) Register(ctx context.Context, name string, email string, password string) (models.User, models.Balance, error) {
	var user models.User
	var balance models.Balance

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return user, balance, fmt.Errorf("can't use this as password, Err: %w", err)
	}

	err = s.storage.InTx(ctx, func(tx repository.Storage) error {
		user, err = tx.User().CreateUser(ctx, name, email, hash)
		if err != nil {
			return err
		}

		balance, err = tx.Balance().CreateBalance(ctx, user.ID, s.startingBalance)
		return err
	})
	if err != nil {
		return user, balance, err
	}

	return user, balance, nil
}

// Login verifies credentials and issues a session token
// Unknown email and wrong password both map to apperrors.ErrInvalidCredentials,
// so the response never tells whether the email is registered
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.IssuedToken, models.User, error) {
	var token models.IssuedToken

	user, err := s.storage.User().GetUserByEmail(ctx, email)
	if err != nil {
		// Burn a compare anyway to keep unknown-email timing close to wrong-password timing
		_ = s.hasher.Compare(fakeHash, password)
		return token, user, apperrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		return token, user, apperrors.ErrInvalidCredentials
	}

	token, err = s.token.Issue(user)
	if err != nil {
		return token, user, fmt.Errorf("error while issuing session token. Err: %w", err)
	}

	return token, user, nil
}

// Auth authenticates the request by its session token header
// Any failure maps to apperrors.ErrTokenInvalid
func (s *AuthService) Auth(ctx context.Context, r *http.Request) (models.User, error) {
	var user models.User

	header := r.Header.Get(SessionTokenHeader)
	if header == "" {
		return user, fmt.Errorf("%w: no session token provided", apperrors.ErrTokenInvalid)
	}

	userID, err := s.token.Parse(header)
	if err != nil {
		return user, err
	}

	user, err = s.storage.User().GetUserByID(ctx, userID)
	if err != nil {
		return user, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	return user, nil
}

// Bcrypt hash of a random throwaway password, used to equalize login timing
const fakeHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
