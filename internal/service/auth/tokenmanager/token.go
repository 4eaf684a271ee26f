package tokenmanager

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"walletd/internal/apperrors"
	"walletd/internal/models"
)

const (
	defaultSessionTokenTTL = 7 * 24 * time.Hour
	defaultSigningMethod   = "HS256"
)

type SessionTokenClaims struct {
	jwt.RegisteredClaims
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
}

// Token manager config with sensible defaults
type Config struct {
	// Secret key to sign session tokens
	// Required to be set
	SecretKey string

	// JWT MAC (Message Authentication Code) algorithm
	// If not set then default is used
	Alg string

	// Session token lifetime
	// If not set then default is used
	SessionTTL time.Duration
}

type TokenManager struct {
	key        string
	alg        jwt.SigningMethod
	sessionTTL time.Duration
}

func New(cfg Config) (*TokenManager, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	if cfg.Alg == "" {
		cfg.Alg = defaultSigningMethod
	}

	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTokenTTL
	}

	return &TokenManager{
		key:        cfg.SecretKey,
		alg:        jwt.GetSigningMethod(cfg.Alg),
		sessionTTL: cfg.SessionTTL,
	}, nil
}

// Issue signed session token that carries user id and email
func (m *TokenManager) Issue(user models.User) (models.IssuedToken, error) {
	now := time.Now().Truncate(time.Second)
	expiresAt := now.Add(m.sessionTTL)

	token := jwt.NewWithClaims(
		m.alg,
		SessionTokenClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(expiresAt),
			},
			UserID: user.ID,
			Email:  user.Email,
		},
	)

	signed, err := token.SignedString([]byte(m.key))
	if err != nil {
		return models.IssuedToken{}, fmt.Errorf("error while signing session token. Err: %w", err)
	}

	return models.IssuedToken{Value: signed, ExpiresAt: expiresAt}, nil
}

// Parse and validate session token
// Bad signature, wrong algorithm, expired or malformed token: apperrors.ErrTokenInvalid
func (m *TokenManager) Parse(token string) (userID uuid.UUID, err error) {
	claims := &SessionTokenClaims{}

	_, err = jwt.ParseWithClaims(
		token,
		claims,
		func(t *jwt.Token) (any, error) {
			return []byte(m.key), nil
		},
		jwt.WithValidMethods([]string{m.alg.Alg()}),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", apperrors.ErrTokenInvalid, err)
	}

	return claims.UserID, nil
}
