package apperrors

import (
	"errors"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid")

	ErrBalanceAlreadyExists = errors.New("balance already exists")
	ErrBalanceNotFound      = errors.New("balance not found")
	ErrBalanceInsufficient  = errors.New("insufficient balance")
	ErrAmountInvalid        = errors.New("amount must be greater than zero")

	ErrDocumentNotFound = errors.New("document not found")
)
