package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"walletd/internal/apperrors"
	"walletd/internal/handlers/render"
	"walletd/internal/logger"
	"walletd/internal/models"
)

// userResponse is the public shape of a user with its balance
type userResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Balance float64   `json:"balance"`
}

func toUserResponse(user models.User, balance models.Balance) userResponse {
	amount, _ := balance.Amount.Float64()
	return userResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		Balance: amount,
	}
}

func handleRegister(authService authService, l logger.Logger) http.Handler {
	type request struct {
		Name     string `json:"name" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=5"`
	}
	type response struct {
		User userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		user, balance, err := authService.Register(r.Context(), data.Name, data.Email, data.Password)

		switch {
		case err == nil:
			render.JSONWithStatus(w, response{User: toUserResponse(user, balance)}, http.StatusCreated)
		case errors.Is(err, apperrors.ErrUserAlreadyExists):
			render.ServiceError(w, "User with this email already exists", http.StatusBadRequest)
		default:
			l.Error("Failed to register user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}

func handleLogin(authService authService, walletService walletService, l logger.Logger) http.Handler {
	type request struct {
		Email    string `json:"email" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	type response struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		token, user, err := authService.Login(r.Context(), data.Email, data.Password)

		switch {
		case err == nil:
		case errors.Is(err, apperrors.ErrInvalidCredentials):
			render.ServiceError(w, "Invalid credentials", http.StatusUnauthorized)
			return
		default:
			l.Error("Failed to login user", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		balance, err := walletService.GetBalance(r.Context(), user.ID)
		if err != nil {
			l.Error("Failed to get balance on login", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, response{Token: token.Value, User: toUserResponse(user, balance)})
	})
}
