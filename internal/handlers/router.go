package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"walletd/internal/handlers/middleware"
	"walletd/internal/handlers/render"
	"walletd/internal/logger"
	"walletd/internal/models"
	"walletd/internal/service/dashboard"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	walletService walletService,
	documentService documentService,
	dashboardService dashboardService,
	apiToken string,
	logger logger.Logger,
) http.Handler {
	sessionAuth := middleware.Auth(authService)
	withAuth := func(h http.Handler) http.Handler {
		return sessionAuth(h)
	}

	api := http.NewServeMux()

	api.Handle("POST /auth/register", handleRegister(authService, logger))
	api.Handle("POST /auth/login", handleLogin(authService, walletService, logger))

	api.Handle("GET /dashboard", withAuth(handleDashboard(dashboardService, logger)))

	api.Handle("GET /documents", withAuth(handleListDocuments(documentService, logger)))
	api.Handle("POST /documents/generate", withAuth(handleGenerateDocument(documentService, logger)))

	api.Handle("GET /transactions", withAuth(handleListTransactions(walletService, logger)))
	api.Handle("GET /transactions/balance", withAuth(handleGetBalance(walletService, logger)))
	api.Handle("POST /transactions/add-balance", withAuth(handleAddBalance(walletService, logger)))
	api.Handle("POST /transactions/deduct-balance", withAuth(handleDeductBalance(walletService, logger)))

	// JSON 404 for everything else under the API prefix
	api.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.ServiceError(w, "Route not found", http.StatusNotFound)
	}))

	root := http.NewServeMux()
	root.Handle("GET /health", handleHealth())
	root.Handle("/api/", middleware.FixedToken(apiToken)(http.StripPrefix("/api", api)))

	handler := chain(root,
		middleware.Recover(logger),
		middleware.Logger(logger),
	)

	return handler
}

type authService interface {
	// Register user and seed the starting balance
	// Has to return apperrors.ErrUserAlreadyExists if the email is taken
	Register(ctx context.Context, name string, email string, password string) (models.User, models.Balance, error)

	// Login user with email and password
	// Has to return apperrors.ErrInvalidCredentials on any mismatch
	Login(ctx context.Context, email string, password string) (models.IssuedToken, models.User, error)

	// Authenticate request by its session token
	Auth(ctx context.Context, r *http.Request) (models.User, error)
}

type walletService interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (models.Balance, error)
	AddBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error)
	DeductBalance(ctx context.Context, userID uuid.UUID, amount decimal.Decimal, description string) (models.Transaction, models.Balance, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error)
}

type documentService interface {
	Generate(ctx context.Context, userID uuid.UUID, name string) (models.Document, error)
	List(ctx context.Context, userID uuid.UUID) ([]models.Document, error)
}

type dashboardService interface {
	Get(ctx context.Context, userID uuid.UUID) (dashboard.Data, error)
}
