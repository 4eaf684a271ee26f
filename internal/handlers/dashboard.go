package handlers

import (
	"errors"
	"net/http"

	"walletd/internal/apperrors"
	"walletd/internal/handlers/render"
	"walletd/internal/handlers/userctx"
	"walletd/internal/logger"
)

func handleDashboard(dashboardService dashboardService, l logger.Logger) http.Handler {
	type response struct {
		Balance      balanceJSON       `json:"balance"`
		Documents    []documentJSON    `json:"documents"`
		Transactions []transactionJSON `json:"transactions"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		data, err := dashboardService.Get(r.Context(), user.ID)

		switch {
		case err == nil:
			render.JSON(w, response{
				Balance:      toBalanceJSON(data.Balance),
				Documents:    toDocumentsJSON(data.Documents),
				Transactions: toTransactionsJSON(data.Transactions),
			})
		case errors.Is(err, apperrors.ErrUserNotFound):
			render.ServiceError(w, "User not found", http.StatusBadRequest)
		default:
			l.Error("Failed to get dashboard data", "error", err)
			render.ServiceError(w, "Internal server error", http.StatusInternalServerError)
		}
	})
}
