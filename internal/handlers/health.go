package handlers

import (
	"net/http"

	"walletd/internal/handlers/render"
)

func handleHealth() http.Handler {
	type response struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, response{Status: "OK", Message: "Server is running"})
	})
}
