package handlers

import (
	"net/http"

	"stocksim/internal/middleware"
	"stocksim/internal/websocket"
)

// WSPortfolio streams post-trade balance updates to the portfolio page.
func (h *Handler) WSPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	websocket.ServeWS(w, r, h.hub, userID)
}
