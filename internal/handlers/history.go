package handlers

import (
	"net/http"

	"stocksim/internal/middleware"
)

// History lists every trade the user ever made, newest first. The log is
// append-only so this page is the full audit trail.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	trades, err := h.trades.ListByUser(r.Context(), userID)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "unable to load history")
		return
	}
	rows := make([]map[string]any, 0, len(trades))
	for _, trade := range trades {
		side := "BUY"
		shares := trade.Shares
		if shares < 0 {
			side = "SELL"
			shares = -shares
		}
		rows = append(rows, map[string]any{
			"Side":       side,
			"Symbol":     trade.Symbol,
			"Name":       trade.Name,
			"Shares":     shares,
			"PriceMinor": trade.PriceMinor,
			"TotalMinor": trade.TotalMinor,
			"CreatedAt":  trade.CreatedAt,
		})
	}
	h.render(w, r, http.StatusOK, "history.html", map[string]any{
		"Trades": rows,
	})
}
