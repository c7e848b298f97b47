package handlers

import (
	"net/http"

	"stocksim/internal/middleware"
	"stocksim/internal/money"
)

// Portfolio shows every holding priced at the current quote, plus cash and
// the grand total. Quotes are fetched per symbol; the optional cache in
// the quote client keeps repeated renders cheap.
func (h *Handler) Portfolio(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "unable to load user")
		return
	}
	holdings, err := h.holdings.GetByUser(r.Context(), userID)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "unable to load holdings")
		return
	}

	rows := make([]map[string]any, 0, len(holdings))
	grandTotal := user.CashMinor
	for _, holding := range holdings {
		q, err := h.quotes.Lookup(r.Context(), holding.Symbol)
		if err != nil {
			h.apology(w, r, http.StatusInternalServerError, "quote provider unavailable")
			return
		}
		priceMinor, err := money.FromDecimal(q.Price)
		if err != nil {
			h.apology(w, r, http.StatusInternalServerError, "quote provider returned an invalid price")
			return
		}
		valueMinor := priceMinor * holding.Shares
		grandTotal += valueMinor
		rows = append(rows, map[string]any{
			"Symbol":     holding.Symbol,
			"Name":       holding.Name,
			"Shares":     holding.Shares,
			"PriceMinor": priceMinor,
			"ValueMinor": valueMinor,
		})
	}

	h.render(w, r, http.StatusOK, "portfolio.html", map[string]any{
		"Username":        user.Username,
		"Holdings":        rows,
		"CashMinor":       user.CashMinor,
		"GrandTotalMinor": grandTotal,
	})
}
