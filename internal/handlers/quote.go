package handlers

import (
	"errors"
	"net/http"

	"stocksim/internal/money"
	"stocksim/internal/quote"
	"stocksim/internal/validator"
)

func (h *Handler) QuoteForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "quote.html", nil)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := r.PostFormValue("symbol")
	if symbol == "" {
		h.apology(w, r, http.StatusForbidden, "must provide symbol")
		return
	}
	if err := validator.ValidateSymbol(symbol); err != nil {
		h.apology(w, r, http.StatusForbidden, "invalid symbol")
		return
	}
	q, err := h.quotes.Lookup(r.Context(), symbol)
	if err != nil {
		if errors.Is(err, quote.ErrUnknownSymbol) {
			h.apology(w, r, http.StatusForbidden, "invalid symbol")
			return
		}
		h.apology(w, r, http.StatusInternalServerError, "quote provider unavailable")
		return
	}
	priceMinor, err := money.FromDecimal(q.Price)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "quote provider returned an invalid price")
		return
	}
	h.render(w, r, http.StatusOK, "quoted.html", map[string]any{
		"Symbol":     q.Symbol,
		"Name":       q.Name,
		"PriceMinor": priceMinor,
	})
}
