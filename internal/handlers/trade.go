package handlers

import (
	"errors"
	"net/http"

	"stocksim/internal/middleware"
	"stocksim/internal/quote"
	"stocksim/internal/services"
	"stocksim/internal/validator"
)

func (h *Handler) BuyForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "buy.html", nil)
}

func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	symbol := r.PostFormValue("symbol")
	if symbol == "" {
		h.apology(w, r, http.StatusForbidden, "must provide symbol")
		return
	}
	if err := validator.ValidateSymbol(symbol); err != nil {
		h.apology(w, r, http.StatusForbidden, "invalid symbol")
		return
	}
	shares, err := parseShareCount(r.PostFormValue("shares"))
	if err != nil {
		h.apology(w, r, http.StatusForbidden, "must provide a positive number of shares")
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

	if _, err := h.service.Buy(r.Context(), userID, q, shares); err != nil {
		switch {
		case errors.Is(err, services.ErrInsufficientFunds):
			h.apology(w, r, http.StatusForbidden, "you can't afford the purchase")
		case errors.Is(err, services.ErrInvalidShareCount):
			h.apology(w, r, http.StatusForbidden, "must provide a positive number of shares")
		default:
			h.apology(w, r, http.StatusInternalServerError, "purchase could not be completed")
		}
		return
	}
	setFlash(w, "Bought!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) SellForm(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	holdings, err := h.holdings.GetByUser(r.Context(), userID)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "unable to load holdings")
		return
	}
	symbols := make([]string, 0, len(holdings))
	for _, holding := range holdings {
		symbols = append(symbols, holding.Symbol)
	}
	h.render(w, r, http.StatusOK, "sell.html", map[string]any{
		"Symbols": symbols,
	})
}

func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	symbol := r.PostFormValue("symbol")
	if symbol == "" {
		h.apology(w, r, http.StatusForbidden, "must provide symbol")
		return
	}
	if err := validator.ValidateSymbol(symbol); err != nil {
		h.apology(w, r, http.StatusForbidden, "invalid symbol")
		return
	}
	shares, err := parseShareCount(r.PostFormValue("shares"))
	if err != nil {
		h.apology(w, r, http.StatusForbidden, "must provide a positive number of shares")
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

	if _, err := h.service.Sell(r.Context(), userID, q, shares); err != nil {
		switch {
		case errors.Is(err, services.ErrNoHolding):
			h.apology(w, r, http.StatusForbidden, "you don't own any shares of "+q.Symbol)
		case errors.Is(err, services.ErrInsufficientShares):
			h.apology(w, r, http.StatusForbidden, "you don't own that many shares")
		case errors.Is(err, services.ErrInvalidShareCount):
			h.apology(w, r, http.StatusForbidden, "must provide a positive number of shares")
		default:
			h.apology(w, r, http.StatusInternalServerError, "sale could not be completed")
		}
		return
	}
	setFlash(w, "Sold!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
