package handlers

import (
	"net/http"

	"stocksim/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(middleware.NoCache)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.Get("/register", h.RegisterForm)
	router.Post("/register", h.Register)
	router.Get("/login", h.LoginForm)
	router.Post("/login", h.Login)

	router.Group(func(r chi.Router) {
		r.Use(middleware.Session(h.cfg.SessionSecret, h.sessions))
		r.Get("/", h.Portfolio)
		r.Get("/logout", h.Logout)
		r.Get("/quote", h.QuoteForm)
		r.Post("/quote", h.Quote)
		r.Get("/buy", h.BuyForm)
		r.Post("/buy", h.Buy)
		r.Get("/sell", h.SellForm)
		r.Post("/sell", h.Sell)
		r.Get("/history", h.History)
		r.Get("/change-password", h.ChangePasswordForm)
		r.Post("/change-password", h.ChangePassword)
		r.Get("/ws/portfolio", h.WSPortfolio)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return router
}
