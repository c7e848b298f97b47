package handlers

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"stocksim/internal/auth"
	"stocksim/internal/middleware"
	"stocksim/internal/validator"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// startingCashMinor is every new user's paper-money balance: $10,000.00.
const startingCashMinor int64 = 1000000

func (h *Handler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register.html", nil)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	// Forget any live session before creating a new identity.
	h.clearSession(w, r)

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	confirmation := r.PostFormValue("confirmation")

	if username == "" {
		h.apology(w, r, http.StatusForbidden, "must provide username")
		return
	}
	if password == "" {
		h.apology(w, r, http.StatusForbidden, "must provide password")
		return
	}
	if confirmation == "" {
		h.apology(w, r, http.StatusForbidden, "must provide confirmation password")
		return
	}
	if password != confirmation {
		h.apology(w, r, http.StatusForbidden, "passwords don't match")
		return
	}
	if err := validator.ValidateUsername(username); err != nil {
		h.apology(w, r, http.StatusForbidden, "username must be 3-30 letters, digits or underscores")
		return
	}
	if err := validator.ValidatePassword(password); err != nil {
		h.apology(w, r, http.StatusForbidden, "password must be at least 8 characters")
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "failed to secure password")
		return
	}
	userID := uuid.NewString()
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.users.Create(r.Context(), tx, userID, username, passwordHash, startingCashMinor)
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			h.apology(w, r, http.StatusForbidden, "username already exists")
			return
		}
		h.apology(w, r, http.StatusInternalServerError, "registration failed")
		return
	}

	if err := h.openSession(w, r, userID); err != nil {
		h.apology(w, r, http.StatusInternalServerError, "registration failed")
		return
	}
	setFlash(w, "Registered!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login.html", nil)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	// Forget any live session before authenticating.
	h.clearSession(w, r)
	_ = h.sessions.DeleteExpired(r.Context())

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if username == "" {
		h.apology(w, r, http.StatusForbidden, "must provide username")
		return
	}
	if password == "" {
		h.apology(w, r, http.StatusForbidden, "must provide password")
		return
	}

	user, err := h.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.apology(w, r, http.StatusForbidden, "invalid username and/or password")
			return
		}
		h.apology(w, r, http.StatusInternalServerError, "login failed")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		h.apology(w, r, http.StatusForbidden, "invalid username and/or password")
		return
	}

	if err := h.openSession(w, r, user.ID); err != nil {
		h.apology(w, r, http.StatusInternalServerError, "login failed")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	// The middleware already validated the cookie, so the session id is in
	// the request context.
	if sessionID, ok := middleware.SessionIDFromContext(r.Context()); ok {
		_ = h.sessions.Delete(r.Context(), sessionID)
	}
	expireSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) ChangePasswordForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "change_password.html", nil)
}

func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	current := r.PostFormValue("current_password")
	password := r.PostFormValue("new_password")
	confirmation := r.PostFormValue("confirmation")

	if current == "" || password == "" || confirmation == "" {
		h.apology(w, r, http.StatusForbidden, "must fill in all password fields")
		return
	}
	if password != confirmation {
		h.apology(w, r, http.StatusForbidden, "passwords don't match")
		return
	}
	if err := validator.ValidatePassword(password); err != nil {
		h.apology(w, r, http.StatusForbidden, "password must be at least 8 characters")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "unable to load user")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		h.apology(w, r, http.StatusForbidden, "current password is incorrect")
		return
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "failed to secure password")
		return
	}
	err = h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.users.UpdatePasswordHash(r.Context(), tx, userID, passwordHash)
	})
	if err != nil {
		h.apology(w, r, http.StatusInternalServerError, "password change failed")
		return
	}
	setFlash(w, "Password changed!")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// openSession creates the server-side session row and hands the browser a
// signed cookie referencing it.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request, userID string) error {
	sessionID := uuid.NewString()
	expiresAt := time.Now().Add(h.cfg.SessionTTL)
	if err := h.sessions.Create(r.Context(), sessionID, userID, expiresAt); err != nil {
		return err
	}
	token, err := auth.GenerateToken(h.cfg.SessionSecret, sessionID, h.cfg.SessionTTL)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearSession deletes whatever session the request's cookie points at and
// expires the cookie. Safe to call with no cookie present.
func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.CookieName); err == nil && cookie.Value != "" {
		if sessionID, err := auth.ParseToken(h.cfg.SessionSecret, cookie.Value); err == nil {
			_ = h.sessions.Delete(r.Context(), sessionID)
		}
	}
	expireSessionCookie(w)
}

func expireSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
