package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"stocksim/internal/config"
	"stocksim/internal/db"
	"stocksim/internal/middleware"
	"stocksim/internal/money"
	"stocksim/internal/websocket"
)

//go:embed templates/*.html
var templateFS embed.FS

const flashCookie = "flash"

var errInvalidShares = errors.New("must provide a positive number of shares")

type Handler struct {
	cfg       config.Config
	txRunner  db.TxRunner
	users     UserStore
	holdings  HoldingStore
	trades    TradeStore
	sessions  SessionStore
	quotes    QuoteLookup
	service   TradeService
	hub       *websocket.Hub
	templates *template.Template
}

func New(cfg config.Config, txRunner db.TxRunner, users UserStore, holdings HoldingStore, trades TradeStore, sessions SessionStore, quotes QuoteLookup, service TradeService, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:       cfg,
		txRunner:  txRunner,
		users:     users,
		holdings:  holdings,
		trades:    trades,
		sessions:  sessions,
		quotes:    quotes,
		service:   service,
		hub:       hub,
		templates: parseTemplates(),
	}
}

func parseTemplates() *template.Template {
	funcs := template.FuncMap{
		"usd": money.USD,
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// render executes a page template into a buffer first so a template error
// becomes a 500 instead of a half-written page.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data map[string]any) {
	if data == nil {
		data = map[string]any{}
	}
	_, authenticated := middleware.UserIDFromContext(r.Context())
	data["Authenticated"] = authenticated
	if flash := takeFlash(w, r); flash != "" {
		data["Flash"] = flash
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, page, data); err != nil {
		log.Printf("render %s: %v", page, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// apology renders the error page the way the original app did: one message,
// the offending status code, no mutation behind it.
func (h *Handler) apology(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.render(w, r, status, "apology.html", map[string]any{
		"Code":    status,
		"Message": message,
	})
}

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
	})
}

func takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}

// parseShareCount normalizes every malformed share field (empty,
// non-numeric, zero, negative) into one validation error.
func parseShareCount(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errInvalidShares
	}
	shares, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || shares <= 0 {
		return 0, errInvalidShares
	}
	return shares, nil
}
