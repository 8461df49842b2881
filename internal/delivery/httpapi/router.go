package httpapi

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Options struct {
	Sweeper    Sweeper
	CronSecret string
	// Webhook receives Telegram updates when the bot runs in webhook mode.
	Webhook http.Handler
}

func NewRouter(opts Options) *mux.Router {
	root := mux.NewRouter()
	root.Use(Recover)

	cron := &CronHandler{sweeper: opts.Sweeper, secret: opts.CronSecret}
	root.Handle("/api/cron", cron).Methods(http.MethodPost, http.MethodGet)

	if opts.Webhook != nil {
		root.Handle("/api/webhook", opts.Webhook).Methods(http.MethodPost)
	}

	root.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	root.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return root
}

// CronHandler runs one sweep for an external scheduler authenticated with
// "Authorization: Bearer <secret>". An empty secret rejects every request.
type CronHandler struct {
	sweeper Sweeper
	secret  string
}

func (h *CronHandler) authorized(r *http.Request) bool {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || h.secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

func (h *CronHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}

	processed, err := h.sweeper.Sweep(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Cron sweep failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "processed": processed})
}

// Recover turns a handler panic into a 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.ErrorContext(r.Context(), "Panic in HTTP handler", "panic", rec, "path", r.URL.Path)
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}
