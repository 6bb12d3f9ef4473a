// Package handler exposes the internal HTTP surface of the receipt pipeline:
// the enqueue hook called by the upload service, the category feedback
// export, health and metrics.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/FACorreiaa/smart-finance-receipts/internal/domain/receipts"
)

const (
	defaultFeedbackLimit = 500
	maxFeedbackLimit     = 5000
)

// Enqueuer schedules receipt processing.
type Enqueuer interface {
	Enqueue(receiptID, userID uuid.UUID) bool
}

// FeedbackLister reads stored category feedback.
type FeedbackLister interface {
	ListFeedback(ctx context.Context, userID uuid.UUID, limit int) ([]receipts.FeedbackEntry, error)
}

// Pinger checks a dependency for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures the router middleware.
type Options struct {
	Metrics            bool
	AllowedOrigins     []string
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Handler serves the internal endpoints.
type Handler struct {
	queue    Enqueuer
	feedback FeedbackLister
	db       Pinger
	logger   *slog.Logger
}

func NewHandler(queue Enqueuer, feedback FeedbackLister, db Pinger, logger *slog.Logger) *Handler {
	return &Handler{queue: queue, feedback: feedback, db: db, logger: logger}
}

// Routes builds the router.
func (h *Handler) Routes(opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	if opts.Metrics {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Group(func(r chi.Router) {
		if opts.RateLimitPerSecond > 0 {
			r.Use(rateLimit(opts.RateLimitPerSecond, opts.RateLimitBurst))
		}
		r.Post("/internal/receipts/{receiptID}/process", h.enqueue)
		r.Get("/internal/feedback.csv", h.exportFeedback)
	})

	if len(opts.AllowedOrigins) == 0 {
		return r
	}
	return cors.New(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(r)
}

type enqueueRequest struct {
	UserID string `json:"user_id"`
}

type enqueueResponse struct {
	ReceiptID string `json:"receipt_id"`
	Queued    bool   `json:"queued"`
}

func (h *Handler) enqueue(w http.ResponseWriter, r *http.Request) {
	receiptID, err := uuid.Parse(chi.URLParam(r, "receiptID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receipt id")
		return
	}

	rawUser := r.URL.Query().Get("user_id")
	if rawUser == "" && r.ContentLength != 0 {
		var body enqueueRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		rawUser = body.UserID
	}
	userID, err := uuid.Parse(rawUser)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	queued := h.queue.Enqueue(receiptID, userID)
	h.logger.Debug("receipt enqueue requested",
		"receipt_id", receiptID,
		"user_id", userID,
		"queued", queued,
	)
	writeJSON(w, http.StatusAccepted, enqueueResponse{ReceiptID: receiptID.String(), Queued: queued})
}

func (h *Handler) exportFeedback(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("user_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	limit := defaultFeedbackLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = min(n, maxFeedbackLimit)
	}

	entries, err := h.feedback.ListFeedback(r.Context(), userID, limit)
	if err != nil {
		h.logger.Error("failed to list feedback", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "failed to list feedback")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="category-feedback.csv"`)
	if err := receipts.WriteFeedbackCSV(w, entries); err != nil {
		h.logger.Error("failed to write feedback csv", "error", err)
	}
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func rateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
