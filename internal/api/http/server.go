package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	appAlert "github.com/bookswap/bookswap/internal/application/alert"
	appAuth "github.com/bookswap/bookswap/internal/application/auth"
	appBook "github.com/bookswap/bookswap/internal/application/book"
	appNotification "github.com/bookswap/bookswap/internal/application/notification"
	appRating "github.com/bookswap/bookswap/internal/application/rating"
	appSwap "github.com/bookswap/bookswap/internal/application/swap"
	appUser "github.com/bookswap/bookswap/internal/application/user"
	"github.com/bookswap/bookswap/internal/domain/alert"
	"github.com/bookswap/bookswap/internal/domain/book"
	"github.com/bookswap/bookswap/internal/domain/swap"
	"github.com/bookswap/bookswap/internal/domain/user"
	"github.com/bookswap/bookswap/internal/infrastructure/sse"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	swapSvc         *appSwap.Service
	bookSvc         *appBook.Service
	userSvc         *appUser.Service
	authSvc         *appAuth.Service
	ratingSvc       *appRating.Service
	alertSvc        *appAlert.Service
	notificationSvc *appNotification.Service
	sseHub          *sse.Hub
}

func NewServer(
	swapSvc *appSwap.Service,
	bookSvc *appBook.Service,
	userSvc *appUser.Service,
	authSvc *appAuth.Service,
	ratingSvc *appRating.Service,
	alertSvc *appAlert.Service,
	notificationSvc *appNotification.Service,
	sseHub *sse.Hub,
) *Server {
	return &Server{
		swapSvc:         swapSvc,
		bookSvc:         bookSvc,
		userSvc:         userSvc,
		authSvc:         authSvc,
		ratingSvc:       ratingSvc,
		alertSvc:        alertSvc,
		notificationSvc: notificationSvc,
		sseHub:          sseHub,
	}
}

// Router builds the HTTP router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Use(middleware.Timeout(30 * time.Second))

			r.Route("/books", func(r chi.Router) {
				r.Get("/", s.listBooks)
				r.Post("/", s.createBook)
				r.Get("/{bookId}", s.getBook)
				r.Patch("/{bookId}", s.updateBook)
			})

			r.Route("/swaps", func(r chi.Router) {
				r.Get("/", s.listSwaps)
				r.Post("/", s.createSwap)
				r.Get("/{swapId}", s.getSwap)
				r.Get("/{swapId}/history", s.getSwapHistory)
				r.Post("/{swapId}/accept", s.acceptSwap)
				r.Post("/{swapId}/counter-offer", s.counterOfferSwap)
				r.Post("/{swapId}/accept-counter-offer", s.acceptCounterOfferSwap)
				r.Post("/{swapId}/cancel", s.cancelSwap)
				r.Post("/{swapId}/complete", s.completeSwap)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", s.listAlerts)
				r.Post("/", s.createAlert)
				r.Delete("/{alertId}", s.deleteAlert)
			})

			r.Get("/users/{userId}", s.getUser)
			r.Get("/users/{userId}/stats", s.getUserStats)

			r.Get("/notifications", s.listNotifications)
		})

		// The stream authenticates via token query param so EventSource
		// clients can connect without headers.
		r.Get("/notifications/stream", s.notificationStream)
	})

	return r
}

// Helpers
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]interface{}{
		"error":   code,
		"message": message,
	})
}

// respondDomainError maps domain sentinels to HTTP status codes.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, swap.ErrNotFound), errors.Is(err, book.ErrNotFound),
		errors.Is(err, user.ErrNotFound), errors.Is(err, alert.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, swap.ErrForbidden), errors.Is(err, book.ErrForbidden):
		respondError(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, swap.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "INVALID_TRANSITION", err.Error())
	case errors.Is(err, swap.ErrConflict):
		respondError(w, http.StatusConflict, "CONFLICT", "this request was just updated, please refresh")
	case errors.Is(err, swap.ErrNotAccepted):
		respondError(w, http.StatusConflict, "NOT_ACCEPTED", err.Error())
	case errors.Is(err, swap.ErrAlreadyCompleted):
		respondError(w, http.StatusConflict, "ALREADY_COMPLETED", err.Error())
	case errors.Is(err, swap.ErrNotAvailable):
		respondError(w, http.StatusConflict, "NOT_AVAILABLE", err.Error())
	case errors.Is(err, swap.ErrOwnBook):
		respondError(w, http.StatusBadRequest, "OWN_BOOK", err.Error())
	case errors.Is(err, swap.ErrValidation), errors.Is(err, book.ErrValidation),
		errors.Is(err, alert.ErrValidation):
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}

func parseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	val := chi.URLParam(r, key)
	return uuid.Parse(val)
}

func decodeBody(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseLimitOffset(r *http.Request, defaultLimit, maxLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil {
			limit = l
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if o, err := strconv.Atoi(v); err == nil {
			offset = o
		}
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
