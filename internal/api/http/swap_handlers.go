package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/bookswap/bookswap/internal/domain/swap"
)

type createSwapRequest struct {
	BookID        string  `json:"book_id"`
	OfferedBookID string  `json:"offered_book_id"`
	Message       *string `json:"message,omitempty"`
}

type counterOfferRequest struct {
	CounterBookID string  `json:"counter_book_id"`
	Message       *string `json:"message,omitempty"`
}

type completeSwapRequest struct {
	Rating   int     `json:"rating"`
	Feedback *string `json:"feedback,omitempty"`
}

func (s *Server) createSwap(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req createSwapRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid book_id")
		return
	}
	offeredBookID, err := uuid.Parse(req.OfferedBookID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid offered_book_id")
		return
	}
	created, err := s.swapSvc.Create(r.Context(), bookID, offeredBookID, auth.UserID, req.Message)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listSwaps(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	limit, offset := parseLimitOffset(r, 50, 200)
	filter := swap.Filter{UserID: &auth.UserID}
	switch strings.ToUpper(r.URL.Query().Get("role")) {
	case "REQUESTER":
		party := swap.PartyRequester
		filter.Party = &party
	case "OWNER":
		party := swap.PartyOwner
		filter.Party = &party
	}
	if v := r.URL.Query().Get("status"); v != "" {
		st := swap.Status(strings.ToUpper(v))
		filter.Status = &st
	}
	items, err := s.swapSvc.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"swaps": items, "count": len(items)})
}

func (s *Server) getSwap(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid swapId")
		return
	}
	item, err := s.swapSvc.Get(r.Context(), id, auth.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) acceptSwap(w http.ResponseWriter, r *http.Request) {
	s.swapAction(w, r, s.swapSvc.Accept)
}

func (s *Server) acceptCounterOfferSwap(w http.ResponseWriter, r *http.Request) {
	s.swapAction(w, r, s.swapSvc.AcceptCounterOffer)
}

func (s *Server) cancelSwap(w http.ResponseWriter, r *http.Request) {
	s.swapAction(w, r, s.swapSvc.Cancel)
}

func (s *Server) counterOfferSwap(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid swapId")
		return
	}
	var req counterOfferRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	counterBookID, err := uuid.Parse(req.CounterBookID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid counter_book_id")
		return
	}
	updated, err := s.swapSvc.ProposeCounterOffer(r.Context(), id, auth.UserID, counterBookID, req.Message)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) completeSwap(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid swapId")
		return
	}
	var req completeSwapRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	updated, err := s.swapSvc.Complete(r.Context(), id, auth.UserID, req.Rating, req.Feedback)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"swap":            updated,
		"completionState": updated.CompletionStateOf(),
	})
}

func (s *Server) getSwapHistory(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid swapId")
		return
	}
	limit, offset := parseLimitOffset(r, 50, 200)
	entries, err := s.swapSvc.History(r.Context(), id, auth.UserID, limit, offset)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"entries": entries, "count": len(entries)})
}

func (s *Server) swapAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, swapID, actorID uuid.UUID) (*swap.SwapRequest, error)) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "swapId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid swapId")
		return
	}
	updated, err := action(r.Context(), id, auth.UserID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
