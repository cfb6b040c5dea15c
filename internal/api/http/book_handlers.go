package httpapi

import (
	"net/http"

	"github.com/bookswap/bookswap/internal/domain/book"
)

type createBookRequest struct {
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Genre     *string `json:"genre,omitempty"`
	Condition string  `json:"condition"`
}

type updateBookRequest struct {
	Title     *string `json:"title,omitempty"`
	Author    *string `json:"author,omitempty"`
	Genre     *string `json:"genre,omitempty"`
	Condition *string `json:"condition,omitempty"`
	Available *bool   `json:"available,omitempty"`
}

func (s *Server) createBook(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req createBookRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	created, err := s.bookSvc.Create(r.Context(), auth.UserID, req.Title, req.Author, req.Genre, book.Condition(req.Condition))
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listBooks(w http.ResponseWriter, r *http.Request) {
	limit, offset := parseLimitOffset(r, 50, 200)
	filter := book.Filter{}
	if v := r.URL.Query().Get("available"); v == "true" {
		available := true
		filter.Available = &available
	}
	if v := r.URL.Query().Get("genre"); v != "" {
		filter.Genre = &v
	}
	items, err := s.bookSvc.List(r.Context(), filter, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"books": items, "count": len(items)})
}

func (s *Server) getBook(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "bookId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid bookId")
		return
	}
	item, err := s.bookSvc.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

func (s *Server) updateBook(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "bookId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid bookId")
		return
	}
	var req updateBookRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	var condition *book.Condition
	if req.Condition != nil {
		c := book.Condition(*req.Condition)
		condition = &c
	}
	updated, err := s.bookSvc.Update(r.Context(), id, auth.UserID, req.Title, req.Author, req.Genre, condition, req.Available)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}
