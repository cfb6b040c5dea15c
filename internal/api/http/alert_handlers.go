package httpapi

import (
	"net/http"
)

type createAlertRequest struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

func (s *Server) createAlert(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	var req createAlertRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", err.Error())
		return
	}
	created, err := s.alertSvc.Create(r.Context(), auth.UserID, req.Name, req.Expression)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	items, err := s.alertSvc.ListForUser(r.Context(), auth.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alerts": items, "count": len(items)})
}

func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request) {
	auth := authUserFromContext(r.Context())
	id, err := parseUUIDParam(r, "alertId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PARAM", "invalid alertId")
		return
	}
	if err := s.alertSvc.Delete(r.Context(), id, auth.UserID); err != nil {
		respondDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"alert_id": id, "status": "DELETED"})
}
