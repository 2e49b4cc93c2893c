package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/simaogato/partnerdesk/internal/adapter/rest"
	"github.com/simaogato/partnerdesk/internal/domain"
)

// requestError is a client mistake reported with status 400.
type requestError struct {
	message string
}

func (e *requestError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &requestError{message: message}
}

// writeError maps err to a status code and writes it as {"error": "..."}.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeJSON(w, http.StatusBadRequest, rest.ErrorDTO{Error: reqErr.message})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, rest.ErrorDTO{Error: domain.ErrNotFound.Error()})
	case errors.Is(err, domain.ErrPartnerNotFound):
		writeJSON(w, http.StatusNotFound, rest.ErrorDTO{Error: domain.ErrPartnerNotFound.Error()})
	default:
		s.logger.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, rest.ErrorDTO{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
