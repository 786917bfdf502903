package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/teckmodel/aptai/internal/analyzer"
	"github.com/teckmodel/aptai/internal/source"
)

// writeJSON writes a JSON response with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeDomainError maps a domain failure onto HTTP. Soft misses (nothing
// found, every source degraded) become a 404 carrying a warning the caller
// can show directly; bad input is 400; an undefined ratio is 422; anything
// else is a 500 with the detail kept in the server log only.
func (s *Server) writeDomainError(w http.ResponseWriter, err error, warning string) {
	switch {
	case errors.Is(err, source.ErrInvalidInput):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, analyzer.ErrUndefinedRatio):
		s.writeError(w, http.StatusUnprocessableEntity, err.Error())
	case source.IsSoft(err):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"warning": warning})
	default:
		webLogger.Error().Err(err).Msg("Request failed")
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
