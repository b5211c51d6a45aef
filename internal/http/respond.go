package http

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, code, message string) {
	respondErrorDetails(w, logger, status, code, message, "")
}

// respondErrorDetails adds the underlying cause, e.g. the JSON decoder's message
func respondErrorDetails(w http.ResponseWriter, logger *zap.Logger, status int, code, message, details string) {
	respondJSON(w, logger, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}
