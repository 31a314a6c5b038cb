package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"nexus-chat/internal/models"
	"nexus-chat/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(message string) models.ErrorResponse {
	return models.ErrorResponse{Error: message}
}

// handleServiceError writes the {error} body for err and returns the status.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) int {
	reqID := chimiddleware.GetReqID(r.Context())

	var (
		input    *services.ClientInputError
		method   *services.MethodNotAllowedError
		config   *services.ConfigurationError
		upstream *services.UpstreamError
	)

	switch {
	case errors.As(err, &input):
		writeJSON(w, http.StatusBadRequest, errorResp(input.Message))
		return http.StatusBadRequest
	case errors.As(err, &method):
		writeJSON(w, http.StatusMethodNotAllowed, errorResp(method.Error()))
		return http.StatusMethodNotAllowed
	case errors.As(err, &config):
		logger.Error("server misconfigured", "error", config.Message, "request_id", reqID)
		writeJSON(w, http.StatusInternalServerError, errorResp(config.Message))
		return http.StatusInternalServerError
	case errors.As(err, &upstream):
		logger.Error("Gemini API error",
			"error", upstream.Message,
			"status", upstream.StatusCode,
			"timeout", upstream.Timeout,
			"cause", upstream.Err,
			"request_id", reqID,
		)
		writeJSON(w, http.StatusInternalServerError, errorResp(upstream.Message))
		return http.StatusInternalServerError
	default:
		logger.Error("handler error", "error", err, "request_id", reqID)
		writeJSON(w, http.StatusInternalServerError, errorResp("Internal server error"))
		return http.StatusInternalServerError
	}
}
