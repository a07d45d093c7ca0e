package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	app_errors "chat-relay/bot/internal/errors"
	"chat-relay/bot/internal/model"
)

// This file contains the DTOs returned by the admin API and the helpers
// that write them.

// ErrorResponse defines the standard JSON structure for error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is returned by operations that have no resource to return.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatsResponse summarizes the bot's in-memory state.
type StatsResponse struct {
	HistoryUsers   int                   `json:"history_users" example:"12"`
	ModelOverrides int                   `json:"model_overrides" example:"3"`
	Generation     model.GenerationStats `json:"generation"`
}

// TurnResponse is one history entry. Only text is exposed.
type TurnResponse struct {
	Role string `json:"role" example:"user"`
	Text string `json:"text" example:"Who is John Lennon?"`
}

// HistoryResponse lists a user's turns, oldest first.
type HistoryResponse struct {
	UserID int64          `json:"user_id" example:"42"`
	Turns  []TurnResponse `json:"turns"`
}

// ModelResponse describes a user's backend tier.
type ModelResponse struct {
	UserID    int64  `json:"user_id" example:"42"`
	Model     string `json:"model" example:"capable"`
	ModelName string `json:"model_name" example:"gemini-1.5-pro"`
}

// HistoryQuery holds the query parameters of GET /v1/users/{userID}/history.
type HistoryQuery struct {
	Limit int `validate:"min=0,max=1000"`
}

// respondWithError maps sentinel errors to HTTP status codes. Details are
// logged; clients only see a fixed message, except for validation errors.
func respondWithError(w http.ResponseWriter, err error) {
	var statusCode int
	var message string

	switch {
	case errors.Is(err, app_errors.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "The requested resource was not found."
	case errors.Is(err, app_errors.ErrValidation):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, app_errors.ErrInvalidContext):
		statusCode = http.StatusConflict
		message = "The operation is not allowed in this context."
	case errors.Is(err, app_errors.ErrUnavailable):
		statusCode = http.StatusServiceUnavailable
		message = "The service is temporarily unavailable."
	default:
		statusCode = http.StatusInternalServerError
		message = "An unexpected internal server error occurred."
	}

	slog.Warn("Responding with error", "status_code", statusCode, "client_message", message, "internal_error", err)

	respondWithJSON(w, statusCode, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to marshal JSON response", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(response); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}
