package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app_errors "chat-relay/bot/internal/errors"
	"chat-relay/bot/internal/interfaces"
	"chat-relay/bot/internal/model"
)

// AdminHandler serves stats and read-only per-user history inspection.
type AdminHandler struct {
	history   interfaces.HistoryStore
	selector  interfaces.ModelSelector
	generator interfaces.Generator
}

func NewAdminHandler(history interfaces.HistoryStore, selector interfaces.ModelSelector, generator interfaces.Generator) *AdminHandler {
	return &AdminHandler{history: history, selector: selector, generator: generator}
}

// HandleGetStats godoc
// @Summary      Bot statistics
// @Description  Returns the number of tracked users and the generation pool counters.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /v1/stats [get]
func (h *AdminHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	users, err := h.history.Users(r.Context())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StatsResponse{
		HistoryUsers:   users,
		ModelOverrides: h.selector.Users(),
		Generation:     h.generator.Stats(),
	})
}

// HandleGetHistory godoc
// @Summary      Get a user's history
// @Description  Returns the user's conversation turns, oldest first. Unknown users have an empty history.
// @Tags         Users
// @Produce      json
// @Param        userID  path      int  true   "Telegram user ID"
// @Param        limit   query     int  false  "Return only the most recent turns"
// @Success      200     {object}  HistoryResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      500     {object}  ErrorResponse
// @Router       /v1/users/{userID}/history [get]
func (h *AdminHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	user, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	query, err := historyQueryParams(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	turns, err := h.history.Get(r.Context(), user)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if query.Limit > 0 && len(turns) > query.Limit {
		turns = turns[len(turns)-query.Limit:]
	}

	resp := HistoryResponse{UserID: int64(user), Turns: make([]TurnResponse, 0, len(turns))}
	for _, t := range turns {
		resp.Turns = append(resp.Turns, TurnResponse{Role: string(t.Role), Text: t.Content.Text()})
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func userIDParam(r *http.Request) (model.UserID, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid user ID %q", app_errors.ErrValidation, raw)
	}
	return model.UserID(id), nil
}

func historyQueryParams(r *http.Request) (HistoryQuery, error) {
	var query HistoryQuery
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return query, fmt.Errorf("%w: invalid limit %q", app_errors.ErrValidation, raw)
		}
		query.Limit = limit
	}
	return query, validateRequest(&query)
}
