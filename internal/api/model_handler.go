package api

import (
	"net/http"

	"chat-relay/bot/internal/interfaces"
	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/model"
)

// ModelHandler exposes each user's backend tier.
type ModelHandler struct {
	selector interfaces.ModelSelector
	profiles *llm.ProfileSet
}

func NewModelHandler(selector interfaces.ModelSelector, profiles *llm.ProfileSet) *ModelHandler {
	return &ModelHandler{selector: selector, profiles: profiles}
}

// HandleGetModel godoc
// @Summary      Get a user's model
// @Description  Returns the tier used for the user's text conversations.
// @Tags         Users
// @Produce      json
// @Param        userID  path      int  true  "Telegram user ID"
// @Success      200     {object}  ModelResponse
// @Failure      400     {object}  ErrorResponse
// @Router       /v1/users/{userID}/model [get]
func (h *ModelHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	user, err := userIDParam(r)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, h.modelResponse(user, h.selector.Get(user)))
}

func (h *ModelHandler) modelResponse(user model.UserID, choice model.Choice) ModelResponse {
	return ModelResponse{
		UserID:    int64(user),
		Model:     string(choice),
		ModelName: h.profiles.ModelName(choice),
	}
}
