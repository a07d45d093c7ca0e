package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-relay/bot/internal/api"
	"chat-relay/bot/internal/interfaces/mocks"
	"chat-relay/bot/internal/llm"
	"chat-relay/bot/internal/model"
)

func setupModelHandler(t *testing.T) (*api.ModelHandler, *mocks.MockModelSelector) {
	profiles, err := llm.NewProfileSet("flash", "pro", "")
	require.NoError(t, err)
	selector := mocks.NewMockModelSelector(t)
	return api.NewModelHandler(selector, profiles), selector
}

func TestModelHandler_HandleGetModel(t *testing.T) {
	handler, selector := setupModelHandler(t)
	selector.On("Get", model.UserID(42)).Return(model.ChoiceCapable).Once()

	req := addChiURLParams(httptest.NewRequest(http.MethodGet, "/v1/users/42/model", nil), map[string]string{"userID": "42"})
	rr := httptest.NewRecorder()
	handler.HandleGetModel(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp api.ModelResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, api.ModelResponse{UserID: 42, Model: "capable", ModelName: "pro"}, resp)
}
