package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"chat-relay/bot/internal/model"
)

// DefaultGeminiURL is the public Generative Language API endpoint.
const DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrBlocked is returned when the backend refused to answer because of its
// safety filters.
var ErrBlocked = errors.New("response blocked by safety filter")

// ErrEmptyResponse is returned when the backend answered without any text.
var ErrEmptyResponse = errors.New("backend returned no text")

// GenerateRequest is one generation call: prior history plus the new input.
type GenerateRequest struct {
	Choice  model.Choice
	History []model.Turn
	Input   model.Content
}

// GenerateResponse is the backend's answer.
type GenerateResponse struct {
	Text         string
	FinishReason string
}

// LLMProvider defines the interface for interacting with a language model.
// Calls are blocking and may fail; callers are expected to offload them.
type LLMProvider interface {
	Generate(ctx context.Context, profile Profile, req *GenerateRequest) (*GenerateResponse, error)
}

type geminiProvider struct {
	client *http.Client
	url    string
	apiKey string
}

// NewGeminiProvider creates a provider for the generateContent REST API.
func NewGeminiProvider(baseURL, apiKey string) LLMProvider {
	if baseURL == "" {
		baseURL = DefaultGeminiURL
	}
	return &geminiProvider{
		client: &http.Client{},
		url:    strings.TrimRight(baseURL, "/"),
		apiKey: apiKey,
	}
}

type geminiInlineData struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  GenerationConfig `json:"generationConfig"`
	SafetySettings    []SafetySetting  `json:"safetySettings,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (p *geminiProvider) Generate(ctx context.Context, profile Profile, req *GenerateRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(buildGeminiRequest(profile, req))
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", p.url, url.PathEscape(profile.Model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create http request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("could not read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr geminiError
		if json.Unmarshal(bodyBytes, &apiErr) == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("api returned status %d (%s): %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("api returned non-200 status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var genResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &genResp); err != nil {
		return nil, fmt.Errorf("could not decode response: %w", err)
	}
	return parseGeminiResponse(&genResp)
}

func buildGeminiRequest(profile Profile, req *GenerateRequest) *geminiRequest {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, turn := range req.History {
		contents = append(contents, toGeminiContent(string(turn.Role), turn.Content))
	}
	contents = append(contents, toGeminiContent(string(model.RoleUser), req.Input))

	out := &geminiRequest{
		Contents:         contents,
		GenerationConfig: profile.Generation,
		SafetySettings:   profile.Safety,
	}
	if profile.SystemInstruction != "" {
		out.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: profile.SystemInstruction}}}
	}
	return out
}

func toGeminiContent(role string, c model.Content) geminiContent {
	parts := make([]geminiPart, 0, len(c.Parts))
	for _, p := range c.Parts {
		if len(p.Data) > 0 {
			parts = append(parts, geminiPart{InlineData: &geminiInlineData{MIMEType: p.MIMEType, Data: p.Data}})
			continue
		}
		parts = append(parts, geminiPart{Text: p.Text})
	}
	return geminiContent{Role: role, Parts: parts}
}

func parseGeminiResponse(resp *geminiResponse) (*GenerateResponse, error) {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return nil, fmt.Errorf("%w: prompt blocked (%s)", ErrBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return nil, ErrEmptyResponse
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == "SAFETY" {
		return nil, fmt.Errorf("%w: candidate finished with %s", ErrBlocked, candidate.FinishReason)
	}

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		text.WriteString(part.Text)
	}
	if strings.TrimSpace(text.String()) == "" {
		return nil, ErrEmptyResponse
	}
	return &GenerateResponse{Text: text.String(), FinishReason: candidate.FinishReason}, nil
}
