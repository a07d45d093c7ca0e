package llm

import (
	"fmt"

	"chat-relay/bot/internal/model"
)

// GenerationConfig holds the sampling parameters sent with every request.
type GenerationConfig struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMIMEType string  `json:"responseMimeType,omitempty"`
}

// SafetySetting is a harm category and the threshold at which the backend
// blocks content in it.
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Profile is a named backend configuration bound to one tier.
type Profile struct {
	Choice            model.Choice
	Model             string
	SystemInstruction string
	Generation        GenerationConfig
	Safety            []SafetySetting
}

// DefaultGenerationConfig returns the sampling parameters both tiers share.
func DefaultGenerationConfig() GenerationConfig {
	return GenerationConfig{
		Temperature:      1,
		TopP:             0.95,
		TopK:             64,
		MaxOutputTokens:  8192,
		ResponseMIMEType: "text/plain",
	}
}

// DefaultSafetySettings blocks medium and above in every harm category.
func DefaultSafetySettings() []SafetySetting {
	categories := []string{
		"HARM_CATEGORY_HARASSMENT",
		"HARM_CATEGORY_HATE_SPEECH",
		"HARM_CATEGORY_SEXUALLY_EXPLICIT",
		"HARM_CATEGORY_DANGEROUS_CONTENT",
	}
	settings := make([]SafetySetting, len(categories))
	for i, c := range categories {
		settings[i] = SafetySetting{Category: c, Threshold: "BLOCK_MEDIUM_AND_ABOVE"}
	}
	return settings
}

// ProfileSet holds the FAST and CAPABLE profiles. It is built once at startup
// and never mutated, so it is shared between goroutines without locking.
type ProfileSet struct {
	fast    Profile
	capable Profile
}

// NewProfileSet builds both profiles with the default generation and safety
// settings.
func NewProfileSet(fastModel, capableModel, systemInstruction string) (*ProfileSet, error) {
	if fastModel == "" || capableModel == "" {
		return nil, fmt.Errorf("both profile models must be set (fast=%q, capable=%q)", fastModel, capableModel)
	}
	build := func(c model.Choice, name string) Profile {
		return Profile{
			Choice:            c,
			Model:             name,
			SystemInstruction: systemInstruction,
			Generation:        DefaultGenerationConfig(),
			Safety:            DefaultSafetySettings(),
		}
	}
	return &ProfileSet{
		fast:    build(model.ChoiceFast, fastModel),
		capable: build(model.ChoiceCapable, capableModel),
	}, nil
}

// Get returns the profile for a tier. Unknown tiers resolve to CAPABLE.
func (s *ProfileSet) Get(c model.Choice) Profile {
	if c == model.ChoiceFast {
		return s.fast
	}
	return s.capable
}

// ModelName returns the backend model name used for a tier.
func (s *ProfileSet) ModelName(c model.Choice) string {
	return s.Get(c).Model
}
