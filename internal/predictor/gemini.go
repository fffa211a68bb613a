package predictor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-2.0-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiPredictor asks a Gemini model for a base fare estimate given the feature vector.
// It is meant for environments without a hosted regression model.
type GeminiPredictor struct {
	client *genai.Client
	model  contentGenerator
}

type geminiEstimate struct {
	Price float64 `json:"price"`
}

// NewGeminiPredictor initializes a Gemini client; apiKey comes from the environment.
func NewGeminiPredictor(ctx context.Context, apiKey string) (*GeminiPredictor, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(geminiModel)
	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	// Estimates should be stable for identical inputs.
	model.SetTemperature(0)

	return &GeminiPredictor{client: client, model: model}, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiPredictor) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

func (p *GeminiPredictor) Predict(ctx context.Context, features Features) (float64, error) {
	if p == nil || p.model == nil {
		return 0, ErrUnavailable
	}

	payload, err := json.Marshal(features.Map())
	if err != nil {
		return 0, fmt.Errorf("gemini: marshal features: %w", err)
	}

	resp, err := p.model.GenerateContent(ctx, genai.Text(buildPrompt(string(payload))))
	if err != nil {
		return 0, fmt.Errorf("%w: gemini generation error: %v", ErrUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return 0, fmt.Errorf("gemini: no response candidates")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	clean := cleanJSONString(text.String())
	var est geminiEstimate
	if err := json.Unmarshal([]byte(clean), &est); err != nil {
		return 0, fmt.Errorf("gemini: parse estimate: %w. Raw: %s", err, clean)
	}
	if est.Price <= 0 {
		return 0, fmt.Errorf("gemini: non-positive estimate %v", est.Price)
	}
	return est.Price, nil
}

func buildPrompt(featuresJSON string) string {
	return fmt.Sprintf(`Role: You estimate one-way economy base fares in Philippine pesos for domestic and
regional flights operated from the Philippines.

Input features (JSON): %s

Feature notes:
- days_left: days between booking and departure.
- Journey_day / Journey_month: departure date. Dep_* / Arrival_*: local clock times.
- Duration_hours / Duration_mins: block time. Total_Stops: number of stops.
- Airline_*, Source_*, Destination_*: one-hot indicators; the column set to 1 is the selected value.

Return ONLY a JSON object: {"price": number}. No taxes, no fees, no currency symbol.`, featuresJSON)
}

// cleanJSONString removes markdown code fences if the model wrapped its answer in them.
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimPrefix(input, "```json")
	input = strings.TrimPrefix(input, "```")
	input = strings.TrimSuffix(input, "```")
	return strings.TrimSpace(input)
}
