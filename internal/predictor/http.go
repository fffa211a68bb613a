package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPPredictor calls a model-serving endpoint that hosts the trained regression model.
type HTTPPredictor struct {
	endpoint string
	client   *http.Client
}

type predictRequest struct {
	Columns   []string           `json:"columns"`
	Instances [][]float64        `json:"instances"`
	Features  map[string]float64 `json:"features"`
}

type predictResponse struct {
	Predictions []float64 `json:"predictions"`
	Error       string    `json:"error,omitempty"`
}

// NewHTTPPredictor returns a predictor posting to endpoint. The timeout bounds every call;
// context cancellation is honoured as well.
func NewHTTPPredictor(endpoint string, timeout time.Duration) *HTTPPredictor {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HTTPPredictor{
		endpoint: strings.TrimSpace(endpoint),
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, features Features) (float64, error) {
	if p == nil || p.endpoint == "" {
		return 0, ErrUnavailable
	}

	body, err := json.Marshal(predictRequest{
		Columns:   features.Names,
		Instances: [][]float64{features.Values},
		Features:  features.Map(),
	})
	if err != nil {
		return 0, fmt.Errorf("predictor: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("predictor: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("predictor: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return 0, fmt.Errorf("predictor: unmarshal response: %w", err)
	}
	if pr.Error != "" {
		return 0, fmt.Errorf("predictor: model error: %s", pr.Error)
	}
	if len(pr.Predictions) == 0 {
		return 0, fmt.Errorf("predictor: empty predictions (raw: %s)", raw)
	}
	return pr.Predictions[0], nil
}
