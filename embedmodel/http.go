package embedmodel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPModel calls an OpenAI-compatible `/embeddings` endpoint with a small
// hand-rolled client: no SDK dependency, a typed request/response pair.
type HTTPModel struct {
	name       string
	dimensions int
	endpoint   string
	apiKey     string
	client     *http.Client
}

// NewHTTPModel returns an HTTPModel targeting endpoint (e.g.
// "https://api.openai.com/v1/embeddings") with the given model name and
// fixed output dimensionality.
func NewHTTPModel(name, endpoint, apiKey string, dimensions int) *HTTPModel {
	return &HTTPModel{
		name:       name,
		dimensions: dimensions,
		endpoint:   endpoint,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (m *HTTPModel) ModelName() string { return m.name }
func (m *HTTPModel) Dimensions() int   { return m.dimensions }

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (m *HTTPModel) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingsRequest{Model: m.name, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("embedmodel: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("embedmodel: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedmodel: request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("embedmodel: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedmodel: unexpected status %d: %s", resp.StatusCode, string(data))
	}

	var parsed embeddingsResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("embedmodel: decode response: %w", err)
	}

	vectors := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}
