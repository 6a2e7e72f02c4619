package ai

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

// InferenceConfig holds API settings for a hosted-inference service that
// exposes question-answering, feature-extraction and zero-shot tasks per
// model.
type InferenceConfig struct {
	BaseURL         string
	APIKey          string
	QAModel         string
	EmbeddingModel  string
	ClassifierModel string
}

// InferenceClient talks to the hosted-inference HTTP API. A zero model
// name means the matching capability is not configured; the bootstrap
// layer exposes such capabilities as nil.
type InferenceClient struct {
	cfg        InferenceConfig
	httpClient *http.Client
}

func NewInferenceClient(cfg InferenceConfig) *InferenceClient {
	return &InferenceClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Answer runs extractive QA over one context chunk.
func (c *InferenceClient) Answer(ctx context.Context, question, passage string) (Answer, error) {
	reqBody := map[string]interface{}{
		"inputs": map[string]string{
			"question": question,
			"context":  passage,
		},
	}

	var parsed struct {
		Answer string  `json:"answer"`
		Score  float64 `json:"score"`
	}
	if err := c.post(ctx, c.cfg.QAModel, reqBody, &parsed); err != nil {
		return Answer{}, err
	}
	return Answer{Text: parsed.Answer, Score: parsed.Score}, nil
}

// Embed returns the embedding vector for the given text.
func (c *InferenceClient) Embed(ctx context.Context, text string) ([]float32, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("embedding input is empty")
	}

	reqBody := map[string]interface{}{
		"inputs": text,
	}

	raw, err := c.postRaw(ctx, c.cfg.EmbeddingModel, reqBody)
	if err != nil {
		return nil, err
	}

	// Sentence-embedding models answer with a flat vector; token-level
	// feature extraction answers with one row per input.
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}
	var nested [][]float32
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 && len(nested[0]) > 0 {
		return nested[0], nil
	}
	return nil, fmt.Errorf("empty embedding in response")
}

// Classify scores text against the candidate labels (zero-shot).
func (c *InferenceClient) Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error) {
	reqBody := map[string]interface{}{
		"inputs": text,
		"parameters": map[string]interface{}{
			"candidate_labels": labels,
		},
	}

	var parsed struct {
		Labels []string  `json:"labels"`
		Scores []float64 `json:"scores"`
	}
	if err := c.post(ctx, c.cfg.ClassifierModel, reqBody, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Labels) != len(parsed.Scores) {
		return nil, fmt.Errorf("classification labels/scores mismatch: %d vs %d", len(parsed.Labels), len(parsed.Scores))
	}

	out := make([]LabelScore, len(parsed.Labels))
	for i := range parsed.Labels {
		out[i] = LabelScore{Label: parsed.Labels[i], Score: parsed.Scores[i]}
	}
	return out, nil
}

func (c *InferenceClient) post(ctx context.Context, model string, reqBody, out interface{}) error {
	raw, err := c.postRaw(ctx, model, reqBody)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse inference json failed: %w", err)
	}
	return nil
}

func (c *InferenceClient) postRaw(ctx context.Context, model string, reqBody interface{}) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal inference request failed: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build inference request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read inference response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("inference response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
