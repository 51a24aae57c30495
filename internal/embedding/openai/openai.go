package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"os"
	"sync"
	"time"

	"topics/internal/retry"
)

// Model is an OpenAI-compatible embeddings client that measures word distances.
type Model struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
	policy  retry.Policy
	logger  *log.Logger

	mu    sync.RWMutex
	cache map[string][]float64
}

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
	Retry     retry.Policy
	Logger    *log.Logger
}

// New creates a new embeddings client using the provided configuration.
func New(cfg Config) (*Model, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.Initial == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	return &Model{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
		policy:  cfg.Retry,
		logger:  cfg.Logger,
		cache:   make(map[string][]float64),
	}, nil
}

// Name returns the identifier of this model implementation.
func (m *Model) Name() string { return "openai" }

// Distances embeds word and each term (cached) and returns Euclidean distances.
func (m *Model) Distances(ctx context.Context, word string, terms []string) ([]float64, error) {
	v, err := m.Embed(ctx, word)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(terms))
	for i, t := range terms {
		tv, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		if len(tv) != len(v) {
			return nil, fmt.Errorf("embedding dimension mismatch: %d != %d", len(tv), len(v))
		}
		sum := 0.0
		for j := range v {
			d := v[j] - tv[j]
			sum += d * d
		}
		out[i] = math.Sqrt(sum)
	}
	return out, nil
}

// Embed returns an embedding vector for the given text.
func (m *Model) Embed(ctx context.Context, text string) ([]float64, error) {
	m.mu.RLock()
	cached, ok := m.cache[text]
	m.mu.RUnlock()
	if ok {
		return cached, nil
	}
	var vec []float64
	err := retry.Do(ctx, m.policy, func() error {
		v, err := m.request(ctx, text)
		if err != nil {
			return err
		}
		vec = v
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		m.logf("embeddings attempt %d failed: %v (retrying in %s)", attempt, err, wait)
	})
	if err != nil {
		return nil, fmt.Errorf("openai embeddings: %w", err)
	}
	m.mu.Lock()
	m.cache[text] = vec
	m.mu.Unlock()
	return vec, nil
}

func (m *Model) request(ctx context.Context, text string) ([]float64, error) {
	type reqBody struct {
		Input  string `json:"input,omitempty"`
		Prompt string `json:"prompt,omitempty"`
		Model  string `json:"model"`
	}
	data, err := json.Marshal(reqBody{Input: text, Prompt: text, Model: m.model})
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.baseURL+"/embeddings", bytes.NewReader(data))
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := retry.CheckResponse(resp); err != nil {
		return nil, err
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	// Try OpenAI-compatible response first
	var openaiOut struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &openaiOut); err == nil {
		if len(openaiOut.Data) > 0 && len(openaiOut.Data[0].Embedding) > 0 {
			return openaiOut.Data[0].Embedding, nil
		}
	}
	// Fallback to Ollama-native shape: { "embedding": [...] }
	var ollamaOut struct {
		Embedding []float64 `json:"embedding"`
	}
	if err := json.Unmarshal(payload, &ollamaOut); err == nil && len(ollamaOut.Embedding) > 0 {
		return ollamaOut.Embedding, nil
	}
	return nil, retry.Permanent(errors.New("no embedding returned"))
}

func (m *Model) logf(format string, args ...any) {
	if m.logger != nil {
		m.logger.Printf(format, args...)
	}
}
