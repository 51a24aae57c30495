// Package textanalytics is a client for the Text Analytics v2 REST API
// (language detection and key-phrase extraction).
package textanalytics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"topics/internal/domain"
	"topics/internal/retry"
)

var (
	// ErrNoLanguage is returned when the service detects no language for a text.
	ErrNoLanguage = errors.New("no language detected")
	// ErrRateLimited is returned when the service still answers 429 after all retries.
	ErrRateLimited = errors.New("text analytics rate limited")
)

// Client calls the languages and keyPhrases endpoints.
type Client struct {
	baseURL string
	key     string
	client  *http.Client
	policy  retry.Policy
	logger  *log.Logger
}

// Config configures the client.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Timeout   time.Duration
	Retry     retry.Policy
	Logger    *log.Logger
}

// NewClient creates a client reading the subscription key from cfg.APIKeyEnv.
func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing subscription key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("text analytics base url is required")
	}
	t := cfg.Timeout
	if t == 0 {
		t = 15 * time.Second
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.Initial == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		key:     key,
		client:  &http.Client{Timeout: t},
		policy:  cfg.Retry,
		logger:  cfg.Logger,
	}, nil
}

type requestDocument struct {
	ID       string `json:"id"`
	Language string `json:"language,omitempty"`
	Text     string `json:"text"`
}

type request struct {
	Documents []requestDocument `json:"documents"`
}

type languageResponse struct {
	Documents []struct {
		ID                string `json:"id"`
		DetectedLanguages []struct {
			Name        string  `json:"name"`
			ISO6391Name string  `json:"iso6391Name"`
			Score       float64 `json:"score"`
		} `json:"detectedLanguages"`
	} `json:"documents"`
}

type keyPhraseResponse struct {
	Documents []struct {
		ID         string   `json:"id"`
		KeyPhrases []string `json:"keyPhrases"`
	} `json:"documents"`
	Errors []struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	} `json:"errors"`
}

// DetectLanguage returns the ISO 639-1 code of the most likely language of text.
func (c *Client) DetectLanguage(ctx context.Context, text string) (string, error) {
	var out languageResponse
	body := request{Documents: []requestDocument{{ID: "1", Text: text}}}
	if err := c.post(ctx, "/languages", body, &out); err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}
	if len(out.Documents) == 0 || len(out.Documents[0].DetectedLanguages) == 0 {
		return "", ErrNoLanguage
	}
	return out.Documents[0].DetectedLanguages[0].ISO6391Name, nil
}

// KeyPhrases extracts key phrases for each document, keyed by document ID.
// Documents the service rejects are logged and left out of the result.
func (c *Client) KeyPhrases(ctx context.Context, docs []domain.Document, language string) (map[string][]string, error) {
	body := request{Documents: make([]requestDocument, len(docs))}
	for i, d := range docs {
		body.Documents[i] = requestDocument{ID: d.ID, Language: language, Text: d.Text}
	}
	var out keyPhraseResponse
	if err := c.post(ctx, "/keyPhrases", body, &out); err != nil {
		return nil, fmt.Errorf("key phrases: %w", err)
	}
	for _, e := range out.Errors {
		c.logf("key phrases for document %s failed: %s", e.ID, e.Message)
	}
	res := make(map[string][]string, len(out.Documents))
	for _, d := range out.Documents {
		res[d.ID] = d.KeyPhrases
	}
	return res, nil
}

// Extractor binds a language to the client so it satisfies domain.KeyPhraseExtractor.
func (c *Client) Extractor(language string) domain.KeyPhraseExtractor {
	return extractor{c: c, language: language}
}

type extractor struct {
	c        *Client
	language string
}

func (e extractor) KeyPhrases(ctx context.Context, docs []domain.Document) (map[string][]string, error) {
	return e.c.KeyPhrases(ctx, docs, e.language)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	url := c.baseURL + path
	err = retry.Do(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Ocp-Apim-Subscription-Key", c.key)
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if err := retry.CheckResponse(resp); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(fmt.Errorf("decode %s: %w", path, err))
		}
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		c.logf("POST %s attempt %d failed: %v (retrying in %s)", path, attempt, err, wait)
	})
	var se *retry.StatusError
	if errors.As(err, &se) && se.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return err
}

func (c *Client) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
