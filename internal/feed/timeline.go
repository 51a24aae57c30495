package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"topics/internal/domain"
	"topics/internal/retry"
)

// TimelineClient reads a user's recent posts from a timeline REST API.
type TimelineClient struct {
	baseURL string
	token   string
	client  *http.Client
	policy  retry.Policy
}

// TimelineConfig configures a TimelineClient.
type TimelineConfig struct {
	BaseURL  string
	TokenEnv string
	Timeout  time.Duration
	Retry    retry.Policy
}

// NewTimelineClient creates a client reading the bearer token from cfg.TokenEnv.
func NewTimelineClient(cfg TimelineConfig) (*TimelineClient, error) {
	token := os.Getenv(cfg.TokenEnv)
	if token == "" {
		return nil, fmt.Errorf("missing bearer token in env %s", cfg.TokenEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twitter.com/2"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 15 * time.Second
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.Initial == 0 {
		cfg.Retry = retry.DefaultPolicy()
	}
	return &TimelineClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: t},
		policy:  cfg.Retry,
	}, nil
}

// Fetch returns up to limit recent posts of account, newest first.
func (c *TimelineClient) Fetch(ctx context.Context, account string, limit int) ([]domain.Post, error) {
	if account == "" {
		return nil, errors.New("account is required")
	}
	if limit <= 0 {
		limit = 5
	}
	var user struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/users/by/username/"+url.PathEscape(account), nil, &user); err != nil {
		return nil, fmt.Errorf("lookup %s: %w", account, err)
	}
	if user.Data.ID == "" {
		return nil, fmt.Errorf("lookup %s: user not found", account)
	}
	q := url.Values{}
	// the API accepts 5..100
	q.Set("max_results", strconv.Itoa(min(max(limit, 5), 100)))
	q.Set("tweet.fields", "created_at")
	var timeline struct {
		Data []struct {
			ID        string `json:"id"`
			Text      string `json:"text"`
			CreatedAt string `json:"created_at"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/users/"+user.Data.ID+"/tweets", q, &timeline); err != nil {
		return nil, fmt.Errorf("timeline %s: %w", account, err)
	}
	posts := make([]domain.Post, 0, len(timeline.Data))
	for _, t := range timeline.Data {
		posts = append(posts, domain.Post{ID: t.ID, Account: account, Text: t.Text, Time: formatTime(t.CreatedAt)})
		if len(posts) >= limit {
			break
		}
	}
	if len(posts) == 0 {
		return nil, ErrNoDocuments
	}
	return posts, nil
}

func (c *TimelineClient) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return retry.Do(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		resp, err := c.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if err := retry.CheckResponse(resp); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return retry.Permanent(err)
		}
		return nil
	}, nil)
}

// formatTime renders RFC 3339 timestamps as "2006-01-02 15:04:05"; other values pass through.
func formatTime(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format(time.DateTime)
}
