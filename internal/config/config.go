package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"topics/internal/category"
)

// VectorsConfig points at a local word-vector file.
type VectorsConfig struct {
	Path string `yaml:"path"`
}

// OpenAIEmbeddingConfig holds configuration for the OpenAI-compatible embedder.
type OpenAIEmbeddingConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// EmbeddingConfig selects and configures the word distance model.
type EmbeddingConfig struct {
	Type    string                 `yaml:"type"`
	Vectors *VectorsConfig         `yaml:"vectors,omitempty"`
	OpenAI  *OpenAIEmbeddingConfig `yaml:"openai,omitempty"`
}

// TextAnalyticsConfig configures the remote language and key-phrase service.
type TextAnalyticsConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Language    string `yaml:"language"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	// MaxRetries is the retry budget per request; 0 means the default, negative disables retries.
	MaxRetries  int    `yaml:"max_retries"`
}

// Retries returns the effective retry budget.
func (c TextAnalyticsConfig) Retries() int {
	if c.MaxRetries < 0 {
		return 0
	}
	return c.MaxRetries
}

// KeyPhraseConfig selects remote or local key-phrase extraction.
type KeyPhraseConfig struct {
	Type string `yaml:"type"`
	TopN int    `yaml:"top_n"`
}

// FileFeedConfig points at a JSON-lines post file.
type FileFeedConfig struct {
	Path string `yaml:"path"`
}

// TimelineFeedConfig configures the timeline API client.
type TimelineFeedConfig struct {
	BaseURL  string `yaml:"base_url"`
	TokenEnv string `yaml:"token_env"`
}

// FeedConfig selects and configures where posts come from.
type FeedConfig struct {
	Type         string              `yaml:"type"`
	Account      string              `yaml:"account"`
	MaxDocuments int                 `yaml:"max_documents"`
	File         *FileFeedConfig     `yaml:"file,omitempty"`
	Timeline     *TimelineFeedConfig `yaml:"timeline,omitempty"`
}

// BboltConfig contains the database path for the bbolt store.
type BboltConfig struct {
	Path string `yaml:"path"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	Type  string       `yaml:"type"`
	Bbolt *BboltConfig `yaml:"bbolt,omitempty"`
}

// ServerConfig configures the request server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Categories    []category.Category `yaml:"categories"`
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	TextAnalytics TextAnalyticsConfig `yaml:"text_analytics"`
	KeyPhrase     KeyPhraseConfig     `yaml:"keyphrase"`
	Feed          FeedConfig          `yaml:"feed"`
	Store         StoreConfig         `yaml:"store"`
	Server        ServerConfig        `yaml:"server"`
	Workers       int                 `yaml:"workers"`
}

// CategoryTable builds the immutable category table from the config.
func (c *AppConfig) CategoryTable() (*category.Table, error) {
	return category.New(c.Categories)
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// LoadDefault tries ./config.yaml first, then ~/.config/topics/config.yaml.
// If neither exists, it writes defaults to ~/.config/topics/config.yaml and returns them.
func LoadDefault() (*AppConfig, string, error) {
	cwdPath := "config.yaml"
	if _, err := os.Stat(cwdPath); err == nil {
		cfg, err := Load(cwdPath)
		return cfg, cwdPath, err
	}
	userPath, err := defaultUserConfigPath()
	if err != nil {
		return nil, "", err
	}
	if _, err := os.Stat(userPath); err == nil {
		cfg, err := Load(userPath)
		return cfg, userPath, err
	}
	cfg := defaultConfig()
	if err := Save(userPath, cfg); err != nil {
		return nil, "", err
	}
	return cfg, userPath, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func defaultUserConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "topics", "config.yaml"), nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{
		Embedding: EmbeddingConfig{Type: "vectors", Vectors: &VectorsConfig{Path: "embeddings/sv.txt"}},
		KeyPhrase: KeyPhraseConfig{Type: "tfidf"},
		Feed:      FeedConfig{Type: "file", File: &FileFeedConfig{Path: "posts.jsonl"}},
		Store:     StoreConfig{Type: "memory"},
	}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if len(cfg.Categories) == 0 {
		cfg.Categories = category.DefaultCategories()
	}
	if cfg.Embedding.Type == "" {
		cfg.Embedding.Type = "vectors"
	}
	if cfg.Embedding.Type == "openai" && cfg.Embedding.OpenAI != nil {
		if cfg.Embedding.OpenAI.BaseURL == "" {
			cfg.Embedding.OpenAI.BaseURL = "https://api.openai.com/v1"
		}
		if cfg.Embedding.OpenAI.APIKeyEnv == "" {
			cfg.Embedding.OpenAI.APIKeyEnv = "OPENAI_API_KEY"
		}
		if cfg.Embedding.OpenAI.Model == "" {
			cfg.Embedding.OpenAI.Model = "text-embedding-3-small"
		}
		if cfg.Embedding.OpenAI.TimeoutSecs == 0 {
			cfg.Embedding.OpenAI.TimeoutSecs = 30
		}
	}
	if cfg.TextAnalytics.APIKeyEnv == "" {
		cfg.TextAnalytics.APIKeyEnv = "TEXT_ANALYTICS_KEY"
	}
	if cfg.TextAnalytics.Language == "" {
		cfg.TextAnalytics.Language = "sv"
	}
	if cfg.TextAnalytics.TimeoutSecs == 0 {
		cfg.TextAnalytics.TimeoutSecs = 15
	}
	if cfg.TextAnalytics.MaxRetries == 0 {
		cfg.TextAnalytics.MaxRetries = 5
	}
	if cfg.KeyPhrase.Type == "" {
		cfg.KeyPhrase.Type = "tfidf"
	}
	if cfg.KeyPhrase.TopN == 0 {
		cfg.KeyPhrase.TopN = 5
	}
	if cfg.Feed.Type == "" {
		cfg.Feed.Type = "file"
	}
	if cfg.Feed.MaxDocuments == 0 {
		cfg.Feed.MaxDocuments = 5
	}
	if cfg.Feed.Type == "timeline" && cfg.Feed.Timeline != nil && cfg.Feed.Timeline.TokenEnv == "" {
		cfg.Feed.Timeline.TokenEnv = "TIMELINE_BEARER_TOKEN"
	}
	if cfg.Store.Type == "" {
		cfg.Store.Type = "memory"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":2000"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}
}
