package cmd

import (
	"fmt"
	"log"
	"time"

	"topics/internal/classifier"
	"topics/internal/config"
	"topics/internal/domain"
	"topics/internal/embedding"
	"topics/internal/embedding/openai"
	"topics/internal/embedding/vectors"
	"topics/internal/feed"
	"topics/internal/keyphrase"
	"topics/internal/retry"
	"topics/internal/service"
	"topics/internal/store/bbolt"
	"topics/internal/store/memory"
	"topics/internal/textanalytics"
)

// app holds the assembled components. Close releases the store.
type app struct {
	cfg      *config.AppConfig
	pipeline *service.Pipeline
	store    domain.RecordStore
	logger   *log.Logger
}

func (a *app) Close() error { return a.store.Close() }

// buildApp assembles the pipeline from cfg. inputPath, when set, overrides the
// configured feed with a JSON-lines file.
func buildApp(cfg *config.AppConfig, inputPath string, logger *log.Logger) (*app, error) {
	table, err := cfg.CategoryTable()
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	var model domain.DistanceModel
	switch cfg.Embedding.Type {
	case "vectors", "":
		if cfg.Embedding.Vectors == nil {
			return nil, fmt.Errorf("vectors embedding config missing")
		}
		m, err := vectors.Load(cfg.Embedding.Vectors.Path)
		if err != nil {
			return nil, fmt.Errorf("load vectors: %w", err)
		}
		logger.Printf("loaded %d word vectors (dim %d)", m.Size(), m.Dimension())
		model = m
	case "openai":
		if cfg.Embedding.OpenAI == nil {
			return nil, fmt.Errorf("openai embedding config missing")
		}
		m, err := openai.New(openai.Config{
			BaseURL:   cfg.Embedding.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedding.OpenAI.APIKeyEnv,
			Model:     cfg.Embedding.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedding.OpenAI.TimeoutSecs) * time.Second,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		model = m
	default:
		return nil, fmt.Errorf("unknown embedding: %s", cfg.Embedding.Type)
	}

	clf, err := classifier.New(table, embedding.NewAdapter(model), cfg.Workers, logger)
	if err != nil {
		return nil, err
	}

	var detector domain.LanguageDetector
	var extractor domain.KeyPhraseExtractor
	switch cfg.KeyPhrase.Type {
	case "tfidf", "":
		extractor = keyphrase.NewTFIDF(cfg.KeyPhrase.TopN)
	case "remote":
		policy := retry.DefaultPolicy()
		policy.MaxRetries = cfg.TextAnalytics.Retries()
		client, err := textanalytics.NewClient(textanalytics.Config{
			BaseURL:   cfg.TextAnalytics.BaseURL,
			APIKeyEnv: cfg.TextAnalytics.APIKeyEnv,
			Timeout:   time.Duration(cfg.TextAnalytics.TimeoutSecs) * time.Second,
			Retry:     policy,
			Logger:    logger,
		})
		if err != nil {
			return nil, err
		}
		detector = client
		extractor = client.Extractor(cfg.TextAnalytics.Language)
	default:
		return nil, fmt.Errorf("unknown keyphrase: %s", cfg.KeyPhrase.Type)
	}

	var src domain.Source
	switch {
	case inputPath != "":
		src = feed.NewFileSource(inputPath)
	case cfg.Feed.Type == "file" || cfg.Feed.Type == "":
		if cfg.Feed.File == nil {
			return nil, fmt.Errorf("file feed config missing")
		}
		src = feed.NewFileSource(cfg.Feed.File.Path)
	case cfg.Feed.Type == "timeline":
		if cfg.Feed.Timeline == nil {
			return nil, fmt.Errorf("timeline feed config missing")
		}
		tc, err := feed.NewTimelineClient(feed.TimelineConfig{
			BaseURL:  cfg.Feed.Timeline.BaseURL,
			TokenEnv: cfg.Feed.Timeline.TokenEnv,
		})
		if err != nil {
			return nil, err
		}
		src = tc
	default:
		return nil, fmt.Errorf("unknown feed: %s", cfg.Feed.Type)
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	p, err := service.NewPipeline(service.Options{
		Source:     src,
		Detector:   detector,
		Extractor:  extractor,
		Classifier: clf,
		Store:      st,
		Language:   cfg.TextAnalytics.Language,
		Logger:     logger,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	return &app{cfg: cfg, pipeline: p, store: st, logger: logger}, nil
}

func openStore(cfg *config.AppConfig) (domain.RecordStore, error) {
	switch cfg.Store.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "bbolt":
		if cfg.Store.Bbolt == nil {
			return nil, fmt.Errorf("bbolt store config missing")
		}
		s, err := bbolt.NewStore(cfg.Store.Bbolt.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store: %s", cfg.Store.Type)
	}
}
