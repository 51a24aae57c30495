package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"topics/internal/category"
	"topics/internal/classifier"
	"topics/internal/domain"
	"topics/internal/feed"
	"topics/internal/keyphrase"
)

// Pipeline turns posts into one category-labelled record each:
// fetch, strip links, language filter, key phrases, classify, store.
type Pipeline struct {
	source     domain.Source
	detector   domain.LanguageDetector
	extractor  domain.KeyPhraseExtractor
	classifier *classifier.Classifier
	store      domain.RecordStore
	language   string
	logger     *log.Logger
}

// Options wires the pipeline collaborators. Detector may be nil to keep every post.
// Source may be nil when only ClassifyPosts is used.
type Options struct {
	Source     domain.Source
	Detector   domain.LanguageDetector
	Extractor  domain.KeyPhraseExtractor
	Classifier *classifier.Classifier
	Store      domain.RecordStore
	Language   string
	Logger     *log.Logger
}

// NewPipeline validates opts and builds a pipeline.
func NewPipeline(opts Options) (*Pipeline, error) {
	if opts.Classifier == nil {
		return nil, errors.New("classifier is required")
	}
	if opts.Extractor == nil {
		return nil, errors.New("key phrase extractor is required")
	}
	return &Pipeline{
		source:     opts.Source,
		detector:   opts.Detector,
		extractor:  opts.Extractor,
		classifier: opts.Classifier,
		store:      opts.Store,
		language:   opts.Language,
		logger:     opts.Logger,
	}, nil
}

// Categories returns the category table used for classification.
func (p *Pipeline) Categories() *category.Table { return p.classifier.Table() }

// Run fetches up to limit posts of account and classifies them.
func (p *Pipeline) Run(ctx context.Context, account string, limit int) ([]domain.Record, error) {
	if p.source == nil {
		return nil, errors.New("no feed source configured")
	}
	posts, err := p.source.Fetch(ctx, account, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	for i := range posts {
		if posts[i].Account == "" {
			posts[i].Account = account
		}
	}
	return p.ClassifyPosts(ctx, account, posts)
}

// ClassifyPosts classifies posts that were obtained elsewhere and stores the
// resulting records under account, in input order. Posts in another language,
// or without any key-phrase words, produce no record.
func (p *Pipeline) ClassifyPosts(ctx context.Context, account string, posts []domain.Post) ([]domain.Record, error) {
	docs := make([]domain.Document, 0, len(posts))
	// Extraction is keyed by position so posts sharing an ID keep their own phrases.
	var pending []domain.Document
	var pendingAt []int
	for _, post := range posts {
		if len(post.Words) > 0 {
			docs = append(docs, domain.Document{ID: post.ID, Text: post.Text, Time: post.Time, Words: keyphrase.SplitWords(post.Words)})
			continue
		}
		text := strings.TrimSpace(feed.StripLinks(post.Text))
		if text == "" {
			continue
		}
		keep, err := p.acceptLanguage(ctx, text)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		pendingAt = append(pendingAt, len(docs))
		pending = append(pending, domain.Document{ID: strconv.Itoa(len(pending)), Text: text, Time: post.Time})
		docs = append(docs, domain.Document{ID: post.ID, Text: text, Time: post.Time})
	}
	if len(docs) == 0 {
		return nil, nil
	}
	if len(pending) > 0 {
		phrases, err := p.extractor.KeyPhrases(ctx, pending)
		if err != nil {
			return nil, fmt.Errorf("extract key phrases: %w", err)
		}
		for j, i := range pendingAt {
			docs[i].Words = keyphrase.SplitWords(phrases[pending[j].ID])
		}
	}
	return p.ClassifyDocuments(ctx, account, docs)
}

// ClassifyDocuments classifies documents whose words are already known.
// Documents without an ID, or repeating an ID seen earlier in the batch, are
// stored under a fresh one.
func (p *Pipeline) ClassifyDocuments(ctx context.Context, account string, docs []domain.Document) ([]domain.Record, error) {
	results, err := p.classifier.ClassifyBatch(ctx, docs)
	if err != nil {
		return nil, err
	}
	records := make([]domain.Record, len(results))
	seen := make(map[string]struct{}, len(results))
	for i, r := range results {
		id := r.Document.ID
		if _, dup := seen[id]; dup {
			p.logf("duplicate document id %q in batch, assigning a new one", id)
			id = ""
		}
		if id == "" {
			id = uuid.NewString()
		}
		seen[id] = struct{}{}
		records[i] = domain.Record{
			ID:       id,
			Account:  account,
			Text:     r.Document.Text,
			Category: r.Category,
			Time:     r.Document.Time,
			Distance: r.Decision.Distance,
			Votes:    r.Decision.Votes,
		}
	}
	if p.store != nil && len(records) > 0 {
		if err := p.store.Save(account, records); err != nil {
			return nil, fmt.Errorf("store records: %w", err)
		}
	}
	p.logf("classified %d of %d documents for %q", len(records), len(docs), account)
	return records, nil
}

// Records lists stored records for account.
func (p *Pipeline) Records(account string) ([]domain.Record, error) {
	if p.store == nil {
		return nil, errors.New("no record store configured")
	}
	return p.store.List(account)
}

func (p *Pipeline) acceptLanguage(ctx context.Context, text string) (bool, error) {
	if p.detector == nil || p.language == "" {
		return true, nil
	}
	lang, err := p.detector.DetectLanguage(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		p.logf("language detection failed, skipping post: %v", err)
		return false, nil
	}
	return strings.EqualFold(lang, p.language), nil
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.logger != nil {
		p.logger.Printf(format, args...)
	}
}
