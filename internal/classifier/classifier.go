// Package classifier assigns documents to topic categories from word-embedding
// distances between their key-phrase words and category seed terms.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"topics/internal/category"
	"topics/internal/domain"
)

// Classifier scores documents against a fixed category table. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	table   *category.Table
	dist    Distancer
	workers int
	logger  *log.Logger
}

// Classification pairs a document with its decision and category name.
type Classification struct {
	Document domain.Document
	Decision domain.DocumentTopicDecision
	Category string
}

// New creates a classifier. workers bounds batch parallelism (<=0 means 4).
func New(table *category.Table, dist Distancer, workers int, logger *log.Logger) (*Classifier, error) {
	if table == nil || table.Len() == 0 {
		return nil, errors.New("category table is required")
	}
	if dist == nil {
		return nil, errors.New("distance adapter is required")
	}
	if workers <= 0 {
		workers = 4
	}
	return &Classifier{table: table, dist: dist, workers: workers, logger: logger}, nil
}

// Table returns the category table in use.
func (c *Classifier) Table() *category.Table { return c.table }

// ScoreWords scores each word in order.
func (c *Classifier) ScoreWords(ctx context.Context, words []string) []domain.WordTopicScore {
	out := make([]domain.WordTopicScore, len(words))
	for i, w := range words {
		out[i] = ScoreWord(ctx, w, c.table, c.dist)
	}
	return out
}

// ClassifyDocument returns the decision for one document's words.
// It returns ErrEmptyDocument for a document without words.
func (c *Classifier) ClassifyDocument(ctx context.Context, words []string) (domain.DocumentTopicDecision, error) {
	return Aggregate(c.ScoreWords(ctx, words))
}

// ClassifyBatch classifies documents concurrently and returns results in input
// order. Documents without words, or whose decision names an unknown category,
// are skipped and logged.
func (c *Classifier) ClassifyBatch(ctx context.Context, docs []domain.Document) ([]Classification, error) {
	results := make([]*Classification, len(docs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			doc := docs[i]
			dec, err := c.ClassifyDocument(gctx, doc.Words)
			if errors.Is(err, ErrEmptyDocument) {
				c.logf("skipping document %s: %v", doc.ID, err)
				return nil
			}
			if err != nil {
				return fmt.Errorf("classify %s: %w", doc.ID, err)
			}
			name, err := c.table.Name(dec.Category)
			if err != nil {
				c.logf("skipping document %s: %v", doc.ID, err)
				return nil
			}
			results[i] = &Classification{Document: doc, Decision: dec, Category: name}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]Classification, 0, len(docs))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (c *Classifier) logf(format string, args ...any) {
	if c.logger != nil {
		c.logger.Printf(format, args...)
	}
}
