package classifier

import (
	"context"
	"strings"

	"topics/internal/category"
	"topics/internal/domain"
	"topics/internal/embedding"
)

// Distancer is the lookup capability the scorer needs.
type Distancer interface {
	DistanceToTerms(ctx context.Context, word string, terms []string) []float64
}

// ScoreWord returns the category nearest to word. Each category is represented by
// its closest seed term; the first category reaching the overall minimum wins.
func ScoreWord(ctx context.Context, word string, table *category.Table, d Distancer) domain.WordTopicScore {
	word = strings.ToLower(word)
	best := domain.WordTopicScore{Category: -1}
	for i := 0; i < table.Len(); i++ {
		dist := minimum(d.DistanceToTerms(ctx, word, table.Terms(i)))
		if best.Category < 0 || dist < best.Distance {
			best = domain.WordTopicScore{Category: i, Distance: dist}
		}
	}
	return best
}

func minimum(vals []float64) float64 {
	if len(vals) == 0 {
		return embedding.Sentinel
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
