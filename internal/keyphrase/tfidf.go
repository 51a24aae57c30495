package keyphrase

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"topics/internal/domain"
)

// TFIDF extracts key phrases locally by ranking each document's tokens by TF-IDF
// over the batch being classified.
type TFIDF struct {
	topN         int
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewTFIDF creates an extractor returning at most topN terms per document.
func NewTFIDF(topN int) *TFIDF {
	if topN <= 0 {
		topN = 5
	}
	return &TFIDF{
		topN:         topN,
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// KeyPhrases returns the top terms of each document in order of first occurrence.
func (e *TFIDF) KeyPhrases(_ context.Context, docs []domain.Document) (map[string][]string, error) {
	if len(docs) == 0 {
		return nil, errors.New("empty corpus for TF-IDF key phrases")
	}
	tokens := make([][]string, len(docs))
	// document frequencies
	df := make(map[string]int)
	for i, d := range docs {
		tokens[i] = e.tokenize(d.Text)
		seen := make(map[string]struct{})
		for _, tok := range tokens[i] {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	n := float64(len(docs))
	out := make(map[string][]string, len(docs))
	for i, d := range docs {
		out[d.ID] = e.top(tokens[i], df, n)
	}
	return out, nil
}

func (e *TFIDF) top(tokens []string, df map[string]int, n float64) []string {
	if len(tokens) == 0 {
		return nil
	}
	tf := make(map[string]int)
	first := make(map[string]int)
	for i, tok := range tokens {
		if _, ok := first[tok]; !ok {
			first[tok] = i
		}
		tf[tok]++
	}
	type pair struct {
		term  string
		score float64
	}
	scores := make([]pair, 0, len(tf))
	for term, count := range tf {
		// Smoothed IDF
		idf := math.Log((1+n)/(1+float64(df[term]))) + 1.0
		scores = append(scores, pair{term, float64(count) / float64(len(tokens)) * idf})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].score == scores[j].score {
			return first[scores[i].term] < first[scores[j].term]
		}
		return scores[i].score > scores[j].score
	})
	if len(scores) > e.topN {
		scores = scores[:e.topN]
	}
	// Keep original order among selected
	sort.Slice(scores, func(i, j int) bool { return first[scores[i].term] < first[scores[j].term] })
	out := make([]string, len(scores))
	for i, p := range scores {
		out[i] = p.term
	}
	return out
}

func (e *TFIDF) tokenize(text string) []string {
	lower := strings.ToLower(Normalize(text))
	raw := e.tokenPattern.FindAllString(lower, -1)
	out := raw[:0]
	for _, t := range raw {
		if _, isStop := e.stopwords[t]; isStop {
			continue
		}
		if len([]rune(t)) < 2 {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		// Swedish
		"och", "att", "det", "som", "en", "ett", "på", "är", "av", "för", "med", "till", "den", "har", "de", "inte", "om", "jag", "vi", "ni", "du", "han", "hon", "men", "var", "så", "från", "kan", "ska", "vill", "också", "alla", "nu", "när", "sig", "sin", "sina", "sitt", "vår", "våra", "vårt", "där", "här", "mer", "än", "eller", "efter", "under", "över", "ut", "upp", "man", "bara", "hade", "blir", "bli", "får", "fler", "många", "något", "några", "denna", "detta", "dessa", "mot", "vid", "hur", "vad", "idag", "tihi",
		// English
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "it", "this", "that", "these", "those", "from", "so", "can", "will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
