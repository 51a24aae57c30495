package classifier

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topics/internal/category"
	"topics/internal/domain"
	"topics/internal/embedding"
)

// tableModel answers distances from a word -> term -> distance table.
type tableModel map[string]map[string]float64

func (m tableModel) Name() string { return "table" }

func (m tableModel) Distances(_ context.Context, word string, terms []string) ([]float64, error) {
	row, ok := m[word]
	if !ok {
		return nil, embedding.ErrUnknownWord
	}
	out := make([]float64, len(terms))
	for i, t := range terms {
		d, ok := row[t]
		if !ok {
			return nil, embedding.ErrUnknownWord
		}
		out[i] = d
	}
	return out, nil
}

func housingPolice() *category.Table {
	return category.MustNew([]category.Category{
		{Name: "Housing", SeedTerms: []string{"bostad"}},
		{Name: "Police", SeedTerms: []string{"polis"}},
	})
}

func scenarioModel() *embedding.Adapter {
	return embedding.NewAdapter(tableModel{
		"bostad": {"bostad": 0.1, "polis": 5.0},
		"polis":  {"bostad": 5.0, "polis": 0.2},
	})
}

func TestScoreWord_Nearest(t *testing.T) {
	ctx := context.Background()
	tbl := housingPolice()
	d := scenarioModel()
	assert.Equal(t, domain.WordTopicScore{Category: 0, Distance: 0.1}, ScoreWord(ctx, "bostad", tbl, d))
	assert.Equal(t, domain.WordTopicScore{Category: 1, Distance: 0.2}, ScoreWord(ctx, "polis", tbl, d))
}

func TestScoreWord_LowercasesWord(t *testing.T) {
	got := ScoreWord(context.Background(), "POLIS", housingPolice(), scenarioModel())
	assert.Equal(t, domain.WordTopicScore{Category: 1, Distance: 0.2}, got)
}

func TestScoreWord_UnknownPicksFirstCategory(t *testing.T) {
	got := ScoreWord(context.Background(), "unknownword", housingPolice(), scenarioModel())
	assert.Equal(t, domain.WordTopicScore{Category: 0, Distance: embedding.Sentinel}, got)
}

func TestScoreWord_MinOverSeedTerms(t *testing.T) {
	tbl := category.MustNew([]category.Category{
		{Name: "A", SeedTerms: []string{"a1", "a2"}},
		{Name: "B", SeedTerms: []string{"b1", "b2"}},
	})
	d := embedding.NewAdapter(tableModel{"w": {"a1": 4, "a2": 3, "b1": 9, "b2": 0.5}})
	assert.Equal(t, domain.WordTopicScore{Category: 1, Distance: 0.5}, ScoreWord(context.Background(), "w", tbl, d))
}

func TestScoreWord_TieGoesToFirst(t *testing.T) {
	tbl := category.MustNew([]category.Category{
		{Name: "A", SeedTerms: []string{"a"}},
		{Name: "B", SeedTerms: []string{"b"}},
		{Name: "C", SeedTerms: []string{"c"}},
	})
	d := embedding.NewAdapter(tableModel{"w": {"a": 2, "b": 1, "c": 1}})
	assert.Equal(t, 1, ScoreWord(context.Background(), "w", tbl, d).Category)
}

func TestScoreWord_IndexAlwaysInRange(t *testing.T) {
	tbl := category.Default()
	d := embedding.NewAdapter(nil)
	for _, w := range []string{"", "bostad", "ÅÄÖ", "  "} {
		got := ScoreWord(context.Background(), w, tbl, d)
		assert.GreaterOrEqual(t, got.Category, 0)
		assert.Less(t, got.Category, tbl.Len())
	}
}

func TestAggregate_Scenario1(t *testing.T) {
	scores := []domain.WordTopicScore{{0, 0.1}, {1, 0.2}, {0, 0.1}}
	got, err := Aggregate(scores)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTopicDecision{Category: 0, Distance: 0.1, Votes: 2}, got)
}

func TestAggregate_MinimumBeatsMajority(t *testing.T) {
	scores := []domain.WordTopicScore{{0, 0.9}, {0, 0.8}, {0, 0.7}, {1, 0.1}}
	got, err := Aggregate(scores)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTopicDecision{Category: 1, Distance: 0.1, Votes: 1}, got)
}

func TestAggregate_TieGoesToFirstSeen(t *testing.T) {
	scores := []domain.WordTopicScore{{2, 0.5}, {1, 0.3}, {0, 0.3}}
	got, err := Aggregate(scores)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Category)
}

func TestAggregate_Empty(t *testing.T) {
	_, err := Aggregate(nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestAggregate_Idempotent(t *testing.T) {
	scores := []domain.WordTopicScore{{3, 0.4}, {1, 0.4}, {3, 0.2}, {2, 0.2}}
	a, err := Aggregate(scores)
	require.NoError(t, err)
	b, err := Aggregate(scores)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, domain.DocumentTopicDecision{Category: 3, Distance: 0.2, Votes: 2}, a)
}

func newClassifier(t *testing.T, logger *log.Logger) *Classifier {
	t.Helper()
	c, err := New(housingPolice(), scenarioModel(), 2, logger)
	require.NoError(t, err)
	return c
}

func TestClassifyDocument_Scenarios(t *testing.T) {
	c := newClassifier(t, nil)
	ctx := context.Background()

	scores := c.ScoreWords(ctx, []string{"bostad", "polis", "bostad"})
	assert.Equal(t, []domain.WordTopicScore{{0, 0.1}, {1, 0.2}, {0, 0.1}}, scores)

	got, err := c.ClassifyDocument(ctx, []string{"polis"})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTopicDecision{Category: 1, Distance: 0.2, Votes: 1}, got)

	got, err = c.ClassifyDocument(ctx, []string{"unknownword"})
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTopicDecision{Category: 0, Distance: embedding.Sentinel, Votes: 1}, got)

	_, err = c.ClassifyDocument(ctx, nil)
	assert.ErrorIs(t, err, ErrEmptyDocument)
}

func TestClassifyBatch_SkipsEmptyDocuments(t *testing.T) {
	var buf bytes.Buffer
	c := newClassifier(t, log.New(&buf, "", 0))
	docs := []domain.Document{
		{ID: "a", Words: []string{"bostad", "polis", "bostad"}},
		{ID: "b"},
		{ID: "c", Words: []string{"polis"}},
	}
	got, err := c.ClassifyBatch(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Document.ID)
	assert.Equal(t, "Housing", got[0].Category)
	assert.Equal(t, "c", got[1].Document.ID)
	assert.Equal(t, "Police", got[1].Category)
	assert.Contains(t, buf.String(), "skipping document b")
}

func TestClassifyBatch_PreservesOrder(t *testing.T) {
	c := newClassifier(t, nil)
	docs := make([]domain.Document, 50)
	for i := range docs {
		w := "bostad"
		if i%2 == 1 {
			w = "polis"
		}
		docs[i] = domain.Document{ID: fmt.Sprint(i), Words: []string{w}}
	}
	got, err := c.ClassifyBatch(context.Background(), docs)
	require.NoError(t, err)
	require.Len(t, got, 50)
	for i, r := range got {
		assert.Equal(t, fmt.Sprint(i), r.Document.ID)
		assert.Equal(t, i%2, r.Decision.Category)
	}
}

func TestClassifyBatch_Cancelled(t *testing.T) {
	c := newClassifier(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ClassifyBatch(ctx, []domain.Document{{ID: "a", Words: []string{"bostad"}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_Validates(t *testing.T) {
	_, err := New(nil, scenarioModel(), 1, nil)
	assert.Error(t, err)
	_, err = New(housingPolice(), nil, 1, nil)
	assert.Error(t, err)
}
