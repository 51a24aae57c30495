package embedding

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubModel struct {
	dists map[string][]float64
	err   error
	panic bool
}

func (s stubModel) Name() string { return "stub" }

func (s stubModel) Distances(_ context.Context, word string, _ []string) ([]float64, error) {
	if s.panic {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.dists[word]
	if !ok {
		return nil, ErrUnknownWord
	}
	return d, nil
}

func TestDistanceToTerms_Known(t *testing.T) {
	a := NewAdapter(stubModel{dists: map[string][]float64{"bostad": {0.1, 0.4}}})
	got := a.DistanceToTerms(context.Background(), "bostad", []string{"bostad", "bygger"})
	assert.Equal(t, []float64{0.1, 0.4}, got)
}

func TestDistanceToTerms_Fallbacks(t *testing.T) {
	cases := map[string]*Adapter{
		"unknown word": NewAdapter(stubModel{dists: map[string][]float64{}}),
		"model error":  NewAdapter(stubModel{err: errors.New("network down")}),
		"panic":        NewAdapter(stubModel{panic: true}),
		"nil model":    NewAdapter(nil),
		"empty result": NewAdapter(stubModel{dists: map[string][]float64{"x": {}}}),
		"nan distance": NewAdapter(stubModel{dists: map[string][]float64{"x": {math.NaN()}}}),
		"negative":     NewAdapter(stubModel{dists: map[string][]float64{"x": {-1}}}),
	}
	for name, a := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, []float64{Sentinel}, a.DistanceToTerms(context.Background(), "x", []string{"a"}))
		})
	}
}

func TestLookup_ReportsReason(t *testing.T) {
	a := NewAdapter(stubModel{dists: map[string][]float64{}})
	res := a.Lookup(context.Background(), "okänt", []string{"a"})
	assert.False(t, res.Known)
	assert.ErrorIs(t, res.Err, ErrUnknownWord)

	res = NewAdapter(nil).Lookup(context.Background(), "x", nil)
	assert.ErrorIs(t, res.Err, ErrNoModel)
}

func TestLookup_ClampsBelowSentinel(t *testing.T) {
	a := NewAdapter(stubModel{dists: map[string][]float64{"far": {5e16}}})
	res := a.Lookup(context.Background(), "far", []string{"a"})
	assert.True(t, res.Known)
	assert.Less(t, res.Distances[0], Sentinel)
}
