// Package embedding adapts a word-embedding distance model for the classifier.
//
// The adapter never fails: a word the model cannot represent is reported as a
// single Sentinel distance, so unknown words always lose to known ones.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"math"

	"topics/internal/domain"
)

// Sentinel is the distance reported for a word absent from the model vocabulary.
const Sentinel = 1e16

// maxDistance is the largest distance a known word may report.
var maxDistance = math.Nextafter(Sentinel, 0)

var (
	// ErrUnknownWord is returned by models when a word or term has no vector.
	ErrUnknownWord = errors.New("word not in embedding vocabulary")
	// ErrNoModel is reported when the adapter has nothing to query.
	ErrNoModel = errors.New("no embedding model configured")
)

// Result is the outcome of one lookup. Known is false when Distances could not be
// produced; Err then carries the reason.
type Result struct {
	Distances []float64
	Known     bool
	Err       error
}

// Adapter wraps a DistanceModel with the sentinel fallback.
type Adapter struct {
	model domain.DistanceModel
}

// NewAdapter creates an adapter over model.
func NewAdapter(model domain.DistanceModel) *Adapter {
	return &Adapter{model: model}
}

// ModelName returns the wrapped model's name.
func (a *Adapter) ModelName() string {
	if a == nil || a.model == nil {
		return ""
	}
	return a.model.Name()
}

// Lookup queries the model for the distances of word to each term.
func (a *Adapter) Lookup(ctx context.Context, word string, terms []string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("distance lookup for %q panicked: %v", word, r)}
		}
	}()
	if a == nil || a.model == nil {
		return Result{Err: ErrNoModel}
	}
	dists, err := a.model.Distances(ctx, word, terms)
	if err != nil {
		return Result{Err: err}
	}
	if len(dists) == 0 {
		return Result{Err: fmt.Errorf("%w: %q", ErrUnknownWord, word)}
	}
	out := make([]float64, len(dists))
	for i, d := range dists {
		if math.IsNaN(d) || math.IsInf(d, 0) || d < 0 {
			return Result{Err: fmt.Errorf("invalid distance %v for %q", d, word)}
		}
		out[i] = math.Min(d, maxDistance)
	}
	return Result{Distances: out, Known: true}
}

// DistanceToTerms returns one distance per term, or []float64{Sentinel} when the
// word cannot be looked up.
func (a *Adapter) DistanceToTerms(ctx context.Context, word string, terms []string) []float64 {
	res := a.Lookup(ctx, word, terms)
	if !res.Known {
		return []float64{Sentinel}
	}
	return res.Distances
}
