package classifier

import (
	"errors"

	"topics/internal/domain"
)

// ErrEmptyDocument is returned when a document has no word scores to aggregate.
var ErrEmptyDocument = errors.New("document has no words to classify")

type tally struct {
	category int
	distance float64
	votes    int
}

// Aggregate reduces a document's word scores to one decision. The winner is the
// category holding the single smallest distance; Votes is informational.
// Ties go to the category that appeared first among the words.
func Aggregate(scores []domain.WordTopicScore) (domain.DocumentTopicDecision, error) {
	if len(scores) == 0 {
		return domain.DocumentTopicDecision{}, ErrEmptyDocument
	}
	order := make([]*tally, 0, len(scores))
	byCategory := make(map[int]*tally, len(scores))
	for _, s := range scores {
		if t, ok := byCategory[s.Category]; ok {
			if s.Distance < t.distance {
				t.distance = s.Distance
			}
			t.votes++
			continue
		}
		t := &tally{category: s.Category, distance: s.Distance, votes: 1}
		byCategory[s.Category] = t
		order = append(order, t)
	}
	best := order[0]
	for _, t := range order[1:] {
		if t.distance < best.distance {
			best = t
		}
	}
	return domain.DocumentTopicDecision{Category: best.category, Distance: best.distance, Votes: best.votes}, nil
}
