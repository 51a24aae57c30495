// Package vectors is an in-memory word-vector model read from the word2vec text format.
package vectors

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"

	"topics/internal/embedding"
)

// Model holds one vector per word and measures Euclidean distances between them.
type Model struct {
	mu        sync.RWMutex
	dimension int
	vectors   map[string][]float64
}

// New creates an empty model.
func New() *Model { return &Model{vectors: make(map[string][]float64)} }

// Load reads a model from a word2vec/GloVe text file.
func Load(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vectors: %w", err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("read vectors %s: %w", path, err)
	}
	return m, nil
}

// Read parses "word v1 v2 ..." lines. A leading "count dim" header is skipped.
func Read(r io.Reader) (*Model, error) {
	m := New()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if line == 1 && len(fields) == 2 && isInt(fields[0]) && isInt(fields[1]) {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: no vector values", line)
		}
		vec := make([]float64, len(fields)-1)
		for i, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			vec[i] = v
		}
		if err := m.Add(fields[0], vec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if m.Size() == 0 {
		return nil, errors.New("no vectors found")
	}
	return m, nil
}

// Add stores a copy of vec for word. All vectors must share one dimension.
func (m *Model) Add(word string, vec []float64) error {
	if word == "" || len(vec) == 0 {
		return errors.New("empty word or vector")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dimension == 0 {
		m.dimension = len(vec)
	}
	if len(vec) != m.dimension {
		return fmt.Errorf("vector dimension mismatch for %q: %d != %d", word, len(vec), m.dimension)
	}
	m.vectors[word] = append([]float64(nil), vec...)
	return nil
}

// Name returns the identifier of this model implementation.
func (m *Model) Name() string { return "vectors" }

// Size returns the vocabulary size.
func (m *Model) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vectors)
}

// Dimension returns the vector dimension.
func (m *Model) Dimension() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.dimension
}

// Distances returns the Euclidean distance from word to each term. Any word or term
// outside the vocabulary yields embedding.ErrUnknownWord.
func (m *Model) Distances(_ context.Context, word string, terms []string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vectors[word]
	if !ok {
		return nil, fmt.Errorf("%w: %q", embedding.ErrUnknownWord, word)
	}
	out := make([]float64, len(terms))
	for i, t := range terms {
		tv, ok := m.vectors[t]
		if !ok {
			return nil, fmt.Errorf("%w: %q", embedding.ErrUnknownWord, t)
		}
		out[i] = euclidean(v, tv)
	}
	return out, nil
}

func euclidean(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func isInt(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
