package vectors

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topics/internal/embedding"
)

const sample = `3 2
bostad 0 0
polis 3 4
brott 3 0
`

func TestRead_SkipsHeader(t *testing.T) {
	m, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Size())
	assert.Equal(t, 2, m.Dimension())
}

func TestDistances_Euclidean(t *testing.T) {
	m, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	got, err := m.Distances(context.Background(), "bostad", []string{"polis", "brott", "bostad"})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 3, 0}, got, 1e-12)
}

func TestDistances_Unknown(t *testing.T) {
	m, err := Read(strings.NewReader(sample))
	require.NoError(t, err)
	_, err = m.Distances(context.Background(), "skola", []string{"polis"})
	assert.ErrorIs(t, err, embedding.ErrUnknownWord)
	_, err = m.Distances(context.Background(), "polis", []string{"skola"})
	assert.ErrorIs(t, err, embedding.ErrUnknownWord)
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.Error(t, err)
	_, err = Read(strings.NewReader("a 1 2\nb 1\n"))
	assert.Error(t, err)
	_, err = Read(strings.NewReader("a x\n"))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sv.txt")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))
	m, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "vectors", m.Name())

	_, err = Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
