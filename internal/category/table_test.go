package category

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreservesOrder(t *testing.T) {
	tbl, err := New([]Category{
		{Name: "Housing", SeedTerms: []string{"bostad"}},
		{Name: "Police", SeedTerms: []string{"polis", " brott "}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{"Housing", "Police"}, tbl.Names())
	assert.Equal(t, []string{"polis", "brott"}, tbl.Terms(1))
}

func TestNew_Rejects(t *testing.T) {
	cases := map[string][]Category{
		"empty":        nil,
		"missing name": {{Name: " ", SeedTerms: []string{"a"}}},
		"no terms":     {{Name: "A", SeedTerms: []string{" "}}},
		"duplicate":    {{Name: "A", SeedTerms: []string{"a"}}, {Name: "A", SeedTerms: []string{"b"}}},
	}
	for name, cats := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(cats)
			assert.Error(t, err)
		})
	}
}

func TestNew_CopiesInput(t *testing.T) {
	in := []Category{{Name: "A", SeedTerms: []string{"a"}}}
	tbl := MustNew(in)
	in[0].Name = "changed"
	in[0].SeedTerms[0] = "changed"
	name, err := tbl.Name(0)
	require.NoError(t, err)
	assert.Equal(t, "A", name)
	assert.Equal(t, []string{"a"}, tbl.Terms(0))

	out := tbl.Categories()
	out[0].SeedTerms[0] = "mutated"
	assert.Equal(t, []string{"a"}, tbl.Terms(0))
}

func TestName_OutOfRange(t *testing.T) {
	tbl := Default()
	_, err := tbl.Name(3)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
	_, err = tbl.Name(-1)
	assert.True(t, errors.Is(err, ErrInvalidIndex))
}

func TestDefault(t *testing.T) {
	tbl := Default()
	assert.Equal(t, []string{"Bostäder", "Polisen", "Sjukvården"}, tbl.Names())
	idx, ok := tbl.Index("polisen")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
	_, ok = tbl.Index("Skola")
	assert.False(t, ok)
}
