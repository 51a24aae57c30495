package bbolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topics/internal/domain"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	store, err := NewStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestStore_SaveList(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save("shekarabi", []domain.Record{
		{ID: "b", Text: "Fler bostäder", Category: "Bostäder", Time: "2014-08-29 17:53:00", Distance: 0.1, Votes: 2},
		{ID: "a", Text: "Mer polis", Category: "Polisen"},
	}))
	require.NoError(t, s.Save("shekarabi", []domain.Record{{ID: "b", Text: "ändrad", Category: "Sjukvården"}, {ID: "c"}}))

	got, err := s.List("shekarabi")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "Sjukvården", got[0].Category)
	assert.Equal(t, "a", got[1].ID)
	assert.Equal(t, "c", got[2].ID)

	none, err := s.List("nobody")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestStore_SurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Save("a", []domain.Record{{ID: "1", Category: "Polisen"}}))
	require.NoError(t, s.Save("b", []domain.Record{{ID: "2", Category: "Bostäder"}}))
	require.NoError(t, s.Close())

	s2, err := NewStore(path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.List("a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Polisen", got[0].Category)

	accounts, err := s2.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, accounts)
}

func TestStore_RejectsMissingID(t *testing.T) {
	s, _ := newTestStore(t)
	assert.Error(t, s.Save("a", []domain.Record{{Text: "x"}}))
}

func TestStore_EmptyAccount(t *testing.T) {
	s, _ := newTestStore(t)
	require.NoError(t, s.Save("", []domain.Record{{ID: "1", Category: "Polisen"}}))
	require.NoError(t, s.Save("b", []domain.Record{{ID: "2", Category: "Bostäder"}}))

	got, err := s.List("")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	accounts, err := s.Accounts()
	require.NoError(t, err)
	assert.Equal(t, []string{"", "b"}, accounts)
}
