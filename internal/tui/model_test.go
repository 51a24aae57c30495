package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"topics/internal/category"
	"topics/internal/domain"
)

type fakePort struct {
	records []domain.Record
	err     error
}

func (f fakePort) Categories() *category.Table { return category.Default() }

func (f fakePort) Records(string) ([]domain.Record, error) { return f.records, f.err }

func sample() []domain.Record {
	return []domain.Record{
		{ID: "1", Text: "Fler bostäder behövs", Category: "Bostäder"},
		{ID: "2", Text: "Mer polis", Category: "Polisen"},
		{ID: "3", Text: "Nya hyresrätter", Category: "Bostäder"},
	}
}

func sized(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func TestModel_CountsAndNavigation(t *testing.T) {
	m := sized(t, New(fakePort{records: sample()}, "shekarabi"))
	assert.Equal(t, "Bostäder: 2  Polisen: 1  Sjukvården: 0", m.countLine())
	assert.Contains(t, m.View(), "Record 1/3")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.cursor)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	assert.Equal(t, 2, m.cursor)
}

func TestModel_Filter(t *testing.T) {
	m := sized(t, New(fakePort{records: sample()}, "a"))
	m.applyFilter("bost")
	require.Len(t, m.shown, 2)
	assert.Equal(t, 0, m.cursor)

	m.applyFilter("")
	assert.Len(t, m.shown, 3)

	m.applyFilter("okänd")
	assert.Empty(t, m.shown)
	assert.Equal(t, "No records.", m.renderCurrent())
}

func TestModel_LoadError(t *testing.T) {
	m := New(fakePort{err: errors.New("boom")}, "a")
	assert.Equal(t, "Error: boom", m.status)
	assert.Equal(t, "Loading...", m.View())
}

func TestModel_Quit(t *testing.T) {
	m := New(fakePort{}, "a")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestHighlightTerms(t *testing.T) {
	assert.Equal(t, "inget här", highlightTerms("inget här", []string{"bostäder"}))
	assert.Equal(t, "text", highlightTerms("text", nil))
}
