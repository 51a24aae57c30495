package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"topics/internal/category"
	"topics/internal/domain"
)

// RecordPort is the TUI-facing subset of the classification pipeline.
type RecordPort interface {
	Categories() *category.Table
	Records(account string) ([]domain.Record, error)
}

// Model is the Bubble Tea model for browsing classified records.
type Model struct {
	service  RecordPort
	account  string
	input    textinput.Model
	viewport viewport.Model
	all      []domain.Record
	shown    []domain.Record
	status   string
	cursor   int
	ready    bool
	filter   string
}

// New loads the records stored for account and returns the browser model.
func New(service RecordPort, account string) Model {
	ti := textinput.New()
	ti.Prompt = "category> "
	ti.Placeholder = "Type a category and press Enter"
	ti.Focus()
	ti.CharLimit = 64
	vp := viewport.New(0, 0)
	m := Model{service: service, account: account, input: ti, viewport: vp}
	records, err := service.Records(account)
	if err != nil {
		m.status = "Error: " + err.Error()
		return m
	}
	m.all = records
	m.shown = records
	m.status = fmt.Sprintf("Loaded %d records for %q.", len(records), account)
	return m
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := recordBoxStyle.GetFrameSize()
		_, qh := filterBoxStyle.GetFrameSize()
		reserved := 2 + 1 + qh + 1 // header, counts, status, spacer
		vh := msg.Height - reserved
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrent())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m.applyFilter(strings.TrimSpace(m.input.Value()))
			m.viewport.SetContent(m.renderCurrent())
			return m, nil
		case "down":
			if len(m.shown) > 0 {
				m.cursor = (m.cursor + 1) % len(m.shown)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		case "up":
			if len(m.shown) > 0 {
				m.cursor = (m.cursor - 1 + len(m.shown)) % len(m.shown)
				m.viewport.SetContent(m.renderCurrent())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the header, the current record and the filter box.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Topics - " + m.account)
	counts := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.countLine())
	record := recordBoxStyle.Render(m.viewport.View())
	input := filterBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + counts + "\n" + record + "\n" + input + "\n" + status
}

// applyFilter keeps records whose category starts with the query, case-insensitively.
func (m *Model) applyFilter(query string) {
	m.filter = query
	m.cursor = 0
	if query == "" {
		m.shown = m.all
		m.status = fmt.Sprintf("Showing all %d records.", len(m.all))
		return
	}
	q := strings.ToLower(query)
	var shown []domain.Record
	for _, r := range m.all {
		if strings.HasPrefix(strings.ToLower(r.Category), q) {
			shown = append(shown, r)
		}
	}
	m.shown = shown
	m.status = fmt.Sprintf("%d records in %q", len(shown), query)
}

// countLine lists records per category in table order.
func (m Model) countLine() string {
	counts := make(map[string]int, len(m.all))
	for _, r := range m.all {
		counts[r.Category]++
	}
	names := m.service.Categories().Names()
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, fmt.Sprintf("%s: %d", n, counts[n]))
	}
	return strings.Join(parts, "  ")
}

func (m Model) renderCurrent() string {
	if len(m.shown) == 0 {
		return "No records."
	}
	r := m.shown[m.cursor]
	title := fmt.Sprintf("Record %d/%d  %s  distance=%.3f  votes=%d", m.cursor+1, len(m.shown), r.Category, r.Distance, r.Votes)
	var terms []string
	if idx, ok := m.service.Categories().Index(r.Category); ok {
		terms = m.service.Categories().Terms(idx)
	}
	return title + "\n" + r.Time + "\n\n" + highlightTerms(r.Text, terms)
}

var (
	recordBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	filterBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+`)
)

// highlightTerms marks words of text that equal one of the seed terms.
func highlightTerms(text string, terms []string) string {
	if len(terms) == 0 {
		return text
	}
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[strings.ToLower(t)] = struct{}{}
	}
	return unicodeWordRe.ReplaceAllStringFunc(text, func(w string) string {
		if _, ok := set[strings.ToLower(w)]; ok {
			return highlightStyle.Render(w)
		}
		return w
	})
}
