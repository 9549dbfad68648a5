package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SuggestionListModel - Interactive suggestion browser
// =============================================================================

// SuggestionListModel is the bubbletea model for browsing suggestions. Enter
// toggles a detail view of the selected person.
type SuggestionListModel struct {
	Tree        *family.Tree
	Suggestions []suggest.Suggestion
	Cursor      int
	Height      int
	Offset      int
	Detail      bool
}

// NewSuggestionListModel creates a new suggestion list model.
func NewSuggestionListModel(t *family.Tree, list []suggest.Suggestion) SuggestionListModel {
	return SuggestionListModel{
		Tree:        t,
		Suggestions: list,
		Height:      15,
	}
}

func (m SuggestionListModel) Init() tea.Cmd {
	return nil
}

func (m SuggestionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Detail {
				m.Detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Suggestions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Suggestions) > 0 {
				m.Detail = !m.Detail
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SuggestionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Suggestions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	if len(m.Suggestions) == 0 {
		b.WriteString(StyleSuccess.Render("Nothing to review"))
		b.WriteString("\n")
		return b.String()
	}

	end := min(m.Offset+m.Height, len(m.Suggestions))
	for i := m.Offset; i < end; i++ {
		s := m.Suggestions[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		prio := priorityStyles[s.Priority].Render(fmt.Sprintf("%-6s", s.Priority))
		line := fmt.Sprintf("%s%s %-28s %s", cursor, prio, displayName(m.Tree, s.PersonID), suggestionText(s))
		if i == m.Cursor {
			line = listSelectedStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.Detail {
		b.WriteString("\n")
		b.WriteString(m.detailView(m.Suggestions[m.Cursor]))
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Suggestions))))

	return b.String()
}

// detailView shows the person a suggestion is about and the people it
// relates to.
func (m SuggestionListModel) detailView(s suggest.Suggestion) string {
	var b strings.Builder
	write := func(key, value string) {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  %-12s", key)))
		b.WriteString(StyleValue.Render(value))
		b.WriteString("\n")
	}

	if p, ok := m.Tree.Person(s.PersonID); ok {
		write("name", p.Name)
		write("born", lifespan(p))
		if p.Birthplace != "" {
			write("birthplace", p.Birthplace)
		}
		write("parents", names(m.Tree, m.Tree.ParentsOf(p.ID)))
		write("spouses", names(m.Tree, m.Tree.SpousesOf(p.ID)))
	}
	write("finding", fmt.Sprintf("%s (%s)", suggestionText(s), s.Kind))
	if len(s.RelatedIDs) > 0 {
		write("related", names(m.Tree, s.RelatedIDs))
	}
	return b.String()
}

func lifespan(p family.Person) string {
	if p.Alive() {
		return fmt.Sprint(p.BirthYear)
	}
	return fmt.Sprintf("%d–%d", p.BirthYear, p.DeathYear)
}

func names(t *family.Tree, ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = displayName(t, id)
	}
	return strings.Join(out, ", ")
}
