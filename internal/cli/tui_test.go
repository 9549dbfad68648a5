package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/suggest"
)

func tuiTree(t *testing.T) *family.Tree {
	t.Helper()
	tr, err := family.FromSnapshot(family.Snapshot{
		People: []family.Person{
			{ID: "ada", Name: "Ada", Gender: family.GenderFemale, BirthYear: 1950},
			{ID: "ben", Name: "Ben", Gender: family.GenderMale, BirthYear: 1975, DeathYear: 2020},
		},
		Edges: []family.Edge{{From: "ada", To: "ben", Type: family.RelParent}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m SuggestionListModel, keys ...string) (SuggestionListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(SuggestionListModel)
	}
	return m, cmd
}

func TestSuggestionListNavigation(t *testing.T) {
	tr := tuiTree(t)
	list := suggest.Compute(tr, suggest.Options{})
	if len(list) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(list))
	}
	m := NewSuggestionListModel(tr, list)

	m, _ = press(m, "down", "down", "down")
	if m.Cursor != 1 {
		t.Errorf("cursor = %d, want clamped to 1", m.Cursor)
	}
	m, _ = press(m, "k", "k")
	if m.Cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.Cursor)
	}
}

func TestSuggestionListScrolls(t *testing.T) {
	tr := tuiTree(t)
	list := suggest.Compute(tr, suggest.Options{})
	m := NewSuggestionListModel(tr, list)
	m.Height = 1

	m, _ = press(m, "j")
	if m.Offset != 1 {
		t.Errorf("offset = %d, want 1", m.Offset)
	}
	m, _ = press(m, "up")
	if m.Offset != 0 {
		t.Errorf("offset = %d, want 0", m.Offset)
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if got := next.(SuggestionListModel).Height; got != 5 {
		t.Errorf("height = %d, want minimum 5", got)
	}
}

func TestSuggestionListDetail(t *testing.T) {
	tr := tuiTree(t)
	list := suggest.ForPerson(suggest.Compute(tr, suggest.Options{}), "ben")
	m := NewSuggestionListModel(tr, list)

	m, _ = press(m, "enter")
	if !m.Detail {
		t.Fatal("enter should open the detail view")
	}
	view := m.View()
	for _, want := range []string{"Ben (ben)", "1975–2020", "Ada (ada)", "only one parent recorded"} {
		if !strings.Contains(view, want) {
			t.Errorf("detail view missing %q:\n%s", want, view)
		}
	}

	m, cmd := press(m, "esc")
	if m.Detail || cmd != nil {
		t.Error("esc should close the detail view without quitting")
	}
	if _, cmd = press(m, "q"); cmd == nil {
		t.Error("q should quit")
	}
}

func TestSuggestionListEmpty(t *testing.T) {
	m := NewSuggestionListModel(family.NewTree(), nil)
	m, _ = press(m, "down", "enter")
	if m.Detail {
		t.Error("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.View(), "Nothing to review") {
		t.Errorf("view = %q", m.View())
	}
}
