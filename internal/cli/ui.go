package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	kerrors "github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
	"github.com/matzehuels/kintree/pkg/placeholder"
	"github.com/matzehuels/kintree/pkg/suggest"
)

// stdout receives all command output. Tests replace it.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - commands
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorBlue)
	styleHeader   = lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	priorityStyles = map[suggest.Priority]lipgloss.Style{
		suggest.PriorityHigh:   lipgloss.NewStyle().Foreground(colorRed),
		suggest.PriorityMedium: lipgloss.NewStyle().Foreground(colorYellow),
		suggest.PriorityLow:    lipgloss.NewStyle().Foreground(colorGray),
	}
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

// PrintError prints err the way users should see it: the message without the
// machine-readable code, followed by the people involved.
func PrintError(w io.Writer, err error) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+errorText(err))
}

func printInfo(format string, args ...any) {
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints derivation statistics on a single line.
func printStats(people, links, suggestions int, cached bool) {
	parts := []string{
		fmt.Sprintf("%d people", people),
		fmt.Sprintf("%d links", links),
	}
	if suggestions > 0 {
		parts = append(parts, fmt.Sprintf("%d suggestions", suggestions))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Fprintln(stdout, line+StyleDim.Render(" · ")+statusStyle.Render(status))
}

func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(stdout)
}

// =============================================================================
// Tables
// =============================================================================

// headerRow is the row index lipgloss tables pass to StyleFunc for headers.
const headerRow = -1

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...)
}

// suggestionRows renders suggestions as table rows: person, priority, kind,
// message and related people.
func suggestionRows(t *family.Tree, list []suggest.Suggestion) [][]string {
	rows := make([][]string, 0, len(list))
	for _, s := range list {
		related := make([]string, len(s.RelatedIDs))
		for i, id := range s.RelatedIDs {
			related[i] = displayName(t, id)
		}
		rows = append(rows, []string{
			displayName(t, s.PersonID),
			string(s.Priority),
			string(s.Kind),
			suggestionText(s),
			strings.Join(related, ", "),
		})
	}
	return rows
}

func renderSuggestions(t *family.Tree, list []suggest.Suggestion) string {
	return newTable("Person", "Priority", "Kind", "Finding", "Related").
		Rows(suggestionRows(t, list)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 1 && row < len(list) {
				return priorityStyles[list[row].Priority]
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func renderPlaceholders(slots []placeholder.Slot) string {
	rows := make([][]string, 0, len(slots))
	for _, s := range slots {
		free := "yes"
		if !s.Clear {
			free = "no"
		}
		rows = append(rows, []string{string(s.Kind), fmt.Sprintf("%g", s.X), fmt.Sprintf("%g", s.Y), fmt.Sprint(s.Attempts), free})
	}
	return newTable("Slot", "X", "Y", "Attempts", "Clear").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == headerRow {
				return styleHeader
			}
			if col == 4 && row < len(slots) && !slots[row].Clear {
				return StyleWarning
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

// =============================================================================
// Text
// =============================================================================

// suggestionMessages are the English texts of the suggestion message keys.
var suggestionMessages = map[string]string{
	suggest.MsgNoParents:       "no parents recorded",
	suggest.MsgOneParent:       "only one parent recorded",
	suggest.MsgParentTooYoung:  "parent implausibly young at birth",
	suggest.MsgSpouseAgeGap:    "large age gap to spouse",
	suggest.MsgSameNameAndYear: "same name and birth year as another person",
}

func suggestionText(s suggest.Suggestion) string {
	if msg, ok := suggestionMessages[s.MessageKey]; ok {
		return msg
	}
	return s.MessageKey
}

// errorText is the message of err followed by the people it concerns.
func errorText(err error) string {
	msg := kerrors.UserMessage(err)
	if ids := kerrors.IDs(err); len(ids) > 0 {
		msg += " " + StyleDim.Render("("+strings.Join(ids, ", ")+")")
	}
	return msg
}

// displayName returns "Name (id)", or the bare id for unknown people.
func displayName(t *family.Tree, id string) string {
	if p, ok := t.Person(id); ok {
		return fmt.Sprintf("%s (%s)", p.Name, id)
	}
	return id
}
