package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/topicsheet/pkg/drafts"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DraftListModel - Interactive draft selection
// =============================================================================

// DraftListModel is the bubbletea model for interactive draft selection.
type DraftListModel struct {
	Drafts   []drafts.Summary
	Cursor   int
	Selected *drafts.Summary
	Height   int
	Offset   int
}

// NewDraftListModel creates a new draft list model.
func NewDraftListModel(list []drafts.Summary) DraftListModel {
	return DraftListModel{
		Drafts: list,
		Height: 15,
	}
}

func (m DraftListModel) Init() tea.Cmd {
	return nil
}

func (m DraftListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Drafts)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Drafts) == 0 {
				return m, tea.Quit
			}
			d := m.Drafts[m.Cursor]
			m.Selected = &d
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DraftListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Draft"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Drafts) {
		end = len(m.Drafts)
	}
	b.WriteString(draftTableRange(m.Drafts, m.Offset, end, m.Cursor))
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Drafts))))

	return b.String()
}

// draftTable renders every draft; cursor < 0 highlights none.
func draftTable(list []drafts.Summary, cursor int) string {
	return draftTableRange(list, 0, len(list), cursor)
}

func draftTableRange(list []drafts.Summary, start, end, cursor int) string {
	rows := make([][]string, 0, end-start)
	for i := start; i < end; i++ {
		marker := "  "
		if i == cursor {
			marker = "▸ "
		}
		rows = append(rows, []string{marker, list[i].Name, formatRelativeTime(list[i].UpdatedAt)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Draft", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			base := lipgloss.NewStyle()
			if col == 2 {
				base = base.Foreground(colorDim)
			}
			if start+row == cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})
	return t.Render()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
