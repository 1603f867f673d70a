package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/felixgeelhaar/reviewdesk/internal/infrastructure/wiring"
	"github.com/felixgeelhaar/reviewdesk/pkg/domain/review"
	"github.com/spf13/cobra"
)

var inboxCmd = &cobra.Command{
	Use:   "inbox",
	Short: "Interactive review inbox",
	RunE: func(cmd *cobra.Command, args []string) error {
		if os.Getenv("REVIEWDESK_SKIP_INBOX_RUN") == "true" {
			return nil
		}
		services, err := loadServicesForCurrentDir()
		if err != nil {
			return err
		}
		p := tea.NewProgram(newInboxModel(services))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("inbox run failed: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(inboxCmd)
}

// Styles
var baseStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.NormalBorder()).
	BorderForeground(lipgloss.Color("240"))

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	PaddingLeft(1).
	PaddingRight(1)

var tabActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
var tabStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
var okStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
var errStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

type inboxModel struct {
	services *wiring.AppServices
	table    table.Model
	search   textinput.Model
	editor   textarea.Model

	tabs      []review.FilterTag
	tabIndex  int
	ids       []string
	searching bool
	editing   bool
	editingID string
	status    string
	err       error
}

func newInboxModel(services *wiring.AppServices) inboxModel {
	columns := []table.Column{
		{Title: "ID", Width: 12},
		{Title: "Stars", Width: 5},
		{Title: "Mood", Width: 8},
		{Title: "Status", Width: 8},
		{Title: "Reviewer", Width: 16},
		{Title: "Review", Width: 44},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229"))
	t.SetStyles(s)

	search := textinput.New()
	search.Placeholder = "reviewer or text"
	search.CharLimit = 80

	editor := textarea.New()
	editor.Placeholder = "Write a reply..."
	editor.SetWidth(80)
	editor.SetHeight(5)

	m := inboxModel{
		services: services,
		table:    t,
		search:   search,
		editor:   editor,
		tabs:     review.AllFilterTags(),
	}
	m.reload()
	return m
}

func (m *inboxModel) reload() {
	reviews := m.services.Review.ListVisible(m.search.Value(), m.tabs[m.tabIndex])

	rows := make([]table.Row, 0, len(reviews))
	m.ids = m.ids[:0]
	for _, r := range reviews {
		m.ids = append(m.ids, r.ID)
		rows = append(rows, table.Row{
			truncate(r.ID, 12),
			fmt.Sprintf("%d", r.Rating),
			string(r.Sentiment),
			string(r.Status),
			truncate(r.ReviewerName, 16),
			truncate(r.Text, 44),
		})
	}
	m.table.SetRows(rows)
}

func (m inboxModel) selectedID() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.ids) {
		return ""
	}
	return m.ids[cursor]
}

func (m inboxModel) Init() tea.Cmd { return nil }

func (m inboxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if m.editing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "esc":
				_ = m.services.Review.CancelEdit(m.editingID)
				m.editing = false
				m.status = "Reply discarded."
				return m, nil
			case "ctrl+s":
				if _, err := m.services.Review.SaveEdit(m.editingID, m.editor.Value(), "tui"); err != nil {
					m.status = errStyle.Render(err.Error())
				} else {
					m.status = okStyle.Render("Reply published to " + m.editingID)
					m.editing = false
					m.reload()
				}
				return m, nil
			}
		}
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}

	if m.searching {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			switch msg.String() {
			case "enter", "esc":
				m.searching = false
				m.search.Blur()
				m.reload()
				return m, nil
			}
		}
		m.search, cmd = m.search.Update(msg)
		m.reload()
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.tabIndex = (m.tabIndex + 1) % len(m.tabs)
			m.reload()
			return m, nil
		case "/":
			m.searching = true
			m.search.Focus()
			return m, nil
		case "a":
			if id := m.selectedID(); id != "" {
				if r, err := m.services.Review.Approve(id, "tui"); err != nil {
					m.status = errStyle.Render(err.Error())
				} else {
					m.status = okStyle.Render("Published suggested reply to " + r.ID)
					m.reload()
				}
			}
			return m, nil
		case "r":
			if id := m.selectedID(); id != "" {
				draft, err := m.services.Review.BeginEdit(id)
				if err != nil {
					m.status = errStyle.Render(err.Error())
					return m, nil
				}
				m.editing = true
				m.editingID = id
				m.editor.SetValue(draft)
				m.editor.Focus()
			}
			return m, nil
		case "x":
			if id := m.selectedID(); id != "" {
				if _, err := m.services.Review.Ignore(id, "tui"); err != nil {
					m.status = errStyle.Render(err.Error())
				} else {
					m.status = "Ignored " + id
					m.reload()
				}
			}
			return m, nil
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m inboxModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error loading inbox: %v\nPress q to quit.", m.err)
	}

	stats := m.services.Insights.Stats()
	header := headerStyle.Render(fmt.Sprintf("Reviewdesk | %d reviews, %.1f avg, %d pending",
		stats.TotalReviews, stats.AverageRating, stats.PendingCount))

	tabsView := ""
	for i, tag := range m.tabs {
		label := " " + string(tag) + " "
		if i == m.tabIndex {
			tabsView += tabActiveStyle.Render(label)
		} else {
			tabsView += tabStyle.Render(label)
		}
	}

	if m.editing {
		return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			header,
			"\nReply to "+m.editingID+":",
			m.editor.View(),
			m.status,
			"\n[ctrl+s] Publish  [esc] Discard",
		)) + "\n"
	}

	searchView := ""
	if m.searching {
		searchView = "Search: " + m.search.View()
	} else if m.search.Value() != "" {
		searchView = "Search: " + m.search.Value()
	}

	return baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		tabsView,
		searchView,
		m.table.View(),
		m.status,
		"\n[a] Approve  [r] Reply  [x] Ignore  [tab] Filter  [/] Search  [q] Quit",
	)) + "\n"
}
