// Package browse is an interactive terminal view over lookup results.
package browse

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/recommend"
	"github.com/amishk599/jobcache/internal/search"
)

// Lines per row in the list view (title + subtitle + blank separator).
const rowHeight = 3

const recommendTimeout = 90 * time.Second

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Foreground(lipgloss.Color("39"))

	statusBarStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236"))

	rowTitleStyle    = lipgloss.NewStyle().Bold(true)
	rowSubtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	selectedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("24"))

	selectedSubtitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("252")).
				Background(lipgloss.Color("24"))

	tierStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Width(14)

	dividerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

type recommendedMsg struct {
	id       int64
	projects []recommend.Project
	err      error
}

type browseModel struct {
	query    string
	rows     []search.Explained
	list     viewport.Model
	cursor   int
	width    int
	height   int
	ready    bool
	view     viewState
	detail   viewport.Model
	selected search.Explained

	recommender recommend.Recommender
	projects    map[int64][]recommend.Project
	loading     bool
	recError    string

	openURL func(string)
}

func newBrowseModel(query string, records []model.Record, recommender recommend.Recommender) browseModel {
	return browseModel{
		query:       query,
		rows:        search.Explain(query, records),
		recommender: recommender,
		projects:    make(map[int64][]recommend.Project),
		openURL:     openURL,
	}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recalcLayout()
		return m, nil

	case recommendedMsg:
		m.loading = false
		if msg.err != nil {
			m.recError = fmt.Sprintf("recommendation failed: %v", msg.err)
		} else if len(msg.projects) == 0 {
			m.recError = "recommendations are disabled; set recommendations.enabled in config.yaml"
		} else {
			m.recError = ""
			m.projects[msg.id] = msg.projects
		}
		m.detail.SetContent(m.renderDetail())
		return m, nil

	case tea.KeyMsg:
		if m.view == viewDetail {
			return m.updateDetailView(msg)
		}
		return m.updateListView(msg)
	}
	return m, nil
}

func (m browseModel) updateListView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor = clamp(m.cursor-1, 0, max(len(m.rows)-1, 0))
		m.list.SetContent(renderRows(m.rows, m.cursor))
		m.ensureCursorVisible()
		return m, nil
	case "down", "j":
		m.cursor = clamp(m.cursor+1, 0, max(len(m.rows)-1, 0))
		m.list.SetContent(renderRows(m.rows, m.cursor))
		m.ensureCursorVisible()
		return m, nil
	case "enter":
		if len(m.rows) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.selected = m.rows[m.cursor]
		m.recError = ""
		m.detail = viewport.New(max(m.width-4, 20), max(m.height-4, 5))
		m.detail.SetContent(m.renderDetail())
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetailView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		m.view = viewList
		return m, nil
	case "o":
		if url := model.Deref(m.selected.Record.URL); url != "" {
			m.openURL(url)
		}
		return m, nil
	case "r":
		_, done := m.projects[m.selected.Record.ID]
		if m.recommender == nil || m.loading || done {
			return m, nil
		}
		m.loading = true
		m.recError = ""
		m.detail.SetContent(m.renderDetail())
		return m, m.recommendCmd(m.selected.Record)
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m browseModel) recommendCmd(job model.Record) tea.Cmd {
	recommender := m.recommender
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), recommendTimeout)
		defer cancel()
		projects, err := recommender.Recommend(ctx, job)
		return recommendedMsg{id: job.ID, projects: projects, err: err}
	}
}

func (m *browseModel) ensureCursorVisible() {
	top := m.cursor * rowHeight
	bottom := top + rowHeight - 1
	if top < m.list.YOffset {
		m.list.SetYOffset(top)
	} else if bottom >= m.list.YOffset+m.list.Height {
		m.list.SetYOffset(bottom - m.list.Height + 1)
	}
}

func (m *browseModel) recalcLayout() {
	// Header + border top/bottom + status bar.
	width := max(m.width-2, 20)
	height := max(m.height-4, 5)
	if !m.ready {
		m.list = viewport.New(width, height)
		m.ready = true
	} else {
		m.list.Width = width
		m.list.Height = height
	}
	m.list.SetContent(renderRows(m.rows, m.cursor))
	if m.view == viewDetail {
		m.detail.Width = max(m.width-4, 20)
		m.detail.Height = height
		m.detail.SetContent(m.renderDetail())
	}
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.view == viewDetail {
		return m.viewDetail()
	}
	header := headerStyle.Render(fmt.Sprintf("Results for %q (%d)", m.query, len(m.rows)))
	list := borderStyle.Width(m.list.Width).Render(m.list.View())
	status := statusBarStyle.Width(m.width).Render(" ↑/↓ cursor  Enter detail  q quit")
	return header + "\n" + list + "\n" + status
}

func (m browseModel) viewDetail() string {
	title := headerStyle.Render("Job Details")
	if m.loading {
		title += "  (asking for project ideas...)"
	}
	content := borderStyle.Width(max(m.width-2, 20)).Render(m.detail.View())
	statusText := " o open URL  esc back  ↑/↓ scroll  q quit"
	if m.recommender != nil {
		statusText = " o open URL  r project ideas  esc back  ↑/↓ scroll  q quit"
	}
	return title + "\n" + content + "\n" + statusBarStyle.Width(m.width).Render(statusText)
}

func (m browseModel) renderDetail() string {
	r := m.selected.Record
	var b strings.Builder

	addField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteByte('\n')
	}

	addField("Title", r.Title)
	addField("Company", model.Deref(r.Company))
	addField("Location", model.Deref(r.Location))
	if r.IsRemote {
		addField("Remote", "yes")
	} else {
		addField("Remote", "no")
	}
	addField("Posted", model.Deref(r.DatePosted))
	addField("Source", string(r.Source))
	addField("Match", m.selected.Match)
	if !r.FetchedAt.IsZero() {
		addField("Fetched", r.FetchedAt.Local().Format("2006-01-02 15:04 MST"))
	}
	addField("URL", model.Deref(r.URL))

	wrapWidth := max(m.width-8, 20)
	divider := func(label string) string {
		return dividerStyle.Render(label + strings.Repeat("─", max(wrapWidth-len(label), 3)))
	}

	if projects, ok := m.projects[r.ID]; ok {
		b.WriteString("\n" + divider("── Project Ideas ") + "\n\n")
		for i, p := range projects {
			b.WriteString(rowTitleStyle.Render(fmt.Sprintf("%d. %s", i+1, p.Title)) + "\n")
			b.WriteString(wordWrap(p.Description, wrapWidth) + "\n")
			if len(p.Technologies) > 0 {
				addField("Tech", strings.Join(p.Technologies, ", "))
			}
			addField("Timeline", p.Timeline)
			b.WriteByte('\n')
		}
	} else if m.loading {
		b.WriteString("\n" + hintStyle.Render("  generating project ideas...") + "\n")
	} else if m.recommender != nil {
		b.WriteString("\n" + hintStyle.Render("  press r for portfolio project ideas") + "\n")
	}
	if m.recError != "" {
		b.WriteString("\n" + errorStyle.Render("⚠ "+m.recError) + "\n")
	}

	if r.Description != "" {
		b.WriteString("\n" + divider("── Description ") + "\n\n")
		b.WriteString(wordWrap(r.Description, wrapWidth) + "\n")
	}
	return b.String()
}

func renderRows(rows []search.Explained, cursor int) string {
	if len(rows) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, row := range rows {
		titleSt, subtitleSt, prefix := rowTitleStyle, rowSubtitleStyle, "  "
		if i == cursor {
			titleSt, subtitleSt, prefix = selectedTitleStyle, selectedSubtitleStyle, "> "
		}
		r := row.Record

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(r.Title))
		b.WriteString(" " + tierStyle.Render("["+row.Match+"]"))
		b.WriteByte('\n')

		company := model.Deref(r.Company)
		if company == "" {
			company = "n/a"
		}
		location := model.Deref(r.Location)
		if location == "" {
			location = "n/a"
		}
		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(fmt.Sprintf("%s · %s · %s", company, location, r.Source)))
		b.WriteByte('\n')

		if i < len(rows)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func wordWrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) <= width {
			line += " " + w
		} else {
			lines = append(lines, line)
			line = w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// openURL opens url in the default system browser, fire-and-forget.
func openURL(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}
	_ = cmd.Start()
}

// Run launches the full-screen result browser. recommender may be nil, in
// which case the project ideas key is disabled.
func Run(query string, records []model.Record, recommender recommend.Recommender) error {
	p := tea.NewProgram(newBrowseModel(query, records, recommender), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
