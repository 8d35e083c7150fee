package browse

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/amishk599/jobcache/internal/model"
)

// LookupFunc runs a lookup for the loader.
type LookupFunc func(ctx context.Context) ([]model.Record, error)

type lookupDoneMsg struct {
	records []model.Record
	err     error
}

type loaderModel struct {
	query    string
	lookupFn LookupFunc
	timeout  time.Duration
	spinner  spinner.Model
	result   []model.Record
	err      error
	done     bool
}

func newLoaderModel(query string, lookupFn LookupFunc, timeout time.Duration) loaderModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
	return loaderModel{query: query, lookupFn: lookupFn, timeout: timeout, spinner: s}
}

func (m loaderModel) Init() tea.Cmd {
	return tea.Batch(m.doLookup(), m.spinner.Tick)
}

func (m loaderModel) doLookup() tea.Cmd {
	lookupFn, timeout := m.lookupFn, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		records, err := lookupFn(ctx)
		return lookupDoneMsg{records: records, err: err}
	}
}

func (m loaderModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case lookupDoneMsg:
		m.result = msg.records
		m.err = msg.err
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.done = true
			m.err = fmt.Errorf("cancelled")
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m loaderModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s Looking up %q (refreshing the cache if needed)...\n", m.spinner.View(), m.query)
}

// RunLoader shows a spinner while the lookup runs. It renders inline (no alt
// screen). A refresh error is returned with whatever records were found.
func RunLoader(query string, timeout time.Duration, lookupFn LookupFunc) ([]model.Record, error) {
	p := tea.NewProgram(newLoaderModel(query, lookupFn, timeout))
	result, err := p.Run()
	if err != nil {
		return nil, err
	}
	final := result.(loaderModel)
	return final.result, final.err
}
