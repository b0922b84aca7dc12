package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type installDoneMsg struct {
	err error
}

type installSpinnerModel struct {
	spinner spinner.Model
	label   string
	install tea.Cmd
	err     error
	done    bool
}

func newInstallSpinnerModel(label string, install tea.Cmd) installSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return installSpinnerModel{
		spinner: s,
		label:   label,
		install: install,
	}
}

func (m installSpinnerModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.install)
}

func (m installSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case installDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m installSpinnerModel) View() string {
	if m.done {
		return ""
	}

	return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
}

func runInstallSpinner(ctx context.Context, output io.Writer, label string, install func(context.Context) error) error {
	installCmd := func() tea.Msg {
		return installDoneMsg{err: install(ctx)}
	}

	p := tea.NewProgram(
		newInstallSpinnerModel(label, installCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(installSpinnerModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
