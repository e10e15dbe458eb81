// Package ui renders the questionnaire as a Bubble Tea wizard. Each step
// shows its form; a completed form is committed and the step switches to a
// review pane, from which the technician moves on explicitly.
package ui

import (
	"context"
	"fmt"
	"time"

	"leitfaden/export"
	"leitfaden/flow"
	"leitfaden/logging"
	"leitfaden/steps"
	"leitfaden/storage"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(1, 0)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(1, 0)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

type uiState int

const (
	stateEditing uiState = iota
	stateReview
)

type Model struct {
	controller *flow.Controller
	store      *storage.Store // nil disables the visit archive
	exportDir  string
	state      uiState
	form       *huh.Form
	commit     func()
	fieldCount int
	stepID     string
	progress   progress.Model
	width      int
	height     int
	status     string
	err        error
}

// NewModel creates the wizard model on top of an existing controller. The
// store may be nil; exports then skip the archive.
func NewModel(controller *flow.Controller, store *storage.Store, exportDir string) *Model {
	m := &Model{
		controller: controller,
		store:      store,
		exportDir:  exportDir,
		progress:   progress.New(progress.WithDefaultGradient()),
	}
	m.renderStep()
	return m
}

// renderStep rebuilds the form of the step the controller points at.
func (m *Model) renderStep() {
	step := m.controller.Current()
	sf := step.Render(m.controller.Answers(), m.controller.Apply)
	m.form = sf.Form
	m.commit = sf.Commit
	m.fieldCount = sf.FieldCount
	m.stepID = step.ID
	m.state = stateEditing
}

func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

type clearStatusMsg struct{}

func clearStatusAfterDelay() tea.Cmd {
	return tea.Tick(5*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearStatusMsg:
		m.status = ""
		m.err = nil
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width - 4
		if w > 60 {
			w = 60
		}
		if w > 0 {
			m.progress.Width = w
		}
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	switch m.state {
	case stateEditing:
		return m.updateEditing(msg)
	case stateReview:
		return m.updateReview(msg)
	}
	return m, nil
}

func (m *Model) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.controller.Prev()
		m.renderStep()
		return m, m.form.Init()
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.commit()

		// Committing may have revealed sub-fields or changed the step
		// list; re-render and decide from the fresh form.
		previousID := m.stepID
		previousCount := m.fieldCount
		m.renderStep()

		if m.stepID == previousID && m.fieldCount > previousCount {
			// New sub-fields appeared: stay on the step to fill them in
			return m, m.form.Init()
		}

		if steps.AdvancesAutomatically(previousID, m.controller.Answers()) {
			m.controller.Next()
			m.renderStep()
			return m, m.form.Init()
		}

		m.state = stateReview
		return m, nil
	}

	return m, cmd
}

func (m *Model) updateReview(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		m.controller.Prev()
		m.renderStep()
		return m, m.form.Init()
	case "e":
		m.renderStep()
		return m, m.form.Init()
	case "enter":
		if m.controller.AtLastStep() {
			return m, nil
		}
		m.controller.Next()
		m.renderStep()
		return m, m.form.Init()
	}

	if m.controller.AtLastStep() {
		switch keyMsg.String() {
		case "x":
			return m, m.exportSession()
		case "n":
			m.controller.Reset()
			m.renderStep()
			return m, m.form.Init()
		case "q":
			return m, tea.Quit
		}
	}

	return m, nil
}

// exportSession writes the CSV and JSON files, offers the CSV to the
// clipboard, and archives the visit when a store is configured.
func (m *Model) exportSession() tea.Cmd {
	a := m.controller.Answers()

	csvPath, _, err := export.WriteFiles(a, m.exportDir)
	if err != nil {
		m.err = fmt.Errorf("Export fehlgeschlagen: %w", err)
		logging.Logger.Error("Export failed", "error", err, "session_id", a.SessionID)
		return clearStatusAfterDelay()
	}

	copied := export.CopyCSVToClipboard(a)

	if m.store != nil {
		if err := m.store.ArchiveVisit(context.Background(), a); err != nil {
			logging.Logger.Warn("Failed to archive visit", "error", err,
				"session_id", a.SessionID)
		}
	}

	m.status = "Exportiert: " + csvPath
	if copied {
		m.status += " (CSV in Zwischenablage)"
	}
	logging.Logger.Info("Session exported", "session_id", a.SessionID, "path", csvPath)
	return clearStatusAfterDelay()
}

func (m *Model) View() string {
	stepList := m.controller.Steps()
	index := m.controller.StepIndex()
	step := m.controller.Current()

	view := titleStyle.Render(fmt.Sprintf("Leitfaden Bestandskunden – %s (%d/%d)",
		step.Title, index+1, len(stepList)))
	view += "\n" + m.progress.ViewAs(float64(index+1)/float64(len(stepList))) + "\n\n"

	switch m.state {
	case stateEditing:
		view += m.form.View()
		view += helpStyle.Render("esc: zurück • ctrl+c: beenden")
	case stateReview:
		view += stepSummary(m.controller.Answers(), m.stepID)
		if m.controller.AtLastStep() {
			view += helpStyle.Render("x: exportieren • n: neue Sitzung • e: bearbeiten • esc: zurück • q: beenden")
		} else {
			view += helpStyle.Render("enter: weiter • e: bearbeiten • esc: zurück • ctrl+c: beenden")
		}
	}

	if m.err != nil {
		view += "\n" + errorStyle.Render(fmt.Sprintf("Fehler: %v", m.err))
	} else if m.status != "" {
		view += "\n" + statusStyle.Render(m.status)
	}

	return view
}
