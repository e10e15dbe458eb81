package server

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leitfaden/flow"
	"leitfaden/logging"
	"leitfaden/steps"
	"leitfaden/storage"
	"leitfaden/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/ssh"
)

// sessionModel wraps ui.Model to handle resource cleanup
type sessionModel struct {
	*ui.Model
	sessionID string
	startTime time.Time
	store     *storage.Store
}

func (s *sessionModel) Init() tea.Cmd {
	return s.Model.Init()
}

func (s *sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Check for quit message to trigger cleanup
	if _, ok := msg.(tea.QuitMsg); ok {
		duration := time.Since(s.startTime)

		if err := s.store.Close(); err != nil {
			logging.Logger.Error("Failed to close store for SSH session",
				"error", err,
				"session_id", s.sessionID,
				"duration", duration.String())
		} else {
			logging.Logger.Debug("Closed store for SSH session",
				"session_id", s.sessionID,
				"duration", duration.String())
		}

		logging.Logger.Info("SSH session ended",
			"session_id", s.sessionID,
			"duration", duration.String())
	}

	updatedModel, cmd := s.Model.Update(msg)
	if m, ok := updatedModel.(*ui.Model); ok {
		s.Model = m
	}
	return s, cmd
}

func (s *sessionModel) View() string {
	return s.Model.View()
}

// teaHandler creates a Bubbletea model for each SSH session. Remote
// sessions are in-memory only: the single-slot session file belongs to
// the local TUI, so the controller gets a NopSaver. Exports still go to
// the shared archive.
func (s *Server) teaHandler(sess ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sess.Pty()
	sessionID := fmt.Sprintf("%s@%s", sess.User(), sess.RemoteAddr().String())

	logging.Logger.Info("New SSH session",
		"session_id", sessionID,
		"user", sess.User(),
		"remote_addr", sess.RemoteAddr().String(),
		"term", pty.Term,
		"window", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

	// Open shared database (WAL mode allows one store per session)
	store, err := storage.NewStore(s.dbPath)
	if err != nil {
		logging.Logger.Error("Failed to open database for SSH session",
			"error", err,
			"session_id", sessionID)
		return errorModel{err}, nil
	}

	exportDir := s.settings.ExportDir
	if exportDir == "" {
		exportDir = defaultExportDir()
	}

	controller := flow.New(nil, steps.NewGenerator(s.roster), flow.NopSaver{})
	model := ui.NewModel(controller, store, exportDir)

	wrappedModel := &sessionModel{
		Model:     model,
		sessionID: sessionID,
		startTime: time.Now(),
		store:     store,
	}

	return wrappedModel, []tea.ProgramOption{
		tea.WithAltScreen(),
	}
}

// errorModel is a simple model that displays an error
type errorModel struct {
	err error
}

func (e errorModel) Init() tea.Cmd {
	return nil
}

func (e errorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return e, tea.Quit
}

func (e errorModel) View() string {
	return fmt.Sprintf("Error: %v\n", e.err)
}

func defaultExportDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "exports"
	}
	return filepath.Join(homeDir, ".leitfaden", "exports")
}
