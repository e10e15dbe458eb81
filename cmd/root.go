// Package cmd wires the CLI commands: the local TUI (default), the SSH
// server, re-export of the persisted session, and the visit archive
// listing.
package cmd

import (
	"fmt"
	"os"

	"leitfaden/config"
	"leitfaden/flow"
	"leitfaden/logging"
	"leitfaden/state"
	"leitfaden/steps"
	"leitfaden/storage"
	"leitfaden/ui"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultDBPath    = "~/.leitfaden/visits.db"
	defaultExportDir = "~/.leitfaden/exports"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`
	DBPath      string           `help:"Path to the visit archive database" default:"~/.leitfaden/visits.db" env:"LEITFADEN_DB_PATH"`
	ExportDir   string           `help:"Directory for CSV/JSON exports" default:"~/.leitfaden/exports" env:"LEITFADEN_EXPORT_DIR"`
	RosterPath  string           `help:"Path to the employee roster YAML file" env:"LEITFADEN_ROSTER_PATH"`

	Run    RunCmd    `cmd:"" help:"Start the questionnaire TUI (default)" default:"1"`
	Serve  ServeCmd  `cmd:"serve" help:"Serve the questionnaire over SSH"`
	Export ExportCmd `cmd:"export" help:"Re-export the persisted session as CSV and JSON"`
	Visits VisitsCmd `cmd:"visits" help:"List archived visits"`

	// Internal field for settings (not a flag)
	settings *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply() error {
	// Apply settings with proper precedence: CLI flags > env vars > settings.json > defaults
	// Only apply if flag is at default value and env var is not set

	if c.settings != nil {
		if c.DBPath == config.ExpandPath(defaultDBPath) || c.DBPath == defaultDBPath {
			if _, hasEnv := os.LookupEnv("LEITFADEN_DB_PATH"); !hasEnv {
				if c.settings.DBPath != "" {
					c.DBPath = c.settings.DBPath
				}
			}
		}

		if c.ExportDir == config.ExpandPath(defaultExportDir) || c.ExportDir == defaultExportDir {
			if _, hasEnv := os.LookupEnv("LEITFADEN_EXPORT_DIR"); !hasEnv {
				if c.settings.ExportDir != "" {
					c.ExportDir = c.settings.ExportDir
				}
			}
		}

		if c.RosterPath == "" {
			if _, hasEnv := os.LookupEnv("LEITFADEN_ROSTER_PATH"); !hasEnv {
				if c.settings.RosterPath != "" {
					c.RosterPath = c.settings.RosterPath
				}
			}
		}

		if c.MaxLogFiles == 1000 {
			if _, hasEnv := os.LookupEnv("LEITFADEN_MAX_LOG_FILES"); !hasEnv {
				if c.settings.MaxLogFiles != nil {
					c.MaxLogFiles = *c.settings.MaxLogFiles
				}
			}
		}

		if !c.Debug {
			if _, hasEnv := os.LookupEnv("LEITFADEN_DEBUG"); !hasEnv {
				if c.settings.Debug != nil && *c.settings.Debug {
					c.Debug = true
				}
			}
		}
	}

	c.DBPath = config.ExpandPath(c.DBPath)
	c.ExportDir = config.ExpandPath(c.ExportDir)
	c.RosterPath = config.ExpandPath(c.RosterPath)

	// Initialize logging first and get the log file path
	logFilePath, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles)
	if err != nil {
		return err
	}

	// Set environment variables AFTER initialization so child processes
	// inherit debug settings and append to the same log file
	if c.Debug || c.DebugFile != "" {
		os.Setenv("LEITFADEN_DEBUG", "1")
		if logFilePath != "" {
			os.Setenv("LEITFADEN_DEBUG_FILE", logFilePath)
		}
	}
	if c.MaxLogFiles != 1000 {
		os.Setenv("LEITFADEN_MAX_LOG_FILES", fmt.Sprintf("%d", c.MaxLogFiles))
	}

	return nil
}

// loadRoster resolves the roster with the same precedence as the other
// settings. A missing file falls back to the built-in roster.
func (c *CLI) loadRoster() []string {
	path := c.RosterPath
	if path == "" {
		defaultPath, err := config.DefaultRosterPath()
		if err != nil {
			logging.Logger.Warn("Failed to resolve roster path", "error", err)
			return nil
		}
		path = defaultPath
	}

	roster, err := config.LoadRoster(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		logging.Logger.Warn("Failed to load roster", "error", err, "path", path)
		return nil
	}
	return roster
}

// RunCmd starts the TUI application
type RunCmd struct{}

// Run executes the TUI
func (r *RunCmd) Run(cli *CLI) error {
	logging.Logger.Info("Starting leitfaden TUI")

	roster := cli.loadRoster()
	generator := steps.NewGenerator(roster)

	// The visit archive is optional: without it exports still produce files
	store, err := storage.NewStore(cli.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: visit archive unavailable: %v\n", err)
		logging.Logger.Warn("Failed to open visit archive", "error", err, "path", cli.DBPath)
		store = nil
	} else {
		defer store.Close()
	}

	// Resume the persisted session if one exists
	initial := state.Load()
	if initial != nil {
		logging.Logger.Info("Resuming persisted session", "session_id", initial.SessionID)
	}

	controller := flow.New(initial, generator, state.FileSaver{})

	p := tea.NewProgram(
		ui.NewModel(controller, store, cli.ExportDir),
		tea.WithAltScreen(),
	)

	logging.Logger.Info("Starting TUI program")
	if _, err := p.Run(); err != nil {
		logging.Logger.Error("TUI program error", "error", err)
		return fmt.Errorf("error running program: %w", err)
	}

	logging.Logger.Info("TUI program exited normally")
	return nil
}
