package cmd

import (
	"context"
	"fmt"
	"os"

	"leitfaden/export"
	"leitfaden/logging"
	"leitfaden/state"
	"leitfaden/storage"
)

// ExportCmd re-exports the persisted session without opening the TUI
type ExportCmd struct {
	Stdout bool `help:"Print the CSV record to stdout instead of writing files"`
}

// Run executes the export command
func (e *ExportCmd) Run(cli *CLI) error {
	answers := state.Load()
	if answers == nil {
		return fmt.Errorf("no persisted session found")
	}

	if e.Stdout {
		fmt.Println(export.CSV(answers))
		return nil
	}

	csvPath, jsonPath, err := export.WriteFiles(answers, cli.ExportDir)
	if err != nil {
		return err
	}

	// Archive best-effort; the files on disk are the deliverable
	store, err := storage.NewStore(cli.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: visit archive unavailable: %v\n", err)
	} else {
		defer store.Close()
		if err := store.ArchiveVisit(context.Background(), answers); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to archive visit: %v\n", err)
			logging.Logger.Warn("Failed to archive visit", "error", err,
				"session_id", answers.SessionID)
		}
	}

	fmt.Printf("Exported session %s\n  %s\n  %s\n", answers.SessionID, csvPath, jsonPath)
	return nil
}
