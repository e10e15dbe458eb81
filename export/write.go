package export

import (
	"fmt"
	"os"
	"path/filepath"

	"leitfaden/domain"
	"leitfaden/logging"

	"github.com/atotto/clipboard"
)

// WriteFiles writes the CSV and JSON exports into dir and returns the two
// file paths.
func WriteFiles(a *domain.Answers, dir string) (csvPath, jsonPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create export directory: %w", err)
	}

	csvPath = filepath.Join(dir, Filename(a, "csv"))
	if err := os.WriteFile(csvPath, []byte(CSV(a)), 0644); err != nil {
		return "", "", fmt.Errorf("failed to write CSV export: %w", err)
	}

	data, err := JSON(a)
	if err != nil {
		return "", "", err
	}
	jsonPath = filepath.Join(dir, Filename(a, "json"))
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", "", fmt.Errorf("failed to write JSON export: %w", err)
	}

	return csvPath, jsonPath, nil
}

// CopyCSVToClipboard offers the flat record to the system clipboard.
// Best-effort: a headless or clipboard-less environment is not an error
// worth surfacing.
func CopyCSVToClipboard(a *domain.Answers) bool {
	if err := clipboard.WriteAll(CSV(a)); err != nil {
		logging.Logger.Warn("Failed to copy CSV to clipboard", "error", err)
		return false
	}
	return true
}
