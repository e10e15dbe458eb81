// Package state persists the single in-progress session as a JSON file.
// Each schema revision of the answer shape uses a distinct file name so
// old and new shapes never collide; there is no migration.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"leitfaden/domain"
	"leitfaden/logging"

	"golang.org/x/sys/unix"
)

// schemaKey is the storage identifier of the current answer shape.
const schemaKey = "leitfaden-bestandskunde-v3"

// statePathFunc returns the path of the session file.
// Can be overridden in tests.
var statePathFunc = defaultStatePath

func defaultStatePath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "leitfaden", schemaKey+".json"), nil
}

// Load reads the persisted session. Absent, unreadable, or malformed
// files all yield nil: the caller starts a fresh session.
func Load() *domain.Answers {
	path, err := statePathFunc()
	if err != nil {
		logging.Logger.Warn("Failed to resolve session file path", "error", err)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Logger.Warn("Failed to read session file", "error", err, "path", path)
		}
		return nil
	}

	var answers domain.Answers
	if err := json.Unmarshal(data, &answers); err != nil {
		// Malformed payload is treated the same as absent
		logging.Logger.Warn("Discarding unparseable session file", "error", err, "path", path)
		return nil
	}

	if answers.SessionID == "" {
		return nil
	}
	return &answers
}

// Save writes the session to disk with file locking.
func Save(a *domain.Answers) error {
	path, err := statePathFunc()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("failed to open session file: %w", err)
	}
	defer file.Close()

	// Exclusive lock against a second leitfaden instance writing the slot
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	defer unix.Flock(int(file.Fd()), unix.LOCK_UN)

	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	if err := file.Truncate(0); err != nil {
		return fmt.Errorf("failed to truncate file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		return fmt.Errorf("failed to seek to beginning: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}

// FileSaver adapts Save to the flow.Saver contract.
type FileSaver struct{}

func (FileSaver) Save(a *domain.Answers) error {
	return Save(a)
}
