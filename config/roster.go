package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// rosterFile is the YAML shape of ~/.leitfaden/roster.yaml:
//
//	mitarbeiterinnen:
//	  - Huber
//	  - Leitner
type rosterFile struct {
	Mitarbeiterinnen []string `yaml:"mitarbeiterinnen"`
}

// DefaultRosterPath returns the default roster file location.
func DefaultRosterPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".leitfaden", "roster.yaml"), nil
}

// LoadRoster reads the employee roster from the given YAML file. A
// missing file yields a nil roster (the built-in default applies); a
// present but invalid file is an error.
func LoadRoster(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read roster file: %w", err)
	}

	var rf rosterFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("invalid roster file %s: %w", path, err)
	}

	roster := make([]string, 0, len(rf.Mitarbeiterinnen))
	for _, name := range rf.Mitarbeiterinnen {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			roster = append(roster, trimmed)
		}
	}
	return roster, nil
}
