package learn

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// progress is the on-disk record of completed lesson titles, kept under
// the user's home directory.
type progress struct {
	Completed []string `json:"completed"`
}

func progressPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".finfun")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, "learn.json"), nil
}

func loadProgress() (progress, error) {
	path, err := progressPath()
	if err != nil {
		return progress{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return progress{}, nil
		}
		return progress{}, err
	}
	if len(raw) == 0 {
		return progress{}, nil
	}
	var p progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return progress{}, err
	}
	return p, nil
}

func saveProgress(p progress) error {
	path, err := progressPath()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o600)
}
