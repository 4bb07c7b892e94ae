package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tikomo/redmine-punch/internal/dates"
)

// The calendar override files are plain JSON date arrays. Loading is
// fail-open: a missing or unreadable file degrades to an empty set with a
// warning, never to a fatal error, so a damaged override file cannot block a
// reconciliation run.

func workDaysPath(base string) string {
	return filepath.Join(base, "work_days.json")
}

func excludedDatesPath(base string) string {
	return filepath.Join(base, "excluded_dates.json")
}

// LoadWorkDays returns the user-marked weekend work days.
func LoadWorkDays(base string) dates.Set {
	return loadDateSet(workDaysPath(base))
}

// SaveWorkDays persists the work-day override set.
func SaveWorkDays(base string, s dates.Set) error {
	return saveDateSet(workDaysPath(base), s)
}

// LoadExcludedDates returns the user-excluded dates (holidays, leave).
func LoadExcludedDates(base string) dates.Set {
	return loadDateSet(excludedDatesPath(base))
}

// SaveExcludedDates persists the excluded-date set.
func SaveExcludedDates(base string, s dates.Set) error {
	return saveDateSet(excludedDatesPath(base), s)
}

func loadDateSet(path string) dates.Set {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return dates.Set{}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot read %s, treating as empty: %v\n", path, err)
		return dates.Set{}
	}
	var s dates.Set
	if err := json.Unmarshal(data, &s); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: corrupt date list in %s, treating as empty: %v\n", path, err)
		return dates.Set{}
	}
	return s
}

func saveDateSet(path string, s dates.Set) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}
