package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tikomo/redmine-punch/internal/model"
)

// BaseDir returns the root data directory (~/.punch).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".punch"), nil
}

// templatesFile is the top-level structure of templates.json.
type templatesFile struct {
	Templates []model.Template `json:"templates"`
}

func templatesPath(base string) string {
	return filepath.Join(base, "templates.json")
}

// LoadTemplates reads all templates. A missing file yields an empty list; a
// corrupt file is backed up and reported, since silently dropping templates
// would turn every reconciliation into creates.
func LoadTemplates(base string) ([]model.Template, error) {
	path := templatesPath(base)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []model.Template{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var tf templatesFile
	if err := json.Unmarshal(data, &tf); err != nil {
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return tf.Templates, nil
}

// SaveTemplates atomically writes the full template list.
func SaveTemplates(base string, templates []model.Template) error {
	path := templatesPath(base)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(templatesFile{Templates: templates}, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
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

// AddTemplate appends a template.
func AddTemplate(base string, t model.Template) error {
	templates, err := LoadTemplates(base)
	if err != nil {
		return err
	}
	templates = append(templates, t)
	return SaveTemplates(base, templates)
}

// UpdateTemplate replaces the template with the same ID.
func UpdateTemplate(base string, t model.Template) error {
	templates, err := LoadTemplates(base)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID == t.ID {
			templates[i] = t
			return SaveTemplates(base, templates)
		}
	}
	return fmt.Errorf("no template with id %q", t.ID)
}

// DeleteTemplate removes the template with the given ID.
func DeleteTemplate(base, id string) error {
	templates, err := LoadTemplates(base)
	if err != nil {
		return err
	}
	for i := range templates {
		if templates[i].ID == id {
			templates = append(templates[:i], templates[i+1:]...)
			return SaveTemplates(base, templates)
		}
	}
	return fmt.Errorf("no template with id %q", id)
}

// FindTemplate returns the template with the given ID, or nil.
func FindTemplate(templates []model.Template, id string) *model.Template {
	for i := range templates {
		if templates[i].ID == id {
			return &templates[i]
		}
	}
	return nil
}
