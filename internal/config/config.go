package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config is the root configuration for punch, stored in ~/.punch/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Redmine RedmineConfig `json:"redmine"`
}

// RedmineConfig holds the connection settings for the Redmine instance.
type RedmineConfig struct {
	// BaseURL is the Redmine root, e.g. "https://redmine.example.com".
	BaseURL string `json:"base_url"`
	// APIKey is the personal API access key (My account → API access key).
	APIKey string `json:"api_key"`
	// Auth selects the authentication mode: "apikey" (default) or "oauth".
	Auth string `json:"auth"`
	// OAuthClientID is the OAuth2 application ID, used when auth is "oauth".
	OAuthClientID string `json:"oauth_client_id"`
}

// DefaultAuth is the API-key header mode.
const DefaultAuth = "apikey"

// Configured reports whether the minimum connection settings are present.
func (r RedmineConfig) Configured() bool {
	if r.BaseURL == "" {
		return false
	}
	if r.Auth == "oauth" {
		return r.OAuthClientID != ""
	}
	return r.APIKey != ""
}

// defaultConfig returns a Config pre-filled with defaults.
func defaultConfig() Config {
	return Config{
		Redmine: RedmineConfig{
			Auth: DefaultAuth,
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// punch configuration – ~/.punch/config.json
//
// Fill in base_url and api_key (or the oauth settings) before running any
// command that talks to Redmine. Edit this file to customise punch behaviour.
{
  // ── Redmine connection ───────────────────────────────────────────────────
  "redmine": {
    // Root URL of your Redmine instance, without a trailing path.
    "base_url": "",

    // Personal API access key, from "My account" → "API access key".
    // Used when auth is "apikey".
    "api_key": "",

    // Authentication mode:
    // • "apikey" – X-Redmine-API-Key header (default)
    // • "oauth"  – OAuth2 device code flow against the instance's provider
    "auth": "apikey",

    // OAuth2 application (client) ID; only used when auth is "oauth".
    "oauth_client_id": ""
  }
}
`

// configFilePath returns the path to ~/.punch/config.json.
func configFilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".punch", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.punch/config.json, creating it with annotated defaults on
// first run. Lines starting with // are treated as comments and stripped
// before JSON parsing.
func Load() (Config, error) {
	path, err := configFilePath()
	if err != nil {
		return defaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	if cfg.Redmine.Auth == "" {
		cfg.Redmine.Auth = DefaultAuth
	}

	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
