// Package userconfig keeps the per-user preferences of the CLI, currently
// the language recipes are generated in.
package userconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrInvalidLanguage is returned for codes that are not BCP 47 tags
var ErrInvalidLanguage = errors.New("not a language tag")

// UserConfig is the content of ~/.config/recipes/config.json. Language is
// always a canonical BCP 47 tag, or empty for the backend default.
type UserConfig struct {
	Language string `json:"language,omitempty"`
}

// GetConfigPath returns where the preferences live
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "recipes", "config.json"), nil
}

// ParseLanguage canonicalizes code, so "EN-us" and "en_US" both become "en-US"
func ParseLanguage(code string) (language.Tag, error) {
	tag, err := language.Parse(code)
	if err != nil || tag.IsRoot() {
		return language.Und, fmt.Errorf("%q is %w", code, ErrInvalidLanguage)
	}
	return tag, nil
}

// LanguageName describes a canonical tag in English, e.g. "Brazilian Portuguese"
func LanguageName(code string) string {
	tag, err := ParseLanguage(code)
	if err != nil {
		return code
	}
	if name := display.English.Tags().Name(tag); name != "" {
		return name
	}
	return tag.String()
}

// Load reads the preferences. A missing file yields the defaults.
func Load() (*UserConfig, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &UserConfig{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read user config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config file: %w", err)
	}

	// Files written by hand may hold any casing
	if cfg.Language != "" {
		tag, err := ParseLanguage(cfg.Language)
		if err != nil {
			return nil, fmt.Errorf("user config file %s: %w", path, err)
		}
		cfg.Language = tag.String()
	}
	return cfg, nil
}

// Save replaces the preferences file. The new content is written next to
// it and renamed over, so a crash never leaves half a file behind.
func Save(cfg *UserConfig) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write user config file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace user config file: %w", err)
	}
	return nil
}

// SetLanguage stores code in canonical form and returns that form
func SetLanguage(code string) (string, error) {
	tag, err := ParseLanguage(code)
	if err != nil {
		return "", err
	}

	cfg, err := Load()
	if err != nil {
		return "", err
	}
	cfg.Language = tag.String()
	if err := Save(cfg); err != nil {
		return "", err
	}
	return cfg.Language, nil
}

// ClearLanguage goes back to the backend default
func ClearLanguage() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	cfg.Language = ""
	return Save(cfg)
}

// GetLanguage returns the stored tag, or "" when none is set
func GetLanguage() (string, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	return cfg.Language, nil
}
