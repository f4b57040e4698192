package userconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLanguage_DefaultsToEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	lang, err := GetLanguage()
	require.NoError(t, err)
	assert.Empty(t, lang)
}

func TestSetLanguage_Canonicalizes(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"fr", "fr"},
		{"EN-us", "en-US"},
		{"pt_br", "pt-BR"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			home := t.TempDir()
			t.Setenv("HOME", home)

			got, err := SetLanguage(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			lang, err := GetLanguage()
			require.NoError(t, err)
			assert.Equal(t, tt.want, lang)

			assert.FileExists(t, filepath.Join(home, ".config", "recipes", "config.json"))
			assert.NoFileExists(t, filepath.Join(home, ".config", "recipes", "config.json.tmp"))
		})
	}
}

func TestSetLanguage_Rejects(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	require.NoError(t, func() error { _, err := SetLanguage("de"); return err }())

	for _, code := range []string{"", "not a tag", "und", "english!"} {
		_, err := SetLanguage(code)
		assert.ErrorIs(t, err, ErrInvalidLanguage, code)
	}

	// The stored preference is untouched
	lang, err := GetLanguage()
	require.NoError(t, err)
	assert.Equal(t, "de", lang)
}

func TestClearLanguage(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := SetLanguage("es")
	require.NoError(t, err)
	require.NoError(t, ClearLanguage())

	lang, err := GetLanguage()
	require.NoError(t, err)
	assert.Empty(t, lang)
}

func TestLoad_HandEditedFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	dir := filepath.Join(home, ".config", "recipes")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.json")

	require.NoError(t, os.WriteFile(path, []byte(`{"language":"PT-br"}`), 0o644))
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", cfg.Language)

	require.NoError(t, os.WriteFile(path, []byte(`{"language":"klingon please"}`), 0o644))
	_, err = Load()
	assert.ErrorIs(t, err, ErrInvalidLanguage)

	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = Load()
	assert.ErrorContains(t, err, "failed to parse user config file")
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "French", LanguageName("fr"))
	assert.Contains(t, LanguageName("pt-BR"), "Portuguese")
	assert.Equal(t, "???", LanguageName("???"))
}
