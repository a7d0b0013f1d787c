package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
	if settings.defaults == nil {
		t.Error("Settings should fall back to default config")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/pictures"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestDownloadDirectoryFromConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Download.Directory = "/from/config"
	settings := NewSettings(test.NewApp(), cfg)

	if dir := settings.GetDownloadDirectory(); dir != "/from/config" {
		t.Errorf("Expected config directory, got %s", dir)
	}
}

func TestMaxParallelDownloads(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	maxParallel := settings.GetMaxParallelDownloads()
	if maxParallel != DefaultMaxParallel {
		t.Errorf("Expected default max parallel %d, got %d", DefaultMaxParallel, maxParallel)
	}

	settings.SetMaxParallelDownloads(5)
	if got := settings.GetMaxParallelDownloads(); got != 5 {
		t.Errorf("Expected max parallel 5, got %d", got)
	}

	// Test boundary values
	settings.SetMaxParallelDownloads(0) // Should be clamped to 1
	if settings.GetMaxParallelDownloads() != 1 {
		t.Error("Max parallel should be clamped to minimum 1")
	}

	settings.SetMaxParallelDownloads(15) // Should be clamped to 10
	if settings.GetMaxParallelDownloads() != 10 {
		t.Error("Max parallel should be clamped to maximum 10")
	}
}

func TestPageSize(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.PageSize = 50
	settings := NewSettings(test.NewApp(), cfg)

	if got := settings.GetPageSize(); got != 50 {
		t.Errorf("Expected page size from config 50, got %d", got)
	}

	settings.SetPageSize(1)
	if got := settings.GetPageSize(); got != MinPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", MinPageSize, got)
	}

	settings.SetPageSize(500)
	if got := settings.GetPageSize(); got != MaxPageSize {
		t.Errorf("Expected page size clamped to %d, got %d", MaxPageSize, got)
	}
}

func TestThumbnailSize(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if got := settings.GetThumbnailSize(); got != DefaultThumbnailSize {
		t.Errorf("Expected default thumbnail size %d, got %d", DefaultThumbnailSize, got)
	}

	settings.SetThumbnailSize(150)
	if got := settings.GetThumbnailSize(); got != 150 {
		t.Errorf("Expected thumbnail size 150, got %d", got)
	}

	settings.SetThumbnailSize(-1)
	if got := settings.GetThumbnailSize(); got != DefaultThumbnailSize {
		t.Errorf("Invalid thumbnail size should reset to %d, got %d", DefaultThumbnailSize, got)
	}
}

func TestLanguage(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	// Test default value
	lang := settings.GetLanguage()
	if lang != DefaultLanguage {
		t.Errorf("Expected default language %s, got %s", DefaultLanguage, lang)
	}

	settings.SetLanguage("en")

	retrievedLang := settings.GetLanguage()
	if retrievedLang != "en" {
		t.Errorf("Expected language 'en', got %s", retrievedLang)
	}
}

func TestAutoReveal(t *testing.T) {
	settings := NewSettings(test.NewApp(), nil)

	if settings.GetAutoRevealOnComplete() != DefaultAutoRevealComplete {
		t.Error("Auto reveal should start at its default")
	}

	settings.SetAutoRevealOnComplete(true)
	if !settings.GetAutoRevealOnComplete() {
		t.Error("Auto reveal should be enabled")
	}
}

func TestGetLanguageOptions(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app, nil)

	options := settings.GetLanguageOptions()

	expectedLangs := []string{"system", "en", "ru", "pt"}
	for _, lang := range expectedLangs {
		if _, exists := options[lang]; !exists {
			t.Errorf("Expected language option '%s' to exist", lang)
		}
	}

	if len(options) != len(expectedLangs) {
		t.Errorf("Expected %d language options, got %d", len(expectedLangs), len(options))
	}
}
