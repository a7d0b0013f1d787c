package config

import (
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/image-finder/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyMaxParallel        = "max_parallel_downloads"
	KeyPageSize           = "page_size"
	KeyThumbnailSize      = "thumbnail_size"
	KeyLanguage           = "app_language"
	KeyAutoRevealComplete = "auto_reveal_on_complete"
)

// Default values
const (
	DefaultMaxParallel        = 3
	DefaultThumbnailSize      = 100
	DefaultLanguage           = "system"
	DefaultAutoRevealComplete = false

	MinMaxParallel = 1
	MaxMaxParallel = 10
)

// ThumbnailSizeOptions are the grid sizes offered in the settings dialog
var ThumbnailSizeOptions = []int{80, 100, 150, 200}

// Settings manages the values the user changes from the GUI. Unset
// preferences fall back to the loaded Config.
type Settings struct {
	app      fyne.App
	defaults *Config
}

// NewSettings creates a new settings manager. A nil cfg uses DefaultConfig.
func NewSettings(app fyne.App, cfg *Config) *Settings {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Settings{app: app, defaults: cfg}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir != "" {
		return dir
	}

	dir = s.defaults.Download.Directory
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(DefaultConfigDir(), "downloads")
		}
		dir = defaultDir
	}
	s.SetDownloadDirectory(dir)
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetMaxParallelDownloads returns the maximum number of parallel downloads
func (s *Settings) GetMaxParallelDownloads() int {
	value := s.app.Preferences().Int(KeyMaxParallel)
	if value <= 0 {
		value = s.defaults.Download.MaxParallel
		s.SetMaxParallelDownloads(value)
		return clamp(value, MinMaxParallel, MaxMaxParallel)
	}
	return value
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Settings) SetMaxParallelDownloads(count int) {
	s.app.Preferences().SetInt(KeyMaxParallel, clamp(count, MinMaxParallel, MaxMaxParallel))
}

// GetPageSize returns the number of results requested per page
func (s *Settings) GetPageSize() int {
	value := s.app.Preferences().Int(KeyPageSize)
	if value <= 0 {
		value = s.defaults.API.PageSize
		s.SetPageSize(value)
		return clamp(value, MinPageSize, MaxPageSize)
	}
	return value
}

// SetPageSize sets the page size, clamped to what the API accepts
func (s *Settings) SetPageSize(size int) {
	s.app.Preferences().SetInt(KeyPageSize, clamp(size, MinPageSize, MaxPageSize))
}

// GetThumbnailSize returns the thumbnail edge in pixels
func (s *Settings) GetThumbnailSize() int {
	value := s.app.Preferences().Int(KeyThumbnailSize)
	if value <= 0 {
		value = s.defaults.Thumbnail.Size
		s.SetThumbnailSize(value)
	}
	return value
}

// SetThumbnailSize sets the thumbnail edge in pixels
func (s *Settings) SetThumbnailSize(size int) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	s.app.Preferences().SetInt(KeyThumbnailSize, size)
}

// GetLanguage returns the configured language
func (s *Settings) GetLanguage() string {
	lang := s.app.Preferences().String(KeyLanguage)
	if lang == "" {
		s.SetLanguage(DefaultLanguage)
		return DefaultLanguage
	}
	return lang
}

// SetLanguage sets the application language
func (s *Settings) SetLanguage(lang string) {
	s.app.Preferences().SetString(KeyLanguage, lang)
}

// GetAutoRevealOnComplete returns whether to open the folder after a download
func (s *Settings) GetAutoRevealOnComplete() bool {
	return s.app.Preferences().BoolWithFallback(KeyAutoRevealComplete, DefaultAutoRevealComplete)
}

// SetAutoRevealOnComplete sets whether to open the folder after a download
func (s *Settings) SetAutoRevealOnComplete(autoReveal bool) {
	s.app.Preferences().SetBool(KeyAutoRevealComplete, autoReveal)
}

// GetLanguageOptions returns available language options
func (s *Settings) GetLanguageOptions() map[string]string {
	return map[string]string{
		"system": "System Default",
		"en":     "English",
		"ru":     "Русский",
		"pt":     "Português",
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
