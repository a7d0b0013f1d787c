// Package credential persists the Pixabay API key as a one-line YAML file in
// the user's home directory.
package credential

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
)

const (
	// DirName is the per-user settings directory under $HOME
	DirName = ".ImageFinder"

	// FileName holds the API key
	FileName = "pixabay.yaml"

	dirPermissions  = 0o700
	filePermissions = 0o600
)

// Store loads and saves the API credential.
type Store interface {
	// Load returns the stored key, or "" when none has been saved
	Load() (string, error)
	Save(key string) error
}

// FileStore keeps the key as a YAML scalar in a single file.
type FileStore struct {
	fs   afero.Fs
	path string
	log  zerolog.Logger
}

// DefaultPath returns ~/.ImageFinder/pixabay.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, DirName, FileName), nil
}

// NewFileStore creates a store backed by path on fs.
func NewFileStore(fs afero.Fs, path string) *FileStore {
	return &FileStore{
		fs:   fs,
		path: path,
		log:  logging.New("credential"),
	}
}

// Path returns the backing file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the key. A missing file is not an error.
func (s *FileStore) Load() (string, error) {
	exists, err := afero.Exists(s.fs, s.path)
	if err != nil {
		return "", fmt.Errorf("%w: checking %s: %w", model.ErrIO, s.path, err)
	}
	if !exists {
		s.log.Info().Str("path", s.path).Msg("no stored API key")
		return "", nil
	}

	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return "", fmt.Errorf("%w: reading %s: %w", model.ErrIO, s.path, err)
	}

	var key string
	if err := yaml.Unmarshal(data, &key); err != nil {
		return "", fmt.Errorf("%w: parsing %s: %w", model.ErrIO, s.path, err)
	}

	return strings.TrimSpace(key), nil
}

// Save writes key, creating the settings directory if needed.
func (s *FileStore) Save(key string) error {
	if err := s.fs.MkdirAll(filepath.Dir(s.path), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating config directory: %w", model.ErrIO, err)
	}

	data, err := yaml.Marshal(key)
	if err != nil {
		return fmt.Errorf("%w: encoding API key: %w", model.ErrIO, err)
	}

	if err := afero.WriteFile(s.fs, s.path, data, filePermissions); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("error updating API key")
		return fmt.Errorf("%w: writing %s: %w", model.ErrIO, s.path, err)
	}

	s.log.Info().Str("path", s.path).Msg("API key updated successfully")
	return nil
}

// Mask hides all but the first and last four characters of key. Keys of
// eight characters or fewer are hidden completely.
func Mask(key string) string {
	const visible = 4
	runes := []rune(key)
	if len(runes) <= 2*visible {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:visible]) + strings.Repeat("*", len(runes)-2*visible) + string(runes[len(runes)-visible:])
}
