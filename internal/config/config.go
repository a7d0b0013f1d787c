// Package config loads application configuration. config.go reads the YAML
// file and environment through viper; settings.go keeps the values the user
// edits in the GUI in Fyne preferences.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/ytget/image-finder/internal/credential"
	"github.com/ytget/image-finder/internal/model"
	"github.com/ytget/image-finder/internal/pixabay"
)

// EnvPrefix prefixes environment overrides, e.g. IMAGEFINDER_API_KEY
const EnvPrefix = "IMAGEFINDER"

// Pixabay accepts per_page values in this range
const (
	MinPageSize = 3
	MaxPageSize = 200
)

// Config holds all application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Download  DownloadConfig  `mapstructure:"download"`
	Thumbnail ThumbnailConfig `mapstructure:"thumbnail"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds search API configuration
type APIConfig struct {
	Endpoint          string        `mapstructure:"endpoint"`
	Key               string        `mapstructure:"key"` // used when no key is stored
	PageSize          int           `mapstructure:"page_size"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Timeout           time.Duration `mapstructure:"timeout"`
}

// DownloadConfig holds download configuration
type DownloadConfig struct {
	Directory   string `mapstructure:"directory"`
	MaxParallel int    `mapstructure:"max_parallel"`
}

// ThumbnailConfig holds thumbnail grid configuration
type ThumbnailConfig struct {
	Size        int `mapstructure:"size"`
	MaxParallel int `mapstructure:"max_parallel"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			Endpoint:          pixabay.DefaultEndpoint,
			PageSize:          model.DefaultPageSize,
			RequestsPerMinute: pixabay.DefaultRequestsPerMinute,
			Timeout:           pixabay.DefaultTimeout,
		},
		Download: DownloadConfig{
			MaxParallel: DefaultMaxParallel,
		},
		Thumbnail: ThumbnailConfig{
			Size:        DefaultThumbnailSize,
			MaxParallel: 4,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigDir returns ~/.ImageFinder, shared with the credential file
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return credential.DirName
	}
	return filepath.Join(home, credential.DirName)
}

// Load reads configuration from path, or from config.yaml in the default
// config directory and the working directory when path is empty. A missing
// file is not an error.
func Load(path string) (*Config, error) {
	return LoadFs(afero.NewOsFs(), path)
}

// LoadFs is Load on the given filesystem
func LoadFs(fs afero.Fs, path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetFs(fs)
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && isNotExist(fs, path)) {
			return nil, fmt.Errorf("%w: error reading config file: %w", model.ErrIO, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: error parsing config: %w", model.ErrInvalidInput, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error
	if c.API.Endpoint == "" {
		errs = append(errs, errors.New("api.endpoint is empty"))
	}
	if c.API.PageSize < MinPageSize || c.API.PageSize > MaxPageSize {
		errs = append(errs, fmt.Errorf("api.page_size %d is outside %d..%d", c.API.PageSize, MinPageSize, MaxPageSize))
	}
	if c.API.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("api.requests_per_minute %d is negative", c.API.RequestsPerMinute))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout %s must be positive", c.API.Timeout))
	}
	if c.Download.MaxParallel < MinMaxParallel || c.Download.MaxParallel > MaxMaxParallel {
		errs = append(errs, fmt.Errorf("download.max_parallel %d is outside %d..%d", c.Download.MaxParallel, MinMaxParallel, MaxMaxParallel))
	}
	if c.Thumbnail.Size <= 0 {
		errs = append(errs, fmt.Errorf("thumbnail.size %d must be positive", c.Thumbnail.Size))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", model.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("api.endpoint", cfg.API.Endpoint)
	v.SetDefault("api.key", cfg.API.Key)
	v.SetDefault("api.page_size", cfg.API.PageSize)
	v.SetDefault("api.requests_per_minute", cfg.API.RequestsPerMinute)
	v.SetDefault("api.timeout", cfg.API.Timeout)
	v.SetDefault("download.directory", cfg.Download.Directory)
	v.SetDefault("download.max_parallel", cfg.Download.MaxParallel)
	v.SetDefault("thumbnail.size", cfg.Thumbnail.Size)
	v.SetDefault("thumbnail.max_parallel", cfg.Thumbnail.MaxParallel)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

func isNotExist(fs afero.Fs, path string) bool {
	_, err := fs.Stat(path)
	return os.IsNotExist(err)
}
