// Package bootstrap builds the service graph shared by the GUI and the CLI.
package bootstrap

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/ytget/image-finder/internal/config"
	"github.com/ytget/image-finder/internal/credential"
	"github.com/ytget/image-finder/internal/download"
	"github.com/ytget/image-finder/internal/eventbus"
	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
	"github.com/ytget/image-finder/internal/pixabay"
	"github.com/ytget/image-finder/internal/session"
)

// Options override configuration values chosen at runtime (GUI preferences,
// CLI flags). Zero values keep the configuration.
type Options struct {
	Fs             afero.Fs
	CredentialPath string
	DownloadDir    string
	MaxParallel    int
	PageSize       int
	Endpoint       string
}

// Services is the wired application
type Services struct {
	Config     *config.Config
	Client     *pixabay.Client
	Store      *credential.FileStore
	Bus        eventbus.EventBus
	Downloader *download.Service
	Session    *session.Session
}

// New wires every service from cfg
func New(cfg *config.Config, opts Options) (*Services, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	credPath := opts.CredentialPath
	if credPath == "" {
		path, err := credential.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrIO, err)
		}
		credPath = path
	}

	endpoint := cfg.API.Endpoint
	if opts.Endpoint != "" {
		endpoint = opts.Endpoint
	}
	clientOpts := []pixabay.Option{
		pixabay.WithEndpoint(endpoint),
		pixabay.WithHTTPClient(pixabay.NewHTTPClient(cfg.API.Timeout)),
	}
	if cfg.API.RequestsPerMinute > 0 {
		clientOpts = append(clientOpts, pixabay.WithRateLimiter(pixabay.NewRateLimiter(cfg.API.RequestsPerMinute)))
	}
	client := pixabay.NewClient(clientOpts...)

	downloadDir := firstString(opts.DownloadDir, cfg.Download.Directory)
	maxParallel := firstInt(opts.MaxParallel, cfg.Download.MaxParallel)
	pageSize := firstInt(opts.PageSize, cfg.API.PageSize)

	store := credential.NewFileStore(opts.Fs, credPath)
	bus := eventbus.New()
	downloader := download.NewService(client, downloadDir, maxParallel, download.WithFs(opts.Fs))

	sessionOpts := []session.Option{
		session.WithPageSize(pageSize),
		session.WithCredentialStore(store),
		session.WithPublisher(bus),
		session.WithDownloader(downloader),
	}
	if cfg.API.Key != "" {
		sessionOpts = append(sessionOpts, session.WithFallbackCredential(cfg.API.Key))
	}

	log := logging.New("bootstrap")
	log.Debug().
		Str("endpoint", endpoint).
		Str("credential", credPath).
		Int("page_size", pageSize).
		Int("max_parallel", maxParallel).
		Msg("services wired")

	return &Services{
		Config:     cfg,
		Client:     client,
		Store:      store,
		Bus:        bus,
		Downloader: downloader,
		Session:    session.New(client, sessionOpts...),
	}, nil
}

// Close releases the event bus
func (s *Services) Close() {
	s.Bus.Close()
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstInt(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
