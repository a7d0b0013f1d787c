package download

import (
	"context"

	"github.com/ytget/image-finder/internal/model"
)

// Downloader defines the interface for the download service.
type Downloader interface {
	SetUpdateCallback(func(*model.DownloadTask))

	// Download saves every URL into dir and blocks until all tasks finish
	Download(ctx context.Context, dir string, urls []string) (*Result, error)

	// Progress counts finished and total tasks of the running downloads
	Progress() (finished, total int)

	// SetMaxParallelDownloads sets the maximum number of parallel downloads
	SetMaxParallelDownloads(max int)

	// SetDownloadDirectory sets the directory used when Download gets an empty dir
	SetDownloadDirectory(dir string)
	DownloadDirectory() string
}

// Fetcher retrieves the raw bytes of an image URL.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
