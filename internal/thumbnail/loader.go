// Package thumbnail fetches result images and scales them down for the grid.
package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/nfnt/resize"
	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
	_ "golang.org/x/image/webp"

	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
)

// Thumbnail defaults
const (
	DefaultSize        = 100
	DefaultMaxParallel = 4
)

// Fetcher retrieves the raw bytes of an image URL.
type Fetcher interface {
	FetchImage(ctx context.Context, url string) ([]byte, error)
}

// Loader fetches, decodes and scales images, caching the scaled result per URL.
type Loader struct {
	fetcher     Fetcher
	size        uint
	maxParallel int
	log         zerolog.Logger

	mu    sync.RWMutex
	cache map[string]image.Image
}

// NewLoader creates a loader producing thumbnails that fit in size x size.
func NewLoader(fetcher Fetcher, size uint, maxParallel int) *Loader {
	if size == 0 {
		size = DefaultSize
	}
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	return &Loader{
		fetcher:     fetcher,
		size:        size,
		maxParallel: maxParallel,
		log:         logging.New("thumbnail"),
		cache:       make(map[string]image.Image),
	}
}

// Size returns the bounding box edge in pixels.
func (l *Loader) Size() uint {
	return l.size
}

// MaxParallel returns how many images LoadAll fetches at once.
func (l *Loader) MaxParallel() int {
	return l.maxParallel
}

// Load returns the thumbnail for url, fetching it on a cache miss.
func (l *Loader) Load(ctx context.Context, url string) (image.Image, error) {
	l.mu.RLock()
	img, ok := l.cache[url]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	data, err := l.fetcher.FetchImage(ctx, url)
	if err != nil {
		return nil, err
	}

	img, err = Decode(data, l.size)
	if err != nil {
		return nil, fmt.Errorf("%w: thumbnail %s: %w", model.ErrNetworkFailure, url, err)
	}

	l.mu.Lock()
	l.cache[url] = img
	l.mu.Unlock()
	return img, nil
}

// LoadAll loads thumbnails for urls with bounded parallelism. onLoaded is
// called from worker goroutines once per URL. LoadAll returns when every URL
// has been handled.
func (l *Loader) LoadAll(ctx context.Context, urls []string, onLoaded func(url string, img image.Image, err error)) {
	p := pool.New().WithMaxGoroutines(l.maxParallel)
	for _, url := range urls {
		p.Go(func() {
			if ctx.Err() != nil {
				onLoaded(url, nil, ctx.Err())
				return
			}
			img, err := l.Load(ctx, url)
			if err != nil {
				l.log.Debug().Err(err).Str("url", url).Msg("thumbnail failed")
			}
			onLoaded(url, img, err)
		})
	}
	p.Wait()
}

// Reset drops every cached thumbnail.
func (l *Loader) Reset() {
	l.mu.Lock()
	l.cache = make(map[string]image.Image)
	l.mu.Unlock()
}

// Decode decodes data and scales it to fit in size x size, keeping the aspect ratio.
func Decode(data []byte, size uint) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return resize.Thumbnail(size, size, img, resize.Bilinear), nil
}
