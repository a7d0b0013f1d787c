package thumbnail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/image-finder/internal/model"
)

type countingFetcher struct {
	payloads map[string][]byte
	calls    atomic.Int32
}

func (f *countingFetcher) FetchImage(_ context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	data, ok := f.payloads[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s: 404", model.ErrNetworkFailure, url)
	}
	return data, nil
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		img.Set(x, h/2, color.RGBA{B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestDecode_FitsBoundingBox(t *testing.T) {
	img, err := Decode(jpegBytes(t, 640, 320), 100)
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 50, bounds.Dy())
}

func TestDecode_SmallImageUnchanged(t *testing.T) {
	img, err := Decode(jpegBytes(t, 40, 30), 100)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode([]byte("nope"), 100)
	assert.Error(t, err)
}

func TestLoader_CachesByURL(t *testing.T) {
	fetcher := &countingFetcher{payloads: map[string][]byte{"https://x/a.jpg": jpegBytes(t, 200, 200)}}
	loader := NewLoader(fetcher, 50, 2)

	first, err := loader.Load(context.Background(), "https://x/a.jpg")
	require.NoError(t, err)
	second, err := loader.Load(context.Background(), "https://x/a.jpg")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), fetcher.calls.Load())

	loader.Reset()
	_, err = loader.Load(context.Background(), "https://x/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, int32(2), fetcher.calls.Load())
}

func TestLoader_InvalidPayload(t *testing.T) {
	fetcher := &countingFetcher{payloads: map[string][]byte{"https://x/bad.jpg": []byte("html")}}
	loader := NewLoader(fetcher, 0, 0)

	assert.Equal(t, uint(DefaultSize), loader.Size())
	assert.Equal(t, DefaultMaxParallel, loader.MaxParallel())
	assert.Equal(t, 2, NewLoader(fetcher, 0, 2).MaxParallel())

	_, err := loader.Load(context.Background(), "https://x/bad.jpg")
	assert.ErrorIs(t, err, model.ErrNetworkFailure)
}

func TestLoader_LoadAll(t *testing.T) {
	fetcher := &countingFetcher{payloads: map[string][]byte{
		"https://x/1.jpg": jpegBytes(t, 120, 80),
		"https://x/2.jpg": jpegBytes(t, 80, 120),
	}}
	loader := NewLoader(fetcher, 60, 2)

	var mu sync.Mutex
	loaded := map[string]image.Image{}
	failed := map[string]error{}
	loader.LoadAll(context.Background(), []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg"},
		func(url string, img image.Image, err error) {
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed[url] = err
				return
			}
			loaded[url] = img
		})

	assert.Len(t, loaded, 2)
	assert.Len(t, failed, 1)
	assert.Contains(t, failed, "https://x/3.jpg")
	assert.Equal(t, 60, loaded["https://x/1.jpg"].Bounds().Dx())
	assert.Equal(t, 60, loaded["https://x/2.jpg"].Bounds().Dy())
}

func TestLoader_LoadAllCancelled(t *testing.T) {
	fetcher := &countingFetcher{payloads: map[string][]byte{"https://x/1.jpg": jpegBytes(t, 10, 10)}}
	loader := NewLoader(fetcher, 60, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var errs atomic.Int32
	loader.LoadAll(ctx, []string{"https://x/1.jpg"}, func(_ string, _ image.Image, err error) {
		if err != nil {
			errs.Add(1)
		}
	})
	assert.Equal(t, int32(1), errs.Load())
	assert.Equal(t, int32(0), fetcher.calls.Load())
}
