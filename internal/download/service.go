package download

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
	"github.com/ytget/image-finder/internal/platform"
)

// Download limits
const (
	DefaultMaxParallel = 3
	MinMaxParallel     = 1
	MaxMaxParallel     = 10

	defaultRetries    = 0
	defaultRetryDelay = 2 * time.Second
)

// Result summarizes one Download call. Tasks keep the order of the input URLs.
type Result struct {
	Dir       string
	Tasks     []*model.DownloadTask
	Completed int
	Failed    int
}

// Service handles download operations
type Service struct {
	fetcher     Fetcher
	fs          afero.Fs
	log         zerolog.Logger
	tasks       map[string]*model.DownloadTask
	tasksMutex  sync.RWMutex
	maxParallel int
	downloadDir string
	retries     int
	retryDelay  time.Duration
	onUpdate    func(*model.DownloadTask) // callback for UI updates
}

// Option configures a Service.
type Option func(*Service)

// WithFs replaces the filesystem images are written to.
func WithFs(fs afero.Fs) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithRetry opts into retrying a failed fetch. Failures surface immediately
// by default.
func WithRetry(retries int, delay time.Duration) Option {
	return func(s *Service) {
		if retries >= 0 {
			s.retries = retries
		}
		if delay >= 0 {
			s.retryDelay = delay
		}
	}
}

// NewService creates a new download service
func NewService(fetcher Fetcher, downloadDir string, maxParallel int, opts ...Option) *Service {
	s := &Service{
		fetcher:     fetcher,
		fs:          afero.NewOsFs(),
		log:         logging.New("download"),
		tasks:       make(map[string]*model.DownloadTask),
		maxParallel: clampParallel(maxParallel),
		downloadDir: downloadDir,
		retries:     defaultRetries,
		retryDelay:  defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetUpdateCallback sets the callback function for task updates
func (s *Service) SetUpdateCallback(callback func(*model.DownloadTask)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetMaxParallelDownloads sets the maximum number of parallel downloads
func (s *Service) SetMaxParallelDownloads(max int) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.maxParallel = clampParallel(max)
}

// SetDownloadDirectory sets the download directory
func (s *Service) SetDownloadDirectory(dir string) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.downloadDir = dir
}

// DownloadDirectory returns the default download directory
func (s *Service) DownloadDirectory() string {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	return s.downloadDir
}

// Progress reports how many tasks of the running batches have finished,
// successfully or not, out of how many. Tasks are forgotten once their
// Download call returns.
func (s *Service) Progress() (finished, total int) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	for _, task := range s.tasks {
		if task.Status == model.TaskStatusCompleted || task.Status == model.TaskStatusError {
			finished++
		}
	}
	return finished, len(s.tasks)
}

// Download fetches every URL and writes it into dir. An empty dir falls back to
// the configured download directory. A failed image does not stop the others;
// their errors are joined into the returned error.
func (s *Service) Download(ctx context.Context, dir string, urls []string) (*Result, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: no images to download", model.ErrInvalidInput)
	}
	if dir == "" {
		dir = s.DownloadDirectory()
	}
	if dir == "" {
		return nil, fmt.Errorf("%w: download directory is not set", model.ErrInvalidInput)
	}
	if exists, _ := afero.DirExists(s.fs, dir); !exists {
		if err := s.fs.MkdirAll(dir, platform.DefaultDirPermissions); err != nil {
			return nil, fmt.Errorf("%w: create %s: %w", model.ErrIO, dir, err)
		}
	}

	tasks := s.addTasks(urls)

	s.tasksMutex.RLock()
	limit := s.maxParallel
	s.tasksMutex.RUnlock()

	s.log.Info().Int("count", len(tasks)).Int("parallel", limit).Str("dir", dir).Msg("download started")

	errs := make([]error, len(tasks))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, task := range tasks {
		g.Go(func() error {
			errs[i] = s.runTask(ctx, dir, task)
			return nil
		})
	}
	_ = g.Wait()

	result := &Result{Dir: dir, Tasks: make([]*model.DownloadTask, 0, len(tasks))}
	s.tasksMutex.Lock()
	for _, task := range tasks {
		snapshot := *task
		result.Tasks = append(result.Tasks, &snapshot)
		if task.Status == model.TaskStatusCompleted {
			result.Completed++
		} else {
			result.Failed++
		}
		delete(s.tasks, task.ID)
	}
	s.tasksMutex.Unlock()

	s.log.Info().Int("completed", result.Completed).Int("failed", result.Failed).Msg("download finished")

	return result, errors.Join(errs...)
}

// addTasks registers a pending task per URL
func (s *Service) addTasks(urls []string) []*model.DownloadTask {
	s.tasksMutex.Lock()
	tasks := make([]*model.DownloadTask, 0, len(urls))
	for _, url := range urls {
		task := &model.DownloadTask{
			ID:     generateTaskID(),
			URL:    url,
			Status: model.TaskStatusPending,
		}
		s.tasks[task.ID] = task
		tasks = append(tasks, task)
	}
	s.tasksMutex.Unlock()

	for _, task := range tasks {
		s.notifyUpdate(task)
	}
	return tasks
}

// runTask downloads a single image and records the final status
func (s *Service) runTask(ctx context.Context, dir string, task *model.DownloadTask) error {
	s.tasksMutex.Lock()
	task.Status = model.TaskStatusDownloading
	task.StartedAt = time.Now()
	s.tasksMutex.Unlock()
	s.notifyUpdate(task)

	path, size, err := s.save(ctx, dir, task)

	s.tasksMutex.Lock()
	if err != nil {
		task.Status = model.TaskStatusError
		task.LastError = err.Error()
	} else {
		task.Status = model.TaskStatusCompleted
		task.OutputPath = path
		task.FileSize = size
	}
	task.FinishedAt = time.Now()
	s.tasksMutex.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Str("task", task.ID).Msg("image download failed")
	} else {
		s.log.Debug().Str("task", task.ID).Str("path", path).Int64("bytes", size).Msg("image saved")
	}

	s.notifyUpdate(task)
	return err
}

// save fetches, validates and writes one image
func (s *Service) save(ctx context.Context, dir string, task *model.DownloadTask) (string, int64, error) {
	data, err := s.fetchWithRetry(ctx, task)
	if err != nil {
		return "", 0, err
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", 0, fmt.Errorf("%w: %s is not a decodable image: %w", model.ErrNetworkFailure, task.URL, err)
	}

	path := filepath.Join(dir, filenameFor(task.URL))
	if err := afero.WriteFile(s.fs, path, data, platform.DefaultFilePermissions); err != nil {
		return "", 0, fmt.Errorf("%w: write %s: %w", model.ErrIO, path, err)
	}
	return path, int64(len(data)), nil
}

// fetchWithRetry attempts the fetch with retry logic
func (s *Service) fetchWithRetry(ctx context.Context, task *model.DownloadTask) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", model.ErrNetworkFailure, ctx.Err())
			}
			s.log.Debug().Str("task", task.ID).Int("attempt", attempt+1).Msg("retrying image fetch")
		}

		data, err := s.fetcher.FetchImage(ctx, task.URL)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

// notifyUpdate calls the update callback with a snapshot of the task
func (s *Service) notifyUpdate(task *model.DownloadTask) {
	s.tasksMutex.RLock()
	callback := s.onUpdate
	snapshot := *task
	s.tasksMutex.RUnlock()

	if callback != nil {
		callback(&snapshot)
	}
}

// filenameFor names the saved file after the URL basename
func filenameFor(url string) string {
	if name := platform.FilenameFromURL(url); name != "" {
		return name
	}
	return "image-" + uuid.NewString() + ".jpg"
}

func clampParallel(n int) int {
	switch {
	case n < MinMaxParallel:
		return DefaultMaxParallel
	case n > MaxMaxParallel:
		return MaxMaxParallel
	}
	return n
}

// generateTaskID generates a unique task ID
func generateTaskID() string {
	return "task-" + uuid.NewString()
}
