package session

import (
	"github.com/ytget/image-finder/internal/credential"
	"github.com/ytget/image-finder/internal/download"
	"github.com/ytget/image-finder/internal/eventbus"
)

// Option configures a Session
type Option func(*Session)

// WithPageSize sets the number of results requested per page
func WithPageSize(size int) Option {
	return func(s *Session) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

// WithRollbackOnFailure keeps the page cursor unchanged when LoadMore fails,
// so the next LoadMore retries the same page instead of skipping it.
func WithRollbackOnFailure() Option {
	return func(s *Session) {
		s.rollback = true
	}
}

// WithCredential sets the API key. It takes precedence over the credential store.
func WithCredential(key string) Option {
	return func(s *Session) {
		s.credential = key
	}
}

// WithFallbackCredential sets the API key used when neither WithCredential
// nor the credential store provides one.
func WithFallbackCredential(key string) Option {
	return func(s *Session) {
		s.fallbackCredential = key
	}
}

// WithCredentialStore loads the API key from store and persists updates to it
func WithCredentialStore(store credential.Store) Option {
	return func(s *Session) {
		s.store = store
	}
}

// WithPublisher sets where session events are published
func WithPublisher(p eventbus.Publisher) Option {
	return func(s *Session) {
		s.bus = p
	}
}

// WithDownloader sets the service used by DownloadSelected
func WithDownloader(d download.Downloader) Option {
	return func(s *Session) {
		s.downloader = d
	}
}
