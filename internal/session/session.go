// Package session holds the state of one image search: the API key, the
// current query and page cursor, the accumulated results and the selection
// over them. Every state change is published as an event for the UI.
package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ytget/image-finder/internal/credential"
	"github.com/ytget/image-finder/internal/download"
	"github.com/ytget/image-finder/internal/eventbus"
	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
)

// SearchClient fetches one page of results.
type SearchClient interface {
	Search(ctx context.Context, apiKey string, q model.SearchQuery) ([]model.ImageItem, error)
}

// Clipboard receives copied text. fyne.Clipboard satisfies it.
type Clipboard interface {
	SetContent(content string)
}

// Outcome describes what a fetched page did to the session
type Outcome int

const (
	OutcomeAppended Outcome = iota
	OutcomeNoResults
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAppended:
		return "appended"
	case OutcomeNoResults:
		return "no_results"
	default:
		return "unknown"
	}
}

// PageResult is returned by StartSearch and LoadMore
type PageResult struct {
	Query   model.SearchQuery
	Items   []model.ImageItem // items of this page only
	Total   int               // accumulated items after the page
	Outcome Outcome
}

// Session is safe for concurrent use. Its mutex is never held across a
// network call, so selection changes stay responsive while a page loads.
type Session struct {
	client     SearchClient
	store      credential.Store
	downloader download.Downloader
	bus        eventbus.Publisher
	pageSize   int
	rollback   bool
	log        zerolog.Logger

	fallbackCredential string

	mu          sync.RWMutex
	credential  string
	query       model.SearchQuery
	established bool   // a search for query.Keyword has succeeded
	generation  uint64 // bumped by StartSearch to drop stale pages
	items       []model.ImageItem
	known       map[string]struct{}
	selected    map[string]struct{}
}

// New creates a session. Without WithCredential the API key is read from the
// credential store; a store error is logged and the key stays empty. The
// fallback credential applies only when both give nothing.
func New(client SearchClient, opts ...Option) *Session {
	s := &Session{
		client:   client,
		pageSize: model.DefaultPageSize,
		log:      logging.New("session"),
		known:    make(map[string]struct{}),
		selected: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.credential == "" && s.store != nil {
		key, err := s.store.Load()
		if err != nil {
			s.log.Warn().Err(err).Msg("could not load API key")
		}
		s.credential = key
	}
	if s.credential == "" && s.fallbackCredential != "" {
		s.log.Info().Msg("using API key from configuration")
		s.credential = s.fallbackCredential
	}
	if s.credential == "" {
		s.log.Info().Msg("no API key configured")
	}
	return s
}

// SetPageSize changes the page size used from the next StartSearch on
func (s *Session) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	s.pageSize = size
	s.mu.Unlock()
}

// StartSearch resets the session for keyword and fetches its first page.
func (s *Session) StartSearch(ctx context.Context, keyword string) (*PageResult, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		err := fmt.Errorf("%w: keyword is empty", model.ErrInvalidInput)
		s.fail(OpSearch, err)
		return nil, err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.query = model.NewSearchQuery(keyword, s.pageSize)
	s.established = false
	s.items = nil
	s.known = make(map[string]struct{})
	s.selected = make(map[string]struct{})
	q := s.query
	apiKey := s.credential
	s.mu.Unlock()

	s.log.Info().Str("keyword", keyword).Msg("search started")
	s.publish(SearchStartedEvent{Keyword: keyword})
	s.publish(SelectionChangedEvent{})

	items, err := s.client.Search(ctx, apiKey, q)
	if err != nil {
		if !s.current(gen) {
			return nil, staleError(q)
		}
		s.log.Error().Err(err).Str("keyword", keyword).Msg("search failed")
		s.fail(OpSearch, err)
		return nil, err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil, staleError(q)
	}
	s.established = true
	result := s.appendLocked(q, items)
	s.mu.Unlock()

	s.announce(result)
	return result, nil
}

// LoadMore fetches the page after the current one and appends it.
func (s *Session) LoadMore(ctx context.Context) (*PageResult, error) {
	s.mu.Lock()
	if !s.established {
		s.mu.Unlock()
		err := fmt.Errorf("%w: no search to continue", model.ErrInvalidState)
		s.fail(OpLoadMore, err)
		return nil, err
	}
	gen := s.generation
	q := s.query.Next()
	if !s.rollback {
		s.query = q
	}
	apiKey := s.credential
	s.mu.Unlock()

	s.log.Info().Str("keyword", q.Keyword).Int("page", q.Page).Msg("loading more")

	items, err := s.client.Search(ctx, apiKey, q)

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return nil, staleError(q)
	}
	if err != nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Int("page", q.Page).Msg("load more failed")
		s.fail(OpLoadMore, err)
		return nil, err
	}
	if s.rollback {
		s.query = q
	}
	result := s.appendLocked(q, items)
	s.mu.Unlock()

	s.announce(result)
	return result, nil
}

// ToggleSelection flips the selection state of url.
func (s *Session) ToggleSelection(url string) error {
	s.mu.Lock()
	if _, ok := s.known[url]; !ok {
		s.mu.Unlock()
		err := fmt.Errorf("%w: %s is not in the results", model.ErrNotFound, url)
		s.fail(OpSelect, err)
		return err
	}
	_, selected := s.selected[url]
	if selected {
		delete(s.selected, url)
	} else {
		s.selected[url] = struct{}{}
	}
	event := SelectionChangedEvent{URL: url, Selected: !selected, Count: len(s.selected), Total: len(s.items)}
	s.mu.Unlock()

	s.publish(event)
	return nil
}

// SelectAll selects every accumulated item
func (s *Session) SelectAll() {
	s.mu.Lock()
	for url := range s.known {
		s.selected[url] = struct{}{}
	}
	event := SelectionChangedEvent{Count: len(s.selected), Total: len(s.items)}
	s.mu.Unlock()

	s.publish(event)
}

// DeselectAll clears the selection
func (s *Session) DeselectAll() {
	s.mu.Lock()
	s.selected = make(map[string]struct{})
	event := SelectionChangedEvent{Total: len(s.items)}
	s.mu.Unlock()

	s.publish(event)
}

// SelectedURLs returns the selected URLs in the order they were first fetched.
// A URL repeated across pages is reported once.
func (s *Session) SelectedURLs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedURLsLocked()
}

func (s *Session) selectedURLsLocked() []string {
	urls := make([]string, 0, len(s.selected))
	seen := make(map[string]struct{}, len(s.selected))
	for _, item := range s.items {
		if _, ok := s.selected[item.URL]; !ok {
			continue
		}
		if _, dup := seen[item.URL]; dup {
			continue
		}
		seen[item.URL] = struct{}{}
		urls = append(urls, item.URL)
	}
	return urls
}

// HasSelection reports whether any item is selected
func (s *Session) HasSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) > 0
}

// IsSelected reports whether url is selected
func (s *Session) IsSelected(url string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[url]
	return ok
}

// SelectedCount returns the number of selected URLs
func (s *Session) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// Items returns a copy of the accumulated results
func (s *Session) Items() []model.ImageItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]model.ImageItem, len(s.items))
	copy(items, s.items)
	return items
}

// Query returns the current query and whether a search has succeeded for it
func (s *Session) Query() (model.SearchQuery, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query, s.established
}

// Credential returns the API key in use
func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// UpdateCredential persists key and then uses it for subsequent requests.
func (s *Session) UpdateCredential(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		err := fmt.Errorf("%w: API key is empty", model.ErrInvalidInput)
		s.fail(OpCredential, err)
		return err
	}

	if s.store != nil {
		if err := s.store.Save(key); err != nil {
			s.log.Error().Err(err).Msg("could not save API key")
			s.fail(OpCredential, err)
			return err
		}
	}

	s.mu.Lock()
	s.credential = key
	s.mu.Unlock()

	s.log.Info().Msg("API key updated")
	s.publish(CredentialUpdatedEvent{Key: key})
	return nil
}

// CopySelected writes the selected URLs, one per line, to cb
func (s *Session) CopySelected(cb Clipboard) (int, error) {
	urls := s.SelectedURLs()
	if len(urls) == 0 {
		err := fmt.Errorf("%w: nothing selected", model.ErrInvalidState)
		s.fail(OpCopy, err)
		return 0, err
	}

	cb.SetContent(strings.Join(urls, "\n"))

	s.log.Info().Int("count", len(urls)).Msg("URLs copied")
	s.publish(URLsCopiedEvent{Count: len(urls)})
	return len(urls), nil
}

// DownloadSelected saves the selected images into dir. An empty dir uses the
// downloader's default directory. Per-image failures are joined into the
// error while the result still describes every task.
func (s *Session) DownloadSelected(ctx context.Context, dir string) (*download.Result, error) {
	if s.downloader == nil {
		err := fmt.Errorf("%w: downloads are not configured", model.ErrInvalidState)
		s.fail(OpDownload, err)
		return nil, err
	}

	urls := s.SelectedURLs()
	if len(urls) == 0 {
		err := fmt.Errorf("%w: nothing selected", model.ErrInvalidState)
		s.fail(OpDownload, err)
		return nil, err
	}

	s.log.Info().Int("count", len(urls)).Str("dir", dir).Msg("downloading selection")

	result, err := s.downloader.Download(ctx, dir, urls)
	if result == nil {
		s.fail(OpDownload, err)
		return nil, err
	}

	s.publish(DownloadFinishedEvent{Result: result, Err: err})
	return result, err
}

// appendLocked appends a fetched page; s.mu must be held
func (s *Session) appendLocked(q model.SearchQuery, items []model.ImageItem) *PageResult {
	page := make([]model.ImageItem, len(items))
	copy(page, items)

	s.items = append(s.items, page...)
	for _, item := range page {
		s.known[item.URL] = struct{}{}
	}

	result := &PageResult{Query: q, Items: page, Total: len(s.items), Outcome: OutcomeAppended}
	if len(page) == 0 {
		result.Outcome = OutcomeNoResults
	}
	return result
}

// announce logs and publishes the outcome of a fetched page
func (s *Session) announce(result *PageResult) {
	if result.Outcome == OutcomeNoResults {
		s.log.Info().Str("keyword", result.Query.Keyword).Int("page", result.Query.Page).Msg("no results")
		s.publish(NoResultsEvent{Query: result.Query})
		return
	}
	s.log.Info().
		Str("keyword", result.Query.Keyword).
		Int("page", result.Query.Page).
		Int("count", len(result.Items)).
		Int("total", result.Total).
		Msg("results appended")
	s.publish(ItemsAppendedEvent{Query: result.Query, Items: result.Items, Total: result.Total})
}

func (s *Session) current(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation == gen
}

func (s *Session) fail(op Operation, err error) {
	s.publish(OperationFailedEvent{Op: op, Err: err})
}

func (s *Session) publish(event eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(event)
	}
}

func staleError(q model.SearchQuery) error {
	return fmt.Errorf("%w: results for %q page %d arrived after a new search", model.ErrInvalidState, q.Keyword, q.Page)
}
