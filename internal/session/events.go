package session

import (
	"github.com/ytget/image-finder/internal/download"
	"github.com/ytget/image-finder/internal/eventbus"
	"github.com/ytget/image-finder/internal/model"
)

// Event types published by a Session
const (
	EventSearchStarted     eventbus.EventType = "search.started"
	EventItemsAppended     eventbus.EventType = "search.items_appended"
	EventNoResults         eventbus.EventType = "search.no_results"
	EventSelectionChanged  eventbus.EventType = "selection.changed"
	EventCredentialUpdated eventbus.EventType = "credential.updated"
	EventURLsCopied        eventbus.EventType = "urls.copied"
	EventDownloadFinished  eventbus.EventType = "download.finished"
	EventOperationFailed   eventbus.EventType = "operation.failed"
)

// Operation names the session call that produced an OperationFailedEvent
type Operation string

const (
	OpSearch     Operation = "search"
	OpLoadMore   Operation = "load_more"
	OpSelect     Operation = "select"
	OpCredential Operation = "credential"
	OpCopy       Operation = "copy"
	OpDownload   Operation = "download"
)

// SearchStartedEvent is published when a new keyword search resets the session
type SearchStartedEvent struct {
	Keyword string
}

func (SearchStartedEvent) Type() eventbus.EventType { return EventSearchStarted }

// ItemsAppendedEvent carries the items of one fetched page
type ItemsAppendedEvent struct {
	Query model.SearchQuery
	Items []model.ImageItem
	Total int // accumulated items after the append
}

func (ItemsAppendedEvent) Type() eventbus.EventType { return EventItemsAppended }

// NoResultsEvent is published when a page comes back empty
type NoResultsEvent struct {
	Query model.SearchQuery
}

func (NoResultsEvent) Type() eventbus.EventType { return EventNoResults }

// SelectionChangedEvent reports the selection size after any selection change.
// URL is set for a single toggle and empty for bulk changes.
type SelectionChangedEvent struct {
	URL      string
	Selected bool
	Count    int
	Total    int
}

func (SelectionChangedEvent) Type() eventbus.EventType { return EventSelectionChanged }

// CredentialUpdatedEvent is published after a new API key was saved
type CredentialUpdatedEvent struct {
	Key string
}

func (CredentialUpdatedEvent) Type() eventbus.EventType { return EventCredentialUpdated }

// URLsCopiedEvent is published after the selected URLs reached the clipboard
type URLsCopiedEvent struct {
	Count int
}

func (URLsCopiedEvent) Type() eventbus.EventType { return EventURLsCopied }

// DownloadFinishedEvent is published when a download batch completes, even partially
type DownloadFinishedEvent struct {
	Result *download.Result
	Err    error
}

func (DownloadFinishedEvent) Type() eventbus.EventType { return EventDownloadFinished }

// OperationFailedEvent is published when a session operation returns an error
type OperationFailedEvent struct {
	Op  Operation
	Err error
}

func (OperationFailedEvent) Type() eventbus.EventType { return EventOperationFailed }
