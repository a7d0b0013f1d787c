package ui

import (
	"context"
	"errors"
	"fmt"
	"image"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/ytget/image-finder/internal/config"
	"github.com/ytget/image-finder/internal/credential"
	"github.com/ytget/image-finder/internal/download"
	"github.com/ytget/image-finder/internal/eventbus"
	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/model"
	"github.com/ytget/image-finder/internal/platform"
	"github.com/ytget/image-finder/internal/runner"
	"github.com/ytget/image-finder/internal/session"
	"github.com/ytget/image-finder/internal/thumbnail"
)

// File size formatting constants
const (
	FileSizeUnit  = 1024
	FileSizeUnits = "KMGTPE"
)

// formatFileSize formats file size in bytes to human readable format
func formatFileSize(bytes int64) string {
	if bytes < FileSizeUnit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(FileSizeUnit), 0
	for n := bytes / FileSizeUnit; n >= FileSizeUnit; n /= FileSizeUnit {
		div *= FileSizeUnit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), FileSizeUnits[exp])
}

// Dependencies are the services the main window drives
type Dependencies struct {
	Session    *session.Session
	Bus        eventbus.EventBus
	Downloader download.Downloader
	Fetcher    thumbnail.Fetcher
	Settings   *config.Settings
	LogPanel   *LogPanel

	// ThumbnailParallel bounds concurrent thumbnail fetches; zero uses the default
	ThumbnailParallel int
}

// RootUI represents the main UI structure
type RootUI struct {
	window       fyne.Window
	app          fyne.App
	session      *session.Session
	bus          eventbus.EventBus
	downloader   download.Downloader
	fetcher      thumbnail.Fetcher
	thumbs       *thumbnail.Loader
	settings     *config.Settings
	localization *Localization
	log          zerolog.Logger

	// Background work; results come back through fyne.Do
	fetchRunner    *runner.Runner
	downloadRunner *runner.Runner
	thumbCtx       context.Context
	thumbCancel    context.CancelFunc
	unsubscribe    func()

	// Widgets
	keywordEntry   *widget.Entry
	searchBtn      *widget.Button
	loadMoreBtn    *widget.Button
	selectAllBtn   *widget.Button
	deselectAllBtn *widget.Button
	downloadBtn    *widget.Button
	copyBtn        *widget.Button
	changeKeyBtn   *widget.Button
	apiKeyLabel    *widget.Label
	statusLabel    *widget.Label
	activity       *widget.ProgressBarInfinite
	grid           *fyne.Container
	gridScroll     *container.Scroll
	logPanel       *LogPanel

	// Tiles by URL; a URL repeated across pages has several tiles
	tiles     map[string][]*ImageTile
	tileCount int
	keyword   string
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, app fyne.App, deps Dependencies) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(deps.Settings.GetLanguage())

	if deps.LogPanel == nil {
		deps.LogPanel = NewLogPanel(LogMaxLines)
	}

	ui := &RootUI{
		window:         window,
		app:            app,
		session:        deps.Session,
		bus:            deps.Bus,
		downloader:     deps.Downloader,
		fetcher:        deps.Fetcher,
		settings:       deps.Settings,
		localization:   localization,
		log:            logging.New("ui"),
		fetchRunner:    runner.New("search", fyne.Do),
		downloadRunner: runner.New("download", fyne.Do),
		logPanel:       deps.LogPanel,
		tiles:          make(map[string][]*ImageTile),
	}
	ui.thumbs = thumbnail.NewLoader(ui.fetcher, uint(ui.settings.GetThumbnailSize()), deps.ThumbnailParallel)
	ui.thumbCtx, ui.thumbCancel = context.WithCancel(context.Background())

	window.SetTitle(localization.GetText(KeyAppTitle))

	ui.setupUI()
	ui.unsubscribe = ui.bus.SubscribeAll(func(event eventbus.Event) {
		fyne.Do(func() { ui.handleEvent(event) })
	})
	ui.downloader.SetUpdateCallback(func(*model.DownloadTask) {
		fyne.Do(ui.updateDownloadProgress)
	})
	window.SetOnClosed(ui.Close)

	ui.log.Info().Msg("UI setup completed")
	return ui
}

// Close stops background work and detaches from the event bus
func (ui *RootUI) Close() {
	if ui.unsubscribe != nil {
		ui.unsubscribe()
	}
	ui.downloader.SetUpdateCallback(nil)
	ui.thumbCancel()
	ui.fetchRunner.Close()
	ui.downloadRunner.Close()
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	ui.keywordEntry = widget.NewEntry()
	ui.keywordEntry.SetPlaceHolder(ui.localization.GetText(KeyEnterKeyword))
	// Search when user presses Enter in the keyword field
	ui.keywordEntry.OnSubmitted = func(string) {
		ui.onSearch()
	}

	ui.searchBtn = widget.NewButton(IconSearch+" "+ui.localization.GetText(KeySearch), ui.onSearch)
	ui.searchBtn.Importance = widget.HighImportance

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance

	ui.apiKeyLabel = widget.NewLabel("")
	ui.changeKeyBtn = widget.NewButton(ui.localization.GetText(KeyChangeAPIKey), ui.onChangeAPIKey)
	ui.updateAPIKeyLabel(ui.session.Credential())

	searchRow := container.NewBorder(nil, nil, settingsBtn, ui.searchBtn, ui.keywordEntry)
	keyRow := container.NewBorder(nil, nil, nil, ui.changeKeyBtn, ui.apiKeyLabel)

	ui.activity = widget.NewProgressBarInfinite()
	ui.activity.Stop()
	ui.activity.Hide()

	ui.grid = container.NewGridWrap(ui.tileSize())
	ui.gridScroll = container.NewVScroll(ui.grid)

	ui.loadMoreBtn = widget.NewButton(ui.localization.GetText(KeyLoadMore), ui.onLoadMore)
	ui.selectAllBtn = widget.NewButton(IconCheck+" "+ui.localization.GetText(KeySelectAll), ui.onSelectAll)
	ui.deselectAllBtn = widget.NewButton(ui.localization.GetText(KeyDeselectAll), ui.onDeselectAll)
	ui.downloadBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyDownloadSelected), ui.onDownloadSelected)
	ui.copyBtn = widget.NewButton(IconCopy+" "+ui.localization.GetText(KeyCopyURLs), ui.onCopyURLs)
	ui.statusLabel = widget.NewLabel("")

	actions := container.NewHBox(
		ui.loadMoreBtn,
		ui.selectAllBtn,
		ui.deselectAllBtn,
		ui.downloadBtn,
		ui.copyBtn,
	)
	actionRow := container.NewBorder(nil, nil, nil, ui.statusLabel, actions)

	top := container.NewVBox(keyRow, searchRow, ui.activity)
	bottom := container.NewVBox(actionRow, widget.NewSeparator(), ui.logPanel.Container())

	ui.window.SetContent(container.NewBorder(top, bottom, nil, nil, ui.gridScroll))
	ui.updateButtons()
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	settingsItem := fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings)
	keyItem := fyne.NewMenuItem(ui.localization.GetText(KeyChangeAPIKey), ui.onChangeAPIKey)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code // Capture for closure
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu(ui.localization.GetText(KeyFile), settingsItem, keyItem),
		languageMenu,
	))
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	text := ui.localization.GetText
	ui.window.SetTitle(text(KeyAppTitle))
	ui.keywordEntry.SetPlaceHolder(text(KeyEnterKeyword))
	ui.searchBtn.SetText(IconSearch + " " + text(KeySearch))
	ui.changeKeyBtn.SetText(text(KeyChangeAPIKey))
	ui.loadMoreBtn.SetText(text(KeyLoadMore))
	ui.selectAllBtn.SetText(IconCheck + " " + text(KeySelectAll))
	ui.deselectAllBtn.SetText(text(KeyDeselectAll))
	ui.downloadBtn.SetText(IconFolder + " " + text(KeyDownloadSelected))
	ui.copyBtn.SetText(IconCopy + " " + text(KeyCopyURLs))
	ui.updateAPIKeyLabel(ui.session.Credential())
	ui.updateStatus()
}

// onSearch starts a new keyword search in the background
func (ui *RootUI) onSearch() {
	keyword := strings.TrimSpace(ui.keywordEntry.Text)
	if keyword == "" {
		dialog.ShowInformation(ui.localization.GetText(KeySearch), ui.localization.GetText(KeyPleaseEnterKey), ui.window)
		return
	}

	ui.submitFetch(func(ctx context.Context) error {
		_, err := ui.session.StartSearch(ctx, keyword)
		return err
	})
}

// onLoadMore fetches the next page in the background
func (ui *RootUI) onLoadMore() {
	ui.submitFetch(func(ctx context.Context) error {
		_, err := ui.session.LoadMore(ctx)
		return err
	})
}

// submitFetch runs a search request unless one is already in flight
func (ui *RootUI) submitFetch(work func(ctx context.Context) error) {
	err := ui.fetchRunner.Submit(work, func(error) {
		// Errors reach the user through OperationFailedEvent
		ui.setBusy(false)
	})
	if err != nil {
		ui.log.Debug().Err(err).Msg("search request ignored")
		return
	}
	ui.setBusy(true)
}

func (ui *RootUI) onSelectAll() {
	ui.session.SelectAll()
}

func (ui *RootUI) onDeselectAll() {
	ui.session.DeselectAll()
}

// onTileTapped toggles the selection of the tapped image
func (ui *RootUI) onTileTapped(url string) {
	if err := ui.session.ToggleSelection(url); err != nil {
		ui.log.Warn().Err(err).Str("url", url).Msg("toggle failed")
	}
}

// onDownloadSelected asks for a folder and downloads the selection into it
func (ui *RootUI) onDownloadSelected() {
	if !ui.session.HasSelection() {
		return
	}

	fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			dialog.ShowError(err, ui.window)
			return
		}
		if uri == nil {
			return
		}
		ui.startDownload(uri.Path())
	}, ui.window)

	if lister, err := storage.ListerForURI(storage.NewFileURI(ui.settings.GetDownloadDirectory())); err == nil {
		fd.SetLocation(lister)
	}
	fd.Show()
}

// startDownload saves the selected images into dir in the background
func (ui *RootUI) startDownload(dir string) {
	count := ui.session.SelectedCount()
	err := ui.downloadRunner.Submit(func(ctx context.Context) error {
		_, err := ui.session.DownloadSelected(ctx, dir)
		return err
	}, func(error) {
		ui.setBusy(ui.fetchRunner.Busy())
		ui.updateStatus()
	})
	if err != nil {
		ui.log.Debug().Err(err).Msg("download request ignored")
		return
	}

	ui.statusLabel.SetText(ui.localization.Format(KeyDownloading, count))
	ui.setBusy(true)
	ui.updateButtons()
}

// onCopyURLs copies the selected URLs to the clipboard
func (ui *RootUI) onCopyURLs() {
	if _, err := ui.session.CopySelected(ui.app.Clipboard()); err != nil {
		ui.log.Warn().Err(err).Msg("copy failed")
	}
}

// onChangeAPIKey asks for a new API key; an empty answer changes nothing
func (ui *RootUI) onChangeAPIKey() {
	entry := widget.NewPasswordEntry()
	entry.SetPlaceHolder(ui.localization.GetText(KeyEnterAPIKey))

	form := dialog.NewForm(
		ui.localization.GetText(KeyChangeAPIKey),
		ui.localization.GetText(KeySave),
		ui.localization.GetText(KeyCancel),
		[]*widget.FormItem{widget.NewFormItem(IconKey, entry)},
		func(confirmed bool) {
			key := strings.TrimSpace(entry.Text)
			if !confirmed || key == "" {
				return
			}
			if err := ui.session.UpdateCredential(key); err != nil {
				ui.log.Error().Err(err).Msg("API key not updated")
			}
		},
		ui.window,
	)
	form.Resize(fyne.NewSize(DialogWidth, 0))
	form.Show()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	ShowSettingsDialog(ui.window, ui.settings, ui.localization, ui.applySettings)
}

// applySettings pushes saved settings into the running services
func (ui *RootUI) applySettings() {
	ui.downloader.SetDownloadDirectory(ui.settings.GetDownloadDirectory())
	ui.downloader.SetMaxParallelDownloads(ui.settings.GetMaxParallelDownloads())
	ui.session.SetPageSize(ui.settings.GetPageSize())

	if size := uint(ui.settings.GetThumbnailSize()); size != ui.thumbs.Size() {
		ui.thumbs = thumbnail.NewLoader(ui.fetcher, size, ui.thumbs.MaxParallel())
		ui.rebuildGrid()
	}

	if lang := ui.settings.GetLanguage(); lang != ui.localization.GetCurrentLanguage() {
		ui.onLanguageChange(lang)
	}

	ui.log.Info().Msg("settings applied")
	widget.ShowPopUp(widget.NewLabel(ui.localization.GetText(KeySettingsSaved)), ui.window.Canvas())
}

// handleEvent renders a session event; it runs on the Fyne goroutine
func (ui *RootUI) handleEvent(event eventbus.Event) {
	switch e := event.(type) {
	case session.SearchStartedEvent:
		ui.keyword = e.Keyword
		ui.clearGrid()
	case session.ItemsAppendedEvent:
		ui.appendTiles(e.Items)
	case session.NoResultsEvent:
		dialog.ShowInformation(
			ui.localization.GetText(KeyNoResults),
			ui.localization.Format(KeyNoResultsMessage, e.Query.Keyword),
			ui.window,
		)
	case session.SelectionChangedEvent:
		ui.applySelection(e)
	case session.CredentialUpdatedEvent:
		ui.updateAPIKeyLabel(e.Key)
	case session.URLsCopiedEvent:
		dialog.ShowInformation(ui.localization.GetText(KeyCopied), ui.localization.Format(KeyCopiedMessage, e.Count), ui.window)
	case session.DownloadFinishedEvent:
		ui.showDownloadSummary(e.Result)
	case session.OperationFailedEvent:
		ui.showError(e)
	}
	ui.updateButtons()
	ui.updateStatus()
}

// clearGrid drops every tile and stops pending thumbnail loads
func (ui *RootUI) clearGrid() {
	ui.thumbCancel()
	ui.thumbCtx, ui.thumbCancel = context.WithCancel(context.Background())
	ui.thumbs.Reset()

	ui.tiles = make(map[string][]*ImageTile)
	ui.tileCount = 0
	ui.grid.RemoveAll()
	ui.gridScroll.ScrollToTop()
}

// appendTiles adds tiles for a fetched page and loads their thumbnails
func (ui *RootUI) appendTiles(items []model.ImageItem) {
	size := float32(ui.thumbs.Size())
	for _, item := range items {
		tile := NewImageTile(item.URL, size, ui.onTileTapped)
		tile.SetSelected(ui.session.IsSelected(item.URL))
		ui.tiles[item.URL] = append(ui.tiles[item.URL], tile)
		ui.tileCount++
		ui.grid.Add(tile)
	}
	ui.grid.Refresh()
	ui.gridScroll.ScrollToBottom()

	ui.loadThumbnails(model.URLs(items))
}

// rebuildGrid recreates all tiles at the current thumbnail size
func (ui *RootUI) rebuildGrid() {
	items := ui.session.Items()
	ui.clearGrid()
	ui.grid.Layout = layout.NewGridWrapLayout(ui.tileSize())
	ui.appendTiles(items)
}

// loadThumbnails fetches thumbnails off the Fyne goroutine
func (ui *RootUI) loadThumbnails(urls []string) {
	ctx := ui.thumbCtx
	thumbs := ui.thumbs
	go thumbs.LoadAll(ctx, urls, func(url string, img image.Image, err error) {
		if err != nil {
			return
		}
		fyne.Do(func() {
			if ctx.Err() != nil {
				return
			}
			for _, tile := range ui.tiles[url] {
				tile.SetImage(img)
			}
		})
	})
}

// applySelection mirrors the session selection onto the tiles
func (ui *RootUI) applySelection(e session.SelectionChangedEvent) {
	if e.URL != "" {
		for _, tile := range ui.tiles[e.URL] {
			tile.SetSelected(e.Selected)
		}
		return
	}
	for url, tiles := range ui.tiles {
		selected := ui.session.IsSelected(url)
		for _, tile := range tiles {
			tile.SetSelected(selected)
		}
	}
}

// showDownloadSummary reports a finished download batch
func (ui *RootUI) showDownloadSummary(result *download.Result) {
	if result == nil {
		return
	}

	var bytes int64
	for _, task := range result.Tasks {
		bytes += task.FileSize
	}
	message := ui.localization.Format(KeyDownloadSummary, result.Completed, formatFileSize(bytes), result.Dir)
	if result.Failed > 0 {
		message += "\n" + ui.localization.Format(KeyDownloadFailures, result.Failed)
	}
	dialog.ShowInformation(ui.localization.GetText(KeyDownloadComplete), message, ui.window)

	if result.Completed > 0 && ui.settings.GetAutoRevealOnComplete() {
		if err := platform.OpenFolder(result.Dir); err != nil {
			ui.log.Warn().Err(err).Str("dir", result.Dir).Msg("could not open folder")
		}
	}
}

// showError renders a failed operation
func (ui *RootUI) showError(e session.OperationFailedEvent) {
	switch {
	case e.Op == session.OpSearch && errors.Is(e.Err, model.ErrInvalidInput):
		dialog.ShowInformation(ui.localization.GetText(KeySearch), ui.localization.GetText(KeyPleaseEnterKey), ui.window)
	case e.Op == session.OpSelect:
		// A tap on a tile from a previous search; nothing to tell the user
	default:
		dialog.ShowError(e.Err, ui.window)
	}
}

// setBusy shows or hides the activity bar
func (ui *RootUI) setBusy(busy bool) {
	if busy {
		ui.activity.Show()
		ui.activity.Start()
		ui.searchBtn.Disable()
		ui.updateButtons()
		return
	}
	ui.activity.Stop()
	ui.activity.Hide()
	ui.searchBtn.Enable()
	ui.updateButtons()
}

// updateButtons enables actions according to results and selection
func (ui *RootUI) updateButtons() {
	_, established := ui.session.Query()
	fetching := ui.fetchRunner.Busy()
	downloading := ui.downloadRunner.Busy()
	hasResults := ui.tileCount > 0
	hasSelection := ui.session.HasSelection()

	setEnabled(ui.loadMoreBtn, established && hasResults && !fetching)
	setEnabled(ui.selectAllBtn, hasResults)
	setEnabled(ui.deselectAllBtn, hasSelection)
	setEnabled(ui.downloadBtn, hasSelection && !downloading)
	setEnabled(ui.copyBtn, hasSelection)
}

// updateStatus shows the selection counter
func (ui *RootUI) updateStatus() {
	if ui.downloadRunner.Busy() {
		return
	}
	if ui.tileCount == 0 {
		ui.statusLabel.SetText("")
		return
	}
	ui.statusLabel.SetText(ui.localization.Format(KeySelectedCount, ui.session.SelectedCount(), ui.tileCount))
}

// updateDownloadProgress shows how many images of the running download are saved
func (ui *RootUI) updateDownloadProgress() {
	finished, total := ui.downloader.Progress()
	if total == 0 {
		return
	}
	ui.statusLabel.SetText(ui.localization.Format(KeyDownloadProgress, finished, total))
}

// updateAPIKeyLabel shows a masked key
func (ui *RootUI) updateAPIKeyLabel(key string) {
	shown := ui.localization.GetText(KeyAPIKeyNotSet)
	if key != "" {
		shown = credential.Mask(key)
	}
	ui.apiKeyLabel.SetText(ui.localization.Format(KeyAPIKeyLabel, shown))
}

func (ui *RootUI) tileSize() fyne.Size {
	edge := float32(ui.thumbs.Size()) + 2*(TileBorderWidth+TilePadding)
	return fyne.NewSize(edge, edge)
}

func setEnabled(w fyne.Disableable, enabled bool) {
	if enabled {
		w.Enable()
	} else {
		w.Disable()
	}
}
