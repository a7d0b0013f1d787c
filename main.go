package main

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/rs/zerolog/log"

	"github.com/ytget/image-finder/internal/bootstrap"
	"github.com/ytget/image-finder/internal/config"
	"github.com/ytget/image-finder/internal/logging"
	"github.com/ytget/image-finder/internal/platform"
	"github.com/ytget/image-finder/internal/ui"
)

// Version is set during build via -ldflags "-X main.version=X.Y.Z"
var version = "dev"

const (
	AppID   = "com.ytget.image-finder"
	AppName = "ImageFinder"

	WindowWidth  = 800
	WindowHeight = 600
)

func main() {
	cfg, err := config.Load(os.Getenv("IMAGEFINDER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	myApp := app.NewWithID(AppID)
	myApp.Settings().SetTheme(ui.NewAppTheme())

	// Log lines go to stderr and to the in-window log panel
	logPanel := ui.NewLogPanel(ui.LogMaxLines)
	logging.Setup(cfg.Logging.Level, logPanel)
	log.Info().Str("version", version).Msg("ImageFinder starting")

	myWindow := myApp.NewWindow(AppName)
	myWindow.Resize(fyne.NewSize(WindowWidth, WindowHeight))

	settings := config.NewSettings(myApp, cfg)
	downloadsDir := settings.GetDownloadDirectory()
	if err := platform.CreateDirectoryIfNotExists(downloadsDir); err != nil {
		log.Warn().Err(err).Str("dir", downloadsDir).Msg("failed to ensure downloads dir")
	}

	services, err := bootstrap.New(cfg, bootstrap.Options{
		DownloadDir: downloadsDir,
		MaxParallel: settings.GetMaxParallelDownloads(),
		PageSize:    settings.GetPageSize(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start")
	}
	defer services.Close()

	ui.NewRootUI(myWindow, myApp, ui.Dependencies{
		Session:    services.Session,
		Bus:        services.Bus,
		Downloader: services.Downloader,
		Fetcher:    services.Client,
		Settings:   settings,
		LogPanel:   logPanel,

		ThumbnailParallel: cfg.Thumbnail.MaxParallel,
	})

	myWindow.ShowAndRun()
}
