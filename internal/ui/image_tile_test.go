package ui

import (
	"image"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
)

func TestImageTile_TapReportsURL(t *testing.T) {
	test.NewApp()

	var tapped []string
	tile := NewImageTile("https://x/a.jpg", 100, func(url string) {
		tapped = append(tapped, url)
	})

	test.Tap(tile)
	test.Tap(tile)

	if len(tapped) != 2 || tapped[0] != "https://x/a.jpg" {
		t.Errorf("Unexpected taps: %v", tapped)
	}
}

func TestImageTile_SelectionAndImage(t *testing.T) {
	test.NewApp()

	tile := NewImageTile("https://x/a.jpg", 100, nil)
	if tile.Selected() || tile.HasImage() {
		t.Fatal("New tile should be unselected and without image")
	}

	tile.SetSelected(true)
	if !tile.Selected() {
		t.Error("Tile should be selected")
	}

	tile.SetImage(image.NewRGBA(image.Rect(0, 0, 10, 10)))
	if !tile.HasImage() {
		t.Error("Tile should have an image")
	}

	// Tapping without a callback must not panic
	test.Tap(tile)
}

func TestImageTile_MinSizeIncludesFrame(t *testing.T) {
	test.NewApp()

	tile := NewImageTile("https://x/a.jpg", 100, nil)
	want := 100 + 2*(TileBorderWidth+TilePadding)
	if got := tile.MinSize(); got != fyne.NewSize(want, want) {
		t.Errorf("Expected min size %v, got %v", fyne.NewSize(want, want), got)
	}
}
