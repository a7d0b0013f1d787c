package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ImageTile is one thumbnail in the result grid. Tapping it reports its URL;
// a selected tile is drawn with a colored frame.
type ImageTile struct {
	widget.BaseWidget

	url      string
	size     float32
	selected bool
	img      image.Image

	onTapped func(url string)
}

var _ fyne.Tappable = (*ImageTile)(nil)

// NewImageTile creates a tile for url whose image fits in size x size
func NewImageTile(url string, size float32, onTapped func(url string)) *ImageTile {
	t := &ImageTile{
		url:      url,
		size:     size,
		onTapped: onTapped,
	}
	t.ExtendBaseWidget(t)
	return t
}

// URL returns the image URL shown by the tile
func (t *ImageTile) URL() string {
	return t.url
}

// Selected reports whether the tile is drawn as selected
func (t *ImageTile) Selected() bool {
	return t.selected
}

// SetSelected updates the selection frame
func (t *ImageTile) SetSelected(selected bool) {
	if t.selected == selected {
		return
	}
	t.selected = selected
	t.Refresh()
}

// SetImage replaces the placeholder with the loaded thumbnail
func (t *ImageTile) SetImage(img image.Image) {
	t.img = img
	t.Refresh()
}

// HasImage reports whether a thumbnail has been set
func (t *ImageTile) HasImage() bool {
	return t.img != nil
}

// Tapped toggles selection through the callback
func (t *ImageTile) Tapped(*fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped(t.url)
	}
}

// CreateRenderer creates the widget renderer
func (t *ImageTile) CreateRenderer() fyne.WidgetRenderer {
	r := &imageTileRenderer{
		tile:        t,
		placeholder: canvas.NewRectangle(themeColor(ColorNameTilePlaceholder)),
		image:       canvas.NewImageFromImage(nil),
		frame:       canvas.NewRectangle(color.Transparent),
	}
	r.image.FillMode = canvas.ImageFillContain
	r.image.ScaleMode = canvas.ImageScaleFastest
	r.frame.StrokeWidth = TileBorderWidth
	r.Refresh()
	return r
}

// imageTileRenderer renders the image tile widget
type imageTileRenderer struct {
	tile        *ImageTile
	placeholder *canvas.Rectangle
	image       *canvas.Image
	frame       *canvas.Rectangle
}

// Layout insets the image so the frame never covers it
func (r *imageTileRenderer) Layout(size fyne.Size) {
	inset := TileBorderWidth + TilePadding
	inner := fyne.NewSize(size.Width-2*inset, size.Height-2*inset)
	pos := fyne.NewPos(inset, inset)

	r.placeholder.Move(pos)
	r.placeholder.Resize(inner)
	r.image.Move(pos)
	r.image.Resize(inner)
	r.frame.Move(fyne.NewPos(0, 0))
	r.frame.Resize(size)
}

// MinSize returns the thumbnail box plus frame and padding
func (r *imageTileRenderer) MinSize() fyne.Size {
	edge := r.tile.size + 2*(TileBorderWidth+TilePadding)
	return fyne.NewSize(edge, edge)
}

// Refresh refreshes the renderer
func (r *imageTileRenderer) Refresh() {
	if r.tile.img != nil {
		r.image.Image = r.tile.img
		r.image.Show()
		r.placeholder.Hide()
	} else {
		r.image.Hide()
		r.placeholder.FillColor = themeColor(ColorNameTilePlaceholder)
		r.placeholder.Show()
	}

	if r.tile.selected {
		r.frame.StrokeColor = themeColor(ColorNameTileSelected)
	} else {
		r.frame.StrokeColor = color.Transparent
	}

	r.image.Refresh()
	r.placeholder.Refresh()
	r.frame.Refresh()
}

// Objects returns the canvas objects, frame on top
func (r *imageTileRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.placeholder, r.image, r.frame}
}

// Destroy cleans up the renderer
func (r *imageTileRenderer) Destroy() {}

// themeColor resolves name against the running app's theme
func themeColor(name fyne.ThemeColorName) color.Color {
	app := fyne.CurrentApp()
	if app == nil {
		return NewAppTheme().Color(name, theme.VariantLight)
	}
	settings := app.Settings()
	return settings.Theme().Color(name, settings.ThemeVariant())
}
