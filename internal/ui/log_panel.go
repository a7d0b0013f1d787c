package ui

import (
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogPanel shows the most recent log lines. It is an io.Writer so it can be
// handed to logging.Setup; writes may come from any goroutine.
type LogPanel struct {
	mu       sync.Mutex
	lines    []string
	maxLines int
	pending  bool

	grid     *widget.TextGrid
	scroll   *container.Scroll
	dispatch func(func())
}

// NewLogPanel creates a log panel keeping at most maxLines lines
func NewLogPanel(maxLines int) *LogPanel {
	return newLogPanel(maxLines, fyne.Do)
}

func newLogPanel(maxLines int, dispatch func(func())) *LogPanel {
	if maxLines <= 0 {
		maxLines = LogMaxLines
	}
	p := &LogPanel{
		maxLines: maxLines,
		grid:     widget.NewTextGrid(),
		dispatch: dispatch,
	}
	p.scroll = container.NewVScroll(p.grid)
	p.scroll.SetMinSize(fyne.NewSize(0, LogPanelHeight))
	return p
}

// Write appends the lines in b
func (p *LogPanel) Write(b []byte) (int, error) {
	text := strings.TrimRight(string(b), "\n")
	if text == "" {
		return len(b), nil
	}

	p.mu.Lock()
	p.lines = append(p.lines, strings.Split(text, "\n")...)
	if over := len(p.lines) - p.maxLines; over > 0 {
		p.lines = append([]string(nil), p.lines[over:]...)
	}
	schedule := !p.pending
	p.pending = true
	p.mu.Unlock()

	// Coalesce bursts into one redraw
	if schedule {
		p.dispatch(p.render)
	}
	return len(b), nil
}

// Lines returns a copy of the buffered lines
func (p *LogPanel) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// Text returns the panel content as shown
func (p *LogPanel) Text() string {
	return p.grid.Text()
}

// Container returns the scrollable panel
func (p *LogPanel) Container() fyne.CanvasObject {
	return p.scroll
}

func (p *LogPanel) render() {
	p.mu.Lock()
	text := strings.Join(p.lines, "\n")
	p.pending = false
	p.mu.Unlock()

	p.grid.SetText(text)
	p.scroll.ScrollToBottom()
}
