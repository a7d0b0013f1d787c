package cmd

import (
	"github.com/atotto/clipboard"
)

type clipboardWriter interface {
	WriteAll(text string) error
}

// systemClipboard writes to the OS clipboard
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// clipboardSink adapts a clipboardWriter to session.Clipboard and keeps the
// write error, which the session interface has no room for.
type clipboardSink struct {
	w   clipboardWriter
	err error
}

func (c *clipboardSink) SetContent(text string) {
	c.err = c.w.WriteAll(text)
}
