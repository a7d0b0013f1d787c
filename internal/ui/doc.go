// Package ui contains the Fyne desktop interface: keyword search, the
// thumbnail grid with click-to-select, bulk selection buttons, downloads,
// clipboard copy, the API key dialog and the log panel. It reacts to session
// events and never blocks the Fyne goroutine on network calls.
package ui
