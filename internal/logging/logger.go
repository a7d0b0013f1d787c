// Package logging configures the zerolog loggers used by every component.
package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// TimeFormat is the timestamp layout of human-readable log lines
const TimeFormat = "2006-01-02 15:04:05"

// output lets Setup re-route loggers that were created before it ran
var output = &switchWriter{w: io.Discard}

type switchWriter struct {
	mu sync.RWMutex
	w  io.Writer
}

func (s *switchWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.w.Write(p)
}

func (s *switchWriter) set(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// New returns a sub-logger tagged with the component name
func New(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// Setup sets the global level and routes log output to stderr plus any extra
// writers. Every writer gets plain, uncolored console lines.
func Setup(level string, extra ...io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(level))
	if _, debug := os.LookupEnv("DEBUG"); debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	writers := []io.Writer{consoleWriter(os.Stderr)}
	for _, w := range extra {
		if w != nil {
			writers = append(writers, consoleWriter(w))
		}
	}
	output.set(zerolog.MultiLevelWriter(writers...))
}

// ParseLevel converts a level string to a zerolog level, defaulting to info
func ParseLevel(level string) zerolog.Level {
	parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || parsed == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return parsed
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: TimeFormat,
	}
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	Setup("info")
}
