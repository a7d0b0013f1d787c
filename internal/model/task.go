package model

import (
	"path"
	"strings"
	"time"
)

// DownloadTask represents the download of one selected image
type DownloadTask struct {
	ID         string
	URL        string
	Status     TaskStatus
	LastError  string    // last error message if any
	OutputPath string    // path to the saved file
	FileSize   int64     // bytes written
	StartedAt  time.Time // when download started
	FinishedAt time.Time // when download finished
}

// Elapsed returns how long the task ran, or zero if it has not finished
func (dt *DownloadTask) Elapsed() time.Duration {
	if dt.StartedAt.IsZero() || dt.FinishedAt.IsZero() {
		return 0
	}
	return dt.FinishedAt.Sub(dt.StartedAt)
}

// GetDisplayTitle returns the saved filename, the URL basename, or the URL
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.OutputPath != "" {
		// Support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			return parts[len(parts)-1]
		}
	}

	if dt.URL == "" {
		return ""
	}

	if base := path.Base(strings.SplitN(dt.URL, "?", 2)[0]); base != "." && base != "/" && !strings.HasSuffix(dt.URL, "/") {
		return base
	}
	return dt.URL
}
