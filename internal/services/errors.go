package services

import (
	"errors"

	"github.com/redjax/notefolio/internal/api"
)

var (
	ErrEmptyNote         = errors.New("note has no title or content")
	ErrNoFolder          = errors.New("no folder selected")
	ErrDeclined          = errors.New("action cancelled")
	ErrEmptySummaryInput = errors.New("nothing to summarize")
	ErrEmptyFolderName   = errors.New("folder name is empty")
	ErrNoteNotFound      = errors.New("note not found")
	ErrModalClosed       = errors.New("note editor is not open")
	ErrNoSummary         = errors.New("no summary to act on")
)

// Alert texts
const (
	FallbackSummaryError   = "Failed to generate summary. Please try again."
	emptyNoteWarning       = "Please add a title or some content before saving."
	emptySummaryWarning    = "Please write something before summarizing."
	noFolderWarning        = "Select a folder first."
	emptyFolderNameWarning = "Folder name cannot be empty."
)

// userMessage picks the text shown in an alert: the server's message when it
// sent one, otherwise fallback.
func userMessage(err error, fallback string) string {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
