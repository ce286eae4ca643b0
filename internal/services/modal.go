package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/richtext"
)

// ModalMode is the note editor state
type ModalMode int

const (
	ModalClosed ModalMode = iota
	ModalCreating
	ModalEditing
)

func (m ModalMode) String() string {
	switch m {
	case ModalCreating:
		return "creating"
	case ModalEditing:
		return "editing"
	default:
		return "closed"
	}
}

// Color and font choices offered by the editor. The first entry is the default.
var (
	NoteColors = []string{"#fff9c4", "#ffd1dc", "#c8e6c9", "#bbdefb", "#e1bee7", "#ffe0b2"}
	NoteFonts  = []string{"Arial", "Georgia", "Courier New", "Comic Sans MS"}
)

// Draft holds the editable fields of a note. Content is markup.
type Draft struct {
	Title   string
	Content string
	Color   string
	Font    string
}

// IsEmpty reports whether the draft has neither a title nor visible content
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(richtext.StripTags(d.Content)) == ""
}

func newDraft() Draft {
	return Draft{Color: NoteColors[0], Font: NoteFonts[0]}
}

type modalState struct {
	mode   ModalMode
	noteID api.ID
	draft  Draft
}

// OpenForCreate opens an empty editor. An open editor is replaced.
func (s *Store) OpenForCreate() {
	s.mu.Lock()
	s.modal = modalState{mode: ModalCreating, draft: newDraft()}
	s.mu.Unlock()
	s.changed()
}

// OpenForEdit opens the cached note id. It does nothing and returns false when
// the note is not in the cache.
func (s *Store) OpenForEdit(id api.ID) bool {
	s.mu.Lock()
	n, ok := s.note(id)
	if !ok {
		s.mu.Unlock()
		s.log.Debug().Str("note_id", id.String()).Msg("edit requested for a note not in the cache")
		return false
	}

	draft := Draft{Title: n.Title, Content: n.Content, Color: n.Color, Font: n.Font}
	if draft.Color == "" {
		draft.Color = NoteColors[0]
	}
	if draft.Font == "" {
		draft.Font = NoteFonts[0]
	}
	s.modal = modalState{mode: ModalEditing, noteID: id, draft: draft}
	s.mu.Unlock()
	s.changed()
	return true
}

// Close discards the draft and clears the current note id
func (s *Store) Close() {
	s.mu.Lock()
	s.modal = modalState{}
	s.mu.Unlock()
	s.changed()
}

// UpdateDraft stores the editor's fields without saving
func (s *Store) UpdateDraft(d Draft) {
	s.mu.Lock()
	if s.modal.mode != ModalClosed {
		s.modal.draft = d
	}
	s.mu.Unlock()
}

// Save validates the draft and creates or updates the note. On success it
// bursts hearts, closes the editor and reloads the folder. On failure the
// editor stays open with the draft intact.
func (s *Store) Save(ctx context.Context, d Draft) error {
	s.mu.Lock()
	m := s.modal
	folderID := s.folderID
	if m.mode != ModalClosed {
		s.modal.draft = d
	}
	s.mu.Unlock()

	if m.mode == ModalClosed {
		return ErrModalClosed
	}
	if d.IsEmpty() {
		s.notifier.Alert(emptyNoteWarning)
		return ErrEmptyNote
	}
	if folderID == "" {
		s.notifier.Alert(noFolderWarning)
		return ErrNoFolder
	}

	in := api.NoteInput{
		Title:    strings.TrimSpace(d.Title),
		Content:  d.Content,
		Color:    d.Color,
		Font:     d.Font,
		FolderID: folderID,
	}

	var err error
	if m.mode == ModalEditing {
		_, err = s.backend.UpdateNote(ctx, m.noteID, in)
	} else {
		in.MemoryDate = s.now().Format("2006-01-02")
		_, err = s.backend.CreateNote(ctx, in)
	}
	if err != nil {
		s.log.Error().Err(err).Str("mode", m.mode.String()).Msg("failed to save note")
		s.notifier.Alert("Failed to save note: " + userMessage(err, err.Error()))
		return fmt.Errorf("failed to save note: %w", err)
	}

	s.log.Info().Str("mode", m.mode.String()).Str("note_id", m.noteID.String()).Msg("note saved")
	s.notifier.Hearts()

	s.mu.Lock()
	// a different note may have been opened while the request was in flight
	if s.modal.mode == m.mode && s.modal.noteID == m.noteID {
		s.modal = modalState{}
	}
	s.mu.Unlock()
	s.changed()

	return s.reload(ctx)
}
