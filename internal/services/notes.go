package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/format"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/richtext"
	"github.com/sahilm/fuzzy"
)

const EmptyNotesMessage = "No notes in this folder yet. Create one to get started."

// Card is the view model of one note in the list
type Card struct {
	ID      api.ID
	Title   string
	Preview string
	Date    string
	Color   string
	Font    string
	// Markup is the untouched note body, kept for editing
	Markup string
}

// NotesView is what the notes list renders
type NotesView struct {
	Empty        bool
	EmptyMessage string
	Cards        []Card
}

// LoadNotes replaces the note cache with the folder's notes. On failure the
// cache keeps its previous contents.
func (s *Store) LoadNotes(ctx context.Context, folderID api.ID) error {
	notes, err := s.backend.GetNotes(ctx, folderID)
	if err != nil {
		s.log.Error().Err(err).Str("folder_id", folderID.String()).Msg("failed to load notes")
		s.notifier.Alert("Failed to load notes: " + userMessage(err, err.Error()))
		return fmt.Errorf("failed to load notes: %w", err)
	}

	s.mu.Lock()
	s.notes = notes
	s.mu.Unlock()
	s.changed()

	s.log.Debug().Str("folder_id", folderID.String()).Int("count", len(notes)).Msg("notes loaded")
	return nil
}

// reload refreshes the active folder, if any
func (s *Store) reload(ctx context.Context) error {
	s.mu.RLock()
	id := s.folderID
	s.mu.RUnlock()

	if id == "" {
		return nil
	}
	return s.LoadNotes(ctx, id)
}

// Notes returns a copy of the note cache
func (s *Store) Notes() []api.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]api.Note(nil), s.notes...)
}

func (s *Store) note(id api.ID) (api.Note, bool) {
	for _, n := range s.notes {
		if n.ID == id {
			return n, true
		}
	}
	return api.Note{}, false
}

// RenderNotes builds the card list from the cache. Previews are plain text
// wrapped to width and cut at lines.
func (s *Store) RenderNotes(width, lines int) NotesView {
	s.mu.RLock()
	notes := append([]api.Note(nil), s.notes...)
	s.mu.RUnlock()

	if len(notes) == 0 {
		return NotesView{Empty: true, EmptyMessage: EmptyNotesMessage}
	}

	now := s.now()
	cards := make([]Card, 0, len(notes))
	for _, n := range notes {
		cards = append(cards, Card{
			ID:      n.ID,
			Title:   displayTitle(n.Title),
			Preview: format.Preview(richtext.StripTags(n.Content), width, lines),
			Date:    format.FormatDate(n.CreatedAt.Time, now),
			Color:   n.Color,
			Font:    n.Font,
			Markup:  n.Content,
		})
	}
	return NotesView{Cards: cards}
}

func displayTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return "Untitled"
}

// SearchNotes fuzzy-matches query against note titles and plain-text bodies.
// An empty query returns every cached note.
func (s *Store) SearchNotes(query string) []api.Note {
	notes := s.Notes()
	query = strings.TrimSpace(query)
	if query == "" {
		return notes
	}

	targets := make([]string, len(notes))
	for i, n := range notes {
		targets[i] = n.Title + " " + richtext.StripTags(n.Content)
	}

	matches := fuzzy.Find(query, targets)
	result := make([]api.Note, 0, len(matches))
	for _, m := range matches {
		result = append(result, notes[m.Index])
	}
	return result
}

// DeleteNote removes a note after confirmation and reloads the folder.
// Declining issues no request.
func (s *Store) DeleteNote(ctx context.Context, id api.ID, confirm ConfirmFunc) error {
	if confirm == nil || !confirm("Delete this note?") {
		return ErrDeclined
	}

	if err := s.backend.DeleteNote(ctx, id); err != nil {
		s.log.Error().Err(err).Str("note_id", id.String()).Msg("failed to delete note")
		s.notifier.Alert("Failed to delete note: " + userMessage(err, err.Error()))
		return fmt.Errorf("failed to delete note: %w", err)
	}

	s.log.Info().Str("note_id", id.String()).Msg("note deleted")
	s.notifier.Toast("Note deleted", notify.LevelSuccess)
	return s.reload(ctx)
}
