package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/rs/zerolog"
)

// Backend is the subset of the API client the store needs
type Backend interface {
	ListFolders(ctx context.Context) ([]api.Folder, error)
	CreateFolder(ctx context.Context, name string) error
	DeleteFolder(ctx context.Context, id api.ID) error
	GetNotes(ctx context.Context, folderID api.ID) ([]api.Note, error)
	CreateNote(ctx context.Context, in api.NoteInput) (api.Status, error)
	UpdateNote(ctx context.Context, id api.ID, in api.NoteInput) (api.Status, error)
	DeleteNote(ctx context.Context, id api.ID) error
	Summarize(ctx context.Context, content string) (string, error)
}

// ConfirmFunc asks the user to approve a destructive action
type ConfirmFunc func(message string) bool

// Store owns all client-side state: the active folder, the note cache, the
// note modal and the current summary. Views read snapshots and call the
// mutation methods; every change is announced on Changes().
type Store struct {
	backend  Backend
	notifier *notify.Notifier
	log      zerolog.Logger
	now      func() time.Time

	changes chan struct{}

	mu            sync.RWMutex
	width         int
	folders       []api.Folder
	folderID      api.ID
	folderName    string
	greeting      string
	sidebarHidden bool
	notes         []api.Note
	modal         modalState
	summary       *Summary
	loading       bool
}

type StoreOption func(*Store)

func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) {
		s.log = log
	}
}

// WithClock replaces time.Now, used for card dates
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(backend Backend, notifier *notify.Notifier, opts ...StoreOption) *Store {
	s := &Store{
		backend:  backend,
		notifier: notifier,
		log:      zerolog.Nop(),
		now:      time.Now,
		changes:  make(chan struct{}, 1),
		width:    utils.NarrowWidth,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notifier returns the event bus the store publishes to
func (s *Store) Notifier() *notify.Notifier {
	return s.notifier
}

// Changes signals that state changed and views should re-render.
// Signals coalesce: a pending signal is never duplicated.
func (s *Store) Changes() <-chan struct{} {
	return s.changes
}

func (s *Store) changed() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// State is a read-only copy of the store
type State struct {
	Folders          []api.Folder
	ActiveFolderID   api.ID
	ActiveFolderName string
	Greeting         string
	SidebarHidden    bool
	Notes            []api.Note
	Modal            ModalMode
	CurrentNoteID    api.ID
	Draft            Draft
	Summary          *Summary
	Loading          bool
}

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := State{
		Folders:          append([]api.Folder(nil), s.folders...),
		ActiveFolderID:   s.folderID,
		ActiveFolderName: s.folderName,
		Greeting:         s.greeting,
		SidebarHidden:    s.sidebarHidden,
		Notes:            append([]api.Note(nil), s.notes...),
		Modal:            s.modal.mode,
		CurrentNoteID:    s.modal.noteID,
		Draft:            s.modal.draft,
		Loading:          s.loading,
	}
	if s.summary != nil {
		sum := *s.summary
		st.Summary = &sum
	}
	return st
}

// SetWidth records the terminal width. Widening past the narrow breakpoint
// brings the sidebar back.
func (s *Store) SetWidth(width int) {
	s.mu.Lock()
	s.width = width
	if width >= utils.NarrowWidth {
		s.sidebarHidden = false
	}
	s.mu.Unlock()
	s.changed()
}

func (s *Store) ToggleSidebar() {
	s.mu.Lock()
	s.sidebarHidden = !s.sidebarHidden
	s.mu.Unlock()
	s.changed()
}

// ListFolders fetches the folder list and caches it for the sidebar
func (s *Store) ListFolders(ctx context.Context) ([]api.Folder, error) {
	folders, err := s.backend.ListFolders(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load folders")
		s.notifier.Alert("Failed to load folders: " + userMessage(err, err.Error()))
		return nil, fmt.Errorf("failed to list folders: %w", err)
	}

	s.mu.Lock()
	s.folders = folders
	s.mu.Unlock()
	s.changed()

	return folders, nil
}

// CreateFolder creates a folder and refreshes the folder list
func (s *Store) CreateFolder(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		s.notifier.Alert(emptyFolderNameWarning)
		return ErrEmptyFolderName
	}

	if err := s.backend.CreateFolder(ctx, name); err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("failed to create folder")
		s.notifier.Alert("Failed to create folder: " + userMessage(err, err.Error()))
		return fmt.Errorf("failed to create folder: %w", err)
	}

	s.log.Info().Str("name", name).Msg("folder created")
	s.notifier.Toast(fmt.Sprintf("Folder %q created", name), notify.LevelSuccess)

	_, err := s.ListFolders(ctx)
	return err
}

// DeleteFolder removes a folder after confirmation. Declining issues no request.
func (s *Store) DeleteFolder(ctx context.Context, id api.ID, confirm ConfirmFunc) error {
	if confirm == nil || !confirm("Delete this folder and all of its notes?") {
		return ErrDeclined
	}

	if err := s.backend.DeleteFolder(ctx, id); err != nil {
		s.log.Error().Err(err).Str("folder_id", id.String()).Msg("failed to delete folder")
		s.notifier.Alert("Failed to delete folder: " + userMessage(err, err.Error()))
		return fmt.Errorf("failed to delete folder: %w", err)
	}

	s.mu.Lock()
	if s.folderID == id {
		s.folderID = ""
		s.folderName = ""
		s.greeting = ""
		s.notes = nil
	}
	s.mu.Unlock()
	s.changed()

	s.notifier.Toast("Folder deleted", notify.LevelSuccess)
	if _, err := s.ListFolders(ctx); err != nil {
		s.log.Warn().Err(err).Str("folder_id", id.String()).Msg("folder deleted but the list could not be refreshed")
	}
	return nil
}

// SelectFolder makes id the active folder and loads its notes. The id is not
// validated; an unknown folder just yields an empty list.
func (s *Store) SelectFolder(ctx context.Context, id api.ID, name string) error {
	s.mu.Lock()
	s.folderID = id
	s.folderName = name
	s.greeting = greetingFor(name)
	if s.width < utils.NarrowWidth {
		s.sidebarHidden = true
	}
	s.mu.Unlock()
	s.changed()

	s.log.Debug().Str("folder_id", id.String()).Str("name", name).Msg("folder selected")
	return s.LoadNotes(ctx, id)
}

func greetingFor(name string) string {
	if name == "" {
		return "Your notes"
	}
	return "📁 " + name
}
