package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/notify"
	"pgregory.net/rapid"
)

func TestSelectFolderLoadsNotes(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("7", api.Note{ID: "1", Title: "Groceries", Content: "<p>milk</p>"})
	s.SetWidth(80)

	if err := s.SelectFolder(context.Background(), "7", "Home"); err != nil {
		t.Fatalf("SelectFolder returned error: %v", err)
	}

	st := s.Snapshot()
	if st.ActiveFolderID != "7" || st.ActiveFolderName != "Home" {
		t.Errorf("active folder = %s/%s", st.ActiveFolderID, st.ActiveFolderName)
	}
	if !strings.Contains(st.Greeting, "Home") {
		t.Errorf("greeting %q should name the folder", st.Greeting)
	}
	if !st.SidebarHidden {
		t.Error("sidebar should hide on a narrow terminal")
	}
	if len(st.Notes) != 1 || st.Notes[0].Title != "Groceries" {
		t.Errorf("notes not loaded: %+v", st.Notes)
	}
}

func TestSelectFolderUnknownIDYieldsEmptyList(t *testing.T) {
	s, _ := newTestStore(t)
	s.SetWidth(160)

	if err := s.SelectFolder(context.Background(), "999", "Ghost"); err != nil {
		t.Fatalf("SelectFolder returned error: %v", err)
	}
	if s.Snapshot().SidebarHidden {
		t.Error("sidebar should stay visible on a wide terminal")
	}

	view := s.RenderNotes(40, 3)
	if !view.Empty || view.EmptyMessage == "" {
		t.Errorf("expected the empty state, got %+v", view)
	}
}

func TestLoadNotesFailureKeepsCache(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("1", api.Note{ID: "5", Title: "keep me"})
	ctx := context.Background()

	if err := s.LoadNotes(ctx, "1"); err != nil {
		t.Fatalf("LoadNotes returned error: %v", err)
	}
	drain(s.Notifier())

	fb.fail("/get_notes/", http.StatusInternalServerError)
	err := s.LoadNotes(ctx, "1")

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected *api.Error 500, got %v", err)
	}
	if notes := s.Notes(); len(notes) != 1 || notes[0].Title != "keep me" {
		t.Errorf("cache changed after a failed load: %+v", notes)
	}

	events := drain(s.Notifier())
	if !hasEvent(events, notify.KindAlert) {
		t.Error("a failed load should raise an alert")
	}
}

func TestLoadNotesRedirectKeepsCache(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("7", api.Note{ID: "5", Title: "keep me"})
	ctx := context.Background()

	if err := s.LoadNotes(ctx, "7"); err != nil {
		t.Fatalf("LoadNotes returned error: %v", err)
	}
	drain(s.Notifier())

	fb.fail("/get_notes/", http.StatusFound)
	err := s.LoadNotes(ctx, "7")

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusFound {
		t.Errorf("expected *api.Error 302, got %v", err)
	}
	if notes := s.Notes(); len(notes) != 1 || notes[0].Title != "keep me" {
		t.Errorf("cache changed after a redirected load: %+v", notes)
	}
	if !hasEvent(drain(s.Notifier()), notify.KindAlert) {
		t.Error("a redirected load should raise an alert")
	}
}

func TestSaveRedirectStaysOpen(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()
	s.SelectFolder(ctx, "7", "Home")
	drain(s.Notifier())

	fb.fail("/create_note", http.StatusFound)
	s.OpenForCreate()
	if err := s.Save(ctx, Draft{Title: "Trip", Content: "<p>pack</p>"}); err == nil {
		t.Fatal("expected an error for a redirected save")
	}

	if s.Snapshot().Modal == ModalClosed {
		t.Error("modal should stay open")
	}
	events := drain(s.Notifier())
	if hasEvent(events, notify.KindHearts) || !hasEvent(events, notify.KindAlert) {
		t.Errorf("expected an alert and no hearts, got %+v", events)
	}
}

func TestLoadNotesSignalsChange(t *testing.T) {
	s, _ := newTestStore(t)

	select {
	case <-s.Changes():
	default:
	}

	s.LoadNotes(context.Background(), "1")
	select {
	case <-s.Changes():
	default:
		t.Error("expected a change signal after loading")
	}
}

func TestRenderNotesCards(t *testing.T) {
	now := time.Date(2024, time.May, 10, 12, 0, 0, 0, time.Local)
	s, fb := newTestStore(t)
	s.now = func() time.Time { return now }

	fb.addNote("1", api.Note{
		ID:        "1",
		Title:     "  ",
		Content:   "<h2>Plan</h2><p>buy <b>bread</b> &amp; eggs</p>",
		Color:     "#ffd1dc",
		CreatedAt: api.Timestamp{Time: now.AddDate(0, 0, -1)},
	})
	s.LoadNotes(context.Background(), "1")

	view := s.RenderNotes(80, 3)
	if view.Empty || len(view.Cards) != 1 {
		t.Fatalf("expected one card, got %+v", view)
	}

	c := view.Cards[0]
	if c.Title != "Untitled" {
		t.Errorf("Title = %q, want Untitled", c.Title)
	}
	if c.Preview != "Plan buy bread & eggs" {
		t.Errorf("Preview = %q", c.Preview)
	}
	if c.Date != "Yesterday" {
		t.Errorf("Date = %q, want Yesterday", c.Date)
	}
	if !strings.Contains(c.Markup, "<b>bread</b>") {
		t.Errorf("Markup should keep the original content: %q", c.Markup)
	}
}

func TestSearchNotes(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("1", api.Note{ID: "1", Title: "Groceries", Content: "<p>milk</p>"})
	fb.addNote("1", api.Note{ID: "2", Title: "Work", Content: "<p>standup notes</p>"})
	s.LoadNotes(context.Background(), "1")

	if got := s.SearchNotes(""); len(got) != 2 {
		t.Errorf("empty query should return all notes, got %d", len(got))
	}

	got := s.SearchNotes("stnd")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("fuzzy search returned %+v", got)
	}
}

func TestDeleteNoteDeclined(t *testing.T) {
	s, fb := newTestStore(t)
	before := fb.requestCount()

	err := s.DeleteNote(context.Background(), "1", neverConfirm)
	if !errors.Is(err, ErrDeclined) {
		t.Errorf("expected ErrDeclined, got %v", err)
	}
	if fb.requestCount() != before {
		t.Error("declining must not issue a request")
	}
}

func TestDeleteNoteReloads(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("3", api.Note{ID: "1", Title: "a"})
	fb.addNote("3", api.Note{ID: "2", Title: "b"})
	ctx := context.Background()
	s.SelectFolder(ctx, "3", "Folder")

	if err := s.DeleteNote(ctx, "1", alwaysConfirm); err != nil {
		t.Fatalf("DeleteNote returned error: %v", err)
	}
	if notes := s.Notes(); len(notes) != 1 || notes[0].ID != "2" {
		t.Errorf("cache should reflect the server after delete: %+v", notes)
	}
}

func TestFolderLifecycle(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateFolder(ctx, "  "); !errors.Is(err, ErrEmptyFolderName) {
		t.Errorf("expected ErrEmptyFolderName, got %v", err)
	}
	if fb.requestCount() != 0 {
		t.Error("an empty name must not reach the server")
	}

	if err := s.CreateFolder(ctx, "Recipes"); err != nil {
		t.Fatalf("CreateFolder returned error: %v", err)
	}
	folders := s.Snapshot().Folders
	if len(folders) != 1 || folders[0].Name != "Recipes" {
		t.Fatalf("folder list not refreshed: %+v", folders)
	}

	id := folders[0].ID
	s.SelectFolder(ctx, id, "Recipes")

	if err := s.DeleteFolder(ctx, id, neverConfirm); !errors.Is(err, ErrDeclined) {
		t.Errorf("expected ErrDeclined, got %v", err)
	}
	if err := s.DeleteFolder(ctx, id, alwaysConfirm); err != nil {
		t.Fatalf("DeleteFolder returned error: %v", err)
	}

	st := s.Snapshot()
	if len(st.Folders) != 0 {
		t.Errorf("folder still listed: %+v", st.Folders)
	}
	if st.ActiveFolderID != "" {
		t.Error("deleting the active folder should clear the selection")
	}
}

func TestDeleteActiveFolderWhenListFails(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()
	fb.folders = []api.Folder{{ID: "3", Name: "Old"}}
	fb.addNote("3", api.Note{ID: "9", Title: "stale"})

	if err := s.SelectFolder(ctx, "3", "Old"); err != nil {
		t.Fatalf("SelectFolder returned error: %v", err)
	}
	select {
	case <-s.Changes():
	default:
	}

	fb.fail("/get_folders", http.StatusInternalServerError)
	if err := s.DeleteFolder(ctx, "3", alwaysConfirm); err != nil {
		t.Fatalf("DeleteFolder returned error: %v", err)
	}

	select {
	case <-s.Changes():
	default:
		t.Error("expected a change signal after clearing the active folder")
	}
	st := s.Snapshot()
	if st.ActiveFolderID != "" || len(st.Notes) != 0 {
		t.Errorf("deleted folder still shown: %s %+v", st.ActiveFolderID, st.Notes)
	}
}

func TestDeclinedDeletesNeverReachServer(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s, fb := newTestStore(t)
		id := api.ID(rapid.StringMatching(`[0-9]{1,6}`).Draw(rt, "id"))
		folder := rapid.Bool().Draw(rt, "folder")

		var err error
		if folder {
			err = s.DeleteFolder(context.Background(), id, neverConfirm)
		} else {
			err = s.DeleteNote(context.Background(), id, nil)
		}

		if !errors.Is(err, ErrDeclined) {
			rt.Fatalf("expected ErrDeclined, got %v", err)
		}
		if fb.requestCount() != 0 {
			rt.Fatalf("declined delete issued %d requests", fb.requestCount())
		}
	})
}
