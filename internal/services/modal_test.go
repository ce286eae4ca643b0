package services

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/notify"
	"pgregory.net/rapid"
)

func TestOpenForCreate(t *testing.T) {
	s, _ := newTestStore(t)
	s.OpenForCreate()

	st := s.Snapshot()
	if st.Modal != ModalCreating || st.CurrentNoteID != "" {
		t.Errorf("modal = %s id=%q, want creating with no id", st.Modal, st.CurrentNoteID)
	}
	if st.Draft.Color != NoteColors[0] || st.Draft.Font != NoteFonts[0] {
		t.Errorf("draft should start with default color and font: %+v", st.Draft)
	}
}

func TestOpenForEditMissingIsNoop(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("1", api.Note{ID: "4", Title: "there"})
	s.LoadNotes(context.Background(), "1")

	if s.OpenForEdit("404") {
		t.Error("OpenForEdit should report false for an unknown id")
	}
	if st := s.Snapshot(); st.Modal != ModalClosed {
		t.Errorf("modal changed to %s", st.Modal)
	}

	s.OpenForEdit("4")
	s.OpenForEdit("404")
	if st := s.Snapshot(); st.Modal != ModalEditing || st.CurrentNoteID != "4" {
		t.Errorf("an open editor should be left alone, got %s %q", st.Modal, st.CurrentNoteID)
	}
}

func TestOpenReplacesDraft(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("1", api.Note{ID: "4", Title: "existing", Content: "<p>x</p>"})
	s.LoadNotes(context.Background(), "1")

	s.OpenForEdit("4")
	s.OpenForCreate()

	st := s.Snapshot()
	if st.Modal != ModalCreating || st.Draft.Title != "" || st.CurrentNoteID != "" {
		t.Errorf("open-for-create should replace the edit session: %+v", st)
	}
}

func TestSaveCreatesAndReloads(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()
	s.SelectFolder(ctx, "2", "Ideas")
	drain(s.Notifier())

	s.OpenForCreate()
	err := s.Save(ctx, Draft{Title: "New", Content: "<p>body</p>", Color: "#ffd1dc", Font: "Georgia"})
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	st := s.Snapshot()
	if st.Modal != ModalClosed {
		t.Errorf("modal should close after a successful save, got %s", st.Modal)
	}
	if len(st.Notes) != 1 || st.Notes[0].Title != "New" || st.Notes[0].Font != "Georgia" {
		t.Errorf("cache should hold the server's notes: %+v", st.Notes)
	}
	if !hasEvent(drain(s.Notifier()), notify.KindHearts) {
		t.Error("a successful save should burst hearts")
	}

	fb.mu.Lock()
	last := fb.requests[len(fb.requests)-1]
	fb.mu.Unlock()
	if last != "GET /get_notes/2" {
		t.Errorf("save should end with a reload, last request was %q", last)
	}
}

func TestSaveUpdatesExisting(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()
	fb.addNote("2", api.Note{ID: "9", Title: "old", Content: "<p>old</p>"})
	s.SelectFolder(ctx, "2", "Ideas")

	if !s.OpenForEdit("9") {
		t.Fatal("OpenForEdit should find the cached note")
	}
	if err := s.Save(ctx, Draft{Title: "new", Content: "<p>new</p>"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	notes := s.Notes()
	if len(notes) != 1 || notes[0].Title != "new" {
		t.Errorf("update not reflected: %+v", notes)
	}
	if st := s.Snapshot(); st.CurrentNoteID != "" {
		t.Error("closing should clear the current note id")
	}
}

func TestSaveFailureStaysOpen(t *testing.T) {
	s, fb := newTestStore(t)
	ctx := context.Background()
	s.SelectFolder(ctx, "2", "Ideas")
	drain(s.Notifier())
	fb.fail("/create_note", http.StatusInternalServerError)

	s.OpenForCreate()
	draft := Draft{Title: "keep", Content: "<p>me</p>"}
	err := s.Save(ctx, draft)

	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *api.Error, got %v", err)
	}
	st := s.Snapshot()
	if st.Modal != ModalCreating || st.Draft.Title != "keep" {
		t.Errorf("editor should stay open with the draft, got %s %+v", st.Modal, st.Draft)
	}

	events := drain(s.Notifier())
	if !hasEvent(events, notify.KindAlert) || hasEvent(events, notify.KindHearts) {
		t.Errorf("expected only an alert, got %+v", events)
	}
}

func TestSaveWithoutFolder(t *testing.T) {
	s, fb := newTestStore(t)
	s.OpenForCreate()

	err := s.Save(context.Background(), Draft{Title: "x"})
	if !errors.Is(err, ErrNoFolder) {
		t.Errorf("expected ErrNoFolder, got %v", err)
	}
	if fb.requestCount() != 0 {
		t.Error("no request should be made without a folder")
	}
}

func TestSaveClosedModal(t *testing.T) {
	s, _ := newTestStore(t)

	if err := s.Save(context.Background(), Draft{Title: "x"}); !errors.Is(err, ErrModalClosed) {
		t.Errorf("expected ErrModalClosed, got %v", err)
	}
}

func TestCloseClearsState(t *testing.T) {
	s, fb := newTestStore(t)
	fb.addNote("1", api.Note{ID: "4", Title: "n"})
	s.LoadNotes(context.Background(), "1")
	s.OpenForEdit("4")
	s.Close()

	st := s.Snapshot()
	if st.Modal != ModalClosed || st.CurrentNoteID != "" || st.Draft != (Draft{}) {
		t.Errorf("Close should reset the modal: %+v", st)
	}
}

// Empty drafts are rejected without any request, whatever the markup looks like
func TestEmptySaveNeverReachesServer(t *testing.T) {
	blank := rapid.SampledFrom([]string{
		"", " ", "\t", "<p></p>", "<p><br></p>", "<div> </div>", "<b>  </b>",
		"<ul><li></li></ul>", "<h2>\n</h2>", "<script>alert(1)</script>",
	})

	rapid.Check(t, func(rt *rapid.T) {
		s, fb := newTestStore(t)
		s.folderID = "1"
		s.OpenForCreate()

		title := rapid.StringMatching(`[ \t]{0,4}`).Draw(rt, "title")
		content := ""
		for i := rapid.IntRange(0, 3).Draw(rt, "parts"); i > 0; i-- {
			content += blank.Draw(rt, "part")
		}

		err := s.Save(context.Background(), Draft{Title: title, Content: content})
		if !errors.Is(err, ErrEmptyNote) {
			rt.Fatalf("Save(%q, %q) = %v, want ErrEmptyNote", title, content, err)
		}
		if fb.requestCount() != 0 {
			rt.Fatalf("empty save issued %d requests", fb.requestCount())
		}
		if s.Snapshot().Modal != ModalCreating {
			rt.Fatal("editor should stay open")
		}
	})
}
