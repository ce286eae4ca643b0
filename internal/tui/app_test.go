package tui

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/prefs"
	"github.com/redjax/notefolio/internal/richtext"
	"github.com/redjax/notefolio/internal/services"
	"github.com/rs/zerolog"
)

type testServer struct {
	mu       sync.Mutex
	requests []string
	notes    []api.Note
}

func (s *testServer) count(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (s *testServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Method+" "+r.URL.Path)

	switch {
	case r.URL.Path == "/get_folders":
		json.NewEncoder(w).Encode([]api.Folder{{ID: "1", Name: "Work"}, {ID: "2", Name: "Home"}})
	case strings.HasPrefix(r.URL.Path, "/get_notes/"):
		json.NewEncoder(w).Encode(s.notes)
	case r.URL.Path == "/summarize":
		io.WriteString(w, `{"summary":"Buy **milk**."}`)
	default:
		io.WriteString(w, `{"status":"success"}`)
	}
}

func newTestStore(t *testing.T) (*services.Store, *testServer) {
	t.Helper()
	ts := &testServer{notes: []api.Note{
		{ID: "10", Title: "Groceries", Content: "<p>milk and eggs</p>", Color: "#fff9c4"},
		{ID: "11", Title: "Standup", Content: "<p>ship the release</p>", Color: "#bbdefb"},
	}}
	srv := httptest.NewServer(ts)
	t.Cleanup(srv.Close)
	return services.NewStore(api.NewClient(srv.URL), notify.New()), ts
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func alt(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

func TestEffectsHeartsExpire(t *testing.T) {
	e := newEffects()
	now := time.Now()

	ev := notify.Event{Kind: notify.KindHearts, Hearts: []notify.Heart{{X: 10}, {X: 90}}}
	if !e.apply(ev, now) {
		t.Fatal("expected first event to start the tick loop")
	}
	if e.apply(ev, now) {
		t.Error("expected tick loop to start only once")
	}
	if line := e.heartsLine(20, now); !strings.Contains(line, "♥") {
		t.Errorf("expected hearts on screen, got %q", line)
	}

	if e.expire(now.Add(notify.HeartLifetime + time.Millisecond)) {
		t.Error("expected nothing left after the heart lifetime")
	}
	if len(e.hearts) != 0 {
		t.Errorf("expected hearts cleared, got %d", len(e.hearts))
	}
}

func TestEffectsAlert(t *testing.T) {
	e := newEffects()
	if e.apply(notify.Event{Kind: notify.KindAlert, Message: "Please add a title"}, time.Now()) {
		t.Error("alerts should not start the tick loop")
	}
	if e.alert() != "Please add a title" {
		t.Errorf("expected alert to be kept, got %q", e.alert())
	}
	if !strings.Contains(e.alertView(), "Please add a title") {
		t.Error("expected alert message in view")
	}
}

func TestAlertsQueueUntilDismissed(t *testing.T) {
	store, _ := newTestStore(t)
	app := NewAppModel(context.Background(), store, prefs.NewStore(t.TempDir()), nil, zerolog.Nop())

	var m tea.Model = app
	m, _ = m.Update(NotifyMsg{Event: notify.Event{Kind: notify.KindAlert, Message: "Failed to save note"}})
	m, _ = m.Update(NotifyMsg{Event: notify.Event{Kind: notify.KindAlert, Message: "Failed to load notes"}})

	got := m.(AppModel)
	if got.effects.alert() != "Failed to save note" {
		t.Errorf("expected the first alert on screen, got %q", got.effects.alert())
	}
	if !strings.Contains(got.effects.alertView(), "1 more") {
		t.Errorf("expected a pending count, got %q", got.effects.alertView())
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if a := m.(AppModel).effects.alert(); a != "Failed to load notes" {
		t.Errorf("expected the second alert after dismissing, got %q", a)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if a := m.(AppModel).effects.alert(); a != "" {
		t.Errorf("expected no alert left, got %q", a)
	}
}

func TestRenderDocumentListMarkers(t *testing.T) {
	doc, err := richtext.Parse("<ul><li>a</li></ul><ol><li>x</li><li>y</li></ol>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := renderDocument(doc, richtext.Selection{}, false, 0)
	for _, want := range []string{"• a", "1. x", "2. y"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestNextIn(t *testing.T) {
	list := []string{"a", "b", "c"}
	tests := map[string]string{"a": "b", "c": "a", "missing": "a", "B": "c"}
	for cur, want := range tests {
		if got := nextIn(list, cur); got != want {
			t.Errorf("nextIn(%q) = %q, want %q", cur, got, want)
		}
	}
}

func TestNotesEditorTypingUpdatesDraft(t *testing.T) {
	store, _ := newTestStore(t)
	store.OpenForCreate()

	m := NewNotesEditor(context.Background(), store, store.Snapshot())
	m, _ = m.Update(runes("Plan"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(runes("hi"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m, _ = m.Update(alt("b"))

	d := store.Snapshot().Draft
	if d.Title != "Plan" {
		t.Errorf("expected title 'Plan', got %q", d.Title)
	}
	if !strings.Contains(d.Content, "<b>hi</b>") {
		t.Errorf("expected bold content, got %q", d.Content)
	}
	if !m.editor.Active().Bold {
		t.Error("expected bold to be active at the caret")
	}
}

func TestNotesEditorEscape(t *testing.T) {
	store, _ := newTestStore(t)

	store.OpenForCreate()
	m := NewNotesEditor(context.Background(), store, store.Snapshot())
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := store.Snapshot().Modal; got != services.ModalClosed {
		t.Errorf("expected clean editor to close, got %v", got)
	}

	store.OpenForCreate()
	m = NewNotesEditor(context.Background(), store, store.Snapshot())
	m, _ = m.Update(runes("x"))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !m.showQuitConfirm {
		t.Fatal("expected discard confirmation for unsaved changes")
	}
	if got := store.Snapshot().Modal; got != services.ModalCreating {
		t.Errorf("expected editor to stay open, got %v", got)
	}
	m.Update(runes("y"))
	if got := store.Snapshot().Modal; got != services.ModalClosed {
		t.Errorf("expected editor closed after confirming, got %v", got)
	}
}

func TestNotesBrowserFilter(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	if err := store.SelectFolder(ctx, "1", "Work"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	m := NewNotesBrowser(ctx, store, 80, 40).sync(store.Snapshot())
	if len(m.cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(m.cards))
	}

	m, _ = m.Update(runes("/"))
	if !m.Busy() {
		t.Error("expected search to capture keys")
	}
	m, _ = m.Update(runes("eggs"))
	if len(m.cards) != 1 || m.cards[0].Title != "Groceries" {
		t.Errorf("expected only Groceries, got %+v", m.cards)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if len(m.cards) != 2 {
		t.Errorf("expected filter cleared, got %d cards", len(m.cards))
	}
}

func TestNotesBrowserDeclinedDelete(t *testing.T) {
	store, ts := newTestStore(t)
	ctx := context.Background()
	store.SelectFolder(ctx, "1", "Work")

	m := NewNotesBrowser(ctx, store, 80, 40).sync(store.Snapshot())
	m, _ = m.Update(runes("d"))
	if !m.confirmDelete {
		t.Fatal("expected delete confirmation")
	}
	if !strings.Contains(m.View(true), "Delete 'Groceries'?") {
		t.Error("expected confirmation dialog in view")
	}

	m, cmd := m.Update(runes("n"))
	if cmd != nil {
		t.Error("expected no command after declining")
	}
	if m.confirmDelete {
		t.Error("expected dialog closed")
	}
	if n := ts.count("DELETE"); n != 0 {
		t.Errorf("expected no delete request, got %d", n)
	}
}

func TestDashboardSelectFolder(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	m := NewDashboard(ctx, store)
	msg := m.Init()()
	if done, ok := msg.(opDoneMsg); !ok || done.err != nil {
		t.Fatalf("expected folders to load, got %+v", msg)
	}
	m = m.sync(store.Snapshot())

	m, _ = m.Update(runes("j"))
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a select command")
	}
	done := cmd().(opDoneMsg)
	if done.err != nil || !done.focusNotes {
		t.Errorf("unexpected result %+v", done)
	}

	st := store.Snapshot()
	if st.ActiveFolderID != "2" || st.ActiveFolderName != "Home" {
		t.Errorf("expected Home to be active, got %q %q", st.ActiveFolderID, st.ActiveFolderName)
	}
}

func TestAppInsertSummaryIntoEditor(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	app := NewAppModel(ctx, store, prefs.NewStore(t.TempDir()), nil, zerolog.Nop())
	store.OpenForCreate()
	model, _ := app.Update(StoreChangedMsg{})
	app = model.(AppModel)
	if app.editor == nil {
		t.Fatal("expected editor to open")
	}

	if _, err := store.SummarizeText(ctx, "long text", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	model, _ = app.Update(StoreChangedMsg{})
	app = model.(AppModel)
	if app.summary == nil {
		t.Fatal("expected summary overlay")
	}

	model, _ = app.Update(runes("i"))
	model, _ = model.Update(StoreChangedMsg{})
	app = model.(AppModel)

	if app.summary != nil {
		t.Error("expected overlay dismissed after insert")
	}
	text := app.editor.Editor().PlainText()
	if !strings.HasPrefix(text, services.SummaryHeading) {
		t.Errorf("expected summary heading first, got %q", text)
	}
	if !strings.Contains(store.Snapshot().Draft.Content, "milk") {
		t.Error("expected draft to include the summary")
	}
}

func TestAppThemeToggle(t *testing.T) {
	store, _ := newTestStore(t)
	ps := prefs.NewStore(t.TempDir())

	app := NewAppModel(context.Background(), store, ps, nil, zerolog.Nop())
	app.Update(runes("t"))
	if !ps.Get().Dark() {
		t.Error("expected dark theme after toggle")
	}

	loaded := prefs.NewStore(filepath.Dir(ps.Path()))
	p, err := loaded.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Theme != prefs.ThemeDark {
		t.Errorf("expected persisted dark theme, got %q", p.Theme)
	}
}
