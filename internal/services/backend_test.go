package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/notify"
)

// fakeBackend is an in-memory version of the notes server
type fakeBackend struct {
	mu       sync.Mutex
	folders  []api.Folder
	notes    map[string][]api.Note // by folder id
	nextID   int
	requests []string
	failures map[string]int // path prefix -> status
	summary  string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		notes:    map[string][]api.Note{},
		nextID:   100,
		failures: map[string]int{},
		summary:  "A short summary.",
	}
}

func (f *fakeBackend) requestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeBackend) fail(prefix string, status int) {
	f.mu.Lock()
	f.failures[prefix] = status
	f.mu.Unlock()
}

func (f *fakeBackend) addNote(folder string, n api.Note) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.FolderID = api.ID(folder)
	f.notes[folder] = append(f.notes[folder], n)
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	for prefix, status := range f.failures {
		if strings.HasPrefix(r.URL.Path, prefix) {
			if status >= 300 && status < 400 {
				http.Redirect(w, r, "/login", status)
				return
			}
			w.WriteHeader(status)
			io.WriteString(w, `{"error":"backend says no"}`)
			return
		}
	}

	path := r.URL.Path
	switch {
	case path == "/get_folders":
		json.NewEncoder(w).Encode(f.folders)

	case path == "/create_folder":
		r.ParseForm()
		f.nextID++
		f.folders = append(f.folders, api.Folder{ID: api.ID(fmt.Sprint(f.nextID)), Name: r.PostForm.Get("name")})
		http.Redirect(w, r, "/dashboard", http.StatusFound)

	case strings.HasPrefix(path, "/delete_folder/"):
		id := strings.TrimPrefix(path, "/delete_folder/")
		for i, fo := range f.folders {
			if fo.ID.String() == id {
				f.folders = append(f.folders[:i], f.folders[i+1:]...)
				break
			}
		}
		delete(f.notes, id)
		io.WriteString(w, `{"status":"success"}`)

	case strings.HasPrefix(path, "/get_notes/"):
		json.NewEncoder(w).Encode(f.notes[strings.TrimPrefix(path, "/get_notes/")])

	case path == "/create_note":
		var in api.NoteInput
		json.NewDecoder(r.Body).Decode(&in)
		f.nextID++
		id := api.ID(fmt.Sprint(f.nextID))
		f.notes[in.FolderID.String()] = append(f.notes[in.FolderID.String()], api.Note{
			ID: id, Title: in.Title, Content: in.Content, Color: in.Color, Font: in.Font,
			FolderID: in.FolderID, CreatedAt: api.Timestamp{Time: time.Now()},
		})
		fmt.Fprintf(w, `{"status":"success","id":%s}`, id)

	case strings.HasPrefix(path, "/update_note/"):
		var in api.NoteInput
		json.NewDecoder(r.Body).Decode(&in)
		id := strings.TrimPrefix(path, "/update_note/")
		for i, n := range f.notes[in.FolderID.String()] {
			if n.ID.String() == id {
				n.Title, n.Content, n.Color, n.Font = in.Title, in.Content, in.Color, in.Font
				f.notes[in.FolderID.String()][i] = n
			}
		}
		io.WriteString(w, `{"status":"success"}`)

	case strings.HasPrefix(path, "/delete_note/"):
		id := strings.TrimPrefix(path, "/delete_note/")
		for folder, notes := range f.notes {
			for i, n := range notes {
				if n.ID.String() == id {
					f.notes[folder] = append(notes[:i], notes[i+1:]...)
					break
				}
			}
		}
		io.WriteString(w, `{"status":"success"}`)

	case path == "/summarize":
		json.NewEncoder(w).Encode(map[string]string{"summary": f.summary})

	default:
		http.NotFound(w, r)
	}
}

func newTestStore(t *testing.T) (*Store, *fakeBackend) {
	t.Helper()
	fb := newFakeBackend()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	client := api.NewClient(srv.URL, api.WithTimeout(5*time.Second))
	return NewStore(client, notify.New()), fb
}

// drain returns every event published so far
func drain(n *notify.Notifier) []notify.Event {
	var events []notify.Event
	for {
		select {
		case ev := <-n.Events():
			events = append(events, ev)
		default:
			return events
		}
	}
}

func hasEvent(events []notify.Event, kind notify.Kind) bool {
	for _, ev := range events {
		if ev.Kind == kind {
			return true
		}
	}
	return false
}

func alwaysConfirm(string) bool { return true }
func neverConfirm(string) bool  { return false }

type countingIndicator struct {
	starts, stops int
}

func (c *countingIndicator) Start(string) { c.starts++ }
func (c *countingIndicator) Stop()        { c.stops++ }

type fakeCopier struct {
	text string
	err  error
}

func (f *fakeCopier) Copy(text string) error {
	if f.err != nil {
		return f.err
	}
	f.text = text
	return nil
}
