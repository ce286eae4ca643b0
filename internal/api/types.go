package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ID is a backend identifier. The backend sends numbers for some rows and
// strings for others, so both are accepted and kept as text.
type ID string

func (id ID) String() string {
	return string(id)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", data, err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so the backend can compare them
// against integer columns.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999-0700",
	"2006-01-02T15:04:05.999999999-07",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-0700",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp parses the handful of formats the backend emits for created_at.
// Values without a zone are taken as UTC. A value in no known format decodes
// to the zero time and is kept in Raw.
type Timestamp struct {
	time.Time
	Raw string
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time, t.Raw = time.Time{}, ""
	var s string
	if err := json.Unmarshal(data, &s); err != nil || s == "" {
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	t.Raw = s
	return nil
}

// Unparsed reports whether the backend sent a value in no known format
func (t Timestamp) Unparsed() bool {
	return t.IsZero() && t.Raw != ""
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Folder is a named container of notes
type Folder struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"user_id,omitempty"`
}

// Note is a titled rich-text document. Content is HTML markup.
type Note struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     string    `json:"color"`
	Font      string    `json:"font"`
	CreatedAt Timestamp `json:"created_at"`
	FolderID  ID        `json:"folder_id"`
}

// NoteInput is the body of create and update requests
type NoteInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Color    string `json:"color"`
	Font     string `json:"font"`
	FolderID ID     `json:"folder_id"`

	// MemoryDate is the local calendar day a note was created on (YYYY-MM-DD)
	MemoryDate string `json:"memory_date,omitempty"`
}

// Status is the generic acknowledgement returned by mutating endpoints
type Status struct {
	Status  string `json:"status"`
	ID      ID     `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type summarizeRequest struct {
	Content string `json:"content"`
}

type summarizeResponse struct {
	Summary string `json:"summary"`
	Error   string `json:"error"`
}

// Error is returned for any non-2xx response
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.StatusCode)
}

// errorBody extracts a message from the error payloads the backend uses
func errorBody(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return ""
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
