package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/notify"
	"github.com/redjax/notefolio/internal/richtext"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// SummaryHeading is the header block placed above an inserted summary
const SummaryHeading = "✨ AI Summary"

// Indicator is a loading indicator around the summarize request
type Indicator interface {
	Start(message string)
	Stop()
}

// Copier writes text to the clipboard
type Copier interface {
	Copy(text string) error
}

// Summary is the result shown in the summary overlay
type Summary struct {
	Text      string
	NoteID    api.ID
	CreatedAt time.Time
}

// flagIndicator keeps Loading() in the snapshot accurate around an indicator
type flagIndicator struct {
	s     *Store
	inner Indicator
}

func (f flagIndicator) Start(message string) {
	f.s.setLoading(true)
	if f.inner != nil {
		f.inner.Start(message)
	}
}

func (f flagIndicator) Stop() {
	if f.inner != nil {
		f.inner.Stop()
	}
	f.s.setLoading(false)
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
	s.changed()
}

// SummarizeDraft summarizes the text of markup, usually the open editor
func (s *Store) SummarizeDraft(ctx context.Context, markup string, ind Indicator) (*Summary, error) {
	return s.summarize(ctx, "", richtext.StripTags(markup), ind)
}

// SummarizeExisting summarizes a cached note
func (s *Store) SummarizeExisting(ctx context.Context, id api.ID, ind Indicator) (*Summary, error) {
	s.mu.RLock()
	n, ok := s.note(id)
	s.mu.RUnlock()

	if !ok {
		s.notifier.Alert("That note is no longer available.")
		return nil, ErrNoteNotFound
	}
	return s.summarize(ctx, id, richtext.StripTags(n.Content), ind)
}

// SummarizeText summarizes plain text without touching the cache
func (s *Store) SummarizeText(ctx context.Context, text string, ind Indicator) (*Summary, error) {
	return s.summarize(ctx, "", text, ind)
}

func (s *Store) summarize(ctx context.Context, id api.ID, text string, ind Indicator) (*Summary, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.notifier.Alert(emptySummaryWarning)
		return nil, ErrEmptySummaryInput
	}

	loading := flagIndicator{s: s, inner: ind}
	loading.Start("Summarizing...")
	defer loading.Stop()

	out, err := s.backend.Summarize(ctx, text)
	if err != nil {
		s.log.Error().Err(err).Int("chars", len(text)).Msg("summarize failed")
		s.notifier.Alert(userMessage(err, FallbackSummaryError))
		return nil, fmt.Errorf("failed to summarize: %w", err)
	}

	sum := &Summary{Text: out, NoteID: id, CreatedAt: s.now()}
	s.mu.Lock()
	s.summary = sum
	s.mu.Unlock()
	s.changed()

	cp := *sum
	return &cp, nil
}

// CurrentSummary returns the summary in the overlay, if any
func (s *Store) CurrentSummary() (Summary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.summary == nil {
		return Summary{}, false
	}
	return *s.summary, true
}

// CopySummary puts the current summary on the clipboard
func (s *Store) CopySummary(c Copier) error {
	sum, ok := s.CurrentSummary()
	if !ok {
		return ErrNoSummary
	}

	if err := c.Copy(sum.Text); err != nil {
		s.log.Warn().Err(err).Msg("clipboard copy failed")
		s.notifier.Toast("Could not copy to clipboard", notify.LevelError)
		return fmt.Errorf("failed to copy summary: %w", err)
	}

	s.notifier.Toast("Summary copied to clipboard", notify.LevelSuccess)
	return nil
}

// InsertSummary prepends the summary block to the open editor and closes the
// overlay. It fails without changes when no note is being edited.
func (s *Store) InsertSummary(ed *richtext.Editor) error {
	s.mu.RLock()
	open := s.modal.mode != ModalClosed
	sum := s.summary
	s.mu.RUnlock()

	if sum == nil {
		return ErrNoSummary
	}
	if !open || ed == nil {
		return ErrModalClosed
	}

	doc, err := SummaryDocument(sum.Text)
	if err != nil {
		return err
	}
	ed.PrependDocument(doc)

	s.mu.Lock()
	s.modal.draft.Content = ed.Markup()
	s.summary = nil
	s.mu.Unlock()
	s.changed()
	return nil
}

// DismissSummary closes the overlay
func (s *Store) DismissSummary() {
	s.mu.Lock()
	s.summary = nil
	s.mu.Unlock()
	s.changed()
}

var summaryMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Strikethrough,
	),
)

// SummaryDocument builds the block inserted into a note: the heading, the
// summary (markdown is honoured) and a trailing empty paragraph.
func SummaryDocument(summary string) (*richtext.Document, error) {
	var buf bytes.Buffer
	if err := summaryMarkdown.Convert([]byte(summary), &buf); err != nil {
		return nil, fmt.Errorf("failed to convert summary: %w", err)
	}

	body, err := richtext.Parse(buf.String())
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary: %w", err)
	}

	doc := richtext.New()
	doc.Blocks[0].Kind = richtext.Heading
	doc.InsertText(richtext.Pos{}, SummaryHeading, richtext.Style{})

	if !body.IsEmpty() {
		doc.Blocks = append(doc.Blocks, body.Blocks...)
	}
	doc.Blocks = append(doc.Blocks, &richtext.Block{Kind: richtext.Paragraph})
	return doc, nil
}
