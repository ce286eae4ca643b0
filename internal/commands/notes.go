package commands

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/muesli/reflow/truncate"
	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/richtext"
	"github.com/redjax/notefolio/internal/services"
	"github.com/redjax/notefolio/internal/utils"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"
)

type noteFlags struct {
	folder  string
	title   string
	content string
	file    string
	color   string
	font    string
}

func (f *noteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Note title")
	cmd.Flags().StringVar(&f.content, "content", "", "Note body as plain text")
	cmd.Flags().StringVar(&f.file, "file", "", "Read the body from a file (.md is converted, .html is kept)")
	cmd.Flags().StringVar(&f.color, "color", "", fmt.Sprintf("Card color, one of %s", strings.Join(services.NoteColors, ", ")))
	cmd.Flags().StringVar(&f.font, "font", "", fmt.Sprintf("Font, one of %s", strings.Join(services.NoteFonts, ", ")))
}

// NewNotesCmd creates the notes command
func NewNotesCmd(getRuntime func() *Runtime) *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:     "notes",
		Aliases: []string{"note", "n"},
		Short:   "List and manage notes",
		Long:    `List, create, edit, delete and preview the notes in a folder.`,
	}
	cmd.PersistentFlags().StringVarP(&folder, "folder", "f", "", "Folder ID")
	cmd.MarkPersistentFlagRequired("folder")

	var search string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the notes in a folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListNotes(cmd, getRuntime(), api.ID(folder), search)
		},
	}
	listCmd.Flags().StringVarP(&search, "search", "s", "", "Fuzzy filter on title and body")

	var create noteFlags
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			create.folder = folder
			return runSaveNote(cmd, getRuntime(), "", create)
		},
	}
	create.register(createCmd)

	var edit noteFlags
	editCmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change a note's title, body, color or font",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			edit.folder = folder
			return runSaveNote(cmd, getRuntime(), api.ID(args[0]), edit)
		},
	}
	edit.register(editCmd)

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeleteNote(cmd, getRuntime(), api.ID(folder), api.ID(args[0]), yes)
		},
	}
	deleteCmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	previewCmd := &cobra.Command{
		Use:   "preview ID",
		Short: "Open a note in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreviewNote(cmd, getRuntime(), api.ID(folder), api.ID(args[0]))
		},
	}

	cmd.AddCommand(listCmd, createCmd, editCmd, deleteCmd, previewCmd)

	return cmd
}

func runListNotes(cmd *cobra.Command, rt *Runtime, folder api.ID, search string) error {
	store := rt.NewStore()
	if err := store.SelectFolder(cmd.Context(), folder, ""); err != nil {
		printEvents(store.Notifier(), cmd.ErrOrStderr())
		return err
	}

	view := store.RenderNotes(50, 1)
	if view.Empty {
		fmt.Fprintln(cmd.OutOrStdout(), view.EmptyMessage)
		return nil
	}

	cards := view.Cards
	if search != "" {
		byID := make(map[api.ID]services.Card, len(cards))
		for _, c := range cards {
			byID[c.ID] = c
		}
		cards = nil
		for _, n := range store.SearchNotes(search) {
			cards = append(cards, byID[n.ID])
		}
		if len(cards) == 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "No notes match %q\n", search)
			return nil
		}
	}

	titleWidth := utils.MaxNameLen(utils.DetectTerminalWidth(utils.NarrowWidth), 8, 64, 13)
	rows := make([][]string, len(cards))
	for i, c := range cards {
		rows[i] = []string{c.ID.String(), truncate.StringWithTail(c.Title, uint(titleWidth), "..."), c.Date, c.Preview}
	}
	renderTable(cmd.OutOrStdout(), []string{"ID", "Title", "Created", "Preview"}, rows)
	return nil
}

// runSaveNote creates a note when id is empty and edits it otherwise. Flags
// left unset keep the note's current values.
func runSaveNote(cmd *cobra.Command, rt *Runtime, id api.ID, f noteFlags) error {
	store := rt.NewStore()
	ctx := cmd.Context()

	if err := store.SelectFolder(ctx, api.ID(f.folder), ""); err != nil {
		printEvents(store.Notifier(), cmd.ErrOrStderr())
		return err
	}

	if id == "" {
		store.OpenForCreate()
	} else if !store.OpenForEdit(id) {
		return fmt.Errorf("note %s not found in folder %s: %w", id, f.folder, services.ErrNoteNotFound)
	}
	draft := store.Snapshot().Draft

	if cmd.Flags().Changed("title") {
		draft.Title = f.title
	}
	if cmd.Flags().Changed("color") {
		draft.Color = f.color
	}
	if cmd.Flags().Changed("font") {
		draft.Font = f.font
	}
	switch {
	case f.file != "":
		markup, err := markupFromFile(f.file)
		if err != nil {
			return err
		}
		draft.Content = markup
	case cmd.Flags().Changed("content"):
		draft.Content = markupFromText(f.content)
	}

	err := store.Save(ctx, draft)
	printEvents(store.Notifier(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	if id == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "Note created.")
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), "Note updated.")
	}
	return nil
}

func runDeleteNote(cmd *cobra.Command, rt *Runtime, folder, id api.ID, yes bool) error {
	store := rt.NewStore()
	ctx := cmd.Context()

	if err := store.SelectFolder(ctx, folder, ""); err != nil {
		printEvents(store.Notifier(), cmd.ErrOrStderr())
		return err
	}

	err := store.DeleteNote(ctx, id, promptConfirm(cmd.InOrStdin(), cmd.OutOrStdout(), yes))
	printEvents(store.Notifier(), cmd.ErrOrStderr())
	if errors.Is(err, services.ErrDeclined) {
		fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
		return nil
	}
	return err
}

func runPreviewNote(cmd *cobra.Command, rt *Runtime, folder, id api.ID) error {
	store := rt.NewStore()
	if err := store.SelectFolder(cmd.Context(), folder, ""); err != nil {
		printEvents(store.Notifier(), cmd.ErrOrStderr())
		return err
	}

	for _, n := range store.Notes() {
		if n.ID != id {
			continue
		}
		path, err := services.NewPreviewService().PreviewNote(n)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Preview written to %s\n", path)
		return nil
	}
	return fmt.Errorf("note %s not found in folder %s: %w", id, folder, services.ErrNoteNotFound)
}

// markupFromText turns plain text into paragraphs, one per line
func markupFromText(text string) string {
	ed := richtext.NewEditor()
	ed.Insert(text)
	return ed.Markup()
}

// markupFromFile reads a note body. Markdown is converted to HTML and all
// markup is normalised through the rich-text codec.
func markupFromFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	var markup string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		var buf bytes.Buffer
		if err := goldmark.Convert(data, &buf); err != nil {
			return "", fmt.Errorf("failed to convert %s: %w", path, err)
		}
		markup = buf.String()
	case ".html", ".htm":
		markup = string(data)
	default:
		return markupFromText(string(data)), nil
	}

	doc, err := richtext.Parse(markup)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc.Render(), nil
}
