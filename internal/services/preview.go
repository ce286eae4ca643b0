package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/redjax/notefolio/internal/api"
	"github.com/redjax/notefolio/internal/format"
	"github.com/redjax/notefolio/internal/richtext"
)

// PreviewService renders a note as a standalone HTML page and opens it in the
// default browser
type PreviewService struct {
	tempDir string
	open    func(path string) error
}

// NewPreviewService creates a new preview service
func NewPreviewService() *PreviewService {
	return &PreviewService{
		tempDir: os.TempDir(),
		open:    openInBrowser,
	}
}

// PreviewNote writes the note page to a temp file and opens it. The returned
// path is the written file.
func (p *PreviewService) PreviewNote(n api.Note) (string, error) {
	page, err := p.NoteHTML(n)
	if err != nil {
		return "", fmt.Errorf("failed to render note: %w", err)
	}

	tempFile := filepath.Join(p.tempDir, fmt.Sprintf("notefolio-preview-%s.html", n.ID))
	if err := os.WriteFile(tempFile, []byte(page), 0644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	if err := p.open(tempFile); err != nil {
		return tempFile, fmt.Errorf("failed to open browser: %w", err)
	}

	return tempFile, nil
}

// NoteHTML returns the full preview page. The note body goes through the
// rich-text codec so only the supported markup survives.
func (p *PreviewService) NoteHTML(n api.Note) (string, error) {
	doc, err := richtext.Parse(n.Content)
	if err != nil {
		return "", err
	}

	color := n.Color
	if color == "" {
		color = NoteColors[0]
	}
	font := n.Font
	if font == "" {
		font = NoteFonts[0]
	}

	return p.wrapHTML(doc.Render(), displayTitle(n.Title), color, font), nil
}

// wrapHTML wraps the note HTML in a complete HTML document with styling
func (p *PreviewService) wrapHTML(content, title, color, font string) string {
	title = format.EscapeHTML(title)

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - Preview</title>
    <style>
        :root {
            --bg-color: #ffffff;
            --text-color: #24292e;
            --border-color: #e1e4e8;
            --note-color: %s;
        }

        @media (prefers-color-scheme: dark) {
            :root {
                --bg-color: #0d1117;
                --text-color: #c9d1d9;
                --border-color: #30363d;
            }
        }

        * {
            box-sizing: border-box;
        }

        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Helvetica, Arial, sans-serif;
            color: var(--text-color);
            background-color: var(--bg-color);
            max-width: 780px;
            margin: 0 auto;
            padding: 45px;
        }

        .note {
            font-family: "%s", sans-serif;
            font-size: 16px;
            line-height: 1.6;
            color: #24292e;
            background-color: var(--note-color);
            border: 1px solid var(--border-color);
            border-radius: 12px;
            padding: 24px 32px;
        }

        .note h1 {
            font-size: 1.8em;
            margin-top: 0;
            padding-bottom: 0.3em;
            border-bottom: 1px solid rgba(0, 0, 0, 0.1);
        }

        .note h2 {
            font-size: 1.4em;
            margin-top: 24px;
            margin-bottom: 12px;
        }

        p {
            margin-top: 0;
            margin-bottom: 12px;
        }

        ul, ol {
            padding-left: 2em;
            margin-top: 0;
            margin-bottom: 12px;
        }

        li + li {
            margin-top: 0.25em;
        }
    </style>
</head>
<body>
<article class="note">
<h1>%s</h1>
%s
</article>
</body>
</html>`, title, format.EscapeHTML(color), format.EscapeHTML(font), title, content)
}

// openInBrowser opens the file in the default browser using OS-specific commands
func openInBrowser(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
