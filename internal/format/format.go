package format

import (
	"fmt"
	"strings"
	"time"

	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/net/html"
)

// DateLayout is the calendar format used for notes older than a week
const DateLayout = "Jan 2, 2006"

// EscapeHTML escapes text so it renders literally when placed back into markup
func EscapeHTML(s string) string {
	return html.EscapeString(s)
}

// FormatDate returns a relative label for t as seen from now.
//
// Days are counted on local calendar dates, so 23:59 yesterday is "Yesterday"
// even when it was only a minute ago.
func FormatDate(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	t = t.In(now.Location())
	days := daysBetween(t, now)

	switch {
	case days <= 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format(DateLayout)
	}
}

func daysBetween(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Preview wraps text to width and keeps at most maxLines lines.
// The last kept line gets an ellipsis when text was cut.
func Preview(text string, width, maxLines int) string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" || width <= 0 || maxLines <= 0 {
		return ""
	}

	lines := strings.Split(wordwrap.String(text, width), "\n")
	if len(lines) <= maxLines {
		for i, line := range lines {
			lines[i] = truncate.StringWithTail(line, uint(width), "…")
		}
		return strings.Join(lines, "\n")
	}

	lines = lines[:maxLines]
	last := strings.TrimRight(lines[maxLines-1], " ")
	if len([]rune(last)) >= width {
		last = strings.TrimRight(truncate.String(last, uint(width-1)), " ")
	}
	lines[maxLines-1] = last + "…"

	for i := 0; i < maxLines-1; i++ {
		lines[i] = truncate.StringWithTail(lines[i], uint(width), "…")
	}

	return strings.Join(lines, "\n")
}
