package render

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/jmylchreest/huepick/internal/colour"
	"github.com/jmylchreest/huepick/internal/palette"
)

// Terminal renders palettes as coloured swatches. While a session is
// loading it keeps a one-line progress indicator updated in place, but only
// when writing to a terminal.
type Terminal struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	live     bool

	mu      sync.Mutex
	pending bool // a progress line is on screen
	err     error
}

// NewTerminal creates a Terminal renderer writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{
		out:      w,
		renderer: lipgloss.NewRenderer(w),
		live:     isTerminal(w),
	}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render implements palette.Renderer.
func (t *Terminal) Render(v palette.View) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !v.Final {
		if t.live && v.Loading {
			t.write(fmt.Sprintf("\r\033[K%s %s", t.progressStyle().Render("extracting"), progress(v)))
			t.pending = true
		}
		return
	}

	if t.pending {
		t.write("\r\033[K")
		t.pending = false
	}
	t.write(t.Format(v.Colours))
}

// Err returns the first write error, if any.
func (t *Terminal) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Terminal) write(s string) {
	if t.err != nil {
		return
	}
	if _, err := io.WriteString(t.out, s); err != nil {
		t.err = err
	}
}

func progress(v palette.View) string {
	switch len(v.Colours) {
	case 0:
		return "waiting for clusters"
	case 1:
		return "1 colour"
	default:
		return fmt.Sprintf("%d colours", len(v.Colours))
	}
}

func (t *Terminal) progressStyle() lipgloss.Style {
	return t.renderer.NewStyle().Foreground(lipgloss.Color(colour.Accent().Hex())).Bold(true)
}

// Swatch renders the hex code of c on its own colour, in its text colour.
func (t *Terminal) Swatch(c colour.ClassifiedColour) string {
	return t.renderer.NewStyle().
		Background(lipgloss.Color(c.Hex)).
		Foreground(lipgloss.Color(c.TextColour)).
		Padding(0, 1).
		Render(c.Hex)
}

// Format lays out colours as a table of swatches with their names, in order.
func (t *Terminal) Format(colours []colour.ClassifiedColour) string {
	if len(colours) == 0 {
		return "no colours found\n"
	}

	total := 0.0
	for _, c := range colours {
		total += c.Size
	}

	table := NewTable([]string{"#", "COLOUR", "NAME", "RGB", "SHARE"})
	for i, c := range colours {
		share := "-"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*c.Size/total)
		}
		table.AddRow([]string{
			fmt.Sprintf("%d", i+1),
			t.Swatch(c),
			c.Name,
			fmt.Sprintf("%d %d %d", c.RGB.R, c.RGB.G, c.RGB.B),
			share,
		})
	}
	return table.Render()
}
