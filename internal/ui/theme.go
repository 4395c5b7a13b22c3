package ui

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette + symbols.
// Styles are bound to the renderer of one writer, so piped output stays plain.
type Theme struct {
	Name                                          string
	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Done, Selected                                lipgloss.Style
	BoxUnchecked, BoxChecked                      string
	SymDone, SymPending, SymFail, SymWarn         string
}

// NewTheme builds the named theme for w. Unknown names fall back to classic.
func NewTheme(w io.Writer, name string) Theme {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:         "neon",
			Title:        fg("13").Bold(true),
			Muted:        fg("8"),
			Accent:       fg("14"),
			Success:      fg("10"),
			Error:        fg("9").Bold(true),
			Pending:      fg("11"),
			Done:         fg("10").Faint(true),
			Selected:     r.NewStyle().Bold(true).Reverse(true),
			BoxUnchecked: "◻",
			BoxChecked:   "◼",
			SymDone:      "✔",
			SymPending:   "•",
			SymFail:      "✖",
			SymWarn:      "!",
		}
	case "mono":
		plain := r.NewStyle()
		return Theme{
			Name:         "mono",
			Title:        plain,
			Muted:        plain,
			Accent:       plain,
			Success:      plain,
			Error:        plain,
			Pending:      plain,
			Done:         plain,
			Selected:     plain,
			BoxUnchecked: "[ ]",
			BoxChecked:   "[x]",
			SymDone:      "x",
			SymPending:   "-",
			SymFail:      "x",
			SymWarn:      "!",
		}
	default: // classic
		return Theme{
			Name:         "classic",
			Title:        r.NewStyle().Bold(true),
			Muted:        r.NewStyle().Faint(true),
			Accent:       fg("12"),
			Success:      fg("2"),
			Error:        fg("9").Bold(true),
			Pending:      fg("3"),
			Done:         fg("2").Faint(true).Strikethrough(true),
			Selected:     r.NewStyle().Bold(true).Reverse(true),
			BoxUnchecked: "☐",
			BoxChecked:   "☑",
			SymDone:      "✔",
			SymPending:   "•",
			SymFail:      "✖",
			SymWarn:      "!",
		}
	}
}
