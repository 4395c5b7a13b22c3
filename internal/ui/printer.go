package ui

import (
	"fmt"
	"io"

	"github.com/idilsaglam/todos/internal/model"
)

// Printer writes item listings and status messages.
type Printer struct {
	out, err     io.Writer
	outTh, errTh Theme
}

// NewPrinter returns a Printer writing listings to out and failures to errw.
func NewPrinter(out, errw io.Writer, theme string) *Printer {
	return &Printer{
		out:   out,
		err:   errw,
		outTh: NewTheme(out, theme),
		errTh: NewTheme(errw, theme),
	}
}

// Theme returns the theme used for standard output.
func (p *Printer) Theme() Theme { return p.outTh }

func (p *Printer) OK(msg string) {
	fmt.Fprintln(p.out, p.outTh.Success.Render(p.outTh.SymDone+" "+msg))
}

func (p *Printer) Fail(msg string) {
	fmt.Fprintln(p.err, p.errTh.Error.Render(p.errTh.SymFail+" "+msg))
}

func (p *Printer) Warn(msg string) {
	fmt.Fprintln(p.err, p.errTh.Pending.Render(p.errTh.SymWarn+" "+msg))
}

// Hint prints a muted follow-up line on the error stream.
func (p *Printer) Hint(msg string) {
	fmt.Fprintln(p.err, p.errTh.Muted.Render(msg))
}

// Items prints one "<id> - <text>" line per item, in the given order.
func (p *Printer) Items(items []model.Item) {
	for _, line := range Lines(p.outTh, items) {
		fmt.Fprintln(p.out, line)
	}
}

// Grouped prints pending items, then completed ones, under headers.
func (p *Printer) Grouped(items []model.Item) {
	pending, done := model.Split(items)
	th := p.outTh
	section := func(title string, items []model.Item) {
		fmt.Fprintln(p.out, th.Accent.Render(title))
		if len(items) == 0 {
			fmt.Fprintln(p.out, th.Muted.Render("(none)"))
			return
		}
		for _, line := range Lines(th, items) {
			fmt.Fprintln(p.out, line)
		}
	}
	section("Pending", pending)
	fmt.Fprintln(p.out)
	section("Done", done)
}

// Lines formats items for display. An empty collection yields a single muted line.
func Lines(th Theme, items []model.Item) []string {
	if len(items) == 0 {
		return []string{th.Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		style := th.Pending
		if it.Completed {
			style = th.Success
		}
		out = append(out, fmt.Sprintf("%d - %s", it.ID, style.Render(it.Text)))
	}
	return out
}
