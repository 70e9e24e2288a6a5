package report

import (
	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
)

// DefaultWidth is the wrap width for terminal output.
const DefaultWidth = 100

// RenderTerminal styles a markdown report for the terminal. Plain output
// uses the notty style, which keeps the layout without escape codes.
func RenderTerminal(md string, width int, plain bool) (out string, err error) {
	if width <= 0 {
		width = DefaultWidth
	}

	style := glamour.WithAutoStyle()
	if plain {
		style = glamour.WithStandardStyle("notty")
	}

	var r *glamour.TermRenderer
	r, err = glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		err = errors.Wrap(err, "failed to create markdown renderer")
		return out, err
	}

	out, err = r.Render(md)
	if err != nil {
		err = errors.Wrap(err, "failed to render report")
		return out, err
	}

	return out, err
}
