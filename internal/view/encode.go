package view

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Encoder writes fragments in an output format.
type Encoder interface {
	Encode(w io.Writer, frags []Fragment) error
}

// Sanitize makes server text safe to print on a terminal: escape sequences
// are removed and remaining control characters become spaces.
func Sanitize(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

var (
	cardTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e4ec")).
			Bold(true)

	cardBodyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	cardActionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#34d474"))

	cardSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#34d474")).
				Bold(true)
)

// TerminalEncoder renders fragments as styled text cards.
type TerminalEncoder struct{}

// Card renders a single fragment. selected marks the cursor row.
func (TerminalEncoder) Card(f Fragment, selected bool) string {
	cursor := "  "
	title := cardTitleStyle.Render(Sanitize(f.Title))
	if selected {
		cursor = cardSelectedStyle.Render("▸ ")
	}
	line := cursor + title
	if f.Action != nil && f.Action.Kind == ActionBook {
		line += "  " + cardActionStyle.Render("[b] Book")
	}
	if body := Sanitize(f.Body); body != "" {
		line += "\n    " + cardBodyStyle.Render(body)
	}
	return line
}

func (e TerminalEncoder) Encode(w io.Writer, frags []Fragment) error {
	for _, f := range frags {
		if _, err := fmt.Fprintln(w, e.Card(f, false)); err != nil {
			return err
		}
	}
	return nil
}

var cardTemplate = template.Must(template.New("cards").Parse(`{{range .}}<div class="card">
  <h3>{{.Title}}</h3>
  <p>{{.Body}}</p>
{{- with .Action}}
  <button class="book" data-class-id="{{.ClassID}}">Book</button>
{{- end}}
</div>
{{end}}`))

// HTMLEncoder renders fragments as HTML cards with contextual escaping of
// every server-supplied field.
type HTMLEncoder struct{}

func (HTMLEncoder) Encode(w io.Writer, frags []Fragment) error {
	return cardTemplate.Execute(w, frags)
}
