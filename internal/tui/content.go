package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/strongcode/gymbook/internal/logger"
	"github.com/strongcode/gymbook/internal/view"
	"github.com/strongcode/gymbook/pkg/domain"
)

// -- messages --

type loadedMsg struct {
	src  view.Source
	prev view.Source // shown when the load started
	err  error
}

type bookedMsg struct {
	classID int
	booking *domain.Booking
	err     error
}

type copyResultMsg struct {
	text string
	err  error
}

// copyFn is swapped out in tests; the real clipboard needs a display.
var copyFn = clipboard.WriteAll

// -- model --

// contentModel is the dashboard's shared content pane. Every tab renders
// into the same view.Container.
type contentModel struct {
	loader  *view.Loader
	log     *zap.Logger
	pending view.Source // last requested; differs from shown() after a failed load
	cursor  int
	status  string
	cancel  context.CancelFunc
	width   int
	height  int
}

func newContentModel(l *view.Loader, log *zap.Logger) contentModel {
	return contentModel{loader: l, log: log}
}

// load starts fetching src. A load still in flight is cancelled; if its
// response arrives anyway the container discards it.
func (m contentModel) load(src view.Source) (contentModel, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.pending = src
	m.status = ""

	l := m.loader
	prev := m.shown()
	gen := l.Container().Begin()
	return m, func() tea.Msg {
		return loadedMsg{src: src, prev: prev, err: l.LoadAt(ctx, gen, src)}
	}
}

// stop cancels any in-flight load and empties the pane.
func (m contentModel) stop() contentModel {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.loader.Container().Reset()
	m.pending = view.SourceNone
	m.cursor = 0
	m.status = ""
	return m
}

// shown is the source whose fragments are on screen.
func (m contentModel) shown() view.Source {
	return m.loader.Container().Source()
}

func (m contentModel) Update(msg tea.Msg) (contentModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case loadedMsg:
		if msg.err != nil {
			// The previous contents stay on screen; failures are only logged.
			if !errors.Is(msg.err, view.ErrSuperseded) && !errors.Is(msg.err, context.Canceled) {
				m.log.Debug("content unchanged after failed load", logger.Screen(string(msg.src)))
			}
			return m, nil
		}
		if msg.src != msg.prev {
			m.cursor = 0
		}
		if n := len(m.loader.Container().Fragments()); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}

	case copyResultMsg:
		if msg.err != nil {
			m.status = "copy failed"
		} else {
			m.status = "copied " + truncStr(msg.text, 40)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m contentModel) handleKey(msg tea.KeyMsg) (contentModel, tea.Cmd) {
	frags := m.loader.Container().Fragments()
	m.status = ""

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(frags)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "g", "home":
		m.cursor = 0
	case "G", "end":
		m.cursor = max(len(frags)-1, 0)
	case "r":
		if src := m.shown(); src != view.SourceNone {
			return m.load(src)
		}
		if m.pending != view.SourceNone {
			return m.load(m.pending)
		}
	case "b", "enter":
		if m.cursor < len(frags) {
			if a := frags[m.cursor].Action; a != nil && a.Kind == view.ActionBook {
				return m, m.book(a.ClassID)
			}
		}
	case "c":
		if m.cursor < len(frags) {
			text := copyText(m.loader.Container().Source(), frags[m.cursor])
			return m, func() tea.Msg {
				return copyResultMsg{text: text, err: copyFn(text)}
			}
		}
	}
	return m, nil
}

func (m contentModel) book(classID int) tea.Cmd {
	l := m.loader
	return func() tea.Msg {
		b, err := l.BookClass(context.Background(), classID)
		return bookedMsg{classID: classID, booking: b, err: err}
	}
}

// copyText picks the useful part of a fragment for the clipboard.
func copyText(src view.Source, f view.Fragment) string {
	if src == view.SourceGyms && f.Body != "" {
		return view.Sanitize(f.Body)
	}
	return view.Sanitize(f.Title)
}

func (m contentModel) View() string {
	c := m.loader.Container()
	src := c.Source()
	if src == view.SourceNone {
		return ""
	}
	frags := c.Fragments()
	if len(frags) == 0 {
		return "\n " + dimStyle.Render("no "+string(src)+" yet") + "\n"
	}

	enc := view.TerminalEncoder{}
	cards := make([]string, len(frags))
	for i, f := range frags {
		cards[i] = enc.Card(f, i == m.cursor)
	}
	start := scrollStart(cards, m.cursor, m.height-1)

	var b strings.Builder
	for _, card := range cards[start:] {
		b.WriteString(card + "\n")
	}
	if m.status != "" {
		b.WriteString("\n " + accentStyle.Render(m.status) + "\n")
	}
	return b.String()
}

// scrollStart returns the first card to draw so that the cursor's card fits
// within maxLines.
func scrollStart(cards []string, cursor, maxLines int) int {
	if maxLines <= 0 || cursor >= len(cards) {
		return 0
	}
	lines := 0
	start := cursor
	for i := cursor; i >= 0; i-- {
		lines += strings.Count(cards[i], "\n") + 1
		if lines > maxLines {
			break
		}
		start = i
	}
	return start
}

func (m contentModel) helpKeys() string {
	keys := []string{helpEntry("1-3", "tabs"), helpEntry("j/k", "nav")}
	if m.shown() == view.SourceClasses {
		keys = append(keys, helpEntry("b", "book"))
	}
	keys = append(keys, helpEntry("c", "copy"), helpEntry("r", "reload"), helpEntry("x", "logout"), helpEntry("h", "help"), helpEntry("q", "quit"))
	return strings.Join(keys, "  ")
}
