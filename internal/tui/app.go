package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/strongcode/gymbook/internal/auth"
	"github.com/strongcode/gymbook/internal/browser"
	"github.com/strongcode/gymbook/internal/logger"
	"github.com/strongcode/gymbook/internal/session"
	"github.com/strongcode/gymbook/internal/view"
	"github.com/strongcode/gymbook/pkg/domain"
)

type screen int

const (
	screenLanding screen = iota
	screenDashboard
)

// navigateMsg moves the app to a location.
type navigateMsg struct {
	location auth.Location
}

type tabEntry struct {
	key  string
	name string
	src  view.Source
}

var tabs = []tabEntry{
	{"1", "Classes", view.SourceClasses},
	{"2", "Gyms", view.SourceGyms},
	{"3", "Bookings", view.SourceBookings},
}

// Deps wires the app to the rest of the program.
type Deps struct {
	Flow    *auth.Flow
	Loader  *view.Loader
	Tokens  session.Store
	DocsURL string
	Log     *zap.Logger

	// StartAtLogin opens the login form even when a token is stored.
	StartAtLogin bool
}

// App is the root Bubbletea model.
type App struct {
	flow       *auth.Flow
	tokens     session.Store
	log        *zap.Logger
	screen     screen
	login      loginModel
	content    contentModel
	claims     *domain.Claims
	confirm    *domain.Booking // blocking "Booked!" overlay when set
	helpOpen   bool
	helpCursor int
	helpItems  []helpItem
	width      int
	height     int
	frame      int // logo shimmer animation frame
	now        func() time.Time
}

// NewApp creates a new TUI application. It starts on the dashboard when a
// token is already stored and on the landing screen otherwise.
func NewApp(d Deps) App {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	a := App{
		flow:      d.Flow,
		tokens:    d.Tokens,
		log:       log,
		login:     newLoginModel(d.Flow),
		content:   newContentModel(d.Loader, log),
		helpItems: helpItemsFor(d.DocsURL),
		now:       time.Now,
	}
	if _, ok := d.Tokens.Token(); ok && !d.StartAtLogin {
		a.screen = screenDashboard
	}
	return a
}

func (a App) Init() tea.Cmd {
	start := auth.LocationLanding
	if a.screen == screenDashboard {
		start = auth.LocationDashboard
	}
	return tea.Batch(shimmerTickCmd(), func() tea.Msg { return navigateMsg{location: start} })
}

// navigate switches screens. Reaching the dashboard loads the first tab.
func (a App) navigate(loc auth.Location) (App, tea.Cmd) {
	a.log.Debug("navigate", logger.Location(loc.String()))
	switch loc {
	case auth.LocationDashboard:
		a.screen = screenDashboard
		a.claims = a.readClaims()
		a.confirm = nil
		var cmd tea.Cmd
		a.content, cmd = a.content.load(tabs[0].src)
		return a, cmd
	case auth.LocationLanding:
		a.screen = screenLanding
		a.claims = nil
		a.confirm = nil
		a.helpOpen = false
		a.content = a.content.stop()
		a.login = newLoginModel(a.flow)
	}
	return a, nil
}

func (a App) readClaims() *domain.Claims {
	tok, ok := a.tokens.Token()
	if !ok {
		return nil
	}
	c, err := session.ParseClaims(tok)
	if err != nil {
		return nil
	}
	return &c
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + tabs(1) + help(1) = 4 lines
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.content, _ = a.content.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		a.login, _ = a.login.Update(msg)
		return a, shimmerTickCmd()

	case navigateMsg:
		return a.navigate(msg.location)

	case loginResultMsg:
		a.login, _ = a.login.Update(msg)
		if msg.err == nil {
			return a.navigate(msg.location)
		}
		return a, nil

	case bookedMsg:
		if msg.err == nil && msg.booking != nil {
			a.confirm = msg.booking
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.screen == screenLanding {
			var cmd tea.Cmd
			a.login, cmd = a.login.Update(msg)
			return a, cmd
		}
		return a.handleDashboardKey(msg)
	}

	if a.screen == screenDashboard {
		var cmd tea.Cmd
		a.content, cmd = a.content.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) handleDashboardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The confirmation blocks everything until dismissed.
	if a.confirm != nil {
		switch msg.String() {
		case "enter", "esc", " ", "y":
			a.confirm = nil
		}
		return a, nil
	}

	if a.helpOpen {
		switch msg.String() {
		case "h", "esc":
			a.helpOpen = false
		case "q":
			return a, tea.Quit
		case "j", "down":
			if a.helpCursor < len(a.helpItems)-1 {
				a.helpCursor++
			}
		case "k", "up":
			if a.helpCursor > 0 {
				a.helpCursor--
			}
		case "enter":
			if a.helpCursor < len(a.helpItems) {
				browser.Open(a.helpItems[a.helpCursor].url) //nolint:errcheck // best-effort browser open
			}
		}
		return a, nil
	}

	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "h":
		a.helpOpen = true
		a.helpCursor = 0
		return a, nil
	case "x":
		loc, err := a.flow.Logout()
		if err != nil {
			a.log.Error("logout", zap.Error(err))
		}
		return a.navigate(loc)
	case "1", "2", "3":
		t := tabs[msg.String()[0]-'1']
		// A tab already on screen is left alone; after a failed switch the
		// same key retries.
		if a.content.shown() == t.src {
			return a, nil
		}
		var cmd tea.Cmd
		a.content, cmd = a.content.load(t.src)
		return a, cmd
	}

	var cmd tea.Cmd
	a.content, cmd = a.content.Update(msg)
	return a, cmd
}

func (a App) View() string {
	header := a.centered(renderShimmerLogo(a.frame)) + "\n" + a.centered(a.statusLine())

	var tabBar, body, help string
	switch a.screen {
	case screenLanding:
		body = a.login.View()
		help = " " + a.login.helpKeys()
	case screenDashboard:
		tabBar = a.tabBar()
		body = a.content.View()
		help = " " + a.content.helpKeys()
		if a.helpOpen {
			body = helpView(a.helpItems, a.helpCursor)
			help = " " + helpEntry("j/k", "nav") + "  " + helpEntry("enter", "open") + "  " + helpEntry("esc", "close")
		}
		if a.confirm != nil {
			body = a.confirmView()
			help = " " + helpEntry("enter", "ok")
		}
	}

	// Chrome budget: header(2) + tabs(1) + help(1) = 4 lines + body
	body = strings.TrimRight(truncateToHeight(body, a.height-4), "\n")
	return fmt.Sprintf("%s\n%s\n%s\n%s", header, tabBar, body, help)
}

// statusLine shows who is signed in, from the token's claims when readable.
func (a App) statusLine() string {
	if a.screen == screenLanding {
		return metaStyle.Render("sign in to book classes")
	}
	if a.claims == nil {
		return ""
	}
	var parts []string
	if a.claims.UserID > 0 {
		parts = append(parts, fmt.Sprintf("user #%d", a.claims.UserID))
	}
	if a.claims.IsAdmin {
		parts = append(parts, adminStyle.Render("admin"))
	}
	if !a.claims.ExpiresAt.IsZero() {
		parts = append(parts, formatUntil(a.claims.ExpiresAt, a.now()))
	}
	return metaStyle.Render(strings.Join(parts, " · "))
}

// tabBar spreads the tabs across equal-width columns.
func (a App) tabBar() string {
	colWidth := a.width / len(tabs)
	var b strings.Builder
	for _, t := range tabs {
		var label string
		if t.src == a.content.shown() {
			label = accentStyle.Render(t.key) + " " + selectedStyle.Underline(true).Render(t.name)
		} else {
			label = metaStyle.Render(t.key) + " " + dimStyle.Render(t.name)
		}
		labelWidth := lipgloss.Width(label)
		leftPad := max((colWidth-labelWidth)/2, 0)
		rightPad := max(colWidth-labelWidth-leftPad, 0)
		b.WriteString(strings.Repeat(" ", leftPad) + label + strings.Repeat(" ", rightPad))
	}
	return b.String()
}

func (a App) confirmView() string {
	b := a.confirm
	detail := fmt.Sprintf("booking #%d", b.ID)
	if b.Status != "" {
		detail += " · " + view.Sanitize(b.Status)
	}
	box := confirmBoxStyle.Render(accentStyle.Bold(true).Render("Booked!") + "\n" + dimStyle.Render(detail))
	return "\n" + a.centeredBlock(box)
}

func (a App) centered(s string) string {
	pad := max((a.width-lipgloss.Width(s))/2, 0)
	return strings.Repeat(" ", pad) + s
}

func (a App) centeredBlock(s string) string {
	if a.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, s)
}
