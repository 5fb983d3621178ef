package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/strongcode/gymbook/internal/auth"
	"github.com/strongcode/gymbook/internal/browser"
	"github.com/strongcode/gymbook/internal/config"
	"github.com/strongcode/gymbook/internal/logger"
	"github.com/strongcode/gymbook/internal/session"
	"github.com/strongcode/gymbook/internal/tui"
	"github.com/strongcode/gymbook/internal/view"
	"github.com/strongcode/gymbook/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds everything a subcommand needs.
type app struct {
	cfg    *config.Config
	log    *zap.Logger
	store  *session.FileStore
	flow   *auth.Flow
	loader *view.Loader
	out    io.Writer
}

func newApp(cfg *config.Config, log *zap.Logger, out io.Writer) *app {
	store := session.NewFileStore(cfg.TokenFile(), cfg.TokenOverride)
	c := client.New(cfg.APIURL, store,
		client.WithTimeout(cfg.RequestTimeout),
		client.WithLogger(log),
	)
	return &app{
		cfg:    cfg,
		log:    log,
		store:  store,
		flow:   auth.NewFlow(c, store, log),
		loader: view.NewLoader(c, &view.Container{}, log),
		out:    out,
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		switch args[0] {
		case "--version", "version", "-v":
			fmt.Fprintln(stdout, "gymbook "+version)
			return nil
		case "help", "--help", "-h":
			printHelp(stdout)
			return nil
		}
	}

	cfg, err := config.LoadWithFile(".env")
	if err != nil {
		return err
	}
	log, closeLog, err := logger.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(cfg, log, stdout)
	if len(args) == 0 {
		if _, ok := a.store.Token(); !ok {
			printGreeting(stdout)
			return nil
		}
		return a.runTUI(false)
	}

	log.Debug("command", logger.Action(args[0]))
	switch args[0] {
	case "login":
		return a.runTUI(true)
	case "logout":
		return a.runLogout()
	case "whoami":
		return a.runWhoami()
	case string(view.SourceClasses), string(view.SourceGyms), string(view.SourceBookings):
		return a.runList(ctx, view.Source(args[0]), args[1:])
	case "book":
		return a.runBook(ctx, args[1:])
	case "docs":
		return a.runDocs()
	}
	return fmt.Errorf("unknown command %q (see: gymbook help)", args[0])
}

func (a *app) runTUI(startAtLogin bool) error {
	m := tui.NewApp(tui.Deps{
		Flow:         a.flow,
		Loader:       a.loader,
		Tokens:       a.store,
		DocsURL:      a.cfg.DocsURL(),
		Log:          a.log,
		StartAtLogin: startAtLogin,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func (a *app) runLogout() error {
	_, had := a.store.Token()
	if _, err := a.flow.Logout(); err != nil {
		return err
	}
	if !had {
		fmt.Fprintln(a.out, "Already logged out.")
		return nil
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *app) runWhoami() error {
	tok, ok := a.store.Token()
	if !ok {
		fmt.Fprintln(a.out, "Not logged in. Run: gymbook login")
		return nil
	}
	claims, err := session.ParseClaims(tok)
	if err != nil {
		fmt.Fprintln(a.out, "Logged in (token details unavailable).")
		return nil
	}

	fmt.Fprintf(a.out, "user:    #%d\n", claims.UserID)
	role := "member"
	if claims.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(a.out, "role:    %s\n", role)
	if !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "expires: %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *app) runList(ctx context.Context, src view.Source, args []string) error {
	html, err := parseListArgs(args)
	if err != nil {
		return err
	}
	if err := a.loader.Load(ctx, src); err != nil {
		return err
	}
	return encoderFor(html).Encode(a.out, a.loader.Container().Fragments())
}

func (a *app) runBook(ctx context.Context, args []string) error {
	id, err := parseClassID(args)
	if err != nil {
		return err
	}
	b, err := a.loader.BookClass(ctx, id)
	if err != nil {
		return err
	}
	detail := fmt.Sprintf("booking #%d", b.ID)
	if b.Status != "" {
		detail += " · " + view.Sanitize(b.Status)
	}
	fmt.Fprintf(a.out, "Booked! %s\n", detail)
	return nil
}

func (a *app) runDocs() error {
	u := a.cfg.DocsURL()
	if err := browser.Open(u); err != nil {
		fmt.Fprintln(a.out, u)
	}
	return nil
}

func encoderFor(html bool) view.Encoder {
	if html {
		return view.HTMLEncoder{}
	}
	return view.TerminalEncoder{}
}

// parseListArgs accepts an optional --html flag and nothing else.
func parseListArgs(args []string) (html bool, err error) {
	for _, arg := range args {
		switch arg {
		case "--html":
			html = true
		default:
			return false, fmt.Errorf("unexpected argument %q", arg)
		}
	}
	return html, nil
}

var errUsageBook = errors.New("usage: gymbook book <class-id>")

func parseClassID(args []string) (int, error) {
	if len(args) != 1 {
		return 0, errUsageBook
	}
	id, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid class id %q: %w", args[0], errUsageBook)
	}
	return id, nil
}
