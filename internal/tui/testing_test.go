package tui

import (
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/golang-jwt/jwt/v5"

	"github.com/strongcode/gymbook/internal/auth"
	"github.com/strongcode/gymbook/internal/session"
	"github.com/strongcode/gymbook/internal/view"
	"github.com/strongcode/gymbook/pkg/domain"
)

// fakeAPI stands in for the HTTP client in TUI tests.
type fakeAPI struct {
	mu        sync.Mutex
	token     string
	loginErr  error
	classes   []domain.Class
	gyms      []domain.Gym
	bookings  []domain.Booking
	listErr   error
	bookErr   error
	booked    []int
	listCalls int
}

func (f *fakeAPI) Login(_ context.Context, _ domain.LoginRequest) (*domain.LoginResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &domain.LoginResponse{Token: f.token}, nil
}

func (f *fakeAPI) ListClasses(context.Context) ([]domain.Class, error) {
	f.count()
	return f.classes, f.listErr
}

func (f *fakeAPI) ListGyms(context.Context) ([]domain.Gym, error) {
	f.count()
	return f.gyms, f.listErr
}

func (f *fakeAPI) ListBookings(context.Context) ([]domain.Booking, error) {
	f.count()
	return f.bookings, f.listErr
}

func (f *fakeAPI) CreateBooking(_ context.Context, classID int) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	f.booked = append(f.booked, classID)
	return &domain.Booking{ID: 5, Status: "confirmed"}, nil
}

func (f *fakeAPI) count() {
	f.mu.Lock()
	f.listCalls++
	f.mu.Unlock()
}

func yogaAPI() *fakeAPI {
	return &fakeAPI{
		token:    "tok",
		classes:  []domain.Class{{ID: 1, Name: "Yoga", Description: "Morning flow"}, {ID: 2, Name: "Spin", Description: "High cadence"}},
		gyms:     []domain.Gym{{ID: 1, Name: "Downtown", Address: "1 Main St"}},
		bookings: []domain.Booking{{ID: 5, Status: "confirmed"}},
	}
}

type testEnv struct {
	api   *fakeAPI
	store *session.MemoryStore
	pane  *view.Container
	deps  Deps
}

func newTestEnv(api *fakeAPI, token string) testEnv {
	store := session.NewMemoryStore(token)
	pane := &view.Container{}
	return testEnv{
		api:   api,
		store: store,
		pane:  pane,
		deps: Deps{
			Flow:    auth.NewFlow(api, store, nil),
			Loader:  view.NewLoader(api, pane, nil),
			Tokens:  store,
			DocsURL: "http://localhost:8080/swagger/index.html",
		},
	}
}

func newTestApp(env testEnv) App {
	a := NewApp(env.deps)
	a.width = 80
	a.height = 30
	a.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	a.content.height = 26
	return a
}

// drive feeds msg to the app and runs the resulting command chain
// synchronously, skipping timer ticks and batches it cannot unwrap.
func drive(t *testing.T, a App, msg tea.Msg) App {
	t.Helper()
	queue := []tea.Msg{msg}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 50 {
			t.Fatal("drive: too many steps")
		}
		next := queue[0]
		queue = queue[1:]
		model, cmd := a.Update(next)
		a = model.(App)
		queue = append(queue, runCmd(cmd)...)
	}
	return a
}

func runCmd(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()
	var msg tea.Msg
	select {
	case msg = <-done:
	case <-time.After(200 * time.Millisecond):
		return nil // tick commands block on a timer
	}
	switch msg := msg.(type) {
	case nil, shimmerTickMsg:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, runCmd(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("k"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}
